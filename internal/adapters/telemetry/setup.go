package telemetry

import (
	"context"
	"errors"
	"os"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/extbuild/internal/core/ports"
	"go.trai.ch/zerr"
)

// RunIDKey is the resource attribute that tags every span of one invocation.
const RunIDKey = "extbuild.run_id"

// Options configures the tracer provider of one run.
type Options struct {
	// RunID tags every span; a random one is generated when empty.
	RunID string
	// TraceFile receives the spans as JSON when set.
	TraceFile string
	// Observer receives cycle durations when set.
	Observer ports.Observer
}

// NewRunID returns a random run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// Setup installs a global tracer provider for one run and returns the
// function that flushes and releases it.
func Setup(opts Options) (func(context.Context) error, error) {
	if opts.RunID == "" {
		opts.RunID = NewRunID()
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", InstrumentationName),
		attribute.String(RunIDKey, opts.RunID),
	)
	providerOpts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}

	if opts.Observer != nil {
		providerOpts = append(providerOpts, sdktrace.WithSpanProcessor(NewBridge(opts.Observer)))
	}

	var traceFile *os.File
	if opts.TraceFile != "" {
		f, err := os.Create(opts.TraceFile)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to create trace file"), "path", opts.TraceFile)
		}
		exporter, err := stdouttrace.New(stdouttrace.WithWriter(f))
		if err != nil {
			_ = f.Close()
			return nil, zerr.Wrap(err, "failed to create trace exporter")
		}
		traceFile = f
		providerOpts = append(providerOpts, sdktrace.WithBatcher(exporter))
	}

	tp := sdktrace.NewTracerProvider(providerOpts...)
	otel.SetTracerProvider(tp)

	return func(ctx context.Context) error {
		err := tp.Shutdown(ctx)
		if traceFile != nil {
			err = errors.Join(err, traceFile.Close())
		}
		return err
	}, nil
}
