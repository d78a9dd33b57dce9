package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/extbuild/internal/core/domain"
	"go.trai.ch/extbuild/internal/core/ports"
)

// Bridge implements sdktrace.SpanProcessor and reports the duration of every
// successful compile cycle to an Observer. Failed cycles are already reported
// with their diagnostics.
type Bridge struct {
	observer ports.Observer
}

// NewBridge returns a new Bridge.
func NewBridge(observer ports.Observer) *Bridge {
	return &Bridge{
		observer: observer,
	}
}

// OnStart does nothing.
func (b *Bridge) OnStart(_ context.Context, _ sdktrace.ReadWriteSpan) {}

// OnEnd is called when a span ends.
func (b *Bridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if b.observer == nil || !s.SpanContext().IsValid() {
		return
	}
	if s.Status().Code == codes.Error {
		return
	}

	elapsed := s.EndTime().Sub(s.StartTime()).Round(time.Millisecond)
	b.observer.OnLog(fmt.Sprintf("built %s in %s", s.Name(), elapsed), domain.SeverityInfo)
}

// ForceFlush does nothing.
func (b *Bridge) ForceFlush(_ context.Context) error {
	return nil
}

// Shutdown does nothing.
func (b *Bridge) Shutdown(_ context.Context) error {
	return nil
}
