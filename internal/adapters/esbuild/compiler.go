// Package esbuild implements the extension compiler on top of the esbuild Go API.
package esbuild

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/tidwall/gjson"
	"go.trai.ch/extbuild/internal/core/domain"
	"go.trai.ch/extbuild/internal/core/ports"
	"go.trai.ch/zerr"
)

// Compiler opens incremental esbuild contexts, one per task.
type Compiler struct{}

// New creates a new Compiler.
func New() *Compiler {
	return &Compiler{}
}

// Open implements ports.Compiler.
func (c *Compiler) Open(_ context.Context, task domain.BuildTask, cfg *domain.CompilerConfig) (ports.CompileSession, error) {
	opts := buildOptions(task, cfg)
	if !task.SingleFile() && (cfg == nil || !cfg.Force) {
		opts.Plugins = append(opts.Plugins, manifestPlugin(task))
	}

	bctx, cerr := api.Context(opts)
	if cerr != nil {
		err := zerr.Wrap(cerr, domain.ErrCompilerSetupFailed.Error())
		return nil, zerr.With(err, "task", task.Label)
	}

	return &Session{task: task, dir: opts.AbsWorkingDir, ctx: bctx}, nil
}

// Session is an incremental build of one task.
type Session struct {
	task domain.BuildTask
	dir  string
	ctx  api.BuildContext
	once sync.Once
}

// Compile implements ports.CompileSession. Cancelling ctx aborts the
// running rebuild.
func (s *Session) Compile(ctx context.Context) domain.CompileResult {
	stop := context.AfterFunc(ctx, s.ctx.Cancel)
	defer stop()

	res := s.ctx.Rebuild()

	out := domain.CompileResult{
		Errors:   s.diagnostics(res.Errors, api.ErrorMessage),
		Warnings: s.diagnostics(res.Warnings, api.WarningMessage),
	}
	if res.Metafile != "" {
		out.Inputs = s.inputs(res.Metafile)
	}
	if !out.Failed() && ctx.Err() != nil {
		out.Errors = []domain.CompileError{{Message: ctx.Err().Error()}}
	}
	return out
}

// Close implements ports.CompileSession.
func (s *Session) Close() error {
	s.once.Do(s.ctx.Dispose)
	return nil
}

// inputs lists the absolute paths of the files recorded in the metafile.
// Virtual modules carry a namespace prefix and are skipped.
func (s *Session) inputs(metafile string) []string {
	var paths []string
	gjson.Get(metafile, "inputs").ForEach(func(key, _ gjson.Result) bool {
		p := key.String()
		if isVirtual(p) {
			return true
		}
		if !filepath.IsAbs(p) {
			p = filepath.Join(s.dir, filepath.FromSlash(p))
		}
		paths = append(paths, p)
		return true
	})
	sort.Strings(paths)
	return paths
}

func isVirtual(p string) bool {
	if strings.HasPrefix(p, "<") {
		return true
	}
	ns, _, found := strings.Cut(p, ":")
	return found && len(ns) > 1 && !strings.ContainsAny(ns, `/\`)
}

func (s *Session) diagnostics(msgs []api.Message, kind api.MessageKind) []domain.CompileError {
	if len(msgs) == 0 {
		return nil
	}

	out := make([]domain.CompileError, len(msgs))
	for i, m := range msgs {
		ce := domain.CompileError{
			Message: m.Text,
			Plugin:  m.PluginName,
		}
		if m.Location != nil {
			ce.File = m.Location.File
			if ce.File != "" && !filepath.IsAbs(ce.File) && !isVirtual(ce.File) {
				ce.File = filepath.Join(s.dir, filepath.FromSlash(ce.File))
			}
			ce.Line = m.Location.Line
			ce.Column = m.Location.Column + 1
			ce.Frame = frame(m, kind)
		}
		for _, n := range m.Notes {
			ce.Notes = append(ce.Notes, n.Text)
		}
		out[i] = ce
	}
	return out
}

// frame renders the source excerpt of a message without its headline and notes.
func frame(m api.Message, kind api.MessageKind) string {
	formatted := api.FormatMessages(
		[]api.Message{{Location: m.Location}},
		api.FormatMessagesOptions{Kind: kind},
	)
	if len(formatted) == 0 {
		return ""
	}

	lines := strings.Split(formatted[0], "\n")
	if len(lines) > 0 {
		lines = lines[1:]
	}
	return strings.Trim(strings.Join(lines, "\n"), "\n")
}
