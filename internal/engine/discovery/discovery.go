// Package discovery derives build tasks from an extension source tree.
package discovery

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/extbuild/internal/core/domain"
	"go.trai.ch/extbuild/internal/core/ports"
	"go.trai.ch/zerr"
)

// Request describes one discovery pass.
type Request struct {
	// InputRoot holds one directory per category plural.
	InputRoot string
	// OutputRoot is mirrored from InputRoot with the target extension.
	OutputRoot string
	// PreferredLanguage is probed first for directory modules. Empty keeps
	// the default priority.
	PreferredLanguage string
	// Categories defaults to domain.DefaultCategories when nil.
	Categories *domain.CategoryTable
	// OnWarning, if set, receives every warning in addition to the logger.
	OnWarning func(msg string)
}

// Discoverer walks an input root and derives one BuildTask per module.
// It only stats and lists; it never reads file contents.
type Discoverer struct {
	logger ports.Logger
}

// New creates a Discoverer that reports skipped entries to logger.
func New(logger ports.Logger) *Discoverer {
	return &Discoverer{logger: logger}
}

// Discover returns the build tasks of req.InputRoot in directory listing
// order. Only a missing input root is fatal; unrecognized categories,
// languages and modules without an entry file are skipped with a warning.
func (d *Discoverer) Discover(ctx context.Context, req Request) ([]domain.BuildTask, error) {
	categories := req.Categories
	if categories == nil {
		categories = domain.DefaultCategories()
	}

	inputRoot, err := filepath.Abs(req.InputRoot)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrInputPathMissing.Error()), "path", req.InputRoot)
	}
	if info, statErr := os.Stat(inputRoot); statErr != nil || !info.IsDir() {
		return nil, zerr.With(domain.ErrInputPathMissing, "path", inputRoot)
	}

	outputRoot, err := filepath.Abs(req.OutputRoot)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to resolve output root"), "path", req.OutputRoot)
	}

	probe := domain.ProbeOrder("")
	if req.PreferredLanguage != "" {
		lang, ok := domain.ParseLanguage(req.PreferredLanguage)
		if ok {
			probe = domain.ProbeOrder(lang)
		} else {
			d.warn(req, fmt.Sprintf("ignoring --language %q: %s", req.PreferredLanguage, domain.ErrUnrecognizedLanguage))
		}
	}

	entries, err := os.ReadDir(inputRoot)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrListFailed.Error()), "path", inputRoot)
	}

	w := walk{
		d:          d,
		req:        req,
		outputRoot: outputRoot,
		probe:      probe,
	}

	var tasks []domain.BuildTask
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if hidden(entry.Name()) {
			continue
		}

		categoryPath := filepath.Join(inputRoot, entry.Name())
		if !isDir(categoryPath, entry) {
			continue
		}

		category, ok := categories.Classify(entry.Name())
		if !ok {
			d.warn(req, fmt.Sprintf("skipping %s: %s (expected one of: %s)",
				categoryPath, domain.ErrUnrecognizedCategory, strings.Join(categories.Plurals(), ", ")))
			continue
		}

		tasks = append(tasks, w.category(categoryPath, category)...)
	}

	if err := checkDistinct(tasks); err != nil {
		return nil, err
	}
	for i := range tasks {
		tasks[i].ID = domain.TaskID(i)
	}
	return tasks, nil
}

func (d *Discoverer) warn(req Request, msg string) {
	if d.logger != nil {
		d.logger.Warn(msg)
	}
	if req.OnWarning != nil {
		req.OnWarning(msg)
	}
}

type walk struct {
	d          *Discoverer
	req        Request
	outputRoot string
	probe      []domain.Language
}

func (w walk) category(dir string, category domain.Category) []domain.BuildTask {
	modules, err := os.ReadDir(dir)
	if err != nil {
		w.d.warn(w.req, fmt.Sprintf("skipping %s: %s: %v", dir, domain.ErrListFailed, err))
		return nil
	}

	tasks := make([]domain.BuildTask, 0, len(modules))
	claimed := make(map[string]string, len(modules))
	for _, module := range modules {
		if hidden(module.Name()) {
			continue
		}
		modulePath := filepath.Join(dir, module.Name())

		var (
			task domain.BuildTask
			ok   bool
		)
		if isDir(modulePath, module) {
			task, ok = w.directoryModule(modulePath, module.Name(), category)
		} else {
			task, ok = w.fileModule(modulePath, module.Name(), category)
		}
		if !ok {
			continue
		}
		if owner, dup := claimed[task.OutputPath]; dup {
			w.d.warn(w.req, fmt.Sprintf("skipping %s (%s): %s, %s already writes %s",
				modulePath, category.Name, domain.ErrDuplicateTask, owner, task.OutputPath))
			continue
		}
		claimed[task.OutputPath] = modulePath
		tasks = append(tasks, task)
	}
	return tasks
}

func (w walk) directoryModule(path, name string, category domain.Category) (domain.BuildTask, bool) {
	for _, lang := range w.probe {
		entry := filepath.Join(path, domain.EntryBaseName+"."+lang.Short())
		info, err := os.Stat(entry)
		if err != nil || info.IsDir() {
			continue
		}
		return domain.BuildTask{
			SourcePath: entry,
			OutputPath: filepath.Join(w.outputRoot, category.Plural, name, domain.EntryBaseName+"."+domain.TargetExtension),
			ModuleRoot: path,
			Module:     name,
			Category:   category,
			Language:   lang,
			Label:      category.Name + "/" + name,
		}, true
	}

	w.d.warn(w.req, fmt.Sprintf("skipping %s (%s): %s, expected %s",
		path, category.Name, domain.ErrNoEntryFileFound, entryCandidates(w.probe)))
	return domain.BuildTask{}, false
}

func (w walk) fileModule(path, name string, category domain.Category) (domain.BuildTask, bool) {
	lang, ok := domain.ClassifyLanguage(name)
	if !ok {
		w.d.warn(w.req, fmt.Sprintf("skipping %s (%s): %s %q",
			path, category.Name, domain.ErrUnrecognizedLanguage, filepath.Ext(name)))
		return domain.BuildTask{}, false
	}

	base := strings.TrimSuffix(name, filepath.Ext(name))
	return domain.BuildTask{
		SourcePath: path,
		OutputPath: filepath.Join(w.outputRoot, category.Plural, base+"."+domain.TargetExtension),
		ModuleRoot: path,
		Module:     base,
		Category:   category,
		Language:   lang,
		Label:      category.Name + "/" + base,
	}, true
}

// checkDistinct asserts that no two tasks share a source or an artifact.
func checkDistinct(tasks []domain.BuildTask) error {
	sources := make(map[string]string, len(tasks))
	outputs := make(map[string]string, len(tasks))
	for _, t := range tasks {
		if other, dup := sources[t.SourcePath]; dup {
			return zerr.With(zerr.With(domain.ErrDuplicateTask, "source", t.SourcePath), "task", other)
		}
		if other, dup := outputs[t.OutputPath]; dup {
			return zerr.With(zerr.With(zerr.With(domain.ErrDuplicateTask, "output", t.OutputPath), "task", other), "conflict", t.Label)
		}
		sources[t.SourcePath] = t.Label
		outputs[t.OutputPath] = t.Label
	}
	return nil
}

func entryCandidates(langs []domain.Language) string {
	names := make([]string, len(langs))
	for i, l := range langs {
		names[i] = domain.EntryBaseName + "." + l.Short()
	}
	return strings.Join(names, " or ")
}

// hidden skips version-control and other dot-prefixed entries.
func hidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// isDir follows symlinks, which os.DirEntry does not.
func isDir(path string, entry os.DirEntry) bool {
	if entry.Type()&os.ModeSymlink == 0 {
		return entry.IsDir()
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
