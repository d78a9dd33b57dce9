package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/extbuild/internal/core/domain"
	"go.trai.ch/zerr"
)

// cleanOutput empties the output root. It refuses roots whose removal would
// take the working directory or the sources with it.
func (a *App) cleanOutput(cwd, input, output string) error {
	out, err := canonical(cwd, output)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrOutputCleanFailed.Error()), "path", output)
	}
	in, err := canonical(cwd, input)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrOutputCleanFailed.Error()), "path", input)
	}
	wd, err := canonical(cwd, ".")
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrOutputCleanFailed.Error()), "path", cwd)
	}

	var reason string
	switch {
	case filepath.Dir(out) == out:
		reason = "output root is a filesystem root"
	case out == wd:
		reason = "output root is the working directory"
	case within(out, wd):
		reason = "output root contains the working directory"
	case within(out, in):
		reason = "output root contains the input root"
	}
	if reason != "" {
		return zerr.With(zerr.With(domain.ErrUnsafeOutputRoot, "path", out), "reason", reason)
	}

	entries, err := os.ReadDir(out)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.With(zerr.Wrap(err, domain.ErrOutputCleanFailed.Error()), "path", out)
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(out, e.Name())); err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrOutputCleanFailed.Error()), "path", out)
		}
	}

	a.logger.Info(fmt.Sprintf("cleaned output root %s", relTo(cwd, output)))
	return nil
}

// canonical makes path absolute and resolves symlinks of its existing prefix.
func canonical(cwd, path string) (string, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(cwd, path)
	}
	path = filepath.Clean(path)

	var rest []string
	for cur := path; ; cur = filepath.Dir(cur) {
		resolved, err := filepath.EvalSymlinks(cur)
		if err == nil {
			return filepath.Join(append([]string{resolved}, rest...)...), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
		if filepath.Dir(cur) == cur {
			return path, nil
		}
		rest = append([]string{filepath.Base(cur)}, rest...)
	}
}

// within reports whether path equals dir or lies below it.
func within(dir, path string) bool {
	if dir == path {
		return true
	}
	rel, err := filepath.Rel(dir, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
