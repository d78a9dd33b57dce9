package esbuild

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/tidwall/gjson"
	"go.trai.ch/extbuild/internal/core/domain"
)

const (
	manifestFile       = "package.json"
	manifestTypePath   = "directus:extension.type"
	manifestPluginName = "extbuild:manifest"
)

// manifestPlugin fails every cycle of a directory module whose package.json
// declares an extension type other than the task's category.
func manifestPlugin(task domain.BuildTask) api.Plugin {
	return api.Plugin{
		Name: manifestPluginName,
		Setup: func(build api.PluginBuild) {
			build.OnStart(func() (api.OnStartResult, error) {
				msg, ok := checkManifest(task)
				if ok {
					return api.OnStartResult{}, nil
				}
				return api.OnStartResult{Errors: []api.Message{msg}}, nil
			})
		},
	}
}

// checkManifest reports a diagnostic when the module manifest cannot be read
// or names a different category. A missing manifest or type is accepted.
func checkManifest(task domain.BuildTask) (api.Message, bool) {
	path := filepath.Join(task.ModuleRoot, manifestFile)
	loc := &api.Location{File: manifestFile}

	// #nosec G304 -- path is inside the discovered module
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return api.Message{}, true
		}
		return api.Message{
			Text:     fmt.Sprintf("%s: %v", domain.ErrManifestReadFailed.Error(), err),
			Location: loc,
		}, false
	}

	if !gjson.ValidBytes(content) {
		return api.Message{
			Text:     fmt.Sprintf("%s: invalid JSON", domain.ErrManifestReadFailed.Error()),
			Location: loc,
		}, false
	}

	declared := gjson.GetBytes(content, manifestTypePath)
	if !declared.Exists() || declared.String() == task.Category.Name {
		return api.Message{}, true
	}

	return api.Message{
		Text: fmt.Sprintf("%s: %s declares %q, module is in %q",
			domain.ErrManifestMismatch.Error(), manifestFile, declared.String(), task.Category.Plural),
		Location: loc,
		Notes:    []api.Note{{Text: "pass --force to build it anyway"}},
	}, false
}
