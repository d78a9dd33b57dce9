package esbuild

import (
	"maps"
	"path/filepath"
	"slices"

	"github.com/evanw/esbuild/pkg/api"
	"go.trai.ch/extbuild/internal/core/domain"
)

// cjsDefaultExport makes a CommonJS bundle's default export the module itself.
const cjsDefaultExport = "module.exports = module.exports.default || module.exports;"

var loaders = map[string]api.Loader{
	"base64":  api.LoaderBase64,
	"binary":  api.LoaderBinary,
	"copy":    api.LoaderCopy,
	"css":     api.LoaderCSS,
	"dataurl": api.LoaderDataURL,
	"empty":   api.LoaderEmpty,
	"file":    api.LoaderFile,
	"js":      api.LoaderJS,
	"json":    api.LoaderJSON,
	"jsx":     api.LoaderJSX,
	"text":    api.LoaderText,
	"ts":      api.LoaderTS,
	"tsx":     api.LoaderTSX,
}

// workDir is the directory esbuild resolves relative paths against.
func workDir(task domain.BuildTask) string {
	if task.SingleFile() {
		return filepath.Dir(task.SourcePath)
	}
	return task.ModuleRoot
}

// buildOptions translates a task and the shared config into esbuild options.
// The config is only read.
func buildOptions(task domain.BuildTask, cfg *domain.CompilerConfig) api.BuildOptions {
	opts := api.BuildOptions{
		EntryPoints:       []string{task.SourcePath},
		Outfile:           task.OutputPath,
		AbsWorkingDir:     workDir(task),
		Bundle:            true,
		Write:             true,
		Metafile:          true,
		LogLevel:          api.LogLevelSilent,
		Target:            api.ES2020,
		MinifyWhitespace:  true,
		MinifyIdentifiers: true,
		MinifySyntax:      true,
		Define:            map[string]string{"process.env.NODE_ENV": `"production"`},
		External:          cfg.Shared(task.Category.Profile),
		Alias:             map[string]string{},
		Loader:            map[string]api.Loader{},
		Banner:            map[string]string{},
		Footer:            map[string]string{},
	}

	switch task.Category.Profile {
	case domain.ProfileAPI:
		opts.Format = api.FormatCommonJS
		opts.Platform = api.PlatformNode
		opts.Footer["js"] = cjsDefaultExport
	default:
		opts.Format = api.FormatESModule
		opts.Platform = api.PlatformBrowser
	}

	if cfg != nil {
		for _, p := range cfg.Plugins {
			applyPlugin(&opts, p)
		}
	}

	return opts
}

// applyPlugin layers one declarative plugin over opts. Map keys set by a
// later plugin win; banners and footers accumulate.
func applyPlugin(opts *api.BuildOptions, p domain.PluginSpec) {
	for k, v := range p.Define {
		opts.Define[k] = v
	}
	for _, ext := range p.External {
		if !slices.Contains(opts.External, ext) {
			opts.External = append(opts.External, ext)
		}
	}
	for k, v := range p.Alias {
		opts.Alias[k] = v
	}
	for _, ext := range slices.Sorted(maps.Keys(p.Loader)) {
		if l, ok := loaders[p.Loader[ext]]; ok {
			opts.Loader[ext] = l
		}
	}
	if p.Banner != "" {
		opts.Banner["js"] = joinLines(opts.Banner["js"], p.Banner)
	}
	if p.Footer != "" {
		opts.Footer["js"] = joinLines(opts.Footer["js"], p.Footer)
	}
}

func joinLines(a, b string) string {
	if a == "" {
		return b
	}
	return a + "\n" + b
}
