package domain

import (
	"slices"

	"go.trai.ch/zerr"
)

// DefaultConfigFileNames are probed, in order, in the working directory when
// no explicit config path is given.
var DefaultConfigFileNames = []string{"extbuild.config.yaml", "extbuild.config.yml"}

// sharedDeps are the modules provided by the host application at runtime and
// therefore never bundled.
var sharedDeps = map[Profile][]string{
	ProfileApp: {"@directus/extensions-sdk", "vue", "vue-router", "pinia", "@goairheads/directus-stdextension-builder"},
	ProfileAPI: {"directus", "@goairheads/directus-stdextension-builder"},
}

// LoaderNames are the file loaders a plugin may assign to an extension.
var LoaderNames = []string{
	"base64", "binary", "copy", "css", "dataurl", "empty", "file", "js", "json", "jsx", "text", "ts", "tsx",
}

// PluginSpec is one declarative compiler plugin from the config document.
// Plugins are applied in order; later plugins override earlier keys.
type PluginSpec struct {
	Name     string
	Define   map[string]string
	External []string
	Alias    map[string]string
	// Loader maps a file extension (".svg") to a loader name.
	Loader map[string]string
	Banner string
	Footer string
}

// Validate checks loader names.
func (p PluginSpec) Validate() error {
	for ext, name := range p.Loader {
		if !slices.Contains(LoaderNames, name) {
			return zerr.With(zerr.With(zerr.With(ErrInvalidLoader, "plugin", p.Name), "extension", ext), "loader", name)
		}
	}
	return nil
}

// CompilerConfig is the read-only configuration shared by every worker.
type CompilerConfig struct {
	Plugins []PluginSpec
	// ExtraShared lists additional host-provided modules per profile.
	ExtraShared map[Profile][]string
	// Force skips manifest validation.
	Force bool
}

// Shared returns the modules left external for a profile.
func (c *CompilerConfig) Shared(p Profile) []string {
	out := slices.Clone(sharedDeps[p])
	if c != nil {
		for _, dep := range c.ExtraShared[p] {
			if !slices.Contains(out, dep) {
				out = append(out, dep)
			}
		}
	}
	return out
}

// Config is the loaded configuration document.
type Config struct {
	// Path is the file the config was loaded from; empty when defaults are used.
	Path       string
	Categories *CategoryTable
	Compiler   CompilerConfig
}

// DefaultConfig returns the configuration used when no document exists.
func DefaultConfig() *Config {
	return &Config{Categories: DefaultCategories()}
}
