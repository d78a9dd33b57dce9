package config

// SupportedVersion is the only accepted value of the version key.
const SupportedVersion = "1"

// Document represents the structure of the extbuild.config.yaml file.
type Document struct {
	Version    string        `yaml:"version"`
	Categories []CategoryDTO `yaml:"categories"`
	Shared     SharedDTO     `yaml:"shared"`
	Plugins    []PluginDTO   `yaml:"plugins"`
}

// CategoryDTO represents one category definition.
type CategoryDTO struct {
	Name    string `yaml:"name"`
	Plural  string `yaml:"plural"`
	Profile string `yaml:"profile"`
}

// SharedDTO lists extra host-provided modules per profile.
type SharedDTO struct {
	App []string `yaml:"app"`
	API []string `yaml:"api"`
}

// PluginDTO represents a declarative compiler plugin.
type PluginDTO struct {
	Name     string            `yaml:"name"`
	Define   map[string]string `yaml:"define"`
	External []string          `yaml:"external"`
	Alias    map[string]string `yaml:"alias"`
	Loader   map[string]string `yaml:"loader"`
	Banner   string            `yaml:"banner"`
	Footer   string            `yaml:"footer"`
}
