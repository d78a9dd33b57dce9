// Package config provides the compiler configuration loader for extbuild.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/extbuild/internal/core/domain"
	"go.trai.ch/extbuild/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load reads the configuration document. An empty path probes the default
// file names in cwd; finding none yields the built-in defaults.
func (l *Loader) Load(cwd, path string) (*domain.Config, error) {
	configPath, err := l.findConfiguration(cwd, path)
	if err != nil {
		return nil, err
	}
	if configPath == "" {
		return domain.DefaultConfig(), nil
	}

	var doc Document
	if err := readAndUnmarshalYAML(configPath, &doc); err != nil {
		return nil, zerr.With(err, "path", configPath)
	}

	cfg, err := toConfig(&doc)
	if err != nil {
		return nil, zerr.With(err, "path", configPath)
	}
	cfg.Path = configPath
	return cfg, nil
}

func (l *Loader) findConfiguration(cwd, explicit string) (string, error) {
	if explicit != "" {
		if !filepath.IsAbs(explicit) {
			explicit = filepath.Join(cwd, explicit)
		}
		if _, err := os.Stat(explicit); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return "", zerr.With(domain.ErrConfigNotFound, "path", explicit)
			}
			return "", zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", explicit)
		}
		return explicit, nil
	}

	var found []string
	for _, name := range domain.DefaultConfigFileNames {
		candidate := filepath.Join(cwd, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			found = append(found, candidate)
		}
	}
	if len(found) == 0 {
		return "", nil
	}
	if len(found) > 1 && l.Logger != nil {
		l.Logger.Warn(fmt.Sprintf("found %s, ignoring %s",
			filepath.Base(found[0]), strings.Join(baseNames(found[1:]), ", ")))
	}
	return found[0], nil
}

// readAndUnmarshalYAML reads a YAML file and strictly decodes it into target.
// An empty document leaves target untouched.
func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is chosen by the operator
	content, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)
	if err := dec.Decode(target); err != nil && !errors.Is(err, io.EOF) {
		return zerr.Wrap(err, domain.ErrConfigParseFailed.Error())
	}
	return nil
}

func toConfig(doc *Document) (*domain.Config, error) {
	if doc.Version != "" && doc.Version != SupportedVersion {
		return nil, zerr.With(zerr.With(domain.ErrInvalidConfig, "key", "version"), "value", doc.Version)
	}

	cfg := domain.DefaultConfig()

	if len(doc.Categories) > 0 {
		categories := make([]domain.Category, 0, len(doc.Categories))
		for i, c := range doc.Categories {
			profile := domain.Profile(strings.TrimSpace(c.Profile))
			if !profile.Valid() {
				key := fmt.Sprintf("categories[%d].profile", i)
				return nil, invalid(key, zerr.With(domain.ErrInvalidProfile, "profile", c.Profile))
			}
			categories = append(categories, domain.Category{
				Name:    strings.TrimSpace(c.Name),
				Plural:  strings.TrimSpace(c.Plural),
				Profile: profile,
			})
		}
		table, err := domain.NewCategoryTable(categories...)
		if err != nil {
			return nil, invalid("categories", err)
		}
		cfg.Categories = table
	}

	cfg.Compiler.ExtraShared = map[domain.Profile][]string{}
	if len(doc.Shared.App) > 0 {
		cfg.Compiler.ExtraShared[domain.ProfileApp] = doc.Shared.App
	}
	if len(doc.Shared.API) > 0 {
		cfg.Compiler.ExtraShared[domain.ProfileAPI] = doc.Shared.API
	}

	for i, p := range doc.Plugins {
		spec := domain.PluginSpec{
			Name:     p.Name,
			Define:   p.Define,
			External: p.External,
			Alias:    p.Alias,
			Loader:   p.Loader,
			Banner:   p.Banner,
			Footer:   p.Footer,
		}
		if spec.Name == "" {
			spec.Name = fmt.Sprintf("plugin-%d", i)
		}
		for ext := range spec.Loader {
			if !strings.HasPrefix(ext, ".") {
				key := fmt.Sprintf("plugins[%d].loader", i)
				return nil, invalid(key, zerr.With(domain.ErrInvalidLoader, "extension", ext))
			}
		}
		if err := spec.Validate(); err != nil {
			return nil, invalid(fmt.Sprintf("plugins[%d].loader", i), err)
		}
		cfg.Compiler.Plugins = append(cfg.Compiler.Plugins, spec)
	}

	return cfg, nil
}

func invalid(key string, cause error) error {
	return zerr.With(zerr.Wrap(cause, domain.ErrInvalidConfig.Error()), "key", key)
}

func baseNames(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = filepath.Base(p)
	}
	return out
}
