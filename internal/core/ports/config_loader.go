package ports

import "go.trai.ch/extbuild/internal/core/domain"

// ConfigLoader defines the interface for loading the compiler configuration document.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the configuration. When path is empty the default file names
	// are probed in cwd and their absence yields domain.DefaultConfig().
	// An explicit path that does not exist is an error.
	Load(cwd, path string) (*domain.Config, error)
}
