package repository

import (
	"github.com/emptypockets-dev/hubspot-cli/pkg/application/port"
	"github.com/emptypockets-dev/hubspot-cli/pkg/config"
)

// ConfigFileRepository implements port.ConfigRepository using file-based storage
type ConfigFileRepository struct {
	store *config.Store
}

// NewConfigFileRepository creates a repository for the default config file,
// or for path when it is not empty
func NewConfigFileRepository(path string) (port.ConfigRepository, error) {
	var (
		store *config.Store
		err   error
	)
	if path != "" {
		store, err = config.NewStoreWithFile(path)
	} else {
		store, err = config.NewStore()
	}
	if err != nil {
		return nil, err
	}
	return &ConfigFileRepository{store: store}, nil
}

// NewConfigFileRepositoryWithPath creates a repository with a custom config directory
func NewConfigFileRepositoryWithPath(configDir string) port.ConfigRepository {
	return &ConfigFileRepository{
		store: config.NewStoreWithPath(configDir),
	}
}

// Load loads the configuration
func (r *ConfigFileRepository) Load() (*config.GlobalConfig, error) {
	return r.store.Load()
}

// Save saves the configuration
func (r *ConfigFileRepository) Save(cfg *config.GlobalConfig) error {
	return r.store.Save(cfg)
}

// Path returns the configuration file path
func (r *ConfigFileRepository) Path() string {
	return r.store.Path()
}
