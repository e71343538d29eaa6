package port

import (
	"github.com/emptypockets-dev/hubspot-cli/pkg/config"
)

// ConfigRepository handles persistence of the configuration file
type ConfigRepository interface {
	// Load loads the configuration, merged over defaults
	Load() (*config.GlobalConfig, error)

	// Save validates and saves the configuration
	Save(config *config.GlobalConfig) error

	// Path returns the configuration file path
	Path() string
}
