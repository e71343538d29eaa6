package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigDir is the default directory for hs configuration
	DefaultConfigDir = ".hs"

	// GlobalConfigFile is the filename for global configuration
	GlobalConfigFile = "config.yaml"
)

// Store handles reading and writing the configuration file
type Store struct {
	path string
}

// NewStore creates a store for ~/.hs/config.yaml
func NewStore() (*Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}

	return &Store{path: filepath.Join(home, DefaultConfigDir, GlobalConfigFile)}, nil
}

// NewStoreWithPath creates a store with a custom config directory
func NewStoreWithPath(configDir string) *Store {
	return &Store{path: filepath.Join(configDir, GlobalConfigFile)}
}

// NewStoreWithFile creates a store for an explicit config file
func NewStoreWithFile(path string) (*Store, error) {
	resolved, err := ResolvePath(path)
	if err != nil {
		return nil, err
	}
	return &Store{path: resolved}, nil
}

// Path returns the config file path
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether the config file exists
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load loads the configuration, merged over the defaults. A missing file
// yields the defaults.
func (s *Store) Load() (*GlobalConfig, error) {
	// #nosec G304 -- path is the configured config file
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultGlobalConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config GlobalConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", s.path, err)
	}

	// Merge with defaults
	defaultConfig := DefaultGlobalConfig()
	defaultConfig.Merge(&config)

	if err := defaultConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", s.path, err)
	}

	return defaultConfig, nil
}

// Save validates and writes the configuration to disk
func (s *Store) Save(config *GlobalConfig) error {
	if err := config.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Credentials live in this file
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
