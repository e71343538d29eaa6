package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrAccountNotFound is returned when no account matches a name or id
	ErrAccountNotFound = errors.New("account not found")
	// ErrNoConfig is returned when no account has been configured
	ErrNoConfig = errors.New("no accounts configured")
)

// Environments an account can belong to
const (
	EnvProd = "prod"
	EnvQA   = "qa"
)

// Upload modes accepted in the watch config
const (
	ModePublish = "publish"
	ModeDraft   = "draft"
)

// GlobalConfig represents the hs configuration file
type GlobalConfig struct {
	DefaultAccount string          `yaml:"defaultAccount,omitempty"`
	Accounts       []AccountConfig `yaml:"accounts,omitempty"`
	Watch          WatchConfig     `yaml:"watch,omitempty"`
}

// AccountConfig holds credentials for one account
type AccountConfig struct {
	Name      string `yaml:"name"`
	AccountID int    `yaml:"accountId"`
	// Env is "prod" (default) or "qa"
	Env string `yaml:"env,omitempty"`

	// One of APIKey or AccessToken is required; AccessToken wins
	APIKey      string `yaml:"apiKey,omitempty"`
	AccessToken string `yaml:"accessToken,omitempty"`
}

// WatchConfig holds defaults for watch and upload
type WatchConfig struct {
	Mode              string        `yaml:"mode,omitempty"`
	Concurrency       int           `yaml:"concurrency,omitempty"`
	NotifyQuietPeriod time.Duration `yaml:"notifyQuietPeriod,omitempty"`
	UseIgnoreFile     *bool         `yaml:"useIgnoreFile,omitempty"`
	Exclude           []string      `yaml:"exclude,omitempty"`
}

// DefaultGlobalConfig returns a GlobalConfig with sensible defaults
func DefaultGlobalConfig() *GlobalConfig {
	useIgnoreFile := true
	return &GlobalConfig{
		Watch: WatchConfig{
			Mode:              ModePublish,
			Concurrency:       10,
			NotifyQuietPeriod: 1500 * time.Millisecond,
			UseIgnoreFile:     &useIgnoreFile,
			Exclude:           []string{}, // No default excludes
		},
	}
}

// Merge merges this config with another, with the other taking precedence
func (g *GlobalConfig) Merge(other *GlobalConfig) {
	if other.DefaultAccount != "" {
		g.DefaultAccount = other.DefaultAccount
	}
	if len(other.Accounts) > 0 {
		g.Accounts = other.Accounts
	}
	if other.Watch.Mode != "" {
		g.Watch.Mode = other.Watch.Mode
	}
	if other.Watch.Concurrency != 0 {
		g.Watch.Concurrency = other.Watch.Concurrency
	}
	if other.Watch.NotifyQuietPeriod != 0 {
		g.Watch.NotifyQuietPeriod = other.Watch.NotifyQuietPeriod
	}
	// UseIgnoreFile is a *bool, only merge if explicitly set (non-nil)
	if other.Watch.UseIgnoreFile != nil {
		g.Watch.UseIgnoreFile = other.Watch.UseIgnoreFile
	}
	if len(other.Watch.Exclude) > 0 {
		g.Watch.Exclude = other.Watch.Exclude
	}
}

// Validate checks the configuration for errors
func (g *GlobalConfig) Validate() error {
	seen := make(map[string]struct{}, len(g.Accounts))
	for i := range g.Accounts {
		a := &g.Accounts[i]
		if err := a.Validate(); err != nil {
			return fmt.Errorf("account %d: %w", i+1, err)
		}
		if _, dup := seen[a.Name]; dup {
			return fmt.Errorf("duplicate account name: %s", a.Name)
		}
		seen[a.Name] = struct{}{}
	}

	if g.DefaultAccount != "" && len(g.Accounts) > 0 {
		if _, err := g.Account(g.DefaultAccount); err != nil {
			return fmt.Errorf("default account %q: %w", g.DefaultAccount, err)
		}
	}

	switch g.Watch.Mode {
	case "", ModePublish, ModeDraft:
	default:
		return fmt.Errorf("invalid watch mode %q (must be %s or %s)", g.Watch.Mode, ModePublish, ModeDraft)
	}
	if g.Watch.Concurrency < 0 {
		return fmt.Errorf("watch concurrency cannot be negative")
	}
	if g.Watch.NotifyQuietPeriod < 0 {
		return fmt.Errorf("notify quiet period cannot be negative")
	}

	return nil
}

// Validate checks the account for errors
func (a *AccountConfig) Validate() error {
	if a.Name == "" {
		return fmt.Errorf("name is required")
	}
	if a.AccountID <= 0 {
		return fmt.Errorf("accountId must be a positive number")
	}
	if a.APIKey == "" && a.AccessToken == "" {
		return fmt.Errorf("apiKey or accessToken is required")
	}
	switch strings.ToLower(a.Env) {
	case "", EnvProd, EnvQA:
	default:
		return fmt.Errorf("invalid env %q (must be %s or %s)", a.Env, EnvProd, EnvQA)
	}
	return nil
}

// Account finds an account by name or numeric id. An empty nameOrID selects
// the default account, or the only account when exactly one is configured.
func (g *GlobalConfig) Account(nameOrID string) (*AccountConfig, error) {
	if len(g.Accounts) == 0 {
		return nil, ErrNoConfig
	}

	if nameOrID == "" {
		nameOrID = g.DefaultAccount
	}
	if nameOrID == "" {
		if len(g.Accounts) == 1 {
			return &g.Accounts[0], nil
		}
		return nil, fmt.Errorf("%w: no default account set and %d accounts configured", ErrAccountNotFound, len(g.Accounts))
	}

	for i := range g.Accounts {
		if g.Accounts[i].Name == nameOrID {
			return &g.Accounts[i], nil
		}
	}

	if id, err := strconv.Atoi(nameOrID); err == nil {
		for i := range g.Accounts {
			if g.Accounts[i].AccountID == id {
				return &g.Accounts[i], nil
			}
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, nameOrID)
}
