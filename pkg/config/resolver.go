package config

import "time"

// ResolvedConfig is the configuration for one command run: the selected
// account plus watch settings with defaults applied.
// This does NOT include CLI flags, which are applied at the command layer
type ResolvedConfig struct {
	Account AccountConfig

	Mode              string
	Concurrency       int
	NotifyQuietPeriod time.Duration
	UseIgnoreFile     bool
	Exclude           []string
}

// ConfigResolver selects an account and flattens watch settings
type ConfigResolver struct {
	global   *GlobalConfig
	account  string
	override *AccountConfig
}

// NewConfigResolver creates a new ConfigResolver
// global must not be nil, account may be empty to use the default account
func NewConfigResolver(global *GlobalConfig, account string) *ConfigResolver {
	return &ConfigResolver{
		global:  global,
		account: account,
	}
}

// WithAccount uses account instead of looking one up in the config file
func (r *ConfigResolver) WithAccount(account *AccountConfig) *ConfigResolver {
	r.override = account
	return r
}

// Resolve applies, in order of priority: the config file > hardcoded defaults
func (r *ConfigResolver) Resolve() (*ResolvedConfig, error) {
	account := r.override
	if account == nil {
		var err error
		if account, err = r.global.Account(r.account); err != nil {
			return nil, err
		}
	}

	defaults := DefaultGlobalConfig().Watch
	resolved := &ResolvedConfig{
		Account:           *account,
		Mode:              CoalesceString(r.global.Watch.Mode, defaults.Mode),
		Concurrency:       CoalesceInt(r.global.Watch.Concurrency, defaults.Concurrency),
		NotifyQuietPeriod: defaults.NotifyQuietPeriod,
		UseIgnoreFile:     *defaults.UseIgnoreFile,
		Exclude:           CoalesceStringSlice(r.global.Watch.Exclude, defaults.Exclude),
	}

	if r.global.Watch.NotifyQuietPeriod > 0 {
		resolved.NotifyQuietPeriod = r.global.Watch.NotifyQuietPeriod
	}
	if r.global.Watch.UseIgnoreFile != nil {
		resolved.UseIgnoreFile = *r.global.Watch.UseIgnoreFile
	}

	return resolved, nil
}
