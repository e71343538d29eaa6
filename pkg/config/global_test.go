package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAccounts() []AccountConfig {
	return []AccountConfig{
		{Name: "prod", AccountID: 123456, APIKey: "key"},
		{Name: "sandbox", AccountID: 987, Env: EnvQA, AccessToken: "token"},
	}
}

func TestDefaultGlobalConfig(t *testing.T) {
	config := DefaultGlobalConfig()

	assert.NotNil(t, config)
	assert.Equal(t, ModePublish, config.Watch.Mode)
	assert.Equal(t, 10, config.Watch.Concurrency)
	assert.Equal(t, 1500*time.Millisecond, config.Watch.NotifyQuietPeriod)
	require.NotNil(t, config.Watch.UseIgnoreFile)
	assert.True(t, *config.Watch.UseIgnoreFile)
	assert.Empty(t, config.Accounts)
	assert.NoError(t, config.Validate())
}

func TestGlobalConfig_Merge(t *testing.T) {
	base := DefaultGlobalConfig()
	useIgnoreFile := false

	base.Merge(&GlobalConfig{
		DefaultAccount: "sandbox",
		Accounts:       testAccounts(),
		Watch: WatchConfig{
			Mode:              ModeDraft,
			Concurrency:       4,
			NotifyQuietPeriod: time.Second,
			UseIgnoreFile:     &useIgnoreFile,
			Exclude:           []string{"*.bak"},
		},
	})

	assert.Equal(t, "sandbox", base.DefaultAccount)
	assert.Len(t, base.Accounts, 2)
	assert.Equal(t, ModeDraft, base.Watch.Mode)
	assert.Equal(t, 4, base.Watch.Concurrency)
	assert.Equal(t, time.Second, base.Watch.NotifyQuietPeriod)
	assert.False(t, *base.Watch.UseIgnoreFile)
	assert.Equal(t, []string{"*.bak"}, base.Watch.Exclude)
}

func TestGlobalConfig_MergeEmpty(t *testing.T) {
	base := DefaultGlobalConfig()
	base.Merge(&GlobalConfig{})

	assert.Equal(t, DefaultGlobalConfig(), base)
}

func TestGlobalConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*GlobalConfig)
		wantErr string
	}{
		{name: "valid", mutate: func(*GlobalConfig) {}},
		{
			name:    "missing name",
			mutate:  func(g *GlobalConfig) { g.Accounts[0].Name = "" },
			wantErr: "name is required",
		},
		{
			name:    "missing account id",
			mutate:  func(g *GlobalConfig) { g.Accounts[0].AccountID = 0 },
			wantErr: "accountId",
		},
		{
			name:    "missing credentials",
			mutate:  func(g *GlobalConfig) { g.Accounts[1].AccessToken = "" },
			wantErr: "apiKey or accessToken",
		},
		{
			name:    "bad env",
			mutate:  func(g *GlobalConfig) { g.Accounts[0].Env = "staging" },
			wantErr: "invalid env",
		},
		{
			name:    "duplicate names",
			mutate:  func(g *GlobalConfig) { g.Accounts[1].Name = "prod" },
			wantErr: "duplicate account name",
		},
		{
			name:    "unknown default",
			mutate:  func(g *GlobalConfig) { g.DefaultAccount = "missing" },
			wantErr: "default account",
		},
		{
			name:    "bad mode",
			mutate:  func(g *GlobalConfig) { g.Watch.Mode = "staging" },
			wantErr: "invalid watch mode",
		},
		{
			name:    "negative concurrency",
			mutate:  func(g *GlobalConfig) { g.Watch.Concurrency = -1 },
			wantErr: "concurrency",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultGlobalConfig()
			config.Accounts = testAccounts()
			tt.mutate(config)

			err := config.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGlobalConfig_Account(t *testing.T) {
	config := &GlobalConfig{Accounts: testAccounts()}

	account, err := config.Account("sandbox")
	require.NoError(t, err)
	assert.Equal(t, 987, account.AccountID)

	account, err = config.Account("123456")
	require.NoError(t, err)
	assert.Equal(t, "prod", account.Name)

	_, err = config.Account("nope")
	assert.ErrorIs(t, err, ErrAccountNotFound)

	_, err = config.Account("")
	assert.ErrorIs(t, err, ErrAccountNotFound, "ambiguous without a default")

	config.DefaultAccount = "prod"
	account, err = config.Account("")
	require.NoError(t, err)
	assert.Equal(t, "prod", account.Name)
}

func TestGlobalConfig_Account_Single(t *testing.T) {
	config := &GlobalConfig{Accounts: testAccounts()[:1]}

	account, err := config.Account("")
	require.NoError(t, err)
	assert.Equal(t, "prod", account.Name)
}

func TestGlobalConfig_Account_NoConfig(t *testing.T) {
	_, err := DefaultGlobalConfig().Account("prod")
	assert.ErrorIs(t, err, ErrNoConfig)
}
