package repository

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emptypockets-dev/hubspot-cli/pkg/config"
)

func TestConfigFileRepository_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	repo := NewConfigFileRepositoryWithPath(dir)
	assert.Equal(t, filepath.Join(dir, config.GlobalConfigFile), repo.Path())

	// Missing file yields defaults
	cfg, err := repo.Load()
	require.NoError(t, err)
	assert.Equal(t, config.ModePublish, cfg.Watch.Mode)
	assert.Empty(t, cfg.Accounts)

	cfg.DefaultAccount = "prod"
	cfg.Accounts = []config.AccountConfig{{Name: "prod", AccountID: 123, APIKey: "key"}}
	require.NoError(t, repo.Save(cfg))

	loaded, err := repo.Load()
	require.NoError(t, err)
	account, err := loaded.Account("")
	require.NoError(t, err)
	assert.Equal(t, 123, account.AccountID)
}

func TestNewConfigFileRepository_ExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hs.yaml")

	repo, err := NewConfigFileRepository(path)
	require.NoError(t, err)
	assert.Equal(t, path, repo.Path())
}

func TestConfigFileRepository_SaveRejectsInvalid(t *testing.T) {
	repo := NewConfigFileRepositoryWithPath(t.TempDir())

	cfg := config.DefaultGlobalConfig()
	cfg.Accounts = []config.AccountConfig{{Name: "prod"}}
	assert.Error(t, repo.Save(cfg))
}
