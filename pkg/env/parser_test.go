package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emptypockets-dev/hubspot-cli/pkg/config"
)

func TestLoadDotenvFiles(t *testing.T) {
	tests := []struct {
		name        string
		files       map[string]string // filename -> content
		fileOrder   []string          // order to load files
		want        map[string]string
		expectError bool
	}{
		{
			name:      "empty file list",
			files:     map[string]string{},
			fileOrder: []string{},
			want:      map[string]string{},
		},
		{
			name: "single valid file",
			files: map[string]string{
				"test.env": "HUBSPOT_PORTAL_ID=123\nHUBSPOT_API_KEY=key\n",
			},
			fileOrder: []string{"test.env"},
			want: map[string]string{
				"HUBSPOT_PORTAL_ID": "123",
				"HUBSPOT_API_KEY":   "key",
			},
		},
		{
			name: "multiple files with override (last wins)",
			files: map[string]string{
				"first.env":  "HUBSPOT_PORTAL_ID=1\nHUBSPOT_API_KEY=first\n",
				"second.env": "HUBSPOT_PORTAL_ID=2\nHUBSPOT_ENV=qa\n",
			},
			fileOrder: []string{"first.env", "second.env"},
			want: map[string]string{
				"HUBSPOT_PORTAL_ID": "2", // overridden by second.env
				"HUBSPOT_API_KEY":   "first",
				"HUBSPOT_ENV":       "qa",
			},
		},
		{
			name: "quoted values and comments",
			files: map[string]string{
				"quoted.env": "# account\nHUBSPOT_ACCESS_TOKEN=\"quoted token\"\n\nHUBSPOT_ENV='prod'\n",
			},
			fileOrder: []string{"quoted.env"},
			want: map[string]string{
				"HUBSPOT_ACCESS_TOKEN": "quoted token",
				"HUBSPOT_ENV":          "prod",
			},
		},
		{
			name: "malformed dotenv",
			files: map[string]string{
				"bad.env": "INVALID LINE WITHOUT EQUALS\n",
			},
			fileOrder:   []string{"bad.env"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()

			for name, content := range tt.files {
				require.NoError(t, os.WriteFile(filepath.Join(tmpDir, name), []byte(content), 0o600))
			}

			var filePaths []string
			for _, name := range tt.fileOrder {
				filePaths = append(filePaths, filepath.Join(tmpDir, name))
			}

			got, err := LoadDotenvFiles(filePaths, nil)
			if tt.expectError {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadDotenvFiles_MissingFile(t *testing.T) {
	// Missing files should warn but continue
	result, err := LoadDotenvFiles([]string{"/nonexistent/file.env"}, nil)
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestLookup_ProcessEnvironmentWins(t *testing.T) {
	file := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(file, []byte("HUBSPOT_PORTAL_ID=1\nHUBSPOT_API_KEY=from-file\nOTHER=x\n"), 0o600))

	t.Setenv(VarPortalID, "2")

	vars, err := Lookup([]string{file}, nil)
	require.NoError(t, err)
	assert.Equal(t, "2", vars[VarPortalID])
	assert.Equal(t, "from-file", vars[VarAPIKey])
}

func TestAccountFromVars(t *testing.T) {
	tests := []struct {
		name    string
		vars    map[string]string
		want    *config.AccountConfig
		wantErr error
	}{
		{
			name: "api key",
			vars: map[string]string{VarPortalID: "123", VarAPIKey: "key"},
			want: &config.AccountConfig{Name: EnvAccountName, AccountID: 123, APIKey: "key"},
		},
		{
			name: "access token in qa",
			vars: map[string]string{VarPortalID: " 456 ", VarAccessToken: "token", VarEnv: "QA"},
			want: &config.AccountConfig{Name: EnvAccountName, AccountID: 456, Env: config.EnvQA, AccessToken: "token"},
		},
		{
			name:    "missing portal id",
			vars:    map[string]string{VarAPIKey: "key"},
			wantErr: ErrNoPortalID,
		},
		{
			name: "non-numeric portal id",
			vars: map[string]string{VarPortalID: "abc", VarAPIKey: "key"},
		},
		{
			name: "missing credentials",
			vars: map[string]string{VarPortalID: "123"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AccountFromVars(tt.vars)
			if tt.want == nil {
				require.Error(t, err)
				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
				}
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
