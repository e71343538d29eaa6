package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolvePath(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		t.Fatalf("Failed to get home directory: %v", err)
	}

	tests := []struct {
		name      string
		input     string
		wantError bool
		checkFunc func(string) bool
	}{
		{
			name:      "empty path",
			input:     "",
			wantError: true,
		},
		{
			name:  "tilde only",
			input: "~",
			checkFunc: func(result string) bool {
				return result == homeDir
			},
		},
		{
			name:  "tilde with path",
			input: "~/test/path",
			checkFunc: func(result string) bool {
				expected := filepath.Join(homeDir, "test/path")
				return result == expected
			},
		},
		{
			name:  "absolute path",
			input: "/absolute/path",
			checkFunc: func(result string) bool {
				return result == "/absolute/path"
			},
		},
		{
			name:      "relative path",
			input:     "relative/path",
			checkFunc: filepath.IsAbs,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ResolvePath(tt.input)
			if tt.wantError {
				if err == nil {
					t.Errorf("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error: %v", err)
				return
			}
			if tt.checkFunc != nil && !tt.checkFunc(result) {
				t.Errorf("Result check failed for input %q, got: %s", tt.input, result)
			}
		})
	}
}

func TestResolveDir(t *testing.T) {
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "main.css")
	if err := os.WriteFile(tmpFile, []byte("body{}"), 0o600); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}

	tests := []struct {
		name      string
		input     string
		wantError bool
	}{
		{name: "existing directory", input: tmpDir},
		{name: "file", input: tmpFile, wantError: true},
		{name: "missing path", input: filepath.Join(tmpDir, "missing"), wantError: true},
		{name: "empty path", input: "", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveDir(tt.input)
			if tt.wantError {
				if err == nil {
					t.Errorf("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error: %v", err)
				return
			}
			if got != tt.input {
				t.Errorf("ResolveDir(%q) = %q", tt.input, got)
			}
		})
	}
}
