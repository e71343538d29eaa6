package config

import (
	"testing"
	"time"
)

func TestConfigResolver_Resolve_Defaults(t *testing.T) {
	global := DefaultGlobalConfig()
	global.Accounts = testAccounts()[:1]

	resolved, err := NewConfigResolver(global, "").Resolve()
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if resolved.Account.Name != "prod" {
		t.Errorf("expected account 'prod', got '%s'", resolved.Account.Name)
	}
	if resolved.Mode != ModePublish {
		t.Errorf("expected mode '%s', got '%s'", ModePublish, resolved.Mode)
	}
	if resolved.Concurrency != 10 {
		t.Errorf("expected concurrency 10, got %d", resolved.Concurrency)
	}
	if resolved.NotifyQuietPeriod != 1500*time.Millisecond {
		t.Errorf("expected quiet period 1.5s, got %s", resolved.NotifyQuietPeriod)
	}
	if !resolved.UseIgnoreFile {
		t.Error("expected ignore file enabled by default")
	}
}

func TestConfigResolver_Resolve_ConfigOverrides(t *testing.T) {
	useIgnoreFile := false
	global := &GlobalConfig{
		Accounts: testAccounts(),
		Watch: WatchConfig{
			Mode:              ModeDraft,
			Concurrency:       2,
			NotifyQuietPeriod: 300 * time.Millisecond,
			UseIgnoreFile:     &useIgnoreFile,
			Exclude:           []string{"*.tmp"},
		},
	}

	resolved, err := NewConfigResolver(global, "987").Resolve()
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if resolved.Account.Name != "sandbox" {
		t.Errorf("expected account 'sandbox', got '%s'", resolved.Account.Name)
	}
	if resolved.Mode != ModeDraft {
		t.Errorf("expected mode '%s', got '%s'", ModeDraft, resolved.Mode)
	}
	if resolved.Concurrency != 2 {
		t.Errorf("expected concurrency 2, got %d", resolved.Concurrency)
	}
	if resolved.NotifyQuietPeriod != 300*time.Millisecond {
		t.Errorf("expected quiet period 300ms, got %s", resolved.NotifyQuietPeriod)
	}
	if resolved.UseIgnoreFile {
		t.Error("expected ignore file disabled")
	}
	if len(resolved.Exclude) != 1 || resolved.Exclude[0] != "*.tmp" {
		t.Errorf("unexpected exclude patterns: %v", resolved.Exclude)
	}
}

func TestConfigResolver_Resolve_UnknownAccount(t *testing.T) {
	global := DefaultGlobalConfig()
	global.Accounts = testAccounts()

	if _, err := NewConfigResolver(global, "missing").Resolve(); err == nil {
		t.Error("expected error for unknown account")
	}
}

func TestConfigResolver_Resolve_WithAccount(t *testing.T) {
	// No accounts in the file; the override still resolves
	global := DefaultGlobalConfig()
	global.Watch.Mode = ModeDraft
	override := &AccountConfig{Name: "env", AccountID: 42, APIKey: "key"}

	resolved, err := NewConfigResolver(global, "ignored").WithAccount(override).Resolve()
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if resolved.Account.AccountID != 42 {
		t.Errorf("expected account id 42, got %d", resolved.Account.AccountID)
	}
	if resolved.Mode != ModeDraft {
		t.Errorf("expected mode '%s', got '%s'", ModeDraft, resolved.Mode)
	}
}
