package model

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.BaseURL != "http://localhost:8080/api" {
		t.Errorf("base url = %q", cfg.API.BaseURL)
	}
	if cfg.API.TimeoutSec != 10 {
		t.Errorf("timeout = %d", cfg.API.TimeoutSec)
	}
	if cfg.Notify.DefaultDurationMS != 4000 {
		t.Errorf("notify duration = %d", cfg.Notify.DefaultDurationMS)
	}
	if cfg.Credential.Backend != CredentialBackendSQLite {
		t.Errorf("backend = %q", cfg.Credential.Backend)
	}
}

func TestLoadConfigFileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`api:
  base_url: https://tavern.example.com/api
  timeout_sec: 5
credential:
  backend: keyring
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("TAVERN_TIMEOUT_SEC", "20")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.BaseURL != "https://tavern.example.com/api" {
		t.Errorf("base url = %q", cfg.API.BaseURL)
	}
	if cfg.API.TimeoutSec != 20 {
		t.Errorf("env override not applied, timeout = %d", cfg.API.TimeoutSec)
	}
	if cfg.Credential.Backend != CredentialBackendKeyring {
		t.Errorf("backend = %q", cfg.Credential.Backend)
	}
	// Keys absent from the file keep their defaults.
	if cfg.Session.CheckIntervalSec != 30 {
		t.Errorf("session interval = %d", cfg.Session.CheckIntervalSec)
	}
}

func TestValidateRejectsUnknownBackend(t *testing.T) {
	cfg := defaultAppConfig()
	cfg.Credential.Backend = "cookie"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown backend")
	}

	cfg = defaultAppConfig()
	cfg.API.TimeoutSec = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero timeout")
	}
}
