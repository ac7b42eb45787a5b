package model

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/viper"
)

// Credential backends accepted by CredentialConfig.Backend.
const (
	CredentialBackendSQLite  = "sqlite"
	CredentialBackendKeyring = "keyring"
)

// APIConfig holds settings for the platform HTTP API.
type APIConfig struct {
	// BaseURL is prefixed to every request path.
	BaseURL string `mapstructure:"base_url" yaml:"base_url" env:"TAVERN_BASE_URL"`

	// TimeoutSec bounds every request at the transport.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec" env:"TAVERN_TIMEOUT_SEC"`
}

// Timeout returns the transport timeout as a duration.
func (c APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}

// CredentialConfig selects where the bearer credential is persisted.
type CredentialConfig struct {
	Backend    string `mapstructure:"backend" yaml:"backend" env:"TAVERN_CREDENTIAL_BACKEND"`
	KeyringDir string `mapstructure:"keyring_dir" yaml:"keyring_dir" env:"TAVERN_KEYRING_DIR"`
}

// StorageConfig locates the local key-value database.
type StorageConfig struct {
	DBPath string `mapstructure:"db_path" yaml:"db_path" env:"TAVERN_DB_PATH"`
}

// NotifyConfig holds notification display settings.
type NotifyConfig struct {
	DefaultDurationMS int `mapstructure:"default_duration_ms" yaml:"default_duration_ms" env:"TAVERN_NOTIFY_DURATION_MS"`
}

// SessionConfig controls the background session expiry check.
type SessionConfig struct {
	CheckIntervalSec int `mapstructure:"check_interval_sec" yaml:"check_interval_sec" env:"TAVERN_SESSION_CHECK_SEC"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	File string `mapstructure:"file" yaml:"file" env:"TAVERN_LOG_FILE"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	API        APIConfig        `mapstructure:"api" yaml:"api"`
	Credential CredentialConfig `mapstructure:"credential" yaml:"credential"`
	Storage    StorageConfig    `mapstructure:"storage" yaml:"storage"`
	Notify     NotifyConfig     `mapstructure:"notify" yaml:"notify"`
	Session    SessionConfig    `mapstructure:"session" yaml:"session"`
	Log        LogConfig        `mapstructure:"log" yaml:"log"`
}

// configDir returns ~/.config/tavern, or the working directory when the
// home directory cannot be resolved.
func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "tavern")
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/tavern/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	dir := configDir()
	return &AppConfig{
		API: APIConfig{
			BaseURL:    "http://localhost:8080/api",
			TimeoutSec: 10,
		},
		Credential: CredentialConfig{
			Backend:    CredentialBackendSQLite,
			KeyringDir: filepath.Join(dir, "credentials"),
		},
		Storage: StorageConfig{
			DBPath: filepath.Join(dir, "tavern.db"),
		},
		Notify: NotifyConfig{
			DefaultDurationMS: 4000,
		},
		Session: SessionConfig{
			CheckIntervalSec: 30,
		},
		Log: LogConfig{
			File: filepath.Join(dir, "tavern.log"),
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper,
// then applies TAVERN_* environment overrides. A missing file yields the
// defaults with overrides applied.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	def := defaultAppConfig()
	v.SetDefault("api.base_url", def.API.BaseURL)
	v.SetDefault("api.timeout_sec", def.API.TimeoutSec)
	v.SetDefault("credential.backend", def.Credential.Backend)
	v.SetDefault("credential.keyring_dir", def.Credential.KeyringDir)
	v.SetDefault("storage.db_path", def.Storage.DBPath)
	v.SetDefault("notify.default_duration_ms", def.Notify.DefaultDurationMS)
	v.SetDefault("session.check_interval_sec", def.Session.CheckIntervalSec)
	v.SetDefault("log.file", def.Log.File)

	cfg := defaultAppConfig()
	if err := v.ReadInConfig(); err != nil {
		_, missingPath := err.(*os.PathError)
		_, missingFile := err.(viper.ConfigFileNotFoundError)
		if !missingPath && !missingFile {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing env overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the client cannot run with.
func (c *AppConfig) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if c.API.TimeoutSec <= 0 {
		return fmt.Errorf("api.timeout_sec must be positive, got %d", c.API.TimeoutSec)
	}
	switch c.Credential.Backend {
	case CredentialBackendSQLite, CredentialBackendKeyring:
	default:
		return fmt.Errorf("credential.backend must be %q or %q, got %q",
			CredentialBackendSQLite, CredentialBackendKeyring, c.Credential.Backend)
	}
	return nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("api", cfg.API)
	v.Set("credential", cfg.Credential)
	v.Set("storage", cfg.Storage)
	v.Set("notify", cfg.Notify)
	v.Set("session", cfg.Session)
	v.Set("log", cfg.Log)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
