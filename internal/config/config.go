package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	UI       UIConfig
	Log      LogConfig
	Session  SessionConfig
	Export   ExportConfig
	Sync     SyncConfig
	Keys     []KeyOverride
}

// KeyOverride rebinds one action within a key scope, e.g.
//
//	[[keys]]
//	scope = "table"
//	action = "export"
//	keys = ["e"]
type KeyOverride struct {
	Scope  string
	Action string
	Keys   []string
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
	// Migrations is a directory of migration files. Empty uses the set
	// compiled into the binary.
	Migrations string
}

// UIConfig holds presentation settings.
type UIConfig struct {
	DateFormat     string `mapstructure:"date_format"`
	CurrencySymbol string `mapstructure:"currency_symbol"`
	Timezone       string
	PageSize       int `mapstructure:"page_size"`
	Mouse          bool
}

// LogConfig holds zap settings. The TUI owns the terminal so logs go to a file.
type LogConfig struct {
	Level string
	File  string
}

// SessionConfig holds the admin login and idle expiry.
type SessionConfig struct {
	IdleTimeout   time.Duration `mapstructure:"idle_timeout"`
	AdminUser     string        `mapstructure:"admin_user"`
	AdminPassword string        `mapstructure:"admin_password"`
}

// ExportConfig holds where exported reports are written.
type ExportConfig struct {
	Dir string
}

// SyncConfig holds the refresh behaviour of the status badge.
type SyncConfig struct {
	Delay time.Duration
}

func dataDir() string {
	return filepath.Join(os.Getenv("HOME"), ".local", "share", "innkeeper")
}

func configPath() string {
	if p := os.Getenv("INNKEEPER_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "innkeeper", "config.toml")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.path", filepath.Join(dataDir(), "innkeeper.db"))
	v.SetDefault("database.migrations", "")
	v.SetDefault("ui.date_format", "2006-01-02")
	v.SetDefault("ui.currency_symbol", "$")
	v.SetDefault("ui.timezone", "America/New_York")
	v.SetDefault("ui.page_size", 15)
	v.SetDefault("ui.mouse", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", filepath.Join(dataDir(), "innkeeper.log"))
	v.SetDefault("session.idle_timeout", "30m")
	v.SetDefault("session.admin_user", "admin")
	v.SetDefault("session.admin_password", "password")
	v.SetDefault("export.dir", filepath.Join(dataDir(), "exports"))
	v.SetDefault("sync.delay", "2s")
}

// Load reads configuration from file and env. Env var overrides use prefix INNKEEPER_.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")
	if p := os.Getenv("INNKEEPER_CONFIG"); p != "" {
		v.SetConfigFile(p)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "innkeeper"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("INNKEEPER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Validate rejects values the application cannot run with.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Database.Path) == "" {
		errs = append(errs, errors.New("database.path is empty"))
	}
	if c.UI.PageSize < 1 {
		errs = append(errs, fmt.Errorf("ui.page_size must be positive, got %d", c.UI.PageSize))
	}
	if c.Session.IdleTimeout < 0 {
		errs = append(errs, fmt.Errorf("session.idle_timeout must not be negative, got %s", c.Session.IdleTimeout))
	}
	if c.Sync.Delay < 0 {
		errs = append(errs, fmt.Errorf("sync.delay must not be negative, got %s", c.Sync.Delay))
	}
	if _, err := time.LoadLocation(c.UI.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("ui.timezone: %w", err))
	}
	return errors.Join(errs...)
}

// Save writes the provided config to disk, creating the config directory if needed.
// The admin password is not written; keep it in the environment.
func Save(cfg Config) error {
	path := configPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("database.migrations", cfg.Database.Migrations)
	v.Set("ui.date_format", cfg.UI.DateFormat)
	v.Set("ui.currency_symbol", cfg.UI.CurrencySymbol)
	v.Set("ui.timezone", cfg.UI.Timezone)
	v.Set("ui.page_size", cfg.UI.PageSize)
	v.Set("ui.mouse", cfg.UI.Mouse)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.file", cfg.Log.File)
	v.Set("session.idle_timeout", cfg.Session.IdleTimeout.String())
	v.Set("session.admin_user", cfg.Session.AdminUser)
	v.Set("export.dir", cfg.Export.Dir)
	v.Set("sync.delay", cfg.Sync.Delay.String())
	if len(cfg.Keys) > 0 {
		keys := make([]map[string]any, 0, len(cfg.Keys))
		for _, k := range cfg.Keys {
			keys = append(keys, map[string]any{"scope": k.Scope, "action": k.Action, "keys": k.Keys})
		}
		v.Set("keys", keys)
	}

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
