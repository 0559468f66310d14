// Package config loads console settings from a YAML file, MARKETADMIN_* environment variables and defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"marketadmin/pkg/logger"
)

// EnvPrefix environment overrides, e.g. MARKETADMIN_API_BASE_URL
const EnvPrefix = "MARKETADMIN"

// Config everything the commands need
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Session SessionConfig `mapstructure:"session"`
	Log     logger.Config `mapstructure:"log"`
	UI      UIConfig      `mapstructure:"ui"`
	Sandbox SandboxConfig `mapstructure:"sandbox"`
}

// APIConfig marketplace API location
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	Proxy   string        `mapstructure:"proxy"`
}

// SessionConfig where the logged-in session is persisted
type SessionConfig struct {
	Driver string `mapstructure:"driver"` // sqlite | postgres
	DSN    string `mapstructure:"dsn"`
}

// UIConfig dashboard presentation
type UIConfig struct {
	ShowErrors bool `mapstructure:"show_errors"`
}

// SandboxConfig in-process marketplace API
type SandboxConfig struct {
	Addr          string        `mapstructure:"addr"`
	Driver        string        `mapstructure:"driver"`
	DSN           string        `mapstructure:"dsn"`
	JWTSecret     string        `mapstructure:"jwt_secret"`
	LoginCooldown time.Duration `mapstructure:"login_cooldown"`
	AdminUsername string        `mapstructure:"admin_username"`
	AdminPassword string        `mapstructure:"admin_password"`
	AdminBusiness string        `mapstructure:"admin_business"`

	// cron expression with a seconds field; "off" disables the approval digest
	DigestSchedule string `mapstructure:"digest_schedule"`
}

// Dir $HOME/.marketadmin
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".marketadmin"
	}
	return filepath.Join(home, ".marketadmin")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "http://localhost:8000/api/")
	v.SetDefault("api.timeout", 15*time.Second)
	v.SetDefault("api.proxy", "")

	v.SetDefault("session.driver", "sqlite")
	v.SetDefault("session.dsn", filepath.Join(Dir(), "session.db"))

	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
	v.SetDefault("log.file", "")

	v.SetDefault("ui.show_errors", true)

	v.SetDefault("sandbox.addr", ":8000")
	v.SetDefault("sandbox.driver", "sqlite")
	v.SetDefault("sandbox.dsn", filepath.Join(Dir(), "sandbox.db"))
	v.SetDefault("sandbox.jwt_secret", "")
	v.SetDefault("sandbox.login_cooldown", time.Second)
	v.SetDefault("sandbox.admin_username", "admin")
	v.SetDefault("sandbox.admin_password", "")
	v.SetDefault("sandbox.admin_business", "Marketplace")
	v.SetDefault("sandbox.digest_schedule", "0 */15 * * * *")
}

// Load reads file (or $HOME/.marketadmin/config.yaml when empty). A missing default file is not an error.
func Load(file string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(Dir())
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings no command could work with
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return ErrMissingBaseURL
	}
	if !strings.HasSuffix(c.API.BaseURL, "/") {
		c.API.BaseURL += "/"
	}
	for _, d := range []string{c.Session.Driver, c.Sandbox.Driver} {
		if d != "sqlite" && d != "postgres" {
			return fmt.Errorf("%w: %q", ErrUnknownDriver, d)
		}
	}
	return nil
}

var (
	ErrMissingBaseURL = errors.New("config: api.base_url is required")
	ErrUnknownDriver  = errors.New("config: unknown database driver")
)
