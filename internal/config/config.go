// Package config loads site configuration from defaults, an optional YAML
// file and PORTFOLIO_* environment variables.
package config

import (
	"fmt"
	"os"
	"strings"

	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/varunkk24/portfolio/internal/contact"
)

const envPrefix = "PORTFOLIO_"

type Config struct {
	Port int `koanf:"port"`
	// Mode is the gin mode: debug, release or test.
	Mode string `koanf:"mode"`
	// ContentPath overrides the embedded content when set.
	ContentPath string `koanf:"content_path"`
	// StaticDir and ImagesDir are served when they exist.
	StaticDir string `koanf:"static_dir"`
	ImagesDir string `koanf:"images_dir"`
	// Recipient is the address contact links are addressed to. Defaults to
	// the profile email when empty.
	Recipient string `koanf:"recipient"`

	Analytics AnalyticsConfig    `koanf:"analytics"`
	Admin     AdminConfig        `koanf:"admin"`
	SMTP      contact.SMTPConfig `koanf:"smtp"`
}

type AnalyticsConfig struct {
	Enabled bool   `koanf:"enabled"`
	DBPath  string `koanf:"db_path"`
	// Salt keeps hashed IPs stable across restarts. Random when empty.
	Salt string `koanf:"salt"`
}

type AdminConfig struct {
	Username string `koanf:"username"`
	Password string `koanf:"password"`
}

func DefaultConfig() *Config {
	return &Config{
		Port:      8080,
		Mode:      "release",
		StaticDir: "./static",
		ImagesDir: "./images",
		Analytics: AnalyticsConfig{
			Enabled: true,
			DBPath:  "data/portfolio.db",
		},
		SMTP: contact.SMTPConfig{Port: "587"},
	}
}

// Load reads the YAML file at path if it exists, then overlays environment
// variables. PORTFOLIO_SMTP__HOST maps to smtp.host.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	// PORT is what most hosts set.
	if port := os.Getenv("PORT"); port != "" && !k.Exists("port") {
		if err := k.Set("port", port); err != nil {
			return nil, fmt.Errorf("setting port: %w", err)
		}
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

var validModes = map[string]bool{"debug": true, "release": true, "test": true}

// Validate checks that the configuration contains usable values.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if !validModes[c.Mode] {
		return fmt.Errorf("invalid mode %q: must be one of debug, release, test", c.Mode)
	}
	if c.Analytics.Enabled && c.Analytics.DBPath == "" {
		return fmt.Errorf("analytics.db_path is required when analytics is enabled")
	}
	if c.Admin.Password != "" && c.Admin.Username == "" {
		return fmt.Errorf("admin.username is required when admin.password is set")
	}
	if c.SMTP.Enabled() && c.SMTP.To == "" && c.Recipient == "" {
		return fmt.Errorf("smtp.to or recipient is required when SMTP is configured")
	}
	return nil
}

// AdminEnabled reports whether the dashboard should be mounted.
func (c *Config) AdminEnabled() bool {
	return c.Analytics.Enabled && c.Admin.Username != "" && c.Admin.Password != ""
}
