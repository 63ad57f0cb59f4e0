// Package config loads board settings from .board.yaml, BOARD_* environment
// variables and bound command line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// ErrNotConfigured is returned when the app id or the store path is empty.
var ErrNotConfigured = errors.New("config: board is not configured")

const (
	KeyPath     = "path"
	KeyAppID    = "app_id"
	KeyToken    = "token"
	KeySecret   = "secret"
	KeyIssuer   = "issuer"
	KeyBackend  = "backend"
	KeyAdmin    = "admin"
	KeyLogLevel = "log_level"

	DefaultAppID = "default-app-id"

	BackendDisk   = "disk"
	BackendMemory = "memory"
)

// Config is the resolved configuration.
type Config struct {
	Path     string `json:"path"`
	AppID    string `json:"app_id"`
	Token    string `json:"-"`
	Secret   string `json:"-"`
	Issuer   string `json:"issuer,omitempty"`
	Backend  string `json:"backend"`
	Admin    bool   `json:"admin"`
	LogLevel string `json:"log_level"`
}

// BasePath is the root directory of the disk backend.
func (c *Config) BasePath() string {
	return c.Path
}

// Validate reports ErrNotConfigured for a config the board cannot run with.
// An empty Backend means the disk backend.
func (c *Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.AppID) == "" {
		missing = append(missing, KeyAppID)
	}
	if c.Backend != BackendMemory && strings.TrimSpace(c.Path) == "" {
		missing = append(missing, KeyPath)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s empty", ErrNotConfigured, strings.Join(missing, ", "))
	}
	switch c.Backend {
	case BackendDisk, BackendMemory, "":
	default:
		return fmt.Errorf("config: unknown backend %q", c.Backend)
	}
	return nil
}

// SetDefaults registers defaults and the config file search path on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyPath, "~/.board.db")
	v.SetDefault(KeyAppID, DefaultAppID)
	v.SetDefault(KeyBackend, BackendDisk)
	v.SetDefault(KeyIssuer, "board")
	v.SetDefault(KeyLogLevel, "warn")
	v.SetConfigName(".board") // .yaml is implicit
	v.SetEnvPrefix("BOARD")
	v.AutomaticEnv()

	if override := os.Getenv("BOARD_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")
}

// LoadConfig reads the global viper instance.
func LoadConfig() (*Config, error) {
	return Load(viper.GetViper())
}

// Load reads v. A missing config file is fine; a broken one is an error.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: reading %s: %w", v.ConfigFileUsed(), err)
		}
	}

	path := v.GetString(KeyPath)
	if path != "" {
		expanded, err := homedir.Expand(path)
		if err != nil {
			return nil, fmt.Errorf("config: expanding %q: %w", path, err)
		}
		path = expanded
	}

	return &Config{
		Path:     path,
		AppID:    v.GetString(KeyAppID),
		Token:    v.GetString(KeyToken),
		Secret:   v.GetString(KeySecret),
		Issuer:   v.GetString(KeyIssuer),
		Backend:  strings.ToLower(v.GetString(KeyBackend)),
		Admin:    v.GetBool(KeyAdmin),
		LogLevel: v.GetString(KeyLogLevel),
	}, nil
}
