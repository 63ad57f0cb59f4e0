package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BOARD_CONFIG_PATH", t.TempDir())
	cfg, err := Load(viper.New())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	home, err := homedir.Dir()
	if err != nil {
		t.Fatalf("home: %v", err)
	}
	if want := filepath.Join(home, ".board.db"); cfg.Path != want {
		t.Fatalf("path = %q, want %q", cfg.Path, want)
	}
	if cfg.AppID != DefaultAppID || cfg.Backend != BackendDisk || cfg.Admin {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	body := []byte("app_id: town-hall\nbackend: Memory\nadmin: true\npath: \"\"\n")
	if err := os.WriteFile(filepath.Join(dir, ".board.yaml"), body, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("BOARD_CONFIG_PATH", dir)
	t.Setenv("BOARD_TOKEN", "tok")

	cfg, err := Load(viper.New())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.AppID != "town-hall" || cfg.Backend != BackendMemory || !cfg.Admin || cfg.Token != "tok" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	// The memory backend does not need a path.
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{"ok", Config{AppID: "a", Path: "/tmp/x", Backend: BackendDisk}, nil},
		{"no app id", Config{Path: "/tmp/x", Backend: BackendDisk}, ErrNotConfigured},
		{"no path", Config{AppID: "a", Backend: BackendDisk}, ErrNotConfigured},
		{"empty backend is disk", Config{AppID: "a", Path: "/tmp/x"}, nil},
		{"empty backend needs path", Config{AppID: "a"}, ErrNotConfigured},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}

	bad := Config{AppID: "a", Path: "/tmp/x", Backend: "cloud"}
	if err := bad.Validate(); err == nil || errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected unknown backend error, got %v", err)
	}
}
