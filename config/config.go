// Package config loads application settings and the provider credential
// store from the user config directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const AppDirName = "usageclaw"

// Settings are the tunables read from config.yaml. Zero values select the
// defaults below.
type Settings struct {
	RefreshInterval time.Duration `koanf:"refresh-interval"`
	WatchInterval   time.Duration `koanf:"watch-interval"`
	Listen          string        `koanf:"listen"`
	Demo            bool          `koanf:"demo"`
}

const (
	DefaultRefreshInterval = 5 * time.Minute
	DefaultWatchInterval   = 30 * time.Minute
	DefaultListen          = "127.0.0.1:8787"
)

// Load reads settings from the given path. A missing file yields the
// defaults; a malformed one is an error.
func Load(path string) (*Settings, error) {
	s := &Settings{}
	if err := loadFile(path, s); err != nil {
		return nil, err
	}

	if s.RefreshInterval <= 0 {
		s.RefreshInterval = DefaultRefreshInterval
	}
	if s.WatchInterval <= 0 {
		s.WatchInterval = DefaultWatchInterval
	}
	if s.Listen == "" {
		s.Listen = DefaultListen
	}
	return s, nil
}

// loadFile parses a YAML file into target, silently skipping missing files
// so callers don't need to check existence first.
func loadFile(path string, target any) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return k.Unmarshal("", target)
}

// Dir returns the app config directory, preferring XDG_CONFIG_HOME.
func Dir() string {
	if xdg.ConfigHome != "" {
		return filepath.Join(xdg.ConfigHome, AppDirName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", AppDirName)
}

func DefaultSettingsPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

func DefaultKeystorePath() string {
	return filepath.Join(Dir(), "keys.toml")
}
