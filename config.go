package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"reckey/hotkey"
)

// Config is the daemon's on-disk configuration. The hotkey service itself
// never touches storage; this file belongs to the caller side.
type Config struct {
	Hold   HotkeyConfig `toml:"hold"`
	Toggle HotkeyConfig `toml:"toggle"`
}

type HotkeyConfig struct {
	Spec    string `toml:"spec"`
	Enabled bool   `toml:"enabled"`
}

func defaultConfig() *Config {
	return &Config{
		Hold:   HotkeyConfig{Spec: hotkey.DefaultHoldSpec, Enabled: true},
		Toggle: HotkeyConfig{Spec: hotkey.DefaultToggleSpec, Enabled: false},
	}
}

// loadConfig reads the TOML file at path on top of the defaults. An empty
// path returns the defaults.
func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file: %w", err)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
