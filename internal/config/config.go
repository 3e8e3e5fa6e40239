package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
)

type Config struct {
	LogLevel string      `json:"log_level"`
	Audio    AudioConfig `json:"audio"`
}

type AudioConfig struct {
	// InputDevice and OutputDevice preselect device names by exact match.
	// Empty means the host default. No stream is opened until the
	// controller issues the corresponding command.
	InputDevice  string `json:"input_device"`
	OutputDevice string `json:"output_device"`
	// RingCapacity is the capture ring size in samples. Zero keeps the
	// engine default (half a second at 48 kHz stereo).
	RingCapacity int `json:"ring_capacity"`
}

// Load reads the config from disk or returns defaults
func Load() (*Config, error) {
	path := configPath()

	cfg := &Config{
		LogLevel: "info",
	}

	data, err := os.ReadFile(path)
	if err != nil {
		// First run: write the defaults so the file is there to edit.
		// Best effort; a read-only config dir is not fatal.
		cfg.Save()
		return cfg, nil
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	path := configPath()

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// configPath returns the platform-specific config file path
func configPath() string {
	var base string

	switch runtime.GOOS {
	case "darwin":
		base = os.Getenv("HOME") + "/Library/Application Support"
	case "windows":
		base = os.Getenv("APPDATA")
	default: // linux
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			base = xdg
		} else {
			base = os.Getenv("HOME") + "/.config"
		}
	}

	return filepath.Join(base, "rage-pad", "config.json")
}
