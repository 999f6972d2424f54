// Package config loads the application configuration from a YAML file in the
// user config dir. A missing file yields the defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	configFileName   = "config.yaml"
	appConfigDirName = "tuner"

	defaultServer    = "https://de1.api.radio-browser.info"
	defaultLimit     = 100
	defaultUserAgent = "Tuner/1.0"
)

// Config holds application-wide configuration settings.
type Config struct {
	Catalog CatalogConfig `yaml:"catalog"`
	Player  PlayerConfig  `yaml:"player"`
}

// CatalogConfig configures the radio-browser API client.
type CatalogConfig struct {
	Server string `yaml:"server"`
	Limit  int    `yaml:"limit"`
}

// PlayerConfig configures playback.
type PlayerConfig struct {
	UserAgent string `yaml:"user_agent"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		Catalog: CatalogConfig{Server: defaultServer, Limit: defaultLimit},
		Player:  PlayerConfig{UserAgent: defaultUserAgent},
	}
}

// GetConfigFilePath returns the absolute path to the configuration file.
func GetConfigFilePath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, appConfigDirName, configFileName), nil
}

// Load reads the configuration file. A missing file returns the defaults;
// unset fields fall back to their default values.
func Load() (*Config, error) {
	configPath, err := GetConfigFilePath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.applyDefaults()

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Catalog.Server == "" {
		c.Catalog.Server = defaultServer
	}
	if c.Catalog.Limit <= 0 {
		c.Catalog.Limit = defaultLimit
	}
	if c.Player.UserAgent == "" {
		c.Player.UserAgent = defaultUserAgent
	}
}
