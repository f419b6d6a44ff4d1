package core

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	configDirName  = "rustup-find"
	configFileName = "config.yaml"
)

// Config holds persistent flag defaults loaded from the user config file.
// Command-line flags take precedence over every field here.
type Config struct {
	Days       int      `yaml:"days"`
	Offset     int      `yaml:"offset"`
	Components []string `yaml:"components"`
	Toolchain  string   `yaml:"toolchain"`
	RustupBin  string   `yaml:"rustup-bin"`
	RustupDir  string   `yaml:"rustup-dir"`
	DistServer string   `yaml:"dist-server"`
}

// DefaultConfigPath returns the conventional config file location,
// honoring XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, configDirName, configFileName)
}

// LoadConfig reads the config file at path. A missing file is not an error;
// it yields an empty config so a plain install works without any setup.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return &Config{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if cfg.Days < 0 || cfg.Offset < 0 {
		return nil, fmt.Errorf("parsing %s: days and offset must not be negative", path)
	}

	return &cfg, nil
}
