package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the environment variable consulted for a config file
// when --config is not given.
const EnvConfigPath = "PAKVIEW_CONFIG"

const (
	localConfigName = "pakview.yaml"
	userConfigName  = "config.yaml"
)

// Load builds the effective configuration. Defaults are overlaid by the
// config file and then by command-line flags, and the result is validated.
func Load() (*Config, error) {
	cfg := Default()

	if path := resolvePath(); path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolvePath picks the file Load reads: --config, then $PAKVIEW_CONFIG,
// then the first of ./pakview.yaml and the user config file that exists.
func resolvePath() string {
	if path := explicitPath(); path != "" {
		return path
	}
	return findConfigFile()
}

// explicitPath is the file named by --config or $PAKVIEW_CONFIG.
func explicitPath() string {
	if path := ConfigPath(); path != "" {
		return path
	}
	return os.Getenv(EnvConfigPath)
}

func findConfigFile() string {
	for _, path := range []string{localConfigName, userConfigFile()} {
		if path == "" {
			continue
		}
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// ConfigDir returns the per-user pakview config directory, or "" when the
// platform defines none.
func ConfigDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "pakview")
}

func userConfigFile() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, userConfigName)
}

// loadFromFile overlays the YAML document at path onto cfg. Keys the
// Config struct does not declare are rejected; an empty file changes
// nothing.
func loadFromFile(cfg *Config, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
