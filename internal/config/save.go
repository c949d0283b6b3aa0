package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrNoConfigDir is returned by Save when no config file was named and the
// platform has no user config directory.
var ErrNoConfigDir = errors.New("no user config directory")

// Save writes the config back to the file named by --config or
// $PAKVIEW_CONFIG, or to the user config file otherwise.
func (c *Config) Save() error {
	path := explicitPath()
	if path == "" {
		path = userConfigFile()
	}
	if path == "" {
		return ErrNoConfigDir
	}
	return c.SaveTo(path)
}

// SaveTo writes the config to a specific path.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Remember records the directory and texture settings of the last viewed
// asset so the next session starts from them.
func (c *Config) Remember(dir string, width, height, variant int) {
	c.Viewer.LastDirectory = dir
	c.Viewer.TextureWidth = width
	c.Viewer.TextureHeight = height
	c.Viewer.TextureVariant = variant
}
