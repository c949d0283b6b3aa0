// Package config handles pakview configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/Faultbox/pakview/internal/logger"
	"github.com/Faultbox/pakview/pkg/archive"
	"github.com/Faultbox/pakview/pkg/formats"
	"github.com/Faultbox/pakview/pkg/vfs"
)

// ErrInvalid is returned by Validate for out-of-range settings.
var ErrInvalid = errors.New("invalid config")

// Config holds all pakview settings.
type Config struct {
	Data    DataConfig    `yaml:"data"`
	Viewer  ViewerConfig  `yaml:"viewer"`
	Logging LoggingConfig `yaml:"logging"`
}

// DataConfig holds data root and archive layout settings.
type DataConfig struct {
	Roots             []string `yaml:"roots"`              // First root is primary, the rest are overlays
	ArchiveDir        string   `yaml:"archive_dir"`        // Subfolder of each root holding archives
	ArchivePatterns   []string `yaml:"archive_patterns"`   // Glob patterns matched inside ArchiveDir
	LocalizationEntry string   `yaml:"localization_entry"` // Archive path of the localization container
}

// ViewerConfig holds the last-used viewer settings.
type ViewerConfig struct {
	LODPercent     float64 `yaml:"lod_percent"` // Fraction of faces to draw, 0..1
	TextureWidth   int     `yaml:"texture_width"`
	TextureHeight  int     `yaml:"texture_height"`
	TextureVariant int     `yaml:"texture_variant"` // 1..5 for DXT1..DXT5
	LastDirectory  string  `yaml:"last_directory"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	scan := archive.DefaultScanOptions()
	mount := vfs.DefaultMountOptions()
	return &Config{
		Data: DataConfig{
			Roots:             nil,
			ArchiveDir:        scan.Subdir,
			ArchivePatterns:   scan.Patterns,
			LocalizationEntry: mount.LocalizationEntry,
		},
		Viewer: ViewerConfig{
			LODPercent:     1,
			TextureWidth:   256,
			TextureHeight:  256,
			TextureVariant: int(formats.VariantDXT1),
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports settings that no session could use.
func (c *Config) Validate() error {
	if c.Viewer.LODPercent < 0 || c.Viewer.LODPercent > 1 {
		return fmt.Errorf("%w: viewer.lod_percent %v outside 0..1", ErrInvalid, c.Viewer.LODPercent)
	}
	if !formats.TextureVariant(c.Viewer.TextureVariant).Valid() {
		return fmt.Errorf("%w: viewer.texture_variant %d outside 1..5", ErrInvalid, c.Viewer.TextureVariant)
	}
	if c.Viewer.TextureWidth < 0 || c.Viewer.TextureHeight < 0 {
		return fmt.Errorf("%w: negative texture size %dx%d", ErrInvalid, c.Viewer.TextureWidth, c.Viewer.TextureHeight)
	}
	if len(c.Data.ArchivePatterns) == 0 {
		return fmt.Errorf("%w: data.archive_patterns is empty", ErrInvalid)
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: logging.%v", ErrInvalid, err)
	}
	return nil
}

// MountOptions converts the data section into mount options.
func (c *Config) MountOptions() vfs.MountOptions {
	return vfs.MountOptions{
		Scan: archive.ScanOptions{
			Subdir:   c.Data.ArchiveDir,
			Patterns: c.Data.ArchivePatterns,
		},
		LocalizationEntry: c.Data.LocalizationEntry,
	}
}
