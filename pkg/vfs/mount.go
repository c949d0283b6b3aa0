package vfs

import (
	"fmt"

	"github.com/Faultbox/pakview/pkg/archive"
	"github.com/Faultbox/pakview/pkg/encoding"
	"github.com/Faultbox/pakview/pkg/formats"
)

// MountOptions configures how data roots are mounted.
type MountOptions struct {
	Scan archive.ScanOptions

	// LocalizationEntry is the archive path of the per-root localization
	// container. Empty disables localization merging.
	LocalizationEntry string
}

// DefaultMountOptions returns the standard mount layout.
func DefaultMountOptions() MountOptions {
	return MountOptions{
		Scan:              archive.DefaultScanOptions(),
		LocalizationEntry: "text/strings.loc",
	}
}

// RootStats summarizes what a single data root contributed.
type RootStats struct {
	Root      string
	Entries   int
	Localized int
}

// FileSystem is a mounted set of data roots.
type FileSystem struct {
	Root    *Directory
	Entries []archive.Entry
	Stats   []RootStats

	source *archive.ZipSource
}

// Mount scans roots in order and builds one tree. Later roots append after
// earlier ones; paths present in several roots appear once per root.
// Any root failing to scan, or carrying a malformed localization
// container, fails the mount.
func Mount(roots []string, opts MountOptions) (*FileSystem, error) {
	fs := &FileSystem{
		Root:   NewRoot(),
		source: archive.NewZipSource(),
	}

	for _, root := range roots {
		stats, err := fs.mountRoot(root, opts)
		if err != nil {
			fs.Close()
			return nil, err
		}
		fs.Stats = append(fs.Stats, stats)
	}
	return fs, nil
}

func (fs *FileSystem) mountRoot(root string, opts MountOptions) (RootStats, error) {
	entries, err := archive.Scan(root, opts.Scan)
	if err != nil {
		return RootStats{}, err
	}
	stats := RootStats{Root: root, Entries: len(entries)}

	var locEntry *archive.Entry
	locPath := encoding.NormalizePath(opts.LocalizationEntry)
	for i := range entries {
		fs.Root.Add(NewArchiveFile(entries[i], fs.source))
		if locEntry == nil && locPath != "" && entries[i].Path == locPath {
			locEntry = &entries[i]
		}
	}
	fs.Entries = append(fs.Entries, entries...)

	if locEntry == nil {
		return stats, nil
	}

	raw, err := archive.ReadEntry(fs.source, locEntry.Archive, locEntry.Path, archive.DecodeForceCompressed)
	if err != nil {
		return RootStats{}, fmt.Errorf("reading localization %s in %s: %w", locEntry.Path, root, err)
	}
	files, err := LocalizationFiles(raw)
	if err != nil {
		return RootStats{}, fmt.Errorf("decoding localization %s in %s: %w", locEntry.Path, root, err)
	}
	for _, f := range files {
		fs.Root.AppendFile(f)
	}
	stats.Localized = len(files)
	return stats, nil
}

// LocalizationFiles decodes a localization container into memory-backed files.
func LocalizationFiles(raw []byte) ([]*File, error) {
	entries, err := formats.DecodeLocalization(raw)
	if err != nil {
		return nil, err
	}
	files := make([]*File, len(entries))
	for i, e := range entries {
		files[i] = NewMemoryFile(e.Name, e.Data)
	}
	return files, nil
}

// Source returns the archive source shared by the mounted files.
func (fs *FileSystem) Source() archive.Source {
	return fs.source
}

// Close releases the archives opened by the mount.
func (fs *FileSystem) Close() error {
	if fs.source != nil {
		return fs.source.Close()
	}
	return nil
}
