// Package vfs provides a virtual directory tree over mounted game archives.
package vfs

import (
	"strings"

	"github.com/Faultbox/pakview/pkg/archive"
	"github.com/Faultbox/pakview/pkg/encoding"
)

// File is a file in the virtual tree. Archive-backed files decode their
// bytes on first access and may drop them again with ClearCache;
// memory-backed files hold their bytes for their whole lifetime.
//
// A File's cache has a single owner: Data and ClearCache must not run
// concurrently on the same File.
type File struct {
	Name    string // Last path segment, or the display name of a memory file
	Path    string // Normalized full path
	Archive string // Owning archive, empty for memory files
	Size    uint64 // Declared size

	source archive.Source
	mode   archive.DecodeMode
	data   []byte
	cached bool
}

// NewArchiveFile creates a file backed by an archive entry.
func NewArchiveFile(e archive.Entry, src archive.Source) *File {
	path := encoding.NormalizePath(e.Path)
	name := path
	if segments := encoding.SplitPath(path); len(segments) > 0 {
		name = segments[len(segments)-1]
	}
	return &File{
		Name:    name,
		Path:    path,
		Archive: e.Archive,
		Size:    e.Size,
		source:  src,
		mode:    archive.DecodeAuto,
	}
}

// NewMemoryFile creates a file whose bytes are held in memory. name is
// kept verbatim as the display name; the path is name with separators
// normalized, so either spelling finds it through Directory.Lookup.
func NewMemoryFile(name string, data []byte) *File {
	return &File{
		Name:   name,
		Path:   strings.Join(encoding.SplitPath(name), "/"),
		Size:   uint64(len(data)),
		data:   data,
		cached: true,
	}
}

// IsMemory reports whether the file has no owning archive.
func (f *File) IsMemory() bool {
	return f.source == nil
}

// Cached reports whether the file's bytes are currently held.
func (f *File) Cached() bool {
	return f.cached
}

// Data returns the file's decoded bytes, reading the owning archive only
// when nothing is cached.
func (f *File) Data() ([]byte, error) {
	if f.cached {
		return f.data, nil
	}

	data, err := archive.ReadEntry(f.source, f.Archive, f.Path, f.mode)
	if err != nil {
		return nil, err
	}
	f.data = data
	f.cached = true
	return f.data, nil
}

// ClearCache drops decoded bytes of an archive-backed file.
// Memory-backed files are unaffected.
func (f *File) ClearCache() {
	if f.IsMemory() {
		return
	}
	f.data = nil
	f.cached = false
}
