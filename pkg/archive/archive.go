// Package archive catalogs and reads zip-shaped game data archives.
package archive

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"

	"github.com/Faultbox/pakview/pkg/encoding"
)

// Archive errors.
var (
	ErrMount         = errors.New("cannot mount data root")
	ErrEntryNotFound = errors.New("entry not found")
)

// Entry is a single cataloged file inside an archive.
type Entry struct {
	Path    string // Normalized entry path ("/" separators)
	Archive string // Filesystem path of the owning archive
	Size    uint64 // Declared uncompressed size from the archive directory
}

// ScanOptions controls which files under a data root are treated as archives.
type ScanOptions struct {
	Subdir   string   // Well-known archive folder under the root
	Patterns []string // Glob patterns matched against archive file names
}

// DefaultScanOptions returns the standard archive layout.
func DefaultScanOptions() ScanOptions {
	return ScanOptions{
		Subdir:   "data",
		Patterns: []string{"*.pak", "*.zip"},
	}
}

// Scan enumerates every entry of every archive in root's archive folder.
// Payloads are not decompressed. Archives are visited in lexical order per
// pattern and entries keep their on-disk directory order.
func Scan(root string, opts ScanOptions) ([]Entry, error) {
	dir := filepath.Join(root, opts.Subdir)
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMount, root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrMount, dir)
	}

	archives, err := listArchives(dir, opts.Patterns)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMount, root, err)
	}

	var entries []Entry
	for _, path := range archives {
		found, err := scanArchive(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrMount, path, err)
		}
		entries = append(entries, found...)
	}
	return entries, nil
}

func listArchives(dir string, patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var result []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			if seen[m] {
				continue
			}
			seen[m] = true
			result = append(result, m)
		}
	}
	return result, nil
}

func scanArchive(path string) ([]Entry, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	defer reader.Close()

	entries := make([]Entry, 0, len(reader.File))
	for _, f := range reader.File {
		name := encoding.NormalizePath(f.Name)
		if strings.HasSuffix(name, "/") {
			continue
		}
		entries = append(entries, Entry{
			Path:    name,
			Archive: path,
			Size:    f.UncompressedSize64,
		})
	}
	return entries, nil
}
