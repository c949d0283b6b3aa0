// Package assets resolves virtual paths against a mounted file system and
// tracks which files hold decoded bytes.
package assets

import (
	"fmt"
	"sync"

	"github.com/Faultbox/pakview/pkg/archive"
	"github.com/Faultbox/pakview/pkg/vfs"
)

// Manager loads files from a mounted file system.
// When a path is present in several roots the last mounted copy wins.
type Manager struct {
	fs     *vfs.FileSystem
	opened map[string]*vfs.File
	mu     sync.Mutex

	// Stats
	hits   int
	misses int
}

// NewManager creates a new asset manager over fs.
func NewManager(fs *vfs.FileSystem) *Manager {
	return &Manager{
		fs:     fs,
		opened: make(map[string]*vfs.File),
	}
}

// FileSystem returns the mounted file system.
func (m *Manager) FileSystem() *vfs.FileSystem {
	return m.fs
}

// Resolve returns the file that wins for path.
func (m *Manager) Resolve(path string) (*vfs.File, error) {
	matches := m.fs.Root.Lookup(path)
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %s", archive.ErrEntryNotFound, path)
	}
	return matches[len(matches)-1], nil
}

// Load returns the decoded bytes of the file that wins for path.
func (m *Manager) Load(path string) ([]byte, error) {
	f, err := m.Resolve(path)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if f.Cached() {
		m.hits++
	} else {
		m.misses++
	}
	data, err := f.Data()
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	m.opened[f.Path] = f
	return data, nil
}

// Stats returns how many loads were served from cache and from archives.
func (m *Manager) Stats() (hits, misses int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hits, m.misses
}

// ClearCache drops the decoded bytes of every file loaded so far.
func (m *Manager) ClearCache() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, f := range m.opened {
		f.ClearCache()
	}
	m.opened = make(map[string]*vfs.File)
	m.hits = 0
	m.misses = 0
}

// Close clears the cache and releases the mounted archives.
func (m *Manager) Close() error {
	m.ClearCache()
	return m.fs.Close()
}
