package assets

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/pakview/pkg/archive"
	"github.com/Faultbox/pakview/pkg/vfs"
)

type fakeSource struct {
	entries map[string][]byte
}

func (s *fakeSource) OpenEntry(archivePath, name string) (io.ReadCloser, error) {
	data, ok := s.entries[archivePath+":"+name]
	if !ok {
		return nil, archive.ErrEntryNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func newTestManager() *Manager {
	src := &fakeSource{entries: map[string][]byte{
		"base.pak:text/intro.txt":  []byte("base"),
		"patch.pak:text/intro.txt": []byte("patch"),
		"base.pak:models/box.vtx":  []byte("vertices"),
	}}

	root := vfs.NewRoot()
	root.Add(vfs.NewArchiveFile(archive.Entry{Path: "text/intro.txt", Archive: "base.pak"}, src))
	root.Add(vfs.NewArchiveFile(archive.Entry{Path: "models/box.vtx", Archive: "base.pak"}, src))
	root.Add(vfs.NewArchiveFile(archive.Entry{Path: "text/intro.txt", Archive: "patch.pak"}, src))
	root.Add(vfs.NewArchiveFile(archive.Entry{Path: "models/gone.vtx", Archive: "base.pak"}, src))

	return NewManager(&vfs.FileSystem{Root: root})
}

func TestResolveLastWins(t *testing.T) {
	m := newTestManager()

	f, err := m.Resolve("text/intro.txt")
	require.NoError(t, err)
	assert.Equal(t, "patch.pak", f.Archive)
	assert.Len(t, m.FileSystem().Root.Lookup("text/intro.txt"), 2)

	_, err = m.Resolve("text/missing.txt")
	require.ErrorIs(t, err, archive.ErrEntryNotFound)
}

func TestLoad(t *testing.T) {
	m := newTestManager()

	data, err := m.Load("text/intro.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("patch"), data)

	_, err = m.Load(`text\intro.txt`)
	require.NoError(t, err)

	hits, misses := m.Stats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, misses)

	_, err = m.Load("models/gone.vtx")
	require.ErrorIs(t, err, archive.ErrEntryNotFound)
}

func TestClearCache(t *testing.T) {
	m := newTestManager()

	f, err := m.Resolve("models/box.vtx")
	require.NoError(t, err)
	_, err = m.Load("models/box.vtx")
	require.NoError(t, err)
	require.True(t, f.Cached())

	m.ClearCache()
	assert.False(t, f.Cached())
	hits, misses := m.Stats()
	assert.Zero(t, hits)
	assert.Zero(t, misses)

	data, err := m.Load("models/box.vtx")
	require.NoError(t, err)
	assert.Equal(t, []byte("vertices"), data)
	require.NoError(t, m.Close())
	assert.False(t, f.Cached())
}
