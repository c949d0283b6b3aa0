package archive

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/zip"

	"github.com/Faultbox/pakview/pkg/encoding"
)

// Source opens archive entries as byte streams.
type Source interface {
	OpenEntry(archivePath, name string) (io.ReadCloser, error)
}

// ZipSource is a Source over zip containers on disk. Opened archives stay
// open until Close so repeated reads skip the central directory parse.
type ZipSource struct {
	mu       sync.Mutex
	archives map[string]*openArchive
}

type openArchive struct {
	reader *zip.ReadCloser
	index  map[string]*zip.File
}

// NewZipSource creates an empty ZipSource.
func NewZipSource() *ZipSource {
	return &ZipSource{archives: make(map[string]*openArchive)}
}

// OpenEntry opens the named entry inside archivePath.
func (s *ZipSource) OpenEntry(archivePath, name string) (io.ReadCloser, error) {
	arc, err := s.open(archivePath)
	if err != nil {
		return nil, err
	}

	f, ok := arc.index[encoding.NormalizePath(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s in %s", ErrEntryNotFound, name, archivePath)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("opening entry %s: %w", name, err)
	}
	return rc, nil
}

func (s *ZipSource) open(archivePath string) (*openArchive, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if arc, ok := s.archives[archivePath]; ok {
		return arc, nil
	}

	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("opening archive %s: %w", archivePath, err)
	}

	arc := &openArchive{
		reader: reader,
		index:  make(map[string]*zip.File, len(reader.File)),
	}
	for _, f := range reader.File {
		arc.index[encoding.NormalizePath(f.Name)] = f
	}
	s.archives[archivePath] = arc
	return arc, nil
}

// Close closes every archive opened by the source.
func (s *ZipSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for path, arc := range s.archives {
		if err := arc.reader.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing %s: %w", path, err))
		}
		delete(s.archives, path)
	}
	return errors.Join(errs...)
}
