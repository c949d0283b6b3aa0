package archive

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
)

// DecodeMode selects how entry bytes are interpreted.
type DecodeMode int

const (
	// DecodeAuto inflates only when the entry starts with the zlib magic.
	DecodeAuto DecodeMode = iota
	// DecodeForceCompressed always treats the entry as a zlib stream.
	DecodeForceCompressed
)

// String returns the mode name.
func (m DecodeMode) String() string {
	switch m {
	case DecodeAuto:
		return "auto"
	case DecodeForceCompressed:
		return "force-compressed"
	default:
		return fmt.Sprintf("Unknown(%d)", int(m))
	}
}

// zlib header written by default-compression encoders.
var zlibMagic = [2]byte{0x78, 0x9C}

// IsZlibMagic reports whether b starts with the default-compression zlib header.
func IsZlibMagic(b []byte) bool {
	return len(b) >= 2 && b[0] == zlibMagic[0] && b[1] == zlibMagic[1]
}

// Decode reads an entry stream fully. Zlib streams have their 2-byte header
// skipped and the deflate body inflated; anything else is returned verbatim.
func Decode(r io.Reader, mode DecodeMode) ([]byte, error) {
	var head [2]byte
	n, err := io.ReadFull(r, head[:])
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("reading entry header: %w", err)
	}

	if n == 2 && (mode == DecodeForceCompressed || IsZlibMagic(head[:])) {
		return inflate(r)
	}
	if mode == DecodeForceCompressed {
		return nil, fmt.Errorf("entry too short for zlib header: %d bytes", n)
	}

	var buf bytes.Buffer
	buf.Write(head[:n])
	if _, err := io.Copy(&buf, r); err != nil {
		return nil, fmt.Errorf("reading raw entry: %w", err)
	}
	return buf.Bytes(), nil
}

func inflate(r io.Reader) ([]byte, error) {
	fr := flate.NewReader(r)
	defer fr.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, fr); err != nil {
		return nil, fmt.Errorf("inflating entry: %w", err)
	}
	return buf.Bytes(), nil
}

// ReadEntry opens name inside archivePath through src and decodes it.
func ReadEntry(src Source, archivePath, name string, mode DecodeMode) ([]byte, error) {
	rc, err := src.OpenEntry(archivePath, name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := Decode(rc, mode)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return data, nil
}
