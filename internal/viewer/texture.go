package viewer

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/pakview/internal/logger"
	"github.com/Faultbox/pakview/pkg/formats"
	"github.com/Faultbox/pakview/pkg/vfs"
)

// TextureSession wraps a raw pixel file in a texture container using the
// dimensions and compression variant chosen by the user.
type TextureSession struct {
	file    *vfs.File
	width   uint32
	height  uint32
	variant formats.TextureVariant

	log *zap.Logger
}

// NewTextureSession creates a session over file.
func NewTextureSession(file *vfs.File, width, height uint32, variant formats.TextureVariant) (*TextureSession, error) {
	s := &TextureSession{
		file: file,
		log:  logger.For("viewer.texture", zap.String("file", file.Path)),
	}
	if err := s.SetParams(width, height, variant); err != nil {
		return nil, err
	}
	return s, nil
}

// SetParams changes the declared dimensions and variant.
func (s *TextureSession) SetParams(width, height uint32, variant formats.TextureVariant) error {
	if !variant.Valid() {
		return fmt.Errorf("%w: %d", formats.ErrInvalidVariant, int(variant))
	}
	s.width = width
	s.height = height
	s.variant = variant
	return nil
}

// Params returns the declared dimensions and variant.
func (s *TextureSession) Params() (width, height uint32, variant formats.TextureVariant) {
	return s.width, s.height, s.variant
}

// Synthesize builds a fresh container from the file's pixels. A selection
// larger than the file yields formats.ErrSizeExceeded and no output.
func (s *TextureSession) Synthesize() ([]byte, error) {
	pixels, err := s.file.Data()
	if err != nil {
		return nil, fmt.Errorf("reading pixels %s: %w", s.file.Path, err)
	}

	out, err := formats.SynthesizeDDS(pixels, s.width, s.height, s.variant)
	if err != nil {
		if errors.Is(err, formats.ErrSizeExceeded) {
			s.log.Warn("selection too large",
				zap.Uint32("width", s.width),
				zap.Uint32("height", s.height),
				zap.Stringer("variant", s.variant),
				zap.Uint64("declared", formats.DeclaredTextureSize(s.width, s.height, s.variant)),
				zap.Int("available", len(pixels)))
		}
		return nil, err
	}
	return out, nil
}

// Close drops the file's cached bytes.
func (s *TextureSession) Close() {
	s.file.ClearCache()
}
