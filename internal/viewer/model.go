// Package viewer holds the per-asset sessions a viewer front end drives:
// a model session turning vertex and face files into drawable buffers, and
// a texture session wrapping raw block-compressed pixels in a container.
package viewer

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/pakview/internal/logger"
	"github.com/Faultbox/pakview/pkg/formats"
	"github.com/Faultbox/pakview/pkg/mesh"
	"github.com/Faultbox/pakview/pkg/vfs"
)

// ErrInvalidStride is returned when a manual stride override is zero.
var ErrInvalidStride = errors.New("stride must be positive")

// ModelSession owns the geometry buffers built from a vertex and face file
// pair. Every layout or LOD change rebuilds the mesh from the cached file
// bytes.
type ModelSession struct {
	vertexFile *vfs.File
	faceFile   *vfs.File

	detected formats.VertexLayout
	fallback bool
	layout   formats.VertexLayout
	lod      float32

	faces  []formats.Face
	digest []int
	mesh   *mesh.Mesh

	log *zap.Logger
}

// NewModelSession reads both files, detects the vertex layout and builds
// the initial mesh. A block no candidate stride fits is shown with the
// default layout rather than failing.
func NewModelSession(vertexFile, faceFile *vfs.File, lod float32) (*ModelSession, error) {
	block, err := vertexFile.Data()
	if err != nil {
		return nil, fmt.Errorf("reading vertices %s: %w", vertexFile.Path, err)
	}
	faceData, err := faceFile.Data()
	if err != nil {
		return nil, fmt.Errorf("reading faces %s: %w", faceFile.Path, err)
	}

	s := &ModelSession{
		vertexFile: vertexFile,
		faceFile:   faceFile,
		lod:        lod,
		log: logger.For("viewer.model",
			zap.String("vertices", vertexFile.Path),
			zap.String("faces", faceFile.Path)),
	}

	s.detected, err = formats.DetectVertexLayout(block)
	if err != nil {
		s.fallback = true
		s.log.Warn("vertex layout not detected, using default",
			zap.Int("bytes", len(block)),
			zap.Stringer("layout", s.detected),
			zap.Error(err))
	} else {
		s.log.Debug("vertex layout detected",
			zap.Stringer("layout", s.detected))
	}
	s.layout = s.detected
	s.faces, s.digest = formats.DecodeFaces(faceData)

	if err := s.rebuild(); err != nil {
		return nil, err
	}
	return s, nil
}

// Mesh returns the current geometry buffers.
func (s *ModelSession) Mesh() *mesh.Mesh {
	return s.mesh
}

// Layout returns the layout in effect, including manual overrides.
func (s *ModelSession) Layout() formats.VertexLayout {
	return s.layout
}

// DetectedLayout returns the layout chosen by detection.
func (s *ModelSession) DetectedLayout() formats.VertexLayout {
	return s.detected
}

// Fallback reports whether detection found no eligible stride.
func (s *ModelSession) Fallback() bool {
	return s.fallback
}

// LOD returns the fraction of faces drawn.
func (s *ModelSession) LOD() float32 {
	return s.lod
}

// Digest returns the per-face digest for LOD previews.
func (s *ModelSession) Digest() []int {
	return s.digest
}

// Faces returns the decoded triangles.
func (s *ModelSession) Faces() []formats.Face {
	return s.faces
}

// SetStride overrides the record width.
func (s *ModelSession) SetStride(stride uint32) error {
	if stride == 0 {
		return ErrInvalidStride
	}
	s.layout.Stride = stride
	return s.rebuild()
}

// SetPositionOffset overrides the position field offset.
// formats.OffsetAbsent drops the field.
func (s *ModelSession) SetPositionOffset(off uint32) error {
	s.layout.PositionOffset = off
	return s.rebuild()
}

// SetTexCoordOffset overrides the texcoord field offset.
// formats.OffsetAbsent drops the field.
func (s *ModelSession) SetTexCoordOffset(off uint32) error {
	s.layout.TexCoordOffset = off
	return s.rebuild()
}

// SetReservedOffset overrides the reserved field offset.
func (s *ModelSession) SetReservedOffset(off uint32) error {
	s.layout.ReservedOffset = off
	return s.rebuild()
}

// ResetLayout discards manual overrides.
func (s *ModelSession) ResetLayout() error {
	s.layout = s.detected
	return s.rebuild()
}

// SetLOD changes the fraction of faces drawn. Values outside 0..1 are
// clamped by the mesh builder.
func (s *ModelSession) SetLOD(lod float32) error {
	s.lod = lod
	return s.rebuild()
}

func (s *ModelSession) rebuild() error {
	block, err := s.vertexFile.Data()
	if err != nil {
		return fmt.Errorf("reading vertices %s: %w", s.vertexFile.Path, err)
	}

	vertices := formats.DecodeVertices(block, s.layout)
	s.mesh = mesh.Build(vertices, s.faces, s.lod)

	if s.mesh.SkippedFaces > 0 {
		s.log.Warn("faces reference missing vertices",
			zap.Int("skipped", s.mesh.SkippedFaces),
			zap.Int("vertices", len(vertices)))
	}
	s.log.Debug("mesh rebuilt",
		zap.Stringer("layout", s.layout),
		zap.Float32("lod", s.lod),
		zap.Int("vertices", s.mesh.VertexCount()),
		zap.Int("triangles", s.mesh.TriangleCount()))
	return nil
}

// Close drops the session's buffers and the files' cached bytes.
func (s *ModelSession) Close() {
	s.mesh = nil
	s.faces = nil
	s.digest = nil
	s.vertexFile.ClearCache()
	s.faceFile.ClearCache()
}
