package formats

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// Vertex layout errors.
var (
	ErrUnsupportedLayout = errors.New("no candidate vertex stride divides block")
)

// OffsetAbsent marks a vertex field that is not present in a layout.
const OffsetAbsent uint32 = 255

// CandidateStrides are the vertex record widths seen in shipped assets.
var CandidateStrides = [...]uint32{24, 28, 32, 36}

// VertexLayout describes how a vertex block splits into records.
type VertexLayout struct {
	Stride         uint32 // Record width in bytes
	PositionOffset uint32 // Offset of 3x float32 position, or OffsetAbsent
	TexCoordOffset uint32 // Offset of 2x float32 texcoord, or OffsetAbsent
	ReservedOffset uint32 // Offset of the unused field the pipeline fills with 0xFF
}

// HasPosition reports whether the layout carries a position.
func (l VertexLayout) HasPosition() bool {
	return fieldFits(l.PositionOffset, 12, l.Stride)
}

// HasTexCoord reports whether the layout carries a texcoord.
func (l VertexLayout) HasTexCoord() bool {
	return fieldFits(l.TexCoordOffset, 8, l.Stride)
}

// fieldFits reports whether size bytes at off lie inside a stride-byte
// record. Written without off+size so large offsets cannot wrap.
func fieldFits(off, size, stride uint32) bool {
	return off != OffsetAbsent && off <= stride && stride-off >= size
}

// String returns a compact description like "stride=24 pos=0 uv=12 rsv=16".
func (l VertexLayout) String() string {
	return fmt.Sprintf("stride=%d pos=%s uv=%s rsv=%d",
		l.Stride, offsetString(l.PositionOffset), offsetString(l.TexCoordOffset), l.ReservedOffset)
}

func offsetString(off uint32) string {
	if off == OffsetAbsent {
		return "-"
	}
	return fmt.Sprintf("%d", off)
}

// DefaultVertexLayout is used when no candidate stride fits a block.
func DefaultVertexLayout() VertexLayout {
	return LayoutForStride(24)
}

// LayoutForStride returns the field offsets used with a given stride.
// Position and texcoord lead the record and the reserved field sits 8 bytes
// before its end.
func LayoutForStride(stride uint32) VertexLayout {
	reserved := uint32(0)
	if stride >= 8 {
		reserved = stride - 8
	}
	return VertexLayout{
		Stride:         stride,
		PositionOffset: 0,
		TexCoordOffset: 12,
		ReservedOffset: reserved,
	}
}

// EligibleStrides returns the candidate strides that divide blockLen evenly.
func EligibleStrides(blockLen int) []uint32 {
	var eligible []uint32
	if blockLen <= 0 {
		return eligible
	}
	for _, s := range CandidateStrides {
		if blockLen%int(s) == 0 {
			eligible = append(eligible, s)
		}
	}
	return eligible
}

// DetectVertexLayout guesses the layout of a raw vertex block.
//
// A single eligible stride is chosen outright. With several, the first whose
// 5th or 7th record ends in the 0xFF sentinel triplet wins, falling back to
// the smallest eligible stride. With none, the default layout is returned
// together with ErrUnsupportedLayout; the layout is usable either way.
func DetectVertexLayout(block []byte) (VertexLayout, error) {
	eligible := EligibleStrides(len(block))
	switch len(eligible) {
	case 0:
		return DefaultVertexLayout(), fmt.Errorf("%w: %d bytes", ErrUnsupportedLayout, len(block))
	case 1:
		return LayoutForStride(eligible[0]), nil
	}

	for _, s := range eligible {
		if hasSentinel(block, s, 5) || hasSentinel(block, s, 7) {
			return LayoutForStride(s), nil
		}
	}
	return LayoutForStride(eligible[0]), nil
}

// hasSentinel reports whether bytes [n*stride-3, n*stride) are all 0xFF.
// Blocks too short to hold n records never match.
func hasSentinel(block []byte, stride uint32, n int) bool {
	end := n * int(stride)
	if end > len(block) {
		return false
	}
	return block[end-3] == 0xFF && block[end-2] == 0xFF && block[end-1] == 0xFF
}

// Vertex is a decoded vertex record.
type Vertex struct {
	Position [3]float32
	TexCoord [2]float32
}

// DecodeVertices splits raw into len(raw)/Stride records. Fields absent from
// the layout stay zero; trailing bytes short of a full record are ignored.
func DecodeVertices(raw []byte, layout VertexLayout) []Vertex {
	if layout.Stride == 0 {
		return nil
	}
	stride := int(layout.Stride)
	count := len(raw) / stride
	vertices := make([]Vertex, count)

	for i := range vertices {
		rec := raw[i*stride : (i+1)*stride]
		if layout.HasPosition() {
			off := layout.PositionOffset
			vertices[i].Position = [3]float32{
				readFloat32(rec[off:]),
				readFloat32(rec[off+4:]),
				readFloat32(rec[off+8:]),
			}
		}
		if layout.HasTexCoord() {
			off := layout.TexCoordOffset
			vertices[i].TexCoord = [2]float32{
				readFloat32(rec[off:]),
				readFloat32(rec[off+4:]),
			}
		}
	}
	return vertices
}

func readFloat32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}
