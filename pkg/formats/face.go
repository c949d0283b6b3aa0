package formats

import (
	"encoding/binary"
	"math"
)

// FaceRecordSize is the on-disk size of one triangle.
const FaceRecordSize = 6

// Face is a triangle holding 1-based vertex indices.
type Face struct {
	A, B, C int32
}

// Indices returns the 0-based vertex indices of the triangle.
func (f Face) Indices() [3]int {
	return [3]int{int(f.A) - 1, int(f.B) - 1, int(f.C) - 1}
}

// Mean returns the rounded mean of the face's 1-based indices.
func (f Face) Mean() int {
	return int(math.Round(float64(f.A+f.B+f.C) / 3))
}

// DecodeFaces splits raw into len(raw)/6 triangles of three signed 16-bit
// indices. Disk indices are 0-based and are stored 1-based in Face. The
// second result is the per-face mean digest used for LOD previews.
// Indices are not checked against any vertex count.
func DecodeFaces(raw []byte) ([]Face, []int) {
	count := len(raw) / FaceRecordSize
	faces := make([]Face, count)
	digest := make([]int, count)

	for i := range faces {
		rec := raw[i*FaceRecordSize:]
		faces[i] = Face{
			A: int32(int16(binary.LittleEndian.Uint16(rec[0:]))) + 1,
			B: int32(int16(binary.LittleEndian.Uint16(rec[2:]))) + 1,
			C: int32(int16(binary.LittleEndian.Uint16(rec[4:]))) + 1,
		}
		digest[i] = faces[i].Mean()
	}
	return faces, digest
}

// EncodeFaces writes faces back to their on-disk form.
func EncodeFaces(faces []Face) []byte {
	out := make([]byte, len(faces)*FaceRecordSize)
	for i, f := range faces {
		rec := out[i*FaceRecordSize:]
		binary.LittleEndian.PutUint16(rec[0:], uint16(int16(f.A-1)))
		binary.LittleEndian.PutUint16(rec[2:], uint16(int16(f.B-1)))
		binary.LittleEndian.PutUint16(rec[4:], uint16(int16(f.C-1)))
	}
	return out
}
