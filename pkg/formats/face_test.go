package formats

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeFaces(t *testing.T) {
	raw := make([]byte, 2*FaceRecordSize+4) // trailing partial record is ignored
	binary.LittleEndian.PutUint16(raw[0:], 0)
	binary.LittleEndian.PutUint16(raw[2:], 1)
	binary.LittleEndian.PutUint16(raw[4:], 2)
	binary.LittleEndian.PutUint16(raw[6:], 10)
	binary.LittleEndian.PutUint16(raw[8:], 11)
	binary.LittleEndian.PutUint16(raw[10:], 15)

	faces, digest := DecodeFaces(raw)
	require.Len(t, faces, 2)
	require.Len(t, digest, 2)

	assert.Equal(t, Face{1, 2, 3}, faces[0])
	assert.Equal(t, [3]int{0, 1, 2}, faces[0].Indices())
	assert.Equal(t, Face{11, 12, 16}, faces[1])

	// (1+2+3)/3 = 2, (11+12+16)/3 = 13
	assert.Equal(t, []int{2, 13}, digest)
}

func TestDecodeFaces_SignedIndices(t *testing.T) {
	raw := make([]byte, FaceRecordSize)
	binary.LittleEndian.PutUint16(raw[0:], 0xFFFF) // -1
	binary.LittleEndian.PutUint16(raw[2:], 0x7FFF) // 32767
	binary.LittleEndian.PutUint16(raw[4:], 0x8000) // -32768

	faces, _ := DecodeFaces(raw)
	assert.Equal(t, Face{0, 32768, -32767}, faces[0])
}

func TestFaceIndexRoundTrip(t *testing.T) {
	tests := []Face{
		{1, 2, 3},
		{100, 1, 50},
		{32768, 32767, 1},
	}

	for _, f := range tests {
		raw := EncodeFaces([]Face{f})
		decoded, _ := DecodeFaces(raw)
		want := [3]int{int(f.A) - 1, int(f.B) - 1, int(f.C) - 1}
		assert.Equal(t, want, decoded[0].Indices(), "face %+v", f)
		assert.Equal(t, raw, EncodeFaces(decoded), "face %+v re-encodes identically", f)
	}
}

func TestFaceMean(t *testing.T) {
	tests := []struct {
		face Face
		want int
	}{
		{Face{1, 1, 1}, 1},
		{Face{1, 2, 2}, 2},     // 1.67
		{Face{1, 1, 2}, 1},     // 1.33
		{Face{1, 2, 4}, 2},     // 2.33
		{Face{2, 2, 3}, 2},     // 2.33
		{Face{10, 20, 31}, 20}, // 20.33
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.face.Mean(), "%+v.Mean()", tt.face)
	}
}

func TestDecodeFaces_Empty(t *testing.T) {
	faces, digest := DecodeFaces(nil)
	assert.Empty(t, faces)
	assert.Empty(t, digest)
}
