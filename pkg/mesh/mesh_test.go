package mesh

import (
	"bytes"
	gomath "math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/pakview/pkg/formats"
)

func vtx(x, y, z float32) formats.Vertex {
	return formats.Vertex{Position: [3]float32{x, y, z}}
}

// roof returns two triangles meeting at a right angle along the v0-v2 edge.
func roof() ([]formats.Vertex, []formats.Face) {
	vertices := []formats.Vertex{
		vtx(0, 0, 0),
		vtx(1, 0, 0),
		vtx(0, 1, 0),
		vtx(0, 0, 1),
	}
	faces := []formats.Face{
		{A: 1, B: 2, C: 3}, // normal +Z
		{A: 1, B: 3, C: 4}, // normal +X
	}
	return vertices, faces
}

func assertVec(t *testing.T, want, got [3]float32) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-6, "component %d of %v", i, got)
	}
}

func TestBuildNormals(t *testing.T) {
	vertices, faces := roof()
	m := Build(vertices, faces, 1)

	require.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, m.Indices)
	assert.Equal(t, 2, m.Emitted)

	h := float32(1 / gomath.Sqrt2)
	assertVec(t, [3]float32{h, 0, h}, m.Vertices[0].Normal)
	assertVec(t, [3]float32{0, 0, 1}, m.Vertices[1].Normal)
	assertVec(t, [3]float32{h, 0, h}, m.Vertices[2].Normal)
	assertVec(t, [3]float32{1, 0, 0}, m.Vertices[3].Normal)
}

func TestBuildLODDropsTrailingTriangles(t *testing.T) {
	vertices, faces := roof()

	// Half of two faces keeps only the first triangle.
	m := Build(vertices, faces, 0.5)
	require.Equal(t, []uint32{0, 1, 2}, m.Indices)

	// Normals come from retained triangles only; v3 is untouched.
	assertVec(t, [3]float32{0, 0, 1}, m.Vertices[0].Normal)
	assertVec(t, [3]float32{0, 0, 0}, m.Vertices[3].Normal)

	// Bounds still cover the dropped vertex.
	assert.Equal(t, float32(1), m.Bounds.Max.Z)
}

func TestBuildLODZero(t *testing.T) {
	vertices, faces := roof()
	m := Build(vertices, faces, 0)

	assert.True(t, m.IsEmpty())
	assert.Equal(t, 4, m.VertexCount())
	for _, v := range m.Vertices {
		assertVec(t, [3]float32{}, v.Normal)
	}
}

func TestIndexCutoff(t *testing.T) {
	tests := []struct {
		faces    int
		fraction float32
		want     int
	}{
		{100, 1, 300},
		{100, 0.5, 150},
		{100, 0, 0},
		{200, 0.25, 150},
		{3, 1, 9},
		{100, 1.5, 300}, // clamped
		{100, -1, 0},    // clamped
		{100, 0.07, 21},
		{100, 0.14, 42},
		{100, 0.28, 84},
		{100, 0.29, 87},
		{100, 0.57, 171},
		{100, 0.58, 174},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IndexCutoff(tt.faces, tt.fraction),
			"IndexCutoff(%d, %v)", tt.faces, tt.fraction)
	}
}

func TestBuildLODMonotonic(t *testing.T) {
	const n = 137
	vertices := make([]formats.Vertex, n+2)
	for i := range vertices {
		vertices[i] = vtx(float32(i), float32(i*i%17), float32(i%5))
	}
	faces := make([]formats.Face, n)
	for i := range faces {
		faces[i] = formats.Face{A: int32(i + 1), B: int32(i + 2), C: int32(i + 3)}
	}

	prev := []uint32{}
	for step := 0; step <= 100; step++ {
		lod := float32(step) / 100
		m := Build(vertices, faces, lod)

		require.GreaterOrEqual(t, len(m.Indices), len(prev), "lod %v", lod)
		require.Equal(t, prev, m.Indices[:len(prev)], "lod %v is not a prefix extension", lod)
		require.Zero(t, len(m.Indices)%3)
		prev = m.Indices
	}
	assert.Len(t, prev, n*3)
}

func TestBuildSkipsOutOfRangeFaces(t *testing.T) {
	vertices, _ := roof()
	faces := []formats.Face{
		{A: 1, B: 2, C: 9}, // past the end
		{A: 0, B: 1, C: 2}, // 0-based -1
		{A: 1, B: 2, C: 3},
	}

	m := Build(vertices, faces, 1)
	assert.Equal(t, 2, m.SkippedFaces)
	assert.Equal(t, []uint32{0, 1, 2}, m.Indices)
}

func TestBuildBounds(t *testing.T) {
	vertices := []formats.Vertex{vtx(-2, 1, 0), vtx(4, -3, 2), vtx(0, 0, 7)}
	m := Build(vertices, nil, 1)

	assert.Equal(t, [3]float32{-2, -3, 0}, m.Bounds.Min.Array())
	assert.Equal(t, [3]float32{4, 1, 7}, m.Bounds.Max.Array())

	empty := Build(nil, nil, 1)
	assert.True(t, empty.Bounds.Empty())
	assert.True(t, empty.IsEmpty())
}

func TestBuildDegenerateTriangle(t *testing.T) {
	vertices := []formats.Vertex{vtx(0, 0, 0), vtx(1, 1, 1), vtx(2, 2, 2)}
	m := Build(vertices, []formats.Face{{A: 1, B: 2, C: 3}}, 1)

	require.Len(t, m.Indices, 3)
	for _, v := range m.Vertices {
		assertVec(t, [3]float32{}, v.Normal)
	}
}

func TestInterleaved(t *testing.T) {
	vertices := []formats.Vertex{
		{Position: [3]float32{1, 2, 3}, TexCoord: [2]float32{0.5, 0.25}},
	}
	m := Build(vertices, nil, 1)

	assert.Equal(t, []float32{1, 2, 3, 0, 0, 0, 0.5, 0.25}, m.Interleaved())
}

func TestWriteOBJ(t *testing.T) {
	vertices, faces := roof()
	m := Build(vertices, faces, 1)

	var buf bytes.Buffer
	require.NoError(t, WriteOBJ(&buf, m, "roof"))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "o roof\n"))
	assert.Equal(t, 4, strings.Count(out, "\nv "))
	assert.Equal(t, 4, strings.Count(out, "\nvt "))
	assert.Equal(t, 4, strings.Count(out, "\nvn "))
	assert.Contains(t, out, "f 1/1/1 2/2/2 3/3/3\n")
	assert.Contains(t, out, "f 1/1/1 3/3/3 4/4/4\n")
}
