// Package mesh turns decoded vertex and face records into renderer-ready
// buffers with smooth per-vertex normals.
package mesh

import (
	gomath "math"

	"github.com/Faultbox/pakview/pkg/formats"
	"github.com/Faultbox/pakview/pkg/math"
)

// FloatsPerVertex is the interleaved layout width: position, normal, texcoord.
const FloatsPerVertex = 8

// Vertex is a renderer vertex.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
}

// Mesh holds CPU-side vertex and index buffers.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	Bounds   math.Bounds // Covers every vertex, retained or not

	FaceCount    int // Triangles supplied to Build
	Emitted      int // Triangles written to Indices
	SkippedFaces int // Triangles dropped for out-of-range indices
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// TriangleCount returns the number of emitted triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty reports whether the mesh has nothing to draw.
func (m *Mesh) IsEmpty() bool {
	return len(m.Indices) == 0
}

// IndexCutoff returns how many indices a LOD fraction retains out of
// faceCount triangles. fraction is clamped to [0, 1].
func IndexCutoff(faceCount int, fraction float32) int {
	fraction = max(0, min(1, fraction))
	// The percentage is taken in float32 so that slider values such as
	// 0.29 land on 29 rather than 28.999999.
	percent := float32(fraction * 100)
	return int(gomath.Floor(float64(faceCount) / 100 * float64(percent) * 3))
}

// Build converts decoded records into a Mesh. Triangles are emitted in
// on-disk order until the LOD cutoff is reached. Normals are accumulated
// from retained triangles only; vertices no retained triangle touches keep
// a zero normal.
func Build(vertices []formats.Vertex, faces []formats.Face, lod float32) *Mesh {
	m := &Mesh{
		Vertices:  make([]Vertex, len(vertices)),
		FaceCount: len(faces),
	}

	for i, v := range vertices {
		m.Vertices[i] = Vertex{Position: v.Position, TexCoord: v.TexCoord}
		m.Bounds.Extend(math.V3(v.Position))
	}

	cutoff := IndexCutoff(len(faces), lod)
	normals := make([]math.Vec3, len(vertices))
	m.Indices = make([]uint32, 0, cutoff)

	for _, face := range faces {
		if len(m.Indices)+3 > cutoff {
			break
		}

		idx := face.Indices()
		if !inRange(idx, len(vertices)) {
			m.SkippedFaces++
			continue
		}

		p0 := math.V3(vertices[idx[0]].Position)
		p1 := math.V3(vertices[idx[1]].Position)
		p2 := math.V3(vertices[idx[2]].Position)
		n := p1.Sub(p0).Cross(p2.Sub(p0)).Normalize()

		for _, vi := range idx {
			normals[vi] = normals[vi].Add(n)
			m.Indices = append(m.Indices, uint32(vi))
		}
		m.Emitted++
	}

	for i := range m.Vertices {
		m.Vertices[i].Normal = normals[i].Normalize().Array()
	}
	return m
}

func inRange(idx [3]int, count int) bool {
	for _, i := range idx {
		if i < 0 || i >= count {
			return false
		}
	}
	return true
}

// Interleaved returns the vertices packed as FloatsPerVertex floats each.
func (m *Mesh) Interleaved() []float32 {
	out := make([]float32, 0, len(m.Vertices)*FloatsPerVertex)
	for _, v := range m.Vertices {
		out = append(out,
			v.Position[0], v.Position[1], v.Position[2],
			v.Normal[0], v.Normal[1], v.Normal[2],
			v.TexCoord[0], v.TexCoord[1])
	}
	return out
}
