package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// nearEpsilon keeps clipped vertices strictly in front of the eye.
const nearEpsilon = 1e-5

// Batch3D is a world-space render unit. Project fills the Clipped* arrays:
// ClippedVertices holds [screen x, screen y, depth in [0,1], clip w], one-to-one
// with ClippedUVs and ClippedNormals; ClippedIndices and Edges are parallel.
type Batch3D struct {
	Mode     PrimitiveMode
	Vertices []mgl32.Vec3
	UVs      []mgl32.Vec2
	Normals  []mgl32.Vec3
	Indices  [][3]int

	CullBackfaces bool

	ClippedVertices []mgl32.Vec4
	ClippedUVs      []mgl32.Vec2
	ClippedNormals  []mgl32.Vec3
	ClippedIndices  [][3]int
	Edges           []Edges
	BBox            Rect

	Source  PixelSource
	Filter  Filter
	Shader  int
	Ambient *mgl32.Vec4

	// Translucent batches go through the opacity pass.
	Translucent bool

	// ProfileID pairs coplanar opaque/translucent surfaces; nil means untagged.
	ProfileID *uint32
}

// NewBatch3D builds an unprojected triangle batch.
func NewBatch3D(vertices []mgl32.Vec3, uvs []mgl32.Vec2, normals []mgl32.Vec3, indices [][3]int) *Batch3D {
	return &Batch3D{
		Mode:     Triangles,
		Vertices: vertices,
		UVs:      uvs,
		Normals:  normals,
		Indices:  indices,
		Source:   Off{},
		Shader:   NoShader,
		BBox:     EmptyRect(),
	}
}

// NewProjectedBatch3D builds a batch from already projected vertices
// ([screen x, screen y, depth, w]) and computes edges and bounds.
func NewProjectedBatch3D(projected []mgl32.Vec4, uvs []mgl32.Vec2, normals []mgl32.Vec3, indices [][3]int) *Batch3D {
	b := NewBatch3D(nil, nil, nil, nil)
	b.ClippedVertices = projected
	b.ClippedUVs = uvs
	b.ClippedNormals = normals
	b.ClippedIndices = indices
	b.buildEdges()
	return b
}

// WithSource sets the pixel source.
func (b *Batch3D) WithSource(src PixelSource) *Batch3D {
	b.Source = src
	return b
}

// WithShader sets the shader program index.
func (b *Batch3D) WithShader(i int) *Batch3D {
	b.Shader = i
	return b
}

// WithProfile tags the batch with a surface profile id.
func (b *Batch3D) WithProfile(id uint32) *Batch3D {
	b.ProfileID = &id
	return b
}

// clipVertex is a vertex in clip space carrying its attributes.
type clipVertex struct {
	pos    mgl32.Vec4
	uv     mgl32.Vec2
	normal mgl32.Vec3
}

func (a clipVertex) lerp(b clipVertex, t float32) clipVertex {
	return clipVertex{
		pos:    a.pos.Add(b.pos.Sub(a.pos).Mul(t)),
		uv:     a.uv.Add(b.uv.Sub(a.uv).Mul(t)),
		normal: a.normal.Add(b.normal.Sub(a.normal).Mul(t)),
	}
}

// nearDistance is the signed distance to the near plane z = -w.
func nearDistance(v clipVertex) float32 {
	return v.pos[2] + v.pos[3] - nearEpsilon
}

// clipNear clips a polygon against the near plane (Sutherland–Hodgman).
func clipNear(poly []clipVertex) []clipVertex {
	if len(poly) == 0 {
		return nil
	}
	var out []clipVertex
	prev := poly[len(poly)-1]
	prevD := nearDistance(prev)
	for _, cur := range poly {
		curD := nearDistance(cur)
		if (curD >= 0) != (prevD >= 0) {
			t := prevD / (prevD - curD)
			out = append(out, prev.lerp(cur, t))
		}
		if curD >= 0 {
			out = append(out, cur)
		}
		prev, prevD = cur, curD
	}
	return out
}

// Project transforms vertices by viewProj, clips against the near plane,
// maps to a width×height viewport and rebuilds edges and bounds. Triangles
// with out-of-range indices are skipped.
func (b *Batch3D) Project(viewProj mgl32.Mat4, width, height int) {
	b.ClippedVertices = b.ClippedVertices[:0]
	b.ClippedUVs = b.ClippedUVs[:0]
	b.ClippedNormals = b.ClippedNormals[:0]
	b.ClippedIndices = b.ClippedIndices[:0]

	fw, fh := float32(width), float32(height)
	for _, tri := range b.Indices {
		if !validIndices(tri, len(b.Vertices)) {
			continue
		}
		poly := make([]clipVertex, 3)
		for k, i := range tri {
			poly[k] = clipVertex{pos: viewProj.Mul4x1(b.Vertices[i].Vec4(1))}
			if i < len(b.UVs) {
				poly[k].uv = b.UVs[i]
			}
			if i < len(b.Normals) {
				poly[k].normal = b.Normals[i]
			}
		}

		poly = clipNear(poly)
		if len(poly) < 3 {
			continue
		}

		base := len(b.ClippedVertices)
		for _, v := range poly {
			w := v.pos[3]
			inv := 1 / w
			ndc := mgl32.Vec3{v.pos[0] * inv, v.pos[1] * inv, v.pos[2] * inv}
			b.ClippedVertices = append(b.ClippedVertices, mgl32.Vec4{
				(ndc[0] + 1) * 0.5 * fw,
				(1 - ndc[1]) * 0.5 * fh,
				(ndc[2] + 1) * 0.5,
				w,
			})
			b.ClippedUVs = append(b.ClippedUVs, v.uv)
			b.ClippedNormals = append(b.ClippedNormals, v.normal)
		}
		for k := 1; k+1 < len(poly); k++ {
			b.ClippedIndices = append(b.ClippedIndices, [3]int{base, base + k, base + k + 1})
		}
	}

	b.buildEdges()
}

// buildEdges computes per-triangle edges and the screen-space bounds of the
// visible triangles.
func (b *Batch3D) buildEdges() {
	b.Edges = b.Edges[:0]
	b.BBox = EmptyRect()
	n := len(b.ClippedVertices)
	for _, tri := range b.ClippedIndices {
		if !validIndices(tri, n) {
			b.Edges = append(b.Edges, Edges{})
			continue
		}
		v0, v1, v2 := b.ClippedVertices[tri[0]], b.ClippedVertices[tri[1]], b.ClippedVertices[tri[2]]
		e := NewEdges(v0.Vec2(), v1.Vec2(), v2.Vec2(), b.CullBackfaces)
		b.Edges = append(b.Edges, e)
		if e.Visible {
			b.BBox = b.BBox.Extend(v0.Vec2()).Extend(v1.Vec2()).Extend(v2.Vec2())
		}
	}
}
