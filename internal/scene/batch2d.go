package scene

import "github.com/go-gl/mathgl/mgl32"

// PrimitiveMode is how a batch's vertices form primitives.
type PrimitiveMode int

const (
	Triangles PrimitiveMode = iota
	Lines
	LineStrip
	LineLoop
)

// Batch2D is a screen-space render unit. Vertices, UVs and Indices are flat
// arrays; Edges is one-to-one with Indices once Build has run.
type Batch2D struct {
	Mode     PrimitiveMode
	Vertices []mgl32.Vec2
	UVs      []mgl32.Vec2
	Indices  [][3]int

	Edges []Edges
	BBox  Rect

	Source        PixelSource
	Filter        Filter
	Shader        int
	ReceivesLight bool
}

// NewBatch2D builds a triangle batch and precomputes edges and bounds.
func NewBatch2D(vertices, uvs []mgl32.Vec2, indices [][3]int) *Batch2D {
	b := &Batch2D{
		Mode:     Triangles,
		Vertices: vertices,
		UVs:      uvs,
		Indices:  indices,
		Source:   Off{},
		Shader:   NoShader,
	}
	return b.Build()
}

// NewRect2D builds an axis-aligned quad covering [x, x+w)×[y, y+h) with
// UVs spanning [0,1].
func NewRect2D(x, y, w, h float32) *Batch2D {
	return NewBatch2D(
		[]mgl32.Vec2{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}},
		[]mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
		[][3]int{{0, 1, 2}, {0, 2, 3}},
	)
}

// NewLines2D builds a line batch; Lines pairs vertices (0,1),(2,3)…, strips
// and loops connect consecutive vertices.
func NewLines2D(mode PrimitiveMode, vertices []mgl32.Vec2, color Pixel) *Batch2D {
	b := &Batch2D{
		Mode:     mode,
		Vertices: vertices,
		Source:   color,
		Shader:   NoShader,
	}
	return b.Build()
}

// WithSource sets the pixel source.
func (b *Batch2D) WithSource(src PixelSource) *Batch2D {
	b.Source = src
	return b
}

// WithShader sets the shader program index.
func (b *Batch2D) WithShader(i int) *Batch2D {
	b.Shader = i
	return b
}

// WithLighting marks the batch as receiving light.
func (b *Batch2D) WithLighting(on bool) *Batch2D {
	b.ReceivesLight = on
	return b
}

// Transform applies an affine 2D matrix to every vertex and rebuilds.
func (b *Batch2D) Transform(m mgl32.Mat3) *Batch2D {
	for i, v := range b.Vertices {
		p := m.Mul3x1(mgl32.Vec3{v[0], v[1], 1})
		b.Vertices[i] = mgl32.Vec2{p[0], p[1]}
	}
	return b.Build()
}

// Build recomputes edges (for triangle batches) and the bounding box.
// Triangles referencing missing vertices get invisible edges.
func (b *Batch2D) Build() *Batch2D {
	b.BBox = EmptyRect()
	for _, v := range b.Vertices {
		b.BBox = b.BBox.Extend(v)
	}

	b.Edges = b.Edges[:0]
	if b.Mode != Triangles {
		return b
	}
	for _, tri := range b.Indices {
		if !validIndices(tri, len(b.Vertices)) {
			b.Edges = append(b.Edges, Edges{})
			continue
		}
		b.Edges = append(b.Edges, NewEdges(b.Vertices[tri[0]], b.Vertices[tri[1]], b.Vertices[tri[2]], false))
	}
	return b
}

// LineSegments returns the vertex index pairs the batch's line mode implies.
func (b *Batch2D) LineSegments() [][2]int {
	n := len(b.Vertices)
	var segs [][2]int
	switch b.Mode {
	case Lines:
		for i := 0; i+1 < n; i += 2 {
			segs = append(segs, [2]int{i, i + 1})
		}
	case LineStrip, LineLoop:
		for i := 0; i+1 < n; i++ {
			segs = append(segs, [2]int{i, i + 1})
		}
		if b.Mode == LineLoop && n > 2 {
			segs = append(segs, [2]int{n - 1, 0})
		}
	}
	return segs
}

func validIndices(tri [3]int, n int) bool {
	for _, i := range tri {
		if i < 0 || i >= n {
			return false
		}
	}
	return true
}
