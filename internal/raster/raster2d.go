package raster

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"tile-rasterizer/internal/mathutil"
	"tile-rasterizer/internal/scene"
	"tile-rasterizer/internal/shader"
)

// bboxPad keeps axis-aligned thin primitives that sit exactly on a tile edge.
const bboxPad = 0.5

// drawBatch2D rasterizes a screen-space batch into the tile.
func (t *tileRenderer) drawBatch2D(b *scene.Batch2D, programs []shader.Program) {
	if b == nil {
		return
	}
	if !b.BBox.Pad(bboxPad).Intersects(t.tileRect()) {
		return
	}
	if b.Mode == scene.Triangles {
		t.drawTriangles2D(b, programs)
		return
	}
	t.drawLines2D(b)
}

func (t *tileRenderer) drawTriangles2D(b *scene.Batch2D, programs []shader.Program) {
	prog := shader.Lookup(programs, b.Shader)
	lit := t.r.Mode == Lit && b.ReceivesLight
	tile := t.buf.tile
	nv := len(b.Vertices)

tris:
	for i, tri := range b.Indices {
		if i >= len(b.Edges) {
			break
		}
		e := &b.Edges[i]
		if !e.Visible || !validTriangle(tri, nv) {
			continue
		}
		a, bb, c := b.Vertices[tri[0]], b.Vertices[tri[1]], b.Vertices[tri[2]]
		x0, y0, x1, y1, ok := t.pixelBox(
			math32.Min(a[0], math32.Min(bb[0], c[0])),
			math32.Min(a[1], math32.Min(bb[1], c[1])),
			math32.Max(a[0], math32.Max(bb[0], c[0])),
			math32.Max(a[1], math32.Max(bb[1], c[1])),
		)
		if !ok {
			continue
		}
		hasUV := validTriangle(tri, len(b.UVs))

		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				sx, sy := tile.wrapToTile(float32(x)+0.5, float32(y)+0.5)
				p := mgl32.Vec2{sx, sy}
				if !e.Inside(p) {
					continue
				}
				l, ok := safeWeights(a, bb, c, p)
				if !ok {
					continue tris
				}
				var uv mgl32.Vec2
				if hasUV {
					uv = interpolateVec2(l, b.UVs[tri[0]], b.UVs[tri[1]], b.UVs[tri[2]])
				}
				ground := t.r.gridPosition(t.fc, p)
				col := t.sample(b.Source, b.Filter, uv, ground)

				if prog != nil {
					col = t.shade2D(prog, col, uv, ground)
				}
				if lit {
					light := t.light2D(ground)
					for k := 0; k < 3; k++ {
						col[k] = mathutil.ToByte(float32(col[k]) / 255 * light[k])
					}
				}

				idx := t.buf.index(x, y)
				blendPixel(t.buf.color[idx*4:idx*4+4], col, t.r.PreserveTransparency)
			}
		}
	}
}

// shade2D runs prog on a sampled sRGB colour and returns its output.
func (t *tileRenderer) shade2D(prog shader.Program, col [4]uint8, uv, ground mgl32.Vec2) [4]uint8 {
	e := t.exec
	e.Reset(t.fc.globals)
	e.UV = uv
	e.HitPoint = mgl32.Vec3{ground[0], 0, ground[1]}
	e.Normal = mgl32.Vec3{0, 1, 0}
	e.Color = mgl32.Vec3{float32(col[0]) / 255, float32(col[1]) / 255, float32(col[2]) / 255}
	e.Opacity = float32(col[3]) / 255
	if !prog.Shade(e, shader.EntryShade, t.palette()) {
		return col
	}
	return [4]uint8{
		mathutil.ToByte(e.Color[0]),
		mathutil.ToByte(e.Color[1]),
		mathutil.ToByte(e.Color[2]),
		mathutil.ToByte(e.Opacity),
	}
}

// drawLines2D draws line primitives with Bresenham's algorithm. Pixels are
// written with the batch's solid colour, without blending or depth.
func (t *tileRenderer) drawLines2D(b *scene.Batch2D) {
	col := t.sample(b.Source, b.Filter, mgl32.Vec2{}, mgl32.Vec2{})
	for _, seg := range b.LineSegments() {
		p0, p1 := b.Vertices[seg[0]], b.Vertices[seg[1]]
		if !mathutil.IsFinite(p0[0]+p0[1]) || !mathutil.IsFinite(p1[0]+p1[1]) {
			continue
		}
		t.bresenham(
			int(math32.Floor(p0[0])), int(math32.Floor(p0[1])),
			int(math32.Floor(p1[0])), int(math32.Floor(p1[1])),
			col,
		)
	}
}

// bresenham plots the integer line from (x0, y0) to (x1, y1), both ends
// included, clipped to the tile.
func (t *tileRenderer) bresenham(x0, y0, x1, y1 int, col [4]uint8) {
	tile := t.buf.tile
	if max(x0, x1) < tile.X || min(x0, x1) >= tile.X+tile.Width ||
		max(y0, y1) < tile.Y || min(y0, y1) >= tile.Y+tile.Height {
		return
	}
	dx := iabs(x1 - x0)
	dy := -iabs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		if tile.Contains(x0, y0) {
			t.buf.setPixel(t.buf.index(x0, y0), col)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func validTriangle(tri [3]int, n int) bool {
	return tri[0] >= 0 && tri[0] < n && tri[1] >= 0 && tri[1] < n && tri[2] >= 0 && tri[2] < n
}

func iabs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
