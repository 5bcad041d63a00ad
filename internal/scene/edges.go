package scene

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// MinArea is the smallest absolute signed area (in pixels², doubled) a
// triangle may have before it is treated as degenerate.
const MinArea = 1e-6

// Edges holds the three edge functions of a screen-space triangle,
// E_i(p) = A_i*x + B_i*y + C_i, oriented so the interior is non-negative.
type Edges struct {
	A, B, C [3]float32
	Visible bool
}

// NewEdges precomputes edge functions for triangle (a, b, c). Degenerate
// triangles are invisible; with cullBackfaces, so are triangles with
// positive signed area in y-down screen space (clockwise in NDC).
func NewEdges(a, b, c mgl32.Vec2, cullBackfaces bool) Edges {
	area := (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
	if math32.Abs(area) < MinArea || math32.IsNaN(area) {
		return Edges{}
	}
	if cullBackfaces && area > 0 {
		return Edges{}
	}

	var e Edges
	verts := [3]mgl32.Vec2{a, b, c}
	for i := 0; i < 3; i++ {
		p := verts[i]
		q := verts[(i+1)%3]
		e.A[i] = -(q[1] - p[1])
		e.B[i] = q[0] - p[0]
		e.C[i] = (q[1]-p[1])*p[0] - (q[0]-p[0])*p[1]
	}
	if area < 0 {
		for i := 0; i < 3; i++ {
			e.A[i], e.B[i], e.C[i] = -e.A[i], -e.B[i], -e.C[i]
		}
	}
	e.Visible = true
	return e
}

// Evaluate returns the three edge function values at p.
func (e *Edges) Evaluate(p mgl32.Vec2) [3]float32 {
	return [3]float32{
		e.A[0]*p[0] + e.B[0]*p[1] + e.C[0],
		e.A[1]*p[0] + e.B[1]*p[1] + e.C[1],
		e.A[2]*p[0] + e.B[2]*p[1] + e.C[2],
	}
}

// Inside reports whether p lies in a visible triangle (edges inclusive).
func (e *Edges) Inside(p mgl32.Vec2) bool {
	if !e.Visible {
		return false
	}
	v := e.Evaluate(p)
	return v[0] >= 0 && v[1] >= 0 && v[2] >= 0
}

// Rect is an axis-aligned screen-space box.
type Rect struct {
	Min, Max mgl32.Vec2
}

// EmptyRect is the identity for Extend.
func EmptyRect() Rect {
	inf := math32.Inf(1)
	return Rect{Min: mgl32.Vec2{inf, inf}, Max: mgl32.Vec2{-inf, -inf}}
}

// Extend grows r to contain p.
func (r Rect) Extend(p mgl32.Vec2) Rect {
	r.Min = mgl32.Vec2{math32.Min(r.Min[0], p[0]), math32.Min(r.Min[1], p[1])}
	r.Max = mgl32.Vec2{math32.Max(r.Max[0], p[0]), math32.Max(r.Max[1], p[1])}
	return r
}

// Empty reports whether r contains no points.
func (r Rect) Empty() bool {
	return r.Min[0] > r.Max[0] || r.Min[1] > r.Max[1]
}

// Pad grows r by d on every side.
func (r Rect) Pad(d float32) Rect {
	return Rect{
		Min: mgl32.Vec2{r.Min[0] - d, r.Min[1] - d},
		Max: mgl32.Vec2{r.Max[0] + d, r.Max[1] + d},
	}
}

// Intersects reports whether r overlaps the half-open box [x0,x1)×[y0,y1).
func (r Rect) Intersects(x0, y0, x1, y1 float32) bool {
	if r.Empty() {
		return false
	}
	return r.Min[0] < x1 && r.Max[0] >= x0 && r.Min[1] < y1 && r.Max[1] >= y0
}
