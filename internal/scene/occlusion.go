package scene

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"tile-rasterizer/internal/mathutil"
)

// Occluder answers exposure and line-of-sight queries on the ground plane.
// Points are (x, z) world coordinates.
type Occluder interface {
	Occlusion(p mgl32.Vec2) float32
	IsVisible(from, to mgl32.Vec2) bool
}

// OcclusionGrid is a unit-cell grid of exposure factors and blocking flags,
// anchored at (OriginX, OriginZ). Points outside the grid are fully exposed
// and never block.
type OcclusionGrid struct {
	OriginX, OriginZ int
	Width, Height    int

	exposure []float32
	blocking []bool
}

// NewOcclusionGrid returns a fully exposed, non-blocking grid.
func NewOcclusionGrid(originX, originZ, width, height int) *OcclusionGrid {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	g := &OcclusionGrid{
		OriginX:  originX,
		OriginZ:  originZ,
		Width:    width,
		Height:   height,
		exposure: make([]float32, width*height),
		blocking: make([]bool, width*height),
	}
	for i := range g.exposure {
		g.exposure[i] = 1
	}
	return g
}

func (g *OcclusionGrid) index(cx, cz int) (int, bool) {
	x := cx - g.OriginX
	z := cz - g.OriginZ
	if x < 0 || z < 0 || x >= g.Width || z >= g.Height {
		return 0, false
	}
	return z*g.Width + x, true
}

func cellOf(p mgl32.Vec2) (int, int) {
	return int(math32.Floor(p[0])), int(math32.Floor(p[1]))
}

// SetExposure sets the occlusion factor of cell (cx, cz), clamped to [0,1].
func (g *OcclusionGrid) SetExposure(cx, cz int, v float32) {
	if i, ok := g.index(cx, cz); ok {
		g.exposure[i] = mathutil.Saturate(v)
	}
}

// SetBlocking marks cell (cx, cz) as blocking line of sight. Blocking cells
// also become fully occluded.
func (g *OcclusionGrid) SetBlocking(cx, cz int, blocking bool) {
	if i, ok := g.index(cx, cz); ok {
		g.blocking[i] = blocking
		if blocking {
			g.exposure[i] = 0
		}
	}
}

// Occlusion implements Occluder.
func (g *OcclusionGrid) Occlusion(p mgl32.Vec2) float32 {
	if i, ok := g.index(cellOf(p)); ok {
		return g.exposure[i]
	}
	return 1
}

func (g *OcclusionGrid) blocked(cx, cz int) bool {
	i, ok := g.index(cx, cz)
	return ok && g.blocking[i]
}

// IsVisible walks the cells between from and to with Bresenham's algorithm
// and reports false if any cell strictly between the two end cells blocks.
func (g *OcclusionGrid) IsVisible(from, to mgl32.Vec2) bool {
	x0, z0 := cellOf(from)
	x1, z1 := cellOf(to)

	dx := abs(x1 - x0)
	dz := -abs(z1 - z0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sz := 1
	if z0 > z1 {
		sz = -1
	}
	err := dx + dz

	x, z := x0, z0
	for {
		if x == x1 && z == z1 {
			return true
		}
		if (x != x0 || z != z0) && g.blocked(x, z) {
			return false
		}
		e2 := 2 * err
		if e2 >= dz {
			err += dz
			x += sx
		}
		if e2 <= dx {
			err += dx
			z += sz
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
