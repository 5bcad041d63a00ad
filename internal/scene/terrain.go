package scene

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"tile-rasterizer/internal/texture"
)

// TerrainSampler colours the ground at an (x, z) world position.
type TerrainSampler interface {
	SampleTerrain(p mgl32.Vec2, frame int) ([4]uint8, bool)
}

// TerrainGrid paints each unit world cell with an atlas tile. Cells without
// a tile use Default; with no Default the sample misses.
type TerrainGrid struct {
	Cells   map[[2]int32]*texture.Tile
	Default *texture.Tile
}

// NewTerrainGrid returns an empty grid.
func NewTerrainGrid(def *texture.Tile) *TerrainGrid {
	return &TerrainGrid{Cells: make(map[[2]int32]*texture.Tile), Default: def}
}

// Set paints cell (cx, cz).
func (t *TerrainGrid) Set(cx, cz int32, tile *texture.Tile) {
	t.Cells[[2]int32{cx, cz}] = tile
}

// SampleTerrain implements TerrainSampler using nearest sampling within the
// cell.
func (t *TerrainGrid) SampleTerrain(p mgl32.Vec2, frame int) ([4]uint8, bool) {
	cx := math32.Floor(p[0])
	cz := math32.Floor(p[1])
	tile := t.Cells[[2]int32{int32(cx), int32(cz)}]
	if tile == nil {
		tile = t.Default
	}
	img := tile.Frame(frame)
	if img == nil {
		return [4]uint8{}, false
	}
	return texture.SampleNearest(img, p[0]-cx, p[1]-cz), true
}
