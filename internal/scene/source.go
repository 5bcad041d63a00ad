package scene

import "github.com/google/uuid"

// PixelSource selects where a batch's colour comes from. It is a closed sum
// type: the rasterizer dispatches on the concrete variant with a type switch.
type PixelSource interface {
	pixelSource()
}

// Off draws nothing; sampling yields transparent black.
type Off struct{}

// Pixel is a solid sRGB colour.
type Pixel [4]uint8

// StaticTile indexes the static tile atlas in Assets.Tiles.
type StaticTile int

// DynamicTile indexes Scene.DynamicTextures.
type DynamicTile int

// EntityTile is frame sequence Index of an entity's tiles.
type EntityTile struct {
	ID    uuid.UUID
	Index int
}

// ItemTile is frame sequence Index of an item's tiles.
type ItemTile struct {
	ID    uuid.UUID
	Index int
}

// Terrain samples the chunk terrain by world position.
type Terrain struct{}

func (Off) pixelSource()         {}
func (Pixel) pixelSource()       {}
func (StaticTile) pixelSource()  {}
func (DynamicTile) pixelSource() {}
func (EntityTile) pixelSource()  {}
func (ItemTile) pixelSource()    {}
func (Terrain) pixelSource()     {}

// Filter selects texture filtering.
type Filter int

const (
	Nearest Filter = iota
	Linear
)

// NoShader marks a batch without a shader program.
const NoShader = -1
