package raster

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"

	"tile-rasterizer/internal/scene"
	"tile-rasterizer/internal/texture"
)

// sample resolves a pixel source at uv (texture space) and ground (world
// x, z). Missing textures and atlas entries yield transparent black.
func (t *tileRenderer) sample(src scene.PixelSource, filter scene.Filter, uv, ground mgl32.Vec2) [4]uint8 {
	frame := t.sc.AnimationFrame
	switch s := src.(type) {
	case scene.Pixel:
		return s
	case scene.StaticTile:
		return sampleTile(t.assets.StaticTile(int(s)), frame, filter, uv)
	case scene.DynamicTile:
		i := int(s)
		if i < 0 || i >= len(t.sc.DynamicTextures) {
			return [4]uint8{}
		}
		return sampleTile(t.sc.DynamicTextures[i], frame, filter, uv)
	case scene.EntityTile:
		return sampleTile(t.assets.EntityTile(s.ID, s.Index), frame, filter, uv)
	case scene.ItemTile:
		return sampleTile(t.assets.ItemTile(s.ID, s.Index), frame, filter, uv)
	case scene.Terrain:
		ts := t.fc.terrainAt(ground)
		if ts == nil {
			return [4]uint8{}
		}
		c, ok := ts.SampleTerrain(ground, frame)
		if !ok {
			return [4]uint8{}
		}
		return c
	}
	return [4]uint8{}
}

func sampleTile(tile *texture.Tile, frame int, filter scene.Filter, uv mgl32.Vec2) [4]uint8 {
	return sampleImage(tile.Frame(frame), filter, uv)
}

func sampleImage(img *image.NRGBA, filter scene.Filter, uv mgl32.Vec2) [4]uint8 {
	if img == nil {
		return [4]uint8{}
	}
	if filter == scene.Linear {
		return texture.SampleBilinear(img, uv[0], uv[1])
	}
	return texture.SampleNearest(img, uv[0], uv[1])
}
