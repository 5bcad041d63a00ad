package raster

import (
	"github.com/go-gl/mathgl/mgl32"

	"tile-rasterizer/internal/mathutil"
)

// resolveMisses shades pixels no opaque surface covered and then composites
// the opacity buffer over the result.
func (t *tileRenderer) resolveMisses() {
	buf := t.buf
	fc := t.fc
	tile := buf.tile
	brush := t.r.BrushPreview
	shadeMisses := len(fc.missNodes) > 0 || brush != nil

	for y := tile.Y; y < tile.Y+tile.Height; y++ {
		for x := tile.X; x < tile.X+tile.Width; x++ {
			idx := buf.index(x, y)
			if shadeMisses && buf.depth[idx] >= farDepth {
				t.shadeMiss(idx, float32(x)+0.5, float32(y)+0.5)
			}
			if buf.opDepth[idx] < farDepth && buf.depth[idx] > buf.opDepth[idx] {
				compositeOver(buf.color[idx*4:idx*4+4], buf.opColor[idx*4:idx*4+4], t.r.PreserveTransparency)
			}
		}
	}
}

// shadeMiss runs the miss nodes for the view ray through pixel (px, py) and
// applies the brush preview highlight where the ray meets the ground plane.
func (t *tileRenderer) shadeMiss(idx int, px, py float32) {
	fc := t.fc
	near, ok1 := fc.unproject(px, py, 0)
	far, ok2 := fc.unproject(px, py, 1)
	if !ok1 || !ok2 {
		return
	}
	ray := mathutil.Normalize(far.Sub(near))

	cur := t.buf.pixel(idx)
	c := mgl32.Vec4{
		float32(cur[0]) / 255,
		float32(cur[1]) / 255,
		float32(cur[2]) / 255,
		float32(cur[3]) / 255,
	}
	uv := mgl32.Vec2{px / float32(fc.width), py / float32(fc.height)}
	for _, n := range fc.missNodes {
		n.RenderMissD3(&c, fc.cameraPos, ray, uv, t.r.Hour)
	}

	if brush := t.r.BrushPreview; brush != nil && ray[1] != 0 {
		dist := -fc.cameraPos[1] / ray[1]
		if dist > 0 {
			hit := fc.cameraPos.Add(ray.Mul(dist))
			if blend, ok := brush.fade(mathutil.DistanceXZ(hit, brush.Position)); ok {
				for k := 0; k < 3; k++ {
					c[k] = mathutil.Lerp(c[k], 1, blend)
				}
			}
		}
	}

	t.buf.setPixel(idx, [4]uint8{
		mathutil.ToByte(c[0]),
		mathutil.ToByte(c[1]),
		mathutil.ToByte(c[2]),
		mathutil.ToByte(c[3]),
	})
}
