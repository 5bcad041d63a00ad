// Package raster is a tiled software rasterizer. A frame is split into
// tiles that are rendered independently by a pool of workers and merged in
// partition order.
package raster

import (
	"runtime"
	"sync"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"tile-rasterizer/internal/mathutil"
	"tile-rasterizer/internal/rendergraph"
	"tile-rasterizer/internal/scene"
	"tile-rasterizer/internal/shader"
)

// Mode selects how 3D surfaces are lit.
type Mode int

const (
	// Lit runs the full lighting model.
	Lit Mode = iota
	// Unlit outputs albedo plus emissive.
	Unlit
)

// BrushPreview highlights a disc on the ground plane.
type BrushPreview struct {
	Position mgl32.Vec3
	Radius   float32
	Falloff  float32
}

// fade returns the highlight blend at ground distance d, or false outside
// the disc.
func (b *BrushPreview) fade(d float32) (float32, bool) {
	if b == nil || b.Radius <= 0 || d >= b.Radius {
		return 0, false
	}
	falloff := b.Falloff
	if falloff <= 0 {
		falloff = 1
	}
	f := mathutil.Saturate((1 - d/b.Radius) / falloff)
	return 0.2 + 0.6*f, true
}

// Rasterizer holds the camera and render settings. It is read-only during
// Rasterize and may be reused across frames.
type Rasterizer struct {
	View       mgl32.Mat4
	Projection mgl32.Mat4

	// Translation2D and Scale2D are the 2D camera used to map screen
	// positions back to the world grid.
	Translation2D mgl32.Vec2
	Scale2D       float32

	Time float32
	Hour float32

	Mode                 Mode
	PreserveTransparency bool
	BrushPreview         *BrushPreview

	// AmbientColor (rgb, strength in w) and SunColor apply when the render
	// graph does not provide them.
	AmbientColor mgl32.Vec4
	SunColor     mgl32.Vec3

	RenderGraph *rendergraph.Graph

	// Workers is the tile worker count; <= 0 means GOMAXPROCS.
	Workers int
}

// NewRasterizer returns a lit rasterizer for the given camera.
func NewRasterizer(cam mathutil.Camera) *Rasterizer {
	return &Rasterizer{
		View:         cam.View,
		Projection:   cam.Projection,
		Scale2D:      1,
		Hour:         12,
		AmbientColor: mgl32.Vec4{1, 1, 1, 0.3},
		SunColor:     mgl32.Vec3{1, 0.96, 0.9},
	}
}

// frameContext is everything derived once per frame before the tile tasks
// start. Tile tasks only read it.
type frameContext struct {
	sc *scene.Scene

	width, height int
	center        mgl32.Vec2

	hitNodes  []rendergraph.Node
	missNodes []rendergraph.Node

	hasSun    bool
	sunDir    mgl32.Vec3
	dayFactor float32
	sunColor  mgl32.Vec3
	ambient   mgl32.Vec4

	lights []scene.Light
	chunks []*scene.Chunk

	invViewProj mgl32.Mat4
	cameraPos   mgl32.Vec3

	globals shader.Globals
	run3D   bool
}

// setupFrame derives the frame context from the rasterizer settings and the
// scene. It does not modify either.
func (r *Rasterizer) setupFrame(sc *scene.Scene, width, height int) *frameContext {
	fc := &frameContext{
		sc:        sc,
		width:     width,
		height:    height,
		center:    mgl32.Vec2{float32(width) / 2, float32(height) / 2},
		ambient:   r.AmbientColor,
		sunColor:  r.SunColor,
		dayFactor: 1,
		chunks:    sc.SortedChunks(),
		globals: shader.Globals{
			Time:  r.Time,
			Hour:  r.Hour,
			Frame: sc.AnimationFrame,
		},
	}

	if g := r.RenderGraph; g != nil {
		fc.hitNodes = g.Resolve(g.CollectNodesFrom(rendergraph.HitTerminal, 0))
		fc.missNodes = g.Resolve(g.CollectNodesFrom(rendergraph.MissTerminal, 0))
	}
	for _, nodes := range [][]rendergraph.Node{fc.hitNodes, fc.missNodes} {
		for _, n := range nodes {
			if !fc.hasSun {
				if dir, f, ok := n.RenderSetup(r.Hour); ok {
					fc.hasSun, fc.sunDir, fc.dayFactor = true, mathutil.Normalize(dir), f
				}
			}
			if c, ok := n.RenderAmbientColor(r.Hour); ok {
				fc.ambient = c
			}
		}
	}

	fc.lights = make([]scene.Light, 0, len(sc.Lights)+len(sc.DynamicLights))
	fc.lights = append(fc.lights, sc.Lights...)
	fc.lights = append(fc.lights, sc.DynamicLights...)
	for _, c := range fc.chunks {
		fc.lights = append(fc.lights, c.Lights...)
	}

	vp := r.Projection.Mul4(r.View)
	fc.invViewProj = vp.Inv()
	fc.cameraPos = r.View.Inv().Col(3).Vec3()

	fc.run3D = sc.Has3D() || len(fc.missNodes) > 0
	return fc
}

func (fc *frameContext) occlusionAt(p mgl32.Vec2) float32 {
	if c := fc.sc.ChunkAt(p); c != nil && c.Occlusion != nil {
		return c.GetOcclusion(p)
	}
	if fc.sc.Occlusion != nil {
		return fc.sc.Occlusion.Occlusion(p)
	}
	return 1
}

func (fc *frameContext) visible(p, lightPos mgl32.Vec2) bool {
	if c := fc.sc.ChunkAt(p); c != nil && c.Occlusion != nil {
		return c.IsVisible(p, lightPos)
	}
	if fc.sc.Occlusion != nil {
		return fc.sc.Occlusion.IsVisible(p, lightPos)
	}
	return true
}

func (fc *frameContext) terrainAt(p mgl32.Vec2) scene.TerrainSampler {
	if c := fc.sc.ChunkAt(p); c != nil && c.Terrain != nil {
		return c.Terrain
	}
	return fc.sc.Terrain
}

// gridPosition maps a screen position back to the 2D world grid.
func (r *Rasterizer) gridPosition(fc *frameContext, screen mgl32.Vec2) mgl32.Vec2 {
	scale := r.Scale2D
	if scale == 0 {
		scale = 1
	}
	offset := r.Translation2D.Sub(fc.center.Mul(0.5))
	return screen.Sub(fc.center).Sub(offset).Mul(1 / scale)
}

// unproject reconstructs the world position of frame pixel (px, py) at depth
// z in [0,1].
func (fc *frameContext) unproject(px, py, z float32) (mgl32.Vec3, bool) {
	ndc := mgl32.Vec3{
		px/float32(fc.width)*2 - 1,
		1 - py/float32(fc.height)*2,
		z*2 - 1,
	}
	return mathutil.Unproject(fc.invViewProj, ndc)
}

// Rasterize renders sc into pixels, a width×height RGBA8 buffer, using
// tiles of tileSize pixels. 3D batches must already be projected for this
// viewport. Malformed input degrades to skipped primitives or transparent
// pixels; Rasterize never fails.
func (r *Rasterizer) Rasterize(sc *scene.Scene, pixels []uint8, width, height, tileSize int, assets *scene.Assets) {
	log := Logger()
	if sc == nil || width <= 0 || height <= 0 {
		return
	}
	if len(pixels) < width*height*4 {
		log.Warn("raster: pixel buffer too small", "len", len(pixels), "want", width*height*4)
		return
	}

	fc := r.setupFrame(sc, width, height)
	tiles := Partition(width, height, tileSize)
	log.Debug("raster: frame",
		"tiles", len(tiles),
		"static2d", len(sc.Static2D), "dynamic2d", len(sc.Dynamic2D),
		"static3d", len(sc.Static3D), "dynamic3d", len(sc.Dynamic3D),
		"chunks", len(fc.chunks), "lights", len(fc.lights))

	workers := r.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, len(tiles))

	results := make([]*tileBuffers, len(tiles))
	tileChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range tileChan {
				results[idx] = r.renderTile(fc, tiles[idx], assets)
			}
		}()
	}

	for i := range tiles {
		tileChan <- i
	}
	close(tileChan)
	wg.Wait()

	for i, t := range tiles {
		buf := results[i]
		rowBytes := t.Width * 4
		for y := 0; y < t.Height; y++ {
			dst := ((t.Y+y)*width + t.X) * 4
			src := y * rowBytes
			copy(pixels[dst:dst+rowBytes], buf.color[src:src+rowBytes])
		}
	}
}

// tileRenderer is one tile task's state. It owns its buffers and shader
// execution context.
type tileRenderer struct {
	r      *Rasterizer
	fc     *frameContext
	sc     *scene.Scene
	assets *scene.Assets
	buf    *tileBuffers
	exec   *shader.Execution
}

func (r *Rasterizer) renderTile(fc *frameContext, t Tile, assets *scene.Assets) *tileBuffers {
	tr := &tileRenderer{
		r:      r,
		fc:     fc,
		sc:     fc.sc,
		assets: assets,
		buf:    newTileBuffers(t),
		exec:   shader.NewExecution(),
	}
	sc := fc.sc

	tr.clearBackground()

	for _, c := range fc.chunks {
		for _, b := range c.Batches2DWithTerrain() {
			tr.drawBatch2D(b, c.Shaders)
		}
	}
	for _, b := range sc.Static2D {
		tr.drawBatch2D(b, sc.Shaders)
	}
	for _, b := range sc.Dynamic2D {
		tr.drawBatch2D(b, sc.Shaders)
	}

	if fc.run3D {
		// Translucent surfaces go first so their profile stamps are in place
		// when the opaque pass runs.
		tr.forEach3D(true)
		tr.forEach3D(false)
		tr.resolveMisses()
	}

	for _, b := range sc.Overlay2D {
		tr.drawBatch2D(b, sc.Shaders)
	}
	return tr.buf
}

// forEach3D draws every translucent (opacity pass) or opaque batch.
func (t *tileRenderer) forEach3D(translucent bool) {
	draw := func(b *scene.Batch3D, programs []shader.Program) {
		if b == nil || b.Translucent != translucent {
			return
		}
		if translucent {
			t.drawOpacity3D(b, programs)
		} else {
			t.drawOpaque3D(b, programs)
		}
	}
	for _, c := range t.fc.chunks {
		for _, b := range c.Batches3DWithTerrain() {
			draw(b, c.Shaders)
		}
	}
	for _, b := range t.sc.Static3D {
		draw(b, t.sc.Shaders)
	}
	for _, b := range t.sc.Dynamic3D {
		draw(b, t.sc.Shaders)
	}
}

// clearBackground fills the tile with the scene's background program, or
// transparent black when there is none.
func (t *tileRenderer) clearBackground() {
	prog := t.sc.Background
	if prog == nil {
		return
	}
	tile := t.buf.tile
	w, h := float32(t.fc.width), float32(t.fc.height)
	for y := tile.Y; y < tile.Y+tile.Height; y++ {
		for x := tile.X; x < tile.X+tile.Width; x++ {
			e := t.exec
			e.Reset(t.fc.globals)
			e.UV = mgl32.Vec2{(float32(x) + 0.5) / w, (float32(y) + 0.5) / h}
			if !prog.Shade(e, shader.EntryShade, t.palette()) {
				continue
			}
			t.buf.setPixel(t.buf.index(x, y), [4]uint8{
				mathutil.ToByte(e.Color[0]),
				mathutil.ToByte(e.Color[1]),
				mathutil.ToByte(e.Color[2]),
				mathutil.ToByte(e.Opacity),
			})
		}
	}
}

func (t *tileRenderer) palette() shader.Palette {
	if t.assets == nil {
		return nil
	}
	return t.assets.Palette
}

// tileRect returns the tile bounds as floats for bounding box tests.
func (t *tileRenderer) tileRect() (x0, y0, x1, y1 float32) {
	tile := t.buf.tile
	return float32(tile.X), float32(tile.Y), float32(tile.X + tile.Width), float32(tile.Y + tile.Height)
}

// pixelBox returns the pixels of the tile whose cells intersect
// [minX,maxX]×[minY,maxY]. Bounds are floored before clamping so a pixel
// whose centre lies inside a primitive is kept whichever tile it falls in.
// ok is false when nothing remains.
func (t *tileRenderer) pixelBox(minX, minY, maxX, maxY float32) (x0, y0, x1, y1 int, ok bool) {
	tile := t.buf.tile
	if math32.IsNaN(minX) || math32.IsNaN(minY) || math32.IsNaN(maxX) || math32.IsNaN(maxY) {
		return 0, 0, 0, 0, false
	}
	lastX, lastY := tile.X+tile.Width-1, tile.Y+tile.Height-1

	// Limit the floats to one pixel around the tile before the int
	// conversion; the integer clamp below gives the same box.
	x0 = max(int(math32.Floor(mathutil.Clamp(minX, float32(tile.X-1), float32(lastX+1)))), tile.X)
	y0 = max(int(math32.Floor(mathutil.Clamp(minY, float32(tile.Y-1), float32(lastY+1)))), tile.Y)
	x1 = min(int(math32.Floor(mathutil.Clamp(maxX, float32(tile.X-1), float32(lastX+1)))), lastX)
	y1 = min(int(math32.Floor(mathutil.Clamp(maxY, float32(tile.Y-1), float32(lastY+1)))), lastY)
	if x0 > x1 || y0 > y1 {
		return 0, 0, 0, 0, false
	}
	return x0, y0, x1, y1, true
}
