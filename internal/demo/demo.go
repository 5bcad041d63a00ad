// Package demo builds a small deterministic scene that exercises every
// rasterizer path: chunked terrain, opaque and translucent geometry, lights,
// the sky graph and a 2D overlay.
package demo

import (
	"image"
	"image/color"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"tile-rasterizer/internal/mathutil"
	"tile-rasterizer/internal/raster"
	"tile-rasterizer/internal/rendergraph"
	"tile-rasterizer/internal/scene"
	"tile-rasterizer/internal/shader"
	"tile-rasterizer/internal/texture"
)

// Tile names the demo looks up in the atlas.
const (
	TileGround = "ground"
	TileStone  = "stone"
	TileCrate  = "crate"
	TileWater  = "water"
)

// LanternID keys the lantern entity's tile sequences.
var LanternID = uuid.NewSHA1(uuid.NameSpaceOID, []byte("demo/lantern"))

// glassProfile tags both faces of the glass block.
const glassProfile = 1

// DefaultAssets returns a procedural atlas with every tile the demo needs.
func DefaultAssets() *scene.Assets {
	a := scene.NewAssets([]*texture.Tile{
		texture.Checker(TileGround, 32, 8, [4]uint8{86, 125, 70, 255}, [4]uint8{72, 110, 60, 255}),
		texture.Checker(TileStone, 32, 4, [4]uint8{128, 128, 120, 255}, [4]uint8{110, 108, 100, 255}),
		texture.Checker(TileCrate, 32, 16, [4]uint8{150, 105, 60, 255}, [4]uint8{120, 80, 45, 255}),
		texture.NewTile(TileWater,
			solidImage(40, 90, 160),
			solidImage(45, 100, 170),
			solidImage(50, 110, 180),
		),
	})
	a.Entities[LanternID] = []*texture.Tile{
		texture.NewTile("lantern", solidImage(255, 210, 120), solidImage(255, 190, 90)),
	}
	a.Palette = shader.Palette{
		{R: 255, G: 255, B: 255, A: 255},
		{R: 180, G: 220, B: 255, A: 255},
	}
	return a
}

func solidImage(r, g, b uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = r, g, b, 255
	}
	return img
}

// Demo is a built scene plus the render graph and camera path it is shown
// with.
type Demo struct {
	Scene  *scene.Scene
	Graph  *rendergraph.Graph
	Assets *scene.Assets

	// Orbit is the camera distance from the origin.
	Orbit float32
	// Speed is the camera's yaw rate in degrees per second.
	Speed float32
	Hour  float32
	Mode  raster.Mode
}

// Build assembles the demo scene against assets. Tiles missing from the
// atlas render as transparent.
func Build(assets *scene.Assets) *Demo {
	sc := scene.New()
	sc.Background = shader.Constant(color.NRGBA{R: 12, G: 14, B: 24, A: 255})
	sc.Shaders = []shader.Program{
		shader.PaletteTint(1),
		glassProgram(),
	}

	ground := assets.TileIndex(TileGround)
	stone := assets.TileIndex(TileStone)
	crate := assets.TileIndex(TileCrate)
	water := assets.TileIndex(TileWater)

	// Four chunks of ground around the origin; the western ones are paved.
	for _, key := range []scene.ChunkKey{{-1, -1}, {0, -1}, {-1, 0}, {0, 0}} {
		size := float32(scene.DefaultChunkSize)
		x0, z0 := float32(key[0])*size, float32(key[1])*size
		terrain := scene.NewTerrainGrid(assets.StaticTile(ground))
		if key[0] < 0 {
			terrain.Default = assets.StaticTile(stone)
		}
		if key == (scene.ChunkKey{0, 0}) {
			for x := int32(2); x < 5; x++ {
				terrain.Set(x, 2, assets.StaticTile(water))
			}
		}
		occ := scene.NewOcclusionGrid(int(x0), int(z0), int(size), int(size))

		c := &scene.Chunk{
			Key:       key,
			Terrain3D: Ground(x0, z0, x0+size, z0+size),
			Terrain:   terrain,
			Occlusion: occ,
		}
		sc.AddChunk(c)
	}

	// Crates block light on the occlusion grid of the chunk they stand in.
	crates := []mgl32.Vec3{{-2, 0.5, -1}, {1.5, 0.5, 1}, {-0.5, 0.5, 2.5}}
	for _, p := range crates {
		b := Box(p, mgl32.Vec3{1, 1, 1}).WithSource(scene.StaticTile(crate))
		b.CullBackfaces = true
		c := sc.ChunkAt(mgl32.Vec2{p[0], p[2]})
		c.Batches3D = append(c.Batches3D, b)
		if g, ok := c.Occlusion.(*scene.OcclusionGrid); ok {
			cx, cz := int(math32.Floor(p[0])), int(math32.Floor(p[2]))
			g.SetBlocking(cx, cz, true)
			for dz := -1; dz <= 1; dz++ {
				for dx := -1; dx <= 1; dx++ {
					if dx != 0 || dz != 0 {
						g.SetExposure(cx+dx, cz+dz, 0.7)
					}
				}
			}
		}
	}

	// Glass block: both faces translucent and sharing a profile.
	glass := Box(mgl32.Vec3{0.5, 0.75, -0.5}, mgl32.Vec3{1.2, 1.5, 0.3}).
		WithSource(scene.Pixel{190, 225, 255, 110}).
		WithShader(1).
		WithProfile(glassProfile)
	glass.Translucent = true
	sc.Dynamic3D = append(sc.Dynamic3D, glass)

	// Lantern post with an animated entity texture.
	post := Box(mgl32.Vec3{2.5, 0.6, -2}, mgl32.Vec3{0.2, 1.2, 0.2}).WithSource(scene.StaticTile(stone))
	lamp := Box(mgl32.Vec3{2.5, 1.3, -2}, mgl32.Vec3{0.3, 0.3, 0.3}).
		WithSource(scene.EntityTile{ID: LanternID, Index: 0}).
		WithShader(0)
	sc.Static3D = append(sc.Static3D, post, lamp)

	lantern := scene.NewPointLight(mgl32.Vec3{2.5, 1.3, -2}, mgl32.Vec3{1, 0.8, 0.5}, 2.5, 1, 6)
	lantern.Flicker = 0.3
	lantern.Seed = 7
	sc.Lights = append(sc.Lights, lantern)
	sc.DynamicLights = append(sc.DynamicLights, scene.Light{
		Kind:      scene.AmbientDaylight,
		Color:     mgl32.Vec3{0.9, 0.95, 1},
		Intensity: 0.2,
	})

	// HUD: translucent panel with a border and a crate icon.
	panel := scene.NewRect2D(6, 6, 72, 20).WithSource(scene.Pixel{0, 0, 0, 140})
	border := scene.NewLines2D(scene.LineLoop, []mgl32.Vec2{{6, 6}, {77, 6}, {77, 25}, {6, 25}}, scene.Pixel{220, 220, 220, 255})
	icon := scene.NewRect2D(9, 9, 14, 14).WithSource(scene.StaticTile(crate))
	sc.Overlay2D = append(sc.Overlay2D, panel, border, icon)

	return &Demo{
		Scene:  sc,
		Graph:  skyGraph(),
		Assets: assets,
		Orbit:  9,
		Speed:  12,
		Hour:   10,
	}
}

// glassProgram tints glass towards blue and adds a faint glow.
func glassProgram() shader.Program {
	return shader.ProgramFunc(func(e *shader.Execution, _ shader.Palette) {
		e.Color = mathutil.MulVec3(e.Color, mgl32.Vec3{0.85, 0.95, 1})
		e.Roughness = 0.05
		e.Emissive = mgl32.Vec3{0.01, 0.02, 0.03}
	})
}

// skyGraph wires a daylight cycle into both terminals, fog on hits and the
// procedural sky on misses.
func skyGraph() *rendergraph.Graph {
	g := rendergraph.New()
	sun := rendergraph.NewDaylight()

	hit := g.Add(&rendergraph.Output{})
	day := g.Add(sun)
	fog := g.Add(&rendergraph.Fog{Color: mgl32.Vec3{0.7, 0.78, 0.88}, Density: 0.01})
	g.Connect(hit, 0, day)
	g.Connect(day, 0, fog)
	g.SetTerminal(rendergraph.HitTerminal, hit)

	miss := g.Add(&rendergraph.Output{})
	sky := g.Add(rendergraph.NewSky(sun))
	g.Connect(miss, 0, sky)
	g.SetTerminal(rendergraph.MissTerminal, miss)
	return g
}

// Camera returns the orbit camera at time t (seconds).
func (d *Demo) Camera(t, aspect float32) mathutil.Camera {
	return mathutil.NewOrbitCamera(mgl32.Vec3{0, 0.5, 0}, d.Orbit, 35+d.Speed*t, 28, 60, aspect)
}

// Frame prepares frame i at time t for a width×height viewport: it advances
// the animation counter, projects the scene and returns a configured
// rasterizer.
func (d *Demo) Frame(i int, t float32, width, height int) (*scene.Scene, *raster.Rasterizer) {
	cam := d.Camera(t, float32(width)/float32(height))
	d.Scene.AnimationFrame = i
	d.Scene.Project(cam.ViewProjection(), width, height)

	r := raster.NewRasterizer(cam)
	r.Time = t
	r.Hour = d.Hour
	r.Mode = d.Mode
	r.RenderGraph = d.Graph
	r.BrushPreview = &raster.BrushPreview{Position: mgl32.Vec3{-1, 0, 1}, Radius: 1.2, Falloff: 0.5}
	return d.Scene, r
}
