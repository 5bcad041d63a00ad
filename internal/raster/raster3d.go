package raster

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"tile-rasterizer/internal/mathutil"
	"tile-rasterizer/internal/scene"
	"tile-rasterizer/internal/shader"
)

// fragment is one covered pixel of a 3D triangle with its interpolated
// attributes.
type fragment struct {
	idx    int
	depth  float32
	uv     mgl32.Vec2
	normal mgl32.Vec3
	world  mgl32.Vec3
}

func (f *fragment) ground() mgl32.Vec2 {
	return mgl32.Vec2{f.world[0], f.world[2]}
}

// rasterize3D walks the pixels of b covered in this tile. accept decides
// from the tile index and depth whether a pixel is shaded; shade receives the
// interpolated fragment.
func (t *tileRenderer) rasterize3D(b *scene.Batch3D, accept func(idx int, z float32) bool, shade func(f *fragment)) {
	if !b.BBox.Intersects(t.tileRect()) {
		return
	}
	verts := b.ClippedVertices
	nv := len(verts)
	cam := t.fc.cameraPos

tris:
	for i, tri := range b.ClippedIndices {
		if i >= len(b.Edges) {
			break
		}
		e := &b.Edges[i]
		if !e.Visible || !validTriangle(tri, nv) {
			continue
		}
		v0, v1, v2 := verts[tri[0]], verts[tri[1]], verts[tri[2]]
		x0, y0, x1, y1, ok := t.pixelBox(
			math32.Min(v0[0], math32.Min(v1[0], v2[0])),
			math32.Min(v0[1], math32.Min(v1[1], v2[1])),
			math32.Max(v0[0], math32.Max(v1[0], v2[0])),
			math32.Max(v0[1], math32.Max(v1[1], v2[1])),
		)
		if !ok {
			continue
		}
		hasUV := validTriangle(tri, len(b.ClippedUVs))
		hasNormal := validTriangle(tri, len(b.ClippedNormals))
		depths := [3]float32{v0[2], v1[2], v2[2]}
		ws := [3]float32{v0[3], v1[3], v2[3]}

		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				p := mgl32.Vec2{float32(x) + 0.5, float32(y) + 0.5}
				if !e.Inside(p) {
					continue
				}
				l, ok := safeWeights(v0.Vec2(), v1.Vec2(), v2.Vec2(), p)
				if !ok {
					continue tris
				}
				idx := t.buf.index(x, y)
				z := interpolateDepth(l, depths)
				if !accept(idx, z) {
					continue
				}

				pw := perspectiveWeights(l, ws)
				f := fragment{idx: idx, depth: z}
				if hasUV {
					f.uv = interpolateVec2(pw, b.ClippedUVs[tri[0]], b.ClippedUVs[tri[1]], b.ClippedUVs[tri[2]])
				}
				world, ok := t.fc.unproject(p[0], p[1], z)
				if !ok {
					continue
				}
				f.world = world

				view := cam.Sub(world)
				var n mgl32.Vec3
				if hasNormal {
					n = interpolateVec3(pw, b.ClippedNormals[tri[0]], b.ClippedNormals[tri[1]], b.ClippedNormals[tri[2]])
				}
				if n.Len() < 1e-6 {
					n = view
				}
				n = mathutil.Normalize(n)
				if n.Dot(view) < 0 {
					n = n.Mul(-1)
				}
				f.normal = n

				shade(&f)
			}
		}
	}
}

// surfaceColor samples the batch's source at a fragment and decodes it to
// linear space. Terrain under the brush preview is whitened.
func (t *tileRenderer) surfaceColor(b *scene.Batch3D, f *fragment) material {
	col := t.sample(b.Source, b.Filter, f.uv, f.ground())
	if _, ok := b.Source.(scene.Terrain); ok && t.r.BrushPreview != nil {
		d := mathutil.DistanceXZ(f.world, t.r.BrushPreview.Position)
		if blend, ok := t.r.BrushPreview.fade(d); ok {
			for k := 0; k < 3; k++ {
				col[k] = mathutil.ToByte(mathutil.Lerp(float32(col[k])/255, 1, blend))
			}
		}
	}
	albedo, opacity := decodeSRGB(col)
	return defaultMaterial(albedo, opacity)
}

// runProgram lets prog override the material. Colours are linear.
func (t *tileRenderer) runProgram(prog shader.Program, f *fragment, m *material) {
	if prog == nil {
		return
	}
	e := t.exec
	e.Reset(t.fc.globals)
	e.UV = f.uv
	e.HitPoint = f.world
	e.Normal = f.normal
	e.Color = m.albedo
	e.Opacity = m.opacity
	if !prog.Shade(e, shader.EntryShade, t.palette()) {
		return
	}
	m.albedo = e.Color
	m.opacity = mathutil.Saturate(e.Opacity)
	m.roughness = e.Roughness
	m.metallic = mathutil.Saturate(e.Metallic)
	m.emissive = e.Emissive
	if e.Normal.Len() > 1e-6 {
		f.normal = e.Normal.Normalize()
	}
}

// drawOpaque3D is the opaque pass. Fragments are depth tested against the
// primary z-buffer and written only when fully opaque. Pixels already
// claimed by a translucent surface of the same profile are skipped.
func (t *tileRenderer) drawOpaque3D(b *scene.Batch3D, programs []shader.Program) {
	prog := shader.Lookup(programs, b.Shader)
	buf := t.buf
	fc := t.fc

	accept := func(idx int, z float32) bool {
		if b.ProfileID != nil && buf.claimedBy(idx, *b.ProfileID) {
			return false
		}
		return z < buf.depth[idx]
	}

	t.rasterize3D(b, accept, func(f *fragment) {
		m := t.surfaceColor(b, f)
		t.runProgram(prog, f, &m)

		var rad mgl32.Vec3
		if t.r.Mode == Unlit {
			rad = m.albedo.Add(m.emissive)
		} else {
			rad = t.shade3D(b, f.world, f.normal, &m)
		}

		c := mgl32.Vec4{rad[0], rad[1], rad[2], m.opacity}
		for _, n := range fc.hitNodes {
			n.RenderHitD3(&c, fc.cameraPos, f.world, f.normal, t.r.Hour)
		}

		out := encodeSRGB([3]float32{c[0], c[1], c[2]}, c[3])
		if out[3] != 255 {
			return
		}
		buf.setPixel(f.idx, out)
		buf.depth[f.idx] = f.depth
	})
}

// drawOpacity3D is the translucency pass. The nearest fragment per pixel is
// kept in the secondary buffers whatever its opacity, and the pixel is
// stamped with the batch's profile.
func (t *tileRenderer) drawOpacity3D(b *scene.Batch3D, programs []shader.Program) {
	prog := shader.Lookup(programs, b.Shader)
	buf := t.buf

	accept := func(idx int, z float32) bool {
		return z < buf.opDepth[idx]
	}

	t.rasterize3D(b, accept, func(f *fragment) {
		m := t.surfaceColor(b, f)
		t.runProgram(prog, f, &m)

		c := m.albedo.Add(m.emissive)
		out := encodeSRGB([3]float32{c[0], c[1], c[2]}, m.opacity)
		copy(buf.opColor[f.idx*4:f.idx*4+4], out[:])
		buf.opDepth[f.idx] = f.depth
		if b.ProfileID != nil {
			buf.claim(f.idx, *b.ProfileID)
		}
	})
}
