package demo

import (
	"github.com/go-gl/mathgl/mgl32"

	"tile-rasterizer/internal/scene"
)

// cubeFaces lists each face as (normal, u axis, v axis).
var cubeFaces = [6][3]mgl32.Vec3{
	{{0, 0, 1}, {1, 0, 0}, {0, 1, 0}},
	{{0, 0, -1}, {-1, 0, 0}, {0, 1, 0}},
	{{1, 0, 0}, {0, 0, -1}, {0, 1, 0}},
	{{-1, 0, 0}, {0, 0, 1}, {0, 1, 0}},
	{{0, 1, 0}, {1, 0, 0}, {0, 0, -1}},
	{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}},
}

// Box returns an axis-aligned box with per-face normals and UVs. Faces wind
// counter-clockwise seen from outside.
func Box(center, size mgl32.Vec3) *scene.Batch3D {
	half := size.Mul(0.5)
	var verts []mgl32.Vec3
	var uvs []mgl32.Vec2
	var normals []mgl32.Vec3
	var indices [][3]int

	for _, f := range cubeFaces {
		n, u, v := f[0], f[1], f[2]
		base := len(verts)
		for _, c := range [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}} {
			p := n.Add(u.Mul(c[0])).Add(v.Mul(c[1]))
			verts = append(verts, center.Add(mgl32.Vec3{p[0] * half[0], p[1] * half[1], p[2] * half[2]}))
			uvs = append(uvs, mgl32.Vec2{(c[0] + 1) / 2, (1 - c[1]) / 2})
			normals = append(normals, n)
		}
		indices = append(indices, [3]int{base, base + 1, base + 2}, [3]int{base, base + 2, base + 3})
	}
	return scene.NewBatch3D(verts, uvs, normals, indices)
}

// Ground returns a flat y=0 quad covering [x0,x1]×[z0,z1].
func Ground(x0, z0, x1, z1 float32) *scene.Batch3D {
	up := mgl32.Vec3{0, 1, 0}
	return scene.NewBatch3D(
		[]mgl32.Vec3{{x0, 0, z1}, {x1, 0, z1}, {x1, 0, z0}, {x0, 0, z0}},
		[]mgl32.Vec2{{0, 1}, {1, 1}, {1, 0}, {0, 0}},
		[]mgl32.Vec3{up, up, up, up},
		[][3]int{{0, 1, 2}, {0, 2, 3}},
	).WithSource(scene.Terrain{})
}

// Quad returns a vertical quad facing +z, centred at center.
func Quad(center mgl32.Vec3, w, h float32) *scene.Batch3D {
	hw, hh := w/2, h/2
	n := mgl32.Vec3{0, 0, 1}
	return scene.NewBatch3D(
		[]mgl32.Vec3{
			center.Add(mgl32.Vec3{-hw, -hh, 0}),
			center.Add(mgl32.Vec3{hw, -hh, 0}),
			center.Add(mgl32.Vec3{hw, hh, 0}),
			center.Add(mgl32.Vec3{-hw, hh, 0}),
		},
		[]mgl32.Vec2{{0, 1}, {1, 1}, {1, 0}, {0, 0}},
		[]mgl32.Vec3{n, n, n, n},
		[][3]int{{0, 1, 2}, {0, 2, 3}},
	)
}
