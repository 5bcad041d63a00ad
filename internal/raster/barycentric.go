package raster

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"tile-rasterizer/internal/mathutil"
	"tile-rasterizer/internal/scene"
)

// BarycentricWeights2D returns the weights of p with respect to triangle
// (a, b, c). The third weight is 1-α-β, so the weights always sum to one.
// The triangle must not be degenerate; see safeWeights.
func BarycentricWeights2D(a, b, c, p mgl32.Vec2) [3]float32 {
	area := mathutil.Cross2(b.Sub(a), c.Sub(a))
	inv := 1 / area
	alpha := mathutil.Cross2(b.Sub(p), c.Sub(p)) * inv
	beta := mathutil.Cross2(c.Sub(p), a.Sub(p)) * inv
	return [3]float32{alpha, beta, 1 - alpha - beta}
}

// BarycentricWeights3D is BarycentricWeights2D on the screen position of
// projected vertices ([x, y, depth, w]).
func BarycentricWeights3D(a, b, c mgl32.Vec4, p mgl32.Vec2) [3]float32 {
	return BarycentricWeights2D(a.Vec2(), b.Vec2(), c.Vec2(), p)
}

// safeWeights returns the barycentric weights of p, or false when the
// triangle's area is below scene.MinArea.
func safeWeights(a, b, c, p mgl32.Vec2) ([3]float32, bool) {
	area := mathutil.Cross2(b.Sub(a), c.Sub(a))
	if math32.Abs(area) < scene.MinArea || !mathutil.IsFinite(area) {
		return [3]float32{}, false
	}
	return BarycentricWeights2D(a, b, c, p), true
}

// perspectiveWeights converts screen-space weights into perspective-correct
// ones: λ_i/w_i normalized by Σ λ_j/w_j. Interpolating an attribute A with the
// result yields Σ(A_i/w_i)λ_i / Σ(λ_i/w_i).
func perspectiveWeights(l [3]float32, w [3]float32) [3]float32 {
	var pw [3]float32
	var sum float32
	for i := range pw {
		if w[i] == 0 {
			return l
		}
		pw[i] = l[i] / w[i]
		sum += pw[i]
	}
	if sum == 0 || !mathutil.IsFinite(sum) {
		return l
	}
	inv := 1 / sum
	for i := range pw {
		pw[i] *= inv
	}
	return pw
}

// interpolateDepth returns 1 / Σ λ_i/z_i. Non-positive depths fall back to
// linear interpolation.
func interpolateDepth(l [3]float32, z [3]float32) float32 {
	var sum float32
	for i := range l {
		if z[i] <= 0 {
			return l[0]*z[0] + l[1]*z[1] + l[2]*z[2]
		}
		sum += l[i] / z[i]
	}
	if sum <= 0 {
		return l[0]*z[0] + l[1]*z[1] + l[2]*z[2]
	}
	return 1 / sum
}

func interpolateVec2(l [3]float32, a, b, c mgl32.Vec2) mgl32.Vec2 {
	return a.Mul(l[0]).Add(b.Mul(l[1])).Add(c.Mul(l[2]))
}

func interpolateVec3(l [3]float32, a, b, c mgl32.Vec3) mgl32.Vec3 {
	return a.Mul(l[0]).Add(b.Mul(l[1])).Add(c.Mul(l[2]))
}
