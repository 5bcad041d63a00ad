package mathutil

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Camera bundles a view and projection matrix.
type Camera struct {
	View       mgl32.Mat4
	Projection mgl32.Mat4
}

// NewOrbitCamera looks at target from a point on a sphere around it.
// yaw and pitch are in degrees, fov is the vertical field of view in degrees.
func NewOrbitCamera(target mgl32.Vec3, distance, yaw, pitch, fov, aspect float32) Camera {
	yr := Deg2Rad(yaw)
	pr := Deg2Rad(pitch)
	dir := mgl32.Vec3{
		math32.Cos(pr) * math32.Sin(yr),
		math32.Sin(pr),
		math32.Cos(pr) * math32.Cos(yr),
	}
	eye := target.Add(dir.Mul(distance))
	return Camera{
		View:       mgl32.LookAtV(eye, target, mgl32.Vec3{0, 1, 0}),
		Projection: mgl32.Perspective(Deg2Rad(fov), aspect, 0.1, 100),
	}
}

// ViewProjection returns Projection × View.
func (c Camera) ViewProjection() mgl32.Mat4 {
	return c.Projection.Mul4(c.View)
}

// Position extracts the eye position from the inverse view matrix.
func (c Camera) Position() mgl32.Vec3 {
	return c.View.Inv().Col(3).Vec3()
}

// Unproject maps normalized device coordinates back through inv.
// Returns false when the homogeneous w collapses.
func Unproject(inv mgl32.Mat4, ndc mgl32.Vec3) (mgl32.Vec3, bool) {
	p := inv.Mul4x1(ndc.Vec4(1))
	if p[3] > -1e-12 && p[3] < 1e-12 {
		return mgl32.Vec3{}, false
	}
	return p.Vec3().Mul(1 / p[3]), true
}
