package raster

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"tile-rasterizer/internal/mathutil"
	"tile-rasterizer/internal/scene"
	"tile-rasterizer/internal/shader"
)

// material is the linear-space surface description lighting works on.
type material struct {
	albedo    mgl32.Vec3
	opacity   float32
	roughness float32
	metallic  float32
	emissive  mgl32.Vec3
}

func defaultMaterial(albedo [3]float32, opacity float32) material {
	return material{
		albedo:    mgl32.Vec3(albedo),
		opacity:   opacity,
		roughness: shader.DefaultRoughness,
		metallic:  shader.DefaultMetallic,
	}
}

// blinnExponent maps perceptual roughness to a Blinn-Phong exponent.
func blinnExponent(roughness float32) float32 {
	r := mathutil.Clamp(roughness, 0.02, 1)
	r2 := r * r
	return mathutil.Clamp(2/(r2*r2)-2, 1, 2048)
}

// fresnelSchlick returns the reflectance at cosine ndv.
func fresnelSchlick(f0 mgl32.Vec3, ndv float32) mgl32.Vec3 {
	k := 1 - mathutil.Saturate(ndv)
	k5 := k * k * k * k * k
	return mgl32.Vec3{
		f0[0] + (1-f0[0])*k5,
		f0[1] + (1-f0[1])*k5,
		f0[2] + (1-f0[2])*k5,
	}
}

// brdf evaluates Lambert diffuse plus normalized Blinn-Phong specular for
// light direction l, already multiplied by N·L. The diffuse lobe is reduced
// by the Fresnel reflectance and by metalness.
func brdf(n, v, l mgl32.Vec3, m *material) mgl32.Vec3 {
	ndl := n.Dot(l)
	if ndl <= 0 {
		return mgl32.Vec3{}
	}
	ndv := math32.Max(n.Dot(v), 1e-4)

	dielectric := mgl32.Vec3{0.04, 0.04, 0.04}
	f0 := mathutil.LerpVec3(dielectric, m.albedo, m.metallic)
	f := fresnelSchlick(f0, ndv)

	h := mathutil.Normalize(l.Add(v))
	exp := blinnExponent(m.roughness)
	specular := (exp + 8) / (8 * math32.Pi) * math32.Pow(math32.Max(n.Dot(h), 0), exp)

	kd := (1 - m.metallic) / math32.Pi
	var out mgl32.Vec3
	for i := 0; i < 3; i++ {
		diffuse := (1 - f[i]) * kd * m.albedo[i]
		out[i] = (diffuse + f[i]*specular) * ndl
	}
	return out
}

// shade3D computes the lit radiance of a surface point p with normal n seen
// from the camera. The BRDF is scaled by π so a white Lambert surface facing
// a unit light reflects the light's colour.
func (t *tileRenderer) shade3D(b *scene.Batch3D, p, n mgl32.Vec3, m *material) mgl32.Vec3 {
	fc := t.fc
	ground := mgl32.Vec2{p[0], p[2]}
	occ := fc.occlusionAt(ground)
	v := mathutil.Normalize(fc.cameraPos.Sub(p))

	// Sky hemisphere: full ambient straight up, half at the horizon.
	hemi := 0.5 + 0.5*n[1]
	amb := fc.ambient.Vec3().Mul(fc.ambient[3] * hemi * occ)
	out := mathutil.MulVec3(m.albedo, amb)

	if fc.hasSun && fc.dayFactor > 0 {
		sun := brdf(n, v, fc.sunDir, m).Mul(math32.Pi * fc.dayFactor * occ)
		out = out.Add(mathutil.MulVec3(sun, fc.sunColor))
	}

	if b.Ambient != nil {
		a := b.Ambient.Vec3().Mul(b.Ambient[3] * hemi)
		out = out.Add(mathutil.MulVec3(m.albedo, a))
	}

	frame := t.sc.AnimationFrame
	for i := range fc.lights {
		l := &fc.lights[i]
		radiance, ok := l.Radiance(p, frame)
		if !ok {
			continue
		}
		switch l.Kind {
		case scene.PointLight:
			dir := l.Position.Sub(p)
			if dir.Len() < 1e-6 {
				continue
			}
			f := brdf(n, v, dir.Normalize(), m).Mul(math32.Pi)
			out = out.Add(mathutil.MulVec3(f, radiance))
		case scene.AmbientLight:
			out = out.Add(mathutil.MulVec3(m.albedo, radiance))
		case scene.AmbientDaylight:
			out = out.Add(mathutil.MulVec3(m.albedo, radiance.Mul(fc.dayFactor)))
		}
	}

	return out.Add(m.emissive)
}

// light2D returns the per-channel light multiplier at ground point p for
// flat 2D batches. Point lights are gated by line of sight on the occlusion
// grid.
func (t *tileRenderer) light2D(p mgl32.Vec2) mgl32.Vec3 {
	fc := t.fc
	occ := fc.occlusionAt(p)
	acc := fc.ambient.Vec3().Mul(fc.ambient[3] * occ)

	pos := mgl32.Vec3{p[0], 0, p[1]}
	frame := t.sc.AnimationFrame
	for i := range fc.lights {
		l := &fc.lights[i]
		radiance, ok := l.Radiance(pos, frame)
		if !ok {
			continue
		}
		switch l.Kind {
		case scene.PointLight:
			if !fc.visible(p, l.GroundPosition()) {
				continue
			}
			acc = acc.Add(radiance)
		case scene.AmbientDaylight:
			acc = acc.Add(radiance.Mul(fc.dayFactor * occ))
		case scene.AmbientLight:
			acc = acc.Add(radiance)
		}
	}
	return mathutil.SaturateVec3(acc)
}
