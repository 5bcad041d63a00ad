package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"tile-rasterizer/internal/mathutil"
)

// LightKind tags how a light contributes.
type LightKind int

const (
	// PointLight contributes direct, directional light with a BRDF.
	PointLight LightKind = iota
	// AmbientLight adds non-directional light inside its range.
	AmbientLight
	// AmbientDaylight is an ambient light scaled by the day factor.
	AmbientDaylight
)

// Light is a scene light. Ranges are in world units; EndDistance <= 0 means
// unbounded.
type Light struct {
	Kind          LightKind
	Position      mgl32.Vec3
	Color         mgl32.Vec3
	Intensity     float32
	StartDistance float32
	EndDistance   float32

	// Flicker is the flicker amplitude in [0,1]; Seed decorrelates lights.
	Flicker float32
	Seed    uint32
}

// NewPointLight returns a point light with a linear falloff window.
func NewPointLight(pos, color mgl32.Vec3, intensity, start, end float32) Light {
	return Light{
		Kind:          PointLight,
		Position:      pos,
		Color:         color,
		Intensity:     intensity,
		StartDistance: start,
		EndDistance:   end,
	}
}

// FlickerFactor returns the per-frame intensity multiplier in
// [1-Flicker, 1]. It is a pure function of Seed and frame.
func (l *Light) FlickerFactor(frame int) float32 {
	if l.Flicker <= 0 {
		return 1
	}
	h := mathutil.Hash32(l.Seed ^ uint32(frame)*0x9e3779b9)
	n := float32(h&0xffff) / 0xffff
	return 1 - mathutil.Saturate(l.Flicker)*n
}

// Radiance returns the light's colour arriving at p, or false if p is out of
// range or the light is dark this frame.
func (l *Light) Radiance(p mgl32.Vec3, frame int) (mgl32.Vec3, bool) {
	d := p.Sub(l.Position).Len()
	if l.EndDistance > 0 && d >= l.EndDistance {
		return mgl32.Vec3{}, false
	}

	att := float32(1)
	if l.EndDistance > l.StartDistance && d > l.StartDistance {
		att = 1 - mathutil.Smoothstep(l.StartDistance, l.EndDistance, d)
	}

	s := l.Intensity * att * l.FlickerFactor(frame)
	if s <= 0 {
		return mgl32.Vec3{}, false
	}
	return l.Color.Mul(s), true
}

// GroundPosition is the light position projected onto the xz plane.
func (l *Light) GroundPosition() mgl32.Vec2 {
	return mgl32.Vec2{l.Position[0], l.Position[2]}
}
