package rendergraph

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"tile-rasterizer/internal/mathutil"
)

// Base implements every Node method as a no-op. Node types embed it and
// override the stages they take part in.
type Base struct{}

func (Base) RenderSetup(float32) (mgl32.Vec3, float32, bool) { return mgl32.Vec3{}, 0, false }
func (Base) RenderAmbientColor(float32) (mgl32.Vec4, bool)   { return mgl32.Vec4{}, false }
func (Base) RenderMissD3(*mgl32.Vec4, mgl32.Vec3, mgl32.Vec3, mgl32.Vec2, float32) {
}
func (Base) RenderHitD3(*mgl32.Vec4, mgl32.Vec3, mgl32.Vec3, mgl32.Vec3, float32) {
}

// Output is a terminal root. It contributes nothing itself.
type Output struct{ Base }

// Daylight derives the sun and ambient light from the hour of day.
type Daylight struct {
	Base
	Sunrise, Sunset float32 // hours
	DayAmbient      mgl32.Vec4
	NightAmbient    mgl32.Vec4
}

// NewDaylight returns a 06:00–18:00 day cycle.
func NewDaylight() *Daylight {
	return &Daylight{
		Sunrise:      6,
		Sunset:       18,
		DayAmbient:   mgl32.Vec4{0.55, 0.65, 0.8, 0.6},
		NightAmbient: mgl32.Vec4{0.1, 0.12, 0.25, 0.25},
	}
}

// sunAngle maps the hour to [0, π] across the day; outside the day it keeps
// going below the horizon.
func (d *Daylight) sunAngle(hour float32) float32 {
	span := d.Sunset - d.Sunrise
	if span <= 0 {
		span = 12
	}
	return (hour - d.Sunrise) / span * math32.Pi
}

func (d *Daylight) dayFactor(hour float32) float32 {
	return mathutil.Smoothstep(-0.1, 0.25, math32.Sin(d.sunAngle(hour)))
}

func (d *Daylight) RenderSetup(hour float32) (mgl32.Vec3, float32, bool) {
	a := d.sunAngle(hour)
	dir := mathutil.Normalize(mgl32.Vec3{math32.Cos(a), math32.Sin(a), 0.35})
	return dir, d.dayFactor(hour), true
}

func (d *Daylight) RenderAmbientColor(hour float32) (mgl32.Vec4, bool) {
	f := d.dayFactor(hour)
	var c mgl32.Vec4
	for i := range c {
		c[i] = mathutil.Lerp(d.NightAmbient[i], d.DayAmbient[i], f)
	}
	return c, true
}

// Sky shades missed rays with a horizon/zenith gradient and a sun disc.
type Sky struct {
	Base
	Sun          *Daylight
	DayZenith    mgl32.Vec3
	DayHorizon   mgl32.Vec3
	NightZenith  mgl32.Vec3
	NightHorizon mgl32.Vec3
	SunColor     mgl32.Vec3
	SunSize      float32 // cosine threshold of the disc
}

// NewSky returns a sky driven by sun.
func NewSky(sun *Daylight) *Sky {
	return &Sky{
		Sun:          sun,
		DayZenith:    mgl32.Vec3{0.25, 0.45, 0.85},
		DayHorizon:   mgl32.Vec3{0.75, 0.85, 0.95},
		NightZenith:  mgl32.Vec3{0.01, 0.02, 0.06},
		NightHorizon: mgl32.Vec3{0.06, 0.07, 0.14},
		SunColor:     mgl32.Vec3{1, 0.95, 0.8},
		SunSize:      0.9995,
	}
}

func (s *Sky) RenderMissD3(color *mgl32.Vec4, _ mgl32.Vec3, ray mgl32.Vec3, _ mgl32.Vec2, hour float32) {
	t := mathutil.Saturate(ray[1]*0.5 + 0.5)
	day := mathutil.LerpVec3(s.DayHorizon, s.DayZenith, t)
	night := mathutil.LerpVec3(s.NightHorizon, s.NightZenith, t)

	f := float32(1)
	var sky mgl32.Vec3
	if s.Sun != nil {
		var dir mgl32.Vec3
		dir, f, _ = s.Sun.RenderSetup(hour)
		sky = mathutil.LerpVec3(night, day, f)
		if ray.Dot(dir) > s.SunSize && f > 0 {
			sky = mathutil.LerpVec3(sky, s.SunColor, f)
		}
	} else {
		sky = day
	}
	*color = mgl32.Vec4{sky[0], sky[1], sky[2], 1}
}

// Constant paints every missed ray with one colour.
type Constant struct {
	Base
	Color mgl32.Vec4
}

func (c *Constant) RenderMissD3(color *mgl32.Vec4, _, _ mgl32.Vec3, _ mgl32.Vec2, _ float32) {
	*color = c.Color
}

// Fog blends hit colours towards Color with exponential distance falloff.
type Fog struct {
	Base
	Color   mgl32.Vec3
	Density float32
}

func (f *Fog) RenderHitD3(color *mgl32.Vec4, cameraPos, hitPoint, _ mgl32.Vec3, _ float32) {
	d := hitPoint.Sub(cameraPos).Len()
	amount := 1 - math32.Exp(-f.Density*d)
	for i := 0; i < 3; i++ {
		color[i] = mathutil.Lerp(color[i], f.Color[i], amount)
	}
}
