// Package shader defines the surface between the rasterizer and shader
// programs: a reusable register file (Execution) that the rasterizer fills
// before a program runs and reads back afterwards.
package shader

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

// EntryShade is the entry point invoked for surface shading.
const EntryShade = 0

// Default material values used when no program overrides them.
const (
	DefaultRoughness = 0.5
	DefaultMetallic  = 0.0
)

// Palette is the global colour palette programs may index into.
type Palette []color.NRGBA

// Globals are the per-invocation values copied in by Reset.
type Globals struct {
	Time  float32
	Hour  float32
	Frame int
}

// Execution is the input/output register file of one shader invocation.
// A tile task owns exactly one Execution and calls Reset before every
// invocation; it is never shared between goroutines.
type Execution struct {
	Globals

	// Inputs (also writable by programs).
	UV       mgl32.Vec2
	HitPoint mgl32.Vec3
	Normal   mgl32.Vec3

	// Outputs.
	Color     mgl32.Vec3
	Opacity   float32
	Roughness float32
	Metallic  float32
	Emissive  mgl32.Vec3
}

// NewExecution returns a reset execution context.
func NewExecution() *Execution {
	e := &Execution{}
	e.Reset(Globals{})
	return e
}

// Reset clears all registers and installs the globals.
func (e *Execution) Reset(g Globals) {
	*e = Execution{
		Globals:   g,
		Opacity:   1,
		Roughness: DefaultRoughness,
		Metallic:  DefaultMetallic,
	}
}

// Program is a compiled shader. Shade runs the given entry point against
// the execution registers and reports false when the entry is absent, in
// which case the caller keeps its own colour.
type Program interface {
	Shade(e *Execution, entry int, palette Palette) bool
}

// ProgramFunc adapts a Go function to Program. It only implements
// EntryShade.
type ProgramFunc func(e *Execution, palette Palette)

// Shade implements Program.
func (f ProgramFunc) Shade(e *Execution, entry int, palette Palette) bool {
	if f == nil || entry != EntryShade {
		return false
	}
	f(e, palette)
	return true
}

// Lookup returns programs[i] or nil when i is out of range.
func Lookup(programs []Program, i int) Program {
	if i < 0 || i >= len(programs) {
		return nil
	}
	return programs[i]
}

// Constant returns a program that writes a fixed sRGB colour.
func Constant(c color.NRGBA) Program {
	col := mgl32.Vec3{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255}
	op := float32(c.A) / 255
	return ProgramFunc(func(e *Execution, _ Palette) {
		e.Color = col
		e.Opacity = op
	})
}

// PaletteTint returns a program that multiplies the incoming colour by the
// palette entry at index. Out-of-range indices leave the colour unchanged.
func PaletteTint(index int) Program {
	return ProgramFunc(func(e *Execution, palette Palette) {
		if index < 0 || index >= len(palette) {
			return
		}
		p := palette[index]
		e.Color = mgl32.Vec3{
			e.Color[0] * float32(p.R) / 255,
			e.Color[1] * float32(p.G) / 255,
			e.Color[2] * float32(p.B) / 255,
		}
	})
}
