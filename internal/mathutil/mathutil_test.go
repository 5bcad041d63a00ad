package mathutil

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

func TestFract(t *testing.T) {
	tests := []struct {
		in, want float32
	}{
		{0.25, 0.25},
		{1.75, 0.75},
		{-0.25, 0.75},
		{3, 0},
	}
	for _, tt := range tests {
		if got := Fract(tt.in); math32.Abs(got-tt.want) > 1e-6 {
			t.Errorf("Fract(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestToByte(t *testing.T) {
	tests := []struct {
		in   float32
		want uint8
	}{
		{-1, 0},
		{0, 0},
		{10.0 / 255.0, 10},
		{0.5, 128},
		{1, 255},
		{2, 255},
	}
	for _, tt := range tests {
		if got := ToByte(tt.in); got != tt.want {
			t.Errorf("ToByte(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestSmoothstep(t *testing.T) {
	if got := Smoothstep(0, 1, -1); got != 0 {
		t.Errorf("Smoothstep below = %v, want 0", got)
	}
	if got := Smoothstep(0, 1, 2); got != 1 {
		t.Errorf("Smoothstep above = %v, want 1", got)
	}
	if got := Smoothstep(0, 1, 0.5); math32.Abs(got-0.5) > 1e-6 {
		t.Errorf("Smoothstep mid = %v, want 0.5", got)
	}
	if got := Smoothstep(1, 1, 1); got != 1 {
		t.Errorf("Smoothstep degenerate = %v, want 1", got)
	}
}

func TestNormalizeZero(t *testing.T) {
	if got := Normalize(mgl32.Vec3{}); got != (mgl32.Vec3{}) {
		t.Errorf("Normalize(0) = %v, want zero", got)
	}
	got := Normalize(mgl32.Vec3{3, 0, 4})
	if math32.Abs(got.Len()-1) > 1e-6 {
		t.Errorf("Normalize length = %v, want 1", got.Len())
	}
}

func TestUnprojectRoundTrip(t *testing.T) {
	cam := NewOrbitCamera(mgl32.Vec3{0, 0, 0}, 5, 30, 20, 60, 1)
	vp := cam.ViewProjection()
	world := mgl32.Vec3{0.5, 0.25, -0.5}

	clip := vp.Mul4x1(world.Vec4(1))
	ndc := clip.Vec3().Mul(1 / clip[3])

	got, ok := Unproject(vp.Inv(), ndc)
	if !ok {
		t.Fatal("Unproject() ok = false")
	}
	if got.Sub(world).Len() > 1e-3 {
		t.Errorf("Unproject() = %v, want %v", got, world)
	}
}

func TestCameraPosition(t *testing.T) {
	cam := NewOrbitCamera(mgl32.Vec3{0, 0, 0}, 5, 0, 0, 60, 1)
	pos := cam.Position()
	want := mgl32.Vec3{0, 0, 5}
	if pos.Sub(want).Len() > 1e-4 {
		t.Errorf("Position() = %v, want %v", pos, want)
	}
}
