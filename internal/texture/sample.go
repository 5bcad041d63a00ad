package texture

import (
	"image"

	"github.com/chewxy/math32"
)

// wrap maps a texture coordinate into [0, 1) (repeat addressing).
func wrap(u float32) float32 {
	u -= math32.Floor(u)
	if u >= 1 {
		u = 0
	}
	return u
}

// SampleNearest returns the texel under (u, v) with repeat wrapping.
// A nil or empty texture yields transparent black.
func SampleNearest(tex *image.NRGBA, u, v float32) [4]uint8 {
	if tex == nil {
		return [4]uint8{}
	}
	w := tex.Rect.Dx()
	h := tex.Rect.Dy()
	if w == 0 || h == 0 {
		return [4]uint8{}
	}

	x := int(wrap(u) * float32(w))
	y := int(wrap(v) * float32(h))
	if x >= w {
		x = w - 1
	}
	if y >= h {
		y = h - 1
	}

	i := y*tex.Stride + x*4
	p := tex.Pix
	return [4]uint8{p[i], p[i+1], p[i+2], p[i+3]}
}

// SampleBilinear performs bilinear filtering with UV wrapping.
// Accesses tex.Pix directly for performance.
func SampleBilinear(tex *image.NRGBA, u, v float32) [4]uint8 {
	if tex == nil {
		return [4]uint8{}
	}
	w := tex.Rect.Dx()
	h := tex.Rect.Dy()
	if w == 0 || h == 0 {
		return [4]uint8{}
	}

	fx := wrap(u) * float32(w-1)
	fy := wrap(v) * float32(h-1)
	x0 := int(fx)
	y0 := int(fy)
	x1 := (x0 + 1) % w
	y1 := (y0 + 1) % h
	dx := fx - float32(x0)
	dy := fy - float32(y0)

	stride := tex.Stride
	pix := tex.Pix

	// Four texels
	i00 := y0*stride + x0*4
	i10 := y0*stride + x1*4
	i01 := y1*stride + x0*4
	i11 := y1*stride + x1*4

	w00 := (1 - dx) * (1 - dy)
	w10 := dx * (1 - dy)
	w01 := (1 - dx) * dy
	w11 := dx * dy

	var out [4]uint8
	for c := 0; c < 4; c++ {
		f := float32(pix[i00+c])*w00 + float32(pix[i10+c])*w10 +
			float32(pix[i01+c])*w01 + float32(pix[i11+c])*w11
		out[c] = uint8(math32.Min(f+0.5, 255))
	}
	return out
}
