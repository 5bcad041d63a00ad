// Package postprocess holds operations on finished frames.
package postprocess

import (
	"image"

	"golang.org/x/image/draw"
)

// FromPixels wraps an RGBA8 framebuffer as an image without copying.
func FromPixels(pixels []uint8, width, height int) *image.NRGBA {
	return &image.NRGBA{
		Pix:    pixels[:width*height*4],
		Stride: width * 4,
		Rect:   image.Rect(0, 0, width, height),
	}
}

// Downsample scales a supersampled frame to width×height. Filtering runs on
// premultiplied alpha so transparent pixels do not darken edges.
func Downsample(img *image.NRGBA, width, height int) *image.NRGBA {
	b := img.Bounds()
	if width <= 0 || height <= 0 || (b.Dx() <= width && b.Dy() <= height) {
		return img
	}

	premul := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			si := img.PixOffset(x, y)
			di := premul.PixOffset(x, y)
			a := uint32(img.Pix[si+3])
			premul.Pix[di] = uint8((uint32(img.Pix[si])*a + 127) / 255)
			premul.Pix[di+1] = uint8((uint32(img.Pix[si+1])*a + 127) / 255)
			premul.Pix[di+2] = uint8((uint32(img.Pix[si+2])*a + 127) / 255)
			premul.Pix[di+3] = uint8(a)
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), premul, premul.Bounds(), draw.Src, nil)

	result := image.NewNRGBA(dst.Bounds())
	for i := 0; i < len(dst.Pix); i += 4 {
		a := uint32(dst.Pix[i+3])
		if a > 0 {
			for k := 0; k < 3; k++ {
				result.Pix[i+k] = uint8(min((uint32(dst.Pix[i+k])*255+a/2)/a, 255))
			}
		}
		result.Pix[i+3] = uint8(a)
	}
	return result
}
