package raster

import (
	"github.com/chewxy/math32"

	"tile-rasterizer/internal/mathutil"
)

// srgbToLinearFast approximates x^2.2 with a cubic. Max error is about
// 0.0014 on [0,1].
func srgbToLinearFast(x float32) float32 {
	x = mathutil.Saturate(x)
	return mathutil.Saturate(x * (-0.035453736 + x*(0.850783396+x*0.186085621)))
}

// linearToSRGBFast approximates x^(1/2.2) from square roots only. Max error
// is about 0.0021 on [0,1].
func linearToSRGBFast(x float32) float32 {
	x = mathutil.Saturate(x)
	s1 := math32.Sqrt(x)
	s2 := math32.Sqrt(s1)
	s3 := math32.Sqrt(s2)
	return mathutil.Saturate(0.862181525*s1 + 0.220888128*s2 - 0.057606095*s3 - 0.025586813*x)
}

func decodeSRGB(c [4]uint8) ([3]float32, float32) {
	return [3]float32{
		srgbToLinearFast(float32(c[0]) / 255),
		srgbToLinearFast(float32(c[1]) / 255),
		srgbToLinearFast(float32(c[2]) / 255),
	}, float32(c[3]) / 255
}

func encodeSRGB(rgb [3]float32, opacity float32) [4]uint8 {
	return [4]uint8{
		mathutil.ToByte(linearToSRGBFast(rgb[0])),
		mathutil.ToByte(linearToSRGBFast(rgb[1])),
		mathutil.ToByte(linearToSRGBFast(rgb[2])),
		mathutil.ToByte(opacity),
	}
}
