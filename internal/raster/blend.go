package raster

import "tile-rasterizer/internal/mathutil"

// blendPixel composites src over the RGBA8 pixel dst. Opaque sources are
// copied. Otherwise colour is straight src-over and the destination alpha
// becomes 255, or max(dst, src) when preserve is set.
func blendPixel(dst []uint8, src [4]uint8, preserve bool) {
	a := uint32(src[3])
	if a == 255 {
		copy(dst[:4], src[:])
		return
	}
	ia := 255 - a
	for i := 0; i < 3; i++ {
		dst[i] = uint8((uint32(src[i])*a + uint32(dst[i])*ia + 127) / 255)
	}
	if preserve {
		dst[3] = max(dst[3], src[3])
	} else {
		dst[3] = 255
	}
}

// compositeOver blends the opacity-pass pixel src over dst in float. The
// destination alpha is 1, or src_a + dst_a·(1-src_a) when preserve is set.
func compositeOver(dst []uint8, src []uint8, preserve bool) {
	sa := float32(src[3]) / 255
	for i := 0; i < 3; i++ {
		s := float32(src[i]) / 255
		d := float32(dst[i]) / 255
		dst[i] = mathutil.ToByte(s*sa + d*(1-sa))
	}
	if preserve {
		da := float32(dst[3]) / 255
		dst[3] = mathutil.ToByte(mathutil.Saturate(sa + da*(1-sa)))
	} else {
		dst[3] = 255
	}
}
