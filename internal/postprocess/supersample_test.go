package postprocess

import (
	"image"
	"testing"
)

func TestDownsampleSize(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		tw, th       int
		wantW, wantH int
	}{
		{"half", 64, 48, 32, 24, 32, 24},
		{"already small", 16, 16, 32, 32, 16, 16},
		{"invalid target", 16, 16, 0, 8, 16, 16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := image.NewNRGBA(image.Rect(0, 0, tt.w, tt.h))
			got := Downsample(img, tt.tw, tt.th).Bounds()
			if got.Dx() != tt.wantW || got.Dy() != tt.wantH {
				t.Errorf("Downsample() size = %dx%d, want %dx%d", got.Dx(), got.Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestDownsampleKeepsOpaqueColour(t *testing.T) {
	pixels := make([]uint8, 8*8*4)
	for i := 0; i < len(pixels); i += 4 {
		pixels[i], pixels[i+1], pixels[i+2], pixels[i+3] = 200, 100, 50, 255
	}
	out := Downsample(FromPixels(pixels, 8, 8), 4, 4)
	want := []int{200, 100, 50, 255}
	for i := 0; i < len(out.Pix); i++ {
		if d := int(out.Pix[i]) - want[i%4]; d < -1 || d > 1 {
			t.Fatalf("pixel %d = %v, want %v", i/4, out.Pix[i/4*4:i/4*4+4], want)
		}
	}
}

func TestDownsampleNoDarkHalo(t *testing.T) {
	// White opaque left half, fully transparent black right half.
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 4; x++ {
			o := img.PixOffset(x, y)
			img.Pix[o], img.Pix[o+1], img.Pix[o+2], img.Pix[o+3] = 255, 255, 255, 255
		}
	}
	out := Downsample(img, 4, 4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			o := out.PixOffset(x, y)
			if out.Pix[o+3] > 16 && out.Pix[o] < 240 {
				t.Errorf("pixel (%d,%d) = %v, edge darkened", x, y, out.Pix[o:o+4])
			}
		}
	}
}

func TestFromPixelsSharesMemory(t *testing.T) {
	pixels := make([]uint8, 2*3*4)
	img := FromPixels(pixels, 2, 3)
	img.Pix[5] = 9
	if pixels[5] != 9 {
		t.Error("FromPixels copied the buffer")
	}
	if img.Bounds().Dx() != 2 || img.Bounds().Dy() != 3 {
		t.Errorf("bounds = %v", img.Bounds())
	}
}
