package texture

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writePNG(t *testing.T, path string, c color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestSplitFrame(t *testing.T) {
	tests := []struct {
		base      string
		wantName  string
		wantFrame int
	}{
		{"stone.png", "stone", 0},
		{"Water_2.png", "water", 2},
		{"lava_flow_10.tga", "lava_flow", 10},
		{"odd_.png", "odd_", 0},
		{"_3.png", "_3", 0},
		{"grass_a.png", "grass_a", 0},
	}
	for _, tt := range tests {
		t.Run(tt.base, func(t *testing.T) {
			name, frame := splitFrame(tt.base)
			if name != tt.wantName || frame != tt.wantFrame {
				t.Errorf("splitFrame(%q) = (%q, %d), want (%q, %d)",
					tt.base, name, frame, tt.wantName, tt.wantFrame)
			}
		})
	}
}

func TestBuildAtlasOrdersFrames(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "water_1.png"), color.NRGBA{0, 0, 200, 255})
	writePNG(t, filepath.Join(dir, "water_0.png"), color.NRGBA{0, 0, 100, 255})
	writePNG(t, filepath.Join(dir, "stone.png"), color.NRGBA{90, 90, 90, 255})
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0o644); err != nil {
		t.Fatal(err)
	}

	tiles, failed := BuildAtlas(dir)
	if failed != 0 {
		t.Fatalf("BuildAtlas() failed = %d, want 0", failed)
	}
	if len(tiles) != 2 {
		t.Fatalf("len(tiles) = %d, want 2", len(tiles))
	}
	if tiles[0].Name != "stone" || tiles[1].Name != "water" {
		t.Fatalf("tile names = %q, %q", tiles[0].Name, tiles[1].Name)
	}

	water := tiles[1]
	if len(water.Frames) != 2 {
		t.Fatalf("water frames = %d, want 2", len(water.Frames))
	}
	if got := water.Frame(0).Pix[2]; got != 100 {
		t.Errorf("frame 0 blue = %d, want 100", got)
	}
	if got := water.Frame(3).Pix[2]; got != 200 {
		t.Errorf("frame 3 blue = %d, want 200 (3 %% 2 == 1)", got)
	}
}

func TestCacheResolveIsCaseInsensitive(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "Brick.png"), color.NRGBA{180, 60, 40, 255})

	cache := NewCache(BuildIndex(dir))
	a := cache.Resolve("BRICK")
	b := cache.Resolve("brick")
	if a == nil || a != b {
		t.Fatalf("Resolve() = %p, %p; want same non-nil tile", a, b)
	}
	if cache.Resolve("missing") != nil {
		t.Error("Resolve(missing) != nil")
	}
}

func TestLoadTextureRejectsUnknownExtension(t *testing.T) {
	if _, err := LoadTexture("atlas.bmp"); err == nil {
		t.Error("LoadTexture(.bmp) error = nil, want error")
	}
}

func TestTileIDsAreDeterministic(t *testing.T) {
	a := Solid("grass", 1, 1, 0, 255, 0, 255)
	b := Solid("grass", 1, 1, 0, 255, 0, 255)
	if a.ID != b.ID {
		t.Errorf("ids differ: %v vs %v", a.ID, b.ID)
	}
	var empty *Tile
	if empty.Frame(1) != nil {
		t.Error("nil tile Frame() != nil")
	}
}

func TestChecker(t *testing.T) {
	tile := Checker("c", 4, 2, [4]uint8{0, 0, 0, 255}, [4]uint8{255, 255, 255, 255})
	img := tile.Frame(0)
	if img.Pix[img.PixOffset(0, 0)] != 0 {
		t.Error("(0,0) should be the first colour")
	}
	if img.Pix[img.PixOffset(2, 0)] != 255 {
		t.Error("(2,0) should be the second colour")
	}
	if img.Pix[img.PixOffset(2, 2)] != 0 {
		t.Error("(2,2) should be the first colour")
	}
}

func TestSampleNearestWraps(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	copy(img.Pix, []uint8{10, 0, 0, 255, 20, 0, 0, 255})

	tests := []struct {
		u    float32
		want uint8
	}{
		{0.1, 10},
		{0.6, 20},
		{1.1, 10},
		{-0.1, 20},
		{-1.6, 10},
	}
	for _, tt := range tests {
		if got := SampleNearest(img, tt.u, 0.5)[0]; got != tt.want {
			t.Errorf("SampleNearest(u=%v) = %d, want %d", tt.u, got, tt.want)
		}
	}
	if got := SampleNearest(nil, 0, 0); got != ([4]uint8{}) {
		t.Errorf("SampleNearest(nil) = %v, want transparent", got)
	}
}

func TestSampleBilinearUniform(t *testing.T) {
	tile := Solid("s", 4, 4, 40, 80, 120, 255)
	got := SampleBilinear(tile.Frame(0), 0.37, 0.81)
	if got != ([4]uint8{40, 80, 120, 255}) {
		t.Errorf("SampleBilinear() = %v, want uniform colour", got)
	}
}

func TestJPEG2000Extensions(t *testing.T) {
	for _, name := range []string{"a.jp2", "b.J2K", "c.webp", "d.TGA"} {
		if !IsSupported(name) {
			t.Errorf("IsSupported(%q) = false", name)
		}
	}

	path := filepath.Join(t.TempDir(), "broken.jp2")
	if err := os.WriteFile(path, []byte("not a codestream"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadTexture(path)
	if err == nil || !strings.Contains(err.Error(), "texture: decode") {
		t.Errorf("LoadTexture(broken.jp2) error = %v", err)
	}
}
