package demo

import (
	"bytes"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestBoxMesh(t *testing.T) {
	b := Box(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{2, 2, 2})
	if len(b.Vertices) != 24 || len(b.Indices) != 12 {
		t.Fatalf("Box() = %d verts, %d tris", len(b.Vertices), len(b.Indices))
	}
	for i, v := range b.Vertices {
		for k, c := range []float32{1, 2, 3} {
			if v[k] < c-1 || v[k] > c+1 {
				t.Fatalf("vertex %d = %v outside box", i, v)
			}
		}
		// Each vertex sits on the face its normal points out of.
		n := b.Normals[i]
		if d := v.Sub(mgl32.Vec3{1, 2, 3}).Dot(n); d < 0.999 || d > 1.001 {
			t.Errorf("vertex %d = %v not on face %v", i, v, n)
		}
	}
}

func TestDefaultAssets(t *testing.T) {
	a := DefaultAssets()
	for _, name := range []string{TileGround, TileStone, TileCrate, TileWater} {
		if a.TileIndex(name) < 0 {
			t.Errorf("atlas is missing %q", name)
		}
	}
	if got := len(a.StaticTile(a.TileIndex(TileWater)).Frames); got != 3 {
		t.Errorf("water frames = %d, want 3", got)
	}
	if a.EntityTile(LanternID, 0) == nil {
		t.Error("lantern entity tile missing")
	}
}

func TestBuildScene(t *testing.T) {
	d := Build(DefaultAssets())
	sc := d.Scene
	if len(sc.Chunks) != 4 {
		t.Errorf("chunks = %d, want 4", len(sc.Chunks))
	}
	if !sc.Has3D() {
		t.Error("demo has no 3D content")
	}
	crate := sc.ChunkAt(mgl32.Vec2{1.5, 1})
	if crate == nil || len(crate.Batches3D) != 1 {
		t.Fatalf("crate chunk = %+v", crate)
	}
	if crate.IsVisible(mgl32.Vec2{0.5, 1.5}, mgl32.Vec2{3.5, 1.5}) {
		t.Error("crate cell should block line of sight")
	}
	if got := crate.GetOcclusion(mgl32.Vec2{2.5, 1.5}); got != 0.7 {
		t.Errorf("occlusion next to crate = %v, want 0.7", got)
	}
}

func renderFrame(t *testing.T, i int) []uint8 {
	t.Helper()
	return renderFrameTiled(t, i, 16)
}

func renderFrameTiled(t *testing.T, i, tileSize int) []uint8 {
	t.Helper()
	const w, h = 96, 64
	d := Build(DefaultAssets())
	sc, r := d.Frame(i, float32(i)/30, w, h)
	pixels := make([]uint8, w*h*4)
	r.Rasterize(sc, pixels, w, h, tileSize, d.Assets)
	return pixels
}

func TestRenderFrame(t *testing.T) {
	pixels := renderFrame(t, 0)

	colours := map[[4]uint8]bool{}
	for i := 0; i < len(pixels); i += 4 {
		if pixels[i+3] != 255 {
			t.Fatalf("pixel %d alpha = %d, want 255", i/4, pixels[i+3])
		}
		colours[[4]uint8{pixels[i], pixels[i+1], pixels[i+2], pixels[i+3]}] = true
	}
	if len(colours) < 20 {
		t.Errorf("only %d distinct colours rendered", len(colours))
	}

	// HUD border on top of everything.
	o := (6*96 + 30) * 4
	if got := [4]uint8{pixels[o], pixels[o+1], pixels[o+2], pixels[o+3]}; got != [4]uint8{220, 220, 220, 255} {
		t.Errorf("border pixel = %v", got)
	}
}

func TestRenderDeterministic(t *testing.T) {
	if !bytes.Equal(renderFrame(t, 3), renderFrame(t, 3)) {
		t.Error("same frame rendered differently")
	}
}

func TestRenderIndependentOfTileSize(t *testing.T) {
	want := renderFrameTiled(t, 2, 16)
	for _, size := range []int{1, 7, 64} {
		got := renderFrameTiled(t, 2, size)
		if bytes.Equal(got, want) {
			continue
		}
		diff := 0
		first := -1
		for i := 0; i < len(got); i += 4 {
			if !bytes.Equal(got[i:i+4], want[i:i+4]) {
				if first < 0 {
					first = i / 4
				}
				diff++
			}
		}
		t.Errorf("tile size %d: %d pixels differ from tile size 16, first at (%d,%d)", size, diff, first%96, first/96)
	}
}
