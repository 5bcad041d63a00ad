package scene

import (
	"reflect"
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"tile-rasterizer/internal/mathutil"
	"tile-rasterizer/internal/texture"
)

func TestEdgesInsideBothWindings(t *testing.T) {
	a, b, c := mgl32.Vec2{0, 0}, mgl32.Vec2{4, 0}, mgl32.Vec2{0, 4}
	inside := mgl32.Vec2{1, 1}
	outside := mgl32.Vec2{3, 3}

	for _, e := range []Edges{NewEdges(a, b, c, false), NewEdges(a, c, b, false)} {
		if !e.Inside(inside) {
			t.Errorf("Inside(%v) = false, want true", inside)
		}
		if e.Inside(outside) {
			t.Errorf("Inside(%v) = true, want false", outside)
		}
		if !e.Inside(a) {
			t.Error("vertex should be inside (inclusive edges)")
		}
	}
}

func TestEdgesCullingAndDegenerate(t *testing.T) {
	a, b, c := mgl32.Vec2{0, 0}, mgl32.Vec2{4, 0}, mgl32.Vec2{0, 4}

	// (a, b, c) has positive signed area in y-down space: back-facing.
	if NewEdges(a, b, c, true).Visible {
		t.Error("back-facing triangle visible with culling")
	}
	if !NewEdges(a, c, b, true).Visible {
		t.Error("front-facing triangle culled")
	}
	if NewEdges(a, b, mgl32.Vec2{8, 0}, false).Visible {
		t.Error("degenerate triangle visible")
	}
}

func TestRectIntersects(t *testing.T) {
	r := EmptyRect().Extend(mgl32.Vec2{2, 2}).Extend(mgl32.Vec2{5, 5})
	tests := []struct {
		name           string
		x0, y0, x1, y1 float32
		want           bool
	}{
		{"overlap", 0, 0, 3, 3, true},
		{"left of", 6, 0, 8, 8, false},
		{"touching max edge", 5, 5, 9, 9, true},
		{"touching min edge (half open)", 0, 0, 2, 2, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Intersects(tt.x0, tt.y0, tt.x1, tt.y1); got != tt.want {
				t.Errorf("Intersects() = %v, want %v", got, tt.want)
			}
		})
	}
	if EmptyRect().Intersects(-100, -100, 100, 100) {
		t.Error("empty rect intersects")
	}
}

func TestBatch2DBuild(t *testing.T) {
	b := NewRect2D(1, 2, 3, 4)
	if len(b.Edges) != 2 {
		t.Fatalf("len(Edges) = %d, want 2", len(b.Edges))
	}
	if b.BBox.Min != (mgl32.Vec2{1, 2}) || b.BBox.Max != (mgl32.Vec2{4, 6}) {
		t.Errorf("BBox = %+v", b.BBox)
	}

	bad := NewBatch2D([]mgl32.Vec2{{0, 0}, {1, 0}}, nil, [][3]int{{0, 1, 7}})
	if bad.Edges[0].Visible {
		t.Error("triangle with out-of-range index is visible")
	}
}

func TestBatch2DTransform(t *testing.T) {
	b := NewRect2D(0, 0, 1, 1).Transform(mgl32.Translate2D(10, 20))
	if b.BBox.Min != (mgl32.Vec2{10, 20}) || b.BBox.Max != (mgl32.Vec2{11, 21}) {
		t.Errorf("BBox after translate = %+v", b.BBox)
	}
}

func TestLineSegments(t *testing.T) {
	verts := []mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	tests := []struct {
		mode PrimitiveMode
		want [][2]int
	}{
		{Lines, [][2]int{{0, 1}, {2, 3}}},
		{LineStrip, [][2]int{{0, 1}, {1, 2}, {2, 3}}},
		{LineLoop, [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}}},
		{Triangles, nil},
	}
	for _, tt := range tests {
		got := NewLines2D(tt.mode, verts, Pixel{255, 255, 255, 255}).LineSegments()
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("mode %d: LineSegments() = %v, want %v", tt.mode, got, tt.want)
		}
	}
}

func TestProjectClipsNearPlane(t *testing.T) {
	cam := mathutil.NewOrbitCamera(mgl32.Vec3{0, 0, 0}, 2, 0, 0, 60, 1)
	vp := cam.ViewProjection()

	// One vertex far behind the camera forces a near-plane clip.
	b := NewBatch3D(
		[]mgl32.Vec3{{-1, -1, 0}, {1, -1, 0}, {0, 1, 10}},
		[]mgl32.Vec2{{0, 0}, {1, 0}, {0.5, 1}},
		[]mgl32.Vec3{{0, 1, 0}, {0, 1, 0}, {0, 1, 0}},
		[][3]int{{0, 1, 2}},
	)
	b.Project(vp, 64, 64)

	if len(b.ClippedIndices) < 1 {
		t.Fatal("clipped triangle vanished")
	}
	if len(b.ClippedVertices) != len(b.ClippedUVs) || len(b.ClippedVertices) != len(b.ClippedNormals) {
		t.Fatal("clipped arrays are not one-to-one")
	}
	if len(b.Edges) != len(b.ClippedIndices) {
		t.Fatalf("len(Edges) = %d, want %d", len(b.Edges), len(b.ClippedIndices))
	}
	for i, v := range b.ClippedVertices {
		if v[3] <= 0 {
			t.Errorf("vertex %d has w = %v", i, v[3])
		}
		if !mathutil.IsFinite(v[0]) || !mathutil.IsFinite(v[1]) {
			t.Errorf("vertex %d not finite: %v", i, v)
		}
	}
}

func TestProjectFrontQuad(t *testing.T) {
	cam := mathutil.NewOrbitCamera(mgl32.Vec3{0, 0, 0}, 3, 0, 0, 90, 1)
	b := NewBatch3D(
		[]mgl32.Vec3{{-1, -1, 0}, {1, -1, 0}, {1, 1, 0}, {-1, 1, 0}},
		nil, nil,
		[][3]int{{0, 1, 2}, {0, 2, 3}, {0, 1, 9}},
	)
	b.Project(cam.ViewProjection(), 100, 100)

	if len(b.ClippedIndices) != 2 {
		t.Fatalf("ClippedIndices = %d, want 2 (bad index skipped)", len(b.ClippedIndices))
	}
	for _, v := range b.ClippedVertices {
		if v[2] <= 0 || v[2] >= 1 {
			t.Errorf("depth %v outside (0,1)", v[2])
		}
	}
	// The quad is centred on screen.
	cx := (b.BBox.Min[0] + b.BBox.Max[0]) / 2
	cy := (b.BBox.Min[1] + b.BBox.Max[1]) / 2
	if math32.Abs(cx-50) > 0.01 || math32.Abs(cy-50) > 0.01 {
		t.Errorf("quad centre = (%v, %v), want (50, 50)", cx, cy)
	}
}

func TestLightRadiance(t *testing.T) {
	l := NewPointLight(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0.5, 0}, 2, 1, 3)

	near, ok := l.Radiance(mgl32.Vec3{0.5, 0, 0}, 0)
	if !ok || near != (mgl32.Vec3{2, 1, 0}) {
		t.Errorf("inside start radius = %v, %v", near, ok)
	}
	mid, ok := l.Radiance(mgl32.Vec3{2, 0, 0}, 0)
	if !ok || mid[0] <= 0 || mid[0] >= 2 {
		t.Errorf("falloff radiance = %v, %v", mid, ok)
	}
	if _, ok := l.Radiance(mgl32.Vec3{3, 0, 0}, 0); ok {
		t.Error("light reaches beyond EndDistance")
	}
}

func TestFlickerIsDeterministic(t *testing.T) {
	l := Light{Flicker: 0.5, Seed: 42}
	for frame := 0; frame < 50; frame++ {
		a := l.FlickerFactor(frame)
		if a != l.FlickerFactor(frame) {
			t.Fatal("FlickerFactor not deterministic")
		}
		if a < 0.5 || a > 1 {
			t.Fatalf("FlickerFactor(%d) = %v outside [0.5, 1]", frame, a)
		}
	}
	steady := Light{}
	if steady.FlickerFactor(3) != 1 {
		t.Error("non-flickering light flickers")
	}
}

func TestOcclusionGrid(t *testing.T) {
	g := NewOcclusionGrid(0, 0, 8, 8)
	g.SetExposure(1, 1, 0.25)
	g.SetBlocking(4, 0, true)
	g.SetBlocking(4, 1, true)
	g.SetBlocking(4, 2, true)

	if got := g.Occlusion(mgl32.Vec2{1.5, 1.5}); got != 0.25 {
		t.Errorf("Occlusion(1.5,1.5) = %v, want 0.25", got)
	}
	if got := g.Occlusion(mgl32.Vec2{-3, 20}); got != 1 {
		t.Errorf("Occlusion(outside) = %v, want 1", got)
	}

	tests := []struct {
		name     string
		from, to mgl32.Vec2
		want     bool
	}{
		{"same cell", mgl32.Vec2{0.5, 0.5}, mgl32.Vec2{0.7, 0.2}, true},
		{"clear row", mgl32.Vec2{0.5, 5.5}, mgl32.Vec2{7.5, 5.5}, true},
		{"through wall", mgl32.Vec2{0.5, 1.5}, mgl32.Vec2{7.5, 1.5}, false},
		{"end cell is wall", mgl32.Vec2{0.5, 1.5}, mgl32.Vec2{4.5, 1.5}, true},
		{"diagonal around", mgl32.Vec2{0.5, 7.5}, mgl32.Vec2{7.5, 3.5}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.IsVisible(tt.from, tt.to); got != tt.want {
				t.Errorf("IsVisible() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTerrainGrid(t *testing.T) {
	grass := texture.Solid("grass", 2, 2, 0, 200, 0, 255)
	rock := texture.Solid("rock", 2, 2, 120, 120, 120, 255)
	g := NewTerrainGrid(grass)
	g.Set(-1, 0, rock)

	if c, ok := g.SampleTerrain(mgl32.Vec2{-0.5, 0.5}, 0); !ok || c[0] != 120 {
		t.Errorf("rock cell = %v, %v", c, ok)
	}
	if c, ok := g.SampleTerrain(mgl32.Vec2{3.2, 9.9}, 0); !ok || c[1] != 200 {
		t.Errorf("default cell = %v, %v", c, ok)
	}
	empty := NewTerrainGrid(nil)
	if _, ok := empty.SampleTerrain(mgl32.Vec2{}, 0); ok {
		t.Error("empty terrain sampled")
	}
}

func TestSceneChunks(t *testing.T) {
	s := New()
	s.AddChunk(&Chunk{Key: ChunkKey{1, 0}})
	s.AddChunk(&Chunk{Key: ChunkKey{0, 1}})
	s.AddChunk(&Chunk{Key: ChunkKey{-1, 0}})

	if c := s.ChunkAt(mgl32.Vec2{-0.1, 3}); c == nil || c.Key != (ChunkKey{-1, 0}) {
		t.Errorf("ChunkAt(-0.1, 3) = %+v", c)
	}
	if c := s.ChunkAt(mgl32.Vec2{100, 100}); c != nil {
		t.Errorf("ChunkAt(far) = %+v, want nil", c)
	}

	var keys []ChunkKey
	for _, c := range s.SortedChunks() {
		keys = append(keys, c.Key)
	}
	want := []ChunkKey{{-1, 0}, {1, 0}, {0, 1}}
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("SortedChunks() = %v, want %v", keys, want)
	}

	var nilChunk *Chunk
	if nilChunk.GetOcclusion(mgl32.Vec2{}) != 1 || !nilChunk.IsVisible(mgl32.Vec2{}, mgl32.Vec2{1, 1}) {
		t.Error("nil chunk queries should be permissive")
	}
}

func TestAssetsLookups(t *testing.T) {
	id := uuid.New()
	a := NewAssets([]*texture.Tile{texture.Solid("a", 1, 1, 1, 2, 3, 255)})
	a.Entities[id] = []*texture.Tile{texture.Solid("e", 1, 1, 9, 9, 9, 255)}

	if a.StaticTile(0) == nil || a.StaticTile(1) != nil || a.StaticTile(-1) != nil {
		t.Error("StaticTile bounds")
	}
	if a.EntityTile(id, 0) == nil || a.EntityTile(id, 1) != nil || a.ItemTile(id, 0) != nil {
		t.Error("EntityTile/ItemTile lookups")
	}
	if a.TileIndex("a") != 0 || a.TileIndex("zzz") != -1 {
		t.Error("TileIndex lookups")
	}
	var none *Assets
	if none.StaticTile(0) != nil {
		t.Error("nil assets StaticTile")
	}
}
