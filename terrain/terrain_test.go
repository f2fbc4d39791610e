package terrain

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/spinrunner/common"
	"github.com/milk9111/spinrunner/levels"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var down = cp.Vector{X: 0, Y: -1}

func floorWorld(layer uint, surf *Surface) *World {
	w := NewWorld()
	w.AddBox(cp.BB{L: 0, B: 0, R: 100, T: 20}, layer, surf)
	return w
}

func downRay(x, y float64) Ray {
	return Ray{Origin: cp.Vector{X: x, Y: y}, Dir: down, MaxDist: 50, Mask: LayerCommon | LayerA}
}

func TestRaycastFlatFloor(t *testing.T) {
	w := floorWorld(LayerCommon, nil)
	hit, ok := w.Raycast(downRay(50, 40))
	require.True(t, ok)
	assert.InDelta(t, 20, hit.Point.Y, 1e-9)
	assert.InDelta(t, 20, hit.Distance, 1e-9)
	assert.InDelta(t, 0, hit.Angle, 1e-9)
	assert.InDelta(t, 1, hit.Normal.Y, 1e-9)
}

func TestRaycastEmpty(t *testing.T) {
	w := floorWorld(LayerCommon, nil)

	_, ok := w.Raycast(downRay(150, 40))
	assert.False(t, ok, "ray beside the box")

	r := downRay(50, 40)
	r.MaxDist = 10
	_, ok = w.Raycast(r)
	assert.False(t, ok, "floor beyond max distance")

	r = downRay(50, 40)
	r.Mask = 0
	_, ok = w.Raycast(r)
	assert.False(t, ok, "zero mask")

	var nilWorld *World
	_, ok = nilWorld.Raycast(downRay(50, 40))
	assert.False(t, ok, "nil world")
}

func TestRaycastLayerMask(t *testing.T) {
	cases := []struct {
		name  string
		layer uint
		mask  uint
		want  bool
	}{
		{"common_always", LayerCommon, LayerCommon | LayerB, true},
		{"a_with_a", LayerA, LayerCommon | LayerA, true},
		{"a_with_b", LayerA, LayerCommon | LayerB, false},
		{"b_with_b", LayerB, LayerCommon | LayerB, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := floorWorld(c.layer, nil)
			r := downRay(50, 40)
			r.Mask = c.mask
			_, ok := w.Raycast(r)
			assert.Equal(t, c.want, ok)
		})
	}
}

func TestRaycastOneWay(t *testing.T) {
	surf := &Surface{Meta: &TileMeta{OneWay: true}}
	w := floorWorld(LayerCommon, surf)

	_, ok := w.Raycast(downRay(50, 40))
	assert.True(t, ok, "landing from above is accepted")

	up := Ray{Origin: cp.Vector{X: 50, Y: -20}, Dir: cp.Vector{X: 0, Y: 1}, MaxDist: 50, Mask: LayerCommon}
	_, ok = w.Raycast(up)
	assert.False(t, ok, "passing through from below")

	r := downRay(50, 40)
	r.IgnoreOneWay = true
	_, ok = w.Raycast(r)
	assert.False(t, ok, "ignored one-way")

	side := Ray{Origin: cp.Vector{X: -20, Y: 10}, Dir: cp.Vector{X: 1, Y: 0}, MaxDist: 50, Mask: LayerCommon}
	_, ok = w.Raycast(side)
	assert.False(t, ok, "side cast is not a landing direction")
}

func TestRaycastOneWayAngleOffset(t *testing.T) {
	// Up rotated 90 degrees counter-clockwise points to -x, so only casts
	// travelling toward +x are blocked.
	surf := &Surface{Meta: &TileMeta{OneWay: true, AngleOffset: 90}}
	w := floorWorld(LayerCommon, surf)

	right := Ray{Origin: cp.Vector{X: -20, Y: 10}, Dir: cp.Vector{X: 1, Y: 0}, MaxDist: 50, Mask: LayerCommon}
	_, ok := w.Raycast(right)
	assert.True(t, ok)

	_, ok = w.Raycast(downRay(50, 40))
	assert.False(t, ok)
}

func TestCanCollideInDirection(t *testing.T) {
	down := cp.Vector{X: 0, Y: -1}
	up := cp.Vector{X: 0, Y: 1}
	left := cp.Vector{X: -1, Y: 0}
	right := cp.Vector{X: 1, Y: 0}
	cases := []struct {
		offset float64
		dir    cp.Vector
		want   bool
	}{
		{0, down, true},
		{0, up, false},
		{0, left, false},
		{0, right, false},
		{90, right, true},
		{90, down, false},
		{90, up, false},
		{180, up, true},
		{180, left, false},
		{180, right, false},
		{270, left, true},
		{270, down, false},
		{270, up, false},
	}
	for _, tc := range cases {
		m := &TileMeta{OneWay: true, AngleOffset: tc.offset}
		assert.Equal(t, tc.want, m.CanCollideInDirection(tc.dir), "offset %v dir %v", tc.offset, tc.dir)
	}

	var solid *TileMeta
	assert.True(t, solid.CanCollideInDirection(up))
}

func TestRaycastFixedAngle(t *testing.T) {
	cases := []struct {
		name string
		meta TileMeta
		want float64
	}{
		{"angled", TileMeta{FixedAngle: true, Angled: true, Angle: 30}, 30},
		{"flip_x", TileMeta{FixedAngle: true, Angled: true, Angle: 30, FlipX: true}, 330},
		{"flip_y", TileMeta{FixedAngle: true, Angled: true, Angle: 30, FlipY: true}, 150},
		{"unangled_uses_fallback", TileMeta{FixedAngle: true}, 90},
		{"not_fixed", TileMeta{Angled: true, Angle: 30}, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			meta := c.meta
			w := floorWorld(LayerCommon, &Surface{Meta: &meta})
			r := downRay(50, 40)
			r.FallbackAngle = math.Pi / 2
			hit, ok := w.Raycast(r)
			require.True(t, ok)
			assert.InDelta(t, c.want, hit.Angle*common.Rad2Deg, 1e-9)
			n := common.AngleToNormal(hit.Angle)
			assert.InDelta(t, n.X, hit.Normal.X, 1e-9)
			assert.InDelta(t, n.Y, hit.Normal.Y, 1e-9)
		})
	}
}

func TestRaycastValidDistanceWindow(t *testing.T) {
	w := NewWorld()
	w.AddBox(cp.BB{L: 0, B: 30, R: 100, T: 40}, LayerCommon, nil)
	w.AddBox(cp.BB{L: 0, B: 0, R: 100, T: 10}, LayerCommon, nil)

	r := Ray{Origin: cp.Vector{X: 50, Y: 60}, Dir: down, MaxDist: 80, Mask: LayerCommon}
	hit, ok := w.Raycast(r)
	require.True(t, ok)
	assert.InDelta(t, 20, hit.Distance, 1e-9, "nearest wins")

	r.MinValidDist = 25
	hit, ok = w.Raycast(r)
	require.True(t, ok)
	assert.InDelta(t, 10, hit.Point.Y, 1e-9)

	r.MinValidDist = 0
	r.MaxValidDist = 15
	_, ok = w.Raycast(r)
	assert.False(t, ok)
}

func TestKinematicBoxMove(t *testing.T) {
	w := NewWorld()
	body, shape := w.AddKinematicBox(cp.Vector{X: 50, Y: 10}, 40, 10, LayerCommon, &Surface{Platform: "p1"})
	require.NotNil(t, body)
	require.NotNil(t, shape)

	hit, ok := w.Raycast(downRay(50, 40))
	require.True(t, ok)
	assert.InDelta(t, 15, hit.Point.Y, 1e-9)
	assert.Equal(t, "p1", hit.Surface.Platform)

	w.MoveBody(body, cp.Vector{X: 200, Y: 10})
	_, ok = w.Raycast(downRay(50, 40))
	assert.False(t, ok, "old position is empty")
	_, ok = w.Raycast(downRay(200, 40))
	assert.True(t, ok)

	w.MoveBody(body, cp.Vector{X: 50, Y: 10})
	_, ok = w.Raycast(downRay(200, 40))
	assert.False(t, ok)
	hit, ok = w.Raycast(downRay(50, 40))
	require.True(t, ok)
	assert.InDelta(t, 15, hit.Point.Y, 1e-9)
}

func TestFromLevel(t *testing.T) {
	lvl := &levels.Level{
		Width: 4, Height: 2, TileSize: 16,
		Tiles: map[int]levels.TileDef{
			2: {Shape: levels.ShapeSlope, Left: 0, Right: 1, FixedAngle: true, Angled: true, Angle: 45},
		},
		Layers: []levels.Layer{
			{Collision: levels.CollisionCommon, Tiles: []int{
				0, 0, 0, 2,
				1, 1, 1, 1,
			}},
			{Collision: levels.CollisionB, Tiles: []int{
				1, 0, 0, 0,
				0, 0, 0, 0,
			}},
		},
	}
	require.NoError(t, lvl.Validate())
	w := FromLevel(lvl)

	hit, ok := w.Raycast(Ray{Origin: cp.Vector{X: 24, Y: 40}, Dir: down, MaxDist: 50, Mask: LayerCommon})
	require.True(t, ok)
	assert.InDelta(t, 16, hit.Point.Y, 1e-9, "merged floor row")

	hit, ok = w.Raycast(Ray{Origin: cp.Vector{X: 56, Y: 60}, Dir: down, MaxDist: 50, Mask: LayerCommon})
	require.True(t, ok)
	assert.InDelta(t, 24, hit.Point.Y, 1e-6, "slope midpoint")
	assert.InDelta(t, 45, hit.Angle*common.Rad2Deg, 1e-9)

	_, ok = w.Raycast(Ray{Origin: cp.Vector{X: 8, Y: 60}, Dir: down, MaxDist: 40, Mask: LayerCommon | LayerA})
	assert.False(t, ok, "layer b tile invisible to mask a")
	hit, ok = w.Raycast(Ray{Origin: cp.Vector{X: 8, Y: 60}, Dir: down, MaxDist: 40, Mask: LayerCommon | LayerB})
	require.True(t, ok)
	assert.InDelta(t, 32, hit.Point.Y, 1e-9)
}

func TestFromEmbeddedLevel(t *testing.T) {
	lvl, err := levels.LoadLevelFromFS("test_loop.json")
	require.NoError(t, err)
	w := FromLevel(lvl)
	hit, ok := w.Raycast(Ray{Origin: cp.Vector{X: lvl.Spawn.X, Y: lvl.Spawn.Y}, Dir: down, MaxDist: 64, Mask: LayerCommon})
	require.True(t, ok)
	assert.InDelta(t, 32, hit.Point.Y, 1e-9)
	assert.InDelta(t, 0, hit.Angle, 1e-9)
}
