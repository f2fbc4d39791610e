package platform

import (
	"io"
	"log/slog"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/spinrunner/levels"
	"github.com/milk9111/spinrunner/movement"
	"github.com/milk9111/spinrunner/terrain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRider struct{ deltas []cp.Vector }

func (r *recordingRider) AddPlatformMovement(d cp.Vector) { r.deltas = append(r.deltas, d) }

func TestPlatformShuttlesAndWaits(t *testing.T) {
	w := terrain.NewWorld()
	p := New(w, cp.Vector{X: 0, Y: 0}, cp.Vector{X: 60, Y: 0}, 32, 8, 60, 1, terrain.LayerCommon, nil)

	want := []float64{30, 60, 60, 60, 30, 0, 0, 0, 30}
	for i, x := range want {
		p.Update(0.5)
		assert.Equal(t, x, p.Position().X, "step %d", i)
	}
}

func TestPlatformMovesTerrainShape(t *testing.T) {
	w := terrain.NewWorld()
	p := New(w, cp.Vector{X: 0, Y: 0}, cp.Vector{X: 0, Y: 40}, 64, 8, 40, 0, terrain.LayerCommon, nil)
	p.Update(0.5)

	hit, ok := w.Raycast(terrain.Ray{Origin: cp.Vector{X: 0, Y: 100}, Dir: cp.Vector{X: 0, Y: -1}, MaxDist: 200, Mask: terrain.LayerCommon})
	require.True(t, ok)
	assert.InDelta(t, 24, hit.Point.Y, 1e-6)
	assert.Same(t, p, hit.Surface.Platform)
}

func TestRidersReceiveDeltaOnce(t *testing.T) {
	w := terrain.NewWorld()
	p := New(w, cp.Vector{}, cp.Vector{X: 100}, 32, 8, 20, 0, terrain.LayerCommon, nil)
	r := &recordingRider{}

	p.Attach(r)
	p.Attach(r)
	assert.Equal(t, 1, p.Riders())
	p.Update(0.5)
	require.Len(t, r.deltas, 1)
	assert.Equal(t, cp.Vector{X: 10}, r.deltas[0])
	assert.Equal(t, 0, p.Riders(), "attachments clear every update")

	p.Update(0.5)
	assert.Len(t, r.deltas, 1)
}

func TestNotifierIgnoresForeignHandles(t *testing.T) {
	r := &recordingRider{}
	n := Notifier{Rider: r}
	n.NotifyGroundedOn("not a platform")
	n.NotifyGroundedOn(nil)

	w := terrain.NewWorld()
	p := New(w, cp.Vector{}, cp.Vector{X: 10}, 32, 8, 20, 0, terrain.LayerCommon, nil)
	n.NotifyGroundedOn(p)
	assert.Equal(t, 1, p.Riders())
}

func TestCharacterRidesPlatform(t *testing.T) {
	w := terrain.NewWorld()
	p := New(w, cp.Vector{X: 0, Y: -4}, cp.Vector{X: 200}, 200, 8, 60, 0, terrain.LayerCommon, nil)

	c, err := movement.NewCharacter(movement.DefaultConfig(), w, cp.Vector{})
	require.NoError(t, err)
	c.SetLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	c.SetPlatformNotifier(Notifier{Rider: c})
	c.Spawn(cp.Vector{X: 0, Y: 20})
	require.True(t, c.Grounded())

	const dt = 1.0 / 60.0
	for i := 0; i < 30; i++ {
		c.Tick(dt)
		p.Update(dt)
	}
	c.Tick(dt)
	assert.True(t, c.Grounded())
	assert.InDelta(t, p.Position().X, c.Position().X, 1e-6)
	assert.InDelta(t, 20, c.Position().Y, 1e-6)
}

func TestFromLevel(t *testing.T) {
	lvl, err := levels.LoadLevelFromFS("test_loop.json")
	require.NoError(t, err)
	w := terrain.FromLevel(lvl)

	ps := FromLevel(w, lvl)
	require.Len(t, ps, len(lvl.Platforms))
	def := lvl.Platforms[0]
	assert.Equal(t, cp.Vector{X: def.X, Y: def.Y}, ps[0].Position())

	hit, ok := w.Raycast(terrain.Ray{
		Origin:  cp.Vector{X: def.X, Y: def.Y + 40},
		Dir:     cp.Vector{X: 0, Y: -1},
		MaxDist: 80,
		Mask:    terrain.LayerCommon,
	})
	require.True(t, ok)
	assert.InDelta(t, def.Y+def.H/2, hit.Point.Y, 1e-6)
	assert.True(t, hit.Surface.OneWay())

	assert.Nil(t, FromLevel(w, nil))
}
