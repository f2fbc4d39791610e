package script

import (
	"io"
	"log/slog"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/spinrunner/movement"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quiet(s *InputScript) *InputScript {
	s.SetLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return s
}

func TestInputFromScript(t *testing.T) {
	src := `
update := func(tick, state) {
	mx := 1
	if state.x > 100 {
		mx = -0.5
	}
	return {move_x: mx, move_y: 0.0, jump: tick % 2 == 1}
}
`
	s, err := NewInputScript("inline", []byte(src))
	require.NoError(t, err)
	quiet(s)

	in := s.Next(State{})
	assert.Equal(t, movement.Input{Move: cp.Vector{X: 1}}, in)

	in = s.Next(State{Position: cp.Vector{X: 200}})
	assert.Equal(t, movement.Input{Move: cp.Vector{X: -0.5}, Jump: true}, in)
	assert.Equal(t, 2, s.Tick())
}

func TestScriptSeesState(t *testing.T) {
	src := `
update := func(tick, state) {
	return {move_x: state.grounded ? 1.0 : 0.0, move_y: state.mode == "floor" ? -1.0 : 0.0, jump: state.rings > 2}
}
`
	s, err := NewInputScript("state", []byte(src))
	require.NoError(t, err)
	quiet(s)

	in := s.Next(State{Grounded: true, Mode: movement.Floor, Rings: 3})
	assert.Equal(t, movement.Input{Move: cp.Vector{X: 1, Y: -1}, Jump: true}, in)
}

func TestCompileErrors(t *testing.T) {
	_, err := NewInputScript("no_update", []byte(`x := 1`))
	assert.ErrorContains(t, err, "script: compile no_update")

	_, err = Load("does_not_exist")
	assert.ErrorContains(t, err, "script: load does_not_exist")
}

func TestRuntimeErrorYieldsZeroInput(t *testing.T) {
	src := `
update := func(tick, state) {
	if tick == 1 {
		return 5
	}
	return {move_x: 1.0, jump: true}
}
`
	s, err := NewInputScript("flaky", []byte(src))
	require.NoError(t, err)
	quiet(s)

	assert.Equal(t, movement.Input{Move: cp.Vector{X: 1}, Jump: true}, s.Next(State{}))
	assert.Equal(t, movement.Input{}, s.Next(State{}))
	assert.Equal(t, movement.Input{Move: cp.Vector{X: 1}, Jump: true}, s.Next(State{}))
}

func TestEmbeddedScriptsCompile(t *testing.T) {
	for _, name := range []string{"run_right", "idle"} {
		s, err := Load(name)
		require.NoError(t, err, name)
		quiet(s)
		in := s.Next(State{Grounded: true})
		assert.GreaterOrEqual(t, in.Move.X, 0.0)
	}
}

func TestStateOf(t *testing.T) {
	c, err := movement.NewCharacter(movement.DefaultConfig(), nil, cp.Vector{X: 3, Y: 4})
	require.NoError(t, err)
	st := StateOf(c)
	assert.Equal(t, cp.Vector{X: 3, Y: 4}, st.Position)
	assert.False(t, st.Grounded)
	assert.Equal(t, movement.Floor, st.Mode)
}
