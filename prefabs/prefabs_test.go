package prefabs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/milk9111/spinrunner/movement"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useDir(t *testing.T, dir string) {
	t.Helper()
	prev := Dir
	Dir = dir
	t.Cleanup(func() { Dir = prev })
}

func TestEmbeddedCharacterMatchesDefaults(t *testing.T) {
	useDir(t, t.TempDir())
	spec, err := LoadCharacterSpec("")
	require.NoError(t, err)
	assert.Equal(t, DefaultCharacterSpec(), *spec)
}

func TestDiskOverride(t *testing.T) {
	dir := t.TempDir()
	useDir(t, dir)
	data := []byte("movement:\n  surface:\n    jump_velocity: 500\nscatter:\n  limit: 8\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, CharacterFile), data, 0o644))

	spec, err := LoadCharacterSpec(CharacterFile)
	require.NoError(t, err)
	assert.Equal(t, 500.0, spec.Movement.Surface.JumpVelocity)
	assert.Equal(t, 8, spec.Scatter.Limit)
	assert.Equal(t, movement.DefaultConfig().Surface.Gravity, spec.Movement.Surface.Gravity, "unset fields keep defaults")
}

func TestLoadCharacterSpecErrors(t *testing.T) {
	dir := t.TempDir()
	useDir(t, dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "tall_ball.yaml"), []byte("movement:\n  ball_height: 100\n"), 0o644))
	_, err := LoadCharacterSpec("tall_ball.yaml")
	assert.ErrorIs(t, err, movement.ErrInvalidConfig)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("movement: [1, 2"), 0o644))
	_, err = LoadCharacterSpec("broken.yaml")
	assert.ErrorContains(t, err, "prefabs: unmarshal broken.yaml")

	_, err = LoadCharacterSpec("missing.yaml")
	assert.ErrorContains(t, err, "prefabs: load missing.yaml")
}

func TestScriptPaths(t *testing.T) {
	cases := map[string]string{
		"run_right":                       "scripts/run_right.tengo",
		"run_right.tengo":                 "scripts/run_right.tengo",
		"scripts/run_right.tengo":         "scripts/run_right.tengo",
		"prefabs/scripts/run_right.tengo": "scripts/run_right.tengo",
	}
	for in, want := range cases {
		assert.Equal(t, want, cleanScriptPath(in), in)
	}

	useDir(t, t.TempDir())
	src, err := LoadScript("run_right")
	require.NoError(t, err)
	assert.Contains(t, string(src), "update := func(tick, state)")
}

func TestClassify(t *testing.T) {
	cases := []struct {
		path string
		kind ChangeKind
		ok   bool
	}{
		{"prefabs/character.yaml", ChangeSpec, true},
		{"x.YML", ChangeSpec, true},
		{"scripts/run.tengo", ChangeScript, true},
		{"README.md", 0, false},
	}
	for _, tc := range cases {
		kind, ok := classify(tc.path)
		assert.Equal(t, tc.ok, ok, tc.path)
		assert.Equal(t, tc.kind, kind, tc.path)
	}
}

func TestWatcherReportsChanges(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	path := filepath.Join(dir, "character.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: x\n"), 0o644))

	select {
	case ch := <-w.Changes:
		assert.Equal(t, path, ch.Path)
		assert.Equal(t, ChangeSpec, ch.Kind)
	case <-time.After(2 * time.Second):
		t.Fatal("no change reported")
	}
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
}
