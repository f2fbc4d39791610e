package script

import (
	"fmt"
	"log/slog"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/spinrunner/logger"
	"github.com/milk9111/spinrunner/movement"
	"github.com/milk9111/spinrunner/prefabs"
)

// dispatch is appended to every input script. Scripts define
// update(tick, state) returning a map with move_x, move_y and jump.
const dispatch = `
__out := update(__tick, __state)
`

// State is the character snapshot handed to the script each tick.
type State struct {
	Position    cp.Vector
	Velocity    cp.Vector
	GroundSpeed float64
	Grounded    bool
	Rolling     bool
	Jumped      bool
	IsHit       bool
	Underwater  bool
	Rings       int
	Mode        movement.GroundMode
}

// StateOf snapshots c.
func StateOf(c *movement.Character) State {
	return State{
		Position:    c.Position(),
		Velocity:    c.Velocity(),
		GroundSpeed: c.GroundSpeed(),
		Grounded:    c.Grounded(),
		Rolling:     c.Rolling(),
		Jumped:      c.Jumped(),
		IsHit:       c.IsHit(),
		Underwater:  c.Underwater(),
		Rings:       c.Rings(),
		Mode:        c.Mode(),
	}
}

func (s State) object() *tengo.ImmutableMap {
	f := func(v float64) tengo.Object { return &tengo.Float{Value: v} }
	b := func(v bool) tengo.Object {
		if v {
			return tengo.TrueValue
		}
		return tengo.FalseValue
	}
	return &tengo.ImmutableMap{Value: map[string]tengo.Object{
		"x":            f(s.Position.X),
		"y":            f(s.Position.Y),
		"vx":           f(s.Velocity.X),
		"vy":           f(s.Velocity.Y),
		"ground_speed": f(s.GroundSpeed),
		"grounded":     b(s.Grounded),
		"rolling":      b(s.Rolling),
		"jumped":       b(s.Jumped),
		"hit":          b(s.IsHit),
		"underwater":   b(s.Underwater),
		"rings":        &tengo.Int{Value: int64(s.Rings)},
		"mode":         &tengo.String{Value: s.Mode.String()},
	}}
}

// InputScript drives a character from a tengo script, one Input per tick.
type InputScript struct {
	name     string
	compiled *tengo.Compiled
	tick     int
	log      *slog.Logger
}

// Load compiles a script from the prefab scripts directory.
func Load(name string) (*InputScript, error) {
	src, err := prefabs.LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("script: load %s: %w", name, err)
	}
	return NewInputScript(name, src)
}

func NewInputScript(name string, src []byte) (*InputScript, error) {
	s := tengo.NewScript(append(append([]byte{}, src...), dispatch...))
	_ = s.Add("__tick", 0)
	_ = s.Add("__state", map[string]any{})
	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("script: compile %s: %w", name, err)
	}
	return &InputScript{name: name, compiled: compiled, log: logger.L()}, nil
}

func (s *InputScript) SetLogger(l *slog.Logger) {
	if s == nil || l == nil {
		return
	}
	s.log = l
}

func (s *InputScript) Name() string { return s.name }

// Next runs the script for the next tick. A failing run yields zero input.
func (s *InputScript) Next(st State) movement.Input {
	if s == nil {
		return movement.Input{}
	}
	tick := s.tick
	s.tick++
	in, err := s.run(tick, st)
	if err != nil {
		s.log.Warn("script: run failed", "script", s.name, "tick", tick, "err", err)
		return movement.Input{}
	}
	return in
}

func (s *InputScript) run(tick int, st State) (movement.Input, error) {
	if err := s.compiled.Set("__tick", tick); err != nil {
		return movement.Input{}, err
	}
	if err := s.compiled.Set("__state", st.object()); err != nil {
		return movement.Input{}, err
	}
	if err := s.compiled.Run(); err != nil {
		return movement.Input{}, err
	}
	out := s.compiled.Get("__out").Map()
	if out == nil {
		return movement.Input{}, fmt.Errorf("update returned %s, want map", s.compiled.Get("__out").ValueType())
	}
	return movement.Input{
		Move: cp.Vector{X: number(out["move_x"]), Y: number(out["move_y"])},
		Jump: truthy(out["jump"]),
	}, nil
}

func number(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case int:
		return float64(n)
	}
	return 0
}

func truthy(v any) bool {
	b, _ := v.(bool)
	return b
}

// Tick is the number of ticks run so far.
func (s *InputScript) Tick() int { return s.tick }
