package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/spinrunner/levels"
	"github.com/milk9111/spinrunner/logger"
	"github.com/milk9111/spinrunner/movement"
	"github.com/milk9111/spinrunner/objects"
	"github.com/milk9111/spinrunner/platform"
	"github.com/milk9111/spinrunner/prefabs"
	"github.com/milk9111/spinrunner/scatter"
	"github.com/milk9111/spinrunner/script"
	"github.com/milk9111/spinrunner/telemetry"
	"github.com/milk9111/spinrunner/terrain"
)

type Options struct {
	Level  string
	Spec   string
	Script string
	DT     float64
	Trace  string
}

// Game steps one character through a level at a fixed timestep.
type Game struct {
	frames int
	dt     float64
	opts   Options

	level     *levels.Level
	world     *terrain.World
	character *movement.Character
	platforms []*platform.Platform
	triggers  *objects.Dispatcher
	rings     *scatter.Field
	input     *script.InputScript
	anim      *movement.AnimationFrame
	trace     *telemetry.Trace

	log *slog.Logger
}

func NewGame(opts Options) (*Game, error) {
	if !(opts.DT > 0) {
		opts.DT = 1.0 / 60.0
	}
	log := logger.L()

	lvl, err := levels.LoadLevel(opts.Level)
	if err != nil {
		return nil, fmt.Errorf("load level %s: %w", opts.Level, err)
	}
	spec, err := prefabs.LoadCharacterSpec(opts.Spec)
	if err != nil {
		return nil, err
	}

	world := terrain.FromLevel(lvl)
	c, err := movement.NewCharacter(spec.Movement, world, cp.Vector{})
	if err != nil {
		return nil, err
	}
	triggers, err := objects.FromLevel(lvl)
	if err != nil {
		return nil, err
	}

	g := &Game{
		dt:        opts.DT,
		opts:      opts,
		level:     lvl,
		world:     world,
		character: c,
		platforms: platform.FromLevel(world, lvl),
		triggers:  objects.NewDispatcher(triggers...),
		rings:     scatter.NewField(spec.Scatter, world),
		anim:      &movement.AnimationFrame{},
		log:       log,
	}

	if opts.Script != "" {
		if g.input, err = script.Load(opts.Script); err != nil {
			return nil, err
		}
	}
	if g.trace, err = telemetry.CreateTrace(opts.Trace); err != nil {
		return nil, err
	}

	c.SetAnimationSink(g.anim)
	c.SetRingScatterer(g.rings)
	c.SetPlatformNotifier(platform.Notifier{Rider: c})
	if lvl.WaterLevel != nil {
		c.SetWaterLevel(*lvl.WaterLevel, true)
	}
	c.Spawn(cp.Vector{X: lvl.Spawn.X, Y: lvl.Spawn.Y})

	log.Info("game: ready",
		"level", opts.Level,
		"platforms", len(g.platforms),
		"objects", len(triggers),
		"script", opts.Script,
		"grounded", c.Grounded())
	return g, nil
}

// Update advances the simulation by one tick.
func (g *Game) Update() error {
	c := g.character

	in := movement.Input{}
	if g.input != nil {
		in = g.input.Next(script.StateOf(c))
	}
	c.SetInput(in.Move, in.Jump)
	c.Tick(g.dt)

	for _, p := range g.platforms {
		p.Update(g.dt)
	}
	g.triggers.Update(c)

	g.rings.Mask = terrain.LayerCommon | c.CollisionLayer()
	g.rings.Update(g.dt)
	g.rings.Collect(objects.CharacterBounds(c), c)

	g.frames++
	if err := g.trace.Write(telemetry.Record(g.frames, float64(g.frames)*g.dt, c, in)); err != nil {
		return err
	}
	return nil
}

// Run steps the game until ticks have run or ctx ends. A zero ticks runs
// until ctx ends. With timescale > 0 ticks are paced against the wall
// clock. Changes are applied between ticks.
func (g *Game) Run(ctx context.Context, ticks int, timescale float64, changes <-chan prefabs.Change) error {
	var pace <-chan time.Time
	if timescale > 0 {
		ticker := time.NewTicker(time.Duration(g.dt / timescale * float64(time.Second)))
		defer ticker.Stop()
		pace = ticker.C
	}

	for i := 0; ticks <= 0 || i < ticks; i++ {
		if pace != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-pace:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}
		g.applyChanges(changes)
		if err := g.Update(); err != nil {
			return err
		}
	}
	return nil
}

func (g *Game) applyChanges(changes <-chan prefabs.Change) {
	for {
		select {
		case ch, ok := <-changes:
			if !ok {
				return
			}
			if err := g.Reload(ch); err != nil {
				g.log.Warn("game: reload failed", "path", ch.Path, "err", err)
			}
		default:
			return
		}
	}
}

// Reload applies a changed tuning file or script. Changes to files the game is
// not using are ignored.
func (g *Game) Reload(ch prefabs.Change) error {
	name := filepath.Base(ch.Path)
	switch ch.Kind {
	case prefabs.ChangeSpec:
		specName := g.opts.Spec
		if specName == "" {
			specName = prefabs.CharacterFile
		}
		if name != filepath.Base(specName) {
			return nil
		}
		spec, err := prefabs.LoadCharacterSpec(specName)
		if err != nil {
			return err
		}
		if err := g.character.SetConfig(spec.Movement); err != nil {
			return err
		}
		g.log.Info("game: reloaded spec", "spec", specName)
	case prefabs.ChangeScript:
		if g.input == nil || name != filepath.Base(prefabs.ScriptPath(g.opts.Script)) {
			return nil
		}
		s, err := script.Load(g.opts.Script)
		if err != nil {
			return err
		}
		g.input = s
		g.log.Info("game: reloaded script", "script", g.opts.Script)
	}
	return nil
}

func (g *Game) Close() error {
	return g.trace.Close()
}

func (g *Game) Frames() int { return g.frames }
func (g *Game) Character() *movement.Character { return g.character }
func (g *Game) Animation() *movement.AnimationFrame { return g.anim }
