package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/milk9111/spinrunner/logger"
	"github.com/milk9111/spinrunner/prefabs"
)

func main() {
	levelName := flag.String("level", "test_loop.json", "level file (falls back to the embedded levels)")
	specName := flag.String("spec", prefabs.CharacterFile, "character tuning prefab")
	scriptName := flag.String("script", "run_right", "input script in prefabs/scripts (empty for no input)")
	ticks := flag.Int("ticks", 600, "ticks to run (0 runs until interrupted)")
	dt := flag.Float64("dt", 1.0/60.0, "fixed timestep in seconds")
	timescale := flag.Float64("timescale", 0, "pace ticks against the wall clock at this rate (0 runs unpaced)")
	tracePath := flag.String("trace", "", "write a per-tick CSV trace to this path")
	logLevel := flag.String("log-level", "info", "debug, info, warn or error")
	logFormat := flag.String("log-format", "", "text or json")
	watch := flag.Bool("watch", false, "reload tuning and scripts when prefab files change")
	flag.Parse()

	logger.Init(logger.Config{Level: *logLevel, Format: *logFormat})
	l := logger.L()

	game, err := NewGame(Options{
		Level:  *levelName,
		Spec:   *specName,
		Script: *scriptName,
		DT:     *dt,
		Trace:  *tracePath,
	})
	if err != nil {
		l.Error("startup failed", "err", err)
		os.Exit(1)
	}
	defer game.Close()

	var changes <-chan prefabs.Change
	if *watch {
		w, err := prefabs.NewWatcher(prefabs.Dir, filepath.Join(prefabs.Dir, "scripts"))
		if err != nil {
			l.Warn("watch disabled", "err", err)
		} else {
			defer w.Close()
			changes = w.Changes
			go func() {
				for err := range w.Errors {
					l.Warn("watch error", "err", err)
				}
			}()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := game.Run(ctx, *ticks, *timescale, changes); err != nil && ctx.Err() == nil {
		l.Error("run failed", "err", err)
		os.Exit(1)
	}

	c := game.Character()
	l.Info("run complete",
		"ticks", game.Frames(),
		"x", c.Position().X,
		"y", c.Position().Y,
		"phase", string(c.Phase()),
		"rings", c.Rings())
}
