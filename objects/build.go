package objects

import (
	"errors"
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/spinrunner/levels"
	"github.com/milk9111/spinrunner/movement"
)

var ErrUnknownObject = errors.New("unknown object")

// Object kinds as written in level files.
const (
	KindRing        = "ring"
	KindDamage      = "damage"
	KindSpring      = "spring"
	KindLayerSwitch = "layer_switch"
)

const defaultSpringLockTime = 0.26666667

// FromLevel builds the level's trigger objects. X and Y of each object
// definition are the center of its box.
func FromLevel(lvl *levels.Level) ([]Trigger, error) {
	if lvl == nil {
		return nil, nil
	}
	out := make([]Trigger, 0, len(lvl.Objects))
	for i, def := range lvl.Objects {
		t, err := fromDef(def)
		if err != nil {
			return nil, fmt.Errorf("objects: object %d: %w", i, err)
		}
		out = append(out, t)
	}
	return out, nil
}

func fromDef(def levels.ObjectDef) (Trigger, error) {
	box := cp.NewBBForExtents(cp.Vector{X: def.X, Y: def.Y}, def.W/2, def.H/2)
	switch def.Kind {
	case KindRing:
		count := def.Count
		if count <= 0 {
			count = 1
		}
		return &Ring{Box: box, Count: count}, nil
	case KindDamage:
		return &Damage{Box: box, DoesDamage: boolOr(def.DoesDamage, true)}, nil
	case KindSpring:
		lock := def.LockTime
		if lock == 0 {
			lock = defaultSpringLockTime
		}
		mode := movement.VelocityVertical
		if def.VelocityMode != "" {
			mode = movement.ParseVelocityMode(def.VelocityMode)
		}
		return &Spring{
			Box:           box,
			Rotation:      def.Rotation,
			LaunchSpeed:   def.LaunchSpeed,
			Mode:          mode,
			ForceAirborne: def.ForceAirborne,
			LockTime:      lock,
			SpinAnimation: boolOr(def.SpinAnimation, true),
		}, nil
	case KindLayerSwitch:
		return layerSwitchFromDef(def, box)
	}
	return nil, fmt.Errorf("%w: kind %q", ErrUnknownObject, def.Kind)
}

func layerSwitchFromDef(def levels.ObjectDef, box cp.BB) (Trigger, error) {
	sw := &LayerSwitch{Box: box, MustBeGrounded: def.MustBeGrounded}
	switch def.Direction {
	case "", "horizontal":
		sw.Direction = SwitchHorizontal
	case "vertical":
		sw.Direction = SwitchVertical
	default:
		return nil, fmt.Errorf("%w: layer switch direction %q", ErrUnknownObject, def.Direction)
	}
	for _, f := range []struct {
		name string
		dst  *uint
	}{
		{def.FromLeft, &sw.FromLeft},
		{def.FromRight, &sw.FromRight},
		{def.FromAbove, &sw.FromAbove},
		{def.FromBelow, &sw.FromBelow},
	} {
		switch f.name {
		case "", levels.CollisionA, levels.CollisionB:
			*f.dst = switchLayer(f.name)
		default:
			return nil, fmt.Errorf("%w: layer %q", ErrUnknownObject, f.name)
		}
	}
	return sw, nil
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}
