package objects

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/spinrunner/common"
	"github.com/milk9111/spinrunner/movement"
	"github.com/milk9111/spinrunner/terrain"
)

// Ring adds Count rings and is used up. A character in the hit state
// passes through without collecting it.
type Ring struct {
	Box       cp.BB
	Count     int
	collected bool
}

func (r *Ring) Bounds() cp.BB { return r.Box }
func (r *Ring) Spent() bool { return r.collected }

func (r *Ring) OnCharacterEnter(c Character) {
	if r.collected || c.IsHit() {
		return
	}
	c.AddRings(r.Count)
	r.collected = true
}

func (r *Ring) OnCharacterExit(Character) {}

// Damage knocks the character away from the trigger's center. With
// DoesDamage the character also loses its rings.
type Damage struct {
	Box        cp.BB
	DoesDamage bool
}

func (d *Damage) Bounds() cp.BB { return d.Box }

func (d *Damage) OnCharacterEnter(c Character) {
	if c.IsInvulnerable() {
		return
	}
	c.SetHitState(d.Box.Center(), d.DoesDamage)
}

func (d *Damage) OnCharacterExit(Character) {}

// Spring launches the character along its local up direction.
type Spring struct {
	Box cp.BB
	// Rotation of the spring in degrees, counter-clockwise. Zero launches
	// straight up.
	Rotation      float64
	LaunchSpeed   float64
	Mode          movement.VelocityMode
	ForceAirborne bool
	LockTime      float64
	SpinAnimation bool

	Activations int
}

func (s *Spring) Bounds() cp.BB { return s.Box }

// Launch is the velocity handed to the character.
func (s *Spring) Launch() cp.Vector {
	return common.AngleToNormal(s.Rotation * common.Deg2Rad).Mult(s.LaunchSpeed)
}

func (s *Spring) OnCharacterEnter(c Character) {
	c.SetSpringState(s.Launch(), s.ForceAirborne, s.Mode, s.LockTime, s.SpinAnimation)
	s.Activations++
}

func (s *Spring) OnCharacterExit(Character) {}

// SwitchDirection selects the axis a LayerSwitch compares on.
type SwitchDirection int

const (
	SwitchHorizontal SwitchDirection = iota
	SwitchVertical
)

// LayerSwitch moves the character onto another collision layer depending
// on which side of the trigger it is on when it enters. Entering from the
// right (or above) with no layer set for that side falls back to FromLeft
// (or FromBelow). A zero layer leaves the character's layer alone.
type LayerSwitch struct {
	Box            cp.BB
	Direction      SwitchDirection
	FromLeft       uint
	FromRight      uint
	FromAbove      uint
	FromBelow      uint
	MustBeGrounded bool
}

func (l *LayerSwitch) Bounds() cp.BB { return l.Box }

func (l *LayerSwitch) OnCharacterEnter(c Character) {
	if l.MustBeGrounded && !c.Grounded() {
		return
	}
	dif := c.Position().Sub(l.Box.Center())
	var layer uint
	if l.Direction == SwitchHorizontal {
		layer = l.FromLeft
		if dif.X >= 0 && l.FromRight != 0 {
			layer = l.FromRight
		}
	} else {
		layer = l.FromBelow
		if dif.Y >= 0 && l.FromAbove != 0 {
			layer = l.FromAbove
		}
	}
	if layer == 0 {
		return
	}
	c.SetCollisionLayer(layer)
}

func (l *LayerSwitch) OnCharacterExit(Character) {}

// switchLayer maps a level action name to a layer; empty means no change.
func switchLayer(name string) uint {
	if name == "" {
		return 0
	}
	return terrain.LayerBit(name)
}
