package objects

import (
	"log/slog"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/spinrunner/logger"
	"github.com/milk9111/spinrunner/movement"
)

// Side is where a character is relative to a trigger's center.
type Side int

const (
	SideLeft Side = iota
	SideRight
	SideTop
	SideBottom
)

func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	case SideTop:
		return "top"
	case SideBottom:
		return "bottom"
	}
	return "unknown"
}

// RelativeSide classifies pos against center. The dominant axis wins and
// exact diagonals count as horizontal.
func RelativeSide(center, pos cp.Vector) Side {
	d := pos.Sub(center)
	if math.Abs(d.Y) > math.Abs(d.X) {
		if d.Y > 0 {
			return SideTop
		}
		return SideBottom
	}
	if d.X > 0 {
		return SideRight
	}
	return SideLeft
}

// Character is the part of a movement.Character that triggers act on.
type Character interface {
	Position() cp.Vector
	Grounded() bool
	IsHit() bool
	IsInvulnerable() bool
	WidthHalf() float64
	HeightHalf() float64

	AddRings(n int)
	SetHitState(source cp.Vector, appliesDamage bool)
	SetSpringState(launch cp.Vector, forceAirborne bool, mode movement.VelocityMode, lockTime float64, useAltAnim bool)
	SetCollisionLayer(layer uint)
}

// Trigger is an overlap volume reacting to a character entering and
// leaving it.
type Trigger interface {
	Bounds() cp.BB
	OnCharacterEnter(c Character)
	OnCharacterExit(c Character)
}

// spent is implemented by triggers that stop reacting once used up.
type spent interface {
	Spent() bool
}

// Dispatcher tracks overlap between one character and a set of triggers
// and fires enter/exit on the edges.
type Dispatcher struct {
	triggers []Trigger
	inside   []bool
	log      *slog.Logger
}

func NewDispatcher(triggers ...Trigger) *Dispatcher {
	d := &Dispatcher{log: logger.L()}
	for _, t := range triggers {
		d.Add(t)
	}
	return d
}

func (d *Dispatcher) SetLogger(l *slog.Logger) {
	if d == nil || l == nil {
		return
	}
	d.log = l
}

func (d *Dispatcher) Add(t Trigger) {
	if d == nil || t == nil {
		return
	}
	d.triggers = append(d.triggers, t)
	d.inside = append(d.inside, false)
}

// CharacterBounds is the character's current collision box.
func CharacterBounds(c Character) cp.BB {
	return cp.NewBBForExtents(c.Position(), c.WidthHalf(), c.HeightHalf())
}

// Update checks every trigger against the character's box.
func (d *Dispatcher) Update(c Character) {
	if d == nil || c == nil {
		return
	}
	box := CharacterBounds(c)
	for i, t := range d.triggers {
		if s, ok := t.(spent); ok && s.Spent() {
			d.inside[i] = false
			continue
		}
		bb := t.Bounds()
		overlapping := box.Intersects(bb)
		switch {
		case overlapping && !d.inside[i]:
			d.inside[i] = true
			d.log.Debug("objects: enter", "index", i, "side", RelativeSide(bb.Center(), c.Position()).String())
			t.OnCharacterEnter(c)
		case !overlapping && d.inside[i]:
			d.inside[i] = false
			t.OnCharacterExit(c)
		}
	}
}
