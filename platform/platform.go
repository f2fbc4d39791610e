package platform

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/spinrunner/common"
	"github.com/milk9111/spinrunner/levels"
	"github.com/milk9111/spinrunner/terrain"
)

// Rider receives the displacement of the platform it stands on.
type Rider interface {
	AddPlatformMovement(delta cp.Vector)
}

// Platform is a kinematic terrain box shuttling between two points. It
// waits at each end before turning around.
type Platform struct {
	world *terrain.World
	body  *cp.Body

	start cp.Vector
	end   cp.Vector
	pos   cp.Vector
	speed float64
	wait  float64

	toEnd   bool
	waiting float64

	riders []Rider
}

// New adds a kinematic box centered on start to world. The box travels to
// start+offset at speed units per second.
func New(world *terrain.World, start, offset cp.Vector, width, height, speed, wait float64, layer uint, meta *terrain.TileMeta) *Platform {
	p := &Platform{
		world: world,
		start: start,
		end:   start.Add(offset),
		pos:   start,
		speed: speed,
		wait:  wait,
		toEnd: true,
	}
	p.body, _ = world.AddKinematicBox(start, width, height, layer, &terrain.Surface{Meta: meta, Platform: p})
	return p
}

// FromLevel builds every platform in the level into world.
func FromLevel(world *terrain.World, lvl *levels.Level) []*Platform {
	if lvl == nil {
		return nil
	}
	out := make([]*Platform, 0, len(lvl.Platforms))
	for _, def := range lvl.Platforms {
		var meta *terrain.TileMeta
		if def.OneWay {
			meta = &terrain.TileMeta{OneWay: true}
		}
		p := New(world,
			cp.Vector{X: def.X, Y: def.Y},
			cp.Vector{X: def.DestX, Y: def.DestY},
			def.W, def.H, def.Speed, def.Wait,
			terrain.LayerBit(def.Collision), meta)
		out = append(out, p)
	}
	return out
}

// Attach registers a rider for the next Update. Attaching the same rider
// twice in one tick moves it once.
func (p *Platform) Attach(r Rider) {
	if p == nil || r == nil {
		return
	}
	for _, existing := range p.riders {
		if existing == r {
			return
		}
	}
	p.riders = append(p.riders, r)
}

// Update moves the platform, hands the displacement to every attached
// rider and clears the attachment list.
func (p *Platform) Update(dt float64) {
	if p == nil {
		return
	}
	prev := p.pos
	p.step(dt)
	delta := p.pos.Sub(prev)
	if delta != (cp.Vector{}) {
		p.world.MoveBody(p.body, p.pos)
		for _, r := range p.riders {
			r.AddPlatformMovement(delta)
		}
	}
	p.riders = p.riders[:0]
}

func (p *Platform) step(dt float64) {
	if p.waiting > 0 {
		p.waiting -= dt
		return
	}
	target := p.start
	if p.toEnd {
		target = p.end
	}
	p.pos = common.MoveTowards(p.pos, target, p.speed*dt)
	if p.pos == target {
		p.toEnd = !p.toEnd
		p.waiting = p.wait
	}
}

func (p *Platform) Position() cp.Vector { return p.pos }

// Riders is the number of riders attached since the last Update.
func (p *Platform) Riders() int { return len(p.riders) }

// Notifier adapts a character to the platform attachment callback. The
// surface handle of every platform built by this package is its
// *Platform.
type Notifier struct {
	Rider Rider
}

func (n Notifier) NotifyGroundedOn(handle any) {
	if p, ok := handle.(*Platform); ok {
		p.Attach(n.Rider)
	}
}
