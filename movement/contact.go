package movement

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/spinrunner/common"
	"github.com/milk9111/spinrunner/terrain"
)

var (
	worldLeft  = cp.Vector{X: -1, Y: 0}
	worldRight = cp.Vector{X: 1, Y: 0}
)

// groundWalls casts ahead along the surface tangent before the grounded
// move. On a hit the velocity is cut so this tick's move ends exactly at
// the wall.
func (c *Character) groundWalls(dt float64) {
	if c.groundSpeed == 0 || c.terrain == nil {
		return
	}
	dir := common.Tangent(c.contact.Angle).Mult(common.Sign(c.groundSpeed))
	up := common.AngleToNormal(c.contact.Angle)
	hit, ok := c.terrain.Raycast(terrain.Ray{
		Origin:  c.pos.Add(up.Mult(c.cfg.SideRaycastOffset)),
		Dir:     dir,
		MaxDist: c.cfg.SideRaycastDist + math.Abs(c.groundSpeed)*dt,
		Mask:    c.mask(),
	})
	if !ok {
		return
	}
	remaining := hit.Distance - c.cfg.SideRaycastDist
	c.velocity = dir.Mult(remaining / dt)
	c.groundSpeed = 0
}

// airWalls casts left and right after the airborne move, reaching further
// on the side the character is moving toward.
func (c *Character) airWalls(dt float64) {
	if c.terrain == nil {
		return
	}
	origin := c.pos.Add(cp.Vector{X: 0, Y: c.cfg.SideRaycastOffset})
	leftReach := c.cfg.SideRaycastDist
	rightReach := c.cfg.SideRaycastDist
	ext := math.Abs(c.velocity.X) * dt
	if c.velocity.X < 0 {
		leftReach += ext
	} else if c.velocity.X > 0 {
		rightReach += ext
	}
	left, leftOK := c.terrain.Raycast(terrain.Ray{Origin: origin, Dir: worldLeft, MaxDist: leftReach, Mask: c.mask()})
	right, rightOK := c.terrain.Raycast(terrain.Ray{Origin: origin, Dir: worldRight, MaxDist: rightReach, Mask: c.mask()})

	switch {
	case leftOK && rightOK:
		// squeezed between two walls; leave the position alone
	case leftOK:
		c.pos.X = left.Point.X + c.cfg.SideRaycastDist
		if c.velocity.X < 0 {
			c.velocity.X = 0
		}
	case rightOK:
		c.pos.X = right.Point.X - c.cfg.SideRaycastDist
		if c.velocity.X > 0 {
			c.velocity.X = 0
		}
	}
}

// finishAirborne resolves walls and then tries to attach to a ceiling while
// ascending or land on a floor while descending.
func (c *Character) finishAirborne(dt float64) {
	c.airWalls(dt)

	if c.velocity.Y > 0 {
		ceil := c.Sense(Ceiling, c.widthHalf(), true)
		if !ceil.Valid {
			return
		}
		half := c.heightHalf()
		if c.pos.Y < ceil.Point.Y-half {
			return
		}
		if deg := ceil.AngleDeg(); (deg > 90 && deg <= 135) || (deg >= 225 && deg < 270) {
			c.attach(ceil, Ceiling, c.velocity.Y*common.Sign(math.Sin(ceil.Angle)))
			return
		}
		c.pos.Y = ceil.Point.Y - half
		c.velocity.Y = 0
		return
	}

	floor := c.Sense(Floor, c.widthHalf(), false)
	if !floor.Valid || c.pos.Y > floor.Point.Y+c.cfg.StandingHeight/2 {
		return
	}
	c.attach(floor, Floor, landingSpeed(floor.AngleDeg(), c.velocity, floor.Angle))
}

// landingSpeed converts an airborne velocity to ground speed by the angle
// band of the surface being landed on.
func landingSpeed(deg float64, v cp.Vector, angle float64) float64 {
	steep := math.Abs(v.Y) >= math.Abs(v.X)
	sinSign := common.Sign(math.Sin(angle))
	switch {
	case deg <= 22.5 || deg >= 337.5:
		return v.X
	case deg <= 45 || deg >= 315:
		if !steep {
			return v.X
		}
		return v.Y * 0.5 * sinSign
	case deg <= 90 || deg >= 270:
		if !steep {
			return v.X
		}
		return v.Y * sinSign
	default:
		return v.X
	}
}

// attach makes the character grounded on contact in mode with the given
// ground speed.
func (c *Character) attach(contact GroundContact, mode GroundMode, groundSpeed float64) {
	c.contact = contact
	c.groundSpeed = common.Clamp(groundSpeed, -c.cfg.SpeedLimit, c.cfg.SpeedLimit)
	c.setState(stateGrounded)
	c.mode = mode
	c.velocity = common.Tangent(contact.Angle).Mult(c.groundSpeed)
	c.stick()
	c.updateLowCeiling()
	c.updateLook()
}

// stick snaps the character onto the contact along the current mode's axis
// and then applies the mode transition table.
func (c *Character) stick() {
	deg := c.contact.AngleDeg()
	c.renderAngle = deg
	half := c.heightHalf()
	switch c.mode {
	case Floor:
		c.pos.Y = c.contact.Point.Y + half
	case RightWall:
		c.pos.X = c.contact.Point.X - half
	case Ceiling:
		c.pos.Y = c.contact.Point.Y - half
	case LeftWall:
		c.pos.X = c.contact.Point.X + half
	}
	if next := nextMode(c.mode, deg); next != c.mode {
		c.log.Debug("movement: ground mode", "from", c.mode.String(), "to", next.String(), "angle", deg)
		c.mode = next
	}
}

// updateLowCeiling checks for a surface just above the character's head
// along the current mode's up axis. A low ceiling blocks jumping.
func (c *Character) updateLowCeiling() {
	opposite := GroundMode((int(c.mode) + 2) % 4)
	ceil := c.Sense(opposite, c.widthHalf(), true)
	if !ceil.Valid {
		c.lowCeiling = false
		return
	}
	up := c.mode.Down().Neg()
	c.lowCeiling = ceil.Point.Sub(c.pos).Dot(up) <= c.heightHalf()+c.cfg.LowCeilingClearance
}
