package movement

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/spinrunner/common"
)

// Tick advances the character by one fixed step of dt seconds.
func (c *Character) Tick(dt float64) {
	if c == nil || !(dt > 0) || math.IsInf(dt, 0) {
		return
	}
	c.applyPlatformMovement()
	c.updateWater()
	if c.invulnerable > 0 {
		c.invulnerable = math.Max(0, c.invulnerable-dt)
	}
	c.jumpPressed = c.input.Jump && !c.prevJump
	c.braking = false

	c.state.Update(c, dt)

	c.contact.Angle = common.NormalizeAngle(c.contact.Angle)
	c.prevJump = c.input.Jump
	c.notifyPlatform()
	c.emitSignals()
	c.logPhase()
}

func (c *Character) applyPlatformMovement() {
	if c.platformDelta == (cp.Vector{}) {
		return
	}
	c.pos = c.pos.Add(c.platformDelta)
	c.platformDelta = cp.Vector{}
}

func (c *Character) updateWater() {
	under := c.waterEnabled && c.pos.Y < c.waterLevel
	if under == c.underwater {
		return
	}
	c.underwater = under
	if under {
		c.groundSpeed *= 0.5
		c.velocity.X *= 0.5
		c.velocity.Y *= 0.25
	} else {
		c.velocity.Y = math.Min(c.velocity.Y*2, 2*c.cfg.Underwater.JumpVelocity)
	}
	c.log.Debug("movement: water", "underwater", under)
}

// updateGrounded runs the grounded step. Losing footing or jumping moves
// the character to the airborne state and finishes the tick with the
// airborne contact checks.
func (c *Character) updateGrounded(dt float64) {
	p := c.profile()
	angle := c.contact.Angle
	sin := math.Sin(angle)
	tangent := common.Tangent(angle)

	c.groundSpeed += c.slopeFactor(p, sin) * -sin * dt

	if c.mode != Floor && math.Abs(c.groundSpeed) < c.cfg.FallVelocityThreshold {
		c.velocity = tangent.Mult(c.groundSpeed)
		c.groundSpeed = 0
		c.SetHorizontalControlLock(c.cfg.ControlLockTime, false)
		c.setState(stateAirborne)
		c.integrate(dt)
		c.finishAirborne(dt)
		return
	}

	if c.jumpPressed && !c.lowCeiling {
		normal := common.AngleToNormal(angle)
		c.velocity = tangent.Mult(c.groundSpeed).Add(normal.Mult(p.JumpVelocity))
		c.jumped = true
		c.controlLock = 0
		c.setState(stateAirborne)
		c.integrate(dt)
		c.finishAirborne(dt)
		return
	}

	entrySpeed := c.groundSpeed
	if c.controlLock > 0 {
		c.controlLock = math.Max(0, c.controlLock-dt)
	}
	hasInput := math.Abs(c.input.Move.X) >= c.cfg.InputDeadzone
	locked := c.controlLock > 0
	switch {
	case c.rolling:
		c.groundSpeed = approachZero(c.groundSpeed, p.RollingFriction*dt)
		if hasInput && !locked && c.groundSpeed != 0 && common.Sign(c.input.Move.X) != common.Sign(c.groundSpeed) {
			c.groundSpeed = approachZero(c.groundSpeed, p.RollingDeceleration*dt)
		}
	case !hasInput:
		c.groundSpeed = approachZero(c.groundSpeed, p.Friction*dt)
	case !locked:
		c.accelerateGround(p, dt)
	}
	c.groundSpeed = common.Clamp(c.groundSpeed, -c.cfg.SpeedLimit, c.cfg.SpeedLimit)

	down := c.input.Move.Y <= -c.cfg.VerticalInputThreshold
	if !c.rolling && down && c.mode == Floor && math.Abs(entrySpeed) >= c.cfg.RollingMinSpeed {
		c.rolling = true
		c.pos = c.pos.Add(c.mode.Down().Mult(c.rollOffset()))
	} else if c.rolling && math.Abs(c.groundSpeed) < c.cfg.UnrollThreshold {
		c.rolling = false
		c.pos = c.pos.Sub(c.mode.Down().Mult(c.rollOffset()))
	}

	c.velocity = tangent.Mult(c.groundSpeed)
	c.groundWalls(dt)
	c.integrate(dt)
	c.resense()
}

// slopeFactor picks the slope constant. Rolling uses separate uphill and
// downhill factors.
func (c *Character) slopeFactor(p *Profile, sin float64) float64 {
	if !c.rolling {
		return p.SlopeFactor
	}
	if c.groundSpeed == 0 || common.Sign(c.groundSpeed) == common.Sign(-sin) {
		return p.RollingDownhillSlopeFactor
	}
	return p.RollingUphillSlopeFactor
}

// accelerateGround applies input acceleration, braking against the current
// direction with the deceleration constant. Speed already past the top
// speed is kept, never reduced.
func (c *Character) accelerateGround(p *Profile, dt float64) {
	in := c.input.Move.X
	gs := c.groundSpeed
	if in < 0 {
		if gs > 0 {
			gs += in * p.Deceleration * dt
			c.braking = true
		} else if gs > -p.GroundTopSpeed {
			gs = math.Max(-p.GroundTopSpeed, gs+in*p.GroundAcceleration*dt)
		}
	} else {
		if gs < 0 {
			gs += in * p.Deceleration * dt
			c.braking = true
		} else if gs < p.GroundTopSpeed {
			gs = math.Min(p.GroundTopSpeed, gs+in*p.GroundAcceleration*dt)
		}
	}
	c.groundSpeed = gs
	if !c.braking {
		c.facing = common.Sign(in)
	}
}

func approachZero(v, amount float64) float64 {
	if v > 0 {
		return math.Max(0, v-amount)
	}
	if v < 0 {
		return math.Min(0, v+amount)
	}
	return v
}

func (c *Character) integrate(dt float64) {
	c.pos = c.pos.Add(c.velocity.Mult(dt))
}

// resense refreshes the ground contact after a grounded move.
func (c *Character) resense() {
	contact := c.Sense(c.mode, c.widthHalf(), false)
	if !contact.Valid {
		c.setState(stateAirborne)
		return
	}
	c.contact = contact
	c.stick()
	c.updateLowCeiling()
	c.updateLook()
}

func (c *Character) updateLook() {
	if math.Abs(c.groundSpeed) > lookSpeedEpsilon {
		c.lookingUp = false
		c.lookingDown = false
		return
	}
	c.lookingUp = c.input.Move.Y >= c.cfg.VerticalInputThreshold
	c.lookingDown = c.input.Move.Y <= -c.cfg.VerticalInputThreshold && !c.rolling
}

const lookSpeedEpsilon = 1e-3

func (c *Character) updateAirborne(dt float64) {
	p := c.profile()

	if c.jumped && !c.input.Jump && c.velocity.Y > p.JumpReleaseThreshold {
		c.velocity.Y = p.JumpReleaseThreshold
	}

	hasInput := math.Abs(c.input.Move.X) >= c.cfg.InputDeadzone
	if hasInput && !c.isHit {
		if !(c.rolling && c.jumped) {
			c.accelerateAir(p, dt)
		}
		c.facing = common.Sign(c.input.Move.X)
	}

	if c.velocity.Y > 0 && c.velocity.Y < c.cfg.DragYMax && math.Abs(c.velocity.X) > c.cfg.DragXMin {
		c.velocity.X *= 1 - p.AirDrag
	}

	c.rotateUpright(dt)

	c.integrate(dt)
	gravity := p.Gravity
	if c.isHit {
		gravity = p.HitGravity
	}
	c.velocity.Y = math.Max(c.velocity.Y+gravity*dt, -p.TerminalVelocity)

	c.finishAirborne(dt)
}

func (c *Character) accelerateAir(p *Profile, dt float64) {
	in := c.input.Move.X
	vx := c.velocity.X
	if in < 0 && vx > -p.GroundTopSpeed {
		vx = math.Max(-p.GroundTopSpeed, vx+in*p.AirAcceleration*dt)
	} else if in > 0 && vx < p.GroundTopSpeed {
		vx = math.Min(p.GroundTopSpeed, vx+in*p.AirAcceleration*dt)
	}
	c.velocity.X = common.Clamp(vx, -c.cfg.SpeedLimit, c.cfg.SpeedLimit)
}

// rotateUpright turns the render angle back toward 0 along the shorter
// direction.
func (c *Character) rotateUpright(dt float64) {
	step := c.cfg.AirRotationSpeed * dt
	switch {
	case c.renderAngle > 0 && c.renderAngle <= 180:
		c.renderAngle = math.Max(0, c.renderAngle-step)
	case c.renderAngle > 180 && c.renderAngle < 360:
		c.renderAngle += step
		if c.renderAngle >= 360 {
			c.renderAngle = 0
		}
	default:
		c.renderAngle = 0
	}
}

func (c *Character) notifyPlatform() {
	if !c.grounded || c.platforms == nil {
		return
	}
	if handle := c.contact.Platform(); handle != nil {
		c.platforms.NotifyGroundedOn(handle)
	}
}

func (c *Character) emitSignals() {
	if c.anim == nil {
		return
	}
	speed := math.Abs(c.velocity.X)
	if c.grounded {
		speed = math.Abs(c.groundSpeed)
	}
	c.anim.SetSignal(SignalSpeed, speed)
	c.anim.SetSignal(SignalBall, boolSignal(c.ball() || (c.springing && c.springAlt)))
	c.anim.SetSignal(SignalBrake, boolSignal(c.braking))
	c.anim.SetSignal(SignalHit, boolSignal(c.isHit))
	c.anim.SetSignal(SignalLookUp, boolSignal(c.lookingUp))
	c.anim.SetSignal(SignalLookDown, boolSignal(c.lookingDown))
	c.anim.SetSignal(SignalGrounded, boolSignal(c.grounded))
	c.anim.SetSignal(SignalSpring, boolSignal(c.springing && !c.springAlt))
	c.anim.SetSignal(SignalUnderwater, boolSignal(c.underwater))
}
