// Package jointctrl implements the cascade position/velocity controller
// shared by the head and lift joints: an outer position loop produces a
// velocity request saturated by a configured max velocity, and an inner
// velocity loop produces motor power (spec.md §4.5).
package jointctrl

import "github.com/kercre123/victor-sub070/pkg/control/motion"

// Config carries one joint's limits and gains.
type Config struct {
	MinAngleRad, MaxAngleRad float32
	MaxVelocityRadps         float32

	PositionP float32 // outer loop: angle error -> velocity request
	VelocityP, VelocityI float32
	MaxPower float32

	// InPositionToleranceRad/InPositionDwellTicks gate IsInPosition.
	InPositionToleranceRad float32
	InPositionDwellTicks   uint32
}

// Controller drives one single-DOF joint.
type Controller struct {
	cfg Config

	targetAngleRad float32
	velocityPID    motion.PID1D

	angleRad        float32
	filteredVelRadps float32

	inPositionTicks uint32
	inPosition      bool

	lastErr error
}

// New returns a Controller for one joint.
func New(cfg Config) *Controller {
	c := &Controller{cfg: cfg}
	c.velocityPID = motion.NewPID1D(cfg.VelocityP, cfg.VelocityI, 0, -cfg.MaxPower, cfg.MaxPower)
	return c
}

// SetTargetAngle sets the desired joint angle, clamping to the hard limits
// and recording a non-fatal out-of-range error if clamping occurred (spec.md
// §4.5, §7 Out-of-range command).
func (c *Controller) SetTargetAngle(angleRad float32) {
	clamped := angleRad
	if clamped < c.cfg.MinAngleRad {
		clamped = c.cfg.MinAngleRad
	} else if clamped > c.cfg.MaxAngleRad {
		clamped = c.cfg.MaxAngleRad
	}
	if clamped != angleRad {
		c.lastErr = ErrOutOfRange
	} else {
		c.lastErr = nil
	}
	c.targetAngleRad = clamped
	c.inPositionTicks = 0
	c.inPosition = false
}

// LastError returns the error raised by the most recent SetTargetAngle, if
// any (cleared on the next call).
func (c *Controller) LastError() error { return c.lastErr }

// Update advances the controller given the measured joint angle and
// angular speed for this tick, and returns the motor power command.
func (c *Controller) Update(measuredAngleRad, measuredVelRadps, dtSeconds float32) float32 {
	c.angleRad = measuredAngleRad
	c.filteredVelRadps += 0.5 * (measuredVelRadps - c.filteredVelRadps)

	angleErr := c.targetAngleRad - measuredAngleRad
	velRequest := c.cfg.PositionP * angleErr
	if velRequest > c.cfg.MaxVelocityRadps {
		velRequest = c.cfg.MaxVelocityRadps
	} else if velRequest < -c.cfg.MaxVelocityRadps {
		velRequest = -c.cfg.MaxVelocityRadps
	}

	c.velocityPID.Target = velRequest
	power := c.velocityPID.Update(c.filteredVelRadps, dtSeconds)

	if absf(angleErr) <= c.cfg.InPositionToleranceRad {
		c.inPositionTicks++
		if c.inPositionTicks >= c.cfg.InPositionDwellTicks {
			c.inPosition = true
		}
	} else {
		c.inPositionTicks = 0
		c.inPosition = false
	}

	return power
}

// AngleRad returns the last measured angle passed to Update.
func (c *Controller) AngleRad() float32 { return c.angleRad }

// TargetAngleRad returns the current clamped target.
func (c *Controller) TargetAngleRad() float32 { return c.targetAngleRad }

// IsInPosition reports whether the angular error has stayed within
// tolerance for the configured dwell (spec.md §4.5).
func (c *Controller) IsInPosition() bool { return c.inPosition }

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
