// Package wheelctrl implements closed-loop per-wheel speed control: a
// feed-forward speed-to-power map plus a PI correction on the measured-vs-
// ramped error, with acceleration-limited ramping and stall detection
// (spec.md §4.4). It also owns the "disable" passthrough mode used by
// Test Mode, as a single explicit mode field rather than two overlapping
// code paths (spec.md §9 open question).
package wheelctrl

import "github.com/kercre123/victor-sub070/pkg/control/motion"

// FeedForward is the calibrated linear map from commanded speed to motor
// power: power = Gain*speed + StaticBias*sign(speed), grounded on
// testModeController.cpp's wheel power/speed calibration tables.
type FeedForward struct {
	Gain       float32 // power per mm/s
	StaticBias float32 // power needed to overcome static friction, signed with direction
}

func (ff FeedForward) Power(speedMMPS float32) float32 {
	p := ff.Gain * speedMMPS
	switch {
	case speedMMPS > 0:
		p += ff.StaticBias
	case speedMMPS < 0:
		p -= ff.StaticBias
	}
	return p
}

// Config carries the per-wheel calibration and limits.
type Config struct {
	FeedForward FeedForward
	P, I, D     float32
	MaxPower    float32
	MaxSpeedMMPS float32

	// LowPassAlpha is the first-order low-pass coefficient applied to the
	// raw encoder rate (0 < alpha <= 1; 1 disables filtering).
	LowPassAlpha float32

	// StallSpeedThresholdMMPS is the measured-speed magnitude below which
	// the wheel is considered stopped for stall detection.
	StallSpeedThresholdMMPS float32
	// StallTicks is how many consecutive ticks of "commanded nonzero, moving
	// zero" are required before the stall flag raises.
	StallTicks uint32
}

// DefaultConfig returns calibration in the same ballpark as
// testModeController.cpp's Cozmo wheel tables.
func DefaultConfig() Config {
	return Config{
		FeedForward:             FeedForward{Gain: 1.0 / 220.0, StaticBias: 0.08},
		P:                       0.01,
		I:                       0.05,
		D:                       0,
		MaxPower:                1.0,
		MaxSpeedMMPS:            220,
		LowPassAlpha:            0.4,
		StallSpeedThresholdMMPS: 3,
		StallTicks:              40,
	}
}

// Controller drives a single wheel.
type Controller struct {
	cfg Config

	ramp motion.AccelRamp
	pid  motion.PID1D

	filteredSpeedMMPS float32
	rawAccelTarget    float32

	disabled bool
	rawPower float32

	stalled    bool
	stallTicks uint32
}

// New returns a Controller for one wheel using cfg.
func New(cfg Config) *Controller {
	c := &Controller{cfg: cfg}
	c.pid = motion.NewPID1D(cfg.P, cfg.I, cfg.D, -cfg.MaxPower, cfg.MaxPower)
	return c
}

// SetTarget sets the desired speed and acceleration limit (0 ⇒
// instantaneous), clamped to MaxSpeedMMPS (spec.md §8 speed clamp
// invariant).
func (c *Controller) SetTarget(speedMMPS, accelMMPS2 float32) {
	if speedMMPS > c.cfg.MaxSpeedMMPS {
		speedMMPS = c.cfg.MaxSpeedMMPS
	} else if speedMMPS < -c.cfg.MaxSpeedMMPS {
		speedMMPS = -c.cfg.MaxSpeedMMPS
	}
	c.ramp.Target = speedMMPS
	c.rawAccelTarget = accelMMPS2
}

// Disable switches the controller to raw-power passthrough mode for Test
// Mode: subsequent Update calls ignore the PID loop and command power
// directly.
func (c *Controller) Disable(rawPower float32) {
	c.disabled = true
	c.rawPower = rawPower
}

// Enable returns the controller to closed-loop operation.
func (c *Controller) Enable() {
	c.disabled = false
	c.pid.Reset()
}

// Update advances the controller by one tick given the raw encoder speed
// (mm/s), and returns the motor power command in [-1, 1].
func (c *Controller) Update(rawSpeedMMPS, dtSeconds float32) float32 {
	alpha := c.cfg.LowPassAlpha
	if alpha <= 0 || alpha > 1 {
		alpha = 1
	}
	c.filteredSpeedMMPS += alpha * (rawSpeedMMPS - c.filteredSpeedMMPS)

	if c.disabled {
		c.stalled = false
		c.stallTicks = 0
		return clampPower(c.rawPower, c.cfg.MaxPower)
	}

	rampedTarget := c.ramp.Step(c.rawAccelTarget, dtSeconds)

	ff := c.cfg.FeedForward.Power(rampedTarget)
	c.pid.Target = rampedTarget
	corr := c.pid.Update(c.filteredSpeedMMPS, dtSeconds)
	power := clampPower(ff+corr, c.cfg.MaxPower)

	c.updateStall(power)

	return power
}

func (c *Controller) updateStall(commandedPower float32) {
	commandedNonzero := abs32(commandedPower) > 0.02
	movingZero := abs32(c.filteredSpeedMMPS) < c.cfg.StallSpeedThresholdMMPS
	if commandedNonzero && movingZero {
		c.stallTicks++
		if c.stallTicks >= c.cfg.StallTicks {
			c.stalled = true
		}
	} else {
		c.stallTicks = 0
		c.stalled = false
	}
}

// Stalled reports whether the wheel has been commanded but not moving for
// the configured window (spec.md §4.4 failure semantics).
func (c *Controller) Stalled() bool { return c.stalled }

// FilteredSpeedMMPS returns the low-pass-filtered measured speed.
func (c *Controller) FilteredSpeedMMPS() float32 { return c.filteredSpeedMMPS }

// CommandedSpeedMMPS returns the ramped (not raw-target) commanded speed.
func (c *Controller) CommandedSpeedMMPS() float32 { return c.ramp.Value }

func clampPower(p, max float32) float32 {
	if max <= 0 {
		max = 1
	}
	switch {
	case p > max:
		return max
	case p < -max:
		return -max
	default:
		return p
	}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
