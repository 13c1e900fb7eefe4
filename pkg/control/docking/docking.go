// Package docking closes the loop on a dock-pose error (x, y, theta)
// expressed in the robot frame, driving toward a visually observed marker
// (spec.md §4.8).
package docking

import (
	"github.com/kercre123/victor-sub070/pkg/control/motion"
	"github.com/kercre123/victor-sub070/pkg/control/steering"
)

// State is the docking controller's status.
type State int

const (
	StateIdle State = iota
	StateApproaching
	StateLocked
	StateLostTarget
)

// Pose is a dock-pose observation expressed in the robot frame (spec.md §3
// DockPose).
type Pose struct {
	XRelMM, YRelMM, ThetaRelRad float32
}

// Config carries the approach-speed profile and freshness thresholds.
type Config struct {
	TransverseP, TransverseI float32
	MaxAngularVelRadps       float32

	ApproachSpeedMMPS float32
	// LockDistanceMM is the x distance at which the controller considers
	// itself locked onto the target (spec.md §4.9 "Docking::is_locked").
	LockDistanceMM float32

	// FreshnessWindowTicks: below this, use the observation directly.
	FreshnessWindowTicks uint32
	// StaleWindowTicks: beyond this (without a fresh observation), the
	// controller gives up and transitions to LostTarget.
	StaleWindowTicks uint32
}

// DefaultConfig returns reasonable docking gains.
func DefaultConfig() Config {
	return Config{
		TransverseP:          0.02,
		TransverseI:          0.002,
		MaxAngularVelRadps:   1.0,
		ApproachSpeedMMPS:    80,
		LockDistanceMM:       15,
		FreshnessWindowTicks: 20,
		StaleWindowTicks:     200,
	}
}

// Controller drives the Steering Controller toward a dock pose.
type Controller struct {
	cfg Config

	state State

	lastObservation Pose
	ticksSinceObservation uint32
	everObserved          bool

	yPID motion.PID1D
}

// New returns an idle Controller.
func New(cfg Config) *Controller {
	c := &Controller{cfg: cfg}
	c.yPID = motion.NewPID1D(cfg.TransverseP, cfg.TransverseI, 0, -cfg.MaxAngularVelRadps, cfg.MaxAngularVelRadps)
	return c
}

// Start begins an approach toward the given initial observation. It also
// puts steer into follow mode, the same way dispatch's TagStartPath case
// does for the Path Follower: Update drives only through steer.FollowArc,
// which does not set steering.Controller's arbitrated mode (its other call,
// steer.Idle, only ever sets ModeIdle), so without
// this the chassis would never leave whatever mode it was last left in
// (spec.md §4.8, §4.6).
func (c *Controller) Start(initial Pose, steer *steering.Controller) {
	c.state = StateApproaching
	c.lastObservation = initial
	c.ticksSinceObservation = 0
	c.everObserved = false
	c.yPID.Reset()
	steer.EnterFollow()
}

// Cancel returns the controller to idle (supervisor CancelDock, spec.md §6).
func (c *Controller) Cancel() {
	c.state = StateIdle
}

// ObserveMarker feeds a fresh vision observation (spec.md §4.8, the
// asynchronous vision collaborator updating DockPose).
func (c *Controller) ObserveMarker(p Pose) {
	c.lastObservation = p
	c.ticksSinceObservation = 0
	c.everObserved = true
}

// State returns the controller's current state.
func (c *Controller) State() State { return c.state }

// LastObservation returns the most recent marker pose, fresh or
// extrapolated, for callers that need to hand it onward (e.g.
// pickplace.Controller re-deriving it from a shared Docking instance).
func (c *Controller) LastObservation() Pose { return c.lastObservation }

// MarkerVisible reports whether a vision observation has arrived within the
// configured freshness window, independent of the docking state machine's
// own state — Pick-and-Place's WaitingForMarker step needs this signal
// before it has called Start (spec.md §4.9).
func (c *Controller) MarkerVisible() bool {
	return c.everObserved && c.ticksSinceObservation <= c.cfg.FreshnessWindowTicks
}

// IsLocked reports whether the approach has reached the configured lock
// distance (spec.md §4.9 "Docking::is_locked" gate). It requires at least
// one observation to have arrived first: Start seeds lastObservation with
// whatever the caller passed it (often a zero Pose), and testing that
// directly against LockDistanceMM would let a session lock before it has
// ever seen or moved toward a target.
func (c *Controller) IsLocked() bool {
	return c.state == StateApproaching && c.everObserved && c.lastObservation.XRelMM <= c.cfg.LockDistanceMM
}

// Update advances the controller by one tick, extrapolating the dock pose
// with odometry-only dx/dy/dtheta when the observation is stale, and
// driving steer with a forward approach speed that decays toward the
// target plus a transverse-error correction (spec.md §4.8).
func (c *Controller) Update(odometryDX, odometryDY, odometryDTheta float32, steer *steering.Controller) {
	if c.state != StateApproaching {
		return
	}

	c.ticksSinceObservation++
	if c.ticksSinceObservation > c.cfg.FreshnessWindowTicks {
		// Extrapolate using odometry only (spec.md §4.8).
		c.lastObservation.XRelMM -= odometryDX
		c.lastObservation.YRelMM -= odometryDY
		c.lastObservation.ThetaRelRad -= odometryDTheta
	}

	if c.ticksSinceObservation > c.cfg.StaleWindowTicks {
		c.state = StateLostTarget
		steer.Idle()
		return
	}

	if c.IsLocked() {
		c.state = StateLocked
		steer.Idle()
		return
	}

	x := c.lastObservation.XRelMM
	if x < 1 {
		x = 1
	}
	forwardSpeed := c.cfg.ApproachSpeedMMPS * clamp01(x/200)

	c.yPID.Target = 0
	angularCorrection := c.yPID.Update(c.lastObservation.YRelMM+c.lastObservation.ThetaRelRad*x, 1)

	curvature := float32(0)
	if forwardSpeed > 1e-3 {
		curvature = angularCorrection / forwardSpeed
	}
	steer.FollowArc(curvature, forwardSpeed, c.cfg.ApproachSpeedMMPS*2)
}

func clamp01(v float32) float32 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
