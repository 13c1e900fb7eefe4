// Package pickplace coordinates the Docking Controller and the Lift
// Controller (plus gripper actions) into the multi-step manipulation state
// machine described in spec.md §4.9.
package pickplace

import (
	"github.com/kercre123/victor-sub070/pkg/control/docking"
	"github.com/kercre123/victor-sub070/pkg/control/steering"
)

// Action is the tagged kind of manipulation requested.
type Action int

const (
	PickupLow Action = iota
	PickupHigh
	PlaceLow
	PlaceHigh
	PlaceOnGround
)

// State is the tagged PickAndPlaceState variant (spec.md §3).
type State int

const (
	StateIdle State = iota
	StateWaitingForMarker
	StateApproaching
	StateEngaging
	StateLifting
	StateRetreating
	StatePlacing
	StateDone
	StateFailed
)

// Config carries the per-state timeouts and the engage dwell, the latter
// grounded on gripController.cpp's physical-engage settle time.
type Config struct {
	StateTimeoutTicks uint32
	// EngageDwellTicks is how long the controller waits once the lift
	// reaches its engage height before treating the grip as physically
	// seated.
	EngageDwellTicks uint32

	// RetreatSpeedMMPS/RetreatTicks drive the small open-loop reverse move
	// spec.md §4.9 calls for after Lifting/Placing, the same tick-counted
	// open-loop shape testModeController.cpp uses for its direct-drive demo
	// rather than a closed-loop distance check the controller has no pose
	// access to perform.
	RetreatSpeedMMPS float32
	RetreatTicks      uint32
}

// DefaultConfig returns a conservative timeout/dwell configuration.
func DefaultConfig() Config {
	return Config{
		StateTimeoutTicks: 2000, // 10s at 5ms/tick
		EngageDwellTicks:  100,  // 0.5s
		RetreatSpeedMMPS:  30,
		RetreatTicks:      160, // 0.8s at 30mm/s ~= 24mm retreat
	}
}

// Request is a supervisor-issued PickAndPlace command (spec.md §6).
type Request struct {
	TargetMarker uint32
	Action       Action
	// RelativeDX/DY/DTheta are only used by PlaceOnGround, which has no
	// vision target and works from odometry alone (spec.md §4.9).
	RelativeDX, RelativeDY, RelativeDTheta float32
}

// Lift is the subset of jointctrl.Controller Pick-and-Place needs.
type Lift interface {
	SetTargetAngle(angleRad float32)
	IsInPosition() bool
}

// Gripper abstracts the end effector; the HAL doesn't model it directly
// since it is a simple binary actuator, not a closed-loop joint.
type Gripper interface {
	Engage()
	Release()
}

// Controller runs the Pick-and-Place state machine.
type Controller struct {
	cfg Config

	state        State
	request      Request
	lastFailStep State
	lastSuccess  bool

	ticksInState uint32

	liftAngleForAction func(Action) float32
}

// New returns an idle Controller. liftAngleForAction maps each Action to
// the joint angle the lift must reach for the engage/lift/place step,
// supplied by the caller since that mapping depends on calibrated geometry
// (geom.Geometry / jointctrl.LiftMapping).
func New(cfg Config, liftAngleForAction func(Action) float32) *Controller {
	return &Controller{cfg: cfg, liftAngleForAction: liftAngleForAction}
}

// State returns the current state.
func (c *Controller) State() State { return c.state }

// Cancel aborts any in-flight manipulation and returns the controller to
// Idle, releasing Docking if it was borrowed (supervisor Reset, spec.md
// §6 — PickAndPlace has no standalone cancel message of its own, so a
// supervisor Reset during a manipulation must still leave it idle rather
// than resuming mid-state on the next tick).
func (c *Controller) Cancel(dock *docking.Controller) {
	dock.Cancel()
	c.state = StateIdle
	c.ticksInState = 0
}

// LastResult returns the step that failed (only meaningful in StateFailed)
// and whether the last completed action succeeded.
func (c *Controller) LastResult() (step State, success bool) { return c.lastFailStep, c.lastSuccess }

// Start begins a new request; only valid from Idle (spec.md §4.9: "on
// Failed, the controller ... returns to Idle on the next command").
func (c *Controller) Start(req Request) {
	if c.state == StateFailed {
		c.state = StateIdle
	}
	if c.state != StateIdle {
		return
	}
	c.request = req
	c.state = StateWaitingForMarker
	c.ticksInState = 0
}

// Update advances the state machine by one tick. dock and lift are the
// sibling controllers this controller legitimately calls into (spec.md §9:
// "PickAndPlace → Docking + Lift"); gripper performs the physical grip and
// steer is the same Steering Controller Docking drives, shared so that
// Start's EnterFollow and the small post-lift retreat both reach the real
// arbitrated mode rather than a narrower stand-in.
func (c *Controller) Update(dock *docking.Controller, lift Lift, gripper Gripper, steer *steering.Controller, markerVisible bool, markerPose docking.Pose) {
	switch c.state {
	case StateIdle, StateDone, StateFailed:
		return
	}

	c.ticksInState++
	if c.cfg.StateTimeoutTicks > 0 && c.ticksInState > c.cfg.StateTimeoutTicks {
		c.fail(dock, c.state)
		return
	}

	switch c.state {
	case StateWaitingForMarker:
		if c.request.Action == PlaceOnGround || markerVisible {
			target := markerPose
			if c.request.Action == PlaceOnGround {
				target = docking.Pose{XRelMM: c.request.RelativeDX, YRelMM: c.request.RelativeDY, ThetaRelRad: c.request.RelativeDTheta}
			}
			dock.Start(target, steer)
			// PlaceOnGround has no vision target: Docking is seeded with the
			// request's robot-relative pose and approaches it on odometry
			// alone (spec.md §4.9); a real marker approach already
			// has markerPose from a genuine ObserveMarker call before this
			// tick, so re-asserting it here is a no-op for that path. Both
			// cases need this: Start now clears everObserved so a docking
			// session started with no observation at all can't report
			// IsLocked before it has one (spec.md §4.8, §4.9).
			dock.ObserveMarker(target)
			c.transition(StateApproaching)
		}

	case StateApproaching:
		switch dock.State() {
		case docking.StateLocked:
			lift.SetTargetAngle(c.liftAngleForAction(c.request.Action))
			c.transition(StateEngaging)
		case docking.StateLostTarget:
			c.fail(dock, StateApproaching)
		}

	case StateEngaging:
		if lift.IsInPosition() {
			if c.ticksInState >= c.cfg.EngageDwellTicks {
				switch c.request.Action {
				case PickupLow, PickupHigh:
					gripper.Engage()
					c.transition(StateLifting)
				default:
					gripper.Release()
					c.transition(StatePlacing)
				}
			}
		}

	case StateLifting:
		c.transition(StateRetreating)

	case StateRetreating:
		if c.ticksInState >= c.cfg.RetreatTicks {
			steer.Idle()
			c.finish(dock, true)
			return
		}
		steer.DriveArc(0, -c.cfg.RetreatSpeedMMPS, 0)

	case StatePlacing:
		c.transition(StateRetreating)
	}
}

func (c *Controller) transition(next State) {
	c.state = next
	c.ticksInState = 0
}

// fail and finish both release Docking back to Idle: PickAndPlace borrowed
// it for the Approaching leg and a leftover Locked/LostTarget state must not
// bleed into the next standalone dock command (spec.md §9 docking
// delegation).
func (c *Controller) fail(dock *docking.Controller, step State) {
	dock.Cancel()
	c.lastFailStep = step
	c.lastSuccess = false
	c.state = StateFailed
}

func (c *Controller) finish(dock *docking.Controller, success bool) {
	dock.Cancel()
	c.lastSuccess = success
	c.state = StateDone
}
