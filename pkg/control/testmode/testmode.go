// Package testmode dispatches the closed set of diagnostic behaviours:
// direct-drive ramp, lift/head sweep, IMU in-place rotation, LED cycle,
// and path-follow demo (spec.md §4.11); there is no pick-and-place demo
// mode. Calibration
// constants (wheel power step, default test speeds) are grounded on the
// Cozmo test-mode power/speed tables this core's ancestry shipped with.
package testmode

import (
	"github.com/kercre123/victor-sub070/pkg/control/hal"
	"github.com/kercre123/victor-sub070/pkg/control/jointctrl"
	"github.com/kercre123/victor-sub070/pkg/control/pathfollower"
	"github.com/kercre123/victor-sub070/pkg/control/posemath"
	"github.com/kercre123/victor-sub070/pkg/control/steering"
	"github.com/kercre123/victor-sub070/pkg/control/wheelctrl"
)

// ID enumerates the diagnostic modes (spec.md §3 TestModeDescriptor).
type ID uint8

const (
	IDDirectDriveRamp ID = iota
	IDLiftHeadSweep
	IDIMURotation
	IDLEDCycle
	IDPathFollowDemo
)

// Descriptor is the (id, p1, p2, p3) tuple the supervisor sends (spec.md
// §6 StartTestMode, §6 "Test-mode numeric surface"). Meaning of p1/p2/p3 is
// test-specific, documented per-mode below.
type Descriptor struct {
	ID         ID
	P1, P2, P3 int32
}

// Deps bundles the sibling controllers a diagnostic mode drives directly,
// bypassing the normal arbiter chain the way Test Mode is explicitly
// allowed to (spec.md §4.12 step 5: Test Mode is itself one of the
// mutually-exclusive high-level controllers).
type Deps struct {
	LeftWheel, RightWheel *wheelctrl.Controller
	Head, Lift            *jointctrl.Controller
	Steer                 *steering.Controller
	Follower              *pathfollower.Follower
	HAL                   hal.HAL

	// Pose/HeadingRad/BothWheelsStalled are this tick's localization outputs,
	// needed only by IDPathFollowDemo to drive Follower.Update directly
	// (spec.md §4.11: Test Mode bypasses the normal arbiter chain entirely).
	Pose              posemath.Pose2D
	HeadingRad        float32
	BothWheelsStalled bool
}

// wheelPowerStep is the default direct-drive ramp step, grounded on the
// Cozmo wheel calibration's wheelPowerStep_ = 0.05.
const wheelPowerStep = 0.05

// Controller runs at most one diagnostic mode at a time.
type Controller struct {
	active  bool
	current Descriptor

	// direct-drive ramp state
	rampPower float32

	// lift/head sweep state
	sweepPhase int

	// IMU rotation state
	rotationStarted bool

	// LED cycle state
	ledChannel int
	ledTick    uint32
}

// New returns an idle Controller.
func New() *Controller { return &Controller{} }

// Active reports whether a diagnostic mode is running.
func (c *Controller) Active() bool { return c.active }

// Current returns the active descriptor.
func (c *Controller) Current() Descriptor { return c.current }

// Start switches to desc, calling the outgoing mode's implicit reset
// before running desc's init (spec.md §4.11). That reset re-enables both
// wheel loops with a zero speed target and idles steering; it does not
// move the head or lift, whose targets stay where the last mode left them.
func (c *Controller) Start(desc Descriptor, deps Deps) {
	c.deinit(deps)
	c.current = desc
	c.active = true
	c.rampPower = 0
	c.sweepPhase = 0
	c.rotationStarted = false
	c.ledChannel = 0
	c.ledTick = 0
}

// Stop ends the active mode with the same reset Start uses: wheel targets
// go to zero and steering idles; head and lift targets are left unchanged.
func (c *Controller) Stop(deps Deps) {
	c.deinit(deps)
	c.active = false
}

func (c *Controller) deinit(deps Deps) {
	if deps.LeftWheel != nil {
		deps.LeftWheel.Enable()
		deps.LeftWheel.SetTarget(0, 0)
	}
	if deps.RightWheel != nil {
		deps.RightWheel.Enable()
		deps.RightWheel.SetTarget(0, 0)
	}
	if deps.Steer != nil {
		deps.Steer.Idle()
	}
}

// Update advances the active mode by one tick.
func (c *Controller) Update(tick uint32, deps Deps) {
	if !c.active {
		return
	}
	switch c.current.ID {
	case IDDirectDriveRamp:
		c.updateDirectDriveRamp(deps)
	case IDLiftHeadSweep:
		c.updateLiftHeadSweep(deps)
	case IDIMURotation:
		c.updateIMURotation(deps)
	case IDLEDCycle:
		c.updateLEDCycle(tick, deps)
	case IDPathFollowDemo:
		c.updatePathFollowDemo(deps)
	}
}

// updateDirectDriveRamp: p1 = flag bitset (bit0: power mode vs speed mode),
// p2 = power step in percent (0 uses the default wheelPowerStep), p3 =
// wheel speed in mm/s or power in percent depending on the flag (spec.md
// §6 "Test-mode numeric surface" example).
func (c *Controller) updateDirectDriveRamp(deps Deps) {
	const powerModeFlag = int32(1)
	step := float32(wheelPowerStep)
	if c.current.P2 != 0 {
		step = float32(c.current.P2) / 100
	}

	if c.current.P1&powerModeFlag != 0 {
		target := float32(c.current.P3) / 100
		if c.rampPower < target {
			c.rampPower += step
			if c.rampPower > target {
				c.rampPower = target
			}
		}
		deps.LeftWheel.Disable(c.rampPower)
		deps.RightWheel.Disable(c.rampPower)
		return
	}

	deps.LeftWheel.Enable()
	deps.RightWheel.Enable()
	deps.LeftWheel.SetTarget(float32(c.current.P3), 200)
	deps.RightWheel.SetTarget(float32(c.current.P3), 200)
}

// updateLiftHeadSweep: p1 selects which joint(s): 0=lift, 1=head, 2=both.
func (c *Controller) updateLiftHeadSweep(deps Deps) {
	phases := []float32{-0.3, 0.3, -0.3, 1.0}
	target := phases[c.sweepPhase%len(phases)]

	if c.current.P1 != 1 && deps.Lift != nil {
		deps.Lift.SetTargetAngle(target)
	}
	if c.current.P1 != 0 && deps.Head != nil {
		deps.Head.SetTargetAngle(target)
	}

	liftDone := deps.Lift == nil || deps.Lift.IsInPosition()
	headDone := deps.Head == nil || deps.Head.IsInPosition()
	if liftDone && headDone {
		c.sweepPhase++
	}
}

// updateIMURotation: p1 = target angle in millirad, p2 = angular
// velocity in millirad/s, p3 = angular accel in millirad/s^2.
func (c *Controller) updateIMURotation(deps Deps) {
	if !c.rotationStarted {
		targetRad := float32(c.current.P1) / 1000
		velRadps := float32(c.current.P2) / 1000
		accelRadps2 := float32(c.current.P3) / 1000
		deps.Steer.PointTurnTo(targetRad, velRadps, accelRadps2, accelRadps2)
		c.rotationStarted = true
	}
}

// updateLEDCycle: p1 = number of channels, p2 = hold ticks per channel.
func (c *Controller) updateLEDCycle(tick uint32, deps Deps) {
	channels := int(c.current.P1)
	if channels <= 0 {
		channels = 1
	}
	holdTicks := uint32(c.current.P2)
	if holdTicks == 0 {
		holdTicks = 200
	}

	colors := []hal.RGBA{{R: 255}, {G: 255}, {B: 255}}
	c.ledTick++
	if c.ledTick >= holdTicks {
		c.ledTick = 0
		c.ledChannel = (c.ledChannel + 1) % channels
	}
	deps.HAL.SetLED(hal.LEDChannel(c.ledChannel), colors[c.ledChannel%len(colors)])
}

// updatePathFollowDemo drives the canned four-segment docking-rehearsal
// path (stop/straight/turn/straight/turn), grounded on the Cozmo test
// harness's dockPathState_ sequence (DT_STOP, DT_STRAIGHT, DT_LEFT,
// DT_STRAIGHT2, DT_RIGHT): p1 = leg length in mm, p2 = speed in mm/s. The
// path itself is built once by BuildDockPathDemo when the mode starts; this
// just steps the follower each tick, since Test Mode owns Steer directly
// and the normal arbiter never runs Follower.Update while Test Mode is
// active.
func (c *Controller) updatePathFollowDemo(deps Deps) {
	if deps.Follower.State() != pathfollower.StateTraversing {
		return
	}
	deps.Follower.Update(deps.Pose, deps.HeadingRad, deps.BothWheelsStalled, deps.Steer)
}

// BuildDockPathDemo appends the canned four-leg rehearsal path (straight,
// point-turn, straight, point-turn) to follower and starts traversal. Leg
// length and speed are supplied by the StartTestMode parameters. It also
// puts steer into follow mode before traversal starts: Follower.Update's
// Line-segment branch only ever calls steer.FollowArc, which never touches
// steering.Controller's arbitrated mode, so without this the demo's
// straight legs would never move the wheels (only its point-turn legs
// would, since PointTurnTo does set the mode) — the same gap dispatch's
// TagStartPath case closes for a supervisor-driven path.
func BuildDockPathDemo(follower *pathfollower.Follower, steer *steering.Controller, legMM, speedMMPS float32) error {
	path := follower.Path()
	path.Clear()
	if err := path.AppendLine(0, 0, legMM, 0, speedMMPS, 200, 200); err != nil {
		return err
	}
	if err := path.AppendPointTurn(1.5707963, speedMMPS, 5, 5); err != nil {
		return err
	}
	if err := path.AppendLine(legMM, 0, legMM, legMM, speedMMPS, 200, 200); err != nil {
		return err
	}
	if err := path.AppendPointTurn(0, speedMMPS, 5, 5); err != nil {
		return err
	}
	steer.EnterFollow()
	return follower.StartTraversal()
}
