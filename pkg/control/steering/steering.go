// Package steering is the single arbitration point for wheel-speed commands
// (spec.md §4.6): direct drive, arc, point turn, and path-follow all funnel
// through here before reaching the Wheel Controller. The differential-drive
// conversion between chassis (speed, curvature/angular-velocity) and
// per-wheel speeds is grounded on the teacher's differential-drive
// kinematics (Forward/Inverse over half-wheelbase), generalized here from a
// DOF-indexed Kinematics interface to the planar-only arithmetic this
// controller actually needs.
package steering

import "github.com/kercre123/victor-sub070/pkg/control/posemath"

// Mode is the tagged variant of steering behaviors. Entering a new mode
// cancels any in-progress mode and immediately pushes fresh targets;
// modes never silently preempt each other (spec.md §4.6).
type Mode int

const (
	ModeIdle Mode = iota
	ModeDirectDrive
	ModeArc
	ModePointTurn
	ModeFollow
)

// WheelTargets is what Steering hands to the Wheel Controller each tick.
type WheelTargets struct {
	LeftSpeedMMPS, RightSpeedMMPS   float32
	LeftAccelMMPS2, RightAccelMMPS2 float32
}

type directDrive struct {
	leftSpeed, rightSpeed   float32
	leftAccel, rightAccel   float32
}

type arc struct {
	curvaturePerMM, speedMMPS, accelMMPS2 float32
}

type pointTurn struct {
	targetHeadingRad                              float32
	angularVelRadps, angularAccelRadps2, angularDecelRadps2 float32
	started                                        bool
}

// Controller arbitrates and converts high-level motion intents into
// per-wheel targets.
type Controller struct {
	wheelBaseMM float32

	mode Mode

	direct directDrive
	arcCmd arc
	turn   pointTurn
}

// New returns a Controller for a chassis with the given wheelbase.
func New(wheelBaseMM float32) *Controller {
	return &Controller{wheelBaseMM: wheelBaseMM}
}

// Mode returns the currently active mode.
func (c *Controller) Mode() Mode { return c.mode }

// DriveWheels enters direct-drive mode (spec.md §4.6).
func (c *Controller) DriveWheels(leftSpeedMMPS, rightSpeedMMPS, leftAccelMMPS2, rightAccelMMPS2 float32) {
	c.mode = ModeDirectDrive
	c.direct = directDrive{leftSpeedMMPS, rightSpeedMMPS, leftAccelMMPS2, rightAccelMMPS2}
}

// DriveArc enters arc mode: curvaturePerMM is 1/radius, signed by turn
// direction; speedMMPS is the chassis forward speed (spec.md §4.6).
func (c *Controller) DriveArc(curvaturePerMM, speedMMPS, accelMMPS2 float32) {
	c.mode = ModeArc
	c.arcCmd = arc{curvaturePerMM, speedMMPS, accelMMPS2}
}

// PointTurnTo enters point-turn mode: the robot rotates in place (opposite
// wheel signs, equal magnitude) until the current heading reaches
// targetHeadingRad (spec.md §4.6).
func (c *Controller) PointTurnTo(targetHeadingRad, angularVelRadps, angularAccelRadps2, angularDecelRadps2 float32) {
	c.mode = ModePointTurn
	c.turn = pointTurn{
		targetHeadingRad:   posemath.NormalizeAngle(targetHeadingRad),
		angularVelRadps:    angularVelRadps,
		angularAccelRadps2: angularAccelRadps2,
		angularDecelRadps2: angularDecelRadps2,
	}
}

// EnterFollow switches to path-follow mode without yet supplying targets;
// the Path Follower then pushes its arc intent each tick via FollowArc.
// Point-turn segments go through PointTurnTo, which switches to
// ModePointTurn; the follower calls EnterFollow again when the next
// line or arc segment starts.
func (c *Controller) EnterFollow() {
	c.mode = ModeFollow
	c.arcCmd = arc{}
}

// FollowArc lets the active Path Follower push an arc intent while in
// ModeFollow, without changing the arbitrated mode.
func (c *Controller) FollowArc(curvaturePerMM, speedMMPS, accelMMPS2 float32) {
	c.arcCmd = arc{curvaturePerMM, speedMMPS, accelMMPS2}
}

// Idle cancels whatever mode is active and commands zero speed.
func (c *Controller) Idle() {
	c.mode = ModeIdle
	c.direct = directDrive{}
	c.arcCmd = arc{}
	c.turn = pointTurn{}
}

// Update computes this tick's wheel targets given the current IMU heading
// (needed only for point-turn completion).
func (c *Controller) Update(currentHeadingRad float32) WheelTargets {
	switch c.mode {
	case ModeDirectDrive:
		return WheelTargets{c.direct.leftSpeed, c.direct.rightSpeed, c.direct.leftAccel, c.direct.rightAccel}

	case ModeArc, ModeFollow:
		left, right := arcToWheels(c.arcCmd.curvaturePerMM, c.arcCmd.speedMMPS, c.wheelBaseMM)
		return WheelTargets{left, right, c.arcCmd.accelMMPS2, c.arcCmd.accelMMPS2}

	case ModePointTurn:
		return c.updatePointTurn(currentHeadingRad)

	default:
		return WheelTargets{}
	}
}

func (c *Controller) updatePointTurn(currentHeadingRad float32) WheelTargets {
	errRad := posemath.NormalizeAngle(c.turn.targetHeadingRad - currentHeadingRad)
	if absf(errRad) < 1e-3 {
		c.mode = ModeIdle
		return WheelTargets{}
	}

	angVel := c.turn.angularVelRadps
	if errRad < 0 {
		angVel = -absf(angVel)
	} else {
		angVel = absf(angVel)
	}

	wheelSpeed := angVel * c.wheelBaseMM / 2
	wheelAccel := c.turn.angularAccelRadps2 * c.wheelBaseMM / 2
	// Point turn: opposite sign, equal magnitude (spec.md §4.6, GLOSSARY).
	return WheelTargets{
		LeftSpeedMMPS:   -wheelSpeed,
		RightSpeedMMPS:  wheelSpeed,
		LeftAccelMMPS2:  wheelAccel,
		RightAccelMMPS2: wheelAccel,
	}
}

// arcToWheels converts chassis curvature+speed to per-wheel speeds, grounded
// on the teacher differential-drive kinematics' Inverse (wheel speeds from
// chassis linear/angular velocity): angularVel = curvature * speed.
func arcToWheels(curvaturePerMM, speedMMPS, wheelBaseMM float32) (left, right float32) {
	angularVelRadps := curvaturePerMM * speedMMPS
	left = speedMMPS - wheelBaseMM*angularVelRadps/2
	right = speedMMPS + wheelBaseMM*angularVelRadps/2
	return left, right
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
