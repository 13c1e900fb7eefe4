// Package pathfollower executes a precomputed sequence of line/arc/point-
// turn segments, projecting the robot's pose onto the active segment each
// tick and driving the Steering Controller with a trapezoidal speed profile
// plus cross-track correction (spec.md §4.7).
package pathfollower

import (
	"github.com/kercre123/victor-sub070/pkg/control/motion"
	"github.com/kercre123/victor-sub070/pkg/control/posemath"
	"github.com/kercre123/victor-sub070/pkg/control/steering"
)

// State is the follower's high-level status.
type State int

const (
	StateIdle State = iota
	StateTraversing
	StateCompleted
	StateAborted
)

const headingToleranceRad = 0.02 // ~1.1 degrees, spec.md §4.7 step 6

// Config carries the cross-track-correction gain.
type Config struct {
	// CrossTrackGain converts cross-track error (mm) into a curvature
	// correction (1/mm), saturated by MaxCorrectionPerMM.
	CrossTrackGain     float32
	MaxCorrectionPerMM float32
}

// DefaultConfig returns a conservative cross-track correction gain.
func DefaultConfig() Config {
	return Config{CrossTrackGain: 0.0005, MaxCorrectionPerMM: 0.01}
}

// Follower drives a Path against the Steering Controller.
type Follower struct {
	cfg   Config
	path  Path
	state State

	carrySpeedMMPS float32
}

// New returns an idle Follower.
func New(cfg Config) *Follower {
	return &Follower{cfg: cfg}
}

// Path exposes the owned path for Append*/Clear calls from the message
// dispatcher.
func (f *Follower) Path() *Path { return &f.path }

// Reset clears the path and returns the follower to its boot state,
// regardless of what state traversal left it in. A ClearPath command or a
// supervisor Reset must be able to undo a Completed or Aborted follower the
// same way it undoes a Traversing one (spec.md §8 clear_path round-trip
// property).
func (f *Follower) Reset() {
	f.path.Clear()
	f.state = StateIdle
	f.carrySpeedMMPS = 0
}

// State returns the follower's current state.
func (f *Follower) State() State { return f.state }

// StartTraversal begins driving the currently appended path.
func (f *Follower) StartTraversal() error {
	if err := f.path.StartTraversal(); err != nil {
		return err
	}
	f.state = StateTraversing
	f.carrySpeedMMPS = 0
	return nil
}

// DriveStraight appends a single line segment to a fresh path and starts
// traversal (spec.md §4.7 convenience operations).
func (f *Follower) DriveStraight(pose posemath.Pose2D, distanceMM, accelMMPS2, decelMMPS2, speedMMPS float32) error {
	f.path.Clear()
	end := pose.Translate(distanceMM)
	if err := f.path.AppendLine(pose.XMM, pose.YMM, end.XMM, end.YMM, speedMMPS, accelMMPS2, decelMMPS2); err != nil {
		return err
	}
	return f.StartTraversal()
}

// DriveArc appends a single arc segment to a fresh path and starts
// traversal.
func (f *Follower) DriveArc(centerX, centerY, radiusMM, startAngleRad, sweepAngleRad, speedMMPS, accelMMPS2, decelMMPS2 float32) error {
	f.path.Clear()
	if err := f.path.AppendArc(centerX, centerY, radiusMM, startAngleRad, sweepAngleRad, speedMMPS, accelMMPS2, decelMMPS2); err != nil {
		return err
	}
	return f.StartTraversal()
}

// DrivePointTurn appends a single point-turn segment to a fresh path and
// starts traversal.
func (f *Follower) DrivePointTurn(targetHeadingRad, angularSpeedMMPSEquivalent, accelMMPS2, decelMMPS2 float32) error {
	f.path.Clear()
	if err := f.path.AppendPointTurn(targetHeadingRad, angularSpeedMMPSEquivalent, accelMMPS2, decelMMPS2); err != nil {
		return err
	}
	return f.StartTraversal()
}

// Update performs one tick of path following (spec.md §4.7 steps 1-7). pose
// and currentHeadingRad come from Localization/IMU Filter for this tick;
// bothWheelsStalled reports the Wheel Controller stall flag for both
// wheels. It drives steer with the synthesized arc/point-turn intent.
func (f *Follower) Update(pose posemath.Pose2D, currentHeadingRad float32, bothWheelsStalled bool, steer *steering.Controller) {
	if f.state != StateTraversing {
		return
	}

	if bothWheelsStalled {
		f.state = StateAborted
		steer.Idle()
		return
	}

	seg := f.path.segments[f.path.activeIndex]

	if seg.Kind == KindPointTurn {
		f.updatePointTurn(seg, currentHeadingRad, steer)
		return
	}

	alongMM, crossMM := seg.project(pose.XMM, pose.YMM)
	length := seg.LengthMM()

	nextStartSpeed := float32(0)
	if f.path.activeIndex+1 < f.path.count {
		nextStartSpeed = absf(f.path.segments[f.path.activeIndex+1].TargetSpeedMMPS)
	}

	cruise := absf(seg.TargetSpeedMMPS)
	// The profile is a function of position, so from a standstill at
	// alongMM == 0 it would command zero forever. It is entered at cruise
	// speed; the ramp up from rest comes from the wheel controllers, which
	// FollowArc hands seg.AccelMMPS2, and the profile supplies the
	// position-based braking down to nextStartSpeed.
	speed := motion.TrapezoidalProfile(alongMM, length, cruise, cruise, nextStartSpeed, seg.AccelMMPS2, seg.DecelMMPS2)
	if seg.TargetSpeedMMPS < 0 {
		speed = -speed
	}
	f.carrySpeedMMPS = speed

	correction := clampf(-crossMM*f.cfg.CrossTrackGain, -f.cfg.MaxCorrectionPerMM, f.cfg.MaxCorrectionPerMM)
	curvature := seg.curvaturePerMM() + correction

	steer.FollowArc(curvature, speed, seg.AccelMMPS2)

	if alongMM >= length {
		f.advance(steer)
	}
}

func (f *Follower) updatePointTurn(seg Segment, currentHeadingRad float32, steer *steering.Controller) {
	steer.PointTurnTo(seg.TargetHeadingRad, absf(seg.TargetSpeedMMPS), seg.AccelMMPS2, seg.DecelMMPS2)
	errRad := posemath.NormalizeAngle(seg.TargetHeadingRad - currentHeadingRad)
	if absf(errRad) < headingToleranceRad {
		f.advance(steer)
	}
}

func (f *Follower) advance(steer *steering.Controller) {
	f.path.activeIndex++
	if f.path.activeIndex >= f.path.count {
		f.state = StateCompleted
		f.path.isTraversing = false
		steer.Idle()
		return
	}
	f.carrySpeedMMPS = 0
	// A point-turn leg leaves steer in ModePointTurn (or ModeIdle once the
	// turn completes); line and arc legs drive only through FollowArc, which
	// does not set the mode, so follow mode is re-entered here.
	if f.path.segments[f.path.activeIndex].Kind != KindPointTurn {
		steer.EnterFollow()
	}
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func clampf(v, min, max float32) float32 {
	switch {
	case v < min:
		return min
	case v > max:
		return max
	default:
		return v
	}
}
