// Package scheduler implements the deterministic main tick: it steps every
// subsystem in the fixed order spec.md §4.12 requires, owns all controllers
// (spec.md §9: "the tick scheduler owns all controllers; no controller owns
// another"), and is the sole place the single active high-level mode is
// picked from a tagged variant (spec.md §9, replacing virtual dispatch).
package scheduler

import (
	"github.com/kercre123/victor-sub070/pkg/control/animation"
	"github.com/kercre123/victor-sub070/pkg/control/docking"
	"github.com/kercre123/victor-sub070/pkg/control/framing"
	"github.com/kercre123/victor-sub070/pkg/control/geom"
	"github.com/kercre123/victor-sub070/pkg/control/hal"
	"github.com/kercre123/victor-sub070/pkg/control/imufilter"
	"github.com/kercre123/victor-sub070/pkg/control/jointctrl"
	"github.com/kercre123/victor-sub070/pkg/control/localization"
	"github.com/kercre123/victor-sub070/pkg/control/pathfollower"
	"github.com/kercre123/victor-sub070/pkg/control/pickplace"
	"github.com/kercre123/victor-sub070/pkg/control/posemath"
	"github.com/kercre123/victor-sub070/pkg/control/ringbuf"
	"github.com/kercre123/victor-sub070/pkg/control/steering"
	"github.com/kercre123/victor-sub070/pkg/control/testmode"
	"github.com/kercre123/victor-sub070/pkg/control/wheelctrl"
)

// HighLevelMode is the tagged variant of mutually-exclusive high-level
// controllers (spec.md §4.12 step 5, §8 Arbitration invariant).
type HighLevelMode int

const (
	ModeNone HighLevelMode = iota
	ModeTestMode
	ModePickAndPlace
	ModeDocking
	ModePathFollower
)

const controlPeriodSeconds = float32(0.005)

// Scheduler is the single-threaded cooperative tick driver that owns every
// controller and runs them in the canonical order.
type Scheduler struct {
	HAL  hal.HAL
	Geom geom.Geometry

	IMUFilter    *imufilter.Filter
	Localization *localization.Localization

	LeftWheel, RightWheel *wheelctrl.Controller
	Head, Lift            *jointctrl.Controller
	LiftMapping           jointctrl.LiftMapping

	Steer     *steering.Controller
	Follower  *pathfollower.Follower
	Docking   *docking.Controller
	PickPlace *pickplace.Controller
	Animation *animation.Controller
	TestMode  *testmode.Controller

	gripper *simpleGripper

	// CommandsIn carries decoded supervisor frames into the tick; StatusOut
	// carries RobotState snapshots back out. Both are lock-free SPSC rings
	// (spec.md §5): the tick is the sole consumer of CommandsIn and sole
	// producer of StatusOut. A hostlink.Link, running outside the tick,
	// does the byte-level framing on both ends.
	CommandsIn *ringbuf.Ring[framing.Frame]
	StatusOut  *ringbuf.Ring[framing.RobotState]

	activeMode HighLevelMode
	tick       uint32

	// protocolErrors counts dispatch-time rejects: unrecognized tags and
	// undersized payloads (spec.md §7 Protocol error). Frame-decode errors
	// are counted separately by the hostlink.Link that produces CommandsIn.
	protocolErrors uint32

	// prevHeadingRad is the previous tick's heading. Docking uses it to
	// extrapolate a stale observation by this tick's actual odometric
	// motion (spec.md §4.8) instead of a fixed zero delta, and it is also
	// handed to Test Mode as Deps.HeadingRad.
	prevHeadingRad float32

	// animationLibrary maps a PlayAnimation message's track ID to the track
	// data itself, which travels to the robot out-of-band (flashed or
	// pushed once at boot) rather than inline in a 4-byte supervisor
	// message (spec.md §6 PlayAnimation carries only an id + tag).
	animationLibrary map[uint16]*animation.Track
}

// RegisterAnimation makes track playable by a subsequent PlayAnimation
// message naming its ID.
func (s *Scheduler) RegisterAnimation(track *animation.Track) {
	s.animationLibrary[track.ID] = track
}

// New wires up a Scheduler from an HAL and calibrated geometry. Controller
// gains are the simulator defaults; a firmware build would override
// individual controllers' Config after construction.
func New(h hal.HAL, g geom.Geometry) *Scheduler {
	s := &Scheduler{
		HAL:  h,
		Geom: g,

		IMUFilter:    imufilter.New(imufilter.DefaultConfig()),
		Localization: localization.New(),

		LeftWheel:  wheelctrl.New(wheelctrl.DefaultConfig()),
		RightWheel: wheelctrl.New(wheelctrl.DefaultConfig()),
		Head: jointctrl.New(jointctrl.Config{
			MinAngleRad: g.HeadMinAngleRad, MaxAngleRad: g.HeadMaxAngleRad,
			MaxVelocityRadps: 3, PositionP: 4, VelocityP: 0.3, VelocityI: 0.1,
			MaxPower: 1, InPositionToleranceRad: 0.02, InPositionDwellTicks: 20,
		}),
		Lift: jointctrl.New(jointctrl.Config{
			MinAngleRad: g.LiftMinAngleRad, MaxAngleRad: g.LiftMaxAngleRad,
			MaxVelocityRadps: 3, PositionP: 4, VelocityP: 0.3, VelocityI: 0.1,
			MaxPower: 1, InPositionToleranceRad: 0.02, InPositionDwellTicks: 20,
		}),
		LiftMapping: jointctrl.NewLiftMapping(g),

		Steer:     steering.New(g.WheelBaseMM),
		Follower:  pathfollower.New(pathfollower.DefaultConfig()),
		Docking:   docking.New(docking.DefaultConfig()),
		Animation: animation.New(),
		TestMode:  testmode.New(),

		CommandsIn: ringbuf.New[framing.Frame](32),
		StatusOut:  ringbuf.New[framing.RobotState](8),

		animationLibrary: make(map[uint16]*animation.Track),
	}
	s.gripper = newSimpleGripper(h)
	s.PickPlace = pickplace.New(pickplace.DefaultConfig(), s.liftAngleForAction)
	return s
}

func (s *Scheduler) liftAngleForAction(a pickplace.Action) float32 {
	switch a {
	case pickplace.PickupHigh, pickplace.PlaceHigh:
		return s.LiftMapping.HeightToAngle(s.Geom.LiftHighDockMM)
	case pickplace.PlaceOnGround:
		return s.LiftMapping.HeightToAngle(0)
	default:
		return s.LiftMapping.HeightToAngle(s.Geom.LiftLowDockMM)
	}
}

// Tick returns the number of control periods executed so far.
func (s *Scheduler) Tick() uint32 { return s.tick }

// ActiveMode returns the currently arbitrated high-level mode.
func (s *Scheduler) ActiveMode() HighLevelMode { return s.activeMode }

// ProtocolErrors returns the running count of dispatch-time rejects.
func (s *Scheduler) ProtocolErrors() uint32 { return s.protocolErrors }

// testModeDeps builds the testmode.Deps bundle from the controllers this
// Scheduler owns, once per tick rather than stored, since TestMode is only
// one of several mutually-exclusive consumers of these controllers. Pose/
// heading/stall are whatever this tick last computed; callers that invoke
// it before those are known (Start/Stop, outside RunTick) get the zero
// pose, which is fine since those paths never reach updatePathFollowDemo.
func (s *Scheduler) testModeDeps() testmode.Deps {
	return testmode.Deps{
		LeftWheel: s.LeftWheel, RightWheel: s.RightWheel,
		Head: s.Head, Lift: s.Lift,
		Steer: s.Steer, Follower: s.Follower,
		HAL: s.HAL,
		Pose: s.Localization.Pose(), HeadingRad: s.prevHeadingRad,
		BothWheelsStalled: s.LeftWheel.Stalled() && s.RightWheel.Stalled(),
	}
}

// RunTick executes exactly one control period in the canonical order
// (spec.md §4.12). It never blocks.
func (s *Scheduler) RunTick() {
	// Step 1: read HAL.
	leftSpeedRadps := s.HAL.MotorGetSpeed(hal.MotorLeftWheel)
	rightSpeedRadps := s.HAL.MotorGetSpeed(hal.MotorRightWheel)
	headAngleRad := s.HAL.MotorGetPosition(hal.MotorHead)
	headSpeedRadps := s.HAL.MotorGetSpeed(hal.MotorHead)
	liftAngleRad := s.HAL.MotorGetPosition(hal.MotorLift)
	liftSpeedRadps := s.HAL.MotorGetSpeed(hal.MotorLift)
	imu := s.HAL.IMURead()
	imuFresh := !s.HAL.Faults().Has(hal.FaultIMUStale)

	leftSpeedMMPS := leftSpeedRadps * s.Geom.WheelRadiusMM
	rightSpeedMMPS := rightSpeedRadps * s.Geom.WheelRadiusMM

	// Step 2: IMU Filter.
	heading := s.IMUFilter.Update(controlPeriodSeconds, imu.RateZRadps, imuFresh, 0)

	// Step 3: Localization.
	deltaLeftRad := leftSpeedRadps * controlPeriodSeconds
	deltaRightRad := rightSpeedRadps * controlPeriodSeconds
	pose := s.Localization.Update(deltaLeftRad, deltaRightRad, s.Geom.WheelRadiusMM, heading)

	odometryDXMM := 0.5 * (deltaLeftRad + deltaRightRad) * s.Geom.WheelRadiusMM
	odometryDThetaRad := posemath.NormalizeAngle(heading - s.prevHeadingRad)
	s.prevHeadingRad = heading

	// Step 4: dispatch supervisor messages already decoded by the hostlink
	// context onto CommandsIn.
	s.drainCommands()

	// Step 5: the single active, mutually-exclusive high-level controller.
	s.updateActiveMode(pose, heading, odometryDXMM, odometryDThetaRad)

	// Step 6: Animation, which may override the actuator commands step 5
	// produced (spec.md §4.10: "takes exclusive ownership of the actuators
	// a keyframe names while it plays").
	animTargets, animPlaying := s.Animation.Update(s.tick)

	// Step 7: Steering funnels whatever mode is active into wheel targets.
	wheelTargets := s.Steer.Update(heading)
	s.LeftWheel.SetTarget(wheelTargets.LeftSpeedMMPS, wheelTargets.LeftAccelMMPS2)
	s.RightWheel.SetTarget(wheelTargets.RightSpeedMMPS, wheelTargets.RightAccelMMPS2)

	// Step 8: Wheel, Head, Lift controllers.
	leftPower := s.LeftWheel.Update(leftSpeedMMPS, controlPeriodSeconds)
	rightPower := s.RightWheel.Update(rightSpeedMMPS, controlPeriodSeconds)
	headPower := s.Head.Update(headAngleRad, headSpeedRadps, controlPeriodSeconds)
	liftPower := s.Lift.Update(liftAngleRad, liftSpeedRadps, controlPeriodSeconds)

	if animPlaying {
		if v, ok := animTargets[animation.ActuatorLeftWheel]; ok {
			leftPower = v
		}
		if v, ok := animTargets[animation.ActuatorRightWheel]; ok {
			rightPower = v
		}
		if v, ok := animTargets[animation.ActuatorHead]; ok {
			headPower = v
		}
		if v, ok := animTargets[animation.ActuatorLift]; ok {
			liftPower = v
		}
	}

	s.HAL.MotorSetPower(hal.MotorLeftWheel, leftPower)
	s.HAL.MotorSetPower(hal.MotorRightWheel, rightPower)
	s.HAL.MotorSetPower(hal.MotorHead, headPower)
	s.HAL.MotorSetPower(hal.MotorLift, liftPower)

	// Step 9: emit status.
	s.emitStatus(pose, leftSpeedMMPS, rightSpeedMMPS, liftAngleRad, headAngleRad, imu.RateZRadps)

	s.tick++
}

// updateActiveMode steps exactly one of TestMode/PickAndPlace/Docking/
// PathFollower, chosen by the priority spec.md §8's Arbitration invariant
// fixes: Test Mode overrides everything, Pick-and-Place's own docking leg
// overrides a bare dock command, and the path follower only runs when
// nothing higher-priority claims the tick.
func (s *Scheduler) updateActiveMode(pose posemath.Pose2D, heading float32, odometryDXMM, odometryDThetaRad float32) {
	switch {
	case s.TestMode.Active():
		s.activeMode = ModeTestMode
		s.TestMode.Update(s.tick, s.testModeDeps())

	case s.PickPlace.State() != pickplace.StateIdle && s.PickPlace.State() != pickplace.StateDone && s.PickPlace.State() != pickplace.StateFailed:
		s.activeMode = ModePickAndPlace
		// Docking only drives the Steering Controller while PickAndPlace is
		// still in its Approaching leg; once it hands off to Engaging/
		// Lifting/Retreating, PickPlace.Update itself owns Steer for the
		// retreat move and must not be fought by a stale Docking.Update.
		approaching := s.PickPlace.State() == pickplace.StateApproaching
		s.PickPlace.Update(s.Docking, s.Lift, s.gripper, s.Steer, s.Docking.MarkerVisible(), s.Docking.LastObservation())
		if approaching {
			s.Docking.Update(odometryDXMM, 0, odometryDThetaRad, s.Steer)
		}

	case s.Docking.State() != docking.StateIdle:
		s.activeMode = ModeDocking
		s.Docking.Update(odometryDXMM, 0, odometryDThetaRad, s.Steer)

	case s.Follower.State() == pathfollower.StateTraversing:
		s.activeMode = ModePathFollower
		bothStalled := s.LeftWheel.Stalled() && s.RightWheel.Stalled()
		s.Follower.Update(pose, heading, bothStalled, s.Steer)

	default:
		s.activeMode = ModeNone
	}
}
