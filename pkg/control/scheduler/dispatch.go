package scheduler

import (
	"github.com/kercre123/victor-sub070/pkg/control/docking"
	"github.com/kercre123/victor-sub070/pkg/control/framing"
	"github.com/kercre123/victor-sub070/pkg/control/hal"
	"github.com/kercre123/victor-sub070/pkg/control/pickplace"
	"github.com/kercre123/victor-sub070/pkg/control/testmode"
	"github.com/kercre123/victor-sub070/pkg/logger"
)

// drainCommands is step 4 of the main tick (spec.md §4.12): it drains every
// frame the hostlink context has already decoded onto CommandsIn and routes
// each to the controller it addresses. Byte-level framing happens entirely
// in the separate, lower-priority hostlink context (spec.md §5); the tick
// itself never touches raw bytes, so it cannot stall on a partial frame.
func (s *Scheduler) drainCommands() {
	for {
		frame, ok := s.CommandsIn.Pop()
		if !ok {
			return
		}
		s.dispatch(frame)
	}
}

func (s *Scheduler) dispatch(f framing.Frame) {
	switch f.Tag {
	case framing.TagDriveWheels:
		var m framing.DriveWheels
		if !s.unmarshal(f, &m) {
			return
		}
		s.Steer.DriveWheels(m.LeftSpeedMMPS, m.RightSpeedMMPS, m.LeftAccelMMPS2, m.RightAccelMMPS2)

	case framing.TagDriveArc:
		var m framing.DriveArc
		if !s.unmarshal(f, &m) {
			return
		}
		s.Steer.DriveArc(m.CurvaturePerMM, m.SpeedMMPS, m.AccelMMPS2)

	case framing.TagPointTurn:
		var m framing.PointTurn
		if !s.unmarshal(f, &m) {
			return
		}
		s.Steer.PointTurnTo(m.TargetHeadingRad, m.AngularVelRadps, m.AngularAccelRadps2, m.AngularDecelRadps2)

	case framing.TagStartPath:
		s.Steer.EnterFollow()
		if err := s.Follower.StartTraversal(); err != nil {
			logger.Log.Warn().Err(err).Msg("StartPath rejected")
		}

	case framing.TagAppendPathSegment:
		var m framing.AppendPathSegment
		if !s.unmarshal(f, &m) {
			return
		}
		path := s.Follower.Path()
		var err error
		switch m.Kind {
		case 0:
			err = path.AppendLine(m.A, m.B, m.C, m.D, m.TargetSpeedMMPS, m.AccelMMPS2, m.DecelMMPS2)
		case 1:
			err = path.AppendArc(m.A, m.B, m.C, m.D, m.E, m.TargetSpeedMMPS, m.AccelMMPS2, m.DecelMMPS2)
		case 2:
			err = path.AppendPointTurn(m.A, m.TargetSpeedMMPS, m.AccelMMPS2, m.DecelMMPS2)
		}
		if err != nil {
			logger.Log.Warn().Err(err).Msg("AppendPathSegment rejected")
		}

	case framing.TagClearPath:
		s.Follower.Reset()

	case framing.TagSetHeadAngle:
		var m framing.SetHeadAngle
		if !s.unmarshal(f, &m) {
			return
		}
		s.Head.SetTargetAngle(m.AngleRad)

	case framing.TagSetLiftHeight:
		var m framing.SetLiftHeight
		if !s.unmarshal(f, &m) {
			return
		}
		s.Lift.SetTargetAngle(s.LiftMapping.HeightToAngle(m.HeightMM))

	case framing.TagStartDock:
		var m framing.StartDock
		if !s.unmarshal(f, &m) {
			return
		}
		s.Docking.Start(docking.Pose{}, s.Steer)
		// MarkerID/MarkerWidthMM/SpeedOverride are unused here: this core has
		// no marker registry to resolve an id against and no per-marker size
		// table to scale an observation by (that's the vision pipeline's
		// job, outside this core's scope, spec.md §1). Until the first real
		// framing.TagVisionMarkerObservation arrives, Docking's everObserved
		// stays false, so IsLocked cannot report a vacuous lock at the seeded
		// zero pose (spec.md §4.8, §4.9 "Docking::is_locked").
		_ = m

	case framing.TagCancelDock:
		s.Docking.Cancel()
		s.Steer.Idle()

	case framing.TagPickAndPlace:
		var m framing.PickAndPlace
		if !s.unmarshal(f, &m) {
			return
		}
		s.PickPlace.Start(pickplace.Request{TargetMarker: m.MarkerID, Action: pickplace.Action(m.Action)})

	case framing.TagPlayAnimation:
		var m framing.PlayAnimation
		if !s.unmarshal(f, &m) {
			return
		}
		if track, ok := s.animationLibrary[m.ID]; ok {
			s.Animation.Play(track, s.tick)
		}

	case framing.TagStopAnimation:
		s.Animation.Stop()

	case framing.TagSetLED:
		var m framing.SetLED
		if !s.unmarshal(f, &m) {
			return
		}
		s.HAL.SetLED(hal.LEDChannel(m.Channel), hal.RGBA{R: m.R, G: m.G, B: m.B, A: m.A})

	case framing.TagStartTestMode:
		var m framing.StartTestMode
		if !s.unmarshal(f, &m) {
			return
		}
		desc := testmode.Descriptor{ID: testmode.ID(m.ID), P1: m.P1, P2: m.P2, P3: m.P3}
		s.TestMode.Start(desc, s.testModeDeps())
		if desc.ID == testmode.IDPathFollowDemo {
			if err := testmode.BuildDockPathDemo(s.Follower, s.Steer, float32(m.P1), float32(m.P2)); err != nil {
				logger.Log.Warn().Err(err).Msg("test-mode path-follow demo rejected")
			}
		}

	case framing.TagVisionMarkerObservation:
		var m framing.VisionMarkerObservation
		if !s.unmarshal(f, &m) {
			return
		}
		s.Docking.ObserveMarker(docking.Pose{XRelMM: m.XRelMM, YRelMM: m.YRelMM, ThetaRelRad: m.ThetaRelRad})

	case framing.TagReset:
		s.reset()

	default:
		s.protocolErrors++
		logger.Log.Warn().Uint8("tag", uint8(f.Tag)).Msg("unrecognized inbound tag")
	}
}

// unmarshal decodes payload into a fixed-layout message, counting and
// logging undersized payloads as a protocol error rather than panicking on
// a short slice.
func (s *Scheduler) unmarshal(f framing.Frame, dst interface {
	Size() int
	Unmarshal([]byte)
}) bool {
	if len(f.Payload) < dst.Size() {
		s.protocolErrors++
		logger.Log.Warn().Uint8("tag", uint8(f.Tag)).Int("len", len(f.Payload)).Msg("undersized inbound payload")
		return false
	}
	dst.Unmarshal(f.Payload)
	return true
}

// reset returns every owned subsystem to its boot state (spec.md §6 Reset).
func (s *Scheduler) reset() {
	s.Localization.Reset()
	s.IMUFilter.Reset()
	s.Steer.Idle()
	s.Follower.Reset()
	s.PickPlace.Cancel(s.Docking) // also cancels Docking if PickAndPlace had borrowed it
	s.Animation.Stop()
	s.TestMode.Stop(s.testModeDeps())
}
