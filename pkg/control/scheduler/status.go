package scheduler

import (
	"github.com/kercre123/victor-sub070/pkg/control/framing"
	"github.com/kercre123/victor-sub070/pkg/control/hal"
	"github.com/kercre123/victor-sub070/pkg/control/posemath"
)

// statusFlag bits populate RobotState.Flags: sticky HAL faults plus the
// wheel-stall bits the HAL itself doesn't know about (spec.md §7 "the
// supervisor sees ... the flag word in each RobotState for sticky sensor/
// actuator faults").
const (
	flagIMUStale uint32 = 1 << iota
	flagMotorEncoderFault
	flagHostLinkReadFault
	flagHostLinkWriteFault
	flagLeftWheelStalled
	flagRightWheelStalled
	flagHeadOutOfRange
	flagLiftOutOfRange
)

// emitStatus is step 9 of the main tick: it assembles this tick's
// RobotState and pushes it to StatusOut. Byte-level encoding and the
// HAL.HostSend call happen entirely in the hostlink context that drains
// StatusOut (spec.md §5) — the tick never touches the host link's bytes
// directly, the same separation drainCommands observes on the inbound side.
func (s *Scheduler) emitStatus(pose posemath.Pose2D, leftSpeedMMPS, rightSpeedMMPS, liftAngleRad, headAngleRad, gyroZRadps float32) {
	faults := s.HAL.Faults()

	var flags uint32
	if faults.Has(hal.FaultIMUStale) {
		flags |= flagIMUStale
	}
	if faults.Has(hal.FaultMotorEncoder) {
		flags |= flagMotorEncoderFault
	}
	if faults.Has(hal.FaultHostLinkRead) {
		flags |= flagHostLinkReadFault
	}
	if faults.Has(hal.FaultHostLinkWrite) {
		flags |= flagHostLinkWriteFault
	}
	if s.LeftWheel.Stalled() {
		flags |= flagLeftWheelStalled
	}
	if s.RightWheel.Stalled() {
		flags |= flagRightWheelStalled
	}
	if s.Head.LastError() != nil {
		flags |= flagHeadOutOfRange
	}
	if s.Lift.LastError() != nil {
		flags |= flagLiftOutOfRange
	}

	state := framing.RobotState{
		PoseXMM:            pose.XMM,
		PoseYMM:            pose.YMM,
		PoseHeadingRad:     pose.Heading,
		LeftSpeedMMPS:      leftSpeedMMPS,
		RightSpeedMMPS:     rightSpeedMMPS,
		LiftHeightMM:       s.LiftMapping.AngleToHeight(liftAngleRad),
		HeadAngleRad:       headAngleRad,
		GyroZRadps:         gyroZRadps,
		BatteryMillivolts:  0,
		Flags:              flags,
		Tick:               s.tick,
	}

	if !s.StatusOut.Push(state) {
		// Status ring full: the hostlink context is falling behind. Non-fatal
		// (spec.md §5 "no controller call may block"); the next DrainStatus
		// catches up and this tick's snapshot is simply not observable.
	}
}
