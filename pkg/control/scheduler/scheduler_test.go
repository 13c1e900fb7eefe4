package scheduler

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kercre123/victor-sub070/pkg/control/docking"
	"github.com/kercre123/victor-sub070/pkg/control/framing"
	"github.com/kercre123/victor-sub070/pkg/control/geom"
	"github.com/kercre123/victor-sub070/pkg/control/hal"
	"github.com/kercre123/victor-sub070/pkg/control/hostlink"
	"github.com/kercre123/victor-sub070/pkg/control/pathfollower"
	"github.com/kercre123/victor-sub070/pkg/control/pickplace"
)

const testDT = float32(0.005)

// injectFrame encodes tag/payload as a real wire frame and queues it on the
// SimHAL's inbound byte pipe, exercising the same path a supervisor's bytes
// take through hostlink and drainCommands.
func injectFrame(t *testing.T, h *hal.SimHAL, tag framing.Tag, marshal func([]byte) int) {
	t.Helper()
	var payload [64]byte
	n := marshal(payload[:])

	var frameBuf [96]byte
	sz, err := framing.Encode(frameBuf[:], tag, payload[:n])
	require.NoError(t, err)
	h.InjectHostFrame(append([]byte(nil), frameBuf[:sz]...))
}

type testRig struct {
	sched  *Scheduler
	simHAL *hal.SimHAL
	link   *hostlink.Link
	g      geom.Geometry
}

func newTestRig(t *testing.T) *testRig {
	t.Helper()
	g := geom.Default()
	simHAL := hal.NewSimHAL()
	return &testRig{
		sched:  New(simHAL, g),
		simHAL: simHAL,
		link:   hostlink.New(simHAL),
		g:      g,
	}
}

// step drains any pending host frames onto CommandsIn, synthesizes this
// tick's gyro-Z rate from the previous tick's wheel speeds (the turn rate a
// differential-drive base would actually produce), runs one control period,
// and advances the simulated plant.
func (r *testRig) step() {
	r.link.PollCommands(r.sched.CommandsIn)

	leftMMPS := r.simHAL.MotorGetSpeed(hal.MotorLeftWheel) * r.g.WheelRadiusMM
	rightMMPS := r.simHAL.MotorGetSpeed(hal.MotorRightWheel) * r.g.WheelRadiusMM
	omega := (rightMMPS - leftMMPS) / r.g.WheelBaseMM
	r.simHAL.SetIMU(hal.IMUSample{RateZRadps: omega})

	r.sched.RunTick()
	r.simHAL.Step(testDT)
}

func (r *testRig) steps(n int) {
	for i := 0; i < n; i++ {
		r.step()
	}
}

func absF(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func TestScheduler_StraightDrivePath(t *testing.T) {
	r := newTestRig(t)

	injectFrame(t, r.simHAL, framing.TagAppendPathSegment, func(b []byte) int {
		m := framing.AppendPathSegment{Kind: 0, A: 0, B: 0, C: 300, D: 0,
			TargetSpeedMMPS: 100, AccelMMPS2: 200, DecelMMPS2: 200}
		m.Marshal(b[:m.Size()])
		return m.Size()
	})
	injectFrame(t, r.simHAL, framing.TagStartPath, func(b []byte) int { return 0 })

	const maxTicks = 3000
	for i := 0; i < maxTicks; i++ {
		r.step()
		if r.sched.Follower.State() == pathfollower.StateCompleted {
			break
		}
	}

	require.Equal(t, pathfollower.StateCompleted, r.sched.Follower.State(),
		"a 300mm straight segment should finish well within the tick budget")

	pose := r.sched.Localization.Pose()
	require.Greater(t, pose.XMM, float32(150), "robot should have made substantial forward progress")
	require.Less(t, pose.XMM, float32(400), "robot should not overshoot the 300mm segment by a large margin")
	require.Less(t, absF(pose.YMM), float32(20), "a straight line segment should not accumulate large lateral drift")

	// Speed-clamp invariant (spec.md §8) must hold throughout a normal run.
	require.LessOrEqual(t, absF(r.simHAL.MotorGetSpeed(hal.MotorLeftWheel)*r.g.WheelRadiusMM), r.g.MaxWheelSpeedMMPS+1)
	require.LessOrEqual(t, absF(r.simHAL.MotorGetSpeed(hal.MotorRightWheel)*r.g.WheelRadiusMM), r.g.MaxWheelSpeedMMPS+1)
}

func TestScheduler_PointTurn(t *testing.T) {
	r := newTestRig(t)

	const targetHeading = float32(1.5708) // +90 degrees
	injectFrame(t, r.simHAL, framing.TagPointTurn, func(b []byte) int {
		m := framing.PointTurn{TargetHeadingRad: targetHeading, AngularVelRadps: 1.0, AngularAccelRadps2: 2.0, AngularDecelRadps2: 2.0}
		m.Marshal(b[:m.Size()])
		return m.Size()
	})

	r.steps(1500)

	heading := r.sched.Localization.Pose().Heading
	require.InDelta(t, targetHeading, heading, 0.3, "point turn should converge close to the commanded heading")

	require.LessOrEqual(t, absF(r.simHAL.MotorGetSpeed(hal.MotorLeftWheel)*r.g.WheelRadiusMM), r.g.MaxWheelSpeedMMPS+1)
	require.LessOrEqual(t, absF(r.simHAL.MotorGetSpeed(hal.MotorRightWheel)*r.g.WheelRadiusMM), r.g.MaxWheelSpeedMMPS+1)
}

func TestScheduler_PointTurnToCurrentHeadingIsNoOp(t *testing.T) {
	r := newTestRig(t)

	injectFrame(t, r.simHAL, framing.TagPointTurn, func(b []byte) int {
		m := framing.PointTurn{TargetHeadingRad: 0, AngularVelRadps: 1.0, AngularAccelRadps2: 2.0, AngularDecelRadps2: 2.0}
		m.Marshal(b[:m.Size()])
		return m.Size()
	})

	r.steps(50)

	pose := r.sched.Localization.Pose()
	require.Less(t, absF(pose.XMM), float32(5))
	require.Less(t, absF(pose.YMM), float32(5))
	require.Less(t, absF(pose.Heading), float32(0.05))
}

func TestScheduler_ResetIsIdempotent(t *testing.T) {
	r := newTestRig(t)

	injectFrame(t, r.simHAL, framing.TagSetLiftHeight, func(b []byte) int {
		m := framing.SetLiftHeight{HeightMM: 80}
		m.Marshal(b[:m.Size()])
		return m.Size()
	})
	r.steps(5)

	injectFrame(t, r.simHAL, framing.TagReset, func(b []byte) int { return 0 })
	r.step()
	poseAfterFirstReset := r.sched.Localization.Pose()

	injectFrame(t, r.simHAL, framing.TagReset, func(b []byte) int { return 0 })
	r.step()
	poseAfterSecondReset := r.sched.Localization.Pose()

	require.Equal(t, poseAfterFirstReset, poseAfterSecondReset)
	require.Equal(t, pathfollower.StateIdle, r.sched.Follower.State())
}

// TestScheduler_ResetCancelsPickAndPlace confirms a supervisor Reset issued
// mid-manipulation returns both PickPlace and the Docking instance it
// borrowed to Idle, rather than leaving them to resume on the next tick.
func TestScheduler_ResetCancelsPickAndPlace(t *testing.T) {
	r := newTestRig(t)

	injectFrame(t, r.simHAL, framing.TagPickAndPlace, func(b []byte) int {
		m := framing.PickAndPlace{MarkerID: 1, Action: 4} // PlaceOnGround, needs no marker
		m.Marshal(b[:m.Size()])
		return m.Size()
	})
	r.steps(2)
	require.NotEqual(t, pickplace.StateIdle, r.sched.PickPlace.State())
	require.NotEqual(t, docking.StateIdle, r.sched.Docking.State())

	injectFrame(t, r.simHAL, framing.TagReset, func(b []byte) int { return 0 })
	r.step()

	require.Equal(t, pickplace.StateIdle, r.sched.PickPlace.State())
	require.Equal(t, docking.StateIdle, r.sched.Docking.State())
}
