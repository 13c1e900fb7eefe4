package testmode

import (
	"testing"

	"github.com/kercre123/victor-sub070/pkg/control/hal"
	"github.com/kercre123/victor-sub070/pkg/control/jointctrl"
	"github.com/kercre123/victor-sub070/pkg/control/pathfollower"
	"github.com/kercre123/victor-sub070/pkg/control/posemath"
	"github.com/kercre123/victor-sub070/pkg/control/steering"
	"github.com/kercre123/victor-sub070/pkg/control/wheelctrl"
	"github.com/stretchr/testify/require"
)

func testDeps() Deps {
	return Deps{
		LeftWheel:  wheelctrl.New(wheelctrl.DefaultConfig()),
		RightWheel: wheelctrl.New(wheelctrl.DefaultConfig()),
		Head: jointctrl.New(jointctrl.Config{
			MinAngleRad: -0.46, MaxAngleRad: 0.78, MaxVelocityRadps: 3,
			PositionP: 4, VelocityP: 0.3, VelocityI: 0.1, MaxPower: 1,
			InPositionToleranceRad: 0.02, InPositionDwellTicks: 2,
		}),
		Lift: jointctrl.New(jointctrl.Config{
			MinAngleRad: -0.52, MaxAngleRad: 1.57, MaxVelocityRadps: 3,
			PositionP: 4, VelocityP: 0.3, VelocityI: 0.1, MaxPower: 1,
			InPositionToleranceRad: 0.02, InPositionDwellTicks: 2,
		}),
		Steer:    steering.New(90),
		Follower: pathfollower.New(pathfollower.DefaultConfig()),
		HAL:      hal.NewSimHAL(),
	}
}

func TestDirectDriveRampInPowerModeRamps(t *testing.T) {
	t.Parallel()

	c := New()
	deps := testDeps()
	c.Start(Descriptor{ID: IDDirectDriveRamp, P1: 1, P3: 50}, deps)

	c.Update(0, deps)
	first := c.rampPower
	require.InDelta(t, wheelPowerStep, first, 1e-6)

	for i := 0; i < 20; i++ {
		c.Update(0, deps)
	}
	require.InDelta(t, 0.5, c.rampPower, 1e-6)
}

func TestLEDCycleAdvancesChannels(t *testing.T) {
	t.Parallel()

	c := New()
	deps := testDeps()
	c.Start(Descriptor{ID: IDLEDCycle, P1: 3, P2: 2}, deps)

	for i := 0; i < 5; i++ {
		c.Update(uint32(i), deps)
	}
	require.NotEqual(t, 0, c.ledChannel)
}

func TestStopResetsWheels(t *testing.T) {
	t.Parallel()

	c := New()
	deps := testDeps()
	c.Start(Descriptor{ID: IDDirectDriveRamp, P1: 0, P3: 100}, deps)
	deps.LeftWheel.SetTarget(100, 0)

	c.Stop(deps)
	require.False(t, c.Active())

	deps.LeftWheel.Update(0, 0.005)
	require.InDelta(t, 0, deps.LeftWheel.CommandedSpeedMMPS(), 1e-6, "Stop must zero the wheel speed target")
}

func TestDockPathDemoBuildsFourLegPath(t *testing.T) {
	t.Parallel()

	follower := pathfollower.New(pathfollower.DefaultConfig())
	steer := steering.New(90)
	require.NoError(t, BuildDockPathDemo(follower, steer, 200, 100))
	require.Equal(t, 4, follower.Path().Count())
	require.Equal(t, pathfollower.StateTraversing, follower.State())

	// BuildDockPathDemo must leave steer in follow mode before the first
	// Follower.Update: the Line-segment branch only ever calls
	// steer.FollowArc, which never sets steering.Controller's arbitrated
	// mode, so without EnterFollow the demo's straight legs would never
	// reach the Wheel Controller regardless of what curvature/speed
	// Follower computes.
	require.Equal(t, steering.ModeFollow, steer.Mode())
	follower.Update(posemath.Pose2D{}, 0, false, steer)
	require.Equal(t, steering.ModeFollow, steer.Mode(), "steer must stay in follow mode while the demo traverses")
}
