package pickplace

import (
	"testing"

	"github.com/kercre123/victor-sub070/pkg/control/docking"
	"github.com/kercre123/victor-sub070/pkg/control/steering"
	"github.com/stretchr/testify/require"
)

type fakeLift struct{ inPosition bool }

func (f *fakeLift) SetTargetAngle(float32) {}
func (f *fakeLift) IsInPosition() bool     { return f.inPosition }

type fakeGripper struct{ engaged bool }

func (g *fakeGripper) Engage()  { g.engaged = true }
func (g *fakeGripper) Release() { g.engaged = false }

func TestStartOnlyValidFromIdle(t *testing.T) {
	t.Parallel()

	c := New(DefaultConfig(), func(Action) float32 { return 0 })
	c.Start(Request{Action: PickupHigh})
	require.Equal(t, StateWaitingForMarker, c.State())

	c.Start(Request{Action: PlaceLow})
	require.Equal(t, StateWaitingForMarker, c.State(), "a second Start while active should be ignored")
}

func TestMarkerLossWhileApproachingFails(t *testing.T) {
	t.Parallel()

	cfgStale := docking.DefaultConfig()
	cfgStale.StaleWindowTicks = 0
	cfgStale.FreshnessWindowTicks = 0
	dock := docking.New(cfgStale)
	lift := &fakeLift{}
	gripper := &fakeGripper{}
	steer := steering.New(90)

	c := New(DefaultConfig(), func(Action) float32 { return 1.0 })
	c.Start(Request{Action: PickupHigh})

	// First tick: WaitingForMarker -> Approaching, which starts the
	// docking approach.
	c.Update(dock, lift, gripper, steer, true, docking.Pose{XRelMM: 200})
	require.Equal(t, StateApproaching, c.State())

	// The docking controller immediately loses the target (stale window is
	// zero), so the next tick observes docking.StateLostTarget.
	dock.Update(0, 0, 0, steer)
	require.Equal(t, docking.StateLostTarget, dock.State())

	c.Update(dock, lift, gripper, steer, true, docking.Pose{XRelMM: 200})
	require.Equal(t, StateFailed, c.State())
	step, success := c.LastResult()
	require.Equal(t, StateApproaching, step)
	require.False(t, success)
}

func TestRetreatDrivesReverseThenFinishes(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.EngageDwellTicks = 1
	cfg.RetreatTicks = 3
	cfg.RetreatSpeedMMPS = 20

	dock := docking.New(docking.DefaultConfig())
	lift := &fakeLift{inPosition: true}
	gripper := &fakeGripper{}
	steer := steering.New(90)

	c := New(cfg, func(Action) float32 { return 1.0 })
	c.Start(Request{Action: PlaceOnGround})

	// WaitingForMarker -> Approaching (PlaceOnGround needs no marker).
	c.Update(dock, lift, gripper, steer, false, docking.Pose{})
	require.Equal(t, StateApproaching, c.State())

	// Docking locks immediately since ApproachSpeedMMPS etc. aren't
	// exercised here; drive it to Locked directly via a zero-error update.
	dock.Update(0, 0, 0, steer)
	for i := 0; i < 50 && dock.State() != docking.StateLocked; i++ {
		dock.Update(0, 0, 0, steer)
	}
	require.Equal(t, docking.StateLocked, dock.State())

	c.Update(dock, lift, gripper, steer, false, docking.Pose{})
	require.Equal(t, StateEngaging, c.State())

	c.Update(dock, lift, gripper, steer, false, docking.Pose{})
	require.Equal(t, StatePlacing, c.State())
	require.False(t, gripper.engaged, "PlaceOnGround should release, not engage")

	c.Update(dock, lift, gripper, steer, false, docking.Pose{})
	require.Equal(t, StateRetreating, c.State())

	for i := 0; i < int(cfg.RetreatTicks); i++ {
		require.Equal(t, StateRetreating, c.State())
		c.Update(dock, lift, gripper, steer, false, docking.Pose{})
	}

	require.Equal(t, StateDone, c.State())
	_, success := c.LastResult()
	require.True(t, success)
	require.Equal(t, docking.StateIdle, dock.State(), "finishing must release Docking back to Idle")
}

func TestFailedReturnsToIdleOnNextStart(t *testing.T) {
	t.Parallel()

	c := New(DefaultConfig(), func(Action) float32 { return 0 })
	c.Start(Request{Action: PickupHigh})
	c.fail(docking.New(docking.DefaultConfig()), StateApproaching)
	require.Equal(t, StateFailed, c.State())

	c.Start(Request{Action: PlaceOnGround})
	require.Equal(t, StateWaitingForMarker, c.State())
}
