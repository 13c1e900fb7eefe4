package docking

import (
	"testing"

	"github.com/kercre123/victor-sub070/pkg/control/steering"
	"github.com/stretchr/testify/require"
)

func TestLocksWhenWithinLockDistance(t *testing.T) {
	t.Parallel()

	steer := steering.New(90)
	c := New(DefaultConfig())
	c.Start(Pose{XRelMM: 10, YRelMM: 0, ThetaRelRad: 0}, steer)
	require.False(t, c.IsLocked(), "must not report locked before any observation has arrived")

	c.ObserveMarker(Pose{XRelMM: 10, YRelMM: 0, ThetaRelRad: 0})
	require.True(t, c.IsLocked())

	c.Update(0, 0, 0, steer)
	require.Equal(t, StateLocked, c.State())
}

func TestStaleObservationTransitionsToLostTarget(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.StaleWindowTicks = 3
	cfg.FreshnessWindowTicks = 1
	c := New(cfg)
	steer := steering.New(90)
	c.Start(Pose{XRelMM: 200, YRelMM: 0, ThetaRelRad: 0}, steer)
	c.ObserveMarker(Pose{XRelMM: 200, YRelMM: 0, ThetaRelRad: 0})

	for i := 0; i < 5; i++ {
		c.Update(0, 0, 0, steer)
	}
	require.Equal(t, StateLostTarget, c.State())
}

func TestCancelReturnsToIdle(t *testing.T) {
	t.Parallel()

	c := New(DefaultConfig())
	c.Start(Pose{XRelMM: 200}, steering.New(90))
	c.Cancel()
	require.Equal(t, StateIdle, c.State())
}
