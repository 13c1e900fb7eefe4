package wheelctrl

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// simWheel is a trivial first-order plant: speed chases commanded power.
func simWheel(t *testing.T, c *Controller, ticks int, dt float32) float32 {
	t.Helper()
	speed := float32(0)
	for i := 0; i < ticks; i++ {
		power := c.Update(speed, dt)
		speed += (power*220 - speed) * 0.3
	}
	return speed
}

func TestConvergesToTargetSpeed(t *testing.T) {
	t.Parallel()

	c := New(DefaultConfig())
	c.SetTarget(100, 0)
	got := simWheel(t, c, 2000, 0.005)
	require.InDelta(t, 100, got, 3)
}

func TestSpeedClampedToConfiguredMax(t *testing.T) {
	t.Parallel()

	c := New(DefaultConfig())
	c.SetTarget(10000, 0)
	require.Equal(t, float32(220), c.ramp.Target)
}

func TestDisableBypassesPID(t *testing.T) {
	t.Parallel()

	c := New(DefaultConfig())
	c.Disable(0.5)
	power := c.Update(0, 0.005)
	require.Equal(t, float32(0.5), power)
}

func TestStallDetectedWhenCommandedButNotMoving(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.StallTicks = 5
	c := New(cfg)
	c.SetTarget(100, 0)
	for i := 0; i < 10; i++ {
		c.Update(0, 0.005) // wheel never actually moves
	}
	require.True(t, c.Stalled())
}
