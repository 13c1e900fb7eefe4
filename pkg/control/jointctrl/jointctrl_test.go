package jointctrl

import (
	"testing"

	"github.com/kercre123/victor-sub070/pkg/control/geom"
	"github.com/stretchr/testify/require"
)

func defaultConfig() Config {
	return Config{
		MinAngleRad:            -0.52,
		MaxAngleRad:             1.57,
		MaxVelocityRadps:        3,
		PositionP:               4,
		VelocityP:               0.3,
		VelocityI:               0.1,
		MaxPower:                1,
		InPositionToleranceRad:  0.02,
		InPositionDwellTicks:    10,
	}
}

func simJoint(t *testing.T, c *Controller, ticks int, dt float32) float32 {
	t.Helper()
	angle := float32(0)
	vel := float32(0)
	for i := 0; i < ticks; i++ {
		power := c.Update(angle, vel, dt)
		accel := power * 10
		vel += (accel - vel) * 0.3
		angle += vel * dt
	}
	return angle
}

func TestConvergesToTargetAngle(t *testing.T) {
	t.Parallel()

	c := New(defaultConfig())
	c.SetTargetAngle(1.0)
	got := simJoint(t, c, 3000, 0.005)
	require.InDelta(t, 1.0, got, 0.05)
}

func TestTargetClampedToHardLimits(t *testing.T) {
	t.Parallel()

	c := New(defaultConfig())
	c.SetTargetAngle(5.0)
	require.Equal(t, float32(1.57), c.TargetAngleRad())
	require.ErrorIs(t, c.LastError(), ErrOutOfRange)
}

func TestInPositionRequiresDwell(t *testing.T) {
	t.Parallel()

	c := New(defaultConfig())
	c.SetTargetAngle(0)
	for i := 0; i < 3; i++ {
		c.Update(0, 0, 0.005)
	}
	require.False(t, c.IsInPosition(), "should not yet be in-position before dwell elapses")

	for i := 0; i < 10; i++ {
		c.Update(0, 0, 0.005)
	}
	require.True(t, c.IsInPosition())
}

func TestLiftMappingAnchorsRoundTrip(t *testing.T) {
	t.Parallel()

	g := geom.Default()
	m := NewLiftMapping(g)

	require.InDelta(t, g.LiftLowDockAngleRad, m.HeightToAngle(g.LiftLowDockMM), 1e-6)
	require.InDelta(t, g.LiftCarryAngleRad, m.HeightToAngle(g.LiftCarryMM), 1e-6)
	require.InDelta(t, g.LiftHighDockAngleRad, m.HeightToAngle(g.LiftHighDockMM), 1e-6)

	mid := m.HeightToAngle((g.LiftLowDockMM + g.LiftCarryMM) / 2)
	require.InDelta(t, (g.LiftLowDockAngleRad+g.LiftCarryAngleRad)/2, mid, 1e-5)
}
