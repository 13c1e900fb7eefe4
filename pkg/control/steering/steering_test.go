package steering

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/require"
)

func TestDirectDrivePassesThrough(t *testing.T) {
	t.Parallel()

	c := New(90)
	c.DriveWheels(100, -50, 200, 200)
	got := c.Update(0)
	require.Equal(t, WheelTargets{100, -50, 200, 200}, got)
}

func TestArcStraightGivesEqualWheelSpeeds(t *testing.T) {
	t.Parallel()

	c := New(90)
	c.DriveArc(0, 100, 200)
	got := c.Update(0)
	require.InDelta(t, 100, got.LeftSpeedMMPS, 1e-6)
	require.InDelta(t, 100, got.RightSpeedMMPS, 1e-6)
}

func TestPointTurnOppositeEqualMagnitude(t *testing.T) {
	t.Parallel()

	c := New(90)
	c.PointTurnTo(math32.Pi/2, 1.0, 5, 5)
	got := c.Update(0)
	require.InDelta(t, -got.LeftSpeedMMPS, got.RightSpeedMMPS, 1e-6)
	require.NotEqual(t, float32(0), got.LeftSpeedMMPS)
}

func TestPointTurnCompletesAtTarget(t *testing.T) {
	t.Parallel()

	c := New(90)
	c.PointTurnTo(0.5, 1.0, 5, 5)
	got := c.Update(0.5)
	require.Equal(t, WheelTargets{}, got)
	require.Equal(t, ModeIdle, c.Mode())
}

func TestNewModeCancelsPrevious(t *testing.T) {
	t.Parallel()

	c := New(90)
	c.DriveWheels(50, 50, 0, 0)
	c.DriveArc(0, 10, 10)
	require.Equal(t, ModeArc, c.Mode())
}
