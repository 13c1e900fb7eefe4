package motion

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPID1DConvergesToTarget(t *testing.T) {
	t.Parallel()

	pid := NewPID1D(0.8, 0.2, 0.0, -100, 100)
	pid.Init(0)
	pid.Target = 10

	measurement := float32(0)
	for i := 0; i < 3000; i++ {
		out := pid.Update(measurement, 0.005)
		measurement += out * 0.005
	}
	require.InDelta(t, 10, measurement, 0.5)
}

func TestAccelRampRespectsRate(t *testing.T) {
	t.Parallel()

	r := AccelRamp{Value: 0, Target: 100}
	got := r.Step(200, 0.1) // max delta = 20
	require.InDelta(t, 20, got, 1e-6)
}

func TestAccelRampInstantaneous(t *testing.T) {
	t.Parallel()

	r := AccelRamp{Value: 0, Target: 50}
	require.Equal(t, float32(50), r.Step(0, 1))
}

func TestTrapezoidalProfileReachesEndSpeedAtTotal(t *testing.T) {
	t.Parallel()

	const total, cruise, accel, decel = float32(300), float32(100), float32(200), float32(200)
	v := TrapezoidalProfile(total, total, 0, cruise, 0, accel, decel)
	require.InDelta(t, 0, v, 1e-3)
}

func TestTrapezoidalProfileRampsUpFromZero(t *testing.T) {
	t.Parallel()

	v := TrapezoidalProfile(0, 300, 0, 100, 0, 200, 200)
	require.InDelta(t, 0, v, 1e-6)

	vMid := TrapezoidalProfile(10, 300, 0, 100, 0, 200, 200)
	require.Greater(t, vMid, float32(0))
	require.LessOrEqual(t, vMid, float32(100))
}
