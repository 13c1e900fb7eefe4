package animation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleTrack() *Track {
	return &Track{
		ID: 1,
		Keyframes: []Keyframe{
			{TickOffset: 0, DurationTicks: 10, Targets: map[Actuator]float32{ActuatorHead: 0.1}},
			{TickOffset: 10, DurationTicks: 10, Targets: map[Actuator]float32{ActuatorHead: 0.5}},
		},
	}
}

func TestPlaysKeyframesInOrder(t *testing.T) {
	t.Parallel()

	c := New()
	c.Play(sampleTrack(), 100)

	targets, playing := c.Update(100)
	require.True(t, playing)
	require.Equal(t, float32(0.1), targets[ActuatorHead])

	targets, playing = c.Update(112)
	require.True(t, playing)
	require.Equal(t, float32(0.5), targets[ActuatorHead])
}

func TestFinishesAfterFinalKeyframeDuration(t *testing.T) {
	t.Parallel()

	c := New()
	c.Play(sampleTrack(), 0)

	_, playing := c.Update(21)
	require.False(t, playing)
	require.False(t, c.IsPlaying())
}

func TestStopReleasesOwnershipImmediately(t *testing.T) {
	t.Parallel()

	c := New()
	c.Play(sampleTrack(), 0)
	c.Stop()

	_, playing := c.Update(1)
	require.False(t, playing)
}
