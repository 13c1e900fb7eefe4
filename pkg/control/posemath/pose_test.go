package posemath

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAngle(t *testing.T) {
	t.Parallel()

	require.InDelta(t, 0, NormalizeAngle(0), 1e-6)
	require.InDelta(t, math32.Pi, NormalizeAngle(math32.Pi), 1e-6)
	require.InDelta(t, -math32.Pi+0.1, NormalizeAngle(math32.Pi+0.1), 1e-5)
	require.InDelta(t, 0.1, NormalizeAngle(0.1-4*math32.Pi), 1e-5)
}

func TestTranslateMovesAlongHeading(t *testing.T) {
	t.Parallel()

	p := Pose2D{Heading: math32.Pi / 2}
	next := p.Translate(100)

	require.InDelta(t, 0, next.XMM, 1e-3)
	require.InDelta(t, 100, next.YMM, 1e-3)
}

func TestAddSubRoundTrip(t *testing.T) {
	t.Parallel()

	origin := Pose2D{XMM: 10, YMM: -5, Heading: 0.3}
	p := Pose2D{XMM: 42, YMM: 7, Heading: 1.1}

	rel := origin.Sub(p)
	back := origin.Add(rel)

	require.InDelta(t, p.XMM, back.XMM, 1e-3)
	require.InDelta(t, p.YMM, back.YMM, 1e-3)
	require.InDelta(t, p.Heading, back.Heading, 1e-3)
}

func TestClamp(t *testing.T) {
	t.Parallel()

	require.Equal(t, float32(1), Clamp(5, -1, 1))
	require.Equal(t, float32(-1), Clamp(-5, -1, 1))
	require.Equal(t, float32(0), Clamp(0, -1, 1))
}
