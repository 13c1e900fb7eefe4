package localization

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/kercre123/victor-sub070/pkg/control/posemath"
	"github.com/stretchr/testify/require"
)

func TestStraightDriveAccumulatesX(t *testing.T) {
	t.Parallel()

	l := New()
	for i := 0; i < 100; i++ {
		l.Update(0.1, 0.1, 13.0, 0)
	}
	pose := l.Pose()
	require.InDelta(t, 130.0, pose.XMM, 1e-2)
	require.InDelta(t, 0, pose.YMM, 1e-6)
}

func TestSetPoseIsImmediatelyVisible(t *testing.T) {
	t.Parallel()

	l := New()
	want := posemath.Pose2D{XMM: 42, YMM: -7, Heading: 1.2}
	l.SetPose(want)
	require.Equal(t, want, l.Pose())
}

func TestTurnThenDriveMovesAlongNewHeading(t *testing.T) {
	t.Parallel()

	l := New()
	l.Update(0, 0, 13.0, math32.Pi/2)
	l.Update(1.0, 1.0, 13.0, math32.Pi/2)

	pose := l.Pose()
	require.InDelta(t, 0, pose.XMM, 1e-3)
	require.InDelta(t, 13.0, pose.YMM, 1e-3)
}

func TestResetReturnsToOrigin(t *testing.T) {
	t.Parallel()

	l := New()
	l.SetPose(posemath.Pose2D{XMM: 1, YMM: 1, Heading: 1})
	l.Reset()
	require.Equal(t, posemath.Pose2D{}, l.Pose())
}
