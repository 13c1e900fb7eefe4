package pathfollower

import (
	"testing"

	"github.com/kercre123/victor-sub070/pkg/control/posemath"
	"github.com/kercre123/victor-sub070/pkg/control/steering"
	"github.com/stretchr/testify/require"
)

func TestAppendRejectsDiscontinuousSegment(t *testing.T) {
	t.Parallel()

	var p Path
	require.NoError(t, p.AppendLine(0, 0, 100, 0, 100, 100, 100))
	err := p.AppendLine(50, 50, 150, 50, 100, 100, 100)
	require.ErrorIs(t, err, ErrDiscontinuous)
}

func TestAppendOverflow(t *testing.T) {
	t.Parallel()

	var p Path
	for i := 0; i < MaxSegments; i++ {
		require.NoError(t, p.AppendLine(float32(i*10), 0, float32(i*10+10), 0, 100, 100, 100))
	}
	err := p.AppendLine(float32(MaxSegments*10), 0, float32(MaxSegments*10+10), 0, 100, 100, 100)
	require.ErrorIs(t, err, ErrPathOverflow)
}

func TestStartTraversalOnEmptyPathFails(t *testing.T) {
	t.Parallel()

	var p Path
	require.ErrorIs(t, p.StartTraversal(), ErrEmptyPath)
}

func TestClearAfterAppendAndStartMatchesBootState(t *testing.T) {
	t.Parallel()

	var p Path
	require.NoError(t, p.AppendLine(0, 0, 100, 0, 100, 100, 100))
	require.NoError(t, p.StartTraversal())
	p.Clear()

	require.Zero(t, p.Count())
	require.Zero(t, p.ActiveIndex())
	require.False(t, p.IsTraversing())
}

func TestDriveStraightCompletesAtTargetDistance(t *testing.T) {
	t.Parallel()

	f := New(DefaultConfig())
	pose := posemath.Pose2D{}
	require.NoError(t, f.DriveStraight(pose, 300, 200, 200, 100))

	steer := steering.New(90)
	steer.EnterFollow()

	const dt = 0.005
	traveled := pose
	for i := 0; i < 20000 && f.State() == StateTraversing; i++ {
		f.Update(traveled, 0, false, steer)
		targets := steer.Update(0)
		speed := (targets.LeftSpeedMMPS + targets.RightSpeedMMPS) / 2
		traveled = traveled.Translate(speed * dt)
	}

	require.Equal(t, StateCompleted, f.State())
	require.InDelta(t, 300, traveled.XMM, 6)
}

func TestStalledBothWheelsAborts(t *testing.T) {
	t.Parallel()

	f := New(DefaultConfig())
	require.NoError(t, f.DriveStraight(posemath.Pose2D{}, 300, 200, 200, 100))
	steer := steering.New(90)
	f.Update(posemath.Pose2D{}, 0, true, steer)
	require.Equal(t, StateAborted, f.State())
}
