// Package localization maintains the robot's pose on the mat by integrating
// wheel odometry weighted by the IMU filter's heading (spec.md §4.3).
package localization

import "github.com/kercre123/victor-sub070/pkg/control/posemath"

// Localization owns the single pose all motion controllers read. Position
// grows without bound; heading is always normalized.
type Localization struct {
	pose posemath.Pose2D
}

// New returns a Localization starting at the origin pose.
func New() *Localization {
	return &Localization{}
}

// Update performs one tick of odometry integration (spec.md §4.3 steps 1-3):
// forward distance is the mean of the two wheel displacements scaled by
// wheel radius, heading comes from the IMU filter (the single source of
// truth Localization and IMU Filter share for a given tick), and position is
// translated along the new heading.
func (l *Localization) Update(deltaLeftRad, deltaRightRad, wheelRadiusMM, headingRad float32) posemath.Pose2D {
	forwardMM := 0.5 * (deltaLeftRad + deltaRightRad) * wheelRadiusMM
	l.pose.Heading = posemath.NormalizeAngle(headingRad)
	l.pose = l.pose.Translate(forwardMM)
	return l.pose
}

// Pose returns the current pose.
func (l *Localization) Pose() posemath.Pose2D { return l.pose }

// SetPose overwrites the pose atomically w.r.t. the control tick (it is
// only ever called from within a tick, never concurrently with Update).
func (l *Localization) SetPose(p posemath.Pose2D) {
	p.Heading = posemath.NormalizeAngle(p.Heading)
	l.pose = p
}

// Reset returns the pose to the origin (boot / supervisor Reset).
func (l *Localization) Reset() {
	l.pose = posemath.Pose2D{}
}
