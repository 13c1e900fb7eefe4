// Package posemath implements the planar SE(2) pose arithmetic used by
// Localization and every motion controller above it (spec.md §3 Pose2D).
package posemath

import "github.com/chewxy/math32"

// Pose2D is a planar pose (x_mm, y_mm, heading_rad). Heading is kept
// normalized to (-pi, pi].
type Pose2D struct {
	XMM     float32
	YMM     float32
	Heading float32
}

// NormalizeAngle wraps a radian angle into (-pi, pi].
func NormalizeAngle(a float32) float32 {
	const twoPi = 2 * math32.Pi
	for a > math32.Pi {
		a -= twoPi
	}
	for a <= -math32.Pi {
		a += twoPi
	}
	return a
}

// Add composes two poses as SE(2) transforms: the result is `other` expressed
// in the frame of `p`, then transformed into the world frame that `p` lives
// in.
func (p Pose2D) Add(other Pose2D) Pose2D {
	sin, cos := math32.Sincos(p.Heading)
	return Pose2D{
		XMM:     p.XMM + other.XMM*cos - other.YMM*sin,
		YMM:     p.YMM + other.XMM*sin + other.YMM*cos,
		Heading: NormalizeAngle(p.Heading + other.Heading),
	}
}

// Sub returns the pose of `p` expressed in the frame of `origin`: the
// inverse of Add, i.e. origin.Add(origin.Sub(p)) == p.
func (origin Pose2D) Sub(p Pose2D) Pose2D {
	dx := p.XMM - origin.XMM
	dy := p.YMM - origin.YMM
	sin, cos := math32.Sincos(origin.Heading)
	return Pose2D{
		XMM:     dx*cos + dy*sin,
		YMM:     -dx*sin + dy*cos,
		Heading: NormalizeAngle(p.Heading - origin.Heading),
	}
}

// Translate moves the pose forward by `distanceMM` along its current
// heading, without changing heading. Used by Localization's per-tick
// odometry integration (spec.md §4.3).
func (p Pose2D) Translate(distanceMM float32) Pose2D {
	sin, cos := math32.Sincos(p.Heading)
	return Pose2D{
		XMM:     p.XMM + distanceMM*cos,
		YMM:     p.YMM + distanceMM*sin,
		Heading: p.Heading,
	}
}

// WithHeading returns a copy of p with heading replaced and normalized.
func (p Pose2D) WithHeading(heading float32) Pose2D {
	p.Heading = NormalizeAngle(heading)
	return p
}

// Clamp clamps v into [min, max].
func Clamp(v, min, max float32) float32 {
	switch {
	case v < min:
		return min
	case v > max:
		return max
	default:
		return v
	}
}
