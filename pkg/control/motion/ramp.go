package motion

import "github.com/chewxy/math32"

// AccelRamp moves a commanded value toward Target at a bounded rate per
// tick, the "ramps the commanded speed toward the target at at most accel
// per tick" behavior the Wheel Controller and the Path Follower's trapezoid
// profile both need (spec.md §4.4, §4.7). A maxRate <= 0 passed to Step
// means step immediately to Target, matching "0 ⇒ instantaneous" in spec.md §4.4.
type AccelRamp struct {
	Value  float32
	Target float32
}

// Step advances Value toward Target by at most maxRate*dt, and returns the
// new Value. maxRate <= 0 means an instantaneous step.
func (r *AccelRamp) Step(maxRate, dt float32) float32 {
	if maxRate <= 0 {
		r.Value = r.Target
		return r.Value
	}
	delta := r.Target - r.Value
	maxStep := maxRate * dt
	switch {
	case delta > maxStep:
		r.Value += maxStep
	case delta < -maxStep:
		r.Value -= maxStep
	default:
		r.Value = r.Target
	}
	return r.Value
}

// TrapezoidalProfile computes the commanded speed at along-track distance
// `traveled` out of `total`, starting at `startSpeed` and ending at
// `endSpeed`, cruising at `cruiseSpeed`, ramping at `accel`/`decel`
// (magnitudes). It is used by the Path Follower to synthesize a speed that
// reaches endSpeed exactly at distance == total (spec.md §4.7 step 4).
//
// All speeds/accel are magnitudes; callers apply the direction-of-travel
// sign to the result themselves, since a segment's direction is encoded
// once at the steering layer.
func TrapezoidalProfile(traveled, total, startSpeed, cruiseSpeed, endSpeed, accel, decel float32) float32 {
	if total <= 0 {
		return endSpeed
	}
	if accel <= 0 {
		accel = 1e6
	}
	if decel <= 0 {
		decel = 1e6
	}

	// Distance needed to decelerate from cruiseSpeed down to endSpeed.
	decelDist := (cruiseSpeed*cruiseSpeed - endSpeed*endSpeed) / (2 * decel)
	if decelDist < 0 {
		decelDist = 0
	}
	brakeStart := total - decelDist
	if brakeStart < 0 {
		brakeStart = 0
	}

	if traveled >= brakeStart {
		remaining := total - traveled
		if remaining < 0 {
			remaining = 0
		}
		v := math32.Sqrt(endSpeed*endSpeed + 2*decel*remaining)
		if v > cruiseSpeed {
			v = cruiseSpeed
		}
		return v
	}

	// Accelerating / cruising phase.
	v := math32.Sqrt(startSpeed*startSpeed + 2*accel*traveled)
	if v > cruiseSpeed {
		v = cruiseSpeed
	}
	return v
}
