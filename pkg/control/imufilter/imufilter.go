// Package imufilter integrates gyro-Z rate into an unwrapped heading,
// rejecting integration drift at rest and tolerating stale IMU samples
// (spec.md §4.2).
package imufilter

import "github.com/kercre123/victor-sub070/pkg/control/posemath"

// Config carries the compile-time-calibrated constants the filter is built
// with (spec.md §6 Geometric constants: "IMU rate-deadband threshold").
type Config struct {
	// DeadbandRadps is the gyro-Z rate magnitude below which the sample is
	// treated as exactly zero once it has held for DeadbandWindowTicks.
	DeadbandRadps float32
	// DeadbandWindowTicks is how many consecutive below-threshold ticks are
	// required before the deadband engages.
	DeadbandWindowTicks uint32
	// OdometricBlendWeight blends an externally supplied odometric rate
	// estimate into the gyro rate on every tick while it is nonzero; Update
	// does not check whether the wheel speeds agree before blending.
	// 0 disables blending, which is the default per spec.md §4.2.
	OdometricBlendWeight float32
}

// DefaultConfig returns a plausible default: a tight deadband, a short
// settle window, and no odometric blending.
func DefaultConfig() Config {
	return Config{
		DeadbandRadps:         0.01,
		DeadbandWindowTicks:   20,
		OdometricBlendWeight:  0,
	}
}

// Filter produces a drift-corrected yaw by integrating gyro-Z rate each
// tick.
type Filter struct {
	cfg Config

	headingRad   float32
	lastRateRadps float32
	belowDeadbandTicks uint32

	stale bool
}

// New returns a Filter starting at heading zero.
func New(cfg Config) *Filter {
	return &Filter{cfg: cfg}
}

// Reset zeroes the integrated heading and deadband state (called on boot or
// supervisor Reset).
func (f *Filter) Reset() {
	f.headingRad = 0
	f.lastRateRadps = 0
	f.belowDeadbandTicks = 0
	f.stale = false
}

// Update advances the filter by one tick. rateZRadps/sampleFresh come from
// the HAL's latest IMU sample; odometricRateRadps is Localization's
// wheel-odometry-derived yaw rate estimate for the same tick, used only
// when OdometricBlendWeight > 0. It returns the updated heading, normalized
// to (-pi, pi].
func (f *Filter) Update(dtSeconds, rateZRadps float32, sampleFresh bool, odometricRateRadps float32) float32 {
	rate := rateZRadps
	if !sampleFresh {
		// Zero-order hold: reuse the previous rate and flag the transient
		// fault. The fault clears the tick fresh samples resume (spec.md
		// §4.2 failure semantics).
		rate = f.lastRateRadps
		f.stale = true
	} else {
		f.stale = false
	}

	if abs32(rate) < f.cfg.DeadbandRadps {
		f.belowDeadbandTicks++
		if f.belowDeadbandTicks >= f.cfg.DeadbandWindowTicks {
			rate = 0
		}
	} else {
		f.belowDeadbandTicks = 0
	}

	if f.cfg.OdometricBlendWeight > 0 {
		w := f.cfg.OdometricBlendWeight
		rate = rate*(1-w) + odometricRateRadps*w
	}

	f.lastRateRadps = rate
	f.headingRad = posemath.NormalizeAngle(f.headingRad + rate*dtSeconds)
	return f.headingRad
}

// Heading returns the most recently computed heading without advancing the
// filter.
func (f *Filter) Heading() float32 { return f.headingRad }

// Stale reports whether the most recent Update ran on a held-over sample.
func (f *Filter) Stale() bool { return f.stale }

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
