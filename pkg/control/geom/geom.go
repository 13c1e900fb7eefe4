// Package geom carries the calibrated, compile-time geometric constants the
// rest of the control core is built against: wheel radius, wheelbase, lift
// kinematics, head mount offset, and the control period. See spec.md §6.
package geom

import "time"

// ControlPeriod is the nominal main-tick period (spec.md §4.12).
const ControlPeriod = 5 * time.Millisecond

// Geometry holds the calibrated constants a deployed robot is built with.
// Values are approximate defaults suitable for the simulator; a real robot
// overrides them at construction time, never at runtime.
type Geometry struct {
	WheelRadiusMM float32 `yaml:"wheel_radius_mm"` // wheel radius, used by Localization and Steering
	WheelBaseMM   float32 `yaml:"wheel_base_mm"`   // distance between the two driven wheels

	MaxWheelSpeedMMPS float32 `yaml:"max_wheel_speed_mmps"` // commanded-speed clamp (spec.md §8 speed clamp)
	MaxWheelPower     float32 `yaml:"max_wheel_power"`      // max commandable motor power, 0..1

	HeadMinAngleRad float32 `yaml:"head_min_angle_rad"`
	HeadMaxAngleRad float32 `yaml:"head_max_angle_rad"`

	LiftMinAngleRad float32 `yaml:"lift_min_angle_rad"`
	LiftMaxAngleRad float32 `yaml:"lift_max_angle_rad"`

	// Lift height anchors (mm), mapped to LiftLowDockAngleRad..LiftHighDockAngleRad
	// by piecewise-linear interpolation (see jointctrl.HeightToAngle).
	LiftLowDockMM  float32 `yaml:"lift_low_dock_mm"`
	LiftCarryMM    float32 `yaml:"lift_carry_mm"`
	LiftHighDockMM float32 `yaml:"lift_high_dock_mm"`

	// LiftLowDockAngleRad etc. are the joint angles at each height anchor.
	LiftLowDockAngleRad  float32 `yaml:"lift_low_dock_angle_rad"`
	LiftCarryAngleRad    float32 `yaml:"lift_carry_angle_rad"`
	LiftHighDockAngleRad float32 `yaml:"lift_high_dock_angle_rad"`
}

// Default returns a plausible default geometry, calibrated the way
// testModeController.cpp's open-loop power/speed tables imply: a small
// tracked base with a ~13mm wheel radius and ~90mm wheelbase.
func Default() Geometry {
	return Geometry{
		WheelRadiusMM:     13.0,
		WheelBaseMM:       90.0,
		MaxWheelSpeedMMPS: 220.0,
		MaxWheelPower:     1.0,

		HeadMinAngleRad: -0.46,
		HeadMaxAngleRad: 0.78,

		LiftMinAngleRad: -0.52,
		LiftMaxAngleRad: 1.57,

		LiftLowDockMM:  32.0,
		LiftCarryMM:    80.0,
		LiftHighDockMM: 92.0,

		LiftLowDockAngleRad:  -0.48,
		LiftCarryAngleRad:    0.62,
		LiftHighDockAngleRad: 1.49,
	}
}
