package jointctrl

import "github.com/kercre123/victor-sub070/pkg/control/geom"

// LiftMapping converts between lift height (mm) and joint angle (rad) by
// piecewise-linear interpolation between the three calibrated anchors
// {LOW_DOCK, CARRY, HIGH_DOCK} (spec.md §4.5, §3 JointState).
type LiftMapping struct {
	g geom.Geometry
}

// NewLiftMapping returns a LiftMapping for the given calibrated geometry.
func NewLiftMapping(g geom.Geometry) LiftMapping { return LiftMapping{g: g} }

// HeightToAngle maps a height in mm to the corresponding joint angle,
// clamping to the LOW_DOCK/HIGH_DOCK anchor range.
func (m LiftMapping) HeightToAngle(heightMM float32) float32 {
	g := m.g
	switch {
	case heightMM <= g.LiftLowDockMM:
		return g.LiftLowDockAngleRad
	case heightMM <= g.LiftCarryMM:
		t := (heightMM - g.LiftLowDockMM) / (g.LiftCarryMM - g.LiftLowDockMM)
		return lerp(g.LiftLowDockAngleRad, g.LiftCarryAngleRad, t)
	case heightMM <= g.LiftHighDockMM:
		t := (heightMM - g.LiftCarryMM) / (g.LiftHighDockMM - g.LiftCarryMM)
		return lerp(g.LiftCarryAngleRad, g.LiftHighDockAngleRad, t)
	default:
		return g.LiftHighDockAngleRad
	}
}

// AngleToHeight is the inverse of HeightToAngle, used to report
// JointState.height_mm from the measured angle.
func (m LiftMapping) AngleToHeight(angleRad float32) float32 {
	g := m.g
	switch {
	case angleRad <= g.LiftLowDockAngleRad:
		return g.LiftLowDockMM
	case angleRad <= g.LiftCarryAngleRad:
		t := (angleRad - g.LiftLowDockAngleRad) / (g.LiftCarryAngleRad - g.LiftLowDockAngleRad)
		return lerp(g.LiftLowDockMM, g.LiftCarryMM, t)
	case angleRad <= g.LiftHighDockAngleRad:
		t := (angleRad - g.LiftCarryAngleRad) / (g.LiftHighDockAngleRad - g.LiftCarryAngleRad)
		return lerp(g.LiftCarryMM, g.LiftHighDockMM, t)
	default:
		return g.LiftHighDockMM
	}
}

func lerp(a, b, t float32) float32 { return a + (b-a)*t }
