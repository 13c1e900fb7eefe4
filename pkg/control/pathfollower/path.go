package pathfollower

import (
	"errors"

	"github.com/chewxy/math32"
)

// MaxSegments is the compile-time segment capacity referenced throughout
// spec.md §3/§9 ("≤ N segments, N a compile-time constant"; "preallocated
// in fixed-size arrays sized at compile time").
const MaxSegments = 16

var (
	// ErrPathOverflow is returned by Append* when the path is already at
	// MaxSegments (spec.md §4.7 failure semantics).
	ErrPathOverflow = errors.New("pathfollower: path is full")
	// ErrEmptyPath is returned by StartTraversal on a path with no segments.
	ErrEmptyPath = errors.New("pathfollower: path is empty")
	// ErrDiscontinuous is returned by Append* when the new segment's start
	// doesn't match the previous segment's end (spec.md §8 boundary
	// behaviour).
	ErrDiscontinuous = errors.New("pathfollower: segment start is discontinuous with previous segment end")
)

const continuityToleranceMM = 0.5

// Path is the fixed-capacity ordered sequence of segments owned exclusively
// by the Path Follower (spec.md §3, §5).
type Path struct {
	segments     [MaxSegments]Segment
	count        int
	activeIndex  int
	isTraversing bool
}

// Count returns the number of appended segments.
func (p *Path) Count() int { return p.count }

// ActiveIndex returns the currently active segment index.
func (p *Path) ActiveIndex() int { return p.activeIndex }

// IsTraversing reports whether the path is actively being driven.
func (p *Path) IsTraversing() bool { return p.isTraversing }

// Segment returns the segment at i.
func (p *Path) Segment(i int) Segment { return p.segments[i] }

// Clear resets the path to its boot state (spec.md §3).
func (p *Path) Clear() {
	p.count = 0
	p.activeIndex = 0
	p.isTraversing = false
}

func (p *Path) append(s Segment) error {
	if p.count >= MaxSegments {
		return ErrPathOverflow
	}
	if p.count > 0 {
		prev := p.segments[p.count-1]
		if s.Kind != KindPointTurn && prev.Kind != KindPointTurn {
			prevEndX, prevEndY := prev.EndXY()
			startX, startY := s.StartXY()
			dx, dy := startX-prevEndX, startY-prevEndY
			if math32.Sqrt(dx*dx+dy*dy) > continuityToleranceMM {
				return ErrDiscontinuous
			}
		}
	}
	p.segments[p.count] = s
	p.count++
	return nil
}

// AppendLine appends a straight-line segment from (x0,y0) to (x1,y1).
func (p *Path) AppendLine(x0, y0, x1, y1, targetSpeedMMPS, accelMMPS2, decelMMPS2 float32) error {
	return p.append(Segment{
		Kind: KindLine,
		StartXMM: x0, StartYMM: y0, EndXMM: x1, EndYMM: y1,
		TargetSpeedMMPS: targetSpeedMMPS, AccelMMPS2: accelMMPS2, DecelMMPS2: decelMMPS2,
	})
}

// AppendArc appends a circular-arc segment.
func (p *Path) AppendArc(centerX, centerY, radiusMM, startAngleRad, sweepAngleRad, targetSpeedMMPS, accelMMPS2, decelMMPS2 float32) error {
	return p.append(Segment{
		Kind: KindArc,
		CenterXMM: centerX, CenterYMM: centerY, RadiusMM: radiusMM,
		StartAngleRad: startAngleRad, SweepAngleRad: sweepAngleRad,
		TargetSpeedMMPS: targetSpeedMMPS, AccelMMPS2: accelMMPS2, DecelMMPS2: decelMMPS2,
	})
}

// AppendPointTurn appends an in-place rotation to targetHeadingRad.
func (p *Path) AppendPointTurn(targetHeadingRad, targetSpeedMMPS, accelMMPS2, decelMMPS2 float32) error {
	return p.append(Segment{
		Kind: KindPointTurn,
		TargetHeadingRad: targetHeadingRad,
		TargetSpeedMMPS:  targetSpeedMMPS, AccelMMPS2: accelMMPS2, DecelMMPS2: decelMMPS2,
	})
}

// StartTraversal captures active_index = 0 and flips is_traversing true
// (spec.md §4.7).
func (p *Path) StartTraversal() error {
	if p.count == 0 {
		return ErrEmptyPath
	}
	p.activeIndex = 0
	p.isTraversing = true
	return nil
}
