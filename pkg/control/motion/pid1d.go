// Package motion holds the scalar motion-control primitives shared by the
// wheel, head, and lift controllers: a PID on measured-vs-target error, and
// an acceleration-limited ramp toward a target speed. Both are grounded on
// the same shape the rest of the stack's filter library uses (P/I/D with a
// clamped integrator, a jerk/accel-limited ramp), rewritten here as plain
// float32 state machines with no dependency on that library's matrix/vector
// plumbing.
package motion

// PID1D is a scalar PID controller with a clamped output and integrator,
// derivative computed on measurement (not on error) to avoid derivative
// kick when Target changes abruptly.
type PID1D struct {
	P, I, D  float32
	min, max float32

	input, lastInput float32
	iTerm            float32
	Target           float32
	Output           float32
}

// NewPID1D returns a PID1D with the given gains and output clamp.
func NewPID1D(p, i, d, min, max float32) PID1D {
	return PID1D{P: p, I: i, D: d, min: min, max: max}
}

// Init seeds the filter with the current measurement, avoiding a derivative
// spike on the first Update call.
func (c *PID1D) Init(input float32) {
	c.input = input
	c.lastInput = input
	c.iTerm = 0
}

// Update advances the filter by one sample period given the latest
// measurement, and returns the new output.
func (c *PID1D) Update(input, samplePeriod float32) float32 {
	c.lastInput, c.input = c.input, input

	e := c.Target - c.input
	d := c.input - c.lastInput

	c.iTerm = clamp(c.iTerm+c.I*e*samplePeriod, c.min, c.max)
	c.Output = clamp(c.P*e+c.iTerm-c.D*d/samplePeriod, c.min, c.max)
	return c.Output
}

// Reset clears accumulated integrator state without losing gains/limits.
func (c *PID1D) Reset() {
	c.iTerm = 0
	c.Output = 0
}

func clamp(v, min, max float32) float32 {
	switch {
	case v < min:
		return min
	case v > max:
		return max
	default:
		return v
	}
}
