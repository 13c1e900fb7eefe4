// Package hal is the uniform facade over the microcontroller peripherals
// described in spec.md §4.1: motors, encoders, the IMU, LEDs, a free-running
// microsecond counter, and a framed byte pipe to the supervisor.
//
// HAL calls never block the control thread for more than a bounded, small
// constant; on peripheral failure a HAL implementation returns the last
// known-good value and raises the corresponding sticky fault bit instead of
// returning an error the caller has to route around mid-tick.
package hal

// MotorID indexes the driven actuators this HAL exposes.
type MotorID int

const (
	MotorLeftWheel MotorID = iota
	MotorRightWheel
	MotorHead
	MotorLift
	motorCount
)

// LEDChannel indexes an addressable status LED.
type LEDChannel int

// RGBA is a status-LED color, 0-255 per channel.
type RGBA struct {
	R, G, B, A uint8
}

// IMUSample is the latest gyro/accel/temperature reading (spec.md §4.1).
type IMUSample struct {
	RateXRadps, RateYRadps, RateZRadps float32
	AccXMMPS2, AccYMMPS2, AccZMMPS2    float32
	TemperatureDegC                    float32
}

// Faults is a sticky bit-set of HAL-observable faults. Bits are cleared by
// the owning subsystem once the condition that raised them recovers.
type Faults uint32

const (
	FaultIMUStale Faults = 1 << iota
	FaultMotorEncoder
	FaultHostLinkRead
	FaultHostLinkWrite
)

func (f Faults) Has(bit Faults) bool { return f&bit != 0 }

// HAL is the facade every controller in pkg/control talks to. Implementations
// must never allocate on MotorSetPower/MotorGetPosition/MotorGetSpeed/IMURead
// (the control-tick hot path); Configure-time setup may allocate freely.
type HAL interface {
	// MotorSetPower commands raw open-loop PWM in [-1, 1].
	MotorSetPower(id MotorID, power float32)
	// MotorGetPosition returns the monotonic encoder position in radians.
	MotorGetPosition(id MotorID) float32
	// MotorGetSpeed returns the instantaneous encoder-derived speed in rad/s.
	MotorGetSpeed(id MotorID) float32
	// MotorResetPosition zeroes the monotonic position counter for id.
	MotorResetPosition(id MotorID)

	// IMURead returns the latest sampled IMU values.
	IMURead() IMUSample

	// SetLED commands a status LED's color.
	SetLED(channel LEDChannel, color RGBA)

	// GetMicroCounter returns a free-running microsecond timer value.
	GetMicroCounter() uint32

	// HostSend writes a framed message to the supervisor link. It must not
	// block for more than a bounded small constant; implementations that
	// cannot accept the whole buffer immediately drop it and raise
	// FaultHostLinkWrite rather than block the tick.
	HostSend(frame []byte) error
	// HostRecv returns the next complete inbound frame, or nil if none is
	// available. It never blocks.
	HostRecv() []byte

	// Faults returns the sticky fault bits observed so far.
	Faults() Faults
	// ClearFault clears the given sticky fault bits (caller-driven reset).
	ClearFault(bits Faults)
}
