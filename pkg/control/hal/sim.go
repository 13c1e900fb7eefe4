package hal

import "sync"

// SimHAL is an in-memory stand-in for the hardware facade, used by unit
// tests, the host-side simulator, and any controller that only needs a
// deterministic world to drive. It models each motor as a first-order lag
// from commanded power, scaled by that motor's speedGain (rad/s per unit
// power), to speed, which is enough to exercise every controller's logic
// without real hardware.
type SimHAL struct {
	mu sync.Mutex

	power    [motorCount]float32
	position [motorCount]float32
	speed    [motorCount]float32
	speedGain [motorCount]float32 // rad/s per unit power, per motor

	imu    IMUSample
	leds   map[LEDChannel]RGBA
	micros uint32

	outbox [][]byte
	inbox  [][]byte

	faults Faults
}

// NewSimHAL returns a SimHAL with a plausible default speed gain for wheels
// (fast) and joints (slow), matching the order-of-magnitude difference a
// tracked base's drive motors and a geared lift/head joint actually have.
func NewSimHAL() *SimHAL {
	s := &SimHAL{
		leds: make(map[LEDChannel]RGBA),
	}
	s.speedGain[MotorLeftWheel] = 12.0
	s.speedGain[MotorRightWheel] = 12.0
	s.speedGain[MotorHead] = 3.0
	s.speedGain[MotorLift] = 3.0
	return s
}

func (s *SimHAL) MotorSetPower(id MotorID, power float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id < 0 || id >= motorCount {
		return
	}
	s.power[id] = power
}

func (s *SimHAL) MotorGetPosition(id MotorID) float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id < 0 || id >= motorCount {
		return 0
	}
	return s.position[id]
}

func (s *SimHAL) MotorGetSpeed(id MotorID) float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id < 0 || id >= motorCount {
		return 0
	}
	return s.speed[id]
}

func (s *SimHAL) MotorResetPosition(id MotorID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id < 0 || id >= motorCount {
		return
	}
	s.position[id] = 0
}

// Step advances the simulated plant by dt seconds. Test code and the
// simulator CLI call this once per control period, mirroring the way a real
// HAL's encoder counters advance between MainTick invocations.
func (s *SimHAL) Step(dt float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := MotorID(0); i < motorCount; i++ {
		target := s.power[i] * s.speedGain[i]
		// first-order lag towards target, fast enough to look instantaneous
		// relative to the controllers' own ramps.
		s.speed[i] += (target - s.speed[i]) * 0.9
		s.position[i] += s.speed[i] * dt
	}
	s.micros += uint32(dt * 1e6)
}

func (s *SimHAL) SetIMU(sample IMUSample) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.imu = sample
}

func (s *SimHAL) IMURead() IMUSample {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.imu
}

func (s *SimHAL) SetLED(channel LEDChannel, color RGBA) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leds[channel] = color
}

func (s *SimHAL) LED(channel LEDChannel) RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.leds[channel]
}

func (s *SimHAL) GetMicroCounter() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.micros
}

func (s *SimHAL) HostSend(frame []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(frame))
	copy(cp, frame)
	s.outbox = append(s.outbox, cp)
	return nil
}

func (s *SimHAL) HostRecv() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.inbox) == 0 {
		return nil
	}
	frame := s.inbox[0]
	s.inbox = s.inbox[1:]
	return frame
}

// InjectHostFrame queues a frame as if it had arrived from the supervisor.
func (s *SimHAL) InjectHostFrame(frame []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inbox = append(s.inbox, frame)
}

// SentFrames drains and returns everything HostSend has accumulated.
func (s *SimHAL) SentFrames() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.outbox
	s.outbox = nil
	return out
}

func (s *SimHAL) Faults() Faults {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.faults
}

func (s *SimHAL) ClearFault(bits Faults) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults &^= bits
}

// RaiseFault lets tests simulate a peripheral failure.
func (s *SimHAL) RaiseFault(bits Faults) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults |= bits
}

var _ HAL = (*SimHAL)(nil)
