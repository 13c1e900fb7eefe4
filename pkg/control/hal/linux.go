//go:build !tinygo && linux

package hal

import (
	"sync"
	"time"

	"github.com/chewxy/math32"
	"github.com/kercre123/victor-sub070/pkg/logger"
	"github.com/kercre123/victor-sub070/x/devices"
	"github.com/kercre123/victor-sub070/x/devices/encoder"
	"github.com/kercre123/victor-sub070/x/devices/mpu6050"
	"github.com/kercre123/victor-sub070/x/devices/pca9685"
)

var bootTime = time.Now()

// monotonicMicros is the default MicroCounter: microseconds since process
// start, wrapping at uint32 range the same way a free-running hardware
// timer would.
func monotonicMicros() uint32 {
	return uint32(time.Since(bootTime).Microseconds())
}

// motorChannel is one H-bridge-driven motor: a PWM magnitude channel, a
// direction pin, and the quadrature encoder reporting its position/speed.
type motorChannel struct {
	pwm       devices.PWM
	direction devices.Pin
	enc       *encoder.Device
	radPerCount float32
}

func (m *motorChannel) setPower(power float32) {
	if m.pwm == nil {
		return
	}
	if power < 0 {
		m.direction.Low()
		power = -power
	} else {
		m.direction.High()
	}
	if power > 1 {
		power = 1
	}
	_ = m.pwm.Set(power)
}

func (m *motorChannel) positionRad() float32 {
	if m.enc == nil {
		return 0
	}
	return float32(m.enc.Position()) * m.radPerCount
}

func (m *motorChannel) speedRadps() float32 {
	if m.enc == nil {
		return 0
	}
	// RPM -> rad/s.
	return float32(m.enc.RPM()) * (2 * math32.Pi / 60)
}

// LinuxHAL drives real peripherals through the Raspberry-Pi-class Linux
// backends in x/devices: a PCA9685 for status LEDs, an MPU6050 for inertial
// sensing, PWM+encoder pairs for each motor, and a UART for the supervisor
// link. Every accessor is allocation-free, except that HostRecv grows its
// receive buffer when more bytes are waiting than it holds, and degrades to the
// last-known-good value plus a sticky fault bit on I/O failure, per the HAL
// contract.
type LinuxHAL struct {
	mu sync.Mutex

	motors [motorCount]motorChannel

	leds     *pca9685.Device
	ledChans map[LEDChannel]uint8

	imu       *mpu6050.Device
	lastIMU   IMUSample
	imuGood   bool

	micro func() uint32

	serial devices.Serial
	rxBuf  []byte

	faults Faults
}

// LinuxConfig wires up the concrete peripherals a LinuxHAL drives. Callers
// assemble these from x/devices constructors (devices.NewI2C, devices.NewPin,
// devices.NewPWMDevice, devices.NewSerial) at process start; LinuxHAL itself
// never opens a device node.
type LinuxConfig struct {
	Motors   [motorCount]MotorWiring
	LEDs     *pca9685.Device
	LEDChans map[LEDChannel]uint8
	IMU      *mpu6050.Device
	Serial   devices.Serial
	// MicroCounter returns a free-running microsecond clock. Defaults to a
	// monotonic time.Now()-based counter if nil.
	MicroCounter func() uint32
}

// MotorWiring names the PWM channel, direction pin, and encoder backing one
// driven joint, plus the encoder-counts-per-radian conversion for that joint.
type MotorWiring struct {
	PWM         devices.PWM
	Direction   devices.Pin
	Encoder     *encoder.Device
	RadPerCount float32
}

// NewLinuxHAL builds a LinuxHAL from already-configured peripherals. It does
// not perform any I/O itself; callers must have already called Configure on
// every wrapped device.
func NewLinuxHAL(cfg LinuxConfig) *LinuxHAL {
	h := &LinuxHAL{
		leds:     cfg.LEDs,
		ledChans: cfg.LEDChans,
		imu:      cfg.IMU,
		serial:   cfg.Serial,
		micro:    cfg.MicroCounter,
	}
	for i := range cfg.Motors {
		w := cfg.Motors[i]
		h.motors[i] = motorChannel{
			pwm:         w.PWM,
			direction:   w.Direction,
			enc:         w.Encoder,
			radPerCount: w.RadPerCount,
		}
	}
	if h.micro == nil {
		h.micro = monotonicMicros
	}
	return h
}

func (h *LinuxHAL) MotorSetPower(id MotorID, power float32) {
	if id < 0 || id >= motorCount {
		return
	}
	h.motors[id].setPower(power)
}

func (h *LinuxHAL) MotorGetPosition(id MotorID) float32 {
	if id < 0 || id >= motorCount {
		return 0
	}
	return h.motors[id].positionRad()
}

func (h *LinuxHAL) MotorGetSpeed(id MotorID) float32 {
	if id < 0 || id >= motorCount {
		return 0
	}
	return h.motors[id].speedRadps()
}

func (h *LinuxHAL) MotorResetPosition(id MotorID) {
	if id < 0 || id >= motorCount {
		return
	}
	if h.motors[id].enc != nil {
		h.motors[id].enc.Reset()
	}
}

// IMURead samples the MPU6050. On any I2C failure it raises FaultIMUStale
// and returns the last known-good sample, never blocking the tick on a
// retry.
func (h *LinuxHAL) IMURead() IMUSample {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.imu == nil {
		return h.lastIMU
	}

	gyro, gerr := h.imu.ReadGyroscope()
	accel, aerr := h.imu.ReadAccelerometer()
	temp, terr := h.imu.ReadTemperature()
	if gerr != nil || aerr != nil || terr != nil {
		h.faults |= FaultIMUStale
		logger.Log.Warn().Err(firstErr(gerr, aerr, terr)).Msg("imu read failed, holding last sample")
		return h.lastIMU
	}

	const gyroLSBToRadps = (1.0 / 131.0) * (math32.Pi / 180.0)
	const accelLSBToMMPS2 = (1.0 / 16384.0) * 9806.65

	h.lastIMU = IMUSample{
		RateXRadps:      float32(gyro.X) * gyroLSBToRadps,
		RateYRadps:      float32(gyro.Y) * gyroLSBToRadps,
		RateZRadps:      float32(gyro.Z) * gyroLSBToRadps,
		AccXMMPS2:       float32(accel.X) * accelLSBToMMPS2,
		AccYMMPS2:       float32(accel.Y) * accelLSBToMMPS2,
		AccZMMPS2:       float32(accel.Z) * accelLSBToMMPS2,
		TemperatureDegC: temp,
	}
	h.imuGood = true
	h.faults &^= FaultIMUStale
	return h.lastIMU
}

func (h *LinuxHAL) SetLED(channel LEDChannel, color RGBA) {
	if h.leds == nil {
		return
	}
	ch, ok := h.ledChans[channel]
	if !ok {
		return
	}
	// A status LED is wired as three adjacent PCA9685 channels (R,G,B); A is
	// not separately addressable on a 3-wire RGB LED and is ignored.
	_ = h.leds.SetPWM(ch+0, float32(color.R)/255, false)
	_ = h.leds.SetPWM(ch+1, float32(color.G)/255, false)
	_ = h.leds.SetPWM(ch+2, float32(color.B)/255, false)
}

func (h *LinuxHAL) GetMicroCounter() uint32 {
	return h.micro()
}

func (h *LinuxHAL) HostSend(frame []byte) error {
	if h.serial == nil {
		return nil
	}
	if _, err := h.serial.Write(frame); err != nil {
		h.mu.Lock()
		h.faults |= FaultHostLinkWrite
		h.mu.Unlock()
		logger.Log.Warn().Err(err).Msg("host link write failed")
		return err
	}
	h.mu.Lock()
	h.faults &^= FaultHostLinkWrite
	h.mu.Unlock()
	return nil
}

// HostRecv drains whatever bytes are buffered on the serial link. It never
// blocks: a Serial backend with nothing buffered returns 0, not an error.
func (h *LinuxHAL) HostRecv() []byte {
	if h.serial == nil {
		return nil
	}
	n := h.serial.Buffered()
	if n == 0 {
		return nil
	}
	if cap(h.rxBuf) < n {
		h.rxBuf = make([]byte, n)
	}
	buf := h.rxBuf[:n]
	read, err := h.serial.Read(buf)
	if err != nil {
		h.mu.Lock()
		h.faults |= FaultHostLinkRead
		h.mu.Unlock()
		logger.Log.Warn().Err(err).Msg("host link read failed")
		return nil
	}
	return buf[:read]
}

func (h *LinuxHAL) Faults() Faults {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.faults
}

func (h *LinuxHAL) ClearFault(bits Faults) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.faults &^= bits
}

func firstErr(errs ...error) error {
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}

var _ HAL = (*LinuxHAL)(nil)
