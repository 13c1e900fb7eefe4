package scheduler

import "github.com/kercre123/victor-sub070/pkg/control/hal"

// gripperChannel is the status LED channel used as the gripper's physical
// indicator; the HAL has no dedicated gripper actuator (spec.md §4.1 only
// names motors, encoders, IMU, LEDs, and the host link), so engagement is
// surfaced the same way test mode surfaces other binary states.
const gripperChannel = hal.LEDChannel(3)

// simpleGripper is the binary end-effector pickplace.Controller drives.
type simpleGripper struct {
	h       hal.HAL
	engaged bool
}

func newSimpleGripper(h hal.HAL) *simpleGripper { return &simpleGripper{h: h} }

func (g *simpleGripper) Engage() {
	g.engaged = true
	g.h.SetLED(gripperChannel, hal.RGBA{G: 255, A: 255})
}

func (g *simpleGripper) Release() {
	g.engaged = false
	g.h.SetLED(gripperChannel, hal.RGBA{})
}

func (g *simpleGripper) Engaged() bool { return g.engaged }
