// Command core is the host-side simulator for the on-robot control core: it
// wires a scheduler.Scheduler to an in-memory hal.SimHAL, drives the tick
// loop at the control period, and injects one demo supervisor command over
// the real framing wire format so the whole HAL→tick→hostlink round trip
// gets exercised the way a flashed robot and its supervisor would use it.
//
// Grounded on cmd/manipulator's flag-driven CLI shape (flag.Parse, a
// zerolog/slog logger, a ticker-paced loop) but talking to this repo's own
// scheduler instead of a dndm pub/sub bus.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/kercre123/victor-sub070/pkg/control/configio"
	"github.com/kercre123/victor-sub070/pkg/control/framing"
	"github.com/kercre123/victor-sub070/pkg/control/geom"
	"github.com/kercre123/victor-sub070/pkg/control/hal"
	"github.com/kercre123/victor-sub070/pkg/control/hostlink"
	"github.com/kercre123/victor-sub070/pkg/control/scheduler"
	"github.com/kercre123/victor-sub070/pkg/logger"
)

func main() {
	demo := flag.String("demo", "straight", "demo scenario: straight|turn|sweep|led")
	ticks := flag.Int("ticks", 400, "number of control periods to run")
	configPath := flag.String("config", "", "optional YAML geometry overlay")
	flag.Parse()

	g := geom.Default()
	if *configPath != "" {
		var err error
		g, err = configio.LoadOverlay(*configPath, g)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("failed to load geometry overlay")
		}
	}

	simHAL := hal.NewSimHAL()
	sched := scheduler.New(simHAL, g)
	link := hostlink.New(simHAL)

	injectDemoCommand(simHAL, *demo)

	const dt = float32(0.005)
	for i := 0; i < *ticks; i++ {
		link.PollCommands(sched.CommandsIn)

		// Synthesize this tick's gyro-Z rate from the previous tick's wheel
		// speeds, the turn rate a differential-drive base would actually
		// produce. SimHAL has no physical gyro of its own.
		leftMMPS := simHAL.MotorGetSpeed(hal.MotorLeftWheel) * g.WheelRadiusMM
		rightMMPS := simHAL.MotorGetSpeed(hal.MotorRightWheel) * g.WheelRadiusMM
		simHAL.SetIMU(hal.IMUSample{RateZRadps: (rightMMPS - leftMMPS) / g.WheelBaseMM})

		sched.RunTick()
		simHAL.Step(dt)
		link.DrainStatus(sched.StatusOut)

		for _, frame := range simHAL.SentFrames() {
			logOutboundFrame(frame)
		}
	}

	if errs := link.ProtocolErrors(); errs > 0 {
		logger.Log.Warn().Uint32("count", errs).Msg("protocol errors during run")
	}
}

// injectDemoCommand encodes one supervisor message for the chosen scenario
// and queues it on the SimHAL's inbound byte pipe, the same path a real
// supervisor's bytes would arrive through.
func injectDemoCommand(h *hal.SimHAL, demo string) {
	var buf [64]byte
	var frameBuf [96]byte

	send := func(tag framing.Tag, payload []byte) {
		n, err := framing.Encode(frameBuf[:], tag, payload)
		if err != nil {
			logger.Log.Error().Err(err).Msg("failed to encode demo command")
			return
		}
		h.InjectHostFrame(append([]byte(nil), frameBuf[:n]...))
	}

	switch demo {
	case "straight":
		// spec.md §8 scenario 1: 300mm straight line at 100mm/s, 200mm/s^2.
		m := framing.AppendPathSegment{Kind: 0, A: 0, B: 0, C: 300, D: 0,
			TargetSpeedMMPS: 100, AccelMMPS2: 200, DecelMMPS2: 200}
		p := m.Size()
		m.Marshal(buf[:p])
		send(framing.TagAppendPathSegment, buf[:p])
		send(framing.TagStartPath, nil)

	case "turn":
		// spec.md §8 scenario 2: point turn to +90 degrees.
		m := framing.PointTurn{TargetHeadingRad: 1.5708, AngularVelRadps: 1.0, AngularAccelRadps2: 2.0, AngularDecelRadps2: 2.0}
		p := m.Size()
		m.Marshal(buf[:p])
		send(framing.TagPointTurn, buf[:p])

	case "sweep":
		// spec.md §8 scenario 3: lift to CARRY height.
		m := framing.SetLiftHeight{HeightMM: 80}
		p := m.Size()
		m.Marshal(buf[:p])
		send(framing.TagSetLiftHeight, buf[:p])

	case "led":
		m := framing.SetLED{Channel: 0, R: 255, G: 0, B: 0, A: 255}
		p := m.Size()
		m.Marshal(buf[:p])
		send(framing.TagSetLED, buf[:p])

	default:
		fmt.Fprintf(os.Stderr, "unknown demo %q\n", demo)
		os.Exit(1)
	}
}

func logOutboundFrame(raw []byte) {
	frame, _, err := framing.Decode(raw)
	if err != nil || frame.Tag != framing.TagRobotState {
		return
	}
	var state framing.RobotState
	state.Unmarshal(frame.Payload)
	if state.Tick%40 != 0 {
		return
	}
	logger.Log.Info().
		Uint32("tick", state.Tick).
		Float32("x_mm", state.PoseXMM).
		Float32("y_mm", state.PoseYMM).
		Float32("heading_rad", state.PoseHeadingRad).
		Float32("lift_height_mm", state.LiftHeightMM).
		Uint32("flags", state.Flags).
		Msg("robot state")
}
