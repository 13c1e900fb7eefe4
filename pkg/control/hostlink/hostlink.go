// Package hostlink is the lower-priority, long-execution-context half of
// the supervisor link (spec.md §5): it owns the byte-level framing and the
// HAL's host-link calls, and exchanges only already-decoded/encoded
// structs with the control tick across the two ring buffers the tick
// itself owns. Nothing in this package may be called from inside a
// control tick.
package hostlink

import (
	"github.com/kercre123/victor-sub070/pkg/control/framing"
	"github.com/kercre123/victor-sub070/pkg/control/hal"
	"github.com/kercre123/victor-sub070/pkg/control/ringbuf"
	"github.com/kercre123/victor-sub070/pkg/logger"
)

// Link services one HAL's host byte pipe.
type Link struct {
	hal            hal.HAL
	rxBuf          []byte
	protocolErrors uint32
}

// New returns a Link over h.
func New(h hal.HAL) *Link {
	return &Link{hal: h, rxBuf: make([]byte, 0, 512)}
}

// ProtocolErrors returns the running count of malformed inbound frames
// (spec.md §7 "malformed inbound message dropped, counter incremented").
func (l *Link) ProtocolErrors() uint32 { return l.protocolErrors }

// PollCommands drains every inbound byte chunk HAL.HostRecv currently
// offers, decodes as many complete frames as the buffered bytes contain,
// and pushes each onto commandsOut for the next control tick to consume.
// A malformed frame is dropped and decoding resyncs one byte at a time
// (spec.md §7 Protocol error) rather than stalling on corrupt input.
func (l *Link) PollCommands(commandsOut *ringbuf.Ring[framing.Frame]) {
	for {
		chunk := l.hal.HostRecv()
		if chunk == nil {
			break
		}
		l.rxBuf = append(l.rxBuf, chunk...)
	}

	for len(l.rxBuf) > 0 {
		frame, n, err := framing.Decode(l.rxBuf)
		switch err {
		case nil:
			payload := make([]byte, len(frame.Payload))
			copy(payload, frame.Payload)
			if !commandsOut.Push(framing.Frame{Tag: frame.Tag, Payload: payload}) {
				logger.Log.Warn().Msg("command ring full, dropping inbound frame")
			}
			l.rxBuf = l.rxBuf[n:]
		case framing.ErrIncomplete:
			return
		default:
			l.protocolErrors++
			logger.Log.Warn().Err(err).Msg("dropping malformed inbound frame")
			l.rxBuf = l.rxBuf[1:]
		}
	}
}

// DrainStatus pops every RobotState the control tick has queued and writes
// each out over the host link, in order.
func (l *Link) DrainStatus(statusIn *ringbuf.Ring[framing.RobotState]) {
	for {
		state, ok := statusIn.Pop()
		if !ok {
			return
		}
		if err := l.sendStatus(state); err != nil {
			logger.Log.Warn().Err(err).Msg("status send failed")
		}
	}
}

func (l *Link) sendStatus(state framing.RobotState) error {
	var payload [64]byte
	buf := payload[:state.Size()]
	state.Marshal(buf)

	var out [96]byte
	n, err := framing.Encode(out[:], framing.TagRobotState, buf)
	if err != nil {
		return err
	}
	return l.hal.HostSend(out[:n])
}
