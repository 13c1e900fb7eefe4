//go:build !tinygo && linux

package encoder

import "github.com/kercre123/victor-sub070/x/devices"

func configurePins(pinA, pinB devices.Pin) error {
	// No-op for Linux (pins configured externally)
	return nil
}
