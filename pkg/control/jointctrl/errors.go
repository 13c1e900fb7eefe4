package jointctrl

import "errors"

// ErrOutOfRange is recorded when a target angle had to be clamped to the
// joint's hard limits (spec.md §7 Out-of-range command: clamped, event
// emitted once per command).
var ErrOutOfRange = errors.New("jointctrl: target angle out of range, clamped")
