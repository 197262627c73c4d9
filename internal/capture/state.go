package capture

import "fmt"

// State is the lifecycle stage of a capture loop.
type State int32

const (
	// Idle means the device is not open yet.
	Idle State = iota
	// Recording means ticks are being read and segmented.
	Recording
	// Stopping means no more reads happen; the open segment is being flushed.
	Stopping
	// Stopped means the device is closed and the queue is closed.
	Stopped
)

// String returns the string representation of the State.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Recording:
		return "recording"
	case Stopping:
		return "stopping"
	case Stopped:
		return "stopped"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}
