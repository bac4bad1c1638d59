package pipeline

import "fmt"

// State is the lifecycle state of a Pipeline.
type State int32

const (
	StateUninitialized State = iota
	StateIdle
	StateScanning
	StateCommitting
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateIdle:
		return "idle"
	case StateScanning:
		return "scanning"
	case StateCommitting:
		return "committing"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}
