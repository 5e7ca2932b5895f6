// Package state holds the small enums shared by the scene manager, the
// frame loop, and the hosts.
package state

// SceneState is the scene manager's lifecycle state
type SceneState int

const (
	SceneEmpty SceneState = iota
	SceneActive
	ScenePendingTransition
)

// String returns the string representation of the scene state
func (s SceneState) String() string {
	switch s {
	case SceneEmpty:
		return "Empty"
	case SceneActive:
		return "Active"
	case ScenePendingTransition:
		return "PendingTransition"
	default:
		return "Unknown"
	}
}

// ControlFlow tells the host loop what to do after a frame
type ControlFlow int

const (
	// ControlPoll keeps the loop running without waiting for events
	ControlPoll ControlFlow = iota
	// ControlExit stops the loop
	ControlExit
)

// String returns the string representation of the control flow
func (c ControlFlow) String() string {
	switch c {
	case ControlPoll:
		return "Poll"
	case ControlExit:
		return "Exit"
	default:
		return "Unknown"
	}
}
