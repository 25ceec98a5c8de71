package blit

import "fmt"

// State is the lifecycle state of a Renderer.
type State int32

const (
	// StateUninitialized is the zero value; New never returns a renderer
	// in this state.
	StateUninitialized State = iota

	// StateReady means the swap chain matches the surface.
	StateReady

	// StateSurfaceInvalid means the swap chain must be reconfigured before
	// the next frame, after a resize or an outdated surface.
	StateSurfaceInvalid

	// StateClosed is terminal.
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StateSurfaceInvalid:
		return "surface-invalid"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}
