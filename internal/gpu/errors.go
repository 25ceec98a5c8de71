package gpu

import (
	"errors"
	"fmt"
)

// Fatal initialization errors.
var (
	// ErrBackendUnavailable is returned when the requested hal backend is
	// not compiled in or not registered.
	ErrBackendUnavailable = errors.New("gpu: backend not available")

	// ErrNoAdapter is returned when no GPU adapter can present to the surface.
	ErrNoAdapter = errors.New("gpu: no compatible adapter")

	// ErrDeviceLost is returned when the device stops responding. It is not
	// recoverable.
	ErrDeviceLost = errors.New("gpu: device lost")
)

// Transient per-frame errors. The frame is dropped and the caller retries
// on the next tick.
var (
	// ErrAcquireTimeout is returned when no swap-chain image becomes
	// available within the acquire timeout.
	ErrAcquireTimeout = errors.New("gpu: swap chain acquire timed out")

	// ErrSurfaceOutdated is returned when the surface no longer matches the
	// swap chain, typically mid-resize. The swap chain is reconfigured on
	// the next acquire.
	ErrSurfaceOutdated = errors.New("gpu: surface outdated")

	// ErrSwapChainBusy is returned when a previous acquisition is still in
	// flight.
	ErrSwapChainBusy = errors.New("gpu: swap chain busy")
)

// Contract violations.
var (
	// ErrTextureSizeMismatch is returned when uploaded pixel data does not
	// match the texture dimensions.
	ErrTextureSizeMismatch = errors.New("gpu: pixel data size does not match texture")

	// ErrInvalidDimensions is returned for zero texture dimensions.
	ErrInvalidDimensions = errors.New("gpu: invalid dimensions")

	// ErrReleased is returned when a destroyed object is used.
	ErrReleased = errors.New("gpu: resource has been released")
)

// IsTransient reports whether err only dropped the current frame.
func IsTransient(err error) bool {
	return errors.Is(err, ErrAcquireTimeout) ||
		errors.Is(err, ErrSurfaceOutdated) ||
		errors.Is(err, ErrSwapChainBusy)
}

// InitError reports which resource failed to initialize. Initialization
// failures are fatal: there is no retry.
type InitError struct {
	Resource string
	Err      error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("gpu: create %s: %v", e.Resource, e.Err)
}

func (e *InitError) Unwrap() error {
	return e.Err
}

func initError(resource string, err error) error {
	return &InitError{Resource: resource, Err: err}
}
