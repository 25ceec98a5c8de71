package blit

import (
	"errors"

	"github.com/gogpu/blit/internal/gpu"
)

// ErrClosed is returned by Renderer methods called after Close.
var ErrClosed = errors.New("blit: renderer closed")

// Transient errors. Render returns one of these when the frame was dropped;
// the caller keeps going and renders again on the next tick.
var (
	ErrAcquireTimeout  = gpu.ErrAcquireTimeout
	ErrSurfaceOutdated = gpu.ErrSurfaceOutdated
	ErrSwapChainBusy   = gpu.ErrSwapChainBusy
)

// Fatal and contract errors.
var (
	ErrBackendUnavailable  = gpu.ErrBackendUnavailable
	ErrNoAdapter           = gpu.ErrNoAdapter
	ErrDeviceLost          = gpu.ErrDeviceLost
	ErrTextureSizeMismatch = gpu.ErrTextureSizeMismatch
)

// InitError reports which GPU resource failed during New.
type InitError = gpu.InitError

// IsTransient reports whether err only dropped the current frame.
func IsTransient(err error) bool {
	return gpu.IsTransient(err)
}
