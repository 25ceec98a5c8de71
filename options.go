package blit

import (
	"time"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/blit/internal/gpu"
	"github.com/gogpu/blit/shaders"
)

// Default canvas size.
const (
	DefaultCanvasWidth  = 128
	DefaultCanvasHeight = 128
)

// DefaultAcquireTimeout bounds swap-chain image acquisition.
const DefaultAcquireTimeout = gpu.DefaultAcquireTimeout

// PresentMode selects how frames are synchronized with the display.
type PresentMode = gpu.PresentMode

const (
	PresentModeFifo        = gpu.PresentModeFifo
	PresentModeFifoRelaxed = gpu.PresentModeFifoRelaxed
	PresentModeMailbox     = gpu.PresentModeMailbox
	PresentModeImmediate   = gpu.PresentModeImmediate
)

// ParsePresentMode parses "fifo", "fifo-relaxed", "mailbox" or "immediate".
func ParsePresentMode(s string) (PresentMode, error) {
	return gpu.ParsePresentMode(s)
}

// PowerPreference orders adapter types when more than one can present.
type PowerPreference = gpu.AdapterPreference

const (
	PreferDiscrete   = gpu.PreferDiscrete
	PreferIntegrated = gpu.PreferIntegrated
)

// Option configures a Renderer during creation.
//
// Example:
//
//	r, err := blit.New(win,
//	    blit.WithCanvasSize(320, 240),
//	    blit.WithPresentMode(blit.PresentModeMailbox),
//	)
type Option func(*options)

// options holds optional configuration for Renderer creation.
type options struct {
	canvasWidth    uint32
	canvasHeight   uint32
	presentMode    PresentMode
	acquireTimeout time.Duration
	backend        gputypes.Backend
	shaders        *shaders.Set
	preference     PowerPreference
}

// defaultOptions returns the default renderer options.
func defaultOptions() options {
	return options{
		canvasWidth:    DefaultCanvasWidth,
		canvasHeight:   DefaultCanvasHeight,
		presentMode:    PresentModeFifo,
		acquireTimeout: DefaultAcquireTimeout,
		backend:        gputypes.BackendVulkan,
		preference:     PreferDiscrete,
	}
}

// WithCanvasSize sets the pixel buffer and canvas texture size. Zero
// dimensions are ignored.
func WithCanvasSize(width, height uint32) Option {
	return func(o *options) {
		if width > 0 && height > 0 {
			o.canvasWidth = width
			o.canvasHeight = height
		}
	}
}

// WithPresentMode sets the swap-chain present mode. The default is
// PresentModeFifo, which every platform supports.
func WithPresentMode(m PresentMode) Option {
	return func(o *options) {
		o.presentMode = m
	}
}

// WithAcquireTimeout bounds how long Render waits for a swap-chain image.
// Non-positive values select DefaultAcquireTimeout.
func WithAcquireTimeout(d time.Duration) Option {
	return func(o *options) {
		if d <= 0 {
			d = DefaultAcquireTimeout
		}
		o.acquireTimeout = d
	}
}

// WithBackend selects the hal backend. The default is Vulkan.
func WithBackend(b gputypes.Backend) Option {
	return func(o *options) {
		o.backend = b
	}
}

// WithShaders uses precompiled shader modules instead of compiling the
// built-in quad shaders at startup.
//
// Example:
//
//	set, err := shaders.Load("shaders")
//	...
//	r, err := blit.New(win, blit.WithShaders(set))
func WithShaders(set shaders.Set) Option {
	return func(o *options) {
		o.shaders = &set
	}
}

// WithPowerPreference selects between discrete and integrated adapters.
func WithPowerPreference(p PowerPreference) Option {
	return func(o *options) {
		o.preference = p
	}
}
