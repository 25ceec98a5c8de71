package blit

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/blit/internal/gpu"
	"github.com/gogpu/blit/shaders"
)

// Window identifies the native window the renderer presents to, and its
// initial framebuffer size. The window must outlive the Renderer.
//
// On X11 Display is the Display* and Window the XID. On Windows Display is
// the HINSTANCE (may be zero) and Window the HWND.
type Window struct {
	Display uintptr
	Window  uintptr
	Width   uint32
	Height  uint32
}

// Stats are cumulative frame counters.
type Stats struct {
	// Frames is the number of frames presented.
	Frames uint64

	// Dropped is the number of frames skipped because of a transient error.
	Dropped uint64

	// Uploads is the number of pixel buffer uploads.
	Uploads uint64

	// Reconfigures is the number of swap-chain configurations, including
	// the initial one.
	Reconfigures uint64
}

// Renderer streams a PixelBuffer to a window. It owns the pixel buffer and
// every GPU resource; Close releases them in reverse creation order.
//
// Draw, Render and Resize must be called from one goroutine. State and
// Stats may be called from any goroutine.
type Renderer struct {
	pixels *PixelBuffer
	device *gpu.Device
	target *gpu.SamplingTarget
	frames *gpu.FrameRenderer

	state   atomic.Int32
	drawn   atomic.Uint64
	dropped atomic.Uint64
}

// New opens the GPU device for win and builds the canvas texture and the
// presentation pipeline. Initialization is synchronous and every failure is
// fatal; errors wrap an *InitError naming the resource that failed.
func New(win Window, opts ...Option) (*Renderer, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	set, err := o.shaderSet()
	if err != nil {
		return nil, err
	}

	dev, err := gpu.Open(o.backend, gpu.WindowHandle{Display: win.Display, Window: win.Window}, gpu.DeviceConfig{
		Surface: gpu.SurfaceDescriptor{
			Width:       win.Width,
			Height:      win.Height,
			PresentMode: o.presentMode,
		},
		AcquireTimeout: o.acquireTimeout,
		Preference:     o.preference,
	})
	if err != nil {
		return nil, fmt.Errorf("blit: open device: %w", err)
	}

	r, err := newRenderer(dev, set, o)
	if err != nil {
		dev.Destroy()
		return nil, err
	}
	return r, nil
}

// shaderSet returns the configured shaders or compiles the built-in ones.
func (o *options) shaderSet() (shaders.Set, error) {
	if o.shaders != nil {
		if err := o.shaders.Validate(); err != nil {
			return shaders.Set{}, fmt.Errorf("blit: %w", err)
		}
		return *o.shaders, nil
	}
	set, err := shaders.Builtin()
	if err != nil {
		return shaders.Set{}, fmt.Errorf("blit: built-in shaders: %w", err)
	}
	return set, nil
}

// newRenderer builds the canvas resources on an open device. It does not
// take ownership of dev on failure.
func newRenderer(dev *gpu.Device, set shaders.Set, o options) (*Renderer, error) {
	target, err := dev.NewSamplingTarget(o.canvasWidth, o.canvasHeight)
	if err != nil {
		return nil, fmt.Errorf("blit: %w", err)
	}
	pipeline, err := dev.NewPipeline(target, set.Vertex, set.Fragment)
	if err != nil {
		target.Destroy()
		return nil, fmt.Errorf("blit: %w", err)
	}

	r := &Renderer{
		pixels: NewPixelBuffer(int(o.canvasWidth), int(o.canvasHeight)),
		device: dev,
		target: target,
		frames: gpu.NewFrameRenderer(dev, target, pipeline),
	}
	r.state.Store(int32(StateReady))

	Logger().Info("blit: renderer ready",
		"adapter", dev.AdapterName(),
		"canvas_width", o.canvasWidth,
		"canvas_height", o.canvasHeight,
		"format", dev.SurfaceFormat(),
	)
	return r, nil
}

// Pixels returns the pixel buffer. Mutations become visible on screen after
// the next Draw and Render.
func (r *Renderer) Pixels() *PixelBuffer {
	return r.pixels
}

// State returns the lifecycle state.
func (r *Renderer) State() State {
	return State(r.state.Load())
}

// Stats returns the frame counters.
func (r *Renderer) Stats() Stats {
	return Stats{
		Frames:       r.drawn.Load(),
		Dropped:      r.dropped.Load(),
		Uploads:      r.target.Uploads(),
		Reconfigures: r.device.SwapChain().Configures(),
	}
}

// Device returns the GPU device as a gpucontext.DeviceProvider so other
// libraries can share it. The renderer keeps ownership.
func (r *Renderer) Device() gpucontext.DeviceProvider {
	return r.device
}

// Draw uploads the current pixel buffer to the canvas texture. Only the
// last Draw before a Render is visible.
func (r *Renderer) Draw() error {
	if r.State() == StateClosed {
		return ErrClosed
	}
	return r.frames.Draw(r.pixels.Bytes())
}

// Render presents the canvas, stretched over the whole window with nearest
// filtering on an opaque black background. A transient error (see
// IsTransient) means the frame was dropped and the caller should carry on.
func (r *Renderer) Render(ctx context.Context) error {
	if r.State() == StateClosed {
		return ErrClosed
	}

	err := r.frames.Render(ctx)
	switch {
	case err == nil:
		r.drawn.Add(1)
		r.state.CompareAndSwap(int32(StateSurfaceInvalid), int32(StateReady))
		return nil
	case IsTransient(err):
		r.dropped.Add(1)
		if errors.Is(err, ErrSurfaceOutdated) {
			r.state.CompareAndSwap(int32(StateReady), int32(StateSurfaceInvalid))
		}
		Logger().Warn("blit: frame dropped", "err", err)
		return err
	default:
		return fmt.Errorf("blit: render: %w", err)
	}
}

// Resize reconfigures the swap chain for a new framebuffer size. Zero
// dimensions (a minimized window) are ignored and repeating the current
// size does nothing. The canvas keeps its size and is stretched.
//
// Resize blocks while a timed-out acquisition is still outstanding.
func (r *Renderer) Resize(width, height uint32) error {
	if r.State() == StateClosed {
		return ErrClosed
	}
	if width == 0 || height == 0 {
		return nil
	}

	r.state.Store(int32(StateSurfaceInvalid))
	changed, err := r.device.Resize(width, height)
	if err != nil {
		return fmt.Errorf("blit: resize %dx%d: %w", width, height, err)
	}
	r.state.Store(int32(StateReady))
	if changed {
		Logger().Debug("blit: resized", "width", width, "height", height)
	}
	return nil
}

// Close releases the pipeline, the canvas texture and the device. It is
// safe to call more than once; later calls to other methods return
// ErrClosed.
func (r *Renderer) Close() error {
	if State(r.state.Swap(int32(StateClosed))) == StateClosed {
		return nil
	}
	r.frames.Destroy()
	r.device.Destroy()
	Logger().Debug("blit: renderer closed", "frames", r.drawn.Load(), "dropped", r.dropped.Load())
	return nil
}
