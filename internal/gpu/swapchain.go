package gpu

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// DefaultAcquireTimeout bounds how long Acquire waits for a swap-chain image.
const DefaultAcquireTimeout = time.Second

// SwapChain owns the configuration of a presentation surface and hands out
// one Frame at a time.
//
// The internal mutex is held from a successful Acquire until the Frame is
// released, so Resize cannot reconfigure the surface while a frame is in
// flight. Resize must therefore not be called between Acquire and
// Frame.Release on the same goroutine.
type SwapChain struct {
	mu      sync.Mutex
	device  hal.Device
	queue   hal.Queue
	surface hal.Surface

	desc       SurfaceDescriptor
	timeout    time.Duration
	configured bool // surface has been configured at least once
	valid      bool // configuration matches desc and the surface
	closed     bool

	configures atomic.Uint64
}

// NewSwapChain configures surface for desc. A zero-sized descriptor (a
// minimized window) leaves the swap chain unconfigured until the first
// non-zero Resize.
func NewSwapChain(device hal.Device, queue hal.Queue, surface hal.Surface, desc SurfaceDescriptor, timeout time.Duration) (*SwapChain, error) {
	var undefined gputypes.TextureFormat
	if desc.Format == undefined {
		desc.Format = DefaultSurfaceFormat
	}
	if timeout <= 0 {
		timeout = DefaultAcquireTimeout
	}
	s := &SwapChain{
		device:  device,
		queue:   queue,
		surface: surface,
		desc:    desc,
		timeout: timeout,
	}
	if desc.Width > 0 && desc.Height > 0 {
		if err := s.configureLocked(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// configureLocked applies desc to the surface. s.mu must be held (or s not
// yet shared).
func (s *SwapChain) configureLocked() error {
	s.valid = false
	if err := s.surface.Configure(s.device, s.desc.configuration()); err != nil {
		return fmt.Errorf("configure surface %dx%d: %w", s.desc.Width, s.desc.Height, err)
	}
	s.configured = true
	s.valid = true
	s.configures.Add(1)
	slogger().Info("gpu: swap chain configured",
		"width", s.desc.Width,
		"height", s.desc.Height,
		"format", s.desc.Format,
		"present_mode", s.desc.PresentMode.String(),
	)
	return nil
}

// Resize updates the descriptor and reconfigures the surface. Zero
// dimensions are ignored and resizing to the current size is a no-op, so
// repeated identical calls are idempotent. It reports whether the surface
// was reconfigured.
func (s *SwapChain) Resize(width, height uint32) (bool, error) {
	if width == 0 || height == 0 {
		slogger().Debug("gpu: ignoring zero-sized resize", "width", width, "height", height)
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false, ErrReleased
	}
	if s.valid && s.desc.Width == width && s.desc.Height == height {
		return false, nil
	}
	s.desc.Width = width
	s.desc.Height = height
	if err := s.configureLocked(); err != nil {
		return false, err
	}
	return true, nil
}

// Descriptor returns a copy of the current descriptor. It blocks while a
// frame is in flight.
func (s *SwapChain) Descriptor() SurfaceDescriptor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.desc
}

// Valid reports whether the swap chain is configured and matches the
// surface. It blocks while a frame is in flight.
func (s *SwapChain) Valid() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.valid
}

// Configures returns how many times the surface has been configured.
func (s *SwapChain) Configures() uint64 {
	return s.configures.Load()
}

type acquireResult struct {
	tex *hal.AcquiredSurfaceTexture
	err error
}

// Acquire waits for the next swap-chain image, bounded by the acquire
// timeout and ctx. Timeouts, busy and outdated surfaces are reported as
// transient errors (see IsTransient). The returned Frame must be released.
func (s *SwapChain) Acquire(ctx context.Context) (*Frame, error) {
	if !s.mu.TryLock() {
		return nil, ErrSwapChainBusy
	}

	if s.closed {
		s.mu.Unlock()
		return nil, ErrReleased
	}
	if !s.valid {
		if s.desc.Width == 0 || s.desc.Height == 0 {
			s.mu.Unlock()
			return nil, ErrSurfaceOutdated
		}
		if err := s.configureLocked(); err != nil {
			s.mu.Unlock()
			return nil, fmt.Errorf("%w: %w", ErrSurfaceOutdated, err)
		}
	}

	start := time.Now()
	ch := make(chan acquireResult, 1)
	go func() {
		tex, err := s.surface.AcquireTexture(nil)
		ch <- acquireResult{tex: tex, err: err}
	}()

	timer := time.NewTimer(s.timeout)
	defer timer.Stop()

	var res acquireResult
	select {
	case res = <-ch:
	case <-timer.C:
		go s.abandon(ch)
		return nil, ErrAcquireTimeout
	case <-ctx.Done():
		go s.abandon(ch)
		return nil, fmt.Errorf("%w: %w", ErrAcquireTimeout, ctx.Err())
	}

	if res.err != nil {
		err := s.classifyLocked(res.err)
		s.mu.Unlock()
		return nil, err
	}
	if res.tex.Suboptimal {
		// Usable this frame; reconfigure before the next one.
		s.valid = false
	}

	view, err := s.device.CreateTextureView(res.tex.Texture, &hal.TextureViewDescriptor{
		Label:         "blit_surface_view",
		Format:        s.desc.Format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		s.surface.DiscardTexture(res.tex.Texture)
		s.mu.Unlock()
		return nil, fmt.Errorf("create surface view: %w", err)
	}

	slogger().Debug("gpu: frame acquired", "wait", time.Since(start))
	return &Frame{
		chain:   s,
		texture: res.tex.Texture,
		view:    view,
		width:   s.desc.Width,
		height:  s.desc.Height,
	}, nil
}

// abandon waits for an acquisition the caller gave up on, discards the
// image if one arrives and only then unlocks the swap chain.
func (s *SwapChain) abandon(ch <-chan acquireResult) {
	res := <-ch
	if res.err == nil && res.tex != nil {
		s.surface.DiscardTexture(res.tex.Texture)
	}
	slogger().Debug("gpu: late swap-chain image discarded", "err", res.err)
	s.mu.Unlock()
}

// classifyLocked maps hal surface errors onto the frame error taxonomy.
func (s *SwapChain) classifyLocked(err error) error {
	switch {
	case errors.Is(err, hal.ErrSurfaceOutdated), errors.Is(err, hal.ErrSurfaceLost):
		s.valid = false
		return fmt.Errorf("%w: %w", ErrSurfaceOutdated, err)
	case errors.Is(err, hal.ErrTimeout):
		return fmt.Errorf("%w: %w", ErrAcquireTimeout, err)
	case errors.Is(err, hal.ErrDeviceLost):
		return fmt.Errorf("%w: %w", ErrDeviceLost, err)
	default:
		return err
	}
}

// Destroy unconfigures the surface. Safe to call more than once.
func (s *SwapChain) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.valid = false
	if s.configured {
		s.surface.Unconfigure(s.device)
	}
}

// Frame is one acquired swap-chain image. Release must be called on every
// path; it presents the image if commands rendering to it were submitted
// and discards it otherwise.
type Frame struct {
	chain     *SwapChain
	texture   hal.SurfaceTexture
	view      hal.TextureView
	width     uint32
	height    uint32
	submitted bool
	released  bool
}

// View returns the render-attachment view of the image.
func (f *Frame) View() hal.TextureView {
	return f.view
}

// Size returns the image size.
func (f *Frame) Size() (width, height uint32) {
	return f.width, f.height
}

// MarkSubmitted records that commands rendering to the frame were
// submitted, so Release presents it.
func (f *Frame) MarkSubmitted() {
	f.submitted = true
}

// Release presents or discards the frame and unlocks the swap chain. Safe
// to call more than once.
func (f *Frame) Release() error {
	if f.released {
		return nil
	}
	f.released = true

	s := f.chain
	defer s.mu.Unlock()
	defer s.device.DestroyTextureView(f.view)

	if !f.submitted {
		s.surface.DiscardTexture(f.texture)
		return nil
	}
	if err := s.queue.Present(s.surface, f.texture, nil); err != nil {
		return fmt.Errorf("present: %w", s.classifyLocked(err))
	}
	return nil
}
