// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ggcanvas

import (
	"context"
	"errors"
	"fmt"

	"github.com/gogpu/gg"
	"github.com/gogpu/gpucontext"

	"github.com/gogpu/blit"
)

// Common errors returned by Canvas operations.
var (
	// ErrCanvasClosed is returned when operations are attempted on a closed canvas.
	ErrCanvasClosed = errors.New("ggcanvas: canvas is closed")

	// ErrInvalidDimensions is returned when the target's pixel buffer is empty.
	ErrInvalidDimensions = errors.New("ggcanvas: invalid dimensions")

	// ErrNilTarget is returned when a nil Target is passed.
	ErrNilTarget = errors.New("ggcanvas: nil Target")
)

// Target is the presentation side of a Canvas. *blit.Renderer implements
// it.
type Target interface {
	// Pixels returns the buffer the canvas flushes into.
	Pixels() *blit.PixelBuffer

	// Draw uploads the buffer to the GPU.
	Draw() error

	// Render presents the last upload.
	Render(ctx context.Context) error
}

// deviceSharer is implemented by targets that can lend their GPU device to
// gg's accelerator.
type deviceSharer interface {
	Device() gpucontext.DeviceProvider
}

// Canvas wraps gg.Context and streams its pixels into a Target.
//
// Canvas is NOT safe for concurrent use.
type Canvas struct {
	ctx    *gg.Context
	target Target
	pixels *blit.PixelBuffer
	dirty  bool // pixmap changed since the last flush
	width  int
	height int
	closed bool
}

// New creates a Canvas the size of target's pixel buffer.
//
// If target exposes a DeviceProvider, gg's GPU accelerator is pointed at it
// so both share one device.
func New(target Target) (*Canvas, error) {
	if target == nil {
		return nil, ErrNilTarget
	}
	pixels := target.Pixels()
	if pixels == nil || pixels.Width() <= 0 || pixels.Height() <= 0 {
		return nil, ErrInvalidDimensions
	}

	if s, ok := target.(deviceSharer); ok {
		// Non-fatal: without an accelerator gg renders on the CPU.
		if err := gg.SetAcceleratorDeviceProvider(s.Device()); err != nil {
			blit.Logger().Debug("ggcanvas: device not shared", "err", err)
		}
	}

	return &Canvas{
		ctx:    gg.NewContext(pixels.Width(), pixels.Height()),
		target: target,
		pixels: pixels,
		width:  pixels.Width(),
		height: pixels.Height(),
		dirty:  true,
	}, nil
}

// MustNew is like New but panics on error.
func MustNew(target Target) *Canvas {
	c, err := New(target)
	if err != nil {
		panic(err)
	}
	return c
}

// Context returns the gg drawing context, or nil if the canvas is closed.
//
// After drawing directly, call MarkDirty so the next Flush copies the
// pixels.
func (c *Canvas) Context() *gg.Context {
	if c.closed {
		return nil
	}
	return c.ctx
}

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int {
	return c.width
}

// Height returns the canvas height in pixels.
func (c *Canvas) Height() int {
	return c.height
}

// Size returns width and height as a convenience.
func (c *Canvas) Size() (width, height int) {
	return c.width, c.height
}

// MarkDirty flags the canvas for copying on the next Flush.
func (c *Canvas) MarkDirty() {
	c.dirty = true
}

// IsDirty reports whether the gg context has changes not yet flushed.
func (c *Canvas) IsDirty() bool {
	return c.dirty
}

// Draw calls fn with the gg context and marks the canvas dirty.
func (c *Canvas) Draw(fn func(*gg.Context)) error {
	if c.closed {
		return ErrCanvasClosed
	}
	fn(c.ctx)
	c.dirty = true
	return nil
}

// Flush copies the gg pixmap into the target's pixel buffer if the canvas
// is dirty. gg stores premultiplied alpha; the buffer holds straight
// alpha.
func (c *Canvas) Flush() error {
	if c.closed {
		return ErrCanvasClosed
	}
	if !c.dirty {
		return nil
	}

	// Errors are non-fatal: the CPU path has already rendered into the pixmap.
	if err := c.ctx.FlushGPU(); err != nil {
		blit.Logger().Warn("ggcanvas: GPU flush failed", "err", err)
	}

	src := c.ctx.ResizeTarget().Data()
	dst := c.pixels.Bytes()
	if len(src) != len(dst) {
		return fmt.Errorf("%w: pixmap has %d bytes, buffer %d", ErrInvalidDimensions, len(src), len(dst))
	}
	unpremultiply(dst, src)
	c.dirty = false
	return nil
}

// Upload flushes and uploads the pixel buffer to the GPU.
func (c *Canvas) Upload() error {
	if err := c.Flush(); err != nil {
		return err
	}
	return c.target.Draw()
}

// Present flushes, uploads and renders one frame. Transient frame errors
// are returned as is; see blit.IsTransient.
func (c *Canvas) Present(ctx context.Context) error {
	if err := c.Upload(); err != nil {
		return err
	}
	return c.target.Render(ctx)
}

// Close releases the gg context. The target is not closed.
// Close is idempotent.
func (c *Canvas) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	if c.ctx != nil {
		_ = c.ctx.Close()
		c.ctx = nil
	}
	c.target = nil
	return nil
}

// unpremultiply converts premultiplied RGBA src into straight RGBA dst.
func unpremultiply(dst, src []byte) {
	for i := 0; i+3 < len(src); i += 4 {
		a := src[i+3]
		switch a {
		case 255:
			copy(dst[i:i+4], src[i:i+4])
		case 0:
			dst[i], dst[i+1], dst[i+2], dst[i+3] = 0, 0, 0, 0
		default:
			half := uint16(a) / 2
			dst[i] = uint8(min((uint16(src[i])*255+half)/uint16(a), 255))
			dst[i+1] = uint8(min((uint16(src[i+1])*255+half)/uint16(a), 255))
			dst[i+2] = uint8(min((uint16(src[i+2])*255+half)/uint16(a), 255))
			dst[i+3] = a
		}
	}
}
