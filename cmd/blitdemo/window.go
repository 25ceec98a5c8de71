package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/gogpu/gg"

	"github.com/gogpu/blit"
	"github.com/gogpu/blit/integration/ggcanvas"
)

// runWindow opens a glfw window and presents the animated canvas until the
// window closes or maxFrames frames were presented.
func runWindow(cfg blit.Config, maxFrames int) error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("init glfw: %w", err)
	}
	defer glfw.Terminate()

	// The surface is created by blit, not by a client API.
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	window, err := glfw.CreateWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title, nil, nil)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	defer window.Destroy()

	handle, err := nativeHandle(window)
	if err != nil {
		return err
	}
	fbW, fbH := window.GetFramebufferSize()
	handle.Width, handle.Height = uint32(fbW), uint32(fbH) //nolint:gosec // framebuffer sizes are non-negative

	opts, err := cfg.Options()
	if err != nil {
		return err
	}
	r, err := blit.New(handle, opts...)
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	canvas, err := ggcanvas.New(r)
	if err != nil {
		return err
	}
	defer func() { _ = canvas.Close() }()

	var resizeErr error
	window.SetFramebufferSizeCallback(func(_ *glfw.Window, w, h int) {
		// Zero while minimized; Resize ignores it.
		if err := r.Resize(uint32(w), uint32(h)); err != nil && resizeErr == nil { //nolint:gosec // non-negative
			resizeErr = err
		}
	})

	ctx := context.Background()
	for n := 0; !window.ShouldClose(); n++ {
		glfw.PollEvents()
		if resizeErr != nil {
			return resizeErr
		}
		if maxFrames > 0 && n >= maxFrames {
			break
		}

		if err := canvas.Draw(func(dc *gg.Context) { drawScene(dc, n) }); err != nil {
			return err
		}
		err := canvas.Present(ctx)
		switch {
		case err == nil:
		case blit.IsTransient(err):
			// Dropped; the next iteration retries.
		case errors.Is(err, blit.ErrDeviceLost):
			return err
		default:
			return fmt.Errorf("frame %d: %w", n, err)
		}
	}

	s := r.Stats()
	log.Printf("Presented %d frames (%d dropped, %d swap-chain configurations)\n", s.Frames, s.Dropped, s.Reconfigures)
	return nil
}
