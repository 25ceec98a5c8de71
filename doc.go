// Package blit streams a CPU pixel buffer to the screen through the GPU.
//
// # Overview
//
// blit keeps a fixed-resolution [PixelBuffer] in memory, uploads it to a
// GPU texture every frame and composites that texture onto a full-viewport
// quad in a single render pass. The canvas resolution is independent of the
// window: the quad always covers the whole viewport and is sampled with
// nearest-neighbor filtering, so a 128x128 canvas stretches to fill any
// window without blurring.
//
// # Quick Start
//
//	r, err := blit.New(blit.Window{Display: display, Window: window, Width: 800, Height: 600})
//	if err != nil {
//	    log.Fatalf("init: %v", err)
//	}
//	defer r.Close()
//
//	*r.Pixels().PixelAtXY(64, 64) = blit.Pixel{R: 255, A: 255}
//	if err := r.Draw(); err != nil {
//	    log.Fatal(err)
//	}
//	if err := r.Render(ctx); err != nil && !blit.IsTransient(err) {
//	    log.Fatal(err)
//	}
//
// # Frame Loop
//
// [Renderer.Draw] uploads the current buffer contents to the texture and
// [Renderer.Render] acquires the next swap-chain image, clears it to opaque
// black, draws the quad and presents it. Render errors that satisfy
// [IsTransient] mean the frame was dropped (acquire timeout, outdated
// surface) and the caller should simply try again next tick.
//
// # Resize
//
// [Renderer.Resize] reconfigures the swap chain only. The texture, pipeline
// and quad geometry survive resizes unchanged. Zero-sized resize events,
// which some platforms send while a window is minimized, are ignored.
//
// # Logging
//
// blit is silent by default. Call [SetLogger] to route diagnostics through
// log/slog.
package blit
