// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package ggcanvas draws into a blit pixel buffer with gg's 2D API.
//
// The data flow is:
//
//	gg.Context (draw) -> Pixmap (CPU) -> blit.PixelBuffer -> GPU texture -> window
//
// # Usage
//
//	r, err := blit.New(win)
//	...
//	canvas := ggcanvas.MustNew(r)
//	defer canvas.Close()
//
//	canvas.Draw(func(cc *gg.Context) {
//	    cc.SetRGB(1, 0, 0)
//	    cc.DrawCircle(64, 64, 40)
//	    _ = cc.Fill()
//	})
//	if err := canvas.Present(ctx); err != nil && !blit.IsTransient(err) {
//	    log.Fatal(err)
//	}
//
// # Device Sharing
//
// When the target exposes a gpucontext.DeviceProvider (as *blit.Renderer
// does), New hands it to gg's GPU accelerator so shapes are rasterized on
// the presentation device instead of a second one.
//
// # Thread Safety
//
// Canvas is NOT safe for concurrent use.
package ggcanvas
