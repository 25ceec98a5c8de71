package main

import (
	"context"
	"fmt"
	"image/png"
	"os"

	"github.com/gogpu/gg"

	"github.com/gogpu/blit"
	"github.com/gogpu/blit/integration/ggcanvas"
	"github.com/gogpu/blit/preview"
)

// cpuTarget stands in for a Renderer when no window exists: uploads and
// renders are no-ops and the pixels stay on the CPU.
type cpuTarget struct {
	pixels *blit.PixelBuffer
}

func (t *cpuTarget) Pixels() *blit.PixelBuffer    { return t.pixels }
func (t *cpuTarget) Draw() error                  { return nil }
func (t *cpuTarget) Render(context.Context) error { return nil }

// runHeadless draws the first frame of the scene and writes the window
// image the quad pass would present.
func runHeadless(cfg blit.Config, path string) error {
	target := &cpuTarget{pixels: blit.NewPixelBuffer(cfg.Canvas.Width, cfg.Canvas.Height)}
	canvas, err := ggcanvas.New(target)
	if err != nil {
		return err
	}
	defer func() { _ = canvas.Close() }()

	if err := canvas.Draw(func(dc *gg.Context) { drawScene(dc, 0) }); err != nil {
		return err
	}
	if err := canvas.Present(context.Background()); err != nil {
		return err
	}

	px := target.pixels
	img, err := preview.Composite(px.Bytes(), px.Width(), px.Height(), cfg.Window.Width, cfg.Window.Height)
	if err != nil {
		return err
	}

	f, err := os.Create(path) //nolint:gosec // path comes from the command line
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
