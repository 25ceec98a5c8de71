package main

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/blit"
)

func TestRunHeadless(t *testing.T) {
	cfg := blit.DefaultConfig()
	cfg.Window.Width, cfg.Window.Height = 256, 192
	cfg.Canvas.Width, cfg.Canvas.Height = 64, 64

	path := filepath.Join(t.TempDir(), "frame.png")
	if err := runHeadless(cfg, path); err != nil {
		t.Fatalf("runHeadless: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 256 || b.Dy() != 192 {
		t.Errorf("image size = %dx%d, want 256x192", b.Dx(), b.Dy())
	}
	// The scene background is opaque everywhere.
	if _, _, _, a := img.At(0, 0).RGBA(); a != 0xffff {
		t.Errorf("corner alpha = %#x, want opaque", a)
	}
	if got := color.NRGBAModel.Convert(img.At(128, 96)).(color.NRGBA); got.R < 200 || got.G < 150 {
		t.Errorf("center = %v, want the yellow square", got)
	}
}
