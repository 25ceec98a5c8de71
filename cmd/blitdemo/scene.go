package main

import (
	"math"

	"github.com/gogpu/gg"
)

// drawScene paints frame n of the demo animation: a dark background, a
// ring of orbiting dots and a rotating square. The canvas is small, so
// the nearest-neighbor stretch keeps the pixels visible.
func drawScene(dc *gg.Context, n int) {
	w := float64(dc.Width())
	h := float64(dc.Height())
	t := float64(n) / 60

	dc.ClearWithColor(gg.RGB(0.05, 0.05, 0.1))

	cx, cy := w/2, h/2
	radius := math.Min(w, h) * 0.35
	const dots = 12
	for i := 0; i < dots; i++ {
		a := t + float64(i)*2*math.Pi/dots
		dc.SetColor(gg.HSL(float64(i)/dots*360, 0.8, 0.6).Color())
		dc.DrawCircle(cx+radius*math.Cos(a), cy+radius*math.Sin(a), math.Max(2, radius*0.12))
		_ = dc.Fill()
	}

	dc.Push()
	dc.Translate(cx, cy)
	dc.Rotate(-t)
	side := radius * 0.8
	dc.SetRGB(1, 0.8, 0)
	dc.DrawRoundedRectangle(-side/2, -side/2, side, side, side*0.15)
	_ = dc.Fill()
	dc.SetRGB(1, 1, 1)
	dc.SetLineWidth(math.Max(1, side*0.05))
	dc.DrawRoundedRectangle(-side/2, -side/2, side, side, side*0.15)
	_ = dc.Stroke()
	dc.Pop()
}
