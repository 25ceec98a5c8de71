package blit

import "image/color"

// Pixel is one 8-bit-per-channel RGBA texel. Its memory layout is exactly
// four bytes in r, g, b, a order, matching the GPU texture format.
type Pixel struct {
	R, G, B, A uint8
}

// Black is opaque black, the value every new buffer is cleared to.
var Black = Pixel{R: 0, G: 0, B: 0, A: 255}

// RGBA implements the color.Color interface. Pixels are stored
// unpremultiplied.
func (p Pixel) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: p.R, G: p.G, B: p.B, A: p.A}.RGBA()
}

// PixelFromColor converts any color.Color to a Pixel.
func PixelFromColor(c color.Color) Pixel {
	n, _ := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Pixel{R: n.R, G: n.G, B: n.B, A: n.A}
}
