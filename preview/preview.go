// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package preview reproduces the quad presentation pass on the CPU.
//
// Composite clears a viewport to opaque black and stretches the canvas over
// it with nearest-neighbor sampling, which is exactly what the GPU pass
// produces for an 8-bit canvas. It is used for headless output and to check
// uploaded canvas bytes without a display.
package preview

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
)

// ErrSizeMismatch is returned when pixel data does not match the canvas size.
var ErrSizeMismatch = errors.New("preview: pixel data size does not match canvas")

// Black is the clear color of every composited viewport.
var Black = color.NRGBA{R: 0, G: 0, B: 0, A: 255}

// Canvas wraps tightly packed RGBA8 bytes as an image without copying.
func Canvas(pixels []byte, width, height int) (*image.NRGBA, error) {
	if width <= 0 || height <= 0 || len(pixels) != width*height*4 {
		return nil, fmt.Errorf("%w: %d bytes for %dx%d", ErrSizeMismatch, len(pixels), width, height)
	}
	return &image.NRGBA{
		Pix:    pixels,
		Stride: width * 4,
		Rect:   image.Rect(0, 0, width, height),
	}, nil
}

// Composite renders the canvas into a viewW x viewH viewport: clear to
// opaque black, then stretch the canvas over the whole viewport with
// nearest-neighbor sampling.
func Composite(pixels []byte, width, height, viewW, viewH int) (*image.NRGBA, error) {
	src, err := Canvas(pixels, width, height)
	if err != nil {
		return nil, err
	}
	if viewW <= 0 || viewH <= 0 {
		return nil, fmt.Errorf("preview: invalid viewport %dx%d", viewW, viewH)
	}

	dst := image.NewNRGBA(image.Rect(0, 0, viewW, viewH))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(Black), image.Point{}, draw.Src)
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst, nil
}

// SampleNearest samples the canvas at normalized coordinates (u, v) the way
// a nearest-filter, clamp-to-edge sampler does: texel floor(u*width),
// clamped into range on both axes. Like Canvas, it rejects pixel data
// that does not match the canvas size.
func SampleNearest(pixels []byte, width, height int, u, v float64) (color.NRGBA, error) {
	if width <= 0 || height <= 0 || len(pixels) != width*height*4 {
		return color.NRGBA{}, fmt.Errorf("%w: %d bytes for %dx%d", ErrSizeMismatch, len(pixels), width, height)
	}
	x := clampTexel(u, width)
	y := clampTexel(v, height)
	i := (y*width + x) * 4
	return color.NRGBA{R: pixels[i], G: pixels[i+1], B: pixels[i+2], A: pixels[i+3]}, nil
}

// TexelCenter returns the normalized coordinate of the center of texel i
// along an axis of size n.
func TexelCenter(i, n int) float64 {
	return (float64(i) + 0.5) / float64(n)
}

func clampTexel(t float64, n int) int {
	i := int(math.Floor(t * float64(n)))
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
