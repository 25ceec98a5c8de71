package blit

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"unsafe"

	"golang.org/x/image/draw"
)

// PixelBuffer is a fixed-size, row-major array of pixels. The pixel at
// (x, y) lives at index y*width + x. Its length never changes after
// construction; a different resolution needs a new buffer (and a new
// renderer texture of matching size).
//
// PixelBuffer implements draw.Image so it can be used as the destination of
// image/draw and golang.org/x/image/draw operations.
type PixelBuffer struct {
	pix    []Pixel
	width  int
	height int
}

var _ draw.Image = (*PixelBuffer)(nil)

// NewPixelBuffer allocates a width x height buffer cleared to opaque black.
// It panics if either dimension is negative.
func NewPixelBuffer(width, height int) *PixelBuffer {
	if width < 0 || height < 0 {
		panic(fmt.Sprintf("blit: negative buffer size %dx%d", width, height))
	}
	b := &PixelBuffer{
		pix:    make([]Pixel, width*height),
		width:  width,
		height: height,
	}
	b.Clear()
	return b
}

// WithCapacity allocates count pixels cleared to opaque black, laid out as
// a single row.
func WithCapacity(count int) *PixelBuffer {
	return NewPixelBuffer(count, 1)
}

// Len returns the number of pixels.
func (b *PixelBuffer) Len() int {
	return len(b.pix)
}

// Width returns the buffer width in pixels.
func (b *PixelBuffer) Width() int {
	return b.width
}

// Height returns the buffer height in pixels.
func (b *PixelBuffer) Height() int {
	return b.height
}

// PixelAt returns a mutable reference to the pixel at index. Callers must
// validate the index: an index outside [0, Len()) panics.
func (b *PixelBuffer) PixelAt(index int) *Pixel {
	if index < 0 || index >= len(b.pix) {
		panic(fmt.Sprintf("blit: pixel index %d out of range [0,%d)", index, len(b.pix)))
	}
	return &b.pix[index]
}

// PixelAtXY returns a mutable reference to the pixel at (x, y). Coordinates
// outside the buffer panic.
func (b *PixelBuffer) PixelAtXY(x, y int) *Pixel {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		panic(fmt.Sprintf("blit: pixel (%d,%d) out of range %dx%d", x, y, b.width, b.height))
	}
	return &b.pix[y*b.width+x]
}

// Bytes returns the pixels as a flat byte slice of length Len()*4 that
// aliases the buffer: writes through either view are visible in the other.
// Rows are width*4 bytes with no padding.
func (b *PixelBuffer) Bytes() []byte {
	if len(b.pix) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&b.pix[0])), len(b.pix)*4)
}

// Stride returns the number of bytes between the starts of two rows.
func (b *PixelBuffer) Stride() int {
	return b.width * 4
}

// Fill sets every pixel to p.
func (b *PixelBuffer) Fill(p Pixel) {
	for i := range b.pix {
		b.pix[i] = p
	}
}

// Clear resets every pixel to opaque black.
func (b *PixelBuffer) Clear() {
	b.Fill(Black)
}

// ColorModel implements the image.Image interface.
func (b *PixelBuffer) ColorModel() color.Model {
	return color.NRGBAModel
}

// Bounds implements the image.Image interface.
func (b *PixelBuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.width, b.height)
}

// At implements the image.Image interface. Out-of-bounds coordinates
// return transparent black, as the image package requires.
func (b *PixelBuffer) At(x, y int) color.Color {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return color.NRGBA{}
	}
	p := b.pix[y*b.width+x]
	return color.NRGBA{R: p.R, G: p.G, B: p.B, A: p.A}
}

// Set implements the draw.Image interface. Out-of-bounds writes are
// dropped.
func (b *PixelBuffer) Set(x, y int, c color.Color) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return
	}
	b.pix[y*b.width+x] = PixelFromColor(c)
}

// DrawImage scales src onto the whole buffer with nearest-neighbor
// sampling, replacing the previous contents.
func (b *PixelBuffer) DrawImage(src image.Image) {
	draw.NearestNeighbor.Scale(b, b.Bounds(), src, src.Bounds(), draw.Src, nil)
}

// ToImage returns a copy of the buffer as an *image.NRGBA.
func (b *PixelBuffer) ToImage() *image.NRGBA {
	img := image.NewNRGBA(b.Bounds())
	copy(img.Pix, b.Bytes())
	return img
}

// SavePNG writes the buffer to a PNG file.
func (b *PixelBuffer) SavePNG(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	return png.Encode(f, b.ToImage())
}
