package blit

import (
	"image/color"
	"testing"
	"unsafe"
)

func TestPixelLayout(t *testing.T) {
	if unsafe.Sizeof(Pixel{}) != 4 {
		t.Fatalf("sizeof(Pixel) = %d, want 4", unsafe.Sizeof(Pixel{}))
	}
	if unsafe.Offsetof(Pixel{}.A) != 3 {
		t.Errorf("offsetof(A) = %d, want 3", unsafe.Offsetof(Pixel{}.A))
	}
}

func TestPixelFromColor(t *testing.T) {
	tests := []struct {
		name string
		c    color.Color
		want Pixel
	}{
		{"nrgba", color.NRGBA{R: 1, G: 2, B: 3, A: 4}, Pixel{R: 1, G: 2, B: 3, A: 4}},
		{"opaque rgba", color.RGBA{R: 255, A: 255}, Pixel{R: 255, A: 255}},
		{"premultiplied", color.RGBA{R: 64, A: 128}, Pixel{R: 127, A: 128}},
		{"gray", color.Gray{Y: 200}, Pixel{R: 200, G: 200, B: 200, A: 255}},
		{"pixel", Pixel{R: 9, G: 8, B: 7, A: 255}, Pixel{R: 9, G: 8, B: 7, A: 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PixelFromColor(tt.c); got != tt.want {
				t.Errorf("PixelFromColor() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBlackIsOpaque(t *testing.T) {
	_, _, _, a := Black.RGBA()
	if a != 0xffff {
		t.Errorf("Black alpha = %#x, want 0xffff", a)
	}
}
