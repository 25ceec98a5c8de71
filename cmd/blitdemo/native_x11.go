//go:build (linux || freebsd) && !wayland

package main

import (
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gogpu/blit"
)

// nativeHandle returns the X11 display and window of w.
func nativeHandle(w *glfw.Window) (blit.Window, error) {
	return blit.Window{
		Display: uintptr(unsafe.Pointer(glfw.GetX11Display())),
		Window:  uintptr(w.GetX11Window()),
	}, nil
}
