//go:build windows

package main

import (
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gogpu/blit"
)

// nativeHandle returns the HWND of w. The HINSTANCE is left zero and
// resolved by the backend.
func nativeHandle(w *glfw.Window) (blit.Window, error) {
	return blit.Window{
		Window: uintptr(unsafe.Pointer(w.GetWin32Window())),
	}, nil
}
