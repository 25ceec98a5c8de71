//go:build !windows && !((linux || freebsd) && !wayland)

package main

import (
	"errors"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gogpu/blit"
)

func nativeHandle(*glfw.Window) (blit.Window, error) {
	return blit.Window{}, errors.New("windowed mode is not supported on " + runtime.GOOS + "; use -headless")
}
