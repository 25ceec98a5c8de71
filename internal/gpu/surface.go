package gpu

import (
	"fmt"
	"strings"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// DefaultSurfaceFormat is the swap-chain format used when none is given.
const DefaultSurfaceFormat = gputypes.TextureFormatBGRA8UnormSrgb

// WindowHandle carries the native handles of the window the surface
// presents to. The window must outlive the Device.
//
// On X11 Display is the Display* and Window the XID. On Windows Display is
// the HINSTANCE (may be zero) and Window the HWND.
type WindowHandle struct {
	Display uintptr
	Window  uintptr
}

// PresentMode selects how presented frames are synchronized with the
// display.
type PresentMode uint8

const (
	// PresentModeFifo waits for vertical blank. Always supported.
	PresentModeFifo PresentMode = iota

	// PresentModeFifoRelaxed waits for vertical blank unless a frame is late.
	PresentModeFifoRelaxed

	// PresentModeMailbox replaces the queued frame without tearing.
	PresentModeMailbox

	// PresentModeImmediate presents without waiting and may tear.
	PresentModeImmediate
)

// String returns the lower-case mode name.
func (m PresentMode) String() string {
	switch m {
	case PresentModeFifo:
		return "fifo"
	case PresentModeFifoRelaxed:
		return "fifo-relaxed"
	case PresentModeMailbox:
		return "mailbox"
	case PresentModeImmediate:
		return "immediate"
	default:
		return fmt.Sprintf("PresentMode(%d)", m)
	}
}

// ParsePresentMode parses a mode name as returned by String. The empty
// string selects fifo.
func ParsePresentMode(s string) (PresentMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fifo", "vsync":
		return PresentModeFifo, nil
	case "fifo-relaxed":
		return PresentModeFifoRelaxed, nil
	case "mailbox":
		return PresentModeMailbox, nil
	case "immediate":
		return PresentModeImmediate, nil
	default:
		return 0, fmt.Errorf("gpu: unknown present mode %q", s)
	}
}

func (m PresentMode) hal() hal.PresentMode {
	switch m {
	case PresentModeFifoRelaxed:
		return hal.PresentModeFifoRelaxed
	case PresentModeMailbox:
		return hal.PresentModeMailbox
	case PresentModeImmediate:
		return hal.PresentModeImmediate
	default:
		return hal.PresentModeFifo
	}
}

// SurfaceDescriptor describes the swap chain. It is updated in place on
// resize.
type SurfaceDescriptor struct {
	Width       uint32
	Height      uint32
	Format      gputypes.TextureFormat
	PresentMode PresentMode
}

// configuration converts the descriptor to a hal surface configuration.
func (d SurfaceDescriptor) configuration() *hal.SurfaceConfiguration {
	return &hal.SurfaceConfiguration{
		Width:       d.Width,
		Height:      d.Height,
		Format:      d.Format,
		Usage:       gputypes.TextureUsageRenderAttachment,
		PresentMode: d.PresentMode.hal(),
		AlphaMode:   hal.CompositeAlphaModeOpaque,
	}
}
