package gpu

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// Device implements gpucontext.DeviceProvider so drawing libraries (gg's
// GPU accelerator) can share the presentation device instead of opening
// their own. HalDevice and HalQueue expose the underlying hal objects.
var _ gpucontext.DeviceProvider = (*Device)(nil)

// contextDevice adapts Device to gpucontext.Device. The provider does not
// own the device: Destroy is a no-op and the renderer tears it down.
type contextDevice struct{ d *Device }

// Poll is a no-op: submissions are retired by the frame renderer.
func (contextDevice) Poll(bool) {}

func (contextDevice) Destroy() {}

type contextQueue struct{ d *Device }

type contextAdapter struct{ d *Device }

// Device returns the device as a gpucontext.Device.
func (d *Device) Device() gpucontext.Device { return contextDevice{d} }

// Queue returns the queue as a gpucontext.Queue.
func (d *Device) Queue() gpucontext.Queue { return contextQueue{d} }

// Adapter returns the adapter as a gpucontext.Adapter.
func (d *Device) Adapter() gpucontext.Adapter { return contextAdapter{d} }

// AdapterInfo reports the selected adapter's name and type.
func (d *Device) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{
		Name: d.adapterName,
		Type: adapterType(d.adapterType),
	}
}

func adapterType(t gputypes.DeviceType) gpucontext.AdapterType {
	switch t {
	case gputypes.DeviceTypeDiscreteGPU:
		return gpucontext.AdapterTypeDiscrete
	case gputypes.DeviceTypeIntegratedGPU:
		return gpucontext.AdapterTypeIntegrated
	case gputypes.DeviceTypeCPU:
		return gpucontext.AdapterTypeSoftware
	default:
		return gpucontext.AdapterTypeUnknown
	}
}

// SurfaceFormat returns the swap-chain format.
func (d *Device) SurfaceFormat() gputypes.TextureFormat {
	return d.format
}

// HalDevice returns the hal.Device.
func (d *Device) HalDevice() any { return d.device }

// HalQueue returns the hal.Queue.
func (d *Device) HalQueue() any { return d.queue }
