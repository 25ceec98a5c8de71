package gpu

import (
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/blit/shader"

	_ "github.com/gogpu/wgpu/hal/vulkan" // registers the Vulkan backend
)

// AdapterPreference orders adapter types when more than one can present.
type AdapterPreference uint8

const (
	// PreferDiscrete picks a discrete GPU, then an integrated one.
	PreferDiscrete AdapterPreference = iota

	// PreferIntegrated picks an integrated GPU, then a discrete one.
	PreferIntegrated
)

// DeviceConfig configures OpenDevice.
type DeviceConfig struct {
	// Surface is the initial swap-chain descriptor, normally the window's
	// framebuffer size.
	Surface SurfaceDescriptor

	// AcquireTimeout bounds swap-chain image acquisition.
	// Zero means DefaultAcquireTimeout.
	AcquireTimeout time.Duration

	// Preference selects between adapter types.
	Preference AdapterPreference
}

// Device owns the instance, surface, adapter, logical device, queue and
// swap chain. It is created once per window and destroyed in reverse
// creation order. Resources created from it (textures, pipelines) must be
// destroyed before it.
type Device struct {
	instance hal.Instance
	surface  hal.Surface
	device   hal.Device
	queue    hal.Queue
	swap     *SwapChain
	format   gputypes.TextureFormat

	adapterName string
	adapterType gputypes.DeviceType
	destroyed   bool
}

// Open resolves a registered hal backend and opens a device on it.
func Open(backend gputypes.Backend, window WindowHandle, cfg DeviceConfig) (*Device, error) {
	b, ok := hal.GetBackend(backend)
	if !ok {
		return nil, initError("backend", ErrBackendUnavailable)
	}
	return OpenDevice(b, window, cfg)
}

// OpenDevice creates an instance on backend, a surface for window, and
// negotiates an adapter and device synchronously. Every failure is fatal
// and names the resource that failed; partially created resources are
// released before returning.
func OpenDevice(backend hal.Backend, window WindowHandle, cfg DeviceConfig) (*Device, error) {
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, initError("instance", err)
	}
	surface, err := instance.CreateSurface(window.Display, window.Window)
	if err != nil {
		instance.Destroy()
		return nil, initError("surface", err)
	}
	d, err := NewDevice(instance, surface, cfg)
	if err != nil {
		surface.Destroy()
		instance.Destroy()
		return nil, err
	}
	return d, nil
}

// NewDevice negotiates an adapter able to present to surface, opens the
// logical device and configures the swap chain. On success the Device
// takes ownership of instance and surface.
func NewDevice(instance hal.Instance, surface hal.Surface, cfg DeviceConfig) (*Device, error) {
	adapters := instance.EnumerateAdapters(surface)
	types := make([]gputypes.DeviceType, len(adapters))
	for i := range adapters {
		types[i] = adapters[i].Info.DeviceType
	}
	idx := pickAdapter(types, cfg.Preference)
	if idx < 0 {
		return nil, initError("adapter", ErrNoAdapter)
	}
	selected := &adapters[idx]

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		return nil, initError("device", err)
	}

	swap, err := NewSwapChain(openDev.Device, openDev.Queue, surface, cfg.Surface, cfg.AcquireTimeout)
	if err != nil {
		openDev.Device.Destroy()
		return nil, initError("swap chain", err)
	}

	slogger().Info("gpu: adapter selected",
		"name", selected.Info.Name,
		"type", selected.Info.DeviceType,
	)

	return &Device{
		instance:    instance,
		surface:     surface,
		device:      openDev.Device,
		queue:       openDev.Queue,
		swap:        swap,
		format:      swap.desc.Format,
		adapterName: selected.Info.Name,
		adapterType: selected.Info.DeviceType,
	}, nil
}

// pickAdapter returns the index of the preferred adapter type, falling
// back to the first adapter, or -1 when there are none.
func pickAdapter(types []gputypes.DeviceType, pref AdapterPreference) int {
	if len(types) == 0 {
		return -1
	}
	order := []gputypes.DeviceType{gputypes.DeviceTypeDiscreteGPU, gputypes.DeviceTypeIntegratedGPU}
	if pref == PreferIntegrated {
		order[0], order[1] = order[1], order[0]
	}
	for _, want := range order {
		for i, t := range types {
			if t == want {
				return i
			}
		}
	}
	return 0
}

// SwapChain returns the device's swap chain.
func (d *Device) SwapChain() *SwapChain {
	return d.swap
}

// Resize forwards a window resize to the swap chain.
// See SwapChain.Resize.
func (d *Device) Resize(width, height uint32) (bool, error) {
	return d.swap.Resize(width, height)
}

// NewSamplingTarget creates a canvas texture on the device.
func (d *Device) NewSamplingTarget(width, height uint32) (*SamplingTarget, error) {
	return NewSamplingTarget(d.device, d.queue, width, height)
}

// NewPipeline creates the presentation pipeline for target's bind group
// layout and the swap-chain format.
func (d *Device) NewPipeline(target *SamplingTarget, vs, fs *shader.Module) (*Pipeline, error) {
	return NewPipeline(d.device, d.queue, target.BindGroupLayout(), vs, fs, d.format)
}

// AdapterName returns the name reported by the selected adapter.
func (d *Device) AdapterName() string {
	return d.adapterName
}

// Destroy releases the swap chain, device, surface and instance, the
// reverse of their creation order. Safe to call more than once.
func (d *Device) Destroy() {
	if d.destroyed {
		return
	}
	d.destroyed = true

	if d.swap != nil {
		d.swap.Destroy()
	}
	if d.device != nil {
		d.device.Destroy()
	}
	if d.surface != nil {
		d.surface.Destroy()
	}
	if d.instance != nil {
		d.instance.Destroy()
	}
}
