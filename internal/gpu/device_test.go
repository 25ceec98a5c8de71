package gpu

import (
	"errors"
	"slices"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

func TestPickAdapter(t *testing.T) {
	var (
		discrete   = gputypes.DeviceTypeDiscreteGPU
		integrated = gputypes.DeviceTypeIntegratedGPU
		cpu        = gputypes.DeviceTypeCPU
	)
	tests := []struct {
		name  string
		types []gputypes.DeviceType
		pref  AdapterPreference
		want  int
	}{
		{"none", nil, PreferDiscrete, -1},
		{"single", []gputypes.DeviceType{cpu}, PreferDiscrete, 0},
		{"discrete first", []gputypes.DeviceType{cpu, integrated, discrete}, PreferDiscrete, 2},
		{"integrated first", []gputypes.DeviceType{discrete, integrated}, PreferIntegrated, 1},
		{"integrated fallback", []gputypes.DeviceType{cpu, integrated}, PreferDiscrete, 1},
		{"discrete fallback", []gputypes.DeviceType{cpu, discrete}, PreferIntegrated, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pickAdapter(tt.types, tt.pref); got != tt.want {
				t.Errorf("pickAdapter() = %d, want %d", got, tt.want)
			}
		})
	}
}

func newTestDevice(t *testing.T, surface *fakeSurface, cfg DeviceConfig) *Device {
	t.Helper()
	instance := createNoopInstance(t)
	d, err := NewDevice(instance, surface, cfg)
	if err != nil {
		instance.Destroy()
		t.Fatalf("NewDevice: %v", err)
	}
	return d
}

func TestNewDevice(t *testing.T) {
	surface := &fakeSurface{}
	d := newTestDevice(t, surface, DeviceConfig{
		Surface: SurfaceDescriptor{Width: 640, Height: 480, PresentMode: PresentModeMailbox},
	})
	defer d.Destroy()

	if d.AdapterName() == "" {
		t.Error("expected adapter name")
	}
	if d.SurfaceFormat() != DefaultSurfaceFormat {
		t.Errorf("SurfaceFormat() = %v, want %v", d.SurfaceFormat(), DefaultSurfaceFormat)
	}
	if _, ok := d.HalDevice().(hal.Device); !ok {
		t.Errorf("HalDevice() = %T, want hal.Device", d.HalDevice())
	}
	if _, ok := d.HalQueue().(hal.Queue); !ok {
		t.Errorf("HalQueue() = %T, want hal.Queue", d.HalQueue())
	}
	if d.Device() == nil || d.Queue() == nil || d.Adapter() == nil {
		t.Error("expected non-nil gpucontext accessors")
	}
	if info := d.AdapterInfo(); info.Name != d.AdapterName() {
		t.Errorf("AdapterInfo().Name = %q, want %q", info.Name, d.AdapterName())
	}
	cfg := surface.lastConfig()
	if cfg.PresentMode != hal.PresentModeMailbox {
		t.Errorf("present mode = %v, want mailbox", cfg.PresentMode)
	}

	changed, err := d.Resize(800, 600)
	if err != nil || !changed {
		t.Errorf("Resize = %v, %v; want true, nil", changed, err)
	}
}

func TestNewDeviceSwapChainError(t *testing.T) {
	surface := &fakeSurface{configureErr: errors.New("unsupported format")}
	instance := createNoopInstance(t)
	defer instance.Destroy()

	_, err := NewDevice(instance, surface, DeviceConfig{
		Surface: SurfaceDescriptor{Width: 640, Height: 480},
	})
	var ierr *InitError
	if !errors.As(err, &ierr) || ierr.Resource != "swap chain" {
		t.Fatalf("NewDevice error = %v, want swap chain InitError", err)
	}
	if IsTransient(err) {
		t.Error("initialization errors must not be transient")
	}
}

func TestDeviceDestroy(t *testing.T) {
	surface := &fakeSurface{}
	d := newTestDevice(t, surface, DeviceConfig{
		Surface: SurfaceDescriptor{Width: 640, Height: 480},
	})

	d.Destroy()
	d.Destroy()
	if !surface.destroyed {
		t.Error("surface not destroyed")
	}
	if surface.unconfigured != 1 {
		t.Errorf("unconfigure calls = %d, want 1", surface.unconfigured)
	}
}

func TestDeviceDestroyOrder(t *testing.T) {
	log := &destroyLog{}
	surface := &fakeSurface{destroys: log}
	instance := &recordingInstance{Instance: createNoopInstance(t), destroys: log}
	d, err := NewDevice(instance, surface, DeviceConfig{
		Surface: SurfaceDescriptor{Width: 640, Height: 480},
	})
	if err != nil {
		instance.Destroy()
		t.Fatalf("NewDevice: %v", err)
	}

	d.Destroy()
	d.Destroy()

	want := []string{"unconfigure", "device", "surface", "instance"}
	if got := log.list(); !slices.Equal(got, want) {
		t.Errorf("destroy order = %v, want %v", got, want)
	}
}

func TestAdapterType(t *testing.T) {
	tests := []struct {
		in   gputypes.DeviceType
		want gpucontext.AdapterType
	}{
		{gputypes.DeviceTypeDiscreteGPU, gpucontext.AdapterTypeDiscrete},
		{gputypes.DeviceTypeIntegratedGPU, gpucontext.AdapterTypeIntegrated},
		{gputypes.DeviceTypeCPU, gpucontext.AdapterTypeSoftware},
		{gputypes.DeviceTypeVirtualGPU, gpucontext.AdapterTypeUnknown},
		{gputypes.DeviceTypeOther, gpucontext.AdapterTypeUnknown},
	}
	for _, tt := range tests {
		if got := adapterType(tt.in); got != tt.want {
			t.Errorf("adapterType(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}

	d := &Device{adapterName: "llvmpipe", adapterType: gputypes.DeviceTypeCPU}
	want := gpucontext.AdapterInfo{Name: "llvmpipe", Type: gpucontext.AdapterTypeSoftware}
	if got := d.AdapterInfo(); got != want {
		t.Errorf("AdapterInfo() = %+v, want %+v", got, want)
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open(gputypes.Backend(250), WindowHandle{}, DeviceConfig{})
	if !errors.Is(err, ErrBackendUnavailable) {
		t.Fatalf("Open error = %v, want ErrBackendUnavailable", err)
	}
	var ierr *InitError
	if !errors.As(err, &ierr) || ierr.Resource != "backend" {
		t.Errorf("Open error = %v, want backend InitError", err)
	}
}

func TestInitError(t *testing.T) {
	err := initError("canvas texture", ErrInvalidDimensions)
	if got, want := err.Error(), "gpu: create canvas texture: gpu: invalid dimensions"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrInvalidDimensions) {
		t.Error("InitError should unwrap to its cause")
	}
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{ErrAcquireTimeout, true},
		{ErrSurfaceOutdated, true},
		{ErrSwapChainBusy, true},
		{ErrDeviceLost, false},
		{ErrNoAdapter, false},
		{ErrTextureSizeMismatch, false},
		{nil, false},
	}
	for _, tt := range tests {
		if got := IsTransient(tt.err); got != tt.want {
			t.Errorf("IsTransient(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
