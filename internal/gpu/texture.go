package gpu

import (
	"fmt"
	"sync/atomic"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// CanvasFormat is the sampled texture format: 8-bit RGBA, sRGB-decoded on
// sample. Its texel layout is byte-identical to blit.Pixel.
const CanvasFormat = gputypes.TextureFormatRGBA8UnormSrgb

// BytesPerPixel is the size of one canvas texel.
const BytesPerPixel = 4

// Bind group layout slots used by the quad fragment shader.
const (
	canvasTextureBinding = 0
	canvasSamplerBinding = 1
)

// SamplingTarget is the GPU side of the canvas: a fixed-size texture, a
// nearest/clamp sampler and the bind group exposing both to the fragment
// stage. The bind group is built once and never changes; it survives
// swap-chain resizes.
type SamplingTarget struct {
	device hal.Device
	queue  hal.Queue

	texture   hal.Texture
	view      hal.TextureView
	sampler   hal.Sampler
	layout    hal.BindGroupLayout
	bindGroup hal.BindGroup

	width  uint32
	height uint32

	uploads  atomic.Uint64
	released atomic.Bool
}

// NewSamplingTarget creates a width x height canvas texture with its
// sampler and bind group. Resources created before a failure are released.
func NewSamplingTarget(device hal.Device, queue hal.Queue, width, height uint32) (*SamplingTarget, error) {
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	t := &SamplingTarget{
		device: device,
		queue:  queue,
		width:  width,
		height: height,
	}
	if err := t.create(); err != nil {
		t.Destroy()
		return nil, err
	}
	return t, nil
}

func (t *SamplingTarget) create() error {
	texture, err := t.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "blit_canvas",
		Size:          hal.Extent3D{Width: t.width, Height: t.height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        CanvasFormat,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return initError("canvas texture", err)
	}
	t.texture = texture

	view, err := t.device.CreateTextureView(texture, &hal.TextureViewDescriptor{
		Label:         "blit_canvas_view",
		Format:        CanvasFormat,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		return initError("canvas texture view", err)
	}
	t.view = view

	// Nearest everywhere and clamp on every axis: canvas pixels are
	// replicated, never blurred or wrapped at the edges.
	sampler, err := t.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "blit_canvas_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeNearest,
		MinFilter:    gputypes.FilterModeNearest,
		MipmapFilter: gputypes.FilterModeNearest,
	})
	if err != nil {
		return initError("canvas sampler", err)
	}
	t.sampler = sampler

	layout, err := t.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "blit_canvas_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    canvasTextureBinding,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    canvasSamplerBinding,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return initError("canvas bind group layout", err)
	}
	t.layout = layout

	bindGroup, err := t.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "blit_canvas_bind",
		Layout: t.layout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: canvasTextureBinding, Resource: gputypes.TextureViewBinding{
				TextureView: t.view.NativeHandle(),
			}},
			{Binding: canvasSamplerBinding, Resource: gputypes.SamplerBinding{
				Sampler: t.sampler.NativeHandle(),
			}},
		},
	})
	if err != nil {
		return initError("canvas bind group", err)
	}
	t.bindGroup = bindGroup

	return nil
}

// Size returns the texture dimensions.
func (t *SamplingTarget) Size() (width, height uint32) {
	return t.width, t.height
}

// BytesPerRow returns the upload row pitch: width*4, no padding.
func (t *SamplingTarget) BytesPerRow() uint32 {
	return t.width * BytesPerPixel
}

// BindGroupLayout returns the layout the presentation pipeline is built
// against.
func (t *SamplingTarget) BindGroupLayout() hal.BindGroupLayout {
	return t.layout
}

// BindGroup returns the immutable texture+sampler bind group.
func (t *SamplingTarget) BindGroup() hal.BindGroup {
	return t.bindGroup
}

// Uploads returns the number of completed uploads.
func (t *SamplingTarget) Uploads() uint64 {
	return t.uploads.Load()
}

// Upload overwrites the whole texture with pixels, a tightly packed
// row-major RGBA8 image of exactly width x height texels. Any other size
// is rejected before a copy is queued.
func (t *SamplingTarget) Upload(pixels []byte) error {
	if t.released.Load() {
		return ErrReleased
	}
	want := int(t.width) * int(t.height) * BytesPerPixel
	if len(pixels) != want {
		return fmt.Errorf("%w: expected %dx%d, got %d pixels",
			ErrTextureSizeMismatch, t.width, t.height, len(pixels)/BytesPerPixel)
	}

	err := t.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: t.texture, MipLevel: 0},
		pixels,
		&hal.ImageDataLayout{Offset: 0, BytesPerRow: t.BytesPerRow(), RowsPerImage: t.height},
		&hal.Extent3D{Width: t.width, Height: t.height, DepthOrArrayLayers: 1},
	)
	if err != nil {
		return fmt.Errorf("upload canvas texture: %w", err)
	}
	t.uploads.Add(1)
	return nil
}

// Destroy releases the bind group, layout, sampler, view and texture in
// reverse creation order. Safe to call more than once.
func (t *SamplingTarget) Destroy() {
	if t.released.Swap(true) {
		return
	}
	if t.bindGroup != nil {
		t.device.DestroyBindGroup(t.bindGroup)
		t.bindGroup = nil
	}
	if t.layout != nil {
		t.device.DestroyBindGroupLayout(t.layout)
		t.layout = nil
	}
	if t.sampler != nil {
		t.device.DestroySampler(t.sampler)
		t.sampler = nil
	}
	if t.view != nil {
		t.device.DestroyTextureView(t.view)
		t.view = nil
	}
	if t.texture != nil {
		t.device.DestroyTexture(t.texture)
		t.texture = nil
	}
}
