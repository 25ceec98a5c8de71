package gpu

import (
	"image"
	"sync"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

// createNoopInstance creates a noop instance for tests that need the full
// adapter negotiation.
func createNoopInstance(t *testing.T) hal.Instance {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	return instance
}

// createNoopDevice creates a noop device and queue.
func createNoopDevice(t *testing.T) (hal.Device, hal.Queue, func()) {
	t.Helper()
	instance := createNoopInstance(t)
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	cleanup := func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}
	return openDev.Device, openDev.Queue, cleanup
}

// fakeSurfaceTexture stands in for a swap-chain image.
type fakeSurfaceTexture struct {
	hal.SurfaceTexture
	id int
}

// fakeSurface records configuration calls and serves images from acquire.
// A nil acquire hands out a fresh image immediately.
type fakeSurface struct {
	hal.Surface

	mu           sync.Mutex
	configs      []hal.SurfaceConfiguration
	configureErr error
	unconfigured int
	discarded    []hal.SurfaceTexture
	destroyed    bool
	acquired     int
	acquire      func() (*hal.AcquiredSurfaceTexture, error)
	destroys     *destroyLog
}

func (s *fakeSurface) Configure(_ hal.Device, config *hal.SurfaceConfiguration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.configureErr != nil {
		return s.configureErr
	}
	s.configs = append(s.configs, *config)
	return nil
}

func (s *fakeSurface) Unconfigure(hal.Device) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unconfigured++
	s.destroys.add("unconfigure")
}

func (s *fakeSurface) AcquireTexture(hal.Fence) (*hal.AcquiredSurfaceTexture, error) {
	s.mu.Lock()
	acquire := s.acquire
	s.acquired++
	id := s.acquired
	s.mu.Unlock()

	if acquire != nil {
		return acquire()
	}
	return &hal.AcquiredSurfaceTexture{Texture: &fakeSurfaceTexture{id: id}}, nil
}

func (s *fakeSurface) DiscardTexture(tex hal.SurfaceTexture) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.discarded = append(s.discarded, tex)
}

func (s *fakeSurface) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.destroyed = true
	s.destroys.add("surface")
}

func (s *fakeSurface) configCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.configs)
}

func (s *fakeSurface) lastConfig() hal.SurfaceConfiguration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.configs[len(s.configs)-1]
}

func (s *fakeSurface) discardCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.discarded)
}

// textureWrite is one captured WriteTexture call.
type textureWrite struct {
	data   []byte
	layout hal.ImageDataLayout
	size   hal.Extent3D
}

// recordingQueue captures texture uploads, submissions and presents and
// forwards everything else to the noop queue. The error fields make the
// matching call fail.
type recordingQueue struct {
	hal.Queue

	mu            sync.Mutex
	writes        []textureWrite
	bufferWrites  int
	submitted     uint64
	presented     []hal.SurfaceTexture
	presentDamage [][]image.Rectangle

	writeTextureErr error
	writeBufferErr  error
	submitErr       error
	presentErr      error

	// stalled keeps PollCompleted at zero, as if the GPU never caught up.
	stalled bool
}

func (q *recordingQueue) WriteTexture(dst *hal.ImageCopyTexture, data []byte, layout *hal.ImageDataLayout, size *hal.Extent3D) error {
	q.mu.Lock()
	if q.writeTextureErr != nil {
		defer q.mu.Unlock()
		return q.writeTextureErr
	}
	q.writes = append(q.writes, textureWrite{
		data:   append([]byte(nil), data...),
		layout: *layout,
		size:   *size,
	})
	q.mu.Unlock()
	return q.Queue.WriteTexture(dst, data, layout, size)
}

func (q *recordingQueue) WriteBuffer(buffer hal.Buffer, offset uint64, data []byte) error {
	q.mu.Lock()
	if q.writeBufferErr != nil {
		defer q.mu.Unlock()
		return q.writeBufferErr
	}
	q.bufferWrites++
	q.mu.Unlock()
	return q.Queue.WriteBuffer(buffer, offset, data)
}

func (q *recordingQueue) Submit([]hal.CommandBuffer) (uint64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.submitErr != nil {
		return 0, q.submitErr
	}
	q.submitted++
	return q.submitted, nil
}

func (q *recordingQueue) PollCompleted() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.stalled {
		return 0
	}
	return q.submitted
}

func (q *recordingQueue) Present(_ hal.Surface, tex hal.SurfaceTexture, damage []image.Rectangle) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.presentErr != nil {
		return q.presentErr
	}
	q.presented = append(q.presented, tex)
	q.presentDamage = append(q.presentDamage, damage)
	return nil
}

func (q *recordingQueue) presentCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.presented)
}

func (q *recordingQueue) setStalled(stalled bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.stalled = stalled
}

// destroyLog records resource teardown across fakes in call order.
type destroyLog struct {
	mu     sync.Mutex
	events []string
}

func (l *destroyLog) add(event string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
}

func (l *destroyLog) list() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.events...)
}

// indexOf returns the position of the first event equal to name, or -1.
func (l *destroyLog) indexOf(name string) int {
	for i, e := range l.list() {
		if e == name {
			return i
		}
	}
	return -1
}

// lastIndexOf returns the position of the last event equal to name, or -1.
func (l *destroyLog) lastIndexOf(name string) int {
	events := l.list()
	for i := len(events) - 1; i >= 0; i-- {
		if events[i] == name {
			return i
		}
	}
	return -1
}

// recordingInstance wraps the adapters it enumerates so the devices they
// open record into destroys.
type recordingInstance struct {
	hal.Instance
	destroys *destroyLog
}

func (i *recordingInstance) EnumerateAdapters(hint hal.Surface) []hal.ExposedAdapter {
	adapters := i.Instance.EnumerateAdapters(hint)
	for n := range adapters {
		adapters[n].Adapter = &recordingAdapter{Adapter: adapters[n].Adapter, destroys: i.destroys}
	}
	return adapters
}

func (i *recordingInstance) Destroy() {
	i.destroys.add("instance")
	i.Instance.Destroy()
}

type recordingAdapter struct {
	hal.Adapter
	destroys *destroyLog
}

func (a *recordingAdapter) Open(features gputypes.Features, limits gputypes.Limits) (hal.OpenDevice, error) {
	od, err := a.Adapter.Open(features, limits)
	if err != nil {
		return od, err
	}
	od.Device = &recordingDevice{Device: od.Device, destroys: a.destroys}
	return od, nil
}

// recordingDevice captures the render passes begun on its encoders, the
// command buffers it frees and, when destroys is set, every teardown call.
type recordingDevice struct {
	hal.Device
	passes   []*recordingPass
	freed    int
	destroys *destroyLog
}

func (d *recordingDevice) FreeCommandBuffer(cmdBuf hal.CommandBuffer) {
	d.freed++
	d.Device.FreeCommandBuffer(cmdBuf)
}

func (d *recordingDevice) DestroyBuffer(b hal.Buffer) {
	d.destroys.add("buffer")
	d.Device.DestroyBuffer(b)
}

func (d *recordingDevice) DestroyRenderPipeline(p hal.RenderPipeline) {
	d.destroys.add("render pipeline")
	d.Device.DestroyRenderPipeline(p)
}

func (d *recordingDevice) DestroyPipelineLayout(l hal.PipelineLayout) {
	d.destroys.add("pipeline layout")
	d.Device.DestroyPipelineLayout(l)
}

func (d *recordingDevice) DestroyShaderModule(m hal.ShaderModule) {
	d.destroys.add("shader module")
	d.Device.DestroyShaderModule(m)
}

func (d *recordingDevice) DestroyBindGroup(g hal.BindGroup) {
	d.destroys.add("bind group")
	d.Device.DestroyBindGroup(g)
}

func (d *recordingDevice) DestroyBindGroupLayout(l hal.BindGroupLayout) {
	d.destroys.add("bind group layout")
	d.Device.DestroyBindGroupLayout(l)
}

func (d *recordingDevice) DestroySampler(s hal.Sampler) {
	d.destroys.add("sampler")
	d.Device.DestroySampler(s)
}

func (d *recordingDevice) DestroyTexture(t hal.Texture) {
	d.destroys.add("texture")
	d.Device.DestroyTexture(t)
}

func (d *recordingDevice) Destroy() {
	d.destroys.add("device")
	d.Device.Destroy()
}

func (d *recordingDevice) CreateCommandEncoder(desc *hal.CommandEncoderDescriptor) (hal.CommandEncoder, error) {
	enc, err := d.Device.CreateCommandEncoder(desc)
	if err != nil {
		return nil, err
	}
	return &recordingEncoder{CommandEncoder: enc, device: d}, nil
}

type recordingEncoder struct {
	hal.CommandEncoder
	device *recordingDevice
}

func (e *recordingEncoder) BeginRenderPass(desc *hal.RenderPassDescriptor) hal.RenderPassEncoder {
	p := &recordingPass{RenderPassEncoder: e.CommandEncoder.BeginRenderPass(desc), desc: *desc}
	e.device.passes = append(e.device.passes, p)
	return p
}

type drawIndexedCall struct {
	indexCount, instanceCount, firstIndex uint32
	baseVertex                            int32
	firstInstance                         uint32
}

type recordingPass struct {
	hal.RenderPassEncoder
	desc        hal.RenderPassDescriptor
	indexFormat gputypes.IndexFormat
	draws       []drawIndexedCall
	ended       bool
}

func (p *recordingPass) SetIndexBuffer(buffer hal.Buffer, format gputypes.IndexFormat, offset uint64) {
	p.indexFormat = format
	p.RenderPassEncoder.SetIndexBuffer(buffer, format, offset)
}

func (p *recordingPass) DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) {
	p.draws = append(p.draws, drawIndexedCall{indexCount, instanceCount, firstIndex, baseVertex, firstInstance})
	p.RenderPassEncoder.DrawIndexed(indexCount, instanceCount, firstIndex, baseVertex, firstInstance)
}

func (p *recordingPass) End() {
	p.ended = true
	p.RenderPassEncoder.End()
}
