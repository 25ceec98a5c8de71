package gpu

import (
	"context"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// ClearColor is the color every frame is cleared to before the quad is
// drawn: opaque black.
var ClearColor = gputypes.Color{R: 0, G: 0, B: 0, A: 1}

// FrameRenderer runs the per-frame work: Draw uploads pixels to the
// canvas texture, Render draws the textured quad into the next swap-chain
// image and presents it. Uploads and render passes share one queue, so an
// upload is always visible to the next Render.
//
// The renderer owns target and pipeline from NewFrameRenderer on and
// releases them in Destroy.
type FrameRenderer struct {
	device   hal.Device
	queue    hal.Queue
	swap     *SwapChain
	target   *SamplingTarget
	pipeline *Pipeline

	// inflight holds submitted command buffers until the queue reports
	// their submission complete.
	inflight []submission
}

type submission struct {
	index  uint64
	cmdBuf hal.CommandBuffer
}

// NewFrameRenderer wires the device's queue and swap chain to a canvas
// target and pipeline.
func NewFrameRenderer(d *Device, target *SamplingTarget, pipeline *Pipeline) *FrameRenderer {
	return &FrameRenderer{
		device:   d.device,
		queue:    d.queue,
		swap:     d.swap,
		target:   target,
		pipeline: pipeline,
	}
}

// Draw uploads pixels to the canvas texture. See SamplingTarget.Upload.
func (r *FrameRenderer) Draw(pixels []byte) error {
	return r.target.Upload(pixels)
}

// Render acquires the next swap-chain image, records one pass that clears
// it to opaque black and draws the quad, submits it and presents. The
// acquired image is released on every return path: presented when the
// commands were submitted, discarded otherwise.
func (r *FrameRenderer) Render(ctx context.Context) (err error) {
	frame, err := r.swap.Acquire(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if rerr := frame.Release(); rerr != nil && err == nil {
			err = rerr
		}
	}()

	if err := r.encodeSubmit(frame); err != nil {
		return err
	}
	frame.MarkSubmitted()
	return nil
}

// encodeSubmit records the quad pass into frame and submits it. It does
// not wait for the GPU: the queue executes the pass before the present
// that follows it.
func (r *FrameRenderer) encodeSubmit(frame *Frame) error {
	r.retire(r.queue.PollCompleted())

	encoder, err := r.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "blit_frame_encoder",
	})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("blit_frame"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "blit_quad_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       frame.View(),
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: ClearColor,
		}},
	})
	r.pipeline.Record(rp, r.target.BindGroup())
	rp.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}

	index, err := r.queue.Submit([]hal.CommandBuffer{cmdBuf})
	if err != nil {
		r.device.FreeCommandBuffer(cmdBuf)
		return fmt.Errorf("submit: %w", err)
	}
	r.inflight = append(r.inflight, submission{index: index, cmdBuf: cmdBuf})
	return nil
}

// retire frees the command buffers of submissions up to completed.
func (r *FrameRenderer) retire(completed uint64) {
	n := 0
	for _, sub := range r.inflight {
		if sub.index > completed {
			break
		}
		r.device.FreeCommandBuffer(sub.cmdBuf)
		n++
	}
	r.inflight = r.inflight[n:]
}

// InFlight returns the number of submitted frames whose command buffers
// are still held.
func (r *FrameRenderer) InFlight() int {
	return len(r.inflight)
}

// Destroy waits for the queue to drain, frees the remaining command
// buffers and releases the pipeline and then the canvas target, the
// reverse of their creation order. The device outlives the renderer.
// Safe to call more than once.
func (r *FrameRenderer) Destroy() {
	if len(r.inflight) > 0 {
		if err := r.device.WaitIdle(); err != nil {
			slogger().Warn("gpu: wait idle before teardown", "err", err)
		}
		for _, sub := range r.inflight {
			r.device.FreeCommandBuffer(sub.cmdBuf)
		}
		r.inflight = nil
	}
	r.pipeline.Destroy()
	r.target.Destroy()
}
