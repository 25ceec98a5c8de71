// Package gpu implements the presentation side of blit on gogpu/wgpu's hal
// layer.
//
// It streams one fixed-size canvas texture to a window surface:
//
//	[]byte pixels -> SamplingTarget.Upload -> FrameRenderer.Render -> SwapChain present
//
// Key components:
//
//   - Device: instance, surface, adapter, logical device, queue and swap
//     chain, negotiated once and torn down in reverse creation order
//   - SwapChain: surface configuration, resize, bounded image acquisition
//     and scoped present/discard through Frame
//   - SamplingTarget: canvas texture, nearest/clamp sampler and the
//     immutable bind group
//   - Pipeline: quad vertex/index buffers and the fixed render pipeline
//     built from validated SPIR-V modules
//   - FrameRenderer: upload and the single clear-and-draw pass per frame
//
// Only the swap chain depends on the window size. The texture, pipeline and
// geometry survive resizes.
//
// # Errors
//
// Initialization failures are returned as *InitError naming the resource
// and are fatal. Per-frame errors satisfying IsTransient drop the frame and
// the caller retries on the next tick.
package gpu
