package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/blit/shader"
)

// replaceBlend writes the fragment color unchanged.
var replaceBlend = gputypes.BlendState{
	Color: gputypes.BlendComponent{
		SrcFactor: gputypes.BlendFactorOne,
		DstFactor: gputypes.BlendFactorZero,
		Operation: gputypes.BlendOperationAdd,
	},
	Alpha: gputypes.BlendComponent{
		SrcFactor: gputypes.BlendFactorOne,
		DstFactor: gputypes.BlendFactorZero,
		Operation: gputypes.BlendOperationAdd,
	},
}

// Pipeline is the fixed presentation pipeline: the quad vertex and index
// buffers plus one render pipeline (triangle list, counter-clockwise front
// faces, back faces culled, no depth/stencil, replace blending, single
// sample). It is built once and never rebuilt.
type Pipeline struct {
	device hal.Device

	vertexShader   hal.ShaderModule
	fragmentShader hal.ShaderModule
	pipeLayout     hal.PipelineLayout
	pipeline       hal.RenderPipeline
	vertBuf        hal.Buffer
	idxBuf         hal.Buffer

	format gputypes.TextureFormat
}

// NewPipeline validates the shader modules, uploads the quad geometry and
// creates the render pipeline for the canvas bind group layout and the
// swap-chain format. Every failure is fatal and names the resource.
func NewPipeline(device hal.Device, queue hal.Queue, layout hal.BindGroupLayout, vs, fs *shader.Module, format gputypes.TextureFormat) (*Pipeline, error) {
	if err := validateStage(vs, shader.StageVertex); err != nil {
		return nil, initError("vertex shader", err)
	}
	if err := validateStage(fs, shader.StageFragment); err != nil {
		return nil, initError("fragment shader", err)
	}

	p := &Pipeline{device: device, format: format}
	if err := p.create(queue, layout, vs, fs); err != nil {
		p.Destroy()
		return nil, err
	}
	return p, nil
}

func validateStage(m *shader.Module, stage shader.Stage) error {
	if m == nil {
		return fmt.Errorf("%w: no %s module", shader.ErrMissingEntryPoint, stage)
	}
	if m.Stage != stage {
		return fmt.Errorf("%s is a %s module, want %s", m.Label, m.Stage, stage)
	}
	return m.Validate()
}

func (p *Pipeline) create(queue hal.Queue, layout hal.BindGroupLayout, vs, fs *shader.Module) error {
	vertexShader, err := p.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  vs.Label,
		Source: hal.ShaderSource{SPIRV: vs.Words},
	})
	if err != nil {
		return initError("vertex shader", err)
	}
	p.vertexShader = vertexShader

	fragmentShader, err := p.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  fs.Label,
		Source: hal.ShaderSource{SPIRV: fs.Words},
	})
	if err != nil {
		return initError("fragment shader", err)
	}
	p.fragmentShader = fragmentShader

	pipeLayout, err := p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "blit_quad_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{layout},
	})
	if err != nil {
		return initError("pipeline layout", err)
	}
	p.pipeLayout = pipeLayout

	blend := replaceBlend
	pipeline, err := p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "blit_quad_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.vertexShader,
			EntryPoint: shader.EntryPointName,
			Buffers:    quadVertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     p.fragmentShader,
			EntryPoint: shader.EntryPointName,
			Targets: []gputypes.ColorTargetState{
				{
					Format:    p.format,
					Blend:     &blend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology:  gputypes.PrimitiveTopologyTriangleList,
			FrontFace: gputypes.FrontFaceCCW,
			CullMode:  gputypes.CullModeBack,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return initError("render pipeline", err)
	}
	p.pipeline = pipeline

	vertBuf, err := p.createAndUploadBuffer(queue, "blit_quad_vertices", buildQuadVertexData(),
		gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return initError("quad vertex buffer", err)
	}
	p.vertBuf = vertBuf

	idxBuf, err := p.createAndUploadBuffer(queue, "blit_quad_indices", buildQuadIndexData(),
		gputypes.BufferUsageIndex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return initError("quad index buffer", err)
	}
	p.idxBuf = idxBuf

	return nil
}

// createAndUploadBuffer creates a GPU buffer and uploads data.
func (p *Pipeline) createAndUploadBuffer(queue hal.Queue, label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := p.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	if err := queue.WriteBuffer(buf, 0, data); err != nil {
		p.device.DestroyBuffer(buf)
		return nil, fmt.Errorf("write %s: %w", label, err)
	}
	return buf, nil
}

// Format returns the color target format the pipeline was built for.
func (p *Pipeline) Format() gputypes.TextureFormat {
	return p.format
}

// Record binds the pipeline, the canvas bind group and the quad geometry
// and draws all six indices.
func (p *Pipeline) Record(rp hal.RenderPassEncoder, bindGroup hal.BindGroup) {
	rp.SetPipeline(p.pipeline)
	rp.SetBindGroup(0, bindGroup, nil)
	rp.SetVertexBuffer(0, p.vertBuf, 0)
	rp.SetIndexBuffer(p.idxBuf, gputypes.IndexFormatUint16, 0)
	rp.DrawIndexed(QuadIndexCount, 1, 0, 0, 0)
}

// Destroy releases the buffers, pipeline, layout and shader modules in
// reverse creation order. Safe to call more than once.
func (p *Pipeline) Destroy() {
	if p.idxBuf != nil {
		p.device.DestroyBuffer(p.idxBuf)
		p.idxBuf = nil
	}
	if p.vertBuf != nil {
		p.device.DestroyBuffer(p.vertBuf)
		p.vertBuf = nil
	}
	if p.pipeline != nil {
		p.device.DestroyRenderPipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.pipeLayout != nil {
		p.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.fragmentShader != nil {
		p.device.DestroyShaderModule(p.fragmentShader)
		p.fragmentShader = nil
	}
	if p.vertexShader != nil {
		p.device.DestroyShaderModule(p.vertexShader)
		p.vertexShader = nil
	}
}
