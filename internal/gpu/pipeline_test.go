package gpu

import (
	"encoding/binary"
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/gogpu/blit/shader"
	"github.com/gogpu/blit/shaders"
)

func TestNewPipeline(t *testing.T) {
	target, rq, cleanup := newTestTarget(t, 64, 64)
	defer cleanup()

	set, err := shaders.Builtin()
	if err != nil {
		t.Fatalf("Builtin: %v", err)
	}
	p, err := NewPipeline(target.device, rq, target.BindGroupLayout(), set.Vertex, set.Fragment, DefaultSurfaceFormat)
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}
	if p.Format() != DefaultSurfaceFormat {
		t.Errorf("Format() = %v, want %v", p.Format(), DefaultSurfaceFormat)
	}
	p.Destroy()
	p.Destroy()
}

func TestNewPipelineBufferWriteError(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	log := &destroyLog{}
	rd := &recordingDevice{Device: device, destroys: log}
	target, err := NewSamplingTarget(rd, queue, 64, 64)
	if err != nil {
		t.Fatalf("NewSamplingTarget: %v", err)
	}
	defer target.Destroy()

	set, err := shaders.Builtin()
	if err != nil {
		t.Fatalf("Builtin: %v", err)
	}
	errWrite := errors.New("device out of memory")
	rq := &recordingQueue{Queue: queue, writeBufferErr: errWrite}

	_, err = NewPipeline(rd, rq, target.BindGroupLayout(), set.Vertex, set.Fragment, DefaultSurfaceFormat)
	var ierr *InitError
	if !errors.As(err, &ierr) || ierr.Resource != "quad vertex buffer" {
		t.Fatalf("NewPipeline error = %v, want quad vertex buffer InitError", err)
	}
	if !errors.Is(err, errWrite) {
		t.Errorf("NewPipeline error = %v, want it to wrap %v", err, errWrite)
	}

	// The unwritten buffer and everything built before it are released.
	want := []string{"buffer", "render pipeline", "pipeline layout", "shader module", "shader module"}
	if got := log.list(); !slices.Equal(got, want) {
		t.Errorf("destroyed %v, want %v", got, want)
	}
}

func TestNewPipelineRejectsModules(t *testing.T) {
	target, rq, cleanup := newTestTarget(t, 64, 64)
	defer cleanup()

	set, err := shaders.Builtin()
	if err != nil {
		t.Fatalf("Builtin: %v", err)
	}
	noEntry := &shader.Module{Label: "empty", Stage: shader.StageFragment}

	tests := []struct {
		name     string
		vs, fs   *shader.Module
		resource string
	}{
		{"missing vertex", nil, set.Fragment, "vertex shader"},
		{"missing fragment", set.Vertex, nil, "fragment shader"},
		{"swapped stages", set.Fragment, set.Vertex, "vertex shader"},
		{"no entry point", set.Vertex, noEntry, "fragment shader"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPipeline(target.device, rq, target.BindGroupLayout(), tt.vs, tt.fs, DefaultSurfaceFormat)
			var ierr *InitError
			if !errors.As(err, &ierr) || ierr.Resource != tt.resource {
				t.Errorf("NewPipeline error = %v, want %s InitError", err, tt.resource)
			}
		})
	}
}

func TestQuadWindingIsCounterClockwise(t *testing.T) {
	for tri := 0; tri < QuadIndexCount; tri += 3 {
		a := QuadVertices[QuadIndices[tri]].Position
		b := QuadVertices[QuadIndices[tri+1]].Position
		c := QuadVertices[QuadIndices[tri+2]].Position
		cross := (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
		if cross <= 0 {
			t.Errorf("triangle %d is not counter-clockwise (cross = %v)", tri/3, cross)
		}
	}
}

func TestQuadCoversViewport(t *testing.T) {
	for i, v := range QuadVertices {
		x, y := v.Position[0], v.Position[1]
		// NDC y is up, texture v is down.
		wantU := (x + 1) / 2
		wantV := (1 - y) / 2
		if v.UV[0] != wantU || v.UV[1] != wantV {
			t.Errorf("vertex %d uv = %v, want [%v %v]", i, v.UV, wantU, wantV)
		}
		if math.Abs(float64(x)) != 1 || math.Abs(float64(y)) != 1 || v.Position[2] != 0 {
			t.Errorf("vertex %d position = %v, want a viewport corner", i, v.Position)
		}
	}
}

func TestQuadBufferData(t *testing.T) {
	vb := buildQuadVertexData()
	if len(vb) != 4*vertexStride {
		t.Fatalf("vertex data = %d bytes, want %d", len(vb), 4*vertexStride)
	}
	// Bottom-right corner: position (1, -1, 0), uv (1, 1).
	off := 3 * vertexStride
	readF := func(at int) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(vb[at:])) }
	if readF(off) != 1 || readF(off+4) != -1 || readF(off+8) != 0 {
		t.Errorf("vertex 3 position = (%v, %v, %v)", readF(off), readF(off+4), readF(off+8))
	}
	if readF(off+vertexUVOffset) != 1 || readF(off+vertexUVOffset+4) != 1 {
		t.Errorf("vertex 3 uv = (%v, %v)", readF(off+vertexUVOffset), readF(off+vertexUVOffset+4))
	}

	ib := buildQuadIndexData()
	if len(ib) != QuadIndexCount*2 {
		t.Fatalf("index data = %d bytes, want %d", len(ib), QuadIndexCount*2)
	}
	for i, want := range QuadIndices {
		if got := binary.LittleEndian.Uint16(ib[i*2:]); got != want {
			t.Errorf("index %d = %d, want %d", i, got, want)
		}
	}

	layout := quadVertexLayout()
	if len(layout) != 1 || layout[0].ArrayStride != vertexStride || len(layout[0].Attributes) != 2 {
		t.Fatalf("unexpected vertex layout %+v", layout)
	}
	if layout[0].Attributes[1].Offset != vertexUVOffset || layout[0].Attributes[1].ShaderLocation != 1 {
		t.Errorf("uv attribute = %+v", layout[0].Attributes[1])
	}
}
