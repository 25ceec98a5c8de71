// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package shaders holds the quad presentation shaders.
//
// The sources are WGSL files named by stage. The offline build step
// compiles them to SPIR-V next to the sources:
//
//	go generate ./shaders
//
// which writes quad.vert.spv and quad.frag.spv. [Load] reads those
// binaries at startup; [Builtin] compiles the embedded sources in process
// for hosts that ship without prebuilt binaries.
package shaders

//go:generate go run ../cmd/blitshaderc .

import (
	_ "embed"
	"fmt"
	"path/filepath"

	"github.com/gogpu/blit/shader"
)

// File names of the quad stages.
const (
	VertexFile   = "quad.vert"
	FragmentFile = "quad.frag"
)

//go:embed quad.vert
var vertexSource string

//go:embed quad.frag
var fragmentSource string

// Set is the pair of validated modules the presentation pipeline is built
// from.
type Set struct {
	Vertex   *shader.Module
	Fragment *shader.Module
}

// Validate checks that both modules are present, belong to the right
// stages and expose "main".
func (s Set) Validate() error {
	if s.Vertex == nil || s.Fragment == nil {
		return fmt.Errorf("%w: vertex and fragment modules are required", shader.ErrMissingEntryPoint)
	}
	if s.Vertex.Stage != shader.StageVertex {
		return fmt.Errorf("shaders: %s is a %s module, want vertex", s.Vertex.Label, s.Vertex.Stage)
	}
	if s.Fragment.Stage != shader.StageFragment {
		return fmt.Errorf("shaders: %s is a %s module, want fragment", s.Fragment.Label, s.Fragment.Stage)
	}
	if err := s.Vertex.Validate(); err != nil {
		return err
	}
	return s.Fragment.Validate()
}

// VertexSource returns the WGSL source of the vertex stage.
func VertexSource() string { return vertexSource }

// FragmentSource returns the WGSL source of the fragment stage.
func FragmentSource() string { return fragmentSource }

// Load reads quad.vert.spv and quad.frag.spv from dir.
func Load(dir string) (Set, error) {
	vs, err := shader.Load(filepath.Join(dir, shader.BinaryPath(VertexFile)))
	if err != nil {
		return Set{}, err
	}
	fs, err := shader.Load(filepath.Join(dir, shader.BinaryPath(FragmentFile)))
	if err != nil {
		return Set{}, err
	}
	return Set{Vertex: vs, Fragment: fs}, nil
}

// Builtin compiles the embedded sources.
func Builtin() (Set, error) {
	vs, err := shader.Compile(VertexFile, shader.StageVertex, vertexSource)
	if err != nil {
		return Set{}, err
	}
	fs, err := shader.Compile(FragmentFile, shader.StageFragment, fragmentSource)
	if err != nil {
		return Set{}, err
	}
	return Set{Vertex: vs, Fragment: fs}, nil
}
