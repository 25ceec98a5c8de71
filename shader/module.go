// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package shader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnknownStage is returned when a path does not name a shader stage.
var ErrUnknownStage = errors.New("shader: unknown stage")

// Module is a validated SPIR-V shader module ready to hand to the device.
type Module struct {
	// Label names the module in diagnostics, usually its file name.
	Label string

	// Stage is the pipeline stage the module is used for.
	Stage Stage

	// Words is the SPIR-V code in host byte order.
	Words []uint32

	// EntryPoints lists every OpEntryPoint of the module.
	EntryPoints []EntryPoint
}

// FromWords validates SPIR-V words for the given stage. The module must
// declare an entry point named "main" with the stage's execution model.
func FromWords(label string, stage Stage, words []uint32) (*Module, error) {
	eps, err := EntryPoints(words)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", label, err)
	}
	m := &Module{
		Label:       label,
		Stage:       stage,
		Words:       words,
		EntryPoints: eps,
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// LoadBinary decodes and validates a SPIR-V byte stream.
func LoadBinary(label string, stage Stage, data []byte) (*Module, error) {
	words, err := Words(data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", label, err)
	}
	return FromWords(label, stage, words)
}

// Load reads a compiled binary such as "quad.frag.spv". The stage comes
// from the source extension preceding ".spv".
func Load(path string) (*Module, error) {
	stage, ok := StageFromPath(strings.TrimSuffix(path, BinaryExt))
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStage, path)
	}
	data, err := os.ReadFile(path) //nolint:gosec // shader paths come from the build layout
	if err != nil {
		return nil, fmt.Errorf("read shader: %w", err)
	}
	return LoadBinary(filepath.Base(path), stage, data)
}

// HasEntryPoint reports whether the module declares name with model.
func (m *Module) HasEntryPoint(name string, model ExecutionModel) bool {
	for _, ep := range m.EntryPoints {
		if ep.Name == name && ep.Model == model {
			return true
		}
	}
	return false
}

// Validate checks that the module exposes "main" for its stage.
func (m *Module) Validate() error {
	model := m.Stage.ExecutionModel()
	if !m.HasEntryPoint(EntryPointName, model) {
		return fmt.Errorf("%w: %q (%s) in %s", ErrMissingEntryPoint, EntryPointName, model, m.Label)
	}
	return nil
}
