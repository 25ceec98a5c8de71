// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package shader

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Stage identifies a programmable pipeline stage.
type Stage uint8

const (
	// StageVertex is the vertex stage (".vert").
	StageVertex Stage = iota + 1

	// StageFragment is the fragment stage (".frag").
	StageFragment

	// StageCompute is the compute stage (".comp").
	StageCompute
)

// BinaryExt is appended to a source path to name its compiled binary.
const BinaryExt = ".spv"

// EntryPointName is the entry point every stage must expose.
const EntryPointName = "main"

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	case StageCompute:
		return "compute"
	default:
		return fmt.Sprintf("Stage(%d)", s)
	}
}

// ExecutionModel returns the SPIR-V execution model used by entry points of
// this stage.
func (s Stage) ExecutionModel() ExecutionModel {
	switch s {
	case StageVertex:
		return ExecutionModelVertex
	case StageFragment:
		return ExecutionModelFragment
	case StageCompute:
		return ExecutionModelGLCompute
	default:
		return ExecutionModel(^uint32(0))
	}
}

// StageFromPath maps a source file extension to its stage. The second
// result is false for files that are not shader sources.
func StageFromPath(path string) (Stage, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".vert":
		return StageVertex, true
	case ".frag":
		return StageFragment, true
	case ".comp":
		return StageCompute, true
	default:
		return 0, false
	}
}

// BinaryPath returns the output path for a shader source: the same path
// with ".spv" appended.
func BinaryPath(source string) string {
	return source + BinaryExt
}
