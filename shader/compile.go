// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package shader

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gogpu/naga"
)

// CompileSource translates WGSL source to a SPIR-V byte stream.
func CompileSource(source string) ([]byte, error) {
	spirv, err := naga.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("failed to compile shader: %w", err)
	}
	return spirv, nil
}

// Compile translates WGSL source for stage and validates the result the
// same way a precompiled binary is validated.
func Compile(label string, stage Stage, source string) (*Module, error) {
	spirv, err := CompileSource(source)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", label, err)
	}
	return LoadBinary(label, stage, spirv)
}

// CompileFile compiles one shader source and writes the binary next to it.
// It returns the path of the written binary.
func CompileFile(path string) (string, error) {
	stage, ok := StageFromPath(path)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownStage, path)
	}
	src, err := os.ReadFile(path) //nolint:gosec // shader paths come from the build layout
	if err != nil {
		return "", fmt.Errorf("read shader: %w", err)
	}
	m, err := Compile(filepath.Base(path), stage, string(src))
	if err != nil {
		return "", err
	}

	out := BinaryPath(path)
	if err := os.WriteFile(out, wordsToBytes(m.Words), 0o644); err != nil { //nolint:gosec // build artifacts are world-readable
		return "", fmt.Errorf("write shader: %w", err)
	}
	return out, nil
}

// CompileTree compiles every ".vert", ".frag" and ".comp" file under root.
// It stops at the first failure and returns the binaries written so far.
func CompileTree(root string) ([]string, error) {
	var outputs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := StageFromPath(path); !ok {
			return nil
		}
		out, err := CompileFile(path)
		if err != nil {
			return err
		}
		slogger().Debug("shader: compiled", "source", path, "output", out)
		outputs = append(outputs, out)
		return nil
	})
	return outputs, err
}

// wordsToBytes serializes SPIR-V words little-endian.
func wordsToBytes(words []uint32) []byte {
	buf := make([]byte, len(words)*4)
	for i, w := range words {
		buf[i*4+0] = byte(w)
		buf[i*4+1] = byte(w >> 8)
		buf[i*4+2] = byte(w >> 16)
		buf[i*4+3] = byte(w >> 24)
	}
	return buf
}
