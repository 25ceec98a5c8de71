// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package shader

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/gogpu/naga/spirv"
)

// SPIR-V binary errors.
var (
	// ErrInvalidBinary is returned for data that is not a SPIR-V module.
	ErrInvalidBinary = errors.New("shader: invalid SPIR-V binary")

	// ErrMissingEntryPoint is returned when a module lacks the required
	// entry point for its stage.
	ErrMissingEntryPoint = errors.New("shader: missing entry point")
)

// Magic is the first word of every SPIR-V module.
const Magic uint32 = spirv.MagicNumber

const (
	headerWords    = 5
	wordCountShift = 16
	opcodeMask     = 0xFFFF
)

// ExecutionModel is the SPIR-V execution model of an entry point.
type ExecutionModel uint32

// Execution models used by this package.
const (
	ExecutionModelVertex    = ExecutionModel(spirv.ExecutionModelVertex)
	ExecutionModelFragment  = ExecutionModel(spirv.ExecutionModelFragment)
	ExecutionModelGLCompute = ExecutionModel(spirv.ExecutionModelGLCompute)
)

// String returns the SPIR-V name of the execution model.
func (m ExecutionModel) String() string {
	switch m {
	case ExecutionModelVertex:
		return "Vertex"
	case ExecutionModelFragment:
		return "Fragment"
	case ExecutionModelGLCompute:
		return "GLCompute"
	default:
		return fmt.Sprintf("ExecutionModel(%d)", uint32(m))
	}
}

// EntryPoint is one OpEntryPoint declared by a module.
type EntryPoint struct {
	Model ExecutionModel
	Name  string
}

// Words converts a SPIR-V byte stream to 32-bit words. Both byte orders are
// accepted; the magic number decides which one the stream uses.
func Words(data []byte) ([]uint32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("%w: length %d is not a multiple of 4", ErrInvalidBinary, len(data))
	}
	if len(data) < headerWords*4 {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the header", ErrInvalidBinary, len(data))
	}

	var order binary.ByteOrder
	switch {
	case binary.LittleEndian.Uint32(data) == Magic:
		order = binary.LittleEndian
	case binary.BigEndian.Uint32(data) == Magic:
		order = binary.BigEndian
	default:
		return nil, fmt.Errorf("%w: bad magic %#08x", ErrInvalidBinary, binary.LittleEndian.Uint32(data))
	}

	words := make([]uint32, len(data)/4)
	for i := range words {
		words[i] = order.Uint32(data[i*4:])
	}
	return words, nil
}

// EntryPoints lists the OpEntryPoint instructions of a module. Entry points
// are declared before the first function, so parsing stops there.
func EntryPoints(words []uint32) ([]EntryPoint, error) {
	if len(words) < headerWords || words[0] != Magic {
		return nil, fmt.Errorf("%w: missing header", ErrInvalidBinary)
	}

	var eps []EntryPoint
	for i := headerWords; i < len(words); {
		count := int(words[i] >> wordCountShift)
		opcode := spirv.OpCode(words[i] & opcodeMask)
		if count == 0 || i+count > len(words) {
			return nil, fmt.Errorf("%w: malformed instruction at word %d", ErrInvalidBinary, i)
		}

		switch opcode {
		case spirv.OpEntryPoint:
			// Operands: execution model, function id, literal name, interface ids.
			if count < 4 {
				return nil, fmt.Errorf("%w: short OpEntryPoint at word %d", ErrInvalidBinary, i)
			}
			eps = append(eps, EntryPoint{
				Model: ExecutionModel(words[i+1]),
				Name:  literalString(words[i+3 : i+count]),
			})
		case spirv.OpFunction:
			return eps, nil
		}
		i += count
	}
	return eps, nil
}

// literalString decodes a nul-terminated UTF-8 string packed little-end
// first into words.
func literalString(words []uint32) string {
	buf := make([]byte, 0, len(words)*4)
	for _, w := range words {
		for shift := 0; shift < 32; shift += 8 {
			c := byte(w >> shift)
			if c == 0 {
				return string(buf)
			}
			buf = append(buf, c)
		}
	}
	return string(buf)
}
