// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package shader loads and validates precompiled SPIR-V shader binaries and
// implements the offline build step that produces them.
//
// Shader sources are named by stage: ".vert" for vertex, ".frag" for
// fragment and ".comp" for compute. Compiling "quad.vert" writes
// "quad.vert.spv" next to it. Sources are WGSL and are translated to SPIR-V
// with naga; every stage exposes its entry point as "main".
//
// At startup the binaries are read back with [Load] or [LoadBinary], which
// check the SPIR-V header and require an OpEntryPoint named "main" with the
// execution model matching the stage.
package shader
