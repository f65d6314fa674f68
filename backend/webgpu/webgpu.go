// Copyright 2025 Lattice ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package webgpu provides device-resident tensor storage backed by WebGPU
// buffers.
//
// WebGPU is a cross-platform graphics and compute API that works on:
//   - Windows (via Dawn/D3D12)
//   - macOS (via Dawn/Metal)
//   - Linux (via Dawn/Vulkan)
//
// Device tensors implement tensor.Mapper: their bytes become host-visible
// only between Map and Unmap, and every load/save operation in this module
// performs that scoped mapping itself.
//
// Example:
//
//	gpu, err := webgpu.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer gpu.Release()
//
//	img := gpu.NewTensor()
//	_ = loader.InitImage(img, tensor.FormatRGB888)
//	_ = img.Allocate()
//	_ = loader.Fill(img) // maps, transcodes, unmaps
package webgpu

import (
	internalwebgpu "github.com/lattice-ml/lattice/internal/backend/webgpu"
	"github.com/lattice-ml/lattice/tensor"
)

// Backend owns the WebGPU device and queue used by device tensors.
type Backend = internalwebgpu.Backend

// Tensor is device-resident tensor storage.
type Tensor = internalwebgpu.Tensor

// Compile-time checks that Tensor is mappable storage.
var (
	_ tensor.Storage = (*Tensor)(nil)
	_ tensor.Mapper  = (*Tensor)(nil)
)

// New creates a new WebGPU backend. Call Release when done to free GPU
// resources. Returns an error if WebGPU initialization fails (e.g. no
// compatible GPU).
func New() (*Backend, error) {
	return internalwebgpu.New()
}

// IsAvailable checks if WebGPU is available on the current system.
//
// It is useful for graceful fallback to host storage when no GPU is
// present:
//
//	if webgpu.IsAvailable() {
//	    gpu, _ := webgpu.New()
//	    img = gpu.NewTensor()
//	} else {
//	    img = host.New()
//	}
func IsAvailable() bool {
	return internalwebgpu.IsAvailable()
}
