// Copyright 2025 Lattice ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package weights loads and saves numeric tensor payloads.
//
// Two formats are supported: headerless raw binaries of native-endian
// float32 values (pre-trained weight dumps), and numpy ".npy" files whose
// element descriptor is derived from the tensor's typestring.
//
// Example:
//
//	w, _ := host.NewTensor(tensor.Shape{64, 128}, tensor.Float32)
//	if err := weights.LoadTrainedData(w, "conv1.bin"); err != nil {
//	    log.Fatal(err)
//	}
//	_ = weights.SaveNpy(w, "conv1.npy")
package weights

import (
	"github.com/lattice-ml/lattice/internal/npy"
	"github.com/lattice-ml/lattice/internal/tensor"
	"github.com/lattice-ml/lattice/internal/trained"
)

// LoadTrainedData fills target with a headerless row-major sequence of
// 4-byte IEEE floats. The target must be an allocated Float32 tensor.
func LoadTrainedData(target tensor.Storage, path string) error {
	return trained.Load(target, path)
}

// SaveNpy writes src as a version 1.0 numpy ".npy" file.
func SaveNpy(src tensor.Storage, path string) error {
	return npy.Save(src, path)
}

// LoadNpy fills target from a numpy ".npy" file. The file's descriptor
// must match the target's typestring; little-endian float16 payloads are
// widened into Float32 targets.
func LoadNpy(target tensor.Storage, path string) error {
	return npy.Load(target, path)
}
