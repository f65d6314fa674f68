// Copyright 2025 Lattice ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package host

import (
	internalhost "github.com/lattice-ml/lattice/internal/backend/host"
	"github.com/lattice-ml/lattice/tensor"
)

// Tensor is host-resident tensor storage with deferred allocation.
//
// Host tensors never need mapping; tensor.Map and tensor.Unmap are no-ops
// for them.
type Tensor = internalhost.Tensor

// Compile-time check that Tensor implements tensor.Storage.
var _ tensor.Storage = (*Tensor)(nil)

// New returns an empty, uninitialized tensor, ready to be described by
// Init (or by the PPM loader's InitImage) and then allocated.
func New() *Tensor {
	return internalhost.New()
}

// NewTensor returns an allocated plain tensor of the given shape and type.
func NewTensor(shape tensor.Shape, dtype tensor.DataType) (*Tensor, error) {
	return internalhost.NewTensor(shape, dtype)
}

// NewImage returns an allocated width×height image in the given pixel
// format.
func NewImage(width, height int, format tensor.PixelFormat) (*Tensor, error) {
	return internalhost.NewImage(width, height, format)
}
