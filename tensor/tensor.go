// Copyright 2025 Lattice ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public storage and iteration API of the
// Lattice interchange layer.
//
// The package defines the types the transcoding operations are written
// against:
//   - Storage: the narrow capability interface every backend implements
//   - Mapper: optional scoped mapping for device-resident storage
//   - Shape, DataType, PixelFormat: core type definitions
//   - Window, Dimension: the per-axis iteration scheme
//
// Example:
//
//	img, _ := host.NewImage(640, 480, tensor.FormatRGB888)
//	win := tensor.WindowForShape(img.TensorShape())
//	_ = win.Execute(func(coords []int) error { ... })
package tensor

import (
	"github.com/lattice-ml/lattice/internal/tensor"
	"github.com/lattice-ml/lattice/internal/window"
)

// Type aliases for public API

// DataType represents the element type of a tensor.
type DataType = tensor.DataType

// Element type constants.
const (
	Uint8   DataType = tensor.Uint8
	Int8    DataType = tensor.Int8
	Uint16  DataType = tensor.Uint16
	Int16   DataType = tensor.Int16
	Uint32  DataType = tensor.Uint32
	Int32   DataType = tensor.Int32
	Uint64  DataType = tensor.Uint64
	Int64   DataType = tensor.Int64
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
	SizeT   DataType = tensor.SizeT
)

// PixelFormat describes the per-pixel packing of an image tensor.
type PixelFormat = tensor.PixelFormat

// Pixel format constants.
const (
	FormatNone   PixelFormat = tensor.FormatNone
	FormatU8     PixelFormat = tensor.FormatU8
	FormatRGB888 PixelFormat = tensor.FormatRGB888
)

// Shape represents the dimensions of a tensor. Dimension 0 is the
// innermost (fastest-varying) axis.
type Shape = tensor.Shape

// Storage is the capability interface implemented by tensor backends.
type Storage = tensor.Storage

// Mapper is implemented by storage that needs scoped host mapping.
type Mapper = tensor.Mapper

// Error kinds; every failure in the interchange layer wraps one of these.
var (
	ErrFormat       = tensor.ErrFormat
	ErrIO           = tensor.ErrIO
	ErrPrecondition = tensor.ErrPrecondition
)

// Map acquires a host-visible mapping of s if it needs one.
func Map(s Storage, blocking bool) error {
	return tensor.Map(s, blocking)
}

// Unmap releases a mapping previously acquired with Map.
func Unmap(s Storage) error {
	return tensor.Unmap(s)
}

// Typestring returns the numpy-style descriptor (endianness marker, kind
// letter, byte width) for dt.
func Typestring(dt DataType) (string, error) {
	return tensor.Typestring(dt)
}

// Window is an ordered set of per-axis iteration ranges.
type Window = window.Window

// Dimension describes the traversal of one window axis.
type Dimension = window.Dimension

// Iterator resolves window coordinates to byte views of a storage object.
type Iterator = window.Iterator

// NewWindow returns a window over n axes, each defaulting to the single
// coordinate 0.
func NewWindow(n int) *Window {
	return window.New(n)
}

// WindowForShape returns a window visiting every element of shape.
func WindowForShape(shape Shape) *Window {
	return window.ForShape(shape)
}

// NewIterator returns an iterator over s. For device-resident storage it
// must be created while the storage is mapped.
func NewIterator(s Storage) *Iterator {
	return window.NewIterator(s)
}
