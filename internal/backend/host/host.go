// Package host implements host-resident tensor storage.
//
// Host tensors keep their bytes in ordinary Go memory, so they never need
// mapping: the free tensor.Map/Unmap helpers are no-ops for them.
package host

import (
	"fmt"
	"unsafe"

	"github.com/lattice-ml/lattice/internal/tensor"
)

// Tensor is host-resident storage with deferred allocation: Init records
// the metadata, Allocate commits the buffer. Strides follow the shape with
// axis 0 innermost.
type Tensor struct {
	shape   tensor.Shape
	strides []int
	format  tensor.PixelFormat
	dtype   tensor.DataType
	data    []byte
	inited  bool
}

// Compile-time check that Tensor implements tensor.Storage.
var _ tensor.Storage = (*Tensor)(nil)

// New returns an empty, uninitialized tensor. Callers (or the PPM loader's
// InitImage) describe it with Init and then call Allocate.
func New() *Tensor {
	return &Tensor{}
}

// NewTensor returns an allocated plain tensor of the given shape and type.
func NewTensor(shape tensor.Shape, dtype tensor.DataType) (*Tensor, error) {
	t := New()
	if err := t.Init(shape, tensor.FormatNone, dtype); err != nil {
		return nil, err
	}
	if err := t.Allocate(); err != nil {
		return nil, err
	}
	return t, nil
}

// NewImage returns an allocated image of width×height pixels in the given
// pixel format.
func NewImage(width, height int, format tensor.PixelFormat) (*Tensor, error) {
	t := New()
	if err := t.Init(tensor.Shape{width, height}, format, tensor.Uint8); err != nil {
		return nil, err
	}
	if err := t.Allocate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Init records shape, pixel format and element type. It does not allocate.
func (t *Tensor) Init(shape tensor.Shape, format tensor.PixelFormat, dtype tensor.DataType) error {
	if err := shape.Validate(); err != nil {
		return fmt.Errorf("%w: %v", tensor.ErrPrecondition, err)
	}
	if format != tensor.FormatNone && dtype != tensor.Uint8 {
		return fmt.Errorf("%w: pixel format %s requires uint8 elements, got %s",
			tensor.ErrPrecondition, format, dtype)
	}
	t.shape = shape.Clone()
	t.strides = shape.ComputeStrides()
	t.format = format
	t.dtype = dtype
	t.data = nil
	t.inited = true
	return nil
}

// Allocate commits the buffer described by Init.
func (t *Tensor) Allocate() error {
	if !t.inited {
		return fmt.Errorf("%w: allocate before init", tensor.ErrPrecondition)
	}
	t.data = make([]byte, t.shape.NumElements()*t.ElementSize())
	return nil
}

// IsAllocated reports whether the backing buffer exists.
func (t *Tensor) IsAllocated() bool {
	return t.data != nil
}

// NumDimensions returns the tensor's rank.
func (t *Tensor) NumDimensions() int {
	return len(t.shape)
}

// Dimension returns the extent of axis i, or 0 for axes beyond the rank.
func (t *Tensor) Dimension(i int) int {
	if i < 0 || i >= len(t.shape) {
		return 0
	}
	return t.shape[i]
}

// TensorShape returns the tensor's shape.
func (t *Tensor) TensorShape() tensor.Shape {
	return t.shape
}

// Format returns the pixel format, FormatNone for plain tensors.
func (t *Tensor) Format() tensor.PixelFormat {
	return t.format
}

// DType returns the element data type.
func (t *Tensor) DType() tensor.DataType {
	return t.dtype
}

// ElementSize returns the byte size of one element.
func (t *Tensor) ElementSize() int {
	if t.format != tensor.FormatNone {
		return t.format.ElementSize()
	}
	return t.dtype.Size()
}

// ElementOffset returns the byte offset of the element at coords.
// Coordinates beyond the tensor's rank come from windows padded with unit
// axes and are always zero, so they contribute nothing.
func (t *Tensor) ElementOffset(coords []int) int {
	off := 0
	for i, c := range coords {
		if i >= len(t.strides) {
			break
		}
		off += c * t.strides[i]
	}
	return off * t.ElementSize()
}

// Bytes returns the backing buffer, or nil before Allocate.
func (t *Tensor) Bytes() []byte {
	return t.data
}

// AsFloat32 interprets the data as []float32.
// Panics if the tensor's dtype is not Float32.
func (t *Tensor) AsFloat32() []float32 {
	if t.dtype != tensor.Float32 {
		panic(fmt.Sprintf("tensor dtype is %s, not float32", t.dtype))
	}
	//nolint:gosec // unsafe.Slice for zero-copy access, bounds come from the shape
	return unsafe.Slice((*float32)(unsafe.Pointer(&t.data[0])), t.shape.NumElements())
}

// AsUint8 interprets the data as []uint8.
func (t *Tensor) AsUint8() []uint8 {
	return t.data
}
