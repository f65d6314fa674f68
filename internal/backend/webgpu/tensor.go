package webgpu

import (
	"fmt"

	"github.com/go-webgpu/webgpu/wgpu"

	"github.com/lattice-ml/lattice/internal/tensor"
)

// Tensor is device-resident storage backed by a WebGPU buffer. Its bytes
// are host-visible only between Map and Unmap: Map stages the buffer into
// host memory, Unmap writes the staging copy back and drops it.
type Tensor struct {
	backend *Backend
	buffer  *wgpu.Buffer

	shape   tensor.Shape
	strides []int
	format  tensor.PixelFormat
	dtype   tensor.DataType
	inited  bool

	// WebGPU buffer sizes are aligned to 4 bytes; byteSize is the payload.
	bufferSize uint64
	staging    []byte
}

// Compile-time checks that Tensor is mappable storage.
var (
	_ tensor.Storage = (*Tensor)(nil)
	_ tensor.Mapper  = (*Tensor)(nil)
)

// NewTensor returns an empty device tensor owned by b. Describe it with
// Init and commit with Allocate, or let the PPM loader's InitImage do the
// describing.
func (b *Backend) NewTensor() *Tensor {
	return &Tensor{backend: b}
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
	if t.buffer != nil {
		t.buffer.Release()
		t.buffer = nil
	}
	t.shape = shape.Clone()
	t.strides = shape.ComputeStrides()
	t.format = format
	t.dtype = dtype
	t.staging = nil
	t.inited = true
	return nil
}

// Allocate creates the zero-initialized device buffer described by Init.
func (t *Tensor) Allocate() error {
	if !t.inited {
		return fmt.Errorf("%w: allocate before init", tensor.ErrPrecondition)
	}
	size := uint64(t.byteSize())
	t.bufferSize = (size + 3) &^ 3 // 4-byte alignment required by WebGPU
	t.buffer = t.backend.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst,
		Size:  t.bufferSize,
	})
	return nil
}

// IsAllocated reports whether the device buffer exists.
func (t *Tensor) IsAllocated() bool {
	return t.buffer != nil
}

// Release frees the device buffer. The tensor must not be used afterwards.
func (t *Tensor) Release() {
	if t.buffer != nil {
		t.buffer.Release()
		t.buffer = nil
	}
	t.staging = nil
}

func (t *Tensor) byteSize() int {
	return t.shape.NumElements() * t.ElementSize()
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

// ElementOffset returns the byte offset of the element at coords within
// the mapped staging view. Coordinates beyond the tensor's rank come from
// windows padded with unit axes and are always zero, so they contribute
// nothing.
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

// Bytes returns the staging view, or nil while unmapped.
func (t *Tensor) Bytes() []byte {
	return t.staging
}

// Map stages the device buffer into host memory. The copy always waits for
// the GPU; the blocking flag is accepted for interface symmetry.
func (t *Tensor) Map(blocking bool) error {
	_ = blocking
	if t.buffer == nil {
		return fmt.Errorf("%w: mapping unallocated tensor", tensor.ErrPrecondition)
	}
	if t.staging != nil {
		return fmt.Errorf("%w: tensor is already mapped", tensor.ErrPrecondition)
	}
	data, err := t.backend.readBuffer(t.buffer, t.bufferSize)
	if err != nil {
		return fmt.Errorf("webgpu: staging tensor: %w", err)
	}
	t.staging = data[:t.byteSize()]
	return nil
}

// Unmap writes the staging view back to the device and releases it.
func (t *Tensor) Unmap() error {
	if t.staging == nil {
		return fmt.Errorf("%w: tensor is not mapped", tensor.ErrPrecondition)
	}
	padded := t.staging[:int(t.bufferSize)]
	err := t.backend.writeBuffer(t.buffer, padded)
	t.staging = nil
	if err != nil {
		return fmt.Errorf("webgpu: writing tensor back: %w", err)
	}
	return nil
}
