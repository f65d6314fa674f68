package tensor

// Storage is the narrow capability interface every tensor or image backend
// implements. The transcoding code is written once against this interface
// and works for both dense host buffers and strided or device-resident
// storage.
//
// Byte-level access goes through Bytes and ElementOffset. For storage that
// lives in device memory, Bytes is only valid between a Map and the
// matching Unmap (see Mapper).
type Storage interface {
	// Init records the shape, pixel format and element type without
	// allocating. This is the only way shape reaches the allocator.
	Init(shape Shape, format PixelFormat, dtype DataType) error
	// Allocate commits the storage described by a previous Init.
	Allocate() error
	// IsAllocated reports whether Allocate has been called successfully.
	IsAllocated() bool

	NumDimensions() int
	// Dimension returns the extent of axis i. Axis 0 is the innermost
	// (fastest-varying) axis.
	Dimension(i int) int
	TensorShape() Shape
	Format() PixelFormat
	DType() DataType
	// ElementSize returns the byte size of one element: the pixel size for
	// image formats, the data type size otherwise.
	ElementSize() int

	// ElementOffset returns the byte offset of the element at the given
	// coordinates within Bytes. Missing trailing coordinates are zero.
	ElementOffset(coords []int) int
	// Bytes returns the host-visible byte view of the storage.
	Bytes() []byte
}

// Mapper is implemented by storage whose bytes may live in memory that is
// not host-visible. Map acquires a host-visible view; Unmap releases it,
// writing back any modifications. Host-resident storage does not implement
// Mapper and the free Map/Unmap helpers are no-ops for it.
type Mapper interface {
	Map(blocking bool) error
	Unmap() error
}

// Map acquires a host-visible mapping of s if it needs one.
func Map(s Storage, blocking bool) error {
	if m, ok := s.(Mapper); ok {
		return m.Map(blocking)
	}
	return nil
}

// Unmap releases a mapping previously acquired with Map.
func Unmap(s Storage) error {
	if m, ok := s.(Mapper); ok {
		return m.Unmap()
	}
	return nil
}
