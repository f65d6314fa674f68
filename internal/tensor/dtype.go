// Package tensor provides the core storage types for the Lattice interchange layer.
package tensor

import "math/bits"

// DataType represents runtime type information for tensor elements.
type DataType int

// Supported element types.
const (
	Uint8 DataType = iota
	Int8
	Uint16
	Int16
	Uint32
	Int32
	Uint64
	Int64
	Float32
	Float64
	SizeT
)

// Size returns the byte size of the data type.
// SizeT follows the platform word size.
func (dt DataType) Size() int {
	switch dt {
	case Uint8, Int8:
		return 1
	case Uint16, Int16:
		return 2
	case Uint32, Int32, Float32:
		return 4
	case Uint64, Int64, Float64:
		return 8
	case SizeT:
		return bits.UintSize / 8
	default:
		panic("unknown data type")
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Uint8:
		return "uint8"
	case Int8:
		return "int8"
	case Uint16:
		return "uint16"
	case Int16:
		return "int16"
	case Uint32:
		return "uint32"
	case Int32:
		return "int32"
	case Uint64:
		return "uint64"
	case Int64:
		return "int64"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case SizeT:
		return "sizet"
	default:
		return "unknown"
	}
}
