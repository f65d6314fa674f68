package tensor

import (
	"math/bits"
	"testing"
)

func TestDataTypeSize(t *testing.T) {
	sizes := []struct {
		dtype DataType
		size  int
	}{
		{Uint8, 1},
		{Int8, 1},
		{Uint16, 2},
		{Int16, 2},
		{Uint32, 4},
		{Int32, 4},
		{Uint64, 8},
		{Int64, 8},
		{Float32, 4},
		{Float64, 8},
		{SizeT, bits.UintSize / 8},
	}

	for _, tt := range sizes {
		if got := tt.dtype.Size(); got != tt.size {
			t.Errorf("%s.Size() = %d, want %d", tt.dtype, got, tt.size)
		}
	}
}

func TestDataTypeString(t *testing.T) {
	if Float32.String() != "float32" {
		t.Errorf("Float32.String() = %q", Float32.String())
	}
	if DataType(99).String() != "unknown" {
		t.Errorf("unknown DataType should stringify as unknown")
	}
}

func TestPixelFormatElementSize(t *testing.T) {
	if FormatU8.ElementSize() != 1 {
		t.Errorf("FormatU8.ElementSize() = %d, want 1", FormatU8.ElementSize())
	}
	if FormatRGB888.ElementSize() != 3 {
		t.Errorf("FormatRGB888.ElementSize() = %d, want 3", FormatRGB888.ElementSize())
	}
	if FormatNone.ElementSize() != 0 {
		t.Errorf("FormatNone.ElementSize() = %d, want 0", FormatNone.ElementSize())
	}
}
