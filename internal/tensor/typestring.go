package tensor

import (
	"encoding/binary"
	"fmt"
)

// hostLittleEndian reports the native byte order via the standard library
// rather than a raw memory probe.
func hostLittleEndian() bool {
	var buf [2]byte
	binary.NativeEndian.PutUint16(buf[:], 1)
	return buf[0] == 1
}

// Typestring returns the numpy-style type descriptor for dt:
// an endianness marker ('<' little, '>' big, or '|' for single-byte types
// where byte order is meaningless), a kind letter ('u', 'i' or 'f') and
// the byte width.
func Typestring(dt DataType) (string, error) {
	endianness := ">"
	if hostLittleEndian() {
		endianness = "<"
	}
	const noEndianness = "|"

	switch dt {
	case Uint8:
		return fmt.Sprintf("%su%d", noEndianness, dt.Size()), nil
	case Int8:
		return fmt.Sprintf("%si%d", noEndianness, dt.Size()), nil
	case Uint16, Uint32, Uint64, SizeT:
		return fmt.Sprintf("%su%d", endianness, dt.Size()), nil
	case Int16, Int32, Int64:
		return fmt.Sprintf("%si%d", endianness, dt.Size()), nil
	case Float32, Float64:
		return fmt.Sprintf("%sf%d", endianness, dt.Size()), nil
	default:
		return "", fmt.Errorf("%w: no typestring for data type %d", ErrFormat, dt)
	}
}
