// Package ppm reads and writes the binary "P6" PPM image format and
// converts between packed RGB888 and single-channel U8 grayscale.
package ppm

import (
	"bufio"
	"fmt"
	"io"

	"github.com/lattice-ml/lattice/internal/tensor"
)

// Header holds the raw fields of a PPM header. Range checks beyond
// non-negativity belong to the loader, not the parser.
type Header struct {
	Width    int
	Height   int
	MaxValue int
}

// ParseHeader reads a P6 header from r, tolerating arbitrary whitespace
// between the fields. On success the reader is positioned at the first
// pixel byte and the number of header bytes consumed is returned.
func ParseHeader(r *bufio.Reader) (Header, int64, error) {
	var n int64

	magic := make([]byte, 2)
	if _, err := io.ReadFull(r, magic); err != nil {
		return Header{}, n, fmt.Errorf("%w: reading magic: %v", tensor.ErrFormat, err)
	}
	n += 2
	if string(magic) != "P6" {
		return Header{}, n, fmt.Errorf("%w: bad magic %q, want \"P6\"", tensor.ErrFormat, magic)
	}

	var fields [3]int
	for i := range fields {
		v, err := readField(r, &n)
		if err != nil {
			return Header{}, n, err
		}
		fields[i] = v
	}

	return Header{Width: fields[0], Height: fields[1], MaxValue: fields[2]}, n, nil
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// maxHeaderField bounds a parsed header field. The fields are image sizes
// and a sample depth; anything past this is garbage, and the cap keeps the
// accumulator from overflowing int on a pathological digit run.
const maxHeaderField = 1 << 30

// readField skips leading whitespace, reads one non-negative decimal field
// and consumes exactly one whitespace terminator, so after the last field
// the reader sits on the first pixel byte.
func readField(r *bufio.Reader, n *int64) (int, error) {
	var b byte
	var err error
	for {
		b, err = r.ReadByte()
		if err != nil {
			return 0, fmt.Errorf("%w: header ended early: %v", tensor.ErrFormat, err)
		}
		*n++
		if !isSpace(b) {
			break
		}
	}

	if b < '0' || b > '9' {
		return 0, fmt.Errorf("%w: unexpected byte %q in header field", tensor.ErrFormat, b)
	}

	v := 0
	for {
		v = v*10 + int(b-'0')
		if v > maxHeaderField {
			return 0, fmt.Errorf("%w: header field exceeds %d", tensor.ErrFormat, maxHeaderField)
		}
		b, err = r.ReadByte()
		if err != nil {
			return 0, fmt.Errorf("%w: header ended early: %v", tensor.ErrFormat, err)
		}
		*n++
		if isSpace(b) {
			return v, nil
		}
		if b < '0' || b > '9' {
			return 0, fmt.Errorf("%w: unexpected byte %q in header field", tensor.ErrFormat, b)
		}
	}
}
