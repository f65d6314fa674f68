package npy

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/x448/float16"

	"github.com/lattice-ml/lattice/internal/tensor"
	"github.com/lattice-ml/lattice/internal/window"
)

// header is the parsed .npy dictionary.
type header struct {
	descr   string
	fortran bool
	shape   tensor.Shape // innermost axis first, matching tensor.Shape
}

// readHeader consumes the magic, version and dictionary.
func readHeader(r *bufio.Reader) (header, error) {
	got := make([]byte, len(magic))
	if _, err := io.ReadFull(r, got); err != nil {
		return header{}, fmt.Errorf("%w: reading magic: %v", tensor.ErrFormat, err)
	}
	if string(got) != magic {
		return header{}, fmt.Errorf("%w: not an npy file", tensor.ErrFormat)
	}

	ver := make([]byte, 2)
	if _, err := io.ReadFull(r, ver); err != nil {
		return header{}, fmt.Errorf("%w: reading version: %v", tensor.ErrFormat, err)
	}

	var headerLen int
	switch ver[0] {
	case 1:
		var buf [2]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return header{}, fmt.Errorf("%w: reading header length: %v", tensor.ErrFormat, err)
		}
		headerLen = int(binary.LittleEndian.Uint16(buf[:]))
	case 2:
		var buf [4]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return header{}, fmt.Errorf("%w: reading header length: %v", tensor.ErrFormat, err)
		}
		headerLen = int(binary.LittleEndian.Uint32(buf[:]))
	default:
		return header{}, fmt.Errorf("%w: unsupported npy version %d.%d", tensor.ErrFormat, ver[0], ver[1])
	}

	dict := make([]byte, headerLen)
	if _, err := io.ReadFull(r, dict); err != nil {
		return header{}, fmt.Errorf("%w: reading header: %v", tensor.ErrFormat, err)
	}
	return parseDict(string(dict))
}

func parseDict(dict string) (header, error) {
	descr, err := quotedValue(dict, "descr")
	if err != nil {
		return header{}, err
	}

	var h header
	h.descr = descr
	h.fortran = strings.Contains(afterKey(dict, "fortran_order"), "True")

	shapeField := afterKey(dict, "shape")
	open := strings.IndexByte(shapeField, '(')
	closing := strings.IndexByte(shapeField, ')')
	if open < 0 || closing < open {
		return header{}, fmt.Errorf("%w: no shape tuple in header %q", tensor.ErrFormat, dict)
	}
	var outer []int
	for _, part := range strings.Split(shapeField[open+1:closing], ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		extent, err := strconv.Atoi(part)
		if err != nil {
			return header{}, fmt.Errorf("%w: bad shape entry %q", tensor.ErrFormat, part)
		}
		outer = append(outer, extent)
	}
	// The tuple lists axes outermost first; tensor.Shape is innermost first.
	h.shape = make(tensor.Shape, len(outer))
	for i, extent := range outer {
		h.shape[len(outer)-1-i] = extent
	}
	return h, nil
}

func afterKey(dict, key string) string {
	i := strings.Index(dict, "'"+key+"'")
	if i < 0 {
		return ""
	}
	rest := dict[i:]
	if end := strings.IndexByte(rest, ','); end >= 0 && key != "shape" {
		return rest[:end]
	}
	return rest
}

func quotedValue(dict, key string) (string, error) {
	field := afterKey(dict, key)
	colon := strings.IndexByte(field, ':')
	if colon < 0 {
		return "", fmt.Errorf("%w: missing %q in npy header", tensor.ErrFormat, key)
	}
	rest := field[colon+1:]
	open := strings.IndexByte(rest, '\'')
	if open < 0 {
		return "", fmt.Errorf("%w: missing %q in npy header", tensor.ErrFormat, key)
	}
	closing := strings.IndexByte(rest[open+1:], '\'')
	if closing < 0 {
		return "", fmt.Errorf("%w: missing %q in npy header", tensor.ErrFormat, key)
	}
	return rest[open+1 : open+1+closing], nil
}

// Load fills target with the contents of the .npy file at path. The file's
// descriptor must match the target's typestring, with one widening allowed:
// a little-endian float16 payload may be loaded into a Float32 target.
func Load(target tensor.Storage, path string) (err error) {
	if target.Format() != tensor.FormatNone {
		return fmt.Errorf("%w: npy loads plain tensors, not %s images", tensor.ErrPrecondition, target.Format())
	}
	if !target.IsAllocated() {
		return fmt.Errorf("%w: target is not allocated", tensor.ErrPrecondition)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: accessing %s: %v", tensor.ErrIO, path, err)
	}
	defer func() {
		_ = f.Close() // Ignore close error on read-only file.
	}()

	r := bufio.NewReader(f)
	h, err := readHeader(r)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	if h.fortran {
		return fmt.Errorf("%w: fortran-order payloads are not supported", tensor.ErrFormat)
	}
	if !h.shape.Equal(target.TensorShape()) {
		return fmt.Errorf("%w: file shape %v does not match target shape %v",
			tensor.ErrPrecondition, h.shape, target.TensorShape())
	}

	want, err := tensor.Typestring(target.DType())
	if err != nil {
		return err
	}

	widenF16 := h.descr == "<f2" && target.DType() == tensor.Float32
	if h.descr != want && !widenF16 {
		return fmt.Errorf("%w: descriptor %q does not match target type %q", tensor.ErrFormat, h.descr, want)
	}

	if err := tensor.Map(target, true); err != nil {
		return fmt.Errorf("%w: mapping target: %v", tensor.ErrIO, err)
	}
	defer func() {
		if uerr := tensor.Unmap(target); uerr != nil && err == nil {
			err = fmt.Errorf("%w: unmapping target: %v", tensor.ErrIO, uerr)
		}
	}()

	nd := target.NumDimensions()
	win := window.New(nd)
	for d := 1; d < nd; d++ {
		win.Set(d, window.Dimension{Start: 0, End: target.Dimension(d), Step: 1})
	}

	rowElems := 1
	if nd > 0 {
		rowElems = target.Dimension(0)
	}
	it := window.NewIterator(target)

	if widenF16 {
		raw := make([]byte, rowElems*2)
		return win.Execute(func(coords []int) error {
			if _, rerr := io.ReadFull(r, raw); rerr != nil {
				return fmt.Errorf("%w: reading %s: %v", tensor.ErrIO, path, rerr)
			}
			row := it.At(coords)
			for i := 0; i < rowElems; i++ {
				half := float16.Frombits(binary.LittleEndian.Uint16(raw[i*2:]))
				binary.NativeEndian.PutUint32(row[i*4:], math.Float32bits(half.Float32()))
			}
			return nil
		})
	}

	rowBytes := rowElems * target.ElementSize()
	return win.Execute(func(coords []int) error {
		if _, rerr := io.ReadFull(r, it.At(coords)[:rowBytes]); rerr != nil {
			return fmt.Errorf("%w: reading %s: %v", tensor.ErrIO, path, rerr)
		}
		return nil
	})
}
