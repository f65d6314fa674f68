// Package npy reads and writes numpy ".npy" files for tensor interchange.
//
// The element descriptor in the header is the typestring derived from the
// tensor's data type, so files written here round-trip through numpy and
// back. The shape tuple lists axes outermost first; since axis 0 of a
// tensor.Shape is the innermost axis, the tuple is the reversed shape and
// the payload order is plain C order.
package npy

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
	"strings"

	"github.com/lattice-ml/lattice/internal/tensor"
	"github.com/lattice-ml/lattice/internal/window"
)

const magic = "\x93NUMPY"

// headerAlignment pads the data offset as the npy v1 format requires.
const headerAlignment = 16

func shapeTuple(shape tensor.Shape) string {
	if len(shape) == 0 {
		return "()"
	}
	parts := make([]string, len(shape))
	for i, extent := range shape {
		// Outermost axis first.
		parts[len(shape)-1-i] = fmt.Sprintf("%d", extent)
	}
	if len(parts) == 1 {
		return "(" + parts[0] + ",)"
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Save writes src as a version 1.0 .npy file.
func Save(src tensor.Storage, path string) (err error) {
	if src.Format() != tensor.FormatNone {
		return fmt.Errorf("%w: npy stores plain tensors, not %s images", tensor.ErrPrecondition, src.Format())
	}
	if !src.IsAllocated() {
		return fmt.Errorf("%w: source is not allocated", tensor.ErrPrecondition)
	}

	descr, err := tensor.Typestring(src.DType())
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: creating %s: %v", tensor.ErrIO, path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: closing %s: %v", tensor.ErrIO, path, cerr)
		}
	}()

	dict := fmt.Sprintf("{'descr': '%s', 'fortran_order': False, 'shape': %s, }",
		descr, shapeTuple(src.TensorShape()))

	// Pad with spaces so the payload starts on an aligned offset; the
	// header text ends with a newline.
	headerLen := len(dict) + 1
	total := len(magic) + 2 + 2 + headerLen
	if pad := total % headerAlignment; pad != 0 {
		headerLen += headerAlignment - pad
	}
	header := dict + strings.Repeat(" ", headerLen-len(dict)-1) + "\n"

	w := bufio.NewWriter(f)
	_, _ = w.WriteString(magic)
	_ = w.WriteByte(1)
	_ = w.WriteByte(0)
	var lenBytes [2]byte
	binary.LittleEndian.PutUint16(lenBytes[:], uint16(headerLen))
	_, _ = w.Write(lenBytes[:])
	if _, err := w.WriteString(header); err != nil {
		return fmt.Errorf("%w: writing %s: %v", tensor.ErrIO, path, err)
	}

	if err := tensor.Map(src, true); err != nil {
		return fmt.Errorf("%w: mapping source: %v", tensor.ErrIO, err)
	}
	defer func() {
		if uerr := tensor.Unmap(src); uerr != nil && err == nil {
			err = fmt.Errorf("%w: unmapping source: %v", tensor.ErrIO, uerr)
		}
	}()

	nd := src.NumDimensions()
	win := window.New(nd)
	for d := 1; d < nd; d++ {
		win.Set(d, window.Dimension{Start: 0, End: src.Dimension(d), Step: 1})
	}

	rowBytes := src.ElementSize()
	if nd > 0 {
		rowBytes = src.Dimension(0) * src.ElementSize()
	}

	it := window.NewIterator(src)
	err = win.Execute(func(coords []int) error {
		if _, werr := w.Write(it.At(coords)[:rowBytes]); werr != nil {
			return fmt.Errorf("%w: writing %s: %v", tensor.ErrIO, path, werr)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("%w: writing %s: %v", tensor.ErrIO, path, err)
	}
	return nil
}
