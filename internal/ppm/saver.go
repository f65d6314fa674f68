package ppm

import (
	"bufio"
	"fmt"
	"os"

	"github.com/lattice-ml/lattice/internal/tensor"
	"github.com/lattice-ml/lattice/internal/window"
)

// Save writes src as a binary P6 PPM file. The source must be U8 or RGB888
// and at most two-dimensional. The header always declares a max value of
// 255. A U8 source is promoted to RGB by writing each byte three times.
//
// The storage is mapped for the duration of the write and unmapped on
// every exit path.
func Save(src tensor.Storage, path string) (err error) {
	format := src.Format()
	if format != tensor.FormatU8 && format != tensor.FormatRGB888 {
		return fmt.Errorf("%w: unsupported pixel format %s", tensor.ErrFormat, format)
	}
	if src.NumDimensions() > 2 {
		return fmt.Errorf("%w: cannot save %d-dimensional tensor as PPM", tensor.ErrPrecondition, src.NumDimensions())
	}
	if !src.IsAllocated() {
		return fmt.Errorf("%w: source is not allocated", tensor.ErrPrecondition)
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

	width := src.Dimension(0)
	height := src.Dimension(1)
	if height == 0 {
		height = 1
	}

	w := bufio.NewWriter(f)
	if _, err := fmt.Fprintf(w, "P6\n%d %d 255\n", width, height); err != nil {
		return fmt.Errorf("%w: writing %s: %v", tensor.ErrIO, path, err)
	}

	if err := tensor.Map(src, true); err != nil {
		return fmt.Errorf("%w: mapping image: %v", tensor.ErrIO, err)
	}
	defer func() {
		if uerr := tensor.Unmap(src); uerr != nil && err == nil {
			err = fmt.Errorf("%w: unmapping image: %v", tensor.ErrIO, uerr)
		}
	}()

	switch format {
	case tensor.FormatU8:
		err = saveGray(w, src, width, height)
	case tensor.FormatRGB888:
		err = saveRGB(w, src, width, height)
	}
	if err != nil {
		return err
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("%w: writing %s: %v", tensor.ErrIO, path, err)
	}
	return nil
}

// saveGray replicates each grayscale byte into an RGB triple. The bytes
// are written raw, not as decimal text, so the output is a valid P6 body.
func saveGray(w *bufio.Writer, src tensor.Storage, width, height int) error {
	win := window.New(2)
	win.Set(0, window.Dimension{Start: 0, End: width, Step: 1})
	win.Set(1, window.Dimension{Start: 0, End: height, Step: 1})

	in := window.NewIterator(src)

	return win.Execute(func(coords []int) error {
		value := in.At(coords)[0]
		if _, err := w.Write([]byte{value, value, value}); err != nil {
			return fmt.Errorf("%w: writing pixel data: %v", tensor.ErrIO, err)
		}
		return nil
	})
}

// saveRGB writes one contiguous row per iteration. Rows are addressed
// through the storage's element offsets, so a row stride wider than the
// packed row is handled correctly.
func saveRGB(w *bufio.Writer, src tensor.Storage, width, height int) error {
	rowBytes := width * src.ElementSize()

	win := window.New(2)
	win.Set(0, window.Dimension{Start: 0, End: width, Step: width})
	win.Set(1, window.Dimension{Start: 0, End: height, Step: 1})

	in := window.NewIterator(src)

	return win.Execute(func(coords []int) error {
		if _, err := w.Write(in.At(coords)[:rowBytes]); err != nil {
			return fmt.Errorf("%w: writing pixel data: %v", tensor.ErrIO, err)
		}
		return nil
	})
}
