// Package trained loads pre-trained numeric buffers from raw binary files.
//
// The files carry no header: a flat row-major sequence of native-endian
// 4-byte IEEE floats whose count equals the product of the target tensor's
// dimensions.
package trained

import (
	"fmt"

	"github.com/lattice-ml/lattice/internal/mmapfile"
	"github.com/lattice-ml/lattice/internal/tensor"
	"github.com/lattice-ml/lattice/internal/window"
)

// Load fills target with the contents of the binary file at path. The
// target must be an allocated Float32 tensor; that precondition is checked
// before any file access. The file is memory-mapped and copied into the
// storage one contiguous row at a time; the storage is mapped around the
// copy and unmapped on every exit path.
func Load(target tensor.Storage, path string) (err error) {
	if target.DType() != tensor.Float32 {
		return fmt.Errorf("%w: trained data requires a float32 tensor, got %s",
			tensor.ErrPrecondition, target.DType())
	}
	if !target.IsAllocated() {
		return fmt.Errorf("%w: target is not allocated", tensor.ErrPrecondition)
	}

	f, err := mmapfile.Open(path)
	if err != nil {
		return fmt.Errorf("%w: could not load binary data from %s: %v", tensor.ErrIO, path, err)
	}
	defer func() {
		_ = f.Close() // Ignore unmap error on read-only mapping.
	}()

	need := int64(target.TensorShape().NumElements() * target.ElementSize())
	if f.Size() < need {
		return fmt.Errorf("%w: %s holds %d bytes, need %d", tensor.ErrIO, path, f.Size(), need)
	}

	if err := tensor.Map(target, true); err != nil {
		return fmt.Errorf("%w: mapping target: %v", tensor.ErrIO, err)
	}
	defer func() {
		if uerr := tensor.Unmap(target); uerr != nil && err == nil {
			err = fmt.Errorf("%w: unmapping target: %v", tensor.ErrIO, uerr)
		}
	}()

	// Axis 0 stays a single iteration: each visit copies one contiguous run
	// of extent(0) elements.
	nd := target.NumDimensions()
	win := window.New(nd)
	for d := 1; d < nd; d++ {
		win.Set(d, window.Dimension{Start: 0, End: target.Dimension(d), Step: 1})
	}

	rowBytes := target.Dimension(0) * target.ElementSize()
	if nd == 0 {
		rowBytes = target.ElementSize()
	}

	src := f.Bytes()
	it := window.NewIterator(target)
	var off int

	return win.Execute(func(coords []int) error {
		copy(it.At(coords)[:rowBytes], src[off:off+rowBytes])
		off += rowBytes
		return nil
	})
}
