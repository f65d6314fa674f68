package window

import "github.com/lattice-ml/lattice/internal/tensor"

// Iterator resolves window coordinates to byte views of a storage object.
// It decouples the traversal order from how an element's bytes are located,
// so the same driver loop serves dense and strided backing storage.
//
// The storage's host-visible bytes are captured at construction; for
// device-resident storage the iterator must be created after Map and
// discarded before Unmap.
type Iterator struct {
	storage tensor.Storage
	data    []byte
}

// NewIterator returns an iterator over s.
func NewIterator(s tensor.Storage) *Iterator {
	return &Iterator{storage: s, data: s.Bytes()}
}

// At returns the bytes of the storage starting at the element addressed by
// coords. The slice extends to the end of the underlying buffer; callers
// slice it down to the span they operate on.
func (it *Iterator) At(coords []int) []byte {
	return it.data[it.storage.ElementOffset(coords):]
}
