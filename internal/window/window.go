// Package window implements the windowed iteration scheme shared by every
// transcode operation in the interchange layer.
//
// A Window is an ordered set of per-axis ranges describing the order in
// which a tensor's elements are visited. Axis 0 is the innermost,
// fastest-varying axis. Setting an axis's step equal to its extent turns
// that axis into a single iteration, which is how "visit every row" becomes
// one bulk copy per row instead of one operation per element.
package window

import (
	"fmt"

	"github.com/lattice-ml/lattice/internal/tensor"
)

// Dimension describes the traversal of one axis: coordinates Start,
// Start+Step, ... strictly below End.
type Dimension struct {
	Start int
	End   int
	Step  int
}

// extent returns the number of coordinates the dimension spans.
func (d Dimension) extent() int {
	return d.End - d.Start
}

// iterations returns how many times the dimension advances.
func (d Dimension) iterations() int {
	if d.Step <= 0 {
		return 0
	}
	return (d.extent() + d.Step - 1) / d.Step
}

// Window is an ordered set of per-axis iteration ranges.
type Window struct {
	dims []Dimension
}

// New returns a window over n axes, each defaulting to the single
// coordinate 0 (Dimension{0, 1, 1}).
func New(n int) *Window {
	dims := make([]Dimension, n)
	for i := range dims {
		dims[i] = Dimension{Start: 0, End: 1, Step: 1}
	}
	return &Window{dims: dims}
}

// ForShape returns a window visiting every element of shape, one step per
// element on every axis.
func ForShape(shape tensor.Shape) *Window {
	w := New(len(shape))
	for i, extent := range shape {
		w.dims[i] = Dimension{Start: 0, End: extent, Step: 1}
	}
	return w
}

// Set replaces the range of axis i.
func (w *Window) Set(i int, d Dimension) {
	w.dims[i] = d
}

// Dim returns the range of axis i.
func (w *Window) Dim(i int) Dimension {
	return w.dims[i]
}

// NumDimensions returns the number of axes in the window.
func (w *Window) NumDimensions() int {
	return len(w.dims)
}

// UseRowSpan collapses axis i to a single iteration covering its whole
// extent, so the caller can perform one bulk operation per visit.
func (w *Window) UseRowSpan(i int) {
	d := w.dims[i]
	d.Step = d.extent()
	w.dims[i] = d
}

// Validate checks that every axis has a positive step that evenly divides
// its extent.
func (w *Window) Validate() error {
	for i, d := range w.dims {
		if d.Step <= 0 {
			return fmt.Errorf("%w: window axis %d has step %d", tensor.ErrPrecondition, i, d.Step)
		}
		if d.End < d.Start {
			return fmt.Errorf("%w: window axis %d has end %d before start %d", tensor.ErrPrecondition, i, d.End, d.Start)
		}
		if d.extent()%d.Step != 0 {
			return fmt.Errorf("%w: window axis %d: step %d does not divide extent %d", tensor.ErrPrecondition, i, d.Step, d.extent())
		}
	}
	return nil
}

// Iterations returns the total number of coordinates Execute will visit.
func (w *Window) Iterations() int {
	n := 1
	for _, d := range w.dims {
		n *= d.iterations()
	}
	return n
}

// Execute visits every coordinate of the window in nested row-major order
// with axis 0 advancing fastest, calling fn at each one. Iteration stops at
// the first error, which is returned. The coords slice is reused between
// calls and must not be retained.
func (w *Window) Execute(fn func(coords []int) error) error {
	n := len(w.dims)
	if n == 0 {
		return fn(nil)
	}

	coords := make([]int, n)
	for i, d := range w.dims {
		if d.iterations() == 0 {
			return nil
		}
		coords[i] = d.Start
	}

	for {
		if err := fn(coords); err != nil {
			return err
		}

		i := 0
		for ; i < n; i++ {
			coords[i] += w.dims[i].Step
			if coords[i] < w.dims[i].End {
				break
			}
			coords[i] = w.dims[i].Start
		}
		if i == n {
			return nil
		}
	}
}
