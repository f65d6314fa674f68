package ppm

import (
	"fmt"

	"github.com/lattice-ml/lattice/internal/tensor"
)

// DetectionWindow is the geometry of a detected object, in pixels.
type DetectionWindow struct {
	X      int
	Y      int
	Width  int
	Height int
}

// DrawDetectionRectangle draws the border of rect onto an RGB888 image in
// the given colour. The rectangle is clipped to the image bounds.
func DrawDetectionRectangle(img tensor.Storage, rect DetectionWindow, r, g, b uint8) (err error) {
	if img.Format() != tensor.FormatRGB888 {
		return fmt.Errorf("%w: drawing requires RGB888, got %s", tensor.ErrFormat, img.Format())
	}
	if !img.IsAllocated() {
		return fmt.Errorf("%w: image is not allocated", tensor.ErrPrecondition)
	}

	if err := tensor.Map(img, true); err != nil {
		return fmt.Errorf("%w: mapping image: %v", tensor.ErrIO, err)
	}
	defer func() {
		if uerr := tensor.Unmap(img); uerr != nil && err == nil {
			err = fmt.Errorf("%w: unmapping image: %v", tensor.ErrIO, uerr)
		}
	}()

	width := img.Dimension(0)
	height := img.Dimension(1)
	x0 := clamp(rect.X, 0, width-1)
	y0 := clamp(rect.Y, 0, height-1)
	x1 := clamp(rect.X+rect.Width-1, 0, width-1)
	y1 := clamp(rect.Y+rect.Height-1, 0, height-1)

	data := img.Bytes()
	set := func(x, y int) {
		off := img.ElementOffset([]int{x, y})
		data[off] = r
		data[off+1] = g
		data[off+2] = b
	}

	for x := x0; x <= x1; x++ {
		set(x, y0)
		set(x, y1)
	}
	for y := y0; y <= y1; y++ {
		set(x0, y)
		set(x1, y)
	}
	return nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
