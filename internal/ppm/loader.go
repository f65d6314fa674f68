package ppm

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/lattice-ml/lattice/internal/parallel"
	"github.com/lattice-ml/lattice/internal/tensor"
	"github.com/lattice-ml/lattice/internal/window"
)

// Loader brings the pixel data of a PPM file into allocated storage.
//
// A Loader moves from closed to open via Open, which parses the header and
// leaves the stream on the first pixel byte. Fill then consumes the pixel
// payload; because the stream cursor advances, only the first Fill is
// meaningful. Loaders are single-owner and not safe for concurrent use.
type Loader struct {
	file   *os.File
	reader *bufio.Reader
	width  int
	height int
	pos    int64 // stream offset of the next unread byte
}

// NewLoader returns a closed loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Open opens a PPM file and parses its header.
func (l *Loader) Open(path string) error {
	if l.IsOpen() {
		return fmt.Errorf("%w: loader already open", tensor.ErrPrecondition)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: accessing %s: %v", tensor.ErrIO, path, err)
	}

	r := bufio.NewReader(f)
	hdr, n, err := ParseHeader(r)
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	if hdr.MaxValue >= 256 {
		_ = f.Close()
		return fmt.Errorf("%w: 2 bytes per colour channel not supported in file %s", tensor.ErrFormat, path)
	}

	l.file = f
	l.reader = r
	l.width = hdr.Width
	l.height = hdr.Height
	l.pos = n
	return nil
}

// IsOpen reports whether a file is currently open.
func (l *Loader) IsOpen() bool {
	return l.file != nil
}

// Width returns the parsed image width. Valid only while open.
func (l *Loader) Width() int {
	return l.width
}

// Height returns the parsed image height. Valid only while open.
func (l *Loader) Height() int {
	return l.height
}

// InitImage describes img with the dimensions of the open PPM file and the
// requested pixel format. The caller allocates afterwards.
func (l *Loader) InitImage(img tensor.Storage, format tensor.PixelFormat) error {
	if !l.IsOpen() {
		return fmt.Errorf("%w: loader is not open", tensor.ErrPrecondition)
	}
	if format != tensor.FormatU8 && format != tensor.FormatRGB888 {
		return fmt.Errorf("%w: unsupported pixel format %s", tensor.ErrFormat, format)
	}
	return img.Init(tensor.Shape{l.width, l.height}, format, tensor.Uint8)
}

// Fill reads the pixel payload of the open file into img, which must be
// allocated with dimensions matching the parsed header. An RGB888 target
// receives the rows verbatim; a U8 target receives each pixel reduced to
// luma with the Rec. 709 weights, truncated to a byte.
//
// The storage is mapped for the duration of the transcode and unmapped on
// every exit path.
func (l *Loader) Fill(img tensor.Storage) (err error) {
	if !l.IsOpen() {
		return fmt.Errorf("%w: loader is not open", tensor.ErrPrecondition)
	}
	if !img.IsAllocated() {
		return fmt.Errorf("%w: image is not allocated", tensor.ErrPrecondition)
	}
	if img.Dimension(0) != l.width || img.Dimension(1) != l.height {
		return fmt.Errorf("%w: image is %dx%d, file is %dx%d",
			tensor.ErrPrecondition, img.Dimension(0), img.Dimension(1), l.width, l.height)
	}
	format := img.Format()
	if format != tensor.FormatU8 && format != tensor.FormatRGB888 {
		return fmt.Errorf("%w: unsupported pixel format %s", tensor.ErrFormat, format)
	}

	if err := tensor.Map(img, true); err != nil {
		return fmt.Errorf("%w: mapping image: %v", tensor.ErrIO, err)
	}
	defer func() {
		if uerr := tensor.Unmap(img); uerr != nil && err == nil {
			err = fmt.Errorf("%w: unmapping image: %v", tensor.ErrIO, uerr)
		}
	}()

	// Check that the file is large enough to fill the image.
	stat, err := l.file.Stat()
	if err != nil {
		return fmt.Errorf("%w: stat: %v", tensor.ErrIO, err)
	}
	need := int64(img.TensorShape().NumElements() * img.ElementSize())
	if stat.Size()-l.pos < need {
		return fmt.Errorf("%w: not enough data in file: have %d bytes, need %d",
			tensor.ErrIO, stat.Size()-l.pos, need)
	}

	switch format {
	case tensor.FormatU8:
		err = l.fillGray(img)
	case tensor.FormatRGB888:
		err = l.fillRGB(img)
	}
	return err
}

// fillGray reads one 3-byte-per-pixel source row at a time and reduces it
// to luma bytes, converting the pixels of a row in parallel.
func (l *Loader) fillGray(img tensor.Storage) error {
	srcRow := make([]byte, l.width*3)
	cfg := parallel.DefaultConfig()

	win := window.New(2)
	win.Set(0, window.Dimension{Start: 0, End: l.width, Step: l.width})
	win.Set(1, window.Dimension{Start: 0, End: l.height, Step: 1})

	out := window.NewIterator(img)

	return win.Execute(func(coords []int) error {
		if _, err := io.ReadFull(l.reader, srcRow); err != nil {
			return fmt.Errorf("%w: reading pixel data: %v", tensor.ErrIO, err)
		}
		l.pos += int64(len(srcRow))

		dst := out.At(coords)[:l.width]
		parallel.For(l.width, func(x int) {
			red := float32(srcRow[3*x])
			green := float32(srcRow[3*x+1])
			blue := float32(srcRow[3*x+2])
			// Truncating float-to-byte narrowing, kept bit-exact on purpose.
			dst[x] = uint8(0.2126*red + 0.7152*green + 0.0722*blue)
		}, cfg)
		return nil
	})
}

// fillRGB copies the payload one contiguous row at a time.
func (l *Loader) fillRGB(img tensor.Storage) error {
	rowBytes := l.width * img.ElementSize()

	win := window.New(2)
	win.Set(0, window.Dimension{Start: 0, End: l.width, Step: l.width})
	win.Set(1, window.Dimension{Start: 0, End: l.height, Step: 1})

	out := window.NewIterator(img)

	return win.Execute(func(coords []int) error {
		row := out.At(coords)[:rowBytes]
		if _, err := io.ReadFull(l.reader, row); err != nil {
			return fmt.Errorf("%w: reading pixel data: %v", tensor.ErrIO, err)
		}
		l.pos += int64(rowBytes)
		return nil
	})
}

// Close releases the underlying file and returns the loader to the closed
// state. Closing a closed loader is a no-op.
func (l *Loader) Close() error {
	if !l.IsOpen() {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	l.reader = nil
	l.width = 0
	l.height = 0
	l.pos = 0
	if err != nil {
		return fmt.Errorf("%w: closing file: %v", tensor.ErrIO, err)
	}
	return nil
}
