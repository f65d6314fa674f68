package tensor

// PixelFormat describes the per-pixel packing of an image tensor.
type PixelFormat int

// Supported pixel formats.
const (
	// FormatNone marks storage that holds plain numeric data rather than pixels.
	FormatNone PixelFormat = iota
	// FormatU8 is single-channel 8-bit grayscale, 1 byte per pixel.
	FormatU8
	// FormatRGB888 is packed 8-bit RGB, 3 bytes per pixel interleaved.
	FormatRGB888
)

// ElementSize returns the number of bytes a single pixel occupies,
// or 0 for FormatNone.
func (f PixelFormat) ElementSize() int {
	switch f {
	case FormatU8:
		return 1
	case FormatRGB888:
		return 3
	default:
		return 0
	}
}

// String returns a human-readable name for the pixel format.
func (f PixelFormat) String() string {
	switch f {
	case FormatNone:
		return "none"
	case FormatU8:
		return "U8"
	case FormatRGB888:
		return "RGB888"
	default:
		return "unknown"
	}
}
