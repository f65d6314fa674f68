package ppm

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/lattice-ml/lattice/internal/backend/host"
	"github.com/lattice-ml/lattice/internal/tensor"
)

// writePPM writes a P6 file with the given pixel payload.
func writePPM(t *testing.T, width, height, maxValue int, pixels []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.ppm")
	data := append([]byte(fmt.Sprintf("P6\n%d %d\n%d\n", width, height, maxValue)), pixels...)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write test ppm: %v", err)
	}
	return path
}

func rgbPixels(triples ...[3]byte) []byte {
	out := make([]byte, 0, len(triples)*3)
	for _, p := range triples {
		out = append(out, p[0], p[1], p[2])
	}
	return out
}

func TestLoaderOpen(t *testing.T) {
	path := writePPM(t, 2, 1, 255, rgbPixels([3]byte{1, 2, 3}, [3]byte{4, 5, 6}))

	l := NewLoader()
	if l.IsOpen() {
		t.Fatal("fresh loader should be closed")
	}
	if err := l.Open(path); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer l.Close()

	if !l.IsOpen() {
		t.Error("loader should be open after Open")
	}
	if l.Width() != 2 || l.Height() != 1 {
		t.Errorf("parsed %dx%d, want 2x1", l.Width(), l.Height())
	}
}

func TestLoaderOpenMissingFile(t *testing.T) {
	err := NewLoader().Open(filepath.Join(t.TempDir(), "absent.ppm"))
	if !errors.Is(err, tensor.ErrIO) {
		t.Fatalf("Open on missing file = %v, want ErrIO", err)
	}
}

func TestLoaderOpenRejects16BitChannels(t *testing.T) {
	path := writePPM(t, 1, 1, 65535, []byte{0, 0, 0, 0, 0, 0})
	err := NewLoader().Open(path)
	if !errors.Is(err, tensor.ErrFormat) {
		t.Fatalf("Open with max value 65535 = %v, want ErrFormat", err)
	}
}

func TestLoaderOpenTwice(t *testing.T) {
	path := writePPM(t, 1, 1, 255, []byte{0, 0, 0})
	l := NewLoader()
	if err := l.Open(path); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer l.Close()
	if err := l.Open(path); !errors.Is(err, tensor.ErrPrecondition) {
		t.Fatalf("second Open = %v, want ErrPrecondition", err)
	}
}

func TestLoaderInitImage(t *testing.T) {
	path := writePPM(t, 3, 2, 255, make([]byte, 3*2*3))
	l := NewLoader()
	if err := l.Open(path); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer l.Close()

	img := host.New()
	if err := l.InitImage(img, tensor.FormatRGB888); err != nil {
		t.Fatalf("InitImage: %v", err)
	}
	if !img.TensorShape().Equal(tensor.Shape{3, 2}) {
		t.Errorf("InitImage shape = %v, want [3 2]", img.TensorShape())
	}
	if img.IsAllocated() {
		t.Error("InitImage must describe the image, not allocate it")
	}

	if err := l.InitImage(img, tensor.FormatNone); !errors.Is(err, tensor.ErrFormat) {
		t.Errorf("InitImage with FormatNone = %v, want ErrFormat", err)
	}
}

func TestLoaderInitImageClosed(t *testing.T) {
	err := NewLoader().InitImage(host.New(), tensor.FormatU8)
	if !errors.Is(err, tensor.ErrPrecondition) {
		t.Fatalf("InitImage on closed loader = %v, want ErrPrecondition", err)
	}
}

func TestFillRGB(t *testing.T) {
	pixels := rgbPixels(
		[3]byte{10, 20, 30}, [3]byte{40, 50, 60},
		[3]byte{70, 80, 90}, [3]byte{100, 110, 120},
	)
	path := writePPM(t, 2, 2, 255, pixels)

	l := NewLoader()
	if err := l.Open(path); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer l.Close()

	img, err := host.NewImage(2, 2, tensor.FormatRGB888)
	if err != nil {
		t.Fatalf("NewImage: %v", err)
	}
	if err := l.Fill(img); err != nil {
		t.Fatalf("Fill: %v", err)
	}

	got := img.Bytes()
	for i := range pixels {
		if got[i] != pixels[i] {
			t.Fatalf("pixel byte %d = %d, want %d", i, got[i], pixels[i])
		}
	}
}

func TestFillGrayLuma(t *testing.T) {
	// Expected values are the float32 sum truncated to a byte, matching
	// uint8(0.2126*R + 0.7152*G + 0.0722*B) exactly.
	pixels := rgbPixels(
		[3]byte{255, 255, 255},
		[3]byte{0, 0, 0},
		[3]byte{255, 0, 0},
		[3]byte{0, 255, 0},
		[3]byte{0, 0, 255},
		[3]byte{200, 100, 50},
	)
	want := []byte{255, 0, 54, 182, 18, 117}

	path := writePPM(t, 6, 1, 255, pixels)

	l := NewLoader()
	if err := l.Open(path); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer l.Close()

	img, err := host.NewImage(6, 1, tensor.FormatU8)
	if err != nil {
		t.Fatalf("NewImage: %v", err)
	}
	if err := l.Fill(img); err != nil {
		t.Fatalf("Fill: %v", err)
	}

	for i, w := range want {
		if got := img.Bytes()[i]; got != w {
			t.Errorf("luma of pixel %d = %d, want %d", i, got, w)
		}
	}
}

func TestFillClosedLoader(t *testing.T) {
	img, _ := host.NewImage(1, 1, tensor.FormatU8)
	err := NewLoader().Fill(img)
	if !errors.Is(err, tensor.ErrPrecondition) {
		t.Fatalf("Fill on closed loader = %v, want ErrPrecondition", err)
	}
}

func TestFillUnallocated(t *testing.T) {
	path := writePPM(t, 2, 2, 255, make([]byte, 2*2*3))
	l := NewLoader()
	if err := l.Open(path); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer l.Close()

	img := host.New()
	if err := l.InitImage(img, tensor.FormatRGB888); err != nil {
		t.Fatalf("InitImage: %v", err)
	}

	// Described but never allocated.
	err := l.Fill(img)
	if !errors.Is(err, tensor.ErrPrecondition) {
		t.Fatalf("Fill on unallocated image = %v, want ErrPrecondition", err)
	}
}

func TestFillShapeMismatch(t *testing.T) {
	path := writePPM(t, 2, 2, 255, make([]byte, 2*2*3))
	l := NewLoader()
	if err := l.Open(path); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer l.Close()

	img, _ := host.NewImage(3, 2, tensor.FormatRGB888)
	err := l.Fill(img)
	if !errors.Is(err, tensor.ErrPrecondition) {
		t.Fatalf("Fill with mismatched shape = %v, want ErrPrecondition", err)
	}
}

func TestFillShortPayload(t *testing.T) {
	// Header promises 4x4 but only one row of pixels follows.
	path := writePPM(t, 4, 4, 255, make([]byte, 4*3))
	l := NewLoader()
	if err := l.Open(path); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer l.Close()

	img, _ := host.NewImage(4, 4, tensor.FormatRGB888)
	err := l.Fill(img)
	if !errors.Is(err, tensor.ErrIO) {
		t.Fatalf("Fill with short payload = %v, want ErrIO", err)
	}
}

func TestLoaderClose(t *testing.T) {
	path := writePPM(t, 1, 1, 255, []byte{0, 0, 0})
	l := NewLoader()
	if err := l.Open(path); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if l.IsOpen() {
		t.Error("loader should be closed after Close")
	}
	if err := l.Close(); err != nil {
		t.Errorf("closing a closed loader should be a no-op, got %v", err)
	}
}
