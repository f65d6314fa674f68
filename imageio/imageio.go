// Copyright 2025 Lattice ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package imageio loads and saves images in the binary PPM ("P6") format.
//
// Loading is a small state machine: open the file (which parses the
// header), describe the target image, allocate it, then fill it.
//
//	l := imageio.NewLoader()
//	if err := l.Open("input.ppm"); err != nil {
//	    log.Fatal(err)
//	}
//	defer l.Close()
//
//	img := host.New()
//	_ = l.InitImage(img, tensor.FormatU8) // grayscale via luma conversion
//	_ = img.Allocate()
//	if err := l.Fill(img); err != nil {
//	    log.Fatal(err)
//	}
//
// Saving works on any allocated U8 or RGB888 storage, including
// device-resident tensors, which are mapped for the duration of the write:
//
//	if err := imageio.Save(img, "output.ppm"); err != nil {
//	    log.Fatal(err)
//	}
package imageio

import (
	"bufio"

	"github.com/lattice-ml/lattice/internal/ppm"
	"github.com/lattice-ml/lattice/internal/tensor"
)

// Header holds the raw fields of a PPM header.
type Header = ppm.Header

// Loader brings the pixel data of a PPM file into allocated storage.
type Loader = ppm.Loader

// DetectionWindow is the geometry of a detected object, in pixels.
type DetectionWindow = ppm.DetectionWindow

// NewLoader returns a closed loader.
func NewLoader() *Loader {
	return ppm.NewLoader()
}

// ParseHeader reads a P6 header from r, leaving the reader positioned at
// the first pixel byte. It returns the header and the number of bytes
// consumed.
func ParseHeader(r *bufio.Reader) (Header, int64, error) {
	return ppm.ParseHeader(r)
}

// Save writes src as a binary P6 PPM file. U8 sources are promoted to RGB
// by byte replication; the header always declares a max value of 255.
func Save(src tensor.Storage, path string) error {
	return ppm.Save(src, path)
}

// DrawDetectionRectangle draws the border of rect onto an RGB888 image in
// the given colour, clipped to the image bounds.
func DrawDetectionRectangle(img tensor.Storage, rect DetectionWindow, r, g, b uint8) error {
	return ppm.DrawDetectionRectangle(img, rect, r, g, b)
}
