// Package main provides the Lattice interchange CLI.
package main

import (
	"fmt"
	"os"

	"github.com/lattice-ml/lattice/backend/host"
	"github.com/lattice-ml/lattice/imageio"
	"github.com/lattice-ml/lattice/tensor"
	"github.com/lattice-ml/lattice/weights"
)

const version = "v0.0.1-dev"

func usage() {
	fmt.Println("Lattice - tensor/image interchange for compute pipelines")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version                     Show version")
	fmt.Println("  gray <in.ppm> <out.ppm>     Convert an RGB PPM to grayscale")
	fmt.Println("  npy <in.ppm> <out.npy>      Dump a PPM's grayscale pixels as .npy")
}

func loadGray(path string) (*host.Tensor, error) {
	l := imageio.NewLoader()
	if err := l.Open(path); err != nil {
		return nil, err
	}
	defer l.Close()

	img := host.New()
	if err := l.InitImage(img, tensor.FormatU8); err != nil {
		return nil, err
	}
	if err := img.Allocate(); err != nil {
		return nil, err
	}
	if err := l.Fill(img); err != nil {
		return nil, err
	}
	return img, nil
}

func grayCmd(in, out string) error {
	img, err := loadGray(in)
	if err != nil {
		return err
	}
	return imageio.Save(img, out)
}

func npyCmd(in, out string) error {
	img, err := loadGray(in)
	if err != nil {
		return err
	}
	// Re-home the pixels in a plain uint8 tensor for the .npy writer.
	raw, err := host.NewTensor(img.TensorShape(), tensor.Uint8)
	if err != nil {
		return err
	}
	copy(raw.Bytes(), img.Bytes())
	return weights.SaveNpy(raw, out)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	var err error
	switch os.Args[1] {
	case "version":
		fmt.Printf("Lattice %s\n", version)
	case "gray":
		if len(os.Args) != 4 {
			usage()
			os.Exit(2)
		}
		err = grayCmd(os.Args[2], os.Args[3])
	case "npy":
		if len(os.Args) != 4 {
			usage()
			os.Exit(2)
		}
		err = npyCmd(os.Args[2], os.Args[3])
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "lattice: %v\n", err)
		os.Exit(1)
	}
}
