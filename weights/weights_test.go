package weights_test

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lattice-ml/lattice/backend/host"
	"github.com/lattice-ml/lattice/tensor"
	"github.com/lattice-ml/lattice/weights"
)

func TestTrainedDataThenNpyRoundtrip(t *testing.T) {
	values := []float32{0.25, -1.5, 2, 3.75, -0.125, 6}
	raw := filepath.Join(t.TempDir(), "weights.bin")
	buf := make([]byte, len(values)*4)
	for i, v := range values {
		binary.NativeEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	require.NoError(t, os.WriteFile(raw, buf, 0o644))

	src, err := host.NewTensor(tensor.Shape{3, 2}, tensor.Float32)
	require.NoError(t, err)
	require.NoError(t, weights.LoadTrainedData(src, raw))
	require.Equal(t, values, src.AsFloat32())

	npyPath := filepath.Join(t.TempDir(), "weights.npy")
	require.NoError(t, weights.SaveNpy(src, npyPath))

	dst, err := host.NewTensor(tensor.Shape{3, 2}, tensor.Float32)
	require.NoError(t, err)
	require.NoError(t, weights.LoadNpy(dst, npyPath))
	require.Equal(t, values, dst.AsFloat32())
}

func TestLoadTrainedDataRequiresFloat32(t *testing.T) {
	target, err := host.NewTensor(tensor.Shape{2}, tensor.Uint8)
	require.NoError(t, err)
	err = weights.LoadTrainedData(target, filepath.Join(t.TempDir(), "absent.bin"))
	require.ErrorIs(t, err, tensor.ErrPrecondition)
}
