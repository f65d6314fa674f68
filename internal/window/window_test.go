package window

import (
	"errors"
	"testing"

	"github.com/lattice-ml/lattice/internal/tensor"
)

func collect(t *testing.T, w *Window) [][]int {
	t.Helper()
	var visited [][]int
	err := w.Execute(func(coords []int) error {
		visited = append(visited, append([]int(nil), coords...))
		return nil
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	return visited
}

func TestExecuteAxisZeroFastest(t *testing.T) {
	w := ForShape(tensor.Shape{2, 3})
	visited := collect(t, w)

	want := [][]int{
		{0, 0}, {1, 0},
		{0, 1}, {1, 1},
		{0, 2}, {1, 2},
	}
	if len(visited) != len(want) {
		t.Fatalf("visited %d coordinates, want %d", len(visited), len(want))
	}
	for i := range want {
		if visited[i][0] != want[i][0] || visited[i][1] != want[i][1] {
			t.Fatalf("iteration %d visited %v, want %v", i, visited[i], want[i])
		}
	}
}

func TestExecuteRowSpanSingleIteration(t *testing.T) {
	// Step == extent collapses the axis to one iteration: a window over a
	// 4×3 image with a row span on axis 0 visits one coordinate per row.
	w := ForShape(tensor.Shape{4, 3})
	w.UseRowSpan(0)

	visited := collect(t, w)
	if len(visited) != 3 {
		t.Fatalf("visited %d coordinates, want 3", len(visited))
	}
	for i, c := range visited {
		if c[0] != 0 || c[1] != i {
			t.Errorf("iteration %d visited %v, want [0 %d]", i, c, i)
		}
	}
}

func TestExecuteNeverExceedsElementCount(t *testing.T) {
	shape := tensor.Shape{5, 4, 3}
	w := ForShape(shape)
	if got := w.Iterations(); got != shape.NumElements() {
		t.Fatalf("Iterations() = %d, want %d", got, shape.NumElements())
	}

	count := 0
	_ = w.Execute(func([]int) error {
		count++
		return nil
	})
	if count != shape.NumElements() {
		t.Errorf("Execute visited %d coordinates, want %d", count, shape.NumElements())
	}
}

func TestExecuteStopsOnError(t *testing.T) {
	sentinel := errors.New("stop")
	w := ForShape(tensor.Shape{10})

	count := 0
	err := w.Execute(func([]int) error {
		count++
		if count == 3 {
			return sentinel
		}
		return nil
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("Execute returned %v, want sentinel", err)
	}
	if count != 3 {
		t.Errorf("Execute ran %d iterations after error, want 3", count)
	}
}

func TestDefaultDimensionIsSingleCoordinate(t *testing.T) {
	// Unset axes contribute exactly one iteration at coordinate 0. This is
	// what the trained-data loader relies on for its bulk axis.
	w := New(3)
	w.Set(1, Dimension{Start: 0, End: 2, Step: 1})
	w.Set(2, Dimension{Start: 0, End: 2, Step: 1})

	visited := collect(t, w)
	if len(visited) != 4 {
		t.Fatalf("visited %d coordinates, want 4", len(visited))
	}
	for _, c := range visited {
		if c[0] != 0 {
			t.Errorf("axis 0 should stay at 0, visited %v", c)
		}
	}
}

func TestValidate(t *testing.T) {
	w := New(2)
	w.Set(0, Dimension{Start: 0, End: 6, Step: 2})
	if err := w.Validate(); err != nil {
		t.Errorf("valid window rejected: %v", err)
	}

	w.Set(0, Dimension{Start: 0, End: 5, Step: 2})
	err := w.Validate()
	if err == nil {
		t.Fatal("step not dividing extent should be rejected")
	}
	if !errors.Is(err, tensor.ErrPrecondition) {
		t.Errorf("error should classify as ErrPrecondition, got %v", err)
	}

	w.Set(0, Dimension{Start: 0, End: 5, Step: 0})
	if err := w.Validate(); err == nil {
		t.Error("zero step should be rejected")
	}
}
