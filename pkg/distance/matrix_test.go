package distance

import (
	"context"
	"sync/atomic"
	"testing"
)

func TestSymmetric(t *testing.T) {
	variants := [][]string{
		{"a", "b", "c"},
		{"a", "c", "b"},
		{"a"},
		nil,
	}
	costs := DefaultLabelCosts()
	dist := func(a, b []string) float64 { return Weighted(a, b, costs) }

	var cells atomic.Int64
	m, err := Symmetric(context.Background(), variants, dist, 4, func(n int) {
		cells.Add(int64(n))
	})
	if err != nil {
		t.Fatalf("Symmetric: %v", err)
	}

	if m.Rows() != 4 || m.Cols() != 4 {
		t.Fatalf("matrix shape = %dx%d, want 4x4", m.Rows(), m.Cols())
	}
	if got := cells.Load(); got != 16 {
		t.Errorf("progress reported %d cells, want 16", got)
	}

	for i := range variants {
		if d := m.At(i, i); d != 0 {
			t.Errorf("At(%d,%d) = %v, want 0", i, i, d)
		}
		for j := range variants {
			if m.At(i, j) != m.At(j, i) {
				t.Errorf("matrix not symmetric at (%d,%d)", i, j)
			}
			if want := dist(variants[i], variants[j]); m.At(i, j) != want {
				t.Errorf("At(%d,%d) = %v, want %v", i, j, m.At(i, j), want)
			}
		}
	}
}

func TestSymmetric_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	variants := make([][]string, 64)
	_, err := Symmetric(ctx, variants, func(a, b []string) float64 { return 0 }, 2, nil)
	if err == nil {
		t.Fatal("expected error from canceled context")
	}
}
