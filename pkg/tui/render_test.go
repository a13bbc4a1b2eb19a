package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/procdiff/procdiff/pkg/comparator"
)

func TestRenderResult(t *testing.T) {
	res := &comparator.Result{
		RunID:      "run-1",
		Observed:   0.42,
		PValue:     0.0099,
		Iterations: 100,
		Null:       []float64{0.1, 0.2, 0.15, 0.3, 0.05},
		Elapsed:    1500 * time.Millisecond,
	}

	out := RenderResult("permutation test", res, 0.05)
	for _, want := range []string{"permutation test", "run-1", "0.420000", "0.009900", "reject H0"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	res.PValue = 0.73
	out = RenderResult("permutation test", res, 0.05)
	if !strings.Contains(out, "cannot reject H0") {
		t.Errorf("output missing acceptance verdict:\n%s", out)
	}
}

func TestSparkline(t *testing.T) {
	null := make([]float64, 100)
	for i := range null {
		null[i] = float64(i % 10)
	}
	line := sparkline(null, 5)
	if line == "" {
		t.Fatal("empty sparkline")
	}

	// Degenerate distribution must not divide by zero.
	if flat := sparkline([]float64{1, 1, 1}, 1); flat == "" {
		t.Fatal("empty sparkline for flat distribution")
	}
}

func TestNullSummary(t *testing.T) {
	s := nullSummary([]float64{1, 2, 3, 4, 5})
	for _, want := range []string{"min 1.0000", "median 3.0000", "mean 3.0000", "max 5.0000"} {
		if !strings.Contains(s, want) {
			t.Errorf("summary %q missing %q", s, want)
		}
	}
}
