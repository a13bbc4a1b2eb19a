package binning

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/procdiff/procdiff/internal/model"
	"github.com/procdiff/procdiff/pkg/errors"
)

func TestOuterPercentile(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	b, err := NewOuterPercentile(values, 10)
	if err != nil {
		t.Fatalf("NewOuterPercentile: %v", err)
	}
	if b.NumBins() != 3 {
		t.Fatalf("NumBins = %d, want 3", b.NumBins())
	}

	tests := []struct {
		v    float64
		want int
	}{
		{0, 0},
		{1, 0},
		{2, 1},
		{5, 1},
		{9, 1},
		{9.5, 2},
		{10, 2},
		{100, 2},
	}
	for _, tt := range tests {
		if got := b.Bin(tt.v); got != tt.want {
			t.Errorf("Bin(%v) = %d, want %d", tt.v, got, tt.want)
		}
	}
}

func TestOuterPercentile_Errors(t *testing.T) {
	for _, pct := range []float64{-1, 50.5, 100} {
		if _, err := NewOuterPercentile([]float64{1, 2, 3}, pct); !errors.IsCode(err, errors.CodeConfiguration) {
			t.Errorf("pct=%v: expected configuration error, got %v", pct, err)
		}
	}
}

func TestOuterPercentile_Empty(t *testing.T) {
	b, err := NewOuterPercentile(nil, 10)
	if err != nil {
		t.Fatalf("NewOuterPercentile: %v", err)
	}
	// No training data: everything lands in the top bin, which is harmless
	// because such an activity never appears in the compared traces either.
	if got := b.Bin(1); got < 0 || got >= b.NumBins() {
		t.Errorf("Bin(1) = %d out of range", got)
	}
}

func TestKMeans_SeparatedClusters(t *testing.T) {
	values := []float64{
		0.9, 1.0, 1.1,
		9.9, 10.0, 10.1,
		99.9, 100.0, 100.1,
	}
	b, err := NewKMeans(values, 3, 100, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("NewKMeans: %v", err)
	}
	if b.NumBins() != 3 {
		t.Fatalf("NumBins = %d, want 3", b.NumBins())
	}

	tests := []struct {
		v    float64
		want int
	}{
		{0.5, 0},
		{1.0, 0},
		{10.0, 1},
		{12.0, 1},
		{100.0, 2},
		{500.0, 2},
	}
	for _, tt := range tests {
		if got := b.Bin(tt.v); got != tt.want {
			t.Errorf("Bin(%v) = %d, want %d", tt.v, got, tt.want)
		}
	}
}

func TestKMeans_Deterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	values := make([]float64, 200)
	for i := range values {
		values[i] = rng.Float64() * 100
	}

	b1, err := NewKMeans(values, 3, 100, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatalf("NewKMeans: %v", err)
	}
	b2, err := NewKMeans(values, 3, 100, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatalf("NewKMeans: %v", err)
	}
	if !reflect.DeepEqual(b1.centroids, b2.centroids) {
		t.Errorf("same seed produced different centroids: %v vs %v", b1.centroids, b2.centroids)
	}
}

func TestKMeans_FewDistinctValues(t *testing.T) {
	b, err := NewKMeans([]float64{5, 5, 5, 5}, 3, 100, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("NewKMeans: %v", err)
	}
	if b.NumBins() != 1 {
		t.Errorf("NumBins = %d, want 1 for a single distinct value", b.NumBins())
	}
	if got := b.Bin(5); got != 0 {
		t.Errorf("Bin(5) = %d, want 0", got)
	}
}

func TestKMeans_Errors(t *testing.T) {
	if _, err := NewKMeans([]float64{1}, 0, 100, rand.New(rand.NewSource(1))); !errors.IsCode(err, errors.CodeConfiguration) {
		t.Errorf("k=0: expected configuration error, got %v", err)
	}
	if _, err := NewKMeans([]float64{1}, 3, 0, rand.New(rand.NewSource(1))); !errors.IsCode(err, errors.CodeConfiguration) {
		t.Errorf("maxIter=0: expected configuration error, got %v", err)
	}
}

func TestManager_PerActivity(t *testing.T) {
	steps := []model.ServiceStep{
		{Activity: "triage", Seconds: 1},
		{Activity: "triage", Seconds: 2},
		{Activity: "triage", Seconds: 100},
		{Activity: "surgery", Seconds: 1000},
		{Activity: "surgery", Seconds: 2000},
		{Activity: "surgery", Seconds: 9000},
	}
	train := func(values []float64) (Binner, error) {
		return NewOuterPercentile(values, 10)
	}

	m, err := Train(steps, train)
	if err != nil {
		t.Fatalf("Train: %v", err)
	}
	if m.NumActivities() != 2 {
		t.Fatalf("NumActivities = %d, want 2", m.NumActivities())
	}

	// 100 seconds is extreme for triage and below everything for surgery.
	if got := m.Bin("triage", 100); got != 2 {
		t.Errorf(`Bin("triage", 100) = %d, want 2`, got)
	}
	if got := m.Bin("surgery", 100); got != 0 {
		t.Errorf(`Bin("surgery", 100) = %d, want 0`, got)
	}

	// Unknown activities fall into the lowest bin.
	if got := m.Bin("discharge", 100); got != 0 {
		t.Errorf(`Bin("discharge", 100) = %d, want 0`, got)
	}
}

func TestTrain_DeterministicWithSharedSource(t *testing.T) {
	steps := []model.ServiceStep{}
	rng := rand.New(rand.NewSource(3))
	for _, activity := range []string{"a", "b", "c", "d"} {
		for i := 0; i < 30; i++ {
			steps = append(steps, model.ServiceStep{Activity: activity, Seconds: rng.Float64() * 50})
		}
	}

	bins := func(seed int64) map[string]int {
		src := rand.New(rand.NewSource(seed))
		m, err := Train(steps, func(values []float64) (Binner, error) {
			return NewKMeans(values, 3, 100, src)
		})
		if err != nil {
			t.Fatalf("Train: %v", err)
		}
		out := make(map[string]int)
		for _, s := range steps {
			out[s.Activity+"/"+string(rune('0'+m.Bin(s.Activity, s.Seconds)))]++
		}
		return out
	}

	if got, again := bins(42), bins(42); !reflect.DeepEqual(got, again) {
		t.Errorf("same seed produced different binnings: %v vs %v", got, again)
	}
}
