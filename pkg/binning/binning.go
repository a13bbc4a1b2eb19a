// Package binning discretizes continuous service times into a small number
// of bins, so the timed Levenshtein distance can score timing differences on
// an ordinal scale. A separate binner is trained per activity: what counts
// as "slow" for one activity may be instantaneous for another.
package binning

import (
	"sort"

	"github.com/procdiff/procdiff/internal/model"
)

// Binner assigns a continuous value to a discrete bin index in [0, NumBins).
type Binner interface {
	Bin(v float64) int
	NumBins() int
}

// TrainFunc builds a binner from the training values of one activity.
type TrainFunc func(values []float64) (Binner, error)

// Manager trains and holds a separate binner for each activity.
type Manager struct {
	binners map[string]Binner
}

// Train groups the pooled service-time steps by activity and trains a binner
// on each group. Timed comparisons train on the pooled steps of both logs so
// that the same bin boundaries apply to either side.
func Train(steps []model.ServiceStep, train TrainFunc) (*Manager, error) {
	grouped := make(map[string][]float64)
	for _, s := range steps {
		grouped[s.Activity] = append(grouped[s.Activity], s.Seconds)
	}

	// Train in sorted activity order: TrainFunc may consume shared seeded
	// randomness, and map iteration order would break reproducibility.
	activities := make([]string, 0, len(grouped))
	for activity := range grouped {
		activities = append(activities, activity)
	}
	sort.Strings(activities)

	binners := make(map[string]Binner, len(grouped))
	for _, activity := range activities {
		b, err := train(grouped[activity])
		if err != nil {
			return nil, err
		}
		binners[activity] = b
	}
	return &Manager{binners: binners}, nil
}

// Bin assigns a value to a bin using the binner trained for the activity.
// Activities outside the training data fall into the lowest bin.
func (m *Manager) Bin(activity string, v float64) int {
	b, ok := m.binners[activity]
	if !ok {
		return 0
	}
	return b.Bin(v)
}

// NumActivities returns the number of trained binners.
func (m *Manager) NumActivities() int {
	return len(m.binners)
}
