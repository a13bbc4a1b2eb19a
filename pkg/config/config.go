// Package config provides YAML configuration for procdiff comparisons.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/procdiff/procdiff/pkg/aggregate"
	"github.com/procdiff/procdiff/pkg/comparator"
	"github.com/procdiff/procdiff/pkg/distance"
)

// Config holds all procdiff configuration.
type Config struct {
	Version int `yaml:"version"`

	Compare   CompareConfig   `yaml:"compare"`
	Distance  DistanceConfig  `yaml:"distance"`
	Binning   BinningConfig   `yaml:"binning"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// CompareConfig controls the resampling test.
type CompareConfig struct {
	// Iterations is the number of resampling iterations.
	Iterations int `yaml:"iterations"`

	// SampleSize is the bootstrap sample size. 0 means the size of the
	// first log.
	SampleSize int `yaml:"sample_size"`

	// Workers bounds parallelism. 0 means one per CPU.
	Workers int `yaml:"workers"`

	// Seed makes runs reproducible when set.
	Seed *uint64 `yaml:"seed,omitempty"`

	// Policy is the aggregation policy: mean_pairwise | nearest_neighbor.
	Policy string `yaml:"policy"`

	// Normalize divides trace distances by the longer trace's length.
	Normalize bool `yaml:"normalize"`
}

// DistanceConfig holds the edit distance cost weights.
type DistanceConfig struct {
	// Control-flow costs.
	Insertion float64 `yaml:"insertion"`
	Deletion  float64 `yaml:"deletion"`
	Mismatch  float64 `yaml:"mismatch"`

	// Timed costs.
	TimedBase     float64 `yaml:"timed_base"`
	TimedMismatch float64 `yaml:"timed_mismatch"`
	TimeScale     float64 `yaml:"time_scale"`
}

// BinningConfig controls service-time binning for timed comparisons.
type BinningConfig struct {
	// Method is kmeans | percentile.
	Method string `yaml:"method"`

	// K is the k-means cluster count.
	K int `yaml:"k"`

	// MaxIter bounds k-means iterations.
	MaxIter int `yaml:"max_iter"`

	// Percentile is the outer percentile for percentile binning.
	Percentile float64 `yaml:"percentile"`
}

// TelemetryConfig enables optional OTLP trace export.
type TelemetryConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Version: 1,
		Compare: CompareConfig{
			Iterations: 1000,
			Policy:     "mean_pairwise",
			Normalize:  true,
		},
		Distance: DistanceConfig{
			Insertion:     1,
			Deletion:      1,
			Mismatch:      1,
			TimedBase:     1,
			TimedMismatch: 1,
			TimeScale:     1,
		},
		Binning: BinningConfig{
			Method:     "kmeans",
			K:          3,
			MaxIter:    100,
			Percentile: 10,
		},
		Telemetry: TelemetryConfig{
			Endpoint: "localhost:4317",
		},
	}
}

// Load reads a YAML config file, applying defaults for unset fields.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	switch c.Compare.Policy {
	case "mean_pairwise", "nearest_neighbor":
	default:
		return fmt.Errorf("unknown aggregation policy %q", c.Compare.Policy)
	}
	switch c.Binning.Method {
	case "kmeans", "percentile":
	default:
		return fmt.Errorf("unknown binning method %q", c.Binning.Method)
	}
	return nil
}

// Options translates the configuration into comparator options. Cost and
// binning parameter validation happens inside Compare.
func (c *Config) Options() []comparator.Option {
	opts := []comparator.Option{
		comparator.WithWorkers(c.Compare.Workers),
		comparator.WithLabelCosts(distance.LabelCosts{
			Insertion: c.Distance.Insertion,
			Deletion:  c.Distance.Deletion,
			Mismatch:  c.Distance.Mismatch,
		}),
	}

	if c.Compare.Policy == "nearest_neighbor" {
		opts = append(opts, comparator.WithPolicy(aggregate.NearestNeighbor{}))
	}
	if !c.Compare.Normalize {
		opts = append(opts, comparator.WithoutNormalization())
	}
	if c.Compare.Seed != nil {
		opts = append(opts, comparator.WithSeed(*c.Compare.Seed))
	}

	if c.Binning.Method == "percentile" {
		opts = append(opts, comparator.WithPercentileBinning(c.Binning.Percentile))
	} else {
		opts = append(opts, comparator.WithKMeansBinning(c.Binning.K, c.Binning.MaxIter))
	}

	bins := 3
	if c.Binning.Method == "kmeans" {
		bins = c.Binning.K
	}
	maxBin := bins - 1
	if maxBin < 1 {
		maxBin = 1
	}
	opts = append(opts, comparator.WithTimedCosts(distance.TimedCosts{
		Base:      c.Distance.TimedBase,
		Mismatch:  c.Distance.TimedMismatch,
		TimeScale: c.Distance.TimeScale,
		MaxBin:    maxBin,
	}))

	return opts
}
