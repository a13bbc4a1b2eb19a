package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/procdiff/procdiff/internal/model"
	"github.com/procdiff/procdiff/pkg/aggregate"
	"github.com/procdiff/procdiff/pkg/comparator"
	"github.com/procdiff/procdiff/pkg/config"
	"github.com/procdiff/procdiff/pkg/ingest"
	"github.com/procdiff/procdiff/pkg/prepare"
	"github.com/procdiff/procdiff/pkg/progress"
	"github.com/procdiff/procdiff/pkg/telemetry"
	"github.com/procdiff/procdiff/pkg/tui"
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare two event logs",
}

var permutationCmd = &cobra.Command{
	Use:   "permutation <log_a.xes> <log_b.xes>",
	Short: "Permutation test (timed Levenshtein by default)",
	Long: `Runs a permutation test: the pooled traces of both logs are repeatedly
reshuffled between the two groups, realizing the null hypothesis that
group membership is exchangeable. By default traces are compared with the
timed Levenshtein distance over binned service times; --timed=false
compares activity sequences only.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCompare(cmd.Context(), args[0], args[1], permTimed, func(ctx context.Context, opts []comparator.Option, logA, logB *model.EventLog) (*comparator.Result, string, error) {
			if permTimed {
				c := comparator.NewTimedLevenshtein(opts...)
				res, err := c.Compare(ctx, logA, logB, iterations)
				return res, "Timed Levenshtein permutation test", err
			}
			c := comparator.NewControlFlowPermutation(opts...)
			res, err := c.Compare(ctx, logA, logB, iterations)
			return res, "Control-flow permutation test", err
		})
	},
}

var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap <log_a.xes> <log_b.xes>",
	Short: "Bootstrap test (control flow by default)",
	Long: `Runs a bootstrap test: the null distribution is built by comparing the
first log against samples of itself drawn with replacement, estimating
the sampling variability of the statistic. The sample size defaults to
the first log's trace count; pass --sample-size to probe robustness to
sample size.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCompare(cmd.Context(), args[0], args[1], bootTimed, func(ctx context.Context, opts []comparator.Option, logA, logB *model.EventLog) (*comparator.Result, string, error) {
			k := sampleSize
			if k == 0 {
				k = len(logA.Traces)
			}
			if bootTimed {
				c := comparator.NewTimedLevenshteinBootstrap(opts...)
				res, err := c.Compare(ctx, logA, logB, k, iterations)
				return res, "Timed Levenshtein bootstrap test", err
			}
			c := comparator.NewControlFlowBootstrap(opts...)
			res, err := c.Compare(ctx, logA, logB, k, iterations)
			return res, "Control-flow bootstrap test", err
		})
	},
}

func runCompare(ctx context.Context, pathA, pathB string, timed bool, run func(ctx context.Context, opts []comparator.Option, logA, logB *model.EventLog) (*comparator.Result, string, error)) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	if traceFlag || cfg.Telemetry.Enabled {
		tc := telemetry.DefaultOTLPConfig("procdiff")
		if cfg.Telemetry.Endpoint != "" {
			tc.Endpoint = cfg.Telemetry.Endpoint
		}
		otlp := telemetry.NewOTLPExporter(tc)
		shutdown, err := otlp.Init(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: telemetry disabled: %v\n", err)
		} else {
			defer shutdown(context.Background())
		}
	}

	logA, err := loadLog(pathA, timed)
	if err != nil {
		return err
	}
	logB, err := loadLog(pathB, timed)
	if err != nil {
		return err
	}

	opts := cfg.Options()
	opts = append(opts, flagOverrides()...)
	if !quiet {
		opts = append(opts, comparator.WithProgress(progress.ForComparison(iterations)))
	}

	res, name, err := run(ctx, opts, logA, logB)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Print(tui.RenderResult(name, res, alpha))
	return nil
}

func loadLog(path string, timed bool) (*model.EventLog, error) {
	log, err := ingest.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if timed {
		if err := prepare.EnsureStartTimestamps(log); err != nil {
			return nil, err
		}
	}
	return log, nil
}

// flagOverrides maps explicitly set CLI flags onto comparator options,
// taking precedence over the config file.
func flagOverrides() []comparator.Option {
	var opts []comparator.Option
	if workers != 0 {
		opts = append(opts, comparator.WithWorkers(workers))
	}
	if flagChanged("seed") {
		opts = append(opts, comparator.WithSeed(seedFlag))
	}
	switch policyFlag {
	case "nearest_neighbor":
		opts = append(opts, comparator.WithPolicy(aggregate.NearestNeighbor{}))
	case "mean_pairwise":
		opts = append(opts, comparator.WithPolicy(aggregate.MeanPairwise{}))
	}
	return opts
}

func flagChanged(name string) bool {
	return compareCmd.PersistentFlags().Changed(name)
}
