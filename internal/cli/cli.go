// Package cli implements the command-line interface for sortbench.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"strings"
	"syscall"

	"github.com/naastyyshha/sortbench/internal/logctx"
	"github.com/naastyyshha/sortbench/pkg/fileutil"
	"github.com/naastyyshha/sortbench/pkg/humanfmt"
	"github.com/naastyyshha/sortbench/pkg/logging"
	"github.com/naastyyshha/sortbench/pkg/membudget"
	"github.com/naastyyshha/sortbench/pkg/memdiag"
	"github.com/naastyyshha/sortbench/pkg/s3export"
	"github.com/naastyyshha/sortbench/pkg/sorting"
)

const usage = `usage: sortbench <command> [options]
commands:
  check    verify every algorithm on best, average and worst case inputs
  boxplot  repeat measurements at fixed sizes (boxplot_10k.csv, boxplot_100k.csv)
  sweep    measure growing sizes (sorting_performance.csv)
  summary  print boxplot statistics of result files (.csv, .csv.gz or .parquet)`

// Run executes the CLI with the given arguments.
func Run(args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return run(ctx, args, os.Stdout)
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return errors.New(usage)
	}

	switch args[0] {
	case "check":
		return runCheck(ctx, args[1:], stdout)
	case "boxplot":
		return runBoxplot(ctx, args[1:], stdout)
	case "sweep":
		return runSweep(ctx, args[1:], stdout)
	case "summary":
		return runSummary(args[1:], stdout)
	case "-h", "--help", "help":
		fmt.Fprintln(stdout, usage)
		return nil
	default:
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

// parseFlags parses args into fs. done is true when the command should
// return err right away, including a successful -h.
func parseFlags(fs *flag.FlagSet, args []string, stdout io.Writer) (done bool, err error) {
	fs.SetOutput(stdout)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return true, nil
		}
		return true, err
	}
	return false, nil
}

// commonFlags are accepted by every benchmarking command.
type commonFlags struct {
	debug     bool
	human     bool
	memBudget string
	algs      string
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging")
	fs.BoolVar(&c.human, "human", false, "human-readable console logs")
	fs.StringVar(&c.memBudget, "mem-budget", "", "auxiliary memory budget, e.g. 4GiB (default: 50% of available RAM, env "+membudget.EnvBudget+")")
	fs.StringVar(&c.algs, "alg", "", "comma-separated algorithms to run: selection, tree, counting (default: all)")
}

// algorithms parses --alg. An empty value selects every algorithm.
func (c *commonFlags) algorithms() ([]sorting.Algorithm, error) {
	var algs []sorting.Algorithm
	for _, field := range strings.Split(c.algs, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		alg, err := sorting.ParseAlgorithm(field)
		if err != nil {
			return nil, fmt.Errorf("invalid --alg: %w", err)
		}
		if slices.Contains(algs, alg) {
			return nil, fmt.Errorf("invalid --alg: %s listed twice", alg)
		}
		algs = append(algs, alg)
	}
	return algs, nil
}

// env is the runtime shared by the benchmarking commands.
type env struct {
	ctx     context.Context
	budget  *membudget.Budget
	tracker *memdiag.Tracker
}

// setup configures logging, resolves the memory budget and starts memory
// diagnostics. The returned cleanup stops the diagnostics.
func (c *commonFlags) setup(ctx context.Context, command string) (*env, func(), error) {
	logging.Init(c.debug, c.human)

	budget, err := membudget.Resolve(c.memBudget)
	if err != nil {
		return nil, nil, err
	}

	// Completion events carry their own phase field.
	ctx = logctx.WithLogger(ctx, logging.L().With().Str("command", command).Logger())
	log := logctx.FromContext(ctx)
	log.Debug().
		Uint64("budget_bytes", budget.Total()).
		Str("budget_source", string(budget.Source())).
		Msg("memory budget resolved")

	tracker := memdiag.NewTracker(memdiag.DefaultConfig())
	tracker.Start()
	tracker.SetPhase(command)

	cleanup := func() {
		tracker.Stop()
		if peak := tracker.PeakHeap(); peak > 0 {
			log.Debug().
				Str("peak_heap", humanfmt.BytesUint64(peak)).
				Msg("memory diagnostics stopped")
		}
	}
	return &env{ctx: ctx, budget: budget, tracker: tracker}, cleanup, nil
}

// removeStaleTmp clears the temporary files an interrupted run left next to
// the outputs of this one.
func removeStaleTmp(ctx context.Context, outPaths ...string) {
	if err := fileutil.RemoveStaleTmp(outPaths...); err != nil {
		log := logctx.FromContext(ctx)
		log.Warn().Err(err).Msg("stale tmp file cleanup incomplete")
	}
}

// fileSize returns the size of a written file, or 0 when it cannot be read.
func fileSize(path string) uint64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return uint64(info.Size())
}

// upload publishes files to destURI when it is set.
func upload(ctx context.Context, destURI string, files ...string) error {
	if destURI == "" || len(files) == 0 {
		return nil
	}
	client, err := s3export.NewClient(ctx)
	if err != nil {
		return err
	}
	return client.Upload(ctx, destURI, files...)
}

// validateUploadURI fails fast on a malformed --upload value, before any
// measurement runs.
func validateUploadURI(destURI string) error {
	if destURI == "" {
		return nil
	}
	if _, _, err := s3export.ParseS3URI(destURI); err != nil {
		return fmt.Errorf("invalid --upload: %w", err)
	}
	return nil
}

// parseSizes parses a comma-separated list of positive array sizes.
func parseSizes(s string) ([]int, error) {
	var sizes []int
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		n, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("invalid --sizes entry %q: %w", field, err)
		}
		if n <= 0 {
			return nil, fmt.Errorf("invalid --sizes entry %q: must be positive", field)
		}
		sizes = append(sizes, n)
	}
	if len(sizes) == 0 {
		return nil, errors.New("--sizes is empty")
	}
	return sizes, nil
}

// sizeLabel names a size in boxplot file names: 10000 becomes "10k".
func sizeLabel(n int) string {
	if n >= 1000 && n%1000 == 0 {
		return strconv.Itoa(n/1000) + "k"
	}
	return strconv.Itoa(n)
}
