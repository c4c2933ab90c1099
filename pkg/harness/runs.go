package harness

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/naastyyshha/sortbench/internal/logctx"
	"github.com/naastyyshha/sortbench/pkg/inputgen"
	"github.com/naastyyshha/sortbench/pkg/logging"
	"github.com/naastyyshha/sortbench/pkg/results"
	"github.com/naastyyshha/sortbench/pkg/sorting"
)

// Boxplot defaults.
const (
	DefaultRuns = 50
)

// Sweep defaults.
const (
	DefaultSweepStart = 1000
	DefaultSweepEnd   = 1_000_000
	DefaultSweepStep  = 1000
	DefaultLogEvery   = 10000
)

// ValueRange bounds the random values of a measurement, inclusive.
type ValueRange struct {
	Min, Max int
}

// DefaultValues is the range used when a config leaves Values nil.
func DefaultValues() *ValueRange {
	return &ValueRange{Min: DefaultValueMin, Max: DefaultValueMax}
}

func (v *ValueRange) validate() error {
	if v.Max < v.Min {
		return fmt.Errorf("value range max %d is below min %d", v.Max, v.Min)
	}
	if _, err := sorting.Span(v.Min, v.Max); err != nil {
		return fmt.Errorf("value range: %w", err)
	}
	return nil
}

// BoxplotConfig configures repeated measurements at a single size.
// Zero fields take their defaults, except Size which is required.
type BoxplotConfig struct {
	Size int
	Runs int
	// Values bounds the random values. Nil means DefaultValues.
	Values *ValueRange
	Seed   int64
}

func (c BoxplotConfig) withDefaults() (BoxplotConfig, error) {
	if c.Size <= 0 {
		return c, fmt.Errorf("boxplot size must be positive, got %d", c.Size)
	}
	if c.Runs < 0 {
		return c, fmt.Errorf("boxplot runs must not be negative, got %d", c.Runs)
	}
	if c.Runs == 0 {
		c.Runs = DefaultRuns
	}
	if c.Values == nil {
		c.Values = DefaultValues()
	}
	return c, c.Values.validate()
}

// SweepConfig configures one measurement per size over a growing range.
// Zero fields take their defaults.
type SweepConfig struct {
	Start, End, Step int
	// Values bounds the random values. Nil means DefaultValues.
	Values *ValueRange
	Seed   int64
	// LogEvery reports progress for sizes that are a multiple of it.
	LogEvery int
	// Progress, if set, receives the rows that progress is reported for.
	Progress func(results.Row)
}

func (c SweepConfig) withDefaults() (SweepConfig, error) {
	if c.Start == 0 {
		c.Start = DefaultSweepStart
	}
	if c.End == 0 {
		c.End = DefaultSweepEnd
	}
	if c.Step == 0 {
		c.Step = DefaultSweepStep
	}
	if c.LogEvery == 0 {
		c.LogEvery = DefaultLogEvery
	}
	if c.Values == nil {
		c.Values = DefaultValues()
	}

	switch {
	case c.Start < 0:
		return c, fmt.Errorf("sweep start must not be negative, got %d", c.Start)
	case c.Step < 0:
		return c, fmt.Errorf("sweep step must be positive, got %d", c.Step)
	case c.LogEvery < 0:
		return c, fmt.Errorf("sweep log interval must be positive, got %d", c.LogEvery)
	case c.End < c.Start:
		return c, fmt.Errorf("sweep end %d is below start %d", c.End, c.Start)
	}
	return c, c.Values.validate()
}

// Points returns the number of sizes the sweep measures.
func (c SweepConfig) Points() int {
	c, err := c.withDefaults()
	if err != nil {
		return 0
	}
	return (c.End-c.Start)/c.Step + 1
}

// Boxplot measures cfg.Runs fresh random arrays of cfg.Size elements and
// writes one row per run, keyed by the 1-based run number. The generator is
// seeded once per call, so repeated calls produce the same inputs.
func (h *Harness) Boxplot(ctx context.Context, cfg BoxplotConfig, sink results.Sink) error {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return err
	}

	ctx = logctx.WithSize(ctx, cfg.Size)
	log := logctx.FromContext(ctx)
	gen := inputgen.NewGenerator(cfg.Seed)
	tracker := logging.NewProgressTracker(int64(cfg.Runs))
	start := time.Now()

	log.Info().
		Int("runs", cfg.Runs).
		Int("min", cfg.Values.Min).
		Int("max", cfg.Values.Max).
		Int64("seed", gen.Seed()).
		Msg("boxplot started")

	for run := 1; run <= cfg.Runs; run++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("boxplot n=%d run %d: %w", cfg.Size, run, err)
		}

		runStart := time.Now()
		input := gen.Random(cfg.Size, cfg.Values.Min, cfg.Values.Max)
		row, err := h.measureRow(ctx, run, input)
		if err != nil {
			return fmt.Errorf("boxplot n=%d run %d: %w", cfg.Size, run, err)
		}
		if err := sink.Write(row); err != nil {
			return fmt.Errorf("write boxplot run %d: %w", run, err)
		}

		elapsed := time.Since(runStart)
		tracker.RecordCompletion(elapsed)
		logging.MeasurementComplete(log, "boxplot", elapsed).
			Int("run", run).
			ProgressFromTracker(tracker).
			LogDebug("boxplot run measured")
	}

	logging.PhaseComplete(log, "boxplot", time.Since(start)).
		Int("runs", cfg.Runs).
		Log("boxplot complete")
	return nil
}

// Sweep measures one random array per size from cfg.Start to cfg.End
// inclusive in steps of cfg.Step and writes one row per size, keyed by the
// size. A single generator feeds the whole sweep.
func (h *Harness) Sweep(ctx context.Context, cfg SweepConfig, sink results.Sink) error {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return err
	}

	log := logctx.FromContext(ctx)
	gen := inputgen.NewGenerator(cfg.Seed)
	tracker := logging.NewProgressTracker(int64(cfg.Points()))
	start := time.Now()

	log.Info().
		Int("start", cfg.Start).
		Int("end", cfg.End).
		Int("step", cfg.Step).
		Int("min", cfg.Values.Min).
		Int("max", cfg.Values.Max).
		Int("points", cfg.Points()).
		Int64("seed", gen.Seed()).
		Msg("sweep started")

	for size := cfg.Start; size <= cfg.End; size += cfg.Step {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("sweep n=%d: %w", size, err)
		}

		sizeStart := time.Now()
		input := gen.Random(size, cfg.Values.Min, cfg.Values.Max)
		row, err := h.measureRow(logctx.WithSize(ctx, size), size, input)
		if err != nil {
			return fmt.Errorf("sweep n=%d: %w", size, err)
		}
		if err := sink.Write(row); err != nil {
			return fmt.Errorf("write sweep n=%d: %w", size, err)
		}

		elapsed := time.Since(sizeStart)
		tracker.RecordCompletion(elapsed)
		if size%cfg.LogEvery == 0 {
			ev := logging.MeasurementComplete(log, "sweep", elapsed).
				Int("n", size).
				ProgressFromTracker(tracker)
			for i, alg := range h.algorithms {
				ev.Seconds(alg.String(), row.Seconds[i]).
					Rate(alg.String(), int64(size), row.Seconds[i])
			}
			ev.Log("sweep size measured")
			if cfg.Progress != nil {
				cfg.Progress(row)
			}
		}
	}

	logging.PhaseComplete(log, "sweep", time.Since(start)).
		Count("points", int64(cfg.Points())).
		Log("sweep complete")
	return nil
}

// IsCanceled reports whether err stems from context cancellation.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
