// Package harness times the sorting algorithms on generated inputs and
// streams the measurements to a results.Sink.
//
// Every algorithm is timed on its own copy of the same input, one call at a
// time. Cancellation is checked between calls, never inside one.
package harness

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/naastyyshha/sortbench/internal/logctx"
	"github.com/naastyyshha/sortbench/pkg/humanfmt"
	"github.com/naastyyshha/sortbench/pkg/membudget"
	"github.com/naastyyshha/sortbench/pkg/results"
	"github.com/naastyyshha/sortbench/pkg/sorting"
)

// ErrOverBudget is returned when an algorithm's auxiliary memory does not fit
// in the memory budget.
var ErrOverBudget = errors.New("memory budget exceeded")

// Default value range of the random arrays used by Boxplot and Sweep.
const (
	DefaultValueMin = 0
	DefaultValueMax = 10000
)

// Harness measures a fixed list of algorithms under an optional memory budget.
type Harness struct {
	algorithms []sorting.Algorithm
	budget     *membudget.Budget
}

// New creates a harness for algs, or for every algorithm when algs is empty.
// A nil budget disables the memory guard.
func New(budget *membudget.Budget, algs ...sorting.Algorithm) *Harness {
	if len(algs) == 0 {
		algs = sorting.All()
	}
	return &Harness{
		algorithms: algs,
		budget:     budget,
	}
}

// Algorithms returns the measured algorithms in column order.
func (h *Harness) Algorithms() []sorting.Algorithm {
	return h.algorithms
}

// Header returns the result file header for the harness's algorithms.
func (h *Harness) Header(kind results.Kind) results.Header {
	return results.Header{Kind: kind, Algorithms: h.algorithms}
}

// Measure sorts a copy of input with fn and returns the elapsed wall-clock
// time in seconds. input is never modified.
func Measure(fn sorting.Func, input []int) float64 {
	work := slices.Clone(input)
	start := time.Now()
	fn(work)
	return time.Since(start).Seconds()
}

// reserve holds the auxiliary memory alg needs for input.
func (h *Harness) reserve(alg sorting.Algorithm, input []int) (func(), error) {
	aux := alg.AuxBytes(input)
	if h.budget == nil || aux == 0 {
		return func() {}, nil
	}
	release, ok := h.budget.Hold(aux)
	if !ok {
		return nil, fmt.Errorf("%w: %s on n=%d needs %s, %s of %s available",
			ErrOverBudget, alg, len(input),
			humanfmt.BytesUint64(aux),
			humanfmt.BytesUint64(h.budget.Available()),
			humanfmt.BytesUint64(h.budget.Total()))
	}
	return release, nil
}

func (h *Harness) measure(alg sorting.Algorithm, input []int) (float64, error) {
	fn := alg.Sort()
	if fn == nil {
		return 0, fmt.Errorf("unknown algorithm: %d", int(alg))
	}
	if err := alg.Validate(input); err != nil {
		return 0, err
	}
	release, err := h.reserve(alg, input)
	if err != nil {
		return 0, err
	}
	defer release()
	return Measure(fn, input), nil
}

// measureRow times every algorithm on input and returns the row for key.
func (h *Harness) measureRow(ctx context.Context, key int, input []int) (results.Row, error) {
	row := results.Row{
		Key:     key,
		Seconds: make([]float64, len(h.algorithms)),
	}
	for i, alg := range h.algorithms {
		if err := ctx.Err(); err != nil {
			return row, err
		}
		sec, err := h.measure(alg, input)
		if err != nil {
			return row, err
		}
		row.Seconds[i] = sec

		log := logctx.FromContext(logctx.WithAlgorithm(ctx, alg))
		log.Debug().
			Int("key", key).
			Float64("seconds", sec).
			Msg("algorithm timed")
	}
	return row, nil
}
