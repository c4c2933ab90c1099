package harness

import (
	"context"
	"fmt"
	"time"

	"github.com/naastyyshha/sortbench/internal/logctx"
	"github.com/naastyyshha/sortbench/pkg/inputgen"
	"github.com/naastyyshha/sortbench/pkg/logging"
	"github.com/naastyyshha/sortbench/pkg/sorting"
)

// DefaultCheckSize is the input length of the correctness suite.
const DefaultCheckSize = 100

// CheckResult is the outcome of sorting one generated input.
type CheckResult struct {
	Case inputgen.Case
	N    int
	// Sorted reports that the output is non-decreasing.
	Sorted bool
	// Verified reports that the output is a non-decreasing permutation of
	// the input.
	Verified bool
	Seconds  float64
}

// Passed reports whether the output is a sorted permutation of the input.
func (r CheckResult) Passed() bool {
	return r.Verified
}

// CheckReport holds the correctness suite results for one algorithm.
type CheckReport struct {
	Algorithm sorting.Algorithm
	Results   []CheckResult
}

// Passed reports whether every case passed.
func (r CheckReport) Passed() bool {
	for _, res := range r.Results {
		if !res.Passed() {
			return false
		}
	}
	return len(r.Results) > 0
}

// Check runs alg on the best, average and worst case inputs of length n
// (DefaultCheckSize when n <= 0) and verifies each output.
func (h *Harness) Check(ctx context.Context, alg sorting.Algorithm, n int) (CheckReport, error) {
	if n <= 0 {
		n = DefaultCheckSize
	}
	report := CheckReport{Algorithm: alg}
	gen := inputgen.NewGenerator(inputgen.DefaultSeed)
	ctx = logctx.WithAlgorithm(ctx, alg)

	fn := alg.Sort()
	if fn == nil {
		return report, fmt.Errorf("unknown algorithm: %d", int(alg))
	}
	for _, c := range inputgen.Cases() {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		input := gen.Generate(c, alg, n)
		if err := alg.Validate(input); err != nil {
			return report, err
		}
		release, err := h.reserve(alg, input)
		if err != nil {
			return report, err
		}

		fingerprint := sorting.Fingerprint(input)
		start := time.Now()
		fn(input)
		elapsed := time.Since(start)
		release()

		res := CheckResult{
			Case:     c,
			N:        n,
			Sorted:   sorting.IsSorted(input),
			Verified: sorting.Verify(input, n, fingerprint),
			Seconds:  elapsed.Seconds(),
		}
		report.Results = append(report.Results, res)

		log := logctx.FromContext(logctx.WithCase(ctx, c))
		logging.MeasurementComplete(log, "check", elapsed).
			Count("n", int64(n)).
			Bool("sorted", res.Sorted).
			Bool("passed", res.Passed()).
			LogDebug("case checked")
	}
	return report, nil
}
