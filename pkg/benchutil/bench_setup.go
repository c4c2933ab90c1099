// Package benchutil provides shared constants and helpers for benchmarks.
package benchutil

import (
	"os"
	"testing"
)

// SkipIfNoLongBench skips the benchmark if SORTBENCH_LONG_BENCH is not set.
// Use this to gate long-running benchmarks that shouldn't run by default.
func SkipIfNoLongBench(b *testing.B) {
	if os.Getenv("SORTBENCH_LONG_BENCH") == "" {
		b.Skip("set SORTBENCH_LONG_BENCH=1 to run scaling benchmark")
	}
}

// ResetInput copies src into dst between iterations so every iteration sorts
// the same unsorted data. The copy is excluded from the measured time.
func ResetInput(b *testing.B, dst, src []int) {
	b.Helper()
	b.StopTimer()
	copy(dst, src)
	b.StartTimer()
}
