package benchutil

// Shared constants for benchmarks across packages.

// BenchmarkSeed is the default seed for reproducible benchmark input generation.
const BenchmarkSeed = 42

// BenchmarkSizes are input sizes for quick runs. Selection sort is quadratic,
// so these stay small.
var BenchmarkSizes = []int{100, 1000, 10000}

// ScalingSizes are larger sizes for comprehensive scaling runs.
// Used with SORTBENCH_LONG_BENCH=1 environment variable.
var ScalingSizes = []int{50000, 100000, 250000}
