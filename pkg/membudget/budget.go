// Package membudget caps the auxiliary memory a benchmark run may allocate.
//
// Counting sort allocates a histogram sized by the value range, not the
// input length, so a wide range can ask for far more memory than the input
// itself. The harness reserves each algorithm's auxiliary bytes here before
// timing it and releases them afterwards.
package membudget

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/naastyyshha/sortbench/pkg/sysmem"
)

// DefaultBudgetBytes is the fallback memory budget when system RAM cannot be detected.
const DefaultBudgetBytes uint64 = 2 * 1024 * 1024 * 1024

// EnvBudget names the environment variable that overrides the budget.
const EnvBudget = "SORTBENCH_MEM_BUDGET"

// BudgetSource indicates how the memory budget was determined.
type BudgetSource string

const (
	// BudgetSourceAuto50Pct indicates the budget was set to 50% of available RAM.
	BudgetSourceAuto50Pct BudgetSource = "auto-50pct"
	// BudgetSourceDefault indicates the budget used the fallback default.
	BudgetSourceDefault BudgetSource = "default"
	// BudgetSourceCLI indicates the budget was set via CLI flag.
	BudgetSourceCLI BudgetSource = "cli"
	// BudgetSourceEnv indicates the budget was set via environment variable.
	BudgetSourceEnv BudgetSource = "env"
)

// Budget is a soft limit: callers reserve bytes before allocating and release
// them when done. Budget is safe for concurrent use.
type Budget struct {
	total  uint64
	inUse  atomic.Uint64
	source BudgetSource
}

// Config holds configuration for creating a Budget.
type Config struct {
	// TotalBytes is the total memory budget in bytes.
	// If 0, it will be calculated from system RAM.
	TotalBytes uint64

	// Source indicates how the budget was determined.
	Source BudgetSource
}

// New creates a new Budget with the given configuration.
func New(cfg Config) *Budget {
	return &Budget{
		total:  cfg.TotalBytes,
		source: cfg.Source,
	}
}

// NewFromSystemRAM creates a Budget set to 50% of the currently available RAM.
// If RAM cannot be detected, uses DefaultBudgetBytes.
func NewFromSystemRAM() *Budget {
	result := sysmem.Detect()

	var total uint64
	var source BudgetSource

	if result.Reliable {
		total = result.AvailableBytes / 2
		source = BudgetSourceAuto50Pct
	} else {
		total = DefaultBudgetBytes
		source = BudgetSourceDefault
	}

	return New(Config{
		TotalBytes: total,
		Source:     source,
	})
}

// Total returns the total budget in bytes.
func (b *Budget) Total() uint64 {
	return b.total
}

// InUse returns the currently reserved bytes.
func (b *Budget) InUse() uint64 {
	return b.inUse.Load()
}

// Available returns the available bytes (total - inUse).
func (b *Budget) Available() uint64 {
	inUse := b.inUse.Load()
	if inUse >= b.total {
		return 0
	}
	return b.total - inUse
}

// Source returns how the budget was determined.
func (b *Budget) Source() BudgetSource {
	return b.source
}

// TryReserve attempts to reserve n bytes.
// Returns true if successful, false if it would exceed the budget.
//
// This is a non-blocking operation.
func (b *Budget) TryReserve(n uint64) bool {
	for {
		current := b.inUse.Load()
		if n > b.total || current > b.total-n {
			return false
		}
		if b.inUse.CompareAndSwap(current, current+n) {
			return true
		}
		// CAS failed, retry
	}
}

// Release returns n bytes to the available pool.
// Must be called when reserved memory is no longer needed.
func (b *Budget) Release(n uint64) {
	for {
		current := b.inUse.Load()
		if n > current {
			// Prevent underflow - cap at 0
			if b.inUse.CompareAndSwap(current, 0) {
				break
			}
		} else {
			if b.inUse.CompareAndSwap(current, current-n) {
				break
			}
		}
	}
}

// Hold reserves n bytes and returns the function that releases them. ok is
// false, and nothing is reserved, when n does not fit.
func (b *Budget) Hold(n uint64) (release func(), ok bool) {
	if !b.TryReserve(n) {
		return func() {}, false
	}
	return func() { b.Release(n) }, true
}

// Resolve picks the budget from, in priority order, the --mem-budget flag
// value, the SORTBENCH_MEM_BUDGET environment variable and available RAM.
func Resolve(flagValue string) (*Budget, error) {
	if flagValue != "" {
		n, err := ParseHumanSize(flagValue)
		if err != nil {
			return nil, fmt.Errorf("invalid --mem-budget: %w", err)
		}
		return New(Config{TotalBytes: n, Source: BudgetSourceCLI}), nil
	}

	if env := os.Getenv(EnvBudget); env != "" {
		n, err := ParseHumanSize(env)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvBudget, err)
		}
		return New(Config{TotalBytes: n, Source: BudgetSourceEnv}), nil
	}

	return NewFromSystemRAM(), nil
}

var sizeSuffixes = map[string]float64{
	"":    1,
	"B":   1,
	"KB":  1e3,
	"MB":  1e6,
	"GB":  1e9,
	"TB":  1e12,
	"K":   1 << 10,
	"KiB": 1 << 10,
	"M":   1 << 20,
	"MiB": 1 << 20,
	"G":   1 << 30,
	"GiB": 1 << 30,
	"T":   1 << 40,
	"TiB": 1 << 40,
}

// ParseHumanSize parses a size such as "512MiB", "4GB" or "1024".
// Decimal (KB, MB, GB, TB) and binary (K/KiB, M/MiB, G/GiB, T/TiB) suffixes
// are accepted.
func ParseHumanSize(s string) (uint64, error) {
	if s == "" {
		return 0, errors.New("empty size string")
	}

	numStr := strings.TrimRightFunc(s, func(r rune) bool {
		return (r < '0' || r > '9') && r != '.'
	})
	suffix := s[len(numStr):]

	num, err := strconv.ParseFloat(numStr, 64)
	if err != nil || num < 0 {
		return 0, fmt.Errorf("invalid number: %q", numStr)
	}

	multiplier, ok := sizeSuffixes[suffix]
	if !ok {
		return 0, fmt.Errorf("unknown size suffix: %s", suffix)
	}

	return uint64(num * multiplier), nil
}
