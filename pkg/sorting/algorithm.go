package sorting

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Algorithm identifies one of the benchmarked sorts.
type Algorithm int

// Algorithm values. The numbering matches the column order of result files.
const (
	Selection Algorithm = iota + 1
	Tree
	Counting
)

// intBytes is the in-memory size of one int.
const intBytes = strconv.IntSize / 8

// treeItemBytes approximates the per-element cost of the B-tree: the item
// itself plus its share of node slices and child pointers.
const treeItemBytes = 4 * intBytes

// All returns the algorithms in result column order.
func All() []Algorithm {
	return []Algorithm{Selection, Tree, Counting}
}

// String returns the short name used in flags and log fields.
func (a Algorithm) String() string {
	switch a {
	case Selection:
		return "selection"
	case Tree:
		return "tree"
	case Counting:
		return "counting"
	default:
		return fmt.Sprintf("algorithm(%d)", int(a))
	}
}

// Title returns the display name used on the console.
func (a Algorithm) Title() string {
	switch a {
	case Selection:
		return "Selection Sort"
	case Tree:
		return "Tree Sort"
	case Counting:
		return "Counting Sort"
	default:
		return a.String()
	}
}

// Sort returns the routine implementing a, or nil for an unknown value.
func (a Algorithm) Sort() Func {
	switch a {
	case Selection:
		return SelectionSort
	case Tree:
		return TreeSort
	case Counting:
		return CountingSort
	default:
		return nil
	}
}

// AuxBytes estimates the auxiliary memory one call of a allocates for xs.
// It saturates at math.MaxUint64 when the estimate does not fit.
func (a Algorithm) AuxBytes(xs []int) uint64 {
	n := uint64(len(xs))
	switch a {
	case Tree:
		return n * treeItemBytes
	case Counting:
		if n == 0 {
			return 0
		}
		k, err := Span(bounds(xs))
		const limit = math.MaxUint64 / intBytes
		if err != nil || n > limit || uint64(k) > limit-n {
			return math.MaxUint64
		}
		return (uint64(k) + n) * intBytes
	default:
		return 0
	}
}

// Validate reports whether a can sort xs. Counting sort needs the value
// range of xs to fit in an int.
func (a Algorithm) Validate(xs []int) error {
	if a != Counting || len(xs) == 0 {
		return nil
	}
	if _, err := Span(bounds(xs)); err != nil {
		return fmt.Errorf("%s: %w", a, err)
	}
	return nil
}

// bounds returns the minimum and maximum of a non-empty slice.
func bounds(xs []int) (lo, hi int) {
	lo, hi = xs[0], xs[0]
	for _, v := range xs[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return lo, hi
}

// ParseAlgorithm parses a name as produced by Algorithm.String.
func ParseAlgorithm(s string) (Algorithm, error) {
	for _, a := range All() {
		if strings.EqualFold(s, a.String()) {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown algorithm: %s", s)
}
