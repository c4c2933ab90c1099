// Package sorting implements the in-place integer sorts measured by sortbench.
//
// Every routine has the same contract: given a slice, leave it holding a
// non-decreasing permutation of its original elements.
package sorting

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/btree"
)

// ErrRangeTooWide is returned when max - min + 1 of a set of values does not
// fit in an int.
var ErrRangeTooWide = errors.New("value range too wide")

// Func is the signature shared by all sorting routines.
type Func func(xs []int)

// treeDegree makes the B-tree a 2-3-4 tree, the B-tree form of a red-black tree.
const treeDegree = 2

// SelectionSort sorts xs by repeatedly moving the minimum of the unsorted
// suffix into place. O(n²) comparisons for every input, O(1) extra memory.
func SelectionSort(xs []int) {
	n := len(xs)
	for i := 0; i < n-1; i++ {
		minIdx := i
		for j := i + 1; j < n; j++ {
			if xs[j] < xs[minIdx] {
				minIdx = j
			}
		}
		if minIdx != i {
			xs[i], xs[minIdx] = xs[minIdx], xs[i]
		}
	}
}

// treeItem orders equal values by insertion index so the tree keeps duplicates.
type treeItem struct {
	value int
	seq   int
}

func lessTreeItem(a, b treeItem) bool {
	if a.value != b.value {
		return a.value < b.value
	}
	return a.seq < b.seq
}

// TreeSort inserts every element into a balanced ordered multiset and writes
// them back in ascending order. O(n log n) for every input.
func TreeSort(xs []int) {
	tree := btree.NewG(treeDegree, lessTreeItem)
	for i, v := range xs {
		tree.ReplaceOrInsert(treeItem{value: v, seq: i})
	}

	i := 0
	tree.Ascend(func(item treeItem) bool {
		xs[i] = item.value
		i++
		return true
	})
}

// Span returns hi - lo + 1, the number of distinct values in [lo, hi].
func Span(lo, hi int) (int, error) {
	d := hi - lo
	if hi < lo || d < 0 || d == math.MaxInt {
		return 0, fmt.Errorf("%w: [%d, %d]", ErrRangeTooWide, lo, hi)
	}
	return d + 1, nil
}

// CountingSort sorts xs through a histogram over [min, max]. Time and memory
// are O(n + k) where k = max - min + 1, so a wide value range is expensive
// even for short inputs. Equal values keep their relative order.
func CountingSort(xs []int) {
	CountingSortFunc(xs, func(v int) int { return v })
}

// CountingSortFunc stably sorts items by an integer key using counting sort.
// It does nothing for an empty slice and panics when the key range does not
// fit in an int; Algorithm.Validate reports that case as an error.
func CountingSortFunc[T any](items []T, key func(T) int) {
	n := len(items)
	if n <= 0 {
		return
	}

	lo, hi := key(items[0]), key(items[0])
	for _, it := range items[1:] {
		k := key(it)
		if k < lo {
			lo = k
		}
		if k > hi {
			hi = k
		}
	}

	size, err := Span(lo, hi)
	if err != nil {
		panic("sorting: counting sort: " + err.Error())
	}
	count := make([]int, size)
	for _, it := range items {
		count[key(it)-lo]++
	}
	for i := 1; i < len(count); i++ {
		count[i] += count[i-1]
	}

	// Reverse walk keeps equal keys in input order.
	out := make([]T, n)
	for i := n - 1; i >= 0; i-- {
		k := key(items[i]) - lo
		out[count[k]-1] = items[i]
		count[k]--
	}
	copy(items, out)
}

// IsSorted reports whether xs is in non-decreasing order.
func IsSorted(xs []int) bool {
	for i := 0; i < len(xs)-1; i++ {
		if xs[i] > xs[i+1] {
			return false
		}
	}
	return true
}
