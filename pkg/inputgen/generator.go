// Package inputgen generates the synthetic inputs each algorithm is measured on.
//
// Every method returns a newly allocated slice owned by the caller.
package inputgen

import (
	"fmt"
	"math/rand"

	"github.com/naastyyshha/sortbench/pkg/sorting"
)

// DefaultSeed makes generated inputs reproducible across runs.
const DefaultSeed = 42

// Value ranges of the generated distributions.
const (
	// AverageMax bounds average-case values to [0, AverageMax).
	AverageMax = 1000

	// BestCountingModulus keeps counting sort's best case in a narrow range.
	BestCountingModulus = 100

	// WorstCountingBase and WorstCountingSpan give counting sort's worst case
	// values in [WorstCountingBase, WorstCountingBase+WorstCountingSpan).
	WorstCountingBase = 1_000_000
	WorstCountingSpan = 1_000_000
)

// Case selects an input distribution.
type Case int

// Input distributions, chosen per algorithm to elicit its known complexity.
const (
	Best Case = iota + 1
	Average
	Worst
)

// Cases returns the cases in the order the correctness suite runs them.
func Cases() []Case {
	return []Case{Best, Average, Worst}
}

func (c Case) String() string {
	switch c {
	case Best:
		return "best"
	case Average:
		return "average"
	case Worst:
		return "worst"
	default:
		return fmt.Sprintf("case(%d)", int(c))
	}
}

// Generator produces benchmark inputs from a seeded source.
type Generator struct {
	seed int64
	rng  *rand.Rand
}

// NewGenerator creates a generator. A zero seed uses DefaultSeed.
func NewGenerator(seed int64) *Generator {
	if seed == 0 {
		seed = DefaultSeed
	}
	return &Generator{
		seed: seed,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// Seed returns the generator's seed.
func (g *Generator) Seed() int64 {
	return g.seed
}

// Generate returns the input for case c targeting algorithm alg.
func (g *Generator) Generate(c Case, alg sorting.Algorithm, n int) []int {
	switch c {
	case Best:
		return g.BestCase(n, alg)
	case Average:
		return g.AverageCase(n)
	case Worst:
		return g.WorstCase(n, alg)
	default:
		return g.AverageCase(n)
	}
}

// BestCase returns an ascending sequence for selection and tree sort, and
// values in a narrow range for counting sort.
func (g *Generator) BestCase(n int, alg sorting.Algorithm) []int {
	xs := alloc(n)
	for i := range xs {
		if alg == sorting.Counting {
			xs[i] = i % BestCountingModulus
		} else {
			xs[i] = i
		}
	}
	return xs
}

// AverageCase returns uniform values in [0, AverageMax). The source is reseeded
// on every call, so equal n always yields an equal sequence.
func (g *Generator) AverageCase(n int) []int {
	rng := rand.New(rand.NewSource(g.seed))
	xs := alloc(n)
	for i := range xs {
		xs[i] = rng.Intn(AverageMax)
	}
	return xs
}

// WorstCase returns a descending sequence for selection sort, an ascending one
// for tree sort (a balanced tree has no worse order) and a wide random range
// for counting sort.
func (g *Generator) WorstCase(n int, alg sorting.Algorithm) []int {
	xs := alloc(n)
	for i := range xs {
		switch alg {
		case sorting.Selection:
			xs[i] = n - i - 1
		case sorting.Counting:
			xs[i] = WorstCountingBase + g.rng.Intn(WorstCountingSpan)
		default:
			xs[i] = i
		}
	}
	return xs
}

// Random returns n values drawn uniformly from [lo, hi].
func (g *Generator) Random(n, lo, hi int) []int {
	if hi < lo {
		lo, hi = hi, lo
	}
	xs := alloc(n)
	span := hi - lo + 1
	for i := range xs {
		xs[i] = lo + g.rng.Intn(span)
	}
	return xs
}

func alloc(n int) []int {
	return make([]int, max(n, 0))
}
