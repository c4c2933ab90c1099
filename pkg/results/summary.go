package results

import "slices"

// ColumnSummary holds the five-number summary and mean of one timing column,
// the statistics a boxplot draws.
type ColumnSummary struct {
	Label  string
	Count  int
	Min    float64
	Q1     float64
	Median float64
	Q3     float64
	Max    float64
	Mean   float64
}

// Summarize computes a ColumnSummary for every timing column of t. Columns
// without values are reported with Count 0 and zero statistics.
func Summarize(t *Table) []ColumnSummary {
	out := make([]ColumnSummary, len(t.Columns))
	for i, col := range t.Columns {
		out[i] = summarizeColumn(t.Labels[i+1], col)
	}
	return out
}

func summarizeColumn(label string, values []float64) ColumnSummary {
	s := ColumnSummary{Label: label, Count: len(values)}
	if len(values) == 0 {
		return s
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}

	s.Min = sorted[0]
	s.Max = sorted[len(sorted)-1]
	s.Q1 = quantile(sorted, 0.25)
	s.Median = quantile(sorted, 0.5)
	s.Q3 = quantile(sorted, 0.75)
	s.Mean = sum / float64(len(sorted))
	return s
}

// quantile interpolates linearly between the closest ranks of sorted.
func quantile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(pos)
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
