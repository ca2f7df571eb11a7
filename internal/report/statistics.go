package report

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// EvalStats describes the distribution of evaluation values.
type EvalStats struct {
	Count  int
	Mean   float64
	Median float64
	StdDev float64
	Min    float64
	Max    float64
}

// DescribeEvals computes descriptive statistics for a set of pawn
// evaluations.
func DescribeEvals(evals []float64) EvalStats {
	if len(evals) == 0 {
		return EvalStats{}
	}

	sorted := make([]float64, len(evals))
	copy(sorted, evals)
	sort.Float64s(sorted)

	s := EvalStats{
		Count:  len(sorted),
		Mean:   stat.Mean(sorted, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
	}
	if len(sorted) > 1 {
		s.StdDev = stat.StdDev(sorted, nil)
	}
	return s
}

// RowEvals extracts the rank-1 pawn evaluations from report rows,
// skipping placeholders and mate scores.
func RowEvals(rows []Row) []float64 {
	var evals []float64
	for _, row := range rows {
		for _, c := range row.Lines {
			if c.Rank != 1 {
				continue
			}
			if v, ok := ScoreValue(c.Score); ok {
				evals = append(evals, v)
			}
			break
		}
	}
	return evals
}
