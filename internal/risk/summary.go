package risk

import "sort"

// Summary is a coarse shape description of the payoff distribution, used by
// the reporting layer next to the risk metrics.
type Summary struct {
	Count int     `json:"count"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Mean  float64 `json:"mean"`
	P05   float64 `json:"p05"`
	P95   float64 `json:"p95"`
}

func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return Summary{
		Count: len(sorted),
		Min:   sorted[0],
		Max:   sorted[len(sorted)-1],
		Mean:  meanOf(sorted),
		P05:   Quantile(sorted, 0.05),
		P95:   Quantile(sorted, 0.95),
	}
}
