package risk

import (
	"math"
	"sort"

	"storage-valuation/internal/model"
)

// Metrics summarizes a payoff distribution.
//
// ValueAtRisk at confidence c is the negative of the (1-c) lower quantile of
// the path values: the loss threshold exceeded with probability 1-c.
// ConditionalValueAtRisk is the negative of the mean of every path value at
// or below that quantile (expected shortfall).
type Metrics struct {
	MeanValue              float64 `json:"mean_value"`
	StdDev                 float64 `json:"std_dev"`
	ValueAtRisk            float64 `json:"value_at_risk"`
	ConditionalValueAtRisk float64 `json:"conditional_value_at_risk"`
}

// Compute derives the metrics from a set of path values. The input order is
// irrelevant; a fixed distribution always produces identical output.
func Compute(values []float64, confidenceLevel float64) (Metrics, error) {
	if confidenceLevel <= 0 || confidenceLevel >= 1 {
		return Metrics{}, &model.ConfigurationError{Field: "confidence_level", Reason: "must be in (0, 1)"}
	}
	if len(values) < 2 {
		return Metrics{}, &model.ConfigurationError{Field: "path values", Reason: "need at least 2 samples for risk metrics"}
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mean := meanOf(sorted)
	variance := 0.0
	for _, v := range sorted {
		d := v - mean
		variance += d * d
	}
	// Sample standard deviation.
	stdDev := math.Sqrt(variance / float64(len(sorted)-1))

	q := Quantile(sorted, 1-confidenceLevel)

	// Tail mean over everything at or below the quantile. The interpolated
	// quantile is never below the minimum, so the tail is never empty.
	tailSum := 0.0
	tailN := 0
	for _, v := range sorted {
		if v <= q {
			tailSum += v
			tailN++
		} else {
			break
		}
	}

	return Metrics{
		MeanValue:              mean,
		StdDev:                 stdDev,
		ValueAtRisk:            -q,
		ConditionalValueAtRisk: -tailSum / float64(tailN),
	}, nil
}

// Quantile returns the p-th quantile (0 <= p <= 1) of an ascending-sorted
// slice, linearly interpolating between order statistics for non-integer
// ranks.
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}
	pos := p * float64(n-1)
	lo := int(math.Floor(pos))
	frac := pos - float64(lo)
	if lo+1 >= n {
		return sorted[n-1]
	}
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

func meanOf(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
