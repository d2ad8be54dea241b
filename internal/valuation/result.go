package valuation

import "storage-valuation/internal/risk"

// Result is the aggregate output of a valuation run and the only artifact
// handed to reporting layers. It holds no references back into per-path data.
type Result struct {
	risk.Metrics

	// NumPaths is the number of path values actually aggregated. On a
	// cancelled (partial) run this is lower than the configured path count.
	NumPaths        int     `json:"num_paths"`
	ConfidenceLevel float64 `json:"confidence_level"`

	Policy string `json:"policy"`
	Seed   int64  `json:"seed"`

	// InfeasiblePaths counts paths skipped because their optimization failed;
	// PenalizedPaths counts paths that missed the terminal inventory target.
	InfeasiblePaths int `json:"infeasible_paths"`
	PenalizedPaths  int `json:"penalized_paths"`

	// Partial is set when the run was cancelled and the result covers only
	// the paths that had completed.
	Partial bool `json:"partial"`

	Summary risk.Summary `json:"summary"`

	// Distribution is the sorted path values, populated only when the engine
	// is asked to keep them (for histogram/CSV export).
	Distribution []float64 `json:"distribution,omitempty"`
}
