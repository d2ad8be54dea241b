package model

// SimulationConfig drives both the price-process simulation and the
// aggregation of per-path values.
type SimulationConfig struct {
	NumPaths     int
	HorizonSteps int

	// RandomSeed, when set, makes the whole run reproducible: each path draws
	// from a substream derived from the seed and the path index. Nil means a
	// fresh seed per run.
	RandomSeed *int64

	// Mean-reverting process parameters (per step).
	Volatility        float64
	MeanReversionRate float64
	LongRunPrice      float64

	// AnchorPrice is the first observed price the simulation starts from.
	// Zero means start at LongRunPrice.
	AnchorPrice float64

	// DiscountRate is the per-step rate; the per-step discount factor is
	// 1/(1+DiscountRate).
	DiscountRate float64

	ConfidenceLevel float64
}

func (c SimulationConfig) Validate() error {
	if c.NumPaths <= 0 {
		return &ConfigurationError{Field: "num_paths", Reason: "must be > 0"}
	}
	if c.HorizonSteps <= 0 {
		return &ConfigurationError{Field: "horizon_steps", Reason: "must be > 0"}
	}
	if c.Volatility < 0 {
		return &ConfigurationError{Field: "volatility", Reason: "must be >= 0"}
	}
	if c.MeanReversionRate < 0 {
		return &ConfigurationError{Field: "mean_reversion_rate", Reason: "must be >= 0"}
	}
	if c.LongRunPrice <= 0 {
		return &ConfigurationError{Field: "long_run_price", Reason: "must be > 0"}
	}
	if c.AnchorPrice < 0 {
		return &ConfigurationError{Field: "anchor_price", Reason: "must be >= 0"}
	}
	if c.DiscountRate < 0 {
		return &ConfigurationError{Field: "discount_rate", Reason: "must be >= 0"}
	}
	if c.ConfidenceLevel <= 0 || c.ConfidenceLevel >= 1 {
		return &ConfigurationError{Field: "confidence_level", Reason: "must be in (0, 1)"}
	}
	return nil
}

// DiscountFactor returns the per-step discount factor.
func (c SimulationConfig) DiscountFactor() float64 {
	return 1.0 / (1.0 + c.DiscountRate)
}

// Anchor returns the starting price for simulated paths.
func (c SimulationConfig) Anchor() float64 {
	if c.AnchorPrice > 0 {
		return c.AnchorPrice
	}
	return c.LongRunPrice
}
