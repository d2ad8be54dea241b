package policy

import (
	"fmt"

	"storage-valuation/internal/optimize"
)

// Build constructs a policy by name. Params come straight from config/request
// maps; unknown keys are ignored, missing keys fall back to defaults.
func Build(name string, params map[string]any, discountRate float64) (Policy, error) {
	switch name {
	case "", "optimal":
		gridSteps := int(numParam(params, "grid_steps", 100))
		return optimize.New(optimize.Params{
			GridSteps:    gridSteps,
			DiscountRate: discountRate,
		}), nil
	case "threshold":
		return &ThresholdPolicy{DiscountRate: discountRate}, nil
	default:
		return nil, fmt.Errorf("unsupported policy: %q", name)
	}
}

func numParam(params map[string]any, key string, def float64) float64 {
	if params == nil {
		return def
	}
	switch v := params[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return def
	}
}
