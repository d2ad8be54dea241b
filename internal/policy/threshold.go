package policy

import (
	"math"
	"sort"

	"storage-valuation/internal/model"
)

// ThresholdPolicy is the classic intrinsic heuristic: inject at full rate
// when the price is below the path median, withdraw at full rate when above.
// It ignores the terminal target while operating, so its value is a lower
// bound on what the optimizer finds for the same path.
type ThresholdPolicy struct {
	// DiscountRate is the per-step rate used to present-value cash flows.
	DiscountRate float64
}

func (p *ThresholdPolicy) Name() string { return "threshold" }

func (p *ThresholdPolicy) Evaluate(path model.PricePath, contract model.StorageContract) (*model.PathResult, error) {
	if len(path) == 0 {
		return nil, &model.ConfigurationError{Field: "path", Reason: "must have at least one step"}
	}
	if contract.InitialInventory > contract.Capacity {
		return nil, &model.InfeasibleContractError{Reason: "initial inventory exceeds capacity"}
	}

	median := pathMedian(path)
	df := 1.0 / (1.0 + p.DiscountRate)

	steps := make([]model.StepRecord, len(path))
	inv := contract.InitialInventory
	dfPow := 1.0
	cum := 0.0

	for t, price := range path {
		invStart := inv
		delta := 0.0
		switch {
		case price < median && inv < contract.Capacity:
			delta = math.Min(contract.MaxInjectionRate, contract.Capacity-inv)
		case price > median && inv > 0:
			delta = -math.Min(contract.MaxWithdrawalRate, inv)
		}
		inv += delta

		cf := -contract.StorageCostPerUnit * inv
		if delta > 0 {
			cf -= (price + contract.InjectionCost) * delta
		} else if delta < 0 {
			cf += (price - contract.WithdrawalCost) * (-delta)
		}
		dcf := cf * dfPow
		cum += dcf

		steps[t] = model.StepRecord{
			Index:              t,
			Price:              price,
			Action:             model.ActionFromQuantity(delta),
			Quantity:           math.Abs(delta),
			InventoryStart:     invStart,
			InventoryEnd:       inv,
			CashFlow:           cf,
			DiscountedCashFlow: dcf,
			CumValue:           cum,
		}
		dfPow *= df
	}

	outcome := model.OutcomeFeasible
	if contract.HasTerminalTarget() && math.Abs(inv-contract.TerminalInventoryTarget) > 1e-9*contract.Capacity {
		outcome = model.OutcomePenalized
	}

	return &model.PathResult{
		Steps:   steps,
		Value:   cum,
		Outcome: outcome,
	}, nil
}

func pathMedian(path model.PricePath) float64 {
	sorted := make([]float64, len(path))
	copy(sorted, path)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
