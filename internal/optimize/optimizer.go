package optimize

import (
	"math"

	"storage-valuation/internal/model"
)

const (
	negInf = -1e100

	// terminalPenaltyPerUnit prices each unit of deviation from the terminal
	// inventory target. Proportional (rather than flat) so the plan still
	// ends as close to an unreachable target as it can.
	terminalPenaltyPerUnit = 1e6

	// gridTolerance is the relative slack allowed when snapping the initial
	// inventory onto the grid.
	gridTolerance = 1e-9
)

// Params tunes the dynamic program.
type Params struct {
	// GridSteps controls inventory discretization between 0 and capacity.
	// Higher = more accurate, slower.
	GridSteps int

	// DiscountRate is the per-step rate; cash at step t is worth
	// (1/(1+rate))^t today.
	DiscountRate float64
}

// Optimizer computes, for one price path, the injection/withdrawal plan that
// maximizes total discounted cash flow under the contract's capacity and
// rate limits, by backward induction over a discretized inventory grid.
type Optimizer struct {
	params Params
}

func New(params Params) *Optimizer {
	if params.GridSteps <= 0 {
		params.GridSteps = 100
	}
	if params.GridSteps < 2 {
		params.GridSteps = 2
	}
	return &Optimizer{params: params}
}

func (o *Optimizer) Name() string { return "optimal" }

// Evaluate runs the DP for one path and replays the arg-max choices forward
// into a dispatch ledger. The returned Value is the sum of discounted cash
// flows along the replayed plan; the terminal penalty steers the plan but is
// never part of the reported value. A missed target is reported through the
// PENALIZED outcome instead.
func (o *Optimizer) Evaluate(path model.PricePath, contract model.StorageContract) (*model.PathResult, error) {
	if len(path) == 0 {
		return nil, &model.ConfigurationError{Field: "path", Reason: "must have at least one step"}
	}
	if contract.InitialInventory > contract.Capacity {
		return nil, &model.InfeasibleContractError{Reason: "initial inventory exceeds capacity"}
	}

	gridSteps := o.params.GridSteps
	nLevels := gridSteps + 1
	step := contract.Capacity / float64(gridSteps)

	levelInv := func(idx int) float64 {
		if idx <= 0 {
			return 0
		}
		if idx >= gridSteps {
			return contract.Capacity
		}
		return float64(idx) * step
	}

	initIdx, ok := snapToGrid(contract.InitialInventory, step, gridSteps, contract.Capacity)
	if !ok {
		return nil, &model.InfeasibleContractError{Reason: "initial inventory does not lie on the inventory grid"}
	}

	// Rate limits expressed in grid levels per step. Rates below one grid
	// step cannot move inventory at this resolution.
	maxUp := int(math.Floor(contract.MaxInjectionRate/step + gridTolerance))
	maxDown := int(math.Floor(contract.MaxWithdrawalRate/step + gridTolerance))

	df := 1.0 / (1.0 + o.params.DiscountRate)
	horizon := len(path)

	// value[i] holds the continuation value at the step currently being
	// filled; next[i] the one after it. Swapped each iteration, as in any
	// rolling-array DP.
	value := make([]float64, nLevels)
	next := make([]float64, nLevels)

	// Terminal boundary: zero everywhere, or a penalty proportional to the
	// deviation from the target. A penalty, not an exclusion, so every level
	// stays reachable and an infeasible target still yields a plan.
	for i := 0; i < nLevels; i++ {
		if contract.HasTerminalTarget() {
			next[i] = -terminalPenaltyPerUnit * math.Abs(levelInv(i)-contract.TerminalInventoryTarget)
		} else {
			next[i] = 0
		}
	}

	// choice[t][i] is the arg-max next level from (t, i).
	choice := make([][]int32, horizon)
	for t := range choice {
		choice[t] = make([]int32, nLevels)
	}

	for t := horizon - 1; t >= 0; t-- {
		price := path[t]
		for i := 0; i < nLevels; i++ {
			// Hold first: ties between holding and moving resolve to hold,
			// so numerically equal alternatives never churn inventory.
			best := stepCashFlow(price, levelInv(i), levelInv(i), contract) + df*next[i]
			bestNext := i

			lo := i - maxDown
			if lo < 0 {
				lo = 0
			}
			hi := i + maxUp
			if hi > gridSteps {
				hi = gridSteps
			}
			for j := lo; j <= hi; j++ {
				if j == i {
					continue
				}
				v := stepCashFlow(price, levelInv(i), levelInv(j), contract) + df*next[j]
				if v > best {
					best = v
					bestNext = j
				}
			}
			value[i] = best
			choice[t][i] = int32(bestNext)
		}
		value, next = next, value
	}

	// Forward replay of the recorded choices from the initial level.
	steps := make([]model.StepRecord, horizon)
	cur := initIdx
	dfPow := 1.0
	cum := 0.0
	for t := 0; t < horizon; t++ {
		ns := int(choice[t][cur])
		invStart := levelInv(cur)
		invEnd := levelInv(ns)
		cf := stepCashFlow(path[t], invStart, invEnd, contract)
		dcf := cf * dfPow
		cum += dcf

		steps[t] = model.StepRecord{
			Index:              t,
			Price:              path[t],
			Action:             model.ActionFromQuantity(invEnd - invStart),
			Quantity:           math.Abs(invEnd - invStart),
			InventoryStart:     invStart,
			InventoryEnd:       invEnd,
			CashFlow:           cf,
			DiscountedCashFlow: dcf,
			CumValue:           cum,
		}
		cur = ns
		dfPow *= df
	}

	outcome := model.OutcomeFeasible
	if contract.HasTerminalTarget() {
		if math.Abs(levelInv(cur)-contract.TerminalInventoryTarget) > gridTolerance*contract.Capacity+step/2 {
			outcome = model.OutcomePenalized
		}
	}

	return &model.PathResult{
		Steps:   steps,
		Value:   cum,
		Outcome: outcome,
	}, nil
}

// stepCashFlow is the immediate cash flow of moving from invStart to invEnd
// at the given price: injection pays price plus the injection fee, withdrawal
// earns price minus the withdrawal fee, and inventory held at the end of the
// step accrues the holding cost.
func stepCashFlow(price, invStart, invEnd float64, c model.StorageContract) float64 {
	cf := -c.StorageCostPerUnit * invEnd
	delta := invEnd - invStart
	switch {
	case delta > 0:
		cf -= (price + c.InjectionCost) * delta
	case delta < 0:
		cf += (price - c.WithdrawalCost) * (-delta)
	}
	return cf
}

// snapToGrid maps an inventory quantity to its grid index, refusing
// quantities that do not land on a grid node.
func snapToGrid(inv, step float64, gridSteps int, capacity float64) (int, bool) {
	f := inv / step
	idx := int(math.Round(f))
	if idx < 0 || idx > gridSteps {
		return 0, false
	}
	if math.Abs(f-math.Round(f))*step > gridTolerance*capacity {
		return 0, false
	}
	return idx, true
}
