package optimize

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storage-valuation/internal/model"
)

func TestSimpleArbitrage(t *testing.T) {
	// Buy the full capacity at 1, sell it at 10: value = 10*10 - 10*1 = 90.
	contract := model.StorageContract{
		Capacity:          10,
		MaxInjectionRate:  10,
		MaxWithdrawalRate: 10,
	}
	opt := New(Params{GridSteps: 10})

	res, err := opt.Evaluate(model.PricePath{1, 10}, contract)
	require.NoError(t, err)

	assert.Equal(t, model.OutcomeFeasible, res.Outcome)
	assert.InDelta(t, 90.0, res.Value, 1e-9)
	assert.Equal(t, model.ActionInject, res.Steps[0].Action)
	assert.Equal(t, model.ActionWithdraw, res.Steps[1].Action)
	assert.InDelta(t, 10.0, res.Steps[0].Quantity, 1e-9)
	assert.InDelta(t, 0.0, res.Steps[1].InventoryEnd, 1e-9)
}

func TestCostsReduceValue(t *testing.T) {
	contract := model.StorageContract{
		Capacity:          10,
		MaxInjectionRate:  10,
		MaxWithdrawalRate: 10,
		InjectionCost:     0.5,
		WithdrawalCost:    0.5,
	}
	opt := New(Params{GridSteps: 10})

	res, err := opt.Evaluate(model.PricePath{1, 10}, contract)
	require.NoError(t, err)
	// Same trade, minus 1.0 of round-trip fees per unit.
	assert.InDelta(t, 80.0, res.Value, 1e-9)
}

func TestHoldPreferredOnTies(t *testing.T) {
	// Constant prices and zero costs: every round trip nets exactly zero,
	// numerically tied with doing nothing. The plan must not churn.
	contract := model.StorageContract{
		Capacity:          10,
		MaxInjectionRate:  10,
		MaxWithdrawalRate: 10,
	}
	opt := New(Params{GridSteps: 10})

	res, err := opt.Evaluate(model.PricePath{5, 5, 5, 5}, contract)
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Value)
	for _, s := range res.Steps {
		assert.Equal(t, model.ActionHold, s.Action, "step %d", s.Index)
	}
}

func TestDegenerateRatesValueZero(t *testing.T) {
	contract := model.StorageContract{
		Capacity:          10,
		MaxInjectionRate:  0,
		MaxWithdrawalRate: 0,
	}
	opt := New(Params{GridSteps: 10})

	res, err := opt.Evaluate(model.PricePath{1, 10, 2, 8}, contract)
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Value)
	for _, s := range res.Steps {
		assert.Equal(t, model.ActionHold, s.Action)
	}
}

func TestDiscountingAppliesPerStep(t *testing.T) {
	// One unit bought at t=0, sold at t=1. With rate r the sale is worth
	// 10/(1+r) today.
	contract := model.StorageContract{
		Capacity:          1,
		MaxInjectionRate:  1,
		MaxWithdrawalRate: 1,
	}
	opt := New(Params{GridSteps: 2, DiscountRate: 0.1})

	res, err := opt.Evaluate(model.PricePath{1, 10}, contract)
	require.NoError(t, err)
	assert.InDelta(t, -1.0+10.0/1.1, res.Value, 1e-9)
}

func TestTerminalTargetReached(t *testing.T) {
	// Rate 1, three steps, target 2: the penalty forces two injections even
	// though buying without reselling loses money.
	contract := model.StorageContract{
		Capacity:                10,
		MaxInjectionRate:        1,
		MaxWithdrawalRate:       1,
		TerminalInventoryTarget: 2,
	}
	opt := New(Params{GridSteps: 10})

	res, err := opt.Evaluate(model.PricePath{3, 4, 5}, contract)
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeFeasible, res.Outcome)
	assert.InDelta(t, 2.0, res.Steps[len(res.Steps)-1].InventoryEnd, 1e-9)
	// Cheapest two of the three steps get the injections.
	assert.Equal(t, model.ActionInject, res.Steps[0].Action)
	assert.Equal(t, model.ActionInject, res.Steps[1].Action)
	assert.Equal(t, model.ActionHold, res.Steps[2].Action)
}

func TestUnreachableTargetIsPenalizedNotFatal(t *testing.T) {
	// Two steps at rate 1 cannot reach a target of 10. The plan still comes
	// back, tagged PENALIZED, ending as close to the target as possible.
	contract := model.StorageContract{
		Capacity:                10,
		MaxInjectionRate:        1,
		MaxWithdrawalRate:       1,
		TerminalInventoryTarget: 10,
	}
	opt := New(Params{GridSteps: 10})

	res, err := opt.Evaluate(model.PricePath{3, 4}, contract)
	require.NoError(t, err)
	assert.Equal(t, model.OutcomePenalized, res.Outcome)
	assert.InDelta(t, 2.0, res.Steps[len(res.Steps)-1].InventoryEnd, 1e-9)
	// The reported value is the plan's discounted cash flow, not the penalty.
	assert.InDelta(t, -7.0, res.Value, 1e-9)
}

func TestInfeasibleInitialInventory(t *testing.T) {
	opt := New(Params{GridSteps: 10})

	t.Run("exceeds capacity", func(t *testing.T) {
		contract := model.StorageContract{
			Capacity:          10,
			MaxInjectionRate:  1,
			MaxWithdrawalRate: 1,
			InitialInventory:  11,
		}
		_, err := opt.Evaluate(model.PricePath{1, 2}, contract)
		var infErr *model.InfeasibleContractError
		require.True(t, errors.As(err, &infErr))
	})

	t.Run("off the grid", func(t *testing.T) {
		coarse := New(Params{GridSteps: 3})
		contract := model.StorageContract{
			Capacity:          10,
			MaxInjectionRate:  5,
			MaxWithdrawalRate: 5,
			InitialInventory:  5, // grid nodes are 0, 10/3, 20/3, 10
		}
		_, err := coarse.Evaluate(model.PricePath{1, 2}, contract)
		var infErr *model.InfeasibleContractError
		require.True(t, errors.As(err, &infErr))
	})
}

func TestCapacityMonotonicity(t *testing.T) {
	// Same grid step size, larger capacity: strictly more options, so the
	// value never decreases.
	path := model.PricePath{2, 8, 1, 9, 3, 7, 2, 6}

	small := model.StorageContract{Capacity: 10, MaxInjectionRate: 5, MaxWithdrawalRate: 5}
	large := model.StorageContract{Capacity: 20, MaxInjectionRate: 5, MaxWithdrawalRate: 5}

	vSmall, err := New(Params{GridSteps: 10}).Evaluate(path, small)
	require.NoError(t, err)
	vLarge, err := New(Params{GridSteps: 20}).Evaluate(path, large)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, vLarge.Value, vSmall.Value)
}

func TestCostMonotonicity(t *testing.T) {
	path := model.PricePath{2, 8, 1, 9, 3, 7}
	base := model.StorageContract{Capacity: 10, MaxInjectionRate: 5, MaxWithdrawalRate: 5}

	prev := 0.0
	for i, cost := range []float64{0, 0.5, 1.0, 2.0} {
		c := base
		c.InjectionCost = cost
		c.WithdrawalCost = cost
		res, err := New(Params{GridSteps: 10}).Evaluate(path, c)
		require.NoError(t, err)
		if i > 0 {
			assert.LessOrEqual(t, res.Value, prev, "cost %.1f", cost)
		}
		prev = res.Value
	}
}

func TestHoldingCostCharged(t *testing.T) {
	// Inventory parked for the whole horizon accrues the per-step holding
	// cost; with flat prices nothing else moves.
	contract := model.StorageContract{
		Capacity:           10,
		MaxInjectionRate:   0,
		MaxWithdrawalRate:  0,
		StorageCostPerUnit: 0.1,
		InitialInventory:   10,
	}
	opt := New(Params{GridSteps: 10})

	res, err := opt.Evaluate(model.PricePath{5, 5, 5}, contract)
	require.NoError(t, err)
	assert.InDelta(t, -3.0, res.Value, 1e-9)
}
