package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMergesContractFile(t *testing.T) {
	cfg, err := Load("testdata/valuation.yaml")
	require.NoError(t, err)

	// Base terms come from the contract file.
	assert.Equal(t, "base", cfg.Contract.Name)
	assert.Equal(t, 1000.0, cfg.Contract.Capacity)
	assert.Equal(t, 100.0, cfg.Contract.MaxInjectionRate)
	// The top-level config overrides the injection cost.
	assert.Equal(t, 0.02, cfg.Contract.InjectionCost)
	// Untouched fields survive the merge.
	assert.Equal(t, 0.01, cfg.Contract.WithdrawalCost)

	require.NotNil(t, cfg.Simulation.RandomSeed)
	assert.Equal(t, int64(42), *cfg.Simulation.RandomSeed)
	assert.Equal(t, 500, cfg.Simulation.NumPaths)
	assert.Equal(t, "optimal", cfg.Policy.Name)
}

func TestLoadRejectsInvalidContract(t *testing.T) {
	_, err := Load("testdata/bad_contract.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "contract config invalid")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("testdata/nope.yaml")
	require.Error(t, err)
}

func TestApplyDefaults(t *testing.T) {
	c := &Config{}
	c.ApplyDefaults()
	assert.Equal(t, "optimal", c.Policy.Name)
	assert.Equal(t, 0.95, c.Simulation.ConfidenceLevel)
}

func TestMergeContract(t *testing.T) {
	base := ContractConfig{Name: "a", Capacity: 100, MaxInjectionRate: 10, WithdrawalCost: 0.5}
	override := ContractConfig{Capacity: 200, InjectionCost: 0.1}

	out := MergeContract(base, override)
	assert.Equal(t, "a", out.Name)
	assert.Equal(t, 200.0, out.Capacity)
	assert.Equal(t, 10.0, out.MaxInjectionRate)
	assert.Equal(t, 0.1, out.InjectionCost)
	assert.Equal(t, 0.5, out.WithdrawalCost)
}

func TestToModelRoundTrip(t *testing.T) {
	cc := ContractConfig{
		Capacity:                1000,
		MaxInjectionRate:        100,
		MaxWithdrawalRate:       100,
		InjectionCost:           0.01,
		WithdrawalCost:          0.01,
		StorageCostPerUnit:      0.001,
		InitialInventory:        50,
		TerminalInventoryTarget: 50,
	}
	m := cc.ToModel()
	assert.Equal(t, cc.Capacity, m.Capacity)
	assert.Equal(t, cc.StorageCostPerUnit, m.StorageCostPerUnit)
	assert.Equal(t, cc.TerminalInventoryTarget, m.TerminalInventoryTarget)
	require.NoError(t, m.Validate())
}
