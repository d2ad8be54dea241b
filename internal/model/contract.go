package model

// StorageContract defines the physical and economic terms of a storage asset.
// Units:
// - Capacity, rates, inventory: commodity units
// - Costs: $ per unit moved
// - StorageCostPerUnit: $ per unit held, charged each time step
type StorageContract struct {
	Capacity           float64
	MaxInjectionRate   float64
	MaxWithdrawalRate  float64
	InjectionCost      float64
	WithdrawalCost     float64
	StorageCostPerUnit float64
	InitialInventory   float64

	// TerminalInventoryTarget is the required ending inventory.
	// Zero means unconstrained.
	TerminalInventoryTarget float64
}

// NewStorageContract validates and returns a contract.
func NewStorageContract(c StorageContract) (StorageContract, error) {
	if err := c.Validate(); err != nil {
		return StorageContract{}, err
	}
	return c, nil
}

func (c StorageContract) Validate() error {
	if c.Capacity <= 0 {
		return &ConfigurationError{Field: "capacity", Reason: "must be > 0"}
	}
	if c.MaxInjectionRate < 0 || c.MaxInjectionRate > c.Capacity {
		return &ConfigurationError{Field: "max_injection_rate", Reason: "must be in [0, capacity]"}
	}
	if c.MaxWithdrawalRate < 0 || c.MaxWithdrawalRate > c.Capacity {
		return &ConfigurationError{Field: "max_withdrawal_rate", Reason: "must be in [0, capacity]"}
	}
	if c.InjectionCost < 0 {
		return &ConfigurationError{Field: "injection_cost", Reason: "must be >= 0"}
	}
	if c.WithdrawalCost < 0 {
		return &ConfigurationError{Field: "withdrawal_cost", Reason: "must be >= 0"}
	}
	if c.StorageCostPerUnit < 0 {
		return &ConfigurationError{Field: "storage_cost_per_unit", Reason: "must be >= 0"}
	}
	if c.InitialInventory < 0 || c.InitialInventory > c.Capacity {
		return &ConfigurationError{Field: "initial_inventory", Reason: "must be in [0, capacity]"}
	}
	if c.TerminalInventoryTarget < 0 || c.TerminalInventoryTarget > c.Capacity {
		return &ConfigurationError{Field: "terminal_inventory_target", Reason: "must be in [0, capacity]"}
	}
	return nil
}

// HasTerminalTarget reports whether the contract constrains ending inventory.
func (c StorageContract) HasTerminalTarget() bool {
	return c.TerminalInventoryTarget > 0
}
