package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"storage-valuation/internal/model"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	// Optional: load contract terms from a separate YAML (e.g.
	// examples/contracts/*.yaml). If both ContractFile and Contract are
	// provided, Contract fields override the file.
	ContractFile string           `yaml:"contract_file" json:"contract_file"`
	Contract     ContractConfig   `yaml:"contract" json:"contract"`
	Simulation   SimulationConfig `yaml:"simulation" json:"simulation"`
	Policy       PolicyConfig     `yaml:"policy" json:"policy"`
}

type ContractConfig struct {
	Name                    string  `yaml:"name" json:"name"`
	Capacity                float64 `yaml:"capacity" json:"capacity"`
	MaxInjectionRate        float64 `yaml:"max_injection_rate" json:"max_injection_rate"`
	MaxWithdrawalRate       float64 `yaml:"max_withdrawal_rate" json:"max_withdrawal_rate"`
	InjectionCost           float64 `yaml:"injection_cost" json:"injection_cost"`
	WithdrawalCost          float64 `yaml:"withdrawal_cost" json:"withdrawal_cost"`
	StorageCostPerUnit      float64 `yaml:"storage_cost_per_unit" json:"storage_cost_per_unit"`
	InitialInventory        float64 `yaml:"initial_inventory" json:"initial_inventory"`
	TerminalInventoryTarget float64 `yaml:"terminal_inventory_target" json:"terminal_inventory_target"`
}

type SimulationConfig struct {
	NumPaths          int     `yaml:"num_paths" json:"num_paths"`
	HorizonSteps      int     `yaml:"horizon_steps" json:"horizon_steps"`
	RandomSeed        *int64  `yaml:"random_seed" json:"random_seed"`
	Volatility        float64 `yaml:"volatility" json:"volatility"`
	MeanReversionRate float64 `yaml:"mean_reversion_rate" json:"mean_reversion_rate"`
	LongRunPrice      float64 `yaml:"long_run_price" json:"long_run_price"`
	AnchorPrice       float64 `yaml:"anchor_price" json:"anchor_price"`
	DiscountRate      float64 `yaml:"discount_rate" json:"discount_rate"`
	ConfidenceLevel   float64 `yaml:"confidence_level" json:"confidence_level"`
}

type PolicyConfig struct {
	Name   string         `yaml:"name" json:"name"`
	Params map[string]any `yaml:"params" json:"params"`
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	// If contract_file is set, load it and merge any explicit overrides on top.
	if c.ContractFile != "" {
		contractPath := c.ContractFile
		if !filepath.IsAbs(contractPath) {
			// Prefer paths relative to the config file directory, falling
			// back to the path as given (relative to cwd).
			cand := filepath.Join(filepath.Dir(path), contractPath)
			if _, err := os.Stat(cand); err == nil {
				contractPath = cand
			}
		}
		loaded, err := loadContractFile(contractPath)
		if err != nil {
			return nil, err
		}
		c.Contract = MergeContract(loaded, c.Contract)
	}
	return &c, nil
}

// ApplyDefaults fills the fields that have sensible defaults when omitted.
func (c *Config) ApplyDefaults() {
	if c.Policy.Name == "" {
		c.Policy.Name = "optimal"
	}
	if c.Simulation.ConfidenceLevel == 0 {
		c.Simulation.ConfidenceLevel = 0.95
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Policy.Name == "" {
		return errors.New("policy.name is required")
	}
	// Validate by constructing the model types.
	if _, err := model.NewStorageContract(c.Contract.ToModel()); err != nil {
		return fmt.Errorf("contract config invalid: %w", err)
	}
	if err := c.Simulation.ToModel().Validate(); err != nil {
		return fmt.Errorf("simulation config invalid: %w", err)
	}
	return nil
}

func (cc ContractConfig) ToModel() model.StorageContract {
	return model.StorageContract{
		Capacity:                cc.Capacity,
		MaxInjectionRate:        cc.MaxInjectionRate,
		MaxWithdrawalRate:       cc.MaxWithdrawalRate,
		InjectionCost:           cc.InjectionCost,
		WithdrawalCost:          cc.WithdrawalCost,
		StorageCostPerUnit:      cc.StorageCostPerUnit,
		InitialInventory:        cc.InitialInventory,
		TerminalInventoryTarget: cc.TerminalInventoryTarget,
	}
}

func (sc SimulationConfig) ToModel() model.SimulationConfig {
	return model.SimulationConfig{
		NumPaths:          sc.NumPaths,
		HorizonSteps:      sc.HorizonSteps,
		RandomSeed:        sc.RandomSeed,
		Volatility:        sc.Volatility,
		MeanReversionRate: sc.MeanReversionRate,
		LongRunPrice:      sc.LongRunPrice,
		AnchorPrice:       sc.AnchorPrice,
		DiscountRate:      sc.DiscountRate,
		ConfidenceLevel:   sc.ConfidenceLevel,
	}
}

type contractFileWrapper struct {
	Contract ContractConfig `yaml:"contract"`
}

func loadContractFile(path string) (ContractConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return ContractConfig{}, err
	}
	var w contractFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return ContractConfig{}, err
	}
	return w.Contract, nil
}

// MergeContract overlays non-zero fields from override onto base. Used when
// a contract file provides the base terms and the request tweaks a few.
func MergeContract(base, override ContractConfig) ContractConfig {
	out := base
	if override.Name != "" {
		out.Name = override.Name
	}
	if override.Capacity != 0 {
		out.Capacity = override.Capacity
	}
	if override.MaxInjectionRate != 0 {
		out.MaxInjectionRate = override.MaxInjectionRate
	}
	if override.MaxWithdrawalRate != 0 {
		out.MaxWithdrawalRate = override.MaxWithdrawalRate
	}
	if override.InjectionCost != 0 {
		out.InjectionCost = override.InjectionCost
	}
	if override.WithdrawalCost != 0 {
		out.WithdrawalCost = override.WithdrawalCost
	}
	if override.StorageCostPerUnit != 0 {
		out.StorageCostPerUnit = override.StorageCostPerUnit
	}
	if override.InitialInventory != 0 {
		out.InitialInventory = override.InitialInventory
	}
	if override.TerminalInventoryTarget != 0 {
		out.TerminalInventoryTarget = override.TerminalInventoryTarget
	}
	return out
}
