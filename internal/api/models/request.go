package models

import "storage-valuation/internal/config"

// ValuationRequest is the body of POST /api/v1/valuation.
type ValuationRequest struct {
	// ContractFile names a contract under the server's contract directory
	// (without extension); explicit Contract fields override it.
	ContractFile string                  `json:"contract_file"`
	Contract     config.ContractConfig   `json:"contract"`
	Simulation   config.SimulationConfig `json:"simulation"`
	Policy       config.PolicyConfig     `json:"policy"`
	Options      ValuationOptions        `json:"options"`
}

type ValuationOptions struct {
	// IncludeDistribution returns the sorted path values for histograms.
	IncludeDistribution bool `json:"include_distribution"`
	// Workers caps the parallel path workers (0 = one per CPU).
	Workers int `json:"workers"`
}

// CompareValuationRequest values several contract/policy variations against
// the same simulation config.
type CompareValuationRequest struct {
	Base       ValuationRequest     `json:"base"`
	Variations []ValuationVariation `json:"variations"`
}

type ValuationVariation struct {
	Name     string                `json:"name"`
	Contract config.ContractConfig `json:"contract"`
	Policy   config.PolicyConfig   `json:"policy"`
}
