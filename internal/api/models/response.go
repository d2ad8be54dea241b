package models

import "storage-valuation/internal/valuation"

// ValuationResponse wraps a valuation result.
type ValuationResponse struct {
	ContractName string            `json:"contract_name,omitempty"`
	Result       *valuation.Result `json:"result"`
	ElapsedMS    int64             `json:"elapsed_ms"`
}

// ComparisonResult is one variation's outcome in a compare run.
type ComparisonResult struct {
	Name   string            `json:"name"`
	Result *valuation.Result `json:"result,omitempty"`
	Error  string            `json:"error,omitempty"`
}

type CompareValuationResponse struct {
	Comparison []ComparisonResult `json:"comparison"`
}

// PolicyInfo describes a selectable policy.
type PolicyInfo struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  []ParameterInfo `json:"parameters,omitempty"`
}

type ParameterInfo struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Default     any    `json:"default"`
}

// ContractInfo describes a contract file available on the server.
type ContractInfo struct {
	File     string  `json:"file"`
	Name     string  `json:"name"`
	Capacity float64 `json:"capacity"`
}

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}
