package model

import "fmt"

// ConfigurationError reports an invalid contract or simulation parameter.
// It is always surfaced to the caller before any simulation work starts.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// InfeasibleContractError reports that a contract cannot be optimized at all:
// the initial inventory exceeds capacity or the inventory grid cannot
// represent it exactly. Unreachable terminal targets are NOT infeasible; they
// produce a penalized result instead.
type InfeasibleContractError struct {
	Reason string
}

func (e *InfeasibleContractError) Error() string {
	return "infeasible contract: " + e.Reason
}

// ValuationError reports that an aggregate run produced no meaningful result,
// e.g. every path was infeasible or fewer than two valid path values remain.
type ValuationError struct {
	Reason string
}

func (e *ValuationError) Error() string {
	return "valuation failed: " + e.Reason
}
