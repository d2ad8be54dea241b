package model

// PricePath is one simulated price per time step over the contract horizon.
// Paths are created fresh per simulation run and never mutated afterwards.
type PricePath []float64

func (p PricePath) Len() int { return len(p) }

// PathOutcome tags how a path's optimization ended.
type PathOutcome string

const (
	// OutcomeFeasible means the policy satisfied all contract constraints.
	OutcomeFeasible PathOutcome = "FEASIBLE"
	// OutcomePenalized means the terminal inventory target could not be met
	// on this path; the returned plan ends as close to the target as the
	// penalty pushed it.
	OutcomePenalized PathOutcome = "PENALIZED"
)

// StepRecord is one row of per-step output: what the policy did and what it
// earned at a single time step.
type StepRecord struct {
	Index int

	Price float64

	Action   Action
	Quantity float64

	InventoryStart float64
	InventoryEnd   float64

	// CashFlow is the undiscounted cash flow for the step.
	CashFlow float64
	// DiscountedCashFlow is CashFlow brought back to t=0.
	DiscountedCashFlow float64
	// CumValue is the running sum of discounted cash flows.
	CumValue float64
}

// PathResult is the per-path output of a policy: the dispatch ledger, the
// path's net present value and the feasibility tag. Results only live for the
// duration of one valuation run; the engine drops the ledger after
// aggregation unless asked to keep it.
type PathResult struct {
	PathIndex int
	Steps     []StepRecord
	Value     float64
	Outcome   PathOutcome
}
