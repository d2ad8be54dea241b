package policy

import "storage-valuation/internal/model"

// Policy turns one price path into a dispatch plan and its value. The DP
// optimizer is the reference implementation; cheaper heuristics implement the
// same interface so the engine can value any of them.
type Policy interface {
	Name() string
	Evaluate(path model.PricePath, contract model.StorageContract) (*model.PathResult, error)
}
