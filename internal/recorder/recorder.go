package recorder

import "storage-valuation/internal/valuation"

// RunRecord is one persisted valuation run summary.
type RunRecord struct {
	ContractName string
	Result       *valuation.Result
	ElapsedMS    int64
}

// Recorder persists valuation run history. Implementations must be safe for
// concurrent use; the API server records from request goroutines.
type Recorder interface {
	RecordRun(rec RunRecord) error
	Close() error
}
