package recorder

// Noop discards everything. Used when no database path is configured.
type Noop struct{}

func (Noop) RecordRun(RunRecord) error { return nil }
func (Noop) Close() error              { return nil }
