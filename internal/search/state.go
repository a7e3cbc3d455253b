package search

// EngineState is the lifecycle phase of a search run.
type EngineState int32

const (
	// StateIdle means no search has started.
	StateIdle EngineState = iota
	// StateTraversing means the walk is producing candidates.
	StateTraversing
	// StateContentFiltering means workers are still matching file content
	// after traversal finished.
	StateContentFiltering
	// StateAggregating means records are being sorted, capped, and previewed.
	StateAggregating
	// StateDone means the search finished normally.
	StateDone
	// StateStopped means a cancellation signal ended the search early.
	StateStopped
	// StateErrored means a precondition failed before traversal began.
	StateErrored
)

func (s EngineState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateTraversing:
		return "traversing"
	case StateContentFiltering:
		return "content_filtering"
	case StateAggregating:
		return "aggregating"
	case StateDone:
		return "done"
	case StateStopped:
		return "stopped"
	case StateErrored:
		return "errored"
	default:
		return "unknown"
	}
}
