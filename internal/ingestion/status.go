package ingestion

// Status is the lifecycle state of an ingestion process.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Terminal reports whether no further transition is defined from s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CanTransition reports whether moving from s to next is a legal forward
// transition. A pending process may be completed or failed directly: an
// external completion webhook can arrive before the scheduler's first stage
// has picked the process up. Terminal states accept nothing.
func (s Status) CanTransition(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusRunning || next == StatusCompleted || next == StatusFailed
	case StatusRunning:
		return next == StatusCompleted || next == StatusFailed
	}
	return false
}
