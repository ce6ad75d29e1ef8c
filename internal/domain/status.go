package domain

// Status represents the lifecycle state of a task.
type Status string

const (
	StatusNotStarted  Status = "NOT_STARTED" // Created, never picked up
	StatusPending     Status = "PENDING"     // Queued for work
	StatusInProgress  Status = "IN_PROGRESS" // Being worked on
	StatusBlocked     Status = "BLOCKED"     // Waiting on a dependency
	StatusInterrupted Status = "INTERRUPTED" // Work stopped midway
	StatusCompleted   Status = "COMPLETED"   // Done (terminal)
)

// AllStatuses returns all valid status values.
func AllStatuses() []Status {
	return []Status{
		StatusNotStarted,
		StatusPending,
		StatusInProgress,
		StatusBlocked,
		StatusInterrupted,
		StatusCompleted,
	}
}

// transitions defines the allowed status transitions.
// Every open status may move to completed; completed is final.
var transitions = map[Status][]Status{
	StatusNotStarted:  {StatusPending, StatusInProgress, StatusBlocked, StatusCompleted},
	StatusPending:     {StatusInProgress, StatusBlocked, StatusNotStarted, StatusCompleted},
	StatusInProgress:  {StatusPending, StatusBlocked, StatusInterrupted, StatusCompleted},
	StatusBlocked:     {StatusPending, StatusInProgress, StatusCompleted},
	StatusInterrupted: {StatusPending, StatusInProgress, StatusBlocked, StatusCompleted},
	StatusCompleted:   {},
}

// CanTransitionTo returns true if the status can transition to the target status.
func (s Status) CanTransitionTo(target Status) bool {
	for _, t := range transitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if the status is a terminal state.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted
}

// Display returns a human-readable representation of the status.
func (s Status) Display() string {
	switch s {
	case StatusNotStarted:
		return "Not Started"
	case StatusPending:
		return "Pending"
	case StatusInProgress:
		return "In Progress"
	case StatusBlocked:
		return "Blocked"
	case StatusInterrupted:
		return "Interrupted"
	case StatusCompleted:
		return "Completed"
	default:
		return string(s)
	}
}

// IsValid returns true if the status is a known valid value.
func (s Status) IsValid() bool {
	_, ok := transitions[s]
	return ok
}
