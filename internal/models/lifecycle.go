package models

// DefaultProgress returns the progress implied by a status when no explicit
// value was supplied.
func DefaultProgress(status TaskStatus) int {
	switch status {
	case StatusDone:
		return 100
	case StatusInProgress:
		return 50
	default:
		return 0
	}
}

// ClampProgress bounds p to the 0-100 range.
func ClampProgress(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// DisplayProgress resolves the progress to report for a task whose stored
// value may be absent (rows written before progress became mandatory).
func DisplayProgress(stored *int, status TaskStatus) int {
	if stored != nil {
		return ClampProgress(*stored)
	}
	return DefaultProgress(status)
}

// ResolveProgress decides the stored progress when a task's status changes.
// An explicit caller value always wins. Otherwise done pins progress to 100,
// in-progress resets to 50 only from the 0 and 100 endpoints, and todo resets
// to 0 only from 100, so partial progress survives a task being reopened or
// advanced.
func ResolveProgress(current int, next TaskStatus, explicit *int) int {
	if explicit != nil {
		return ClampProgress(*explicit)
	}
	switch next {
	case StatusDone:
		return 100
	case StatusInProgress:
		if current == 0 || current == 100 {
			return 50
		}
	case StatusTodo:
		if current == 100 {
			return 0
		}
	}
	return current
}
