// Package models holds the marketplace records shared by the store, the
// HTTP handlers and the client.
//
// Task status graph:
//
//	open ──► assigned ──► in_progress ──► completed
//	  │          │  └─────────────────────────▲
//	  └──────────┴──────────┴────────────────────► cancelled
//
// completed and cancelled are terminal.
package models

import "fmt"

// Status is a task lifecycle state.
type Status string

const (
	StatusOpen       Status = "open"
	StatusAssigned   Status = "assigned"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

var taskTransitions = map[Status][]Status{
	StatusOpen:       {StatusAssigned, StatusCancelled},
	StatusAssigned:   {StatusInProgress, StatusCompleted, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
}

// ParseStatus converts a raw string to a Status.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	switch st {
	case StatusOpen, StatusAssigned, StatusInProgress, StatusCompleted, StatusCancelled:
		return st, nil
	}
	return "", fmt.Errorf("unknown task status %q", s)
}

// IsTransitionAllowed reports whether a task may move from one status to another.
// Staying in the same status is always allowed.
func IsTransitionAllowed(from, to Status) bool {
	if from == to {
		return true
	}
	for _, s := range taskTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether s has no outgoing transitions.
func IsTerminal(s Status) bool {
	return s == StatusCompleted || s == StatusCancelled
}
