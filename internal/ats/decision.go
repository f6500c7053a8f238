package ats

import (
	"fmt"
	"strings"
)

// Status is an application's review state.
type Status string

// Application statuses
const (
	StatusPending     Status = "pending"
	StatusReviewing   Status = "reviewing"
	StatusShortlisted Status = "shortlisted"
	StatusSelected    Status = "selected"
	StatusRejected    Status = "rejected"
)

// Statuses lists every valid status in workflow order.
var Statuses = []Status{StatusPending, StatusReviewing, StatusShortlisted, StatusSelected, StatusRejected}

// ParseStatus validates a status string.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	for _, valid := range Statuses {
		if st == valid {
			return st, nil
		}
	}
	return "", fmt.Errorf("invalid status %q: must be one of pending, reviewing, shortlisted, selected, rejected", s)
}

// IsTerminal reports whether the automatic evaluator treats the status as final.
func (s Status) IsTerminal() bool {
	return s == StatusSelected || s == StatusRejected
}

// Decide maps an accuracy to the automatic status. Below the selection
// threshold the application stays pending unless an auto-reject threshold
// is configured and the accuracy falls under it.
func Decide(accuracy int, cfg Config) Status {
	if accuracy >= cfg.MinAccuracyThreshold {
		return StatusSelected
	}
	if cfg.AutoRejectThreshold != nil && accuracy < *cfg.AutoRejectThreshold {
		return StatusRejected
	}
	return StatusPending
}

// ApplyAutomatic returns the status after the automatic decision. Only an
// unset or pending status is replaced; anything else was set by an admin
// and is kept.
func ApplyAutomatic(current, decided Status) Status {
	if current == "" || current == StatusPending {
		return decided
	}
	return current
}

// CanTransition reports whether an admin may move an application from one
// status to another. Admins may move in any direction; a same-status move is
// a no-op and reported as false.
func CanTransition(from, to Status) bool {
	if _, err := ParseStatus(string(to)); err != nil {
		return false
	}
	return from != to
}
