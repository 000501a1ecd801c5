// Package reminder implements the daily reminder dispatch logic: the pure
// decision engine that determines whether a trigger should send, and the
// dispatcher that drives one trigger through store, notifier, and commit.
package reminder

import (
	"time"

	"github.com/mkoba/remindbot/internal/database"
)

// Outcome is the result of evaluating the dispatch guards.
type Outcome int

const (
	// Send means all guards passed and the reminder should be delivered.
	Send Outcome = iota
	// SkipDisabled means the operator has turned the reminder off.
	SkipDisabled
	// SkipAlreadySent means a reminder was already delivered today.
	SkipAlreadySent
)

// String returns the operator-facing name of the outcome.
func (o Outcome) String() string {
	switch o {
	case Send:
		return "send"
	case SkipDisabled:
		return "disabled"
	case SkipAlreadySent:
		return "already_sent_today"
	default:
		return "unknown"
	}
}

// Decision is the evaluation result for one trigger. Today carries the
// calendar date computed from the trigger instant in the configured zone, so
// the caller commits exactly the date the guards were evaluated against.
type Decision struct {
	Outcome Outcome
	Today   string
}

// Evaluate applies the dispatch guards to a state snapshot. Guards run in
// order; the first failing guard determines the skip reason:
//
//  1. the reminder must be enabled,
//  2. no reminder may have been sent on the current calendar date in loc.
//
// Evaluate is pure: it performs no I/O and holds no state across calls. The
// snapshot is advisory for this one evaluation only, since the command
// surface may flip the enabled flag concurrently.
func Evaluate(now time.Time, loc *time.Location, state database.ReminderState) Decision {
	today := now.In(loc).Format(database.DateLayout)

	if !state.Enabled {
		return Decision{Outcome: SkipDisabled, Today: today}
	}
	if state.LastSentDate.Valid && state.LastSentDate.String == today {
		return Decision{Outcome: SkipAlreadySent, Today: today}
	}
	return Decision{Outcome: Send, Today: today}
}
