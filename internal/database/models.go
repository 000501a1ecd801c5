package database

import (
	"database/sql"
	"time"
)

// DateLayout is the calendar-date format stored in last_sent_date.
const DateLayout = "2006-01-02"

// ReminderState is the single persisted record driving the daily reminder.
// Enabled is toggled by the command surface; LastSentDate is advanced only by
// the dispatcher after a confirmed send, as a YYYY-MM-DD date in the
// configured time zone.
type ReminderState struct {
	ID        int       `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	Enabled      bool           `db:"enabled"`
	LastSentDate sql.NullString `db:"last_sent_date"` // NULL means never sent
}

// DefaultReminderState is the state assumed when the store has no record or
// cannot be read: reminders enabled, never sent. Favoring this default keeps
// reminders firing when the store is unavailable.
func DefaultReminderState() ReminderState {
	return ReminderState{ID: 1, Enabled: true}
}
