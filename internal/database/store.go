package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store defines the interface for reminder state persistence.
// Methods accept context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// Get retrieves the reminder state, creating the default record on first
	// read. Failures are wrapped in ErrUnavailable.
	Get(ctx context.Context) (ReminderState, error)

	// SetEnabled toggles the reminder flag. It never touches last_sent_date.
	SetEnabled(ctx context.Context, enabled bool) error

	// CompareAndSetLastSent updates last_sent_date to newDate only if the
	// stored value still equals expectedPrior (nil means never sent).
	// Returns false without error when another trigger won the race.
	CompareAndSetLastSent(ctx context.Context, expectedPrior *string, newDate string) (bool, error)
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store implementation backed by sqlx.
// It requires a connected sqlx.DB instance and a logger.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

// Ping checks the database connection.
func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Get retrieves the single reminder state row, inserting the default record
// if none exists yet.
func (s *sqlxStore) Get(ctx context.Context) (ReminderState, error) {
	var state ReminderState

	err := s.db.GetContext(ctx, &state,
		`SELECT id, enabled, last_sent_date, created_at, updated_at FROM reminder_state WHERE id = 1`)
	if err == nil {
		return state, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		s.logger.ErrorContext(ctx, "Failed to read reminder state", "error", err)
		return DefaultReminderState(), fmt.Errorf("%w: get state: %v", ErrUnavailable, err)
	}

	// First read: create the record with defaults. ON CONFLICT guards
	// against a concurrent first read racing the insert.
	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO reminder_state (id, enabled, last_sent_date, created_at, updated_at)
         VALUES (1, 1, NULL, ?, ?)
         ON CONFLICT(id) DO NOTHING`, now, now)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to create default reminder state", "error", err)
		return DefaultReminderState(), fmt.Errorf("%w: create default state: %v", ErrUnavailable, err)
	}

	s.logger.InfoContext(ctx, "Created default reminder state record")

	state = DefaultReminderState()
	state.CreatedAt = now
	state.UpdatedAt = now
	return state, nil
}

// SetEnabled upserts the enabled flag. last_sent_date is left untouched so a
// disable/enable cycle cannot re-arm a reminder already sent today.
func (s *sqlxStore) SetEnabled(ctx context.Context, enabled bool) error {
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO reminder_state (id, enabled, last_sent_date, created_at, updated_at)
         VALUES (1, ?, NULL, ?, ?)
         ON CONFLICT(id) DO UPDATE SET enabled = excluded.enabled, updated_at = excluded.updated_at`,
		enabled, now, now)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to set enabled flag", "enabled", enabled, "error", err)
		return fmt.Errorf("%w: set enabled: %v", ErrUnavailable, err)
	}

	s.logger.InfoContext(ctx, "Reminder flag updated", "enabled", enabled)
	return nil
}

// CompareAndSetLastSent performs the conditional write that closes the
// duplicate-send race: the update applies only while last_sent_date still
// holds the value the caller observed before sending. SQLite's IS operator
// makes the comparison NULL-safe.
func (s *sqlxStore) CompareAndSetLastSent(ctx context.Context, expectedPrior *string, newDate string) (bool, error) {
	now := time.Now().UTC()

	result, err := s.db.ExecContext(ctx,
		`UPDATE reminder_state SET last_sent_date = ?, updated_at = ?
         WHERE id = 1 AND last_sent_date IS ?`,
		newDate, now, expectedPrior)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to commit last sent date", "new_date", newDate, "error", err)
		return false, fmt.Errorf("%w: compare-and-set last sent: %v", ErrUnavailable, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: compare-and-set rows affected: %v", ErrUnavailable, err)
	}

	if affected == 0 {
		s.logger.InfoContext(ctx, "Compare-and-set lost the race", "new_date", newDate)
		return false, nil
	}

	return true, nil
}
