package reminder

import (
	"context"
	"log/slog"
	"time"

	"github.com/mkoba/remindbot/internal/database"
	"github.com/mkoba/remindbot/internal/metrics"
)

// Reasons reported in a Result, mirrored by the /tick HTTP response.
const (
	ReasonSent        = "sent"
	ReasonDisabled    = "disabled"
	ReasonAlreadySent = "already_sent_today"
	ReasonSendFailed  = "send_failed"
)

// Notifier delivers the reminder text to the configured destination.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// Result describes what one trigger did, for logging and the tick endpoint.
type Result struct {
	Sent   bool   `json:"sent"`
	Reason string `json:"reason"`
}

// Config holds the dispatcher's static settings.
type Config struct {
	Message      string
	Location     *time.Location
	StoreTimeout time.Duration
	SendTimeout  time.Duration
}

// Dispatcher drives one reminder trigger end to end: read state, evaluate
// the guards, deliver, commit the marker. It holds no state between
// triggers; every call works on a fresh snapshot.
type Dispatcher struct {
	logger   *slog.Logger
	store    database.Store
	notifier Notifier
	recorder metrics.Recorder
	cfg      Config
	now      func() time.Time
}

// NewDispatcher creates a dispatcher. A nil recorder disables metrics.
func NewDispatcher(logger *slog.Logger, store database.Store, notifier Notifier, recorder metrics.Recorder, cfg Config) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.StoreTimeout <= 0 {
		cfg.StoreTimeout = 15 * time.Second
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 15 * time.Second
	}
	return &Dispatcher{
		logger:   logger.With("component", "dispatcher"),
		store:    store,
		notifier: notifier,
		recorder: recorder,
		cfg:      cfg,
		now:      time.Now,
	}
}

// Dispatch handles one trigger. It never returns an error: every failure
// path degrades to a skip with a logged reason, since a missed reminder is
// low-severity and a crash-looping process is worse.
func (d *Dispatcher) Dispatch(ctx context.Context) Result {
	state := d.readState(ctx)
	decision := Evaluate(d.now(), d.cfg.Location, state)

	switch decision.Outcome {
	case SkipDisabled:
		d.logger.InfoContext(ctx, "Reminder skipped", "reason", ReasonDisabled)
		d.recorder.CountDispatch(ReasonDisabled)
		return Result{Sent: false, Reason: ReasonDisabled}
	case SkipAlreadySent:
		d.logger.InfoContext(ctx, "Reminder skipped", "reason", ReasonAlreadySent, "date", decision.Today)
		d.recorder.CountDispatch(ReasonAlreadySent)
		return Result{Sent: false, Reason: ReasonAlreadySent}
	}

	sendCtx, cancel := context.WithTimeout(ctx, d.cfg.SendTimeout)
	defer cancel()

	start := d.now()
	if err := d.notifier.Send(sendCtx, d.cfg.Message); err != nil {
		// State stays untouched so the next trigger retries the same day.
		d.logger.WarnContext(ctx, "Reminder delivery failed", "error", err, "date", decision.Today)
		d.recorder.CountDispatch(ReasonSendFailed)
		return Result{Sent: false, Reason: ReasonSendFailed}
	}
	d.recorder.ObserveSendDuration(time.Since(start))

	d.commitMarker(ctx, state, decision.Today)

	d.logger.InfoContext(ctx, "Reminder sent", "date", decision.Today)
	d.recorder.CountDispatch(ReasonSent)
	return Result{Sent: true, Reason: ReasonSent}
}

// readState fetches the persisted state, substituting the safe default on
// store failure so reminders keep firing while the store is down.
func (d *Dispatcher) readState(ctx context.Context) database.ReminderState {
	storeCtx, cancel := context.WithTimeout(ctx, d.cfg.StoreTimeout)
	defer cancel()

	state, err := d.store.Get(storeCtx)
	if err != nil {
		d.logger.WarnContext(ctx, "State read failed, using default state", "error", err)
		return database.DefaultReminderState()
	}
	return state
}

// commitMarker records the send via compare-and-set keyed on the snapshot's
// prior marker. A lost race means a concurrent trigger already committed; a
// store failure is accepted as duplicate-send risk on the next trigger
// rather than losing the record that a send happened.
func (d *Dispatcher) commitMarker(ctx context.Context, state database.ReminderState, today string) {
	storeCtx, cancel := context.WithTimeout(ctx, d.cfg.StoreTimeout)
	defer cancel()

	var expected *string
	if state.LastSentDate.Valid {
		expected = &state.LastSentDate.String
	}

	committed, err := d.store.CompareAndSetLastSent(storeCtx, expected, today)
	if err != nil {
		d.logger.ErrorContext(ctx, "Failed to commit last sent date after delivery", "date", today, "error", err)
		return
	}
	if !committed {
		d.logger.InfoContext(ctx, "Last sent date already committed by concurrent trigger", "date", today)
	}
}
