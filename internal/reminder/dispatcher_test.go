package reminder

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkoba/remindbot/internal/database"
)

// fakeStore is an in-memory Store with real compare-and-set semantics.
type fakeStore struct {
	mu       sync.Mutex
	state    database.ReminderState
	getErr   error
	casErr   error
	casCalls int
}

func newFakeStore(enabled bool, lastSent string) *fakeStore {
	st := database.ReminderState{ID: 1, Enabled: enabled}
	if lastSent != "" {
		st.LastSentDate = sql.NullString{String: lastSent, Valid: true}
	}
	return &fakeStore{state: st}
}

func (f *fakeStore) Ping(context.Context) error { return nil }

func (f *fakeStore) Get(context.Context) (database.ReminderState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return database.ReminderState{}, f.getErr
	}
	return f.state, nil
}

func (f *fakeStore) SetEnabled(_ context.Context, enabled bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Enabled = enabled
	return nil
}

func (f *fakeStore) CompareAndSetLastSent(_ context.Context, expectedPrior *string, newDate string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.casCalls++
	if f.casErr != nil {
		return false, f.casErr
	}

	current := f.state.LastSentDate
	switch {
	case expectedPrior == nil && current.Valid:
		return false, nil
	case expectedPrior != nil && (!current.Valid || current.String != *expectedPrior):
		return false, nil
	}

	f.state.LastSentDate = sql.NullString{String: newDate, Valid: true}
	return true, nil
}

func (f *fakeStore) lastSent() sql.NullString {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state.LastSentDate
}

type fakeNotifier struct {
	mu   sync.Mutex
	err  error
	sent []string
}

func (f *fakeNotifier) Send(_ context.Context, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, text)
	return nil
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func newTestDispatcher(t *testing.T, store database.Store, notifier Notifier, now time.Time) *Dispatcher {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	d := NewDispatcher(nil, store, notifier, nil, Config{
		Message:  "⏰ リマインド：時間です！",
		Location: loc,
	})
	d.now = func() time.Time { return now }
	return d
}

func TestDispatchSendsAndCommits(t *testing.T) {
	t.Parallel()

	store := newFakeStore(true, "")
	notifier := &fakeNotifier{}
	loc, _ := time.LoadLocation("Asia/Tokyo")
	d := newTestDispatcher(t, store, notifier, time.Date(2024, 1, 1, 18, 50, 0, 0, loc))

	result := d.Dispatch(context.Background())

	assert.True(t, result.Sent)
	assert.Equal(t, ReasonSent, result.Reason)
	assert.Equal(t, 1, notifier.count())

	last := store.lastSent()
	require.True(t, last.Valid)
	assert.Equal(t, "2024-01-01", last.String)
}

func TestDispatchSkipsWhenDisabled(t *testing.T) {
	t.Parallel()

	store := newFakeStore(false, "")
	notifier := &fakeNotifier{}
	loc, _ := time.LoadLocation("Asia/Tokyo")
	d := newTestDispatcher(t, store, notifier, time.Date(2024, 1, 1, 18, 50, 0, 0, loc))

	result := d.Dispatch(context.Background())

	assert.False(t, result.Sent)
	assert.Equal(t, ReasonDisabled, result.Reason)
	assert.Zero(t, notifier.count())
	assert.False(t, store.lastSent().Valid)
}

func TestDispatchSkipsSameDay(t *testing.T) {
	t.Parallel()

	store := newFakeStore(true, "2024-01-01")
	notifier := &fakeNotifier{}
	loc, _ := time.LoadLocation("Asia/Tokyo")
	d := newTestDispatcher(t, store, notifier, time.Date(2024, 1, 1, 23, 0, 0, 0, loc))

	result := d.Dispatch(context.Background())

	assert.False(t, result.Sent)
	assert.Equal(t, ReasonAlreadySent, result.Reason)
	assert.Zero(t, notifier.count())
	assert.Zero(t, store.casCalls)
}

// A failed delivery must not advance the marker, so the next trigger can
// retry the same day.
func TestDispatchSendFailureLeavesStateUntouched(t *testing.T) {
	t.Parallel()

	store := newFakeStore(true, "2023-12-31")
	notifier := &fakeNotifier{err: errors.New("telegram: 502")}
	loc, _ := time.LoadLocation("Asia/Tokyo")
	d := newTestDispatcher(t, store, notifier, time.Date(2024, 1, 1, 18, 50, 0, 0, loc))

	result := d.Dispatch(context.Background())

	assert.False(t, result.Sent)
	assert.Equal(t, ReasonSendFailed, result.Reason)

	last := store.lastSent()
	require.True(t, last.Valid)
	assert.Equal(t, "2023-12-31", last.String)

	// Once the notifier recovers, the same day's trigger goes through.
	notifier.err = nil
	result = d.Dispatch(context.Background())
	assert.True(t, result.Sent)
	assert.Equal(t, "2024-01-01", store.lastSent().String)
}

// A store read failure substitutes the safe default and keeps dispatching.
func TestDispatchStoreReadFailureUsesDefault(t *testing.T) {
	t.Parallel()

	store := newFakeStore(true, "")
	store.getErr = database.ErrUnavailable
	notifier := &fakeNotifier{}
	loc, _ := time.LoadLocation("Asia/Tokyo")
	d := newTestDispatcher(t, store, notifier, time.Date(2024, 1, 1, 18, 50, 0, 0, loc))

	result := d.Dispatch(context.Background())

	assert.True(t, result.Sent)
	assert.Equal(t, 1, notifier.count())
}

// A commit failure after a confirmed send is logged but still reported as
// sent; duplicate risk on the next trigger is the accepted tradeoff.
func TestDispatchCommitFailureStillReportsSent(t *testing.T) {
	t.Parallel()

	store := newFakeStore(true, "")
	store.casErr = database.ErrUnavailable
	notifier := &fakeNotifier{}
	loc, _ := time.LoadLocation("Asia/Tokyo")
	d := newTestDispatcher(t, store, notifier, time.Date(2024, 1, 1, 18, 50, 0, 0, loc))

	result := d.Dispatch(context.Background())

	assert.True(t, result.Sent)
	assert.Equal(t, ReasonSent, result.Reason)
}

// Two triggers racing on the same calendar day commit exactly one marker
// update: both observed the same prior value, and compare-and-set admits
// only the first.
func TestDispatchRaceCommitsOnce(t *testing.T) {
	t.Parallel()

	store := newFakeStore(true, "")
	loc, _ := time.LoadLocation("Asia/Tokyo")
	now := time.Date(2024, 1, 1, 18, 50, 0, 0, loc)

	var expected *string
	first, err := store.CompareAndSetLastSent(context.Background(), expected, now.Format(database.DateLayout))
	require.NoError(t, err)
	second, err := store.CompareAndSetLastSent(context.Background(), expected, now.Format(database.DateLayout))
	require.NoError(t, err)

	assert.True(t, first)
	assert.False(t, second)

	// A dispatcher arriving after the committed marker skips entirely.
	notifier := &fakeNotifier{}
	d := newTestDispatcher(t, store, notifier, now)
	result := d.Dispatch(context.Background())
	assert.Equal(t, ReasonAlreadySent, result.Reason)
	assert.Zero(t, notifier.count())
}
