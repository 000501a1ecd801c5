package database

import "errors"

// ErrUnavailable wraps any read or write failure against the state store.
// Callers recover locally: reads substitute DefaultReminderState, writes are
// logged and skipped. It is never propagated to the trigger's caller.
var ErrUnavailable = errors.New("state store unavailable")
