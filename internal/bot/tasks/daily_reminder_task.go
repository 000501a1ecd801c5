package tasks

import (
	"context"
	"time"

	"github.com/mkoba/remindbot/internal/reminder"
)

// newDailyReminderTask creates the scheduled task that fires the daily
// reminder trigger. Dispatch never returns an error: every failure path is
// logged and degraded to a skip, so the scheduler never sees a failing task.
func newDailyReminderTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "daily_reminder")

	return func(ctx context.Context) error {
		log.InfoContext(ctx, "Daily reminder trigger fired")
		startTime := time.Now()

		result := deps.Dispatcher.Dispatch(ctx)

		log.InfoContext(ctx, "Daily reminder trigger finished",
			"sent", result.Sent,
			"reason", result.Reason,
			"duration", time.Since(startTime))

		if !result.Sent && result.Reason == reminder.ReasonSendFailed {
			log.WarnContext(ctx, "Reminder delivery failed, will retry on next trigger")
		}
		return nil
	}
}
