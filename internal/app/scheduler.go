package app

import (
	"context"
	"time"

	"github.com/patomdq/wallest-operating-system-sub000/internal/config"
	"github.com/patomdq/wallest-operating-system-sub000/internal/services"
)

var globalScheduler *services.SchedulerService

// MustStartReminderScheduler runs the reminder scan on a fixed
// interval for as long as the process lives.
func MustStartReminderScheduler() {
	cfg := config.Global().Reminder

	globalScheduler = services.NewSchedulerService(time.Local)
	_, err := globalScheduler.ScheduleInterval(cfg.PollInterval, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.PollInterval)
		defer cancel()

		notified, err := globalReminderService.Scan(ctx, time.Now())
		if err != nil {
			globalLogger.Error().
				Err(err).
				Msg("reminder scan failed")
			return
		}
		if notified > 0 {
			globalLogger.Info().
				Int("notified", notified).
				Msg("raised reminders")
		}
	})
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to schedule reminder scan")
		panic(err)
	}

	globalScheduler.Start()
	globalLogger.Info().
		Dur("poll_interval", cfg.PollInterval).
		Dur("lookahead", cfg.Lookahead).
		Msg("started reminder scheduler")
}

func StopReminderScheduler() {
	globalScheduler.Stop()
	globalLogger.Info().Msg("stopped reminder scheduler")
}
