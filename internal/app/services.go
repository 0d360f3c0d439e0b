package app

import (
	v1 "github.com/patomdq/wallest-operating-system-sub000/internal/delivery/http/v1"

	"github.com/patomdq/wallest-operating-system-sub000/internal/config"
	"github.com/patomdq/wallest-operating-system-sub000/internal/gcal"
	"github.com/patomdq/wallest-operating-system-sub000/internal/services"
)

var (
	globalAuthService     services.AuthService
	globalSessionService  services.SessionService
	globalEventService    services.EventService
	globalTaskService     services.TaskService
	globalSyncService     services.SyncService
	globalReminderService services.ReminderService
	globalNotificationHub *v1.Hub
)

func MustInitServices() {
	cfg := config.Global()

	globalAuthService = services.NewAuthService(
		globalLogger,
		globalPostgresPool,
		cfg.JWT.Issuer,
		cfg.JWT.SigningKey,
		cfg.JWT.AccessTokenTTL,
		cfg.JWT.RefreshTokenTTL,
	)
	globalSessionService = services.NewSessionService(globalLogger, globalPostgresPool)
	globalTaskService = services.NewTaskService(globalLogger, globalPostgresPool)
	globalEventService = services.NewEventService(globalLogger, globalPostgresPool)

	googleAPI := gcal.NewGoogleAPI(gcal.Config{
		ClientID:     cfg.Google.ClientID,
		ClientSecret: cfg.Google.ClientSecret,
		RedirectURL:  cfg.Google.RedirectURL,
		CalendarID:   cfg.Google.CalendarID,
	})
	globalSyncService = services.NewSyncService(
		globalLogger,
		globalPostgresPool,
		googleAPI,
		cfg.JWT.SigningKey,
	)

	globalNotificationHub = v1.NewHub(globalLogger)
	globalReminderService = services.NewReminderService(
		globalLogger,
		globalEventService,
		globalNotificationHub,
		cfg.Reminder.Lookahead,
		cfg.Reminder.MarkerTTL,
	)

	globalLogger.Info().Msg("initialized services")
}
