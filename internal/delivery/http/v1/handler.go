package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/patomdq/wallest-operating-system-sub000/internal/services"
)

type Handler interface {
	HandleLogin(c *gin.Context)
	HandleRefresh(c *gin.Context)
	HandleRegister(c *gin.Context)
	HandleLogout(c *gin.Context)
	HandleAuthMiddleware(c *gin.Context)

	HandleGetEvents(c *gin.Context)
	HandleGetEvent(c *gin.Context)
	HandleCreateEvent(c *gin.Context)
	HandleUpdateEvent(c *gin.Context)
	HandleDeleteEvent(c *gin.Context)

	HandleGetCalendar(c *gin.Context)
	HandleExportICS(c *gin.Context)

	HandleGetTasks(c *gin.Context)
	HandleCreateTask(c *gin.Context)
	HandleUpdateTask(c *gin.Context)
	HandleSetTaskStatus(c *gin.Context)
	HandleDeleteTask(c *gin.Context)

	HandleGoogleConnect(c *gin.Context)
	HandleGoogleCallback(c *gin.Context)
	HandleGoogleStatus(c *gin.Context)
	HandleGooglePush(c *gin.Context)
	HandleGooglePull(c *gin.Context)
	HandleGoogleDisconnect(c *gin.Context)

	HandleReminderStream(c *gin.Context)
}

type handlerImpl struct {
	logger   zerolog.Logger
	auth     services.AuthService
	sessions services.SessionService
	events   services.EventService
	tasks    services.TaskService
	sync     services.SyncService
	hub      *Hub
}

func New(
	logger zerolog.Logger,
	authService services.AuthService,
	sessionService services.SessionService,
	eventService services.EventService,
	taskService services.TaskService,
	syncService services.SyncService,
	hub *Hub,
) Handler {
	return &handlerImpl{
		logger:   logger,
		auth:     authService,
		sessions: sessionService,
		events:   eventService,
		tasks:    taskService,
		sync:     syncService,
		hub:      hub,
	}
}
