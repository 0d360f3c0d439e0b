package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/patomdq/wallest-operating-system-sub000/internal/config"
	v1 "github.com/patomdq/wallest-operating-system-sub000/internal/delivery/http/v1"
)

func MustListenAndServeHTTP() {
	cfg := config.Global()
	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	httpCfg := cfg.HTTP

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	registerRoutes(router)

	server := &http.Server{
		Addr:    net.JoinHostPort(httpCfg.Host, httpCfg.Port),
		Handler: router,
	}

	go func() {
		globalLogger.Info().
			Str("host", httpCfg.Host).
			Str("port", httpCfg.Port).
			Msg("setting up http server")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			globalLogger.Error().
				Err(err).
				Msg("failed to listen and serve http")
			panic(err)
		}
	}()

	// Wait for the interrupt signal to gracefully
	// shut down the server with a timeout of 5 seconds.
	quit := make(chan os.Signal, 1)
	// kill (no params) by default sends syscall.SIGTERM
	// kill -2 is syscall.SIGINT
	// kill -9 is syscall.SIGKILL but can't be caught, so don't need to add it
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	globalLogger.Info().
		Msg("shutting down http server")

	ctx, cancel := context.WithTimeout(context.Background(), httpCfg.ShutdownTimeout)
	defer cancel()

	err := server.Shutdown(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to shutdown http server")
		panic(err)
	}
	globalLogger.Info().Msg("shut down http server")
}

func registerRoutes(router gin.IRouter) {
	v1Handler := v1.New(
		globalLogger,
		globalAuthService,
		globalSessionService,
		globalEventService,
		globalTaskService,
		globalSyncService,
		globalNotificationHub,
	)
	router = router.Group("/api/v1")

	authRouter := router.Group("/auth")
	authRouter.POST("/login", v1Handler.HandleLogin)
	authRouter.POST("/refresh", v1Handler.HandleRefresh)
	authRouter.POST("/register", v1Handler.HandleRegister)
	authRouter.POST("/logout", v1Handler.HandleAuthMiddleware, v1Handler.HandleLogout)

	eventRouter := router.Group("/events", v1Handler.HandleAuthMiddleware)
	eventRouter.GET("", v1Handler.HandleGetEvents)
	eventRouter.POST("", v1Handler.HandleCreateEvent)
	eventRouter.GET("/:id", v1Handler.HandleGetEvent)
	eventRouter.PATCH("/:id", v1Handler.HandleUpdateEvent)
	eventRouter.DELETE("/:id", v1Handler.HandleDeleteEvent)

	calendarRouter := router.Group("/calendar", v1Handler.HandleAuthMiddleware)
	calendarRouter.GET("", v1Handler.HandleGetCalendar)
	calendarRouter.GET("/export.ics", v1Handler.HandleExportICS)

	taskRouter := router.Group("/tasks", v1Handler.HandleAuthMiddleware)
	taskRouter.GET("", v1Handler.HandleGetTasks)
	taskRouter.POST("", v1Handler.HandleCreateTask)
	taskRouter.PATCH("/:id", v1Handler.HandleUpdateTask)
	taskRouter.PUT("/:id/status", v1Handler.HandleSetTaskStatus)
	taskRouter.DELETE("/:id", v1Handler.HandleDeleteTask)

	syncRouter := router.Group("/sync/google")
	// The callback is hit by a browser redirect from the consent
	// screen, so it cannot carry an Authorization header.
	syncRouter.GET("/callback", v1Handler.HandleGoogleCallback)
	syncRouter.GET("/connect", v1Handler.HandleAuthMiddleware, v1Handler.HandleGoogleConnect)
	syncRouter.GET("/status", v1Handler.HandleAuthMiddleware, v1Handler.HandleGoogleStatus)
	syncRouter.POST("/push/:id", v1Handler.HandleAuthMiddleware, v1Handler.HandleGooglePush)
	syncRouter.POST("/pull", v1Handler.HandleAuthMiddleware, v1Handler.HandleGooglePull)
	syncRouter.DELETE("", v1Handler.HandleAuthMiddleware, v1Handler.HandleGoogleDisconnect)

	router.GET("/reminders/stream", v1Handler.HandleAuthMiddleware, v1Handler.HandleReminderStream)
}
