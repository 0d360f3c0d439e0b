package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/patomdq/wallest-operating-system-sub000/internal/models"
	"github.com/patomdq/wallest-operating-system-sub000/internal/services"
)

type getEventResponse struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	StartsAt      time.Time `json:"starts_at"`
	EndsAt        time.Time `json:"ends_at"`
	Reminder      bool      `json:"reminder"`
	ProjectID     *string   `json:"project_id,omitempty"`
	IsExternal    bool      `json:"is_external"`
	GoogleEventID *string   `json:"google_event_id,omitempty"`
	SyncStatus    string    `json:"sync_status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func newGetEventResponse(event *models.Event) getEventResponse {
	return getEventResponse{
		ID:            event.ID,
		Title:         event.Title,
		Description:   event.Description,
		StartsAt:      event.StartsAt,
		EndsAt:        event.EndsAt,
		Reminder:      event.Reminder,
		ProjectID:     event.ProjectID,
		IsExternal:    event.IsExternal,
		GoogleEventID: event.GoogleEventID,
		SyncStatus:    event.SyncStatus,
		CreatedAt:     event.CreatedAt,
		UpdatedAt:     event.UpdatedAt,
	}
}

func (h *handlerImpl) HandleGetEvents(c *gin.Context) {
	userID, ok := getStringFromContext(c, userIDCtxKey)
	if !ok {
		h.logger.Error().Msg("no user id found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	events, err := h.events.ListEvents(c, userID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to list events")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	response := make([]getEventResponse, len(events))
	for i, event := range events {
		response[i] = newGetEventResponse(event)
	}
	c.JSON(http.StatusOK, response)
}

func (h *handlerImpl) HandleGetEvent(c *gin.Context) {
	userID, ok := getStringFromContext(c, userIDCtxKey)
	if !ok {
		h.logger.Error().Msg("no user id found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	event, err := h.events.GetEvent(c, userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrEventNotFound) {
			abort(c, newNotFoundError(services.ErrEventNotFound.Error()))
			return
		}

		h.logger.Error().
			Err(err).
			Msg("failed to get event")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}
	c.JSON(http.StatusOK, newGetEventResponse(event))
}

type createEventRequest struct {
	Title       string    `json:"title" binding:"required,max=255"`
	Description *string   `json:"description,omitempty"`
	StartsAt    time.Time `json:"starts_at" binding:"required"`
	EndsAt      time.Time `json:"ends_at" binding:"required"`
	Reminder    bool      `json:"reminder"`
	ProjectID   *string   `json:"project_id,omitempty"`
}

func (h *handlerImpl) HandleCreateEvent(c *gin.Context) {
	userID, ok := getStringFromContext(c, userIDCtxKey)
	if !ok {
		h.logger.Error().Msg("no user id found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	var req createEventRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	params := services.CreateEventParams{
		UserID:    userID,
		Title:     req.Title,
		StartsAt:  req.StartsAt,
		EndsAt:    req.EndsAt,
		Reminder:  req.Reminder,
		ProjectID: req.ProjectID,
	}
	if req.Description != nil {
		params.Description = *req.Description
	}

	event, err := h.events.CreateEvent(c, params)
	if err != nil {
		if errors.Is(err, services.ErrInvalidDateRange) {
			abort(c, newBadRequestError(services.ErrInvalidDateRange.Error()))
			return
		}

		h.logger.Error().
			Err(err).
			Msg("failed to create event")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	// Best-effort outward push: the local write stands even if
	// Google is unreachable or not connected.
	h.pushEventQuietly(c, userID, event.ID)

	c.JSON(http.StatusCreated, newGetEventResponse(event))
}

type updateEventRequest struct {
	Title       *string    `json:"title,omitempty" binding:"omitempty,max=255"`
	Description *string    `json:"description,omitempty"`
	StartsAt    *time.Time `json:"starts_at,omitempty"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
	Reminder    *bool      `json:"reminder,omitempty"`
	ProjectID   *string    `json:"project_id,omitempty"`
}

func (h *handlerImpl) HandleUpdateEvent(c *gin.Context) {
	userID, ok := getStringFromContext(c, userIDCtxKey)
	if !ok {
		h.logger.Error().Msg("no user id found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	var req updateEventRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	event, err := h.events.UpdateEvent(c, services.UpdateEventParams{
		ID:          c.Param("id"),
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		Reminder:    req.Reminder,
		ProjectID:   req.ProjectID,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEventNotFound):
			abort(c, newNotFoundError(services.ErrEventNotFound.Error()))
		case errors.Is(err, services.ErrInvalidDateRange):
			abort(c, newBadRequestError(services.ErrInvalidDateRange.Error()))
		default:
			h.logger.Error().
				Err(err).
				Msg("failed to update event")
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	h.pushEventQuietly(c, userID, event.ID)

	c.JSON(http.StatusOK, newGetEventResponse(event))
}

func (h *handlerImpl) HandleDeleteEvent(c *gin.Context) {
	userID, ok := getStringFromContext(c, userIDCtxKey)
	if !ok {
		h.logger.Error().Msg("no user id found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	eventID := c.Param("id")

	// Unsync before the local delete so the external counterpart
	// doesn't outlive the event. Failure doesn't block deletion;
	// the two calls are independent and can leave the stores
	// diverged until the next pull.
	err := h.sync.UnsyncEvent(c, userID, eventID)
	if err != nil && !errors.Is(err, services.ErrGoogleNotConnected) {
		h.logger.Warn().
			Err(err).
			Str("event_id", eventID).
			Msg("failed to unsync event before deletion")
	}

	err = h.events.DeleteEvent(c, userID, eventID)
	if err != nil {
		if errors.Is(err, services.ErrEventNotFound) {
			abort(c, newNotFoundError(services.ErrEventNotFound.Error()))
			return
		}

		h.logger.Error().
			Err(err).
			Msg("failed to delete event")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}
	c.Status(http.StatusNoContent)
}

// pushEventQuietly mirrors a local mutation outward while the
// user is connected. Not connected is the normal case and stays
// silent; real push failures are logged and leave the event in
// an error sync state.
func (h *handlerImpl) pushEventQuietly(c *gin.Context, userID, eventID string) {
	err := h.sync.PushEvent(c, userID, eventID)
	if err != nil && !errors.Is(err, services.ErrGoogleNotConnected) {
		h.logger.Warn().
			Err(err).
			Str("event_id", eventID).
			Msg("failed to push event to google")
	}
}
