package v1

import (
	"io"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/patomdq/wallest-operating-system-sub000/internal/models"
)

// Hub fans reminder notifications out to the SSE streams of the
// user they belong to. Each browser tab holds its own
// subscription and is notified independently.
type Hub struct {
	logger zerolog.Logger

	mu          sync.Mutex
	subscribers map[string]map[chan models.Notification]struct{}
}

func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		logger:      logger,
		subscribers: make(map[string]map[chan models.Notification]struct{}),
	}
}

// Notify implements services.Notifier. Slow subscribers are
// skipped rather than blocking the poller.
func (h *Hub) Notify(userID string, notification models.Notification) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subscribers[userID] {
		select {
		case ch <- notification:
		default:
			h.logger.Warn().
				Str("user_id", userID).
				Str("event_id", notification.EventID).
				Msg("dropped reminder for slow subscriber")
		}
	}
}

func (h *Hub) subscribe(userID string) chan models.Notification {
	ch := make(chan models.Notification, 8)

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subscribers[userID] == nil {
		h.subscribers[userID] = make(map[chan models.Notification]struct{})
	}
	h.subscribers[userID][ch] = struct{}{}
	return ch
}

func (h *Hub) unsubscribe(userID string, ch chan models.Notification) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.subscribers[userID], ch)
	if len(h.subscribers[userID]) == 0 {
		delete(h.subscribers, userID)
	}
}

// HandleReminderStream keeps an SSE connection open and writes a
// "reminder" event for every notification the poller raises for
// this user.
func (h *handlerImpl) HandleReminderStream(c *gin.Context) {
	userID, ok := getStringFromContext(c, userIDCtxKey)
	if !ok {
		h.logger.Error().Msg("no user id found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	ch := h.hub.subscribe(userID)
	defer h.hub.unsubscribe(userID, ch)

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case notification := <-ch:
			c.SSEvent("reminder", notification)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
