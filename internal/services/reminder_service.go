package services

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/patomdq/wallest-operating-system-sub000/internal/models"
)

// reminderServiceImpl raises a notification for every event with
// the reminder flag whose start falls inside the lookahead
// window, at most once per event until its marker expires.
// Markers are process-scoped: each running instance notifies its
// own subscribers independently.
type reminderServiceImpl struct {
	logger    zerolog.Logger
	events    EventService
	notifier  Notifier
	lookahead time.Duration
	markerTTL time.Duration

	mu       sync.Mutex
	notified map[string]time.Time
}

func NewReminderService(
	logger zerolog.Logger,
	events EventService,
	notifier Notifier,
	lookahead time.Duration,
	markerTTL time.Duration,
) ReminderService {
	return &reminderServiceImpl{
		logger:    logger,
		events:    events,
		notifier:  notifier,
		lookahead: lookahead,
		markerTTL: markerTTL,
		notified:  make(map[string]time.Time),
	}
}

func (s *reminderServiceImpl) Scan(ctx context.Context, now time.Time) (int, error) {
	due, err := s.events.DueReminders(ctx, now, now.Add(s.lookahead))
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked(now)

	raised := 0
	for _, event := range due {
		if _, seen := s.notified[event.ID]; seen {
			continue
		}
		s.notified[event.ID] = now

		s.notifier.Notify(event.UserID, models.Notification{
			EventID:  event.ID,
			Title:    event.Title,
			StartsAt: event.StartsAt,
			RaisedAt: now,
		})
		raised++

		s.logger.Info().
			Str("event_id", event.ID).
			Str("user_id", event.UserID).
			Time("starts_at", event.StartsAt).
			Msg("raised reminder")
	}
	return raised, nil
}

// sweepLocked drops expired markers so an event edited to a later
// date can notify again. Caller holds the mutex.
func (s *reminderServiceImpl) sweepLocked(now time.Time) {
	for eventID, notifiedAt := range s.notified {
		if now.Sub(notifiedAt) > s.markerTTL {
			delete(s.notified, eventID)
		}
	}
}
