package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patomdq/wallest-operating-system-sub000/internal/models"
)

type fakeEventStore struct {
	EventService
	due []*models.Event

	gotFrom time.Time
	gotTo   time.Time
}

func (f *fakeEventStore) DueReminders(_ context.Context, from, to time.Time) ([]*models.Event, error) {
	f.gotFrom, f.gotTo = from, to

	var due []*models.Event
	for _, event := range f.due {
		if !event.StartsAt.Before(from) && event.StartsAt.Before(to) {
			due = append(due, event)
		}
	}
	return due, nil
}

type fakeNotifier struct {
	notifications []models.Notification
	userIDs       []string
}

func (f *fakeNotifier) Notify(userID string, notification models.Notification) {
	f.userIDs = append(f.userIDs, userID)
	f.notifications = append(f.notifications, notification)
}

func reminderEvent(id, userID string, startsAt time.Time) *models.Event {
	return &models.Event{
		ID:       id,
		UserID:   userID,
		Title:    id,
		StartsAt: startsAt,
		EndsAt:   startsAt.Add(time.Hour),
		Reminder: true,
	}
}

func TestReminderServiceScan(t *testing.T) {
	now := time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC)
	lookahead := 5 * time.Minute
	markerTTL := time.Hour

	t.Run("raises events inside the window", func(t *testing.T) {
		store := &fakeEventStore{due: []*models.Event{
			reminderEvent("soon", "user-1", now.Add(2*time.Minute)),
			reminderEvent("later", "user-1", now.Add(10*time.Minute)),
		}}
		notifier := &fakeNotifier{}
		service := NewReminderService(zerolog.Nop(), store, notifier, lookahead, markerTTL)

		raised, err := service.Scan(context.Background(), now)

		require.NoError(t, err)
		assert.Equal(t, 1, raised)
		require.Len(t, notifier.notifications, 1)
		assert.Equal(t, "soon", notifier.notifications[0].EventID)
		assert.Equal(t, "user-1", notifier.userIDs[0])
		assert.Equal(t, now, notifier.notifications[0].RaisedAt)

		assert.Equal(t, now, store.gotFrom)
		assert.Equal(t, now.Add(lookahead), store.gotTo)
	})

	t.Run("notifies once per event", func(t *testing.T) {
		store := &fakeEventStore{due: []*models.Event{
			reminderEvent("soon", "user-1", now.Add(2*time.Minute)),
		}}
		notifier := &fakeNotifier{}
		service := NewReminderService(zerolog.Nop(), store, notifier, lookahead, markerTTL)

		raised, err := service.Scan(context.Background(), now)
		require.NoError(t, err)
		assert.Equal(t, 1, raised)

		// The next poll still sees the event in the window but
		// the marker suppresses a duplicate.
		raised, err = service.Scan(context.Background(), now.Add(time.Minute))
		require.NoError(t, err)
		assert.Zero(t, raised)
		assert.Len(t, notifier.notifications, 1)
	})

	t.Run("marker expires after ttl", func(t *testing.T) {
		event := reminderEvent("soon", "user-1", now.Add(2*time.Minute))
		store := &fakeEventStore{due: []*models.Event{event}}
		notifier := &fakeNotifier{}
		service := NewReminderService(zerolog.Nop(), store, notifier, lookahead, markerTTL)

		_, err := service.Scan(context.Background(), now)
		require.NoError(t, err)

		// Past the TTL the marker is swept; the event was moved
		// back into the window, so it notifies again.
		later := now.Add(markerTTL + time.Minute)
		event.StartsAt = later.Add(2 * time.Minute)

		raised, err := service.Scan(context.Background(), later)
		require.NoError(t, err)
		assert.Equal(t, 1, raised)
		assert.Len(t, notifier.notifications, 2)
	})

	t.Run("routes by event owner", func(t *testing.T) {
		store := &fakeEventStore{due: []*models.Event{
			reminderEvent("a", "user-1", now.Add(time.Minute)),
			reminderEvent("b", "user-2", now.Add(2*time.Minute)),
		}}
		notifier := &fakeNotifier{}
		service := NewReminderService(zerolog.Nop(), store, notifier, lookahead, markerTTL)

		raised, err := service.Scan(context.Background(), now)

		require.NoError(t, err)
		assert.Equal(t, 2, raised)
		assert.Equal(t, []string{"user-1", "user-2"}, notifier.userIDs)
	})
}
