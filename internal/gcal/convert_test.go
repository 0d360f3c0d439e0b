package gcal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/calendar/v3"
)

func TestToGoogleEvent(t *testing.T) {
	startsAt := time.Date(2025, time.June, 10, 9, 30, 0, 0, time.UTC)
	got := toGoogleEvent(Event{
		Summary:     "Visita",
		Description: "Llevar llaves",
		StartsAt:    startsAt,
		EndsAt:      startsAt.Add(time.Hour),
	})

	assert.Equal(t, "Visita", got.Summary)
	assert.Equal(t, "Llevar llaves", got.Description)
	require.NotNil(t, got.Start)
	require.NotNil(t, got.End)
	assert.Equal(t, "2025-06-10T09:30:00Z", got.Start.DateTime)
	assert.Equal(t, "2025-06-10T10:30:00Z", got.End.DateTime)
}

func TestFromGoogleEvent(t *testing.T) {
	t.Run("timed event", func(t *testing.T) {
		got, err := fromGoogleEvent(&calendar.Event{
			Id:      "google-1",
			Summary: "Visita",
			Start:   &calendar.EventDateTime{DateTime: "2025-06-10T09:30:00Z"},
			End:     &calendar.EventDateTime{DateTime: "2025-06-10T10:30:00Z"},
		})

		require.NoError(t, err)
		assert.Equal(t, "google-1", got.ID)
		assert.Equal(t, "Visita", got.Summary)
		assert.True(t, got.StartsAt.Equal(time.Date(2025, time.June, 10, 9, 30, 0, 0, time.UTC)))
		assert.True(t, got.EndsAt.Equal(time.Date(2025, time.June, 10, 10, 30, 0, 0, time.UTC)))
	})

	t.Run("all day event", func(t *testing.T) {
		got, err := fromGoogleEvent(&calendar.Event{
			Id:    "google-2",
			Start: &calendar.EventDateTime{Date: "2025-06-10"},
			End:   &calendar.EventDateTime{Date: "2025-06-11"},
		})

		require.NoError(t, err)
		assert.True(t, got.StartsAt.Equal(time.Date(2025, time.June, 10, 0, 0, 0, 0, time.Local)))
		assert.True(t, got.EndsAt.Equal(time.Date(2025, time.June, 11, 0, 0, 0, 0, time.Local)))
	})

	t.Run("missing end falls back to start", func(t *testing.T) {
		got, err := fromGoogleEvent(&calendar.Event{
			Id:    "google-3",
			Start: &calendar.EventDateTime{DateTime: "2025-06-10T09:30:00Z"},
		})

		require.NoError(t, err)
		assert.True(t, got.EndsAt.Equal(got.StartsAt))
	})

	t.Run("missing id fails", func(t *testing.T) {
		_, err := fromGoogleEvent(&calendar.Event{})
		assert.Error(t, err)

		_, err = fromGoogleEvent(nil)
		assert.Error(t, err)
	})

	t.Run("missing start fails", func(t *testing.T) {
		_, err := fromGoogleEvent(&calendar.Event{Id: "google-4"})
		assert.Error(t, err)
	})
}
