package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestCreateEventRejectsInvertedRange(t *testing.T) {
	service := &eventServiceImpl{logger: zerolog.Nop()}

	startsAt := time.Date(2025, time.June, 10, 10, 0, 0, 0, time.UTC)
	_, err := service.CreateEvent(context.Background(), CreateEventParams{
		UserID:   "user-1",
		Title:    "Visita",
		StartsAt: startsAt,
		EndsAt:   startsAt.Add(-time.Hour),
	})

	assert.ErrorIs(t, err, ErrInvalidDateRange)
}
