package calendar

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/patomdq/wallest-operating-system-sub000/internal/models"
)

func TestBuildICS(t *testing.T) {
	now := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

	event := newEvent("evt-1", time.Date(2025, time.June, 10, 9, 30, 0, 0, time.UTC))
	event.Title = "Visita Calle Mayor 5"
	event.Description = "Llevar llaves"
	event.CreatedAt = now
	event.UpdatedAt = now

	payload := BuildICS([]*models.Event{event})

	assert.True(t, strings.HasPrefix(payload, "BEGIN:VCALENDAR"))
	assert.Contains(t, payload, "METHOD:PUBLISH")
	assert.Contains(t, payload, "UID:evt-1")
	assert.Contains(t, payload, "SUMMARY:Visita Calle Mayor 5")
	assert.Contains(t, payload, "DESCRIPTION:Llevar llaves")
	assert.Contains(t, payload, "DTSTART:20250610T093000Z")
	assert.Contains(t, payload, "END:VCALENDAR")
}

func TestBuildICSEmpty(t *testing.T) {
	payload := BuildICS(nil)

	assert.Contains(t, payload, "BEGIN:VCALENDAR")
	assert.NotContains(t, payload, "BEGIN:VEVENT")
}
