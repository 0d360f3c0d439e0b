package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patomdq/wallest-operating-system-sub000/internal/models"
)

func newEvent(id string, startsAt time.Time) *models.Event {
	return &models.Event{
		ID:       id,
		Title:    id,
		StartsAt: startsAt,
		EndsAt:   startsAt.Add(time.Hour),
	}
}

func TestMonthGrid(t *testing.T) {
	utc := time.UTC
	june10 := time.Date(2025, time.June, 10, 15, 0, 0, 0, utc)

	t.Run("full weeks sunday first", func(t *testing.T) {
		cells := MonthGrid(june10, nil, utc)

		// June 2025 starts on a Sunday and ends on a Monday,
		// so the grid spans 5 full weeks.
		require.Len(t, cells, 35)
		assert.Zero(t, len(cells)%7)

		assert.Equal(t, time.Sunday, cells[0].Date.Weekday())
		assert.Equal(t, time.Saturday, cells[len(cells)-1].Date.Weekday())

		assert.Equal(t, time.Date(2025, time.June, 1, 0, 0, 0, 0, utc), cells[0].Date)
		assert.Equal(t, time.Date(2025, time.July, 5, 0, 0, 0, 0, utc), cells[len(cells)-1].Date)
	})

	t.Run("marks adjacent month days", func(t *testing.T) {
		july := time.Date(2025, time.July, 15, 0, 0, 0, 0, utc)
		cells := MonthGrid(july, nil, utc)

		// July 2025 starts on a Tuesday: the two leading cells
		// belong to June.
		require.GreaterOrEqual(t, len(cells), 7)
		assert.False(t, cells[0].InMonth)
		assert.False(t, cells[1].InMonth)
		assert.True(t, cells[2].InMonth)
	})

	t.Run("places event on its day", func(t *testing.T) {
		events := []*models.Event{
			newEvent("visit", time.Date(2025, time.June, 10, 9, 30, 0, 0, utc)),
		}
		cells := MonthGrid(june10, events, utc)

		for _, cell := range cells {
			if cell.Date.Day() == 10 && cell.InMonth {
				require.Len(t, cell.Events, 1)
				assert.Equal(t, "visit", cell.Events[0].ID)
				return
			}
		}
		t.Fatal("no cell for june 10")
	})

	t.Run("truncates busy days", func(t *testing.T) {
		day := time.Date(2025, time.June, 10, 0, 0, 0, 0, utc)
		events := []*models.Event{
			newEvent("a", day.Add(8 * time.Hour)),
			newEvent("b", day.Add(9 * time.Hour)),
			newEvent("c", day.Add(10 * time.Hour)),
			newEvent("d", day.Add(11 * time.Hour)),
			newEvent("e", day.Add(12 * time.Hour)),
		}
		cells := MonthGrid(june10, events, utc)

		for _, cell := range cells {
			if cell.Date.Day() == 10 && cell.InMonth {
				assert.Len(t, cell.Events, MaxVisibleEvents)
				assert.Equal(t, 2, cell.More)
				return
			}
		}
		t.Fatal("no cell for june 10")
	})

	t.Run("respects display timezone", func(t *testing.T) {
		madrid, err := time.LoadLocation("Europe/Madrid")
		require.NoError(t, err)

		// 23:30 UTC on June 9 is already June 10 in Madrid.
		events := []*models.Event{
			newEvent("late", time.Date(2025, time.June, 9, 23, 30, 0, 0, utc)),
		}
		cells := MonthGrid(june10, events, madrid)

		for _, cell := range cells {
			if cell.Date.Day() == 10 && cell.InMonth {
				require.Len(t, cell.Events, 1)
				assert.Equal(t, "late", cell.Events[0].ID)
				return
			}
		}
		t.Fatal("no cell for june 10")
	})
}

func TestWeekDays(t *testing.T) {
	utc := time.UTC
	// June 10 2025 is a Tuesday; its week runs June 8 to June 14.
	cursor := time.Date(2025, time.June, 10, 12, 0, 0, 0, utc)
	events := []*models.Event{
		newEvent("sunday", time.Date(2025, time.June, 8, 10, 0, 0, 0, utc)),
		newEvent("saturday", time.Date(2025, time.June, 14, 10, 0, 0, 0, utc)),
		newEvent("outside", time.Date(2025, time.June, 15, 10, 0, 0, 0, utc)),
	}

	cells := WeekDays(cursor, events, utc)

	require.Len(t, cells, 7)
	assert.Equal(t, time.Date(2025, time.June, 8, 0, 0, 0, 0, utc), cells[0].Date)
	assert.Equal(t, time.Date(2025, time.June, 14, 0, 0, 0, 0, utc), cells[6].Date)

	require.Len(t, cells[0].Events, 1)
	assert.Equal(t, "sunday", cells[0].Events[0].ID)
	require.Len(t, cells[6].Events, 1)
	assert.Equal(t, "saturday", cells[6].Events[0].ID)
	for _, cell := range cells[1:6] {
		assert.Empty(t, cell.Events)
	}
}

func TestDayEvents(t *testing.T) {
	utc := time.UTC
	cursor := time.Date(2025, time.June, 10, 0, 0, 0, 0, utc)
	events := []*models.Event{
		newEvent("morning", time.Date(2025, time.June, 10, 9, 0, 0, 0, utc)),
		newEvent("evening", time.Date(2025, time.June, 10, 19, 0, 0, 0, utc)),
		newEvent("tomorrow", time.Date(2025, time.June, 11, 9, 0, 0, 0, utc)),
	}

	got := DayEvents(cursor, events, utc)

	require.Len(t, got, 2)
	assert.Equal(t, "morning", got[0].ID)
	assert.Equal(t, "evening", got[1].ID)
}

func TestToday(t *testing.T) {
	got := Today(time.UTC)

	assert.Equal(t, time.UTC, got.Location())
	assert.Zero(t, got.Hour())
	assert.Zero(t, got.Minute())
	assert.True(t, sameCivilDay(got, time.Now(), time.UTC))
}

func TestStep(t *testing.T) {
	cursor := time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)

	testCases := []struct {
		name  string
		view  View
		delta int
		want  time.Time
	}{
		{
			name:  "month forward",
			view:  ViewMonth,
			delta: 1,
			want:  time.Date(2025, time.July, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "month back",
			view:  ViewMonth,
			delta: -1,
			want:  time.Date(2025, time.May, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "week forward",
			view:  ViewWeek,
			delta: 1,
			want:  time.Date(2025, time.June, 17, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "day back",
			view:  ViewDay,
			delta: -1,
			want:  time.Date(2025, time.June, 9, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Step(cursor, tc.view, tc.delta))
		})
	}
}
