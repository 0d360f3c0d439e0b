// Package calendar renders month/week/day views of an event list.
// Everything here is pure: callers pass the navigation cursor, the
// events and the display timezone, storage stays in UTC.
package calendar

import (
	"time"

	"github.com/patomdq/wallest-operating-system-sub000/internal/models"
)

type View string

const (
	ViewMonth View = "month"
	ViewWeek  View = "week"
	ViewDay   View = "day"
)

// MaxVisibleEvents is how many events a month cell lists before
// collapsing the rest into a "+N more" count.
const MaxVisibleEvents = 3

type DayCell struct {
	Date    time.Time
	InMonth bool
	Events  []*models.Event
	More    int
}

// MonthGrid lays out the month containing cursor as full
// Sunday-first weeks, including leading and trailing days of the
// adjacent months. The result length is always a multiple of 7.
func MonthGrid(cursor time.Time, events []*models.Event, loc *time.Location) []DayCell {
	cursor = cursor.In(loc)
	first := time.Date(cursor.Year(), cursor.Month(), 1, 0, 0, 0, 0, loc)
	last := first.AddDate(0, 1, -1)

	gridStart := first.AddDate(0, 0, -int(first.Weekday()))
	gridEnd := last.AddDate(0, 0, int(time.Saturday-last.Weekday()))

	var cells []DayCell
	for day := gridStart; !day.After(gridEnd); day = day.AddDate(0, 0, 1) {
		dayEvents := eventsOnDay(day, events, loc)

		cell := DayCell{
			Date:    day,
			InMonth: day.Month() == cursor.Month(),
			Events:  dayEvents,
		}
		if len(dayEvents) > MaxVisibleEvents {
			cell.More = len(dayEvents) - MaxVisibleEvents
			cell.Events = dayEvents[:MaxVisibleEvents]
		}
		cells = append(cells, cell)
	}
	return cells
}

// WeekDays returns the 7 days of the Sunday-first week containing
// cursor, each with its full event list.
func WeekDays(cursor time.Time, events []*models.Event, loc *time.Location) []DayCell {
	cursor = cursor.In(loc)
	start := time.Date(cursor.Year(), cursor.Month(), cursor.Day(), 0, 0, 0, 0, loc).
		AddDate(0, 0, -int(cursor.Weekday()))

	cells := make([]DayCell, 7)
	for i := range cells {
		day := start.AddDate(0, 0, i)
		cells[i] = DayCell{
			Date:    day,
			InMonth: true,
			Events:  eventsOnDay(day, events, loc),
		}
	}
	return cells
}

// DayEvents returns the events starting on the civil day of
// cursor, in the order the store delivered them.
func DayEvents(cursor time.Time, events []*models.Event, loc *time.Location) []*models.Event {
	return eventsOnDay(cursor.In(loc), events, loc)
}

// Today resets the cursor to midnight of the current civil day
// in the display timezone.
func Today(loc *time.Location) time.Time {
	now := time.Now().In(loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
}

// Step moves the cursor one unit forward or back depending on the
// view. Delta is typically +1 or -1.
func Step(cursor time.Time, view View, delta int) time.Time {
	switch view {
	case ViewWeek:
		return cursor.AddDate(0, 0, 7*delta)
	case ViewDay:
		return cursor.AddDate(0, 0, delta)
	default:
		return cursor.AddDate(0, delta, 0)
	}
}

func eventsOnDay(day time.Time, events []*models.Event, loc *time.Location) []*models.Event {
	var matched []*models.Event
	for _, event := range events {
		if sameCivilDay(event.StartsAt, day, loc) {
			matched = append(matched, event)
		}
	}
	return matched
}

func sameCivilDay(a, b time.Time, loc *time.Location) bool {
	a, b = a.In(loc), b.In(loc)
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
