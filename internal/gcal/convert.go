package gcal

import (
	"errors"
	"time"

	"google.golang.org/api/calendar/v3"
)

func toGoogleEvent(event Event) *calendar.Event {
	return &calendar.Event{
		Summary:     event.Summary,
		Description: event.Description,
		Start: &calendar.EventDateTime{
			DateTime: event.StartsAt.Format(time.RFC3339),
		},
		End: &calendar.EventDateTime{
			DateTime: event.EndsAt.Format(time.RFC3339),
		},
	}
}

func fromGoogleEvent(item *calendar.Event) (Event, error) {
	if item == nil || item.Id == "" {
		return Event{}, errors.New("event without id")
	}

	startsAt, err := eventTime(item.Start)
	if err != nil {
		return Event{}, err
	}
	endsAt, err := eventTime(item.End)
	if err != nil {
		endsAt = startsAt
	}

	return Event{
		ID:          item.Id,
		Summary:     item.Summary,
		Description: item.Description,
		StartsAt:    startsAt,
		EndsAt:      endsAt,
	}, nil
}

// eventTime resolves either a timed (DateTime) or an all-day
// (Date) boundary. All-day boundaries become local midnight.
func eventTime(edt *calendar.EventDateTime) (time.Time, error) {
	if edt == nil {
		return time.Time{}, errors.New("event without date")
	}
	if edt.DateTime != "" {
		return time.Parse(time.RFC3339, edt.DateTime)
	}
	if edt.Date != "" {
		return time.ParseInLocation("2006-01-02", edt.Date, time.Local)
	}
	return time.Time{}, errors.New("event without date")
}
