package calendar

import (
	ics "github.com/arran4/golang-ical"

	"github.com/patomdq/wallest-operating-system-sub000/internal/models"
)

// BuildICS serializes the event list into a VCALENDAR payload so
// the events can be subscribed to from any external calendar app.
// UIDs are the event ids, timestamps are emitted in UTC.
func BuildICS(events []*models.Event) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//WOS//Calendar//ES")

	for _, event := range events {
		vevent := cal.AddEvent(event.ID)
		vevent.SetSummary(event.Title)
		if event.Description != "" {
			vevent.SetDescription(event.Description)
		}
		vevent.SetStartAt(event.StartsAt.UTC())
		vevent.SetEndAt(event.EndsAt.UTC())
		vevent.SetDtStampTime(event.UpdatedAt.UTC())
		vevent.SetCreatedTime(event.CreatedAt.UTC())
		vevent.SetModifiedAt(event.UpdatedAt.UTC())
	}
	return cal.Serialize()
}
