package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/patomdq/wallest-operating-system-sub000/internal/calendar"
)

type calendarCellResponse struct {
	Date    string             `json:"date"`
	InMonth bool               `json:"in_month"`
	Events  []getEventResponse `json:"events"`
	More    int                `json:"more,omitempty"`
}

type getCalendarResponse struct {
	View   calendar.View          `json:"view"`
	Cursor time.Time              `json:"cursor"`
	Cells  []calendarCellResponse `json:"cells,omitempty"`
	Events []getEventResponse     `json:"events,omitempty"`
}

// HandleGetCalendar renders the month/week/day view for the
// cursor date. The tz query selects the civil-day boundaries;
// storage stays UTC.
func (h *handlerImpl) HandleGetCalendar(c *gin.Context) {
	userID, ok := getStringFromContext(c, userIDCtxKey)
	if !ok {
		h.logger.Error().Msg("no user id found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	view := calendar.View(c.DefaultQuery("view", string(calendar.ViewMonth)))
	switch view {
	case calendar.ViewMonth, calendar.ViewWeek, calendar.ViewDay:
	default:
		abort(c, newBadRequestError("unknown view"))
		return
	}

	loc := time.Local
	if raw := c.Query("tz"); raw != "" {
		parsed, err := time.LoadLocation(raw)
		if err != nil {
			abort(c, newBadRequestError("unknown timezone"))
			return
		}
		loc = parsed
	}

	cursor := calendar.Today(loc)
	if raw := c.Query("cursor"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			abort(c, newBadRequestError("invalid cursor"))
			return
		}
		cursor = parsed
	}

	events, err := h.events.ListEvents(c, userID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to list events")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	response := getCalendarResponse{View: view, Cursor: cursor}
	switch view {
	case calendar.ViewMonth:
		response.Cells = newCellResponses(calendar.MonthGrid(cursor, events, loc))
	case calendar.ViewWeek:
		response.Cells = newCellResponses(calendar.WeekDays(cursor, events, loc))
	case calendar.ViewDay:
		dayEvents := calendar.DayEvents(cursor, events, loc)
		response.Events = make([]getEventResponse, len(dayEvents))
		for i, event := range dayEvents {
			response.Events[i] = newGetEventResponse(event)
		}
	}
	c.JSON(http.StatusOK, response)
}

func newCellResponses(cells []calendar.DayCell) []calendarCellResponse {
	response := make([]calendarCellResponse, len(cells))
	for i, cell := range cells {
		events := make([]getEventResponse, len(cell.Events))
		for j, event := range cell.Events {
			events[j] = newGetEventResponse(event)
		}
		response[i] = calendarCellResponse{
			Date:    cell.Date.Format(time.DateOnly),
			InMonth: cell.InMonth,
			Events:  events,
			More:    cell.More,
		}
	}
	return response
}

func (h *handlerImpl) HandleExportICS(c *gin.Context) {
	userID, ok := getStringFromContext(c, userIDCtxKey)
	if !ok {
		h.logger.Error().Msg("no user id found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	events, err := h.events.ListEvents(c, userID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to list events")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.Header("Content-Disposition", `attachment; filename="wos-calendar.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8",
		[]byte(calendar.BuildICS(events)))
}
