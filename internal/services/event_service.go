package services

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/patomdq/wallest-operating-system-sub000/internal/models"
)

type eventServiceImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewEventService(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
) EventService {
	return &eventServiceImpl{
		logger: logger,
		pgPool: pgPool,
	}
}

const eventColumns = `id,
       title,
       description,
       starts_at,
       ends_at,
       reminder,
       project_id,
       is_external,
       google_event_id,
       sync_status,
       created_at,
       updated_at`

func scanEvent(row pgx.Row, event *models.Event) error {
	return row.Scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&event.StartsAt,
		&event.EndsAt,
		&event.Reminder,
		&event.ProjectID,
		&event.IsExternal,
		&event.GoogleEventID,
		&event.SyncStatus,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
}

func (s *eventServiceImpl) ListEvents(ctx context.Context, userID string) ([]*models.Event, error) {
	const selectEventsByUserIDQuery = `
SELECT ` + eventColumns + `
FROM events
WHERE user_id = $1
ORDER BY starts_at
`
	rows, err := s.pgPool.Query(ctx, selectEventsByUserIDQuery, userID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select events by user id")
		return nil, err
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		event := &models.Event{UserID: userID}
		err = scanEvent(rows, event)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan event")
			return nil, err
		}
		events = append(events, event)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}

	s.logger.Debug().
		Int("count", len(events)).
		Str("user_id", userID).
		Msg("selected events by user id")
	return events, nil
}

func (s *eventServiceImpl) GetEvent(ctx context.Context, userID, eventID string) (*models.Event, error) {
	const selectEventQuery = `
SELECT ` + eventColumns + `
FROM events
WHERE id = $1 AND user_id = $2
`
	event := &models.Event{UserID: userID}
	err := scanEvent(s.pgPool.QueryRow(ctx, selectEventQuery, eventID, userID), event)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Error().
				Str("event_id", eventID).
				Str("user_id", userID).
				Msg("event not found")
			return nil, ErrEventNotFound
		}

		s.logger.Error().
			Err(err).
			Str("event_id", eventID).
			Msg("failed to select event")
		return nil, err
	}
	return event, nil
}

func (s *eventServiceImpl) CreateEvent(ctx context.Context, params CreateEventParams) (*models.Event, error) {
	if params.EndsAt.Before(params.StartsAt) {
		return nil, ErrInvalidDateRange
	}

	now := time.Now()
	event := &models.Event{
		UserID:      params.UserID,
		Title:       params.Title,
		Description: params.Description,
		StartsAt:    params.StartsAt,
		EndsAt:      params.EndsAt,
		Reminder:    params.Reminder,
		ProjectID:   params.ProjectID,
		SyncStatus:  models.SyncStatusUnsynced,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	eventID, err := uuid7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate event uuid")
		return nil, err
	}
	event.ID = eventID

	const insertEventQuery = `
INSERT INTO events (id,
                    user_id,
                    title,
                    description,
                    starts_at,
                    ends_at,
                    reminder,
                    project_id,
                    sync_status,
                    created_at,
                    updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
`
	_, err = s.pgPool.Exec(
		ctx,
		insertEventQuery,
		event.ID,
		event.UserID,
		event.Title,
		event.Description,
		event.StartsAt,
		event.EndsAt,
		event.Reminder,
		event.ProjectID,
		event.SyncStatus,
		event.CreatedAt,
		event.UpdatedAt,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to insert event")
		return nil, err
	}

	s.logger.Info().
		Str("event_id", event.ID).
		Str("user_id", event.UserID).
		Msg("created event")
	return event, nil
}

func (s *eventServiceImpl) UpdateEvent(ctx context.Context, params UpdateEventParams) (*models.Event, error) {
	event, err := s.GetEvent(ctx, params.UserID, params.ID)
	if err != nil {
		return nil, err
	}

	if params.Title != nil {
		event.Title = *params.Title
	}
	if params.Description != nil {
		event.Description = *params.Description
	}
	if params.StartsAt != nil {
		event.StartsAt = *params.StartsAt
	}
	if params.EndsAt != nil {
		event.EndsAt = *params.EndsAt
	}
	if params.Reminder != nil {
		event.Reminder = *params.Reminder
	}
	if params.ProjectID != nil {
		event.ProjectID = params.ProjectID
	}
	if event.EndsAt.Before(event.StartsAt) {
		return nil, ErrInvalidDateRange
	}
	event.UpdatedAt = time.Now()

	const updateEventQuery = `
UPDATE events
SET title = $1,
    description = $2,
    starts_at = $3,
    ends_at = $4,
    reminder = $5,
    project_id = $6,
    updated_at = $7
WHERE id = $8 AND user_id = $9
`
	_, err = s.pgPool.Exec(
		ctx,
		updateEventQuery,
		event.Title,
		event.Description,
		event.StartsAt,
		event.EndsAt,
		event.Reminder,
		event.ProjectID,
		event.UpdatedAt,
		event.ID,
		event.UserID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("event_id", event.ID).
			Msg("failed to update event")
		return nil, err
	}

	s.logger.Info().
		Str("event_id", event.ID).
		Str("user_id", event.UserID).
		Msg("updated event")
	return event, nil
}

func (s *eventServiceImpl) DeleteEvent(ctx context.Context, userID, eventID string) error {
	const deleteEventQuery = `
DELETE FROM events
WHERE id = $1 AND user_id = $2
`
	tag, err := s.pgPool.Exec(ctx, deleteEventQuery, eventID, userID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("event_id", eventID).
			Msg("failed to delete event")
		return err
	}
	if tag.RowsAffected() == 0 {
		s.logger.Error().
			Str("event_id", eventID).
			Str("user_id", userID).
			Msg("event not found")
		return ErrEventNotFound
	}

	s.logger.Info().
		Str("event_id", eventID).
		Str("user_id", userID).
		Msg("deleted event")
	return nil
}

func (s *eventServiceImpl) DueReminders(ctx context.Context, from, to time.Time) ([]*models.Event, error) {
	const selectDueRemindersQuery = `
SELECT user_id, ` + eventColumns + `
FROM events
WHERE reminder AND
      starts_at >= $1 AND
      starts_at < $2
ORDER BY starts_at
`
	rows, err := s.pgPool.Query(ctx, selectDueRemindersQuery, from, to)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select due reminders")
		return nil, err
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		event := &models.Event{}
		err = rows.Scan(
			&event.UserID,
			&event.ID,
			&event.Title,
			&event.Description,
			&event.StartsAt,
			&event.EndsAt,
			&event.Reminder,
			&event.ProjectID,
			&event.IsExternal,
			&event.GoogleEventID,
			&event.SyncStatus,
			&event.CreatedAt,
			&event.UpdatedAt,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan due reminder")
			return nil, err
		}
		events = append(events, event)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}
	return events, nil
}
