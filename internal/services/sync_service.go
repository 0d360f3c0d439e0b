package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"github.com/patomdq/wallest-operating-system-sub000/internal/gcal"
	"github.com/patomdq/wallest-operating-system-sub000/internal/models"
)

// stateTTL bounds how long a consent redirect may take before
// the callback rejects it.
const stateTTL = 10 * time.Minute

type syncServiceImpl struct {
	logger          zerolog.Logger
	pgPool          *pgxpool.Pool
	api             gcal.API
	stateSigningKey []byte
}

func NewSyncService(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
	api gcal.API,
	stateSigningKey []byte,
) SyncService {
	return &syncServiceImpl{
		logger:          logger,
		pgPool:          pgPool,
		api:             api,
		stateSigningKey: stateSigningKey,
	}
}

func (s *syncServiceImpl) AuthURL(userID string) (string, error) {
	// The callback arrives as a bare browser redirect, so the
	// user identity has to travel inside the signed state.
	now := time.Now()
	state := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(stateTTL)),
	})

	signed, err := state.SignedString(s.stateSigningKey)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to sign oauth state")
		return "", err
	}
	return s.api.AuthCodeURL(signed), nil
}

func (s *syncServiceImpl) Exchange(ctx context.Context, state, code string) error {
	userID, err := s.parseState(state)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("rejected oauth state")
		return ErrInvalidOAuthState
	}

	token, err := s.api.Exchange(ctx, code)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to exchange authorization code")
		return err
	}

	now := time.Now()
	const upsertCredentialQuery = `
INSERT INTO google_credentials (user_id,
                                access_token,
                                refresh_token,
                                token_type,
                                expiry,
                                created_at,
                                updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $6)
ON CONFLICT (user_id) DO UPDATE
SET access_token = EXCLUDED.access_token,
    refresh_token = CASE WHEN EXCLUDED.refresh_token <> ''
                         THEN EXCLUDED.refresh_token
                         ELSE google_credentials.refresh_token END,
    token_type = EXCLUDED.token_type,
    expiry = EXCLUDED.expiry,
    updated_at = EXCLUDED.updated_at
`
	_, err = s.pgPool.Exec(
		ctx,
		upsertCredentialQuery,
		userID,
		token.AccessToken,
		token.RefreshToken,
		token.TokenType,
		token.Expiry,
		now,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to store google credential")
		return err
	}

	s.logger.Info().
		Str("user_id", userID).
		Msg("connected google calendar")
	return nil
}

func (s *syncServiceImpl) parseState(state string) (string, error) {
	token, err := jwt.ParseWithClaims(
		state,
		&jwt.RegisteredClaims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.stateSigningKey, nil
		},
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", errors.New("state without subject")
	}
	return claims.Subject, nil
}

// loadCredential returns ErrGoogleNotConnected when the user has
// never completed the consent flow (or has disconnected).
func (s *syncServiceImpl) loadCredential(ctx context.Context, userID string) (*models.GoogleCredential, error) {
	const selectCredentialQuery = `
SELECT access_token,
       refresh_token,
       token_type,
       expiry,
       last_sync_at
FROM google_credentials
WHERE user_id = $1
`
	credential := &models.GoogleCredential{UserID: userID}
	err := s.pgPool.QueryRow(ctx, selectCredentialQuery, userID).Scan(
		&credential.AccessToken,
		&credential.RefreshToken,
		&credential.TokenType,
		&credential.Expiry,
		&credential.LastSyncAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGoogleNotConnected
		}

		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to select google credential")
		return nil, err
	}
	return credential, nil
}

func oauthToken(credential *models.GoogleCredential) *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  credential.AccessToken,
		RefreshToken: credential.RefreshToken,
		TokenType:    credential.TokenType,
		Expiry:       credential.Expiry,
	}
}

func (s *syncServiceImpl) Status(ctx context.Context, userID string) (*models.SyncStatus, error) {
	status := &models.SyncStatus{}

	credential, err := s.loadCredential(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrGoogleNotConnected) {
			// Still report the local counts for a disconnected user.
			credential = nil
		} else {
			return nil, err
		}
	}
	if credential != nil {
		status.Connected = true
		status.LastSync = credential.LastSyncAt
	}

	const selectSyncCountsQuery = `
SELECT count(*),
       count(*) FILTER (WHERE sync_status = 'synced'),
       count(*) FILTER (WHERE sync_status = 'unsynced'),
       count(*) FILTER (WHERE sync_status = 'error')
FROM events
WHERE user_id = $1
`
	err = s.pgPool.QueryRow(ctx, selectSyncCountsQuery, userID).Scan(
		&status.TotalEvents,
		&status.SyncedEvents,
		&status.PendingEvents,
		&status.ErrorEvents,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to count sync statuses")
		return nil, err
	}
	return status, nil
}

func (s *syncServiceImpl) PushEvent(ctx context.Context, userID, eventID string) error {
	credential, err := s.loadCredential(ctx, userID)
	if err != nil {
		return err
	}

	const selectEventQuery = `
SELECT title, description, starts_at, ends_at, google_event_id
FROM events
WHERE id = $1 AND user_id = $2
`
	event := models.Event{ID: eventID, UserID: userID}
	err = s.pgPool.QueryRow(ctx, selectEventQuery, eventID, userID).Scan(
		&event.Title,
		&event.Description,
		&event.StartsAt,
		&event.EndsAt,
		&event.GoogleEventID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrEventNotFound
		}

		s.logger.Error().
			Err(err).
			Str("event_id", eventID).
			Msg("failed to select event for push")
		return err
	}

	external := gcal.Event{
		Summary:     event.Title,
		Description: event.Description,
		StartsAt:    event.StartsAt,
		EndsAt:      event.EndsAt,
	}

	token := oauthToken(credential)
	googleEventID := ""
	if event.GoogleEventID != nil {
		external.ID = *event.GoogleEventID
		googleEventID = *event.GoogleEventID
		err = s.api.UpdateEvent(ctx, token, external)
	} else {
		googleEventID, err = s.api.InsertEvent(ctx, token, external)
	}
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("event_id", eventID).
			Msg("failed to push event to google")
		s.markSyncStatus(ctx, userID, eventID, models.SyncStatusError)
		return err
	}

	const markSyncedQuery = `
UPDATE events
SET google_event_id = $1,
    sync_status = $2,
    updated_at = $3
WHERE id = $4 AND user_id = $5
`
	_, err = s.pgPool.Exec(
		ctx,
		markSyncedQuery,
		googleEventID,
		models.SyncStatusSynced,
		time.Now(),
		eventID,
		userID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("event_id", eventID).
			Msg("failed to mark event synced")
		return err
	}

	s.logger.Info().
		Str("event_id", eventID).
		Str("google_event_id", googleEventID).
		Msg("pushed event to google")
	return nil
}

// markSyncStatus is best effort: a failed push already reports an
// error to the caller.
func (s *syncServiceImpl) markSyncStatus(ctx context.Context, userID, eventID, status string) {
	const markQuery = `
UPDATE events
SET sync_status = $1,
    updated_at = $2
WHERE id = $3 AND user_id = $4
`
	_, err := s.pgPool.Exec(ctx, markQuery, status, time.Now(), eventID, userID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("event_id", eventID).
			Str("sync_status", status).
			Msg("failed to mark sync status")
	}
}

func (s *syncServiceImpl) PullAll(ctx context.Context, userID string) (int, error) {
	credential, err := s.loadCredential(ctx, userID)
	if err != nil {
		return 0, err
	}

	var updatedSince time.Time
	if credential.LastSyncAt != nil {
		updatedSince = *credential.LastSyncAt
	}

	externals, err := s.api.ListEvents(ctx, oauthToken(credential), updatedSince)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to list google events")
		return 0, err
	}

	// Upsert on the stable external id so repeated pulls never
	// duplicate. The external version wins over local edits.
	const upsertExternalEventQuery = `
INSERT INTO events (id,
                    user_id,
                    title,
                    description,
                    starts_at,
                    ends_at,
                    is_external,
                    google_event_id,
                    sync_status,
                    created_at,
                    updated_at)
VALUES ($1, $2, $3, $4, $5, $6, TRUE, $7, 'synced', $8, $8)
ON CONFLICT (user_id, google_event_id) WHERE google_event_id IS NOT NULL DO UPDATE
SET title = EXCLUDED.title,
    description = EXCLUDED.description,
    starts_at = EXCLUDED.starts_at,
    ends_at = EXCLUDED.ends_at,
    sync_status = 'synced',
    updated_at = EXCLUDED.updated_at
`
	imported := 0
	now := time.Now()
	for _, external := range externals {
		eventUUID, err := uuid7()
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to generate event uuid")
			return imported, err
		}

		_, err = s.pgPool.Exec(
			ctx,
			upsertExternalEventQuery,
			eventUUID,
			userID,
			external.Summary,
			external.Description,
			external.StartsAt,
			external.EndsAt,
			external.ID,
			now,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Str("google_event_id", external.ID).
				Msg("failed to upsert external event")
			return imported, err
		}
		imported++
	}

	const touchLastSyncQuery = `
UPDATE google_credentials
SET last_sync_at = $1,
    updated_at = $1
WHERE user_id = $2
`
	_, err = s.pgPool.Exec(ctx, touchLastSyncQuery, now, userID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to touch last sync marker")
		return imported, err
	}

	s.logger.Info().
		Int("imported", imported).
		Str("user_id", userID).
		Msg("pulled google events")
	return imported, nil
}

func (s *syncServiceImpl) UnsyncEvent(ctx context.Context, userID, eventID string) error {
	credential, err := s.loadCredential(ctx, userID)
	if err != nil {
		return err
	}

	const selectGoogleEventIDQuery = `
SELECT google_event_id
FROM events
WHERE id = $1 AND user_id = $2
`
	var googleEventID *string
	err = s.pgPool.QueryRow(ctx, selectGoogleEventIDQuery, eventID, userID).
		Scan(&googleEventID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrEventNotFound
		}

		s.logger.Error().
			Err(err).
			Str("event_id", eventID).
			Msg("failed to select event for unsync")
		return err
	}
	if googleEventID == nil {
		// Nothing to disassociate.
		return nil
	}

	err = s.api.DeleteEvent(ctx, oauthToken(credential), *googleEventID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("event_id", eventID).
			Str("google_event_id", *googleEventID).
			Msg("failed to delete google event")
		return err
	}

	const clearSyncMetadataQuery = `
UPDATE events
SET google_event_id = NULL,
    is_external = FALSE,
    sync_status = 'unsynced',
    updated_at = $1
WHERE id = $2 AND user_id = $3
`
	_, err = s.pgPool.Exec(ctx, clearSyncMetadataQuery, time.Now(), eventID, userID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("event_id", eventID).
			Msg("failed to clear sync metadata")
		return err
	}

	s.logger.Info().
		Str("event_id", eventID).
		Msg("unsynced event")
	return nil
}

func (s *syncServiceImpl) Disconnect(ctx context.Context, userID string) error {
	credential, err := s.loadCredential(ctx, userID)
	if err != nil {
		return err
	}

	// Revocation failing must not keep the user connected.
	err = s.api.Revoke(ctx, oauthToken(credential))
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("user_id", userID).
			Msg("failed to revoke google token")
	}

	const deleteCredentialQuery = `
DELETE FROM google_credentials
WHERE user_id = $1
`
	_, err = s.pgPool.Exec(ctx, deleteCredentialQuery, userID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to delete google credential")
		return err
	}

	const resetSyncStatusQuery = `
UPDATE events
SET sync_status = 'unsynced',
    updated_at = $1
WHERE user_id = $2 AND sync_status = 'synced'
`
	_, err = s.pgPool.Exec(ctx, resetSyncStatusQuery, time.Now(), userID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to reset sync statuses")
		return err
	}

	s.logger.Info().
		Str("user_id", userID).
		Msg("disconnected google calendar")
	return nil
}
