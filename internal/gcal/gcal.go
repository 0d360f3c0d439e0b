// Package gcal wraps the Google Calendar v3 API behind a narrow
// interface so the sync service can be exercised without network
// access.
package gcal

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// Event is the normalized external event representation the
// bridge exchanges with Google Calendar.
type Event struct {
	ID          string
	Summary     string
	Description string
	StartsAt    time.Time
	EndsAt      time.Time
}

type API interface {
	// AuthCodeURL builds the consent URL the browser is
	// redirected to. The state round-trips through Google.
	AuthCodeURL(state string) string

	// Exchange trades an authorization code for a token.
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)

	// ListEvents returns external events, restricted to ones
	// updated after updatedSince when it is non-zero.
	ListEvents(ctx context.Context, token *oauth2.Token, updatedSince time.Time) ([]Event, error)

	// InsertEvent creates the external counterpart of a local
	// event and returns its external id.
	InsertEvent(ctx context.Context, token *oauth2.Token, event Event) (string, error)

	UpdateEvent(ctx context.Context, token *oauth2.Token, event Event) error
	DeleteEvent(ctx context.Context, token *oauth2.Token, eventID string) error

	// Revoke invalidates the token at Google. Best effort.
	Revoke(ctx context.Context, token *oauth2.Token) error
}

type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	CalendarID   string
}

type googleAPI struct {
	oauth      *oauth2.Config
	calendarID string
}

func NewGoogleAPI(cfg Config) API {
	calendarID := cfg.CalendarID
	if calendarID == "" {
		calendarID = "primary"
	}
	return &googleAPI{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{calendar.CalendarEventsScope},
			Endpoint:     google.Endpoint,
		},
		calendarID: calendarID,
	}
}

func (g *googleAPI) AuthCodeURL(state string) string {
	// Offline access so the SDK can refresh expired tokens on
	// its own; prompt=consent forces a refresh token on repeat
	// connections.
	return g.oauth.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"))
}

func (g *googleAPI) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := g.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	return token, nil
}

func (g *googleAPI) service(ctx context.Context, token *oauth2.Token) (*calendar.Service, error) {
	svc, err := calendar.NewService(ctx,
		option.WithTokenSource(g.oauth.TokenSource(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("failed to build calendar service: %w", err)
	}
	return svc, nil
}

func (g *googleAPI) ListEvents(ctx context.Context, token *oauth2.Token, updatedSince time.Time) ([]Event, error) {
	svc, err := g.service(ctx, token)
	if err != nil {
		return nil, err
	}

	call := svc.Events.List(g.calendarID).
		Context(ctx).
		SingleEvents(true).
		ShowDeleted(false).
		MaxResults(250)
	if !updatedSince.IsZero() {
		call = call.UpdatedMin(updatedSince.Format(time.RFC3339))
	}

	var events []Event
	pageToken := ""
	for {
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		list, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list calendar events: %w", err)
		}

		for _, item := range list.Items {
			event, err := fromGoogleEvent(item)
			if err != nil {
				// Skip events we cannot represent, such as
				// cancelled stubs without dates.
				continue
			}
			events = append(events, event)
		}

		pageToken = list.NextPageToken
		if pageToken == "" {
			break
		}
	}
	return events, nil
}

func (g *googleAPI) InsertEvent(ctx context.Context, token *oauth2.Token, event Event) (string, error) {
	svc, err := g.service(ctx, token)
	if err != nil {
		return "", err
	}

	inserted, err := svc.Events.Insert(g.calendarID, toGoogleEvent(event)).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to insert calendar event: %w", err)
	}
	return inserted.Id, nil
}

func (g *googleAPI) UpdateEvent(ctx context.Context, token *oauth2.Token, event Event) error {
	svc, err := g.service(ctx, token)
	if err != nil {
		return err
	}

	_, err = svc.Events.Update(g.calendarID, event.ID, toGoogleEvent(event)).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to update calendar event: %w", err)
	}
	return nil
}

func (g *googleAPI) DeleteEvent(ctx context.Context, token *oauth2.Token, eventID string) error {
	svc, err := g.service(ctx, token)
	if err != nil {
		return err
	}

	err = svc.Events.Delete(g.calendarID, eventID).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to delete calendar event: %w", err)
	}
	return nil
}

const revokeURL = "https://oauth2.googleapis.com/revoke"

func (g *googleAPI) Revoke(ctx context.Context, token *oauth2.Token) error {
	form := url.Values{"token": {token.AccessToken}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		revokeURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build revoke request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to revoke token: status %d", resp.StatusCode)
	}
	return nil
}
