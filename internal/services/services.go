package services

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/patomdq/wallest-operating-system-sub000/internal/models"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUserAlreadyExists    = errors.New("user already exists")
	ErrUserPasswordMismatch = errors.New("user password mismatch")
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionExpired       = errors.New("session expired")

	ErrEventNotFound    = errors.New("event not found")
	ErrInvalidDateRange = errors.New("event ends before it starts")

	ErrTaskNotFound      = errors.New("task not found")
	ErrInvalidTaskStatus = errors.New("invalid task status")
	ErrInvalidPriority   = errors.New("invalid task priority")

	ErrGoogleNotConnected = errors.New("google calendar is not connected")
	ErrInvalidOAuthState  = errors.New("invalid oauth state")
)

type AuthService interface {
	// Login authenticates the user by email and password.
	//
	// It deletes all sessions with the same user ID and creates
	// a new session and generates a new JWT token pair.
	//
	// It returns ErrUserNotFound if the user with the given
	// email doesn't exist or ErrUserPasswordMismatch if the
	// given password doesn't match the user's password.
	Login(ctx context.Context, params LoginParams) (*LoginResult, error)

	// Refresh updates the session with the given refresh token.
	//
	// It returns ErrSessionNotFound if the session with the
	// given refresh token doesn't exist or ErrSessionExpired
	// if the session is expired.
	Refresh(ctx context.Context, params RefreshParams) (*LoginResult, error)

	// Register a user with the given email and password.
	//
	// It hashes the password, generates a unique ID and creates a
	// session with the given fingerprint and a fresh JWT token pair.
	//
	// It returns ErrUserAlreadyExists if the user
	// with the given email already exists.
	Register(ctx context.Context, params LoginParams) (*LoginResult, error)

	// Logout invalidates all sessions with the given user ID.
	Logout(ctx context.Context, userID string) error

	// ParseJWTToken parses the given JWT token and returns the registered
	// claims or jwt.ErrTokenExpired if the token is expired.
	ParseJWTToken(token string) (*jwt.RegisteredClaims, error)
}

type SessionService interface {
	GetSessionByID(ctx context.Context, sessionID string) (*models.Session, error)
}

// EventService is the store behind every calendar view. Listing
// is ordered by start time ascending.
type EventService interface {
	ListEvents(ctx context.Context, userID string) ([]*models.Event, error)
	GetEvent(ctx context.Context, userID, eventID string) (*models.Event, error)
	CreateEvent(ctx context.Context, params CreateEventParams) (*models.Event, error)
	UpdateEvent(ctx context.Context, params UpdateEventParams) (*models.Event, error)
	DeleteEvent(ctx context.Context, userID, eventID string) error

	// DueReminders returns, across all users, the events flagged
	// for reminding whose start falls in [from, to).
	DueReminders(ctx context.Context, from, to time.Time) ([]*models.Event, error)
}

type TaskService interface {
	ListTasks(ctx context.Context, userID string, filters TaskFilters) ([]*models.Task, error)
	CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error)
	UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error)
	SetTaskStatus(ctx context.Context, params SetTaskStatusParams) (*models.Task, error)
	DeleteTask(ctx context.Context, userID, taskID string) error
}

// SyncService is the bridge between local events and the user's
// Google Calendar. Every method can fail on network or auth;
// failures never roll back local state.
type SyncService interface {
	// AuthURL builds the consent URL for the given user. The
	// state parameter carries the user identity back through
	// the OAuth redirect.
	AuthURL(userID string) (string, error)

	// Exchange handles the OAuth callback: it validates state,
	// trades the code for a token and persists the credential.
	Exchange(ctx context.Context, state, code string) error

	Status(ctx context.Context, userID string) (*models.SyncStatus, error)
	PushEvent(ctx context.Context, userID, eventID string) error
	PullAll(ctx context.Context, userID string) (int, error)
	UnsyncEvent(ctx context.Context, userID, eventID string) error
	Disconnect(ctx context.Context, userID string) error
}

// ReminderService scans for imminent events and raises each one
// exactly once per marker TTL. Scan returns how many
// notifications were raised.
type ReminderService interface {
	Scan(ctx context.Context, now time.Time) (int, error)
}

// Notifier delivers a raised reminder to whatever the user is
// listening on. The SSE hub implements it.
type Notifier interface {
	Notify(userID string, notification models.Notification)
}

type LoginParams struct {
	Email       string
	Password    string
	Fingerprint string
}

type LoginResult struct {
	UserID                string
	SessionID             string
	AccessToken           string
	AccessTokenExpiresAt  time.Time
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
}

type RefreshParams struct {
	RefreshToken string
	Fingerprint  string
}

type CreateEventParams struct {
	UserID      string
	Title       string
	Description string
	StartsAt    time.Time
	EndsAt      time.Time
	Reminder    bool
	ProjectID   *string
}

type UpdateEventParams struct {
	ID          string
	UserID      string
	Title       *string
	Description *string
	StartsAt    *time.Time
	EndsAt      *time.Time
	Reminder    *bool
	ProjectID   *string
}

const (
	DueBucketAll     = ""
	DueBucketOverdue = "overdue"
	DueBucketWeek    = "week"
)

type TaskFilters struct {
	Status    string
	Priority  string
	DueBucket string
}

type CreateTaskParams struct {
	UserID      string
	Title       string
	Description string
	Priority    string
	DueDate     *time.Time
}

type UpdateTaskParams struct {
	ID          string
	UserID      string
	Title       *string
	Description *string
	Priority    *string
	DueDate     *time.Time
}

type SetTaskStatusParams struct {
	ID     string
	UserID string
	Status string
}
