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

type taskServiceImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewTaskService(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
) TaskService {
	return &taskServiceImpl{
		logger: logger,
		pgPool: pgPool,
	}
}

func validTaskStatus(status string) bool {
	return status == models.StatusPending ||
		status == models.StatusInProgress ||
		status == models.StatusDone
}

func validPriority(priority string) bool {
	return priority == models.PriorityHigh ||
		priority == models.PriorityMedium ||
		priority == models.PriorityLow
}

// MatchesFilters reports whether a task passes the board filters.
// Filtering happens over the full fetched list, matching how the
// board applies its priority and due-date dropdowns.
func MatchesFilters(task *models.Task, filters TaskFilters, now time.Time) bool {
	if filters.Status != "" && task.Status != filters.Status {
		return false
	}
	if filters.Priority != "" && task.Priority != filters.Priority {
		return false
	}

	switch filters.DueBucket {
	case DueBucketAll:
		return true
	case DueBucketOverdue:
		return task.DueDate != nil && task.DueDate.Before(now)
	case DueBucketWeek:
		return task.DueDate != nil &&
			!task.DueDate.Before(now) &&
			task.DueDate.Before(now.AddDate(0, 0, 7))
	default:
		return true
	}
}

func (s *taskServiceImpl) ListTasks(ctx context.Context, userID string, filters TaskFilters) ([]*models.Task, error) {
	const selectTasksByUserIDQuery = `
SELECT id,
       title,
       description,
       priority,
       due_date,
       status,
       created_at,
       updated_at
FROM tasks
WHERE user_id = $1
ORDER BY created_at DESC
`
	rows, err := s.pgPool.Query(ctx, selectTasksByUserIDQuery, userID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select tasks by user id")
		return nil, err
	}
	defer rows.Close()

	now := time.Now()
	var tasks []*models.Task
	for rows.Next() {
		task := &models.Task{UserID: userID}
		err = rows.Scan(
			&task.ID,
			&task.Title,
			&task.Description,
			&task.Priority,
			&task.DueDate,
			&task.Status,
			&task.CreatedAt,
			&task.UpdatedAt,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan task")
			return nil, err
		}
		if MatchesFilters(task, filters, now) {
			tasks = append(tasks, task)
		}
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}

	s.logger.Debug().
		Int("count", len(tasks)).
		Str("user_id", userID).
		Msg("selected tasks by user id")
	return tasks, nil
}

func (s *taskServiceImpl) CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error) {
	priority := params.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !validPriority(priority) {
		return nil, ErrInvalidPriority
	}

	now := time.Now()
	task := &models.Task{
		UserID:      params.UserID,
		Title:       params.Title,
		Description: params.Description,
		Priority:    priority,
		DueDate:     params.DueDate,
		Status:      models.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	taskID, err := uuid7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate task uuid")
		return nil, err
	}
	task.ID = taskID

	const insertTaskQuery = `
INSERT INTO tasks (id,
                   user_id,
                   title,
                   description,
                   priority,
                   due_date,
                   status,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`
	_, err = s.pgPool.Exec(
		ctx,
		insertTaskQuery,
		task.ID,
		task.UserID,
		task.Title,
		task.Description,
		task.Priority,
		task.DueDate,
		task.Status,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to insert task")
		return nil, err
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("user_id", task.UserID).
		Msg("created task")
	return task, nil
}

func (s *taskServiceImpl) UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error) {
	if params.Priority != nil && !validPriority(*params.Priority) {
		return nil, ErrInvalidPriority
	}

	task := &models.Task{
		ID:        params.ID,
		UserID:    params.UserID,
		UpdatedAt: time.Now(),
	}

	const updateTaskQuery = `
UPDATE tasks
SET title = COALESCE($1, title),
    description = COALESCE($2, description),
    priority = COALESCE($3, priority),
    due_date = COALESCE($4, due_date),
    updated_at = $5
WHERE id = $6 AND user_id = $7
RETURNING title, description, priority, due_date, status, created_at
`
	err := s.pgPool.QueryRow(
		ctx,
		updateTaskQuery,
		params.Title,
		params.Description,
		params.Priority,
		params.DueDate,
		task.UpdatedAt,
		task.ID,
		task.UserID,
	).Scan(
		&task.Title,
		&task.Description,
		&task.Priority,
		&task.DueDate,
		&task.Status,
		&task.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Error().
				Str("task_id", task.ID).
				Str("user_id", task.UserID).
				Msg("task not found")
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", task.ID).
			Msg("failed to update task")
		return nil, err
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("user_id", task.UserID).
		Msg("updated task")
	return task, nil
}

func (s *taskServiceImpl) SetTaskStatus(ctx context.Context, params SetTaskStatusParams) (*models.Task, error) {
	if !validTaskStatus(params.Status) {
		return nil, ErrInvalidTaskStatus
	}

	task := &models.Task{
		ID:        params.ID,
		UserID:    params.UserID,
		Status:    params.Status,
		UpdatedAt: time.Now(),
	}

	const updateTaskStatusQuery = `
UPDATE tasks
SET status = $1,
    updated_at = $2
WHERE id = $3 AND user_id = $4
RETURNING title, description, priority, due_date, created_at
`
	err := s.pgPool.QueryRow(
		ctx,
		updateTaskStatusQuery,
		task.Status,
		task.UpdatedAt,
		task.ID,
		task.UserID,
	).Scan(
		&task.Title,
		&task.Description,
		&task.Priority,
		&task.DueDate,
		&task.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Error().
				Str("task_id", task.ID).
				Str("user_id", task.UserID).
				Msg("task not found")
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", task.ID).
			Msg("failed to update task status")
		return nil, err
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("status", task.Status).
		Msg("updated task status")
	return task, nil
}

func (s *taskServiceImpl) DeleteTask(ctx context.Context, userID, taskID string) error {
	const deleteTaskQuery = `
DELETE FROM tasks
WHERE id = $1 AND user_id = $2
`
	tag, err := s.pgPool.Exec(ctx, deleteTaskQuery, taskID, userID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to delete task")
		return err
	}
	if tag.RowsAffected() == 0 {
		s.logger.Error().
			Str("task_id", taskID).
			Str("user_id", userID).
			Msg("task not found")
		return ErrTaskNotFound
	}

	s.logger.Info().
		Str("task_id", taskID).
		Str("user_id", userID).
		Msg("deleted task")
	return nil
}
