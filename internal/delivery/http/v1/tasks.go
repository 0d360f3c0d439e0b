package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/patomdq/wallest-operating-system-sub000/internal/models"
	"github.com/patomdq/wallest-operating-system-sub000/internal/services"
)

type getTaskResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func newGetTaskResponse(task *models.Task) getTaskResponse {
	return getTaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Priority:    task.Priority,
		DueDate:     task.DueDate,
		Status:      task.Status,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

func (h *handlerImpl) HandleGetTasks(c *gin.Context) {
	userID, ok := getStringFromContext(c, userIDCtxKey)
	if !ok {
		h.logger.Error().Msg("no user id found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	filters := services.TaskFilters{
		Status:    c.Query("status"),
		Priority:  c.Query("priority"),
		DueBucket: c.Query("due"),
	}

	tasks, err := h.tasks.ListTasks(c, userID, filters)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to list tasks")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	response := make([]getTaskResponse, len(tasks))
	for i, task := range tasks {
		response[i] = newGetTaskResponse(task)
	}
	c.JSON(http.StatusOK, response)
}

type createTaskRequest struct {
	Title       string     `json:"title" binding:"required,max=255"`
	Description *string    `json:"description,omitempty"`
	Priority    string     `json:"priority" binding:"omitempty,oneof=high medium low"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	userID, ok := getStringFromContext(c, userIDCtxKey)
	if !ok {
		h.logger.Error().Msg("no user id found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	var req createTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	params := services.CreateTaskParams{
		UserID:   userID,
		Title:    req.Title,
		Priority: req.Priority,
		DueDate:  req.DueDate,
	}
	if req.Description != nil {
		params.Description = *req.Description
	}

	task, err := h.tasks.CreateTask(c, params)
	if err != nil {
		if errors.Is(err, services.ErrInvalidPriority) {
			abort(c, newBadRequestError(services.ErrInvalidPriority.Error()))
			return
		}

		h.logger.Error().
			Err(err).
			Msg("failed to create task")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}
	c.JSON(http.StatusCreated, newGetTaskResponse(task))
}

type updateTaskRequest struct {
	Title       *string    `json:"title,omitempty" binding:"omitempty,max=255"`
	Description *string    `json:"description,omitempty"`
	Priority    *string    `json:"priority,omitempty" binding:"omitempty,oneof=high medium low"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

func (h *handlerImpl) HandleUpdateTask(c *gin.Context) {
	userID, ok := getStringFromContext(c, userIDCtxKey)
	if !ok {
		h.logger.Error().Msg("no user id found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	var req updateTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	task, err := h.tasks.UpdateTask(c, services.UpdateTaskParams{
		ID:          c.Param("id"),
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTaskNotFound):
			abort(c, newNotFoundError(services.ErrTaskNotFound.Error()))
		case errors.Is(err, services.ErrInvalidPriority):
			abort(c, newBadRequestError(services.ErrInvalidPriority.Error()))
		default:
			h.logger.Error().
				Err(err).
				Msg("failed to update task")
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}
	c.JSON(http.StatusOK, newGetTaskResponse(task))
}

type setTaskStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending in_progress done"`
}

// HandleSetTaskStatus serves both the explicit advance button and
// a drag-and-drop onto a column: either way the client sends the
// target column.
func (h *handlerImpl) HandleSetTaskStatus(c *gin.Context) {
	userID, ok := getStringFromContext(c, userIDCtxKey)
	if !ok {
		h.logger.Error().Msg("no user id found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	var req setTaskStatusRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	task, err := h.tasks.SetTaskStatus(c, services.SetTaskStatusParams{
		ID:     c.Param("id"),
		UserID: userID,
		Status: req.Status,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTaskNotFound):
			abort(c, newNotFoundError(services.ErrTaskNotFound.Error()))
		case errors.Is(err, services.ErrInvalidTaskStatus):
			abort(c, newBadRequestError(services.ErrInvalidTaskStatus.Error()))
		default:
			h.logger.Error().
				Err(err).
				Msg("failed to update task status")
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}
	c.JSON(http.StatusOK, newGetTaskResponse(task))
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	userID, ok := getStringFromContext(c, userIDCtxKey)
	if !ok {
		h.logger.Error().Msg("no user id found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	err := h.tasks.DeleteTask(c, userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			abort(c, newNotFoundError(services.ErrTaskNotFound.Error()))
			return
		}

		h.logger.Error().
			Err(err).
			Msg("failed to delete task")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}
	c.Status(http.StatusNoContent)
}
