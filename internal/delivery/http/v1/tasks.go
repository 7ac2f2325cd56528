package v1

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JesusMarth/qa-automation-project/internal/models"
)

type taskResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newTaskResponse(task *models.Task) taskResponse {
	return taskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

const selectTaskColumns = `
SELECT id, title, description, status, priority, created_at, updated_at
FROM tasks
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner, task *models.Task) error {
	return row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.Priority,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
}

// HandleListTasks returns every task, newest first. Known limitation: no
// pagination, the whole table goes out in one page.
func (h *handlerImpl) HandleListTasks(c *gin.Context) {
	const selectTasksQuery = selectTaskColumns + `ORDER BY created_at DESC`

	rows, err := h.store.DB.QueryContext(c, selectTasksQuery)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to select tasks")
		abort(c, newInternalError(msgTaskListFailed))
		return
	}
	defer rows.Close()

	tasks := make([]taskResponse, 0)
	for rows.Next() {
		var task models.Task
		err = scanTask(rows, &task)
		if err != nil {
			h.logger.Error().
				Err(err).
				Msg("failed to scan task")
			abort(c, newInternalError(msgTaskListFailed))
			return
		}
		tasks = append(tasks, newTaskResponse(&task))
	}

	err = rows.Err()
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		abort(c, newInternalError(msgTaskListFailed))
		return
	}

	h.logger.Debug().
		Int("count", len(tasks)).
		Msg("selected tasks")
	c.JSON(http.StatusOK, tasks)
}

func (h *handlerImpl) HandleGetTask(c *gin.Context) {
	id := c.Param("id")

	// Seeded bug: the id is interpolated straight into the query text,
	// so the endpoint is injectable.
	query := fmt.Sprintf(selectTaskColumns+`WHERE id = %s`, id)

	var task models.Task
	err := scanTask(h.store.DB.QueryRowContext(c, query), &task)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			h.logger.Warn().
				Str("id", id).
				Msg("task not found")
			abort(c, newNotFoundError(msgTaskNotFound))
			return
		}

		h.logger.Error().
			Err(err).
			Str("id", id).
			Msg("failed to select task")
		abort(c, newInternalError(msgTaskGetFailed))
		return
	}

	h.logger.Debug().
		Int64("id", task.ID).
		Msg("selected task")
	c.JSON(http.StatusOK, newTaskResponse(&task))
}

type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	var req createTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil && !errors.Is(err, io.EOF) {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(msgInvalidBody))
		return
	}

	// Seeded bug: the only validation is a non-empty trimmed title; no
	// length cap, no character checks, no priority enum check.
	if strings.TrimSpace(req.Title) == "" {
		h.logger.Warn().Msg("missing task title")
		abort(c, newBadRequestError(msgTaskTitleRequired))
		return
	}

	if req.Priority == "" {
		req.Priority = models.PriorityMedium
	}

	now := time.Now()
	insertTaskQuery := h.store.Rebind(`
INSERT INTO tasks (title, description, priority, created_at, updated_at)
VALUES (?, ?, ?, ?, ?) RETURNING id
`)

	var taskID int64
	err = h.store.DB.QueryRowContext(
		c,
		insertTaskQuery,
		req.Title,
		req.Description,
		req.Priority,
		now,
		now,
	).Scan(&taskID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to insert task")
		abort(c, newInternalError(msgTaskCreateFailed))
		return
	}
	h.logger.Debug().
		Int64("id", taskID).
		Msg("inserted task")

	// Re-read the row so the caller gets the server-computed fields.
	// This is a second round trip with no transaction around the pair.
	selectTaskQuery := h.store.Rebind(selectTaskColumns + `WHERE id = ?`)

	var task models.Task
	err = scanTask(h.store.DB.QueryRowContext(c, selectTaskQuery, taskID), &task)
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("id", taskID).
			Msg("failed to select created task")
		abort(c, newInternalError(msgTaskReadBackFailed))
		return
	}

	h.logger.Info().
		Int64("id", task.ID).
		Msg("created task")
	c.JSON(http.StatusCreated, newTaskResponse(&task))
}

type updateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
}

// HandleUpdateTask overwrites all four columns unconditionally. A field
// missing from the body is written as its zero value, not preserved, and
// status/priority are never checked against their enumerations.
func (h *handlerImpl) HandleUpdateTask(c *gin.Context) {
	var req updateTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil && !errors.Is(err, io.EOF) {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(msgInvalidBody))
		return
	}

	taskID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.logger.Warn().
			Str("id", c.Param("id")).
			Msg("non-numeric task id")
		abort(c, newNotFoundError(msgTaskNotFound))
		return
	}

	updateTaskQuery := h.store.Rebind(`
UPDATE tasks SET title = ?, description = ?, status = ?, priority = ?, updated_at = ?
WHERE id = ?
`)

	result, err := h.store.DB.ExecContext(
		c,
		updateTaskQuery,
		req.Title,
		req.Description,
		req.Status,
		req.Priority,
		time.Now(),
		taskID,
	)
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("id", taskID).
			Msg("failed to update task")
		abort(c, newInternalError(msgTaskUpdateFailed))
		return
	}

	affected, err := result.RowsAffected()
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to read affected rows")
		abort(c, newInternalError(msgTaskUpdateFailed))
		return
	}
	if affected == 0 {
		h.logger.Warn().
			Int64("id", taskID).
			Msg("task not found")
		abort(c, newNotFoundError(msgTaskNotFound))
		return
	}

	h.logger.Info().
		Int64("id", taskID).
		Msg("updated task")
	c.JSON(http.StatusOK, gin.H{"message": msgTaskUpdated})
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	taskID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.logger.Warn().
			Str("id", c.Param("id")).
			Msg("non-numeric task id")
		abort(c, newNotFoundError(msgTaskNotFound))
		return
	}

	deleteTaskQuery := h.store.Rebind(`DELETE FROM tasks WHERE id = ?`)

	result, err := h.store.DB.ExecContext(c, deleteTaskQuery, taskID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("id", taskID).
			Msg("failed to delete task")
		abort(c, newInternalError(msgTaskDeleteFailed))
		return
	}

	affected, err := result.RowsAffected()
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to read affected rows")
		abort(c, newInternalError(msgTaskDeleteFailed))
		return
	}
	if affected == 0 {
		h.logger.Warn().
			Int64("id", taskID).
			Msg("task not found")
		abort(c, newNotFoundError(msgTaskNotFound))
		return
	}

	h.logger.Info().
		Int64("id", taskID).
		Msg("deleted task")
	c.JSON(http.StatusOK, gin.H{"message": msgTaskDeleted})
}
