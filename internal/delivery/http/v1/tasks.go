package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/tasktrackr/internal/models"
	"github.com/adanyl0v/tasktrackr/internal/services"
	"github.com/adanyl0v/tasktrackr/internal/storage"
)

type taskResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newTaskResponse(task *models.Task) taskResponse {
	return taskResponse{
		ID:        task.ID,
		Title:     task.Title,
		Completed: task.Completed,
		UserID:    task.UserID,
		CreatedAt: task.CreatedAt,
		UpdatedAt: task.UpdatedAt,
	}
}

// Presence is checked by the store so that its message reaches the caller.
type createTaskRequest struct {
	Title  string `json:"title"`
	UserID string `json:"userId"`
}

type deleteTaskResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	var req createTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	task, err := h.tasks.CreateTask(c, services.CreateTaskParams{
		Title:  req.Title,
		UserID: req.UserID,
	})
	if err != nil {
		h.abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newTaskResponse(task))
}

func (h *handlerImpl) HandleGetTasks(c *gin.Context) {
	userID := c.Param("userId")

	tasks, err := h.tasks.GetTasksByUserID(c, userID)
	if err != nil {
		h.abortWithServiceError(c, err)
		return
	}

	response := make([]taskResponse, len(tasks))
	for i, task := range tasks {
		response[i] = newTaskResponse(task)
	}
	c.JSON(http.StatusOK, response)
}

func (h *handlerImpl) HandleToggleTask(c *gin.Context) {
	taskID := c.Param("taskId")

	task, err := h.tasks.ToggleTask(c, taskID)
	if err != nil {
		h.abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	taskID := c.Param("taskId")

	err := h.tasks.DeleteTask(c, taskID)
	if err != nil {
		h.abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, deleteTaskResponse{
		Message: "task deleted",
		ID:      taskID,
	})
}

// abortWithServiceError maps service errors onto responses. Anything the
// caller can't act on is reported with the bare status text.
func (h *handlerImpl) abortWithServiceError(c *gin.Context, err error) {
	var vErr *storage.ValidationError
	switch {
	case errors.As(err, &vErr):
		abort(c, newBadRequestError(vErr.Message))
	case errors.Is(err, services.ErrTaskNotFound):
		abort(c, newNotFoundError(services.ErrTaskNotFound.Error()))
	default:
		h.logger.Error().
			Err(err).
			Str("route", c.FullPath()).
			Msg("request failed")
		abort(c, newStatusTextError(http.StatusInternalServerError))
	}
}
