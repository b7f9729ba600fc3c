package services

import (
	"context"

	"github.com/adanyl0v/tasktrackr/internal/models"
	"github.com/adanyl0v/tasktrackr/internal/storage"
)

var ErrTaskNotFound = storage.ErrTaskNotFound

type TaskService interface {
	// CreateTask stores a new, uncompleted task owned by params.UserID.
	//
	// It returns a *storage.ValidationError if the title is blank
	// or the user ID is missing. No task is created in that case.
	CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error)

	// GetTasksByUserID returns all tasks owned by the user. The order is
	// whatever the store yields; an unknown user gets an empty slice.
	GetTasksByUserID(ctx context.Context, userID string) ([]*models.Task, error)

	// ToggleTask negates the task's completed flag and returns the
	// updated task.
	//
	// It returns ErrTaskNotFound if the task doesn't exist.
	ToggleTask(ctx context.Context, taskID string) (*models.Task, error)

	// DeleteTask removes the task for good.
	//
	// It returns ErrTaskNotFound if the task doesn't exist.
	DeleteTask(ctx context.Context, taskID string) error

	// Ping reports whether the underlying store is reachable.
	Ping(ctx context.Context) error
}

type CreateTaskParams struct {
	Title  string
	UserID string
}
