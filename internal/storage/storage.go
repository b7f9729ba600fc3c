// Package storage defines the Task Store contract shared by every driver.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/adanyl0v/tasktrackr/internal/models"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var ErrTaskNotFound = errors.New("task not found")

type TaskStore interface {
	// Insert validates the new task's shape and persists it with a freshly
	// generated ID, Completed set to false and both timestamps set.
	//
	// It returns a *ValidationError if the title is blank
	// or the user ID is empty.
	Insert(ctx context.Context, title, userID string) (*models.Task, error)

	// FindAllByUser returns every task owned by userID in store order.
	// An unknown user yields an empty, non-nil slice.
	FindAllByUser(ctx context.Context, userID string) ([]*models.Task, error)

	// FindByID returns ErrTaskNotFound if no task has the given ID.
	FindByID(ctx context.Context, id string) (*models.Task, error)

	// FlipCompleted atomically negates the task's Completed flag, bumps
	// UpdatedAt and returns the updated task.
	//
	// It returns ErrTaskNotFound if no task has the given ID.
	FlipCompleted(ctx context.Context, id string) (*models.Task, error)

	// DeleteByID permanently removes the task.
	//
	// It returns ErrTaskNotFound if no task has the given ID.
	DeleteByID(ctx context.Context, id string) error

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// ValidationError reports a task that violates the schema.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// StoreError wraps a failure of the underlying database.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: failed to %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func NewStoreError(op string, err error) *StoreError {
	return &StoreError{Op: op, Err: err}
}

// ValidateNewTask enforces the shape every driver requires on insert.
func ValidateNewTask(title, userID string) error {
	if strings.TrimSpace(title) == "" {
		return NewValidationError("title", "title is required")
	}
	if userID == "" {
		return NewValidationError("userId", "userId is required")
	}
	return nil
}

func IsValidationError(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}
