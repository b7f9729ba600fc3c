// Package sqlite implements the Task Store on an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/adanyl0v/tasktrackr/internal/models"
	"github.com/adanyl0v/tasktrackr/internal/storage"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

const taskColumns = `id, user_id, title, completed, created_at, updated_at`

type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (or creates) the database at path and applies pending migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, storage.NewStoreError("open database", err)
	}
	// A single connection keeps ":memory:" databases alive and shared,
	// and serializes writers on file databases.
	db.SetMaxOpenConns(1)

	err = runMigrations(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, storage.NewStoreError("run migrations", err)
	}

	return &Store{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *Store) Insert(ctx context.Context, title, userID string) (*models.Task, error) {
	err := storage.ValidateNewTask(title, userID)
	if err != nil {
		return nil, err
	}

	taskUUID, err := uuid.NewV7()
	if err != nil {
		return nil, storage.NewStoreError("generate task id", err)
	}

	now := s.now()
	task := &models.Task{
		ID:        taskUUID.String(),
		UserID:    userID,
		Title:     title,
		Completed: false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	const insertTaskQuery = `
INSERT INTO tasks (id, user_id, title, completed, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
`
	_, err = s.db.ExecContext(
		ctx,
		insertTaskQuery,
		task.ID,
		task.UserID,
		task.Title,
		task.Completed,
		formatTime(task.CreatedAt),
		formatTime(task.UpdatedAt),
	)
	if err != nil {
		return nil, storage.NewStoreError("insert task", err)
	}
	return task, nil
}

func (s *Store) FindAllByUser(ctx context.Context, userID string) ([]*models.Task, error) {
	const selectTasksByUserIDQuery = `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = ?`
	rows, err := s.db.QueryContext(ctx, selectTasksByUserIDQuery, userID)
	if err != nil {
		return nil, storage.NewStoreError("select tasks by user id", err)
	}
	defer rows.Close()

	tasks := make([]*models.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, storage.NewStoreError("scan task", err)
		}
		tasks = append(tasks, task)
	}

	err = rows.Err()
	if err != nil {
		return nil, storage.NewStoreError("iterate over rows", err)
	}
	return tasks, nil
}

func (s *Store) FindByID(ctx context.Context, id string) (*models.Task, error) {
	const selectTaskByIDQuery = `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`
	task, err := scanTask(s.db.QueryRowContext(ctx, selectTaskByIDQuery, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrTaskNotFound
		}
		return nil, storage.NewStoreError("select task by id", err)
	}
	return task, nil
}

func (s *Store) FlipCompleted(ctx context.Context, id string) (*models.Task, error) {
	const flipCompletedQuery = `
UPDATE tasks
SET completed = NOT completed,
    updated_at = ?
WHERE id = ?
RETURNING ` + taskColumns
	task, err := scanTask(s.db.QueryRowContext(ctx, flipCompletedQuery, formatTime(s.now()), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrTaskNotFound
		}
		return nil, storage.NewStoreError("flip task completed", err)
	}
	return task, nil
}

func (s *Store) DeleteByID(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return storage.NewStoreError("delete task", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return storage.NewStoreError("get rows affected", err)
	}
	if affected == 0 {
		return storage.ErrTaskNotFound
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	err := s.db.PingContext(ctx)
	if err != nil {
		return storage.NewStoreError("ping database", err)
	}
	return nil
}

func (s *Store) Close(context.Context) error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (*models.Task, error) {
	var (
		task                 models.Task
		createdAt, updatedAt string
	)
	err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Completed,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	task.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	task.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return &task, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
