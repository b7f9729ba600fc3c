// Package postgres implements the Task Store on PostgreSQL through pgx.
package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adanyl0v/tasktrackr/internal/models"
	"github.com/adanyl0v/tasktrackr/internal/storage"
)

//go:embed schema.sql
var schema string

const taskColumns = `id::text, user_id, title, completed, created_at, updated_at`

type Config struct {
	Host           string
	Port           int
	Username       string
	Password       string
	Database       string
	SSLMode        string
	ConnectTimeout time.Duration
	PingTimeout    time.Duration
}

func (c Config) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Username, c.Password, c.Host,
		c.Port, c.Database, c.SSLMode)
}

type Store struct {
	pool *pgxpool.Pool
}

// Connect opens a pool, pings it and makes sure the schema exists.
func Connect(ctx context.Context, cfg Config) (*Store, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL())
	if err != nil {
		return nil, storage.NewStoreError("parse postgres config", err)
	}
	if cfg.ConnectTimeout > 0 {
		poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	}
	return connect(ctx, poolCfg, cfg.PingTimeout)
}

// ConnectURL is Connect for a ready-made connection string.
func ConnectURL(ctx context.Context, url string) (*Store, error) {
	poolCfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, storage.NewStoreError("parse postgres config", err)
	}
	return connect(ctx, poolCfg, 0)
}

func connect(ctx context.Context, poolCfg *pgxpool.Config, pingTimeout time.Duration) (*Store, error) {
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, storage.NewStoreError("connect to postgres", err)
	}

	pingCtx := ctx
	if pingTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, pingTimeout)
		defer cancel()
	}

	err = pool.Ping(pingCtx)
	if err != nil {
		pool.Close()
		return nil, storage.NewStoreError("ping postgres", err)
	}

	// Without arguments pgx uses the simple protocol, which accepts
	// several statements at once.
	_, err = pool.Exec(ctx, schema)
	if err != nil {
		pool.Close()
		return nil, storage.NewStoreError("apply schema", err)
	}

	return &Store{pool: pool}, nil
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

	task := &models.Task{
		ID:     taskUUID.String(),
		UserID: userID,
		Title:  title,
	}

	const insertTaskQuery = `
INSERT INTO tasks (id,
                   user_id,
                   title)
VALUES ($1, $2, $3)
RETURNING completed, created_at, updated_at
`
	err = s.pool.QueryRow(
		ctx,
		insertTaskQuery,
		task.ID,
		task.UserID,
		task.Title,
	).Scan(
		&task.Completed,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, classifyError("insert task", err)
	}
	return task, nil
}

func (s *Store) FindAllByUser(ctx context.Context, userID string) ([]*models.Task, error) {
	const selectTasksByUserIDQuery = `
SELECT ` + taskColumns + `
FROM tasks
WHERE user_id = $1
`
	rows, err := s.pool.Query(ctx, selectTasksByUserIDQuery, userID)
	if err != nil {
		return nil, classifyError("select tasks by user id", err)
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
	if !isUUID(id) {
		return nil, storage.ErrTaskNotFound
	}

	const selectTaskByIDQuery = `
SELECT ` + taskColumns + `
FROM tasks
WHERE id = $1
`
	task, err := scanTask(s.pool.QueryRow(ctx, selectTaskByIDQuery, id))
	if err != nil {
		return nil, classifyError("select task by id", err)
	}
	return task, nil
}

func (s *Store) FlipCompleted(ctx context.Context, id string) (*models.Task, error) {
	if !isUUID(id) {
		return nil, storage.ErrTaskNotFound
	}

	const flipCompletedQuery = `
UPDATE tasks
SET completed = NOT completed,
    updated_at = now()
WHERE id = $1
RETURNING ` + taskColumns
	task, err := scanTask(s.pool.QueryRow(ctx, flipCompletedQuery, id))
	if err != nil {
		return nil, classifyError("flip task completed", err)
	}
	return task, nil
}

func (s *Store) DeleteByID(ctx context.Context, id string) error {
	if !isUUID(id) {
		return storage.ErrTaskNotFound
	}

	const deleteTaskQuery = `
DELETE FROM tasks
WHERE id = $1
`
	tag, err := s.pool.Exec(ctx, deleteTaskQuery, id)
	if err != nil {
		return classifyError("delete task", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrTaskNotFound
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	err := s.pool.Ping(ctx)
	if err != nil {
		return storage.NewStoreError("ping postgres", err)
	}
	return nil
}

func (s *Store) Close(context.Context) error {
	s.pool.Close()
	return nil
}

func scanTask(row pgx.Row) (*models.Task, error) {
	var task models.Task
	err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Completed,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// classifyError maps driver errors onto the storage error taxonomy.
func classifyError(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.ErrTaskNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.CheckViolation, pgerrcode.NotNullViolation:
			return storage.NewValidationError(pgErr.ColumnName, pgErr.Message)
		case pgerrcode.InvalidTextRepresentation:
			return storage.ErrTaskNotFound
		}
	}
	return storage.NewStoreError(op, err)
}
