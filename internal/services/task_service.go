package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/tasktrackr/internal/models"
	"github.com/adanyl0v/tasktrackr/internal/storage"
)

type taskServiceImpl struct {
	logger zerolog.Logger
	store  storage.TaskStore
}

func NewTaskService(
	logger zerolog.Logger,
	store storage.TaskStore,
) TaskService {
	return &taskServiceImpl{
		logger: logger,
		store:  store,
	}
}

func (s *taskServiceImpl) CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error) {
	task, err := s.store.Insert(ctx, params.Title, params.UserID)
	if err != nil {
		var vErr *storage.ValidationError
		if errors.As(err, &vErr) {
			s.logger.Warn().
				Str("field", vErr.Field).
				Str("user_id", params.UserID).
				Msg("invalid task")
			return nil, err
		}

		s.logger.Error().
			Err(err).
			Str("user_id", params.UserID).
			Msg("failed to insert task")
		return nil, err
	}
	s.logger.Debug().
		Str("task_id", task.ID).
		Msg("inserted task")

	s.logger.Info().
		Str("task_id", task.ID).
		Str("user_id", task.UserID).
		Msg("created task")
	return task, nil
}

func (s *taskServiceImpl) GetTasksByUserID(ctx context.Context, userID string) ([]*models.Task, error) {
	tasks, err := s.store.FindAllByUser(ctx, userID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to select tasks by user id")
		return nil, err
	}
	s.logger.Debug().
		Int("count", len(tasks)).
		Str("user_id", userID).
		Msg("selected tasks by user id")

	s.logger.Info().
		Int("count", len(tasks)).
		Str("user_id", userID).
		Msg("tasks found")
	return tasks, nil
}

func (s *taskServiceImpl) ToggleTask(ctx context.Context, taskID string) (*models.Task, error) {
	task, err := s.store.FlipCompleted(ctx, taskID)
	if err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			s.logger.Warn().
				Str("task_id", taskID).
				Msg("task not found")
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to toggle task")
		return nil, err
	}
	s.logger.Debug().
		Str("task_id", task.ID).
		Bool("completed", task.Completed).
		Msg("flipped task completed")

	s.logger.Info().
		Str("task_id", task.ID).
		Str("user_id", task.UserID).
		Msg("toggled task")
	return task, nil
}

func (s *taskServiceImpl) DeleteTask(ctx context.Context, taskID string) error {
	err := s.store.DeleteByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			s.logger.Warn().
				Str("task_id", taskID).
				Msg("task not found")
			return ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to delete task")
		return err
	}

	s.logger.Info().
		Str("task_id", taskID).
		Msg("deleted task")
	return nil
}

func (s *taskServiceImpl) Ping(ctx context.Context) error {
	err := s.store.Ping(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to ping store")
		return err
	}
	return nil
}
