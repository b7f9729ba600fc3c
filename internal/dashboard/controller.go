package dashboard

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/tasktrackr/internal/auth"
	"github.com/adanyl0v/tasktrackr/internal/client"
	"github.com/adanyl0v/tasktrackr/internal/models"
)

var ErrSignedOut = errors.New("not signed in")

type Gateway interface {
	FetchTasks(ctx context.Context, userID string) ([]*models.Task, error)
	CreateTask(ctx context.Context, title, userID string) (*models.Task, error)
	ToggleTask(ctx context.Context, taskID string) (*models.Task, error)
	DeleteTask(ctx context.Context, taskID string) (*client.DeleteResult, error)
}

type Identity interface {
	CurrentUser(ctx context.Context) (*auth.User, error)
	SignOut(ctx context.Context) error
}

// Navigator switches the client between the signed-in and signed-out views.
type Navigator interface {
	ShowSignedOut()
}

// Controller reconciles the signed-in user with the task list. A failed
// call leaves the state as it was.
type Controller struct {
	logger    zerolog.Logger
	identity  Identity
	gateway   Gateway
	navigator Navigator

	mu    sync.Mutex
	state State
}

func NewController(
	logger zerolog.Logger,
	identity Identity,
	gateway Gateway,
	navigator Navigator,
) *Controller {
	return &Controller{
		logger:    logger,
		identity:  identity,
		gateway:   gateway,
		navigator: navigator,
		state:     State{Tasks: []*models.Task{}},
	}
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	tasks := make([]*models.Task, len(c.state.Tasks))
	for i, task := range c.state.Tasks {
		t := *task
		tasks[i] = &t
	}
	return State{UserID: c.state.UserID, Tasks: tasks}
}

// dispatch applies actions in order as one transition.
func (c *Controller) dispatch(actions ...Action) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, a := range actions {
		c.state = Reduce(c.state, a)
	}
}

func (c *Controller) userID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.UserID
}

// Sync loads the current user's tasks, or shows the signed-out view if
// nobody is signed in.
func (c *Controller) Sync(ctx context.Context) error {
	user, err := c.identity.CurrentUser(ctx)
	if err != nil {
		c.logger.Error().
			Err(err).
			Msg("failed to get current user")
		return err
	}

	if user == nil {
		c.dispatch(SignedOut{})
		c.navigator.ShowSignedOut()
		return nil
	}
	tasks, err := c.gateway.FetchTasks(ctx, user.ID)
	if err != nil {
		c.logger.Error().
			Err(err).
			Str("user_id", user.ID).
			Msg("failed to fetch tasks")
		return err
	}
	c.dispatch(SignedIn{UserID: user.ID}, TasksLoaded{Tasks: tasks})

	c.logger.Debug().
		Int("count", len(tasks)).
		Str("user_id", user.ID).
		Msg("loaded tasks")
	return nil
}

// AddTask creates a task with the trimmed title. A blank title is ignored
// and yields a nil task.
func (c *Controller) AddTask(ctx context.Context, title string) (*models.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, nil
	}

	userID := c.userID()
	if userID == "" {
		return nil, ErrSignedOut
	}

	task, err := c.gateway.CreateTask(ctx, title, userID)
	if err != nil {
		c.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to create task")
		return nil, err
	}
	c.dispatch(TaskAdded{Task: task})

	return task, nil
}

func (c *Controller) ToggleTask(ctx context.Context, taskID string) (*models.Task, error) {
	if c.userID() == "" {
		return nil, ErrSignedOut
	}

	task, err := c.gateway.ToggleTask(ctx, taskID)
	if err != nil {
		c.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to toggle task")
		return nil, err
	}
	c.dispatch(TaskUpdated{Task: task})

	return task, nil
}

func (c *Controller) DeleteTask(ctx context.Context, taskID string) error {
	if c.userID() == "" {
		return ErrSignedOut
	}

	_, err := c.gateway.DeleteTask(ctx, taskID)
	if err != nil {
		c.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to delete task")
		return err
	}
	c.dispatch(TaskRemoved{ID: taskID})

	return nil
}

func (c *Controller) Logout(ctx context.Context) error {
	err := c.identity.SignOut(ctx)
	if err != nil {
		c.logger.Error().
			Err(err).
			Msg("failed to sign out")
		return err
	}

	c.dispatch(SignedOut{})
	c.navigator.ShowSignedOut()
	return nil
}
