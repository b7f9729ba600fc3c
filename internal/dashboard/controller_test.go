package dashboard

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strconv"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adanyl0v/tasktrackr/internal/auth"
	"github.com/adanyl0v/tasktrackr/internal/client"
	"github.com/adanyl0v/tasktrackr/internal/models"
)

type fakeIdentity struct {
	user       *auth.User
	err        error
	signedOut  bool
	signOutErr error
}

func (f *fakeIdentity) CurrentUser(context.Context) (*auth.User, error) {
	return f.user, f.err
}

func (f *fakeIdentity) SignOut(context.Context) error {
	if f.signOutErr != nil {
		return f.signOutErr
	}
	f.signedOut = true
	f.user = nil
	return nil
}

// fakeGateway keeps tasks in memory and fails every call once err is set.
type fakeGateway struct {
	tasks  map[string]*models.Task
	nextID int
	err    error
	calls  int
}

func newFakeGateway(tasks ...*models.Task) *fakeGateway {
	g := &fakeGateway{tasks: make(map[string]*models.Task)}
	for _, task := range tasks {
		g.tasks[task.ID] = task
	}
	return g
}

func (g *fakeGateway) FetchTasks(_ context.Context, userID string) ([]*models.Task, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	tasks := make([]*models.Task, 0)
	for _, task := range g.tasks {
		if task.UserID == userID {
			t := *task
			tasks = append(tasks, &t)
		}
	}
	return tasks, nil
}

func (g *fakeGateway) CreateTask(_ context.Context, title, userID string) (*models.Task, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	g.nextID++
	task := &models.Task{ID: "new-" + strconv.Itoa(g.nextID), Title: title, UserID: userID}
	g.tasks[task.ID] = task
	t := *task
	return &t, nil
}

func (g *fakeGateway) ToggleTask(_ context.Context, taskID string) (*models.Task, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	task, ok := g.tasks[taskID]
	if !ok {
		return nil, &client.RequestFailedError{Op: client.OpToggleTask, StatusCode: http.StatusNotFound}
	}
	task.Completed = !task.Completed
	t := *task
	return &t, nil
}

func (g *fakeGateway) DeleteTask(_ context.Context, taskID string) (*client.DeleteResult, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	if _, ok := g.tasks[taskID]; !ok {
		return nil, &client.RequestFailedError{Op: client.OpDeleteTask, StatusCode: http.StatusNotFound}
	}
	delete(g.tasks, taskID)
	return &client.DeleteResult{Message: "task deleted", ID: taskID}, nil
}

type fakeNavigator struct {
	signedOutViews int
}

func (n *fakeNavigator) ShowSignedOut() {
	n.signedOutViews++
}

type fixture struct {
	identity  *fakeIdentity
	gateway   *fakeGateway
	navigator *fakeNavigator
	logs      *bytes.Buffer
	ctrl      *Controller
}

func newFixture(user *auth.User, tasks ...*models.Task) *fixture {
	f := &fixture{
		identity:  &fakeIdentity{user: user},
		gateway:   newFakeGateway(tasks...),
		navigator: &fakeNavigator{},
		logs:      &bytes.Buffer{},
	}
	f.ctrl = NewController(zerolog.New(f.logs), f.identity, f.gateway, f.navigator)
	return f
}

var ada = &auth.User{ID: "u1", Email: "ada@example.com"}

func TestController_Sync(t *testing.T) {
	t.Run("signed in", func(t *testing.T) {
		f := newFixture(ada, task("a", false), &models.Task{ID: "x", UserID: "u2"})

		require.NoError(t, f.ctrl.Sync(context.Background()))

		state := f.ctrl.State()
		assert.Equal(t, "u1", state.UserID)
		require.Len(t, state.Tasks, 1)
		assert.Equal(t, "a", state.Tasks[0].ID)
		assert.Zero(t, f.navigator.signedOutViews)
	})

	t.Run("signed out", func(t *testing.T) {
		f := newFixture(nil, task("a", false))

		require.NoError(t, f.ctrl.Sync(context.Background()))

		assert.Equal(t, State{Tasks: []*models.Task{}}, f.ctrl.State())
		assert.Equal(t, 1, f.navigator.signedOutViews)
		assert.Zero(t, f.gateway.calls)
	})

	t.Run("identity failure", func(t *testing.T) {
		f := newFixture(nil)
		f.identity.err = errors.New("session file unreadable")

		err := f.ctrl.Sync(context.Background())
		assert.EqualError(t, err, "session file unreadable")
		assert.Contains(t, f.logs.String(), "failed to get current user")
	})

	t.Run("fetch failure keeps tasks", func(t *testing.T) {
		f := newFixture(ada, task("a", false))
		require.NoError(t, f.ctrl.Sync(context.Background()))

		f.gateway.err = &client.RequestFailedError{Op: client.OpFetchTasks, StatusCode: http.StatusInternalServerError}
		err := f.ctrl.Sync(context.Background())

		var rfErr *client.RequestFailedError
		require.ErrorAs(t, err, &rfErr)
		assert.Len(t, f.ctrl.State().Tasks, 1)
		assert.Contains(t, f.logs.String(), "failed to fetch tasks")
	})
}

func TestController_Sync_UserSwitchWithFailingFetch(t *testing.T) {
	f := newFixture(ada, task("a", false))
	require.NoError(t, f.ctrl.Sync(context.Background()))
	before := f.ctrl.State()

	f.identity.user = &auth.User{ID: "u2", Email: "grace@example.com"}
	f.gateway.err = &client.RequestFailedError{Op: client.OpFetchTasks, StatusCode: http.StatusBadGateway}

	err := f.ctrl.Sync(context.Background())
	require.Error(t, err)
	assert.Equal(t, before, f.ctrl.State())
}

func TestController_AddTask(t *testing.T) {
	t.Run("trims and appends", func(t *testing.T) {
		f := newFixture(ada, task("a", false))
		require.NoError(t, f.ctrl.Sync(context.Background()))

		created, err := f.ctrl.AddTask(context.Background(), "  Buy milk  ")
		require.NoError(t, err)
		assert.Equal(t, "Buy milk", created.Title)
		assert.Equal(t, "u1", created.UserID)

		state := f.ctrl.State()
		require.Len(t, state.Tasks, 2)
		assert.Equal(t, "a", state.Tasks[0].ID)
		assert.Equal(t, created.ID, state.Tasks[1].ID)
	})

	t.Run("blank title is ignored", func(t *testing.T) {
		f := newFixture(ada)
		require.NoError(t, f.ctrl.Sync(context.Background()))
		calls := f.gateway.calls

		created, err := f.ctrl.AddTask(context.Background(), "   ")
		assert.NoError(t, err)
		assert.Nil(t, created)
		assert.Equal(t, calls, f.gateway.calls)
		assert.Empty(t, f.ctrl.State().Tasks)
	})

	t.Run("signed out", func(t *testing.T) {
		f := newFixture(nil)

		_, err := f.ctrl.AddTask(context.Background(), "Buy milk")
		assert.ErrorIs(t, err, ErrSignedOut)
		assert.Zero(t, f.gateway.calls)
	})

	t.Run("gateway failure leaves state unchanged", func(t *testing.T) {
		f := newFixture(ada, task("a", false))
		require.NoError(t, f.ctrl.Sync(context.Background()))
		f.gateway.err = &client.RequestFailedError{Op: client.OpCreateTask, StatusCode: http.StatusBadRequest}

		_, err := f.ctrl.AddTask(context.Background(), "Buy milk")
		assert.Error(t, err)
		assert.Len(t, f.ctrl.State().Tasks, 1)
		assert.Contains(t, f.logs.String(), "failed to create task")
	})
}

func TestController_ToggleTask(t *testing.T) {
	f := newFixture(ada, task("a", false), task("b", false))
	require.NoError(t, f.ctrl.Sync(context.Background()))

	toggled, err := f.ctrl.ToggleTask(context.Background(), "a")
	require.NoError(t, err)
	assert.True(t, toggled.Completed)

	for _, task := range f.ctrl.State().Tasks {
		assert.Equal(t, task.ID == "a", task.Completed, task.ID)
	}

	_, err = f.ctrl.ToggleTask(context.Background(), "missing")
	var rfErr *client.RequestFailedError
	require.ErrorAs(t, err, &rfErr)
	assert.Equal(t, http.StatusNotFound, rfErr.StatusCode)
	assert.Len(t, f.ctrl.State().Tasks, 2)
}

func TestController_DeleteTask(t *testing.T) {
	f := newFixture(ada, task("a", false), task("b", false))
	require.NoError(t, f.ctrl.Sync(context.Background()))

	require.NoError(t, f.ctrl.DeleteTask(context.Background(), "a"))

	state := f.ctrl.State()
	require.Len(t, state.Tasks, 1)
	assert.Equal(t, "b", state.Tasks[0].ID)

	f.gateway.err = errors.New("connection reset")
	assert.Error(t, f.ctrl.DeleteTask(context.Background(), "b"))
	assert.Len(t, f.ctrl.State().Tasks, 1)
}

func TestController_Logout(t *testing.T) {
	f := newFixture(ada, task("a", false))
	require.NoError(t, f.ctrl.Sync(context.Background()))

	require.NoError(t, f.ctrl.Logout(context.Background()))

	assert.True(t, f.identity.signedOut)
	assert.Equal(t, State{Tasks: []*models.Task{}}, f.ctrl.State())
	assert.Equal(t, 1, f.navigator.signedOutViews)
}

func TestController_StateIsACopy(t *testing.T) {
	f := newFixture(ada, task("a", false))
	require.NoError(t, f.ctrl.Sync(context.Background()))

	state := f.ctrl.State()
	state.Tasks[0].Completed = true
	state.Tasks = nil

	fresh := f.ctrl.State()
	require.Len(t, fresh.Tasks, 1)
	assert.False(t, fresh.Tasks[0].Completed)
}
