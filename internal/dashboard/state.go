// Package dashboard holds the signed-in user's task list and keeps it in
// step with the task API.
package dashboard

import "github.com/adanyl0v/tasktrackr/internal/models"

type State struct {
	UserID string
	Tasks  []*models.Task
}

// Action is a state transition understood by Reduce.
type Action interface {
	action()
}

type SignedIn struct {
	UserID string
}

type SignedOut struct{}

// TasksLoaded replaces the whole list.
type TasksLoaded struct {
	Tasks []*models.Task
}

// TaskAdded appends a task.
type TaskAdded struct {
	Task *models.Task
}

// TaskUpdated replaces the task with the same ID.
type TaskUpdated struct {
	Task *models.Task
}

// TaskRemoved drops the task with the given ID.
type TaskRemoved struct {
	ID string
}

func (SignedIn) action()    {}
func (SignedOut) action()   {}
func (TasksLoaded) action() {}
func (TaskAdded) action()   {}
func (TaskUpdated) action() {}
func (TaskRemoved) action() {}

// Reduce returns the state that follows s after a. It never modifies s.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case SignedIn:
		if a.UserID == s.UserID {
			return s
		}
		return State{UserID: a.UserID, Tasks: []*models.Task{}}
	case SignedOut:
		return State{Tasks: []*models.Task{}}
	case TasksLoaded:
		tasks := make([]*models.Task, len(a.Tasks))
		copy(tasks, a.Tasks)
		return State{UserID: s.UserID, Tasks: tasks}
	case TaskAdded:
		tasks := make([]*models.Task, 0, len(s.Tasks)+1)
		tasks = append(tasks, s.Tasks...)
		tasks = append(tasks, a.Task)
		return State{UserID: s.UserID, Tasks: tasks}
	case TaskUpdated:
		tasks := make([]*models.Task, len(s.Tasks))
		for i, task := range s.Tasks {
			if task.ID == a.Task.ID {
				task = a.Task
			}
			tasks[i] = task
		}
		return State{UserID: s.UserID, Tasks: tasks}
	case TaskRemoved:
		tasks := make([]*models.Task, 0, len(s.Tasks))
		for _, task := range s.Tasks {
			if task.ID != a.ID {
				tasks = append(tasks, task)
			}
		}
		return State{UserID: s.UserID, Tasks: tasks}
	default:
		return s
	}
}
