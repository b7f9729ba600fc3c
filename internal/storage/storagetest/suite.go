// Package storagetest holds the behavioural contract every storage.TaskStore
// driver must satisfy.
package storagetest

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adanyl0v/tasktrackr/internal/storage"
)

// Run exercises a store returned by newStore. newStore must hand back an
// empty store and register its own cleanup.
func Run(t *testing.T, newStore func(t *testing.T) storage.TaskStore) {
	t.Run("InsertAssignsDefaults", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		task, err := store.Insert(ctx, "Buy milk", "u1")
		require.NoError(t, err)
		assert.NotEmpty(t, task.ID)
		assert.Equal(t, "Buy milk", task.Title)
		assert.Equal(t, "u1", task.UserID)
		assert.False(t, task.Completed)
		assert.False(t, task.CreatedAt.IsZero())
		assert.False(t, task.UpdatedAt.IsZero())

		found, err := store.FindByID(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, task.ID, found.ID)
		assert.Equal(t, task.Title, found.Title)
		assert.False(t, found.Completed)
	})

	t.Run("InsertRejectsInvalidShape", func(t *testing.T) {
		tests := []struct {
			name   string
			title  string
			userID string
			field  string
		}{
			{name: "empty title", title: "", userID: "u1", field: "title"},
			{name: "blank title", title: "   ", userID: "u1", field: "title"},
			{name: "missing user", title: "Buy milk", userID: "", field: "userId"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				store := newStore(t)
				ctx := context.Background()

				_, err := store.Insert(ctx, tt.title, tt.userID)
				var vErr *storage.ValidationError
				require.ErrorAs(t, err, &vErr)
				assert.Equal(t, tt.field, vErr.Field)

				tasks, err := store.FindAllByUser(ctx, tt.userID)
				require.NoError(t, err)
				assert.Empty(t, tasks)
			})
		}
	})

	t.Run("InsertAssignsUniqueIDs", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		seen := make(map[string]bool)
		for i := 0; i < 20; i++ {
			task, err := store.Insert(ctx, "task", "u1")
			require.NoError(t, err)
			assert.False(t, seen[task.ID], "duplicate id %s", task.ID)
			seen[task.ID] = true
		}
	})

	t.Run("FindAllByUserIsScoped", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		for _, title := range []string{"a1", "a2"} {
			_, err := store.Insert(ctx, title, "user-a")
			require.NoError(t, err)
		}
		_, err := store.Insert(ctx, "b1", "user-b")
		require.NoError(t, err)

		tasksA, err := store.FindAllByUser(ctx, "user-a")
		require.NoError(t, err)
		require.Len(t, tasksA, 2)
		for _, task := range tasksA {
			assert.Equal(t, "user-a", task.UserID)
		}

		tasksB, err := store.FindAllByUser(ctx, "user-b")
		require.NoError(t, err)
		require.Len(t, tasksB, 1)
		assert.Equal(t, "b1", tasksB[0].Title)
	})

	t.Run("FindAllByUnknownUserIsEmpty", func(t *testing.T) {
		store := newStore(t)

		tasks, err := store.FindAllByUser(context.Background(), "nobody")
		require.NoError(t, err)
		assert.NotNil(t, tasks)
		assert.Empty(t, tasks)
	})

	t.Run("FlipCompletedIsAnInvolution", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		task, err := store.Insert(ctx, "Buy milk", "u1")
		require.NoError(t, err)

		flipped, err := store.FlipCompleted(ctx, task.ID)
		require.NoError(t, err)
		assert.True(t, flipped.Completed)
		assert.Equal(t, task.ID, flipped.ID)
		assert.Equal(t, task.Title, flipped.Title)
		assert.Equal(t, task.UserID, flipped.UserID)
		assert.False(t, flipped.UpdatedAt.Before(task.UpdatedAt))

		restored, err := store.FlipCompleted(ctx, task.ID)
		require.NoError(t, err)
		assert.False(t, restored.Completed)
	})

	t.Run("ConcurrentFlipsAreNotLost", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		task, err := store.Insert(ctx, "Buy milk", "u1")
		require.NoError(t, err)

		const flips = 10
		var wg sync.WaitGroup
		errs := make(chan error, flips)
		for i := 0; i < flips; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := store.FlipCompleted(ctx, task.ID)
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		found, err := store.FindByID(ctx, task.ID)
		require.NoError(t, err)
		assert.False(t, found.Completed, "an even number of flips must restore the flag")
	})

	t.Run("UnknownIDIsNotFound", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		task, err := store.Insert(ctx, "keep me", "u1")
		require.NoError(t, err)

		for _, id := range []string{"does-not-exist", "0190a5b2-7c3e-7def-8123-456789abcdef", "65f1c2d3e4f5a6b7c8d9e0f1"} {
			_, err = store.FindByID(ctx, id)
			assert.ErrorIs(t, err, storage.ErrTaskNotFound, id)

			_, err = store.FlipCompleted(ctx, id)
			assert.ErrorIs(t, err, storage.ErrTaskNotFound, id)

			err = store.DeleteByID(ctx, id)
			assert.ErrorIs(t, err, storage.ErrTaskNotFound, id)
		}

		found, err := store.FindByID(ctx, task.ID)
		require.NoError(t, err)
		assert.False(t, found.Completed)
	})

	t.Run("DeleteRemovesPermanently", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		task, err := store.Insert(ctx, "Buy milk", "u1")
		require.NoError(t, err)
		other, err := store.Insert(ctx, "Walk dog", "u1")
		require.NoError(t, err)

		require.NoError(t, store.DeleteByID(ctx, task.ID))

		tasks, err := store.FindAllByUser(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, other.ID, tasks[0].ID)

		_, err = store.FlipCompleted(ctx, task.ID)
		assert.ErrorIs(t, err, storage.ErrTaskNotFound)
		err = store.DeleteByID(ctx, task.ID)
		assert.ErrorIs(t, err, storage.ErrTaskNotFound)
	})

	t.Run("Ping", func(t *testing.T) {
		store := newStore(t)
		assert.NoError(t, store.Ping(context.Background()))
	})
}
