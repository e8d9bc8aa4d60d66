package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tomlord1122/todo-list/internal/domain"
)

// runContract exercises the behaviour every TodoRepository must share.
// newRepo must return an empty repository for each subtest.
func runContract(t *testing.T, newRepo func(t *testing.T) TodoRepository, missingID string) {
	ctx := context.Background()

	t.Run("empty list", func(t *testing.T) {
		repo := newRepo(t)
		todos, err := repo.GetAll(ctx, domain.TodoFilter{})
		require.NoError(t, err)
		assert.NotNil(t, todos)
		assert.Empty(t, todos)
	})

	t.Run("create assigns id and timestamps", func(t *testing.T) {
		repo := newRepo(t)
		todo := &domain.Todo{Text: "Buy milk"}
		require.NoError(t, repo.Create(ctx, todo))

		assert.NotEmpty(t, todo.ID)
		assert.Equal(t, "Buy milk", todo.Text)
		assert.False(t, todo.Completed)
		assert.False(t, todo.CreatedAt.IsZero())
		assert.False(t, todo.UpdatedAt.IsZero())

		found, err := repo.FindByID(ctx, todo.ID)
		require.NoError(t, err)
		assert.Equal(t, todo.ID, found.ID)
		assert.Equal(t, "Buy milk", found.Text)
	})

	t.Run("list keeps insertion order", func(t *testing.T) {
		repo := newRepo(t)
		var ids []string
		for _, text := range []string{"first", "second", "third"} {
			todo := &domain.Todo{Text: text}
			require.NoError(t, repo.Create(ctx, todo))
			ids = append(ids, todo.ID)
		}

		todos, err := repo.GetAll(ctx, domain.TodoFilter{})
		require.NoError(t, err)
		require.Len(t, todos, 3)
		for i, todo := range todos {
			assert.Equal(t, ids[i], todo.ID)
		}
	})

	t.Run("filter on completed", func(t *testing.T) {
		repo := newRepo(t)
		open := &domain.Todo{Text: "open"}
		done := &domain.Todo{Text: "done"}
		require.NoError(t, repo.Create(ctx, open))
		require.NoError(t, repo.Create(ctx, done))
		completed := true
		_, err := repo.Update(ctx, done.ID, domain.TodoPatch{Completed: &completed})
		require.NoError(t, err)

		todos, err := repo.GetAll(ctx, domain.TodoFilter{Completed: &completed})
		require.NoError(t, err)
		require.Len(t, todos, 1)
		assert.Equal(t, done.ID, todos[0].ID)
	})

	t.Run("update writes fields", func(t *testing.T) {
		repo := newRepo(t)
		todo := &domain.Todo{Text: "draft"}
		require.NoError(t, repo.Create(ctx, todo))

		text, completed := "final", true
		updated, err := repo.Update(ctx, todo.ID, domain.TodoPatch{Text: &text, Completed: &completed})
		require.NoError(t, err)
		assert.Equal(t, todo.ID, updated.ID)
		assert.Equal(t, "final", updated.Text)
		assert.True(t, updated.Completed)

		found, err := repo.FindByID(ctx, todo.ID)
		require.NoError(t, err)
		assert.Equal(t, "final", found.Text)
		assert.True(t, found.Completed)
		assert.False(t, found.UpdatedAt.Before(found.CreatedAt))
	})

	t.Run("update leaves absent fields alone", func(t *testing.T) {
		repo := newRepo(t)
		todo := &domain.Todo{Text: "old"}
		require.NoError(t, repo.Create(ctx, todo))

		// Two writers, each holding a different field, land one after the
		// other without reading first.
		text, completed := "new text", true
		_, err := repo.Update(ctx, todo.ID, domain.TodoPatch{Text: &text})
		require.NoError(t, err)
		updated, err := repo.Update(ctx, todo.ID, domain.TodoPatch{Completed: &completed})
		require.NoError(t, err)
		assert.Equal(t, "new text", updated.Text)
		assert.True(t, updated.Completed)

		reopened := false
		updated, err = repo.Update(ctx, todo.ID, domain.TodoPatch{Completed: &reopened})
		require.NoError(t, err)
		assert.Equal(t, "new text", updated.Text)
		assert.False(t, updated.Completed)
	})

	t.Run("delete is final", func(t *testing.T) {
		repo := newRepo(t)
		todo := &domain.Todo{Text: "temporary"}
		require.NoError(t, repo.Create(ctx, todo))
		require.NoError(t, repo.Delete(ctx, todo.ID))

		_, err := repo.FindByID(ctx, todo.ID)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, todo.ID), ErrNotFound)
		done := true
		_, err = repo.Update(ctx, todo.ID, domain.TodoPatch{Completed: &done})
		assert.ErrorIs(t, err, ErrNotFound)

		todos, err := repo.GetAll(ctx, domain.TodoFilter{})
		require.NoError(t, err)
		assert.Empty(t, todos)
	})

	t.Run("unknown and malformed ids", func(t *testing.T) {
		repo := newRepo(t)
		text := "x"
		for _, id := range []string{missingID, "not-an-id", "", "18446744073709551615"} {
			_, err := repo.FindByID(ctx, id)
			assert.ErrorIs(t, err, ErrNotFound, "find %q", id)
			assert.ErrorIs(t, repo.Delete(ctx, id), ErrNotFound, "delete %q", id)
			_, err = repo.Update(ctx, id, domain.TodoPatch{Text: &text})
			assert.ErrorIs(t, err, ErrNotFound, "update %q", id)
		}
	})
}

func TestMemoryTodoRepository(t *testing.T) {
	runContract(t, func(t *testing.T) TodoRepository {
		return NewMemoryTodoRepository()
	}, "999")
}

func TestMemoryTodoRepository_IDsAreSequential(t *testing.T) {
	repo := NewMemoryTodoRepository()
	ctx := context.Background()

	first := &domain.Todo{Text: "a"}
	second := &domain.Todo{Text: "b"}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))
	assert.Equal(t, "1", first.ID)
	assert.Equal(t, "2", second.ID)

	require.NoError(t, repo.Delete(ctx, first.ID))
	third := &domain.Todo{Text: "c"}
	require.NoError(t, repo.Create(ctx, third))
	assert.Equal(t, "3", third.ID, "ids are never reused")
}

func TestMemoryTodoRepository_ReturnsCopies(t *testing.T) {
	repo := NewMemoryTodoRepository()
	ctx := context.Background()

	todo := &domain.Todo{Text: "original"}
	require.NoError(t, repo.Create(ctx, todo))

	found, err := repo.FindByID(ctx, todo.ID)
	require.NoError(t, err)
	found.Text = "mutated"

	again, err := repo.FindByID(ctx, todo.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", again.Text)
}

func TestParseID(t *testing.T) {
	tests := []struct {
		id   string
		want uint
		ok   bool
	}{
		{"1", 1, true},
		{"9223372036854775807", 9223372036854775807, true},
		{"9223372036854775808", 0, false},
		{"18446744073709551615", 0, false},
		{"0", 0, false},
		{"-1", 0, false},
		{"abc", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got, err := parseID(tt.id)
			if !tt.ok {
				assert.ErrorIs(t, err, ErrNotFound)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
