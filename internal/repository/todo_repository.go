package repository

import (
	"context"
	"errors"

	"github.com/Tomlord1122/todo-list/internal/domain"
)

// ErrNotFound is returned when an id does not resolve to a stored todo,
// including ids that are malformed for the backing store.
var ErrNotFound = errors.New("todo not found")

// TodoRepository defines the interface for todo data operations
type TodoRepository interface {
	// Create stores todo and fills in its ID and timestamps.
	Create(ctx context.Context, todo *domain.Todo) error
	FindByID(ctx context.Context, id string) (*domain.Todo, error)
	// GetAll returns todos in insertion order.
	GetAll(ctx context.Context, filter domain.TodoFilter) ([]domain.Todo, error)
	// Update writes only the fields present in patch, refreshes UpdatedAt
	// and returns the record as stored after the write. The write is a
	// single store operation, so concurrent patches to different fields
	// do not overwrite each other.
	Update(ctx context.Context, id string, patch domain.TodoPatch) (*domain.Todo, error)
	Delete(ctx context.Context, id string) error
}
