package repository

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/Tomlord1122/todo-list/internal/domain"
)

// memoryTodoRepository keeps todos in process memory. IDs are a decimal
// counter starting at 1, and order is the order of creation.
type memoryTodoRepository struct {
	mu     sync.RWMutex
	nextID uint64
	order  []string
	todos  map[string]domain.Todo
	now    func() time.Time
}

// NewMemoryTodoRepository creates an empty in-memory todo repository.
func NewMemoryTodoRepository() TodoRepository {
	return &memoryTodoRepository{
		todos: make(map[string]domain.Todo),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (r *memoryTodoRepository) Create(ctx context.Context, todo *domain.Todo) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	now := r.now()
	stored := domain.Todo{
		ID:        strconv.FormatUint(r.nextID, 10),
		Text:      todo.Text,
		Completed: todo.Completed,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.todos[stored.ID] = stored
	r.order = append(r.order, stored.ID)
	*todo = stored
	return nil
}

func (r *memoryTodoRepository) FindByID(ctx context.Context, id string) (*domain.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	todo, ok := r.todos[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &todo, nil
}

func (r *memoryTodoRepository) GetAll(ctx context.Context, filter domain.TodoFilter) ([]domain.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	todos := make([]domain.Todo, 0, len(r.order))
	for _, id := range r.order {
		if t := r.todos[id]; filter.Matches(t) {
			todos = append(todos, t)
		}
	}
	return todos, nil
}

func (r *memoryTodoRepository) Update(ctx context.Context, id string, patch domain.TodoPatch) (*domain.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.todos[id]
	if !ok {
		return nil, ErrNotFound
	}
	patch.Apply(&stored)
	stored.UpdatedAt = r.now()
	r.todos[id] = stored
	return &stored, nil
}

func (r *memoryTodoRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.todos[id]; !ok {
		return ErrNotFound
	}
	delete(r.todos, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
