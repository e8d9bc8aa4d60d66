package service

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"

	"github.com/Tomlord1122/todo-list/internal/domain"
	"github.com/Tomlord1122/todo-list/internal/repository"
)

// CreateTodoRequest holds the data needed to create a new todo.
// Completed defaults to false when omitted.
type CreateTodoRequest struct {
	Text      string `json:"text" validate:"required,max=500"`
	Completed *bool  `json:"completed"`
}

// UpdateTodoRequest holds the data for updating an existing todo.
// Using pointers allows distinguishing between a field being omitted
// vs. being set to its zero value (e.g., setting Completed to false).
type UpdateTodoRequest struct {
	Text      *string `json:"text" validate:"omitnil,min=1,max=500"`
	Completed *bool   `json:"completed"`
}

// ListTodosQuery holds the optional filters for listing todos.
type ListTodosQuery struct {
	Completed *bool `schema:"completed"`
}

// TodoResponse is the standard representation of a Todo returned by the service.
type TodoResponse struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// TodoService defines the operations for managing todos.
type TodoService interface {
	CreateTodo(ctx context.Context, req CreateTodoRequest) (*TodoResponse, error)
	GetTodoByID(ctx context.Context, id string) (*TodoResponse, error)
	// GetAllTodos lists todos in store insertion order.
	GetAllTodos(ctx context.Context, query ListTodosQuery) ([]TodoResponse, error)
	// UpdateTodo changes only the fields present in req.
	UpdateTodo(ctx context.Context, id string, req UpdateTodoRequest) (*TodoResponse, error)
	DeleteTodo(ctx context.Context, id string) error
}

type todoService struct {
	repo     repository.TodoRepository
	validate *validator.Validate
	logger   *log.Logger
}

// NewTodoService creates a TodoService on top of repo.
func NewTodoService(repo repository.TodoRepository, logger *log.Logger) TodoService {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &todoService{
		repo:     repo,
		validate: v,
		logger:   logger,
	}
}

func toResponse(todo domain.Todo) TodoResponse {
	return TodoResponse{
		ID:        todo.ID,
		Text:      todo.Text,
		Completed: todo.Completed,
		CreatedAt: todo.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: todo.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func (s *todoService) CreateTodo(ctx context.Context, req CreateTodoRequest) (*TodoResponse, error) {
	req.Text = strings.TrimSpace(req.Text)
	if err := s.validate.Struct(req); err != nil {
		return nil, newValidationError(err)
	}

	todo := &domain.Todo{Text: req.Text}
	if req.Completed != nil {
		todo.Completed = *req.Completed
	}
	if err := s.repo.Create(ctx, todo); err != nil {
		return nil, &StoreError{Op: "create todo", Err: err}
	}
	s.logger.Debug("todo created", "id", todo.ID)

	resp := toResponse(*todo)
	return &resp, nil
}

func (s *todoService) GetTodoByID(ctx context.Context, id string) (*TodoResponse, error) {
	todo, err := s.find(ctx, "get todo", id)
	if err != nil {
		return nil, err
	}
	resp := toResponse(*todo)
	return &resp, nil
}

func (s *todoService) GetAllTodos(ctx context.Context, query ListTodosQuery) ([]TodoResponse, error) {
	todos, err := s.repo.GetAll(ctx, domain.TodoFilter{Completed: query.Completed})
	if err != nil {
		return nil, &StoreError{Op: "list todos", Err: err}
	}

	responses := make([]TodoResponse, 0, len(todos))
	for _, todo := range todos {
		responses = append(responses, toResponse(todo))
	}
	return responses, nil
}

func (s *todoService) UpdateTodo(ctx context.Context, id string, req UpdateTodoRequest) (*TodoResponse, error) {
	if req.Text != nil {
		trimmed := strings.TrimSpace(*req.Text)
		req.Text = &trimmed
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, newValidationError(err)
	}

	patch := domain.TodoPatch{Text: req.Text, Completed: req.Completed}
	if patch.IsEmpty() {
		return s.GetTodoByID(ctx, id)
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, &StoreError{Op: "update todo", Err: err}
	}
	s.logger.Debug("todo updated", "id", updated.ID, "completed", updated.Completed)

	resp := toResponse(*updated)
	return &resp, nil
}

func (s *todoService) DeleteTodo(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTodoNotFound
		}
		return &StoreError{Op: "delete todo", Err: err}
	}
	s.logger.Debug("todo deleted", "id", id)
	return nil
}

func (s *todoService) find(ctx context.Context, op, id string) (*domain.Todo, error) {
	todo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, &StoreError{Op: op, Err: err}
	}
	return todo, nil
}
