package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Tomlord1122/todo-list/internal/domain"
)

// todoRecord is the postgres row behind a domain.Todo. Deletes are hard
// deletes, so there is no gorm.DeletedAt column.
type todoRecord struct {
	ID        uint   `gorm:"primaryKey"`
	Text      string `gorm:"not null"`
	Completed bool   `gorm:"not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (todoRecord) TableName() string { return "todos" }

func (r todoRecord) toDomain() domain.Todo {
	return domain.Todo{
		ID:        strconv.FormatUint(uint64(r.ID), 10),
		Text:      r.Text,
		Completed: r.Completed,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// AutoMigrate creates or updates the todos table.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&todoRecord{})
}

// gormTodoRepository implements TodoRepository using GORM
type gormTodoRepository struct {
	db *gorm.DB
}

// NewGormTodoRepository creates a new GORM todo repository
func NewGormTodoRepository(db *gorm.DB) TodoRepository {
	return &gormTodoRepository{db: db}
}

// parseID maps the opaque id onto the numeric primary key. Anything that is
// not a positive integer within postgres bigint range cannot name a row.
func parseID(id string) (uint, error) {
	n, err := strconv.ParseUint(id, 10, 63)
	if err != nil || n == 0 {
		return 0, ErrNotFound
	}
	return uint(n), nil
}

func (r *gormTodoRepository) Create(ctx context.Context, todo *domain.Todo) error {
	rec := todoRecord{Text: todo.Text, Completed: todo.Completed}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return err
	}
	*todo = rec.toDomain()
	return nil
}

func (r *gormTodoRepository) FindByID(ctx context.Context, id string) (*domain.Todo, error) {
	pk, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var rec todoRecord
	if err := r.db.WithContext(ctx).First(&rec, pk).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	todo := rec.toDomain()
	return &todo, nil
}

func (r *gormTodoRepository) GetAll(ctx context.Context, filter domain.TodoFilter) ([]domain.Todo, error) {
	var recs []todoRecord
	q := r.db.WithContext(ctx).Order("id asc")
	if filter.Completed != nil {
		q = q.Where("completed = ?", *filter.Completed)
	}
	if err := q.Find(&recs).Error; err != nil {
		return nil, err
	}
	todos := make([]domain.Todo, 0, len(recs))
	for _, rec := range recs {
		todos = append(todos, rec.toDomain())
	}
	return todos, nil
}

// Update writes only the patched columns plus updated_at, and RETURNING
// fills rec with the row as it stands after the write.
func (r *gormTodoRepository) Update(ctx context.Context, id string, patch domain.TodoPatch) (*domain.Todo, error) {
	pk, err := parseID(id)
	if err != nil {
		return nil, err
	}
	values := map[string]any{"updated_at": time.Now()}
	if patch.Text != nil {
		values["text"] = *patch.Text
	}
	if patch.Completed != nil {
		values["completed"] = *patch.Completed
	}

	rec := todoRecord{ID: pk}
	result := r.db.WithContext(ctx).
		Model(&rec).
		Clauses(clause.Returning{}).
		Updates(values)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	todo := rec.toDomain()
	return &todo, nil
}

func (r *gormTodoRepository) Delete(ctx context.Context, id string) error {
	pk, err := parseID(id)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&todoRecord{}, pk)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
