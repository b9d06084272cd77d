package repository

import (
	"context"

	"github.com/taskdeck/backend/domain"
)

// TaskFilter is the canonical query descriptor for task listings. It is
// always scoped by UserID; builders validate the remaining fields before
// the filter reaches a store.
type TaskFilter struct {
	UserID   string
	Search   string
	Priority domain.Priority
	SortBy   string
	Desc     bool
	Page     int
	PerPage  int
}

// Offset converts the page number into a row offset.
func (f TaskFilter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.PerPage
}

type TaskRepository interface {
	// GetByID resolves a task only within its owner's scope. A task
	// owned by another user is indistinguishable from a missing one.
	GetByID(ctx context.Context, id, userID string) (*domain.Task, error)
	// List returns the requested page plus the total count matching the
	// filter regardless of pagination.
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, int, error)
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, id, userID string) error
	Count(ctx context.Context) (int, error)
}
