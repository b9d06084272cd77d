package task

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/taskdeck/backend/domain"
	"github.com/taskdeck/backend/repository"
)

// UpdateInput carries a partial merge; nil pointers keep stored values.
type UpdateInput struct {
	Title       *string
	Description *string
	Priority    *domain.Priority
	EndDate     *time.Time
}

// UseCase scopes every task operation by the caller's authenticated user
// identifier. It never accepts a client-supplied owner.
type UseCase struct {
	tasks  repository.TaskRepository
	logger *zap.Logger
}

func New(tasks repository.TaskRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:  tasks,
		logger: logger,
	}
}

// List returns one page of the owner's tasks plus the total count
// matching the filter regardless of pagination.
func (uc *UseCase) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, int, error) {
	tasks, total, err := uc.tasks.List(ctx, filter)
	if err != nil {
		return nil, 0, domain.Internal(err, "Failed to fetch tasks")
	}
	return tasks, total, nil
}

func (uc *UseCase) Get(ctx context.Context, id, userID string) (*domain.Task, error) {
	task, err := uc.tasks.GetByID(ctx, id, userID)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil, err
		}
		return nil, domain.Internal(err, "Failed to fetch task")
	}
	return task, nil
}

func (uc *UseCase) Create(ctx context.Context, task *domain.Task, userID string) (*domain.Task, error) {
	task.UserID = userID

	created, err := uc.tasks.Create(ctx, task)
	if err != nil {
		return nil, domain.Internal(err, "Failed to create task")
	}

	uc.logger.Info("task created", zap.String("task_id", created.ID), zap.String("user_id", userID))
	return created, nil
}

// Update resolves the task within the owner's scope first; a task owned
// by someone else fails exactly like a missing one.
func (uc *UseCase) Update(ctx context.Context, id, userID string, input UpdateInput) (*domain.Task, error) {
	existing, err := uc.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		existing.Title = *input.Title
	}
	if input.Description != nil {
		existing.Description = *input.Description
	}
	if input.Priority != nil {
		existing.Priority = *input.Priority
	}
	if input.EndDate != nil {
		existing.EndDate = *input.EndDate
	}

	if err := uc.tasks.Update(ctx, existing); err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil, err
		}
		return nil, domain.Internal(err, "Failed to update task")
	}
	return existing, nil
}

func (uc *UseCase) Delete(ctx context.Context, id, userID string) error {
	if _, err := uc.Get(ctx, id, userID); err != nil {
		return err
	}

	if err := uc.tasks.Delete(ctx, id, userID); err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return err
		}
		return domain.Internal(err, "Failed to delete task")
	}

	uc.logger.Info("task deleted", zap.String("task_id", id), zap.String("user_id", userID))
	return nil
}
