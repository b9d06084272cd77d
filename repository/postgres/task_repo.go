package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskdeck/backend/domain"
	"github.com/taskdeck/backend/repository"
)

// sortColumns maps descriptor sort identifiers onto actual columns.
// Anything outside this map falls back to creation time.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"title":     "title",
	"priority":  "priority",
	"endDate":   "end_date",
}

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

func (r *taskRepository) GetByID(ctx context.Context, id, userID string) (*domain.Task, error) {
	const query = `
	SELECT id, user_id, title, description, priority, end_date, created_at, updated_at
	FROM tasks
	WHERE id = $1 AND user_id = $2
	`
	return scanTask(r.pool.QueryRow(ctx, query, id, userID))
}

func (r *taskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, int, error) {
	const where = `
	WHERE user_id = $1
	  AND ($2 = '' OR title ILIKE '%' || $2 || '%' OR description ILIKE '%' || $2 || '%')
	  AND ($3 = '' OR priority = $3)
	`

	column, ok := sortColumns[filter.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "ASC"
	if filter.Desc {
		direction = "DESC"
	}

	query := fmt.Sprintf(`
	SELECT id, user_id, title, description, priority, end_date, created_at, updated_at
	FROM tasks
	%s
	ORDER BY %s %s
	LIMIT $4 OFFSET $5
	`, where, column, direction)

	rows, err := r.pool.Query(ctx, query,
		filter.UserID,
		filter.Search,
		string(filter.Priority),
		clampLimit(filter.PerPage),
		filter.Offset(),
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, 0, err
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM tasks ` + where
	if err := r.pool.QueryRow(ctx, countQuery,
		filter.UserID,
		filter.Search,
		string(filter.Priority),
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO tasks (id, user_id, title, description, priority, end_date)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING created_at, updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.UserID,
		task.Title,
		task.Description,
		string(task.Priority),
		task.EndDate,
	).Scan(&task.CreatedAt, &task.UpdatedAt); err != nil {
		return nil, err
	}

	return task, nil
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE tasks
	SET title = $3,
		description = $4,
		priority = $5,
		end_date = $6,
		updated_at = NOW()
	WHERE id = $1 AND user_id = $2
	RETURNING updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.UserID,
		task.Title,
		task.Description,
		string(task.Priority),
		task.EndDate,
	).Scan(&task.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrTaskNotFound
		}
		return err
	}

	return nil
}

func (r *taskRepository) Delete(ctx context.Context, id, userID string) error {
	const query = `DELETE FROM tasks WHERE id = $1 AND user_id = $2`
	tag, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tasks`).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var task domain.Task
	var priority string

	if err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Description,
		&priority,
		&task.EndDate,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}

	task.Priority = domain.Priority(priority)
	return &task, nil
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 100
	}
	return limit
}
