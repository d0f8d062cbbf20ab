package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/teamboard/backend/domain"
	"github.com/teamboard/backend/repository"
)

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	const query = `
	SELECT id, project_id, text, status, start_date, due_date, assigned_to, created_at, updated_at
	FROM tasks
	WHERE id = $1
	`
	return scanTask(r.pool.QueryRow(ctx, query, id))
}

func (r *taskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	const query = `
	SELECT id, project_id, text, status, start_date, due_date, assigned_to, created_at, updated_at
	FROM tasks
	WHERE ($1 = '' OR project_id = $1)
	  AND ($2 = '' OR status = $2)
	  AND ($3 = '' OR assigned_to = $3)
	ORDER BY created_at
	LIMIT $4 OFFSET $5
	`
	rows, err := r.pool.Query(ctx, query,
		filter.ProjectID,
		string(filter.Status),
		filter.AssignedTo,
		nullLimit(filter.Limit),
		filter.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO tasks (id, project_id, text, status, start_date, due_date, assigned_to)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING created_at, updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.ProjectID,
		task.Text,
		task.Status,
		nullTime(task.StartDate),
		nullTime(task.DueDate),
		nullString(task.AssignedTo),
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
	SET text = $2,
		status = $3,
		start_date = $4,
		due_date = $5,
		assigned_to = $6,
		updated_at = NOW()
	WHERE id = $1
	RETURNING updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.Text,
		task.Status,
		nullTime(task.StartDate),
		nullTime(task.DueDate),
		nullString(task.AssignedTo),
	).Scan(&task.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrTaskNotFound
		}
		return err
	}
	return nil
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM comments WHERE task_id = $1`, id); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx,
			`DELETE FROM task_dependencies WHERE blocker_task_id = $1 OR blocked_task_id = $1`, id); err != nil {
			return err
		}

		tag, err := tx.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrTaskNotFound
		}
		return nil
	})
}

func (r *taskRepository) ListDependencies(ctx context.Context, projectID string) ([]domain.Dependency, error) {
	const query = `
	SELECT project_id, blocker_task_id, blocked_task_id, created_at
	FROM task_dependencies
	WHERE project_id = $1
	`
	rows, err := r.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var edges []domain.Dependency
	for rows.Next() {
		var edge domain.Dependency
		if err := rows.Scan(&edge.ProjectID, &edge.BlockerTaskID, &edge.BlockedTaskID, &edge.CreatedAt); err != nil {
			return nil, err
		}
		edges = append(edges, edge)
	}
	return edges, rows.Err()
}

func (r *taskRepository) AddDependency(ctx context.Context, dep *domain.Dependency) error {
	if dep == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO task_dependencies (project_id, blocker_task_id, blocked_task_id)
	VALUES ($1, $2, $3)
	RETURNING created_at
	`
	err := r.pool.QueryRow(ctx, query, dep.ProjectID, dep.BlockerTaskID, dep.BlockedTaskID).Scan(&dep.CreatedAt)
	if err != nil {
		// Unique violation means a concurrent insert won the race.
		if uniqueViolation(err) {
			return domain.Conflict("dependency edge already exists")
		}
		return err
	}
	return nil
}

func (r *taskRepository) RemoveDependency(ctx context.Context, blockerTaskID, blockedTaskID string) error {
	const query = `
	DELETE FROM task_dependencies
	WHERE blocker_task_id = $1 AND blocked_task_id = $2
	`
	tag, err := r.pool.Exec(ctx, query, blockerTaskID, blockedTaskID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDependencyNotFound
	}
	return nil
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var task domain.Task
	var assignedTo *string

	if err := row.Scan(
		&task.ID,
		&task.ProjectID,
		&task.Text,
		&task.Status,
		&task.StartDate,
		&task.DueDate,
		&assignedTo,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}

	if assignedTo != nil {
		task.AssignedTo = *assignedTo
	}
	return &task, nil
}
