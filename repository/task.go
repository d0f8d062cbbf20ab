package repository

import (
	"context"

	"github.com/teamboard/backend/domain"
)

type TaskFilter struct {
	ProjectID  string
	Status     domain.TaskStatus
	AssignedTo string
	Limit      int
	Offset     int
}

type TaskRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	// Delete removes the task, any dependency edge referencing it in either
	// direction, and its comments in one transaction.
	Delete(ctx context.Context, id string) error

	ListDependencies(ctx context.Context, projectID string) ([]domain.Dependency, error)
	AddDependency(ctx context.Context, dep *domain.Dependency) error
	RemoveDependency(ctx context.Context, blockerTaskID, blockedTaskID string) error
}
