package repository

import (
	"context"

	"github.com/teamboard/backend/domain"
)

type ProjectRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	ListByWorkspace(ctx context.Context, workspaceID string) ([]domain.Project, error)
	// Create inserts the project and its initial member set in one
	// transaction. The manager is always part of the member set.
	Create(ctx context.Context, project *domain.Project) (*domain.Project, error)
	Update(ctx context.Context, project *domain.Project) error
	// SetMembers replaces the member set atomically and clears task
	// assignments of anyone no longer in the set.
	SetMembers(ctx context.Context, projectID string, memberIDs []string) error
	// Delete cascades to tasks, dependency edges, and comments in one
	// transaction.
	Delete(ctx context.Context, id string) error
}
