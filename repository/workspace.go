package repository

import (
	"context"

	"github.com/teamboard/backend/domain"
)

type WorkspaceRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Workspace, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Workspace, error)
	// CreateWithOwner persists the workspace together with its first Owner
	// user in one transaction, so a workspace never exists without an Owner.
	CreateWithOwner(ctx context.Context, ws *domain.Workspace, owner *domain.User) error
	// Delete removes the workspace and every descendant entity (users,
	// projects, tasks, dependencies, comments) in one transaction.
	Delete(ctx context.Context, id string) error
}
