package repository

import (
	"context"

	"github.com/teamboard/backend/domain"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, workspaceID, username string) (*domain.User, error)
	List(ctx context.Context, workspaceID string) ([]domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	// Delete removes the user, their project memberships, and their authored
	// comments, and clears any task assignments pointing at them, all in one
	// transaction.
	Delete(ctx context.Context, id string) error
	CountOwners(ctx context.Context, workspaceID string) (int, error)
}
