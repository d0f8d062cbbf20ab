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

type workspaceRepository struct {
	pool *pgxpool.Pool
}

// NewWorkspaceRepository returns a Postgres-backed implementation of WorkspaceRepository.
func NewWorkspaceRepository(pool *pgxpool.Pool) repository.WorkspaceRepository {
	return &workspaceRepository{pool: pool}
}

func (r *workspaceRepository) GetByID(ctx context.Context, id string) (*domain.Workspace, error) {
	const query = `
	SELECT id, name, slug, created_at
	FROM workspaces
	WHERE id = $1
	`
	return scanWorkspace(r.pool.QueryRow(ctx, query, id))
}

func (r *workspaceRepository) GetBySlug(ctx context.Context, slug string) (*domain.Workspace, error) {
	const query = `
	SELECT id, name, slug, created_at
	FROM workspaces
	WHERE slug = $1
	`
	return scanWorkspace(r.pool.QueryRow(ctx, query, slug))
}

func (r *workspaceRepository) CreateWithOwner(ctx context.Context, ws *domain.Workspace, owner *domain.User) error {
	if ws == nil || owner == nil {
		return domain.ErrInvalidPayload
	}
	if ws.ID == "" {
		ws.ID = uuid.NewString()
	}
	if owner.ID == "" {
		owner.ID = uuid.NewString()
	}
	owner.WorkspaceID = ws.ID
	owner.Role = domain.RoleOwner

	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		const insertWorkspace = `
		INSERT INTO workspaces (id, name, slug)
		VALUES ($1, $2, $3)
		RETURNING created_at
		`
		if err := tx.QueryRow(ctx, insertWorkspace, ws.ID, ws.Name, ws.Slug).Scan(&ws.CreatedAt); err != nil {
			if uniqueViolation(err) {
				return domain.Conflict("workspace slug already taken")
			}
			return err
		}

		const insertOwner = `
		INSERT INTO users (id, workspace_id, username, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
		`
		return tx.QueryRow(ctx, insertOwner,
			owner.ID,
			owner.WorkspaceID,
			owner.Username,
			owner.PasswordHash,
			owner.Role,
		).Scan(&owner.CreatedAt, &owner.UpdatedAt)
	})
}

func (r *workspaceRepository) Delete(ctx context.Context, id string) error {
	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		statements := []string{
			`DELETE FROM comments WHERE task_id IN (
				SELECT t.id FROM tasks t
				JOIN projects p ON p.id = t.project_id
				WHERE p.workspace_id = $1)`,
			`DELETE FROM task_dependencies WHERE project_id IN (
				SELECT id FROM projects WHERE workspace_id = $1)`,
			`DELETE FROM tasks WHERE project_id IN (
				SELECT id FROM projects WHERE workspace_id = $1)`,
			`DELETE FROM project_members WHERE project_id IN (
				SELECT id FROM projects WHERE workspace_id = $1)`,
			`DELETE FROM projects WHERE workspace_id = $1`,
			`DELETE FROM users WHERE workspace_id = $1`,
		}
		for _, stmt := range statements {
			if _, err := tx.Exec(ctx, stmt, id); err != nil {
				return err
			}
		}

		tag, err := tx.Exec(ctx, `DELETE FROM workspaces WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrWorkspaceNotFound
		}
		return nil
	})
}

func scanWorkspace(row pgx.Row) (*domain.Workspace, error) {
	var ws domain.Workspace
	if err := row.Scan(&ws.ID, &ws.Name, &ws.Slug, &ws.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWorkspaceNotFound
		}
		return nil, err
	}
	return &ws, nil
}
