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

type projectRepository struct {
	pool *pgxpool.Pool
}

// NewProjectRepository returns a Postgres-backed implementation of ProjectRepository.
func NewProjectRepository(pool *pgxpool.Pool) repository.ProjectRepository {
	return &projectRepository{pool: pool}
}

func (r *projectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	const query = `
	SELECT id, workspace_id, name, start_date, end_date, manager_id, created_at, updated_at
	FROM projects
	WHERE id = $1
	`
	project, err := scanProject(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}

	members, err := r.members(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	project.MemberIDs = members[id]
	return project, nil
}

func (r *projectRepository) ListByWorkspace(ctx context.Context, workspaceID string) ([]domain.Project, error) {
	const query = `
	SELECT id, workspace_id, name, start_date, end_date, manager_id, created_at, updated_at
	FROM projects
	WHERE workspace_id = $1
	ORDER BY created_at
	`
	rows, err := r.pool.Query(ctx, query, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []domain.Project
	var ids []string
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *project)
		ids = append(ids, project.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	members, err := r.members(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range projects {
		projects[i].MemberIDs = members[projects[i].ID]
	}
	return projects, nil
}

func (r *projectRepository) Create(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	if project == nil {
		return nil, domain.ErrInvalidPayload
	}
	if project.ID == "" {
		project.ID = uuid.NewString()
	}
	project.MemberIDs = ensureMember(project.MemberIDs, project.ManagerID)

	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		const insertProject = `
		INSERT INTO projects (id, workspace_id, name, start_date, end_date, manager_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
		`
		if err := tx.QueryRow(ctx, insertProject,
			project.ID,
			project.WorkspaceID,
			project.Name,
			nullTime(project.StartDate),
			nullTime(project.EndDate),
			project.ManagerID,
		).Scan(&project.CreatedAt, &project.UpdatedAt); err != nil {
			return err
		}
		return insertMembers(ctx, tx, project.ID, project.MemberIDs)
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

func (r *projectRepository) Update(ctx context.Context, project *domain.Project) error {
	if project == nil {
		return domain.ErrInvalidPayload
	}

	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		const query = `
		UPDATE projects
		SET name = $2,
			start_date = $3,
			end_date = $4,
			manager_id = $5,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
		`
		if err := tx.QueryRow(ctx, query,
			project.ID,
			project.Name,
			nullTime(project.StartDate),
			nullTime(project.EndDate),
			project.ManagerID,
		).Scan(&project.UpdatedAt); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrProjectNotFound
			}
			return err
		}

		// The manager is implicitly a member.
		const ensureManager = `
		INSERT INTO project_members (project_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
		`
		_, err := tx.Exec(ctx, ensureManager, project.ID, project.ManagerID)
		return err
	})
}

func (r *projectRepository) SetMembers(ctx context.Context, projectID string, memberIDs []string) error {
	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM project_members WHERE project_id = $1`, projectID); err != nil {
			return err
		}
		if err := insertMembers(ctx, tx, projectID, memberIDs); err != nil {
			return err
		}

		// Anyone dropped from the member set loses their task assignments.
		const clearAssignments = `
		UPDATE tasks
		SET assigned_to = NULL
		WHERE project_id = $1
		  AND assigned_to IS NOT NULL
		  AND assigned_to <> ALL($2)
		`
		_, err := tx.Exec(ctx, clearAssignments, projectID, memberIDs)
		return err
	})
}

func (r *projectRepository) Delete(ctx context.Context, id string) error {
	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		statements := []string{
			`DELETE FROM comments WHERE task_id IN (SELECT id FROM tasks WHERE project_id = $1)`,
			`DELETE FROM task_dependencies WHERE project_id = $1`,
			`DELETE FROM tasks WHERE project_id = $1`,
			`DELETE FROM project_members WHERE project_id = $1`,
		}
		for _, stmt := range statements {
			if _, err := tx.Exec(ctx, stmt, id); err != nil {
				return err
			}
		}

		tag, err := tx.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrProjectNotFound
		}
		return nil
	})
}

func (r *projectRepository) members(ctx context.Context, projectIDs []string) (map[string][]string, error) {
	result := make(map[string][]string, len(projectIDs))
	if len(projectIDs) == 0 {
		return result, nil
	}

	const query = `
	SELECT project_id, user_id
	FROM project_members
	WHERE project_id = ANY($1)
	ORDER BY added_at
	`
	rows, err := r.pool.Query(ctx, query, projectIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var projectID, userID string
		if err := rows.Scan(&projectID, &userID); err != nil {
			return nil, err
		}
		result[projectID] = append(result[projectID], userID)
	}
	return result, rows.Err()
}

func insertMembers(ctx context.Context, tx pgx.Tx, projectID string, memberIDs []string) error {
	const query = `
	INSERT INTO project_members (project_id, user_id)
	VALUES ($1, $2)
	ON CONFLICT DO NOTHING
	`
	for _, userID := range memberIDs {
		if _, err := tx.Exec(ctx, query, projectID, userID); err != nil {
			return err
		}
	}
	return nil
}

func ensureMember(memberIDs []string, managerID string) []string {
	for _, id := range memberIDs {
		if id == managerID {
			return memberIDs
		}
	}
	return append(memberIDs, managerID)
}

func scanProject(row pgx.Row) (*domain.Project, error) {
	var project domain.Project
	if err := row.Scan(
		&project.ID,
		&project.WorkspaceID,
		&project.Name,
		&project.StartDate,
		&project.EndDate,
		&project.ManagerID,
		&project.CreatedAt,
		&project.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, err
	}
	return &project, nil
}
