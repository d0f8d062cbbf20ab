package coordinator

import (
	"context"

	"github.com/teamboard/backend/domain"
	"github.com/teamboard/backend/repository"
	"github.com/teamboard/backend/usecase/authz"
	"github.com/teamboard/backend/usecase/integrity"
)

func (c *Coordinator) CreateProject(ctx context.Context, actorID string, project *domain.Project) (*domain.Project, error) {
	actor, err := c.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if project == nil || project.Name == "" || project.WorkspaceID == "" {
		return nil, domain.ErrInvalidPayload
	}
	if project.ManagerID == "" {
		project.ManagerID = actor.ID
	}
	if !project.DatesValid() {
		return nil, domain.NewError(domain.ErrCodeInvalid, "project end date precedes start date")
	}

	if err := authorize(actor, authz.ActionCreateProject, authz.Target{WorkspaceID: project.WorkspaceID, Project: project}, domain.ErrWorkspaceNotFound); err != nil {
		return nil, err
	}
	if err := c.validateManager(ctx, project.WorkspaceID, project.ManagerID); err != nil {
		return nil, err
	}
	if err := c.validateWorkspaceUsers(ctx, project.WorkspaceID, project.MemberIDs); err != nil {
		return nil, err
	}

	created, err := c.projects.Create(ctx, project)
	if err != nil {
		return nil, c.storeErr("create project", err)
	}

	c.cache.Invalidate(ctx, repository.ProjectsCacheKey(project.WorkspaceID))
	c.record(ctx, actorID, authz.ActionCreateProject, "project", created.ID)
	return created, nil
}

func (c *Coordinator) UpdateProject(ctx context.Context, actorID string, project *domain.Project) (*domain.Project, error) {
	actor, err := c.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if project == nil || project.ID == "" || project.Name == "" {
		return nil, domain.ErrInvalidPayload
	}
	if !project.DatesValid() {
		return nil, domain.NewError(domain.ErrCodeInvalid, "project end date precedes start date")
	}

	current, err := c.project(ctx, project.ID)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, authz.ActionUpdateProject, authz.Target{WorkspaceID: current.WorkspaceID, Project: current}, domain.ErrProjectNotFound); err != nil {
		return nil, err
	}

	project.WorkspaceID = current.WorkspaceID
	if project.ManagerID == "" {
		project.ManagerID = current.ManagerID
	}
	if project.ManagerID != current.ManagerID {
		if err := c.validateManager(ctx, current.WorkspaceID, project.ManagerID); err != nil {
			return nil, err
		}
	}

	if err := c.projects.Update(ctx, project); err != nil {
		return nil, c.storeErr("update project", err)
	}

	c.cache.Invalidate(ctx, repository.ProjectsCacheKey(current.WorkspaceID))
	c.record(ctx, actorID, authz.ActionUpdateProject, "project", project.ID)
	return project, nil
}

func (c *Coordinator) SetProjectMembers(ctx context.Context, actorID, projectID string, memberIDs []string) (*domain.Project, error) {
	actor, err := c.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	project, err := c.project(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, authz.ActionManageMembers, authz.Target{WorkspaceID: project.WorkspaceID, Project: project}, domain.ErrProjectNotFound); err != nil {
		return nil, err
	}

	if err := integrity.ValidateMembershipChange(project, memberIDs); err != nil {
		return nil, err
	}
	if err := c.validateWorkspaceUsers(ctx, project.WorkspaceID, memberIDs); err != nil {
		return nil, err
	}

	if err := c.projects.SetMembers(ctx, projectID, memberIDs); err != nil {
		return nil, c.storeErr("set project members", err)
	}

	// Roster changed and assignments of dropped members were cleared.
	c.cache.Invalidate(ctx,
		repository.ProjectsCacheKey(project.WorkspaceID),
		repository.TasksCacheKey(projectID),
	)

	project.MemberIDs = memberIDs
	c.record(ctx, actorID, authz.ActionManageMembers, "project", projectID)
	return project, nil
}

func (c *Coordinator) DeleteProject(ctx context.Context, actorID, projectID string) error {
	actor, err := c.actor(ctx, actorID)
	if err != nil {
		return err
	}

	project, err := c.project(ctx, projectID)
	if err != nil {
		return err
	}
	if err := authorize(actor, authz.ActionDeleteProject, authz.Target{WorkspaceID: project.WorkspaceID, Project: project}, domain.ErrProjectNotFound); err != nil {
		return err
	}

	if err := c.projects.Delete(ctx, projectID); err != nil {
		return c.storeErr("delete project", err)
	}

	// Task-list and comment keys under a deleted project are unbounded in
	// number, so comments fall back to prefix invalidation.
	c.cache.Invalidate(ctx,
		repository.ProjectsCacheKey(project.WorkspaceID),
		repository.TasksCacheKey(projectID),
	)
	c.cache.InvalidatePrefix(ctx, repository.CommentsCachePrefix(projectID))

	c.record(ctx, actorID, authz.ActionDeleteProject, "project", projectID)
	return nil
}

// validateManager requires the proposed manager to exist in the workspace
// with at least the Manager role.
func (c *Coordinator) validateManager(ctx context.Context, workspaceID, managerID string) error {
	manager, err := c.users.GetByID(ctx, managerID)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return domain.NewError(domain.ErrCodeInvalid, "project manager does not exist")
		}
		return c.storeErr("load manager", err)
	}
	if manager.WorkspaceID != workspaceID {
		return domain.NewError(domain.ErrCodeInvalid, "project manager does not exist")
	}
	if !manager.Role.AtLeast(domain.RoleManager) {
		return domain.NewError(domain.ErrCodeInvalid, "project manager must hold at least the manager role")
	}
	return nil
}

// validateWorkspaceUsers requires every referenced user to belong to the
// given workspace.
func (c *Coordinator) validateWorkspaceUsers(ctx context.Context, workspaceID string, userIDs []string) error {
	for _, id := range userIDs {
		user, err := c.users.GetByID(ctx, id)
		if err != nil {
			if domain.IsDomainError(err, domain.ErrCodeNotFound) {
				return domain.NewError(domain.ErrCodeInvalid, "member does not exist")
			}
			return c.storeErr("load member", err)
		}
		if user.WorkspaceID != workspaceID {
			return domain.NewError(domain.ErrCodeInvalid, "member does not exist")
		}
	}
	return nil
}
