package coordinator

import (
	"context"
	"encoding/json"

	"github.com/teamboard/backend/domain"
	"github.com/teamboard/backend/repository"
	"github.com/teamboard/backend/usecase/authz"
)

// ListProjects returns the projects of the actor's workspace visible to the
// actor. The cached snapshot is tenant-scoped; visibility is re-evaluated
// per actor on every call so a role change never serves through a stale
// authorization decision.
func (c *Coordinator) ListProjects(ctx context.Context, actorID string) ([]domain.Project, error) {
	actor, err := c.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	projects, err := c.cachedProjects(ctx, actor.WorkspaceID)
	if err != nil {
		return nil, err
	}

	visible := make([]domain.Project, 0, len(projects))
	for i := range projects {
		target := authz.Target{WorkspaceID: actor.WorkspaceID, Project: &projects[i]}
		if authz.Evaluate(actor, authz.ActionReadProject, target).Allowed {
			visible = append(visible, projects[i])
		}
	}
	return visible, nil
}

func (c *Coordinator) GetProject(ctx context.Context, actorID, projectID string) (*domain.Project, error) {
	actor, err := c.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	project, err := c.project(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, authz.ActionReadProject, authz.Target{WorkspaceID: project.WorkspaceID, Project: project}, domain.ErrProjectNotFound); err != nil {
		return nil, err
	}
	return project, nil
}

func (c *Coordinator) ListTasks(ctx context.Context, actorID, projectID string) ([]domain.Task, error) {
	actor, err := c.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	project, err := c.project(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, authz.ActionReadTask, authz.Target{WorkspaceID: project.WorkspaceID, Project: project}, domain.ErrProjectNotFound); err != nil {
		return nil, err
	}

	return c.cachedTasks(ctx, projectID)
}

func (c *Coordinator) GetTask(ctx context.Context, actorID, taskID string) (*domain.Task, error) {
	actor, err := c.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	task, project, err := c.taskWithProject(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, authz.ActionReadTask, authz.Target{WorkspaceID: project.WorkspaceID, Project: project}, domain.ErrTaskNotFound); err != nil {
		return nil, err
	}
	return task, nil
}

func (c *Coordinator) ListComments(ctx context.Context, actorID, taskID string) ([]domain.Comment, error) {
	actor, err := c.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	task, project, err := c.taskWithProject(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, authz.ActionReadTask, authz.Target{WorkspaceID: project.WorkspaceID, Project: project}, domain.ErrTaskNotFound); err != nil {
		return nil, err
	}

	return c.cachedComments(ctx, project.ID, task.ID)
}

// ListDependencies returns the dependency edges of a project the actor can
// read. Edge sets are small and always read store-fresh because the
// integrity checker validates against them.
func (c *Coordinator) ListDependencies(ctx context.Context, actorID, projectID string) ([]domain.Dependency, error) {
	actor, err := c.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	project, err := c.project(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, authz.ActionReadTask, authz.Target{WorkspaceID: project.WorkspaceID, Project: project}, domain.ErrProjectNotFound); err != nil {
		return nil, err
	}

	edges, err := c.tasks.ListDependencies(ctx, projectID)
	if err != nil {
		return nil, c.storeErr("list dependencies", err)
	}
	return edges, nil
}

func (c *Coordinator) ListUsers(ctx context.Context, actorID, workspaceID string) ([]domain.User, error) {
	actor, err := c.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, authz.ActionReadWorkspace, authz.Target{WorkspaceID: workspaceID}, domain.ErrWorkspaceNotFound); err != nil {
		return nil, err
	}

	users, err := c.users.List(ctx, workspaceID)
	if err != nil {
		return nil, c.storeErr("list users", err)
	}
	return users, nil
}

func (c *Coordinator) cachedProjects(ctx context.Context, workspaceID string) ([]domain.Project, error) {
	key := repository.ProjectsCacheKey(workspaceID)
	if raw, ok := c.cache.Get(ctx, key); ok {
		var projects []domain.Project
		if err := json.Unmarshal(raw, &projects); err == nil {
			return projects, nil
		}
		c.cache.Invalidate(ctx, key)
	}

	projects, err := c.projects.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, c.storeErr("list projects", err)
	}
	c.cacheSet(ctx, key, projects)
	return projects, nil
}

func (c *Coordinator) cachedTasks(ctx context.Context, projectID string) ([]domain.Task, error) {
	key := repository.TasksCacheKey(projectID)
	if raw, ok := c.cache.Get(ctx, key); ok {
		var tasks []domain.Task
		if err := json.Unmarshal(raw, &tasks); err == nil {
			return tasks, nil
		}
		c.cache.Invalidate(ctx, key)
	}

	tasks, err := c.tasks.List(ctx, repository.TaskFilter{ProjectID: projectID})
	if err != nil {
		return nil, c.storeErr("list tasks", err)
	}
	c.cacheSet(ctx, key, tasks)
	return tasks, nil
}

func (c *Coordinator) cachedComments(ctx context.Context, projectID, taskID string) ([]domain.Comment, error) {
	key := repository.CommentsCacheKey(projectID, taskID)
	if raw, ok := c.cache.Get(ctx, key); ok {
		var comments []domain.Comment
		if err := json.Unmarshal(raw, &comments); err == nil {
			return comments, nil
		}
		c.cache.Invalidate(ctx, key)
	}

	comments, err := c.comments.ListByTask(ctx, taskID)
	if err != nil {
		return nil, c.storeErr("list comments", err)
	}
	c.cacheSet(ctx, key, comments)
	return comments, nil
}
