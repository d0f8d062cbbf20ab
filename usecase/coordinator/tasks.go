package coordinator

import (
	"context"

	"github.com/teamboard/backend/domain"
	"github.com/teamboard/backend/repository"
	"github.com/teamboard/backend/usecase/authz"
	"github.com/teamboard/backend/usecase/integrity"
)

func (c *Coordinator) CreateTask(ctx context.Context, actorID string, task *domain.Task) (*domain.Task, error) {
	actor, err := c.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if task == nil || task.Text == "" || task.ProjectID == "" {
		return nil, domain.ErrInvalidPayload
	}
	if task.Status == "" {
		task.Status = domain.StatusTodo
	}
	if !task.Status.Valid() {
		return nil, domain.NewError(domain.ErrCodeInvalid, "unknown task status")
	}
	if !task.DatesValid() {
		return nil, domain.NewError(domain.ErrCodeInvalid, "task due date precedes start date")
	}

	project, err := c.project(ctx, task.ProjectID)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, authz.ActionCreateTask, authz.Target{WorkspaceID: project.WorkspaceID, Project: project}, domain.ErrProjectNotFound); err != nil {
		return nil, err
	}
	if err := integrity.ValidateAssignment(project.MemberIDs, task.AssignedTo); err != nil {
		return nil, err
	}

	created, err := c.tasks.Create(ctx, task)
	if err != nil {
		return nil, c.storeErr("create task", err)
	}

	c.cache.Invalidate(ctx, repository.TasksCacheKey(project.ID))
	c.record(ctx, actorID, authz.ActionCreateTask, "task", created.ID)
	return created, nil
}

func (c *Coordinator) UpdateTask(ctx context.Context, actorID string, task *domain.Task) (*domain.Task, error) {
	actor, err := c.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if task == nil || task.ID == "" || task.Text == "" {
		return nil, domain.ErrInvalidPayload
	}
	if !task.Status.Valid() {
		return nil, domain.NewError(domain.ErrCodeInvalid, "unknown task status")
	}
	if !task.DatesValid() {
		return nil, domain.NewError(domain.ErrCodeInvalid, "task due date precedes start date")
	}

	current, project, err := c.taskWithProject(ctx, task.ID)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, authz.ActionUpdateTask, authz.Target{WorkspaceID: project.WorkspaceID, Project: project}, domain.ErrTaskNotFound); err != nil {
		return nil, err
	}
	if err := integrity.ValidateAssignment(project.MemberIDs, task.AssignedTo); err != nil {
		return nil, err
	}

	// Tasks never move between projects.
	task.ProjectID = current.ProjectID

	if err := c.tasks.Update(ctx, task); err != nil {
		return nil, c.storeErr("update task", err)
	}

	c.cache.Invalidate(ctx, repository.TasksCacheKey(project.ID))
	c.record(ctx, actorID, authz.ActionUpdateTask, "task", task.ID)
	return task, nil
}

func (c *Coordinator) DeleteTask(ctx context.Context, actorID, taskID string) error {
	actor, err := c.actor(ctx, actorID)
	if err != nil {
		return err
	}

	task, project, err := c.taskWithProject(ctx, taskID)
	if err != nil {
		return err
	}
	if err := authorize(actor, authz.ActionDeleteTask, authz.Target{WorkspaceID: project.WorkspaceID, Project: project}, domain.ErrTaskNotFound); err != nil {
		return err
	}

	if err := c.tasks.Delete(ctx, taskID); err != nil {
		return c.storeErr("delete task", err)
	}

	c.cache.Invalidate(ctx,
		repository.TasksCacheKey(project.ID),
		repository.CommentsCacheKey(project.ID, task.ID),
	)
	c.record(ctx, actorID, authz.ActionDeleteTask, "task", taskID)
	return nil
}

// AddDependency inserts a blocker -> blocked edge after proving it keeps the
// project's dependency graph acyclic.
func (c *Coordinator) AddDependency(ctx context.Context, actorID, blockerTaskID, blockedTaskID string) (*domain.Dependency, error) {
	actor, err := c.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	blocker, project, err := c.taskWithProject(ctx, blockerTaskID)
	if err != nil {
		return nil, err
	}
	blocked, err := c.tasks.GetByID(ctx, blockedTaskID)
	if err != nil {
		return nil, c.storeErr("load task", err)
	}
	if blocked.ProjectID != blocker.ProjectID {
		return nil, integrity.ErrCrossProjectDependency
	}

	if err := authorize(actor, authz.ActionUpdateTask, authz.Target{WorkspaceID: project.WorkspaceID, Project: project}, domain.ErrTaskNotFound); err != nil {
		return nil, err
	}

	edges, err := c.tasks.ListDependencies(ctx, project.ID)
	if err != nil {
		return nil, c.storeErr("list dependencies", err)
	}
	if err := integrity.ValidateDependencyInsert(edges, blockerTaskID, blockedTaskID); err != nil {
		return nil, err
	}

	dep := &domain.Dependency{
		ProjectID:     project.ID,
		BlockerTaskID: blockerTaskID,
		BlockedTaskID: blockedTaskID,
	}
	if err := c.tasks.AddDependency(ctx, dep); err != nil {
		return nil, c.storeErr("add dependency", err)
	}

	c.cache.Invalidate(ctx, repository.TasksCacheKey(project.ID))
	c.record(ctx, actorID, authz.ActionUpdateTask, "dependency", blockerTaskID+"->"+blockedTaskID)
	return dep, nil
}

func (c *Coordinator) RemoveDependency(ctx context.Context, actorID, blockerTaskID, blockedTaskID string) error {
	actor, err := c.actor(ctx, actorID)
	if err != nil {
		return err
	}

	_, project, err := c.taskWithProject(ctx, blockerTaskID)
	if err != nil {
		return err
	}
	if err := authorize(actor, authz.ActionUpdateTask, authz.Target{WorkspaceID: project.WorkspaceID, Project: project}, domain.ErrTaskNotFound); err != nil {
		return err
	}

	if err := c.tasks.RemoveDependency(ctx, blockerTaskID, blockedTaskID); err != nil {
		return c.storeErr("remove dependency", err)
	}

	c.cache.Invalidate(ctx, repository.TasksCacheKey(project.ID))
	c.record(ctx, actorID, authz.ActionUpdateTask, "dependency", blockerTaskID+"->"+blockedTaskID)
	return nil
}
