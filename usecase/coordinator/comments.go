package coordinator

import (
	"context"

	"github.com/teamboard/backend/domain"
	"github.com/teamboard/backend/repository"
	"github.com/teamboard/backend/usecase/authz"
)

// PostComment appends a comment to a task. Comments are append-only; the
// author must be able to read the parent task at creation time.
func (c *Coordinator) PostComment(ctx context.Context, actorID, taskID, text string) (*domain.Comment, error) {
	actor, err := c.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return nil, domain.ErrInvalidPayload
	}

	task, project, err := c.taskWithProject(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, authz.ActionPostComment, authz.Target{WorkspaceID: project.WorkspaceID, Project: project}, domain.ErrTaskNotFound); err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		TaskID:   task.ID,
		AuthorID: actor.ID,
		Text:     text,
	}
	created, err := c.comments.Create(ctx, comment)
	if err != nil {
		return nil, c.storeErr("create comment", err)
	}

	c.cache.Invalidate(ctx, repository.CommentsCacheKey(project.ID, task.ID))
	c.record(ctx, actorID, authz.ActionPostComment, "comment", created.ID)
	return created, nil
}
