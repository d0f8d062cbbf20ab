package coordinator

import (
	"context"

	"github.com/teamboard/backend/domain"
	"github.com/teamboard/backend/repository"
	"github.com/teamboard/backend/usecase/authz"
)

// RegisterWorkspace creates a new tenant together with its first Owner in a
// single transaction. It is the only unauthenticated mutation.
func (c *Coordinator) RegisterWorkspace(ctx context.Context, name, slug, ownerUsername, ownerPasswordHash string) (*domain.Workspace, *domain.User, error) {
	if name == "" || slug == "" || ownerUsername == "" || ownerPasswordHash == "" {
		return nil, nil, domain.ErrInvalidPayload
	}

	ws := &domain.Workspace{Name: name, Slug: slug}
	owner := &domain.User{
		Username:     ownerUsername,
		PasswordHash: ownerPasswordHash,
		Role:         domain.RoleOwner,
	}

	if err := c.workspaces.CreateWithOwner(ctx, ws, owner); err != nil {
		return nil, nil, c.storeErr("register workspace", err)
	}

	c.record(ctx, owner.ID, "workspace.create", "workspace", ws.ID)
	return ws, owner, nil
}

// DeleteWorkspace removes the tenant and every descendant entity atomically.
func (c *Coordinator) DeleteWorkspace(ctx context.Context, actorID, workspaceID string) error {
	actor, err := c.actor(ctx, actorID)
	if err != nil {
		return err
	}
	if err := authorize(actor, authz.ActionDeleteWorkspace, authz.Target{WorkspaceID: workspaceID}, domain.ErrWorkspaceNotFound); err != nil {
		return err
	}

	// Collected before the delete so every derived key can be dropped after.
	projects, err := c.projects.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return c.storeErr("list projects", err)
	}

	if err := c.workspaces.Delete(ctx, workspaceID); err != nil {
		return c.storeErr("delete workspace", err)
	}

	keys := []string{repository.ProjectsCacheKey(workspaceID)}
	for _, p := range projects {
		keys = append(keys, repository.TasksCacheKey(p.ID))
	}
	c.cache.Invalidate(ctx, keys...)
	for _, p := range projects {
		c.cache.InvalidatePrefix(ctx, repository.CommentsCachePrefix(p.ID))
	}

	c.record(ctx, actorID, authz.ActionDeleteWorkspace, "workspace", workspaceID)
	return nil
}

func (c *Coordinator) CreateUser(ctx context.Context, actorID string, user *domain.User) (*domain.User, error) {
	actor, err := c.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.Username == "" || user.PasswordHash == "" || !user.Role.Valid() {
		return nil, domain.ErrInvalidPayload
	}
	if err := authorize(actor, authz.ActionCreateUser, authz.Target{WorkspaceID: user.WorkspaceID}, domain.ErrWorkspaceNotFound); err != nil {
		return nil, err
	}

	if _, err := c.users.GetByUsername(ctx, user.WorkspaceID, user.Username); err == nil {
		return nil, domain.Conflict("username already taken in this workspace")
	} else if !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		return nil, c.storeErr("check username", err)
	}

	created, err := c.users.Create(ctx, user)
	if err != nil {
		return nil, c.storeErr("create user", err)
	}

	c.record(ctx, actorID, authz.ActionCreateUser, "user", created.ID)
	return created, nil
}

func (c *Coordinator) UpdateUser(ctx context.Context, actorID string, user *domain.User) (*domain.User, error) {
	actor, err := c.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.ID == "" || !user.Role.Valid() {
		return nil, domain.ErrInvalidPayload
	}

	current, err := c.users.GetByID(ctx, user.ID)
	if err != nil {
		return nil, c.storeErr("load user", err)
	}
	if err := authorize(actor, authz.ActionUpdateUser, authz.Target{WorkspaceID: current.WorkspaceID}, domain.ErrUserNotFound); err != nil {
		return nil, err
	}

	if current.Role == domain.RoleOwner && user.Role != domain.RoleOwner {
		owners, err := c.users.CountOwners(ctx, current.WorkspaceID)
		if err != nil {
			return nil, c.storeErr("count owners", err)
		}
		if owners <= 1 {
			return nil, domain.Conflict("workspace must retain at least one owner")
		}
	}
	if current.Role.AtLeast(domain.RoleManager) && !user.Role.AtLeast(domain.RoleManager) {
		if err := c.rejectIfManaging(ctx, current); err != nil {
			return nil, err
		}
	}

	// Users never move between workspaces; credentials only change when a
	// new hash is supplied.
	user.WorkspaceID = current.WorkspaceID
	if user.Username == "" {
		user.Username = current.Username
	}
	if user.PasswordHash == "" {
		user.PasswordHash = current.PasswordHash
	}

	if err := c.users.Update(ctx, user); err != nil {
		return nil, c.storeErr("update user", err)
	}

	c.record(ctx, actorID, authz.ActionUpdateUser, "user", user.ID)
	return user, nil
}

func (c *Coordinator) DeleteUser(ctx context.Context, actorID, userID string) error {
	actor, err := c.actor(ctx, actorID)
	if err != nil {
		return err
	}

	current, err := c.users.GetByID(ctx, userID)
	if err != nil {
		return c.storeErr("load user", err)
	}
	if err := authorize(actor, authz.ActionDeleteUser, authz.Target{WorkspaceID: current.WorkspaceID}, domain.ErrUserNotFound); err != nil {
		return err
	}

	if current.Role == domain.RoleOwner {
		owners, err := c.users.CountOwners(ctx, current.WorkspaceID)
		if err != nil {
			return c.storeErr("count owners", err)
		}
		if owners <= 1 {
			return domain.Conflict("workspace must retain at least one owner")
		}
	}
	if err := c.rejectIfManaging(ctx, current); err != nil {
		return err
	}

	memberOf, err := c.projects.ListByWorkspace(ctx, current.WorkspaceID)
	if err != nil {
		return c.storeErr("list projects", err)
	}

	if err := c.users.Delete(ctx, userID); err != nil {
		return c.storeErr("delete user", err)
	}

	// Membership rosters and task assignments changed under the projects the
	// user belonged to, and their authored comments are gone. Comments may
	// exist in projects the user was since removed from, so every project's
	// comment namespace gets swept.
	keys := []string{repository.ProjectsCacheKey(current.WorkspaceID)}
	for _, p := range memberOf {
		if p.IsMember(userID) {
			keys = append(keys, repository.TasksCacheKey(p.ID))
		}
	}
	c.cache.Invalidate(ctx, keys...)
	for _, p := range memberOf {
		c.cache.InvalidatePrefix(ctx, repository.CommentsCachePrefix(p.ID))
	}

	c.record(ctx, actorID, authz.ActionDeleteUser, "user", userID)
	return nil
}

// rejectIfManaging blocks demotion or removal of a user who still manages a
// project; the project must be handed over first.
func (c *Coordinator) rejectIfManaging(ctx context.Context, user *domain.User) error {
	projects, err := c.projects.ListByWorkspace(ctx, user.WorkspaceID)
	if err != nil {
		return c.storeErr("list projects", err)
	}
	for _, p := range projects {
		if p.ManagerID == user.ID {
			return domain.Conflict("user still manages a project")
		}
	}
	return nil
}
