// Package coordinator is the single entry point for every mutation. Each
// write runs one ordered sequence: authorization check, integrity
// validation, store transaction, cache invalidation. Any failure aborts the
// sequence with no partial effect, and invalidation only ever runs after a
// successful commit. The read path checks the cache first, falls through to
// the store on a miss, and re-filters results per actor on every call.
package coordinator

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/teamboard/backend/domain"
	"github.com/teamboard/backend/repository"
	"github.com/teamboard/backend/usecase"
	"github.com/teamboard/backend/usecase/authz"
)

const defaultCacheTTL = time.Hour

type Coordinator struct {
	workspaces repository.WorkspaceRepository
	users      repository.UserRepository
	projects   repository.ProjectRepository
	tasks      repository.TaskRepository
	comments   repository.CommentRepository
	cache      repository.Cache
	journal    usecase.MutationRecorder
	cacheTTL   time.Duration
	logger     *zap.Logger
}

func New(
	workspaces repository.WorkspaceRepository,
	users repository.UserRepository,
	projects repository.ProjectRepository,
	tasks repository.TaskRepository,
	comments repository.CommentRepository,
	cache repository.Cache,
	journal usecase.MutationRecorder,
	logger *zap.Logger,
) *Coordinator {
	if cache == nil {
		cache = repository.NewNopCache()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		workspaces: workspaces,
		users:      users,
		projects:   projects,
		tasks:      tasks,
		comments:   comments,
		cache:      cache,
		journal:    journal,
		cacheTTL:   defaultCacheTTL,
		logger:     logger,
	}
}

// WithCacheTTL overrides the default TTL applied when repopulating the cache.
func (c *Coordinator) WithCacheTTL(ttl time.Duration) *Coordinator {
	if ttl > 0 {
		c.cacheTTL = ttl
	}
	return c
}

// actor resolves the acting user. A missing actor is an authentication
// problem, not a lookup failure.
func (c *Coordinator) actor(ctx context.Context, actorID string) (*domain.User, error) {
	if actorID == "" {
		return nil, domain.ErrUnauthorized
	}
	actor, err := c.users.GetByID(ctx, actorID)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, c.storeErr("resolve actor", err)
	}
	return actor, nil
}

// authorize maps a denial onto the surfaced error. Cross-tenant denials are
// indistinguishable from missing entities so tenants cannot probe each
// other's ids; in-tenant denials carry the evaluator's reason verbatim.
func authorize(actor *domain.User, action authz.Action, target authz.Target, notFound error) error {
	decision := authz.Evaluate(actor, action, target)
	if decision.Allowed {
		return nil
	}
	if decision.Reason == authz.ReasonCrossTenant {
		return notFound
	}
	return domain.Forbidden(string(decision.Reason))
}

// storeErr passes domain classifications through untouched and wraps raw
// store failures as internal errors. Store failures are safe to retry: a
// failed transaction leaves no partial state.
func (c *Coordinator) storeErr(operation string, err error) error {
	var dErr *domain.Error
	if errors.As(err, &dErr) {
		return err
	}
	c.logger.Error("store operation failed", zap.String("operation", operation), zap.Error(err))
	return domain.WrapError(domain.ErrCodeInternal, "store failure", err)
}

func (c *Coordinator) record(ctx context.Context, actorID string, action authz.Action, entityKind, entityID string) {
	if c.journal == nil {
		return
	}
	if err := c.journal.Record(ctx, actorID, string(action), entityKind, entityID); err != nil {
		c.logger.Warn("mutation journal append failed",
			zap.String("action", string(action)),
			zap.String("entity_id", entityID),
			zap.Error(err))
	}
}

func (c *Coordinator) project(ctx context.Context, projectID string) (*domain.Project, error) {
	project, err := c.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, c.storeErr("load project", err)
	}
	return project, nil
}

func (c *Coordinator) taskWithProject(ctx context.Context, taskID string) (*domain.Task, *domain.Project, error) {
	task, err := c.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, nil, c.storeErr("load task", err)
	}
	project, err := c.project(ctx, task.ProjectID)
	if err != nil {
		return nil, nil, err
	}
	return task, project, nil
}

// cacheSet serializes and stores a query snapshot; serialization failures
// only cost the cache entry, never the request.
func (c *Coordinator) cacheSet(ctx context.Context, key string, value interface{}) {
	raw, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("cache snapshot marshal failed", zap.String("key", key), zap.Error(err))
		return
	}
	c.cache.Set(ctx, key, raw, c.cacheTTL)
}
