package coordinator

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/teamboard/backend/domain"
	"github.com/teamboard/backend/repository"
)

// In-memory store fakes mirroring the transactional contracts of the
// Postgres repositories, including cascade scope.

var errWriteFailure = fmt.Errorf("simulated store failure")

type memState struct {
	mu         sync.Mutex
	workspaces map[string]domain.Workspace
	users      map[string]domain.User
	projects   map[string]domain.Project
	tasks      map[string]domain.Task
	deps       []domain.Dependency
	comments   map[string]domain.Comment
	seq        int

	failWrites    bool
	taskListCalls int
}

func newMemState() *memState {
	return &memState{
		workspaces: make(map[string]domain.Workspace),
		users:      make(map[string]domain.User),
		projects:   make(map[string]domain.Project),
		tasks:      make(map[string]domain.Task),
		comments:   make(map[string]domain.Comment),
	}
}

func (s *memState) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

type memWorkspaces struct{ s *memState }

func (r *memWorkspaces) GetByID(_ context.Context, id string) (*domain.Workspace, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ws, ok := r.s.workspaces[id]
	if !ok {
		return nil, domain.ErrWorkspaceNotFound
	}
	return &ws, nil
}

func (r *memWorkspaces) GetBySlug(_ context.Context, slug string) (*domain.Workspace, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, ws := range r.s.workspaces {
		if ws.Slug == slug {
			return &ws, nil
		}
	}
	return nil, domain.ErrWorkspaceNotFound
}

func (r *memWorkspaces) CreateWithOwner(_ context.Context, ws *domain.Workspace, owner *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failWrites {
		return errWriteFailure
	}
	if ws.ID == "" {
		ws.ID = r.s.nextID("ws")
	}
	if owner.ID == "" {
		owner.ID = r.s.nextID("u")
	}
	ws.CreatedAt = time.Now()
	owner.WorkspaceID = ws.ID
	owner.Role = domain.RoleOwner
	r.s.workspaces[ws.ID] = *ws
	r.s.users[owner.ID] = *owner
	return nil
}

func (r *memWorkspaces) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failWrites {
		return errWriteFailure
	}
	if _, ok := r.s.workspaces[id]; !ok {
		return domain.ErrWorkspaceNotFound
	}
	for pid, p := range r.s.projects {
		if p.WorkspaceID == id {
			r.s.deleteProjectLocked(pid)
		}
	}
	for uid, u := range r.s.users {
		if u.WorkspaceID == id {
			delete(r.s.users, uid)
		}
	}
	delete(r.s.workspaces, id)
	return nil
}

type memUsers struct{ s *memState }

func (r *memUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &user, nil
}

func (r *memUsers) GetByUsername(_ context.Context, workspaceID, username string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, user := range r.s.users {
		if user.WorkspaceID == workspaceID && user.Username == username {
			return &user, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUsers) List(_ context.Context, workspaceID string) ([]domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var users []domain.User
	for _, user := range r.s.users {
		if user.WorkspaceID == workspaceID {
			users = append(users, user)
		}
	}
	return users, nil
}

func (r *memUsers) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failWrites {
		return nil, errWriteFailure
	}
	if user.ID == "" {
		user.ID = r.s.nextID("u")
	}
	r.s.users[user.ID] = *user
	return user, nil
}

func (r *memUsers) Update(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failWrites {
		return errWriteFailure
	}
	if _, ok := r.s.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	// The store enforces (workspace_id, username) uniqueness.
	for id, existing := range r.s.users {
		if id != user.ID && existing.WorkspaceID == user.WorkspaceID && existing.Username == user.Username {
			return domain.Conflict("username already taken in this workspace")
		}
	}
	r.s.users[user.ID] = *user
	return nil
}

func (r *memUsers) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failWrites {
		return errWriteFailure
	}
	if _, ok := r.s.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	for tid, task := range r.s.tasks {
		if task.AssignedTo == id {
			task.AssignedTo = ""
			r.s.tasks[tid] = task
		}
	}
	for pid, p := range r.s.projects {
		p.MemberIDs = removeID(p.MemberIDs, id)
		r.s.projects[pid] = p
	}
	for cid, comment := range r.s.comments {
		if comment.AuthorID == id {
			delete(r.s.comments, cid)
		}
	}
	delete(r.s.users, id)
	// The schema references authors from comments; a delete that left an
	// authored comment behind would not commit.
	for _, comment := range r.s.comments {
		if comment.AuthorID == id {
			return errWriteFailure
		}
	}
	return nil
}

func (r *memUsers) CountOwners(_ context.Context, workspaceID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	count := 0
	for _, user := range r.s.users {
		if user.WorkspaceID == workspaceID && user.Role == domain.RoleOwner {
			count++
		}
	}
	return count, nil
}

type memProjects struct{ s *memState }

func (r *memProjects) GetByID(_ context.Context, id string) (*domain.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.projects[id]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	p.MemberIDs = append([]string(nil), p.MemberIDs...)
	return &p, nil
}

func (r *memProjects) ListByWorkspace(_ context.Context, workspaceID string) ([]domain.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var projects []domain.Project
	for _, p := range r.s.projects {
		if p.WorkspaceID == workspaceID {
			p.MemberIDs = append([]string(nil), p.MemberIDs...)
			projects = append(projects, p)
		}
	}
	return projects, nil
}

func (r *memProjects) Create(_ context.Context, project *domain.Project) (*domain.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failWrites {
		return nil, errWriteFailure
	}
	if project.ID == "" {
		project.ID = r.s.nextID("p")
	}
	if !containsID(project.MemberIDs, project.ManagerID) {
		project.MemberIDs = append(project.MemberIDs, project.ManagerID)
	}
	r.s.projects[project.ID] = *project
	return project, nil
}

func (r *memProjects) Update(_ context.Context, project *domain.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failWrites {
		return errWriteFailure
	}
	current, ok := r.s.projects[project.ID]
	if !ok {
		return domain.ErrProjectNotFound
	}
	project.MemberIDs = current.MemberIDs
	if !containsID(project.MemberIDs, project.ManagerID) {
		project.MemberIDs = append(project.MemberIDs, project.ManagerID)
	}
	r.s.projects[project.ID] = *project
	return nil
}

func (r *memProjects) SetMembers(_ context.Context, projectID string, memberIDs []string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failWrites {
		return errWriteFailure
	}
	p, ok := r.s.projects[projectID]
	if !ok {
		return domain.ErrProjectNotFound
	}
	p.MemberIDs = append([]string(nil), memberIDs...)
	r.s.projects[projectID] = p
	for tid, task := range r.s.tasks {
		if task.ProjectID == projectID && task.AssignedTo != "" && !containsID(memberIDs, task.AssignedTo) {
			task.AssignedTo = ""
			r.s.tasks[tid] = task
		}
	}
	return nil
}

func (r *memProjects) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failWrites {
		return errWriteFailure
	}
	if _, ok := r.s.projects[id]; !ok {
		return domain.ErrProjectNotFound
	}
	r.s.deleteProjectLocked(id)
	return nil
}

func (s *memState) deleteProjectLocked(id string) {
	for tid, task := range s.tasks {
		if task.ProjectID == id {
			for cid, comment := range s.comments {
				if comment.TaskID == tid {
					delete(s.comments, cid)
				}
			}
			delete(s.tasks, tid)
		}
	}
	var kept []domain.Dependency
	for _, dep := range s.deps {
		if dep.ProjectID != id {
			kept = append(kept, dep)
		}
	}
	s.deps = kept
	delete(s.projects, id)
}

type memTasks struct{ s *memState }

func (r *memTasks) GetByID(_ context.Context, id string) (*domain.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	task, ok := r.s.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return &task, nil
}

func (r *memTasks) List(_ context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.taskListCalls++
	var tasks []domain.Task
	for _, task := range r.s.tasks {
		if filter.ProjectID != "" && task.ProjectID != filter.ProjectID {
			continue
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func (r *memTasks) Create(_ context.Context, task *domain.Task) (*domain.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failWrites {
		return nil, errWriteFailure
	}
	if task.ID == "" {
		task.ID = r.s.nextID("t")
	}
	r.s.tasks[task.ID] = *task
	return task, nil
}

func (r *memTasks) Update(_ context.Context, task *domain.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failWrites {
		return errWriteFailure
	}
	if _, ok := r.s.tasks[task.ID]; !ok {
		return domain.ErrTaskNotFound
	}
	r.s.tasks[task.ID] = *task
	return nil
}

func (r *memTasks) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failWrites {
		return errWriteFailure
	}
	if _, ok := r.s.tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	for cid, comment := range r.s.comments {
		if comment.TaskID == id {
			delete(r.s.comments, cid)
		}
	}
	var kept []domain.Dependency
	for _, dep := range r.s.deps {
		if dep.BlockerTaskID != id && dep.BlockedTaskID != id {
			kept = append(kept, dep)
		}
	}
	r.s.deps = kept
	delete(r.s.tasks, id)
	return nil
}

func (r *memTasks) ListDependencies(_ context.Context, projectID string) ([]domain.Dependency, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var edges []domain.Dependency
	for _, dep := range r.s.deps {
		if dep.ProjectID == projectID {
			edges = append(edges, dep)
		}
	}
	return edges, nil
}

func (r *memTasks) AddDependency(_ context.Context, dep *domain.Dependency) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failWrites {
		return errWriteFailure
	}
	r.s.deps = append(r.s.deps, *dep)
	return nil
}

func (r *memTasks) RemoveDependency(_ context.Context, blockerTaskID, blockedTaskID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failWrites {
		return errWriteFailure
	}
	for i, dep := range r.s.deps {
		if dep.BlockerTaskID == blockerTaskID && dep.BlockedTaskID == blockedTaskID {
			r.s.deps = append(r.s.deps[:i], r.s.deps[i+1:]...)
			return nil
		}
	}
	return domain.ErrDependencyNotFound
}

type memComments struct{ s *memState }

func (r *memComments) GetByID(_ context.Context, id string) (*domain.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	comment, ok := r.s.comments[id]
	if !ok {
		return nil, domain.ErrCommentNotFound
	}
	return &comment, nil
}

func (r *memComments) ListByTask(_ context.Context, taskID string) ([]domain.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var comments []domain.Comment
	for _, comment := range r.s.comments {
		if comment.TaskID == taskID {
			comments = append(comments, comment)
		}
	}
	return comments, nil
}

func (r *memComments) Create(_ context.Context, comment *domain.Comment) (*domain.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failWrites {
		return nil, errWriteFailure
	}
	if comment.ID == "" {
		comment.ID = r.s.nextID("c")
	}
	comment.CreatedAt = time.Now()
	r.s.comments[comment.ID] = *comment
	return comment, nil
}

// spyCache is an in-memory cache recording every operation.
type spyCache struct {
	mu            sync.Mutex
	entries       map[string][]byte
	sets          []string
	invalidations []string
}

func newSpyCache() *spyCache {
	return &spyCache{entries: make(map[string][]byte)}
}

func (c *spyCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	value, ok := c.entries[key]
	return value, ok
}

func (c *spyCache) Set(_ context.Context, key string, value []byte, _ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	c.sets = append(c.sets, key)
}

func (c *spyCache) Invalidate(_ context.Context, keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.entries, key)
		c.invalidations = append(c.invalidations, key)
	}
}

func (c *spyCache) InvalidatePrefix(_ context.Context, prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	c.invalidations = append(c.invalidations, "prefix:"+prefix)
}

func (c *spyCache) invalidated(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range c.invalidations {
		if k == key {
			return true
		}
	}
	return false
}

func containsID(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func removeID(ids []string, id string) []string {
	var kept []string
	for _, candidate := range ids {
		if candidate != id {
			kept = append(kept, candidate)
		}
	}
	return kept
}
