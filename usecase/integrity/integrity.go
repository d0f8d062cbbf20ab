// Package integrity validates structural invariants over project membership
// and per-project task dependency graphs. All checks run before any store
// write commits; a rejection prevents the mutation entirely.
package integrity

import "github.com/teamboard/backend/domain"

// Rejections map to the Conflict error class: the caller must resubmit a
// corrected payload, there is nothing to retry.
var (
	ErrManagerRemoved         = domain.Conflict("project manager cannot be removed from the member set")
	ErrEmptyMembership        = domain.Conflict("project member set cannot be empty")
	ErrSelfDependency         = domain.Conflict("task cannot depend on itself")
	ErrDuplicateDependency    = domain.Conflict("dependency edge already exists")
	ErrDependencyCycle        = domain.Conflict("dependency would create a cycle")
	ErrCrossProjectDependency = domain.Conflict("dependency must connect tasks of the same project")
	ErrAssigneeNotMember      = domain.Conflict("assignee is not a project member")
)

// ValidateMembershipChange rejects member sets that would drop the current
// manager or leave the project without members.
func ValidateMembershipChange(project *domain.Project, proposedMembers []string) error {
	if project == nil {
		return domain.ErrInvalidPayload
	}
	if len(proposedMembers) == 0 {
		return ErrEmptyMembership
	}
	for _, id := range proposedMembers {
		if id == project.ManagerID {
			return nil
		}
	}
	return ErrManagerRemoved
}

// ValidateDependencyInsert checks whether adding blocker -> blocked keeps the
// graph acyclic. The edge closes a cycle exactly when blocker is already
// reachable from blocked over the existing edges.
func ValidateDependencyInsert(edges []domain.Dependency, blockerTaskID, blockedTaskID string) error {
	if blockerTaskID == "" || blockedTaskID == "" {
		return domain.ErrInvalidPayload
	}
	if blockerTaskID == blockedTaskID {
		return ErrSelfDependency
	}

	adjacency := make(map[string][]string, len(edges))
	for _, edge := range edges {
		if edge.BlockerTaskID == blockerTaskID && edge.BlockedTaskID == blockedTaskID {
			return ErrDuplicateDependency
		}
		adjacency[edge.BlockerTaskID] = append(adjacency[edge.BlockerTaskID], edge.BlockedTaskID)
	}

	if reachable(adjacency, blockedTaskID, blockerTaskID) {
		return ErrDependencyCycle
	}
	return nil
}

// ValidateAssignment requires the candidate to be a current project member.
// An empty candidate clears the assignment and is always valid.
func ValidateAssignment(memberIDs []string, candidateUserID string) error {
	if candidateUserID == "" {
		return nil
	}
	for _, id := range memberIDs {
		if id == candidateUserID {
			return nil
		}
	}
	return ErrAssigneeNotMember
}

// reachable performs an iterative depth-first search from from to to.
func reachable(adjacency map[string][]string, from, to string) bool {
	visited := make(map[string]bool)
	stack := []string{from}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if current == to {
			return true
		}
		if visited[current] {
			continue
		}
		visited[current] = true
		stack = append(stack, adjacency[current]...)
	}
	return false
}
