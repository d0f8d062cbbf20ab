// Package authz decides whether an actor may perform an action on a target.
// Evaluation is pure and stateless: outcomes must never be cached, so role
// changes take effect on the very next call.
package authz

import "github.com/teamboard/backend/domain"

// Action enumerates every mutation and read kind the coordinator accepts.
type Action string

const (
	ActionCreateUser      Action = "user.create"
	ActionUpdateUser      Action = "user.update"
	ActionDeleteUser      Action = "user.delete"
	ActionDeleteWorkspace Action = "workspace.delete"
	ActionReadWorkspace   Action = "workspace.read"

	ActionCreateProject Action = "project.create"
	ActionUpdateProject Action = "project.update"
	ActionDeleteProject Action = "project.delete"
	ActionManageMembers Action = "project.members"
	ActionCreateTask    Action = "task.create"
	ActionUpdateTask    Action = "task.update"
	ActionDeleteTask    Action = "task.delete"
	ActionPostComment   Action = "comment.create"
	ActionReadProject   Action = "project.read"
	ActionReadTask      Action = "task.read"
)

// DenyReason is surfaced verbatim to the caller on a denial.
type DenyReason string

const (
	ReasonCrossTenant      DenyReason = "cross-tenant"
	ReasonInsufficientRole DenyReason = "insufficient-role"
	ReasonNotAMember       DenyReason = "not-a-member"
	ReasonNoMatchingRule   DenyReason = "no-matching-rule"
)

type Decision struct {
	Allowed bool
	Reason  DenyReason
}

func Allow() Decision {
	return Decision{Allowed: true}
}

func Deny(reason DenyReason) Decision {
	return Decision{Reason: reason}
}

// Target describes the entity an action is aimed at. WorkspaceID is always
// required. Project is set for project- and task-scoped actions; for project
// creation it carries the proposed project so the manager rule applies
// uniformly.
type Target struct {
	WorkspaceID string
	Project     *domain.Project
}

// Evaluate applies the access rules in precedence order, first match wins:
//
//  1. cross-tenant access is denied outright
//  2. workspace administration (user lifecycle, project deletion) needs Owner
//  3. project creation/edit and membership management need role >= Manager
//     and either Owner or being the project's manager
//  4. task and comment writes need project membership or Owner
//  5. reads need membership; Owners and Managers see every project in their
//     workspace
//  6. anything else is denied
func Evaluate(actor *domain.User, action Action, target Target) Decision {
	if actor == nil {
		return Deny(ReasonNoMatchingRule)
	}
	if target.WorkspaceID == "" || actor.WorkspaceID != target.WorkspaceID {
		return Deny(ReasonCrossTenant)
	}

	switch action {
	case ActionReadWorkspace:
		// Any authenticated user sees their own workspace roster.
		if actor.Role.Valid() {
			return Allow()
		}
		return Deny(ReasonInsufficientRole)

	case ActionCreateUser, ActionUpdateUser, ActionDeleteUser, ActionDeleteWorkspace, ActionDeleteProject:
		if actor.Role == domain.RoleOwner {
			return Allow()
		}
		return Deny(ReasonInsufficientRole)

	case ActionCreateProject, ActionUpdateProject, ActionManageMembers:
		if !actor.Role.AtLeast(domain.RoleManager) {
			return Deny(ReasonInsufficientRole)
		}
		if actor.Role == domain.RoleOwner {
			return Allow()
		}
		if target.Project != nil && target.Project.ManagerID == actor.ID {
			return Allow()
		}
		return Deny(ReasonInsufficientRole)

	case ActionCreateTask, ActionUpdateTask, ActionDeleteTask, ActionPostComment:
		if actor.Role == domain.RoleOwner {
			return Allow()
		}
		if target.Project.IsMember(actor.ID) {
			return Allow()
		}
		return Deny(ReasonNotAMember)

	case ActionReadProject, ActionReadTask:
		if actor.Role.AtLeast(domain.RoleManager) {
			return Allow()
		}
		if target.Project.IsMember(actor.ID) {
			return Allow()
		}
		return Deny(ReasonNotAMember)
	}

	return Deny(ReasonNoMatchingRule)
}
