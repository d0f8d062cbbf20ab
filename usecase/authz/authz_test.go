package authz

import (
	"testing"

	"github.com/teamboard/backend/domain"
)

func user(id, workspaceID string, role domain.Role) *domain.User {
	return &domain.User{ID: id, WorkspaceID: workspaceID, Username: id, Role: role}
}

func project(workspaceID, managerID string, memberIDs ...string) *domain.Project {
	return &domain.Project{
		ID:          "p1",
		WorkspaceID: workspaceID,
		Name:        "proj",
		ManagerID:   managerID,
		MemberIDs:   memberIDs,
	}
}

func TestEvaluate_CrossTenantAlwaysDenied(t *testing.T) {
	owner := user("u1", "ws-a", domain.RoleOwner)
	target := Target{WorkspaceID: "ws-b", Project: project("ws-b", "u2", "u2")}

	for _, action := range []Action{
		ActionCreateUser, ActionDeleteProject, ActionCreateTask, ActionReadProject,
	} {
		decision := Evaluate(owner, action, target)
		if decision.Allowed {
			t.Fatalf("action %s: expected cross-tenant denial", action)
		}
		if decision.Reason != ReasonCrossTenant {
			t.Fatalf("action %s: expected reason %q, got %q", action, ReasonCrossTenant, decision.Reason)
		}
	}
}

func TestEvaluate_WorkspaceAdminRequiresOwner(t *testing.T) {
	tests := []struct {
		role    domain.Role
		allowed bool
	}{
		{domain.RoleOwner, true},
		{domain.RoleManager, false},
		{domain.RoleMember, false},
	}

	for _, tt := range tests {
		actor := user("u1", "ws", tt.role)
		for _, action := range []Action{ActionCreateUser, ActionUpdateUser, ActionDeleteUser, ActionDeleteProject} {
			decision := Evaluate(actor, action, Target{WorkspaceID: "ws"})
			if decision.Allowed != tt.allowed {
				t.Fatalf("role %s action %s: allowed=%v, want %v", tt.role, action, decision.Allowed, tt.allowed)
			}
			if !tt.allowed && decision.Reason != ReasonInsufficientRole {
				t.Fatalf("role %s action %s: reason %q, want %q", tt.role, action, decision.Reason, ReasonInsufficientRole)
			}
		}
	}
}

func TestEvaluate_ProjectManagementNeedsOwnerOrManagingManager(t *testing.T) {
	p := project("ws", "mgr", "mgr", "mem")

	if d := Evaluate(user("own", "ws", domain.RoleOwner), ActionUpdateProject, Target{WorkspaceID: "ws", Project: p}); !d.Allowed {
		t.Fatalf("owner should manage any project, got %q", d.Reason)
	}
	if d := Evaluate(user("mgr", "ws", domain.RoleManager), ActionManageMembers, Target{WorkspaceID: "ws", Project: p}); !d.Allowed {
		t.Fatalf("managing manager should manage membership, got %q", d.Reason)
	}
	if d := Evaluate(user("other", "ws", domain.RoleManager), ActionUpdateProject, Target{WorkspaceID: "ws", Project: p}); d.Allowed {
		t.Fatal("non-managing manager should not edit the project")
	}
	if d := Evaluate(user("mem", "ws", domain.RoleMember), ActionManageMembers, Target{WorkspaceID: "ws", Project: p}); d.Allowed {
		t.Fatal("member should not manage membership")
	}
}

func TestEvaluate_TaskWritesNeedMembershipOrOwner(t *testing.T) {
	p := project("ws", "mgr", "mgr", "mem")

	for _, action := range []Action{ActionCreateTask, ActionUpdateTask, ActionDeleteTask, ActionPostComment} {
		if d := Evaluate(user("mem", "ws", domain.RoleMember), action, Target{WorkspaceID: "ws", Project: p}); !d.Allowed {
			t.Fatalf("member of project should perform %s, got %q", action, d.Reason)
		}
		if d := Evaluate(user("own", "ws", domain.RoleOwner), action, Target{WorkspaceID: "ws", Project: p}); !d.Allowed {
			t.Fatalf("owner should perform %s, got %q", action, d.Reason)
		}
		d := Evaluate(user("outsider", "ws", domain.RoleMember), action, Target{WorkspaceID: "ws", Project: p})
		if d.Allowed {
			t.Fatalf("non-member should not perform %s", action)
		}
		if d.Reason != ReasonNotAMember {
			t.Fatalf("action %s: reason %q, want %q", action, d.Reason, ReasonNotAMember)
		}
	}
}

func TestEvaluate_ReadsManagersSeeAllMembersSeeOwn(t *testing.T) {
	p := project("ws", "mgr", "mgr", "mem")

	if d := Evaluate(user("other-mgr", "ws", domain.RoleManager), ActionReadProject, Target{WorkspaceID: "ws", Project: p}); !d.Allowed {
		t.Fatalf("managers see all workspace projects, got %q", d.Reason)
	}
	if d := Evaluate(user("mem", "ws", domain.RoleMember), ActionReadTask, Target{WorkspaceID: "ws", Project: p}); !d.Allowed {
		t.Fatalf("project member should read tasks, got %q", d.Reason)
	}
	if d := Evaluate(user("outsider", "ws", domain.RoleMember), ActionReadProject, Target{WorkspaceID: "ws", Project: p}); d.Allowed {
		t.Fatal("non-member member-role user should not read the project")
	}
}

// A denied member promoted into the member set must succeed on the very next
// evaluation; there is no caching of decisions to invalidate.
func TestEvaluate_RoleChangeTakesImmediateEffect(t *testing.T) {
	p := project("ws", "mgr", "mgr")
	actor := user("c", "ws", domain.RoleMember)

	if d := Evaluate(actor, ActionReadTask, Target{WorkspaceID: "ws", Project: p}); d.Allowed {
		t.Fatal("expected denial before membership")
	}

	p.MemberIDs = append(p.MemberIDs, "c")

	if d := Evaluate(actor, ActionReadTask, Target{WorkspaceID: "ws", Project: p}); !d.Allowed {
		t.Fatalf("expected allow immediately after membership change, got %q", d.Reason)
	}
}

func TestEvaluate_NilActorDenied(t *testing.T) {
	if d := Evaluate(nil, ActionReadProject, Target{WorkspaceID: "ws"}); d.Allowed {
		t.Fatal("nil actor must be denied")
	}
}
