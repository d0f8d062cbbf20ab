package integrity

import (
	"errors"
	"testing"

	"github.com/teamboard/backend/domain"
)

func edge(blocker, blocked string) domain.Dependency {
	return domain.Dependency{ProjectID: "p1", BlockerTaskID: blocker, BlockedTaskID: blocked}
}

func TestValidateDependencyInsert_FirstEdgeAccepted(t *testing.T) {
	if err := ValidateDependencyInsert(nil, "t1", "t2"); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestValidateDependencyInsert_DirectCycleRejected(t *testing.T) {
	edges := []domain.Dependency{edge("t1", "t2")}
	err := ValidateDependencyInsert(edges, "t2", "t1")
	if !errors.Is(err, ErrDependencyCycle) {
		t.Fatalf("expected cycle rejection, got %v", err)
	}
}

func TestValidateDependencyInsert_TransitiveCycleRejected(t *testing.T) {
	edges := []domain.Dependency{
		edge("t1", "t2"),
		edge("t2", "t3"),
		edge("t3", "t4"),
	}
	if err := ValidateDependencyInsert(edges, "t4", "t1"); !errors.Is(err, ErrDependencyCycle) {
		t.Fatalf("expected transitive cycle rejection, got %v", err)
	}
	// The same edge reversed extends the chain and stays acyclic.
	if err := ValidateDependencyInsert(edges, "t1", "t4"); err != nil && !errors.Is(err, ErrDuplicateDependency) {
		t.Fatalf("expected accept, got %v", err)
	}
}

func TestValidateDependencyInsert_DiamondStaysAcyclic(t *testing.T) {
	edges := []domain.Dependency{
		edge("a", "b"),
		edge("a", "c"),
		edge("b", "d"),
	}
	if err := ValidateDependencyInsert(edges, "c", "d"); err != nil {
		t.Fatalf("diamond is acyclic, got %v", err)
	}
}

func TestValidateDependencyInsert_SelfEdgeRejected(t *testing.T) {
	if err := ValidateDependencyInsert(nil, "t1", "t1"); !errors.Is(err, ErrSelfDependency) {
		t.Fatalf("expected self-edge rejection, got %v", err)
	}
}

func TestValidateDependencyInsert_DuplicateRejected(t *testing.T) {
	edges := []domain.Dependency{edge("t1", "t2")}
	if err := ValidateDependencyInsert(edges, "t1", "t2"); !errors.Is(err, ErrDuplicateDependency) {
		t.Fatalf("expected duplicate rejection, got %v", err)
	}
}

func TestValidateMembershipChange_ManagerMustStay(t *testing.T) {
	p := &domain.Project{ID: "p1", ManagerID: "mgr", MemberIDs: []string{"mgr", "mem"}}

	if err := ValidateMembershipChange(p, []string{"mgr"}); err != nil {
		t.Fatalf("keeping the manager is valid, got %v", err)
	}
	if err := ValidateMembershipChange(p, []string{"mem"}); !errors.Is(err, ErrManagerRemoved) {
		t.Fatalf("expected manager-removal rejection, got %v", err)
	}
	if err := ValidateMembershipChange(p, nil); !errors.Is(err, ErrEmptyMembership) {
		t.Fatalf("expected empty-membership rejection, got %v", err)
	}
}

func TestValidateAssignment(t *testing.T) {
	members := []string{"u1", "u2"}

	if err := ValidateAssignment(members, "u2"); err != nil {
		t.Fatalf("member assignment is valid, got %v", err)
	}
	if err := ValidateAssignment(members, ""); err != nil {
		t.Fatalf("clearing assignment is valid, got %v", err)
	}
	if err := ValidateAssignment(members, "u3"); !errors.Is(err, ErrAssigneeNotMember) {
		t.Fatalf("expected not-a-member rejection, got %v", err)
	}
}
