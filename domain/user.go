package domain

import "time"

// Role is the ranked permission level of a user within its workspace.
type Role string

const (
	RoleOwner   Role = "owner"
	RoleManager Role = "manager"
	RoleMember  Role = "member"
)

// Rank places roles on a total order; a higher rank means more privilege.
// Unknown roles rank below Member.
func (r Role) Rank() int {
	switch r {
	case RoleOwner:
		return 3
	case RoleManager:
		return 2
	case RoleMember:
		return 1
	default:
		return 0
	}
}

func (r Role) AtLeast(other Role) bool {
	return r.Rank() >= other.Rank()
}

func (r Role) Valid() bool {
	return r.Rank() > 0
}

// User represents an authenticated identity scoped to a single workspace.
// Usernames are unique within a workspace, not globally.
type User struct {
	ID           string    `json:"id"`
	WorkspaceID  string    `json:"workspace_id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
