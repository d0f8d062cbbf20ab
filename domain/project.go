package domain

import "time"

// Project groups tasks within a workspace. The manager is always part of
// the member set and cannot be removed while still manager.
type Project struct {
	ID          string     `json:"id"`
	WorkspaceID string     `json:"workspace_id"`
	Name        string     `json:"name"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	ManagerID   string     `json:"manager_id"`
	MemberIDs   []string   `json:"member_ids"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (p *Project) IsMember(userID string) bool {
	if p == nil || userID == "" {
		return false
	}
	for _, id := range p.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// DatesValid reports whether the optional schedule window is well formed:
// EndDate must not precede StartDate when both are set.
func (p *Project) DatesValid() bool {
	if p == nil {
		return false
	}
	if p.StartDate == nil || p.EndDate == nil {
		return true
	}
	return !p.EndDate.Before(*p.StartDate)
}
