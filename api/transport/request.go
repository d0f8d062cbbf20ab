package transport

// RegisterWorkspaceRequest bootstraps a workspace together with its first
// Owner account.
type RegisterWorkspaceRequest struct {
	WorkspaceName string `json:"workspace_name"`
	WorkspaceSlug string `json:"workspace_slug"`
	OwnerUsername string `json:"owner_username"`
	OwnerPassword string `json:"owner_password"`
}

type LoginRequest struct {
	WorkspaceSlug string `json:"workspace_slug"`
	Username      string `json:"username"`
	Password      string `json:"password"`
}

type UserRequest struct {
	Username string `json:"username"`
	Password string `json:"password,omitempty"`
	Role     string `json:"role"`
}

type ProjectRequest struct {
	Name      string   `json:"name"`
	ManagerID string   `json:"manager_id"`
	MemberIDs []string `json:"member_ids"`
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date"`
}

type MembersRequest struct {
	MemberIDs []string `json:"member_ids"`
}

type TaskRequest struct {
	ProjectID  string `json:"project_id"`
	Text       string `json:"text"`
	Status     string `json:"status"`
	AssignedTo string `json:"assigned_to"`
	StartDate  string `json:"start_date"`
	DueDate    string `json:"due_date"`
}

type DependencyRequest struct {
	BlockerTaskID string `json:"blocker_task_id"`
	BlockedTaskID string `json:"blocked_task_id"`
}

type CommentRequest struct {
	Text string `json:"text"`
}
