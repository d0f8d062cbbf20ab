package domain

import "time"

// Workspace is the root tenancy boundary. Every other entity belongs to
// exactly one workspace, directly or through its project, and is never
// visible across workspace boundaries.
type Workspace struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}
