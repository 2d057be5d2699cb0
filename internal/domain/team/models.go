package team

import "time"

// Team is a named permission group. Permissions hold normalized
// fully-qualified strings ("ropa.view", "assessments.edit"); the legacy
// mixed encoding is converted on the way in, never stored.
type Team struct {
	ID          string    `json:"id"`
	TenantID    string    `json:"tenantId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Permissions []string  `json:"permissions"`
	CreatedAt   time.Time `json:"createdAt"`
}

// User is a console account. Effective permissions derive from TeamIDs; the
// user record itself carries no grants.
type User struct {
	ID         string    `json:"id"`
	TenantID   string    `json:"tenantId"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Department string    `json:"department"`
	TeamIDs    []string  `json:"teams"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}

const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)
