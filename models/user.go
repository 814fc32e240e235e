package models

import "time"

// Role classifies what a FixIT account is allowed to do.
type Role string

// Known account roles. Technicians are split into two support levels:
// level 1 handles first-line triage, level 2 takes escalations.
const (
	RoleUser   Role = "user"
	RoleTechL1 Role = "tech_l1"
	RoleTechL2 Role = "tech_l2"
	RoleAdmin  Role = "admin"
)

// Valid reports whether r is one of the known account roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleTechL1, RoleTechL2, RoleAdmin:
		return true
	}
	return false
}

// Technician reports whether the role may be assigned tickets.
func (r Role) Technician() bool {
	return r == RoleTechL1 || r == RoleTechL2
}

// User represents a FixIT account: a requester, a technician, or an
// administrator. The server copy is authoritative; agent-held copies are
// session-scoped caches refreshed by reconciliation.
type User struct {
	// ID is the unique identifier of the account (UUID).
	ID string `json:"id"`

	// Email is the unique login identifier and the address the
	// notification glue delivers to.
	Email string `json:"email"`

	// Name is the display name of the user.
	Name string `json:"name"`

	// Role determines authorization level and ticket-assignment
	// eligibility.
	Role Role `json:"role"`

	// PasswordHash stores the bcrypt hash of the user's password.
	// Never exposed via JSON.
	PasswordHash string `json:"-"`

	// Active marks whether the account can log in. Deactivation is
	// distinct from deletion: inactive users remain visible in reports.
	Active bool `json:"active"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is the timestamp of the last modification.
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}
