package workflow

import "github.com/google/uuid"

// Role represents the role of the acting user
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleManager    Role = "MANAGER"
	RolePurchaser  Role = "PURCHASER"
	RoleSales      Role = "SALES"
	RoleWarehouse  Role = "WAREHOUSE"
	RoleTechnician Role = "TECHNICIAN"
)

// IsValid checks if the role is a known Role
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManager, RolePurchaser, RoleSales, RoleWarehouse, RoleTechnician:
		return true
	}
	return false
}

// String returns the string representation of Role
func (r Role) String() string {
	return string(r)
}

// Actor is the identity performing a transition. It is always threaded
// explicitly into guard and transition calls, never read from ambient state.
type Actor struct {
	ID   uuid.UUID `json:"id"`
	Role Role      `json:"role"`
}

// NewActor creates an actor with the given identity and role
func NewActor(id uuid.UUID, role Role) Actor {
	return Actor{ID: id, Role: role}
}
