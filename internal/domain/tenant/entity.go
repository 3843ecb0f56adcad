package tenant

import (
	"time"

	"github.com/accabog/rhr-sub000/internal/domain/user"
)

type Tenant struct {
	ID        string
	Name      string
	Slug      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Membership links a user to a tenant with a role.
type Membership struct {
	ID        string
	UserID    string
	TenantID  string
	Role      user.Role
	IsDefault bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Department struct {
	ID       string
	TenantID string
	Name     string
	// Country is an ISO 3166-1 alpha-2 code; empty when not set.
	Country  string
	IsActive bool
}
