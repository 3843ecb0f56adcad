package user

import "time"

// Role is a user's role within one tenant.
type Role string

const (
	RoleOwner    Role = "owner"    // Tenant owner - full access
	RoleAdmin    Role = "admin"    // Manages people and policies
	RoleManager  Role = "manager"  // Can approve leave and timesheets
	RoleEmployee Role = "employee" // Regular employee
	RoleViewer   Role = "viewer"   // Read only
)

func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleManager, RoleEmployee, RoleViewer:
		return true
	}
	return false
}

// CanApprove reports whether the role may review other people's requests.
func (r Role) CanApprove() bool {
	return r == RoleOwner || r == RoleAdmin || r == RoleManager
}

type User struct {
	ID           string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
