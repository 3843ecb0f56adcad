package department

import "time"

type Department struct {
	ID          string
	TenantID    string
	Name        string
	Code        string
	Description string
	ParentID    *string
	ManagerID   *string
	// Country is the ISO 3166-1 alpha-2 code deciding which public holidays
	// apply to the department's employees. Empty means tenant-wide holidays only.
	Country   string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time

	// Join
	ChildrenCount  int
	EmployeesCount int
}
