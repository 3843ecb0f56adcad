package position

import "time"

type Position struct {
	ID           string
	TenantID     string
	Title        string
	Code         string
	Description  string
	DepartmentID *string
	// Level is the seniority level, 1 being entry level.
	Level     int
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time

	// Join
	DepartmentName string
}
