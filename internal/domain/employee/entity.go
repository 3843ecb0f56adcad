package employee

import "time"

type Status string

const (
	StatusActive     Status = "active"
	StatusOnLeave    Status = "on_leave"
	StatusTerminated Status = "terminated"
	StatusSuspended  Status = "suspended"
)

var Statuses = []Status{StatusActive, StatusOnLeave, StatusTerminated, StatusSuspended}

func (s Status) Valid() bool {
	for _, st := range Statuses {
		if st == s {
			return true
		}
	}
	return false
}

const DefaultTimezone = "UTC"

type Employee struct {
	ID           string
	TenantID     string
	UserID       *string
	EmployeeCode string
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	DepartmentID *string
	PositionID   *string
	ManagerID    *string
	Status       Status
	HireDate     time.Time
	// TerminationDate is set when the employee leaves.
	TerminationDate       *time.Time
	DateOfBirth           *time.Time
	Address               string
	EmergencyContactName  string
	EmergencyContactPhone string
	Timezone              string
	CreatedAt             time.Time
	UpdatedAt             time.Time

	// Join
	DepartmentName    string
	DepartmentCountry string
	PositionTitle     string
	ManagerName       string
}

func (e Employee) FullName() string {
	switch {
	case e.FirstName == "":
		return e.LastName
	case e.LastName == "":
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}
