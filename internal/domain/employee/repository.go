package employee

import (
	"context"

	"github.com/accabog/rhr-sub000/internal/pkg/pagination"
)

type EmployeeRepository interface {
	GetByID(ctx context.Context, tenantID, id string) (Employee, error)
	GetByUserID(ctx context.Context, tenantID, userID string) (Employee, error)
}

// EmployeeQuery filters employees. Zero values do not filter.
type EmployeeQuery struct {
	Statuses     []Status
	DepartmentID string
	PositionID   string
	ManagerID    string
	// Search matches names, email and employee code.
	Search string
	Page   pagination.Params
}

// DirectoryRepository maintains the employee records of a tenant.
type DirectoryRepository interface {
	EmployeeRepository
	// Create fails with ErrEmployeeCodeExists or ErrUserAlreadyLinked on a
	// duplicate employee code or user link.
	Create(ctx context.Context, e Employee) (Employee, error)
	List(ctx context.Context, tenantID string, query EmployeeQuery) ([]Employee, int64, error)
	Update(ctx context.Context, e Employee) error
}
