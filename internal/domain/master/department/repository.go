package department

import "context"

// DepartmentQuery filters departments. Zero values do not filter.
type DepartmentQuery struct {
	IsActive *bool
	ParentID string
	Search   string
}

type DepartmentRepository interface {
	// Create fails with ErrDepartmentCodeExists for a duplicate non-empty code.
	Create(ctx context.Context, d Department) (Department, error)
	GetByID(ctx context.Context, tenantID, id string) (Department, error)
	List(ctx context.Context, tenantID string, query DepartmentQuery) ([]Department, error)
	Update(ctx context.Context, d Department) error
}
