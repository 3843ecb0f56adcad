package employee

import (
	"context"

	"github.com/accabog/rhr-sub000/internal/domain/tenant"
)

type EmployeeService interface {
	List(ctx context.Context, s tenant.Session, filter EmployeeFilter) (ListEmployeeResponse, error)
	Get(ctx context.Context, s tenant.Session, id string) (EmployeeResponse, error)
	Create(ctx context.Context, s tenant.Session, req CreateEmployeeRequest) (EmployeeResponse, error)
	Update(ctx context.Context, s tenant.Session, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Me(ctx context.Context, s tenant.Session) (EmployeeResponse, error)
	UpdateMe(ctx context.Context, s tenant.Session, req UpdateProfileRequest) (EmployeeResponse, error)
}
