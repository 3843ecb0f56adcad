package master

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/accabog/rhr-sub000/internal/domain/employee"
	"github.com/accabog/rhr-sub000/internal/domain/master/department"
	"github.com/accabog/rhr-sub000/internal/domain/master/position"
	"github.com/accabog/rhr-sub000/internal/domain/tenant"
	"github.com/accabog/rhr-sub000/internal/domain/user"
	"github.com/accabog/rhr-sub000/internal/pkg/validator"
)

type MasterService interface {
	// Department operations
	CreateDepartment(ctx context.Context, s tenant.Session, req department.CreateDepartmentRequest) (department.DepartmentResponse, error)
	GetDepartment(ctx context.Context, s tenant.Session, id string) (department.DepartmentResponse, error)
	ListDepartments(ctx context.Context, s tenant.Session, filter department.DepartmentFilter) ([]department.DepartmentResponse, error)
	UpdateDepartment(ctx context.Context, s tenant.Session, id string, req department.UpdateDepartmentRequest) (department.DepartmentResponse, error)

	// Position operations
	CreatePosition(ctx context.Context, s tenant.Session, req position.CreatePositionRequest) (position.PositionResponse, error)
	GetPosition(ctx context.Context, s tenant.Session, id string) (position.PositionResponse, error)
	ListPositions(ctx context.Context, s tenant.Session, filter position.PositionFilter) ([]position.PositionResponse, error)
	UpdatePosition(ctx context.Context, s tenant.Session, id string, req position.UpdatePositionRequest) (position.PositionResponse, error)
}

type masterServiceImpl struct {
	departmentRepo department.DepartmentRepository
	positionRepo   position.PositionRepository
	employeeRepo   employee.EmployeeRepository
}

func NewMasterService(
	departmentRepo department.DepartmentRepository,
	positionRepo position.PositionRepository,
	employeeRepo employee.EmployeeRepository,
) MasterService {
	return &masterServiceImpl{
		departmentRepo: departmentRepo,
		positionRepo:   positionRepo,
		employeeRepo:   employeeRepo,
	}
}

// maxDepartmentDepth bounds the parent walk of the cycle check.
const maxDepartmentDepth = 64

func requireOrgManager(s tenant.Session) error {
	if !user.HasPermission(s.Role, user.PermissionOrgManage) {
		return user.ErrInsufficientPermissions
	}
	return nil
}

// ==================== DEPARTMENT OPERATIONS ====================

func (m *masterServiceImpl) CreateDepartment(ctx context.Context, s tenant.Session, req department.CreateDepartmentRequest) (department.DepartmentResponse, error) {
	if err := requireOrgManager(s); err != nil {
		return department.DepartmentResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return department.DepartmentResponse{}, err
	}

	entity := department.Department{
		TenantID:    s.TenantID,
		Name:        strings.TrimSpace(req.Name),
		Code:        strings.TrimSpace(req.Code),
		Description: req.Description,
		ParentID:    req.Parent,
		ManagerID:   req.Manager,
		Country:     strings.ToUpper(req.Country),
		IsActive:    true,
	}
	if req.IsActive != nil {
		entity.IsActive = *req.IsActive
	}
	if err := m.checkDepartmentRefs(ctx, entity); err != nil {
		return department.DepartmentResponse{}, err
	}

	created, err := m.departmentRepo.Create(ctx, entity)
	if err != nil {
		return department.DepartmentResponse{}, err
	}
	return department.NewDepartmentResponse(created), nil
}

func (m *masterServiceImpl) GetDepartment(ctx context.Context, s tenant.Session, id string) (department.DepartmentResponse, error) {
	d, err := m.departmentRepo.GetByID(ctx, s.TenantID, id)
	if err != nil {
		return department.DepartmentResponse{}, err
	}
	return department.NewDepartmentResponse(d), nil
}

func (m *masterServiceImpl) ListDepartments(ctx context.Context, s tenant.Session, filter department.DepartmentFilter) ([]department.DepartmentResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	departments, err := m.departmentRepo.List(ctx, s.TenantID, filter.Query())
	if err != nil {
		return nil, err
	}

	resp := make([]department.DepartmentResponse, 0, len(departments))
	for _, d := range departments {
		resp = append(resp, department.NewDepartmentResponse(d))
	}
	return resp, nil
}

func (m *masterServiceImpl) UpdateDepartment(ctx context.Context, s tenant.Session, id string, req department.UpdateDepartmentRequest) (department.DepartmentResponse, error) {
	if err := requireOrgManager(s); err != nil {
		return department.DepartmentResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return department.DepartmentResponse{}, err
	}

	d, err := m.departmentRepo.GetByID(ctx, s.TenantID, id)
	if err != nil {
		return department.DepartmentResponse{}, err
	}
	req.Apply(&d)
	if err := m.checkDepartmentRefs(ctx, d); err != nil {
		return department.DepartmentResponse{}, err
	}
	if err := m.checkParentCycle(ctx, d); err != nil {
		return department.DepartmentResponse{}, err
	}

	if err := m.departmentRepo.Update(ctx, d); err != nil {
		return department.DepartmentResponse{}, err
	}
	updated, err := m.departmentRepo.GetByID(ctx, s.TenantID, id)
	if err != nil {
		return department.DepartmentResponse{}, err
	}
	return department.NewDepartmentResponse(updated), nil
}

// checkDepartmentRefs resolves the parent and manager within the tenant.
func (m *masterServiceImpl) checkDepartmentRefs(ctx context.Context, d department.Department) error {
	var errs validator.ValidationErrors
	if d.ParentID != nil {
		if _, err := m.departmentRepo.GetByID(ctx, d.TenantID, *d.ParentID); err != nil {
			if !errors.Is(err, department.ErrDepartmentNotFound) {
				return err
			}
			errs.Add("parent", "Invalid pk \""+*d.ParentID+"\" - object does not exist.")
		}
	}
	if d.ManagerID != nil {
		if _, err := m.employeeRepo.GetByID(ctx, d.TenantID, *d.ManagerID); err != nil {
			if !errors.Is(err, employee.ErrEmployeeNotFound) {
				return err
			}
			errs.Add("manager", "Invalid pk \""+*d.ManagerID+"\" - object does not exist.")
		}
	}
	return errs.Err()
}

func (m *masterServiceImpl) checkParentCycle(ctx context.Context, d department.Department) error {
	parent := d.ParentID
	for depth := 0; parent != nil; depth++ {
		if *parent == d.ID || depth >= maxDepartmentDepth {
			return department.ErrParentCycle
		}
		p, err := m.departmentRepo.GetByID(ctx, d.TenantID, *parent)
		if err != nil {
			return fmt.Errorf("failed to walk department parents: %w", err)
		}
		parent = p.ParentID
	}
	return nil
}

// ==================== POSITION OPERATIONS ====================

func (m *masterServiceImpl) CreatePosition(ctx context.Context, s tenant.Session, req position.CreatePositionRequest) (position.PositionResponse, error) {
	if err := requireOrgManager(s); err != nil {
		return position.PositionResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return position.PositionResponse{}, err
	}

	entity := position.Position{
		TenantID:     s.TenantID,
		Title:        strings.TrimSpace(req.Title),
		Code:         strings.TrimSpace(req.Code),
		Description:  req.Description,
		DepartmentID: req.Department,
		Level:        1,
		IsActive:     true,
	}
	if req.Level != nil {
		entity.Level = *req.Level
	}
	if req.IsActive != nil {
		entity.IsActive = *req.IsActive
	}
	if err := m.checkPositionDepartment(ctx, entity); err != nil {
		return position.PositionResponse{}, err
	}

	created, err := m.positionRepo.Create(ctx, entity)
	if err != nil {
		return position.PositionResponse{}, err
	}
	return position.NewPositionResponse(created), nil
}

func (m *masterServiceImpl) GetPosition(ctx context.Context, s tenant.Session, id string) (position.PositionResponse, error) {
	p, err := m.positionRepo.GetByID(ctx, s.TenantID, id)
	if err != nil {
		return position.PositionResponse{}, err
	}
	return position.NewPositionResponse(p), nil
}

func (m *masterServiceImpl) ListPositions(ctx context.Context, s tenant.Session, filter position.PositionFilter) ([]position.PositionResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	positions, err := m.positionRepo.List(ctx, s.TenantID, filter.Query())
	if err != nil {
		return nil, err
	}

	resp := make([]position.PositionResponse, 0, len(positions))
	for _, p := range positions {
		resp = append(resp, position.NewPositionResponse(p))
	}
	return resp, nil
}

func (m *masterServiceImpl) UpdatePosition(ctx context.Context, s tenant.Session, id string, req position.UpdatePositionRequest) (position.PositionResponse, error) {
	if err := requireOrgManager(s); err != nil {
		return position.PositionResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return position.PositionResponse{}, err
	}

	p, err := m.positionRepo.GetByID(ctx, s.TenantID, id)
	if err != nil {
		return position.PositionResponse{}, err
	}
	req.Apply(&p)
	if err := m.checkPositionDepartment(ctx, p); err != nil {
		return position.PositionResponse{}, err
	}

	if err := m.positionRepo.Update(ctx, p); err != nil {
		return position.PositionResponse{}, err
	}
	updated, err := m.positionRepo.GetByID(ctx, s.TenantID, id)
	if err != nil {
		return position.PositionResponse{}, err
	}
	return position.NewPositionResponse(updated), nil
}

func (m *masterServiceImpl) checkPositionDepartment(ctx context.Context, p position.Position) error {
	if p.DepartmentID == nil {
		return nil
	}
	if _, err := m.departmentRepo.GetByID(ctx, p.TenantID, *p.DepartmentID); err != nil {
		if !errors.Is(err, department.ErrDepartmentNotFound) {
			return err
		}
		var errs validator.ValidationErrors
		errs.Add("department", "Invalid pk \""+*p.DepartmentID+"\" - object does not exist.")
		return errs.Err()
	}
	return nil
}
