package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/accabog/rhr-sub000/internal/domain/employee"
	"github.com/accabog/rhr-sub000/internal/domain/master/department"
	"github.com/accabog/rhr-sub000/internal/domain/master/position"
	"github.com/accabog/rhr-sub000/internal/domain/tenant"
	"github.com/accabog/rhr-sub000/internal/domain/user"
	"github.com/accabog/rhr-sub000/internal/pkg/database"
	"github.com/accabog/rhr-sub000/internal/pkg/pagination"
	"github.com/accabog/rhr-sub000/internal/pkg/validator"
)

type EmployeeServiceImpl struct {
	tx             database.Transactor
	employeeRepo   employee.DirectoryRepository
	departmentRepo department.DepartmentRepository
	positionRepo   position.PositionRepository
	now            func() time.Time
}

func NewEmployeeService(
	tx database.Transactor,
	employeeRepo employee.DirectoryRepository,
	departmentRepo department.DepartmentRepository,
	positionRepo position.PositionRepository,
) *EmployeeServiceImpl {
	return &EmployeeServiceImpl{
		tx:             tx,
		employeeRepo:   employeeRepo,
		departmentRepo: departmentRepo,
		positionRepo:   positionRepo,
		now:            time.Now,
	}
}

// WithClock replaces the time source.
func (s *EmployeeServiceImpl) WithClock(now func() time.Time) *EmployeeServiceImpl {
	s.now = now
	return s
}

// maxManagerDepth bounds the manager walk of the cycle check.
const maxManagerDepth = 64

func requireOrgManager(s tenant.Session) error {
	if !user.HasPermission(s.Role, user.PermissionOrgManage) {
		return user.ErrInsufficientPermissions
	}
	return nil
}

// List implements employee.EmployeeService.
func (s *EmployeeServiceImpl) List(ctx context.Context, sess tenant.Session, filter employee.EmployeeFilter) (employee.ListEmployeeResponse, error) {
	if err := filter.Validate(); err != nil {
		return employee.ListEmployeeResponse{}, err
	}
	query := filter.Query()
	employees, total, err := s.employeeRepo.List(ctx, sess.TenantID, query)
	if err != nil {
		return employee.ListEmployeeResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}

	results := make([]employee.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		results = append(results, employee.NewEmployeeResponse(e))
	}
	return pagination.NewPage(results, total, query.Page), nil
}

// Get implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Get(ctx context.Context, sess tenant.Session, id string) (employee.EmployeeResponse, error) {
	e, err := s.employeeRepo.GetByID(ctx, sess.TenantID, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.NewEmployeeResponse(e), nil
}

// Create implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Create(ctx context.Context, sess tenant.Session, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := requireOrgManager(sess); err != nil {
		return employee.EmployeeResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	hireDate, _ := time.Parse(employee.DateFormat, req.HireDate)
	e := employee.Employee{
		TenantID:              sess.TenantID,
		UserID:                req.User,
		EmployeeCode:          strings.TrimSpace(req.EmployeeID),
		FirstName:             strings.TrimSpace(req.FirstName),
		LastName:              strings.TrimSpace(req.LastName),
		Email:                 strings.TrimSpace(req.Email),
		Phone:                 req.Phone,
		DepartmentID:          req.Department,
		PositionID:            req.Position,
		ManagerID:             req.Manager,
		Status:                employee.StatusActive,
		HireDate:              hireDate,
		Address:               req.Address,
		EmergencyContactName:  req.EmergencyContactName,
		EmergencyContactPhone: req.EmergencyContactPhone,
		Timezone:              employee.DefaultTimezone,
	}
	if req.Status != "" {
		e.Status = employee.Status(req.Status)
	}
	if req.DateOfBirth != nil && *req.DateOfBirth != "" {
		dob, _ := time.Parse(employee.DateFormat, *req.DateOfBirth)
		e.DateOfBirth = &dob
	}
	if req.Timezone != "" {
		e.Timezone = req.Timezone
	}
	s.stampTermination(&e)

	var created employee.Employee
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.checkRefs(ctx, e); err != nil {
			return err
		}
		var err error
		created, err = s.employeeRepo.Create(ctx, e)
		return err
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	slog.Info("employee created", "tenant_id", sess.TenantID, "employee_id", created.ID)
	return employee.NewEmployeeResponse(created), nil
}

// Update implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Update(ctx context.Context, sess tenant.Session, id string, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := requireOrgManager(sess); err != nil {
		return employee.EmployeeResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	var updated employee.Employee
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		e, err := s.employeeRepo.GetByID(ctx, sess.TenantID, id)
		if err != nil {
			return err
		}
		req.Apply(&e)
		s.stampTermination(&e)
		if err := s.checkRefs(ctx, e); err != nil {
			return err
		}
		if err := s.checkManagerCycle(ctx, e); err != nil {
			return err
		}
		if err := s.employeeRepo.Update(ctx, e); err != nil {
			return err
		}
		updated, err = s.employeeRepo.GetByID(ctx, sess.TenantID, id)
		return err
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.NewEmployeeResponse(updated), nil
}

// Me implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Me(ctx context.Context, sess tenant.Session) (employee.EmployeeResponse, error) {
	if !sess.HasEmployee() {
		return employee.EmployeeResponse{}, tenant.ErrNoEmployeeProfile
	}
	return s.Get(ctx, sess, sess.EmployeeID)
}

// UpdateMe implements employee.EmployeeService. Only personal contact
// fields are writable here.
func (s *EmployeeServiceImpl) UpdateMe(ctx context.Context, sess tenant.Session, req employee.UpdateProfileRequest) (employee.EmployeeResponse, error) {
	if !sess.HasEmployee() {
		return employee.EmployeeResponse{}, tenant.ErrNoEmployeeProfile
	}
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	var updated employee.Employee
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		e, err := s.employeeRepo.GetByID(ctx, sess.TenantID, sess.EmployeeID)
		if err != nil {
			return err
		}
		req.Apply(&e)
		if err := s.employeeRepo.Update(ctx, e); err != nil {
			return err
		}
		updated, err = s.employeeRepo.GetByID(ctx, sess.TenantID, sess.EmployeeID)
		return err
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.NewEmployeeResponse(updated), nil
}

// stampTermination dates a termination that arrived without a date.
func (s *EmployeeServiceImpl) stampTermination(e *employee.Employee) {
	if e.Status == employee.StatusTerminated && e.TerminationDate == nil {
		now := s.now().UTC()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		e.TerminationDate = &today
	}
}

// checkRefs resolves the department, position and manager within the tenant.
func (s *EmployeeServiceImpl) checkRefs(ctx context.Context, e employee.Employee) error {
	var errs validator.ValidationErrors
	if e.DepartmentID != nil {
		if _, err := s.departmentRepo.GetByID(ctx, e.TenantID, *e.DepartmentID); err != nil {
			if !errors.Is(err, department.ErrDepartmentNotFound) {
				return err
			}
			errs.Add("department", invalidPK(*e.DepartmentID))
		}
	}
	if e.PositionID != nil {
		if _, err := s.positionRepo.GetByID(ctx, e.TenantID, *e.PositionID); err != nil {
			if !errors.Is(err, position.ErrPositionNotFound) {
				return err
			}
			errs.Add("position", invalidPK(*e.PositionID))
		}
	}
	if e.ManagerID != nil {
		if _, err := s.employeeRepo.GetByID(ctx, e.TenantID, *e.ManagerID); err != nil {
			if !errors.Is(err, employee.ErrEmployeeNotFound) {
				return err
			}
			errs.Add("manager", invalidPK(*e.ManagerID))
		}
	}
	return errs.Err()
}

func (s *EmployeeServiceImpl) checkManagerCycle(ctx context.Context, e employee.Employee) error {
	manager := e.ManagerID
	for depth := 0; manager != nil; depth++ {
		if *manager == e.ID || depth >= maxManagerDepth {
			return employee.ErrManagerCycle
		}
		m, err := s.employeeRepo.GetByID(ctx, e.TenantID, *manager)
		if err != nil {
			return fmt.Errorf("failed to walk managers: %w", err)
		}
		manager = m.ManagerID
	}
	return nil
}

func invalidPK(id string) string {
	return "Invalid pk \"" + id + "\" - object does not exist."
}
