package contract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/accabog/rhr-sub000/internal/domain/contract"
	"github.com/accabog/rhr-sub000/internal/domain/employee"
	"github.com/accabog/rhr-sub000/internal/domain/tenant"
	"github.com/accabog/rhr-sub000/internal/domain/user"
	"github.com/accabog/rhr-sub000/internal/pkg/database"
	"github.com/accabog/rhr-sub000/internal/pkg/pagination"
	"github.com/accabog/rhr-sub000/internal/pkg/validator"
	"github.com/accabog/rhr-sub000/internal/pkg/workflow"
)

type ContractServiceImpl struct {
	tx database.Transactor
	contract.ContractTypeRepository
	contract.ContractRepository
	employee.EmployeeRepository
	now func() time.Time
}

func NewContractService(
	tx database.Transactor,
	contractTypeRepository contract.ContractTypeRepository,
	contractRepository contract.ContractRepository,
	employeeRepository employee.EmployeeRepository,
) *ContractServiceImpl {
	return &ContractServiceImpl{
		tx:                     tx,
		ContractTypeRepository: contractTypeRepository,
		ContractRepository:     contractRepository,
		EmployeeRepository:     employeeRepository,
		now:                    time.Now,
	}
}

// WithClock replaces the time source.
func (c *ContractServiceImpl) WithClock(now func() time.Time) *ContractServiceImpl {
	c.now = now
	return c
}

func canManage(s tenant.Session) bool {
	return user.HasPermission(s.Role, user.PermissionContractManage)
}

func requireManage(s tenant.Session) error {
	if !canManage(s) {
		return user.ErrInsufficientPermissions
	}
	return nil
}

func (c *ContractServiceImpl) today() time.Time {
	now := c.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// ListTypes implements contract.ContractService.
func (c *ContractServiceImpl) ListTypes(ctx context.Context, s tenant.Session) ([]contract.ContractTypeResponse, error) {
	types, err := c.ContractTypeRepository.List(ctx, s.TenantID, true)
	if err != nil {
		return nil, err
	}
	resp := make([]contract.ContractTypeResponse, 0, len(types))
	for _, t := range types {
		resp = append(resp, contract.NewContractTypeResponse(t))
	}
	return resp, nil
}

// CreateType implements contract.ContractService.
func (c *ContractServiceImpl) CreateType(ctx context.Context, s tenant.Session, req contract.CreateContractTypeRequest) (contract.ContractTypeResponse, error) {
	if err := requireManage(s); err != nil {
		return contract.ContractTypeResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return contract.ContractTypeResponse{}, err
	}

	t := contract.ContractType{
		TenantID:    s.TenantID,
		Name:        strings.TrimSpace(req.Name),
		Code:        strings.ToUpper(strings.TrimSpace(req.Code)),
		Description: req.Description,
		IsActive:    true,
	}
	if req.IsActive != nil {
		t.IsActive = *req.IsActive
	}
	created, err := c.ContractTypeRepository.Create(ctx, t)
	if err != nil {
		return contract.ContractTypeResponse{}, err
	}
	return contract.NewContractTypeResponse(created), nil
}

// List implements contract.ContractService.
func (c *ContractServiceImpl) List(ctx context.Context, s tenant.Session, filter contract.ContractFilter) (contract.ListContractResponse, error) {
	if err := requireManage(s); err != nil {
		return contract.ListContractResponse{}, err
	}
	if err := filter.Validate(); err != nil {
		return contract.ListContractResponse{}, err
	}
	today := c.today()
	return c.page(ctx, s, filter.Query(today), today)
}

// MyContracts implements contract.ContractService.
func (c *ContractServiceImpl) MyContracts(ctx context.Context, s tenant.Session, page pagination.Params) (contract.ListContractResponse, error) {
	if !s.HasEmployee() {
		return contract.ListContractResponse{}, tenant.ErrNoEmployeeProfile
	}
	return c.page(ctx, s, contract.ContractQuery{EmployeeID: s.EmployeeID, Page: page.Normalize()}, c.today())
}

func (c *ContractServiceImpl) page(ctx context.Context, s tenant.Session, query contract.ContractQuery, today time.Time) (contract.ListContractResponse, error) {
	contracts, total, err := c.ContractRepository.List(ctx, s.TenantID, query)
	if err != nil {
		return contract.ListContractResponse{}, fmt.Errorf("failed to list contracts: %w", err)
	}
	results := make([]contract.ContractResponse, 0, len(contracts))
	for _, k := range contracts {
		results = append(results, contract.NewContractResponse(k, today))
	}
	return pagination.NewPage(results, total, query.Page), nil
}

// Get implements contract.ContractService. Employees may read their own
// contracts only.
func (c *ContractServiceImpl) Get(ctx context.Context, s tenant.Session, id string) (contract.ContractResponse, error) {
	k, err := c.ContractRepository.GetByID(ctx, s.TenantID, id)
	if err != nil {
		return contract.ContractResponse{}, err
	}
	if !canManage(s) && k.EmployeeID != s.EmployeeID {
		return contract.ContractResponse{}, contract.ErrContractNotFound
	}
	return contract.NewContractResponse(k, c.today()), nil
}

// Create implements contract.ContractService. New contracts start as drafts.
func (c *ContractServiceImpl) Create(ctx context.Context, s tenant.Session, req contract.CreateContractRequest) (contract.ContractResponse, error) {
	if err := requireManage(s); err != nil {
		return contract.ContractResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return contract.ContractResponse{}, err
	}

	var created contract.Contract
	err := c.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := c.checkRefs(ctx, s.TenantID, req.Employee, req.ContractType); err != nil {
			return err
		}
		var err error
		created, err = c.ContractRepository.Create(ctx, req.Contract(s.TenantID))
		return err
	})
	if err != nil {
		return contract.ContractResponse{}, err
	}

	slog.Info("contract created", "tenant_id", s.TenantID, "contract_id", created.ID, "employee_id", created.EmployeeID)
	return contract.NewContractResponse(created, c.today()), nil
}

// Update implements contract.ContractService.
func (c *ContractServiceImpl) Update(ctx context.Context, s tenant.Session, id string, req contract.UpdateContractRequest) (contract.ContractResponse, error) {
	if err := requireManage(s); err != nil {
		return contract.ContractResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return contract.ContractResponse{}, err
	}

	k, err := c.ContractRepository.GetByID(ctx, s.TenantID, id)
	if err != nil {
		return contract.ContractResponse{}, err
	}
	if k.Status != workflow.StatusDraft && k.Status != workflow.StatusActive {
		return contract.ContractResponse{}, contract.ErrContractNotEditable
	}
	if err := req.Apply(&k); err != nil {
		return contract.ContractResponse{}, err
	}
	if err := c.ContractRepository.Update(ctx, k, k.Status); err != nil {
		if errors.Is(err, workflow.ErrStatusChanged) {
			return contract.ContractResponse{}, contract.ErrContractNotEditable
		}
		return contract.ContractResponse{}, fmt.Errorf("failed to update contract: %w", err)
	}
	return c.respond(ctx, s, id)
}

// Activate implements contract.ContractService.
func (c *ContractServiceImpl) Activate(ctx context.Context, s tenant.Session, id string) (contract.ContractResponse, error) {
	return c.transition(ctx, s, id, workflow.ActionActivate)
}

// Terminate implements contract.ContractService.
func (c *ContractServiceImpl) Terminate(ctx context.Context, s tenant.Session, id string) (contract.ContractResponse, error) {
	return c.transition(ctx, s, id, workflow.ActionTerminate)
}

func (c *ContractServiceImpl) transition(ctx context.Context, s tenant.Session, id string, action workflow.Action) (contract.ContractResponse, error) {
	if err := requireManage(s); err != nil {
		return contract.ContractResponse{}, err
	}
	k, err := c.ContractRepository.GetByID(ctx, s.TenantID, id)
	if err != nil {
		return contract.ContractResponse{}, err
	}
	from := k.Status
	next, err := workflow.Next(workflow.KindContract, from, action)
	if err != nil {
		return contract.ContractResponse{}, err
	}
	k.Status = next
	if err := c.ContractRepository.Update(ctx, k, from); err != nil {
		if errors.Is(err, workflow.ErrStatusChanged) {
			return contract.ContractResponse{}, &workflow.TransitionError{Kind: workflow.KindContract, Action: action, From: from}
		}
		return contract.ContractResponse{}, fmt.Errorf("failed to %s contract: %w", action, err)
	}

	slog.Info("contract transitioned", "tenant_id", s.TenantID, "contract_id", id, "action", action, "status", next)
	return c.respond(ctx, s, id)
}

// Expiring implements contract.ContractService.
func (c *ContractServiceImpl) Expiring(ctx context.Context, s tenant.Session) ([]contract.ContractResponse, error) {
	if err := requireManage(s); err != nil {
		return nil, err
	}
	today := c.today()
	from, before := contract.ExpiringWindow(today)
	contracts, _, err := c.ContractRepository.List(ctx, s.TenantID, contract.ContractQuery{
		Statuses:   []workflow.Status{workflow.StatusActive},
		EndsFrom:   &from,
		EndsBefore: &before,
		All:        true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list expiring contracts: %w", err)
	}
	resp := make([]contract.ContractResponse, 0, len(contracts))
	for _, k := range contracts {
		resp = append(resp, contract.NewContractResponse(k, today))
	}
	return resp, nil
}

// Stats implements contract.ContractService.
func (c *ContractServiceImpl) Stats(ctx context.Context, s tenant.Session) (contract.StatsResponse, error) {
	if err := requireManage(s); err != nil {
		return contract.StatsResponse{}, err
	}
	from, before := contract.ExpiringWindow(c.today())
	stats, err := c.ContractRepository.Stats(ctx, s.TenantID, from, before)
	if err != nil {
		return contract.StatsResponse{}, err
	}
	return contract.NewStatsResponse(stats), nil
}

func (c *ContractServiceImpl) respond(ctx context.Context, s tenant.Session, id string) (contract.ContractResponse, error) {
	k, err := c.ContractRepository.GetByID(ctx, s.TenantID, id)
	if err != nil {
		return contract.ContractResponse{}, err
	}
	return contract.NewContractResponse(k, c.today()), nil
}

// checkRefs resolves the employee and an active contract type within the tenant.
func (c *ContractServiceImpl) checkRefs(ctx context.Context, tenantID, employeeID, typeID string) error {
	var errs validator.ValidationErrors
	if _, err := c.EmployeeRepository.GetByID(ctx, tenantID, employeeID); err != nil {
		if !errors.Is(err, employee.ErrEmployeeNotFound) {
			return err
		}
		errs.Add("employee", "Invalid pk \""+employeeID+"\" - object does not exist.")
	}
	t, err := c.ContractTypeRepository.GetByID(ctx, tenantID, typeID)
	switch {
	case errors.Is(err, contract.ErrContractTypeNotFound):
		errs.Add("contract_type", "Invalid pk \""+typeID+"\" - object does not exist.")
	case err != nil:
		return err
	case !t.IsActive:
		return contract.ErrContractTypeInactive
	}
	return errs.Err()
}
