package contract

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/accabog/rhr-sub000/internal/domain/contract"
	"github.com/accabog/rhr-sub000/internal/domain/employee"
	"github.com/accabog/rhr-sub000/internal/pkg/workflow"
	"github.com/google/uuid"
)

type passthroughTx struct{}

func (passthroughTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeStore struct {
	mu        sync.Mutex
	types     map[string]contract.ContractType
	contracts map[string]contract.Contract
	employees map[string]employee.Employee
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		types:     map[string]contract.ContractType{},
		contracts: map[string]contract.Contract{},
		employees: map[string]employee.Employee{},
	}
}

// contract.ContractTypeRepository
type fakeTypes struct{ *fakeStore }

func (f fakeTypes) Create(ctx context.Context, t contract.ContractType) (contract.ContractType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, x := range f.types {
		if x.TenantID == t.TenantID && x.Code == t.Code {
			return contract.ContractType{}, contract.ErrContractTypeCodeExists
		}
	}
	t.ID = uuid.NewString()
	f.types[t.ID] = t
	return t, nil
}

func (f fakeTypes) GetByID(ctx context.Context, tenantID, id string) (contract.ContractType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.types[id]
	if !ok || t.TenantID != tenantID {
		return contract.ContractType{}, contract.ErrContractTypeNotFound
	}
	return t, nil
}

func (f fakeTypes) List(ctx context.Context, tenantID string, activeOnly bool) ([]contract.ContractType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []contract.ContractType
	for _, t := range f.types {
		if t.TenantID == tenantID && (t.IsActive || !activeOnly) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// contract.ContractRepository
type fakeContracts struct{ *fakeStore }

func (f fakeContracts) joined(c contract.Contract) contract.Contract {
	c.EmployeeName = f.employees[c.EmployeeID].FullName()
	c.ContractTypeName = f.types[c.ContractTypeID].Name
	return c
}

func (f fakeContracts) Create(ctx context.Context, c contract.Contract) (contract.Contract, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c.ID = uuid.NewString()
	f.contracts[c.ID] = c
	return f.joined(c), nil
}

func (f fakeContracts) GetByID(ctx context.Context, tenantID, id string) (contract.Contract, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.contracts[id]
	if !ok || c.TenantID != tenantID {
		return contract.Contract{}, contract.ErrContractNotFound
	}
	return f.joined(c), nil
}

func (f fakeContracts) List(ctx context.Context, tenantID string, query contract.ContractQuery) ([]contract.Contract, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []contract.Contract
	for _, c := range f.contracts {
		if c.TenantID != tenantID {
			continue
		}
		if query.EmployeeID != "" && c.EmployeeID != query.EmployeeID {
			continue
		}
		if len(query.Statuses) > 0 && !hasStatus(query.Statuses, c.Status) {
			continue
		}
		if (query.EndsFrom != nil || query.EndsBefore != nil) && c.EndDate == nil {
			continue
		}
		if query.EndsFrom != nil && c.EndDate.Before(*query.EndsFrom) {
			continue
		}
		if query.EndsBefore != nil && c.EndDate.After(*query.EndsBefore) {
			continue
		}
		out = append(out, f.joined(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.After(out[j].StartDate) })
	total := int64(len(out))
	if !query.All {
		start := min(query.Page.Offset(), len(out))
		end := min(start+query.Page.Limit(), len(out))
		out = out[start:end]
	}
	return out, total, nil
}

func hasStatus(statuses []workflow.Status, s workflow.Status) bool {
	for _, st := range statuses {
		if st == s {
			return true
		}
	}
	return false
}

func (f fakeContracts) Update(ctx context.Context, c contract.Contract, from workflow.Status) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.contracts[c.ID]
	if !ok || stored.TenantID != c.TenantID {
		return contract.ErrContractNotFound
	}
	if stored.Status != from {
		return workflow.ErrStatusChanged
	}
	f.contracts[c.ID] = c
	return nil
}

func (f fakeContracts) Stats(ctx context.Context, tenantID string, today, expiringBefore time.Time) (contract.Stats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var s contract.Stats
	for _, c := range f.contracts {
		if c.TenantID != tenantID {
			continue
		}
		s.Total++
		switch c.Status {
		case workflow.StatusActive:
			s.Active++
			if c.EndDate != nil && !c.EndDate.Before(today) && !c.EndDate.After(expiringBefore) {
				s.ExpiringSoon++
			}
		case workflow.StatusDraft:
			s.Draft++
		case workflow.StatusExpired:
			s.Expired++
		case workflow.StatusTerminated:
			s.Terminated++
		}
	}
	return s, nil
}

// employee.EmployeeRepository
type fakeEmployees struct{ *fakeStore }

func (f fakeEmployees) GetByID(ctx context.Context, tenantID, id string) (employee.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.employees[id]
	if !ok || e.TenantID != tenantID {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (f fakeEmployees) GetByUserID(ctx context.Context, tenantID, userID string) (employee.Employee, error) {
	return employee.Employee{}, employee.ErrEmployeeNotFound
}
