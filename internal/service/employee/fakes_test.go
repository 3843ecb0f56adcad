package employee

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/accabog/rhr-sub000/internal/domain/employee"
	"github.com/accabog/rhr-sub000/internal/domain/master/department"
	"github.com/accabog/rhr-sub000/internal/domain/master/position"
	"github.com/google/uuid"
)

type passthroughTx struct{}

func (passthroughTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeStore struct {
	mu          sync.Mutex
	employees   map[string]employee.Employee
	departments map[string]department.Department
	positions   map[string]position.Position
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		employees:   map[string]employee.Employee{},
		departments: map[string]department.Department{},
		positions:   map[string]position.Position{},
	}
}

// employee.DirectoryRepository
type fakeDirectory struct{ *fakeStore }

func (f fakeDirectory) joined(e employee.Employee) employee.Employee {
	e.DepartmentName, e.DepartmentCountry, e.PositionTitle, e.ManagerName = "", "", "", ""
	if e.DepartmentID != nil {
		d := f.departments[*e.DepartmentID]
		e.DepartmentName, e.DepartmentCountry = d.Name, d.Country
	}
	if e.PositionID != nil {
		e.PositionTitle = f.positions[*e.PositionID].Title
	}
	if e.ManagerID != nil {
		e.ManagerName = f.employees[*e.ManagerID].FullName()
	}
	return e
}

func (f fakeDirectory) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, x := range f.employees {
		if x.TenantID != e.TenantID {
			continue
		}
		if x.EmployeeCode == e.EmployeeCode {
			return employee.Employee{}, employee.ErrEmployeeCodeExists
		}
		if e.UserID != nil && x.UserID != nil && *x.UserID == *e.UserID {
			return employee.Employee{}, employee.ErrUserAlreadyLinked
		}
	}
	e.ID = uuid.NewString()
	f.employees[e.ID] = e
	return f.joined(e), nil
}

func (f fakeDirectory) GetByID(ctx context.Context, tenantID, id string) (employee.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.employees[id]
	if !ok || e.TenantID != tenantID {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return f.joined(e), nil
}

func (f fakeDirectory) GetByUserID(ctx context.Context, tenantID, userID string) (employee.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.employees {
		if e.TenantID == tenantID && e.UserID != nil && *e.UserID == userID {
			return f.joined(e), nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f fakeDirectory) List(ctx context.Context, tenantID string, query employee.EmployeeQuery) ([]employee.Employee, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []employee.Employee
	for _, e := range f.employees {
		if e.TenantID != tenantID {
			continue
		}
		if len(query.Statuses) > 0 && !hasStatus(query.Statuses, e.Status) {
			continue
		}
		if query.DepartmentID != "" && (e.DepartmentID == nil || *e.DepartmentID != query.DepartmentID) {
			continue
		}
		if query.ManagerID != "" && (e.ManagerID == nil || *e.ManagerID != query.ManagerID) {
			continue
		}
		if query.Search != "" && !strings.Contains(strings.ToLower(e.FullName()+" "+e.Email), strings.ToLower(query.Search)) {
			continue
		}
		out = append(out, f.joined(e))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastName < out[j].LastName })
	total := int64(len(out))
	start := query.Page.Offset()
	if start > len(out) {
		start = len(out)
	}
	end := start + query.Page.Limit()
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], total, nil
}

func hasStatus(statuses []employee.Status, s employee.Status) bool {
	for _, st := range statuses {
		if st == s {
			return true
		}
	}
	return false
}

func (f fakeDirectory) Update(ctx context.Context, e employee.Employee) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.employees[e.ID]; !ok {
		return employee.ErrEmployeeNotFound
	}
	f.employees[e.ID] = e
	return nil
}

// department.DepartmentRepository, read side only
type fakeDepartments struct {
	department.DepartmentRepository
	*fakeStore
}

func (f fakeDepartments) GetByID(ctx context.Context, tenantID, id string) (department.Department, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.departments[id]
	if !ok || d.TenantID != tenantID {
		return department.Department{}, department.ErrDepartmentNotFound
	}
	return d, nil
}

// position.PositionRepository, read side only
type fakePositions struct {
	position.PositionRepository
	*fakeStore
}

func (f fakePositions) GetByID(ctx context.Context, tenantID, id string) (position.Position, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.positions[id]
	if !ok || p.TenantID != tenantID {
		return position.Position{}, position.ErrPositionNotFound
	}
	return p, nil
}
