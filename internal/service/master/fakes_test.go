package master

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

type fakeStore struct {
	mu          sync.Mutex
	departments map[string]department.Department
	positions   map[string]position.Position
	employees   map[string]employee.Employee
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		departments: map[string]department.Department{},
		positions:   map[string]position.Position{},
		employees:   map[string]employee.Employee{},
	}
}

// department.DepartmentRepository
type fakeDepartments struct{ *fakeStore }

func (f fakeDepartments) Create(ctx context.Context, d department.Department) (department.Department, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if d.Code != "" {
		for _, x := range f.departments {
			if x.TenantID == d.TenantID && x.Code == d.Code {
				return department.Department{}, department.ErrDepartmentCodeExists
			}
		}
	}
	d.ID = uuid.NewString()
	f.departments[d.ID] = d
	return f.counted(d), nil
}

func (f fakeDepartments) counted(d department.Department) department.Department {
	d.ChildrenCount, d.EmployeesCount = 0, 0
	for _, x := range f.departments {
		if x.ParentID != nil && *x.ParentID == d.ID {
			d.ChildrenCount++
		}
	}
	for _, e := range f.employees {
		if e.DepartmentID != nil && *e.DepartmentID == d.ID {
			d.EmployeesCount++
		}
	}
	return d
}

func (f fakeDepartments) GetByID(ctx context.Context, tenantID, id string) (department.Department, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.departments[id]
	if !ok || d.TenantID != tenantID {
		return department.Department{}, department.ErrDepartmentNotFound
	}
	return f.counted(d), nil
}

func (f fakeDepartments) List(ctx context.Context, tenantID string, query department.DepartmentQuery) ([]department.Department, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []department.Department
	for _, d := range f.departments {
		if d.TenantID != tenantID {
			continue
		}
		if query.IsActive != nil && d.IsActive != *query.IsActive {
			continue
		}
		if query.ParentID != "" && (d.ParentID == nil || *d.ParentID != query.ParentID) {
			continue
		}
		if query.Search != "" && !strings.Contains(strings.ToLower(d.Name), strings.ToLower(query.Search)) {
			continue
		}
		out = append(out, f.counted(d))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f fakeDepartments) Update(ctx context.Context, d department.Department) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.departments[d.ID]; !ok {
		return department.ErrDepartmentNotFound
	}
	f.departments[d.ID] = d
	return nil
}

// position.PositionRepository
type fakePositions struct{ *fakeStore }

func (f fakePositions) Create(ctx context.Context, p position.Position) (position.Position, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = uuid.NewString()
	f.positions[p.ID] = p
	return f.joined(p), nil
}

func (f fakePositions) joined(p position.Position) position.Position {
	p.DepartmentName = ""
	if p.DepartmentID != nil {
		p.DepartmentName = f.departments[*p.DepartmentID].Name
	}
	return p
}

func (f fakePositions) GetByID(ctx context.Context, tenantID, id string) (position.Position, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.positions[id]
	if !ok || p.TenantID != tenantID {
		return position.Position{}, position.ErrPositionNotFound
	}
	return f.joined(p), nil
}

func (f fakePositions) List(ctx context.Context, tenantID string, query position.PositionQuery) ([]position.Position, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []position.Position
	for _, p := range f.positions {
		if p.TenantID != tenantID {
			continue
		}
		if query.Level > 0 && p.Level != query.Level {
			continue
		}
		if query.DepartmentID != "" && (p.DepartmentID == nil || *p.DepartmentID != query.DepartmentID) {
			continue
		}
		out = append(out, f.joined(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (f fakePositions) Update(ctx context.Context, p position.Position) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.positions[p.ID]; !ok {
		return position.ErrPositionNotFound
	}
	f.positions[p.ID] = p
	return nil
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
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.employees {
		if e.TenantID == tenantID && e.UserID != nil && *e.UserID == userID {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}
