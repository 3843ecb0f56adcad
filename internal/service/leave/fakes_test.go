package leave

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/accabog/rhr-sub000/internal/domain/employee"
	"github.com/accabog/rhr-sub000/internal/domain/leave"
	"github.com/accabog/rhr-sub000/internal/domain/tenant"
	"github.com/accabog/rhr-sub000/internal/pkg/nager"
	"github.com/accabog/rhr-sub000/internal/pkg/workflow"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type passthroughTx struct{}

func (passthroughTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeStore struct {
	mu        sync.Mutex
	types     map[string]leave.LeaveType
	balances  map[string]leave.LeaveBalance
	requests  map[string]leave.LeaveRequest
	holidays  []leave.Holiday
	employees map[string]employee.Employee
	tenants   []tenant.Tenant
	countries map[string][]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		types:     map[string]leave.LeaveType{},
		balances:  map[string]leave.LeaveBalance{},
		requests:  map[string]leave.LeaveRequest{},
		employees: map[string]employee.Employee{},
		countries: map[string][]string{},
	}
}

func balanceKey(employeeID, typeID string, year int) string {
	return employeeID + "/" + typeID + "/" + time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC).Format("2006")
}

// leave.LeaveTypeRepository
type fakeTypes struct{ *fakeStore }

func (f fakeTypes) Create(ctx context.Context, lt leave.LeaveType) (leave.LeaveType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.types {
		if t.TenantID == lt.TenantID && t.Code == lt.Code {
			return leave.LeaveType{}, leave.ErrLeaveTypeCodeExists
		}
	}
	lt.ID = uuid.NewString()
	f.types[lt.ID] = lt
	return lt, nil
}

func (f fakeTypes) GetByID(ctx context.Context, tenantID, id string) (leave.LeaveType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.types[id]
	if !ok || t.TenantID != tenantID {
		return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
	}
	return t, nil
}

func (f fakeTypes) ListActive(ctx context.Context, tenantID string) ([]leave.LeaveType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []leave.LeaveType
	for _, t := range f.types {
		if t.TenantID == tenantID && t.IsActive {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// leave.LeaveBalanceRepository
type fakeBalances struct{ *fakeStore }

func (f fakeBalances) ListByEmployeeYear(ctx context.Context, tenantID, employeeID string, year int) ([]leave.LeaveBalance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []leave.LeaveBalance
	for _, b := range f.balances {
		if b.TenantID == tenantID && b.EmployeeID == employeeID && b.Year == year {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LeaveTypeName < out[j].LeaveTypeName })
	return out, nil
}

func (f fakeBalances) GetByEmployeeTypeYear(ctx context.Context, tenantID, employeeID, leaveTypeID string, year int) (leave.LeaveBalance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.balances[balanceKey(employeeID, leaveTypeID, year)]
	if !ok || b.TenantID != tenantID {
		return leave.LeaveBalance{}, leave.ErrLeaveBalanceNotFound
	}
	return b, nil
}

func (f fakeBalances) AddUsedDays(ctx context.Context, tenantID, employeeID, leaveTypeID string, year int, days decimal.Decimal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := balanceKey(employeeID, leaveTypeID, year)
	b, ok := f.balances[key]
	if !ok {
		b = leave.LeaveBalance{ID: uuid.NewString(), TenantID: tenantID, EmployeeID: employeeID, LeaveTypeID: leaveTypeID, Year: year}
	}
	b.UsedDays = b.UsedDays.Add(days)
	f.balances[key] = b
	return nil
}

// leave.LeaveRequestRepository
type fakeRequests struct{ *fakeStore }

func (f fakeRequests) Create(ctx context.Context, r leave.LeaveRequest) (leave.LeaveRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r.ID = uuid.NewString()
	if e, ok := f.employees[r.EmployeeID]; ok {
		r.EmployeeName = e.FullName()
		r.EmployeeCountry = e.DepartmentCountry
	}
	if t, ok := f.types[r.LeaveTypeID]; ok {
		r.LeaveTypeName = t.Name
		r.LeaveTypeColor = t.Color
	}
	f.requests[r.ID] = r
	return r, nil
}

func (f fakeRequests) GetByID(ctx context.Context, tenantID, id string) (leave.LeaveRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.requests[id]
	if !ok || r.TenantID != tenantID {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return r, nil
}

func (f fakeRequests) List(ctx context.Context, tenantID string, q leave.RequestQuery) ([]leave.LeaveRequest, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []leave.LeaveRequest
	for _, r := range f.requests {
		if r.TenantID != tenantID {
			continue
		}
		if q.EmployeeID != "" && r.EmployeeID != q.EmployeeID {
			continue
		}
		if q.LeaveTypeID != "" && r.LeaveTypeID != q.LeaveTypeID {
			continue
		}
		if len(q.Statuses) > 0 {
			match := false
			for _, s := range q.Statuses {
				match = match || r.Status == s
			}
			if !match {
				continue
			}
		}
		if q.From != nil && r.EndDate.Before(*q.From) {
			continue
		}
		if q.To != nil && r.StartDate.After(*q.To) {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.After(out[j].StartDate) })
	total := int64(len(out))
	if !q.All {
		p := q.Page.Normalize()
		lo := min(p.Offset(), len(out))
		hi := min(lo+p.Limit(), len(out))
		out = out[lo:hi]
	}
	return out, total, nil
}

func (f fakeRequests) UpdateReview(ctx context.Context, r leave.LeaveRequest, from workflow.Status) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.requests[r.ID]
	if !ok {
		return leave.ErrLeaveRequestNotFound
	}
	if stored.Status != from {
		return workflow.ErrStatusChanged
	}
	f.requests[r.ID] = r
	return nil
}

// leave.HolidayRepository
type fakeHolidays struct{ *fakeStore }

func (f fakeHolidays) Create(ctx context.Context, h leave.Holiday) (leave.Holiday, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, x := range f.holidays {
		if x.TenantID == h.TenantID && x.Country == h.Country && x.Date.Equal(h.Date) && x.Name == h.Name {
			return leave.Holiday{}, leave.ErrHolidayExists
		}
	}
	h.ID = uuid.NewString()
	f.holidays = append(f.holidays, h)
	return h, nil
}

func (f fakeHolidays) Upsert(ctx context.Context, h leave.Holiday) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, x := range f.holidays {
		if x.TenantID == h.TenantID && x.Country == h.Country && x.Date.Equal(h.Date) && x.Name == h.Name {
			h.ID = x.ID
			f.holidays[i] = h
			return false, nil
		}
	}
	h.ID = uuid.NewString()
	f.holidays = append(f.holidays, h)
	return true, nil
}

func (f fakeHolidays) List(ctx context.Context, tenantID string, q leave.HolidayQuery) ([]leave.Holiday, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []leave.Holiday
	for _, h := range f.holidays {
		if h.TenantID != tenantID {
			continue
		}
		if q.From != nil && h.Date.Before(*q.From) {
			continue
		}
		if q.To != nil && h.Date.After(*q.To) {
			continue
		}
		if !q.AnyCountry && !h.AppliesTo(q.Country) {
			continue
		}
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
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

// tenant.TenantRepository
type fakeTenants struct{ *fakeStore }

func (f fakeTenants) GetByID(ctx context.Context, id string) (tenant.Tenant, error) {
	for _, t := range f.tenants {
		if t.ID == id {
			return t, nil
		}
	}
	return tenant.Tenant{}, tenant.ErrTenantNotFound
}

func (f fakeTenants) ListActive(ctx context.Context) ([]tenant.Tenant, error) {
	return f.tenants, nil
}

func (f fakeTenants) ListCountries(ctx context.Context, tenantID string) ([]string, error) {
	return f.countries[tenantID], nil
}

type fakeFetcher struct {
	mu    sync.Mutex
	data  map[string][]nager.PublicHoliday
	fail  map[string]error
	calls int
}

func (f *fakeFetcher) PublicHolidays(ctx context.Context, year int, country string) ([]nager.PublicHoliday, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	key := country + "/" + time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC).Format("2006")
	if err := f.fail[key]; err != nil {
		return nil, err
	}
	return f.data[key], nil
}
