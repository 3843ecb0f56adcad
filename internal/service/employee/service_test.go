package employee

import (
	"context"
	"testing"
	"time"

	"github.com/accabog/rhr-sub000/internal/domain/employee"
	"github.com/accabog/rhr-sub000/internal/domain/master/department"
	"github.com/accabog/rhr-sub000/internal/domain/master/position"
	"github.com/accabog/rhr-sub000/internal/domain/tenant"
	"github.com/accabog/rhr-sub000/internal/domain/user"
	"github.com/accabog/rhr-sub000/internal/pkg/pagination"
	"github.com/accabog/rhr-sub000/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testTenant = "0190a000-0000-7000-8000-000000000001"
	salesDept  = "0190a000-0000-7000-8000-0000000000d1"
	aePosition = "0190a000-0000-7000-8000-0000000000a1"
	bossEmp    = "0190a000-0000-7000-8000-0000000000e1"
	missingID  = "0190a000-0000-7000-8000-0000000000ff"
)

var fixedNow = time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC)

type employeeFixture struct {
	store *fakeStore
	svc   *EmployeeServiceImpl
	admin tenant.Session
	boss  tenant.Session
}

func newEmployeeFixture(t *testing.T) *employeeFixture {
	t.Helper()
	store := newFakeStore()
	store.departments[salesDept] = department.Department{ID: salesDept, TenantID: testTenant, Name: "Sales", Country: "FR", IsActive: true}
	store.positions[aePosition] = position.Position{ID: aePosition, TenantID: testTenant, Title: "Account Executive", Level: 2, IsActive: true}
	store.employees[bossEmp] = employee.Employee{ID: bossEmp, TenantID: testTenant, EmployeeCode: "E001", FirstName: "Bea", LastName: "Boss", Status: employee.StatusActive, Timezone: "UTC"}

	svc := NewEmployeeService(passthroughTx{}, fakeDirectory{store}, fakeDepartments{fakeStore: store}, fakePositions{fakeStore: store}).
		WithClock(func() time.Time { return fixedNow })
	return &employeeFixture{
		store: store,
		svc:   svc,
		admin: tenant.Session{UserID: "u-admin", TenantID: testTenant, Role: user.RoleAdmin},
		boss:  tenant.Session{UserID: "u-boss", TenantID: testTenant, EmployeeID: bossEmp, Role: user.RoleEmployee},
	}
}

func ptr[T any](v T) *T { return &v }

func (f *employeeFixture) hire(t *testing.T, code, first, last string) employee.EmployeeResponse {
	t.Helper()
	resp, err := f.svc.Create(context.Background(), f.admin, employee.CreateEmployeeRequest{
		EmployeeID: code,
		FirstName:  first,
		LastName:   last,
		Email:      first + "@example.com",
		Department: ptr(salesDept),
		Position:   ptr(aePosition),
		Manager:    ptr(bossEmp),
		HireDate:   "2024-03-01",
	})
	require.NoError(t, err)
	return resp
}

func TestCreate_ResolvesDepartmentCountry(t *testing.T) {
	f := newEmployeeFixture(t)

	resp := f.hire(t, "E002", "Grace", "Hopper")

	assert.Equal(t, "Grace Hopper", resp.FullName)
	assert.Equal(t, "active", resp.Status)
	assert.Equal(t, "Sales", resp.DepartmentName)
	assert.Equal(t, "FR", resp.DepartmentCountry)
	assert.Equal(t, "Account Executive", resp.PositionTitle)
	require.NotNil(t, resp.ManagerName)
	assert.Equal(t, "Bea Boss", *resp.ManagerName)
	assert.Equal(t, "UTC", resp.Timezone)
	assert.Equal(t, "2024-03-01", resp.HireDate)
}

func TestCreate_Rules(t *testing.T) {
	tests := []struct {
		name      string
		session   func(f *employeeFixture) tenant.Session
		req       employee.CreateEmployeeRequest
		wantErr   error
		wantField string
	}{
		{
			name:    "employee role cannot hire",
			session: func(f *employeeFixture) tenant.Session { return f.boss },
			req:     employee.CreateEmployeeRequest{EmployeeID: "E9", FirstName: "A", LastName: "B", Email: "a@example.com", HireDate: "2024-01-01"},
			wantErr: user.ErrInsufficientPermissions,
		},
		{
			name:    "duplicate employee id",
			session: func(f *employeeFixture) tenant.Session { return f.admin },
			req:     employee.CreateEmployeeRequest{EmployeeID: "E001", FirstName: "A", LastName: "B", Email: "a@example.com", HireDate: "2024-01-01"},
			wantErr: employee.ErrEmployeeCodeExists,
		},
		{
			name:      "unknown department",
			session:   func(f *employeeFixture) tenant.Session { return f.admin },
			req:       employee.CreateEmployeeRequest{EmployeeID: "E9", FirstName: "A", LastName: "B", Email: "a@example.com", HireDate: "2024-01-01", Department: ptr(missingID)},
			wantField: "department",
		},
		{
			name:      "bad email",
			session:   func(f *employeeFixture) tenant.Session { return f.admin },
			req:       employee.CreateEmployeeRequest{EmployeeID: "E9", FirstName: "A", LastName: "B", Email: "nope", HireDate: "2024-01-01"},
			wantField: "email",
		},
		{
			name:      "bad timezone",
			session:   func(f *employeeFixture) tenant.Session { return f.admin },
			req:       employee.CreateEmployeeRequest{EmployeeID: "E9", FirstName: "A", LastName: "B", Email: "a@example.com", HireDate: "2024-01-01", Timezone: "Mars/Olympus"},
			wantField: "timezone",
		},
		{
			name:      "bad status",
			session:   func(f *employeeFixture) tenant.Session { return f.admin },
			req:       employee.CreateEmployeeRequest{EmployeeID: "E9", FirstName: "A", LastName: "B", Email: "a@example.com", HireDate: "2024-01-01", Status: "retired"},
			wantField: "status",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newEmployeeFixture(t)
			_, err := f.svc.Create(context.Background(), tt.session(f), tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Contains(t, verrs.ToMap(), tt.wantField)
		})
	}
}

func TestUpdate_TerminationAndManagerCycle(t *testing.T) {
	f := newEmployeeFixture(t)
	ctx := context.Background()
	grace := f.hire(t, "E002", "Grace", "Hopper")

	terminated, err := f.svc.Update(ctx, f.admin, grace.ID, employee.UpdateEmployeeRequest{Status: ptr("terminated")})
	require.NoError(t, err)
	assert.Equal(t, "terminated", terminated.Status)
	require.NotNil(t, terminated.TerminationDate)
	assert.Equal(t, "2025-06-01", *terminated.TerminationDate)

	_, err = f.svc.Update(ctx, f.admin, bossEmp, employee.UpdateEmployeeRequest{Manager: &grace.ID})
	assert.ErrorIs(t, err, employee.ErrManagerCycle)

	_, err = f.svc.Update(ctx, f.admin, bossEmp, employee.UpdateEmployeeRequest{Manager: ptr(bossEmp)})
	assert.ErrorIs(t, err, employee.ErrManagerCycle)

	moved, err := f.svc.Update(ctx, f.admin, grace.ID, employee.UpdateEmployeeRequest{Department: ptr(""), Manager: ptr("")})
	require.NoError(t, err)
	assert.Nil(t, moved.Department)
	assert.Nil(t, moved.ManagerName)
	assert.Empty(t, moved.DepartmentCountry)

	_, err = f.svc.Update(ctx, f.admin, missingID, employee.UpdateEmployeeRequest{FirstName: ptr("X")})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestList_FiltersAndPages(t *testing.T) {
	f := newEmployeeFixture(t)
	f.hire(t, "E002", "Grace", "Hopper")
	f.hire(t, "E003", "Alan", "Turing")

	page, err := f.svc.List(context.Background(), f.boss, employee.EmployeeFilter{
		Department: salesDept,
		Page:       pagination.Params{Page: 1, PageSize: 1},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Count)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "Hopper", page.Results[0].LastName)

	page, err = f.svc.List(context.Background(), f.boss, employee.EmployeeFilter{Search: "turing"})
	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "E003", page.Results[0].EmployeeID)

	_, err = f.svc.List(context.Background(), f.boss, employee.EmployeeFilter{Status: "active,retired"})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestMe(t *testing.T) {
	f := newEmployeeFixture(t)
	ctx := context.Background()

	me, err := f.svc.Me(ctx, f.boss)
	require.NoError(t, err)
	assert.Equal(t, "E001", me.EmployeeID)

	updated, err := f.svc.UpdateMe(ctx, f.boss, employee.UpdateProfileRequest{
		Phone:                ptr("+33 1 23 45 67 89"),
		EmergencyContactName: ptr("Bob Boss"),
		Timezone:             ptr("Europe/Paris"),
	})
	require.NoError(t, err)
	assert.Equal(t, "+33 1 23 45 67 89", updated.Phone)
	assert.Equal(t, "Bob Boss", updated.EmergencyContactName)
	assert.Equal(t, "Europe/Paris", updated.Timezone)
	assert.Equal(t, "active", updated.Status)

	_, err = f.svc.UpdateMe(ctx, f.boss, employee.UpdateProfileRequest{Timezone: ptr("Nowhere/Land")})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)

	_, err = f.svc.Me(ctx, f.admin)
	assert.ErrorIs(t, err, tenant.ErrNoEmployeeProfile)
}
