package http

import (
	"context"
	"net/http"
	"testing"

	"github.com/accabog/rhr-sub000/internal/domain/contract"
	"github.com/accabog/rhr-sub000/internal/domain/employee"
	"github.com/accabog/rhr-sub000/internal/domain/master/department"
	"github.com/accabog/rhr-sub000/internal/domain/tenant"
	"github.com/accabog/rhr-sub000/internal/domain/user"
	"github.com/accabog/rhr-sub000/internal/pkg/pagination"
	"github.com/accabog/rhr-sub000/internal/pkg/workflow"
	"github.com/accabog/rhr-sub000/internal/service/master"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubMaster struct {
	master.MasterService
	createDepartment func(req department.CreateDepartmentRequest) (department.DepartmentResponse, error)
	listDepartments  func(filter department.DepartmentFilter) ([]department.DepartmentResponse, error)
}

func (m stubMaster) CreateDepartment(_ context.Context, _ tenant.Session, req department.CreateDepartmentRequest) (department.DepartmentResponse, error) {
	if err := req.Validate(); err != nil {
		return department.DepartmentResponse{}, err
	}
	return m.createDepartment(req)
}

func (m stubMaster) ListDepartments(_ context.Context, _ tenant.Session, filter department.DepartmentFilter) ([]department.DepartmentResponse, error) {
	return m.listDepartments(filter)
}

type stubEmployees struct {
	employee.EmployeeService
	get      func(id string) (employee.EmployeeResponse, error)
	me       func(s tenant.Session) (employee.EmployeeResponse, error)
	updateMe func(req employee.UpdateProfileRequest) (employee.EmployeeResponse, error)
	update   func(id string, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error)
}

func (e stubEmployees) Get(_ context.Context, _ tenant.Session, id string) (employee.EmployeeResponse, error) {
	return e.get(id)
}

func (e stubEmployees) Me(_ context.Context, s tenant.Session) (employee.EmployeeResponse, error) {
	return e.me(s)
}

func (e stubEmployees) UpdateMe(_ context.Context, _ tenant.Session, req employee.UpdateProfileRequest) (employee.EmployeeResponse, error) {
	return e.updateMe(req)
}

func (e stubEmployees) Update(_ context.Context, _ tenant.Session, id string, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	return e.update(id, req)
}

type stubContracts struct {
	contract.ContractService
	get         func(id string) (contract.ContractResponse, error)
	activate    func(id string) (contract.ContractResponse, error)
	myContracts func(s tenant.Session) (contract.ListContractResponse, error)
	stats       contract.StatsResponse
}

func (c stubContracts) Get(_ context.Context, _ tenant.Session, id string) (contract.ContractResponse, error) {
	return c.get(id)
}

func (c stubContracts) Activate(_ context.Context, _ tenant.Session, id string) (contract.ContractResponse, error) {
	return c.activate(id)
}

func (c stubContracts) MyContracts(_ context.Context, s tenant.Session, _ pagination.Params) (contract.ListContractResponse, error) {
	return c.myContracts(s)
}

func (c stubContracts) Stats(context.Context, tenant.Session) (contract.StatsResponse, error) {
	return c.stats, nil
}

func TestDepartmentRoutes(t *testing.T) {
	var filter department.DepartmentFilter
	ts := newTestServer(t, Handlers{
		Master: NewMasterHandler(stubMaster{
			createDepartment: func(req department.CreateDepartmentRequest) (department.DepartmentResponse, error) {
				if req.Code == "ENG" {
					return department.DepartmentResponse{}, department.ErrDepartmentCodeExists
				}
				return department.DepartmentResponse{ID: "d1", Name: req.Name, Country: req.Country}, nil
			},
			listDepartments: func(f department.DepartmentFilter) ([]department.DepartmentResponse, error) {
				filter = f
				return []department.DepartmentResponse{{ID: "d1", Name: "Engineering"}}, nil
			},
		}),
	})
	admin := ts.token(t, user.RoleAdmin)

	t.Run("list passes filters", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/v1/departments/?is_active=true&search=eng", ts.token(t, user.RoleEmployee), nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Len(t, decodeBody[[]department.DepartmentResponse](t, rec), 1)
		assert.Equal(t, department.DepartmentFilter{IsActive: "true", Search: "eng"}, filter)
	})

	t.Run("employee cannot create", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/v1/departments/", ts.token(t, user.RoleEmployee), map[string]string{"name": "Ops"})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("create with country", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/v1/departments/", admin, map[string]string{"name": "Sales", "country": "DE"})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		assert.Equal(t, "DE", decodeBody[department.DepartmentResponse](t, rec).Country)
	})

	t.Run("invalid country", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/v1/departments/", admin, map[string]string{"name": "Sales", "country": "DEU"})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decodeBody[map[string][]string](t, rec), "country")
	})

	t.Run("duplicate code", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/v1/departments/", admin, map[string]string{"name": "Engineering", "code": "ENG"})
		require.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "A department with this code already exists", decodeBody[map[string]string](t, rec)["detail"])
	})
}

func TestEmployeeRoutes(t *testing.T) {
	var gotID string
	ts := newTestServer(t, Handlers{
		Employee: NewEmployeeHandler(stubEmployees{
			get: func(id string) (employee.EmployeeResponse, error) {
				gotID = id
				return employee.EmployeeResponse{ID: id}, nil
			},
			me: func(s tenant.Session) (employee.EmployeeResponse, error) {
				return employee.EmployeeResponse{ID: s.EmployeeID, Timezone: "UTC"}, nil
			},
			updateMe: func(req employee.UpdateProfileRequest) (employee.EmployeeResponse, error) {
				return employee.EmployeeResponse{ID: testEmployeeID, Phone: *req.Phone}, nil
			},
			update: func(id string, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
				if req.Manager != nil && *req.Manager == id {
					return employee.EmployeeResponse{}, employee.ErrManagerCycle
				}
				return employee.EmployeeResponse{ID: id}, nil
			},
		}),
	})
	staff := ts.token(t, user.RoleEmployee)
	manager := ts.token(t, user.RoleManager)

	t.Run("me is not an id", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/v1/employees/me/", staff, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, testEmployeeID, decodeBody[employee.EmployeeResponse](t, rec).ID)
		assert.Empty(t, gotID)
	})

	t.Run("get by id", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/v1/employees/e1/", staff, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "e1", gotID)
	})

	t.Run("update own profile", func(t *testing.T) {
		rec := ts.do(t, http.MethodPatch, "/api/v1/employees/me/", staff, map[string]string{"phone": "+49 30 1234"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "+49 30 1234", decodeBody[employee.EmployeeResponse](t, rec).Phone)
	})

	t.Run("employee cannot update others", func(t *testing.T) {
		rec := ts.do(t, http.MethodPatch, "/api/v1/employees/e1/", staff, map[string]string{"status": "terminated"})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("manager cycle", func(t *testing.T) {
		rec := ts.do(t, http.MethodPut, "/api/v1/employees/e1/", manager, map[string]string{"manager": "e1"})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "An employee cannot report to themselves", decodeBody[map[string]string](t, rec)["detail"])
	})
}

func TestContractRoutes(t *testing.T) {
	ts := newTestServer(t, Handlers{
		Contract: NewContractHandler(stubContracts{
			get: func(id string) (contract.ContractResponse, error) {
				if id != "c1" {
					return contract.ContractResponse{}, contract.ErrContractNotFound
				}
				return contract.ContractResponse{ID: id, Status: "active"}, nil
			},
			activate: func(id string) (contract.ContractResponse, error) {
				return contract.ContractResponse{}, &workflow.TransitionError{
					Kind: workflow.KindContract, Action: workflow.ActionActivate, From: workflow.StatusActive,
				}
			},
			myContracts: func(s tenant.Session) (contract.ListContractResponse, error) {
				return pagination.NewPage([]contract.ContractResponse{{ID: "c1", Employee: s.EmployeeID}}, 1, pagination.Params{}), nil
			},
			stats: contract.StatsResponse{Total: 3, Active: 2, Draft: 1, ExpiringSoon: 1},
		}),
	})
	staff := ts.token(t, user.RoleEmployee)
	manager := ts.token(t, user.RoleManager)

	t.Run("my contracts", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/v1/contracts/my_contracts/", staff, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		page := decodeBody[contract.ListContractResponse](t, rec)
		require.Len(t, page.Results, 1)
		assert.Equal(t, testEmployeeID, page.Results[0].Employee)
	})

	t.Run("employee cannot list all", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/v1/contracts/", staff, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("employee reads by id", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/v1/contracts/c1/", staff, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "active", decodeBody[contract.ContractResponse](t, rec).Status)
	})

	t.Run("not found", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/v1/contracts/c2/", staff, nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Contract not found", decodeBody[map[string]string](t, rec)["detail"])
	})

	t.Run("stats", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/api/v1/contracts/stats/", manager, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, contract.StatsResponse{Total: 3, Active: 2, Draft: 1, ExpiringSoon: 1}, decodeBody[contract.StatsResponse](t, rec))
	})

	t.Run("activate active contract", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/v1/contracts/c1/activate/", manager, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Only draft contracts can be activated", decodeBody[map[string]string](t, rec)["detail"])
	})

	t.Run("employee cannot terminate", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/api/v1/contracts/c1/terminate/", staff, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
