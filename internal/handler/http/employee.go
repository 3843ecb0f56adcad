package http

import (
	"log/slog"
	"net/http"

	"github.com/accabog/rhr-sub000/internal/domain/employee"
	"github.com/accabog/rhr-sub000/internal/handler/http/response"
	"github.com/accabog/rhr-sub000/internal/pkg/pagination"
	"github.com/go-chi/chi/v5"
)

type EmployeeHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Me(w http.ResponseWriter, r *http.Request)
	UpdateMe(w http.ResponseWriter, r *http.Request)
}

type EmployeeHandlerImpl struct {
	employeeService employee.EmployeeService
}

func NewEmployeeHandler(employeeService employee.EmployeeService) EmployeeHandler {
	return &EmployeeHandlerImpl{
		employeeService: employeeService,
	}
}

// List implements EmployeeHandler.
func (e *EmployeeHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	employees, err := e.employeeService.List(r.Context(), s, employee.EmployeeFilter{
		Status:     q.Get("status"),
		Department: q.Get("department"),
		Position:   q.Get("position"),
		Manager:    q.Get("manager"),
		Search:     q.Get("search"),
		Page:       pagination.FromQuery(q),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.OK(w, employees)
}

// Get implements EmployeeHandler.
func (e *EmployeeHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	emp, err := e.employeeService.Get(r.Context(), s, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.OK(w, emp)
}

// Create implements EmployeeHandler.
func (e *EmployeeHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	var req employee.CreateEmployeeRequest
	if err := decodeJSON(r, &req); err != nil {
		slog.Error("CreateEmployee decode error", "error", err)
		response.BadRequest(w, "Invalid request format")
		return
	}

	emp, err := e.employeeService.Create(r.Context(), s, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, emp)
}

// Update implements EmployeeHandler.
func (e *EmployeeHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	var req employee.UpdateEmployeeRequest
	if err := decodeJSON(r, &req); err != nil {
		slog.Error("UpdateEmployee decode error", "error", err)
		response.BadRequest(w, "Invalid request format")
		return
	}

	emp, err := e.employeeService.Update(r.Context(), s, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.OK(w, emp)
}

// Me implements EmployeeHandler.
func (e *EmployeeHandlerImpl) Me(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	emp, err := e.employeeService.Me(r.Context(), s)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.OK(w, emp)
}

// UpdateMe implements EmployeeHandler.
func (e *EmployeeHandlerImpl) UpdateMe(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	var req employee.UpdateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		slog.Error("UpdateMe decode error", "error", err)
		response.BadRequest(w, "Invalid request format")
		return
	}

	emp, err := e.employeeService.UpdateMe(r.Context(), s, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.OK(w, emp)
}
