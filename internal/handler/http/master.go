package http

import (
	"log/slog"
	"net/http"

	"github.com/accabog/rhr-sub000/internal/domain/master/department"
	"github.com/accabog/rhr-sub000/internal/domain/master/position"
	"github.com/accabog/rhr-sub000/internal/handler/http/response"
	"github.com/accabog/rhr-sub000/internal/service/master"
	"github.com/go-chi/chi/v5"
)

type MasterHandler interface {
	// Department
	ListDepartments(w http.ResponseWriter, r *http.Request)
	GetDepartment(w http.ResponseWriter, r *http.Request)
	CreateDepartment(w http.ResponseWriter, r *http.Request)
	UpdateDepartment(w http.ResponseWriter, r *http.Request)

	// Position
	ListPositions(w http.ResponseWriter, r *http.Request)
	GetPosition(w http.ResponseWriter, r *http.Request)
	CreatePosition(w http.ResponseWriter, r *http.Request)
	UpdatePosition(w http.ResponseWriter, r *http.Request)
}

type masterHandlerImpl struct {
	masterService master.MasterService
}

func NewMasterHandler(masterService master.MasterService) MasterHandler {
	return &masterHandlerImpl{
		masterService: masterService,
	}
}

// ==================== DEPARTMENT HANDLERS ====================

func (h *masterHandlerImpl) ListDepartments(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	departments, err := h.masterService.ListDepartments(r.Context(), s, department.DepartmentFilter{
		IsActive: q.Get("is_active"),
		Parent:   q.Get("parent"),
		Search:   q.Get("search"),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.OK(w, departments)
}

func (h *masterHandlerImpl) GetDepartment(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	d, err := h.masterService.GetDepartment(r.Context(), s, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.OK(w, d)
}

func (h *masterHandlerImpl) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	var req department.CreateDepartmentRequest
	if err := decodeJSON(r, &req); err != nil {
		slog.Error("CreateDepartment decode error", "error", err)
		response.BadRequest(w, "Invalid request format")
		return
	}

	d, err := h.masterService.CreateDepartment(r.Context(), s, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, d)
}

func (h *masterHandlerImpl) UpdateDepartment(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	var req department.UpdateDepartmentRequest
	if err := decodeJSON(r, &req); err != nil {
		slog.Error("UpdateDepartment decode error", "error", err)
		response.BadRequest(w, "Invalid request format")
		return
	}

	d, err := h.masterService.UpdateDepartment(r.Context(), s, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.OK(w, d)
}

// ==================== POSITION HANDLERS ====================

func (h *masterHandlerImpl) ListPositions(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	positions, err := h.masterService.ListPositions(r.Context(), s, position.PositionFilter{
		IsActive:   q.Get("is_active"),
		Department: q.Get("department"),
		Level:      q.Get("level"),
		Search:     q.Get("search"),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.OK(w, positions)
}

func (h *masterHandlerImpl) GetPosition(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	p, err := h.masterService.GetPosition(r.Context(), s, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.OK(w, p)
}

func (h *masterHandlerImpl) CreatePosition(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	var req position.CreatePositionRequest
	if err := decodeJSON(r, &req); err != nil {
		slog.Error("CreatePosition decode error", "error", err)
		response.BadRequest(w, "Invalid request format")
		return
	}

	p, err := h.masterService.CreatePosition(r.Context(), s, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, p)
}

func (h *masterHandlerImpl) UpdatePosition(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	var req position.UpdatePositionRequest
	if err := decodeJSON(r, &req); err != nil {
		slog.Error("UpdatePosition decode error", "error", err)
		response.BadRequest(w, "Invalid request format")
		return
	}

	p, err := h.masterService.UpdatePosition(r.Context(), s, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.OK(w, p)
}
