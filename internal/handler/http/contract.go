package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/accabog/rhr-sub000/internal/domain/contract"
	"github.com/accabog/rhr-sub000/internal/domain/tenant"
	"github.com/accabog/rhr-sub000/internal/handler/http/response"
	"github.com/accabog/rhr-sub000/internal/pkg/pagination"
	"github.com/go-chi/chi/v5"
)

type ContractHandler interface {
	ListTypes(w http.ResponseWriter, r *http.Request)
	CreateType(w http.ResponseWriter, r *http.Request)

	List(w http.ResponseWriter, r *http.Request)
	MyContracts(w http.ResponseWriter, r *http.Request)
	Expiring(w http.ResponseWriter, r *http.Request)
	Stats(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Activate(w http.ResponseWriter, r *http.Request)
	Terminate(w http.ResponseWriter, r *http.Request)
}

type ContractHandlerImpl struct {
	contractService contract.ContractService
}

func NewContractHandler(contractService contract.ContractService) ContractHandler {
	return &ContractHandlerImpl{
		contractService: contractService,
	}
}

// ListTypes implements ContractHandler.
func (c *ContractHandlerImpl) ListTypes(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	types, err := c.contractService.ListTypes(r.Context(), s)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.OK(w, types)
}

// CreateType implements ContractHandler.
func (c *ContractHandlerImpl) CreateType(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	var req contract.CreateContractTypeRequest
	if err := decodeJSON(r, &req); err != nil {
		slog.Error("CreateContractType decode error", "error", err)
		response.BadRequest(w, "Invalid request format")
		return
	}

	t, err := c.contractService.CreateType(r.Context(), s, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, t)
}

// List implements ContractHandler.
func (c *ContractHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	contracts, err := c.contractService.List(r.Context(), s, contract.ContractFilter{
		Status:       q.Get("status"),
		Employee:     q.Get("employee"),
		ContractType: q.Get("contract_type"),
		Search:       q.Get("search"),
		ExpiringSoon: q.Get("expiring_soon"),
		Page:         pagination.FromQuery(q),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.OK(w, contracts)
}

// MyContracts implements ContractHandler.
func (c *ContractHandlerImpl) MyContracts(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	contracts, err := c.contractService.MyContracts(r.Context(), s, pagination.FromQuery(r.URL.Query()))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.OK(w, contracts)
}

// Expiring implements ContractHandler.
func (c *ContractHandlerImpl) Expiring(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	contracts, err := c.contractService.Expiring(r.Context(), s)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.OK(w, contracts)
}

// Stats implements ContractHandler.
func (c *ContractHandlerImpl) Stats(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	stats, err := c.contractService.Stats(r.Context(), s)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.OK(w, stats)
}

// Get implements ContractHandler.
func (c *ContractHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	k, err := c.contractService.Get(r.Context(), s, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.OK(w, k)
}

// Create implements ContractHandler.
func (c *ContractHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	var req contract.CreateContractRequest
	if err := decodeJSON(r, &req); err != nil {
		slog.Error("CreateContract decode error", "error", err)
		response.BadRequest(w, "Invalid request format")
		return
	}

	k, err := c.contractService.Create(r.Context(), s, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, k)
}

// Update implements ContractHandler.
func (c *ContractHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	var req contract.UpdateContractRequest
	if err := decodeJSON(r, &req); err != nil {
		slog.Error("UpdateContract decode error", "error", err)
		response.BadRequest(w, "Invalid request format")
		return
	}

	k, err := c.contractService.Update(r.Context(), s, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.OK(w, k)
}

// Activate implements ContractHandler.
func (c *ContractHandlerImpl) Activate(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, c.contractService.Activate)
}

// Terminate implements ContractHandler.
func (c *ContractHandlerImpl) Terminate(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, c.contractService.Terminate)
}

func (c *ContractHandlerImpl) transition(w http.ResponseWriter, r *http.Request, fn func(context.Context, tenant.Session, string) (contract.ContractResponse, error)) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	k, err := fn(r.Context(), s, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.OK(w, k)
}
