package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/accabog/rhr-sub000/internal/domain/leave"
	"github.com/accabog/rhr-sub000/internal/domain/tenant"
	"github.com/accabog/rhr-sub000/internal/handler/http/response"
	"github.com/accabog/rhr-sub000/internal/pkg/pagination"
	"github.com/accabog/rhr-sub000/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type LeaveHandler interface {
	ListTypes(w http.ResponseWriter, r *http.Request)
	CreateType(w http.ResponseWriter, r *http.Request)

	ListBalances(w http.ResponseWriter, r *http.Request)
	BalanceSummary(w http.ResponseWriter, r *http.Request)

	ListRequests(w http.ResponseWriter, r *http.Request)
	MyRequests(w http.ResponseWriter, r *http.Request)
	PendingApproval(w http.ResponseWriter, r *http.Request)
	Calendar(w http.ResponseWriter, r *http.Request)
	GetRequest(w http.ResponseWriter, r *http.Request)
	CreateRequest(w http.ResponseWriter, r *http.Request)
	ApproveRequest(w http.ResponseWriter, r *http.Request)
	RejectRequest(w http.ResponseWriter, r *http.Request)
	CancelRequest(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	leaveService leave.LeaveService
}

// ListTypes implements LeaveHandler.
func (l *LeaveHandlerImpl) ListTypes(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	types, err := l.leaveService.ListTypes(r.Context(), s)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.OK(w, types)
}

// CreateType implements LeaveHandler.
func (l *LeaveHandlerImpl) CreateType(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	var req leave.CreateLeaveTypeRequest
	if err := decodeJSON(r, &req); err != nil {
		slog.Error("CreateType decode error", "error", err)
		response.BadRequest(w, "Invalid request format")
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	leaveType, err := l.leaveService.CreateType(r.Context(), s, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, leaveType)
}

// ListBalances implements LeaveHandler.
func (l *LeaveHandlerImpl) ListBalances(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	year, err := queryInt(r, "year")
	if err != nil {
		response.HandleError(w, err)
		return
	}

	balances, err := l.leaveService.ListBalances(r.Context(), s, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.OK(w, balances)
}

// BalanceSummary implements LeaveHandler.
func (l *LeaveHandlerImpl) BalanceSummary(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	year, err := queryInt(r, "year")
	if err != nil {
		response.HandleError(w, err)
		return
	}

	summary, err := l.leaveService.BalanceSummary(r.Context(), s, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.OK(w, summary)
}

func requestFilter(r *http.Request) leave.LeaveRequestFilter {
	q := r.URL.Query()
	return leave.LeaveRequestFilter{
		Status:      q.Get("status"),
		EmployeeID:  q.Get("employee"),
		LeaveTypeID: q.Get("leave_type"),
		StartDate:   q.Get("start_date"),
		EndDate:     q.Get("end_date"),
		Page:        pagination.FromQuery(q),
	}
}

// ListRequests implements LeaveHandler.
func (l *LeaveHandlerImpl) ListRequests(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	page, err := l.leaveService.ListRequests(r.Context(), s, requestFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.OK(w, page)
}

// MyRequests implements LeaveHandler.
func (l *LeaveHandlerImpl) MyRequests(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	page, err := l.leaveService.MyRequests(r.Context(), s, requestFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.OK(w, page)
}

// PendingApproval implements LeaveHandler.
func (l *LeaveHandlerImpl) PendingApproval(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	page, err := l.leaveService.PendingApproval(r.Context(), s, requestFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.OK(w, page)
}

// Calendar implements LeaveHandler.
func (l *LeaveHandlerImpl) Calendar(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	var errs validator.ValidationErrors
	start, startOK := validator.IsValidDate(r.URL.Query().Get("start_date"))
	if !startOK {
		errs.Add("start_date", "start_date must be a date in YYYY-MM-DD format")
	}
	end, endOK := validator.IsValidDate(r.URL.Query().Get("end_date"))
	if !endOK {
		errs.Add("end_date", "end_date must be a date in YYYY-MM-DD format")
	}
	if startOK && endOK && end.Before(start) {
		errs.Add("end_date", "End date must be on or after start date")
	}
	if err := errs.Err(); err != nil {
		response.HandleError(w, err)
		return
	}

	requests, err := l.leaveService.Calendar(r.Context(), s, start, end)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.OK(w, requests)
}

// GetRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) GetRequest(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	request, err := l.leaveService.GetRequest(r.Context(), s, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.OK(w, request)
}

// CreateRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) CreateRequest(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	var req leave.CreateLeaveRequestRequest
	if err := decodeJSON(r, &req); err != nil {
		slog.Error("CreateRequest decode error", "error", err)
		response.BadRequest(w, "Invalid request format")
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	request, err := l.leaveService.CreateRequest(r.Context(), s, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, request)
}

// ApproveRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	l.review(w, r, l.leaveService.ApproveRequest)
}

// RejectRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) RejectRequest(w http.ResponseWriter, r *http.Request) {
	l.review(w, r, l.leaveService.RejectRequest)
}

type reviewFunc func(ctx context.Context, s tenant.Session, id string, req leave.ReviewLeaveRequestRequest) (leave.LeaveRequestResponse, error)

func (l *LeaveHandlerImpl) review(w http.ResponseWriter, r *http.Request, fn reviewFunc) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	var req leave.ReviewLeaveRequestRequest
	if err := decodeJSON(r, &req); err != nil {
		slog.Error("review decode error", "error", err)
		response.BadRequest(w, "Invalid request format")
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	request, err := fn(r.Context(), s, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.OK(w, request)
}

// CancelRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) CancelRequest(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	request, err := l.leaveService.CancelRequest(r.Context(), s, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.OK(w, request)
}

func NewLeaveHandler(leaveService leave.LeaveService) LeaveHandler {
	return &LeaveHandlerImpl{
		leaveService: leaveService,
	}
}
