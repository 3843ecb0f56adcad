package http

import (
	"log/slog"
	"net/http"

	"github.com/accabog/rhr-sub000/internal/domain/timesheet"
	"github.com/accabog/rhr-sub000/internal/handler/http/response"
	"github.com/accabog/rhr-sub000/internal/pkg/pagination"
	"github.com/go-chi/chi/v5"
)

type TimesheetHandler interface {
	Generate(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	MyTimesheets(w http.ResponseWriter, r *http.Request)
	PendingApproval(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)

	Submit(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	Reopen(w http.ResponseWriter, r *http.Request)

	ListComments(w http.ResponseWriter, r *http.Request)
	AddComment(w http.ResponseWriter, r *http.Request)
}

type TimesheetHandlerImpl struct {
	timesheetService timesheet.TimesheetService
}

func timesheetFilter(r *http.Request) timesheet.TimesheetFilter {
	q := r.URL.Query()
	return timesheet.TimesheetFilter{
		Status: q.Get("status"),
		Page:   pagination.FromQuery(q),
	}
}

// Generate implements TimesheetHandler.
func (t *TimesheetHandlerImpl) Generate(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	var req timesheet.GenerateTimesheetRequest
	if err := decodeJSON(r, &req); err != nil {
		slog.Error("Generate decode error", "error", err)
		response.BadRequest(w, "Invalid request format")
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	ts, err := t.timesheetService.Generate(r.Context(), s, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, ts)
}

// List implements TimesheetHandler.
func (t *TimesheetHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	page, err := t.timesheetService.List(r.Context(), s, timesheetFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.OK(w, page)
}

// MyTimesheets implements TimesheetHandler.
func (t *TimesheetHandlerImpl) MyTimesheets(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	page, err := t.timesheetService.MyTimesheets(r.Context(), s, timesheetFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.OK(w, page)
}

// PendingApproval implements TimesheetHandler.
func (t *TimesheetHandlerImpl) PendingApproval(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	page, err := t.timesheetService.PendingApproval(r.Context(), s, timesheetFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.OK(w, page)
}

// Get implements TimesheetHandler.
func (t *TimesheetHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	ts, err := t.timesheetService.Get(r.Context(), s, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.OK(w, ts)
}

// Delete implements TimesheetHandler.
func (t *TimesheetHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	if err := t.timesheetService.Delete(r.Context(), s, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.NoContent(w)
}

// Submit implements TimesheetHandler.
func (t *TimesheetHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	var req timesheet.SubmitTimesheetRequest
	if err := decodeJSON(r, &req); err != nil {
		slog.Error("Submit decode error", "error", err)
		response.BadRequest(w, "Invalid request format")
		return
	}

	ts, err := t.timesheetService.Submit(r.Context(), s, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.OK(w, ts)
}

// Approve implements TimesheetHandler.
func (t *TimesheetHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	ts, err := t.timesheetService.Approve(r.Context(), s, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.OK(w, ts)
}

// Reject implements TimesheetHandler. The reason is validated by the service.
func (t *TimesheetHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	var req timesheet.RejectTimesheetRequest
	if err := decodeJSON(r, &req); err != nil {
		slog.Error("Reject decode error", "error", err)
		response.BadRequest(w, "Invalid request format")
		return
	}

	ts, err := t.timesheetService.Reject(r.Context(), s, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.OK(w, ts)
}

// Reopen implements TimesheetHandler.
func (t *TimesheetHandlerImpl) Reopen(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	ts, err := t.timesheetService.Reopen(r.Context(), s, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.OK(w, ts)
}

// ListComments implements TimesheetHandler.
func (t *TimesheetHandlerImpl) ListComments(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	comments, err := t.timesheetService.ListComments(r.Context(), s, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.OK(w, comments)
}

// AddComment implements TimesheetHandler.
func (t *TimesheetHandlerImpl) AddComment(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	var req timesheet.CreateCommentRequest
	if err := decodeJSON(r, &req); err != nil {
		slog.Error("AddComment decode error", "error", err)
		response.BadRequest(w, "Invalid request format")
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	comment, err := t.timesheetService.AddComment(r.Context(), s, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, comment)
}

func NewTimesheetHandler(timesheetService timesheet.TimesheetService) TimesheetHandler {
	return &TimesheetHandlerImpl{
		timesheetService: timesheetService,
	}
}
