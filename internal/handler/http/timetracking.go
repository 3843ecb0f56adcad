package http

import (
	"log/slog"
	"net/http"

	"github.com/accabog/rhr-sub000/internal/domain/timetracking"
	"github.com/accabog/rhr-sub000/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type TimeEntryHandler interface {
	Current(w http.ResponseWriter, r *http.Request)
	ClockIn(w http.ResponseWriter, r *http.Request)
	ClockOut(w http.ResponseWriter, r *http.Request)
	MyEntries(w http.ResponseWriter, r *http.Request)
	Summary(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
}

type TimeEntryHandlerImpl struct {
	timeTrackingService timetracking.TimeTrackingService
}

func entryFilter(r *http.Request) timetracking.EntryFilter {
	q := r.URL.Query()
	return timetracking.EntryFilter{
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
	}
}

// Current implements TimeEntryHandler. The body is null when not clocked in.
func (t *TimeEntryHandlerImpl) Current(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	entry, err := t.timeTrackingService.Current(r.Context(), s)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.OK(w, entry)
}

// ClockIn implements TimeEntryHandler.
func (t *TimeEntryHandlerImpl) ClockIn(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	var req timetracking.ClockInRequest
	if err := decodeJSON(r, &req); err != nil {
		slog.Error("ClockIn decode error", "error", err)
		response.BadRequest(w, "Invalid request format")
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	entry, err := t.timeTrackingService.ClockIn(r.Context(), s, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, entry)
}

// ClockOut implements TimeEntryHandler.
func (t *TimeEntryHandlerImpl) ClockOut(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	var req timetracking.ClockOutRequest
	if err := decodeJSON(r, &req); err != nil {
		slog.Error("ClockOut decode error", "error", err)
		response.BadRequest(w, "Invalid request format")
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	entry, err := t.timeTrackingService.ClockOut(r.Context(), s, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.OK(w, entry)
}

// MyEntries implements TimeEntryHandler.
func (t *TimeEntryHandlerImpl) MyEntries(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	entries, err := t.timeTrackingService.MyEntries(r.Context(), s, entryFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.OK(w, entries)
}

// Summary implements TimeEntryHandler.
func (t *TimeEntryHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	summary, err := t.timeTrackingService.Summary(r.Context(), s, entryFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.OK(w, summary)
}

// Approve implements TimeEntryHandler.
func (t *TimeEntryHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	entry, err := t.timeTrackingService.ApproveEntry(r.Context(), s, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.OK(w, entry)
}

func NewTimeEntryHandler(timeTrackingService timetracking.TimeTrackingService) TimeEntryHandler {
	return &TimeEntryHandlerImpl{
		timeTrackingService: timeTrackingService,
	}
}
