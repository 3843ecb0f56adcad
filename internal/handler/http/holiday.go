package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/accabog/rhr-sub000/internal/domain/leave"
	"github.com/accabog/rhr-sub000/internal/handler/http/response"
	"github.com/accabog/rhr-sub000/internal/pkg/validator"
)

type HolidayHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Upcoming(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Sync(w http.ResponseWriter, r *http.Request)
}

type HolidayHandlerImpl struct {
	holidayService leave.HolidayService
}

// List implements HolidayHandler.
func (h *HolidayHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	year, err := queryInt(r, "year")
	if err != nil {
		response.HandleError(w, err)
		return
	}
	country := strings.ToUpper(r.URL.Query().Get("country"))
	if country != "" && !validator.IsValidCountryCode(country) {
		response.HandleError(w, validator.ValidationErrors{{
			Field:   "country",
			Message: "country must be an ISO 3166-1 alpha-2 code",
		}})
		return
	}
	all, _ := strconv.ParseBool(r.URL.Query().Get("all"))

	holidays, err := h.holidayService.ListHolidays(r.Context(), s, year, country, all)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.OK(w, holidays)
}

// Upcoming implements HolidayHandler.
func (h *HolidayHandlerImpl) Upcoming(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	holidays, err := h.holidayService.UpcomingHolidays(r.Context(), s)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.OK(w, holidays)
}

// Create implements HolidayHandler.
func (h *HolidayHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	var req leave.CreateHolidayRequest
	if err := decodeJSON(r, &req); err != nil {
		slog.Error("CreateHoliday decode error", "error", err)
		response.BadRequest(w, "Invalid request format")
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	holiday, err := h.holidayService.CreateHoliday(r.Context(), s, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, holiday)
}

// Sync implements HolidayHandler.
func (h *HolidayHandlerImpl) Sync(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}

	var req leave.SyncHolidaysRequest
	if err := decodeJSON(r, &req); err != nil {
		slog.Error("SyncHolidays decode error", "error", err)
		response.BadRequest(w, "Invalid request format")
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.holidayService.SyncHolidays(r.Context(), s, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.OK(w, result)
}

func NewHolidayHandler(holidayService leave.HolidayService) HolidayHandler {
	return &HolidayHandlerImpl{
		holidayService: holidayService,
	}
}
