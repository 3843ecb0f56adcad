package leave

import (
	"strings"
	"time"

	"github.com/accabog/rhr-sub000/internal/pkg/leavecalc"
	"github.com/accabog/rhr-sub000/internal/pkg/pagination"
	"github.com/accabog/rhr-sub000/internal/pkg/validator"
	"github.com/accabog/rhr-sub000/internal/pkg/workflow"
)

const (
	DateFormat     = "2006-01-02"
	DateTimeFormat = time.RFC3339
)

type CreateLeaveTypeRequest struct {
	Name               string `json:"name"`
	Code               string `json:"code"`
	Description        string `json:"description,omitempty"`
	IsPaid             *bool  `json:"is_paid,omitempty"`
	RequiresApproval   *bool  `json:"requires_approval,omitempty"`
	MaxConsecutiveDays *int   `json:"max_consecutive_days,omitempty"`
	Color              string `json:"color,omitempty"`
}

func (r *CreateLeaveTypeRequest) Validate() error {
	var errs validator.ValidationErrors

	// Name
	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}
	if len(r.Name) > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not exceed 100 characters",
		})
	}

	// Code
	if validator.IsEmpty(r.Code) {
		errs = append(errs, validator.ValidationError{
			Field:   "code",
			Message: "code is required",
		})
	}
	if len(r.Code) > 20 {
		errs = append(errs, validator.ValidationError{
			Field:   "code",
			Message: "code must not exceed 20 characters",
		})
	}

	// Max consecutive days
	if r.MaxConsecutiveDays != nil && *r.MaxConsecutiveDays <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "max_consecutive_days",
			Message: "max_consecutive_days must be a positive integer",
		})
	}

	// Color
	if r.Color != "" && !validator.IsValidColor(r.Color) {
		errs = append(errs, validator.ValidationError{
			Field:   "color",
			Message: "color must be a hex colour such as #10b981",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CreateLeaveRequestRequest struct {
	LeaveTypeID   string `json:"leave_type"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	IsHalfDay     bool   `json:"is_half_day"`
	HalfDayPeriod string `json:"half_day_period,omitempty"`
	Reason        string `json:"reason,omitempty"`
}

func (r *CreateLeaveRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	// Leave type
	if validator.IsEmpty(r.LeaveTypeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type",
			Message: "leave_type is required",
		})
	} else if !validator.IsValidUUID(r.LeaveTypeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type",
			Message: "leave_type must be a valid UUID",
		})
	}

	// Dates
	start, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be a date in YYYY-MM-DD format",
		})
	}
	end, endOK := validator.IsValidDate(r.EndDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be a date in YYYY-MM-DD format",
		})
	}
	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "End date must be on or after start date",
		})
	}

	// Half day
	if r.IsHalfDay {
		if startOK && endOK && !start.Equal(end) {
			errs = append(errs, validator.ValidationError{
				Field:   "is_half_day",
				Message: "Half day leave must be for a single day",
			})
		}
		if r.HalfDayPeriod == "" {
			errs = append(errs, validator.ValidationError{
				Field:   "half_day_period",
				Message: "Half day period is required for half day leave",
			})
		} else if !leavecalc.Period(r.HalfDayPeriod).Valid() {
			errs = append(errs, validator.ValidationError{
				Field:   "half_day_period",
				Message: "half_day_period must be morning or afternoon",
			})
		}
	}

	if len(r.Reason) > 2000 {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason must not exceed 2000 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Selection returns the calculator input of a validated request.
func (r *CreateLeaveRequestRequest) Selection() leavecalc.Selection {
	start, _ := leavecalc.ParseDate(r.StartDate)
	if r.IsHalfDay {
		return leavecalc.HalfDay(start, leavecalc.Period(r.HalfDayPeriod))
	}
	end, _ := leavecalc.ParseDate(r.EndDate)
	return leavecalc.Range(start, end)
}

// ReviewLeaveRequestRequest is the body of approve and reject.
type ReviewLeaveRequestRequest struct {
	Notes string `json:"notes,omitempty"`
}

func (r *ReviewLeaveRequestRequest) Validate() error {
	if len(r.Notes) > 2000 {
		return validator.ValidationErrors{{
			Field:   "notes",
			Message: "notes must not exceed 2000 characters",
		}}
	}
	return nil
}

type LeaveRequestFilter struct {
	Status      string
	EmployeeID  string
	LeaveTypeID string
	StartDate   string
	EndDate     string
	Page        pagination.Params
}

func (f *LeaveRequestFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Status != "" {
		for _, s := range strings.Split(f.Status, ",") {
			if !workflow.ValidStatus(workflow.KindLeaveRequest, workflow.Status(s)) {
				errs = append(errs, validator.ValidationError{
					Field:   "status",
					Message: "unknown status " + s,
				})
			}
		}
	}
	if f.StartDate != "" {
		if _, ok := validator.IsValidDate(f.StartDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be a date in YYYY-MM-DD format",
			})
		}
	}
	if f.EndDate != "" {
		if _, ok := validator.IsValidDate(f.EndDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be a date in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CreateHolidayRequest struct {
	Name        string `json:"name"`
	Date        string `json:"date"`
	Country     string `json:"country,omitempty"`
	IsRecurring bool   `json:"is_recurring"`
}

func (r *CreateHolidayRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be a date in YYYY-MM-DD format",
		})
	}
	if r.Country != "" && !validator.IsValidCountryCode(r.Country) {
		errs = append(errs, validator.ValidationError{
			Field:   "country",
			Message: "country must be an ISO 3166-1 alpha-2 code",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type SyncHolidaysRequest struct {
	Years   []int  `json:"years,omitempty"`
	Country string `json:"country,omitempty"`
}

func (r *SyncHolidaysRequest) Validate() error {
	var errs validator.ValidationErrors

	for _, y := range r.Years {
		if y < 1970 || y > 2100 {
			errs = append(errs, validator.ValidationError{
				Field:   "years",
				Message: "years must be between 1970 and 2100",
			})
			break
		}
	}
	if r.Country != "" && !validator.IsValidCountryCode(r.Country) {
		errs = append(errs, validator.ValidationError{
			Field:   "country",
			Message: "country must be an ISO 3166-1 alpha-2 code",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Responses

type LeaveTypeResponse struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Code               string `json:"code"`
	Description        string `json:"description"`
	IsPaid             bool   `json:"is_paid"`
	RequiresApproval   bool   `json:"requires_approval"`
	MaxConsecutiveDays *int   `json:"max_consecutive_days"`
	Color              string `json:"color"`
	IsActive           bool   `json:"is_active"`
}

func NewLeaveTypeResponse(t LeaveType) LeaveTypeResponse {
	return LeaveTypeResponse{
		ID:                 t.ID,
		Name:               t.Name,
		Code:               t.Code,
		Description:        t.Description,
		IsPaid:             t.IsPaid,
		RequiresApproval:   t.RequiresApproval,
		MaxConsecutiveDays: t.MaxConsecutiveDays,
		Color:              t.Color,
		IsActive:           t.IsActive,
	}
}

// LeaveBalanceResponse carries amounts as fixed two-decimal strings.
type LeaveBalanceResponse struct {
	ID             string `json:"id"`
	LeaveTypeID    string `json:"leave_type"`
	LeaveTypeName  string `json:"leave_type_name"`
	LeaveTypeColor string `json:"leave_type_color"`
	Year           int    `json:"year"`
	EntitledDays   string `json:"entitled_days"`
	UsedDays       string `json:"used_days"`
	RemainingDays  string `json:"remaining_days"`
}

func NewLeaveBalanceResponse(b LeaveBalance) LeaveBalanceResponse {
	return LeaveBalanceResponse{
		ID:             b.ID,
		LeaveTypeID:    b.LeaveTypeID,
		LeaveTypeName:  b.LeaveTypeName,
		LeaveTypeColor: b.LeaveTypeColor,
		Year:           b.Year,
		EntitledDays:   b.EntitledDays.StringFixed(2),
		UsedDays:       b.UsedDays.StringFixed(2),
		RemainingDays:  b.Remaining().StringFixed(2),
	}
}

type BalanceSummaryResponse struct {
	LeaveTypeID    string `json:"leave_type_id"`
	LeaveTypeName  string `json:"leave_type_name"`
	LeaveTypeColor string `json:"leave_type_color"`
	Year           int    `json:"year"`
	EntitledDays   string `json:"entitled_days"`
	UsedDays       string `json:"used_days"`
	RemainingDays  string `json:"remaining_days"`
	PendingDays    string `json:"pending_days"`
}

type HolidayRef struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

type LeaveRequestResponse struct {
	ID                string       `json:"id"`
	EmployeeID        string       `json:"employee"`
	EmployeeName      string       `json:"employee_name"`
	LeaveTypeID       string       `json:"leave_type"`
	LeaveTypeName     string       `json:"leave_type_name"`
	LeaveTypeColor    string       `json:"leave_type_color"`
	StartDate         string       `json:"start_date"`
	EndDate           string       `json:"end_date"`
	IsHalfDay         bool         `json:"is_half_day"`
	HalfDayPeriod     string       `json:"half_day_period"`
	Reason            string       `json:"reason"`
	Status            string       `json:"status"`
	ReviewedBy        *string      `json:"reviewed_by"`
	ReviewedByName    string       `json:"reviewed_by_name,omitempty"`
	ReviewedAt        *string      `json:"reviewed_at"`
	ReviewNotes       string       `json:"review_notes"`
	DaysRequested     string       `json:"days_requested"`
	TotalCalendarDays int          `json:"total_calendar_days"`
	HolidaysExcluded  []HolidayRef `json:"holidays_excluded"`
	CreatedAt         string       `json:"created_at"`
	UpdatedAt         string       `json:"updated_at"`
}

// NewLeaveRequestResponse renders r with the day counts of calc.
func NewLeaveRequestResponse(r LeaveRequest, calc leavecalc.Result) LeaveRequestResponse {
	resp := LeaveRequestResponse{
		ID:                r.ID,
		EmployeeID:        r.EmployeeID,
		EmployeeName:      r.EmployeeName,
		LeaveTypeID:       r.LeaveTypeID,
		LeaveTypeName:     r.LeaveTypeName,
		LeaveTypeColor:    r.LeaveTypeColor,
		StartDate:         r.StartDate.Format(DateFormat),
		EndDate:           r.EndDate.Format(DateFormat),
		IsHalfDay:         r.IsHalfDay,
		HalfDayPeriod:     string(r.HalfDayPeriod),
		Reason:            r.Reason,
		Status:            string(r.Status),
		ReviewedBy:        r.ReviewedBy,
		ReviewedByName:    r.ReviewerName,
		ReviewNotes:       r.ReviewNotes,
		DaysRequested:     calc.WorkingDays.StringFixed(2),
		TotalCalendarDays: calc.TotalCalendarDays,
		HolidaysExcluded:  make([]HolidayRef, 0, len(calc.ExcludedHolidays)),
		CreatedAt:         r.CreatedAt.Format(DateTimeFormat),
		UpdatedAt:         r.UpdatedAt.Format(DateTimeFormat),
	}
	if r.ReviewedAt != nil {
		at := r.ReviewedAt.Format(DateTimeFormat)
		resp.ReviewedAt = &at
	}
	for _, h := range calc.ExcludedHolidays {
		resp.HolidaysExcluded = append(resp.HolidaysExcluded, HolidayRef{Date: h.Date.Format(DateFormat), Name: h.Name})
	}
	return resp
}

type ListLeaveRequestResponse = pagination.Page[LeaveRequestResponse]

type HolidayResponse struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	LocalName    string   `json:"local_name"`
	Date         string   `json:"date"`
	Country      string   `json:"country"`
	IsRecurring  bool     `json:"is_recurring"`
	Source       string   `json:"source"`
	HolidayTypes []string `json:"holiday_types"`
}

func NewHolidayResponse(h Holiday) HolidayResponse {
	types := h.HolidayTypes
	if types == nil {
		types = []string{}
	}
	return HolidayResponse{
		ID:           h.ID,
		Name:         h.Name,
		LocalName:    h.LocalName,
		Date:         h.Date.Format(DateFormat),
		Country:      h.Country,
		IsRecurring:  h.IsRecurring,
		Source:       string(h.Source),
		HolidayTypes: types,
	}
}

type SyncHolidaysResponse struct {
	Created   int      `json:"created"`
	Updated   int      `json:"updated"`
	Countries []string `json:"countries"`
	Years     []int    `json:"years"`
	Failed    []string `json:"failed,omitempty"`
}
