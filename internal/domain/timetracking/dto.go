package timetracking

import (
	"time"

	"github.com/accabog/rhr-sub000/internal/pkg/validator"
)

const (
	DateFormat     = "2006-01-02"
	DateTimeFormat = time.RFC3339
)

type ClockInRequest struct {
	EntryTypeID string `json:"entry_type,omitempty"`
	Notes       string `json:"notes,omitempty"`
	Project     string `json:"project,omitempty"`
	Task        string `json:"task,omitempty"`
}

func (r *ClockInRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.EntryTypeID != "" && !validator.IsValidUUID(r.EntryTypeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "entry_type",
			Message: "entry_type must be a valid UUID",
		})
	}
	if len(r.Project) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "project",
			Message: "project must not exceed 255 characters",
		})
	}
	if len(r.Task) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "task",
			Message: "task must not exceed 255 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ClockOutRequest struct {
	BreakMinutes int    `json:"break_minutes"`
	Notes        string `json:"notes,omitempty"`
}

func (r *ClockOutRequest) Validate() error {
	if r.BreakMinutes < 0 {
		return validator.ValidationErrors{{
			Field:   "break_minutes",
			Message: "Ensure this value is greater than or equal to 0.",
		}}
	}
	return nil
}

type EntryFilter struct {
	StartDate string
	EndDate   string
}

func (f *EntryFilter) Validate() error {
	var errs validator.ValidationErrors

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

type TimeEntryResponse struct {
	ID              string     `json:"id"`
	EmployeeID      string     `json:"employee"`
	EmployeeName    string     `json:"employee_name"`
	EntryTypeID     string     `json:"entry_type"`
	EntryTypeCode   string     `json:"entry_type_code"`
	EntryTypeName   string     `json:"entry_type_name"`
	Date            string     `json:"date"`
	StartTime       TimeOfDay  `json:"start_time"`
	EndTime         *TimeOfDay `json:"end_time"`
	BreakMinutes    int        `json:"break_minutes"`
	DurationMinutes int        `json:"duration_minutes"`
	DurationHours   string     `json:"duration_hours"`
	Notes           string     `json:"notes"`
	Project         string     `json:"project"`
	Task            string     `json:"task"`
	IsApproved      bool       `json:"is_approved"`
	ApprovedBy      *string    `json:"approved_by"`
	ApprovedAt      *string    `json:"approved_at"`
	CreatedAt       string     `json:"created_at"`
}

func NewTimeEntryResponse(e TimeEntry) TimeEntryResponse {
	resp := TimeEntryResponse{
		ID:              e.ID,
		EmployeeID:      e.EmployeeID,
		EmployeeName:    e.EmployeeName,
		EntryTypeID:     e.EntryTypeID,
		EntryTypeCode:   e.EntryTypeCode,
		EntryTypeName:   e.EntryTypeName,
		Date:            e.Date.Format(DateFormat),
		StartTime:       e.StartTime,
		EndTime:         e.EndTime,
		BreakMinutes:    e.BreakMinutes,
		DurationMinutes: e.DurationMinutes(),
		DurationHours:   Hours(e.DurationMinutes()).StringFixed(2),
		Notes:           e.Notes,
		Project:         e.Project,
		Task:            e.Task,
		IsApproved:      e.IsApproved,
		ApprovedBy:      e.ApprovedBy,
		CreatedAt:       e.CreatedAt.Format(DateTimeFormat),
	}
	if e.ApprovedAt != nil {
		at := e.ApprovedAt.Format(DateTimeFormat)
		resp.ApprovedAt = &at
	}
	return resp
}

type DailySummary struct {
	Date          string `json:"date"`
	TotalHours    string `json:"total_hours"`
	RegularHours  string `json:"regular_hours"`
	OvertimeHours string `json:"overtime_hours"`
	BreakHours    string `json:"break_hours"`
	EntriesCount  int    `json:"entries_count"`
}

type SummaryResponse struct {
	StartDate     string         `json:"start_date"`
	EndDate       string         `json:"end_date"`
	TotalHours    string         `json:"total_hours"`
	RegularHours  string         `json:"regular_hours"`
	OvertimeHours string         `json:"overtime_hours"`
	BreakHours    string         `json:"break_hours"`
	EntriesCount  int            `json:"entries_count"`
	Daily         []DailySummary `json:"daily"`
}
