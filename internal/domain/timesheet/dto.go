package timesheet

import (
	"strings"
	"time"

	"github.com/accabog/rhr-sub000/internal/domain/timetracking"
	"github.com/accabog/rhr-sub000/internal/pkg/pagination"
	"github.com/accabog/rhr-sub000/internal/pkg/validator"
	"github.com/accabog/rhr-sub000/internal/pkg/workflow"
)

const (
	DateFormat     = "2006-01-02"
	DateTimeFormat = time.RFC3339
)

type GenerateTimesheetRequest struct {
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
	// EmployeeID generates for another employee; requires reviewer rights.
	EmployeeID string `json:"employee_id,omitempty"`
}

func (r *GenerateTimesheetRequest) Validate() error {
	var errs validator.ValidationErrors

	start, startOK := validator.IsValidDate(r.PeriodStart)
	if !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "period_start",
			Message: "period_start must be a date in YYYY-MM-DD format",
		})
	}
	end, endOK := validator.IsValidDate(r.PeriodEnd)
	if !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "period_end",
			Message: "period_end must be a date in YYYY-MM-DD format",
		})
	}
	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "period_end",
			Message: "End date must be after start date",
		})
	}
	if r.EmployeeID != "" && !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type SubmitTimesheetRequest struct {
	Notes string `json:"notes,omitempty"`
}

type RejectTimesheetRequest struct {
	Reason string `json:"reason"`
}

func (r *RejectTimesheetRequest) Validate() error {
	t, _ := workflow.Lookup(workflow.KindTimesheet, workflow.ActionReject)
	return workflow.ValidatePayload(t, r.Reason)
}

type CreateCommentRequest struct {
	Content string `json:"content"`
}

func (r *CreateCommentRequest) Validate() error {
	if validator.IsEmpty(r.Content) {
		return validator.ValidationErrors{{
			Field:   "content",
			Message: "content is required",
		}}
	}
	return nil
}

type TimesheetFilter struct {
	Status string
	Page   pagination.Params
}

func (f *TimesheetFilter) Validate() error {
	if f.Status == "" {
		return nil
	}
	var errs validator.ValidationErrors
	for _, s := range strings.Split(f.Status, ",") {
		if !workflow.ValidStatus(workflow.KindTimesheet, workflow.Status(s)) {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "unknown status " + s,
			})
		}
	}
	return errs.Err()
}

type CommentResponse struct {
	ID         string `json:"id"`
	Timesheet  string `json:"timesheet"`
	AuthorID   string `json:"author"`
	AuthorName string `json:"author_name"`
	Content    string `json:"content"`
	CreatedAt  string `json:"created_at"`
}

func NewCommentResponse(c Comment) CommentResponse {
	return CommentResponse{
		ID:         c.ID,
		Timesheet:  c.TimesheetID,
		AuthorID:   c.AuthorID,
		AuthorName: c.AuthorName,
		Content:    c.Content,
		CreatedAt:  c.CreatedAt.Format(DateTimeFormat),
	}
}

// TimesheetResponse carries hour totals as fixed two-decimal strings.
// TimeEntries and Comments are only set on the detail view.
type TimesheetResponse struct {
	ID                 string                           `json:"id"`
	EmployeeID         string                           `json:"employee"`
	EmployeeName       string                           `json:"employee_name"`
	PeriodStart        string                           `json:"period_start"`
	PeriodEnd          string                           `json:"period_end"`
	Status             string                           `json:"status"`
	TotalRegularHours  string                           `json:"total_regular_hours"`
	TotalOvertimeHours string                           `json:"total_overtime_hours"`
	TotalBreakHours    string                           `json:"total_break_hours"`
	TotalHours         string                           `json:"total_hours"`
	SubmittedAt        *string                          `json:"submitted_at"`
	ApprovedBy         *string                          `json:"approved_by"`
	ApprovedByName     string                           `json:"approved_by_name,omitempty"`
	ApprovedAt         *string                          `json:"approved_at"`
	RejectionReason    string                           `json:"rejection_reason"`
	TimeEntries        []timetracking.TimeEntryResponse `json:"time_entries,omitempty"`
	Comments           []CommentResponse                `json:"comments,omitempty"`
	CreatedAt          string                           `json:"created_at"`
	UpdatedAt          string                           `json:"updated_at"`
}

func NewTimesheetResponse(t Timesheet) TimesheetResponse {
	return TimesheetResponse{
		ID:                 t.ID,
		EmployeeID:         t.EmployeeID,
		EmployeeName:       t.EmployeeName,
		PeriodStart:        t.PeriodStart.Format(DateFormat),
		PeriodEnd:          t.PeriodEnd.Format(DateFormat),
		Status:             string(t.Status),
		TotalRegularHours:  t.TotalRegularHours.StringFixed(2),
		TotalOvertimeHours: t.TotalOvertimeHours.StringFixed(2),
		TotalBreakHours:    t.TotalBreakHours.StringFixed(2),
		TotalHours:         t.TotalHours().StringFixed(2),
		SubmittedAt:        formatTime(t.SubmittedAt),
		ApprovedBy:         t.ApprovedBy,
		ApprovedByName:     t.ApprovedByName,
		ApprovedAt:         formatTime(t.ApprovedAt),
		RejectionReason:    t.RejectionReason,
		CreatedAt:          t.CreatedAt.Format(DateTimeFormat),
		UpdatedAt:          t.UpdatedAt.Format(DateTimeFormat),
	}
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(DateTimeFormat)
	return &s
}

type ListTimesheetResponse = pagination.Page[TimesheetResponse]
