package timesheet

import (
	"time"

	"github.com/accabog/rhr-sub000/internal/domain/timetracking"
	"github.com/accabog/rhr-sub000/internal/pkg/workflow"
	"github.com/shopspring/decimal"
)

// Timesheet summarises an employee's time entries over a period.
type Timesheet struct {
	ID                 string
	TenantID           string
	EmployeeID         string
	PeriodStart        time.Time
	PeriodEnd          time.Time
	Status             workflow.Status
	TotalRegularHours  decimal.Decimal
	TotalOvertimeHours decimal.Decimal
	TotalBreakHours    decimal.Decimal
	SubmittedAt        *time.Time
	ApprovedBy         *string
	ApprovedAt         *time.Time
	RejectionReason    string
	CreatedAt          time.Time
	UpdatedAt          time.Time

	// Join
	EmployeeName   string
	ApprovedByName string
}

func (t Timesheet) TotalHours() decimal.Decimal {
	return t.TotalRegularHours.Add(t.TotalOvertimeHours)
}

// ApplyTotals sets the hour totals from aggregated entry minutes.
func (t *Timesheet) ApplyTotals(totals timetracking.Totals) {
	t.TotalRegularHours = timetracking.Hours(totals.RegularMinutes)
	t.TotalOvertimeHours = timetracking.Hours(totals.OvertimeMinutes)
	t.TotalBreakHours = timetracking.Hours(totals.BreakMinutes)
}

type Comment struct {
	ID          string
	TenantID    string
	TimesheetID string
	AuthorID    string
	Content     string
	CreatedAt   time.Time

	// Join
	AuthorName string
}
