package timesheet

import (
	"context"
	"time"

	"github.com/accabog/rhr-sub000/internal/pkg/pagination"
	"github.com/accabog/rhr-sub000/internal/pkg/workflow"
)

// TimesheetQuery filters timesheets. Zero values do not filter.
type TimesheetQuery struct {
	EmployeeID string
	Statuses   []workflow.Status
	Page       pagination.Params
}

type TimesheetRepository interface {
	// Create fails with ErrTimesheetExists for a duplicate employee and period start.
	Create(ctx context.Context, ts Timesheet) (Timesheet, error)
	GetByID(ctx context.Context, tenantID, id string) (Timesheet, error)
	GetByPeriodStart(ctx context.Context, tenantID, employeeID string, periodStart time.Time) (Timesheet, error)
	List(ctx context.Context, tenantID string, query TimesheetQuery) ([]Timesheet, int64, error)
	// Update persists status, totals and review fields while the stored status
	// is still from, failing with workflow.ErrStatusChanged otherwise.
	Update(ctx context.Context, ts Timesheet, from workflow.Status) error
	// Delete removes the timesheet while its status is still from.
	Delete(ctx context.Context, tenantID, id string, from workflow.Status) error
}

type CommentRepository interface {
	Create(ctx context.Context, c Comment) (Comment, error)
	ListByTimesheet(ctx context.Context, tenantID, timesheetID string) ([]Comment, error)
}
