package leave

import (
	"context"
	"time"

	"github.com/accabog/rhr-sub000/internal/pkg/pagination"
	"github.com/accabog/rhr-sub000/internal/pkg/workflow"
	"github.com/shopspring/decimal"
)

// LeaveTypeRepository - interface for leave_types table
type LeaveTypeRepository interface {
	Create(ctx context.Context, leaveType LeaveType) (LeaveType, error)
	GetByID(ctx context.Context, tenantID, id string) (LeaveType, error)
	ListActive(ctx context.Context, tenantID string) ([]LeaveType, error)
}

// LeaveBalanceRepository - interface for leave_balances table
type LeaveBalanceRepository interface {
	ListByEmployeeYear(ctx context.Context, tenantID, employeeID string, year int) ([]LeaveBalance, error)
	GetByEmployeeTypeYear(ctx context.Context, tenantID, employeeID, leaveTypeID string, year int) (LeaveBalance, error)
	// AddUsedDays creates the balance with zero entitlement when it does not exist.
	AddUsedDays(ctx context.Context, tenantID, employeeID, leaveTypeID string, year int, days decimal.Decimal) error
}

// RequestQuery filters leave requests. Zero values do not filter.
type RequestQuery struct {
	EmployeeID  string
	LeaveTypeID string
	Statuses    []workflow.Status
	// From and To select requests overlapping [From, To].
	From *time.Time
	To   *time.Time
	Page pagination.Params
	// All disables paging.
	All bool
}

// LeaveRequestRepository - interface for leave_requests table
type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, tenantID, id string) (LeaveRequest, error)
	List(ctx context.Context, tenantID string, query RequestQuery) ([]LeaveRequest, int64, error)
	// UpdateReview persists status and review fields while the stored status is
	// still from, failing with workflow.ErrStatusChanged otherwise.
	UpdateReview(ctx context.Context, request LeaveRequest, from workflow.Status) error
}

// HolidayQuery filters holidays. A non-empty Country also matches tenant-wide holidays.
type HolidayQuery struct {
	From    *time.Time
	To      *time.Time
	Country string
	// AnyCountry disables the country filter.
	AnyCountry bool
	Limit      int
}

// HolidayRepository - interface for holidays table
type HolidayRepository interface {
	Create(ctx context.Context, holiday Holiday) (Holiday, error)
	// Upsert matches on tenant, country, date and name.
	Upsert(ctx context.Context, holiday Holiday) (created bool, err error)
	List(ctx context.Context, tenantID string, query HolidayQuery) ([]Holiday, error)
}
