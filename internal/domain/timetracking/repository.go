package timetracking

import (
	"context"
	"time"
)

type TimeEntryTypeRepository interface {
	GetByID(ctx context.Context, tenantID, id string) (TimeEntryType, error)
	// GetOrCreateByCode returns the type with code, creating a paid type with
	// multiplier 1 when missing.
	GetOrCreateByCode(ctx context.Context, tenantID, code, name string) (TimeEntryType, error)
}

// EntryQuery filters time entries. Zero values do not filter.
type EntryQuery struct {
	EmployeeID    string
	From          *time.Time
	To            *time.Time
	CompletedOnly bool
}

type TimeEntryRepository interface {
	// Create fails with ErrAlreadyClockedIn when the employee has a running entry.
	Create(ctx context.Context, entry TimeEntry) (TimeEntry, error)
	GetByID(ctx context.Context, tenantID, id string) (TimeEntry, error)
	// GetRunning returns the employee's entry without end time, or ErrNotClockedIn.
	GetRunning(ctx context.Context, tenantID, employeeID string) (TimeEntry, error)
	Close(ctx context.Context, entry TimeEntry) error
	List(ctx context.Context, tenantID string, query EntryQuery) ([]TimeEntry, error)
	Approve(ctx context.Context, tenantID, id, approverID string, at time.Time) error
	// ApprovePeriod approves the employee's completed entries dated within [from, to].
	ApprovePeriod(ctx context.Context, tenantID, employeeID string, from, to time.Time, approverID string, at time.Time) (int64, error)
}
