package timetracking

import (
	"context"

	"github.com/accabog/rhr-sub000/internal/domain/tenant"
)

type TimeTrackingService interface {
	// Current returns the caller's running entry, or nil.
	Current(ctx context.Context, s tenant.Session) (*TimeEntryResponse, error)
	ClockIn(ctx context.Context, s tenant.Session, req ClockInRequest) (TimeEntryResponse, error)
	ClockOut(ctx context.Context, s tenant.Session, req ClockOutRequest) (TimeEntryResponse, error)
	MyEntries(ctx context.Context, s tenant.Session, filter EntryFilter) ([]TimeEntryResponse, error)
	Summary(ctx context.Context, s tenant.Session, filter EntryFilter) (SummaryResponse, error)
	ApproveEntry(ctx context.Context, s tenant.Session, id string) (TimeEntryResponse, error)
}
