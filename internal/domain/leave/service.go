package leave

import (
	"context"
	"time"

	"github.com/accabog/rhr-sub000/internal/domain/tenant"
)

type LeaveService interface {
	// Type
	ListTypes(ctx context.Context, s tenant.Session) ([]LeaveTypeResponse, error)
	CreateType(ctx context.Context, s tenant.Session, req CreateLeaveTypeRequest) (LeaveTypeResponse, error)
	// Balance
	ListBalances(ctx context.Context, s tenant.Session, year int) ([]LeaveBalanceResponse, error)
	BalanceSummary(ctx context.Context, s tenant.Session, year int) ([]BalanceSummaryResponse, error)
	// Request
	CreateRequest(ctx context.Context, s tenant.Session, req CreateLeaveRequestRequest) (LeaveRequestResponse, error)
	GetRequest(ctx context.Context, s tenant.Session, id string) (LeaveRequestResponse, error)
	ListRequests(ctx context.Context, s tenant.Session, filter LeaveRequestFilter) (ListLeaveRequestResponse, error)
	MyRequests(ctx context.Context, s tenant.Session, filter LeaveRequestFilter) (ListLeaveRequestResponse, error)
	PendingApproval(ctx context.Context, s tenant.Session, filter LeaveRequestFilter) (ListLeaveRequestResponse, error)
	Calendar(ctx context.Context, s tenant.Session, start, end time.Time) ([]LeaveRequestResponse, error)
	ApproveRequest(ctx context.Context, s tenant.Session, id string, req ReviewLeaveRequestRequest) (LeaveRequestResponse, error)
	RejectRequest(ctx context.Context, s tenant.Session, id string, req ReviewLeaveRequestRequest) (LeaveRequestResponse, error)
	CancelRequest(ctx context.Context, s tenant.Session, id string) (LeaveRequestResponse, error)
}

type HolidayService interface {
	// ListHolidays returns the holidays of year. An empty country resolves to
	// the caller's own country; all disables country filtering.
	ListHolidays(ctx context.Context, s tenant.Session, year int, country string, all bool) ([]HolidayResponse, error)
	UpcomingHolidays(ctx context.Context, s tenant.Session) ([]HolidayResponse, error)
	CreateHoliday(ctx context.Context, s tenant.Session, req CreateHolidayRequest) (HolidayResponse, error)
	SyncHolidays(ctx context.Context, s tenant.Session, req SyncHolidaysRequest) (SyncHolidaysResponse, error)
	// SyncAllTenants refreshes public holidays of every active tenant.
	SyncAllTenants(ctx context.Context) error
}
