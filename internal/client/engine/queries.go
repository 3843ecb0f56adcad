package engine

import (
	"context"
	"net/url"

	"github.com/accabog/rhr-sub000/internal/client"
	"github.com/accabog/rhr-sub000/internal/domain/contract"
	"github.com/accabog/rhr-sub000/internal/domain/leave"
	"github.com/accabog/rhr-sub000/internal/domain/timesheet"
	"github.com/accabog/rhr-sub000/internal/domain/timetracking"
	"github.com/accabog/rhr-sub000/internal/pkg/querycache"
	"github.com/accabog/rhr-sub000/internal/pkg/workflow"
)

// ReadAPI is the read side of the API used through the cache.
type ReadAPI interface {
	LeaveTypes(ctx context.Context) ([]leave.LeaveTypeResponse, error)
	BalanceSummary(ctx context.Context, year int) ([]leave.BalanceSummaryResponse, error)
	Holidays(ctx context.Context, year int, country string) ([]leave.HolidayResponse, error)
	LeaveRequest(ctx context.Context, id string) (leave.LeaveRequestResponse, error)
	MyLeaveRequests(ctx context.Context, q client.LeaveRequestQuery) (leave.ListLeaveRequestResponse, error)
	PendingLeaveRequests(ctx context.Context, q client.LeaveRequestQuery) (leave.ListLeaveRequestResponse, error)
	Timesheet(ctx context.Context, id string) (timesheet.TimesheetResponse, error)
	MyTimesheets(ctx context.Context, q client.TimesheetQuery) (timesheet.ListTimesheetResponse, error)
	PendingTimesheets(ctx context.Context, q client.TimesheetQuery) (timesheet.ListTimesheetResponse, error)
	TimeSummary(ctx context.Context, startDate, endDate string) (timetracking.SummaryResponse, error)
	Contract(ctx context.Context, id string) (contract.ContractResponse, error)
	MyContracts(ctx context.Context, q client.ContractQuery) (contract.ListContractResponse, error)
}

// Queries reads through the cache. Every result carries the tags that the
// matching transitions invalidate.
type Queries struct {
	api   ReadAPI
	cache *querycache.Cache
}

func NewQueries(api ReadAPI, cache *querycache.Cache) *Queries {
	return &Queries{api: api, cache: cache}
}

func (q *Queries) LeaveTypes(ctx context.Context) ([]leave.LeaveTypeResponse, error) {
	return querycache.Query(ctx, q.cache, querycache.NewKey(resourceLeaveTypes, nil), []string{TagLeaveTypes}, q.api.LeaveTypes)
}

func (q *Queries) BalanceSummary(ctx context.Context, year int) ([]leave.BalanceSummaryResponse, error) {
	return querycache.Query(ctx, q.cache, yearKey(resourceBalanceSummary, year), []string{string(workflow.TagLeaveBalances)},
		func(ctx context.Context) ([]leave.BalanceSummaryResponse, error) {
			return q.api.BalanceSummary(ctx, year)
		})
}

// Holidays returns the caller's holidays of year.
func (q *Queries) Holidays(ctx context.Context, year int) ([]leave.HolidayResponse, error) {
	return querycache.Query(ctx, q.cache, yearKey(resourceHolidays, year), []string{TagHolidays},
		func(ctx context.Context) ([]leave.HolidayResponse, error) {
			return q.api.Holidays(ctx, year, "")
		})
}

func (q *Queries) LeaveRequest(ctx context.Context, id string) (leave.LeaveRequestResponse, error) {
	return querycache.Query(ctx, q.cache, DetailKey(workflow.KindLeaveRequest, id), detailTags(workflow.KindLeaveRequest),
		func(ctx context.Context) (leave.LeaveRequestResponse, error) {
			return q.api.LeaveRequest(ctx, id)
		})
}

func (q *Queries) MyLeaveRequests(ctx context.Context, query client.LeaveRequestQuery) (leave.ListLeaveRequestResponse, error) {
	return querycache.Query(ctx, q.cache, querycache.NewKey(resourceMyLeaveRequests, query.Values()),
		[]string{string(workflow.TagLeaveRequests)},
		func(ctx context.Context) (leave.ListLeaveRequestResponse, error) {
			return q.api.MyLeaveRequests(ctx, query)
		})
}

func (q *Queries) PendingLeaveRequests(ctx context.Context, query client.LeaveRequestQuery) (leave.ListLeaveRequestResponse, error) {
	return querycache.Query(ctx, q.cache, querycache.NewKey(resourcePendingLeave, query.Values()),
		[]string{string(workflow.TagLeaveRequests), string(workflow.TagLeavePending)},
		func(ctx context.Context) (leave.ListLeaveRequestResponse, error) {
			return q.api.PendingLeaveRequests(ctx, query)
		})
}

func (q *Queries) Timesheet(ctx context.Context, id string) (timesheet.TimesheetResponse, error) {
	return querycache.Query(ctx, q.cache, DetailKey(workflow.KindTimesheet, id), detailTags(workflow.KindTimesheet),
		func(ctx context.Context) (timesheet.TimesheetResponse, error) {
			return q.api.Timesheet(ctx, id)
		})
}

func (q *Queries) MyTimesheets(ctx context.Context, query client.TimesheetQuery) (timesheet.ListTimesheetResponse, error) {
	return querycache.Query(ctx, q.cache, querycache.NewKey(resourceMyTimesheets, query.Values()),
		[]string{string(workflow.TagTimesheets)},
		func(ctx context.Context) (timesheet.ListTimesheetResponse, error) {
			return q.api.MyTimesheets(ctx, query)
		})
}

func (q *Queries) PendingTimesheets(ctx context.Context, query client.TimesheetQuery) (timesheet.ListTimesheetResponse, error) {
	return querycache.Query(ctx, q.cache, querycache.NewKey(resourcePendingTimesheets, query.Values()),
		[]string{string(workflow.TagTimesheets), string(workflow.TagTimesheetsPending)},
		func(ctx context.Context) (timesheet.ListTimesheetResponse, error) {
			return q.api.PendingTimesheets(ctx, query)
		})
}

func (q *Queries) Contract(ctx context.Context, id string) (contract.ContractResponse, error) {
	return querycache.Query(ctx, q.cache, DetailKey(workflow.KindContract, id), detailTags(workflow.KindContract),
		func(ctx context.Context) (contract.ContractResponse, error) {
			return q.api.Contract(ctx, id)
		})
}

func (q *Queries) MyContracts(ctx context.Context, query client.ContractQuery) (contract.ListContractResponse, error) {
	return querycache.Query(ctx, q.cache, querycache.NewKey(resourceMyContracts, query.Values()),
		[]string{string(workflow.TagContracts)},
		func(ctx context.Context) (contract.ListContractResponse, error) {
			return q.api.MyContracts(ctx, query)
		})
}

func (q *Queries) TimeSummary(ctx context.Context, startDate, endDate string) (timetracking.SummaryResponse, error) {
	key := querycache.NewKey(resourceTimeSummary, url.Values{"start_date": {startDate}, "end_date": {endDate}})
	return querycache.Query(ctx, q.cache, key, []string{string(workflow.TagTimeEntries)},
		func(ctx context.Context) (timetracking.SummaryResponse, error) {
			return q.api.TimeSummary(ctx, startDate, endDate)
		})
}
