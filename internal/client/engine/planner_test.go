package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/accabog/rhr-sub000/internal/client"
	"github.com/accabog/rhr-sub000/internal/domain/contract"
	"github.com/accabog/rhr-sub000/internal/domain/leave"
	"github.com/accabog/rhr-sub000/internal/domain/timesheet"
	"github.com/accabog/rhr-sub000/internal/domain/timetracking"
	"github.com/accabog/rhr-sub000/internal/pkg/leavecalc"
	"github.com/accabog/rhr-sub000/internal/pkg/querycache"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReads struct {
	mu       sync.Mutex
	calls    map[string]int
	holidays map[int][]leave.HolidayResponse
}

func (f *fakeReads) count(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[name]++
}

func (f *fakeReads) Calls(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeReads) LeaveTypes(context.Context) ([]leave.LeaveTypeResponse, error) {
	f.count("types")
	return []leave.LeaveTypeResponse{
		{ID: "annual", Name: "Annual Leave", Code: "AL", IsPaid: true, IsActive: true},
		{ID: "unpaid", Name: "Unpaid Leave", Code: "UL", IsActive: true},
		{ID: "sick", Name: "Sick Leave", Code: "SL", IsPaid: true, IsActive: true},
	}, nil
}

func (f *fakeReads) BalanceSummary(_ context.Context, year int) ([]leave.BalanceSummaryResponse, error) {
	f.count("balances")
	return []leave.BalanceSummaryResponse{
		{LeaveTypeID: "annual", Year: year, EntitledDays: "20.00", UsedDays: "18.00", RemainingDays: "2.00", PendingDays: "0.50"},
	}, nil
}

func (f *fakeReads) Holidays(_ context.Context, year int, _ string) ([]leave.HolidayResponse, error) {
	f.count("holidays")
	return f.holidays[year], nil
}

func (f *fakeReads) LeaveRequest(context.Context, string) (leave.LeaveRequestResponse, error) {
	return leave.LeaveRequestResponse{}, nil
}

func (f *fakeReads) MyLeaveRequests(context.Context, client.LeaveRequestQuery) (leave.ListLeaveRequestResponse, error) {
	return leave.ListLeaveRequestResponse{}, nil
}

func (f *fakeReads) PendingLeaveRequests(context.Context, client.LeaveRequestQuery) (leave.ListLeaveRequestResponse, error) {
	return leave.ListLeaveRequestResponse{}, nil
}

func (f *fakeReads) Timesheet(context.Context, string) (timesheet.TimesheetResponse, error) {
	return timesheet.TimesheetResponse{}, nil
}

func (f *fakeReads) MyTimesheets(context.Context, client.TimesheetQuery) (timesheet.ListTimesheetResponse, error) {
	return timesheet.ListTimesheetResponse{}, nil
}

func (f *fakeReads) PendingTimesheets(context.Context, client.TimesheetQuery) (timesheet.ListTimesheetResponse, error) {
	return timesheet.ListTimesheetResponse{}, nil
}

func (f *fakeReads) TimeSummary(context.Context, string, string) (timetracking.SummaryResponse, error) {
	return timetracking.SummaryResponse{}, nil
}

func (f *fakeReads) Contract(context.Context, string) (contract.ContractResponse, error) {
	return contract.ContractResponse{}, nil
}

func (f *fakeReads) MyContracts(context.Context, client.ContractQuery) (contract.ListContractResponse, error) {
	return contract.ListContractResponse{}, nil
}

func date(s string) time.Time {
	d, err := leavecalc.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func newPlanner() (*LeavePlanner, *fakeReads) {
	api := &fakeReads{holidays: map[int][]leave.HolidayResponse{
		2026: {
			{Name: "Christmas Day", Date: "2026-12-25"},
			{Name: "Broken", Date: "25/12/2026"},
		},
		2027: {{Name: "New Year's Day", Date: "2027-01-01"}},
	}}
	planner := NewLeavePlanner(NewQueries(api, querycache.New())).
		WithClock(func() time.Time { return date("2026-10-18") })
	return planner, api
}

func TestLeavePlanner_LoadSpansTwoYears(t *testing.T) {
	planner, api := newPlanner()

	data, err := planner.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2026, data.Year)
	assert.Len(t, data.Types, 3)
	assert.Equal(t, 2, data.Holidays.Len())

	_, err = planner.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, api.Calls("types"))
	assert.Equal(t, 1, api.Calls("balances"))
	assert.Equal(t, 2, api.Calls("holidays"))
}

func TestLeavePlanner_Quote(t *testing.T) {
	planner, _ := newPlanner()

	t.Run("over balance across year end", func(t *testing.T) {
		q, err := planner.Quote(context.Background(), "annual", leavecalc.Range(date("2026-12-24"), date("2027-01-01")))
		require.NoError(t, err)
		assert.Equal(t, 9, q.TotalCalendarDays)
		assert.True(t, q.WorkingDays.Equal(decimal.NewFromInt(7)))
		require.Len(t, q.ExcludedHolidays, 2)
		assert.Equal(t, "Christmas Day", q.ExcludedHolidays[0].Name)
		require.NotNil(t, q.Balance)
		assert.Equal(t, "2.00", q.Balance.Remaining.StringFixed(2))
		assert.Equal(t, "0.50", q.Balance.Pending.StringFixed(2))
		assert.True(t, q.OverBalance)
	})

	t.Run("half day within balance", func(t *testing.T) {
		q, err := planner.Quote(context.Background(), "annual", leavecalc.HalfDay(date("2026-11-02"), leavecalc.PeriodMorning))
		require.NoError(t, err)
		assert.Equal(t, "0.50", q.WorkingDays.StringFixed(2))
		assert.False(t, q.OverBalance)
	})

	t.Run("half day on holiday", func(t *testing.T) {
		q, err := planner.Quote(context.Background(), "annual", leavecalc.HalfDay(date("2026-12-25"), leavecalc.PeriodAfternoon))
		require.NoError(t, err)
		assert.True(t, q.WorkingDays.IsZero())
		assert.Len(t, q.ExcludedHolidays, 1)
	})

	t.Run("unpaid type has no balance", func(t *testing.T) {
		q, err := planner.Quote(context.Background(), "unpaid", leavecalc.Range(date("2026-11-02"), date("2026-11-30")))
		require.NoError(t, err)
		assert.Nil(t, q.Balance)
		assert.False(t, q.OverBalance)
	})

	t.Run("paid type without balance", func(t *testing.T) {
		q, err := planner.Quote(context.Background(), "sick", leavecalc.Range(date("2026-11-02"), date("2026-11-02")))
		require.NoError(t, err)
		require.NotNil(t, q.Balance)
		assert.True(t, q.Balance.Remaining.IsZero())
		assert.True(t, q.OverBalance)
	})

	t.Run("no leave type", func(t *testing.T) {
		q, err := planner.Quote(context.Background(), "", leavecalc.Range(date("2026-11-02"), date("2026-11-06")))
		require.NoError(t, err)
		assert.Nil(t, q.LeaveType)
		assert.Equal(t, 5, q.TotalCalendarDays)
	})

	t.Run("unknown leave type", func(t *testing.T) {
		_, err := planner.Quote(context.Background(), "missing", leavecalc.Range(date("2026-11-02"), date("2026-11-06")))
		assert.ErrorContains(t, err, "unknown leave type")
	})
}
