package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/accabog/rhr-sub000/internal/domain/leave"
	"github.com/accabog/rhr-sub000/internal/pkg/pagination"
	"github.com/shopspring/decimal"
)

// LeaveRequestQuery filters leave request lists. Zero values do not filter.
type LeaveRequestQuery struct {
	Status      string
	EmployeeID  string
	LeaveTypeID string
	StartDate   string
	EndDate     string
	Page        pagination.Params
}

func (q LeaveRequestQuery) Values() url.Values {
	v := q.Page.Values()
	setIf(v, "status", q.Status)
	setIf(v, "employee", q.EmployeeID)
	setIf(v, "leave_type", q.LeaveTypeID)
	setIf(v, "start_date", q.StartDate)
	setIf(v, "end_date", q.EndDate)
	return v
}

func setIf(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}

func yearQuery(year int) url.Values {
	if year == 0 {
		return nil
	}
	return url.Values{"year": {strconv.Itoa(year)}}
}

// ParseAmount parses a fixed-decimal amount string such as "12.50".
func ParseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

func (c *Client) LeaveTypes(ctx context.Context) ([]leave.LeaveTypeResponse, error) {
	var types []leave.LeaveTypeResponse
	err := c.do(ctx, http.MethodGet, "/leave/types/", nil, nil, &types)
	return types, err
}

func (c *Client) CreateLeaveType(ctx context.Context, req leave.CreateLeaveTypeRequest) (leave.LeaveTypeResponse, error) {
	var t leave.LeaveTypeResponse
	err := c.do(ctx, http.MethodPost, "/leave/types/", nil, req, &t)
	return t, err
}

func (c *Client) LeaveBalances(ctx context.Context, year int) ([]leave.LeaveBalanceResponse, error) {
	var balances []leave.LeaveBalanceResponse
	err := c.do(ctx, http.MethodGet, "/leave/balances/", yearQuery(year), nil, &balances)
	return balances, err
}

func (c *Client) BalanceSummary(ctx context.Context, year int) ([]leave.BalanceSummaryResponse, error) {
	var summary []leave.BalanceSummaryResponse
	err := c.do(ctx, http.MethodGet, "/leave/balances/summary/", yearQuery(year), nil, &summary)
	return summary, err
}

func (c *Client) CreateLeaveRequest(ctx context.Context, req leave.CreateLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	var r leave.LeaveRequestResponse
	err := c.do(ctx, http.MethodPost, "/leave/requests/", nil, req, &r)
	return r, err
}

func (c *Client) LeaveRequest(ctx context.Context, id string) (leave.LeaveRequestResponse, error) {
	var r leave.LeaveRequestResponse
	err := c.do(ctx, http.MethodGet, "/leave/requests/"+url.PathEscape(id)+"/", nil, nil, &r)
	return r, err
}

func (c *Client) LeaveRequests(ctx context.Context, q LeaveRequestQuery) (leave.ListLeaveRequestResponse, error) {
	return c.leaveRequestList(ctx, "/leave/requests/", q)
}

func (c *Client) MyLeaveRequests(ctx context.Context, q LeaveRequestQuery) (leave.ListLeaveRequestResponse, error) {
	return c.leaveRequestList(ctx, "/leave/requests/my_requests/", q)
}

func (c *Client) PendingLeaveRequests(ctx context.Context, q LeaveRequestQuery) (leave.ListLeaveRequestResponse, error) {
	return c.leaveRequestList(ctx, "/leave/requests/pending_approval/", q)
}

func (c *Client) leaveRequestList(ctx context.Context, path string, q LeaveRequestQuery) (leave.ListLeaveRequestResponse, error) {
	var page leave.ListLeaveRequestResponse
	err := c.do(ctx, http.MethodGet, path, q.Values(), nil, &page)
	return page, err
}

func (c *Client) LeaveCalendar(ctx context.Context, start, end time.Time) ([]leave.LeaveRequestResponse, error) {
	var requests []leave.LeaveRequestResponse
	q := url.Values{
		"start_date": {start.Format(leave.DateFormat)},
		"end_date":   {end.Format(leave.DateFormat)},
	}
	err := c.do(ctx, http.MethodGet, "/leave/requests/calendar/", q, nil, &requests)
	return requests, err
}

func (c *Client) ApproveLeaveRequest(ctx context.Context, id, notes string) (leave.LeaveRequestResponse, error) {
	return c.leaveAction(ctx, id, "approve", &leave.ReviewLeaveRequestRequest{Notes: notes})
}

func (c *Client) RejectLeaveRequest(ctx context.Context, id, notes string) (leave.LeaveRequestResponse, error) {
	return c.leaveAction(ctx, id, "reject", &leave.ReviewLeaveRequestRequest{Notes: notes})
}

func (c *Client) CancelLeaveRequest(ctx context.Context, id string) (leave.LeaveRequestResponse, error) {
	return c.leaveAction(ctx, id, "cancel", struct{}{})
}

func (c *Client) leaveAction(ctx context.Context, id, action string, body any) (leave.LeaveRequestResponse, error) {
	var r leave.LeaveRequestResponse
	err := c.do(ctx, http.MethodPost, "/leave/requests/"+url.PathEscape(id)+"/"+action+"/", nil, body, &r)
	return r, err
}

// Holidays lists the holidays of year. An empty country lets the server use
// the caller's own country.
func (c *Client) Holidays(ctx context.Context, year int, country string) ([]leave.HolidayResponse, error) {
	q := url.Values{}
	if year != 0 {
		q.Set("year", strconv.Itoa(year))
	}
	setIf(q, "country", country)
	var holidays []leave.HolidayResponse
	err := c.do(ctx, http.MethodGet, "/leave/holidays/", q, nil, &holidays)
	return holidays, err
}

func (c *Client) UpcomingHolidays(ctx context.Context) ([]leave.HolidayResponse, error) {
	var holidays []leave.HolidayResponse
	err := c.do(ctx, http.MethodGet, "/leave/holidays/upcoming/", nil, nil, &holidays)
	return holidays, err
}

func (c *Client) CreateHoliday(ctx context.Context, req leave.CreateHolidayRequest) (leave.HolidayResponse, error) {
	var h leave.HolidayResponse
	err := c.do(ctx, http.MethodPost, "/leave/holidays/", nil, req, &h)
	return h, err
}

func (c *Client) SyncHolidays(ctx context.Context, req leave.SyncHolidaysRequest) (leave.SyncHolidaysResponse, error) {
	var res leave.SyncHolidaysResponse
	err := c.do(ctx, http.MethodPost, "/leave/holidays/sync/", nil, req, &res)
	return res, err
}
