package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/accabog/rhr-sub000/internal/domain/timetracking"
)

// CurrentEntry returns the caller's running entry, or nil when not clocked in.
func (c *Client) CurrentEntry(ctx context.Context) (*timetracking.TimeEntryResponse, error) {
	var entry *timetracking.TimeEntryResponse
	if err := c.do(ctx, http.MethodGet, "/time-entries/current/", nil, nil, &entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (c *Client) ClockIn(ctx context.Context, req timetracking.ClockInRequest) (timetracking.TimeEntryResponse, error) {
	var entry timetracking.TimeEntryResponse
	err := c.do(ctx, http.MethodPost, "/time-entries/clock_in/", nil, req, &entry)
	return entry, err
}

func (c *Client) ClockOut(ctx context.Context, req timetracking.ClockOutRequest) (timetracking.TimeEntryResponse, error) {
	var entry timetracking.TimeEntryResponse
	err := c.do(ctx, http.MethodPost, "/time-entries/clock_out/", nil, req, &entry)
	return entry, err
}

func entryQuery(startDate, endDate string) url.Values {
	q := url.Values{}
	setIf(q, "start_date", startDate)
	setIf(q, "end_date", endDate)
	return q
}

func (c *Client) MyEntries(ctx context.Context, startDate, endDate string) ([]timetracking.TimeEntryResponse, error) {
	var entries []timetracking.TimeEntryResponse
	err := c.do(ctx, http.MethodGet, "/time-entries/my_entries/", entryQuery(startDate, endDate), nil, &entries)
	return entries, err
}

func (c *Client) TimeSummary(ctx context.Context, startDate, endDate string) (timetracking.SummaryResponse, error) {
	var summary timetracking.SummaryResponse
	err := c.do(ctx, http.MethodGet, "/time-entries/summary/", entryQuery(startDate, endDate), nil, &summary)
	return summary, err
}

func (c *Client) ApproveEntry(ctx context.Context, id string) (timetracking.TimeEntryResponse, error) {
	var entry timetracking.TimeEntryResponse
	err := c.do(ctx, http.MethodPost, "/time-entries/"+url.PathEscape(id)+"/approve/", nil, struct{}{}, &entry)
	return entry, err
}
