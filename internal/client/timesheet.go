package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/accabog/rhr-sub000/internal/domain/timesheet"
	"github.com/accabog/rhr-sub000/internal/pkg/pagination"
)

type TimesheetQuery struct {
	Status string
	Page   pagination.Params
}

func (q TimesheetQuery) Values() url.Values {
	v := q.Page.Values()
	setIf(v, "status", q.Status)
	return v
}

func timesheetPath(id string, action string) string {
	p := "/timesheets/" + url.PathEscape(id) + "/"
	if action != "" {
		p += action + "/"
	}
	return p
}

func (c *Client) GenerateTimesheet(ctx context.Context, req timesheet.GenerateTimesheetRequest) (timesheet.TimesheetResponse, error) {
	var ts timesheet.TimesheetResponse
	err := c.do(ctx, http.MethodPost, "/timesheets/generate/", nil, req, &ts)
	return ts, err
}

func (c *Client) Timesheet(ctx context.Context, id string) (timesheet.TimesheetResponse, error) {
	var ts timesheet.TimesheetResponse
	err := c.do(ctx, http.MethodGet, timesheetPath(id, ""), nil, nil, &ts)
	return ts, err
}

func (c *Client) Timesheets(ctx context.Context, q TimesheetQuery) (timesheet.ListTimesheetResponse, error) {
	return c.timesheetList(ctx, "/timesheets/", q)
}

func (c *Client) MyTimesheets(ctx context.Context, q TimesheetQuery) (timesheet.ListTimesheetResponse, error) {
	return c.timesheetList(ctx, "/timesheets/my_timesheets/", q)
}

func (c *Client) PendingTimesheets(ctx context.Context, q TimesheetQuery) (timesheet.ListTimesheetResponse, error) {
	return c.timesheetList(ctx, "/timesheets/pending_approval/", q)
}

func (c *Client) timesheetList(ctx context.Context, path string, q TimesheetQuery) (timesheet.ListTimesheetResponse, error) {
	var page timesheet.ListTimesheetResponse
	err := c.do(ctx, http.MethodGet, path, q.Values(), nil, &page)
	return page, err
}

func (c *Client) SubmitTimesheet(ctx context.Context, id, notes string) (timesheet.TimesheetResponse, error) {
	return c.timesheetAction(ctx, id, "submit", timesheet.SubmitTimesheetRequest{Notes: notes})
}

func (c *Client) ApproveTimesheet(ctx context.Context, id string) (timesheet.TimesheetResponse, error) {
	return c.timesheetAction(ctx, id, "approve", struct{}{})
}

func (c *Client) RejectTimesheet(ctx context.Context, id, reason string) (timesheet.TimesheetResponse, error) {
	return c.timesheetAction(ctx, id, "reject", timesheet.RejectTimesheetRequest{Reason: reason})
}

func (c *Client) ReopenTimesheet(ctx context.Context, id string) (timesheet.TimesheetResponse, error) {
	return c.timesheetAction(ctx, id, "reopen", struct{}{})
}

func (c *Client) timesheetAction(ctx context.Context, id, action string, body any) (timesheet.TimesheetResponse, error) {
	var ts timesheet.TimesheetResponse
	err := c.do(ctx, http.MethodPost, timesheetPath(id, action), nil, body, &ts)
	return ts, err
}

func (c *Client) DeleteTimesheet(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, timesheetPath(id, ""), nil, nil, nil)
}

func (c *Client) TimesheetComments(ctx context.Context, id string) ([]timesheet.CommentResponse, error) {
	var comments []timesheet.CommentResponse
	err := c.do(ctx, http.MethodGet, timesheetPath(id, "comments"), nil, nil, &comments)
	return comments, err
}

func (c *Client) AddTimesheetComment(ctx context.Context, id, content string) (timesheet.CommentResponse, error) {
	var comment timesheet.CommentResponse
	err := c.do(ctx, http.MethodPost, timesheetPath(id, "comments"), nil, timesheet.CreateCommentRequest{Content: content}, &comment)
	return comment, err
}
