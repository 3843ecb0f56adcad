package timesheet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/accabog/rhr-sub000/internal/domain/employee"
	"github.com/accabog/rhr-sub000/internal/domain/tenant"
	"github.com/accabog/rhr-sub000/internal/domain/timesheet"
	"github.com/accabog/rhr-sub000/internal/domain/timetracking"
	"github.com/accabog/rhr-sub000/internal/domain/user"
	"github.com/accabog/rhr-sub000/internal/pkg/database"
	"github.com/accabog/rhr-sub000/internal/pkg/pagination"
	"github.com/accabog/rhr-sub000/internal/pkg/workflow"
)

type TimesheetServiceImpl struct {
	tx database.Transactor
	timesheet.TimesheetRepository
	timesheet.CommentRepository
	timetracking.TimeEntryRepository
	employee.EmployeeRepository
	now func() time.Time
}

func NewTimesheetService(
	tx database.Transactor,
	timesheetRepository timesheet.TimesheetRepository,
	commentRepository timesheet.CommentRepository,
	timeEntryRepository timetracking.TimeEntryRepository,
	employeeRepository employee.EmployeeRepository,
) *TimesheetServiceImpl {
	return &TimesheetServiceImpl{
		tx:                  tx,
		TimesheetRepository: timesheetRepository,
		CommentRepository:   commentRepository,
		TimeEntryRepository: timeEntryRepository,
		EmployeeRepository:  employeeRepository,
		now:                 time.Now,
	}
}

// WithClock replaces the time source.
func (t *TimesheetServiceImpl) WithClock(now func() time.Time) *TimesheetServiceImpl {
	t.now = now
	return t
}

// Generate implements timesheet.TimesheetService. Totals are computed from the
// employee's completed entries dated within the period.
func (t *TimesheetServiceImpl) Generate(ctx context.Context, s tenant.Session, req timesheet.GenerateTimesheetRequest) (timesheet.TimesheetResponse, error) {
	employeeID := s.EmployeeID
	if req.EmployeeID != "" && req.EmployeeID != s.EmployeeID {
		if !s.CanApprove() {
			return timesheet.TimesheetResponse{}, user.ErrManagerAccessRequired
		}
		if _, err := t.EmployeeRepository.GetByID(ctx, s.TenantID, req.EmployeeID); err != nil {
			if errors.Is(err, employee.ErrEmployeeNotFound) {
				return timesheet.TimesheetResponse{}, err
			}
			return timesheet.TimesheetResponse{}, fmt.Errorf("failed to get employee: %w", err)
		}
		employeeID = req.EmployeeID
	}
	if employeeID == "" {
		return timesheet.TimesheetResponse{}, tenant.ErrNoEmployeeProfile
	}

	start, err := time.Parse(timesheet.DateFormat, req.PeriodStart)
	if err != nil {
		return timesheet.TimesheetResponse{}, fmt.Errorf("failed to parse period_start: %w", err)
	}
	end, err := time.Parse(timesheet.DateFormat, req.PeriodEnd)
	if err != nil {
		return timesheet.TimesheetResponse{}, fmt.Errorf("failed to parse period_end: %w", err)
	}

	var created timesheet.Timesheet
	err = t.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		ts := timesheet.Timesheet{
			TenantID:    s.TenantID,
			EmployeeID:  employeeID,
			PeriodStart: start,
			PeriodEnd:   end,
			Status:      workflow.StatusDraft,
		}
		if err := t.recalculate(ctx, &ts); err != nil {
			return err
		}
		created, err = t.TimesheetRepository.Create(ctx, ts)
		if err != nil {
			if errors.Is(err, timesheet.ErrTimesheetExists) {
				return err
			}
			return fmt.Errorf("failed to create timesheet: %w", err)
		}
		return nil
	})
	if err != nil {
		return timesheet.TimesheetResponse{}, err
	}

	slog.Info("Timesheet generated", "tenant_id", s.TenantID, "timesheet_id", created.ID, "employee_id", employeeID)
	return t.detail(ctx, created)
}

// Get implements timesheet.TimesheetService.
func (t *TimesheetServiceImpl) Get(ctx context.Context, s tenant.Session, id string) (timesheet.TimesheetResponse, error) {
	ts, err := t.load(ctx, s, id)
	if err != nil {
		return timesheet.TimesheetResponse{}, err
	}
	return t.detail(ctx, ts)
}

// List implements timesheet.TimesheetService. Callers who cannot approve only
// see their own timesheets.
func (t *TimesheetServiceImpl) List(ctx context.Context, s tenant.Session, filter timesheet.TimesheetFilter) (timesheet.ListTimesheetResponse, error) {
	query, err := timesheetQuery(filter)
	if err != nil {
		return timesheet.ListTimesheetResponse{}, err
	}
	if !s.CanApprove() {
		if !s.HasEmployee() {
			return timesheet.ListTimesheetResponse{}, tenant.ErrNoEmployeeProfile
		}
		query.EmployeeID = s.EmployeeID
	}
	return t.list(ctx, s.TenantID, query)
}

// MyTimesheets implements timesheet.TimesheetService.
func (t *TimesheetServiceImpl) MyTimesheets(ctx context.Context, s tenant.Session, filter timesheet.TimesheetFilter) (timesheet.ListTimesheetResponse, error) {
	if !s.HasEmployee() {
		return timesheet.ListTimesheetResponse{}, tenant.ErrNoEmployeeProfile
	}
	query, err := timesheetQuery(filter)
	if err != nil {
		return timesheet.ListTimesheetResponse{}, err
	}
	query.EmployeeID = s.EmployeeID
	return t.list(ctx, s.TenantID, query)
}

// PendingApproval implements timesheet.TimesheetService.
func (t *TimesheetServiceImpl) PendingApproval(ctx context.Context, s tenant.Session, filter timesheet.TimesheetFilter) (timesheet.ListTimesheetResponse, error) {
	if !s.CanApprove() {
		return timesheet.ListTimesheetResponse{}, user.ErrManagerAccessRequired
	}
	filter.Status = ""
	query, err := timesheetQuery(filter)
	if err != nil {
		return timesheet.ListTimesheetResponse{}, err
	}
	query.Statuses = []workflow.Status{workflow.StatusSubmitted}
	return t.list(ctx, s.TenantID, query)
}

// Submit implements timesheet.TimesheetService. Totals are refreshed before
// the timesheet leaves draft.
func (t *TimesheetServiceImpl) Submit(ctx context.Context, s tenant.Session, id string, req timesheet.SubmitTimesheetRequest) (timesheet.TimesheetResponse, error) {
	return t.transition(ctx, s, id, workflow.ActionSubmit, func(ctx context.Context, ts *timesheet.Timesheet) (string, error) {
		if err := t.recalculate(ctx, ts); err != nil {
			return "", err
		}
		now := t.now().UTC()
		ts.SubmittedAt = &now
		if notes := strings.TrimSpace(req.Notes); notes != "" {
			return "Submitted: " + notes, nil
		}
		return "", nil
	})
}

// Approve implements timesheet.TimesheetService. The time entries of the
// period are approved along with the timesheet.
func (t *TimesheetServiceImpl) Approve(ctx context.Context, s tenant.Session, id string) (timesheet.TimesheetResponse, error) {
	return t.transition(ctx, s, id, workflow.ActionApprove, func(ctx context.Context, ts *timesheet.Timesheet) (string, error) {
		now := t.now().UTC()
		approver := s.UserID
		ts.ApprovedBy = &approver
		ts.ApprovedAt = &now
		ts.RejectionReason = ""

		n, err := t.TimeEntryRepository.ApprovePeriod(ctx, s.TenantID, ts.EmployeeID, ts.PeriodStart, ts.PeriodEnd, approver, now)
		if err != nil {
			return "", fmt.Errorf("failed to approve time entries: %w", err)
		}
		slog.Debug("Time entries approved with timesheet", "timesheet_id", ts.ID, "entries", n)
		return "Timesheet approved", nil
	})
}

// Reject implements timesheet.TimesheetService.
func (t *TimesheetServiceImpl) Reject(ctx context.Context, s tenant.Session, id string, req timesheet.RejectTimesheetRequest) (timesheet.TimesheetResponse, error) {
	if err := req.Validate(); err != nil {
		return timesheet.TimesheetResponse{}, err
	}
	return t.transition(ctx, s, id, workflow.ActionReject, func(ctx context.Context, ts *timesheet.Timesheet) (string, error) {
		reason := strings.TrimSpace(req.Reason)
		ts.RejectionReason = reason
		return "Rejected: " + reason, nil
	})
}

// Reopen implements timesheet.TimesheetService.
func (t *TimesheetServiceImpl) Reopen(ctx context.Context, s tenant.Session, id string) (timesheet.TimesheetResponse, error) {
	return t.transition(ctx, s, id, workflow.ActionReopen, func(ctx context.Context, ts *timesheet.Timesheet) (string, error) {
		ts.RejectionReason = ""
		ts.SubmittedAt = nil
		ts.ApprovedBy = nil
		ts.ApprovedAt = nil
		return "", nil
	})
}

// Delete implements timesheet.TimesheetService. Only drafts can be deleted.
func (t *TimesheetServiceImpl) Delete(ctx context.Context, s tenant.Session, id string) error {
	return t.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		ts, err := t.load(ctx, s, id)
		if err != nil {
			return err
		}
		if err := authorize(s, ts, workflow.ActionDelete); err != nil {
			return err
		}
		if _, err := workflow.Next(workflow.KindTimesheet, ts.Status, workflow.ActionDelete); err != nil {
			return err
		}
		if err := t.TimesheetRepository.Delete(ctx, s.TenantID, ts.ID, ts.Status); err != nil {
			if errors.Is(err, workflow.ErrStatusChanged) {
				return &workflow.TransitionError{Kind: workflow.KindTimesheet, Action: workflow.ActionDelete, From: ts.Status}
			}
			return fmt.Errorf("failed to delete timesheet: %w", err)
		}
		return nil
	})
}

// ListComments implements timesheet.TimesheetService.
func (t *TimesheetServiceImpl) ListComments(ctx context.Context, s tenant.Session, id string) ([]timesheet.CommentResponse, error) {
	ts, err := t.load(ctx, s, id)
	if err != nil {
		return nil, err
	}
	comments, err := t.CommentRepository.ListByTimesheet(ctx, s.TenantID, ts.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	resp := make([]timesheet.CommentResponse, 0, len(comments))
	for _, c := range comments {
		resp = append(resp, timesheet.NewCommentResponse(c))
	}
	return resp, nil
}

// AddComment implements timesheet.TimesheetService.
func (t *TimesheetServiceImpl) AddComment(ctx context.Context, s tenant.Session, id string, req timesheet.CreateCommentRequest) (timesheet.CommentResponse, error) {
	ts, err := t.load(ctx, s, id)
	if err != nil {
		return timesheet.CommentResponse{}, err
	}
	c, err := t.CommentRepository.Create(ctx, timesheet.Comment{
		TenantID:    s.TenantID,
		TimesheetID: ts.ID,
		AuthorID:    s.UserID,
		Content:     strings.TrimSpace(req.Content),
	})
	if err != nil {
		return timesheet.CommentResponse{}, fmt.Errorf("failed to create comment: %w", err)
	}
	return timesheet.NewCommentResponse(c), nil
}

// transition applies action to the timesheet inside a transaction. apply
// mutates the timesheet and may return a comment to record.
func (t *TimesheetServiceImpl) transition(
	ctx context.Context,
	s tenant.Session,
	id string,
	action workflow.Action,
	apply func(ctx context.Context, ts *timesheet.Timesheet) (string, error),
) (timesheet.TimesheetResponse, error) {
	var updated timesheet.Timesheet
	err := t.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		ts, err := t.load(ctx, s, id)
		if err != nil {
			return err
		}
		if err := authorize(s, ts, action); err != nil {
			return err
		}
		from := ts.Status
		next, err := workflow.Next(workflow.KindTimesheet, from, action)
		if err != nil {
			return err
		}
		ts.Status = next

		comment, err := apply(ctx, &ts)
		if err != nil {
			return err
		}
		if err := t.TimesheetRepository.Update(ctx, ts, from); err != nil {
			if errors.Is(err, workflow.ErrStatusChanged) {
				return &workflow.TransitionError{Kind: workflow.KindTimesheet, Action: action, From: from}
			}
			return fmt.Errorf("failed to %s timesheet: %w", action, err)
		}
		if comment != "" {
			if _, err := t.CommentRepository.Create(ctx, timesheet.Comment{
				TenantID:    s.TenantID,
				TimesheetID: ts.ID,
				AuthorID:    s.UserID,
				Content:     comment,
			}); err != nil {
				return fmt.Errorf("failed to record comment: %w", err)
			}
		}

		updated, err = t.TimesheetRepository.GetByID(ctx, s.TenantID, ts.ID)
		return err
	})
	if err != nil {
		return timesheet.TimesheetResponse{}, err
	}

	slog.Info("Timesheet transition", "tenant_id", s.TenantID, "timesheet_id", id, "action", action, "status", updated.Status)
	return timesheet.NewTimesheetResponse(updated), nil
}

// authorize checks the caller may take action: requester actions belong to
// the owner, manager actions to approvers.
func authorize(s tenant.Session, ts timesheet.Timesheet, action workflow.Action) error {
	tr, ok := workflow.Lookup(workflow.KindTimesheet, action)
	if !ok {
		return &workflow.TransitionError{Kind: workflow.KindTimesheet, Action: action, From: ts.Status}
	}
	switch tr.View {
	case workflow.ViewManager:
		if !s.CanApprove() {
			return user.ErrManagerAccessRequired
		}
	case workflow.ViewRequester:
		if ts.EmployeeID != s.EmployeeID {
			return timesheet.ErrNotTimesheetOwner
		}
	}
	return nil
}

// load fetches a timesheet the caller may see. Timesheets of other employees
// are reported missing to callers who cannot approve.
func (t *TimesheetServiceImpl) load(ctx context.Context, s tenant.Session, id string) (timesheet.Timesheet, error) {
	ts, err := t.TimesheetRepository.GetByID(ctx, s.TenantID, id)
	if err != nil {
		if errors.Is(err, timesheet.ErrTimesheetNotFound) {
			return timesheet.Timesheet{}, err
		}
		return timesheet.Timesheet{}, fmt.Errorf("failed to get timesheet: %w", err)
	}
	if !s.CanApprove() && ts.EmployeeID != s.EmployeeID {
		return timesheet.Timesheet{}, timesheet.ErrTimesheetNotFound
	}
	return ts, nil
}

func (t *TimesheetServiceImpl) periodEntries(ctx context.Context, ts timesheet.Timesheet, completedOnly bool) ([]timetracking.TimeEntry, error) {
	from, to := ts.PeriodStart, ts.PeriodEnd
	entries, err := t.TimeEntryRepository.List(ctx, ts.TenantID, timetracking.EntryQuery{
		EmployeeID:    ts.EmployeeID,
		From:          &from,
		To:            &to,
		CompletedOnly: completedOnly,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list time entries: %w", err)
	}
	return entries, nil
}

func (t *TimesheetServiceImpl) recalculate(ctx context.Context, ts *timesheet.Timesheet) error {
	entries, err := t.periodEntries(ctx, *ts, true)
	if err != nil {
		return err
	}
	ts.ApplyTotals(timetracking.Summarize(entries))
	return nil
}

func (t *TimesheetServiceImpl) detail(ctx context.Context, ts timesheet.Timesheet) (timesheet.TimesheetResponse, error) {
	resp := timesheet.NewTimesheetResponse(ts)

	entries, err := t.periodEntries(ctx, ts, false)
	if err != nil {
		return timesheet.TimesheetResponse{}, err
	}
	resp.TimeEntries = make([]timetracking.TimeEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp.TimeEntries = append(resp.TimeEntries, timetracking.NewTimeEntryResponse(e))
	}

	comments, err := t.CommentRepository.ListByTimesheet(ctx, ts.TenantID, ts.ID)
	if err != nil {
		return timesheet.TimesheetResponse{}, fmt.Errorf("failed to list comments: %w", err)
	}
	resp.Comments = make([]timesheet.CommentResponse, 0, len(comments))
	for _, c := range comments {
		resp.Comments = append(resp.Comments, timesheet.NewCommentResponse(c))
	}
	return resp, nil
}

func timesheetQuery(filter timesheet.TimesheetFilter) (timesheet.TimesheetQuery, error) {
	if err := filter.Validate(); err != nil {
		return timesheet.TimesheetQuery{}, err
	}
	q := timesheet.TimesheetQuery{Page: filter.Page.Normalize()}
	if filter.Status != "" {
		for _, st := range strings.Split(filter.Status, ",") {
			q.Statuses = append(q.Statuses, workflow.Status(st))
		}
	}
	return q, nil
}

func (t *TimesheetServiceImpl) list(ctx context.Context, tenantID string, query timesheet.TimesheetQuery) (timesheet.ListTimesheetResponse, error) {
	sheets, total, err := t.TimesheetRepository.List(ctx, tenantID, query)
	if err != nil {
		return timesheet.ListTimesheetResponse{}, fmt.Errorf("failed to list timesheets: %w", err)
	}
	results := make([]timesheet.TimesheetResponse, 0, len(sheets))
	for _, ts := range sheets {
		results = append(results, timesheet.NewTimesheetResponse(ts))
	}
	return pagination.NewPage(results, total, query.Page), nil
}
