package timetracking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/accabog/rhr-sub000/internal/domain/tenant"
	"github.com/accabog/rhr-sub000/internal/domain/timetracking"
	"github.com/accabog/rhr-sub000/internal/domain/user"
	"github.com/accabog/rhr-sub000/internal/pkg/database"
)

const defaultEntryTypeName = "Regular"

type TimeTrackingServiceImpl struct {
	tx database.Transactor
	timetracking.TimeEntryTypeRepository
	timetracking.TimeEntryRepository
	now func() time.Time
}

func NewTimeTrackingService(
	tx database.Transactor,
	timeEntryTypeRepository timetracking.TimeEntryTypeRepository,
	timeEntryRepository timetracking.TimeEntryRepository,
) *TimeTrackingServiceImpl {
	return &TimeTrackingServiceImpl{
		tx:                      tx,
		TimeEntryTypeRepository: timeEntryTypeRepository,
		TimeEntryRepository:     timeEntryRepository,
		now:                     time.Now,
	}
}

// WithClock replaces the time source. Entries are dated in the clock's location.
func (t *TimeTrackingServiceImpl) WithClock(now func() time.Time) *TimeTrackingServiceImpl {
	t.now = now
	return t
}

func civilDate(ts time.Time) time.Time {
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
}

// Current implements timetracking.TimeTrackingService.
func (t *TimeTrackingServiceImpl) Current(ctx context.Context, s tenant.Session) (*timetracking.TimeEntryResponse, error) {
	if !s.HasEmployee() {
		return nil, tenant.ErrNoEmployeeProfile
	}
	entry, err := t.TimeEntryRepository.GetRunning(ctx, s.TenantID, s.EmployeeID)
	if err != nil {
		if errors.Is(err, timetracking.ErrNotClockedIn) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get running entry: %w", err)
	}
	resp := timetracking.NewTimeEntryResponse(entry)
	return &resp, nil
}

// ClockIn implements timetracking.TimeTrackingService. Without an entry type
// the tenant's regular type is used, created on first use.
func (t *TimeTrackingServiceImpl) ClockIn(ctx context.Context, s tenant.Session, req timetracking.ClockInRequest) (timetracking.TimeEntryResponse, error) {
	if !s.HasEmployee() {
		return timetracking.TimeEntryResponse{}, tenant.ErrNoEmployeeProfile
	}

	var entryType timetracking.TimeEntryType
	var err error
	if req.EntryTypeID != "" {
		entryType, err = t.TimeEntryTypeRepository.GetByID(ctx, s.TenantID, req.EntryTypeID)
	} else {
		entryType, err = t.TimeEntryTypeRepository.GetOrCreateByCode(ctx, s.TenantID, timetracking.CodeRegular, defaultEntryTypeName)
	}
	if err != nil {
		if errors.Is(err, timetracking.ErrEntryTypeNotFound) {
			return timetracking.TimeEntryResponse{}, err
		}
		return timetracking.TimeEntryResponse{}, fmt.Errorf("failed to resolve entry type: %w", err)
	}

	now := t.now()
	created, err := t.TimeEntryRepository.Create(ctx, timetracking.TimeEntry{
		TenantID:    s.TenantID,
		EmployeeID:  s.EmployeeID,
		EntryTypeID: entryType.ID,
		Date:        civilDate(now),
		StartTime:   timetracking.NewTimeOfDay(now),
		Notes:       req.Notes,
		Project:     req.Project,
		Task:        req.Task,
	})
	if err != nil {
		if errors.Is(err, timetracking.ErrAlreadyClockedIn) {
			return timetracking.TimeEntryResponse{}, err
		}
		return timetracking.TimeEntryResponse{}, fmt.Errorf("failed to clock in: %w", err)
	}

	slog.Info("Clocked in", "tenant_id", s.TenantID, "employee_id", s.EmployeeID, "entry_id", created.ID)
	return timetracking.NewTimeEntryResponse(created), nil
}

// ClockOut implements timetracking.TimeTrackingService. An entry left running
// past midnight is closed at the end of its own day.
func (t *TimeTrackingServiceImpl) ClockOut(ctx context.Context, s tenant.Session, req timetracking.ClockOutRequest) (timetracking.TimeEntryResponse, error) {
	if !s.HasEmployee() {
		return timetracking.TimeEntryResponse{}, tenant.ErrNoEmployeeProfile
	}

	var closed timetracking.TimeEntry
	err := t.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		entry, err := t.TimeEntryRepository.GetRunning(ctx, s.TenantID, s.EmployeeID)
		if err != nil {
			return err
		}

		now := t.now()
		end := timetracking.NewTimeOfDay(now)
		if civilDate(now).After(entry.Date) {
			end = timetracking.TimeOfDay{Hour: 23, Minute: 59, Second: 59}
		}
		entry.EndTime = &end
		entry.BreakMinutes = req.BreakMinutes
		if req.Notes != "" {
			if entry.Notes != "" {
				entry.Notes += "\n" + req.Notes
			} else {
				entry.Notes = req.Notes
			}
		}

		if err := t.TimeEntryRepository.Close(ctx, entry); err != nil {
			return fmt.Errorf("failed to clock out: %w", err)
		}
		closed = entry
		return nil
	})
	if err != nil {
		return timetracking.TimeEntryResponse{}, err
	}

	slog.Info("Clocked out", "tenant_id", s.TenantID, "employee_id", s.EmployeeID, "entry_id", closed.ID, "minutes", closed.DurationMinutes())
	return timetracking.NewTimeEntryResponse(closed), nil
}

// MyEntries implements timetracking.TimeTrackingService.
func (t *TimeTrackingServiceImpl) MyEntries(ctx context.Context, s tenant.Session, filter timetracking.EntryFilter) ([]timetracking.TimeEntryResponse, error) {
	if !s.HasEmployee() {
		return nil, tenant.ErrNoEmployeeProfile
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	query := timetracking.EntryQuery{EmployeeID: s.EmployeeID}
	if filter.StartDate != "" {
		d, _ := time.Parse(timetracking.DateFormat, filter.StartDate)
		query.From = &d
	}
	if filter.EndDate != "" {
		d, _ := time.Parse(timetracking.DateFormat, filter.EndDate)
		query.To = &d
	}

	entries, err := t.TimeEntryRepository.List(ctx, s.TenantID, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list time entries: %w", err)
	}
	resp := make([]timetracking.TimeEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, timetracking.NewTimeEntryResponse(e))
	}
	return resp, nil
}

// Summary implements timetracking.TimeTrackingService. The range defaults to
// the current Monday to Sunday week; either bound may be overridden.
func (t *TimeTrackingServiceImpl) Summary(ctx context.Context, s tenant.Session, filter timetracking.EntryFilter) (timetracking.SummaryResponse, error) {
	if !s.HasEmployee() {
		return timetracking.SummaryResponse{}, tenant.ErrNoEmployeeProfile
	}
	if err := filter.Validate(); err != nil {
		return timetracking.SummaryResponse{}, err
	}

	today := civilDate(t.now())
	offset := (int(today.Weekday()) + 6) % 7
	start := today.AddDate(0, 0, -offset)
	end := start.AddDate(0, 0, 6)
	if filter.StartDate != "" {
		start, _ = time.Parse(timetracking.DateFormat, filter.StartDate)
	}
	if filter.EndDate != "" {
		end, _ = time.Parse(timetracking.DateFormat, filter.EndDate)
	}

	entries, err := t.TimeEntryRepository.List(ctx, s.TenantID, timetracking.EntryQuery{
		EmployeeID:    s.EmployeeID,
		From:          &start,
		To:            &end,
		CompletedOnly: true,
	})
	if err != nil {
		return timetracking.SummaryResponse{}, fmt.Errorf("failed to list time entries: %w", err)
	}

	byDay := make(map[string]*timetracking.Totals)
	for _, e := range entries {
		key := e.Date.Format(timetracking.DateFormat)
		if byDay[key] == nil {
			byDay[key] = &timetracking.Totals{}
		}
		byDay[key].Add(e)
	}
	days := make([]string, 0, len(byDay))
	for k := range byDay {
		days = append(days, k)
	}
	sort.Strings(days)

	total := timetracking.Summarize(entries)
	resp := timetracking.SummaryResponse{
		StartDate:     start.Format(timetracking.DateFormat),
		EndDate:       end.Format(timetracking.DateFormat),
		TotalHours:    timetracking.Hours(total.TotalMinutes()).StringFixed(2),
		RegularHours:  timetracking.Hours(total.RegularMinutes).StringFixed(2),
		OvertimeHours: timetracking.Hours(total.OvertimeMinutes).StringFixed(2),
		BreakHours:    timetracking.Hours(total.BreakMinutes).StringFixed(2),
		EntriesCount:  total.Entries,
		Daily:         make([]timetracking.DailySummary, 0, len(days)),
	}
	for _, k := range days {
		d := byDay[k]
		resp.Daily = append(resp.Daily, timetracking.DailySummary{
			Date:          k,
			TotalHours:    timetracking.Hours(d.TotalMinutes()).StringFixed(2),
			RegularHours:  timetracking.Hours(d.RegularMinutes).StringFixed(2),
			OvertimeHours: timetracking.Hours(d.OvertimeMinutes).StringFixed(2),
			BreakHours:    timetracking.Hours(d.BreakMinutes).StringFixed(2),
			EntriesCount:  d.Entries,
		})
	}
	return resp, nil
}

// ApproveEntry implements timetracking.TimeTrackingService.
func (t *TimeTrackingServiceImpl) ApproveEntry(ctx context.Context, s tenant.Session, id string) (timetracking.TimeEntryResponse, error) {
	if !s.CanApprove() {
		return timetracking.TimeEntryResponse{}, user.ErrManagerAccessRequired
	}

	var approved timetracking.TimeEntry
	err := t.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		entry, err := t.TimeEntryRepository.GetByID(ctx, s.TenantID, id)
		if err != nil {
			return err
		}
		if entry.IsRunning() {
			return timetracking.ErrEntryNotCompleted
		}
		if err := t.TimeEntryRepository.Approve(ctx, s.TenantID, id, s.UserID, t.now().UTC()); err != nil {
			return fmt.Errorf("failed to approve time entry: %w", err)
		}
		approved, err = t.TimeEntryRepository.GetByID(ctx, s.TenantID, id)
		return err
	})
	if err != nil {
		return timetracking.TimeEntryResponse{}, err
	}
	return timetracking.NewTimeEntryResponse(approved), nil
}
