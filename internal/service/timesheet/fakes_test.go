package timesheet

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/accabog/rhr-sub000/internal/domain/employee"
	"github.com/accabog/rhr-sub000/internal/domain/timesheet"
	"github.com/accabog/rhr-sub000/internal/domain/timetracking"
	"github.com/accabog/rhr-sub000/internal/pkg/workflow"
	"github.com/google/uuid"
)

type passthroughTx struct{}

func (passthroughTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeStore struct {
	mu         sync.Mutex
	sheets     map[string]timesheet.Timesheet
	comments   []timesheet.Comment
	entries    []timetracking.TimeEntry
	employees  map[string]employee.Employee
	userNames  map[string]string
	commentSeq int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		sheets:    map[string]timesheet.Timesheet{},
		employees: map[string]employee.Employee{},
		userNames: map[string]string{},
	}
}

// timesheet.TimesheetRepository
type fakeSheets struct{ *fakeStore }

func (f fakeSheets) Create(ctx context.Context, ts timesheet.Timesheet) (timesheet.Timesheet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, x := range f.sheets {
		if x.TenantID == ts.TenantID && x.EmployeeID == ts.EmployeeID && x.PeriodStart.Equal(ts.PeriodStart) {
			return timesheet.Timesheet{}, timesheet.ErrTimesheetExists
		}
	}
	ts.ID = uuid.NewString()
	f.sheets[ts.ID] = ts
	return f.joined(ts), nil
}

func (f fakeSheets) joined(ts timesheet.Timesheet) timesheet.Timesheet {
	if e, ok := f.employees[ts.EmployeeID]; ok {
		ts.EmployeeName = e.FullName()
	}
	ts.ApprovedByName = ""
	if ts.ApprovedBy != nil {
		ts.ApprovedByName = f.userNames[*ts.ApprovedBy]
	}
	return ts
}

func (f fakeSheets) GetByID(ctx context.Context, tenantID, id string) (timesheet.Timesheet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ts, ok := f.sheets[id]
	if !ok || ts.TenantID != tenantID {
		return timesheet.Timesheet{}, timesheet.ErrTimesheetNotFound
	}
	return f.joined(ts), nil
}

func (f fakeSheets) GetByPeriodStart(ctx context.Context, tenantID, employeeID string, periodStart time.Time) (timesheet.Timesheet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ts := range f.sheets {
		if ts.TenantID == tenantID && ts.EmployeeID == employeeID && ts.PeriodStart.Equal(periodStart) {
			return f.joined(ts), nil
		}
	}
	return timesheet.Timesheet{}, timesheet.ErrTimesheetNotFound
}

func (f fakeSheets) List(ctx context.Context, tenantID string, q timesheet.TimesheetQuery) ([]timesheet.Timesheet, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []timesheet.Timesheet
	for _, ts := range f.sheets {
		if ts.TenantID != tenantID {
			continue
		}
		if q.EmployeeID != "" && ts.EmployeeID != q.EmployeeID {
			continue
		}
		if len(q.Statuses) > 0 {
			match := false
			for _, s := range q.Statuses {
				match = match || ts.Status == s
			}
			if !match {
				continue
			}
		}
		out = append(out, f.joined(ts))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PeriodStart.After(out[j].PeriodStart) })
	total := int64(len(out))
	p := q.Page.Normalize()
	lo := min(p.Offset(), len(out))
	hi := min(lo+p.Limit(), len(out))
	return out[lo:hi], total, nil
}

func (f fakeSheets) Update(ctx context.Context, ts timesheet.Timesheet, from workflow.Status) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.sheets[ts.ID]
	if !ok {
		return timesheet.ErrTimesheetNotFound
	}
	if stored.Status != from {
		return workflow.ErrStatusChanged
	}
	f.sheets[ts.ID] = ts
	return nil
}

func (f fakeSheets) Delete(ctx context.Context, tenantID, id string, from workflow.Status) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ts, ok := f.sheets[id]
	if !ok || ts.TenantID != tenantID {
		return timesheet.ErrTimesheetNotFound
	}
	if ts.Status != from {
		return workflow.ErrStatusChanged
	}
	delete(f.sheets, id)
	return nil
}

// timesheet.CommentRepository
type fakeComments struct{ *fakeStore }

func (f fakeComments) Create(ctx context.Context, c timesheet.Comment) (timesheet.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commentSeq++
	c.ID = uuid.NewString()
	c.CreatedAt = time.Date(2025, 6, 1, 0, 0, f.commentSeq, 0, time.UTC)
	c.AuthorName = f.userNames[c.AuthorID]
	f.comments = append(f.comments, c)
	return c, nil
}

func (f fakeComments) ListByTimesheet(ctx context.Context, tenantID, timesheetID string) ([]timesheet.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []timesheet.Comment
	for _, c := range f.comments {
		if c.TenantID == tenantID && c.TimesheetID == timesheetID {
			out = append(out, c)
		}
	}
	return out, nil
}

// timetracking.TimeEntryRepository
type fakeEntries struct{ *fakeStore }

func (f fakeEntries) Create(ctx context.Context, e timetracking.TimeEntry) (timetracking.TimeEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, x := range f.entries {
		if x.TenantID == e.TenantID && x.EmployeeID == e.EmployeeID && x.IsRunning() {
			return timetracking.TimeEntry{}, timetracking.ErrAlreadyClockedIn
		}
	}
	e.ID = uuid.NewString()
	f.entries = append(f.entries, e)
	return e, nil
}

func (f fakeEntries) GetByID(ctx context.Context, tenantID, id string) (timetracking.TimeEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.entries {
		if e.TenantID == tenantID && e.ID == id {
			return e, nil
		}
	}
	return timetracking.TimeEntry{}, timetracking.ErrTimeEntryNotFound
}

func (f fakeEntries) GetRunning(ctx context.Context, tenantID, employeeID string) (timetracking.TimeEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.entries {
		if e.TenantID == tenantID && e.EmployeeID == employeeID && e.IsRunning() {
			return e, nil
		}
	}
	return timetracking.TimeEntry{}, timetracking.ErrNotClockedIn
}

func (f fakeEntries) Close(ctx context.Context, entry timetracking.TimeEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, e := range f.entries {
		if e.ID == entry.ID && e.IsRunning() {
			f.entries[i] = entry
			return nil
		}
	}
	return timetracking.ErrNotClockedIn
}

func (f fakeEntries) List(ctx context.Context, tenantID string, q timetracking.EntryQuery) ([]timetracking.TimeEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []timetracking.TimeEntry
	for _, e := range f.entries {
		if e.TenantID != tenantID || (q.EmployeeID != "" && e.EmployeeID != q.EmployeeID) {
			continue
		}
		if q.From != nil && e.Date.Before(*q.From) {
			continue
		}
		if q.To != nil && e.Date.After(*q.To) {
			continue
		}
		if q.CompletedOnly && e.IsRunning() {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (f fakeEntries) Approve(ctx context.Context, tenantID, id, approverID string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, e := range f.entries {
		if e.TenantID == tenantID && e.ID == id {
			f.entries[i].IsApproved = true
			f.entries[i].ApprovedBy = &approverID
			f.entries[i].ApprovedAt = &at
			return nil
		}
	}
	return timetracking.ErrTimeEntryNotFound
}

func (f fakeEntries) ApprovePeriod(ctx context.Context, tenantID, employeeID string, from, to time.Time, approverID string, at time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for i, e := range f.entries {
		if e.TenantID != tenantID || e.EmployeeID != employeeID || e.IsRunning() {
			continue
		}
		if e.Date.Before(from) || e.Date.After(to) {
			continue
		}
		f.entries[i].IsApproved = true
		f.entries[i].ApprovedBy = &approverID
		f.entries[i].ApprovedAt = &at
		n++
	}
	return n, nil
}

// employee.EmployeeRepository
type fakeEmployees struct{ *fakeStore }

func (f fakeEmployees) GetByID(ctx context.Context, tenantID, id string) (employee.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.employees[id]
	if !ok || e.TenantID != tenantID {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (f fakeEmployees) GetByUserID(ctx context.Context, tenantID, userID string) (employee.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.employees {
		if e.TenantID == tenantID && e.UserID != nil && *e.UserID == userID {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}
