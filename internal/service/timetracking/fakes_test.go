package timetracking

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/accabog/rhr-sub000/internal/domain/timetracking"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type passthroughTx struct{}

func (passthroughTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeStore struct {
	mu      sync.Mutex
	types   map[string]timetracking.TimeEntryType
	entries []timetracking.TimeEntry
}

func newFakeStore() *fakeStore {
	return &fakeStore{types: map[string]timetracking.TimeEntryType{}}
}

type fakeTypes struct{ *fakeStore }

func (f fakeTypes) GetByID(ctx context.Context, tenantID, id string) (timetracking.TimeEntryType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.types[id]
	if !ok || t.TenantID != tenantID || !t.IsActive {
		return timetracking.TimeEntryType{}, timetracking.ErrEntryTypeNotFound
	}
	return t, nil
}

func (f fakeTypes) GetOrCreateByCode(ctx context.Context, tenantID, code, name string) (timetracking.TimeEntryType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.types {
		if t.TenantID == tenantID && t.Code == code {
			return t, nil
		}
	}
	t := timetracking.TimeEntryType{
		ID: uuid.NewString(), TenantID: tenantID, Code: code, Name: name,
		IsPaid: true, Multiplier: decimal.NewFromInt(1), IsActive: true,
	}
	f.types[t.ID] = t
	return t, nil
}

type fakeEntries struct{ *fakeStore }

func (f fakeEntries) withType(e timetracking.TimeEntry) timetracking.TimeEntry {
	if t, ok := f.types[e.EntryTypeID]; ok {
		e.EntryTypeCode = t.Code
		e.EntryTypeName = t.Name
	}
	return e
}

func (f fakeEntries) Create(ctx context.Context, e timetracking.TimeEntry) (timetracking.TimeEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, x := range f.entries {
		if x.TenantID == e.TenantID && x.EmployeeID == e.EmployeeID && x.IsRunning() {
			return timetracking.TimeEntry{}, timetracking.ErrAlreadyClockedIn
		}
	}
	e.ID = uuid.NewString()
	e = f.withType(e)
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
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
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
	return 0, nil
}
