package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/accabog/rhr-sub000/internal/domain/timetracking"
	"github.com/accabog/rhr-sub000/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type timeEntryTypeRepositoryImpl struct {
	db *database.DB
}

func NewTimeEntryTypeRepository(db *database.DB) timetracking.TimeEntryTypeRepository {
	return &timeEntryTypeRepositoryImpl{db: db}
}

const timeEntryTypeColumns = `id, tenant_id, name, code, is_paid, multiplier, color, is_active, created_at, updated_at`

// GetByID implements timetracking.TimeEntryTypeRepository.
func (r *timeEntryTypeRepositoryImpl) GetByID(ctx context.Context, tenantID, id string) (timetracking.TimeEntryType, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + timeEntryTypeColumns + ` FROM time_entry_types WHERE tenant_id = $1 AND id = $2 AND is_active = TRUE`
	return scanTimeEntryType(q.QueryRow(ctx, query, tenantID, id))
}

// GetOrCreateByCode implements timetracking.TimeEntryTypeRepository.
func (r *timeEntryTypeRepositoryImpl) GetOrCreateByCode(ctx context.Context, tenantID, code, name string) (timetracking.TimeEntryType, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO time_entry_types (id, tenant_id, name, code, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (tenant_id, code) DO UPDATE SET code = EXCLUDED.code
		RETURNING ` + timeEntryTypeColumns
	return scanTimeEntryType(q.QueryRow(ctx, query, newID(), tenantID, name, code))
}

func scanTimeEntryType(row pgx.Row) (timetracking.TimeEntryType, error) {
	var t timetracking.TimeEntryType
	err := row.Scan(&t.ID, &t.TenantID, &t.Name, &t.Code, &t.IsPaid, &t.Multiplier, &t.Color, &t.IsActive, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timetracking.TimeEntryType{}, timetracking.ErrEntryTypeNotFound
		}
		return timetracking.TimeEntryType{}, err
	}
	return t, nil
}

type timeEntryRepositoryImpl struct {
	db *database.DB
}

func NewTimeEntryRepository(db *database.DB) timetracking.TimeEntryRepository {
	return &timeEntryRepositoryImpl{db: db}
}

const timeEntrySelect = `
	SELECT te.id, te.tenant_id, te.employee_id, te.entry_type_id, te.date,
		   te.start_time, te.end_time, te.break_minutes, te.notes, te.project, te.task,
		   te.is_approved, te.approved_by, te.approved_at, te.created_at, te.updated_at,
		   TRIM(e.first_name || ' ' || e.last_name), tt.code, tt.name
	FROM time_entries te
	JOIN employees e ON e.id = te.employee_id
	JOIN time_entry_types tt ON tt.id = te.entry_type_id
`

// Create implements timetracking.TimeEntryRepository.
func (r *timeEntryRepositoryImpl) Create(ctx context.Context, entry timetracking.TimeEntry) (timetracking.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO time_entries (
			id, tenant_id, employee_id, entry_type_id, date,
			start_time, end_time, break_minutes, notes, project, task,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9, $10, $11,
			NOW(), NOW()
		)
	`
	entry.ID = newID()
	_, err := q.Exec(ctx, query,
		entry.ID, entry.TenantID, entry.EmployeeID, entry.EntryTypeID, entry.Date,
		toPgTime(&entry.StartTime), toPgTime(entry.EndTime), entry.BreakMinutes, entry.Notes, entry.Project, entry.Task,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return timetracking.TimeEntry{}, timetracking.ErrAlreadyClockedIn
		}
		return timetracking.TimeEntry{}, err
	}
	return r.GetByID(ctx, entry.TenantID, entry.ID)
}

// GetByID implements timetracking.TimeEntryRepository.
func (r *timeEntryRepositoryImpl) GetByID(ctx context.Context, tenantID, id string) (timetracking.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)
	query := timeEntrySelect + ` WHERE te.tenant_id = $1 AND te.id = $2`
	e, err := scanTimeEntry(q.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timetracking.TimeEntry{}, timetracking.ErrTimeEntryNotFound
		}
		return timetracking.TimeEntry{}, err
	}
	return e, nil
}

// GetRunning implements timetracking.TimeEntryRepository.
func (r *timeEntryRepositoryImpl) GetRunning(ctx context.Context, tenantID, employeeID string) (timetracking.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)
	query := timeEntrySelect + ` WHERE te.tenant_id = $1 AND te.employee_id = $2 AND te.end_time IS NULL FOR UPDATE OF te`
	e, err := scanTimeEntry(q.QueryRow(ctx, query, tenantID, employeeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timetracking.TimeEntry{}, timetracking.ErrNotClockedIn
		}
		return timetracking.TimeEntry{}, err
	}
	return e, nil
}

// Close implements timetracking.TimeEntryRepository.
func (r *timeEntryRepositoryImpl) Close(ctx context.Context, entry timetracking.TimeEntry) error {
	q := GetQuerier(ctx, r.db)
	query := `
		UPDATE time_entries
		SET end_time = $3, break_minutes = $4, notes = $5, updated_at = NOW()
		WHERE tenant_id = $1 AND id = $2 AND end_time IS NULL
	`
	tag, err := q.Exec(ctx, query, entry.TenantID, entry.ID, toPgTime(entry.EndTime), entry.BreakMinutes, entry.Notes)
	if err != nil {
		return err
	}
	if tag.RowsAffected() != 1 {
		return timetracking.ErrNotClockedIn
	}
	return nil
}

// List implements timetracking.TimeEntryRepository.
func (r *timeEntryRepositoryImpl) List(ctx context.Context, tenantID string, query timetracking.EntryQuery) ([]timetracking.TimeEntry, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"te.tenant_id = $1"}
	args := []any{tenantID}
	argIdx := 2

	if query.EmployeeID != "" {
		conditions = append(conditions, fmt.Sprintf("te.employee_id = $%d", argIdx))
		args = append(args, query.EmployeeID)
		argIdx++
	}
	if query.From != nil {
		conditions = append(conditions, fmt.Sprintf("te.date >= $%d", argIdx))
		args = append(args, *query.From)
		argIdx++
	}
	if query.To != nil {
		conditions = append(conditions, fmt.Sprintf("te.date <= $%d", argIdx))
		args = append(args, *query.To)
	}
	if query.CompletedOnly {
		conditions = append(conditions, "te.end_time IS NOT NULL")
	}

	sql := timeEntrySelect + ` WHERE ` + strings.Join(conditions, " AND ") + ` ORDER BY te.date DESC, te.start_time DESC`
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []timetracking.TimeEntry
	for rows.Next() {
		e, err := scanTimeEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Approve implements timetracking.TimeEntryRepository.
func (r *timeEntryRepositoryImpl) Approve(ctx context.Context, tenantID, id, approverID string, at time.Time) error {
	q := GetQuerier(ctx, r.db)
	query := `
		UPDATE time_entries
		SET is_approved = TRUE, approved_by = $3, approved_at = $4, updated_at = NOW()
		WHERE tenant_id = $1 AND id = $2
	`
	tag, err := q.Exec(ctx, query, tenantID, id, approverID, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() != 1 {
		return timetracking.ErrTimeEntryNotFound
	}
	return nil
}

// ApprovePeriod implements timetracking.TimeEntryRepository.
func (r *timeEntryRepositoryImpl) ApprovePeriod(ctx context.Context, tenantID, employeeID string, from, to time.Time, approverID string, at time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		UPDATE time_entries
		SET is_approved = TRUE, approved_by = $5, approved_at = $6, updated_at = NOW()
		WHERE tenant_id = $1 AND employee_id = $2 AND date BETWEEN $3 AND $4 AND end_time IS NOT NULL
	`
	tag, err := q.Exec(ctx, query, tenantID, employeeID, from, to, approverID, at)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanTimeEntry(row pgx.Row) (timetracking.TimeEntry, error) {
	var e timetracking.TimeEntry
	var start, end pgtype.Time
	err := row.Scan(
		&e.ID, &e.TenantID, &e.EmployeeID, &e.EntryTypeID, &e.Date,
		&start, &end, &e.BreakMinutes, &e.Notes, &e.Project, &e.Task,
		&e.IsApproved, &e.ApprovedBy, &e.ApprovedAt, &e.CreatedAt, &e.UpdatedAt,
		&e.EmployeeName, &e.EntryTypeCode, &e.EntryTypeName,
	)
	if err != nil {
		return timetracking.TimeEntry{}, err
	}
	e.StartTime = fromPgTime(start)
	if end.Valid {
		t := fromPgTime(end)
		e.EndTime = &t
	}
	return e, nil
}

func toPgTime(t *timetracking.TimeOfDay) pgtype.Time {
	if t == nil {
		return pgtype.Time{}
	}
	return pgtype.Time{Microseconds: t.Duration().Microseconds(), Valid: true}
}

func fromPgTime(t pgtype.Time) timetracking.TimeOfDay {
	return timetracking.TimeOfDayFromDuration(time.Duration(t.Microseconds) * time.Microsecond)
}
