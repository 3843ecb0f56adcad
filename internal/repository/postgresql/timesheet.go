package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/accabog/rhr-sub000/internal/domain/timesheet"
	"github.com/accabog/rhr-sub000/internal/pkg/database"
	"github.com/accabog/rhr-sub000/internal/pkg/workflow"
	"github.com/jackc/pgx/v5"
)

type timesheetRepositoryImpl struct {
	db *database.DB
}

func NewTimesheetRepository(db *database.DB) timesheet.TimesheetRepository {
	return &timesheetRepositoryImpl{db: db}
}

const timesheetSelect = `
	SELECT ts.id, ts.tenant_id, ts.employee_id, ts.period_start, ts.period_end, ts.status,
		   ts.total_regular_hours, ts.total_overtime_hours, ts.total_break_hours,
		   ts.submitted_at, ts.approved_by, ts.approved_at, ts.rejection_reason,
		   ts.created_at, ts.updated_at,
		   TRIM(e.first_name || ' ' || e.last_name),
		   COALESCE(TRIM(u.first_name || ' ' || u.last_name), '')
	FROM timesheets ts
	JOIN employees e ON e.id = ts.employee_id
	LEFT JOIN users u ON u.id = ts.approved_by
`

// Create implements timesheet.TimesheetRepository.
func (r *timesheetRepositoryImpl) Create(ctx context.Context, ts timesheet.Timesheet) (timesheet.Timesheet, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO timesheets (
			id, tenant_id, employee_id, period_start, period_end, status,
			total_regular_hours, total_overtime_hours, total_break_hours,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9,
			NOW(), NOW()
		)
	`
	ts.ID = newID()
	_, err := q.Exec(ctx, query,
		ts.ID, ts.TenantID, ts.EmployeeID, ts.PeriodStart, ts.PeriodEnd, string(ts.Status),
		ts.TotalRegularHours, ts.TotalOvertimeHours, ts.TotalBreakHours,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return timesheet.Timesheet{}, timesheet.ErrTimesheetExists
		}
		return timesheet.Timesheet{}, err
	}
	return r.GetByID(ctx, ts.TenantID, ts.ID)
}

// GetByID implements timesheet.TimesheetRepository.
func (r *timesheetRepositoryImpl) GetByID(ctx context.Context, tenantID, id string) (timesheet.Timesheet, error) {
	q := GetQuerier(ctx, r.db)
	query := timesheetSelect + ` WHERE ts.tenant_id = $1 AND ts.id = $2`
	return scanTimesheetOne(q.QueryRow(ctx, query, tenantID, id))
}

// GetByPeriodStart implements timesheet.TimesheetRepository.
func (r *timesheetRepositoryImpl) GetByPeriodStart(ctx context.Context, tenantID, employeeID string, periodStart time.Time) (timesheet.Timesheet, error) {
	q := GetQuerier(ctx, r.db)
	query := timesheetSelect + ` WHERE ts.tenant_id = $1 AND ts.employee_id = $2 AND ts.period_start = $3`
	return scanTimesheetOne(q.QueryRow(ctx, query, tenantID, employeeID, periodStart))
}

// List implements timesheet.TimesheetRepository.
func (r *timesheetRepositoryImpl) List(ctx context.Context, tenantID string, query timesheet.TimesheetQuery) ([]timesheet.Timesheet, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"ts.tenant_id = $1"}
	args := []any{tenantID}
	argIdx := 2

	if query.EmployeeID != "" {
		conditions = append(conditions, fmt.Sprintf("ts.employee_id = $%d", argIdx))
		args = append(args, query.EmployeeID)
		argIdx++
	}
	if len(query.Statuses) > 0 {
		statuses := make([]string, len(query.Statuses))
		for i, s := range query.Statuses {
			statuses[i] = string(s)
		}
		conditions = append(conditions, fmt.Sprintf("ts.status = ANY($%d)", argIdx))
		args = append(args, statuses)
		argIdx++
	}

	where := " WHERE " + strings.Join(conditions, " AND ")

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM timesheets ts`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page := query.Page.Normalize()
	listQuery := timesheetSelect + where +
		fmt.Sprintf(" ORDER BY ts.period_start DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, page.Limit(), page.Offset())

	rows, err := q.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var sheets []timesheet.Timesheet
	for rows.Next() {
		ts, err := scanTimesheet(rows)
		if err != nil {
			return nil, 0, err
		}
		sheets = append(sheets, ts)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return sheets, total, nil
}

// Update implements timesheet.TimesheetRepository.
func (r *timesheetRepositoryImpl) Update(ctx context.Context, ts timesheet.Timesheet, from workflow.Status) error {
	q := GetQuerier(ctx, r.db)
	query := `
		UPDATE timesheets SET
			status = $3,
			total_regular_hours = $4, total_overtime_hours = $5, total_break_hours = $6,
			submitted_at = $7, approved_by = $8, approved_at = $9, rejection_reason = $10,
			updated_at = NOW()
		WHERE tenant_id = $1 AND id = $2 AND status = $11
	`
	tag, err := q.Exec(ctx, query,
		ts.TenantID, ts.ID,
		string(ts.Status),
		ts.TotalRegularHours, ts.TotalOvertimeHours, ts.TotalBreakHours,
		ts.SubmittedAt, ts.ApprovedBy, ts.ApprovedAt, ts.RejectionReason,
		string(from),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() != 1 {
		return statusGuardMiss(ctx, q, "timesheets", ts.TenantID, ts.ID, timesheet.ErrTimesheetNotFound)
	}
	return nil
}

// Delete implements timesheet.TimesheetRepository.
func (r *timesheetRepositoryImpl) Delete(ctx context.Context, tenantID, id string, from workflow.Status) error {
	q := GetQuerier(ctx, r.db)
	tag, err := q.Exec(ctx,
		`DELETE FROM timesheets WHERE tenant_id = $1 AND id = $2 AND status = $3`,
		tenantID, id, string(from),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() != 1 {
		return statusGuardMiss(ctx, q, "timesheets", tenantID, id, timesheet.ErrTimesheetNotFound)
	}
	return nil
}

func scanTimesheetOne(row pgx.Row) (timesheet.Timesheet, error) {
	ts, err := scanTimesheet(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timesheet.Timesheet{}, timesheet.ErrTimesheetNotFound
		}
		return timesheet.Timesheet{}, err
	}
	return ts, nil
}

func scanTimesheet(row pgx.Row) (timesheet.Timesheet, error) {
	var ts timesheet.Timesheet
	err := row.Scan(
		&ts.ID, &ts.TenantID, &ts.EmployeeID, &ts.PeriodStart, &ts.PeriodEnd, &ts.Status,
		&ts.TotalRegularHours, &ts.TotalOvertimeHours, &ts.TotalBreakHours,
		&ts.SubmittedAt, &ts.ApprovedBy, &ts.ApprovedAt, &ts.RejectionReason,
		&ts.CreatedAt, &ts.UpdatedAt,
		&ts.EmployeeName, &ts.ApprovedByName,
	)
	return ts, err
}

type timesheetCommentRepositoryImpl struct {
	db *database.DB
}

func NewTimesheetCommentRepository(db *database.DB) timesheet.CommentRepository {
	return &timesheetCommentRepositoryImpl{db: db}
}

// Create implements timesheet.CommentRepository.
func (r *timesheetCommentRepositoryImpl) Create(ctx context.Context, c timesheet.Comment) (timesheet.Comment, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		WITH inserted AS (
			INSERT INTO timesheet_comments (id, tenant_id, timesheet_id, author_id, content, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
			RETURNING created_at, author_id
		)
		SELECT i.created_at, TRIM(u.first_name || ' ' || u.last_name)
		FROM inserted i
		JOIN users u ON u.id = i.author_id
	`
	c.ID = newID()
	err := q.QueryRow(ctx, query, c.ID, c.TenantID, c.TimesheetID, c.AuthorID, c.Content).Scan(&c.CreatedAt, &c.AuthorName)
	if err != nil {
		return timesheet.Comment{}, err
	}
	return c, nil
}

// ListByTimesheet implements timesheet.CommentRepository.
func (r *timesheetCommentRepositoryImpl) ListByTimesheet(ctx context.Context, tenantID, timesheetID string) ([]timesheet.Comment, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT c.id, c.tenant_id, c.timesheet_id, c.author_id, c.content, c.created_at,
			   TRIM(u.first_name || ' ' || u.last_name)
		FROM timesheet_comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.tenant_id = $1 AND c.timesheet_id = $2
		ORDER BY c.created_at
	`
	rows, err := q.Query(ctx, query, tenantID, timesheetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []timesheet.Comment
	for rows.Next() {
		var c timesheet.Comment
		if err := rows.Scan(&c.ID, &c.TenantID, &c.TimesheetID, &c.AuthorID, &c.Content, &c.CreatedAt, &c.AuthorName); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
