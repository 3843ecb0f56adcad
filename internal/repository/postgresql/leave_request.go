package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/accabog/rhr-sub000/internal/domain/leave"
	"github.com/accabog/rhr-sub000/internal/pkg/database"
	"github.com/accabog/rhr-sub000/internal/pkg/workflow"
	"github.com/jackc/pgx/v5"
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

const leaveRequestSelect = `
	SELECT lr.id, lr.tenant_id, lr.employee_id, lr.leave_type_id,
		   lr.start_date, lr.end_date, lr.is_half_day, lr.half_day_period, lr.reason,
		   lr.status, lr.reviewed_by, lr.reviewed_at, lr.review_notes,
		   lr.created_at, lr.updated_at,
		   TRIM(e.first_name || ' ' || e.last_name), COALESCE(d.country, ''),
		   lt.name, lt.color,
		   COALESCE(TRIM(u.first_name || ' ' || u.last_name), '')
	FROM leave_requests lr
	JOIN employees e ON e.id = lr.employee_id
	LEFT JOIN departments d ON d.id = e.department_id
	JOIN leave_types lt ON lt.id = lr.leave_type_id
	LEFT JOIN users u ON u.id = lr.reviewed_by
`

// Create implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO leave_requests (
			id, tenant_id, employee_id, leave_type_id,
			start_date, end_date, is_half_day, half_day_period, reason,
			status, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8, $9,
			$10, NOW(), NOW()
		)
	`
	request.ID = newID()
	_, err := q.Exec(ctx, query,
		request.ID, request.TenantID, request.EmployeeID, request.LeaveTypeID,
		request.StartDate, request.EndDate, request.IsHalfDay, string(request.HalfDayPeriod), request.Reason,
		string(request.Status),
	)
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	return r.GetByID(ctx, request.TenantID, request.ID)
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, tenantID, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)
	query := leaveRequestSelect + ` WHERE lr.tenant_id = $1 AND lr.id = $2`
	lr, err := scanLeaveRequest(q.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, err
	}
	return lr, nil
}

// List implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) List(ctx context.Context, tenantID string, query leave.RequestQuery) ([]leave.LeaveRequest, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"lr.tenant_id = $1"}
	args := []any{tenantID}
	argIdx := 2

	if query.EmployeeID != "" {
		conditions = append(conditions, fmt.Sprintf("lr.employee_id = $%d", argIdx))
		args = append(args, query.EmployeeID)
		argIdx++
	}
	if query.LeaveTypeID != "" {
		conditions = append(conditions, fmt.Sprintf("lr.leave_type_id = $%d", argIdx))
		args = append(args, query.LeaveTypeID)
		argIdx++
	}
	if len(query.Statuses) > 0 {
		statuses := make([]string, len(query.Statuses))
		for i, s := range query.Statuses {
			statuses[i] = string(s)
		}
		conditions = append(conditions, fmt.Sprintf("lr.status = ANY($%d)", argIdx))
		args = append(args, statuses)
		argIdx++
	}
	if query.From != nil {
		conditions = append(conditions, fmt.Sprintf("lr.end_date >= $%d", argIdx))
		args = append(args, *query.From)
		argIdx++
	}
	if query.To != nil {
		conditions = append(conditions, fmt.Sprintf("lr.start_date <= $%d", argIdx))
		args = append(args, *query.To)
		argIdx++
	}

	where := " WHERE " + strings.Join(conditions, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM leave_requests lr` + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listQuery := leaveRequestSelect + where + ` ORDER BY lr.start_date DESC, lr.created_at DESC`
	if !query.All {
		page := query.Page.Normalize()
		listQuery += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
		args = append(args, page.Limit(), page.Offset())
	}

	rows, err := q.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var requests []leave.LeaveRequest
	for rows.Next() {
		lr, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, 0, err
		}
		requests = append(requests, lr)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

// UpdateReview implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) UpdateReview(ctx context.Context, request leave.LeaveRequest, from workflow.Status) error {
	q := GetQuerier(ctx, r.db)
	query := `
		UPDATE leave_requests
		SET status = $3, reviewed_by = $4, reviewed_at = $5, review_notes = $6, updated_at = NOW()
		WHERE tenant_id = $1 AND id = $2 AND status = $7
	`
	tag, err := q.Exec(ctx, query,
		request.TenantID, request.ID,
		string(request.Status), request.ReviewedBy, request.ReviewedAt, request.ReviewNotes,
		string(from),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() != 1 {
		return statusGuardMiss(ctx, q, "leave_requests", request.TenantID, request.ID, leave.ErrLeaveRequestNotFound)
	}
	return nil
}

func scanLeaveRequest(row pgx.Row) (leave.LeaveRequest, error) {
	var lr leave.LeaveRequest
	err := row.Scan(
		&lr.ID, &lr.TenantID, &lr.EmployeeID, &lr.LeaveTypeID,
		&lr.StartDate, &lr.EndDate, &lr.IsHalfDay, &lr.HalfDayPeriod, &lr.Reason,
		&lr.Status, &lr.ReviewedBy, &lr.ReviewedAt, &lr.ReviewNotes,
		&lr.CreatedAt, &lr.UpdatedAt,
		&lr.EmployeeName, &lr.EmployeeCountry,
		&lr.LeaveTypeName, &lr.LeaveTypeColor,
		&lr.ReviewerName,
	)
	return lr, err
}
