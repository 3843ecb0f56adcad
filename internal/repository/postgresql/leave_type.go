package postgresql

import (
	"context"
	"errors"

	"github.com/accabog/rhr-sub000/internal/domain/leave"
	"github.com/accabog/rhr-sub000/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leaveTypeRepositoryImpl struct {
	db *database.DB
}

func NewLeaveTypeRepository(db *database.DB) leave.LeaveTypeRepository {
	return &leaveTypeRepositoryImpl{db: db}
}

const leaveTypeColumns = `
	id, tenant_id, name, code, description, is_paid, requires_approval,
	max_consecutive_days, color, is_active, created_at, updated_at
`

// Create implements leave.LeaveTypeRepository.
func (l *leaveTypeRepositoryImpl) Create(ctx context.Context, leaveType leave.LeaveType) (leave.LeaveType, error) {
	q := GetQuerier(ctx, l.db)
	query := `
		INSERT INTO leave_types (
			id, tenant_id, name, code, description, is_paid, requires_approval,
			max_consecutive_days, color, is_active, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7,
			$8, $9, $10, NOW(), NOW()
		) RETURNING created_at, updated_at
	`
	leaveType.ID = newID()
	err := q.QueryRow(ctx, query,
		leaveType.ID, leaveType.TenantID, leaveType.Name, leaveType.Code, leaveType.Description,
		leaveType.IsPaid, leaveType.RequiresApproval,
		leaveType.MaxConsecutiveDays, leaveType.Color, leaveType.IsActive,
	).Scan(&leaveType.CreatedAt, &leaveType.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return leave.LeaveType{}, leave.ErrLeaveTypeCodeExists
		}
		return leave.LeaveType{}, err
	}
	return leaveType, nil
}

// GetByID implements leave.LeaveTypeRepository.
func (l *leaveTypeRepositoryImpl) GetByID(ctx context.Context, tenantID, id string) (leave.LeaveType, error) {
	q := GetQuerier(ctx, l.db)
	query := `SELECT ` + leaveTypeColumns + ` FROM leave_types WHERE tenant_id = $1 AND id = $2`
	lt, err := scanLeaveType(q.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
		}
		return leave.LeaveType{}, err
	}
	return lt, nil
}

// ListActive implements leave.LeaveTypeRepository.
func (l *leaveTypeRepositoryImpl) ListActive(ctx context.Context, tenantID string) ([]leave.LeaveType, error) {
	q := GetQuerier(ctx, l.db)
	query := `SELECT ` + leaveTypeColumns + ` FROM leave_types WHERE tenant_id = $1 AND is_active = TRUE ORDER BY name`
	rows, err := q.Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []leave.LeaveType
	for rows.Next() {
		lt, err := scanLeaveType(rows)
		if err != nil {
			return nil, err
		}
		types = append(types, lt)
	}
	return types, rows.Err()
}

func scanLeaveType(row pgx.Row) (leave.LeaveType, error) {
	var lt leave.LeaveType
	err := row.Scan(
		&lt.ID, &lt.TenantID, &lt.Name, &lt.Code, &lt.Description, &lt.IsPaid, &lt.RequiresApproval,
		&lt.MaxConsecutiveDays, &lt.Color, &lt.IsActive, &lt.CreatedAt, &lt.UpdatedAt,
	)
	return lt, err
}
