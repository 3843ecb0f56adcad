package postgresql

import (
	"context"
	"errors"

	"github.com/accabog/rhr-sub000/internal/domain/leave"
	"github.com/accabog/rhr-sub000/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type leaveBalanceRepositoryImpl struct {
	db *database.DB
}

func NewLeaveBalanceRepository(db *database.DB) leave.LeaveBalanceRepository {
	return &leaveBalanceRepositoryImpl{db: db}
}

const leaveBalanceSelect = `
	SELECT b.id, b.tenant_id, b.employee_id, b.leave_type_id, b.year,
		   b.entitled_days, b.used_days, b.created_at, b.updated_at,
		   lt.name, lt.color
	FROM leave_balances b
	JOIN leave_types lt ON lt.id = b.leave_type_id
`

// ListByEmployeeYear implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) ListByEmployeeYear(ctx context.Context, tenantID, employeeID string, year int) ([]leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)
	query := leaveBalanceSelect + `
		WHERE b.tenant_id = $1 AND b.employee_id = $2 AND b.year = $3
		ORDER BY lt.name
	`
	rows, err := q.Query(ctx, query, tenantID, employeeID, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var balances []leave.LeaveBalance
	for rows.Next() {
		b, err := scanLeaveBalance(rows)
		if err != nil {
			return nil, err
		}
		balances = append(balances, b)
	}
	return balances, rows.Err()
}

// GetByEmployeeTypeYear implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) GetByEmployeeTypeYear(ctx context.Context, tenantID, employeeID, leaveTypeID string, year int) (leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)
	query := leaveBalanceSelect + `
		WHERE b.tenant_id = $1 AND b.employee_id = $2 AND b.leave_type_id = $3 AND b.year = $4
	`
	b, err := scanLeaveBalance(q.QueryRow(ctx, query, tenantID, employeeID, leaveTypeID, year))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveBalance{}, leave.ErrLeaveBalanceNotFound
		}
		return leave.LeaveBalance{}, err
	}
	return b, nil
}

// AddUsedDays implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) AddUsedDays(ctx context.Context, tenantID, employeeID, leaveTypeID string, year int, days decimal.Decimal) error {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO leave_balances (id, tenant_id, employee_id, leave_type_id, year, entitled_days, used_days, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, 0, $6, NOW(), NOW())
		ON CONFLICT (tenant_id, employee_id, leave_type_id, year)
		DO UPDATE SET used_days = leave_balances.used_days + EXCLUDED.used_days, updated_at = NOW()
	`
	_, err := q.Exec(ctx, query, newID(), tenantID, employeeID, leaveTypeID, year, days)
	return err
}

func scanLeaveBalance(row pgx.Row) (leave.LeaveBalance, error) {
	var b leave.LeaveBalance
	err := row.Scan(
		&b.ID, &b.TenantID, &b.EmployeeID, &b.LeaveTypeID, &b.Year,
		&b.EntitledDays, &b.UsedDays, &b.CreatedAt, &b.UpdatedAt,
		&b.LeaveTypeName, &b.LeaveTypeColor,
	)
	return b, err
}
