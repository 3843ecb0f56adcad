package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/accabog/rhr-sub000/internal/domain/contract"
	"github.com/accabog/rhr-sub000/internal/pkg/database"
	"github.com/accabog/rhr-sub000/internal/pkg/workflow"
	"github.com/jackc/pgx/v5"
)

type contractRepositoryImpl struct {
	db *database.DB
}

func NewContractRepository(db *database.DB) contract.ContractRepository {
	return &contractRepositoryImpl{db: db}
}

const contractSelect = `
	SELECT c.id, c.tenant_id, c.employee_id, c.contract_type_id, c.title,
		   c.start_date, c.end_date, c.status,
		   c.salary, c.salary_currency, c.salary_period, c.hours_per_week,
		   c.probation_end_date, c.probation_passed, c.notice_period_days, c.notes,
		   c.created_at, c.updated_at,
		   TRIM(e.first_name || ' ' || e.last_name), ct.name
	FROM contracts c
	JOIN employees e ON e.id = c.employee_id
	JOIN contract_types ct ON ct.id = c.contract_type_id
`

// Create implements contract.ContractRepository.
func (r *contractRepositoryImpl) Create(ctx context.Context, c contract.Contract) (contract.Contract, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO contracts (
			id, tenant_id, employee_id, contract_type_id, title,
			start_date, end_date, status,
			salary, salary_currency, salary_period, hours_per_week,
			probation_end_date, probation_passed, notice_period_days, notes,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8,
			$9, $10, $11, $12,
			$13, $14, $15, $16,
			NOW(), NOW()
		)
	`
	c.ID = newID()
	_, err := q.Exec(ctx, query,
		c.ID, c.TenantID, c.EmployeeID, c.ContractTypeID, c.Title,
		c.StartDate, c.EndDate, string(c.Status),
		c.Salary, c.SalaryCurrency, string(c.SalaryPeriod), c.HoursPerWeek,
		c.ProbationEndDate, c.ProbationPassed, c.NoticePeriodDays, c.Notes,
	)
	if err != nil {
		return contract.Contract{}, fmt.Errorf("failed to create contract: %w", err)
	}
	return r.GetByID(ctx, c.TenantID, c.ID)
}

// GetByID implements contract.ContractRepository.
func (r *contractRepositoryImpl) GetByID(ctx context.Context, tenantID, id string) (contract.Contract, error) {
	q := GetQuerier(ctx, r.db)
	query := contractSelect + ` WHERE c.tenant_id = $1 AND c.id = $2`
	c, err := scanContract(q.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return contract.Contract{}, contract.ErrContractNotFound
		}
		return contract.Contract{}, err
	}
	return c, nil
}

// List implements contract.ContractRepository.
func (r *contractRepositoryImpl) List(ctx context.Context, tenantID string, query contract.ContractQuery) ([]contract.Contract, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"c.tenant_id = $1"}
	args := []any{tenantID}
	argIdx := 2

	if query.EmployeeID != "" {
		conditions = append(conditions, fmt.Sprintf("c.employee_id = $%d", argIdx))
		args = append(args, query.EmployeeID)
		argIdx++
	}
	if query.ContractTypeID != "" {
		conditions = append(conditions, fmt.Sprintf("c.contract_type_id = $%d", argIdx))
		args = append(args, query.ContractTypeID)
		argIdx++
	}
	if len(query.Statuses) > 0 {
		statuses := make([]string, len(query.Statuses))
		for i, s := range query.Statuses {
			statuses[i] = string(s)
		}
		conditions = append(conditions, fmt.Sprintf("c.status = ANY($%d)", argIdx))
		args = append(args, statuses)
		argIdx++
	}
	if query.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(c.title ILIKE $%d OR e.first_name ILIKE $%d OR e.last_name ILIKE $%d)", argIdx, argIdx, argIdx,
		))
		args = append(args, "%"+query.Search+"%")
		argIdx++
	}
	if query.EndsFrom != nil {
		conditions = append(conditions, fmt.Sprintf("c.end_date >= $%d", argIdx))
		args = append(args, *query.EndsFrom)
		argIdx++
	}
	if query.EndsBefore != nil {
		conditions = append(conditions, fmt.Sprintf("c.end_date <= $%d", argIdx))
		args = append(args, *query.EndsBefore)
		argIdx++
	}

	where := " WHERE " + strings.Join(conditions, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM contracts c JOIN employees e ON e.id = c.employee_id` + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listQuery := contractSelect + where
	if query.EndsFrom != nil || query.EndsBefore != nil {
		listQuery += ` ORDER BY c.end_date ASC, c.created_at ASC`
	} else {
		listQuery += ` ORDER BY c.start_date DESC, c.created_at DESC`
	}
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

	var contracts []contract.Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, 0, err
		}
		contracts = append(contracts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return contracts, total, nil
}

// Update implements contract.ContractRepository.
func (r *contractRepositoryImpl) Update(ctx context.Context, c contract.Contract, from workflow.Status) error {
	q := GetQuerier(ctx, r.db)
	query := `
		UPDATE contracts
		SET title = $3, start_date = $4, end_date = $5, status = $6,
			salary = $7, salary_currency = $8, salary_period = $9, hours_per_week = $10,
			probation_end_date = $11, probation_passed = $12, notice_period_days = $13,
			notes = $14, updated_at = NOW()
		WHERE tenant_id = $1 AND id = $2 AND status = $15
	`
	tag, err := q.Exec(ctx, query,
		c.TenantID, c.ID, c.Title, c.StartDate, c.EndDate, string(c.Status),
		c.Salary, c.SalaryCurrency, string(c.SalaryPeriod), c.HoursPerWeek,
		c.ProbationEndDate, c.ProbationPassed, c.NoticePeriodDays,
		c.Notes, string(from),
	)
	if err != nil {
		return fmt.Errorf("failed to update contract: %w", err)
	}
	if tag.RowsAffected() != 1 {
		return statusGuardMiss(ctx, q, "contracts", c.TenantID, c.ID, contract.ErrContractNotFound)
	}
	return nil
}

// Stats implements contract.ContractRepository.
func (r *contractRepositoryImpl) Stats(ctx context.Context, tenantID string, today, expiringBefore time.Time) (contract.Stats, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT COUNT(*),
			   COUNT(*) FILTER (WHERE status = 'active'),
			   COUNT(*) FILTER (WHERE status = 'draft'),
			   COUNT(*) FILTER (WHERE status = 'expired'),
			   COUNT(*) FILTER (WHERE status = 'terminated'),
			   COUNT(*) FILTER (WHERE status = 'active' AND end_date >= $2 AND end_date <= $3)
		FROM contracts
		WHERE tenant_id = $1
	`
	var s contract.Stats
	err := q.QueryRow(ctx, query, tenantID, today, expiringBefore).Scan(
		&s.Total, &s.Active, &s.Draft, &s.Expired, &s.Terminated, &s.ExpiringSoon,
	)
	if err != nil {
		return contract.Stats{}, fmt.Errorf("failed to count contracts: %w", err)
	}
	return s, nil
}

func scanContract(row pgx.Row) (contract.Contract, error) {
	var c contract.Contract
	err := row.Scan(
		&c.ID, &c.TenantID, &c.EmployeeID, &c.ContractTypeID, &c.Title,
		&c.StartDate, &c.EndDate, &c.Status,
		&c.Salary, &c.SalaryCurrency, &c.SalaryPeriod, &c.HoursPerWeek,
		&c.ProbationEndDate, &c.ProbationPassed, &c.NoticePeriodDays, &c.Notes,
		&c.CreatedAt, &c.UpdatedAt,
		&c.EmployeeName, &c.ContractTypeName,
	)
	return c, err
}
