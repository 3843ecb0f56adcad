package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/accabog/rhr-sub000/internal/domain/employee"
	"github.com/accabog/rhr-sub000/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.DirectoryRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeSelect = `
	SELECT e.id, e.tenant_id, e.user_id, e.employee_code, e.first_name, e.last_name,
		   e.email, e.phone, e.department_id, e.position_id, e.manager_id,
		   e.status, e.hire_date, e.termination_date, e.date_of_birth, e.address,
		   e.emergency_contact_name, e.emergency_contact_phone, e.timezone,
		   e.created_at, e.updated_at,
		   COALESCE(d.name, ''), COALESCE(d.country, ''), COALESCE(p.title, ''),
		   COALESCE(TRIM(m.first_name || ' ' || m.last_name), '')
	FROM employees e
	LEFT JOIN departments d ON d.id = e.department_id
	LEFT JOIN positions p ON p.id = e.position_id
	LEFT JOIN employees m ON m.id = e.manager_id
`

// Create implements employee.DirectoryRepository.
func (r *employeeRepositoryImpl) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO employees (
			id, tenant_id, user_id, employee_code, first_name, last_name,
			email, phone, department_id, position_id, manager_id,
			status, hire_date, termination_date, date_of_birth, address,
			emergency_contact_name, emergency_contact_phone, timezone,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11,
			$12, $13, $14, $15, $16,
			$17, $18, $19,
			NOW(), NOW()
		)
	`
	e.ID = newID()
	_, err := q.Exec(ctx, query,
		e.ID, e.TenantID, e.UserID, e.EmployeeCode, e.FirstName, e.LastName,
		e.Email, e.Phone, e.DepartmentID, e.PositionID, e.ManagerID,
		string(e.Status), e.HireDate, e.TerminationDate, e.DateOfBirth, e.Address,
		e.EmergencyContactName, e.EmergencyContactPhone, e.Timezone,
	)
	if err != nil {
		if uerr := employeeConflict(err); uerr != nil {
			return employee.Employee{}, uerr
		}
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}
	return r.GetByID(ctx, e.TenantID, e.ID)
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, tenantID, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)
	query := employeeSelect + ` WHERE e.tenant_id = $1 AND e.id = $2`
	return scanEmployee(q.QueryRow(ctx, query, tenantID, id))
}

// GetByUserID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByUserID(ctx context.Context, tenantID, userID string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)
	query := employeeSelect + ` WHERE e.tenant_id = $1 AND e.user_id = $2`
	return scanEmployee(q.QueryRow(ctx, query, tenantID, userID))
}

// List implements employee.DirectoryRepository.
func (r *employeeRepositoryImpl) List(ctx context.Context, tenantID string, query employee.EmployeeQuery) ([]employee.Employee, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"e.tenant_id = $1"}
	args := []any{tenantID}
	argIdx := 2

	if len(query.Statuses) > 0 {
		statuses := make([]string, len(query.Statuses))
		for i, s := range query.Statuses {
			statuses[i] = string(s)
		}
		conditions = append(conditions, fmt.Sprintf("e.status = ANY($%d)", argIdx))
		args = append(args, statuses)
		argIdx++
	}
	if query.DepartmentID != "" {
		conditions = append(conditions, fmt.Sprintf("e.department_id = $%d", argIdx))
		args = append(args, query.DepartmentID)
		argIdx++
	}
	if query.PositionID != "" {
		conditions = append(conditions, fmt.Sprintf("e.position_id = $%d", argIdx))
		args = append(args, query.PositionID)
		argIdx++
	}
	if query.ManagerID != "" {
		conditions = append(conditions, fmt.Sprintf("e.manager_id = $%d", argIdx))
		args = append(args, query.ManagerID)
		argIdx++
	}
	if query.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(e.first_name ILIKE $%d OR e.last_name ILIKE $%d OR e.email ILIKE $%d OR e.employee_code ILIKE $%d)",
			argIdx, argIdx, argIdx, argIdx,
		))
		args = append(args, "%"+query.Search+"%")
		argIdx++
	}

	where := " WHERE " + strings.Join(conditions, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM employees e` + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}

	page := query.Page.Normalize()
	listQuery := employeeSelect + where +
		fmt.Sprintf(" ORDER BY e.last_name ASC, e.first_name ASC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, page.Limit(), page.Offset())

	rows, err := q.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, err
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return employees, total, nil
}

// Update implements employee.DirectoryRepository.
func (r *employeeRepositoryImpl) Update(ctx context.Context, e employee.Employee) error {
	q := GetQuerier(ctx, r.db)
	query := `
		UPDATE employees
		SET user_id = $3, employee_code = $4, first_name = $5, last_name = $6,
			email = $7, phone = $8, department_id = $9, position_id = $10, manager_id = $11,
			status = $12, hire_date = $13, termination_date = $14, date_of_birth = $15,
			address = $16, emergency_contact_name = $17, emergency_contact_phone = $18,
			timezone = $19, updated_at = NOW()
		WHERE tenant_id = $1 AND id = $2
	`
	tag, err := q.Exec(ctx, query,
		e.TenantID, e.ID, e.UserID, e.EmployeeCode, e.FirstName, e.LastName,
		e.Email, e.Phone, e.DepartmentID, e.PositionID, e.ManagerID,
		string(e.Status), e.HireDate, e.TerminationDate, e.DateOfBirth,
		e.Address, e.EmergencyContactName, e.EmergencyContactPhone,
		e.Timezone,
	)
	if err != nil {
		if uerr := employeeConflict(err); uerr != nil {
			return uerr
		}
		return fmt.Errorf("failed to update employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// employeeConflict maps the unique constraints of employees to domain errors.
func employeeConflict(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return nil
	}
	if strings.Contains(pgErr.ConstraintName, "user_id") {
		return employee.ErrUserAlreadyLinked
	}
	return employee.ErrEmployeeCodeExists
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	err := row.Scan(
		&e.ID, &e.TenantID, &e.UserID, &e.EmployeeCode, &e.FirstName, &e.LastName,
		&e.Email, &e.Phone, &e.DepartmentID, &e.PositionID, &e.ManagerID,
		&e.Status, &e.HireDate, &e.TerminationDate, &e.DateOfBirth, &e.Address,
		&e.EmergencyContactName, &e.EmergencyContactPhone, &e.Timezone,
		&e.CreatedAt, &e.UpdatedAt,
		&e.DepartmentName, &e.DepartmentCountry, &e.PositionTitle,
		&e.ManagerName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, err
	}
	return e, nil
}
