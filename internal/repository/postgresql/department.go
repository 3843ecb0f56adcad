package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/accabog/rhr-sub000/internal/domain/master/department"
	"github.com/accabog/rhr-sub000/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type departmentRepositoryImpl struct {
	db *database.DB
}

func NewDepartmentRepository(db *database.DB) department.DepartmentRepository {
	return &departmentRepositoryImpl{db: db}
}

const departmentSelect = `
	SELECT d.id, d.tenant_id, d.name, d.code, d.description, d.parent_id, d.manager_id,
		   d.country, d.is_active, d.created_at, d.updated_at,
		   (SELECT COUNT(*) FROM departments c WHERE c.parent_id = d.id),
		   (SELECT COUNT(*) FROM employees e WHERE e.department_id = d.id)
	FROM departments d
`

// Create implements department.DepartmentRepository.
func (r *departmentRepositoryImpl) Create(ctx context.Context, d department.Department) (department.Department, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO departments (
			id, tenant_id, name, code, description, parent_id, manager_id,
			country, is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`
	d.ID = newID()
	_, err := q.Exec(ctx, query,
		d.ID, d.TenantID, d.Name, d.Code, d.Description, d.ParentID, d.ManagerID,
		d.Country, d.IsActive,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return department.Department{}, department.ErrDepartmentCodeExists
		}
		return department.Department{}, fmt.Errorf("failed to create department: %w", err)
	}
	return r.GetByID(ctx, d.TenantID, d.ID)
}

// GetByID implements department.DepartmentRepository.
func (r *departmentRepositoryImpl) GetByID(ctx context.Context, tenantID, id string) (department.Department, error) {
	q := GetQuerier(ctx, r.db)
	query := departmentSelect + ` WHERE d.tenant_id = $1 AND d.id = $2`
	d, err := scanDepartment(q.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return department.Department{}, department.ErrDepartmentNotFound
		}
		return department.Department{}, fmt.Errorf("failed to get department: %w", err)
	}
	return d, nil
}

// List implements department.DepartmentRepository.
func (r *departmentRepositoryImpl) List(ctx context.Context, tenantID string, query department.DepartmentQuery) ([]department.Department, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"d.tenant_id = $1"}
	args := []any{tenantID}
	argIdx := 2

	if query.IsActive != nil {
		conditions = append(conditions, fmt.Sprintf("d.is_active = $%d", argIdx))
		args = append(args, *query.IsActive)
		argIdx++
	}
	if query.ParentID != "" {
		conditions = append(conditions, fmt.Sprintf("d.parent_id = $%d", argIdx))
		args = append(args, query.ParentID)
		argIdx++
	}
	if query.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(d.name ILIKE $%d OR d.code ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+query.Search+"%")
	}

	listQuery := departmentSelect + " WHERE " + strings.Join(conditions, " AND ") + ` ORDER BY d.name ASC`
	rows, err := q.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	defer rows.Close()

	var departments []department.Department
	for rows.Next() {
		d, err := scanDepartment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan department: %w", err)
		}
		departments = append(departments, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return departments, nil
}

// Update implements department.DepartmentRepository.
func (r *departmentRepositoryImpl) Update(ctx context.Context, d department.Department) error {
	q := GetQuerier(ctx, r.db)
	query := `
		UPDATE departments
		SET name = $3, code = $4, description = $5, parent_id = $6, manager_id = $7,
			country = $8, is_active = $9, updated_at = NOW()
		WHERE tenant_id = $1 AND id = $2
	`
	tag, err := q.Exec(ctx, query,
		d.TenantID, d.ID, d.Name, d.Code, d.Description, d.ParentID, d.ManagerID,
		d.Country, d.IsActive,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return department.ErrDepartmentCodeExists
		}
		return fmt.Errorf("failed to update department: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return department.ErrDepartmentNotFound
	}
	return nil
}

func scanDepartment(row pgx.Row) (department.Department, error) {
	var d department.Department
	err := row.Scan(
		&d.ID, &d.TenantID, &d.Name, &d.Code, &d.Description, &d.ParentID, &d.ManagerID,
		&d.Country, &d.IsActive, &d.CreatedAt, &d.UpdatedAt,
		&d.ChildrenCount, &d.EmployeesCount,
	)
	return d, err
}
