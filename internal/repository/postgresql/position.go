package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/accabog/rhr-sub000/internal/domain/master/position"
	"github.com/accabog/rhr-sub000/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type positionRepositoryImpl struct {
	db *database.DB
}

func NewPositionRepository(db *database.DB) position.PositionRepository {
	return &positionRepositoryImpl{db: db}
}

const positionSelect = `
	SELECT p.id, p.tenant_id, p.title, p.code, p.description, p.department_id,
		   p.level, p.is_active, p.created_at, p.updated_at,
		   COALESCE(d.name, '')
	FROM positions p
	LEFT JOIN departments d ON d.id = p.department_id
`

// Create implements position.PositionRepository.
func (r *positionRepositoryImpl) Create(ctx context.Context, p position.Position) (position.Position, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO positions (
			id, tenant_id, title, code, description, department_id,
			level, is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`
	p.ID = newID()
	_, err := q.Exec(ctx, query,
		p.ID, p.TenantID, p.Title, p.Code, p.Description, p.DepartmentID,
		p.Level, p.IsActive,
	)
	if err != nil {
		return position.Position{}, fmt.Errorf("failed to create position: %w", err)
	}
	return r.GetByID(ctx, p.TenantID, p.ID)
}

// GetByID implements position.PositionRepository.
func (r *positionRepositoryImpl) GetByID(ctx context.Context, tenantID, id string) (position.Position, error) {
	q := GetQuerier(ctx, r.db)
	query := positionSelect + ` WHERE p.tenant_id = $1 AND p.id = $2`
	p, err := scanPosition(q.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return position.Position{}, position.ErrPositionNotFound
		}
		return position.Position{}, fmt.Errorf("failed to get position: %w", err)
	}
	return p, nil
}

// List implements position.PositionRepository.
func (r *positionRepositoryImpl) List(ctx context.Context, tenantID string, query position.PositionQuery) ([]position.Position, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"p.tenant_id = $1"}
	args := []any{tenantID}
	argIdx := 2

	if query.IsActive != nil {
		conditions = append(conditions, fmt.Sprintf("p.is_active = $%d", argIdx))
		args = append(args, *query.IsActive)
		argIdx++
	}
	if query.DepartmentID != "" {
		conditions = append(conditions, fmt.Sprintf("p.department_id = $%d", argIdx))
		args = append(args, query.DepartmentID)
		argIdx++
	}
	if query.Level > 0 {
		conditions = append(conditions, fmt.Sprintf("p.level = $%d", argIdx))
		args = append(args, query.Level)
		argIdx++
	}
	if query.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(p.title ILIKE $%d OR p.code ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+query.Search+"%")
	}

	listQuery := positionSelect + " WHERE " + strings.Join(conditions, " AND ") + ` ORDER BY p.level ASC, p.title ASC`
	rows, err := q.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get positions: %w", err)
	}
	defer rows.Close()

	var positions []position.Position
	for rows.Next() {
		p, err := scanPosition(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		positions = append(positions, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return positions, nil
}

// Update implements position.PositionRepository.
func (r *positionRepositoryImpl) Update(ctx context.Context, p position.Position) error {
	q := GetQuerier(ctx, r.db)
	query := `
		UPDATE positions
		SET title = $3, code = $4, description = $5, department_id = $6,
			level = $7, is_active = $8, updated_at = NOW()
		WHERE tenant_id = $1 AND id = $2
	`
	commandTag, err := q.Exec(ctx, query,
		p.TenantID, p.ID, p.Title, p.Code, p.Description, p.DepartmentID,
		p.Level, p.IsActive,
	)
	if err != nil {
		return fmt.Errorf("failed to update position: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return position.ErrPositionNotFound
	}
	return nil
}

func scanPosition(row pgx.Row) (position.Position, error) {
	var p position.Position
	err := row.Scan(
		&p.ID, &p.TenantID, &p.Title, &p.Code, &p.Description, &p.DepartmentID,
		&p.Level, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
		&p.DepartmentName,
	)
	return p, err
}
