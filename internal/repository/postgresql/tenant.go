package postgresql

import (
	"context"
	"errors"

	"github.com/accabog/rhr-sub000/internal/domain/tenant"
	"github.com/accabog/rhr-sub000/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type tenantRepositoryImpl struct {
	db *database.DB
}

func NewTenantRepository(db *database.DB) tenant.TenantRepository {
	return &tenantRepositoryImpl{db: db}
}

// GetByID implements tenant.TenantRepository.
func (r *tenantRepositoryImpl) GetByID(ctx context.Context, id string) (tenant.Tenant, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT id, name, slug, is_active, created_at, updated_at
		FROM tenants
		WHERE id = $1
	`
	var t tenant.Tenant
	err := q.QueryRow(ctx, query, id).Scan(&t.ID, &t.Name, &t.Slug, &t.IsActive, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return tenant.Tenant{}, tenant.ErrTenantNotFound
		}
		return tenant.Tenant{}, err
	}
	return t, nil
}

// ListActive implements tenant.TenantRepository.
func (r *tenantRepositoryImpl) ListActive(ctx context.Context) ([]tenant.Tenant, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT id, name, slug, is_active, created_at, updated_at
		FROM tenants
		WHERE is_active = TRUE
		ORDER BY name
	`
	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tenants []tenant.Tenant
	for rows.Next() {
		var t tenant.Tenant
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &t.IsActive, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		tenants = append(tenants, t)
	}
	return tenants, rows.Err()
}

// ListCountries implements tenant.TenantRepository.
func (r *tenantRepositoryImpl) ListCountries(ctx context.Context, tenantID string) ([]string, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT DISTINCT country
		FROM departments
		WHERE tenant_id = $1 AND is_active = TRUE AND country <> ''
		ORDER BY country
	`
	rows, err := q.Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

type membershipRepositoryImpl struct {
	db *database.DB
}

func NewMembershipRepository(db *database.DB) tenant.MembershipRepository {
	return &membershipRepositoryImpl{db: db}
}

// Get implements tenant.MembershipRepository.
func (r *membershipRepositoryImpl) Get(ctx context.Context, userID, tenantID string) (tenant.Membership, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT m.id, m.user_id, m.tenant_id, m.role, m.is_default, m.created_at, m.updated_at
		FROM tenant_memberships m
		JOIN tenants t ON t.id = m.tenant_id AND t.is_active = TRUE
		WHERE m.user_id = $1 AND m.tenant_id = $2
	`
	return r.scanOne(q.QueryRow(ctx, query, userID, tenantID))
}

// GetDefault implements tenant.MembershipRepository. Falls back to the oldest
// membership when none is flagged default.
func (r *membershipRepositoryImpl) GetDefault(ctx context.Context, userID string) (tenant.Membership, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT m.id, m.user_id, m.tenant_id, m.role, m.is_default, m.created_at, m.updated_at
		FROM tenant_memberships m
		JOIN tenants t ON t.id = m.tenant_id AND t.is_active = TRUE
		WHERE m.user_id = $1
		ORDER BY m.is_default DESC, m.created_at ASC
		LIMIT 1
	`
	return r.scanOne(q.QueryRow(ctx, query, userID))
}

func (r *membershipRepositoryImpl) scanOne(row pgx.Row) (tenant.Membership, error) {
	var m tenant.Membership
	err := row.Scan(&m.ID, &m.UserID, &m.TenantID, &m.Role, &m.IsDefault, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return tenant.Membership{}, tenant.ErrMembershipNotFound
		}
		return tenant.Membership{}, err
	}
	return m, nil
}
