package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/accabog/rhr-sub000/internal/domain/contract"
	"github.com/accabog/rhr-sub000/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type contractTypeRepositoryImpl struct {
	db *database.DB
}

func NewContractTypeRepository(db *database.DB) contract.ContractTypeRepository {
	return &contractTypeRepositoryImpl{db: db}
}

const contractTypeColumns = `id, tenant_id, name, code, description, is_active, created_at, updated_at`

// Create implements contract.ContractTypeRepository.
func (r *contractTypeRepositoryImpl) Create(ctx context.Context, t contract.ContractType) (contract.ContractType, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO contract_types (id, tenant_id, name, code, description, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	t.ID = newID()
	err := q.QueryRow(ctx, query, t.ID, t.TenantID, t.Name, t.Code, t.Description, t.IsActive).
		Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return contract.ContractType{}, contract.ErrContractTypeCodeExists
		}
		return contract.ContractType{}, fmt.Errorf("failed to create contract type: %w", err)
	}
	return t, nil
}

// GetByID implements contract.ContractTypeRepository.
func (r *contractTypeRepositoryImpl) GetByID(ctx context.Context, tenantID, id string) (contract.ContractType, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + contractTypeColumns + ` FROM contract_types WHERE tenant_id = $1 AND id = $2`
	t, err := scanContractType(q.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return contract.ContractType{}, contract.ErrContractTypeNotFound
		}
		return contract.ContractType{}, err
	}
	return t, nil
}

// List implements contract.ContractTypeRepository.
func (r *contractTypeRepositoryImpl) List(ctx context.Context, tenantID string, activeOnly bool) ([]contract.ContractType, error) {
	q := GetQuerier(ctx, r.db)
	query := `SELECT ` + contractTypeColumns + ` FROM contract_types WHERE tenant_id = $1`
	if activeOnly {
		query += ` AND is_active`
	}
	query += ` ORDER BY name ASC`

	rows, err := q.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contract types: %w", err)
	}
	defer rows.Close()

	var types []contract.ContractType
	for rows.Next() {
		t, err := scanContractType(rows)
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, rows.Err()
}

func scanContractType(row pgx.Row) (contract.ContractType, error) {
	var t contract.ContractType
	err := row.Scan(&t.ID, &t.TenantID, &t.Name, &t.Code, &t.Description, &t.IsActive, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}
