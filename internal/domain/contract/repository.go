package contract

import (
	"context"
	"time"

	"github.com/accabog/rhr-sub000/internal/pkg/pagination"
	"github.com/accabog/rhr-sub000/internal/pkg/workflow"
)

type ContractTypeRepository interface {
	// Create fails with ErrContractTypeCodeExists on a duplicate code.
	Create(ctx context.Context, t ContractType) (ContractType, error)
	GetByID(ctx context.Context, tenantID, id string) (ContractType, error)
	List(ctx context.Context, tenantID string, activeOnly bool) ([]ContractType, error)
}

// ContractQuery filters contracts. Zero values do not filter.
type ContractQuery struct {
	EmployeeID     string
	ContractTypeID string
	Statuses       []workflow.Status
	// Search matches the title and the employee's names.
	Search string
	// EndsFrom and EndsBefore bound the end date, inclusive. Setting either
	// excludes open-ended contracts.
	EndsFrom   *time.Time
	EndsBefore *time.Time
	Page       pagination.Params
	All        bool
}

type ContractRepository interface {
	Create(ctx context.Context, c Contract) (Contract, error)
	GetByID(ctx context.Context, tenantID, id string) (Contract, error)
	List(ctx context.Context, tenantID string, query ContractQuery) ([]Contract, int64, error)
	// Update rewrites the editable fields of c while it is still in from.
	// It fails with workflow.ErrStatusChanged if the status moved on.
	Update(ctx context.Context, c Contract, from workflow.Status) error
	// Stats counts contracts by status. Active contracts ending between
	// today and expiringBefore count as expiring soon.
	Stats(ctx context.Context, tenantID string, today, expiringBefore time.Time) (Stats, error)
}
