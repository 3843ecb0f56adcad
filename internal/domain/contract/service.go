package contract

import (
	"context"

	"github.com/accabog/rhr-sub000/internal/domain/tenant"
	"github.com/accabog/rhr-sub000/internal/pkg/pagination"
)

type ContractService interface {
	// Type
	ListTypes(ctx context.Context, s tenant.Session) ([]ContractTypeResponse, error)
	CreateType(ctx context.Context, s tenant.Session, req CreateContractTypeRequest) (ContractTypeResponse, error)
	// Contract
	List(ctx context.Context, s tenant.Session, filter ContractFilter) (ListContractResponse, error)
	MyContracts(ctx context.Context, s tenant.Session, page pagination.Params) (ListContractResponse, error)
	Get(ctx context.Context, s tenant.Session, id string) (ContractResponse, error)
	Create(ctx context.Context, s tenant.Session, req CreateContractRequest) (ContractResponse, error)
	Update(ctx context.Context, s tenant.Session, id string, req UpdateContractRequest) (ContractResponse, error)
	Activate(ctx context.Context, s tenant.Session, id string) (ContractResponse, error)
	Terminate(ctx context.Context, s tenant.Session, id string) (ContractResponse, error)
	// Expiring lists active contracts ending within the expiring window.
	Expiring(ctx context.Context, s tenant.Session) ([]ContractResponse, error)
	Stats(ctx context.Context, s tenant.Session) (StatsResponse, error)
}
