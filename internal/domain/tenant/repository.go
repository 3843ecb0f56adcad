package tenant

import (
	"context"
)

type TenantRepository interface {
	GetByID(ctx context.Context, id string) (Tenant, error)
	ListActive(ctx context.Context) ([]Tenant, error)
	// ListCountries returns the distinct non-empty countries of the tenant's active departments.
	ListCountries(ctx context.Context, tenantID string) ([]string, error)
}

type MembershipRepository interface {
	Get(ctx context.Context, userID, tenantID string) (Membership, error)
	GetDefault(ctx context.Context, userID string) (Membership, error)
}
