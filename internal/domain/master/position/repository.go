package position

import "context"

// PositionQuery filters positions. Zero values do not filter.
type PositionQuery struct {
	IsActive     *bool
	DepartmentID string
	Level        int
	Search       string
}

type PositionRepository interface {
	Create(ctx context.Context, p Position) (Position, error)
	GetByID(ctx context.Context, tenantID, id string) (Position, error)
	List(ctx context.Context, tenantID string, query PositionQuery) ([]Position, error)
	Update(ctx context.Context, p Position) error
}
