package tenant

import (
	"context"

	"github.com/accabog/rhr-sub000/internal/domain/user"
)

// Session is the authenticated caller of a request, scoped to one tenant.
type Session struct {
	UserID     string
	TenantID   string
	EmployeeID string
	Role       user.Role
}

// HasEmployee reports whether the caller has an employee profile in the tenant.
func (s Session) HasEmployee() bool {
	return s.EmployeeID != ""
}

func (s Session) CanApprove() bool {
	return s.Role.CanApprove()
}

type ctxKey string

const sessionKey ctxKey = "session"

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

func SessionFromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey).(Session)
	return s, ok
}
