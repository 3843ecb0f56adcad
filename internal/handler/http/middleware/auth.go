package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/accabog/rhr-sub000/internal/domain/auth"
	"github.com/accabog/rhr-sub000/internal/domain/tenant"
	"github.com/accabog/rhr-sub000/internal/handler/http/response"
	"github.com/accabog/rhr-sub000/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

// TenantHeader optionally names the tenant a request targets.
const TenantHeader = "X-Tenant-ID"

// AuthRequired resolves the session of a request verified by jwtauth.Verifier.
// A tenant header naming another tenant than the token is refused.
func AuthRequired(jwtService jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil || token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			access, err := jwtService.ParseAccessClaims(claims)
			if err != nil {
				slog.Debug("rejected token", "error", err)
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			if header := strings.TrimSpace(r.Header.Get(TenantHeader)); header != "" && header != access.TenantID {
				response.HandleError(w, tenant.ErrTenantMismatch)
				return
			}

			ctx := tenant.WithSession(r.Context(), tenant.Session{
				UserID:     access.UserID,
				TenantID:   access.TenantID,
				EmployeeID: access.EmployeeID,
				Role:       access.Role,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(hfn)
	}
}
