package http

import (
	"log/slog"
	"net/http"

	"github.com/accabog/rhr-sub000/internal/domain/auth"
	"github.com/accabog/rhr-sub000/internal/domain/tenant"
	"github.com/accabog/rhr-sub000/internal/handler/http/response"
)

type AuthHandler interface {
	Login(w http.ResponseWriter, r *http.Request)
	Me(w http.ResponseWriter, r *http.Request)
}

type AuthHandlerImpl struct {
	authService auth.AuthService
}

// Login implements AuthHandler.
func (a *AuthHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	var loginReq auth.LoginRequest

	// 1. Decode JSON
	if err := decodeJSON(r, &loginReq); err != nil {
		slog.Error("Login decode error", "error", err)
		response.BadRequest(w, "Invalid request format")
		return
	}

	// 2. Validate DTO
	if err := loginReq.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	// 3. Call service
	token, err := a.authService.Login(r.Context(), loginReq)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.OK(w, token)
}

// MeResponse is the session the caller's token resolves to.
type MeResponse struct {
	UserID     string `json:"user_id"`
	TenantID   string `json:"tenant_id"`
	EmployeeID string `json:"employee_id,omitempty"`
	Role       string `json:"role"`
	CanApprove bool   `json:"can_approve"`
}

// Me implements AuthHandler.
func (a *AuthHandlerImpl) Me(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(w, r)
	if !ok {
		return
	}
	response.OK(w, newMeResponse(s))
}

func newMeResponse(s tenant.Session) MeResponse {
	return MeResponse{
		UserID:     s.UserID,
		TenantID:   s.TenantID,
		EmployeeID: s.EmployeeID,
		Role:       string(s.Role),
		CanApprove: s.CanApprove(),
	}
}

func NewAuthHandler(authService auth.AuthService) AuthHandler {
	return &AuthHandlerImpl{
		authService: authService,
	}
}
