package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/accabog/rhr-sub000/internal/domain/auth"
	"github.com/accabog/rhr-sub000/internal/domain/employee"
	"github.com/accabog/rhr-sub000/internal/domain/tenant"
	"github.com/accabog/rhr-sub000/internal/domain/user"
	"github.com/accabog/rhr-sub000/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	user.UserRepository
	tenant.TenantRepository
	tenant.MembershipRepository
	employee.EmployeeRepository
	jwt.Service
}

func NewAuthService(
	userRepository user.UserRepository,
	tenantRepository tenant.TenantRepository,
	membershipRepository tenant.MembershipRepository,
	employeeRepository employee.EmployeeRepository,
	jwtService jwt.Service,
) auth.AuthService {
	return &AuthServiceImpl{
		UserRepository:       userRepository,
		TenantRepository:     tenantRepository,
		MembershipRepository: membershipRepository,
		EmployeeRepository:   employeeRepository,
		Service:              jwtService,
	}
}

// HashPassword returns the bcrypt hash stored for password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Login implements auth.AuthService. Unknown users, inactive users and wrong
// passwords are indistinguishable to the caller.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	userData, err := a.UserRepository.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	}
	if !userData.IsActive || userData.PasswordHash == "" {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(userData.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	var membership tenant.Membership
	if req.TenantID != "" {
		membership, err = a.MembershipRepository.Get(ctx, userData.ID, req.TenantID)
	} else {
		membership, err = a.MembershipRepository.GetDefault(ctx, userData.ID)
	}
	if err != nil {
		if errors.Is(err, tenant.ErrMembershipNotFound) {
			return auth.TokenResponse{}, err
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get membership: %w", err)
	}

	t, err := a.TenantRepository.GetByID(ctx, membership.TenantID)
	if err != nil {
		if errors.Is(err, tenant.ErrTenantNotFound) {
			return auth.TokenResponse{}, tenant.ErrMembershipNotFound
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get tenant: %w", err)
	}
	if !t.IsActive {
		return auth.TokenResponse{}, tenant.ErrMembershipNotFound
	}

	var employeeID string
	emp, err := a.EmployeeRepository.GetByUserID(ctx, membership.TenantID, userData.ID)
	switch {
	case err == nil:
		employeeID = emp.ID
	case !errors.Is(err, employee.ErrEmployeeNotFound):
		return auth.TokenResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	token, expiresAt, err := a.Service.GenerateAccessToken(jwt.AccessClaims{
		UserID:     userData.ID,
		TenantID:   membership.TenantID,
		EmployeeID: employeeID,
		Role:       membership.Role,
	})
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}

	slog.Info("User logged in", "user_id", userData.ID, "tenant_id", membership.TenantID, "role", membership.Role)
	return auth.TokenResponse{
		AccessToken:          token,
		AccessTokenExpiresIn: expiresAt,
		UserID:               userData.ID,
		TenantID:             membership.TenantID,
		EmployeeID:           employeeID,
		Role:                 string(membership.Role),
	}, nil
}
