package jwt

import (
	"fmt"
	"time"

	"github.com/accabog/rhr-sub000/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const TokenTypeAccess = "access"

// AccessClaims identify the caller within one tenant.
type AccessClaims struct {
	UserID     string
	TenantID   string
	EmployeeID string
	Role       user.Role
}

type Service interface {
	GenerateAccessToken(claims AccessClaims) (token string, expiresAt int64, err error)
	// ParseAccessClaims reads the claims map of a verified token.
	ParseAccessClaims(claims map[string]any) (AccessClaims, error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpirationTime time.Duration
	tokenAuth                 *jwtauth.JWTAuth
	now                       func() time.Time
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime time.Duration) Service {
	return &JWTService{
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		now:                       time.Now,
	}
}

func (j *JWTService) GenerateAccessToken(c AccessClaims) (token string, expiresAt int64, err error) {
	expiresAt = j.now().Add(j.accessTokenExpirationTime).Unix()

	claims := map[string]any{
		"user_id":     c.UserID,
		"tenant_id":   c.TenantID,
		"employee_id": returnValueOrNil(c.EmployeeID),
		"role":        string(c.Role),
		"type":        TokenTypeAccess,
		"exp":         expiresAt,
	}
	jwtauth.SetIssuedNow(claims)

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

func (j *JWTService) ParseAccessClaims(claims map[string]any) (AccessClaims, error) {
	if t, _ := claims["type"].(string); t != TokenTypeAccess {
		return AccessClaims{}, fmt.Errorf("unexpected token type %q", t)
	}

	var c AccessClaims
	var ok bool
	if c.UserID, ok = claims["user_id"].(string); !ok || c.UserID == "" {
		return AccessClaims{}, fmt.Errorf("missing user_id claim")
	}
	if c.TenantID, ok = claims["tenant_id"].(string); !ok || c.TenantID == "" {
		return AccessClaims{}, fmt.Errorf("missing tenant_id claim")
	}
	c.EmployeeID, _ = claims["employee_id"].(string)
	role, _ := claims["role"].(string)
	c.Role = user.Role(role)
	if !c.Role.Valid() {
		return AccessClaims{}, fmt.Errorf("invalid role claim %q", role)
	}
	return c, nil
}

func returnValueOrNil(value string) any {
	if value == "" {
		return nil
	}
	return value
}
