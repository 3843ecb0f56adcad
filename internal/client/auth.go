package client

import (
	"context"
	"net/http"

	"github.com/accabog/rhr-sub000/internal/domain/auth"
	"github.com/accabog/rhr-sub000/internal/domain/user"
)

// Me mirrors the session resolved by the server.
type Me struct {
	UserID     string `json:"user_id"`
	TenantID   string `json:"tenant_id"`
	EmployeeID string `json:"employee_id,omitempty"`
	Role       string `json:"role"`
	CanApprove bool   `json:"can_approve"`
}

// Login exchanges credentials for a token and makes it the client's session.
func (c *Client) Login(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	var token auth.TokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login/", nil, req, &token); err != nil {
		return auth.TokenResponse{}, err
	}
	c.SetSession(Session{
		Token:      token.AccessToken,
		TenantID:   token.TenantID,
		UserID:     token.UserID,
		EmployeeID: token.EmployeeID,
		Role:       user.Role(token.Role),
	})
	return token, nil
}

// Me returns the caller as seen by the server.
func (c *Client) Me(ctx context.Context) (Me, error) {
	var me Me
	err := c.do(ctx, http.MethodGet, "/auth/me/", nil, nil, &me)
	return me, err
}

// Refresh reloads the session fields from the server, keeping the token.
func (c *Client) Refresh(ctx context.Context) (Session, error) {
	me, err := c.Me(ctx)
	if err != nil {
		return Session{}, err
	}
	s := c.Session()
	s.UserID = me.UserID
	s.TenantID = me.TenantID
	s.EmployeeID = me.EmployeeID
	s.Role = user.Role(me.Role)
	c.SetSession(s)
	return s, nil
}
