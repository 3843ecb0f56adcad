package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/accabog/rhr-sub000/internal/domain/employee"
	"github.com/accabog/rhr-sub000/internal/pkg/pagination"
)

type EmployeeQuery struct {
	Status     string
	Department string
	Search     string
	Page       pagination.Params
}

func (q EmployeeQuery) Values() url.Values {
	v := q.Page.Values()
	setIf(v, "status", q.Status)
	setIf(v, "department", q.Department)
	setIf(v, "search", q.Search)
	return v
}

// MyProfile returns the caller's employee record.
func (c *Client) MyProfile(ctx context.Context) (employee.EmployeeResponse, error) {
	var e employee.EmployeeResponse
	err := c.do(ctx, http.MethodGet, "/employees/me/", nil, nil, &e)
	return e, err
}

func (c *Client) UpdateMyProfile(ctx context.Context, req employee.UpdateProfileRequest) (employee.EmployeeResponse, error) {
	var e employee.EmployeeResponse
	err := c.do(ctx, http.MethodPatch, "/employees/me/", nil, req, &e)
	return e, err
}

func (c *Client) Employees(ctx context.Context, q EmployeeQuery) (employee.ListEmployeeResponse, error) {
	var page employee.ListEmployeeResponse
	err := c.do(ctx, http.MethodGet, "/employees/", q.Values(), nil, &page)
	return page, err
}
