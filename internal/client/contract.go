package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/accabog/rhr-sub000/internal/domain/contract"
	"github.com/accabog/rhr-sub000/internal/pkg/pagination"
)

type ContractQuery struct {
	Status       string
	Employee     string
	ExpiringSoon bool
	Page         pagination.Params
}

func (q ContractQuery) Values() url.Values {
	v := q.Page.Values()
	setIf(v, "status", q.Status)
	setIf(v, "employee", q.Employee)
	if q.ExpiringSoon {
		v.Set("expiring_soon", "true")
	}
	return v
}

func contractPath(id string, action string) string {
	p := "/contracts/" + url.PathEscape(id) + "/"
	if action != "" {
		p += action + "/"
	}
	return p
}

func (c *Client) Contract(ctx context.Context, id string) (contract.ContractResponse, error) {
	var k contract.ContractResponse
	err := c.do(ctx, http.MethodGet, contractPath(id, ""), nil, nil, &k)
	return k, err
}

func (c *Client) Contracts(ctx context.Context, q ContractQuery) (contract.ListContractResponse, error) {
	var page contract.ListContractResponse
	err := c.do(ctx, http.MethodGet, "/contracts/", q.Values(), nil, &page)
	return page, err
}

func (c *Client) MyContracts(ctx context.Context, q ContractQuery) (contract.ListContractResponse, error) {
	var page contract.ListContractResponse
	err := c.do(ctx, http.MethodGet, "/contracts/my_contracts/", q.Page.Values(), nil, &page)
	return page, err
}

func (c *Client) ExpiringContracts(ctx context.Context) ([]contract.ContractResponse, error) {
	var contracts []contract.ContractResponse
	err := c.do(ctx, http.MethodGet, "/contracts/expiring/", nil, nil, &contracts)
	return contracts, err
}

func (c *Client) ContractStats(ctx context.Context) (contract.StatsResponse, error) {
	var stats contract.StatsResponse
	err := c.do(ctx, http.MethodGet, "/contracts/stats/", nil, nil, &stats)
	return stats, err
}

func (c *Client) ActivateContract(ctx context.Context, id string) (contract.ContractResponse, error) {
	return c.contractAction(ctx, id, "activate")
}

func (c *Client) TerminateContract(ctx context.Context, id string) (contract.ContractResponse, error) {
	return c.contractAction(ctx, id, "terminate")
}

func (c *Client) contractAction(ctx context.Context, id, action string) (contract.ContractResponse, error) {
	var k contract.ContractResponse
	err := c.do(ctx, http.MethodPost, contractPath(id, action), nil, struct{}{}, &k)
	return k, err
}
