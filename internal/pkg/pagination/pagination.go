package pagination

import (
	"net/url"
	"strconv"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Params selects one page of a list.
type Params struct {
	Page     int
	PageSize int
}

// FromQuery reads page and page_size, falling back to defaults on bad input.
func FromQuery(q url.Values) Params {
	p := Params{Page: 1, PageSize: DefaultPageSize}
	if raw := q.Get("page"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			p.Page = v
		}
	}
	if raw := q.Get("page_size"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			p.PageSize = v
		}
	}
	return p.Normalize()
}

func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

func (p Params) Limit() int {
	return p.Normalize().PageSize
}

func (p Params) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.PageSize
}

// Values encodes p as query parameters.
func (p Params) Values() url.Values {
	n := p.Normalize()
	v := url.Values{}
	v.Set("page", strconv.Itoa(n.Page))
	v.Set("page_size", strconv.Itoa(n.PageSize))
	return v
}

// Page is a list response.
type Page[T any] struct {
	Count    int64 `json:"count"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Results  []T   `json:"results"`
}

func NewPage[T any](results []T, count int64, p Params) Page[T] {
	n := p.Normalize()
	if results == nil {
		results = []T{}
	}
	return Page[T]{Count: count, Page: n.Page, PageSize: n.PageSize, Results: results}
}

// HasNext reports whether later pages exist.
func (p Page[T]) HasNext() bool {
	return int64(p.Page*p.PageSize) < p.Count
}
