package position

import (
	"strconv"
	"strings"
	"time"

	"github.com/accabog/rhr-sub000/internal/pkg/validator"
)

type CreatePositionRequest struct {
	Title       string  `json:"title"`
	Code        string  `json:"code,omitempty"`
	Description string  `json:"description,omitempty"`
	Department  *string `json:"department,omitempty"`
	Level       *int    `json:"level,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

func (r *CreatePositionRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Title) {
		errs.Add("title", "title is required")
	} else if len(r.Title) > 255 {
		errs.Add("title", "title must not exceed 255 characters")
	}
	if len(r.Code) > 50 {
		errs.Add("code", "code must not exceed 50 characters")
	}
	if r.Department != nil && !validator.IsValidUUID(*r.Department) {
		errs.Add("department", "department must be a valid UUID")
	}
	if r.Level != nil && *r.Level < 1 {
		errs.Add("level", "level must be at least 1")
	}

	return errs.Err()
}

// UpdatePositionRequest is a partial update; nil fields are left unchanged.
// An empty department clears it.
type UpdatePositionRequest struct {
	Title       *string `json:"title,omitempty"`
	Code        *string `json:"code,omitempty"`
	Description *string `json:"description,omitempty"`
	Department  *string `json:"department,omitempty"`
	Level       *int    `json:"level,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

func (r *UpdatePositionRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Title != nil {
		if validator.IsEmpty(*r.Title) {
			errs.Add("title", "title may not be blank")
		} else if len(*r.Title) > 255 {
			errs.Add("title", "title must not exceed 255 characters")
		}
	}
	if r.Code != nil && len(*r.Code) > 50 {
		errs.Add("code", "code must not exceed 50 characters")
	}
	if r.Department != nil && *r.Department != "" && !validator.IsValidUUID(*r.Department) {
		errs.Add("department", "department must be a valid UUID")
	}
	if r.Level != nil && *r.Level < 1 {
		errs.Add("level", "level must be at least 1")
	}

	return errs.Err()
}

// Apply copies the set fields onto p.
func (r *UpdatePositionRequest) Apply(p *Position) {
	if r.Title != nil {
		p.Title = strings.TrimSpace(*r.Title)
	}
	if r.Code != nil {
		p.Code = strings.TrimSpace(*r.Code)
	}
	if r.Description != nil {
		p.Description = *r.Description
	}
	if r.Department != nil {
		if *r.Department == "" {
			p.DepartmentID = nil
		} else {
			p.DepartmentID = r.Department
		}
	}
	if r.Level != nil {
		p.Level = *r.Level
	}
	if r.IsActive != nil {
		p.IsActive = *r.IsActive
	}
}

type PositionFilter struct {
	IsActive   string
	Department string
	Level      string
	Search     string
}

func (f *PositionFilter) Validate() error {
	var errs validator.ValidationErrors
	if f.IsActive != "" && f.IsActive != "true" && f.IsActive != "false" {
		errs.Add("is_active", "Must be a valid boolean.")
	}
	if f.Department != "" && !validator.IsValidUUID(f.Department) {
		errs.Add("department", "department must be a valid UUID")
	}
	if f.Level != "" {
		if _, ok := parseLevel(f.Level); !ok {
			errs.Add("level", "A valid integer is required.")
		}
	}
	return errs.Err()
}

// Query converts a validated filter.
func (f *PositionFilter) Query() PositionQuery {
	q := PositionQuery{DepartmentID: f.Department, Search: strings.TrimSpace(f.Search)}
	if f.IsActive != "" {
		active := f.IsActive == "true"
		q.IsActive = &active
	}
	if level, ok := parseLevel(f.Level); ok {
		q.Level = level
	}
	return q
}

func parseLevel(raw string) (int, bool) {
	n, err := strconv.Atoi(raw)
	return n, err == nil && n > 0
}

type PositionResponse struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	Code           string  `json:"code"`
	Description    string  `json:"description"`
	Department     *string `json:"department"`
	DepartmentName string  `json:"department_name"`
	Level          int     `json:"level"`
	IsActive       bool    `json:"is_active"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

func NewPositionResponse(p Position) PositionResponse {
	return PositionResponse{
		ID:             p.ID,
		Title:          p.Title,
		Code:           p.Code,
		Description:    p.Description,
		Department:     p.DepartmentID,
		DepartmentName: p.DepartmentName,
		Level:          p.Level,
		IsActive:       p.IsActive,
		CreatedAt:      p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:      p.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
