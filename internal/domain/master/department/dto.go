package department

import (
	"strings"
	"time"

	"github.com/accabog/rhr-sub000/internal/pkg/validator"
)

type CreateDepartmentRequest struct {
	Name        string  `json:"name"`
	Code        string  `json:"code,omitempty"`
	Description string  `json:"description,omitempty"`
	Parent      *string `json:"parent,omitempty"`
	Manager     *string `json:"manager,omitempty"`
	Country     string  `json:"country,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

func (r *CreateDepartmentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	} else if len(r.Name) > 255 {
		errs.Add("name", "name must not exceed 255 characters")
	}
	if len(r.Code) > 50 {
		errs.Add("code", "code must not exceed 50 characters")
	}
	validateRefs(&errs, r.Parent, r.Manager)
	validateCountry(&errs, r.Country)

	return errs.Err()
}

// UpdateDepartmentRequest is a partial update; nil fields are left unchanged.
// An empty parent or manager clears it.
type UpdateDepartmentRequest struct {
	Name        *string `json:"name,omitempty"`
	Code        *string `json:"code,omitempty"`
	Description *string `json:"description,omitempty"`
	Parent      *string `json:"parent,omitempty"`
	Manager     *string `json:"manager,omitempty"`
	Country     *string `json:"country,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

func (r *UpdateDepartmentRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil {
		if validator.IsEmpty(*r.Name) {
			errs.Add("name", "name may not be blank")
		} else if len(*r.Name) > 255 {
			errs.Add("name", "name must not exceed 255 characters")
		}
	}
	if r.Code != nil && len(*r.Code) > 50 {
		errs.Add("code", "code must not exceed 50 characters")
	}
	validateRefs(&errs, nonEmpty(r.Parent), nonEmpty(r.Manager))
	if r.Country != nil {
		validateCountry(&errs, *r.Country)
	}

	return errs.Err()
}

// Apply copies the set fields onto d.
func (r *UpdateDepartmentRequest) Apply(d *Department) {
	if r.Name != nil {
		d.Name = strings.TrimSpace(*r.Name)
	}
	if r.Code != nil {
		d.Code = strings.TrimSpace(*r.Code)
	}
	if r.Description != nil {
		d.Description = *r.Description
	}
	if r.Parent != nil {
		d.ParentID = nonEmpty(r.Parent)
	}
	if r.Manager != nil {
		d.ManagerID = nonEmpty(r.Manager)
	}
	if r.Country != nil {
		d.Country = strings.ToUpper(*r.Country)
	}
	if r.IsActive != nil {
		d.IsActive = *r.IsActive
	}
}

func validateRefs(errs *validator.ValidationErrors, parent, manager *string) {
	if parent != nil && !validator.IsValidUUID(*parent) {
		errs.Add("parent", "parent must be a valid UUID")
	}
	if manager != nil && !validator.IsValidUUID(*manager) {
		errs.Add("manager", "manager must be a valid UUID")
	}
}

func validateCountry(errs *validator.ValidationErrors, country string) {
	if country != "" && !validator.IsValidCountryCode(strings.ToUpper(country)) {
		errs.Add("country", "country must be an ISO 3166-1 alpha-2 code")
	}
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

type DepartmentFilter struct {
	IsActive string
	Parent   string
	Search   string
}

func (f *DepartmentFilter) Validate() error {
	var errs validator.ValidationErrors
	if f.IsActive != "" && f.IsActive != "true" && f.IsActive != "false" {
		errs.Add("is_active", "Must be a valid boolean.")
	}
	if f.Parent != "" && !validator.IsValidUUID(f.Parent) {
		errs.Add("parent", "parent must be a valid UUID")
	}
	return errs.Err()
}

// Query converts a validated filter.
func (f *DepartmentFilter) Query() DepartmentQuery {
	q := DepartmentQuery{ParentID: f.Parent, Search: strings.TrimSpace(f.Search)}
	if f.IsActive != "" {
		active := f.IsActive == "true"
		q.IsActive = &active
	}
	return q
}

type DepartmentResponse struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Code           string  `json:"code"`
	Description    string  `json:"description"`
	Parent         *string `json:"parent"`
	Manager        *string `json:"manager"`
	Country        string  `json:"country"`
	IsActive       bool    `json:"is_active"`
	ChildrenCount  int     `json:"children_count"`
	EmployeesCount int     `json:"employees_count"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

func NewDepartmentResponse(d Department) DepartmentResponse {
	return DepartmentResponse{
		ID:             d.ID,
		Name:           d.Name,
		Code:           d.Code,
		Description:    d.Description,
		Parent:         d.ParentID,
		Manager:        d.ManagerID,
		Country:        d.Country,
		IsActive:       d.IsActive,
		ChildrenCount:  d.ChildrenCount,
		EmployeesCount: d.EmployeesCount,
		CreatedAt:      d.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:      d.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
