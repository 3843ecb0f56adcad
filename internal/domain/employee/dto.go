package employee

import (
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/accabog/rhr-sub000/internal/pkg/pagination"
	"github.com/accabog/rhr-sub000/internal/pkg/validator"
)

const DateFormat = "2006-01-02"

type CreateEmployeeRequest struct {
	EmployeeID            string  `json:"employee_id"`
	FirstName             string  `json:"first_name"`
	LastName              string  `json:"last_name"`
	Email                 string  `json:"email"`
	Phone                 string  `json:"phone,omitempty"`
	Department            *string `json:"department,omitempty"`
	Position              *string `json:"position,omitempty"`
	Manager               *string `json:"manager,omitempty"`
	HireDate              string  `json:"hire_date"`
	Status                string  `json:"status,omitempty"`
	DateOfBirth           *string `json:"date_of_birth,omitempty"`
	Address               string  `json:"address,omitempty"`
	EmergencyContactName  string  `json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone string  `json:"emergency_contact_phone,omitempty"`
	Timezone              string  `json:"timezone,omitempty"`
	User                  *string `json:"user,omitempty"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	} else if len(r.EmployeeID) > 50 {
		errs.Add("employee_id", "employee_id must not exceed 50 characters")
	}
	if validator.IsEmpty(r.FirstName) {
		errs.Add("first_name", "first_name is required")
	} else if len(r.FirstName) > 150 {
		errs.Add("first_name", "first_name must not exceed 150 characters")
	}
	if validator.IsEmpty(r.LastName) {
		errs.Add("last_name", "last_name is required")
	} else if len(r.LastName) > 150 {
		errs.Add("last_name", "last_name must not exceed 150 characters")
	}
	if !validator.IsValidEmail(r.Email) {
		errs.Add("email", "Enter a valid email address.")
	}
	if _, ok := validator.IsValidDate(r.HireDate); !ok {
		errs.Add("hire_date", "hire_date must be a date in YYYY-MM-DD format")
	}
	if r.Status != "" && !Status(r.Status).Valid() {
		errs.Add("status", "\""+r.Status+"\" is not a valid choice.")
	}
	if r.DateOfBirth != nil && *r.DateOfBirth != "" {
		if _, ok := validator.IsValidDate(*r.DateOfBirth); !ok {
			errs.Add("date_of_birth", "date_of_birth must be a date in YYYY-MM-DD format")
		}
	}
	if r.Timezone != "" {
		validateTimezone(&errs, r.Timezone)
	}
	validateRef(&errs, "department", r.Department)
	validateRef(&errs, "position", r.Position)
	validateRef(&errs, "manager", r.Manager)
	validateRef(&errs, "user", r.User)

	return errs.Err()
}

// UpdateEmployeeRequest is a partial update; nil fields are left unchanged.
// An empty reference or date clears it.
type UpdateEmployeeRequest struct {
	EmployeeID      *string `json:"employee_id,omitempty"`
	FirstName       *string `json:"first_name,omitempty"`
	LastName        *string `json:"last_name,omitempty"`
	Email           *string `json:"email,omitempty"`
	Department      *string `json:"department,omitempty"`
	Position        *string `json:"position,omitempty"`
	Manager         *string `json:"manager,omitempty"`
	HireDate        *string `json:"hire_date,omitempty"`
	TerminationDate *string `json:"termination_date,omitempty"`
	Status          *string `json:"status,omitempty"`
	UpdateProfileRequest
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.EmployeeID != nil && (validator.IsEmpty(*r.EmployeeID) || len(*r.EmployeeID) > 50) {
		errs.Add("employee_id", "employee_id must be 1 to 50 characters")
	}
	if r.FirstName != nil && validator.IsEmpty(*r.FirstName) {
		errs.Add("first_name", "first_name may not be blank")
	}
	if r.LastName != nil && validator.IsEmpty(*r.LastName) {
		errs.Add("last_name", "last_name may not be blank")
	}
	if r.Email != nil && !validator.IsValidEmail(*r.Email) {
		errs.Add("email", "Enter a valid email address.")
	}
	if r.HireDate != nil {
		if _, ok := validator.IsValidDate(*r.HireDate); !ok {
			errs.Add("hire_date", "hire_date must be a date in YYYY-MM-DD format")
		}
	}
	validateOptionalDate(&errs, "termination_date", r.TerminationDate)
	if r.Status != nil && !Status(*r.Status).Valid() {
		errs.Add("status", "\""+*r.Status+"\" is not a valid choice.")
	}
	validateRef(&errs, "department", nonEmpty(r.Department))
	validateRef(&errs, "position", nonEmpty(r.Position))
	validateRef(&errs, "manager", nonEmpty(r.Manager))
	if err := r.UpdateProfileRequest.Validate(); err != nil {
		errs = append(errs, err.(validator.ValidationErrors)...)
	}

	return errs.Err()
}

// Apply copies the set fields onto e. The request must be valid.
func (r *UpdateEmployeeRequest) Apply(e *Employee) {
	if r.EmployeeID != nil {
		e.EmployeeCode = strings.TrimSpace(*r.EmployeeID)
	}
	if r.FirstName != nil {
		e.FirstName = strings.TrimSpace(*r.FirstName)
	}
	if r.LastName != nil {
		e.LastName = strings.TrimSpace(*r.LastName)
	}
	if r.Email != nil {
		e.Email = strings.TrimSpace(*r.Email)
	}
	if r.Department != nil {
		e.DepartmentID = nonEmpty(r.Department)
	}
	if r.Position != nil {
		e.PositionID = nonEmpty(r.Position)
	}
	if r.Manager != nil {
		e.ManagerID = nonEmpty(r.Manager)
	}
	if r.HireDate != nil {
		e.HireDate, _ = time.Parse(DateFormat, *r.HireDate)
	}
	if r.TerminationDate != nil {
		e.TerminationDate = parseOptionalDate(*r.TerminationDate)
	}
	if r.Status != nil {
		e.Status = Status(*r.Status)
	}
	r.UpdateProfileRequest.Apply(e)
}

// UpdateProfileRequest holds the fields employees may change on their own record.
type UpdateProfileRequest struct {
	Phone                 *string `json:"phone,omitempty"`
	DateOfBirth           *string `json:"date_of_birth,omitempty"`
	Address               *string `json:"address,omitempty"`
	EmergencyContactName  *string `json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone *string `json:"emergency_contact_phone,omitempty"`
	Timezone              *string `json:"timezone,omitempty"`
}

func (r *UpdateProfileRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Phone != nil && len(*r.Phone) > 50 {
		errs.Add("phone", "phone must not exceed 50 characters")
	}
	validateOptionalDate(&errs, "date_of_birth", r.DateOfBirth)
	if r.EmergencyContactPhone != nil && len(*r.EmergencyContactPhone) > 50 {
		errs.Add("emergency_contact_phone", "emergency_contact_phone must not exceed 50 characters")
	}
	if r.Timezone != nil {
		validateTimezone(&errs, *r.Timezone)
	}

	return errs.Err()
}

// Apply copies the set fields onto e. The request must be valid.
func (r *UpdateProfileRequest) Apply(e *Employee) {
	if r.Phone != nil {
		e.Phone = *r.Phone
	}
	if r.DateOfBirth != nil {
		e.DateOfBirth = parseOptionalDate(*r.DateOfBirth)
	}
	if r.Address != nil {
		e.Address = *r.Address
	}
	if r.EmergencyContactName != nil {
		e.EmergencyContactName = *r.EmergencyContactName
	}
	if r.EmergencyContactPhone != nil {
		e.EmergencyContactPhone = *r.EmergencyContactPhone
	}
	if r.Timezone != nil {
		e.Timezone = *r.Timezone
	}
}

func validateRef(errs *validator.ValidationErrors, field string, id *string) {
	if id != nil && !validator.IsValidUUID(*id) {
		errs.Add(field, field+" must be a valid UUID")
	}
}

func validateOptionalDate(errs *validator.ValidationErrors, field string, raw *string) {
	if raw == nil || *raw == "" {
		return
	}
	if _, ok := validator.IsValidDate(*raw); !ok {
		errs.Add(field, field+" must be a date in YYYY-MM-DD format")
	}
}

func validateTimezone(errs *validator.ValidationErrors, tz string) {
	if _, err := time.LoadLocation(tz); err != nil || tz == "" || tz == "Local" {
		errs.Add("timezone", "\""+tz+"\" is not a valid timezone.")
	}
}

func parseOptionalDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	t, err := time.Parse(DateFormat, raw)
	if err != nil {
		return nil
	}
	return &t
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

type EmployeeFilter struct {
	Status     string
	Department string
	Position   string
	Manager    string
	Search     string
	Page       pagination.Params
}

func (f *EmployeeFilter) Validate() error {
	var errs validator.ValidationErrors
	if f.Status != "" {
		for _, s := range strings.Split(f.Status, ",") {
			if !Status(s).Valid() {
				errs.Add("status", "unknown status "+s)
			}
		}
	}
	validateRef(&errs, "department", nonEmpty(&f.Department))
	validateRef(&errs, "position", nonEmpty(&f.Position))
	validateRef(&errs, "manager", nonEmpty(&f.Manager))
	return errs.Err()
}

// Query converts a validated filter.
func (f *EmployeeFilter) Query() EmployeeQuery {
	q := EmployeeQuery{
		DepartmentID: f.Department,
		PositionID:   f.Position,
		ManagerID:    f.Manager,
		Search:       strings.TrimSpace(f.Search),
		Page:         f.Page.Normalize(),
	}
	if f.Status != "" {
		for _, s := range strings.Split(f.Status, ",") {
			q.Statuses = append(q.Statuses, Status(s))
		}
	}
	return q
}

type EmployeeResponse struct {
	ID                    string  `json:"id"`
	EmployeeID            string  `json:"employee_id"`
	FullName              string  `json:"full_name"`
	FirstName             string  `json:"first_name"`
	LastName              string  `json:"last_name"`
	Email                 string  `json:"email"`
	Phone                 string  `json:"phone"`
	Department            *string `json:"department"`
	DepartmentName        string  `json:"department_name"`
	DepartmentCountry     string  `json:"department_country"`
	Position              *string `json:"position"`
	PositionTitle         string  `json:"position_title"`
	Manager               *string `json:"manager"`
	ManagerName           *string `json:"manager_name"`
	HireDate              string  `json:"hire_date"`
	TerminationDate       *string `json:"termination_date"`
	Status                string  `json:"status"`
	DateOfBirth           *string `json:"date_of_birth"`
	Address               string  `json:"address"`
	EmergencyContactName  string  `json:"emergency_contact_name"`
	EmergencyContactPhone string  `json:"emergency_contact_phone"`
	Timezone              string  `json:"timezone"`
	User                  *string `json:"user"`
	CreatedAt             string  `json:"created_at"`
	UpdatedAt             string  `json:"updated_at"`
}

func NewEmployeeResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:                    e.ID,
		EmployeeID:            e.EmployeeCode,
		FullName:              e.FullName(),
		FirstName:             e.FirstName,
		LastName:              e.LastName,
		Email:                 e.Email,
		Phone:                 e.Phone,
		Department:            e.DepartmentID,
		DepartmentName:        e.DepartmentName,
		DepartmentCountry:     e.DepartmentCountry,
		Position:              e.PositionID,
		PositionTitle:         e.PositionTitle,
		Manager:               e.ManagerID,
		HireDate:              e.HireDate.Format(DateFormat),
		TerminationDate:       formatOptionalDate(e.TerminationDate),
		Status:                string(e.Status),
		DateOfBirth:           formatOptionalDate(e.DateOfBirth),
		Address:               e.Address,
		EmergencyContactName:  e.EmergencyContactName,
		EmergencyContactPhone: e.EmergencyContactPhone,
		Timezone:              e.Timezone,
		User:                  e.UserID,
		CreatedAt:             e.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:             e.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if e.ManagerID != nil {
		name := e.ManagerName
		resp.ManagerName = &name
	}
	return resp
}

func formatOptionalDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(DateFormat)
	return &s
}

type ListEmployeeResponse = pagination.Page[EmployeeResponse]
