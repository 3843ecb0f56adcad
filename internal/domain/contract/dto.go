package contract

import (
	"strings"
	"time"

	"github.com/accabog/rhr-sub000/internal/pkg/pagination"
	"github.com/accabog/rhr-sub000/internal/pkg/validator"
	"github.com/accabog/rhr-sub000/internal/pkg/workflow"
	"github.com/shopspring/decimal"
)

const DateFormat = "2006-01-02"

const (
	DefaultCurrency         = "USD"
	DefaultNoticePeriodDays = 30
)

var DefaultHoursPerWeek = decimal.NewFromInt(40)

type CreateContractTypeRequest struct {
	Name        string `json:"name"`
	Code        string `json:"code"`
	Description string `json:"description,omitempty"`
	IsActive    *bool  `json:"is_active,omitempty"`
}

func (r *CreateContractTypeRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	} else if len(r.Name) > 100 {
		errs.Add("name", "name must not exceed 100 characters")
	}
	if validator.IsEmpty(r.Code) {
		errs.Add("code", "code is required")
	} else if len(r.Code) > 20 {
		errs.Add("code", "code must not exceed 20 characters")
	}
	return errs.Err()
}

type ContractTypeResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Code        string `json:"code"`
	Description string `json:"description"`
	IsActive    bool   `json:"is_active"`
}

func NewContractTypeResponse(t ContractType) ContractTypeResponse {
	return ContractTypeResponse{
		ID:          t.ID,
		Name:        t.Name,
		Code:        t.Code,
		Description: t.Description,
		IsActive:    t.IsActive,
	}
}

type CreateContractRequest struct {
	Employee         string           `json:"employee"`
	ContractType     string           `json:"contract_type"`
	Title            string           `json:"title"`
	StartDate        string           `json:"start_date"`
	EndDate          *string          `json:"end_date,omitempty"`
	Salary           *decimal.Decimal `json:"salary,omitempty"`
	SalaryCurrency   string           `json:"salary_currency,omitempty"`
	SalaryPeriod     string           `json:"salary_period,omitempty"`
	HoursPerWeek     *decimal.Decimal `json:"hours_per_week,omitempty"`
	ProbationEndDate *string          `json:"probation_end_date,omitempty"`
	NoticePeriodDays *int             `json:"notice_period_days,omitempty"`
	Notes            string           `json:"notes,omitempty"`
}

func (r *CreateContractRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.Employee) {
		errs.Add("employee", "employee must be a valid UUID")
	}
	if !validator.IsValidUUID(r.ContractType) {
		errs.Add("contract_type", "contract_type must be a valid UUID")
	}
	if validator.IsEmpty(r.Title) {
		errs.Add("title", "title is required")
	} else if len(r.Title) > 255 {
		errs.Add("title", "title must not exceed 255 characters")
	}
	start, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs.Add("start_date", "start_date must be a date in YYYY-MM-DD format")
	}
	end := parseOptional(&errs, "end_date", r.EndDate)
	probation := parseOptional(&errs, "probation_end_date", r.ProbationEndDate)
	validateTerms(&errs, r.Salary, r.SalaryCurrency, r.SalaryPeriod, r.HoursPerWeek, r.NoticePeriodDays)
	if startOK {
		checkDates(&errs, start, end, probation)
	}

	return errs.Err()
}

// Contract builds the draft contract. The request must be valid.
func (r *CreateContractRequest) Contract(tenantID string) Contract {
	start, _ := time.Parse(DateFormat, r.StartDate)
	c := Contract{
		TenantID:         tenantID,
		EmployeeID:       r.Employee,
		ContractTypeID:   r.ContractType,
		Title:            strings.TrimSpace(r.Title),
		StartDate:        start,
		EndDate:          parseDate(r.EndDate),
		Status:           workflow.StatusDraft,
		Salary:           r.Salary,
		SalaryCurrency:   DefaultCurrency,
		SalaryPeriod:     SalaryMonthly,
		HoursPerWeek:     DefaultHoursPerWeek,
		ProbationEndDate: parseDate(r.ProbationEndDate),
		NoticePeriodDays: DefaultNoticePeriodDays,
		Notes:            r.Notes,
	}
	if r.SalaryCurrency != "" {
		c.SalaryCurrency = strings.ToUpper(r.SalaryCurrency)
	}
	if r.SalaryPeriod != "" {
		c.SalaryPeriod = SalaryPeriod(r.SalaryPeriod)
	}
	if r.HoursPerWeek != nil {
		c.HoursPerWeek = *r.HoursPerWeek
	}
	if r.NoticePeriodDays != nil {
		c.NoticePeriodDays = *r.NoticePeriodDays
	}
	return c
}

// UpdateContractRequest is a partial update; nil fields are left unchanged.
// An empty end or probation date clears it.
type UpdateContractRequest struct {
	Title            *string          `json:"title,omitempty"`
	StartDate        *string          `json:"start_date,omitempty"`
	EndDate          *string          `json:"end_date,omitempty"`
	Salary           *decimal.Decimal `json:"salary,omitempty"`
	SalaryCurrency   *string          `json:"salary_currency,omitempty"`
	SalaryPeriod     *string          `json:"salary_period,omitempty"`
	HoursPerWeek     *decimal.Decimal `json:"hours_per_week,omitempty"`
	ProbationEndDate *string          `json:"probation_end_date,omitempty"`
	ProbationPassed  *bool            `json:"probation_passed,omitempty"`
	NoticePeriodDays *int             `json:"notice_period_days,omitempty"`
	Notes            *string          `json:"notes,omitempty"`
}

func (r *UpdateContractRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Title != nil && (validator.IsEmpty(*r.Title) || len(*r.Title) > 255) {
		errs.Add("title", "title must be 1 to 255 characters")
	}
	if r.StartDate != nil {
		if _, ok := validator.IsValidDate(*r.StartDate); !ok {
			errs.Add("start_date", "start_date must be a date in YYYY-MM-DD format")
		}
	}
	parseOptional(&errs, "end_date", r.EndDate)
	parseOptional(&errs, "probation_end_date", r.ProbationEndDate)
	currency, period := "", ""
	if r.SalaryCurrency != nil {
		currency = *r.SalaryCurrency
		if currency == "" {
			errs.Add("salary_currency", "salary_currency may not be blank")
		}
	}
	if r.SalaryPeriod != nil {
		period = *r.SalaryPeriod
		if period == "" {
			errs.Add("salary_period", "salary_period may not be blank")
		}
	}
	validateTerms(&errs, r.Salary, currency, period, r.HoursPerWeek, r.NoticePeriodDays)

	return errs.Err()
}

// Apply copies the set fields onto c and checks the resulting dates.
func (r *UpdateContractRequest) Apply(c *Contract) error {
	if r.Title != nil {
		c.Title = strings.TrimSpace(*r.Title)
	}
	if r.StartDate != nil {
		c.StartDate, _ = time.Parse(DateFormat, *r.StartDate)
	}
	if r.EndDate != nil {
		c.EndDate = parseDate(r.EndDate)
	}
	if r.Salary != nil {
		c.Salary = r.Salary
	}
	if r.SalaryCurrency != nil {
		c.SalaryCurrency = strings.ToUpper(*r.SalaryCurrency)
	}
	if r.SalaryPeriod != nil {
		c.SalaryPeriod = SalaryPeriod(*r.SalaryPeriod)
	}
	if r.HoursPerWeek != nil {
		c.HoursPerWeek = *r.HoursPerWeek
	}
	if r.ProbationEndDate != nil {
		c.ProbationEndDate = parseDate(r.ProbationEndDate)
	}
	if r.ProbationPassed != nil {
		c.ProbationPassed = *r.ProbationPassed
	}
	if r.NoticePeriodDays != nil {
		c.NoticePeriodDays = *r.NoticePeriodDays
	}
	if r.Notes != nil {
		c.Notes = *r.Notes
	}

	var errs validator.ValidationErrors
	checkDates(&errs, c.StartDate, c.EndDate, c.ProbationEndDate)
	return errs.Err()
}

func checkDates(errs *validator.ValidationErrors, start time.Time, end, probation *time.Time) {
	if end != nil && !end.After(start) {
		errs.Add("end_date", "End date must be after start date")
	}
	if probation != nil && !probation.After(start) {
		errs.Add("probation_end_date", "Probation end date must be after start date")
	}
}

func validateTerms(errs *validator.ValidationErrors, salary *decimal.Decimal, currency, period string, hours *decimal.Decimal, notice *int) {
	if salary != nil && salary.IsNegative() {
		errs.Add("salary", "salary must not be negative")
	}
	if currency != "" && len(currency) != 3 {
		errs.Add("salary_currency", "salary_currency must be a 3-letter currency code")
	}
	if period != "" && !SalaryPeriod(period).Valid() {
		errs.Add("salary_period", "\""+period+"\" is not a valid choice.")
	}
	if hours != nil && (!hours.IsPositive() || hours.GreaterThan(decimal.NewFromInt(168))) {
		errs.Add("hours_per_week", "hours_per_week must be between 0 and 168")
	}
	if notice != nil && *notice < 0 {
		errs.Add("notice_period_days", "notice_period_days must not be negative")
	}
}

func parseOptional(errs *validator.ValidationErrors, field string, raw *string) *time.Time {
	if raw == nil || *raw == "" {
		return nil
	}
	t, ok := validator.IsValidDate(*raw)
	if !ok {
		errs.Add(field, field+" must be a date in YYYY-MM-DD format")
		return nil
	}
	return &t
}

func parseDate(raw *string) *time.Time {
	if raw == nil || *raw == "" {
		return nil
	}
	t, err := time.Parse(DateFormat, *raw)
	if err != nil {
		return nil
	}
	return &t
}

type ContractFilter struct {
	Status       string
	Employee     string
	ContractType string
	Search       string
	// ExpiringSoon keeps contracts ending within the expiring window.
	ExpiringSoon string
	Page         pagination.Params
}

func (f *ContractFilter) Validate() error {
	var errs validator.ValidationErrors
	if f.Status != "" {
		for _, s := range strings.Split(f.Status, ",") {
			if !workflow.ValidStatus(workflow.KindContract, workflow.Status(s)) {
				errs.Add("status", "unknown status "+s)
			}
		}
	}
	if f.Employee != "" && !validator.IsValidUUID(f.Employee) {
		errs.Add("employee", "employee must be a valid UUID")
	}
	if f.ContractType != "" && !validator.IsValidUUID(f.ContractType) {
		errs.Add("contract_type", "contract_type must be a valid UUID")
	}
	if f.ExpiringSoon != "" && f.ExpiringSoon != "true" && f.ExpiringSoon != "false" {
		errs.Add("expiring_soon", "Must be a valid boolean.")
	}
	return errs.Err()
}

// Query converts a validated filter as seen on today.
func (f *ContractFilter) Query(today time.Time) ContractQuery {
	q := ContractQuery{
		EmployeeID:     f.Employee,
		ContractTypeID: f.ContractType,
		Search:         strings.TrimSpace(f.Search),
		Page:           f.Page.Normalize(),
	}
	if f.ExpiringSoon == "true" {
		from, before := ExpiringWindow(today)
		q.EndsFrom, q.EndsBefore = &from, &before
	}
	if f.Status != "" {
		for _, s := range strings.Split(f.Status, ",") {
			q.Statuses = append(q.Statuses, workflow.Status(s))
		}
	}
	return q
}

type ContractResponse struct {
	ID               string  `json:"id"`
	Employee         string  `json:"employee"`
	EmployeeName     string  `json:"employee_name"`
	ContractType     string  `json:"contract_type"`
	ContractTypeName string  `json:"contract_type_name"`
	Title            string  `json:"title"`
	StartDate        string  `json:"start_date"`
	EndDate          *string `json:"end_date"`
	Status           string  `json:"status"`
	Salary           *string `json:"salary"`
	SalaryCurrency   string  `json:"salary_currency"`
	SalaryPeriod     string  `json:"salary_period"`
	HoursPerWeek     string  `json:"hours_per_week"`
	ProbationEndDate *string `json:"probation_end_date"`
	ProbationPassed  bool    `json:"probation_passed"`
	NoticePeriodDays int     `json:"notice_period_days"`
	Notes            string  `json:"notes"`
	IsExpiringSoon   bool    `json:"is_expiring_soon"`
	DaysUntilExpiry  *int    `json:"days_until_expiry"`
	CreatedAt        string  `json:"created_at"`
	UpdatedAt        string  `json:"updated_at"`
}

// NewContractResponse renders c as seen on today.
func NewContractResponse(c Contract, today time.Time) ContractResponse {
	resp := ContractResponse{
		ID:               c.ID,
		Employee:         c.EmployeeID,
		EmployeeName:     c.EmployeeName,
		ContractType:     c.ContractTypeID,
		ContractTypeName: c.ContractTypeName,
		Title:            c.Title,
		StartDate:        c.StartDate.Format(DateFormat),
		EndDate:          formatDate(c.EndDate),
		Status:           string(c.Status),
		SalaryCurrency:   c.SalaryCurrency,
		SalaryPeriod:     string(c.SalaryPeriod),
		HoursPerWeek:     c.HoursPerWeek.StringFixed(1),
		ProbationEndDate: formatDate(c.ProbationEndDate),
		ProbationPassed:  c.ProbationPassed,
		NoticePeriodDays: c.NoticePeriodDays,
		Notes:            c.Notes,
		IsExpiringSoon:   c.IsExpiringSoon(today),
		DaysUntilExpiry:  c.DaysUntilExpiry(today),
		CreatedAt:        c.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:        c.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if c.Salary != nil {
		s := c.Salary.StringFixed(2)
		resp.Salary = &s
	}
	return resp
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(DateFormat)
	return &s
}

type ListContractResponse = pagination.Page[ContractResponse]

type StatsResponse struct {
	Total        int64 `json:"total"`
	Active       int64 `json:"active"`
	Draft        int64 `json:"draft"`
	Expired      int64 `json:"expired"`
	Terminated   int64 `json:"terminated"`
	ExpiringSoon int64 `json:"expiring_soon"`
}

func NewStatsResponse(s Stats) StatsResponse {
	return StatsResponse(s)
}
