package contract

import (
	"time"

	"github.com/accabog/rhr-sub000/internal/pkg/workflow"
	"github.com/shopspring/decimal"
)

// ExpiringWindowDays is how close an end date must be for a contract to
// count as expiring soon.
const ExpiringWindowDays = 30

type SalaryPeriod string

const (
	SalaryHourly  SalaryPeriod = "hourly"
	SalaryDaily   SalaryPeriod = "daily"
	SalaryWeekly  SalaryPeriod = "weekly"
	SalaryMonthly SalaryPeriod = "monthly"
	SalaryYearly  SalaryPeriod = "yearly"
)

var SalaryPeriods = []SalaryPeriod{SalaryHourly, SalaryDaily, SalaryWeekly, SalaryMonthly, SalaryYearly}

func (p SalaryPeriod) Valid() bool {
	for _, sp := range SalaryPeriods {
		if sp == p {
			return true
		}
	}
	return false
}

type ContractType struct {
	ID          string
	TenantID    string
	Name        string
	Code        string
	Description string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Contract struct {
	ID               string
	TenantID         string
	EmployeeID       string
	ContractTypeID   string
	Title            string
	StartDate        time.Time
	EndDate          *time.Time
	Status           workflow.Status
	Salary           *decimal.Decimal
	SalaryCurrency   string
	SalaryPeriod     SalaryPeriod
	HoursPerWeek     decimal.Decimal
	ProbationEndDate *time.Time
	ProbationPassed  bool
	NoticePeriodDays int
	Notes            string
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// Join
	EmployeeName     string
	ContractTypeName string
}

// DaysUntilExpiry returns the whole days from today to the end date, or nil
// for open-ended contracts.
func (c Contract) DaysUntilExpiry(today time.Time) *int {
	if c.EndDate == nil {
		return nil
	}
	d := int(truncateDay(*c.EndDate).Sub(truncateDay(today)).Hours() / 24)
	return &d
}

// IsExpiringSoon reports whether the contract ends within the expiring
// window, today included.
func (c Contract) IsExpiringSoon(today time.Time) bool {
	d := c.DaysUntilExpiry(today)
	return d != nil && *d >= 0 && *d <= ExpiringWindowDays
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Stats counts the contracts of a tenant by status.
type Stats struct {
	Total        int64
	Active       int64
	Draft        int64
	Expired      int64
	Terminated   int64
	ExpiringSoon int64
}

// ExpiringWindow returns the inclusive end-date bounds of contracts
// expiring soon as seen on today.
func ExpiringWindow(today time.Time) (from, before time.Time) {
	from = truncateDay(today)
	return from, from.AddDate(0, 0, ExpiringWindowDays)
}
