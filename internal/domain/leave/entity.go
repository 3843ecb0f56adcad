package leave

import (
	"time"

	"github.com/accabog/rhr-sub000/internal/pkg/leavecalc"
	"github.com/accabog/rhr-sub000/internal/pkg/workflow"
	"github.com/shopspring/decimal"
)

const DefaultColor = "#10b981"

// LeaveType entity
type LeaveType struct {
	ID                 string
	TenantID           string
	Name               string
	Code               string
	Description        string
	IsPaid             bool
	RequiresApproval   bool
	MaxConsecutiveDays *int
	Color              string
	IsActive           bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// LeaveBalance is an employee's allowance of one leave type for one year.
type LeaveBalance struct {
	ID           string
	TenantID     string
	EmployeeID   string
	LeaveTypeID  string
	Year         int
	EntitledDays decimal.Decimal
	UsedDays     decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Join
	LeaveTypeName  string
	LeaveTypeColor string
}

// Remaining does not account for pending requests.
func (b LeaveBalance) Remaining() decimal.Decimal {
	return b.EntitledDays.Sub(b.UsedDays)
}

// LeaveRequest entity
type LeaveRequest struct {
	ID            string
	TenantID      string
	EmployeeID    string
	LeaveTypeID   string
	StartDate     time.Time
	EndDate       time.Time
	IsHalfDay     bool
	HalfDayPeriod leavecalc.Period
	Reason        string
	Status        workflow.Status
	ReviewedBy    *string
	ReviewedAt    *time.Time
	ReviewNotes   string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Join
	EmployeeName    string
	EmployeeCountry string
	LeaveTypeName   string
	LeaveTypeColor  string
	ReviewerName    string
}

// Selection is the calculator input for the request.
func (r LeaveRequest) Selection() leavecalc.Selection {
	if r.IsHalfDay {
		return leavecalc.HalfDay(r.StartDate, r.HalfDayPeriod)
	}
	return leavecalc.Range(r.StartDate, r.EndDate)
}

type HolidaySource string

const (
	HolidaySourceManual    HolidaySource = "manual"
	HolidaySourceNagerDate HolidaySource = "nager_date"
)

// Holiday entity. An empty Country applies to every employee of the tenant.
type Holiday struct {
	ID           string
	TenantID     string
	Name         string
	LocalName    string
	Date         time.Time
	Country      string
	IsRecurring  bool
	Source       HolidaySource
	ExternalID   string
	HolidayTypes []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HolidaySet builds the calculator lookup for holidays.
func HolidaySet(holidays []Holiday) leavecalc.HolidaySet {
	set := leavecalc.NewHolidaySet()
	for _, h := range holidays {
		set.Add(leavecalc.Holiday{Date: h.Date, Name: h.Name})
	}
	return set
}

// AppliesTo reports whether the holiday is observed in country.
func (h Holiday) AppliesTo(country string) bool {
	return h.Country == "" || h.Country == country
}
