package timetracking

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const (
	CodeRegular  = "REG"
	CodeOvertime = "OT"
)

type TimeEntryType struct {
	ID         string
	TenantID   string
	Name       string
	Code       string
	IsPaid     bool
	Multiplier decimal.Decimal
	Color      string
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TimeOfDay is a wall-clock time without a date.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

func NewTimeOfDay(t time.Time) TimeOfDay {
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}
}

func ParseTimeOfDay(s string) (TimeOfDay, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return NewTimeOfDay(t), nil
		}
	}
	return TimeOfDay{}, fmt.Errorf("invalid time of day %q", s)
}

// Minutes since midnight, ignoring seconds.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

// Duration since midnight.
func (t TimeOfDay) Duration() time.Duration {
	return time.Duration(t.Hour)*time.Hour + time.Duration(t.Minute)*time.Minute + time.Duration(t.Second)*time.Second
}

func TimeOfDayFromDuration(d time.Duration) TimeOfDay {
	secs := int(d / time.Second)
	return TimeOfDay{Hour: secs / 3600, Minute: secs % 3600 / 60, Second: secs % 60}
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

type TimeEntry struct {
	ID           string
	TenantID     string
	EmployeeID   string
	EntryTypeID  string
	Date         time.Time
	StartTime    TimeOfDay
	EndTime      *TimeOfDay
	BreakMinutes int
	Notes        string
	Project      string
	Task         string
	IsApproved   bool
	ApprovedBy   *string
	ApprovedAt   *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Join
	EmployeeName  string
	EntryTypeCode string
	EntryTypeName string
}

// IsRunning reports whether the entry has no end time yet.
func (e TimeEntry) IsRunning() bool {
	return e.EndTime == nil
}

// DurationMinutes is the worked time excluding breaks, never negative.
// A running entry has no duration.
func (e TimeEntry) DurationMinutes() int {
	if e.EndTime == nil {
		return 0
	}
	d := e.EndTime.Minutes() - e.StartTime.Minutes() - e.BreakMinutes
	if d < 0 {
		return 0
	}
	return d
}

func (e TimeEntry) IsOvertime() bool {
	return e.EntryTypeCode == CodeOvertime
}

// Totals aggregates completed entries in minutes.
type Totals struct {
	RegularMinutes  int
	OvertimeMinutes int
	BreakMinutes    int
	Entries         int
}

func (t *Totals) Add(e TimeEntry) {
	if e.IsRunning() {
		return
	}
	d := e.DurationMinutes()
	if e.IsOvertime() {
		t.OvertimeMinutes += d
	} else {
		t.RegularMinutes += d
	}
	t.BreakMinutes += e.BreakMinutes
	t.Entries++
}

func (t Totals) TotalMinutes() int {
	return t.RegularMinutes + t.OvertimeMinutes
}

func Summarize(entries []TimeEntry) Totals {
	var t Totals
	for _, e := range entries {
		t.Add(e)
	}
	return t
}

// Hours converts minutes to hours rounded to two decimals.
func Hours(minutes int) decimal.Decimal {
	return decimal.NewFromInt(int64(minutes)).Div(decimal.NewFromInt(60)).Round(2)
}
