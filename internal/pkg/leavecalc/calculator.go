// Package leavecalc computes the days a leave selection consumes.
//
// The calculation is a pure function of the selection, the holiday set and an
// optional balance. Weekends count as working days; only holidays are excluded.
package leavecalc

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type Mode string

const (
	ModeRange   Mode = "range"
	ModeHalfDay Mode = "half_day"
)

type Period string

const (
	PeriodMorning   Period = "morning"
	PeriodAfternoon Period = "afternoon"
)

// Valid reports whether p is one of the known half-day periods.
func (p Period) Valid() bool {
	return p == PeriodMorning || p == PeriodAfternoon
}

var halfDay = decimal.RequireFromString("0.5")

// Selection is either a date range or a single half day.
type Selection struct {
	Mode   Mode
	Start  time.Time
	End    time.Time
	Period Period
}

func Range(start, end time.Time) Selection {
	return Selection{Mode: ModeRange, Start: Day(start), End: Day(end)}
}

func HalfDay(date time.Time, period Period) Selection {
	d := Day(date)
	return Selection{Mode: ModeHalfDay, Start: d, End: d, Period: period}
}

type Holiday struct {
	Date time.Time `json:"date"`
	Name string    `json:"name"`
}

// HolidaySet indexes holidays by calendar day.
type HolidaySet struct {
	byDay map[string]Holiday
}

func NewHolidaySet(holidays ...Holiday) HolidaySet {
	s := HolidaySet{byDay: make(map[string]Holiday, len(holidays))}
	for _, h := range holidays {
		s.Add(h)
	}
	return s
}

// Add inserts h. A second holiday on the same day is ignored.
func (s *HolidaySet) Add(h Holiday) {
	if s.byDay == nil {
		s.byDay = make(map[string]Holiday)
	}
	key := Day(h.Date).Format(dateLayout)
	if _, ok := s.byDay[key]; ok {
		return
	}
	h.Date = Day(h.Date)
	s.byDay[key] = h
}

func (s HolidaySet) Lookup(date time.Time) (Holiday, bool) {
	h, ok := s.byDay[Day(date).Format(dateLayout)]
	return h, ok
}

func (s HolidaySet) Len() int {
	return len(s.byDay)
}

// Between returns the holidays falling on [start, end], ordered by date.
func (s HolidaySet) Between(start, end time.Time) []Holiday {
	start, end = Day(start), Day(end)
	var out []Holiday
	for _, h := range s.byDay {
		if !h.Date.Before(start) && !h.Date.After(end) {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// Balance is the remaining and pending allowance of the chosen leave type.
type Balance struct {
	Remaining decimal.Decimal
	Pending   decimal.Decimal
}

type Result struct {
	TotalCalendarDays int
	WorkingDays       decimal.Decimal
	ExcludedHolidays  []Holiday
	OverBalance       bool
}

// Calculate evaluates sel against holidays. balance may be nil when no leave
// type has been chosen; OverBalance is then always false.
func Calculate(sel Selection, holidays HolidaySet, balance *Balance) Result {
	var res Result

	switch sel.Mode {
	case ModeHalfDay:
		res.TotalCalendarDays = 1
		if h, ok := holidays.Lookup(sel.Start); ok {
			res.ExcludedHolidays = []Holiday{h}
			res.WorkingDays = decimal.Zero
		} else {
			res.WorkingDays = halfDay
		}
	default:
		start, end := Day(sel.Start), Day(sel.End)
		if end.Before(start) {
			return Result{WorkingDays: decimal.Zero}
		}
		res.TotalCalendarDays = DaysBetween(start, end) + 1
		res.ExcludedHolidays = holidays.Between(start, end)
		working := res.TotalCalendarDays - len(res.ExcludedHolidays)
		if working < 0 {
			working = 0
		}
		res.WorkingDays = decimal.NewFromInt(int64(working))
	}

	if balance != nil && res.WorkingDays.GreaterThan(balance.Remaining) {
		res.OverBalance = true
	}
	return res
}

// Day truncates t to its calendar day at UTC midnight.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole calendar days from start to end.
func DaysBetween(start, end time.Time) int {
	return int(Day(end).Sub(Day(start)).Hours() / 24)
}

// ParseDate parses a YYYY-MM-DD civil date.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, s, time.UTC)
}
