package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/accabog/rhr-sub000/internal/client"
	"github.com/accabog/rhr-sub000/internal/domain/leave"
	"github.com/accabog/rhr-sub000/internal/pkg/leavecalc"
	"golang.org/x/sync/errgroup"
)

// PlanData is what the leave form needs: the tenant's leave types, the
// caller's balances for the current year and the holidays of the current and
// next year.
type PlanData struct {
	Year     int
	Types    []leave.LeaveTypeResponse
	Balances []leave.BalanceSummaryResponse
	Holidays leavecalc.HolidaySet
}

// Quote is the evaluated selection.
type Quote struct {
	leavecalc.Result
	LeaveType *leave.LeaveTypeResponse
	// Balance is nil when no leave type was chosen or the type is unpaid.
	Balance *leavecalc.Balance
}

type LeavePlanner struct {
	queries *Queries
	now     func() time.Time
}

func NewLeavePlanner(queries *Queries) *LeavePlanner {
	return &LeavePlanner{queries: queries, now: time.Now}
}

func (p *LeavePlanner) WithClock(now func() time.Time) *LeavePlanner {
	p.now = now
	return p
}

// Load fetches the plan data in parallel through the cache.
func (p *LeavePlanner) Load(ctx context.Context) (PlanData, error) {
	year := p.now().Year()
	data := PlanData{Year: year}
	var current, next []leave.HolidayResponse

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		types, err := p.queries.LeaveTypes(ctx)
		if err != nil {
			return fmt.Errorf("failed to load leave types: %w", err)
		}
		data.Types = types
		return nil
	})
	g.Go(func() error {
		balances, err := p.queries.BalanceSummary(ctx, year)
		if err != nil {
			return fmt.Errorf("failed to load leave balances: %w", err)
		}
		data.Balances = balances
		return nil
	})
	g.Go(func() error {
		holidays, err := p.queries.Holidays(ctx, year)
		if err != nil {
			return fmt.Errorf("failed to load holidays of %d: %w", year, err)
		}
		current = holidays
		return nil
	})
	g.Go(func() error {
		holidays, err := p.queries.Holidays(ctx, year+1)
		if err != nil {
			return fmt.Errorf("failed to load holidays of %d: %w", year+1, err)
		}
		next = holidays
		return nil
	})
	if err := g.Wait(); err != nil {
		return PlanData{}, err
	}

	data.Holidays = holidaySet(append(current, next...))
	return data, nil
}

func holidaySet(holidays []leave.HolidayResponse) leavecalc.HolidaySet {
	set := leavecalc.NewHolidaySet()
	for _, h := range holidays {
		date, err := leavecalc.ParseDate(h.Date)
		if err != nil {
			slog.Warn("Skipping holiday with invalid date", "name", h.Name, "date", h.Date)
			continue
		}
		set.Add(leavecalc.Holiday{Date: date, Name: h.Name})
	}
	return set
}

// Quote evaluates sel for leaveTypeID; an empty leaveTypeID quotes without a balance.
func (d PlanData) Quote(leaveTypeID string, sel leavecalc.Selection) (Quote, error) {
	var q Quote
	if leaveTypeID != "" {
		for i := range d.Types {
			if d.Types[i].ID == leaveTypeID {
				q.LeaveType = &d.Types[i]
				break
			}
		}
		if q.LeaveType == nil {
			return Quote{}, fmt.Errorf("unknown leave type %q", leaveTypeID)
		}
		if q.LeaveType.IsPaid {
			balance, err := d.balance(leaveTypeID)
			if err != nil {
				return Quote{}, err
			}
			q.Balance = &balance
		}
	}
	q.Result = leavecalc.Calculate(sel, d.Holidays, q.Balance)
	return q, nil
}

// balance is zero when the caller holds no balance for the type.
func (d PlanData) balance(leaveTypeID string) (leavecalc.Balance, error) {
	for _, b := range d.Balances {
		if b.LeaveTypeID != leaveTypeID {
			continue
		}
		remaining, err := client.ParseAmount(b.RemainingDays)
		if err != nil {
			return leavecalc.Balance{}, fmt.Errorf("invalid remaining days %q: %w", b.RemainingDays, err)
		}
		pending, err := client.ParseAmount(b.PendingDays)
		if err != nil {
			return leavecalc.Balance{}, fmt.Errorf("invalid pending days %q: %w", b.PendingDays, err)
		}
		return leavecalc.Balance{Remaining: remaining, Pending: pending}, nil
	}
	return leavecalc.Balance{}, nil
}

// Quote loads the plan data and evaluates sel.
func (p *LeavePlanner) Quote(ctx context.Context, leaveTypeID string, sel leavecalc.Selection) (Quote, error) {
	data, err := p.Load(ctx)
	if err != nil {
		return Quote{}, err
	}
	return data.Quote(leaveTypeID, sel)
}
