package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/accabog/rhr-sub000/internal/domain/employee"
	"github.com/accabog/rhr-sub000/internal/domain/leave"
	"github.com/accabog/rhr-sub000/internal/domain/tenant"
	"github.com/accabog/rhr-sub000/internal/domain/user"
	"github.com/accabog/rhr-sub000/internal/pkg/database"
	"github.com/accabog/rhr-sub000/internal/pkg/leavecalc"
	"github.com/accabog/rhr-sub000/internal/pkg/pagination"
	"github.com/accabog/rhr-sub000/internal/pkg/workflow"
	"github.com/shopspring/decimal"
)

type LeaveServiceImpl struct {
	tx database.Transactor
	leave.LeaveTypeRepository
	leave.LeaveBalanceRepository
	leave.LeaveRequestRepository
	leave.HolidayRepository
	employee.EmployeeRepository
	now func() time.Time
}

func NewLeaveService(
	tx database.Transactor,
	leaveTypeRepository leave.LeaveTypeRepository,
	leaveBalanceRepository leave.LeaveBalanceRepository,
	leaveRequestRepository leave.LeaveRequestRepository,
	holidayRepository leave.HolidayRepository,
	employeeRepository employee.EmployeeRepository,
) *LeaveServiceImpl {
	return &LeaveServiceImpl{
		tx:                     tx,
		LeaveTypeRepository:    leaveTypeRepository,
		LeaveBalanceRepository: leaveBalanceRepository,
		LeaveRequestRepository: leaveRequestRepository,
		HolidayRepository:      holidayRepository,
		EmployeeRepository:     employeeRepository,
		now:                    time.Now,
	}
}

// WithClock replaces the time source.
func (l *LeaveServiceImpl) WithClock(now func() time.Time) *LeaveServiceImpl {
	l.now = now
	return l
}

func requireEmployee(s tenant.Session) error {
	if !s.HasEmployee() {
		return tenant.ErrNoEmployeeProfile
	}
	return nil
}

func requireApprover(s tenant.Session) error {
	if !s.CanApprove() {
		return user.ErrManagerAccessRequired
	}
	return nil
}

// ListTypes implements leave.LeaveService.
func (l *LeaveServiceImpl) ListTypes(ctx context.Context, s tenant.Session) ([]leave.LeaveTypeResponse, error) {
	types, err := l.LeaveTypeRepository.ListActive(ctx, s.TenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave types: %w", err)
	}
	resp := make([]leave.LeaveTypeResponse, 0, len(types))
	for _, t := range types {
		resp = append(resp, leave.NewLeaveTypeResponse(t))
	}
	return resp, nil
}

// CreateType implements leave.LeaveService.
func (l *LeaveServiceImpl) CreateType(ctx context.Context, s tenant.Session, req leave.CreateLeaveTypeRequest) (leave.LeaveTypeResponse, error) {
	if err := requireApprover(s); err != nil {
		return leave.LeaveTypeResponse{}, err
	}

	lt := leave.LeaveType{
		TenantID:           s.TenantID,
		Name:               req.Name,
		Code:               req.Code,
		Description:        req.Description,
		IsPaid:             true,
		RequiresApproval:   true,
		MaxConsecutiveDays: req.MaxConsecutiveDays,
		Color:              req.Color,
		IsActive:           true,
	}
	if req.IsPaid != nil {
		lt.IsPaid = *req.IsPaid
	}
	if req.RequiresApproval != nil {
		lt.RequiresApproval = *req.RequiresApproval
	}
	if lt.Color == "" {
		lt.Color = leave.DefaultColor
	}

	created, err := l.LeaveTypeRepository.Create(ctx, lt)
	if err != nil {
		if errors.Is(err, leave.ErrLeaveTypeCodeExists) {
			return leave.LeaveTypeResponse{}, err
		}
		return leave.LeaveTypeResponse{}, fmt.Errorf("failed to create leave type: %w", err)
	}
	return leave.NewLeaveTypeResponse(created), nil
}

// ListBalances implements leave.LeaveService.
func (l *LeaveServiceImpl) ListBalances(ctx context.Context, s tenant.Session, year int) ([]leave.LeaveBalanceResponse, error) {
	if err := requireEmployee(s); err != nil {
		return nil, err
	}
	if year == 0 {
		year = l.now().Year()
	}

	balances, err := l.LeaveBalanceRepository.ListByEmployeeYear(ctx, s.TenantID, s.EmployeeID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave balances: %w", err)
	}
	resp := make([]leave.LeaveBalanceResponse, 0, len(balances))
	for _, b := range balances {
		resp = append(resp, leave.NewLeaveBalanceResponse(b))
	}
	return resp, nil
}

// BalanceSummary implements leave.LeaveService. Pending days are the working
// days of the employee's pending requests starting in year.
func (l *LeaveServiceImpl) BalanceSummary(ctx context.Context, s tenant.Session, year int) ([]leave.BalanceSummaryResponse, error) {
	if err := requireEmployee(s); err != nil {
		return nil, err
	}
	if year == 0 {
		year = l.now().Year()
	}

	balances, err := l.LeaveBalanceRepository.ListByEmployeeYear(ctx, s.TenantID, s.EmployeeID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave balances: %w", err)
	}

	pending, _, err := l.LeaveRequestRepository.List(ctx, s.TenantID, leave.RequestQuery{
		EmployeeID: s.EmployeeID,
		Statuses:   []workflow.Status{workflow.StatusPending},
		All:        true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list pending requests: %w", err)
	}
	inYear := pending[:0:0]
	for _, r := range pending {
		if r.StartDate.Year() == year {
			inYear = append(inYear, r)
		}
	}
	results, err := l.calculate(ctx, s.TenantID, inYear)
	if err != nil {
		return nil, err
	}

	pendingByType := make(map[string]decimal.Decimal)
	for i, r := range inYear {
		pendingByType[r.LeaveTypeID] = pendingByType[r.LeaveTypeID].Add(results[i].WorkingDays)
	}

	resp := make([]leave.BalanceSummaryResponse, 0, len(balances))
	seen := make(map[string]bool, len(balances))
	for _, b := range balances {
		seen[b.LeaveTypeID] = true
		resp = append(resp, leave.BalanceSummaryResponse{
			LeaveTypeID:    b.LeaveTypeID,
			LeaveTypeName:  b.LeaveTypeName,
			LeaveTypeColor: b.LeaveTypeColor,
			Year:           year,
			EntitledDays:   b.EntitledDays.StringFixed(2),
			UsedDays:       b.UsedDays.StringFixed(2),
			RemainingDays:  b.Remaining().StringFixed(2),
			PendingDays:    pendingByType[b.LeaveTypeID].StringFixed(2),
		})
	}
	// Pending requests of a type without a balance row still count.
	for _, r := range inYear {
		if seen[r.LeaveTypeID] {
			continue
		}
		seen[r.LeaveTypeID] = true
		zero := decimal.Zero.StringFixed(2)
		resp = append(resp, leave.BalanceSummaryResponse{
			LeaveTypeID:    r.LeaveTypeID,
			LeaveTypeName:  r.LeaveTypeName,
			LeaveTypeColor: r.LeaveTypeColor,
			Year:           year,
			EntitledDays:   zero,
			UsedDays:       zero,
			RemainingDays:  zero,
			PendingDays:    pendingByType[r.LeaveTypeID].StringFixed(2),
		})
	}
	return resp, nil
}

// CreateRequest implements leave.LeaveService.
func (l *LeaveServiceImpl) CreateRequest(ctx context.Context, s tenant.Session, req leave.CreateLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	if err := requireEmployee(s); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	lt, err := l.LeaveTypeRepository.GetByID(ctx, s.TenantID, req.LeaveTypeID)
	if err != nil {
		if errors.Is(err, leave.ErrLeaveTypeNotFound) {
			return leave.LeaveRequestResponse{}, err
		}
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to get leave type: %w", err)
	}
	if !lt.IsActive {
		return leave.LeaveRequestResponse{}, leave.ErrLeaveTypeInactive
	}

	emp, err := l.EmployeeRepository.GetByID(ctx, s.TenantID, s.EmployeeID)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	sel := req.Selection()
	holidays, err := l.holidaySet(ctx, s.TenantID, emp.DepartmentCountry, sel.Start, sel.End)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	calc := leavecalc.Calculate(sel, holidays, nil)

	if lt.MaxConsecutiveDays != nil && calc.TotalCalendarDays > *lt.MaxConsecutiveDays {
		return leave.LeaveRequestResponse{}, leave.ErrExceedsMaxConsecutive
	}

	var created leave.LeaveRequest
	err = l.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		from, to := sel.Start, sel.End
		overlapping, _, err := l.LeaveRequestRepository.List(ctx, s.TenantID, leave.RequestQuery{
			EmployeeID: s.EmployeeID,
			Statuses:   []workflow.Status{workflow.StatusPending, workflow.StatusApproved},
			From:       &from,
			To:         &to,
			All:        true,
		})
		if err != nil {
			return fmt.Errorf("failed to check overlapping requests: %w", err)
		}
		if len(overlapping) > 0 {
			return leave.ErrOverlappingRequest
		}

		if lt.IsPaid {
			remaining := decimal.Zero
			balance, err := l.LeaveBalanceRepository.GetByEmployeeTypeYear(ctx, s.TenantID, s.EmployeeID, lt.ID, sel.Start.Year())
			switch {
			case err == nil:
				remaining = balance.Remaining()
			case !errors.Is(err, leave.ErrLeaveBalanceNotFound):
				return fmt.Errorf("failed to get leave balance: %w", err)
			}
			if calc.WorkingDays.GreaterThan(remaining) {
				return leave.ErrInsufficientBalance
			}
		}

		period := leavecalc.Period("")
		if req.IsHalfDay {
			period = leavecalc.Period(req.HalfDayPeriod)
		}
		created, err = l.LeaveRequestRepository.Create(ctx, leave.LeaveRequest{
			TenantID:      s.TenantID,
			EmployeeID:    s.EmployeeID,
			LeaveTypeID:   lt.ID,
			StartDate:     sel.Start,
			EndDate:       sel.End,
			IsHalfDay:     req.IsHalfDay,
			HalfDayPeriod: period,
			Reason:        req.Reason,
			Status:        workflow.StatusPending,
		})
		if err != nil {
			return fmt.Errorf("failed to create leave request: %w", err)
		}
		return nil
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	slog.Info("Leave request created", "tenant_id", s.TenantID, "request_id", created.ID, "days", calc.WorkingDays.String())
	return leave.NewLeaveRequestResponse(created, calc), nil
}

// GetRequest implements leave.LeaveService. Requests of other employees are
// hidden from callers who cannot approve.
func (l *LeaveServiceImpl) GetRequest(ctx context.Context, s tenant.Session, id string) (leave.LeaveRequestResponse, error) {
	r, err := l.LeaveRequestRepository.GetByID(ctx, s.TenantID, id)
	if err != nil {
		if errors.Is(err, leave.ErrLeaveRequestNotFound) {
			return leave.LeaveRequestResponse{}, err
		}
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	if !s.CanApprove() && r.EmployeeID != s.EmployeeID {
		return leave.LeaveRequestResponse{}, leave.ErrLeaveRequestNotFound
	}
	return l.respond(ctx, r)
}

// ListRequests implements leave.LeaveService.
func (l *LeaveServiceImpl) ListRequests(ctx context.Context, s tenant.Session, filter leave.LeaveRequestFilter) (leave.ListLeaveRequestResponse, error) {
	query, err := requestQuery(filter)
	if err != nil {
		return leave.ListLeaveRequestResponse{}, err
	}
	if !s.CanApprove() {
		if err := requireEmployee(s); err != nil {
			return leave.ListLeaveRequestResponse{}, err
		}
		query.EmployeeID = s.EmployeeID
	}
	return l.list(ctx, s.TenantID, query)
}

// MyRequests implements leave.LeaveService.
func (l *LeaveServiceImpl) MyRequests(ctx context.Context, s tenant.Session, filter leave.LeaveRequestFilter) (leave.ListLeaveRequestResponse, error) {
	if err := requireEmployee(s); err != nil {
		return leave.ListLeaveRequestResponse{}, err
	}
	query, err := requestQuery(filter)
	if err != nil {
		return leave.ListLeaveRequestResponse{}, err
	}
	query.EmployeeID = s.EmployeeID
	return l.list(ctx, s.TenantID, query)
}

// PendingApproval implements leave.LeaveService.
func (l *LeaveServiceImpl) PendingApproval(ctx context.Context, s tenant.Session, filter leave.LeaveRequestFilter) (leave.ListLeaveRequestResponse, error) {
	if err := requireApprover(s); err != nil {
		return leave.ListLeaveRequestResponse{}, err
	}
	filter.Status = ""
	query, err := requestQuery(filter)
	if err != nil {
		return leave.ListLeaveRequestResponse{}, err
	}
	query.Statuses = []workflow.Status{workflow.StatusPending}
	return l.list(ctx, s.TenantID, query)
}

// Calendar implements leave.LeaveService.
func (l *LeaveServiceImpl) Calendar(ctx context.Context, s tenant.Session, start, end time.Time) ([]leave.LeaveRequestResponse, error) {
	query := leave.RequestQuery{
		Statuses: []workflow.Status{workflow.StatusApproved, workflow.StatusPending},
		From:     &start,
		To:       &end,
		All:      true,
	}
	if !s.CanApprove() {
		if err := requireEmployee(s); err != nil {
			return nil, err
		}
		query.EmployeeID = s.EmployeeID
	}

	requests, _, err := l.LeaveRequestRepository.List(ctx, s.TenantID, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave calendar: %w", err)
	}
	return l.respondAll(ctx, s.TenantID, requests)
}

// ApproveRequest implements leave.LeaveService. The approved working days are
// added to the balance of the request's start year.
func (l *LeaveServiceImpl) ApproveRequest(ctx context.Context, s tenant.Session, id string, req leave.ReviewLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	if err := requireApprover(s); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	var resp leave.LeaveRequestResponse
	err := l.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		r, err := l.review(ctx, s, id, workflow.ActionApprove, req.Notes)
		if err != nil {
			return err
		}

		results, err := l.calculate(ctx, s.TenantID, []leave.LeaveRequest{r})
		if err != nil {
			return err
		}
		days := results[0].WorkingDays
		if err := l.LeaveBalanceRepository.AddUsedDays(ctx, s.TenantID, r.EmployeeID, r.LeaveTypeID, r.StartDate.Year(), days); err != nil {
			return fmt.Errorf("failed to update leave balance: %w", err)
		}

		resp = leave.NewLeaveRequestResponse(r, results[0])
		return nil
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	slog.Info("Leave request approved", "tenant_id", s.TenantID, "request_id", id, "reviewer", s.UserID)
	return resp, nil
}

// RejectRequest implements leave.LeaveService.
func (l *LeaveServiceImpl) RejectRequest(ctx context.Context, s tenant.Session, id string, req leave.ReviewLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	if err := requireApprover(s); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	var r leave.LeaveRequest
	err := l.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		r, err = l.review(ctx, s, id, workflow.ActionReject, req.Notes)
		return err
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return l.respond(ctx, r)
}

// CancelRequest implements leave.LeaveService. Only the requester may cancel.
func (l *LeaveServiceImpl) CancelRequest(ctx context.Context, s tenant.Session, id string) (leave.LeaveRequestResponse, error) {
	var r leave.LeaveRequest
	err := l.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		r, err = l.LeaveRequestRepository.GetByID(ctx, s.TenantID, id)
		if err != nil {
			return err
		}
		if r.EmployeeID != s.EmployeeID {
			return leave.ErrNotRequestOwner
		}
		from := r.Status
		next, err := workflow.Next(workflow.KindLeaveRequest, from, workflow.ActionCancel)
		if err != nil {
			return err
		}
		r.Status = next
		if err := l.LeaveRequestRepository.UpdateReview(ctx, r, from); err != nil {
			if errors.Is(err, workflow.ErrStatusChanged) {
				return &workflow.TransitionError{Kind: workflow.KindLeaveRequest, Action: workflow.ActionCancel, From: from}
			}
			return fmt.Errorf("failed to cancel leave request: %w", err)
		}
		return nil
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return l.respond(ctx, r)
}

// review applies a manager transition and records the reviewer.
func (l *LeaveServiceImpl) review(ctx context.Context, s tenant.Session, id string, action workflow.Action, notes string) (leave.LeaveRequest, error) {
	r, err := l.LeaveRequestRepository.GetByID(ctx, s.TenantID, id)
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	from := r.Status
	next, err := workflow.Next(workflow.KindLeaveRequest, from, action)
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	now := l.now().UTC()
	reviewer := s.UserID
	r.Status = next
	r.ReviewedBy = &reviewer
	r.ReviewedAt = &now
	r.ReviewNotes = notes
	if err := l.LeaveRequestRepository.UpdateReview(ctx, r, from); err != nil {
		if errors.Is(err, workflow.ErrStatusChanged) {
			return leave.LeaveRequest{}, &workflow.TransitionError{Kind: workflow.KindLeaveRequest, Action: action, From: from}
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to %s leave request: %w", action, err)
	}
	return r, nil
}

func requestQuery(filter leave.LeaveRequestFilter) (leave.RequestQuery, error) {
	if err := filter.Validate(); err != nil {
		return leave.RequestQuery{}, err
	}
	q := leave.RequestQuery{
		EmployeeID:  filter.EmployeeID,
		LeaveTypeID: filter.LeaveTypeID,
		Page:        filter.Page.Normalize(),
	}
	if filter.Status != "" {
		for _, st := range strings.Split(filter.Status, ",") {
			q.Statuses = append(q.Statuses, workflow.Status(st))
		}
	}
	if filter.StartDate != "" {
		d, _ := leavecalc.ParseDate(filter.StartDate)
		q.From = &d
	}
	if filter.EndDate != "" {
		d, _ := leavecalc.ParseDate(filter.EndDate)
		q.To = &d
	}
	return q, nil
}

func (l *LeaveServiceImpl) list(ctx context.Context, tenantID string, query leave.RequestQuery) (leave.ListLeaveRequestResponse, error) {
	requests, total, err := l.LeaveRequestRepository.List(ctx, tenantID, query)
	if err != nil {
		return leave.ListLeaveRequestResponse{}, fmt.Errorf("failed to list leave requests: %w", err)
	}
	results, err := l.respondAll(ctx, tenantID, requests)
	if err != nil {
		return leave.ListLeaveRequestResponse{}, err
	}
	return pagination.NewPage(results, total, query.Page), nil
}

func (l *LeaveServiceImpl) respond(ctx context.Context, r leave.LeaveRequest) (leave.LeaveRequestResponse, error) {
	results, err := l.calculate(ctx, r.TenantID, []leave.LeaveRequest{r})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return leave.NewLeaveRequestResponse(r, results[0]), nil
}

func (l *LeaveServiceImpl) respondAll(ctx context.Context, tenantID string, requests []leave.LeaveRequest) ([]leave.LeaveRequestResponse, error) {
	results, err := l.calculate(ctx, tenantID, requests)
	if err != nil {
		return nil, err
	}
	resp := make([]leave.LeaveRequestResponse, 0, len(requests))
	for i, r := range requests {
		resp = append(resp, leave.NewLeaveRequestResponse(r, results[i]))
	}
	return resp, nil
}

// calculate runs the leave calculator for each request, loading the holidays
// of each employee country once over the span of its requests.
func (l *LeaveServiceImpl) calculate(ctx context.Context, tenantID string, requests []leave.LeaveRequest) ([]leavecalc.Result, error) {
	type span struct{ from, to time.Time }
	spans := make(map[string]span)
	for _, r := range requests {
		sp, ok := spans[r.EmployeeCountry]
		if !ok {
			sp = span{from: r.StartDate, to: r.EndDate}
		}
		if r.StartDate.Before(sp.from) {
			sp.from = r.StartDate
		}
		if r.EndDate.After(sp.to) {
			sp.to = r.EndDate
		}
		spans[r.EmployeeCountry] = sp
	}

	countries := make([]string, 0, len(spans))
	for c := range spans {
		countries = append(countries, c)
	}
	sort.Strings(countries)

	sets := make(map[string]leavecalc.HolidaySet, len(spans))
	for _, c := range countries {
		set, err := l.holidaySet(ctx, tenantID, c, spans[c].from, spans[c].to)
		if err != nil {
			return nil, err
		}
		sets[c] = set
	}

	results := make([]leavecalc.Result, len(requests))
	for i, r := range requests {
		results[i] = leavecalc.Calculate(r.Selection(), sets[r.EmployeeCountry], nil)
	}
	return results, nil
}

func (l *LeaveServiceImpl) holidaySet(ctx context.Context, tenantID, country string, from, to time.Time) (leavecalc.HolidaySet, error) {
	holidays, err := l.HolidayRepository.List(ctx, tenantID, leave.HolidayQuery{
		From:    &from,
		To:      &to,
		Country: country,
	})
	if err != nil {
		return leavecalc.HolidaySet{}, fmt.Errorf("failed to list holidays: %w", err)
	}
	return leave.HolidaySet(holidays), nil
}
