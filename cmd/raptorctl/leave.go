package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/accabog/rhr-sub000/internal/client"
	"github.com/accabog/rhr-sub000/internal/client/engine"
	"github.com/accabog/rhr-sub000/internal/domain/leave"
	"github.com/accabog/rhr-sub000/internal/pkg/leavecalc"
	"github.com/accabog/rhr-sub000/internal/pkg/workflow"
	"github.com/spf13/cobra"
)

func newLeaveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leave",
		Short: "Plan, request and review leave",
	}
	cmd.AddCommand(
		newLeaveQuoteCmd(a),
		newLeaveRequestCmd(a),
		newLeaveListCmd(a),
		newLeaveShowCmd(a),
		newLeaveBalancesCmd(a),
		newLeaveActionCmd(a, workflow.ActionApprove, "Approve a pending leave request"),
		newLeaveActionCmd(a, workflow.ActionReject, "Reject a pending leave request"),
		newLeaveActionCmd(a, workflow.ActionCancel, "Cancel your own pending leave request"),
	)
	return cmd
}

type selectionFlags struct {
	leaveType string
	start     string
	end       string
	halfDay   string
}

func (f *selectionFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.leaveType, "type", "", "Leave type ID")
	cmd.Flags().StringVar(&f.start, "start", "", "First day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.end, "end", "", "Last day (YYYY-MM-DD, default --start)")
	cmd.Flags().StringVar(&f.halfDay, "half-day", "", "Take half of --start: morning or afternoon")
	_ = cmd.MarkFlagRequired("start")
}

func (f *selectionFlags) selection() (leavecalc.Selection, error) {
	start, err := leavecalc.ParseDate(f.start)
	if err != nil {
		return leavecalc.Selection{}, fmt.Errorf("invalid --start: %w", err)
	}
	if f.halfDay != "" {
		period := leavecalc.Period(f.halfDay)
		if !period.Valid() {
			return leavecalc.Selection{}, fmt.Errorf("invalid --half-day %q: must be morning or afternoon", f.halfDay)
		}
		return leavecalc.HalfDay(start, period), nil
	}
	end := start
	if f.end != "" {
		if end, err = leavecalc.ParseDate(f.end); err != nil {
			return leavecalc.Selection{}, fmt.Errorf("invalid --end: %w", err)
		}
	}
	if end.Before(start) {
		return leavecalc.Selection{}, fmt.Errorf("--end must not be before --start")
	}
	return leavecalc.Range(start, end), nil
}

func (a *app) quote(ctx context.Context, f *selectionFlags) (engine.Quote, leavecalc.Selection, error) {
	sel, err := f.selection()
	if err != nil {
		return engine.Quote{}, sel, err
	}
	if _, err := a.requireSession(ctx); err != nil {
		return engine.Quote{}, sel, err
	}
	q, err := engine.NewLeavePlanner(a.queries).Quote(ctx, f.leaveType, sel)
	return q, sel, err
}

func (a *app) printQuote(q engine.Quote) {
	if q.LeaveType != nil {
		fmt.Fprintf(a.out, "Leave type:     %s\n", q.LeaveType.Name)
	}
	fmt.Fprintf(a.out, "Calendar days:  %d\n", q.TotalCalendarDays)
	fmt.Fprintf(a.out, "Working days:   %s\n", q.WorkingDays.StringFixed(2))
	for _, h := range q.ExcludedHolidays {
		fmt.Fprintf(a.out, "  excludes %s %s\n", h.Date.Format(leave.DateFormat), h.Name)
	}
	if q.Balance != nil {
		fmt.Fprintf(a.out, "Remaining:      %s (pending %s)\n", q.Balance.Remaining.StringFixed(2), q.Balance.Pending.StringFixed(2))
	}
	if q.OverBalance {
		fmt.Fprintln(a.out, "Warning: the request exceeds the remaining balance")
	}
}

func newLeaveQuoteCmd(a *app) *cobra.Command {
	var f selectionFlags
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Count the working days a leave selection would use",
		RunE: func(cmd *cobra.Command, args []string) error {
			q, _, err := a.quote(cmd.Context(), &f)
			if err != nil {
				return err
			}
			a.printQuote(q)
			return nil
		},
	}
	f.bind(cmd)
	return cmd
}

func newLeaveRequestCmd(a *app) *cobra.Command {
	var (
		f      selectionFlags
		reason string
	)
	cmd := &cobra.Command{
		Use:   "request",
		Short: "Request leave",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			q, sel, err := a.quote(ctx, &f)
			if err != nil {
				return err
			}
			a.printQuote(q)

			req := leave.CreateLeaveRequestRequest{
				LeaveTypeID: f.leaveType,
				StartDate:   sel.Start.Format(leave.DateFormat),
				EndDate:     sel.End.Format(leave.DateFormat),
				IsHalfDay:   sel.Mode == leavecalc.ModeHalfDay,
				Reason:      reason,
			}
			if req.IsHalfDay {
				req.HalfDayPeriod = string(sel.Period)
			}
			if err := req.Validate(); err != nil {
				return err
			}

			created, err := a.client.CreateLeaveRequest(ctx, req)
			if err != nil {
				return err
			}
			a.cache.Invalidate(string(workflow.TagLeaveRequests), string(workflow.TagLeaveBalances))
			fmt.Fprintf(a.out, "Leave request %s submitted (%s days)\n", created.ID, created.DaysRequested)
			return nil
		},
	}
	f.bind(cmd)
	_ = cmd.MarkFlagRequired("type")
	cmd.Flags().StringVar(&reason, "reason", "", "Reason shown to the reviewer")
	return cmd
}

func newLeaveListCmd(a *app) *cobra.Command {
	var (
		pending bool
		query   client.LeaveRequestQuery
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your leave requests, or those awaiting your approval",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := a.requireSession(ctx); err != nil {
				return err
			}
			list := a.queries.MyLeaveRequests
			if pending {
				list = a.queries.PendingLeaveRequests
			}
			page, err := list(ctx, query)
			if err != nil {
				return err
			}
			for _, r := range page.Results {
				fmt.Fprintf(a.out, "%s  %-9s  %s..%s  %5s  %s  %s\n",
					r.ID, r.Status, r.StartDate, r.EndDate, r.DaysRequested, r.LeaveTypeName, r.EmployeeName)
			}
			fmt.Fprintf(a.out, "%d of %d\n", len(page.Results), page.Count)
			return nil
		},
	}
	cmd.Flags().BoolVar(&pending, "pending", false, "Show requests awaiting your approval")
	cmd.Flags().StringVar(&query.Status, "status", "", "Filter by status")
	cmd.Flags().IntVar(&query.Page.Page, "page", 1, "Page number")
	return cmd
}

func newLeaveShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a leave request and the actions you can take on it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := a.requireSession(ctx)
			if err != nil {
				return err
			}
			r, err := a.queries.LeaveRequest(ctx, args[0])
			if err != nil {
				return err
			}
			if err := a.printJSON(r); err != nil {
				return err
			}
			target := engine.Target{Kind: workflow.KindLeaveRequest, ID: r.ID, Status: workflow.Status(r.Status)}
			a.printActions(a.actions(s, target, r.EmployeeID))
			return nil
		},
	}
}

func newLeaveBalancesCmd(a *app) *cobra.Command {
	var year int
	cmd := &cobra.Command{
		Use:   "balances",
		Short: "Show your leave balances",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := a.requireSession(ctx); err != nil {
				return err
			}
			if year == 0 {
				year = time.Now().Year()
			}
			balances, err := a.queries.BalanceSummary(ctx, year)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%-24s %8s %8s %8s %8s\n", "TYPE", "ENTITLED", "USED", "PENDING", "LEFT")
			for _, b := range balances {
				fmt.Fprintf(a.out, "%-24s %8s %8s %8s %8s\n", b.LeaveTypeName, b.EntitledDays, b.UsedDays, b.PendingDays, b.RemainingDays)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "Balance year (default current year)")
	return cmd
}

func newLeaveActionCmd(a *app, action workflow.Action, short string) *cobra.Command {
	var notes string
	cmd := &cobra.Command{
		Use:   string(action) + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := a.requireSession(ctx); err != nil {
				return err
			}
			r, err := a.queries.LeaveRequest(ctx, args[0])
			if err != nil {
				return err
			}
			target := engine.Target{Kind: workflow.KindLeaveRequest, ID: r.ID, Status: workflow.Status(r.Status)}
			if _, err := a.workflow.Execute(ctx, target, action, notes); err != nil {
				return a.fail(err)
			}
			return nil
		},
	}
	if t, ok := workflow.Lookup(workflow.KindLeaveRequest, action); ok && t.PayloadField != "" {
		cmd.Flags().StringVar(&notes, t.PayloadField, "", "Review "+t.PayloadField)
	}
	return cmd
}

// actions lists what s may do on target: requester actions on their own
// entities and manager actions when s can approve.
func (a *app) actions(s client.Session, target engine.Target, ownerEmployeeID string) []workflow.Action {
	var out []workflow.Action
	if s.EmployeeID != "" && s.EmployeeID == ownerEmployeeID {
		out = append(out, a.workflow.Actions(target, workflow.ViewRequester)...)
	}
	if s.CanApprove() {
		out = append(out, a.workflow.Actions(target, workflow.ViewManager)...)
	}
	return out
}

func (a *app) printActions(actions []workflow.Action) {
	if len(actions) == 0 {
		fmt.Fprintln(a.out, "Actions: none")
		return
	}
	names := make([]string, len(actions))
	for i, act := range actions {
		names[i] = string(act)
	}
	fmt.Fprintf(a.out, "Actions: %s\n", strings.Join(names, ", "))
}
