package main

import (
	"fmt"

	"github.com/accabog/rhr-sub000/internal/client"
	"github.com/accabog/rhr-sub000/internal/client/engine"
	"github.com/accabog/rhr-sub000/internal/domain/timesheet"
	"github.com/accabog/rhr-sub000/internal/pkg/workflow"
	"github.com/spf13/cobra"
)

func newTimesheetCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "timesheet",
		Aliases: []string{"ts"},
		Short:   "Generate and review timesheets",
	}
	cmd.AddCommand(
		newTimesheetGenerateCmd(a),
		newTimesheetListCmd(a),
		newTimesheetShowCmd(a),
		newTimesheetActionCmd(a, workflow.ActionSubmit, "Submit a draft timesheet for approval"),
		newTimesheetActionCmd(a, workflow.ActionApprove, "Approve a submitted timesheet"),
		newTimesheetActionCmd(a, workflow.ActionReject, "Reject a submitted timesheet"),
		newTimesheetActionCmd(a, workflow.ActionReopen, "Reopen a rejected timesheet as draft"),
		newTimesheetActionCmd(a, workflow.ActionDelete, "Delete a draft timesheet"),
	)
	return cmd
}

func newTimesheetGenerateCmd(a *app) *cobra.Command {
	var req timesheet.GenerateTimesheetRequest
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a timesheet from the time entries of a period",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := req.Validate(); err != nil {
				return err
			}
			if _, err := a.requireSession(ctx); err != nil {
				return err
			}
			ts, err := a.client.GenerateTimesheet(ctx, req)
			if err != nil {
				return err
			}
			a.cache.Invalidate(string(workflow.TagTimesheets))
			fmt.Fprintf(a.out, "Timesheet %s generated for %s..%s: %s hours (%s overtime)\n",
				ts.ID, ts.PeriodStart, ts.PeriodEnd, ts.TotalHours, ts.TotalOvertimeHours)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.PeriodStart, "start", "", "Period start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&req.PeriodEnd, "end", "", "Period end (YYYY-MM-DD)")
	cmd.Flags().StringVar(&req.EmployeeID, "employee", "", "Generate for another employee")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func newTimesheetListCmd(a *app) *cobra.Command {
	var (
		pending bool
		query   client.TimesheetQuery
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your timesheets, or those awaiting your approval",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := a.requireSession(ctx); err != nil {
				return err
			}
			list := a.queries.MyTimesheets
			if pending {
				list = a.queries.PendingTimesheets
			}
			page, err := list(ctx, query)
			if err != nil {
				return err
			}
			for _, ts := range page.Results {
				fmt.Fprintf(a.out, "%s  %-9s  %s..%s  %7s  %s\n",
					ts.ID, ts.Status, ts.PeriodStart, ts.PeriodEnd, ts.TotalHours, ts.EmployeeName)
			}
			fmt.Fprintf(a.out, "%d of %d\n", len(page.Results), page.Count)
			return nil
		},
	}
	cmd.Flags().BoolVar(&pending, "pending", false, "Show timesheets awaiting your approval")
	cmd.Flags().StringVar(&query.Status, "status", "", "Filter by status")
	cmd.Flags().IntVar(&query.Page.Page, "page", 1, "Page number")
	return cmd
}

func newTimesheetShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a timesheet and the actions you can take on it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := a.requireSession(ctx)
			if err != nil {
				return err
			}
			ts, err := a.queries.Timesheet(ctx, args[0])
			if err != nil {
				return err
			}
			if err := a.printJSON(ts); err != nil {
				return err
			}
			target := engine.Target{Kind: workflow.KindTimesheet, ID: ts.ID, Status: workflow.Status(ts.Status)}
			a.printActions(a.actions(s, target, ts.EmployeeID))
			return nil
		},
	}
}

func newTimesheetActionCmd(a *app, action workflow.Action, short string) *cobra.Command {
	var text string
	cmd := &cobra.Command{
		Use:   string(action) + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := a.requireSession(ctx); err != nil {
				return err
			}
			ts, err := a.queries.Timesheet(ctx, args[0])
			if err != nil {
				return err
			}
			target := engine.Target{Kind: workflow.KindTimesheet, ID: ts.ID, Status: workflow.Status(ts.Status)}
			if _, err := a.workflow.Execute(ctx, target, action, text); err != nil {
				return a.fail(err)
			}
			return nil
		},
	}
	if t, ok := workflow.Lookup(workflow.KindTimesheet, action); ok && t.PayloadField != "" {
		usage := "Optional " + t.PayloadField
		if t.MinPayload > 0 {
			usage = fmt.Sprintf("Required %s, at least %d characters", t.PayloadField, t.MinPayload)
		}
		cmd.Flags().StringVar(&text, t.PayloadField, "", usage)
	}
	return cmd
}
