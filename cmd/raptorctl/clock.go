package main

import (
	"fmt"
	"time"

	"github.com/accabog/rhr-sub000/internal/client/engine"
	"github.com/accabog/rhr-sub000/internal/domain/timetracking"
	"github.com/spf13/cobra"
)

func newClockCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clock",
		Short: "Track working time",
	}
	cmd.AddCommand(newClockInCmd(a), newClockOutCmd(a), newClockWatchCmd(a))
	return cmd
}

func newClockInCmd(a *app) *cobra.Command {
	var req timetracking.ClockInRequest
	cmd := &cobra.Command{
		Use:   "in",
		Short: "Start a time entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := req.Validate(); err != nil {
				return err
			}
			if _, err := a.requireSession(ctx); err != nil {
				return err
			}
			entry, err := a.workflow.ClockIn(ctx, a.client, req)
			if err != nil {
				return a.fail(err)
			}
			fmt.Fprintf(a.out, "Entry %s started at %s\n", entry.ID, entry.StartTime)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.EntryTypeID, "type", "", "Entry type ID (default regular)")
	cmd.Flags().StringVar(&req.Project, "project", "", "Project")
	cmd.Flags().StringVar(&req.Task, "task", "", "Task")
	cmd.Flags().StringVar(&req.Notes, "notes", "", "Notes")
	return cmd
}

func newClockOutCmd(a *app) *cobra.Command {
	var req timetracking.ClockOutRequest
	cmd := &cobra.Command{
		Use:   "out",
		Short: "End the running time entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := req.Validate(); err != nil {
				return err
			}
			if _, err := a.requireSession(ctx); err != nil {
				return err
			}
			entry, err := a.workflow.ClockOut(ctx, a.client, req)
			if err != nil {
				return a.fail(err)
			}
			fmt.Fprintf(a.out, "Entry %s: %s hours\n", entry.ID, entry.DurationHours)
			return nil
		},
	}
	cmd.Flags().IntVar(&req.BreakMinutes, "break", 0, "Break minutes to deduct")
	cmd.Flags().StringVar(&req.Notes, "notes", "", "Notes")
	return cmd
}

func newClockWatchCmd(a *app) *cobra.Command {
	var interval time.Duration
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Show the running time entry until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := a.requireSession(ctx); err != nil {
				return err
			}
			watcher := engine.NewClockWatcher(a.client, a.cache, interval, func(e *timetracking.TimeEntryResponse) {
				now := time.Now().Format("15:04:05")
				if e == nil {
					fmt.Fprintf(a.out, "%s  not clocked in\n", now)
					return
				}
				fmt.Fprintf(a.out, "%s  clocked in since %s %s (entry %s)\n", now, e.Date, e.StartTime, e.ID)
			})
			return watcher.Run(ctx)
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", engine.DefaultPollInterval, "Polling interval")
	return cmd
}
