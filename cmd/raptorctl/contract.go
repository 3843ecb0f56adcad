package main

import (
	"fmt"

	"github.com/accabog/rhr-sub000/internal/client"
	"github.com/accabog/rhr-sub000/internal/client/engine"
	"github.com/accabog/rhr-sub000/internal/domain/contract"
	"github.com/accabog/rhr-sub000/internal/pkg/workflow"
	"github.com/spf13/cobra"
)

func newContractCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contract",
		Short: "Review employment contracts",
	}
	cmd.AddCommand(
		newContractListCmd(a),
		newContractShowCmd(a),
		newContractExpiringCmd(a),
		newContractStatsCmd(a),
		newContractActionCmd(a, workflow.ActionActivate, "Activate a draft contract"),
		newContractActionCmd(a, workflow.ActionTerminate, "Terminate an active contract"),
	)
	return cmd
}

func newContractListCmd(a *app) *cobra.Command {
	var (
		all   bool
		query client.ContractQuery
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your contracts, or every contract of the tenant",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := a.requireSession(ctx); err != nil {
				return err
			}
			var (
				page contract.ListContractResponse
				err  error
			)
			if all {
				page, err = a.client.Contracts(ctx, query)
			} else {
				page, err = a.queries.MyContracts(ctx, query)
			}
			if err != nil {
				return err
			}
			for _, k := range page.Results {
				a.printContract(k)
			}
			fmt.Fprintf(a.out, "%d of %d\n", len(page.Results), page.Count)
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "List every contract (managers)")
	cmd.Flags().StringVar(&query.Status, "status", "", "Filter by status (with --all)")
	cmd.Flags().StringVar(&query.Employee, "employee", "", "Filter by employee (with --all)")
	cmd.Flags().BoolVar(&query.ExpiringSoon, "expiring-soon", false, "Only contracts ending within 30 days (with --all)")
	cmd.Flags().IntVar(&query.Page.Page, "page", 1, "Page number")
	return cmd
}

func newContractShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a contract and the actions you can take on it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := a.requireSession(ctx)
			if err != nil {
				return err
			}
			k, err := a.queries.Contract(ctx, args[0])
			if err != nil {
				return err
			}
			if err := a.printJSON(k); err != nil {
				return err
			}
			target := engine.Target{Kind: workflow.KindContract, ID: k.ID, Status: workflow.Status(k.Status)}
			a.printActions(a.actions(s, target, k.Employee))
			return nil
		},
	}
}

func newContractExpiringCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "expiring",
		Short: "List active contracts ending within 30 days",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := a.requireSession(ctx); err != nil {
				return err
			}
			contracts, err := a.client.ExpiringContracts(ctx)
			if err != nil {
				return err
			}
			for _, k := range contracts {
				a.printContract(k)
			}
			return nil
		},
	}
}

func newContractStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Count contracts by status",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := a.requireSession(ctx); err != nil {
				return err
			}
			stats, err := a.client.ContractStats(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "total %d  active %d  draft %d  expired %d  terminated %d  expiring soon %d\n",
				stats.Total, stats.Active, stats.Draft, stats.Expired, stats.Terminated, stats.ExpiringSoon)
			return nil
		},
	}
}

func newContractActionCmd(a *app, action workflow.Action, short string) *cobra.Command {
	return &cobra.Command{
		Use:   string(action) + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := a.requireSession(ctx); err != nil {
				return err
			}
			k, err := a.queries.Contract(ctx, args[0])
			if err != nil {
				return err
			}
			target := engine.Target{Kind: workflow.KindContract, ID: k.ID, Status: workflow.Status(k.Status)}
			if _, err := a.workflow.Execute(ctx, target, action, ""); err != nil {
				return a.fail(err)
			}
			return nil
		},
	}
}

func (a *app) printContract(k contract.ContractResponse) {
	end := "open-ended"
	if k.EndDate != nil {
		end = *k.EndDate
	}
	fmt.Fprintf(a.out, "%s  %-10s  %s..%s  %s  %s\n", k.ID, k.Status, k.StartDate, end, k.Title, k.EmployeeName)
}
