package main

import (
	"github.com/accabog/rhr-sub000/internal/domain/employee"
	"github.com/spf13/cobra"
)

func newProfileCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or update your employee profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := a.requireSession(ctx); err != nil {
				return err
			}
			e, err := a.client.MyProfile(ctx)
			if err != nil {
				return err
			}
			return a.printJSON(e)
		},
	}
	cmd.AddCommand(newProfileSetCmd(a))
	return cmd
}

func newProfileSetCmd(a *app) *cobra.Command {
	var phone, address, timezone string
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change your phone, address or timezone",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var req employee.UpdateProfileRequest
			if cmd.Flags().Changed("phone") {
				req.Phone = &phone
			}
			if cmd.Flags().Changed("address") {
				req.Address = &address
			}
			if cmd.Flags().Changed("timezone") {
				req.Timezone = &timezone
			}
			if err := req.Validate(); err != nil {
				return err
			}
			if _, err := a.requireSession(ctx); err != nil {
				return err
			}
			e, err := a.client.UpdateMyProfile(ctx, req)
			if err != nil {
				return err
			}
			return a.printJSON(e)
		},
	}
	cmd.Flags().StringVar(&phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&address, "address", "", "Postal address")
	cmd.Flags().StringVar(&timezone, "timezone", "", "IANA timezone, e.g. Europe/Berlin")
	return cmd
}
