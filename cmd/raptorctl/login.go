package main

import (
	"fmt"
	"os"

	"github.com/accabog/rhr-sub000/internal/domain/auth"
	"github.com/spf13/cobra"
)

func newLoginCmd(a *app) *cobra.Command {
	var req auth.LoginRequest

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and print the session environment",
		Long: "Log in with email and password. The password is read from --password or\n" +
			"$RAPTOR_PASSWORD. The printed lines can be appended to .env.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Password == "" {
				req.Password = os.Getenv("RAPTOR_PASSWORD")
			}
			if err := req.Validate(); err != nil {
				return err
			}

			token, err := a.client.Login(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "RAPTOR_TOKEN=%s\n", token.AccessToken)
			fmt.Fprintf(a.out, "RAPTOR_TENANT_ID=%s\n", token.TenantID)
			fmt.Fprintf(a.errOut, "Logged in as %s (%s)\n", req.Email, token.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Email, "email", "", "Account email")
	cmd.Flags().StringVar(&req.Password, "password", "", "Account password")
	cmd.Flags().StringVar(&req.TenantID, "tenant-id", "", "Tenant to log in to (default membership when empty)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
