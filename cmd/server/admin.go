package main

import (
	"fmt"

	"disasterconnect-http-service/internal/domain/services"

	"github.com/spf13/cobra"
)

func newAdminCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage admin accounts",
	}
	cmd.AddCommand(newAdminAddCommand(), newAdminListCommand())
	return cmd
}

func newAdminAddCommand() *cobra.Command {
	var username, email, password string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, pool, err := bootstrap()
			if err != nil {
				return err
			}
			defer pool.Close()

			admin, err := services.NewAdminService(pool.GetDB(), cfg).CreateAdmin(username, email, password)
			if err != nil {
				return fmt.Errorf("create admin: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created admin %s <%s>\n", admin.Username, admin.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "admin username")
	cmd.Flags().StringVar(&email, "email", "", "admin email")
	cmd.Flags().StringVar(&password, "password", "", "admin password")
	for _, name := range []string{"username", "email", "password"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newAdminListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List admin accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, pool, err := bootstrap()
			if err != nil {
				return err
			}
			defer pool.Close()

			admins, err := services.NewAdminService(pool.GetDB(), cfg).GetAllAdmins()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(admins) == 0 {
				fmt.Fprintln(out, "no admins found")
				return nil
			}
			for _, a := range admins {
				fmt.Fprintf(out, "%d\t%s\t%s\n", a.ID, a.Username, a.Email)
			}
			return nil
		},
	}
}
