package main

import (
	"fmt"

	"disasterconnect-http-service/internal/infrastructure/database"

	"github.com/spf13/cobra"
)

func newSeedCommand() *cobra.Command {
	var clear bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load sample users, reports and donations",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, pool, err := bootstrap()
			if err != nil {
				return err
			}
			defer pool.Close()

			summary, err := database.Seed(pool.GetDB(), clear, nil)
			if err != nil {
				return fmt.Errorf("seed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "users: %d, reports: %d, donations: %d\n",
				summary.Users, summary.Reports, summary.Donations)
			return nil
		},
	}

	cmd.Flags().BoolVar(&clear, "clear", false, "remove existing users, reports and donations first")
	return cmd
}
