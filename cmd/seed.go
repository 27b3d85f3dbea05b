package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"hr-records/seeder"
)

func newSeedCmd() *cobra.Command {
	var opts seeder.Options

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert default departments, positions and the first administrator",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			repos, closeStore, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			if err := seeder.Run(cmd.Context(), repos, opts); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "seed complete")
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.AdminEmail, "admin-email", "admin@example.com", "Administrator email (empty to skip)")
	cmd.Flags().StringVar(&opts.AdminPassword, "admin-password", "Password123", "Administrator password")
	cmd.Flags().BoolVar(&opts.WithEmployees, "employees", false, "Also insert sample employees")
	return cmd
}
