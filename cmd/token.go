package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"hr-records/pkg/paseto"
	util "hr-records/pkg/utils"
)

func newTokenCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an access token for an existing administrator",
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

			admin, err := repos.Admins.FindAdminByEmail(cmd.Context(), strings.TrimSpace(email))
			if err != nil {
				return err
			}
			if admin == nil {
				return fmt.Errorf("no administrator with email %q", email)
			}

			maker, err := paseto.NewMaker(cfg.PasetoSecret, cfg.TokenTTL)
			if err != nil {
				return err
			}
			token, err := maker.GenerateToken(admin)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Administrator email (required)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newKeygenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Print a random PASETO_SECRET",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := util.GenerateSecretKey()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), key)
			return nil
		},
	}
}
