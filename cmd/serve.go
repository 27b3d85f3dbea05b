package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"hr-records/pkg/metrics"
	"hr-records/pkg/paseto"
	"hr-records/router"
	"hr-records/seeder"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	var (
		seed          bool
		adminEmail    string
		adminPassword string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			repos, closeStore, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			if seed {
				if err := seeder.Run(ctx, repos, seeder.Options{
					AdminEmail:    adminEmail,
					AdminPassword: adminPassword,
					WithEmployees: true,
				}); err != nil {
					return err
				}
			}

			maker, err := paseto.NewMaker(cfg.PasetoSecret, cfg.TokenTTL)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
				return err
			}

			m := metrics.New()
			app := router.NewApp(cfg, m)
			router.SetupRoutes(app, router.Deps{
				Config:  cfg,
				Repos:   repos,
				Tokens:  maker,
				Metrics: m,
			})

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				log.Info().
					Str("port", cfg.Port).
					Str("store", cfg.StoreDriver).
					Strs("cors_origins", cfg.AllowedOrigins).
					Msg("server listening")
				return app.Listen(":" + cfg.Port)
			})
			g.Go(func() error {
				<-gctx.Done()
				log.Info().Msg("shutting down")
				return app.ShutdownWithTimeout(shutdownTimeout)
			})

			if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&seed, "seed", false, "Seed sample data before serving (useful with STORE_DRIVER=memory)")
	cmd.Flags().StringVar(&adminEmail, "admin-email", "admin@example.com", "Administrator created by --seed")
	cmd.Flags().StringVar(&adminPassword, "admin-password", "Password123", "Password of the administrator created by --seed")
	return cmd
}
