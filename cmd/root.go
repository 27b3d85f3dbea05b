// Package cmd is the hrctl command line: the HTTP server and its operator tools.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"hr-records/config"
	"hr-records/repository"
	"hr-records/repository/memstore"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "hrctl",
		Short:         "HR records API server and operator tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newSeedCmd())
	cmd.AddCommand(newTokenCmd())
	cmd.AddCommand(newKeygenCmd())
	return cmd
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration and applies the logging settings.
func loadConfig() (*config.AppConfig, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	config.SetupLogger(cfg)
	return cfg, nil
}

// openStore returns the repositories selected by STORE_DRIVER and a function that
// releases them.
func openStore(ctx context.Context, cfg *config.AppConfig) (repository.Repositories, func(), error) {
	if cfg.StoreDriver == config.StoreMemory {
		log.Warn().Msg("using the in-memory store, data is lost on exit")
		return memstore.New().Repositories(), func() {}, nil
	}

	client, err := config.MongoConnect(ctx, cfg.MongoString)
	if err != nil {
		return repository.Repositories{}, nil, err
	}
	db := client.Database(cfg.MongoDB)
	if err := config.InitDatabase(ctx, db); err != nil {
		config.DisconnectDB(client)
		return repository.Repositories{}, nil, err
	}
	return repository.NewMongoRepositories(db), func() { config.DisconnectDB(client) }, nil
}
