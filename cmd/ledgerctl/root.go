package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/services"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/SscSPs/ledger_engine/internal/platform/config"
	"github.com/SscSPs/ledger_engine/internal/repositories/database/pgsql"
	"github.com/SscSPs/ledger_engine/pkg/database"
	"github.com/spf13/cobra"
)

var (
	flagUser string
	flagAsOf string

	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:           "ledgerctl",
	Short:         "Operate the ledger engine from the command line",
	Long:          "Runs migrations, fiscal period workflows and financial reports directly against the ledger database.",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadConfig()
		if err != nil {
			return err
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
		slog.SetDefault(logger)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagUser, "user", "ledgerctl", "User ID recorded in audit fields")
	rootCmd.PersistentFlags().StringVar(&flagAsOf, "as-of", "", "Report date (YYYY-MM-DD), defaults to today")
}

// commandContext carries the acting user and a logger the way request contexts do.
func commandContext(cmd *cobra.Command) context.Context {
	ctx := middleware.WithUserID(cmd.Context(), flagUser)
	return middleware.WithLogger(ctx, logger.With(slog.String("user_id", flagUser), slog.String("command", cmd.CommandPath())))
}

// withServices opens the pool, builds the service container and runs fn.
func withServices(cmd *cobra.Command, fn func(ctx context.Context, svc *portssvc.ServiceContainer) error) error {
	ctx := commandContext(cmd)
	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.ClosePgxPool(pool)

	container := services.NewServiceContainer(cfg.Ledger, pgsql.NewRepositoryProvider(pool))
	return fn(ctx, container)
}

func asOfDate() (time.Time, error) {
	if flagAsOf == "" {
		return time.Now().UTC(), nil
	}
	t, err := time.Parse(dto.DateLayout, flagAsOf)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --as-of %q, expected YYYY-MM-DD", flagAsOf)
	}
	return t, nil
}
