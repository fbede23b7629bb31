// Package main is the entry point for the data migration tool.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/diet-tracker/backend/config"
	"github.com/diet-tracker/backend/internal/infra/dependency"
	"github.com/diet-tracker/backend/internal/integration/migration"
)

var (
	fromFlag   string
	toFlag     string
	dryRunFlag bool
	retryFlag  uint64
	rootCmd    = &cobra.Command{
		Use:   "migrate",
		Short: "Move Diet Tracker data between storage backends",
	}
)

func main() {
	_ = godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	copyCmd := &cobra.Command{
		Use:   "copy",
		Short: "Copy every user with entries and goal from one backend to another",
		RunE: func(cmd *cobra.Command, args []string) error {
			from := config.StorageMode(strings.ToLower(fromFlag))
			to := config.StorageMode(strings.ToLower(toFlag))
			if from == to {
				return fmt.Errorf("--from and --to must differ")
			}
			return runCopy(cmd.Context(), from, to)
		},
	}
	copyCmd.Flags().StringVarP(&fromFlag, "from", "f", string(config.StorageModeLocal), "Source backend: local, postgres or cloud")
	copyCmd.Flags().StringVarP(&toFlag, "to", "t", string(config.StorageModeCloud), "Destination backend: local, postgres or cloud")
	copyCmd.Flags().BoolVar(&dryRunFlag, "dry-run", false, "Only report what would be copied")
	copyCmd.Flags().Uint64Var(&retryFlag, "retries", 5, "Retries per call while a backend is unavailable")
	rootCmd.AddCommand(copyCmd)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCopy(ctx context.Context, from, to config.StorageMode) error {
	cfg := config.Load()

	source, err := dependency.OpenStore(ctx, &cfg.Storage, from)
	if err != nil {
		return fmt.Errorf("failed to open source %s: %w", from, err)
	}
	defer source.DataStore.Close()

	destination, err := dependency.OpenStore(ctx, &cfg.Storage, to)
	if err != nil {
		return fmt.Errorf("failed to open destination %s: %w", to, err)
	}
	defer destination.DataStore.Close()

	copier := migration.NewCopier(source.DataStore, destination.DataStore, migration.Options{
		DryRun:     dryRunFlag,
		MaxRetries: retryFlag,
	})

	summary, err := copier.Run(ctx)
	if summary != nil {
		slog.Info("Migration summary",
			"from", from,
			"to", to,
			"dry_run", dryRunFlag,
			"users", summary.Users,
			"replaced_users", summary.ReplacedUsers,
			"entries", summary.Entries,
			"goals", summary.Goals,
		)
	}
	return err
}
