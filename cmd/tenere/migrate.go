package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
	"github.com/spf13/cobra"

	"github.com/tenere/fuellog/internal/config"
	"github.com/tenere/fuellog/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending Postgres migrations and exit",
	Long: `Apply every pending goose migration to DATABASE_URL.

The bolt store has no schema, so with STORE_DRIVER=bolt this is a no-op.
"tenere serve" runs the same migrations on start.`,
	Args: cobra.NoArgs,
	RunE: runMigrate,
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(os.Stdout, cfg.LogLevel)

	if cfg.StoreDriver != config.DriverPostgres {
		logger.Info("store needs no migrations", "driver", cfg.StoreDriver)
		return nil
	}
	_, err = migratePostgres(cmd.Context(), cfg.DatabaseURL, logger)
	return err
}

// migratePostgres brings the schema at dsn up to date. goose drives a
// database/sql handle, so a short-lived one is opened next to the pool.
func migratePostgres(ctx context.Context, dsn string, logger *slog.Logger) (int, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return 0, fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	applied, err := migrations.Up(ctx, db)
	if err != nil {
		return 0, err
	}
	logger.Info("migrations applied", "count", applied)
	return applied, nil
}
