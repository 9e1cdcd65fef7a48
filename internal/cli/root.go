// Package cli is the tablebook command line: the API server, schema
// migrations and table seeding.
package cli

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/iliyamo/restaurant-table-reservation/internal/config"
	"github.com/iliyamo/restaurant-table-reservation/internal/database"
)

// Set by -ldflags at build time.
var (
	Version   = "dev"
	CommitSHA = "unknown"
	BuildDate = "unknown"
)

func NewRoot() *cobra.Command {
	var envFile string
	cmd := &cobra.Command{
		Use:           "tablebook",
		Short:         "Restaurant table reservation service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// a missing .env is fine; the environment may already be set
			if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("load %s: %w", envFile, err)
			}
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	cmd.AddCommand(NewServerCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewTablesCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := NewRoot().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// openStore loads the configuration and opens the database.
func openStore() (config.Config, *sql.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}
	db, err := database.Open(cfg.DB)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, db, nil
}

func migrate(db *sql.DB, driver string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return database.Migrate(ctx, db, driver)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version info",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tablebook %s (commit=%s, built=%s)\n", Version, CommitSHA, BuildDate)
		},
	}
}
