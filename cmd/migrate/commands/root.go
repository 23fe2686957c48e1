// Package commands implements the places migration CLI.
package commands

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/onnwee/places/internal/db"
	"github.com/spf13/cobra"
)

// openFunc opens the database the commands operate on.
type openFunc func(ctx context.Context, databaseURL string) (*sql.DB, error)

type options struct {
	databaseURL string
	envFile     string
	conn        *sql.DB
}

// Execute runs the CLI against os.Args.
func Execute() error {
	return newRootCmd(db.Open).Execute()
}

func newRootCmd(open openFunc) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "migrate",
		Short:        "Apply or revert the places database schema",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(opts.envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("load %s: %w", opts.envFile, err)
			}
			if opts.databaseURL == "" {
				opts.databaseURL = os.Getenv("DATABASE_URL")
			}
			if opts.databaseURL == "" {
				return errors.New("database URL is required (--database-url or DATABASE_URL)")
			}

			conn, err := open(cmd.Context(), opts.databaseURL)
			if err != nil {
				return err
			}
			opts.conn = conn
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if opts.conn == nil {
				return nil
			}
			return opts.conn.Close()
		},
	}

	root.PersistentFlags().StringVar(&opts.databaseURL, "database-url", "", "Postgres URL (default $DATABASE_URL)")
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	root.AddCommand(
		migrateCmd(opts, db.Up, "up", "Apply pending migrations", 0),
		migrateCmd(opts, db.Down, "down", "Revert applied migrations, newest first", 1),
		statusCmd(opts),
	)
	return root
}
