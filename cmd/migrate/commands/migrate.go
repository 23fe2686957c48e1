package commands

import (
	"fmt"

	"github.com/onnwee/places/internal/db"
	"github.com/spf13/cobra"
)

func migrateCmd(opts *options, dir db.Direction, use, short string, defaultSteps int) *cobra.Command {
	var steps int

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if steps < 0 {
				return fmt.Errorf("--steps must not be negative, got %d", steps)
			}
			ran, err := db.Migrate(cmd.Context(), opts.conn, dir, steps)
			for _, v := range ran {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", dir, v)
			}
			if err != nil {
				return err
			}
			if len(ran) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no migrations to run")
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&steps, "steps", defaultSteps, "number of migrations to run (0 = all)")
	return cmd
}

func statusCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "List migrations and whether they are applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			migrations, err := db.Migrations()
			if err != nil {
				return err
			}
			applied, err := db.Applied(cmd.Context(), opts.conn)
			if err != nil {
				return err
			}
			done := make(map[string]bool, len(applied))
			for _, v := range applied {
				done[v] = true
			}

			for _, m := range migrations {
				state := "pending"
				if done[m.Version] {
					state = "applied"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-8s %s\n", state, m.Version)
			}
			return nil
		},
	}
}
