package cmd

import (
	"database/sql"

	"laundry/internal/adapters/out/postgres/migrations"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

func migrateStep(use, short string, step func(*sql.DB) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := current.config.Validate(); err != nil {
				return err
			}
			db, err := migrations.Open(current.config.DSN())
			if err != nil {
				return err
			}
			defer db.Close()

			if err = step(db); err != nil {
				return err
			}
			current.logger.Info().Str("step", use).Msg("Migration finished")
			return nil
		},
	}
}

func init() {
	migrateCmd.AddCommand(
		migrateStep("up", "Apply all pending migrations", migrations.Up),
		migrateStep("down", "Roll back the latest migration", migrations.Down),
		migrateStep("status", "Print the migration status", migrations.Status),
	)
	rootCmd.AddCommand(migrateCmd)
}
