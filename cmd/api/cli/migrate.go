package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"graphql-user-service/cmd/api/infrastructure"
	"graphql-user-service/internal/adapter/db/migrations"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate <up|down|status>",
	Short:     "Manage the database schema",
	Long:      `Apply, roll back, or inspect the schema migrations of the configured database.`,
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"up", "down", "status"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}

		db, err := infrastructure.NewDatabase(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer func() { _ = infrastructure.CloseDatabase(db) }()

		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("failed to get underlying sql.DB: %w", err)
		}

		switch args[0] {
		case "up":
			err = migrations.Up(sqlDB, cfg.DB.Driver, log)
		case "down":
			err = migrations.Down(sqlDB, cfg.DB.Driver, log)
		default:
			err = migrations.Status(sqlDB, cfg.DB.Driver, log)
		}
		if err != nil {
			return err
		}

		version, err := migrations.Version(sqlDB, cfg.DB.Driver, log)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "schema version: %d\n", version)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
