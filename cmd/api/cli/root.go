package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"graphql-user-service/cmd/api/app"
	"graphql-user-service/internal/config"
)

var (
	cfg *config.Config
	log *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "graphql-user-service",
	Short: "GraphQL API for managing users",
	Long: `graphql-user-service exposes create, read, update and delete operations
on users through a single GraphQL endpoint backed by PostgreSQL or SQLite.

Running without a subcommand starts the server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// schema printing needs neither configuration nor a logger
		if cmd.Name() == schemaCmd.Name() {
			return nil
		}

		var err error
		cfg, err = app.LoadConfig()
		if err != nil {
			return err
		}

		log, err = app.NewLogger(cfg)
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			app.SyncLogger(log)
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

// Execute runs the command line interface.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
