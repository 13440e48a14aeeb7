package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"graphql-user-service/cmd/api/app"
	"graphql-user-service/cmd/api/server"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"s"},
	Short:   "Start the GraphQL server",
	Long: `Start an HTTP server that serves the GraphQL API.

The server exposes:
  - GraphQL endpoint at /graphql (POST, and GET for queries)
  - GraphQL Playground at /graphql (GET without a query) when GRAPHQL_PLAYGROUND is set
  - Health check at /health

Examples:
  # Start server on the configured PORT
  graphql-user-service serve

  # Start server on a custom port
  graphql-user-service serve --port 8080`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func runServe(cmd *cobra.Command) error {
	if servePort != "" {
		cfg.App.Port = servePort
	}

	ctx, stop := server.WithSignal(cmd.Context(), log)
	defer stop()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Error("failed to start application", zap.Error(err))
		return err
	}

	return a.Run(ctx)
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "Port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}
