package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"graphql-user-service/internal/adapter/graph"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the GraphQL schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sdl, err := graph.FormatSDL()
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), sdl)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
