package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/graph-gophers/graphql-go"
	gqlerrors "github.com/graph-gophers/graphql-go/errors"
	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"

	"graphql-user-service/cmd/api/di"
	"graphql-user-service/internal/adapter/graph"
)

var (
	queryJSON      bool
	queryVariables string
	queryOperation string
)

var queryCmd = &cobra.Command{
	Use:   "query [document]",
	Short: "Execute a GraphQL query or mutation",
	Long: `Execute a GraphQL query or mutation against the configured database
without starting the server.

Examples:
  # List all users
  graphql-user-service query '{ getUsers { id name email } }'

  # Use variables
  graphql-user-service query -v '{"id": "1"}' 'query($id: ID!) { getUser(id: $id) { name } }'

  # Read from stdin
  echo 'mutation { deleteUser(id: "1") }' | graphql-user-service query`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var document string
		if len(args) == 1 {
			document = args[0]
		} else {
			stdinQuery, err := readFromStdin(cmd.InOrStdin())
			if err != nil {
				return err
			}
			if stdinQuery == "" {
				return fmt.Errorf("no query provided (pass as argument or pipe to stdin)")
			}
			document = stdinQuery
		}

		var variables map[string]interface{}
		if queryVariables != "" {
			if err := json.Unmarshal([]byte(queryVariables), &variables); err != nil {
				return fmt.Errorf("invalid variables JSON: %w", err)
			}
		}

		// reject malformed documents before touching the database
		if _, err := graph.ValidateQuery(document); err != nil {
			return fmt.Errorf("invalid document: %w", err)
		}

		local := *cfg
		local.RateLimit.Enabled = false
		container, err := di.NewContainer(cmd.Context(), &local, log)
		if err != nil {
			return err
		}
		defer func() { _ = container.Close() }()

		data, err := executeQuery(cmd.Context(), container.Schema, document, queryOperation, variables)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if queryJSON {
			fmt.Fprintln(out, string(data))
		} else {
			fmt.Fprintln(out, string(pretty.Color(pretty.Pretty(data), nil)))
		}
		return nil
	},
}

// readFromStdin reads the document when stdin is a pipe or file.
func readFromStdin(in io.Reader) (string, error) {
	if f, ok := in.(*os.File); ok {
		stat, err := f.Stat()
		if err != nil {
			return "", fmt.Errorf("checking stdin: %w", err)
		}
		if (stat.Mode() & os.ModeCharDevice) != 0 {
			return "", nil
		}
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// executeQuery runs document in-process and returns the data portion of the
// response. GraphQL errors are turned into a single Go error.
func executeQuery(ctx context.Context, schema *graphql.Schema, document, operation string, variables map[string]interface{}) ([]byte, error) {
	resp := schema.Exec(ctx, document, operation, variables)
	if len(resp.Errors) > 0 {
		return nil, formatGraphQLErrors(resp.Errors)
	}
	return resp.Data, nil
}

func formatGraphQLErrors(errs []*gqlerrors.QueryError) error {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msg := e.Message
		if code, ok := e.Extensions["code"]; ok {
			msg = fmt.Sprintf("[%v] %s", code, msg)
		}
		msgs = append(msgs, msg)
	}
	if len(msgs) == 1 {
		return fmt.Errorf("graphql: %s", msgs[0])
	}
	return fmt.Errorf("graphql errors:\n  %s", strings.Join(msgs, "\n  "))
}

func init() {
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "Output raw JSON (no formatting)")
	queryCmd.Flags().StringVarP(&queryVariables, "variables", "v", "", "Query variables as JSON string")
	queryCmd.Flags().StringVarP(&queryOperation, "operation", "o", "", "Operation name (for multi-operation documents)")
	rootCmd.AddCommand(queryCmd)
}
