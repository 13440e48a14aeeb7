package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSQLiteEnv(t *testing.T) {
	t.Helper()
	t.Setenv("CONFIG_PATH", t.TempDir())
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_NAME", filepath.Join(t.TempDir(), "users.db"))
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("LOG_OUTPUT_PATH", "stderr")
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestSchemaCommand(t *testing.T) {
	out, err := execute(t, "schema")
	require.NoError(t, err)

	assert.Contains(t, out, "type User {")
	assert.Contains(t, out, "createUser(name: String!, email: String!): User!")
	assert.Contains(t, out, "deleteUser(id: ID!): Boolean!")
}

func TestMigrateCommand(t *testing.T) {
	setupSQLiteEnv(t)

	out, err := execute(t, "migrate", "up")
	require.NoError(t, err)
	assert.Contains(t, out, "schema version: 1")

	out, err = execute(t, "migrate", "down")
	require.NoError(t, err)
	assert.Contains(t, out, "schema version: 0")

	_, err = execute(t, "migrate", "sideways")
	assert.Error(t, err)
}

func TestQueryCommand(t *testing.T) {
	setupSQLiteEnv(t)

	out, err := execute(t, "query", "--json", `mutation { createUser(name: "Ada", email: "ada@example.com") { id name } }`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"createUser":{"id":"1","name":"Ada"}}`, strings.TrimSpace(out))

	out, err = execute(t, "query", "--json", "-v", `{"id":"1"}`, `query($id: ID!) { getUser(id: $id) { email } }`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"getUser":{"email":"ada@example.com"}}`, strings.TrimSpace(out))

	_, err = execute(t, "query", "--json", "-v", "", `mutation { createUser(name: "Other", email: "ada@example.com") { id } }`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CONSTRAINT_VIOLATION")
}

func TestQueryCommand_InvalidInput(t *testing.T) {
	setupSQLiteEnv(t)

	_, err := execute(t, "query", "--json", "-v", "", `{ getUsers { password } }`)
	assert.ErrorContains(t, err, "invalid document")

	_, err = execute(t, "query", "--json", "-v", "{nope", `{ getUsers { id } }`)
	assert.ErrorContains(t, err, "invalid variables JSON")

	_, err = execute(t, "query", "--json", "-v", "")
	assert.ErrorContains(t, err, "no query provided")
}
