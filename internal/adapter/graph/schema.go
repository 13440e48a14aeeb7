package graph

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"

	"github.com/graph-gophers/graphql-go"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
	"github.com/vektah/gqlparser/v2/parser"
	"go.uber.org/zap"

	"graphql-user-service/pkg/logger"
)

//go:embed schema.graphqls
var sdl string

// DefaultMaxDepth bounds query nesting when no limit is configured.
const DefaultMaxDepth = 10

// SDL returns the schema definition served by the API.
func SDL() string {
	return sdl
}

// NewSchema parses the SDL and binds it to r. Resolver signatures are
// checked here, so a mismatch fails at startup rather than per request.
func NewSchema(r *Resolver, maxDepth int, log *zap.Logger) (*graphql.Schema, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	schema, err := graphql.ParseSchema(sdl, r,
		graphql.MaxDepth(maxDepth),
		graphql.Logger(&panicLogger{log: log}),
	)
	if err != nil {
		return nil, fmt.Errorf("parse graphql schema: %w", err)
	}
	return schema, nil
}

// panicLogger sends resolver panics recovered by the executor to zap.
type panicLogger struct {
	log *zap.Logger
}

func (l *panicLogger) LogPanic(ctx context.Context, value interface{}) {
	logger.WithContext(ctx, l.log).Error("graphql resolver panic", zap.Any("panic", value), zap.Stack("stack"))
}

// LoadSDL parses the schema with gqlparser for tooling that needs an AST.
func LoadSDL() (*ast.Schema, error) {
	schema, err := gqlparser.LoadSchema(&ast.Source{Name: "schema.graphqls", Input: sdl})
	if err != nil {
		return nil, err
	}
	return schema, nil
}

// FormatSDL renders the schema in canonical form.
func FormatSDL() (string, error) {
	schema, err := LoadSDL()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	formatter.NewFormatter(&buf, formatter.WithIndent("  ")).FormatSchema(schema)
	return buf.String(), nil
}

// ValidateQuery checks a document against the schema without executing it.
func ValidateQuery(query string) (*ast.QueryDocument, error) {
	schema, err := LoadSDL()
	if err != nil {
		return nil, err
	}

	doc, errs := gqlparser.LoadQuery(schema, query)
	if len(errs) > 0 {
		return nil, errs
	}
	return doc, nil
}

// OperationOf reports whether the selected operation of query is a query or
// a mutation. operationName may be empty when the document holds a single
// operation.
func OperationOf(query, operationName string) (ast.Operation, error) {
	doc, err := parser.ParseQuery(&ast.Source{Input: query})
	if err != nil {
		return "", err
	}

	op := doc.Operations.ForName(operationName)
	if op == nil {
		if operationName == "" {
			return "", fmt.Errorf("an operation name is required when the document has %d operations", len(doc.Operations))
		}
		return "", fmt.Errorf("unknown operation %q", operationName)
	}
	return op.Operation, nil
}
