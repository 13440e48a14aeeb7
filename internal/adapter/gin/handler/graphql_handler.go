package handler

import (
	"encoding/json"
	"net/http"

	"github.com/99designs/gqlgen/graphql/playground"
	"github.com/gin-gonic/gin"
	"github.com/graph-gophers/graphql-go"
	"github.com/vektah/gqlparser/v2/ast"
	"go.uber.org/zap"

	"graphql-user-service/internal/adapter/graph"
	"graphql-user-service/pkg/logger"
)

// GraphQLRequest is the standard GraphQL-over-HTTP request body.
type GraphQLRequest struct {
	Query         string                 `json:"query" form:"query"`
	OperationName string                 `json:"operationName" form:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// ErrorResponse carries transport level failures in GraphQL error shape.
type ErrorResponse struct {
	Errors []ErrorMessage `json:"errors"`
}

// ErrorMessage is a single entry of ErrorResponse.
type ErrorMessage struct {
	Message string `json:"message"`
}

func errorResponse(msg string) ErrorResponse {
	return ErrorResponse{Errors: []ErrorMessage{{Message: msg}}}
}

// GraphQLHandler serves the GraphQL endpoint.
type GraphQLHandler struct {
	schema     *graphql.Schema
	log        *zap.Logger
	playground http.Handler
}

// NewGraphQLHandler creates a handler for schema. When enablePlayground is
// set, a GET without a query serves the GraphQL Playground.
func NewGraphQLHandler(schema *graphql.Schema, enablePlayground bool, endpoint string, log *zap.Logger) *GraphQLHandler {
	h := &GraphQLHandler{schema: schema, log: log}
	if enablePlayground {
		h.playground = playground.Handler("User Service GraphQL", endpoint)
	}
	return h
}

// Post handles POST /graphql
func (h *GraphQLHandler) Post(c *gin.Context) {
	var req GraphQLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WithContext(c.Request.Context(), h.log).Warn("invalid graphql request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, errorResponse("request body must be a JSON object: "+err.Error()))
		return
	}
	if req.Query == "" {
		c.JSON(http.StatusBadRequest, errorResponse("no query provided"))
		return
	}

	h.execute(c, req)
}

// Get handles GET /graphql. Only query operations run over GET.
func (h *GraphQLHandler) Get(c *gin.Context) {
	req := GraphQLRequest{
		Query:         c.Query("query"),
		OperationName: c.Query("operationName"),
	}

	if req.Query == "" {
		if h.playground != nil {
			h.playground.ServeHTTP(c.Writer, c.Request)
			return
		}
		c.JSON(http.StatusBadRequest, errorResponse("no query provided"))
		return
	}

	if raw := c.Query("variables"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Variables); err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("variables must be a JSON object: "+err.Error()))
			return
		}
	}

	// unparsable documents fall through so the executor reports them
	if op, err := graph.OperationOf(req.Query, req.OperationName); err == nil && op != ast.Query {
		c.Header("Allow", http.MethodPost)
		c.JSON(http.StatusMethodNotAllowed, errorResponse("only query operations are allowed over GET"))
		return
	}

	h.execute(c, req)
}

func (h *GraphQLHandler) execute(c *gin.Context, req GraphQLRequest) {
	ctx := c.Request.Context()
	resp := h.schema.Exec(ctx, req.Query, req.OperationName, req.Variables)

	if len(resp.Errors) > 0 {
		logger.WithContext(ctx, h.log).Debug("graphql operation returned errors",
			zap.String("operation", req.OperationName),
			zap.Int("count", len(resp.Errors)),
			zap.String("first", resp.Errors[0].Message),
		)
	}

	c.JSON(http.StatusOK, resp)
}
