package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"graphql-user-service/internal/adapter/gin/handler"
	"graphql-user-service/internal/adapter/gin/middleware"
	"graphql-user-service/pkg/logger"
)

// GraphQLPath is where the GraphQL endpoint and playground are mounted.
const GraphQLPath = "/graphql"

// SetupRouter configures and returns a Gin router with all routes and middleware
func SetupRouter(
	graphqlHandler *handler.GraphQLHandler,
	healthHandler *handler.HealthHandler,
	rateLimiter *middleware.RateLimiter,
	log *zap.Logger,
) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(logger.RequestID())
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Logger(log))

	router.GET("/health", healthHandler.Check)

	api := router.Group(GraphQLPath)
	api.Use(rateLimiter.Handler())
	{
		api.POST("", graphqlHandler.Post)
		api.GET("", graphqlHandler.Get)
	}

	return router
}
