package di

import (
	"context"
	"fmt"

	"github.com/graph-gophers/graphql-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"graphql-user-service/cmd/api/infrastructure"
	"graphql-user-service/internal/adapter/db/postgres"
	ginhandler "graphql-user-service/internal/adapter/gin/handler"
	"graphql-user-service/internal/adapter/gin/middleware"
	ginrouter "graphql-user-service/internal/adapter/gin/router"
	"graphql-user-service/internal/adapter/graph"
	"graphql-user-service/internal/config"
	"graphql-user-service/internal/usecase/user"
	redisclient "graphql-user-service/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config         *config.Config
	Logger         *zap.Logger
	DB             *gorm.DB
	RedisClient    *redisclient.Client
	UserRepo       *postgres.UserRepoPG
	UserUC         user.UserUsecase
	Schema         *graphql.Schema
	RateLimiter    *middleware.RateLimiter
	GraphQLHandler *ginhandler.GraphQLHandler
	HealthHandler  *ginhandler.HealthHandler
}

// NewContainer creates and initializes all application dependencies
func NewContainer(ctx context.Context, cfg *config.Config, l *zap.Logger) (*Container, error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	c := &Container{Config: cfg, Logger: l}

	db, err := infrastructure.NewDatabase(ctx, cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	c.DB = db

	if cfg.DB.AutoMigrate {
		if err := infrastructure.Migrate(db, cfg.DB.Driver, l); err != nil {
			_ = c.Close()
			return nil, err
		}
	}

	rdb, err := infrastructure.NewRedisClient(ctx, cfg, l)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to initialize Redis: %w", err)
	}
	c.RedisClient = rdb

	c.UserRepo = postgres.NewUserRepoPG(db, l)
	c.UserUC = user.New(c.UserRepo, l)

	c.Schema, err = graph.NewSchema(graph.NewResolver(c.UserUC, l), cfg.GraphQL.MaxDepth, l)
	if err != nil {
		_ = c.Close()
		return nil, err
	}

	var scripter redis.Scripter
	if rdb != nil {
		scripter = rdb.Client
	}
	c.RateLimiter = middleware.NewRateLimiter(
		scripter,
		middleware.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			WindowSeconds:     cfg.RateLimit.WindowSeconds,
			Enabled:           cfg.RateLimit.Enabled,
		},
		l,
	)

	c.GraphQLHandler = ginhandler.NewGraphQLHandler(c.Schema, cfg.GraphQL.Playground, ginrouter.GraphQLPath, l)
	c.HealthHandler = ginhandler.NewHealthHandler(c.UserRepo, cfg.Logger.ServiceName, l)

	return c, nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var errs []error

	// Close Redis connection
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	// Close database connection
	if c.DB != nil {
		if err := infrastructure.CloseDatabase(c.DB); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("container close errors: %v", errs)
	}

	return nil
}
