package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dtb-bank/core-banking/pkg"
	"github.com/dtb-bank/core-banking/pkg/cache"
	"github.com/dtb-bank/core-banking/pkg/database"
	"github.com/dtb-bank/core-banking/pkg/events"
	middleware "github.com/dtb-bank/core-banking/pkg/middlewares"
	"github.com/dtb-bank/core-banking/pkg/repositories"
	"github.com/dtb-bank/core-banking/services/account-api/configs"
	"github.com/dtb-bank/core-banking/services/account-api/internal/clients"
	"github.com/dtb-bank/core-banking/services/account-api/internal/handlers"
	"github.com/dtb-bank/core-banking/services/account-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewApp wires dependencies, builds the Gin engine, and returns an *http.Server and a cleanup func.
// It reads configuration from environment variables via configs.Load.
func NewApp(ctx context.Context, logger *zap.Logger) (*http.Server, func(), error) {
	// Load config
	cfg, err := configs.Load(logger)
	if err != nil {
		return nil, nil, err
	}

	// Initialize postgres db
	dbConfig := database.Config{
		PrimaryDSN:  cfg.PrimaryDbAddr,
		ReplicaDSNs: []string{cfg.ReplicaDbAddr},
		MaxConns:    cfg.MaxDbCons,
		MinConns:    cfg.MinDbCons,
	}
	db, disconnect, err := database.New(ctx, logger, dbConfig)
	if err != nil {
		return nil, nil, err
	}

	// Run migrations on primary
	if err := database.RunMigrations(logger, cfg.PrimaryDbAddr); err != nil {
		disconnect()
		return nil, nil, err
	}

	// Optional redis, shared by the rate limiter and the customer existence cache
	var redisClient *redis.Client
	closeRedis := func() {}
	if cfg.RedisAddr != "" {
		redisClient, closeRedis, err = cache.New(ctx, cache.Config{Addr: cfg.RedisAddr})
		if err != nil {
			disconnect()
			return nil, nil, err
		}
	}

	// Lifecycle event publisher (no-op when brokers unset)
	publisher, err := events.New(logger, ctx, events.Config{
		Brokers:       cfg.KafkaBrokers,
		Topic:         cfg.KafkaTopic,
		NumPartitions: 4,
	})
	if err != nil {
		closeRedis()
		disconnect()
		return nil, nil, err
	}

	// Setup dependencies
	baseHandler := handlers.NewBaseHandler(logger)
	accountRepo := repositories.NewAccountRepository(db)
	customerClient := clients.NewCustomerClient(logger, cfg.CustomerApiUrl, redisClient, cfg.CacheTTL)
	cardClient := clients.NewCardClient(logger, cfg.CardApiUrl)
	accountService := services.NewAccountService(logger, db, accountRepo, customerClient, cardClient, publisher)
	accountHandler := handlers.NewAccountHandler(logger, accountService)

	limiter := pkg.NewDistributedLimiter(redisClient, "account-api:request_rate", cfg.RateLimit, cfg.RateBurst, time.Minute, logger)

	// Router
	r := gin.Default()

	api := r.Group("/account/api/v1")
	api.Use(middleware.TraceID())
	api.Use(middleware.Metrics("account-api"))
	api.Use(middleware.RateLimit(limiter))

	accountHandler.RegisterRoutes(api)
	baseHandler.RegisterRoutes(r)

	addr := fmt.Sprintf(":%s", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	cleanup := func() {
		publisher.Close()
		closeRedis()
		disconnect()
	}

	return srv, cleanup, nil
}
