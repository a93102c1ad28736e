package router

import (
	"context"
	"fmt"
	"time"

	"github.com/anonto42/proconnect/backend/internal/handlers"
	"github.com/anonto42/proconnect/backend/internal/middleware"
	"github.com/anonto42/proconnect/backend/internal/models"
	"github.com/anonto42/proconnect/backend/internal/repositories"
	"github.com/anonto42/proconnect/backend/internal/services"
	"github.com/anonto42/proconnect/backend/pkg/ai"
	"github.com/anonto42/proconnect/backend/pkg/cache"
	"github.com/anonto42/proconnect/backend/pkg/config"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// Dependencies are the long-lived clients built in main. Cache and Identity
// may be nil; the features that need them degrade instead of failing.
type Dependencies struct {
	Config   *config.Config
	DB       *config.DB
	Cache    *cache.Cache
	Identity services.IdentityVerifier
	AI       *ai.Client
	Logger   *zap.Logger
}

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo, logger *zap.Logger) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.RequestIDWithConfig(eMiddleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(eMiddleware.CORS())
	e.Use(middleware.RequestLogger(logger))
	logger.Info("global middleware configured")
}

// SetupRoutes migrates the stores, builds every service and mounts the routes.
func SetupRoutes(ctx context.Context, e *echo.Echo, deps Dependencies) error {
	logger := deps.Logger
	pgdb := deps.DB.Postgres
	mdb := deps.DB.MongoDB

	err := pgdb.WithContext(ctx).AutoMigrate(
		&models.User{},
		&models.Company{},
		&models.CompanyFollow{},
		&models.Connection{},
		&models.Notification{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	logger.Info("PostgreSQL auto-migrations completed")

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	companyRepo := repositories.NewPostgresCompanyRepository(pgdb)
	followRepo := repositories.NewPostgresCompanyFollowRepository(pgdb)
	connectionRepo := repositories.NewPostgresConnectionRepository(pgdb)
	notificationRepo := repositories.NewPostgresNotificationRepository(pgdb)
	postRepo := repositories.NewMongoPostRepository(mdb)
	commentRepo := repositories.NewMongoCommentRepository(mdb)
	reactionRepo := repositories.NewMongoReactionRepository(mdb)
	jobRepo := repositories.NewMongoJobRepository(mdb)
	messageRepo := repositories.NewMongoMessageRepository(mdb)

	indexCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	for name, repo := range map[string]interface {
		EnsureIndexes(ctx context.Context) error
	}{
		"posts":      postRepo,
		"comments":   commentRepo,
		"reactions":  reactionRepo,
		"job_offers": jobRepo,
		"messages":   messageRepo,
	} {
		if err := repo.EnsureIndexes(indexCtx); err != nil {
			return fmt.Errorf("ensure %s indexes: %w", name, err)
		}
	}
	logger.Info("MongoDB indexes ensured")

	// --- Initialize Services ---
	var (
		summaryCache services.SummaryCache
		topicStore   services.TopicStore
	)
	if deps.Cache != nil {
		summaryCache = deps.Cache
		topicStore = deps.Cache
	}

	effects := services.NewSideEffects(logger)
	tokens := services.NewTokenIssuer(deps.Config.JWTSecret, deps.Config.JWTTTL)
	directory := services.NewAccountDirectory(userRepo, companyRepo, summaryCache, logger)
	notifier := services.NewNotificationService(notificationRepo, directory, logger)
	trending := services.NewTrendingService(topicStore)

	accountService := services.NewAccountService(userRepo, companyRepo, followRepo, directory, tokens, deps.Identity, logger)
	connectionService := services.NewConnectionService(connectionRepo, userRepo, directory, notifier, effects, logger)
	postService := services.NewPostService(postRepo, commentRepo, reactionRepo, connectionRepo, followRepo, directory, notifier, trending, effects, logger)
	feedService := services.NewFeedService(connectionRepo, followRepo, postService)
	commentService := services.NewCommentService(commentRepo, postRepo, reactionRepo, directory, notifier, effects, logger)
	reactionService := services.NewReactionService(reactionRepo, postRepo, commentRepo, messageRepo, notifier, effects, logger)
	jobService := services.NewJobService(jobRepo, userRepo, messageRepo, directory, notifier, deps.AI, deps.AI, effects, logger)
	messageService := services.NewMessageService(messageRepo, directory, notifier, effects, logger)

	// Health check - always accessible
	checks := map[string]handlers.Pinger{
		"postgres": handlers.PingFunc(func(ctx context.Context) error {
			sqlDB, err := pgdb.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}),
		"mongodb": handlers.PingFunc(func(ctx context.Context) error {
			return deps.DB.Mongo.Ping(ctx, nil)
		}),
	}
	if deps.Cache != nil {
		checks["redis"] = deps.Cache
	}
	e.GET("/health", handlers.NewHealthHandler(checks).HealthCheck)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	handlers.NewAuthHandler(accountService).RegisterAuthRoutes(authGroup)
	logger.Info("auth routes configured")

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(tokens))

	handlers.NewUserHandler(accountService).RegisterProfileRoutes(api)
	handlers.NewFollowHandler(accountService).RegisterFollowRoutes(api)
	handlers.NewConnectionHandler(connectionService).RegisterConnectionRoutes(api)
	handlers.NewPostHandler(postService).RegisterPostRoutes(api)
	handlers.NewFeedHandler(feedService).RegisterFeedRoutes(api)
	handlers.NewCommentHandler(commentService).RegisterCommentRoutes(api)
	handlers.NewNotificationHandler(notifier).RegisterNotificationRoutes(api)
	handlers.NewJobHandler(jobService).RegisterJobRoutes(api)
	handlers.NewMessageHandler(messageService).RegisterMessageRoutes(api)
	handlers.NewReactionHandler(reactionService).RegisterReactionRoutes(api)
	handlers.NewTrendingHandler(trending).RegisterTrendingRoutes(api)

	logger.Info("all routes configured", zap.Int("routes", len(e.Routes())))
	return nil
}
