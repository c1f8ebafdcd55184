// @title Quiz Craft API
// @version 1.0
// @description Quiz authoring, AI grading and submission review.
// @host localhost:8090
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"quiz-craft/internal/adapter"
	"quiz-craft/internal/adapter/llm"
	"quiz-craft/internal/cache"
	"quiz-craft/internal/config"
	"quiz-craft/internal/database"
	"quiz-craft/internal/domain"
	"quiz-craft/internal/handler"
	"quiz-craft/internal/logger"
	"quiz-craft/internal/middleware"
	"quiz-craft/internal/monitoring"
	"quiz-craft/internal/repository"
	"quiz-craft/internal/service"
	"quiz-craft/internal/validation"

	_ "quiz-craft/cmd/api/docs"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	// Initialize logger
	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	monitoring.Init()

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStartup()

	// Connect to database
	db, err := database.Connect(startupCtx, cfg.DB.Driver, cfg.GetDSN())
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	if err := database.RunMigrations(startupCtx, db.DB, cfg.DB.Driver); err != nil {
		appLogger.Fatal("Failed to run migrations", zap.Error(err))
	}
	appLogger.Info("Database ready", zap.String("driver", cfg.DB.Driver))

	// Redis is optional: without it published quizzes are read straight from the database.
	var cacheAdapter domain.Cache = adapter.NoopCache{}
	if cfg.Redis.Address != "" {
		redisClient, err := cache.NewRedisClient(startupCtx, cfg.Redis)
		if err != nil {
			appLogger.Warn("Redis unavailable, running without cache", zap.String("address", cfg.Redis.Address), zap.Error(err))
		} else {
			defer redisClient.Close()
			cacheAdapter = adapter.NewRedisCacheAdapter(redisClient)
			appLogger.Info("RedisCacheAdapter initialized")
		}
	}

	// LLM models
	generationModel, err := llm.NewModel(cfg.LLM, cfg.LLM.GenerationModel)
	if err != nil {
		appLogger.Fatal("Failed to create generation model", zap.Error(err))
	}
	evaluationModel, err := llm.NewModel(cfg.LLM, cfg.LLM.EvaluationModel)
	if err != nil {
		appLogger.Fatal("Failed to create evaluation model", zap.Error(err))
	}
	generator := llm.NewGenerator(generationModel, evaluationModel, cfg.LLM.RequestsPerMinute, cfg.LLM.Timeout)
	appLogger.Info("LLM client initialized",
		zap.String("provider", cfg.LLM.Provider),
		zap.String("generation_model", cfg.LLM.GenerationModel),
		zap.String("evaluation_model", cfg.LLM.EvaluationModel))

	// Initialize repositories
	quizRepository := repository.NewQuizDatabaseAdapter(db)
	submissionRepository := repository.NewSubmissionDatabaseAdapter(db)
	txManager := repository.NewTransactionManagerAdapter(db)

	// Initialize services
	quizService := service.NewQuizService(quizRepository, txManager, generator, cacheAdapter, cfg.Quiz)
	evaluationService := service.NewEvaluationService(quizRepository, submissionRepository, txManager, generator)
	authService, err := service.NewAuthService(cfg.Auth)
	if err != nil {
		appLogger.Fatal("Failed to create AuthService", zap.Error(err))
	}

	// Initialize handlers
	validator := validation.NewValidator(cfg.Quiz.ShareLinkLength)
	handlers := handler.Handlers{
		Auth:       handler.NewAuthHandler(authService),
		AI:         handler.NewAIHandler(quizService, evaluationService, validator),
		Quiz:       handler.NewQuizHandler(quizService, validator),
		Submission: handler.NewSubmissionHandler(quizService, evaluationService, validator),
	}
	healthHandler := handler.NewHealthHandler(db, cacheAdapter)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger())
	app.Use(monitoring.MetricsMiddleware())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,PUT,DELETE,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept,Authorization", MaxAge: 300}))

	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/health", healthHandler.Health)
	app.Get("/metrics", monitoring.PrometheusHandler())

	handler.RegisterRoutes(app.Group("/api"), handlers,
		middleware.Protected(authService),
		middleware.NewValidationMiddleware(validator))

	// Start server
	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
