package main

import (
	"fmt"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"

	"github.com/flashforge/flashforge-backend/internal/api"
	"github.com/flashforge/flashforge-backend/internal/auth"
	"github.com/flashforge/flashforge-backend/internal/cache"
	"github.com/flashforge/flashforge-backend/internal/config"
	"github.com/flashforge/flashforge-backend/internal/database"
	"github.com/flashforge/flashforge-backend/internal/errorlog"
	"github.com/flashforge/flashforge-backend/internal/flashcards"
	"github.com/flashforge/flashforge-backend/internal/generation"
	"github.com/flashforge/flashforge-backend/internal/providers/openai"
	"github.com/flashforge/flashforge-backend/internal/repository/postgres"
	"github.com/flashforge/flashforge-backend/internal/review"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	// Connect to database
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	// Run migrations
	if err := database.RunMigrations(cfg.Database); err != nil {
		logrus.WithError(err).Fatal("Failed to run migrations")
	}

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "FlashForge Backend",
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     getOrigins(),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	// Initialize repositories
	userRepo := postgres.NewUserRepository(db.DB)
	sessionRepo := postgres.NewSessionRepository(db.DB)
	flashcardRepo := postgres.NewFlashcardRepository(db.DB)
	errorLogRepo := postgres.NewErrorLogRepository(db.DB)

	// Initialize auth service
	jwtSecret := os.Getenv("FLASHFORGE_JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "change-me-in-production" // Default for development
		logrus.Warn("Using default JWT secret. Set FLASHFORGE_JWT_SECRET in production!")
	}
	authService := auth.NewService(userRepo, jwtSecret)

	// Initialize provider
	provider, err := openai.NewProvider(cfg.OpenAI)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize provider")
	}

	// Initialize generation pipeline
	genCache := generation.NewGenerationCache(sessionRepo, flashcardRepo, cfg.Generation.CacheTTL)
	rateLimiter := generation.NewRateLimiter(sessionRepo, cache.NewMemoryStore(),
		cfg.RateLimit.MaxRequests, cfg.RateLimit.Window)
	errorLogService := errorlog.NewService(errorLogRepo)
	genService := generation.NewService(cfg.Generation, provider, genCache, rateLimiter,
		sessionRepo, flashcardRepo, errorLogService)

	// Initialize card services
	flashcardService := flashcards.NewService(flashcardRepo, sessionRepo)
	reviewService := review.NewService(flashcardRepo, sessionRepo)

	// Setup routes
	api.SetupRoutes(app, &api.Services{
		Auth:       authService,
		Generation: genService,
		Flashcards: flashcardService,
		Review:     reviewService,
		Sessions:   sessionRepo,
	})

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logrus.WithField("addr", addr).Info("FlashForge Backend starting")
	if err := app.Listen(addr); err != nil {
		logrus.WithError(err).Fatal("Failed to start server")
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}

func getOrigins() string {
	origins := os.Getenv("FLASHFORGE_CORS_ORIGINS")
	if origins == "" {
		return "http://localhost:5173,http://localhost:3000"
	}
	return origins
}
