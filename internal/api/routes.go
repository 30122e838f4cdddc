package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/flashforge/flashforge-backend/internal/api/handlers"
	"github.com/flashforge/flashforge-backend/internal/api/middleware"
	"github.com/flashforge/flashforge-backend/internal/auth"
	"github.com/flashforge/flashforge-backend/internal/flashcards"
	"github.com/flashforge/flashforge-backend/internal/generation"
	"github.com/flashforge/flashforge-backend/internal/repository"
	"github.com/flashforge/flashforge-backend/internal/review"
)

// Services bundles everything the route handlers need.
type Services struct {
	Auth       *auth.Service
	Generation *generation.Service
	Flashcards *flashcards.Service
	Review     *review.Service
	Sessions   repository.SessionRepository
}

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, svc *Services) {
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"service": "flashforge-backend",
		})
	})

	// Authentication
	authGroup := api.Group("/auth", middleware.AuthRateLimit())
	authGroup.Post("/signup", handlers.Signup(svc.Auth))
	authGroup.Post("/login", handlers.Login(svc.Auth))

	// Everything below requires a valid token
	protected := api.Group("", middleware.AuthRequired(svc.Auth), middleware.DefaultRateLimit())

	// AI generation
	protected.Post("/ai/generate", handlers.GenerateFlashcards(svc.Generation))

	// Flashcards
	protected.Get("/flashcards", handlers.ListFlashcards(svc.Flashcards))
	protected.Post("/flashcards", handlers.CreateFlashcard(svc.Flashcards))
	protected.Post("/flashcards/bulk-accept", handlers.BulkAcceptFlashcards(svc.Review))
	protected.Post("/flashcards/bulk-reject", handlers.BulkRejectFlashcards(svc.Review))
	protected.Get("/flashcards/:id", handlers.GetFlashcard(svc.Flashcards))
	protected.Put("/flashcards/:id", handlers.UpdateFlashcard(svc.Flashcards))
	protected.Delete("/flashcards/:id", handlers.DeleteFlashcard(svc.Flashcards))
	protected.Patch("/flashcards/:id/status", handlers.UpdateFlashcardStatus(svc.Review))

	// Generation sessions
	protected.Get("/generation-sessions", handlers.GetGenerationSessions(svc.Sessions))
	protected.Get("/generation-sessions/:id", handlers.GetGenerationSession(svc.Sessions))
}
