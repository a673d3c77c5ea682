package router

import (
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/ugackMiner53/CrowdTruth/internal/handler"
	"github.com/ugackMiner53/CrowdTruth/internal/middleware"
	"github.com/ugackMiner53/CrowdTruth/internal/service"
)

// Handlers holds all handler instances needed by the router.
type Handlers struct {
	Auth   *handler.AuthHandler
	Source *handler.SourceHandler
	Post   *handler.PostHandler
	Vote   *handler.VoteHandler
	User   *handler.UserHandler
	Search *handler.SearchHandler
	Stats  *handler.StatsHandler
	Export *handler.ExportHandler
	Health *handler.HealthHandler
}

// Setup configures the middleware stack and all API routes on the given Fiber app.
func Setup(app *fiber.App, h *Handlers, auth *service.AuthService, corsOrigins string) {
	// Middleware stack (order matters)
	app.Use(recoverer.New())
	app.Use(middleware.NewRequestLogger())
	app.Use(middleware.NewCORS(corsOrigins))
	app.Use(handler.MetricsMiddleware())

	requireAuth := middleware.RequireAuth(auth)

	readLimit := middleware.NewReadRateLimiter().Handler()
	authLimit := middleware.NewAuthRateLimiter().Handler()
	postLimit := middleware.NewPostSubmitRateLimiter().Handler()
	voteLimit := middleware.NewVoteSubmitRateLimiter().Handler()
	searchLimit := middleware.NewSearchRateLimiter().Handler()
	statsLimit := middleware.NewStatsRateLimiter().Handler()

	// Auth routes
	app.Post("/register", h.Auth.Register, authLimit)
	app.Post("/login", h.Auth.Login, authLimit)

	// Source routes
	app.Get("/sources", h.Source.GetInfo, readLimit)

	// Post routes
	app.Get("/posts", h.Post.List, readLimit)
	app.Post("/posts", h.Post.Submit, requireAuth, postLimit)

	// Vote routes
	app.Post("/votes", h.Vote.Submit, requireAuth, voteLimit)

	// User routes
	app.Get("/users/:userId", h.User.GetProfile, readLimit)
	app.Get("/users/:userId/posts", h.User.GetPosts, readLimit)
	app.Get("/users/:userId/stats", h.User.GetStats, readLimit)

	// Search and stats
	app.Get("/search", h.Search.Search, searchLimit)
	app.Get("/stats", h.Stats.GetStats, statsLimit)

	// Database export for researchers
	app.Get("/export", h.Export.Export, statsLimit)

	// Health and metrics (no rate limit, no auth)
	app.Get("/health/live", h.Health.Live)
	app.Get("/health/ready", h.Health.Ready)
	app.Get("/metrics", handler.MetricsHandler())
}
