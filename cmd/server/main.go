package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/ugackMiner53/CrowdTruth/internal/config"
	"github.com/ugackMiner53/CrowdTruth/internal/db"
	"github.com/ugackMiner53/CrowdTruth/internal/handler"
	"github.com/ugackMiner53/CrowdTruth/internal/middleware"
	"github.com/ugackMiner53/CrowdTruth/internal/repository"
	"github.com/ugackMiner53/CrowdTruth/internal/router"
	"github.com/ugackMiner53/CrowdTruth/internal/service"
)

func main() {
	cfg := config.Load()
	middleware.InitLogger(cfg.LogLevel, cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := db.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatalf("migrations failed: %v", err)
	}

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer pool.Close()

	cache := service.NewCacheService(cfg.RedisURL)
	defer cache.Close()

	// Repositories
	userRepo := repository.NewUserRepo(pool)
	sourceRepo := repository.NewSourceRepo(pool)
	postRepo := repository.NewPostRepo(pool, sourceRepo)
	voteRepo := repository.NewVoteRepo(pool)

	// Services
	authSvc := service.NewAuthService(userRepo)
	sourceSvc := service.NewSourceService(sourceRepo, cache)
	postSvc := service.NewPostService(postRepo, cache)
	voteSvc := service.NewVoteService(voteRepo, cache)
	userSvc := service.NewUserService(userRepo, voteRepo)

	handler.InitMetrics(pool, cache)

	// Background reputation recalculation driven by vote notifications
	worker := service.NewReputationWorker(pool, sourceRepo, cache)
	go worker.Start(ctx)

	// Daily public-dataset dumps for /export
	exporter := service.NewExportWorker(pool, cfg.ExportDir, 24*time.Hour)
	go exporter.Start(ctx)

	h := &router.Handlers{
		Auth:   handler.NewAuthHandler(authSvc),
		Source: handler.NewSourceHandler(sourceSvc),
		Post:   handler.NewPostHandler(postSvc),
		Vote:   handler.NewVoteHandler(voteSvc),
		User:   handler.NewUserHandler(userSvc, postSvc),
		Search: handler.NewSearchHandler(sourceSvc, postRepo),
		Stats:  handler.NewStatsHandler(sourceSvc),
		Export: handler.NewExportHandler(cfg.ExportDir),
		Health: handler.NewHealthHandler(pool, cache),
	}

	app := fiber.New(fiber.Config{
		AppName:      "CrowdTruth API",
		ServerHeader: "CrowdTruth",
	})

	router.Setup(app, h, authSvc, cfg.CORSOrigins)

	go func() {
		<-ctx.Done()
		log.Println("shutting down")
		if err := app.Shutdown(); err != nil {
			log.Printf("shutdown error: %v", err)
		}
	}()

	log.Printf("CrowdTruth backend starting on :%s (env=%s)", cfg.Port, cfg.Environment)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
