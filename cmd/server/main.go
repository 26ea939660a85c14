package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/peermatch/backend/internal/api"
	"github.com/peermatch/backend/internal/config"
	"github.com/peermatch/backend/internal/database"
	"github.com/peermatch/backend/internal/events"
	"github.com/peermatch/backend/internal/ledger"
	"github.com/peermatch/backend/internal/match"
	"github.com/peermatch/backend/internal/migrations"
	"github.com/peermatch/backend/internal/notify"
	"github.com/peermatch/backend/internal/queue"
	"github.com/peermatch/backend/internal/redis"
	"github.com/peermatch/backend/internal/session"
	"github.com/peermatch/backend/internal/ws"
)

func main() {
	// Initialize configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations on start if requested
	if os.Getenv("MIGRATE_ON_START") == "true" {
		log.Println("Running DB migrations on startup...")
		if err := migrations.RunMigrations(cfg.DatabaseURL); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}

	// Initialize Redis
	rdb, err := redis.Connect(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer rdb.Close()

	// Wire the matching engine with its collaborators
	queues := queue.NewStore(rdb)
	requestLedger := ledger.New(db)
	notifier := notify.NewRedisNotifier(rdb)
	publisher := events.NewRedisPublisher(rdb)
	tokens := session.NewSigner(cfg.JWTSecret, time.Duration(cfg.SessionTokenTTLMinutes)*time.Minute)
	engine := match.NewEngine(queues, requestLedger, notifier, publisher, tokens, cfg)

	// Start the expiry sweeper
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go match.StartSweepWorker(ctx, engine, time.Duration(cfg.SweepIntervalSeconds)*time.Second)

	// WebSocket hub and notification subscriber
	hub := ws.NewHub()
	ws.StartMatchNotificationSubscriber(ctx, rdb, hub)

	// Set up Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	api.SetupRoutes(router, engine, requestLedger, queues, hub, cfg)

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting PeerMatch server on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
