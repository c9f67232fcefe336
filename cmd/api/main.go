package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/user/ticklist/internal/api"
	"github.com/user/ticklist/internal/config"
	"github.com/user/ticklist/internal/database"
	"github.com/user/ticklist/internal/jobs"
	"github.com/user/ticklist/internal/middleware"
	"github.com/user/ticklist/internal/notification"
	"github.com/user/ticklist/internal/notification/slack"
	"github.com/user/ticklist/internal/ordering"
	"github.com/user/ticklist/internal/pubsub"
	"github.com/user/ticklist/internal/repository"
	"github.com/user/ticklist/internal/scheduler"
	"github.com/user/ticklist/internal/service"
	syncclient "github.com/user/ticklist/internal/sync"
)

func main() {
	// Load .env file if it exists (for local development)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Connect to database
	db, err := database.Connect(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize pub/sub hub for the events WebSocket
	hub := pubsub.NewHub()

	// Initialize repositories
	checklistRepo := repository.NewChecklistRepository(db)
	itemRepo := repository.NewItemRepository(db)
	archiveRepo := repository.NewArchiveRepository(db)

	// Initialize ordering manager over both position scopes
	orderingMgr := ordering.NewManager(checklistRepo, itemRepo)

	// Initialize notification sinks. The log sink is always present; the
	// hub sink mirrors notifications onto the events stream; Slack is
	// optional.
	sinks := []notification.Sink{
		notification.NewLogSink(),
		notification.NewHubSink(hub),
	}
	if cfg.SlackWebhookURL != "" {
		sinks = append(sinks, slack.NewClient(cfg.SlackWebhookURL))
		log.Printf("Slack notification sink initialized")
	}
	dispatcher := notification.NewDispatcher(sinks...)

	// Initialize the reminder scheduler
	sched := scheduler.New(scheduler.NewClock(), itemRepo, dispatcher)

	// Initialize the optional remote sync client
	var remote *syncclient.Client
	if cfg.SyncEndpoint != "" {
		remote = syncclient.NewClient(cfg.SyncEndpoint)
		log.Printf("Remote sync client initialized for %s", cfg.SyncEndpoint)
	}

	// Initialize services
	checklistService := service.NewChecklistService(checklistRepo, itemRepo, archiveRepo, orderingMgr, sched)
	itemService := service.NewItemService(checklistRepo, itemRepo, archiveRepo, orderingMgr, sched)
	syncService := service.NewSyncService(checklistRepo, itemRepo, archiveRepo, orderingMgr, sched, remote)

	// Auto-dismiss completes the item through the normal lifecycle so
	// recurrence and archiving apply
	sched.SetAutoDismiss(func(id uuid.UUID) error {
		_, err := itemService.Complete(id)
		return err
	})

	// Heal position sequences left non-dense by a previous crash
	repairJob := jobs.NewOrderingRepairJob(checklistRepo, orderingMgr)
	if _, err := repairJob.RepairAll(context.Background()); err != nil {
		log.Printf("Warning: startup ordering repair failed: %v", err)
	}

	// Re-arm reminders for every item with a due date, then catch anything
	// that came due while the process was down
	if err := itemService.RearmAll(); err != nil {
		log.Printf("Warning: failed to re-arm reminders: %v", err)
	}
	sched.Sweep()
	sched.Start()
	defer sched.Stop()

	// Daily archive purge, if retention is configured
	if cfg.ArchiveRetentionDays > 0 {
		purgeJob := jobs.NewArchivePurgeJob(archiveRepo)
		go func() {
			ticker := time.NewTicker(24 * time.Hour)
			defer ticker.Stop()
			for range ticker.C {
				ctx, cancel := context.WithTimeout(context.Background(), 55*time.Second)
				if _, err := purgeJob.PurgeCompletedBefore(ctx, cfg.ArchiveRetentionDays); err != nil {
					log.Printf("Error purging archive: %v", err)
				}
				cancel()
			}
		}()
	}

	// Hourly ordering repair
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), 55*time.Second)
			if _, err := repairJob.RepairAll(ctx); err != nil {
				log.Printf("Error repairing ordering: %v", err)
			}
			cancel()
		}
	}()

	// Set up Gin
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.LoggingMiddleware())
	r.Use(middleware.CORSMiddleware())

	// Rate limiter: 100 requests per minute
	rateLimiter := middleware.NewRateLimiter(100, time.Minute)
	r.Use(middleware.RateLimitMiddleware(rateLimiter))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "app": "ticklist"})
	})

	// API routes
	handler := api.NewHandler(checklistService, itemService, syncService, hub)
	handler.RegisterRoutes(r)

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting Ticklist API server on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
