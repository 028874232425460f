package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/greenloop/greenloop/internal/auth"
	"github.com/greenloop/greenloop/internal/config"
	"github.com/greenloop/greenloop/internal/database"
	"github.com/greenloop/greenloop/internal/database/audit"
	"github.com/greenloop/greenloop/internal/database/users"
	http_controllers "github.com/greenloop/greenloop/internal/http"
	"github.com/greenloop/greenloop/internal/inventory"
	"github.com/greenloop/greenloop/internal/scheduler"
	"github.com/greenloop/greenloop/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT/SIGTERM, then shuts down within
// the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop background workers before the server stops accepting requests
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

// Run wires up the full application and serves it.
func Run(cfg *config.Config, version string) {
	log.Printf("Starting GreenLoop API v%s", version)

	// The token issuer refuses an empty secret; fail fast with a clear
	// message instead of letting every login 500.
	issuer, err := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		log.Fatalf("AUTH_JWT_SECRET must be set: %v", err)
	}

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	userRepo := users.NewRepository(db.DB)
	auditRepo := audit.NewRepository(db.DB)

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	var auditRecorder auth.AuditRecorder
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		}

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(
			tasks.NewRecordAuthEventQueue(auditRepo),
			tasks.NewCleanupAuthEventsQueue(auditRepo),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)

		auditRecorder = tasks.NewAuditRecorder(taskClient)
	} else {
		log.Printf("Task queue disabled; auth events will not be recorded")
	}

	// Cookie policy follows the deployment mode: SameSite=None + Secure in
	// production, SameSite=Strict over plain HTTP in development.
	transport := auth.NewCookieTransport(auth.PolicyForEnv(cfg.Global.Env))
	if cfg.Global.IsProduction() {
		log.Printf("Session cookies: Secure, SameSite=None (cross-origin client)")
	}

	authService := auth.NewService(userRepo, issuer, cfg.Auth.BcryptCost, auditRecorder)
	authController := auth.NewController(authService, transport)
	authMiddleware := auth.NewMiddleware(authService, transport)

	inventoryController := inventory.NewController(inventory.NewRepository(db.DB))

	// Retention cleanup runs on a cron schedule, enqueued onto the queue
	var cleanupScheduler *scheduler.AuditCleanupScheduler
	if taskClient != nil {
		cleanupScheduler = scheduler.NewAuditCleanupScheduler(
			taskClient, cfg.Audit.CleanupSchedule, cfg.Audit.RetentionDays)
		if err := cleanupScheduler.Start(context.Background()); err != nil {
			log.Fatalf("Failed to start audit cleanup scheduler: %v", err)
		}
	}

	routerCfg := http_controllers.RouterConfig{
		Database:            db,
		AuthController:      authController,
		AuthMiddleware:      authMiddleware,
		InventoryController: inventoryController,
		CORSOrigin:          cfg.CORS.Origin,
		EnableHSTS:          cfg.Global.IsProduction(),
		Version:             version,
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		if cleanupScheduler != nil {
			cleanupScheduler.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}
