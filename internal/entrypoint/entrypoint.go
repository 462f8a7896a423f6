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

	"github.com/avolkau/biblio/internal/config"
	"github.com/avolkau/biblio/internal/database"
	"github.com/avolkau/biblio/internal/database/accounts"
	"github.com/avolkau/biblio/internal/database/analytics"
	"github.com/avolkau/biblio/internal/database/catalog"
	"github.com/avolkau/biblio/internal/database/circulation"
	http_controllers "github.com/avolkau/biblio/internal/http"
	"github.com/avolkau/biblio/internal/scheduler"
	"github.com/avolkau/biblio/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT/SIGTERM, then drains it
// within the configured timeout. onShutdown runs before the server is
// torn down so background workers stop first.
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

	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

// Run wires the stores, background queue and router together and
// serves until shutdown.
func Run(cfg *config.Config, version string) {
	log.Printf("Starting biblio v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	catalogRepo := catalog.NewRepository(db.DB)
	circulationRepo := circulation.NewRepository(db.DB)
	accountsRepo := accounts.NewRepository(db.DB)
	analyticsRepo := analytics.NewRepository(db.DB)

	// Background task queue for snapshot recomputation
	var taskClient *tasks.Client
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:           cfg.Tasks.Workers,
			MaxRetries:        cfg.Tasks.MaxRetries,
			RetryDelay:        cfg.Tasks.RetryDelay,
			TaskTimeout:       cfg.Tasks.TaskTimeout,
			ReleaseAfter:      cfg.Tasks.ReleaseAfter,
			CleanupInterval:   cfg.Tasks.CleanupInterval,
			RetentionDuration: cfg.Tasks.RetentionDuration,
		}
		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer taskClient.Close()

		taskClient.Register(tasks.NewRecomputeAnalyticsQueue(analyticsRepo))
		taskClient.Start(context.Background())
	} else {
		log.Printf("Task queue disabled; analytics snapshots will go stale")
	}

	var refreshScheduler *scheduler.AnalyticsRefreshScheduler
	if taskClient != nil && cfg.Analytics.RefreshEnabled {
		refreshScheduler = scheduler.NewAnalyticsRefreshScheduler(taskClient, cfg.Analytics.RefreshSchedule)
		if err := refreshScheduler.Start(context.Background()); err != nil {
			log.Fatalf("Failed to start analytics refresh scheduler: %v", err)
		}
	}

	routerCfg := http_controllers.RouterConfig{
		Database:         db,
		Version:          version,
		CatalogReader:    catalogRepo,
		CatalogAdmin:     catalogRepo,
		CirculationStore: circulationRepo,
		AccountsStore:    accountsRepo,
		AnalyticsStore:   analyticsRepo,
	}
	if refreshScheduler != nil {
		routerCfg.SnapshotRefresher = refreshScheduler
	}
	router := http_controllers.NewRouter(routerCfg)

	Serve(router, cfg, func(ctx context.Context) {
		if refreshScheduler != nil {
			refreshScheduler.Stop()
		}
		if taskClient != nil {
			taskClient.Stop(ctx)
		}
	})
}
