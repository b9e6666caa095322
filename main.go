package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"media-indexer/internal/cache"
	"media-indexer/internal/config"
	"media-indexer/internal/handlers"
	"media-indexer/internal/indexer"
	"media-indexer/internal/logging"
	"media-indexer/internal/media"
	"media-indexer/internal/mediatypes"
	"media-indexer/internal/middleware"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	startTime := time.Now()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Configuration error: %v", err)
	}

	classifier, err := mediatypes.NewClassifier(cfg.AllowLabels)
	if err != nil {
		logging.Fatal("Classifier error: %v", err)
	}

	contentCache := cache.New()
	scanner := media.NewScanner(classifier, contentCache)
	ix := indexer.New(scanner, contentCache)

	// An initial root is optional; without one the service starts Idle and
	// waits for POST /api/root
	if cfg.Root != "" {
		if err := ix.SelectRoot(cfg.Root); err != nil {
			logging.Fatal("Failed to select root %s: %v", cfg.Root, err)
		}
	}

	h := handlers.New(ix, contentCache)
	router := setupRouter(h)

	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogStaticFiles = cfg.LogStaticFiles
	loggedHandler := middleware.Logger(loggingConfig)(router)

	meteredHandler := middleware.Metrics(middleware.DefaultMetricsConfig())(loggedHandler)

	compressionConfig := middleware.DefaultCompressionConfig()
	handler := middleware.Compression(compressionConfig)(meteredHandler)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // event streams stay open indefinitely
		IdleTimeout:  60 * time.Second,
	}

	go handleShutdown(srv, ix)

	logging.Info("Listening on :%s (started in %v)", cfg.Port, time.Since(startTime))
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		logging.Fatal("Server error: %v", err)
	}
}

func setupRouter(h *handlers.Handlers) *mux.Router {
	r := mux.NewRouter()

	// Health check routes
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET")
	r.HandleFunc("/livez", h.LivenessCheck).Methods("GET")
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods("GET")

	// Prometheus metrics
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// API routes
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/snapshot", h.GetSnapshot).Methods("GET")
	api.HandleFunc("/categories/{label:.+}", h.GetCategory).Methods("GET")
	api.HandleFunc("/tree", h.GetTree).Methods("GET")
	api.HandleFunc("/content", h.GetContent).Methods("GET")
	api.HandleFunc("/cache", h.GetCacheStats).Methods("GET")
	api.HandleFunc("/root", h.SelectRoot).Methods("POST")
	api.HandleFunc("/refresh", h.Refresh).Methods("POST")
	api.HandleFunc("/events", h.Events).Methods("GET")

	return r
}

func handleShutdown(srv *http.Server, ix *indexer.Indexer) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	logging.Info("Received %s, shutting down", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	ix.Dispose()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	}

	logging.Info("Shutdown complete")
}
