// job-posting-service
//
// Tenant-scoped job posting lifecycle for the talent platform:
//   - create / update / approve / publish / close / delete with a guarded
//     status state machine
//   - paged listing and criteria search
//   - view and application counters
//   - lifecycle events on the talent.job.events Redis stream
//   - resilient kernel (attribute store) and email integrations
//   - optional syndication to external job boards
//   - hourly expiry sweep closing published jobs past their expiry
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PROD-B2B-GGJ-Platform/job-posting-service/internal/config"
	"github.com/PROD-B2B-GGJ-Platform/job-posting-service/internal/db"
	"github.com/PROD-B2B-GGJ-Platform/job-posting-service/internal/event"
	"github.com/PROD-B2B-GGJ-Platform/job-posting-service/internal/httpapi"
	"github.com/PROD-B2B-GGJ-Platform/job-posting-service/internal/integration"
	"github.com/PROD-B2B-GGJ-Platform/job-posting-service/internal/job"
	"github.com/PROD-B2B-GGJ-Platform/job-posting-service/internal/postgres"
	"github.com/PROD-B2B-GGJ-Platform/job-posting-service/internal/sweeper"
	"github.com/PROD-B2B-GGJ-Platform/job-posting-service/internal/syndication"
)

const version = "1.0.0"

func main() {
	// ── Config ──────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[job-posting-service] Config error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── PostgreSQL ───────────────────────────────────────────────────────────
	log.Println("[job-posting-service] Connecting to PostgreSQL…")
	pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[job-posting-service] PostgreSQL: %v", err)
	}
	defer pool.Close()
	log.Println("[job-posting-service] PostgreSQL connected ✓")

	// ── Redis ────────────────────────────────────────────────────────────────
	log.Println("[job-posting-service] Connecting to Redis…")
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("[job-posting-service] Redis: %v", err)
	}
	defer rdb.Close()
	log.Println("[job-posting-service] Redis connected ✓")

	// ── Wiring ──────────────────────────────────────────────────────────────
	store := postgres.NewStore(pool)
	notifier := event.NewRedisNotifier(rdb)

	httpClient := &http.Client{Timeout: 5 * time.Second}
	kernel := integration.NewKernelClient(cfg.KernelURL, httpClient,
		integration.NewPolicy("kernel", integration.DefaultPolicyConfig()))
	email := integration.NewEmailClient(cfg.EmailServiceURL, httpClient,
		integration.NewPolicy("email", integration.DefaultPolicyConfig()))

	var boards []syndication.Board
	for name, url := range cfg.JobBoards {
		boards = append(boards, syndication.Board{Name: name, URL: url})
	}
	publisher := syndication.NewPublisher(boards, httpClient)

	svc := job.NewService(store, notifier, kernel, email, publisher)

	// ── Expiry sweep ────────────────────────────────────────────────────────
	if cfg.SweepIntervalHours > 0 {
		sw := sweeper.New(store, cfg.SweepIntervalHours)
		if err := sw.Start(ctx); err != nil {
			log.Fatalf("[job-posting-service] Sweeper: %v", err)
		}
		defer sw.Stop()
	}

	// ── HTTP server ──────────────────────────────────────────────────────────
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)

	h := httpapi.NewHandler(svc)
	h.RegisterRoutes(mux)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("[job-posting-service] v%s listening on :%s", version, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[job-posting-service] HTTP server error: %v", err)
		}
	}()

	// ── Graceful shutdown ────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[job-posting-service] Shutting down…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[job-posting-service] Shutdown error: %v", err)
	}
	log.Println("[job-posting-service] Stopped.")
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"service": "job-posting-service",
		"version": version,
	})
}
