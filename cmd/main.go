// lawjobs board-service
//
// HTTP JSON API for a law-jobs listing board:
//   - list/search jobs (type, location, free-text filters)
//   - employer job posting, admin bulk + scrape imports
//   - candidate applications (idempotent per user/job)
//   - credentials auth with JWT sessions
//
// Persistence is either PostgreSQL or a flat JSON document, selected by
// STORE_BACKEND. A cron rebuilds sitemap.xml from the stored jobs.
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

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/mcanavci/lawjobs/internal/auth"
	"github.com/mcanavci/lawjobs/internal/board"
	"github.com/mcanavci/lawjobs/internal/config"
	"github.com/mcanavci/lawjobs/internal/db"
	"github.com/mcanavci/lawjobs/internal/ingest"
	"github.com/mcanavci/lawjobs/internal/sitemap"
	"github.com/mcanavci/lawjobs/internal/store"
)

const version = "1.0.0"

func main() {
	// ── Config ──────────────────────────────────────────────────────────────
	if err := godotenv.Load(); err != nil {
		log.Println("[board-service] No .env file — using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[board-service] Config error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── Store backend ────────────────────────────────────────────────────────
	var st store.Store
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		log.Println("[board-service] Connecting to PostgreSQL…")
		pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("[board-service] PostgreSQL: %v", err)
		}
		defer pool.Close()

		pg := store.NewPostgres(pool)
		if err := pg.Migrate(ctx); err != nil {
			log.Fatalf("[board-service] Migrate: %v", err)
		}
		st = pg
		log.Println("[board-service] PostgreSQL connected ✓")
	case config.BackendFile:
		st = store.NewFile(cfg.JobsFile, cfg.UsersFile, cfg.ApplicationsFile)
		log.Printf("[board-service] Flat-file store at %s", cfg.JobsFile)
	}

	// ── Redis (optional listing cache) ───────────────────────────────────────
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		log.Println("[board-service] Connecting to Redis…")
		rdb, err = db.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("[board-service] Redis: %v", err)
		}
		defer rdb.Close()
		log.Println("[board-service] Redis connected ✓")
	} else {
		log.Println("[board-service] REDIS_URL not set — listing cache disabled")
	}

	// ── Services ─────────────────────────────────────────────────────────────
	tokens := auth.NewManager(cfg.JWTSecret)
	pipeline := ingest.NewPipeline(st)

	// ── Sitemap cron ─────────────────────────────────────────────────────────
	gen := sitemap.NewGenerator(st, cfg.SiteURL, cfg.SitemapPath)
	sched := sitemap.NewScheduler(gen, cfg.SitemapIntervalHours)
	if err := sched.Start(ctx); err != nil {
		log.Fatalf("[board-service] Scheduler: %v", err)
	}
	defer sched.Stop()

	// ── HTTP server ──────────────────────────────────────────────────────────
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)

	h := board.NewHandler(st, pipeline, tokens, rdb)
	h.RegisterRoutes(mux)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("[board-service] v%s listening on :%s", version, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[board-service] HTTP server error: %v", err)
		}
	}()

	// ── Graceful shutdown ────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[board-service] Shutting down…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[board-service] Shutdown error: %v", err)
	}
	log.Println("[board-service] Stopped.")
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"service": "board-service",
		"version": version,
	})
}
