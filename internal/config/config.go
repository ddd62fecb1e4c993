// Package config loads and validates environment variables at startup.
// Fail-fast: if a required variable is missing, the process exits.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Backend selects the persistence strategy. The two backends are mutually
// exclusive deployment choices behind the same store interface.
const (
	BackendPostgres = "postgres"
	BackendFile     = "file"
)

// Config holds all runtime configuration for the board service.
type Config struct {
	Port         string
	StoreBackend string // "postgres" or "file"
	DatabaseURL  string // required when StoreBackend is "postgres"

	// Flat-file backend paths.
	JobsFile         string
	UsersFile        string
	ApplicationsFile string

	RedisURL  string // optional; empty disables the listing cache
	JWTSecret string

	SiteURL              string
	SitemapPath          string
	SitemapIntervalHours int // how often the sitemap cron fires
}

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	backend := os.Getenv("STORE_BACKEND")
	if backend == "" {
		backend = BackendFile
	}
	if backend != BackendPostgres && backend != BackendFile {
		return nil, fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", BackendPostgres, BackendFile, backend)
	}

	dbURL := os.Getenv("DATABASE_URL")
	if backend == BackendPostgres && dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required when STORE_BACKEND=%s", BackendPostgres)
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	interval := 24
	if s := os.Getenv("SITEMAP_INTERVAL_HOURS"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return nil, fmt.Errorf("SITEMAP_INTERVAL_HOURS must be a positive integer, got %q", s)
		}
		interval = v
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	siteURL := os.Getenv("SITE_URL")
	if siteURL == "" {
		siteURL = "https://lawjobs.vercel.app"
	}

	return &Config{
		Port:                 port,
		StoreBackend:         backend,
		DatabaseURL:          dbURL,
		JobsFile:             envOr("JOBS_FILE", "data/jobs.json"),
		UsersFile:            envOr("USERS_FILE", "data/users.json"),
		ApplicationsFile:     envOr("APPLICATIONS_FILE", "data/applications.json"),
		RedisURL:             os.Getenv("REDIS_URL"),
		JWTSecret:            secret,
		SiteURL:              siteURL,
		SitemapPath:          envOr("SITEMAP_PATH", "data/sitemap.xml"),
		SitemapIntervalHours: interval,
	}, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
