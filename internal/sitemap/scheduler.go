package sitemap

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
)

// Scheduler wraps robfig/cron and manages the periodic sitemap rebuild.
type Scheduler struct {
	cron *cron.Cron
	gen  *Generator
	spec string // cron spec, e.g. "@every 24h"
}

// NewScheduler creates a Scheduler rebuilding every intervalHours hours.
func NewScheduler(gen *Generator, intervalHours int) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithLogger(cron.DefaultLogger)),
		gen:  gen,
		spec: fmt.Sprintf("@every %dh", intervalHours),
	}
}

// Start registers the job and starts the scheduler. Also rebuilds once
// immediately so the sitemap exists without waiting for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.rebuild(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	log.Printf("[sitemap] Cron started — spec: %s", s.spec)

	// Build immediately on startup (non-blocking)
	go s.rebuild(ctx)

	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[sitemap] Cron stopped")
}

func (s *Scheduler) rebuild(ctx context.Context) {
	if err := s.gen.Rebuild(ctx); err != nil {
		log.Printf("[sitemap] Rebuild error: %v", err)
		return
	}
	log.Println("[sitemap] Rebuild complete")
}
