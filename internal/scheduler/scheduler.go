// Package scheduler wires up the cron job that periodically rescores every
// job posting with feedback. Time-decay tiers shift as feedback ages, so
// stored scores drift stale without a sweep even when nothing new is
// submitted.
package scheduler

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/robfig/cron/v3"

	"jobtrust-backend/internal/database"
	"jobtrust-backend/internal/trust"
)

// Scheduler wraps robfig/cron and manages the rescore loop.
type Scheduler struct {
	cron   *cron.Cron
	engine *trust.Engine
	spec   string // cron spec, e.g. "@every 24h"
}

// New creates a Scheduler that fires every intervalHours hours.
func New(db *database.DBinstanceStruct, intervalHours int) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithLogger(cron.DefaultLogger)),
		engine: trust.NewEngine(db),
		spec:   fmt.Sprintf("@every %dh", intervalHours),
	}
}

// NewFromEnv reads RESCORE_INTERVAL_HOURS, defaulting to 24.
func NewFromEnv(db *database.DBinstanceStruct) *Scheduler {
	hours, err := strconv.Atoi(os.Getenv("RESCORE_INTERVAL_HOURS"))
	if err != nil || hours <= 0 {
		hours = 24
	}
	return New(db, hours)
}

// Start registers the job and starts the scheduler. Also runs one sweep
// immediately so scores are fresh without waiting for the first tick.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, s.runSweep)
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	log.Printf("[scheduler] Cron started with spec %q", s.spec)

	// Run immediately on startup (non-blocking)
	go s.runSweep()

	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[scheduler] Cron stopped")
}

func (s *Scheduler) runSweep() {
	log.Println("[scheduler] Rescore sweep started")

	rescored, err := s.engine.RescoreAll()
	if err != nil {
		log.Printf("[scheduler] RescoreAll error: %v", err)
		return
	}

	log.Printf("[scheduler] Rescore sweep complete, %d posting(s) rescored", rescored)
}
