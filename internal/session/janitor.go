package session

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Janitor periodically evicts sessions that have been idle too long.
type Janitor struct {
	cron   *cron.Cron
	engine *Engine
	idle   time.Duration
}

// NewJanitor schedules Sweep(idle) on the given cron spec (for example
// "@every 10m").
func NewJanitor(engine *Engine, idle time.Duration, schedule string) (*Janitor, error) {
	if idle <= 0 {
		return nil, fmt.Errorf("janitor idle ttl must be positive, got %s", idle)
	}
	j := &Janitor{cron: cron.New(), engine: engine, idle: idle}
	if _, err := j.cron.AddFunc(schedule, j.sweep); err != nil {
		return nil, fmt.Errorf("schedule session sweep %q: %w", schedule, err)
	}
	return j, nil
}

func (j *Janitor) sweep() {
	if n := j.engine.Sweep(j.idle); n > 0 {
		log.Printf("[SESSION-JANITOR] evicted %d idle sessions", n)
	}
}

// Start begins running the schedule in the background.
func (j *Janitor) Start() {
	j.cron.Start()
	log.Printf("[SESSION-JANITOR] started, idle ttl %s", j.idle)
}

// Stop halts the schedule and returns a context done once any running
// sweep has finished.
func (j *Janitor) Stop() context.Context {
	return j.cron.Stop()
}
