package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/bassista/go_park/internal/logger"
)

// Job is one run of a periodic task. It must honor ctx.Done().
type Job func(ctx context.Context)

// PeriodicTask runs a job on a fixed interval until its context is cancelled.
//
// Semantics:
// - A tick runs to completion before the next one starts; slow jobs drop ticks
//   instead of overlapping.
// - A panicking job is logged and the task keeps running.
type PeriodicTask struct {
	name     string
	interval time.Duration
	job      Job
}

func NewPeriodicTask(name string, interval time.Duration, job Job) (*PeriodicTask, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("task %s: interval must be positive, got %v", name, interval)
	}
	if job == nil {
		return nil, fmt.Errorf("task %s: job is nil", name)
	}
	return &PeriodicTask{name: name, interval: interval, job: job}, nil
}

func (t *PeriodicTask) Name() string {
	return t.name
}

func (t *PeriodicTask) Interval() time.Duration {
	return t.interval
}

// Run blocks until ctx is cancelled. It always returns nil so it can be used
// directly with errgroup.
func (t *PeriodicTask) Run(ctx context.Context) error {
	logger.WithComponent("sched").Debugf("starting task %s with interval: %v", t.name, t.interval)
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.WithComponent("sched").Infof("task %s stopped", t.name)
			return nil
		case <-ticker.C:
			t.tick(ctx)
		}
	}
}

// Start runs the task in the background and returns a channel closed when it exits.
func (t *PeriodicTask) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = t.Run(ctx)
	}()
	return done
}

func (t *PeriodicTask) tick(ctx context.Context) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.WithComponent("sched").Errorf("task %s panicked: %v", t.name, rec)
		}
	}()
	logger.WithComponent("sched").Tracef("task %s tick", t.name)
	t.job(ctx)
}
