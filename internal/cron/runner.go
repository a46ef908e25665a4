package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/Kobby-jnrr/kstore-backend/pkg/logger"
	"github.com/Kobby-jnrr/kstore-backend/pkg/metrics"
)

const defaultInterval = time.Minute

// RunnerParams configure the worker loop.
type RunnerParams struct {
	Logger   *logger.Logger
	Registry *Registry
	Lock     Lock
	Metrics  *metrics.CronJobMetrics
	Interval time.Duration
}

// Runner executes registered jobs on a fixed cadence, one instance at a
// time across the fleet.
type Runner struct {
	logg     *logger.Logger
	registry *Registry
	lock     Lock
	metrics  *metrics.CronJobMetrics
	interval time.Duration
}

// NewRunner builds the worker loop.
func NewRunner(params RunnerParams) (*Runner, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Lock == nil {
		return nil, fmt.Errorf("lock required")
	}
	registry := params.Registry
	if registry == nil {
		registry = NewRegistry()
	}
	interval := params.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Runner{
		logg:     params.Logger,
		registry: registry,
		lock:     params.Lock,
		metrics:  params.Metrics,
		interval: interval,
	}, nil
}

// Run loops until the context is canceled. The first cycle runs
// immediately.
func (r *Runner) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := r.runCycle(ctx); err != nil {
		r.logg.Error(ctx, "worker cycle failed", err)
	}
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logg.Info(ctx, "worker context canceled")
			return ctx.Err()
		case <-ticker.C:
			if err := r.runCycle(ctx); err != nil {
				r.logg.Error(ctx, "worker cycle failed", err)
			}
		}
	}
}

func (r *Runner) runCycle(ctx context.Context) error {
	locked, err := r.lock.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("lock acquire: %w", err)
	}
	if !locked {
		r.logg.Info(ctx, "another worker holds the lock; skipping cycle")
		return nil
	}
	defer func() {
		if relErr := r.lock.Release(ctx); relErr != nil {
			r.logg.Error(ctx, "failed to release worker lock", relErr)
		}
	}()

	for _, job := range r.registry.Jobs() {
		r.runJob(ctx, job)
	}
	return nil
}

func (r *Runner) runJob(ctx context.Context, job Job) {
	jobCtx := r.logg.WithFields(ctx, map[string]any{
		"job":   job.Name(),
		"event": "worker.job",
	})
	start := time.Now()
	err := job.Run(jobCtx)
	duration := time.Since(start)
	if r.metrics != nil {
		r.metrics.ObserveDuration(job.Name(), duration)
	}
	jobCtx = r.logg.WithFields(jobCtx, map[string]any{"duration_ms": duration.Milliseconds()})
	if err != nil {
		r.logg.Error(jobCtx, "job failed", err)
		if r.metrics != nil {
			r.metrics.IncFailure(job.Name())
		}
		return
	}
	r.logg.Info(jobCtx, "job completed")
	if r.metrics != nil {
		r.metrics.IncSuccess(job.Name())
	}
}
