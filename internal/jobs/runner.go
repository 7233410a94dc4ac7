// Kinmap - Social Graph Friend Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kinmap

package jobs

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/kinmap/internal/graph"
	"github.com/tomtom215/kinmap/internal/metrics"
	"github.com/tomtom215/kinmap/internal/recommend"
)

// RunnerConfig sizes the worker pool and its submission queue.
type RunnerConfig struct {
	// Workers is the number of concurrent computations.
	Workers int `koanf:"workers" json:"workers"`

	// QueueSize bounds the number of accepted-but-unstarted jobs.
	// Submissions beyond it are rejected with ErrQueueFull.
	QueueSize int `koanf:"queue_size" json:"queue_size"`
}

// DefaultRunnerConfig returns the default worker pool sizing.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{Workers: 4, QueueSize: 64}
}

// Validate checks runner configuration invariants.
func (c *RunnerConfig) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.QueueSize < 1 {
		return fmt.Errorf("queue_size must be at least 1, got %d", c.QueueSize)
	}
	return nil
}

// Runner executes submitted computations on a fixed worker pool. It
// implements suture.Service; the supervisor restarts it if Serve exits
// abnormally. Individual job panics are contained per job and turn into
// failed status, never a runner crash.
type Runner struct {
	cfg       RunnerConfig
	store     Store
	artifacts *ArtifactStore
	engine    *recommend.Engine
	logger    zerolog.Logger
	queue     chan Submission
}

// NewRunner creates a runner. It does not start workers; the supervisor
// does that by calling Serve.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRunner(cfg RunnerConfig, store Store, artifacts *ArtifactStore, engine *recommend.Engine, logger zerolog.Logger) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid runner config: %w", err)
	}
	return &Runner{
		cfg:       cfg,
		store:     store,
		artifacts: artifacts,
		engine:    engine,
		logger:    logger.With().Str("component", "jobs").Logger(),
		queue:     make(chan Submission, cfg.QueueSize),
	}, nil
}

func (r *Runner) String() string {
	return "jobs-runner"
}

// Submit queues a computation without blocking. The job must already
// exist in the store with StatusPending.
func (r *Runner) Submit(sub Submission) error {
	select {
	case r.queue <- sub:
		metrics.JobQueueDepth.Set(float64(len(r.queue)))
		return nil
	default:
		return ErrQueueFull
	}
}

// Serve runs the worker pool until ctx is cancelled. A job being
// computed at shutdown runs to completion; only the pickup of new jobs
// stops.
func (r *Runner) Serve(ctx context.Context) error {
	r.logger.Info().
		Int("workers", r.cfg.Workers).
		Int("queue_size", r.cfg.QueueSize).
		Msg("Job runner starting")

	var wg sync.WaitGroup
	for i := 0; i < r.cfg.Workers; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r.work(ctx, worker)
		}(i)
	}
	wg.Wait()

	r.logger.Info().Msg("Job runner stopped")
	return ctx.Err()
}

func (r *Runner) work(ctx context.Context, worker int) {
	for {
		select {
		case <-ctx.Done():
			return
		case sub := <-r.queue:
			metrics.JobQueueDepth.Set(float64(len(r.queue)))
			r.execute(ctx, worker, sub)
		}
	}
}

// execute contains panics from a single computation and records them as
// job failure.
func (r *Runner) execute(ctx context.Context, worker int, sub Submission) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error().
				Int("worker", worker).
				Str("job_id", sub.JobID).
				Interface("panic", rec).
				Msg("Job computation panicked")
			r.fail(ctx, sub.JobID, fmt.Sprintf("internal error: %v", rec))
		}
	}()

	start := time.Now()
	if err := r.process(ctx, sub); err != nil {
		r.logger.Warn().
			Int("worker", worker).
			Str("job_id", sub.JobID).
			Err(err).
			Msg("Job failed")
		r.fail(ctx, sub.JobID, err.Error())
		return
	}

	metrics.JobsCompleted.Inc()
	metrics.JobDuration.Observe(time.Since(start).Seconds())
	r.logger.Info().
		Int("worker", worker).
		Str("job_id", sub.JobID).
		Dur("duration", time.Since(start)).
		Msg("Job completed")
}

func (r *Runner) process(ctx context.Context, sub Submission) error {
	now := time.Now()
	if _, err := r.store.Transition(ctx, sub.JobID, StatusPending, StatusInProgress, func(j *Job) {
		j.StartedAt = &now
	}); err != nil {
		return fmt.Errorf("claim job: %w", err)
	}

	g, err := graph.ParseRelation(bytes.NewReader(sub.Relation))
	if err != nil {
		return fmt.Errorf("parse relation file: %w", err)
	}

	var demo graph.Demographics
	if sub.Demographics != nil {
		demo, err = graph.ParseDemographics(bytes.NewReader(sub.Demographics))
		if err != nil {
			return fmt.Errorf("parse demographic file: %w", err)
		}
	}

	ranked, err := r.engine.Recommend(g, sub.N)
	if err != nil {
		return fmt.Errorf("compute recommendations: %w", err)
	}

	var lines []string
	if demo != nil {
		lines = recommend.FormatScored(r.engine.Score(ranked, demo))
	} else {
		lines = recommend.FormatRanked(ranked)
	}

	if err := r.artifacts.Write(sub.JobID, recommend.RenderArtifact(lines)); err != nil {
		return fmt.Errorf("write result artifact: %w", err)
	}

	finished := time.Now()
	if _, err := r.store.Transition(ctx, sub.JobID, StatusInProgress, StatusCompleted, func(j *Job) {
		j.FinishedAt = &finished
	}); err != nil {
		return fmt.Errorf("complete job: %w", err)
	}
	return nil
}

// fail moves a job to StatusFailed from whichever active state it is
// in. A job that never got claimed fails from pending.
func (r *Runner) fail(ctx context.Context, jobID, reason string) {
	metrics.JobsFailed.Inc()
	now := time.Now()
	apply := func(j *Job) {
		j.Error = reason
		j.FinishedAt = &now
	}

	if _, err := r.store.Transition(ctx, jobID, StatusInProgress, StatusFailed, apply); err == nil {
		return
	}
	if _, err := r.store.Transition(ctx, jobID, StatusPending, StatusFailed, apply); err != nil {
		r.logger.Error().
			Str("job_id", jobID).
			Err(err).
			Msg("Could not record job failure")
	}
}
