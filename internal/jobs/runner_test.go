// Kinmap - Social Graph Friend Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kinmap

package jobs

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/kinmap/internal/recommend"
)

type runnerFixture struct {
	runner    *Runner
	store     *MemoryStore
	artifacts *ArtifactStore
	cancel    context.CancelFunc
}

func startRunner(t *testing.T, cfg RunnerConfig) *runnerFixture {
	t.Helper()

	store := NewMemoryStore()
	artifacts, err := NewArtifactStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewArtifactStore() error = %v", err)
	}
	engine, err := recommend.NewEngine(nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	runner, err := NewRunner(cfg, store, artifacts, engine, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = runner.Serve(ctx) }()
	t.Cleanup(cancel)

	return &runnerFixture{runner: runner, store: store, artifacts: artifacts, cancel: cancel}
}

func (f *runnerFixture) submit(t *testing.T, sub Submission) {
	t.Helper()
	if err := f.store.Create(context.Background(), &Job{
		ID:        sub.JobID,
		Status:    StatusPending,
		N:         sub.N,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := f.runner.Submit(sub); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
}

func (f *runnerFixture) waitTerminal(t *testing.T, jobID string) *Job {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		job, err := f.store.Get(context.Background(), jobID)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if job.Status.Terminal() {
			return job
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("job %s never reached a terminal status", jobID)
	return nil
}

func TestRunnerCompletesJob(t *testing.T) {
	f := startRunner(t, DefaultRunnerConfig())

	f.submit(t, Submission{
		JobID:    "job-1",
		Relation: []byte("1 2\n2 1,3\n3 2\n"),
		N:        1,
	})

	job := f.waitTerminal(t, "job-1")
	if job.Status != StatusCompleted {
		t.Fatalf("status = %s (error %q), want completed", job.Status, job.Error)
	}
	if job.StartedAt == nil || job.FinishedAt == nil {
		t.Error("completed job missing timestamps")
	}

	r, err := f.artifacts.Open("job-1")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer r.Close()
	body, _ := io.ReadAll(r)
	if string(body) != "1 3\n3 1\n" {
		t.Errorf("artifact = %q, want %q", body, "1 3\n3 1\n")
	}
}

func TestRunnerScoresWithDemographics(t *testing.T) {
	f := startRunner(t, DefaultRunnerConfig())

	f.submit(t, Submission{
		JobID:        "job-2",
		Relation:     []byte("1 2\n2 1,3\n3 2\n"),
		Demographics: []byte("1 0, 25, 77, 1\n3 0, 27, 77, 1\n"),
		N:            1,
	})

	job := f.waitTerminal(t, "job-2")
	if job.Status != StatusCompleted {
		t.Fatalf("status = %s (error %q), want completed", job.Status, job.Error)
	}

	r, err := f.artifacts.Open("job-2")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer r.Close()
	body, _ := io.ReadAll(r)
	if string(body) != "1 3, 1.0\n3 1, 1.0\n" {
		t.Errorf("artifact = %q, want %q", body, "1 3, 1.0\n3 1, 1.0\n")
	}
}

func TestRunnerMarksMalformedInputFailed(t *testing.T) {
	f := startRunner(t, DefaultRunnerConfig())

	f.submit(t, Submission{
		JobID:    "job-3",
		Relation: []byte("1 2\nnot-a-line\n"),
		N:        1,
	})

	job := f.waitTerminal(t, "job-3")
	if job.Status != StatusFailed {
		t.Fatalf("status = %s, want failed", job.Status)
	}
	if !strings.Contains(job.Error, "line 2") {
		t.Errorf("error %q does not name the offending line", job.Error)
	}
	if _, err := f.artifacts.Open("job-3"); err == nil {
		t.Error("failed job has a published artifact")
	}
}

func TestRunnerMarksInvalidCountFailed(t *testing.T) {
	f := startRunner(t, DefaultRunnerConfig())

	f.submit(t, Submission{
		JobID:    "job-4",
		Relation: []byte("1 2\n2 1\n"),
		N:        0,
	})

	job := f.waitTerminal(t, "job-4")
	if job.Status != StatusFailed {
		t.Fatalf("status = %s, want failed", job.Status)
	}
}

func TestRunnerQueueFull(t *testing.T) {
	// No Serve running, so nothing drains the queue.
	store := NewMemoryStore()
	artifacts, err := NewArtifactStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewArtifactStore() error = %v", err)
	}
	engine, err := recommend.NewEngine(nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	runner, err := NewRunner(RunnerConfig{Workers: 1, QueueSize: 1}, store, artifacts, engine, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}

	if err := runner.Submit(Submission{JobID: "a"}); err != nil {
		t.Fatalf("first Submit() error = %v", err)
	}
	if err := runner.Submit(Submission{JobID: "b"}); !errors.Is(err, ErrQueueFull) {
		t.Errorf("second Submit() error = %v, want ErrQueueFull", err)
	}
}

func TestNewRunnerRejectsInvalidConfig(t *testing.T) {
	engine, err := recommend.NewEngine(nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	artifacts, err := NewArtifactStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewArtifactStore() error = %v", err)
	}

	if _, err := NewRunner(RunnerConfig{Workers: 0, QueueSize: 1}, NewMemoryStore(), artifacts, engine, zerolog.Nop()); err == nil {
		t.Error("NewRunner() accepted zero workers")
	}
}
