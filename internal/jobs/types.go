// Kinmap - Social Graph Friend Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kinmap

package jobs

import (
	"errors"
	"time"
)

// Status is the lifecycle state of a job.
type Status string

const (
	// StatusPending means the job is accepted and queued.
	StatusPending Status = "pending"

	// StatusInProgress means a worker is computing the job.
	StatusInProgress Status = "in_progress"

	// StatusCompleted means the result artifact is available.
	StatusCompleted Status = "completed"

	// StatusFailed means the computation aborted; Job.Error holds the
	// reason and no artifact is exposed.
	StatusFailed Status = "failed"
)

// Valid reports whether s is one of the known lifecycle states.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// Terminal reports whether s admits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CanTransition reports whether the lifecycle permits moving to next.
func (s Status) CanTransition(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusInProgress || next == StatusFailed
	case StatusInProgress:
		return next == StatusCompleted || next == StatusFailed
	default:
		return false
	}
}

var (
	// ErrNotFound is returned when no job exists for the given id.
	ErrNotFound = errors.New("job not found")

	// ErrConflict is returned when a transition's expected current
	// status does not match the stored one.
	ErrConflict = errors.New("job status conflict")

	// ErrQueueFull is returned when the submission queue is at capacity.
	ErrQueueFull = errors.New("job queue full")
)

// Job is the orchestrator's record of one recommendation computation.
type Job struct {
	// ID is the caller-visible job identifier, a UUID.
	ID string `json:"id"`

	// Status is the current lifecycle state.
	Status Status `json:"status"`

	// N is the requested per-user recommendation count.
	N int `json:"n"`

	// IncludeProbability records whether the demographic file was
	// submitted and probabilities belong in the output.
	IncludeProbability bool `json:"include_probability"`

	// Error holds the failure reason for failed jobs, empty otherwise.
	Error string `json:"error,omitempty"`

	CreatedAt  time.Time  `json:"created_at"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// Clone returns a deep copy so callers can never mutate stored state.
func (j *Job) Clone() *Job {
	c := *j
	if j.StartedAt != nil {
		t := *j.StartedAt
		c.StartedAt = &t
	}
	if j.FinishedAt != nil {
		t := *j.FinishedAt
		c.FinishedAt = &t
	}
	return &c
}

// Submission carries one queued computation. Both inputs are fully read
// into immutable byte slices before submission; workers never touch the
// upload stream.
type Submission struct {
	JobID        string
	Relation     []byte
	Demographics []byte
	N            int
}
