// Kinmap - Social Graph Friend Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kinmap

package jobs

import "context"

// Store persists job records with atomic per-job semantics.
//
// Implementations must guarantee that Get never observes a partially
// applied update and that Transition is a compare-and-swap: it succeeds
// only when the stored status equals from, otherwise it returns
// ErrConflict without applying anything.
type Store interface {
	// Create persists a new job. The job's ID must be unique.
	Create(ctx context.Context, job *Job) error

	// Get returns a copy of the job, or ErrNotFound.
	Get(ctx context.Context, id string) (*Job, error)

	// List returns copies of all jobs in unspecified order.
	List(ctx context.Context) ([]*Job, error)

	// Transition atomically moves the job from one status to another.
	// apply, if non-nil, mutates the record inside the same atomic step
	// after the status change. Returns the updated copy.
	Transition(ctx context.Context, id string, from, to Status, apply func(*Job)) (*Job, error)

	// Close releases underlying resources.
	Close() error
}
