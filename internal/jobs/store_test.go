// Kinmap - Social Graph Friend Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kinmap

package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	badger "github.com/dgraph-io/badger/v4"
)

// storeUnderTest runs the shared Store contract tests against one
// implementation.
func storeUnderTest(t *testing.T, name string, newStore func(t *testing.T) Store) {
	t.Helper()
	ctx := context.Background()

	t.Run(name+"/create and get", func(t *testing.T) {
		s := newStore(t)
		job := &Job{ID: "a", Status: StatusPending, N: 5, CreatedAt: time.Now().UTC()}
		if err := s.Create(ctx, job); err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		got, err := s.Get(ctx, "a")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got.Status != StatusPending || got.N != 5 {
			t.Errorf("Get() = %+v, want pending with n=5", got)
		}
	})

	t.Run(name+"/get unknown", func(t *testing.T) {
		s := newStore(t)
		if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get() error = %v, want ErrNotFound", err)
		}
	})

	t.Run(name+"/duplicate create", func(t *testing.T) {
		s := newStore(t)
		job := &Job{ID: "a", Status: StatusPending}
		if err := s.Create(ctx, job); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if err := s.Create(ctx, job); err == nil {
			t.Error("Create() accepted a duplicate id")
		}
	})

	t.Run(name+"/full lifecycle", func(t *testing.T) {
		s := newStore(t)
		if err := s.Create(ctx, &Job{ID: "a", Status: StatusPending}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		started := time.Now().UTC()
		got, err := s.Transition(ctx, "a", StatusPending, StatusInProgress, func(j *Job) {
			j.StartedAt = &started
		})
		if err != nil {
			t.Fatalf("Transition(pending->in_progress) error = %v", err)
		}
		if got.Status != StatusInProgress || got.StartedAt == nil {
			t.Errorf("job after claim = %+v", got)
		}

		got, err = s.Transition(ctx, "a", StatusInProgress, StatusCompleted, nil)
		if err != nil {
			t.Fatalf("Transition(in_progress->completed) error = %v", err)
		}
		if got.Status != StatusCompleted {
			t.Errorf("status = %s, want completed", got.Status)
		}
	})

	t.Run(name+"/transition conflict", func(t *testing.T) {
		s := newStore(t)
		if err := s.Create(ctx, &Job{ID: "a", Status: StatusPending}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		if _, err := s.Transition(ctx, "a", StatusInProgress, StatusCompleted, nil); !errors.Is(err, ErrConflict) {
			t.Errorf("Transition() with wrong from = %v, want ErrConflict", err)
		}
	})

	t.Run(name+"/terminal states are final", func(t *testing.T) {
		s := newStore(t)
		if err := s.Create(ctx, &Job{ID: "a", Status: StatusPending}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if _, err := s.Transition(ctx, "a", StatusPending, StatusFailed, func(j *Job) {
			j.Error = "boom"
		}); err != nil {
			t.Fatalf("Transition(pending->failed) error = %v", err)
		}
		if _, err := s.Transition(ctx, "a", StatusFailed, StatusInProgress, nil); err == nil {
			t.Error("Transition() out of a terminal state succeeded")
		}
	})

	t.Run(name+"/list", func(t *testing.T) {
		s := newStore(t)
		for _, id := range []string{"a", "b", "c"} {
			if err := s.Create(ctx, &Job{ID: id, Status: StatusPending}); err != nil {
				t.Fatalf("Create(%s) error = %v", id, err)
			}
		}
		got, err := s.List(ctx)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(got) != 3 {
			t.Errorf("List() returned %d jobs, want 3", len(got))
		}
	})
}

func TestMemoryStore(t *testing.T) {
	storeUnderTest(t, "memory", func(t *testing.T) Store {
		t.Helper()
		return NewMemoryStore()
	})
}

func TestBadgerStore(t *testing.T) {
	storeUnderTest(t, "badger", func(t *testing.T) Store {
		t.Helper()
		opts := badger.DefaultOptions(t.TempDir()).WithLogger(nil)
		db, err := badger.Open(opts)
		if err != nil {
			t.Fatalf("badger.Open() error = %v", err)
		}
		t.Cleanup(func() { db.Close() })
		return NewBadgerStore(db)
	})
}

func TestMemoryStoreConcurrentTransitions(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	if err := s.Create(ctx, &Job{ID: "a", Status: StatusPending}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Only one of many concurrent claims may win.
	const claimers = 32
	var wg sync.WaitGroup
	var won sync.Map
	for i := 0; i < claimers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := s.Transition(ctx, "a", StatusPending, StatusInProgress, nil); err == nil {
				won.Store(i, true)
			}
		}(i)
	}
	wg.Wait()

	winners := 0
	won.Range(func(_, _ any) bool {
		winners++
		return true
	})
	if winners != 1 {
		t.Errorf("%d concurrent claims succeeded, want exactly 1", winners)
	}
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	if err := s.Create(ctx, &Job{ID: "a", Status: StatusPending}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := s.Get(ctx, "a")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	got.Status = StatusCompleted

	again, err := s.Get(ctx, "a")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if again.Status != StatusPending {
		t.Error("mutating a returned job leaked into the store")
	}
}

func TestStatusCanTransition(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusInProgress, true},
		{StatusPending, StatusFailed, true},
		{StatusPending, StatusCompleted, false},
		{StatusInProgress, StatusCompleted, true},
		{StatusInProgress, StatusFailed, true},
		{StatusInProgress, StatusPending, false},
		{StatusCompleted, StatusFailed, false},
		{StatusFailed, StatusPending, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransition(tt.to); got != tt.want {
			t.Errorf("CanTransition(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}
