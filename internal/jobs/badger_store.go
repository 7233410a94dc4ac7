// Kinmap - Social Graph Friend Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kinmap

package jobs

import (
	"context"
	"errors"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"
	json "github.com/goccy/go-json"
)

// jobKeyPrefix namespaces job records inside the shared BadgerDB.
const jobKeyPrefix = "job:"

// BadgerStore persists jobs in BadgerDB so status survives restarts.
// Badger's serializable transactions provide the per-job atomicity the
// Store contract requires.
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore creates a job store on an already opened BadgerDB.
// The caller retains ownership of db; Close here is a no-op so one
// database can back multiple stores.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

func jobKey(id string) []byte {
	return []byte(jobKeyPrefix + id)
}

// Create persists a new job.
func (s *BadgerStore) Create(_ context.Context, job *Job) error {
	return s.db.Update(func(txn *badger.Txn) error {
		key := jobKey(job.ID)
		if _, err := txn.Get(key); err == nil {
			return fmt.Errorf("job %s already exists", job.ID)
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("check job existence: %w", err)
		}

		data, err := json.Marshal(job)
		if err != nil {
			return fmt.Errorf("marshal job: %w", err)
		}
		if err := txn.Set(key, data); err != nil {
			return fmt.Errorf("store job: %w", err)
		}
		return nil
	})
}

// Get returns a copy of the job, or ErrNotFound.
func (s *BadgerStore) Get(_ context.Context, id string) (*Job, error) {
	var job Job
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(jobKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get job: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &job)
		})
	})
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// List returns all stored jobs.
func (s *BadgerStore) List(_ context.Context) ([]*Job, error) {
	var out []*Job
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(jobKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var job Job
				if err := json.Unmarshal(val, &job); err != nil {
					return fmt.Errorf("unmarshal job: %w", err)
				}
				out = append(out, &job)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Transition atomically moves the job between lifecycle states. The
// read-check-write runs inside one Badger update transaction, so a
// conflicting writer causes a retryable transaction error rather than a
// lost update.
func (s *BadgerStore) Transition(_ context.Context, id string, from, to Status, apply func(*Job)) (*Job, error) {
	var updated *Job
	err := s.db.Update(func(txn *badger.Txn) error {
		key := jobKey(id)
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get job: %w", err)
		}

		var job Job
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &job)
		}); err != nil {
			return fmt.Errorf("unmarshal job: %w", err)
		}

		if job.Status != from {
			return fmt.Errorf("%w: job %s is %s, expected %s", ErrConflict, id, job.Status, from)
		}
		if !from.CanTransition(to) {
			return fmt.Errorf("%w: job %s cannot move from %s to %s", ErrConflict, id, from, to)
		}

		job.Status = to
		if apply != nil {
			apply(&job)
		}

		data, err := json.Marshal(&job)
		if err != nil {
			return fmt.Errorf("marshal job: %w", err)
		}
		if err := txn.Set(key, data); err != nil {
			return fmt.Errorf("store job: %w", err)
		}
		updated = &job
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Close is a no-op; the caller owns the database handle.
func (s *BadgerStore) Close() error {
	return nil
}
