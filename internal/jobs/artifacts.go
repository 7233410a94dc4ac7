// Kinmap - Social Graph Friend Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kinmap

package jobs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ArtifactStore writes and serves result files for completed jobs.
//
// Artifacts are named result_<job id>.txt and written via a temp file
// plus rename, so a reader can never observe a partially written file.
type ArtifactStore struct {
	dir string
}

// NewArtifactStore creates the artifact directory if needed.
func NewArtifactStore(dir string) (*ArtifactStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create artifact directory %s: %w", dir, err)
	}
	return &ArtifactStore{dir: dir}, nil
}

// path returns the final artifact location for a job id. Job ids are
// UUIDs generated by this service, so they are safe path components.
func (s *ArtifactStore) path(jobID string) string {
	return filepath.Join(s.dir, "result_"+jobID+".txt")
}

// Write persists the artifact body atomically.
func (s *ArtifactStore) Write(jobID, body string) error {
	tmp, err := os.CreateTemp(s.dir, "result_*.tmp")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(body); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close artifact: %w", err)
	}
	if err := os.Rename(tmpName, s.path(jobID)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("publish artifact: %w", err)
	}
	return nil
}

// Open returns a reader over the artifact, or os.ErrNotExist when the
// job has no published artifact.
func (s *ArtifactStore) Open(jobID string) (io.ReadCloser, error) {
	f, err := os.Open(s.path(jobID))
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Filename returns the caller-visible artifact name for a job.
func (s *ArtifactStore) Filename(jobID string) string {
	return "result_" + jobID + ".txt"
}
