// Kinmap - Social Graph Friend Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kinmap

// Package jobs orchestrates asynchronous recommendation computations.
//
// A job moves through a strict lifecycle: pending when accepted,
// in_progress once a worker picks it up, then completed or failed. The
// status store guarantees atomic reads and compare-and-swap transitions
// per job id, so polling clients never observe a torn update and two
// workers can never claim the same job.
//
// The Runner owns a bounded queue and a fixed worker pool. Submitted
// inputs are fully read into memory before a worker starts; the engine
// receives no cancellation signal, so a started computation always runs
// to completion or failure. Result artifacts are written atomically via
// a temp file rename and are only exposed for completed jobs.
package jobs
