// Kinmap - Social Graph Friend Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kinmap

// Package recommend implements the friend-of-friend recommendation engine.
//
// The engine is pure computation: it consumes an immutable graph.Graph
// (and optionally graph.Demographics), performs two-hop candidate
// discovery, ranks candidates by the number of distinct mutual friends,
// and optionally attaches a heuristic closeness probability from the
// demographic attributes. It never touches the filesystem or network and
// accepts no cancellation signal; a started computation runs to
// completion.
//
// Results are deterministic for identical inputs. Candidates with equal
// mutual-friend counts are ordered by ascending candidate ID, and the
// probability accumulates in exact tenth increments so formatted output
// is byte stable across runs and platforms.
package recommend
