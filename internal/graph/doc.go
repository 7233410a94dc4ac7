// Kinmap - Social Graph Friend Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kinmap

// Package graph parses submitted friendship and demographic files into
// immutable in-memory structures consumed by the recommendation engine.
//
// Two text formats are supported:
//
//   - Relation file: one line per user, "<UserId> <F1>,<F2>,...". A line
//     with a trailing space and no friend list declares a user with no
//     friends.
//   - Demographic file: one line per user, "<UserId> <gender>, <age>,
//     <city>, <education>" with comma-space separated attributes after
//     the first space.
//
// Parsers fail loudly: any malformed line, including a duplicate UserId,
// aborts the parse with a FormatError carrying the offending line number.
package graph
