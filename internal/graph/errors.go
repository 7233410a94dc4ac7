// Kinmap - Social Graph Friend Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kinmap

package graph

import (
	"errors"
	"fmt"
)

// ErrFormat is the sentinel all parse failures unwrap to. Callers that do
// not care about the offending line can test with errors.Is.
var ErrFormat = errors.New("malformed input")

// FormatError reports a single malformed line in a submitted file.
type FormatError struct {
	// Line is the 1-based line number of the offending line.
	Line int
	// Reason describes what made the line unparseable.
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

func (e *FormatError) Unwrap() error {
	return ErrFormat
}
