// Kinmap - Social Graph Friend Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kinmap

package recommend

import "github.com/tomtom215/kinmap/internal/graph"

// closeness computes the heuristic closeness probability for a user pair.
//
// Every rule weight is a multiple of 0.1, so the sum is accumulated in
// integer tenths and divided once at the end. This keeps the result exact
// under IEEE 754 and the formatted output byte stable.
func closeness(a, b graph.DemographicRecord) float64 {
	tenths := 0

	if a.Gender == b.Gender {
		tenths += 3
	} else {
		tenths += 1
	}

	ageDiff := a.Age - b.Age
	if ageDiff < 0 {
		ageDiff = -ageDiff
	}
	switch {
	case ageDiff < 5:
		tenths += 4
	case ageDiff < 10:
		tenths += 2
	default:
		tenths -= 2
	}

	if a.City == b.City {
		tenths += 5
	}

	switch {
	case a.HigherEducation && b.HigherEducation:
		tenths += 3
	case a.HigherEducation || b.HigherEducation:
		tenths += 1
	}

	// clamp to [0.0, 1.0]
	if tenths < 0 {
		tenths = 0
	}
	if tenths > 10 {
		tenths = 10
	}
	return float64(tenths) / 10
}
