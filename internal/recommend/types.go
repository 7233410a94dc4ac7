// Kinmap - Social Graph Friend Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kinmap

package recommend

import "github.com/tomtom215/kinmap/internal/graph"

// RankedRecommendation is one candidate friendship suggestion for a user.
type RankedRecommendation struct {
	// UserID is the user receiving the recommendation.
	UserID graph.UserID

	// CandidateID is the suggested new friend. It is never UserID itself
	// and never an existing direct friend of UserID.
	CandidateID graph.UserID

	// CommonFriends is the number of distinct direct friends of UserID
	// that are also direct friends of CandidateID.
	CommonFriends int

	// Rank is the 1-based position of the candidate within the user's
	// recommendation list.
	Rank int
}

// ScoredRecommendation extends a RankedRecommendation with a heuristic
// closeness probability derived from demographic attributes.
type ScoredRecommendation struct {
	RankedRecommendation

	// Probability is the clamped closeness score in [0.0, 1.0]. It is
	// meaningless when Incomplete is true.
	Probability float64

	// Incomplete marks rows where either side of the pair had no
	// demographic record. The row is kept; only the probability is
	// unavailable.
	Incomplete bool
}
