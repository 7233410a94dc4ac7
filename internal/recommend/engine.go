// Kinmap - Social Graph Friend Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kinmap

package recommend

import (
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/tomtom215/kinmap/internal/graph"
)

// ErrInvalidParameter is returned for request parameters outside their
// valid range, such as a recommendation count below 1.
var ErrInvalidParameter = errors.New("invalid parameter")

// ErrTooManyUsers is returned when a relation file exceeds the configured
// user limit.
var ErrTooManyUsers = errors.New("too many users")

// Engine produces friend-of-friend recommendations. It holds no mutable
// state between invocations and is safe for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger
}

// NewEngine creates a recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Engine{
		config: cfg,
		logger: logger.With().Str("component", "recommend").Logger(),
	}, nil
}

// candidate pairs a potential friend with its mutual-friend count while
// ranking a single user's list.
type candidate struct {
	id    graph.UserID
	count int
}

// Recommend computes up to n ranked friend-of-friend recommendations for
// every user in the graph.
//
// A candidate C for user U is any user reachable in exactly two hops that
// is neither U nor a direct friend of U. Candidates are ordered by
// descending mutual-friend count, then ascending candidate ID, and
// assigned dense ranks starting at 1. Users with no eligible candidates
// contribute no rows. The result is grouped by ascending user ID.
//
// n below 1 returns ErrInvalidParameter; n above the configured maximum
// is clamped.
func (e *Engine) Recommend(g *graph.Graph, n int) ([]RankedRecommendation, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: recommendation count must be at least 1, got %d", ErrInvalidParameter, n)
	}
	if max := e.config.MaxRecommendations; n > max {
		e.logger.Debug().
			Int("requested", n).
			Int("clamped_to", max).
			Msg("Recommendation count clamped to configured maximum")
		n = max
	}
	if limit := e.config.MaxUsers; limit > 0 && g.Len() > limit {
		return nil, fmt.Errorf("%w: relation file declares %d users, limit is %d", ErrTooManyUsers, g.Len(), limit)
	}

	var out []RankedRecommendation
	for _, u := range g.Users() {
		direct := g.Friends(u)
		if len(direct) == 0 {
			continue
		}

		// counts[c] is the number of distinct direct friends of u that
		// also have c as a direct friend. Each intermediate contributes
		// at most once per candidate because friend sets are sets.
		counts := make(map[graph.UserID]int)
		for f := range direct {
			for c := range g.Friends(f) {
				if c == u || direct.Contains(c) {
					continue
				}
				counts[c]++
			}
		}
		if len(counts) == 0 {
			continue
		}

		cands := make([]candidate, 0, len(counts))
		for id, count := range counts {
			cands = append(cands, candidate{id: id, count: count})
		}
		sort.Slice(cands, func(i, j int) bool {
			if cands[i].count != cands[j].count {
				return cands[i].count > cands[j].count
			}
			return cands[i].id < cands[j].id
		})

		limit := n
		if len(cands) < limit {
			limit = len(cands)
		}
		for i := 0; i < limit; i++ {
			out = append(out, RankedRecommendation{
				UserID:        u,
				CandidateID:   cands[i].id,
				CommonFriends: cands[i].count,
				Rank:          i + 1,
			})
		}
	}

	e.logger.Debug().
		Int("users", g.Len()).
		Int("recommendations", len(out)).
		Msg("Computed friend-of-friend recommendations")
	return out, nil
}

// Score attaches a demographic closeness probability to each ranked
// recommendation. Rows where either user has no demographic record are
// kept but marked Incomplete instead of being dropped.
func (e *Engine) Score(recs []RankedRecommendation, demo graph.Demographics) []ScoredRecommendation {
	out := make([]ScoredRecommendation, 0, len(recs))
	for _, r := range recs {
		s := ScoredRecommendation{RankedRecommendation: r}
		u, okU := demo[r.UserID]
		c, okC := demo[r.CandidateID]
		if !okU || !okC {
			s.Incomplete = true
		} else {
			s.Probability = closeness(u, c)
		}
		out = append(out, s)
	}
	return out
}
