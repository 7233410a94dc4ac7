// Kinmap - Social Graph Friend Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kinmap

package recommend

import (
	"fmt"
	"strconv"
	"strings"
)

// incompleteProbability renders in place of the probability when either
// side of a pair had no demographic record.
const incompleteProbability = "n/a"

// FormatRanked renders ranked recommendations as result artifact lines,
// one "<user> <candidate>" per line. Input order is preserved, so lines
// arrive grouped by ascending user ID with ranks ascending within each
// group. No header and no trailing whitespace.
func FormatRanked(recs []RankedRecommendation) []string {
	lines := make([]string, 0, len(recs))
	for _, r := range recs {
		lines = append(lines, fmt.Sprintf("%d %d", r.UserID, r.CandidateID))
	}
	return lines
}

// FormatScored renders scored recommendations as result artifact lines,
// one "<user> <candidate>, <probability>" per line. The probability is
// written with one decimal digit; incomplete rows render "n/a" instead.
func FormatScored(recs []ScoredRecommendation) []string {
	lines := make([]string, 0, len(recs))
	for _, r := range recs {
		p := incompleteProbability
		if !r.Incomplete {
			p = strconv.FormatFloat(r.Probability, 'f', 1, 64)
		}
		lines = append(lines, fmt.Sprintf("%d %d, %s", r.UserID, r.CandidateID, p))
	}
	return lines
}

// RenderArtifact joins result lines into the final artifact body. Every
// line, including the last, is newline terminated; an empty result
// produces an empty body.
func RenderArtifact(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
