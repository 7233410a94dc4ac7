// Kinmap - Social Graph Friend Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kinmap

package graph

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// maxLineBytes bounds a single input line. Relation lines grow with friend
// count, so the limit is generous but still protects against pathological
// uploads exhausting memory through the scanner buffer.
const maxLineBytes = 4 * 1024 * 1024

// ParseRelation reads a friendship relation file into a Graph.
//
// Each line must be "<UserId> <F1>,<F2>,...". A line ending in a single
// space declares a user with no friends; a bare "<UserId>" without the
// separator is malformed. Blank lines are skipped. Self references in the
// friend list are dropped
// because a user can never be recommended to themselves. A UserId
// appearing on more than one line aborts the parse.
func ParseRelation(r io.Reader) (*Graph, error) {
	g := &Graph{users: make(map[UserID]FriendSet)}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSuffix(sc.Text(), "\r")
		if line == "" {
			continue
		}

		idField, rest, ok := strings.Cut(line, " ")
		if !ok {
			return nil, &FormatError{Line: lineNo, Reason: "missing space separator after user id"}
		}

		id, err := parseUserID(idField)
		if err != nil {
			return nil, &FormatError{Line: lineNo, Reason: err.Error()}
		}
		if _, dup := g.users[id]; dup {
			return nil, &FormatError{Line: lineNo, Reason: fmt.Sprintf("duplicate user id %d", id)}
		}

		friends := make(FriendSet)
		if rest != "" {
			for _, tok := range strings.Split(rest, ",") {
				fid, err := parseUserID(strings.TrimSpace(tok))
				if err != nil {
					return nil, &FormatError{Line: lineNo, Reason: err.Error()}
				}
				if fid == id {
					continue
				}
				friends[fid] = struct{}{}
			}
		}
		g.users[id] = friends
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read relation input: %w", err)
	}

	return g, nil
}

func parseUserID(s string) (UserID, error) {
	if s == "" {
		return 0, fmt.Errorf("empty user id")
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid user id %q", s)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative user id %d", n)
	}
	return UserID(n), nil
}
