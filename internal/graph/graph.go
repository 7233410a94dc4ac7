// Kinmap - Social Graph Friend Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kinmap

package graph

import "sort"

// UserID identifies a user. IDs carry no semantics beyond equality; the
// numeric ordering is used only to make output deterministic.
type UserID int64

// FriendSet is the set of direct friends of one user.
type FriendSet map[UserID]struct{}

// Contains reports whether id is a member of the set. Safe on a nil set.
func (s FriendSet) Contains(id UserID) bool {
	_, ok := s[id]
	return ok
}

// Graph is the parsed friendship relation. It is built once by
// ParseRelation and never mutated afterwards, so concurrent reads from
// multiple jobs are safe without locking.
type Graph struct {
	users map[UserID]FriendSet
}

// Friends returns the direct friends of id. The returned set is nil for
// users that have no line in the relation file; callers must not mutate it.
func (g *Graph) Friends(id UserID) FriendSet {
	return g.users[id]
}

// HasUser reports whether id had its own line in the relation file.
func (g *Graph) HasUser(id UserID) bool {
	_, ok := g.users[id]
	return ok
}

// Users returns every user that had a line in the relation file, in
// ascending ID order.
func (g *Graph) Users() []UserID {
	ids := make([]UserID, 0, len(g.users))
	for id := range g.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Len returns the number of users with their own line in the relation file.
func (g *Graph) Len() int {
	return len(g.users)
}
