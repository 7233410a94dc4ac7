// Kinmap - Social Graph Friend Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kinmap

package graph

import (
	"errors"
	"strings"
	"testing"
)

func TestParseRelation(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    map[UserID][]UserID
		wantErr bool
		errLine int
	}{
		{
			name:  "triangle",
			input: "1 2,3\n2 1,3\n3 1,2\n",
			want: map[UserID][]UserID{
				1: {2, 3},
				2: {1, 3},
				3: {1, 2},
			},
		},
		{
			name:  "chain",
			input: "1 2\n2 1,3\n3 2\n",
			want: map[UserID][]UserID{
				1: {2},
				2: {1, 3},
				3: {2},
			},
		},
		{
			name:  "empty friend list with trailing space",
			input: "7 \n",
			want: map[UserID][]UserID{
				7: {},
			},
		},
		{
			name:  "self reference dropped",
			input: "1 1,2\n",
			want: map[UserID][]UserID{
				1: {2},
			},
		},
		{
			name:  "duplicate friend entries collapse",
			input: "1 2,2,3\n",
			want: map[UserID][]UserID{
				1: {2, 3},
			},
		},
		{
			name:  "crlf line endings",
			input: "1 2\r\n2 1\r\n",
			want: map[UserID][]UserID{
				1: {2},
				2: {1},
			},
		},
		{
			name:  "empty input",
			input: "",
			want:  map[UserID][]UserID{},
		},
		{
			name:    "bare user id without separator",
			input:   "1 2\n7\n",
			wantErr: true,
			errLine: 2,
		},
		{
			name:    "duplicate user id",
			input:   "1 2\n2 1\n1 3\n",
			wantErr: true,
			errLine: 3,
		},
		{
			name:    "non integer user id",
			input:   "abc 2\n",
			wantErr: true,
			errLine: 1,
		},
		{
			name:    "negative user id",
			input:   "-1 2\n",
			wantErr: true,
			errLine: 1,
		},
		{
			name:    "non integer friend id",
			input:   "1 2,x\n",
			wantErr: true,
			errLine: 1,
		},
		{
			name:    "trailing comma",
			input:   "1 2,\n",
			wantErr: true,
			errLine: 1,
		},
		{
			name:  "blank lines skipped",
			input: "1 2\n\n3 2\n",
			want: map[UserID][]UserID{
				1: {2},
				3: {2},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := ParseRelation(strings.NewReader(tt.input))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !errors.Is(err, ErrFormat) {
					t.Errorf("error %v does not unwrap to ErrFormat", err)
				}
				var fe *FormatError
				if !errors.As(err, &fe) {
					t.Fatalf("error %v is not a *FormatError", err)
				}
				if fe.Line != tt.errLine {
					t.Errorf("error line = %d, want %d", fe.Line, tt.errLine)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRelation() error = %v", err)
			}
			if g.Len() != len(tt.want) {
				t.Fatalf("user count = %d, want %d", g.Len(), len(tt.want))
			}
			for id, friends := range tt.want {
				set := g.Friends(id)
				if len(set) != len(friends) {
					t.Errorf("user %d: friend count = %d, want %d", id, len(set), len(friends))
				}
				for _, f := range friends {
					if !set.Contains(f) {
						t.Errorf("user %d: missing friend %d", id, f)
					}
				}
			}
		})
	}
}

func TestGraphUsersSorted(t *testing.T) {
	g, err := ParseRelation(strings.NewReader("30 1\n2 1\n100 1\n7 1\n"))
	if err != nil {
		t.Fatalf("ParseRelation() error = %v", err)
	}

	got := g.Users()
	want := []UserID{2, 7, 30, 100}
	if len(got) != len(want) {
		t.Fatalf("Users() length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Users()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestGraphFriendsUnknownUser(t *testing.T) {
	g, err := ParseRelation(strings.NewReader("1 2\n"))
	if err != nil {
		t.Fatalf("ParseRelation() error = %v", err)
	}

	if g.HasUser(2) {
		t.Error("HasUser(2) = true for user without its own line")
	}
	if set := g.Friends(2); set.Contains(1) {
		t.Error("Friends(2) unexpectedly contains entries")
	}
}
