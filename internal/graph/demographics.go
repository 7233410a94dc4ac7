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

// DemographicRecord holds the fixed attribute tuple for one user.
// Gender and education are binary codes; city is an opaque categorical
// code compared only for equality.
type DemographicRecord struct {
	UserID          UserID
	Gender          uint8
	Age             int
	City            string
	HigherEducation bool
}

// Demographics maps users to their attribute records. UserIds absent from
// the map produce incomplete joins downstream rather than errors.
type Demographics map[UserID]DemographicRecord

// ParseDemographics reads a demographic attribute file.
//
// Each line must be "<UserId> <gender>, <age>, <city>, <education>" with
// exactly four comma-space separated attributes after the first space.
// Gender and education must be 0 or 1, age a non-negative integer, and
// city non-empty. Blank lines are skipped. A UserId appearing twice
// aborts the parse.
func ParseDemographics(r io.Reader) (Demographics, error) {
	demo := make(Demographics)

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
		if _, dup := demo[id]; dup {
			return nil, &FormatError{Line: lineNo, Reason: fmt.Sprintf("duplicate user id %d", id)}
		}

		fields := strings.Split(rest, ", ")
		if len(fields) != 4 {
			return nil, &FormatError{Line: lineNo, Reason: fmt.Sprintf("expected 4 attributes, got %d", len(fields))}
		}

		rec := DemographicRecord{UserID: id}

		rec.Gender, err = parseBinaryCode(fields[0], "gender")
		if err != nil {
			return nil, &FormatError{Line: lineNo, Reason: err.Error()}
		}

		age, err := strconv.Atoi(strings.TrimSpace(fields[1]))
		if err != nil || age < 0 {
			return nil, &FormatError{Line: lineNo, Reason: fmt.Sprintf("invalid age %q", fields[1])}
		}
		rec.Age = age

		rec.City = strings.TrimSpace(fields[2])
		if rec.City == "" {
			return nil, &FormatError{Line: lineNo, Reason: "empty city"}
		}

		edu, err := parseBinaryCode(fields[3], "education")
		if err != nil {
			return nil, &FormatError{Line: lineNo, Reason: err.Error()}
		}
		rec.HigherEducation = edu == 1

		demo[id] = rec
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read demographic input: %w", err)
	}

	return demo, nil
}

func parseBinaryCode(s, name string) (uint8, error) {
	switch strings.TrimSpace(s) {
	case "0":
		return 0, nil
	case "1":
		return 1, nil
	default:
		return 0, fmt.Errorf("invalid %s code %q", name, s)
	}
}
