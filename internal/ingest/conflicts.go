package ingest

import (
	"bytes"
)

// Conflict marker prefixes as written by git merge (diff3 style included).
var (
	markerOurs   = []byte("<<<<<<<")
	markerBase   = []byte("|||||||")
	markerSplit  = []byte("=======")
	markerTheirs = []byte(">>>>>>>")
)

// ConflictSplit holds the two candidate texts recovered from a file with
// unresolved conflict markers.
type ConflictSplit struct {
	Ours   []byte
	Theirs []byte
	Hunks  int
}

// HasConflictMarkers reports whether data contains a line starting a conflict hunk.
func HasConflictMarkers(data []byte) bool {
	for _, line := range bytes.SplitAfter(data, []byte("\n")) {
		if bytes.HasPrefix(line, markerOurs) {
			return true
		}
	}
	return false
}

type splitState int

const (
	stateShared splitState = iota
	stateOurs
	stateBase
	stateTheirs
)

// SplitConflicts separates a conflicted file into "ours" and "theirs".
// Lines outside hunks go to both sides; the diff3 base section is dropped.
func SplitConflicts(data []byte) (*ConflictSplit, error) {
	var ours, theirs bytes.Buffer
	res := &ConflictSplit{}
	state := stateShared
	openedAt := 0

	for i, line := range bytes.SplitAfter(data, []byte("\n")) {
		lineNo := i + 1
		switch {
		case bytes.HasPrefix(line, markerOurs):
			if state != stateShared {
				return nil, ErrMalformedConflict.WithContext("line", lineNo)
			}
			state, openedAt = stateOurs, lineNo
		case bytes.HasPrefix(line, markerBase):
			if state != stateOurs {
				return nil, ErrMalformedConflict.WithContext("line", lineNo)
			}
			state = stateBase
		case state != stateShared && isSplitMarker(line):
			if state == stateTheirs {
				return nil, ErrMalformedConflict.WithContext("line", lineNo)
			}
			state = stateTheirs
		case bytes.HasPrefix(line, markerTheirs):
			if state != stateTheirs {
				return nil, ErrMalformedConflict.WithContext("line", lineNo)
			}
			state = stateShared
			res.Hunks++
		default:
			switch state {
			case stateShared:
				ours.Write(line)
				theirs.Write(line)
			case stateOurs:
				ours.Write(line)
			case stateTheirs:
				theirs.Write(line)
			}
		}
	}
	if state != stateShared {
		return nil, ErrMalformedConflict.WithContext("line", openedAt)
	}

	res.Ours = ours.Bytes()
	res.Theirs = theirs.Bytes()
	return res, nil
}

// isSplitMarker matches "=======" alone on its line, so YAML separators such
// as "========" in content are left alone.
func isSplitMarker(line []byte) bool {
	return bytes.Equal(bytes.TrimRight(line, "\r\n"), markerSplit)
}
