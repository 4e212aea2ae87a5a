package session

import "errors"

var (
	// ErrSnapshotMismatch is returned when a snapshot is restored against a
	// different exercise than the one it was saved for.
	ErrSnapshotMismatch = errors.New("snapshot does not belong to this exercise")
)
