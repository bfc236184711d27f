package vsa

import "errors"

var (
	// ErrEmptyCodebook is returned when an operation needs at least one chunk.
	ErrEmptyCodebook = errors.New("vsa: codebook is empty")

	// ErrNotDirectory is returned by IngestDir for a path that is not a directory.
	ErrNotDirectory = errors.New("vsa: not a directory")

	// ErrInvalidFanout is returned by BuildHierarchy for a fanout below 2.
	ErrInvalidFanout = errors.New("vsa: fanout must be at least 2")
)
