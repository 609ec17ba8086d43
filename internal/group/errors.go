package group

import "errors"

var (
	// ErrGroupNotFound is returned when a group ID does not exist.
	ErrGroupNotFound = errors.New("group: not found")

	// ErrGroupExists is returned when a group with the same ID already exists.
	ErrGroupExists = errors.New("group: already exists")

	// ErrInvalidGroup is returned when group validation fails.
	ErrInvalidGroup = errors.New("group: invalid")
)
