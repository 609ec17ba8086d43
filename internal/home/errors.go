package home

import "errors"

// Domain errors for snapshot loading.
var (
	// ErrInvalidSnapshot is returned when a snapshot document fails schema
	// validation or cannot be decoded.
	ErrInvalidSnapshot = errors.New("home: invalid snapshot")

	// ErrUnsupportedFormat is returned when a snapshot file has an
	// extension the loader does not understand.
	ErrUnsupportedFormat = errors.New("home: unsupported snapshot format")
)
