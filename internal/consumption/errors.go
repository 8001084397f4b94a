package consumption

import "github.com/cockroachdb/errors"

var (
	// ErrDataNotFound is returned when a car has no backing record set.
	ErrDataNotFound = errors.New("data not found")

	// ErrMalformedRecord is returned for a missing or invalid field or an unparseable date.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrInvalidDelta is returned when the distance does not strictly increase
	// between two adjacent records.
	ErrInvalidDelta = errors.New("invalid delta")

	// ErrInsufficientHistory is returned when fewer than two records are available,
	// or a window has no anchor to measure against.
	ErrInsufficientHistory = errors.New("insufficient history")
)
