package models

import "errors"

// Error taxonomy shared by all generators. Every failure returned from the
// pipeline wraps exactly one of these sentinels so callers can classify it
// with errors.Is.
var (
	// ErrConfiguration marks invalid or inconsistent generation parameters.
	ErrConfiguration = errors.New("configuration error")

	// ErrReferentialIntegrity marks a downstream generator referencing an
	// entity absent upstream. Fatal; the run aborts with no partial tables.
	ErrReferentialIntegrity = errors.New("referential integrity error")

	// ErrDistribution marks a statistical parameter producing an invalid
	// domain, such as a negative duration.
	ErrDistribution = errors.New("distribution error")
)
