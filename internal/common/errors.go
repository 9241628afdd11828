// Package common holds small types and sentinel errors shared across the
// scanner, aggregator, index, auth and API packages.
package common

import "errors"

// Error kinds per the core error-handling design: I/O, format, auth,
// validation and lifecycle.
var (
	// I/O
	ErrStatFailed    = errors.New("stat failed")
	ErrReadDirFailed = errors.New("read directory failed")
	ErrShardWrite    = errors.New("shard write failed")
	ErrRowRead       = errors.New("csv row read failed")

	// Format
	ErrBadMagic         = errors.New("bad magic number")
	ErrTruncatedRecord  = errors.New("truncated input")
	ErrWrongCSVHeader   = errors.New("wrong csv header")

	// Auth
	ErrMissingCredentials = errors.New("missing credentials")
	ErrWrongCredentials   = errors.New("wrong credentials")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenCreation      = errors.New("token creation failed")

	// Validation
	ErrMissingPath   = errors.New("missing path")
	ErrMalformedQuery = errors.New("malformed query")

	// Lifecycle
	ErrOutputExists   = errors.New("output already exists")
	ErrOutputDirBad   = errors.New("output directory missing or not writable")
	ErrPortInUse      = errors.New("port already in use")
)
