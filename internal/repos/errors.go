package repos

import "errors"

var (
	// ErrNotFound indicates the repository record does not exist.
	ErrNotFound = errors.New("repo not found")

	// ErrNoFingerprint indicates the repository exists but has not been analyzed.
	ErrNoFingerprint = errors.New("repo has no fingerprint")

	// ErrInvalidInput indicates validation or bad input.
	ErrInvalidInput = errors.New("invalid input")
)
