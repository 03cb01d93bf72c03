package tools

import "errors"

var (
	// ErrNotFound indicates the tool does not exist.
	ErrNotFound = errors.New("tool not found")
)
