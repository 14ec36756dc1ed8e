package repository

import "errors"

// Sentinel kinds for registry errors.
var (
	ErrNotFound = errors.New("dataset not found")
)
