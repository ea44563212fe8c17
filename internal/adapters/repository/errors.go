package repository

import "errors"

// Sentinel kinds for record store errors.
var (
	ErrInvalidRecord = errors.New("invalid record")
)
