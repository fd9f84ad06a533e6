package repository

import "errors"

// Sentinel errors surfaced to the service layer.
var (
	// ErrNotFound reports a write that matched no rows.
	ErrNotFound = errors.New("record not found")
	// ErrNoCapacity reports a reservation attempt against a full or closed day.
	ErrNoCapacity = errors.New("no remaining session capacity")
)
