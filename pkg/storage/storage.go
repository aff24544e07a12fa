// Package storage defines errors shared by the document store
// implementations. Each entity is owned and mutated by exactly one service;
// cross-service effects happen only through events.
package storage

import "errors"

var (
	// ErrNotFound is returned when no document matches the given filter.
	ErrNotFound = errors.New("storage: not found")

	// ErrAlreadyExists is returned when an insert violates a unique index.
	// Consumers treat it as "already applied" when reprocessing events.
	ErrAlreadyExists = errors.New("storage: already exists")
)
