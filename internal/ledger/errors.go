package ledger

import "errors"

// The error kinds the engine returns across its API boundary. Callers
// match with errors.Is; everything the engine returns wraps exactly one
// of these.
var (
	// ErrInvalidReference is returned when an operation names an account
	// or category that does not exist, or one that is archived where
	// archival forbids the operation.
	ErrInvalidReference = errors.New("the referenced resource does not exist or is archived")

	// ErrInvalidTransfer is returned when a transfer references identical
	// source and destination accounts.
	ErrInvalidTransfer = errors.New("a transfer needs two different accounts")

	// ErrValidation is returned when an amount or date is outside the
	// acceptable domain.
	ErrValidation = errors.New("the request contains invalid data")

	// ErrNotFound is returned when a lookup by identifier finds no
	// matching record.
	ErrNotFound = errors.New("there is no resource matching your request")

	// ErrConflict is returned when a mutating operation detects that its
	// target was concurrently modified. The caller must re-read and retry.
	ErrConflict = errors.New("the resource was modified by a concurrent request, please reload and retry")

	// ErrStorageUnavailable is returned when the persistence layer fails.
	// Fatal to the current operation, not to the process.
	ErrStorageUnavailable = errors.New("the database is currently unavailable")
)
