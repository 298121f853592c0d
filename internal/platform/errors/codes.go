// Package errors provides structured error handling for the deck core.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Validation errors
	CodeValidationFailed Code = "VALIDATION_FAILED"

	// Storage errors
	CodeStorageUnavailable Code = "STORAGE_UNAVAILABLE"
	CodeStorageWriteFailed Code = "STORAGE_WRITE_FAILED"
	CodeStorageReadFailed  Code = "STORAGE_READ_FAILED"
	CodeNotFound           Code = "NOT_FOUND"

	// Coordinator errors
	CodeNoActiveDeck Code = "NO_ACTIVE_DECK"

	// Transport errors
	CodeDecodeError      Code = "DECODE_ERROR"
	CodeDeckNotShareable Code = "DECK_NOT_SHAREABLE"
)
