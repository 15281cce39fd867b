package domain

import "errors"

var (
	// ErrSourceUnavailable is returned when an asset or event source cannot be read or parsed
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrAssetNotFound marks an event that references an unknown asset id
	ErrAssetNotFound = errors.New("asset not found")

	// ErrSinkWriteFailure is returned when the final-state sink cannot be written
	ErrSinkWriteFailure = errors.New("sink write failure")
)
