package index

import "errors"

var (
	// ErrStoreDisabled means the cache feature is turned off. Not an
	// error state: callers fall back to filesystem scans silently.
	ErrStoreDisabled = errors.New("store disabled")

	// ErrStoreUnavailable means the store could not be opened or written.
	// Fatal for the current operation; retried only on the next call.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrFileUnavailable means the source file is missing or unreadable.
	// Bulk operations skip-and-count it; single-file operations surface it.
	ErrFileUnavailable = errors.New("file unavailable")
)
