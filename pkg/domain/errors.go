package domain

import "errors"

// ErrInvalidID is returned when a required id is zero or negative. No request is issued.
var ErrInvalidID = errors.New("invalid id")

// ErrFetchFailed wraps transport and decode failures from the remote source.
var ErrFetchFailed = errors.New("fetch failed")

// ErrNotFound is returned when the remote source has no entity for the requested id.
var ErrNotFound = errors.New("not found")

// ErrStaleRefresh is returned when a refresh finished after a newer one had started.
// Its fragment is discarded instead of mounted.
var ErrStaleRefresh = errors.New("stale refresh discarded")

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")
