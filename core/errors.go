package core

import "errors"

// Sentinel errors shared by the registry, resolvers and command surface.
// Everything else that bubbles up from the store is treated as a store
// failure and wrapped with context at each layer.
var (
	// ErrNotFound means a referenced channel, connection or rule is absent.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists reports a duplicate create. It is a no-op for the
	// caller, not a failure.
	ErrAlreadyExists = errors.New("already exists")

	// ErrDeliveryUnavailable means the platform refused webhook creation or
	// execution for one target.
	ErrDeliveryUnavailable = errors.New("delivery unavailable")

	// ErrNoCandidates means the matcher was given an empty candidate list.
	// Callers display an empty result, not an error.
	ErrNoCandidates = errors.New("no candidates")
)

// IsNotFoundError checks if an error is a "not found" error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExistsError checks if an error reports a duplicate create
func IsAlreadyExistsError(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsDeliveryUnavailableError checks if an error is a per-target delivery failure
func IsDeliveryUnavailableError(err error) bool {
	return errors.Is(err, ErrDeliveryUnavailable)
}
