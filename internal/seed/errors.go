package seed

import "errors"

var (
	// ErrInvalidConfig is returned when a run is configured with impossible counts.
	ErrInvalidConfig = errors.New("invalid seed config")
	// ErrVerification is returned when the service state does not match what was seeded.
	ErrVerification = errors.New("verification failed")
)
