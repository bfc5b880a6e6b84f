package common

import (
	"errors"
	"fmt"
)

// Common error types
var (
	// ErrCooldownActive indicates a recovery attempt was refused because
	// the cooldown window has not elapsed
	ErrCooldownActive = errors.New("recovery cooldown active")

	// ErrUnsupportedManager indicates no supported network manager is active
	ErrUnsupportedManager = errors.New("unsupported network manager")

	// ErrVerificationFailed indicates a restart completed but the service
	// or link did not come back healthy
	ErrVerificationFailed = errors.New("recovery verification failed")

	// ErrProbeUnavailable indicates a probe could not be executed at all
	ErrProbeUnavailable = errors.New("probe unavailable")
)

// IsCooldownActive checks if err is or wraps ErrCooldownActive
func IsCooldownActive(err error) bool {
	return errors.Is(err, ErrCooldownActive)
}

// IsUnsupportedManager checks if err is or wraps ErrUnsupportedManager
func IsUnsupportedManager(err error) bool {
	return errors.Is(err, ErrUnsupportedManager)
}

// IsVerificationFailed checks if err is or wraps ErrVerificationFailed
func IsVerificationFailed(err error) bool {
	return errors.Is(err, ErrVerificationFailed)
}

// IsProbeUnavailable checks if err is or wraps ErrProbeUnavailable
func IsProbeUnavailable(err error) bool {
	return errors.Is(err, ErrProbeUnavailable)
}

// UnsupportedManagerError returns a wrapped unsupported manager error with context
func UnsupportedManagerError(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrUnsupportedManager)
}

// VerificationFailedError returns a wrapped verification error with context
func VerificationFailedError(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrVerificationFailed)
}

// ProbeUnavailableError returns a wrapped probe unavailable error with context
func ProbeUnavailableError(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrProbeUnavailable)
}
