package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy for the media core. Callers classify failures with
// errors.Is; the HTTP layer maps them onto status codes.
var (
	// ErrNotFound covers both a missing metadata record and a missing
	// storage key.
	ErrNotFound = errors.New("not found")

	// ErrDecode covers malformed or unsupported image bytes.
	ErrDecode = errors.New("decode error")

	// ErrBackend covers storage I/O and transport failures.
	ErrBackend = errors.New("backend error")

	// ErrConfig covers invalid backend configuration at startup.
	ErrConfig = errors.New("config error")
)

// NotFoundf wraps ErrNotFound with context.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}

// DecodeErrorf wraps ErrDecode with context.
func DecodeErrorf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrDecode)...)
}

// BackendErrorf wraps ErrBackend with context.
func BackendErrorf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrBackend)...)
}

// ConfigErrorf wraps ErrConfig with context.
func ConfigErrorf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrConfig)...)
}
