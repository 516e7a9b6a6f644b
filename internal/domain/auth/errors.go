package auth

import (
	"errors"
	"fmt"
)

// ErrorKind classifies authentication failures.
type ErrorKind string

const (
	// ErrInvalidCredentials means the sign-in was rejected. Recoverable;
	// shown to the user, no session state change.
	ErrInvalidCredentials ErrorKind = "invalid_credentials"
	// ErrNetworkFailure means the provider was unreachable.
	ErrNetworkFailure ErrorKind = "network_failure"
	// ErrProviderError means the provider failed unexpectedly.
	ErrProviderError ErrorKind = "provider_error"
)

// AuthError is the error surfaced by auth providers and the session
// service. Passive session resolution never propagates these; they are
// returned only from explicit sign-in/sign-out calls.
type AuthError struct {
	Kind  ErrorKind
	Cause error
}

func (e *AuthError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Cause)
	}
	return string(e.Kind)
}

func (e *AuthError) Unwrap() error { return e.Cause }

// NewAuthError wraps cause with an error kind.
func NewAuthError(kind ErrorKind, cause error) *AuthError {
	return &AuthError{Kind: kind, Cause: cause}
}

// KindOf extracts the ErrorKind from err. Unrecognized errors are
// reported as ErrProviderError.
func KindOf(err error) ErrorKind {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return ErrProviderError
}

// IsInvalidCredentials reports whether err is a rejected sign-in.
func IsInvalidCredentials(err error) bool {
	return KindOf(err) == ErrInvalidCredentials
}
