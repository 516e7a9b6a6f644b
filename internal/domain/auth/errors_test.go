package auth

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	base := errors.New("boom")
	cases := []struct {
		err  error
		want ErrorKind
	}{
		{NewAuthError(ErrInvalidCredentials, nil), ErrInvalidCredentials},
		{NewAuthError(ErrNetworkFailure, base), ErrNetworkFailure},
		{fmt.Errorf("wrapped: %w", NewAuthError(ErrProviderError, base)), ErrProviderError},
		{base, ErrProviderError},
	}
	for _, tc := range cases {
		if got := KindOf(tc.err); got != tc.want {
			t.Errorf("KindOf(%v) = %s, want %s", tc.err, got, tc.want)
		}
	}
}

func TestAuthError_Unwrap(t *testing.T) {
	base := errors.New("bad password")
	err := NewAuthError(ErrInvalidCredentials, base)
	if !errors.Is(err, base) {
		t.Fatalf("expected errors.Is to find cause")
	}
	if !IsInvalidCredentials(err) {
		t.Fatalf("expected invalid credentials kind")
	}
}
