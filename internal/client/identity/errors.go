package identity

import (
	"context"
	"errors"
)

// Kind classifies provider failures. The values double as status reasons.
type Kind string

const (
	KindCredentialsInUse    Kind = "credentials-in-use"
	KindMalformedEmail      Kind = "malformed-email"
	KindInvalidCredentials  Kind = "invalid-credentials"
	KindRequiresRecentLogin Kind = "requires-recent-login"
	KindOther               Kind = "other"
)

const msgUnavailable = "identity service unavailable"

// ProviderError is the classified failure of an identity provider call.
// Message is suitable for the user; Err keeps the underlying cause.
type ProviderError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Kind)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Is matches another *ProviderError by Kind, so callers can write
// errors.Is(err, &ProviderError{Kind: KindInvalidCredentials}).
func (e *ProviderError) Is(target error) bool {
	t, ok := target.(*ProviderError)
	return ok && t.Kind == e.Kind
}

// Classify returns the Kind of err. Errors that did not come from a
// provider are KindOther; nil has no kind.
func Classify(err error) Kind {
	if err == nil {
		return ""
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindOther
}

// Message returns the human-readable provider message carried by err, or ""
// when there is none.
func Message(err error) string {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Message
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return msgUnavailable
	}
	return ""
}
