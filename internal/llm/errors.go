package llm

import (
	"errors"
	"fmt"

	"github.com/jonathan/job-matcher/internal/types"
)

// ErrorKind classifies provider failures so callers can react without
// string-matching upstream messages.
type ErrorKind string

// Provider failure kinds
const (
	KindMissingCredential  ErrorKind = "missing_credential"
	KindInvalidKey         ErrorKind = "invalid_key"
	KindRateLimited        ErrorKind = "rate_limited"
	KindInsufficientFunds  ErrorKind = "insufficient_funds"
	KindTimeout            ErrorKind = "timeout"
	KindProviderError      ErrorKind = "provider_error"
	KindCatalogUnavailable ErrorKind = "catalog_unavailable"
)

// ProviderError is the typed error returned by every provider adapter.
// Status carries the upstream HTTP status when the failure came from a
// non-2xx response.
type ProviderError struct {
	Kind     ErrorKind
	Provider types.Provider
	Status   int
	Message  string
	Cause    error
}

func (e *ProviderError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.Provider != "" {
		msg = fmt.Sprintf("%s %s", e.Provider, msg)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// IsKind reports whether err is a ProviderError of the given kind
func IsKind(err error, kind ErrorKind) bool {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Kind == kind
	}
	return false
}
