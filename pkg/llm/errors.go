package llm

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidInput marks malformed client input. Maps to a 4xx response.
	ErrInvalidInput = errors.New("invalid input")

	// ErrProvider marks a failed call to an upstream LLM vendor.
	ErrProvider = errors.New("provider error")

	// ErrConfiguration marks a startup configuration problem.
	ErrConfiguration = errors.New("configuration error")
)

// InvalidInputf returns an error wrapping ErrInvalidInput.
func InvalidInputf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// ProviderError is returned by adapters when the vendor call fails for any
// reason: network, authentication, non-2xx status or an unreadable response.
type ProviderError struct {
	Provider string

	// StatusCode is the vendor HTTP status when one was received, 0 otherwise.
	StatusCode int

	Cause error
}

// NewProviderError wraps cause as a ProviderError for the named provider.
func NewProviderError(provider string, statusCode int, cause error) *ProviderError {
	return &ProviderError{Provider: provider, StatusCode: statusCode, Cause: cause}
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("provider %s: status %d: %v", e.Provider, e.StatusCode, e.Cause)
	}
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Cause)
}

func (e *ProviderError) Unwrap() []error {
	return []error{ErrProvider, e.Cause}
}

// ConfigurationError is fatal at startup: an unknown provider identifier,
// missing credentials, or knobs rejected in strict mode.
type ConfigurationError struct {
	Key    string
	Reason string

	// Supported lists the accepted values for Key, when that is meaningful.
	Supported []string
}

func (e *ConfigurationError) Error() string {
	msg := fmt.Sprintf("invalid %s: %s", e.Key, e.Reason)
	if len(e.Supported) > 0 {
		msg += " (supported: " + strings.Join(e.Supported, ", ") + ")"
	}
	return msg
}

func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}

// ErrorResponse is the JSON body returned to HTTP clients on failure.
type ErrorResponse struct {
	Error string `json:"error"`
}
