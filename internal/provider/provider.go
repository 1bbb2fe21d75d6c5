// Package provider defines the LLM text-generation boundary and its
// Gemini implementation.
package provider

import (
	"context"
	"fmt"
)

// Options carries per-call generation parameters.
type Options struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// Provider is the external LLM text-generation capability. Generate
// returns the raw response text or an *Error on authentication, quota,
// or transport failure.
type Provider interface {
	Generate(ctx context.Context, prompt string, opts Options) (string, error)
}

// Kind classifies provider failures.
type Kind string

const (
	KindAuth      Kind = "auth"
	KindQuota     Kind = "quota"
	KindTransport Kind = "transport"
	KindResponse  Kind = "response"
)

// Error is a provider-boundary failure. The orchestrator treats any
// provider error as zero artifacts for the affected persona; it is
// never fatal to sibling work.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("provider %s: %s failure", e.Op, e.Kind)
	}
	return fmt.Sprintf("provider %s: %s failure: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// IsAuth reports whether the error is a missing or rejected credential.
func IsAuth(err error) bool {
	var pe *Error
	return asProviderError(err, &pe) && pe.Kind == KindAuth
}
