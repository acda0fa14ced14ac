// Package transform edits run configurations: single-field changes parsed from
// "name:key=value" specs, and named templates of policyholder behavior and rate shocks.
package transform

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/myga/internal/domain"
)

// RunTransform is one edit to a run configuration.
type RunTransform interface {
	// Apply returns an edited copy; base is left untouched.
	Apply(base *domain.RunConfiguration) (*domain.RunConfiguration, error)

	// Name is the registry key, e.g. "set_withdrawal".
	Name() string

	Description() string

	// Validate reports whether Apply would succeed on base.
	Validate(base *domain.RunConfiguration) error
}

// ApplyTransforms validates and applies transforms left to right. The result never
// shares pointers with base, even when the chain is empty.
func ApplyTransforms(base *domain.RunConfiguration, transforms []RunTransform) (*domain.RunConfiguration, error) {
	if base == nil {
		return nil, fmt.Errorf("base run cannot be nil")
	}

	run := base.DeepCopy()
	for i, t := range transforms {
		if t == nil {
			return nil, fmt.Errorf("transform %d of %d is nil", i+1, len(transforms))
		}
		if err := t.Validate(run); err != nil {
			return nil, fmt.Errorf("transform %s validation failed: %w", t.Name(), err)
		}
		next, err := t.Apply(run)
		if err != nil {
			return nil, fmt.Errorf("transform %s failed: %w", t.Name(), err)
		}
		run = next
	}
	return run, nil
}

// Describe joins the descriptions of a transform chain, or "Base run" when it is empty.
func Describe(transforms []RunTransform) string {
	if len(transforms) == 0 {
		return "Base run"
	}
	parts := make([]string, len(transforms))
	for i, t := range transforms {
		parts[i] = t.Description()
	}
	return strings.Join(parts, "; ")
}

// TransformError reports which transform rejected a run and why.
type TransformError struct {
	TransformName string
	Operation     string // "validate" or "apply"
	Reason        string
	Err           error
}

func (e *TransformError) Error() string {
	msg := fmt.Sprintf("transform %s (%s): %s", e.TransformName, e.Operation, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *TransformError) Unwrap() error { return e.Err }

// NewTransformError creates a new TransformError.
func NewTransformError(transformName, operation, reason string, err error) error {
	return &TransformError{TransformName: transformName, Operation: operation, Reason: reason, Err: err}
}
