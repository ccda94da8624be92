// Package util provides logging, error taxonomy, and small shared helpers.
package util

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure conditions
var (
	ErrNotFound         = errors.New("resource not found")
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrValidationFailed = errors.New("validation failed")
)

// Category classifies an error for retry and exit-code decisions.
type Category string

const (
	CategoryConfig    Category = "config"    // bad input, unknown platform, malformed template
	CategoryAuth      Category = "auth"      // authentication rejected; never retried
	CategoryTransient Category = "transient" // timeouts, refused connections, 429/5xx
	CategoryParse     Category = "parse"     // template yielded nothing usable
	CategorySemantic  Category = "semantic"  // referenced entity missing; warn and continue
	CategoryCancel    Category = "cancel"    // run cancelled; not a failure
	CategoryInternal  Category = "internal"  // everything else
)

// Categorizer is implemented by typed errors that know their own category.
type Categorizer interface {
	Category() Category
}

// CategoryOf walks the error chain and returns the first declared category.
// Context cancellation maps to CategoryCancel; unclassified errors are internal.
func CategoryOf(err error) Category {
	if err == nil {
		return ""
	}
	for e := err; e != nil; e = errors.Unwrap(e) {
		if c, ok := e.(Categorizer); ok {
			return c.Category()
		}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return CategoryCancel
	}
	if errors.Is(err, ErrInvalidConfig) || errors.Is(err, ErrValidationFailed) {
		return CategoryConfig
	}
	return CategoryInternal
}

// IsRetryable reports whether an error is worth retrying. Only transient
// transport failures qualify; auth failures in particular never do.
func IsRetryable(err error) bool {
	return CategoryOf(err) == CategoryTransient
}

// ValidationError represents one or more validation failures
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return "validation failed: " + e.Errors[0]
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

func (e *ValidationError) Category() Category {
	return CategoryConfig
}

// NewValidationError creates a validation error from messages
func NewValidationError(messages ...string) *ValidationError {
	return &ValidationError{Errors: messages}
}

// ValidationBuilder helps accumulate validation errors
type ValidationBuilder struct {
	errors []string
}

// Add adds an error message if condition is false
func (v *ValidationBuilder) Add(condition bool, message string) *ValidationBuilder {
	if !condition {
		v.errors = append(v.errors, message)
	}
	return v
}

// AddError adds an error message unconditionally
func (v *ValidationBuilder) AddError(message string) *ValidationBuilder {
	v.errors = append(v.errors, message)
	return v
}

// AddErrorf adds a formatted error message
func (v *ValidationBuilder) AddErrorf(format string, args ...interface{}) *ValidationBuilder {
	v.errors = append(v.errors, fmt.Sprintf(format, args...))
	return v
}

// HasErrors returns true if there are validation errors
func (v *ValidationBuilder) HasErrors() bool {
	return len(v.errors) > 0
}

// Build returns the validation error or nil if no errors
func (v *ValidationBuilder) Build() error {
	if len(v.errors) == 0 {
		return nil
	}
	return &ValidationError{Errors: v.errors}
}
