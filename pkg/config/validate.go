package config

import (
	"fmt"
	"strings"
	"time"
)

// Default values for configuration fields.
const (
	// DefaultSweepGrace keeps records for a full extra hour past window
	// expiry before a scheduled sweep may remove them.
	DefaultSweepGrace = Duration(time.Hour)
)

// FieldError represents a validation error for a specific field.
type FieldError struct {
	// Field is the dotted path to the field (e.g., "policies.greet-user.count").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError collects all validation errors found in a policy file.
type ValidationError struct {
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "policy validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("policy validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "policy validation failed with %d errors:\n", len(e.Errors))
	for _, err := range e.Errors {
		fmt.Fprintf(&sb, "  - %s\n", err.Error())
	}
	return sb.String()
}

// Validate validates a policy configuration after defaults have been
// applied. It returns a ValidationError listing every problem found, or
// nil if the configuration is valid.
func Validate(cfg *Config) error {
	var errs []FieldError

	for name, policy := range cfg.Policies {
		if name == "" {
			errs = append(errs, FieldError{
				Field:   "policies",
				Message: "policy name must not be empty",
			})
		}
		if policy.Count == 0 {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("policies.%s.count", name),
				Message: "count must be positive",
			})
		}
		if policy.Window < 0 {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("policies.%s.window", name),
				Message: "window must not be negative",
			})
		}
	}

	if cfg.Sweep.Grace < 0 {
		errs = append(errs, FieldError{
			Field:   "sweep.grace",
			Message: "grace must not be negative",
		})
	}

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}
