package config

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "ledger.repo")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all validation
// errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError
	errors = append(errors, c.validateLedger()...)
	errors = append(errors, c.validateLockable()...)
	errors = append(errors, c.validateLogging()...)
	return errors
}

func (c *Config) validateLedger() []ValidationError {
	var errors []ValidationError

	if c.Ledger.File == "" {
		errors = append(errors, ValidationError{
			Field:   "ledger.file",
			Value:   c.Ledger.File,
			Message: "ledger file name must not be empty",
		})
	}
	if strings.ContainsAny(c.Ledger.File, "/\\") {
		errors = append(errors, ValidationError{
			Field:   "ledger.file",
			Value:   c.Ledger.File,
			Message: "ledger file name must not contain path separators",
		})
	}
	if c.Ledger.Remote == "" {
		errors = append(errors, ValidationError{
			Field:   "ledger.remote",
			Value:   c.Ledger.Remote,
			Message: "remote name must not be empty",
		})
	}

	return errors
}

func (c *Config) validateLockable() []ValidationError {
	var errors []ValidationError

	if c.Lockable.File == "" {
		errors = append(errors, ValidationError{
			Field:   "lockable.file",
			Value:   c.Lockable.File,
			Message: "pattern file name must not be empty",
		})
	}

	return errors
}

func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	return errors
}
