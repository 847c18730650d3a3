// Package errors provides centralized error definitions and error handling
// utilities for the simplelock codebase. It defines the lock-protocol error
// taxonomy, error constructors with context wrapping, and classification
// helpers used by the CLI layer to pick exit codes.
//
// # Error Types
//
// The package provides two categories of errors:
//
// Protocol errors represent outcomes of the lock coordination protocol:
//   - LockConflictError: the key is already held by another user
//   - PermissionDeniedError: release attempted by a non-owner without --force
//   - SyncError: the publish race was lost or the ledger repository is
//     unreachable
//   - LedgerError: the ledger content fails to parse against the schema
//
// Semantic errors represent common error conditions:
//   - ValidationError: invalid input or state
//
// # Usage
//
// Creating errors:
//
//	// Protocol error with context
//	err := errors.NewLockConflictError("spec.docx", "alice", "editing")
//
//	// Git-layer error with captured output
//	err := errors.NewSyncError("push rejected", errors.ErrSyncConflict).
//		WithRepository(path).
//		WithGitOutput(out)
//
// Checking errors:
//
//	// Check for specific sentinel errors
//	if errors.Is(err, errors.ErrSyncConflict) { ... }
//
//	// Check for error types
//	var conflict *errors.LockConflictError
//	if errors.As(err, &conflict) { ... }
//
//	// Use classification helpers
//	if errors.IsRetryable(err) { ... }
//	if errors.IsUserFacing(err) { ... }
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityDebug is for errors that are useful for debugging but not critical.
	SeverityDebug Severity = iota
	// SeverityInfo is for informational errors that don't indicate a problem.
	SeverityInfo
	// SeverityWarning is for errors that might indicate a problem but aren't critical.
	SeverityWarning
	// SeverityError is for errors that indicate a real problem.
	SeverityError
	// SeverityCritical is for errors that require immediate attention.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Lock-protocol sentinel errors
var (
	// ErrLockConflict indicates that the key is already locked by another user.
	ErrLockConflict = New("file is already locked")
	// ErrNotLocked indicates a release of a key that holds no lock.
	ErrNotLocked = New("file is not locked")
	// ErrPermissionDenied indicates a release attempted by a non-owner without force.
	ErrPermissionDenied = New("lock is owned by another user")
)

// Sync-coordinator sentinel errors
var (
	// ErrSyncConflict indicates that the publish race was lost: the remote
	// advanced past the pulled revision and the whole cycle must be re-run.
	ErrSyncConflict = New("ledger push rejected, remote has advanced")
	// ErrRepositoryUnavailable indicates a network, auth, or access failure
	// reaching the shared ledger repository.
	ErrRepositoryUnavailable = New("ledger repository unavailable")
	// ErrMalformedLedger indicates ledger content that fails to parse against
	// the record schema.
	ErrMalformedLedger = New("malformed ledger")
)

// Resolver sentinel errors
var (
	// ErrNoIdentity indicates that no user identity is configured in the work
	// repository.
	ErrNoIdentity = New("no user identity configured")
	// ErrDetachedHead indicates that the work repository has no named branch
	// checked out.
	ErrDetachedHead = New("work repository is not on a named branch")
	// ErrNotGitRepository indicates that the directory is not a git repository.
	ErrNotGitRepository = New("not a git repository")
)

// General sentinel errors
var (
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
)

// -----------------------------------------------------------------------------
// Base Error Interface
// -----------------------------------------------------------------------------

// ProtocolError is the base interface for all simplelock errors.
// It extends the standard error interface with additional methods for
// error handling and classification.
type ProtocolError interface {
	error

	// Unwrap returns the underlying error, if any.
	Unwrap() error

	// Is reports whether this error matches the target error.
	// This is used by errors.Is() for error comparison.
	Is(target error) bool

	// Severity returns the severity level of this error.
	Severity() Severity

	// IsRetryable returns true if re-running the whole command may succeed.
	IsRetryable() bool

	// IsUserFacing returns true if the error message is safe to display
	// to end users.
	IsUserFacing() bool
}

// -----------------------------------------------------------------------------
// Base Error Implementation
// -----------------------------------------------------------------------------

// baseError provides common functionality for all error types.
type baseError struct {
	message    string
	cause      error
	severity   Severity
	retryable  bool
	userFacing bool
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Is checks if this error matches the target.
func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// Severity returns the error severity.
func (e *baseError) Severity() Severity {
	return e.severity
}

// IsRetryable returns whether the error is retryable.
func (e *baseError) IsRetryable() bool {
	return e.retryable
}

// IsUserFacing returns whether the error is safe to show users.
func (e *baseError) IsUserFacing() bool {
	return e.userFacing
}

// -----------------------------------------------------------------------------
// Protocol Errors
// -----------------------------------------------------------------------------

// LockConflictError reports an acquire on a key already held by another user.
//
// Example:
//
//	err := errors.NewLockConflictError("docs/spec.docx", "alice", "editing")
//	fmt.Println(err) // "lock conflict: docs/spec.docx is locked by alice (editing)"
type LockConflictError struct {
	baseError
	File    string
	HeldBy  string
	Purpose string
}

// NewLockConflictError creates a new LockConflictError.
func NewLockConflictError(file, heldBy, purpose string) *LockConflictError {
	return &LockConflictError{
		baseError: baseError{
			message:    fmt.Sprintf("%s is locked by %s", file, heldBy),
			cause:      ErrLockConflict,
			severity:   SeverityWarning,
			retryable:  false,
			userFacing: true,
		},
		File:    file,
		HeldBy:  heldBy,
		Purpose: purpose,
	}
}

// Error returns the formatted error message.
func (e *LockConflictError) Error() string {
	if e.Purpose != "" {
		return fmt.Sprintf("lock conflict: %s is locked by %s (%s)", e.File, e.HeldBy, e.Purpose)
	}
	return fmt.Sprintf("lock conflict: %s is locked by %s", e.File, e.HeldBy)
}

// Is checks if this error matches the target.
func (e *LockConflictError) Is(target error) bool {
	if _, ok := target.(*LockConflictError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// PermissionDeniedError reports a release attempted by a user who does not
// own the lock, without the force override.
type PermissionDeniedError struct {
	baseError
	File    string
	OwnedBy string
}

// NewPermissionDeniedError creates a new PermissionDeniedError.
func NewPermissionDeniedError(file, ownedBy string) *PermissionDeniedError {
	return &PermissionDeniedError{
		baseError: baseError{
			message:    fmt.Sprintf("%s is owned by %s", file, ownedBy),
			cause:      ErrPermissionDenied,
			severity:   SeverityWarning,
			retryable:  false,
			userFacing: true,
		},
		File:    file,
		OwnedBy: ownedBy,
	}
}

// Error returns the formatted error message.
func (e *PermissionDeniedError) Error() string {
	return fmt.Sprintf("permission denied: lock on %s is owned by %s (use --force to override)", e.File, e.OwnedBy)
}

// Is checks if this error matches the target.
func (e *PermissionDeniedError) Is(target error) bool {
	if _, ok := target.(*PermissionDeniedError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// SyncError represents errors from the git-backed sync layer.
//
// Example:
//
//	err := errors.NewSyncError("push rejected", errors.ErrSyncConflict)
//	err = err.WithRepository("/path/to/ledger").WithGitOutput(out)
type SyncError struct {
	baseError
	Repository string
	Remote     string
	GitOutput  string // Captured git command output
}

// NewSyncError creates a new SyncError.
func NewSyncError(message string, cause error) *SyncError {
	return &SyncError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			retryable:  errors.Is(cause, ErrSyncConflict),
			userFacing: true,
		},
	}
}

// WithRepository adds the ledger replica path to the error context.
func (e *SyncError) WithRepository(path string) *SyncError {
	e.Repository = path
	return e
}

// WithRemote adds the remote name to the error context.
func (e *SyncError) WithRemote(remote string) *SyncError {
	e.Remote = remote
	return e
}

// WithGitOutput adds git command output to the error context.
func (e *SyncError) WithGitOutput(output string) *SyncError {
	e.GitOutput = output
	return e
}

// WithRetryable sets whether the error is retryable.
func (e *SyncError) WithRetryable(r bool) *SyncError {
	e.retryable = r
	return e
}

// Error returns the formatted error message.
func (e *SyncError) Error() string {
	var parts []string
	if e.Repository != "" {
		parts = append(parts, fmt.Sprintf("repo=%s", e.Repository))
	}
	if e.Remote != "" {
		parts = append(parts, fmt.Sprintf("remote=%s", e.Remote))
	}

	prefix := "sync error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("sync error [%s]", strings.Join(parts, ", "))
	}

	msg := e.message
	if e.cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.cause)
	}
	if e.GitOutput != "" {
		msg = fmt.Sprintf("%s\ngit output: %s", msg, strings.TrimSpace(e.GitOutput))
	}

	return fmt.Sprintf("%s: %s", prefix, msg)
}

// Is checks if this error matches the target.
func (e *SyncError) Is(target error) bool {
	if _, ok := target.(*SyncError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// LedgerError reports ledger content that violates the record schema.
//
// Example:
//
//	err := errors.NewLedgerError("expected 5 fields, got 3", 7)
//	fmt.Println(err) // "ledger error [line=7]: expected 5 fields, got 3: malformed ledger"
type LedgerError struct {
	baseError
	Line int // 1-based line number; 0 if not line-specific
}

// NewLedgerError creates a new LedgerError for the given line.
// A line of 0 means the error is not tied to a specific line.
func NewLedgerError(message string, line int) *LedgerError {
	return &LedgerError{
		baseError: baseError{
			message:    message,
			cause:      ErrMalformedLedger,
			severity:   SeverityError,
			retryable:  false,
			userFacing: true,
		},
		Line: line,
	}
}

// Error returns the formatted error message.
func (e *LedgerError) Error() string {
	prefix := "ledger error"
	if e.Line > 0 {
		prefix = fmt.Sprintf("ledger error [line=%d]", e.Line)
	}
	return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
}

// Is checks if this error matches the target.
func (e *LedgerError) Is(target error) bool {
	if _, ok := target.(*LedgerError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Semantic Errors
// -----------------------------------------------------------------------------

// ValidationError represents invalid input or state.
//
// Example:
//
//	err := errors.NewValidationError("purpose must not contain tabs")
//	err = err.WithField("purpose").WithValue(p)
type ValidationError struct {
	baseError
	Field string
	Value any
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message:    message,
			severity:   SeverityWarning,
			retryable:  false,
			userFacing: true,
		},
	}
}

// WithField adds a field name to the error context.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// WithValue adds the invalid value to the error context.
func (e *ValidationError) WithValue(value any) *ValidationError {
	e.Value = value
	return e
}

// WithCause adds a cause to the error.
func (e *ValidationError) WithCause(cause error) *ValidationError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("field=%s", e.Field))
	}
	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}

	prefix := "validation error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("validation error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *ValidationError) Is(target error) bool {
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	if errors.Is(target, ErrInvalidInput) {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Error Classification Helpers
// -----------------------------------------------------------------------------

// IsRetryable returns true if re-running the whole command may succeed.
// The only retryable protocol condition is a lost publish race: the command
// itself never retries, but the caller is told to re-run it.
//
// Example:
//
//	if errors.IsRetryable(err) {
//	    fmt.Fprintln(os.Stderr, "another writer won the race, re-run the command")
//	}
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var protoErr ProtocolError
	if As(err, &protoErr) {
		return protoErr.IsRetryable()
	}

	return Is(err, ErrSyncConflict)
}

// IsUserFacing returns true if the error message is safe to display to end users.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}

	var protoErr ProtocolError
	if As(err, &protoErr) {
		return protoErr.IsUserFacing()
	}

	return false
}

// GetSeverity returns the severity level of the error.
// Returns SeverityError for errors that don't implement ProtocolError.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}

	var protoErr ProtocolError
	if As(err, &protoErr) {
		return protoErr.Severity()
	}

	return SeverityError
}

// -----------------------------------------------------------------------------
// Convenience Constructors
// -----------------------------------------------------------------------------

// Wrap wraps an error with additional context message.
//
// Example:
//
//	err := errors.Wrap(baseErr, "failed to read ledger")
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
//
// Example:
//
//	err := errors.Wrapf(baseErr, "failed to lock %s", file)
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
