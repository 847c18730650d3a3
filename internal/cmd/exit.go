package cmd

import (
	"github.com/kafumanto/simplelock/internal/errors"
)

// ExitError carries the process exit code a command failure maps to.
// Each command documents its own numbering, so the mapping happens at the
// command layer rather than in the errors package.
type ExitError struct {
	Code int
	Err  error
}

// Error returns the underlying error message.
func (e *ExitError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode extracts the exit code for a command error.
// nil means success; errors without an explicit code exit 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}

// exit wraps err with the exit code, passing nil through.
func exit(code int, err error) error {
	if err == nil {
		return nil
	}
	return &ExitError{Code: code, Err: err}
}

// lockExit maps acquire-cycle failures to the lock command's exit codes:
// 1 lock conflict, 2 sync conflict, 3 repository unavailable or malformed
// ledger. Precondition and validation failures share code 3: like an
// unreachable ledger, they mean the protocol never ran.
func lockExit(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, errors.ErrLockConflict):
		return exit(1, err)
	case errors.Is(err, errors.ErrSyncConflict):
		return exit(2, err)
	default:
		return exit(3, err)
	}
}

// unlockExit maps release-cycle failures to the unlock command's exit codes:
// 1 not locked, 2 permission denied, 3 sync conflict, 4 repository
// unavailable or malformed ledger.
func unlockExit(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, errors.ErrNotLocked):
		return exit(1, err)
	case errors.Is(err, errors.ErrPermissionDenied):
		return exit(2, err)
	case errors.Is(err, errors.ErrSyncConflict):
		return exit(3, err)
	default:
		return exit(4, err)
	}
}

// RetryHint returns the operator guidance for a lost publish race, or ""
// when the error is not retryable.
func RetryHint(err error) string {
	if errors.IsRetryable(err) {
		return "another writer updated the lock ledger first; re-run the command"
	}
	return ""
}

var _ error = (*ExitError)(nil)
