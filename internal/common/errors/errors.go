// Package errors provides the standardized error taxonomy for the matching engine.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Input errors: a single record is rejected, the batch continues.
	ErrCodeInvalidLocalRecord     ErrorCode = "INVALID_LOCAL_RECORD"
	ErrCodeInvalidCandidateRecord ErrorCode = "INVALID_CANDIDATE_RECORD"

	// Provider errors: the current matching run is aborted.
	ErrCodeDirectoryFetchFailed ErrorCode = "DIRECTORY_FETCH_FAILED"
	ErrCodeDirectoryPageFailed  ErrorCode = "DIRECTORY_PAGE_FAILED"
	ErrCodeDirectoryTimeout     ErrorCode = "DIRECTORY_TIMEOUT"

	// Persistence errors: the queued item stays in place.
	ErrCodeLinkPersistFailed ErrorCode = "LINK_PERSIST_FAILED"
	ErrCodeRecordNotFound    ErrorCode = "RECORD_NOT_FOUND"
	ErrCodeStoreQueryFailed  ErrorCode = "STORE_QUERY_FAILED"

	// Dataset errors: non-fatal, the nickname index degrades to empty.
	ErrCodeDatasetLoadFailed ErrorCode = "DATASET_LOAD_FAILED"

	// Workflow errors: an operator action arrived in the wrong state.
	ErrCodeWorkflowStateInvalid ErrorCode = "WORKFLOW_STATE_INVALID"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// ==========================
// 2. Error Constructors
// ==========================

// NewInvalidLocalRecordError flags a malformed local record. The record is
// skipped; the batch continues.
func NewInvalidLocalRecordError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidLocalRecord,
		Message:   "Local record is malformed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidCandidateRecordError flags a malformed directory entry.
func NewInvalidCandidateRecordError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidCandidateRecord,
		Message:   "Candidate record is malformed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDirectoryFetchFailedError creates a retryable provider error that
// aborts the current matching run.
func NewDirectoryFetchFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDirectoryFetchFailed,
		Message:   "Directory fetch failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewDirectoryPageFailedError creates a retryable provider error for a
// single failed page. A failed page still aborts the whole run; the engine
// never matches against a partial directory.
func NewDirectoryPageFailedError(page int, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDirectoryPageFailed,
		Message:   "Directory page fetch failed",
		Details:   fmt.Sprintf("page: %d, error: %s", page, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewDirectoryTimeoutError creates a retryable provider timeout error.
func NewDirectoryTimeoutError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDirectoryTimeout,
		Message:   "Directory fetch timed out",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewLinkPersistFailedError creates a retryable persistence error. The
// affected queue item is left in place.
func NewLinkPersistFailedError(localID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeLinkPersistFailed,
		Message:   "Failed to persist approved link",
		Details:   fmt.Sprintf("localId: %s, error: %s", localID, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewRecordNotFoundError creates a non-retryable persistence error for an
// update that matched no rows.
func NewRecordNotFoundError(localID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRecordNotFound,
		Message:   "Local record not found",
		Details:   fmt.Sprintf("localId: %s", localID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewStoreQueryFailedError creates a retryable record store error.
func NewStoreQueryFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStoreQueryFailed,
		Message:   "Record store query failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewDatasetLoadFailedError creates the one non-fatal error in the taxonomy.
// Callers log it and continue with an empty nickname index.
func NewDatasetLoadFailedError(path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatasetLoadFailed,
		Message:   "Nickname dataset failed to load",
		Details:   fmt.Sprintf("path: %s, error: %s", path, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewWorkflowStateError rejects an operator action issued outside the state
// that allows it. The workflow is left untouched.
func NewWorkflowStateError(action, state string) *StandardError {
	return &StandardError{
		Code:      ErrCodeWorkflowStateInvalid,
		Message:   "Action not allowed in current workflow state",
		Details:   fmt.Sprintf("action: %s, state: %s", action, state),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// CodeOf extracts the ErrorCode from err, or "" when err is not a StandardError.
func CodeOf(err error) ErrorCode {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Code
	}
	return ""
}

// IsRetryable reports whether err carries a retryable StandardError.
func IsRetryable(err error) bool {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Retryable
	}
	return false
}

// IsProviderError reports whether err belongs to the directory provider class.
func IsProviderError(err error) bool {
	switch CodeOf(err) {
	case ErrCodeDirectoryFetchFailed, ErrCodeDirectoryPageFailed, ErrCodeDirectoryTimeout:
		return true
	}
	return false
}

// IsPersistenceError reports whether err belongs to the persistence class.
func IsPersistenceError(err error) bool {
	switch CodeOf(err) {
	case ErrCodeLinkPersistFailed, ErrCodeRecordNotFound, ErrCodeStoreQueryFailed:
		return true
	}
	return false
}
