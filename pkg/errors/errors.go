// Package errors provides the structured error system for bosfs with error codes, categories, and context.
package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrorCode represents a structured error code for bosfs operations.
type ErrorCode string

const (
	// Filesystem operation errors, one per operation family
	ErrCodeUnableToWriteFile        ErrorCode = "UNABLE_TO_WRITE_FILE"
	ErrCodeUnableToReadFile         ErrorCode = "UNABLE_TO_READ_FILE"
	ErrCodeUnableToCopyFile         ErrorCode = "UNABLE_TO_COPY_FILE"
	ErrCodeUnableToMoveFile         ErrorCode = "UNABLE_TO_MOVE_FILE"
	ErrCodeUnableToDeleteFile       ErrorCode = "UNABLE_TO_DELETE_FILE"
	ErrCodeUnableToCreateDirectory  ErrorCode = "UNABLE_TO_CREATE_DIRECTORY"
	ErrCodeUnableToDeleteDirectory  ErrorCode = "UNABLE_TO_DELETE_DIRECTORY"
	ErrCodeUnableToListContents     ErrorCode = "UNABLE_TO_LIST_CONTENTS"
	ErrCodeUnableToRetrieveMetadata ErrorCode = "UNABLE_TO_RETRIEVE_METADATA"
	ErrCodeUnableToSetVisibility    ErrorCode = "UNABLE_TO_SET_VISIBILITY"
	ErrCodeInvalidVisibility        ErrorCode = "INVALID_VISIBILITY"

	// Storage errors reported by clients
	ErrCodeObjectNotFound ErrorCode = "OBJECT_NOT_FOUND"
	ErrCodeBucketNotFound ErrorCode = "BUCKET_NOT_FOUND"
	ErrCodeAccessDenied   ErrorCode = "ACCESS_DENIED"
	ErrCodeStorageRequest ErrorCode = "STORAGE_REQUEST"

	// Configuration errors
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
	ErrCodeMissingConfig ErrorCode = "MISSING_CONFIG"
	ErrCodeConfigLoad    ErrorCode = "CONFIG_LOAD"

	ErrCodeInternalError ErrorCode = "INTERNAL_ERROR"
)

// ErrorCategory represents the general category of an error.
type ErrorCategory string

const (
	CategoryFilesystem    ErrorCategory = "filesystem"
	CategoryStorage       ErrorCategory = "storage"
	CategoryConfiguration ErrorCategory = "configuration"
	CategoryInternal      ErrorCategory = "internal"
)

// Metadata field names used to tag UNABLE_TO_RETRIEVE_METADATA errors.
const (
	MetadataMimeType     = "mime_type"
	MetadataLastModified = "last_modified"
	MetadataFileSize     = "file_size"
	MetadataVisibility   = "visibility"
)

// Error represents a structured error with context and metadata.
type Error struct {
	Code     ErrorCode     `json:"code"`
	Category ErrorCategory `json:"category"`
	Message  string        `json:"message"`

	// Paths involved in the failed operation
	Path         string `json:"path,omitempty"`
	Destination  string `json:"destination,omitempty"`
	MetadataType string `json:"metadata_type,omitempty"`

	Context   map[string]string `json:"context,omitempty"`
	Cause     error             `json:"-"`
	Timestamp time.Time         `json:"timestamp"`
	Retryable bool              `json:"retryable"`

	Component string `json:"component,omitempty"`
	Operation string `json:"operation,omitempty"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Component != "" {
		if e.Operation != "" {
			msg = fmt.Sprintf("[%s:%s] %s", e.Component, e.Operation, msg)
		} else {
			msg = fmt.Sprintf("[%s] %s", e.Component, msg)
		}
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause error for error wrapping compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target error (for errors.Is compatibility).
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// String returns a detailed string representation for logging.
func (e *Error) String() string {
	var parts []string

	parts = append(parts, fmt.Sprintf("Code=%s", e.Code))
	parts = append(parts, fmt.Sprintf("Category=%s", e.Category))
	parts = append(parts, fmt.Sprintf("Message=%q", e.Message))

	if e.Path != "" {
		parts = append(parts, fmt.Sprintf("Path=%s", e.Path))
	}
	if e.Destination != "" {
		parts = append(parts, fmt.Sprintf("Destination=%s", e.Destination))
	}
	if e.MetadataType != "" {
		parts = append(parts, fmt.Sprintf("MetadataType=%s", e.MetadataType))
	}
	if e.Component != "" {
		parts = append(parts, fmt.Sprintf("Component=%s", e.Component))
	}
	if e.Operation != "" {
		parts = append(parts, fmt.Sprintf("Operation=%s", e.Operation))
	}
	if e.Retryable {
		parts = append(parts, "Retryable=true")
	}
	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("Cause=%q", e.Cause.Error()))
	}

	return fmt.Sprintf("Error{%s}", strings.Join(parts, ", "))
}

// JSON returns the error as a JSON string.
func (e *Error) JSON() string {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Sprintf(`{"error":"failed to marshal error: %s"}`, err.Error())
	}
	return string(data)
}

// NewError creates a new error with default values.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:      code,
		Category:  GetCategory(code),
		Message:   message,
		Timestamp: time.Now(),
		Context:   make(map[string]string),
	}
}

// GetCategory determines the category based on the error code.
func GetCategory(code ErrorCode) ErrorCategory {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "UNABLE_TO_") || code == ErrCodeInvalidVisibility:
		return CategoryFilesystem
	case strings.HasPrefix(codeStr, "OBJECT_") || strings.HasPrefix(codeStr, "BUCKET_") ||
		strings.HasPrefix(codeStr, "ACCESS_") || strings.HasPrefix(codeStr, "STORAGE_"):
		return CategoryStorage
	case strings.HasPrefix(codeStr, "INVALID_CONFIG") || strings.HasPrefix(codeStr, "MISSING_CONFIG") ||
		strings.HasPrefix(codeStr, "CONFIG_"):
		return CategoryConfiguration
	default:
		return CategoryInternal
	}
}

// WithContext adds contextual information to an error
func (e *Error) WithContext(key, value string) *Error {
	if e.Context == nil {
		e.Context = make(map[string]string)
	}
	e.Context[key] = value
	return e
}

// WithComponent sets the component for an error
func (e *Error) WithComponent(component string) *Error {
	e.Component = component
	return e
}

// WithOperation sets the operation for an error
func (e *Error) WithOperation(operation string) *Error {
	e.Operation = operation
	return e
}

// WithCause sets the underlying cause
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithRetryable marks whether repeating the request may succeed
func (e *Error) WithRetryable(retryable bool) *Error {
	e.Retryable = retryable
	return e
}

// WithPath sets the path the operation was acting on
func (e *Error) WithPath(path string) *Error {
	e.Path = path
	return e
}

// IsCode reports whether err, or any error it wraps, is an *Error with code.
func IsCode(err error, code ErrorCode) bool {
	var e *Error
	for err != nil {
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// IsRetryable reports whether any *Error in err's chain is marked retryable.
func IsRetryable(err error) bool {
	var e *Error
	for err != nil {
		if !errors.As(err, &e) {
			return false
		}
		if e.Retryable {
			return true
		}
		err = e.Cause
	}
	return false
}

// IsNotFound reports whether err signals a missing object.
func IsNotFound(err error) bool {
	return IsCode(err, ErrCodeObjectNotFound)
}

// CodeOf returns the code of the outermost *Error in err's chain.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
