package services

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes failures at the invocation boundary
type ErrorKind int

const (
	// ErrorInput covers malformed URLs and unsupported kind/format pairs,
	// detected before any external process is started
	ErrorInput ErrorKind = iota
	// ErrorDownload covers extraction tool failures (non-zero exit, network)
	ErrorDownload
	// ErrorTranscode covers transcoding tool failures
	ErrorTranscode
)

// String returns the string representation of the error kind
func (k ErrorKind) String() string {
	switch k {
	case ErrorInput:
		return "input_error"
	case ErrorDownload:
		return "download_error"
	case ErrorTranscode:
		return "transcode_error"
	default:
		return "unknown"
	}
}

// InvokeError is a structured error produced by the invokers
type InvokeError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

// Error implements the error interface
func (e *InvokeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause error
func (e *InvokeError) Unwrap() error {
	return e.Cause
}

// NewInputError creates an InvokeError for invalid user input
func NewInputError(message string) *InvokeError {
	return &InvokeError{Kind: ErrorInput, Message: message}
}

// NewDownloadError creates an InvokeError for an extraction tool failure
func NewDownloadError(message string, cause error) *InvokeError {
	return &InvokeError{Kind: ErrorDownload, Message: message, Cause: cause}
}

// NewTranscodeError creates an InvokeError for a transcoding tool failure
func NewTranscodeError(message string, cause error) *InvokeError {
	return &InvokeError{Kind: ErrorTranscode, Message: message, Cause: cause}
}

// IsKind checks whether err is an InvokeError of the given kind
func IsKind(err error, kind ErrorKind) bool {
	var ie *InvokeError
	if errors.As(err, &ie) {
		return ie.Kind == kind
	}
	return false
}
