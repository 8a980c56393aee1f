// Package errors provides structured error handling for tokengate.
// It defines sentinel errors, exit codes, and helpers for adding
// context, details, and suggestions to errors.
//
//nolint:revive // Package name intentionally shadows stdlib for domain-specific error handling
package errors

import (
	"errors"
	"fmt"
	"sort"
)

// Exit codes returned by the CLI.
const (
	ExitSuccess    = 0 // Successful execution
	ExitGeneral    = 1 // General/unknown error
	ExitInput      = 2 // Invalid input
	ExitWallet     = 3 // Wallet unavailable or connection refused
	ExitNotFound   = 4 // Resource not found
	ExitPermission = 5 // Builder access denied
)

// GateError is the structured error type for tokengate.
type GateError struct {
	Code       string            // Machine-readable error code
	Message    string            // Human-readable message
	Details    map[string]string // Additional context
	Suggestion string            // Actionable suggestion for user
	Cause      error             // Underlying error
	ExitCode   int               // Exit code for CLI
}

func (e *GateError) Error() string {
	msg := e.Message

	// Include details in error message (sorted for deterministic output)
	if len(e.Details) > 0 {
		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			msg = fmt.Sprintf("%s (%s: %s)", msg, k, e.Details[k])
		}
	}

	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *GateError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is for GateError.
func (e *GateError) Is(target error) bool {
	var t *GateError
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// Sentinel errors.
var (
	ErrGeneral = &GateError{
		Code:     "GENERAL_ERROR",
		Message:  "an error occurred",
		ExitCode: ExitGeneral,
	}

	ErrInvalidInput = &GateError{
		Code:     "INVALID_INPUT",
		Message:  "invalid input",
		ExitCode: ExitInput,
	}

	ErrNotFound = &GateError{
		Code:     "NOT_FOUND",
		Message:  "resource not found",
		ExitCode: ExitNotFound,
	}

	ErrPermission = &GateError{
		Code:     "PERMISSION_DENIED",
		Message:  "builder access denied",
		ExitCode: ExitPermission,
	}

	// Wallet-specific errors.
	ErrProviderUnavailable = &GateError{
		Code:     "PROVIDER_UNAVAILABLE",
		Message:  "no wallet provider available",
		ExitCode: ExitWallet,
	}

	ErrConnectRejected = &GateError{
		Code:     "CONNECT_REJECTED",
		Message:  "wallet connection rejected",
		ExitCode: ExitWallet,
	}

	ErrAlreadyConnected = &GateError{
		Code:     "ALREADY_CONNECTED",
		Message:  "wallet already connected",
		ExitCode: ExitInput,
	}

	ErrConnectInProgress = &GateError{
		Code:     "CONNECT_IN_PROGRESS",
		Message:  "wallet connection already in progress",
		ExitCode: ExitGeneral,
	}

	ErrRefreshInProgress = &GateError{
		Code:     "REFRESH_IN_PROGRESS",
		Message:  "balance refresh already in progress",
		ExitCode: ExitGeneral,
	}

	ErrInvalidKeypair = &GateError{
		Code:     "INVALID_KEYPAIR",
		Message:  "invalid keypair file",
		ExitCode: ExitInput,
	}

	// Chain-specific errors.
	ErrInvalidAddress = &GateError{
		Code:     "INVALID_ADDRESS",
		Message:  "invalid address format",
		ExitCode: ExitInput,
	}

	ErrBalanceQueryFailed = &GateError{
		Code:     "BALANCE_QUERY_FAILED",
		Message:  "token balance query failed",
		ExitCode: ExitGeneral,
	}

	ErrNetworkError = &GateError{
		Code:     "NETWORK_ERROR",
		Message:  "network communication failed",
		ExitCode: ExitGeneral,
	}

	// Authorization channel errors.
	ErrSendFailed = &GateError{
		Code:     "SEND_FAILED",
		Message:  "authorization message not delivered",
		ExitCode: ExitGeneral,
	}

	// Config-specific errors.
	ErrConfigNotFound = &GateError{
		Code:     "CONFIG_NOT_FOUND",
		Message:  "configuration file not found",
		ExitCode: ExitNotFound,
	}

	ErrConfigInvalid = &GateError{
		Code:     "CONFIG_INVALID",
		Message:  "configuration file is invalid",
		ExitCode: ExitInput,
	}

	ErrUnknownConfigKey = &GateError{
		Code:     "UNKNOWN_CONFIG_KEY",
		Message:  "unknown config key",
		ExitCode: ExitInput,
	}
)

// New creates a new GateError with the given code and message.
func New(code, message string) *GateError {
	return &GateError{
		Code:     code,
		Message:  message,
		ExitCode: ExitGeneral,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}

	msg := fmt.Sprintf(format, args...)

	var ge *GateError
	if errors.As(err, &ge) {
		return &GateError{
			Code:       ge.Code,
			Message:    fmt.Sprintf("%s: %s", msg, ge.Message),
			Details:    ge.Details,
			Suggestion: ge.Suggestion,
			Cause:      err,
			ExitCode:   ge.ExitCode,
		}
	}

	return &GateError{
		Code:     "GENERAL_ERROR",
		Message:  msg,
		Cause:    err,
		ExitCode: ExitGeneral,
	}
}

// WithCause attaches an underlying cause to a sentinel error, keeping its code.
func WithCause(sentinel *GateError, cause error) error {
	return &GateError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		Details:    sentinel.Details,
		Suggestion: sentinel.Suggestion,
		Cause:      cause,
		ExitCode:   sentinel.ExitCode,
	}
}

// WithDetails adds details to an error.
func WithDetails(err error, details map[string]string) error {
	if err == nil {
		return nil
	}

	var ge *GateError
	if errors.As(err, &ge) {
		return &GateError{
			Code:       ge.Code,
			Message:    ge.Message,
			Details:    details,
			Suggestion: ge.Suggestion,
			Cause:      ge.Cause,
			ExitCode:   ge.ExitCode,
		}
	}

	return &GateError{
		Code:     "GENERAL_ERROR",
		Message:  err.Error(),
		Details:  details,
		Cause:    err,
		ExitCode: ExitGeneral,
	}
}

// WithSuggestion adds a suggestion to an error.
func WithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}

	var ge *GateError
	if errors.As(err, &ge) {
		return &GateError{
			Code:       ge.Code,
			Message:    ge.Message,
			Details:    ge.Details,
			Suggestion: suggestion,
			Cause:      ge.Cause,
			ExitCode:   ge.ExitCode,
		}
	}

	return &GateError{
		Code:       "GENERAL_ERROR",
		Message:    err.Error(),
		Suggestion: suggestion,
		Cause:      err,
		ExitCode:   ExitGeneral,
	}
}

// ExitCode returns the appropriate exit code for an error.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var ge *GateError
	if errors.As(err, &ge) {
		return ge.ExitCode
	}

	return ExitGeneral
}

// Code returns the error code for an error.
func Code(err error) string {
	var ge *GateError
	if errors.As(err, &ge) {
		return ge.Code
	}
	return "GENERAL_ERROR"
}

// Is wraps errors.Is for convenience.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience.
func As(err error, target any) bool {
	return errors.As(err, target)
}
