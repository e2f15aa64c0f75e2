// Package errors provides structured error handling for fontdoctor.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: environment absence (missing directory, file, or tool)
//   - 2XX: verification failures (digest mismatch, unreadable font)
//   - 3XX: external tool failures (exit status, timeout)
//   - 4XX: third-party configuration parse failures
//   - 5XX: platform / internal errors
package errors

import (
	"fmt"
	"strings"
)

// Category classifies an error according to the diagnostic taxonomy.
type Category string

const (
	// CategoryAbsence indicates a directory, file, or external tool that
	// does not exist. Always non-fatal.
	CategoryAbsence Category = "ABSENCE"
	// CategoryVerification indicates a content digest disagreement or an
	// unverifiable font file.
	CategoryVerification Category = "VERIFICATION"
	// CategoryExternalTool indicates a failed or timed-out external command.
	CategoryExternalTool Category = "EXTERNAL_TOOL"
	// CategoryConfigParse indicates a malformed third-party configuration file.
	CategoryConfigParse Category = "CONFIG_PARSE"
	// CategoryPlatform indicates an unsupported platform or internal error.
	CategoryPlatform Category = "PLATFORM"
)

// Error codes organized by category.
const (
	// Environment absence (100-199)
	ErrCodeDirMissing      = "ERR_101_DIR_MISSING"
	ErrCodeDirInaccessible = "ERR_102_DIR_INACCESSIBLE"
	ErrCodeFontMissing     = "ERR_103_FONT_MISSING"
	ErrCodeToolNotFound    = "ERR_104_TOOL_NOT_FOUND"

	// Verification (200-299)
	ErrCodeDigestMismatch = "ERR_201_DIGEST_MISMATCH"
	ErrCodeFontUnreadable = "ERR_202_FONT_UNREADABLE"
	ErrCodeHashDBUnusable = "ERR_203_HASH_DB_UNUSABLE"

	// External tool (300-399)
	ErrCodeToolExit    = "ERR_301_TOOL_EXIT"
	ErrCodeToolTimeout = "ERR_302_TOOL_TIMEOUT"

	// Config parse (400-499)
	ErrCodeConfigMalformed = "ERR_401_CONFIG_MALFORMED"
	ErrCodeConfigKeyAbsent = "ERR_402_CONFIG_KEY_ABSENT"

	// Platform / internal (500-599)
	ErrCodePlatformUnsupported = "ERR_501_PLATFORM_UNSUPPORTED"
	ErrCodeReportUnwritable    = "ERR_502_REPORT_UNWRITABLE"
	ErrCodeInstallFailed       = "ERR_503_INSTALL_FAILED"
)

// DiagError is the structured error type for fontdoctor. It carries the
// diagnostic taxonomy category plus an actionable suggestion so callers can
// fold failures directly into the report.
type DiagError struct {
	// Code is the unique error code (e.g. "ERR_104_TOOL_NOT_FOUND").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the taxonomy category derived from the code.
	Category Category

	// Cause is the underlying error, if any.
	Cause error

	// Suggestion is an actionable remediation hint for the user.
	Suggestion string
}

// Error implements the error interface.
func (e *DiagError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *DiagError) Unwrap() error {
	return e.Cause
}

// Is matches DiagErrors by code so errors.Is works across wrapping.
func (e *DiagError) Is(target error) bool {
	if t, ok := target.(*DiagError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithSuggestion attaches an actionable suggestion. Returns the error for
// method chaining.
func (e *DiagError) WithSuggestion(suggestion string) *DiagError {
	e.Suggestion = suggestion
	return e
}

// New creates a DiagError with the given code and message. The category is
// derived from the code's number range.
func New(code, message string, cause error) *DiagError {
	return &DiagError{
		Code:     code,
		Message:  message,
		Category: categoryFromCode(code),
		Cause:    cause,
	}
}

// Newf creates a DiagError with a formatted message and no cause.
func Newf(code, format string, args ...any) *DiagError {
	return New(code, fmt.Sprintf(format, args...), nil)
}

// Wrap creates a DiagError from an existing error. Returns nil when err is nil.
func Wrap(code string, err error) *DiagError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// categoryFromCode extracts the taxonomy category from an error code.
func categoryFromCode(code string) Category {
	rest := strings.TrimPrefix(code, "ERR_")
	if len(rest) < 1 {
		return CategoryPlatform
	}
	switch rest[0] {
	case '1':
		return CategoryAbsence
	case '2':
		return CategoryVerification
	case '3':
		return CategoryExternalTool
	case '4':
		return CategoryConfigParse
	default:
		return CategoryPlatform
	}
}

// CategoryOf returns the taxonomy category of err, or CategoryPlatform for
// plain errors.
func CategoryOf(err error) Category {
	if de, ok := err.(*DiagError); ok {
		return de.Category
	}
	return CategoryPlatform
}
