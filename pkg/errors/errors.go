package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Overlay errors
	ErrScan            ErrorCode = "SCAN"
	ErrMaterialization ErrorCode = "MATERIALIZATION"

	// Brand errors
	ErrMissingBrand    ErrorCode = "MISSING_BRAND"
	ErrIncompleteBrand ErrorCode = "INCOMPLETE_BRAND"
	ErrBrandInvalid    ErrorCode = "BRAND_INVALID"

	// Asset pipeline errors
	ErrAssetGeneration     ErrorCode = "ASSET_GENERATION"
	ErrTemplateConsistency ErrorCode = "TEMPLATE_CONSISTENCY"

	// FileSystem errors
	ErrFileNotFound  ErrorCode = "FILE_NOT_FOUND"
	ErrFileAccess    ErrorCode = "FILE_ACCESS"
	ErrFileWrite     ErrorCode = "FILE_WRITE"
	ErrSymlinkCreate ErrorCode = "SYMLINK_CREATE"
	ErrDirCreate     ErrorCode = "DIR_CREATE"
)

// Detail keys shared by the error constructors below
const (
	DetailMissing = "missing"
	DetailMatches = "matches"
	DetailPath    = "path"
	DetailBrand   = "brand"
)

// SurferError represents a structured error with code and details
type SurferError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *SurferError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *SurferError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *SurferError) Is(target error) bool {
	var targetErr *SurferError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new SurferError with the given code and message
func New(code ErrorCode, message string) *SurferError {
	return &SurferError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new SurferError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *SurferError {
	return &SurferError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a SurferError
func Wrap(err error, code ErrorCode, message string) *SurferError {
	if err == nil {
		return nil
	}
	return &SurferError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *SurferError {
	if err == nil {
		return nil
	}
	return &SurferError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *SurferError) WithDetail(key string, value interface{}) *SurferError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var surferErr *SurferError
	if errors.As(err, &surferErr) {
		return surferErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a SurferError
func GetErrorCode(err error) ErrorCode {
	var surferErr *SurferError
	if errors.As(err, &surferErr) {
		return surferErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a SurferError
func GetErrorDetails(err error) map[string]interface{} {
	var surferErr *SurferError
	if errors.As(err, &surferErr) {
		return surferErr.Details
	}
	return nil
}

// Missing returns the sorted list of paths stored under DetailMissing, if any.
func Missing(err error) []string {
	details := GetErrorDetails(err)
	if details == nil {
		return nil
	}
	missing, _ := details[DetailMissing].([]string)
	return missing
}

// ScanError reports an overlay root that cannot be scanned.
func ScanError(root string, cause error) *SurferError {
	if cause == nil {
		return Newf(ErrScan, "overlay root %s does not exist", root).WithDetail(DetailPath, root)
	}
	return Wrapf(cause, ErrScan, "cannot scan overlay root %s", root).WithDetail(DetailPath, root)
}

// PlacementError reports an overlay entry that could not be placed at dest.
// The cause keeps its own code for errors.Is.
func PlacementError(entry, dest string, cause error) *SurferError {
	return Wrapf(cause, ErrMaterialization, "cannot materialize %s", entry).
		WithDetail(DetailPath, dest)
}

// MissingBrandError reports a brand key with no source directory.
func MissingBrandError(key, dir string) *SurferError {
	return Newf(ErrMissingBrand, "branding %s does not exist", key).
		WithDetail(DetailBrand, key).
		WithDetail(DetailPath, dir)
}

// IncompleteBrandError reports every required brand file that is absent.
func IncompleteBrandError(key string, missing []string) *SurferError {
	return listError(ErrIncompleteBrand, fmt.Sprintf("brand %s is missing required files", key), missing).
		WithDetail(DetailBrand, key)
}

// AssetGenerationError reports source artwork the pipeline needs but cannot find.
func AssetGenerationError(key string, missing []string) *SurferError {
	return listError(ErrAssetGeneration, fmt.Sprintf("cannot generate assets for brand %s", key), missing).
		WithDetail(DetailBrand, key)
}

// TemplateConsistencyError reports a file expected exactly once that was found
// a different number of times.
func TemplateConsistencyError(name string, matches []string) *SurferError {
	sorted := append([]string(nil), matches...)
	sort.Strings(sorted)
	return Newf(ErrTemplateConsistency, "expected exactly one %s, found %d", name, len(sorted)).
		WithDetail(DetailMatches, sorted)
}

func listError(code ErrorCode, message string, missing []string) *SurferError {
	sorted := append([]string(nil), missing...)
	sort.Strings(sorted)
	return Newf(code, "%s: %s", message, strings.Join(sorted, ", ")).
		WithDetail(DetailMissing, sorted)
}
