// Package errors provides custom error types for the nubesync system.
// These errors enable better error handling, programmatic error checking,
// and improved debugging throughout the reconciliation pipeline.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// As finds the first error in err's tree that matches target.
var As = errors.As

// Join returns an error that wraps the given errors.
var Join = errors.Join

// Common sentinel errors for the nubesync system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrTokenRequired indicates that an access token is required but not provided
	ErrTokenRequired = errors.New("access token required")

	// ErrPermission indicates that the credential is not allowed to perform the operation
	ErrPermission = errors.New("permission denied")

	// ErrProviderUnavailable indicates that the remote store is temporarily unavailable
	ErrProviderUnavailable = errors.New("remote store unavailable")

	// ErrRateLimited indicates that the API rate limit has been exceeded
	ErrRateLimited = errors.New("rate limited")

	// ErrDuplicateVariant indicates that the remote store already holds an equivalent variant
	ErrDuplicateVariant = errors.New("variant already exists")

	// ErrInvalidStock indicates that the remote store rejected a variant stock value
	ErrInvalidStock = errors.New("invalid variant stock")

	// ErrSKUCollision indicates that two distinct local products claim the same SKU
	ErrSKUCollision = errors.New("sku collision")

	// ErrCanceled indicates that an operation was canceled
	ErrCanceled = errors.New("operation canceled")

	// ErrIncompletePass indicates that a reconciliation pass recorded errors against some products
	ErrIncompletePass = errors.New("reconciliation finished with errors")
)

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// APIError represents an error returned by the remote store API.
// Kind, when set, is the sentinel the response was classified as
// (ErrDuplicateVariant, ErrInvalidStock, ...).
type APIError struct {
	Operation  string // "list", "create", "update", "delete", ...
	StatusCode int
	Message    string
	Body       string
	Endpoint   string
	Kind       error
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	op := e.Operation
	if op == "" {
		op = "request"
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("remote %s failed (status %d): %s", op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("remote %s failed: %s", op, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *APIError) Is(target error) bool {
	if e.Kind != nil && target == e.Kind {
		return true
	}
	switch {
	case e.StatusCode == http.StatusNotFound:
		return target == ErrNotFound
	case e.StatusCode == http.StatusForbidden:
		return target == ErrPermission
	case e.StatusCode == http.StatusTooManyRequests:
		return target == ErrRateLimited
	case e.StatusCode >= http.StatusInternalServerError:
		return target == ErrProviderUnavailable
	}
	return false
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// CollisionError reports a SKU claimed by more than one local product.
// Kept names the product that won the index slot.
type CollisionError struct {
	SKU      string
	Kept     string
	Rejected string
}

// Error implements the error interface
func (e *CollisionError) Error() string {
	return fmt.Sprintf("sku %s claimed by %q and %q; keeping the first", e.SKU, e.Kept, e.Rejected)
}

// Is implements errors.Is support
func (e *CollisionError) Is(target error) bool {
	return target == ErrSKUCollision
}

// SyncError represents an error recorded against one SKU during a pass
type SyncError struct {
	SKU       string
	Operation string
	Err       error
}

// Error implements the error interface
func (e *SyncError) Error() string {
	if e.Operation != "" {
		return fmt.Sprintf("sync error for sku %s during %s: %v", e.SKU, e.Operation, e.Err)
	}
	return fmt.Sprintf("sync error for sku %s: %v", e.SKU, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *SyncError) Unwrap() error {
	return e.Err
}

// NewSyncError creates a new SyncError
func NewSyncError(sku, operation string, err error) *SyncError {
	return &SyncError{
		SKU:       sku,
		Operation: operation,
		Err:       err,
	}
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "json", "yaml", "csv", "number"
	File    string
	Line    int
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("parse error in %s at %s:%d: %s", e.Format, e.File, e.Line, e.Message)
	}
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, file string, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "open", "close"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// ResourceError represents an error during resource operations
type ResourceError struct {
	Operation string // "create", "update", "delete", "fetch"
	Resource  string // "product", "variant", "catalog", "config"
	ID        string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ResourceError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("failed to %s %s %s: %s", e.Operation, e.Resource, e.ID, e.Message)
	}
	return fmt.Sprintf("failed to %s %s: %s", e.Operation, e.Resource, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ResourceError) Unwrap() error {
	return e.Err
}

// NewResourceError creates a new ResourceError
func NewResourceError(operation, resource, id string, err error) *ResourceError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ResourceError{
		Operation: operation,
		Resource:  resource,
		ID:        id,
		Message:   message,
		Err:       err,
	}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsPermission checks if an error is a permission failure
func IsPermission(err error) bool {
	return errors.Is(err, ErrPermission)
}

// IsRateLimited checks if an error is a rate limit error
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsProviderUnavailable checks if an error is a transient server-side failure
func IsProviderUnavailable(err error) bool {
	return errors.Is(err, ErrProviderUnavailable)
}

// IsDuplicateVariant checks if the remote store reported an already existing variant
func IsDuplicateVariant(err error) bool {
	return errors.Is(err, ErrDuplicateVariant)
}

// IsInvalidStock checks if the remote store rejected a stock value
func IsInvalidStock(err error) bool {
	return errors.Is(err, ErrInvalidStock)
}

// IsCanceled checks if an error is a cancellation error
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}

// Helper wrapping functions for common patterns

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapResource wraps an error as a ResourceError
func WrapResource(operation, resource, id string, err error) error {
	if err == nil {
		return nil
	}
	return NewResourceError(operation, resource, id, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}

// Truncate shortens a response body for inclusion in errors and logs.
func Truncate(body string, limit int) string {
	body = strings.TrimSpace(body)
	if limit <= 0 || len(body) <= limit {
		return body
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(body[cut]) {
		cut--
	}
	return body[:cut] + "..."
}
