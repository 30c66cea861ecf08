// Package constants provides shared constants used throughout the nubesync codebase.
// This includes timeouts, limits, file permissions, and the wire-level values of the
// remote store API that must stay consistent across the application.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for HTTP requests to the remote store API
	DefaultHTTPTimeout = 30 * time.Second

	// ShutdownTimeout is how long the CLI waits for cleanup after a failed command
	ShutdownTimeout = 5 * time.Second

	// RetryBackoff is the base backoff duration for retries (doubled on every attempt)
	RetryBackoff = 1 * time.Second

	// MaxRetryBackoff is the maximum backoff duration for retries
	MaxRetryBackoff = 30 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Limit constants define various limits and capacities
const (
	// MaxRetries is the maximum number of attempts for retryable remote reads
	MaxRetries = 3

	// DefaultPageSize is the number of products requested per page from the remote list endpoint
	DefaultPageSize = 200

	// MaxPages bounds pagination of the remote catalog
	MaxPages = 50

	// MaxErrorBodyLength caps how much of a remote error body is kept in logs and errors
	MaxErrorBodyLength = 2048

	// MaxConcurrentTables is the maximum number of local tables loaded concurrently
	MaxConcurrentTables = 6
)

// Rate limiting constants
const (
	// RateLimitLowWater is the remaining-quota threshold below which the client waits for the reset window
	RateLimitLowWater = 5

	// RateLimitSoftWater is the remaining-quota threshold below which the client slows down
	RateLimitSoftWater = 10

	// RateLimitMinWait is the minimum wait once the low-water mark is crossed
	RateLimitMinWait = 1 * time.Second

	// RateLimitSoftWait is the pause applied between the soft and low water marks
	RateLimitSoftWait = 1 * time.Second

	// DefaultRequestsPerSecond is the steady client-side request rate (the remote leaky bucket drains at 2/s)
	DefaultRequestsPerSecond = 2.0

	// DefaultRequestBurst is the client-side burst size (the remote bucket holds 40 requests)
	DefaultRequestBurst = 40
)

// Remote store API constants
const (
	// DefaultAPIBaseURL is the base URL of the remote store API; the store ID is appended
	DefaultAPIBaseURL = "https://api.tiendanube.com/v1"

	// DefaultUserAgent identifies this integration to the remote store API
	DefaultUserAgent = "Integrador Factusol 2 (info@tiendapocket.com)"

	// HeaderRateLimitRemaining carries the number of calls left in the current window
	HeaderRateLimitRemaining = "x-rate-limit-remaining"

	// HeaderRateLimitReset carries the time until the window resets, in milliseconds
	HeaderRateLimitReset = "x-rate-limit-reset"

	// HeaderRateLimitLimit carries the size of the rate limit window
	HeaderRateLimitLimit = "x-rate-limit-limit"

	// DefaultLanguage is the only language used for localized product text
	DefaultLanguage = "es"
)

// Local data constants
const (
	// CSVDelimiter is the field separator used by the local table exports
	CSVDelimiter = ';'

	// CSVTablePrefix is the file name prefix of every exported table (F_ART.csv, F_ARC.csv, ...)
	CSVTablePrefix = "F_"

	// PublishMarker is the literal value of the article "publish online" column that keeps a row
	PublishMarker = "1"
)

// Application constants
const (
	// AppName is the binary and config file base name
	AppName = "nubesync"

	// EnvPrefix prefixes every environment variable read by the CLI
	EnvPrefix = "NUBESYNC"
)
