package dlt

import "errors"

// Error codes and messages for the draw pipeline
var (
	// ErrFetchFailed indicates the endpoint could not be reached or answered non-2xx
	ErrFetchFailed = errors.New("DLT_001: fetch failed")

	// ErrParseFailed indicates the response body did not have the expected shape
	ErrParseFailed = errors.New("DLT_002: response shape mismatch")

	// ErrRecordFormat indicates a draw result string could not be split
	ErrRecordFormat = errors.New("DLT_003: malformed draw result")

	// ErrCacheMiss indicates no live cache entry exists for the key
	ErrCacheMiss = errors.New("DLT_004: cache miss")

	// ErrUnknownProvider indicates no field mapping is registered under the provider name
	ErrUnknownProvider = errors.New("DLT_005: unknown provider")

	// ErrInvalidRange indicates invalid sampling range parameters
	ErrInvalidRange = errors.New("invalid range: min must be less than or equal to max")

	// ErrInvalidCount indicates the sample size is not positive or exceeds the pool
	ErrInvalidCount = errors.New("invalid count: must be between 1 and the pool size")

	// ErrInvalidEndpoint indicates the configured endpoint is empty or not an absolute URL
	ErrInvalidEndpoint = errors.New("invalid endpoint: must be an absolute http(s) URL")

	// ErrInvalidPageSize indicates the configured page size is out of range
	ErrInvalidPageSize = errors.New("invalid page size: must be between 1 and 100")

	// ErrInvalidFetchTimeout indicates the configured fetch timeout is out of range
	ErrInvalidFetchTimeout = errors.New("invalid fetch timeout: must be between 1s and 60s")

	// ErrInvalidCacheTTL indicates the configured cache TTL is out of range
	ErrInvalidCacheTTL = errors.New("invalid cache TTL: must be between 1s and 24h")

	// ErrInvalidCacheBackend indicates an unsupported cache backend name
	ErrInvalidCacheBackend = errors.New("invalid cache backend: must be memory or redis")

	// ErrInvalidRefreshInterval indicates a non-positive refresh interval
	ErrInvalidRefreshInterval = errors.New("invalid refresh interval: must be positive")
)
