package dlt

import "time"

const (
	// FrontMin is the smallest front-zone number
	FrontMin = 1

	// FrontMax is the largest front-zone number
	FrontMax = 35

	// FrontCount is how many front-zone numbers make up one draw
	FrontCount = 5

	// BackMin is the smallest back-zone number
	BackMin = 1

	// BackMax is the largest back-zone number
	BackMax = 12

	// BackCount is how many back-zone numbers make up one draw
	BackCount = 2

	// ResultTokenCount is the number of whitespace separated tokens in a draw result
	ResultTokenCount = FrontCount + BackCount
)

const (
	// DefaultEndpoint is the sporttery history endpoint
	DefaultEndpoint = "https://webapi.sporttery.cn/gateway/lottery/getHistoryPageListV1.qry"

	// DefaultProvider is the provider whose field names the default endpoint uses
	DefaultProvider = "sporttery"

	// DefaultGameNo identifies Super Lotto on the sporttery gateway
	DefaultGameNo = "85"

	// DefaultPageSize is the number of draws requested per fetch
	DefaultPageSize = 30

	// DefaultPageNo is the first page
	DefaultPageNo = 1

	// DefaultFetchTimeout bounds a single fetch
	DefaultFetchTimeout = 10 * time.Second

	// MinFetchTimeout is the minimum fetch timeout allowed
	MinFetchTimeout = 1 * time.Second

	// MaxFetchTimeout is the maximum fetch timeout allowed
	MaxFetchTimeout = 60 * time.Second

	// DefaultUserAgent is sent with every fetch
	DefaultUserAgent = "dlt/1.0"

	// MaxPageSize is the largest page size the gateway accepts
	MaxPageSize = 100
)

const (
	// CacheBackendMemory keeps cached batches in an in-process store
	CacheBackendMemory = "memory"

	// CacheBackendRedis keeps cached batches in Redis
	CacheBackendRedis = "redis"

	// DefaultCacheTTL is how long a fetched batch is reused
	DefaultCacheTTL = 1 * time.Hour

	// MinCacheTTL is the minimum cache TTL allowed
	MinCacheTTL = 1 * time.Second

	// MaxCacheTTL is the maximum cache TTL allowed
	MaxCacheTTL = 24 * time.Hour

	// CacheKeyPrefix is the prefix for cache keys
	CacheKeyPrefix = "dlt:draws:"

	// DefaultRefreshInterval is how often the scheduler refreshes draws
	DefaultRefreshInterval = 60 * time.Minute

	// DefaultServerAddr is where the HTTP API listens
	DefaultServerAddr = ":8080"
)

const (
	// DefaultCircuitBreakerName is the default name for Circuit Breaker
	DefaultCircuitBreakerName = "dlt-fetcher"

	// DefaultCircuitBreakerMaxRequests is the default max requests
	DefaultCircuitBreakerMaxRequests = 1

	// DefaultCircuitBreakerInterval is the default interval
	DefaultCircuitBreakerInterval = 60 * time.Second

	// DefaultCircuitBreakerTimeout is the default timeout
	DefaultCircuitBreakerTimeout = 5 * time.Minute

	// DefaultCircuitBreakerFailureRatio is the default failure ratio
	DefaultCircuitBreakerFailureRatio = 0.6

	// DefaultCircuitBreakerMinRequests is the default min requests
	DefaultCircuitBreakerMinRequests = 3

	// DefaultCircuitBreakerOnStateChange is the default on state change
	DefaultCircuitBreakerOnStateChange = true
)

const (
	DefaultRedisAddr         = "localhost:6379"
	DefaultRedisPassword     = ""
	DefaultRedisDB           = 0
	DefaultRedisPoolSize     = 10
	DefaultRedisDialTimeout  = 5 * time.Second
	DefaultRedisReadTimeout  = 3 * time.Second
	DefaultRedisWriteTimeout = 3 * time.Second
)
