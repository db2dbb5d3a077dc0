package dlt

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigManager_LoadConfig(t *testing.T) {
	tests := []struct {
		name        string
		setupEnv    func(t *testing.T)
		expectError bool
		validate    func(*testing.T, *Config)
	}{
		{
			name:        "default_config",
			setupEnv:    func(t *testing.T) {},
			expectError: false,
			validate: func(t *testing.T, config *Config) {
				assert.Equal(t, DefaultEndpoint, config.Source.Endpoint)
				assert.Equal(t, DefaultProvider, config.Source.Provider)
				assert.Equal(t, 30, config.Source.PageSize)
				assert.Equal(t, 10*time.Second, config.Source.Timeout)
				assert.Equal(t, time.Hour, config.Cache.TTL)
				assert.Equal(t, CacheBackendMemory, config.Cache.Backend)
				assert.Equal(t, "localhost:6379", config.Redis.Addr)
				assert.Equal(t, 60*time.Minute, config.Refresh.Interval)
				assert.Equal(t, ":8080", config.Server.Addr)
			},
		},
		{
			name: "environment_variables",
			setupEnv: func(t *testing.T) {
				t.Setenv("DLT_SOURCE_PAGE_SIZE", "50")
				t.Setenv("DLT_SOURCE_PROVIDER", "sporttery-legacy")
				t.Setenv("DLT_CACHE_TTL", "30m")
				t.Setenv("DLT_CACHE_BACKEND", "redis")
				t.Setenv("DLT_REDIS_ADDR", "redis-cluster:6379")
				t.Setenv("DLT_REFRESH_INTERVAL", "15m")
			},
			expectError: false,
			validate: func(t *testing.T, config *Config) {
				assert.Equal(t, 50, config.Source.PageSize)
				assert.Equal(t, "sporttery-legacy", config.Source.Provider)
				assert.Equal(t, 30*time.Minute, config.Cache.TTL)
				assert.Equal(t, CacheBackendRedis, config.Cache.Backend)
				assert.Equal(t, "redis-cluster:6379", config.Redis.Addr)
				assert.Equal(t, 15*time.Minute, config.Refresh.Interval)
			},
		},
		{
			name: "invalid_page_size",
			setupEnv: func(t *testing.T) {
				t.Setenv("DLT_SOURCE_PAGE_SIZE", "1000") // 超过上限
			},
			expectError: true,
		},
		{
			name: "unknown_provider",
			setupEnv: func(t *testing.T) {
				t.Setenv("DLT_SOURCE_PROVIDER", "mystery")
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// 设置环境
			tt.setupEnv(t)

			// 没有配置文件时使用默认值和环境变量
			cm := NewConfigManager()
			config, err := cm.LoadConfig()

			if tt.expectError {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, config)
			assert.Same(t, config, cm.GetConfig())

			if tt.validate != nil {
				tt.validate(t, config)
			}
		})
	}
}

func TestConfigManager_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dlt.yaml")
	content := `
source:
  provider: opencode
  endpoint: https://example.com/api/draws
  page_size: 20
  timeout: 5s
cache:
  enabled: false
circuit_breaker:
  enabled: false
refresh:
  interval: 10m
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cm := NewConfigManager()
	cm.SetConfigFile(path)

	config, err := cm.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "opencode", config.Source.Provider)
	assert.Equal(t, "https://example.com/api/draws", config.Source.Endpoint)
	assert.Equal(t, 20, config.Source.PageSize)
	assert.Equal(t, 5*time.Second, config.Source.Timeout)
	assert.Equal(t, DefaultGameNo, config.Source.GameNo, "unset keys keep defaults")
	assert.False(t, config.Cache.Enabled)
	assert.False(t, config.CircuitBreaker.Enabled)
	assert.Equal(t, 10*time.Minute, config.Refresh.Interval)
	assert.Equal(t, "debug", config.Log.Level)

	// 配置文件损坏
	require.NoError(t, os.WriteFile(path, []byte("source: [unterminated"), 0o644))
	_, err = cm.ReloadConfig()
	assert.Error(t, err)
}

func TestConfig_Validation(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		expected error
	}{
		{"defaults", func(c *Config) {}, nil},
		{"bad_scheme", func(c *Config) { c.Source.Endpoint = "ftp://example.com" }, ErrInvalidEndpoint},
		{"no_host", func(c *Config) { c.Source.Endpoint = "https://" }, ErrInvalidEndpoint},
		{"page_size_zero", func(c *Config) { c.Source.PageSize = 0 }, ErrInvalidPageSize},
		{"page_size_too_big", func(c *Config) { c.Source.PageSize = MaxPageSize + 1 }, ErrInvalidPageSize},
		{"timeout_too_short", func(c *Config) { c.Source.Timeout = time.Millisecond }, ErrInvalidFetchTimeout},
		{"timeout_too_long", func(c *Config) { c.Source.Timeout = 2 * time.Minute }, ErrInvalidFetchTimeout},
		{"unknown_provider", func(c *Config) { c.Source.Provider = "mystery" }, ErrUnknownProvider},
		{"cache_ttl_too_long", func(c *Config) { c.Cache.TTL = 48 * time.Hour }, ErrInvalidCacheTTL},
		{"cache_ttl_ignored_when_disabled", func(c *Config) {
			c.Cache.Enabled = false
			c.Cache.TTL = 0
		}, nil},
		{"unknown_backend", func(c *Config) { c.Cache.Backend = "memcached" }, ErrInvalidCacheBackend},
		{"refresh_interval_zero", func(c *Config) { c.Refresh.Interval = 0 }, ErrInvalidRefreshInterval},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)

			err := config.Validate()
			if tt.expected == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.expected)
			}
		})
	}

	t.Run("redis_backend_requires_addr", func(t *testing.T) {
		config := DefaultConfig()
		config.Cache.Backend = CacheBackendRedis
		config.Redis.Addr = ""
		assert.Error(t, config.Validate())
	})

	t.Run("missing_sections", func(t *testing.T) {
		assert.Error(t, (&Config{}).Validate())
	})
}

func TestNewRedisClientFromConfig(t *testing.T) {
	config := DefaultRedisConfig()
	config.Addr = "redis.internal:6380"
	config.DB = 2

	client := NewRedisClientFromConfig(config)
	defer client.Close()

	opts := client.Options()
	assert.Equal(t, "redis.internal:6380", opts.Addr)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, DefaultRedisPoolSize, opts.PoolSize)

	assert.NotNil(t, NewRedisClientFromConfig(nil))
}
