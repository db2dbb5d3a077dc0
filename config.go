package dlt

import (
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-redis/redis/v8"
	"github.com/spf13/viper"
)

// Config 应用配置结构
type Config struct {
	// 数据源配置
	Source *SourceConfig `mapstructure:"source"`

	// 缓存配置
	Cache *CacheConfig `mapstructure:"cache"`

	// Redis 配置
	Redis *RedisConfig `mapstructure:"redis"`

	// 熔断器配置
	CircuitBreaker *CircuitBreakerConfig `mapstructure:"circuit_breaker"`

	// 定时刷新配置
	Refresh *RefreshConfig `mapstructure:"refresh"`

	// HTTP 服务配置
	Server *ServerConfig `mapstructure:"server"`

	// 日志配置
	Log *LogConfig `mapstructure:"log"`
}

// Validate 验证配置
func (c *Config) Validate() error {
	if c.Source == nil || c.Cache == nil || c.Refresh == nil {
		return fmt.Errorf("source, cache and refresh sections are required")
	}

	// 验证数据源配置
	u, err := url.Parse(c.Source.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidEndpoint
	}
	if c.Source.PageSize < 1 || c.Source.PageSize > MaxPageSize {
		return ErrInvalidPageSize
	}
	if c.Source.PageNo < 1 {
		return fmt.Errorf("page number must be positive")
	}
	if c.Source.Timeout < MinFetchTimeout || c.Source.Timeout > MaxFetchTimeout {
		return ErrInvalidFetchTimeout
	}
	if _, err := LookupProvider(c.Source.Provider); err != nil {
		return err
	}

	// 验证缓存配置
	if c.Cache.Enabled {
		if c.Cache.TTL < MinCacheTTL || c.Cache.TTL > MaxCacheTTL {
			return ErrInvalidCacheTTL
		}
		switch c.Cache.Backend {
		case CacheBackendMemory:
		case CacheBackendRedis:
			if c.Redis == nil || c.Redis.Addr == "" {
				return fmt.Errorf("redis address is required")
			}
			if c.Redis.PoolSize <= 0 {
				return fmt.Errorf("redis pool size must be positive")
			}
		default:
			return ErrInvalidCacheBackend
		}
	}

	if c.Refresh.Interval <= 0 {
		return ErrInvalidRefreshInterval
	}

	return nil
}

// SourceConfig 数据源配置
type SourceConfig struct {
	Endpoint  string        `mapstructure:"endpoint"`
	Provider  string        `mapstructure:"provider"`
	GameNo    string        `mapstructure:"game_no"`
	PageSize  int           `mapstructure:"page_size"`
	PageNo    int           `mapstructure:"page_no"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

// Query builds the fetch query described by the source section
func (s *SourceConfig) Query() Query {
	return Query{
		Endpoint: s.Endpoint,
		Provider: s.Provider,
		GameNo:   s.GameNo,
		PageSize: s.PageSize,
		PageNo:   s.PageNo,
	}
}

// DefaultSourceConfig 返回默认数据源配置
func DefaultSourceConfig() *SourceConfig {
	return &SourceConfig{
		Endpoint:  DefaultEndpoint,
		Provider:  DefaultProvider,
		GameNo:    DefaultGameNo,
		PageSize:  DefaultPageSize,
		PageNo:    DefaultPageNo,
		Timeout:   DefaultFetchTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// CacheConfig 缓存配置
type CacheConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Backend   string        `mapstructure:"backend"`
	TTL       time.Duration `mapstructure:"ttl"`
	KeyPrefix string        `mapstructure:"key_prefix"`
}

// DefaultCacheConfig 返回默认缓存配置
func DefaultCacheConfig() *CacheConfig {
	return &CacheConfig{
		Enabled:   true,
		Backend:   CacheBackendMemory,
		TTL:       DefaultCacheTTL,
		KeyPrefix: CacheKeyPrefix,
	}
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`

	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DefaultRedisConfig 返回默认的Redis配置
func DefaultRedisConfig() *RedisConfig {
	return &RedisConfig{
		Addr:         DefaultRedisAddr,
		Password:     DefaultRedisPassword,
		DB:           DefaultRedisDB,
		PoolSize:     DefaultRedisPoolSize,
		DialTimeout:  DefaultRedisDialTimeout,
		ReadTimeout:  DefaultRedisReadTimeout,
		WriteTimeout: DefaultRedisWriteTimeout,
	}
}

// NewRedisClientFromConfig 从配置创建Redis客户端
func NewRedisClientFromConfig(config *RedisConfig) *redis.Client {
	if config == nil {
		config = DefaultRedisConfig()
	}

	return redis.NewClient(&redis.Options{
		Addr:         config.Addr,
		Password:     config.Password,
		DB:           config.DB,
		PoolSize:     config.PoolSize,
		DialTimeout:  config.DialTimeout,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	})
}

// CircuitBreakerConfig 熔断器配置
type CircuitBreakerConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	Name          string        `mapstructure:"name"`
	MaxRequests   uint32        `mapstructure:"max_requests"`
	Interval      time.Duration `mapstructure:"interval"`
	Timeout       time.Duration `mapstructure:"timeout"`
	FailureRatio  float64       `mapstructure:"failure_ratio"`
	MinRequests   uint32        `mapstructure:"min_requests"`
	OnStateChange bool          `mapstructure:"on_state_change"`
}

// DefaultCircuitBreakerConfig 返回默认熔断器配置
func DefaultCircuitBreakerConfig() *CircuitBreakerConfig {
	return &CircuitBreakerConfig{
		Enabled:       true,
		Name:          DefaultCircuitBreakerName,
		MaxRequests:   DefaultCircuitBreakerMaxRequests,
		Interval:      DefaultCircuitBreakerInterval,
		Timeout:       DefaultCircuitBreakerTimeout,
		FailureRatio:  DefaultCircuitBreakerFailureRatio,
		MinRequests:   DefaultCircuitBreakerMinRequests,
		OnStateChange: DefaultCircuitBreakerOnStateChange,
	}
}

// RefreshConfig 定时刷新配置
type RefreshConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// DefaultConfig 返回完整的默认配置
func DefaultConfig() *Config {
	return &Config{
		Source:         DefaultSourceConfig(),
		Cache:          DefaultCacheConfig(),
		Redis:          DefaultRedisConfig(),
		CircuitBreaker: DefaultCircuitBreakerConfig(),
		Refresh:        &RefreshConfig{Enabled: true, Interval: DefaultRefreshInterval},
		Server:         &ServerConfig{Addr: DefaultServerAddr},
		Log:            &LogConfig{Level: "info"},
	}
}

// ConfigManager 配置管理器
type ConfigManager struct {
	viper  *viper.Viper
	mu     sync.RWMutex
	config *Config
}

// NewConfigManager 创建配置管理器
func NewConfigManager() *ConfigManager {
	v := viper.New()

	// 设置配置文件名和路径
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/dlt")
	v.AddConfigPath("$HOME/.dlt")

	// 设置环境变量前缀
	v.SetEnvPrefix("DLT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cm := &ConfigManager{viper: v}
	cm.setDefaults()
	return cm
}

// SetConfigFile 使用指定的配置文件
func (cm *ConfigManager) SetConfigFile(path string) {
	if path != "" {
		cm.viper.SetConfigFile(path)
	}
}

// LoadConfig 加载配置
func (cm *ConfigManager) LoadConfig() (*Config, error) {
	// 读取配置文件
	if err := cm.viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// 配置文件不存在时使用默认配置
	}

	config, err := cm.decode()
	if err != nil {
		return nil, err
	}

	cm.mu.Lock()
	cm.config = config
	cm.mu.Unlock()
	return config, nil
}

func (cm *ConfigManager) decode() (*Config, error) {
	config := &Config{}
	if err := cm.viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return config, nil
}

// setDefaults 设置默认配置值
func (cm *ConfigManager) setDefaults() {
	// 数据源默认配置
	cm.viper.SetDefault("source.endpoint", DefaultEndpoint)
	cm.viper.SetDefault("source.provider", DefaultProvider)
	cm.viper.SetDefault("source.game_no", DefaultGameNo)
	cm.viper.SetDefault("source.page_size", DefaultPageSize)
	cm.viper.SetDefault("source.page_no", DefaultPageNo)
	cm.viper.SetDefault("source.timeout", "10s")
	cm.viper.SetDefault("source.user_agent", DefaultUserAgent)

	// 缓存默认配置
	cm.viper.SetDefault("cache.enabled", true)
	cm.viper.SetDefault("cache.backend", CacheBackendMemory)
	cm.viper.SetDefault("cache.ttl", "1h")
	cm.viper.SetDefault("cache.key_prefix", CacheKeyPrefix)

	// Redis 默认配置
	cm.viper.SetDefault("redis.addr", DefaultRedisAddr)
	cm.viper.SetDefault("redis.password", DefaultRedisPassword)
	cm.viper.SetDefault("redis.db", DefaultRedisDB)
	cm.viper.SetDefault("redis.pool_size", DefaultRedisPoolSize)
	cm.viper.SetDefault("redis.dial_timeout", "5s")
	cm.viper.SetDefault("redis.read_timeout", "3s")
	cm.viper.SetDefault("redis.write_timeout", "3s")

	// 熔断器默认配置
	cm.viper.SetDefault("circuit_breaker.enabled", true)
	cm.viper.SetDefault("circuit_breaker.name", DefaultCircuitBreakerName)
	cm.viper.SetDefault("circuit_breaker.max_requests", DefaultCircuitBreakerMaxRequests)
	cm.viper.SetDefault("circuit_breaker.interval", "60s")
	cm.viper.SetDefault("circuit_breaker.timeout", "5m")
	cm.viper.SetDefault("circuit_breaker.failure_ratio", DefaultCircuitBreakerFailureRatio)
	cm.viper.SetDefault("circuit_breaker.min_requests", DefaultCircuitBreakerMinRequests)
	cm.viper.SetDefault("circuit_breaker.on_state_change", true)

	// 刷新、服务与日志默认配置
	cm.viper.SetDefault("refresh.enabled", true)
	cm.viper.SetDefault("refresh.interval", "60m")
	cm.viper.SetDefault("server.addr", DefaultServerAddr)
	cm.viper.SetDefault("log.level", "info")
}

// WatchConfig 监听配置变化
func (cm *ConfigManager) WatchConfig(callback func(*Config)) {
	cm.viper.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}

		// 配置无效时保留旧配置
		config, err := cm.decode()
		if err != nil {
			return
		}

		cm.mu.Lock()
		cm.config = config
		cm.mu.Unlock()
		if callback != nil {
			callback(config)
		}
	})
	cm.viper.WatchConfig()
}

// GetConfig 获取当前配置
func (cm *ConfigManager) GetConfig() *Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	return cm.config
}

// ReloadConfig 重新加载配置
func (cm *ConfigManager) ReloadConfig() (*Config, error) { return cm.LoadConfig() }
