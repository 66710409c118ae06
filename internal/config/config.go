package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/souq-next/internal/logger"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config 应用配置结构
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Database  DatabaseConfig  `mapstructure:"database"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Queue     QueueConfig     `mapstructure:"queue"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Security  SecurityConfig  `mapstructure:"security"`
	Inventory InventoryConfig `mapstructure:"inventory"`
	Finance   FinanceConfig   `mapstructure:"finance"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug / release
}

// LogConfig 日志配置
type LogConfig struct {
	Dir        string `mapstructure:"dir"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
	Level      string `mapstructure:"level"`   // debug / info / warn / error
	Console    bool   `mapstructure:"console"` // release 模式同时输出 stdout
}

// ToLoggerOptions 转换为 logger 配置
func (c LogConfig) ToLoggerOptions() logger.Options {
	return logger.Options{
		Dir:        c.Dir,
		Filename:   c.Filename,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
		Compress:   c.Compress,
		Level:      c.Level,
		Console:    c.Console,
	}
}

// DatabasePoolConfig 数据库连接池配置
type DatabasePoolConfig struct {
	MaxOpenConns           int `mapstructure:"max_open_conns"`
	MaxIdleConns           int `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeSeconds int `mapstructure:"conn_max_lifetime_seconds"`
	ConnMaxIdleTimeSeconds int `mapstructure:"conn_max_idle_time_seconds"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver string             `mapstructure:"driver"` // 数据库驱动（sqlite/postgres）
	DSN    string             `mapstructure:"dsn"`    // 数据库连接串
	Pool   DatabasePoolConfig `mapstructure:"pool"`
}

// JWTConfig 调用方令牌配置（只做校验，签发仅用于 seed）
type JWTConfig struct {
	SecretKey   string `mapstructure:"secret"`
	Issuer      string `mapstructure:"issuer"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// Addr 缓存 Redis 地址
func (c RedisConfig) Addr() string {
	return redisAddr(c.Host, c.Port)
}

func redisAddr(host string, port int) string {
	host = strings.TrimSpace(host)
	if host == "" {
		host = "127.0.0.1"
	}
	if port <= 0 {
		port = 6379
	}
	return fmt.Sprintf("%s:%d", host, port)
}

// QueueConfig 异步队列配置
type QueueConfig struct {
	Enabled     bool           `mapstructure:"enabled"`
	Host        string         `mapstructure:"host"`
	Port        int            `mapstructure:"port"`
	Password    string         `mapstructure:"password"`
	DB          int            `mapstructure:"db"`
	Concurrency int            `mapstructure:"concurrency"`
	Queues      map[string]int `mapstructure:"queues"`
	// 对账任务投递参数
	ReconcileMaxRetry       int `mapstructure:"reconcile_max_retry"`
	ReconcileTimeoutSeconds int `mapstructure:"reconcile_timeout_seconds"`
	ReconcileUniqueSeconds  int `mapstructure:"reconcile_unique_seconds"` // 窗口内重复投递视为同一任务
}

// Addr 队列 Redis 地址
func (c QueueConfig) Addr() string {
	return redisAddr(c.Host, c.Port)
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	WriteRateLimit     RateLimitConfig `mapstructure:"write_rate_limit"`     // 入库写接口限流（按调用方）
	ReconcileRateLimit RateLimitConfig `mapstructure:"reconcile_rate_limit"` // 手动对账限流（按调用方）
}

// RateLimitConfig 限流配置，任一值为 0 表示关闭
type RateLimitConfig struct {
	WindowSeconds int `mapstructure:"window_seconds"`
	MaxRequests   int `mapstructure:"max_requests"`
}

// InventoryConfig 库存配置
type InventoryConfig struct {
	DefaultCurrency string `mapstructure:"default_currency"` // 商品未设置基础币种时使用
}

// FinanceConfig 财务与利润对账配置
type FinanceConfig struct {
	ReconcileOnRead          bool   `mapstructure:"reconcile_on_read"`          // 读取财务流水前先对账
	ReconcileIntervalSeconds int    `mapstructure:"reconcile_interval_seconds"` // 周期对账间隔，0 表示关闭
	ReconcileLockSeconds     int    `mapstructure:"reconcile_lock_seconds"`     // 对账分布式锁 TTL
	ProfitEpsilon            string `mapstructure:"profit_epsilon"`             // 利润差异阈值
}

// ReconcileInterval 周期对账间隔
func (c FinanceConfig) ReconcileInterval() time.Duration {
	if c.ReconcileIntervalSeconds <= 0 {
		return 0
	}
	return time.Duration(c.ReconcileIntervalSeconds) * time.Second
}

// ReconcileLockTTL 对账锁 TTL，默认 5 分钟
func (c FinanceConfig) ReconcileLockTTL() time.Duration {
	if c.ReconcileLockSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.ReconcileLockSeconds) * time.Second
}

// Epsilon 利润差异阈值，非法或非正值回退为 0.01
func (c FinanceConfig) Epsilon() decimal.Decimal {
	fallback := decimal.NewFromFloat(0.01)
	raw := strings.TrimSpace(c.ProfitEpsilon)
	if raw == "" {
		return fallback
	}
	value, err := decimal.NewFromString(raw)
	if err != nil || !value.IsPositive() {
		return fallback
	}
	return value
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("log.dir", "")
	v.SetDefault("log.filename", "souq.log")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 7)
	v.SetDefault("log.max_age_days", 30)
	v.SetDefault("log.compress", true)
	v.SetDefault("log.level", "")
	v.SetDefault("log.console", false)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "./db/souq.db")
	v.SetDefault("database.pool.max_open_conns", 1)
	v.SetDefault("database.pool.max_idle_conns", 1)
	v.SetDefault("database.pool.conn_max_lifetime_seconds", 0)
	v.SetDefault("database.pool.conn_max_idle_time_seconds", 0)
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.issuer", "souq-next")
	v.SetDefault("jwt.expire_hours", 24)
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "127.0.0.1")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "souq")
	v.SetDefault("queue.enabled", false)
	v.SetDefault("queue.host", "127.0.0.1")
	v.SetDefault("queue.port", 6379)
	v.SetDefault("queue.password", "")
	v.SetDefault("queue.db", 1)
	v.SetDefault("queue.concurrency", 4)
	v.SetDefault("queue.queues", map[string]int{
		"default": 10,
	})
	v.SetDefault("queue.reconcile_max_retry", 3)
	v.SetDefault("queue.reconcile_timeout_seconds", 600)
	v.SetDefault("queue.reconcile_unique_seconds", 60)
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{
		"Content-Type",
		"Content-Length",
		"Accept-Encoding",
		"Accept-Language",
		"Authorization",
		"X-Request-ID",
	})
	v.SetDefault("cors.allow_credentials", true)
	v.SetDefault("cors.max_age", 600)
	v.SetDefault("security.write_rate_limit.window_seconds", 60)
	v.SetDefault("security.write_rate_limit.max_requests", 120)
	v.SetDefault("security.reconcile_rate_limit.window_seconds", 60)
	v.SetDefault("security.reconcile_rate_limit.max_requests", 3)
	v.SetDefault("inventory.default_currency", "AED")
	v.SetDefault("finance.reconcile_on_read", false)
	v.SetDefault("finance.reconcile_interval_seconds", 600)
	v.SetDefault("finance.reconcile_lock_seconds", 300)
	v.SetDefault("finance.profit_epsilon", "0.01")
}

// Load 从 config.yml 加载配置
func Load() *Config {
	cfg, err := LoadWith(viper.New(), ".", "../", "./etc")
	if err != nil {
		logger.Errorw("config_unmarshal_failed", "error", err)
		panic(fmt.Errorf("配置解析失败: %w", err))
	}
	return cfg
}

// LoadWith 使用指定 viper 实例与搜索路径加载配置
func LoadWith(v *viper.Viper, paths ...string) (*Config, error) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, path := range paths {
		v.AddConfigPath(path)
	}
	setDefaults(v)

	// 环境变量支持，例如 server.port -> SERVER_PORT
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		logger.Warnw("config_file_read_failed",
			"error", err,
			"fallback", "env_or_defaults",
		)
	} else {
		logger.Infow("config_file_loaded", "file", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
