package cache

import (
	"context"
	"strings"
	"sync"

	"github.com/souq-next/internal/config"

	"github.com/redis/go-redis/v9"
)

const defaultPrefix = "souq"

// 进程内共享的 Redis 连接，未启用时 client 为 nil
var state = struct {
	sync.RWMutex
	client *redis.Client
	prefix string
}{prefix: defaultPrefix}

// InitRedis 按配置建立连接，未启用时保持关闭
func InitRedis(cfg *config.RedisConfig) error {
	if cfg == nil || !cfg.Enabled {
		UseClient(nil, "")
		return nil
	}
	UseClient(redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	}), cfg.Prefix)
	return nil
}

// UseClient 注入已有连接，传 nil 即关闭缓存
func UseClient(client *redis.Client, prefix string) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = defaultPrefix
	}
	state.Lock()
	state.client = client
	state.prefix = prefix
	state.Unlock()
}

// Enabled 缓存是否可用
func Enabled() bool {
	return Client() != nil
}

// Client 当前连接，未启用时返回 nil
func Client() *redis.Client {
	state.RLock()
	defer state.RUnlock()
	return state.client
}

// Key 拼接带全局前缀的 key，如 Key("rate", "reconcile") -> souq:rate:reconcile
func Key(parts ...string) string {
	state.RLock()
	segments := []string{state.prefix}
	state.RUnlock()
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			segments = append(segments, part)
		}
	}
	return strings.Join(segments, ":")
}

// Ping 探活，未启用时返回 nil
func Ping(ctx context.Context) error {
	client := Client()
	if client == nil {
		return nil
	}
	return client.Ping(ctx).Err()
}

// Close 关闭连接
func Close() error {
	state.Lock()
	client := state.client
	state.client = nil
	state.Unlock()
	if client == nil {
		return nil
	}
	return client.Close()
}
