package cache

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript 仅当持有者令牌匹配时删除锁
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLock 基于 SETNX 的分布式互斥锁
// Redis 未启用时退化为总是成功（单实例部署由进程内互斥保护）。
type RedisLock struct{}

// NewRedisLock 创建分布式锁
func NewRedisLock() *RedisLock {
	return &RedisLock{}
}

// TryLock 尝试加锁，返回持有者令牌
func (l *RedisLock) TryLock(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	if ttl <= 0 {
		return "", false, errors.New("lock ttl must be positive")
	}
	token := uuid.NewString()
	client := Client()
	if client == nil {
		return token, true, nil
	}
	ok, err := client.SetNX(ctx, Key(key), token, ttl).Result()
	if err != nil {
		return "", false, err
	}
	return token, ok, nil
}

// Unlock 释放锁，令牌不匹配时不做任何事
func (l *RedisLock) Unlock(ctx context.Context, key, token string) error {
	client := Client()
	if client == nil || token == "" {
		return nil
	}
	err := releaseScript.Run(ctx, client, []string{Key(key)}, token).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}
