package router

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	handlershared "github.com/souq-next/internal/http/handlers/shared"
	"github.com/souq-next/internal/http/response"
	"github.com/souq-next/internal/i18n"
	"github.com/souq-next/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitKeyFunc 生成限流 key
type RateLimitKeyFunc func(*gin.Context) string

// RateLimitRule 固定窗口限流规则，窗口或上限为 0 时不限流
type RateLimitRule struct {
	Prefix        string
	WindowSeconds int
	MaxRequests   int
	MessageKey    string // 超限提示的 i18n key，需包含一个秒数占位
}

func (r RateLimitRule) enabled() bool {
	return r.WindowSeconds > 0 && r.MaxRequests > 0
}

// 返回 {当前计数, 剩余 TTL}
var fixedWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
	redis.call("EXPIRE", KEYS[1], ARGV[1])
end
return {current, redis.call("TTL", KEYS[1])}
`)

var errBadScriptReply = errors.New("unexpected rate limit script reply")

// hitWindow 计数加一并返回窗口内次数与剩余秒数
func hitWindow(ctx context.Context, client *redis.Client, key string, windowSeconds int) (int64, int64, error) {
	reply, err := fixedWindowScript.Run(ctx, client, []string{key}, windowSeconds).Result()
	if err != nil {
		return 0, 0, err
	}
	values, ok := reply.([]interface{})
	if !ok || len(values) < 2 {
		return 0, 0, errBadScriptReply
	}
	count, ok := toInt64(values[0])
	if !ok {
		return 0, 0, errBadScriptReply
	}
	ttl, _ := toInt64(values[1])
	return count, ttl, nil
}

// RateLimitMiddleware 基于 Redis 的按调用方限流，Redis 未配置时直接放行
func RateLimitMiddleware(client *redis.Client, rule RateLimitRule, keyFunc RateLimitKeyFunc) gin.HandlerFunc {
	if keyFunc == nil {
		keyFunc = KeyByCaller
	}
	msgKey := strings.TrimSpace(rule.MessageKey)
	if msgKey == "" {
		msgKey = "error.too_many_requests"
	}

	return func(c *gin.Context) {
		if client == nil || !rule.enabled() {
			c.Next()
			return
		}

		key := strings.TrimSpace(keyFunc(c))
		if key == "" {
			key = c.ClientIP()
		}
		if rule.Prefix != "" {
			key = rule.Prefix + ":" + key
		}

		count, ttl, err := hitWindow(c.Request.Context(), client, key, rule.WindowSeconds)
		if err != nil {
			logger.Warnw("rate_limit_script_failed", "key", key, "error", err)
			response.Error(c, response.CodeInternal, i18n.T(i18n.ResolveLocale(c), "error.rate_limit_unavailable"))
			c.Abort()
			return
		}

		remaining := int64(rule.MaxRequests) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(rule.MaxRequests))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(rule.MaxRequests) {
			wait := retryAfterSeconds(ttl, rule.WindowSeconds)
			c.Header("Retry-After", strconv.Itoa(wait))
			logger.Debugw("rate_limit_exceeded", "key", key, "count", count, "wait_seconds", wait)
			response.Error(c, response.CodeTooManyRequests, i18n.Sprintf(i18n.ResolveLocale(c), msgKey, wait))
			c.Abort()
			return
		}
		c.Next()
	}
}

// retryAfterSeconds TTL 异常（-1/-2）时退回整个窗口
func retryAfterSeconds(ttl int64, window int) int {
	if ttl >= 1 {
		return int(ttl)
	}
	if window >= 1 {
		return window
	}
	return 1
}

// KeyByCaller 以调用方 ID 限流，未鉴权时回退为 IP
func KeyByCaller(c *gin.Context) string {
	if value, ok := c.Get(handlershared.CallerIDKey); ok {
		if id, ok := value.(uint); ok && id > 0 {
			return fmt.Sprintf("caller:%d", id)
		}
	}
	return c.ClientIP()
}

// KeyByCallerAndParam 调用方 + 路径参数，如同一商品的重复入库
func KeyByCallerAndParam(param string) RateLimitKeyFunc {
	return func(c *gin.Context) string {
		caller := KeyByCaller(c)
		if value := strings.TrimSpace(c.Param(param)); value != "" {
			return caller + "|" + value
		}
		return caller
	}
}

// toInt64 Lua 整数经 go-redis 解析为 int64，其余类型兜底
func toInt64(value interface{}) (int64, bool) {
	switch v := value.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case uint64:
		return int64(v), true
	case float64:
		return int64(v), true
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		return n, err == nil
	}
	return 0, false
}
