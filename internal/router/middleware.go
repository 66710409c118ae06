package router

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/souq-next/internal/authz"
	"github.com/souq-next/internal/config"
	handlershared "github.com/souq-next/internal/http/handlers/shared"
	"github.com/souq-next/internal/http/response"
	"github.com/souq-next/internal/i18n"
	"github.com/souq-next/internal/logger"
	"github.com/souq-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-ID"

// CORSMiddleware 跨域中间件
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	allowedMethods := cfg.AllowedMethods
	if len(allowedMethods) == 0 {
		allowedMethods = []string{"GET", "POST", "OPTIONS"}
	}
	allowedHeaders := cfg.AllowedHeaders
	if len(allowedHeaders) == 0 {
		allowedHeaders = []string{
			"Content-Type",
			"Accept-Language",
			"Authorization",
			requestIDHeader,
		}
	}
	methodsHeader := strings.Join(allowedMethods, ", ")
	headersHeader := strings.Join(allowedHeaders, ", ")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		allowedOrigin := resolveAllowedOrigin(origin, allowedOrigins, cfg.AllowCredentials)
		if allowedOrigin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			if allowedOrigin != "*" {
				c.Writer.Header().Add("Vary", "Origin")
			}
		}
		if cfg.AllowCredentials {
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", headersHeader)
		c.Writer.Header().Set("Access-Control-Allow-Methods", methodsHeader)
		c.Writer.Header().Set("Access-Control-Expose-Headers", requestIDHeader)
		if cfg.MaxAge > 0 {
			c.Writer.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func resolveAllowedOrigin(origin string, allowedOrigins []string, allowCredentials bool) string {
	for _, allowed := range allowedOrigins {
		if allowed == "*" {
			if allowCredentials && origin != "" {
				return origin
			}
			return "*"
		}
	}
	if origin == "" {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if strings.EqualFold(allowed, origin) {
			return origin
		}
	}
	return ""
}

// RequestIDMiddleware 请求 ID 中间件
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(response.RequestIDKey, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Next()
	}
}

// LoggerMiddleware 结构化请求日志中间件
func LoggerMiddleware(log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.L()
	}
	sugar := log.Sugar()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []interface{}{
			"request_id", response.RequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if callerID, ok := c.Get(handlershared.CallerIDKey); ok {
			fields = append(fields, "caller_id", callerID)
		}
		if len(c.Errors) > 0 {
			sugar.Errorw("request", append(fields, "errors", c.Errors.String())...)
			return
		}
		sugar.Infow("request", fields...)
	}
}

func abortUnauthorized(c *gin.Context, key string) {
	response.AbortWithError(c, response.CodeUnauthorized, i18n.T(i18n.ResolveLocale(c), key))
}

func abortForbidden(c *gin.Context, key string) {
	response.AbortWithError(c, response.CodeForbidden, i18n.T(i18n.ResolveLocale(c), key))
}

// CallerAuthMiddleware 调用方令牌鉴权中间件
// 校验 Bearer 令牌，加载账号并解析可见范围写入上下文。
func CallerAuthMiddleware(tokens *service.TokenService, resolver *service.ScopeResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !tokens.Configured() {
			abortUnauthorized(c, "error.jwt_secret_missing")
			return
		}
		if resolver == nil {
			abortUnauthorized(c, "error.token_invalid")
			return
		}
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			abortUnauthorized(c, "error.auth_header_missing")
			return
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer" && strings.TrimSpace(parts[1]) != "") {
			abortUnauthorized(c, "error.auth_header_invalid")
			return
		}

		claims, err := tokens.Parse(strings.TrimSpace(parts[1]))
		if err != nil {
			abortUnauthorized(c, "error.token_invalid")
			return
		}

		scope, err := resolver.Resolve(c.Request.Context(), claims.UserID)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrUnauthorized):
				abortUnauthorized(c, "error.token_invalid")
			case errors.Is(err, service.ErrUnknownRole):
				abortForbidden(c, "error.role_unknown")
			case errors.Is(err, service.ErrForbidden):
				abortForbidden(c, "error.forbidden")
			default:
				logger.Errorw("caller_scope_resolve_failed", "user_id", claims.UserID, "error", err)
				response.AbortWithError(c, response.CodeInternal, i18n.T(i18n.ResolveLocale(c), "error.internal"))
			}
			return
		}

		handlershared.SetCallerScope(c, scope)
		c.Next()
	}
}

// RBACMiddleware 角色路由鉴权中间件
func RBACMiddleware(authzService *authz.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authzService == nil {
			logger.Errorw("rbac_service_unavailable")
			abortUnauthorized(c, "error.unauthorized")
			return
		}
		value, exists := c.Get(handlershared.CallerScopeKey)
		scope, ok := value.(*service.Scope)
		if !exists || !ok || scope == nil {
			abortUnauthorized(c, "error.unauthorized")
			return
		}

		resource := c.FullPath()
		if strings.TrimSpace(resource) == "" {
			resource = c.Request.URL.Path
		}

		allowed, err := authzService.EnforceCaller(scope.UserID, scope.Role, resource, c.Request.Method)
		if err != nil {
			logger.Errorw("rbac_enforce_failed",
				"user_id", scope.UserID,
				"role", scope.Role,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"error", err,
			)
			abortUnauthorized(c, "error.unauthorized")
			return
		}
		if !allowed {
			logger.Warnw("rbac_permission_denied",
				"user_id", scope.UserID,
				"role", scope.Role,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"resource", authz.NormalizeObject(resource),
			)
			abortForbidden(c, "error.forbidden")
			return
		}

		c.Next()
	}
}
