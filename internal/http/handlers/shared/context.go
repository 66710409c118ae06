package shared

import (
	"github.com/souq-next/internal/http/response"
	"github.com/souq-next/internal/service"

	"github.com/gin-gonic/gin"
)

// 上下文键
const (
	CallerIDKey    = "caller_id"
	CallerScopeKey = "caller_scope"
)

// SetCallerScope 写入已解析的调用方范围
func SetCallerScope(c *gin.Context, scope *service.Scope) {
	if c == nil || scope == nil {
		return
	}
	c.Set(CallerIDKey, scope.UserID)
	c.Set(CallerScopeKey, scope)
}

// CallerScope 读取调用方范围，缺失时直接返回 401
func CallerScope(c *gin.Context) (service.Scope, bool) {
	value, exists := c.Get(CallerScopeKey)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return service.Scope{}, false
	}
	scope, ok := value.(*service.Scope)
	if !ok || scope == nil {
		RespondError(c, response.CodeInternal, "error.internal", nil)
		return service.Scope{}, false
	}
	return *scope, true
}
