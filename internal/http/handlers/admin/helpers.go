package admin

import (
	handlershared "github.com/souq-next/internal/http/handlers/shared"
	"github.com/souq-next/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// getCallerScope 缺失时已写入 401 响应
func getCallerScope(c *gin.Context) (service.Scope, bool) {
	return handlershared.CallerScope(c)
}

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

// respondServiceError 业务错误映射为响应码，未知错误按 fallbackKey 返回 500
func respondServiceError(c *gin.Context, err error, fallbackKey string) {
	handlershared.RespondServiceError(c, err, fallbackKey)
}
