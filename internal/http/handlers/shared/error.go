package shared

import (
	"errors"

	"github.com/souq-next/internal/http/response"
	"github.com/souq-next/internal/i18n"
	"github.com/souq-next/internal/logger"
	"github.com/souq-next/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if id := response.RequestID(c); id != "" {
		return logger.SW(response.RequestIDKey, id)
	}
	return logger.S()
}

// RespondError 返回国际化错误响应，并在有原始错误时记录日志。
func RespondError(c *gin.Context, code int, key string, err error) {
	msg := i18n.T(i18n.ResolveLocale(c), key)
	RespondErrorWithMsg(c, code, msg, err)
}

// RespondErrorWithMsg 返回自定义消息错误响应，并在有原始错误时记录日志。
func RespondErrorWithMsg(c *gin.Context, code int, msg string, err error) {
	if err != nil {
		log := RequestLog(c).With("code", code, "message", msg, "error", err)
		if code >= response.CodeInternal {
			log.Errorw("handler_error")
		} else {
			log.Warnw("handler_rejected")
		}
	}
	response.Error(c, code, msg)
}

// serviceErrorMapping 业务错误到状态码与消息 key 的映射
var serviceErrorMapping = []struct {
	err  error
	code int
	key  string
}{
	{service.ErrInvalidProductID, response.CodeBadRequest, "error.product_id_invalid"},
	{service.ErrInvalidQuantity, response.CodeBadRequest, "error.quantity_invalid"},
	{service.ErrCountryRequired, response.CodeBadRequest, "error.country_required"},
	{service.ErrInvalidPagination, response.CodeBadRequest, "error.pagination_invalid"},
	{service.ErrUnauthorized, response.CodeUnauthorized, "error.unauthorized"},
	{service.ErrInvalidToken, response.CodeUnauthorized, "error.token_invalid"},
	{service.ErrUnknownRole, response.CodeForbidden, "error.role_unknown"},
	{service.ErrForbidden, response.CodeForbidden, "error.forbidden"},
	{service.ErrNotFound, response.CodeNotFound, "error.not_found"},
	{service.ErrReconcileRunning, response.CodeConflict, "error.reconcile_running"},
}

// RespondServiceError 按业务错误映射响应，未识别的错误使用 fallbackKey 返回 500
func RespondServiceError(c *gin.Context, err error, fallbackKey string) {
	for _, item := range serviceErrorMapping {
		if errors.Is(err, item.err) {
			RespondError(c, item.code, item.key, err)
			return
		}
	}
	if fallbackKey == "" {
		fallbackKey = "error.internal"
	}
	RespondError(c, response.CodeInternal, fallbackKey, err)
}
