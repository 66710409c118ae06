package i18n

var catalogs = map[string]map[string]string{
	LocaleEN: {
		"success":                      "success",
		"error.bad_request":            "invalid request",
		"error.unauthorized":           "unauthorized",
		"error.forbidden":              "forbidden",
		"error.not_found":              "resource not found",
		"error.internal":               "internal server error",
		"error.auth_header_missing":    "authorization header is missing",
		"error.auth_header_invalid":    "authorization header is invalid",
		"error.token_invalid":          "token is invalid or expired",
		"error.jwt_secret_missing":     "token secret is not configured",
		"error.role_unknown":           "unknown account role",
		"error.product_not_found":      "product not found",
		"error.product_id_invalid":     "invalid product id",
		"error.product_forbidden":      "product is outside your workspace",
		"error.quantity_invalid":       "quantity must be greater than 0",
		"error.country_required":       "country is required",
		"error.country_forbidden":      "country is outside your allowed countries",
		"error.pagination_invalid":     "invalid pagination parameters",
		"error.is_paid_invalid":        "is_paid must be true or false",
		"error.reconcile_running":      "profit reconciliation is already running",
		"error.reconcile_failed":       "profit reconciliation failed",
		"error.inventory_fetch":        "failed to load inventory",
		"error.stock_add_failed":       "failed to add stock",
		"error.history_fetch":          "failed to load stock history",
		"error.finance_fetch":          "failed to load finance records",
		"error.rate_limit_unavailable": "rate limiter is unavailable",
		"error.too_many_requests":      "too many requests, retry after %d seconds",
		"reconcile.enqueued":           "profit reconciliation queued",
		"reconcile.already_enqueued":   "profit reconciliation is already queued",
		"reconcile.finished":           "profit reconciliation finished",
		"stock.added":                  "stock added",
	},
	LocaleZH: {
		"success":                      "成功",
		"error.bad_request":            "请求参数错误",
		"error.unauthorized":           "未登录或登录已失效",
		"error.forbidden":              "无权访问",
		"error.not_found":              "资源不存在",
		"error.internal":               "服务器内部错误",
		"error.auth_header_missing":    "缺少认证信息",
		"error.auth_header_invalid":    "认证信息格式错误",
		"error.token_invalid":          "令牌无效或已过期",
		"error.jwt_secret_missing":     "未配置令牌密钥",
		"error.role_unknown":           "未知的账号角色",
		"error.product_not_found":      "商品不存在",
		"error.product_id_invalid":     "商品 ID 无效",
		"error.product_forbidden":      "商品不在当前工作区",
		"error.quantity_invalid":       "数量必须大于 0",
		"error.country_required":       "国家不能为空",
		"error.country_forbidden":      "无权操作该国家库存",
		"error.pagination_invalid":     "分页参数错误",
		"error.is_paid_invalid":        "is_paid 只能为 true 或 false",
		"error.reconcile_running":      "利润对账正在执行",
		"error.reconcile_failed":       "利润对账失败",
		"error.inventory_fetch":        "获取库存失败",
		"error.stock_add_failed":       "入库失败",
		"error.history_fetch":          "获取入库记录失败",
		"error.finance_fetch":          "获取财务流水失败",
		"error.rate_limit_unavailable": "限流服务不可用",
		"error.too_many_requests":      "请求过于频繁，请 %d 秒后重试",
		"reconcile.enqueued":           "利润对账已加入队列",
		"reconcile.already_enqueued":   "利润对账已在队列中",
		"reconcile.finished":           "利润对账完成",
		"stock.added":                  "入库成功",
	},
	LocaleTW: {
		"success":            "成功",
		"error.unauthorized": "未登入或登入已失效",
		"error.forbidden":    "無權存取",
		"error.not_found":    "資源不存在",
		"error.internal":     "伺服器內部錯誤",
	},
}
