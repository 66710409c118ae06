package router

import (
	"net/http"

	"github.com/souq-next/internal/cache"
	"github.com/souq-next/internal/config"
	adminhandlers "github.com/souq-next/internal/http/handlers/admin"
	"github.com/souq-next/internal/logger"
	"github.com/souq-next/internal/models"
	"github.com/souq-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	handler := adminhandlers.New(c)
	redisClient := cache.Client()
	writeRule := RateLimitRule{
		Prefix:        cache.Key("rate", "stock_write"),
		WindowSeconds: cfg.Security.WriteRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.WriteRateLimit.MaxRequests,
	}
	reconcileRule := RateLimitRule{
		Prefix:        cache.Key("rate", "reconcile"),
		WindowSeconds: cfg.Security.ReconcileRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.ReconcileRateLimit.MaxRequests,
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	authorized := apiV1.Group("")
	authorized.Use(CallerAuthMiddleware(c.TokenService, c.ScopeResolver), RBACMiddleware(c.AuthzService))
	{
		// 库存
		inventory := authorized.Group("/inventory")
		{
			inventory.GET("/summary", handler.GetWarehouseSummary)
			inventory.GET("/products/:id/history", handler.GetStockHistory)
			inventory.POST("/products/:id/stock", RateLimitMiddleware(redisClient, writeRule, KeyByCallerAndParam("id")), handler.AddStock)
		}

		// 财务
		authorized.GET("/finance/orders", handler.ListFinanceOrders)

		// 管理
		admin := authorized.Group("/admin")
		{
			admin.POST("/finance/reconcile", RateLimitMiddleware(redisClient, reconcileRule, KeyByCaller), handler.TriggerProfitReconcile)
			admin.GET("/finance/reconcile/latest", handler.GetLatestReconcileRun)
		}
	}

	// 健康检查
	r.GET("/health", healthHandler)

	return r
}

func healthHandler(c *gin.Context) {
	status := gin.H{"status": "ok"}
	if models.DB != nil {
		if sqlDB, err := models.DB.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			status["status"] = "degraded"
			status["database"] = "unreachable"
		}
	}
	if cache.Enabled() {
		if err := cache.Ping(c.Request.Context()); err != nil {
			status["status"] = "degraded"
			status["redis"] = "unreachable"
		}
	}
	c.JSON(http.StatusOK, status)
}
