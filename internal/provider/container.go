package provider

import (
	"github.com/souq-next/internal/authz"
	"github.com/souq-next/internal/cache"
	"github.com/souq-next/internal/config"
	"github.com/souq-next/internal/logger"
	"github.com/souq-next/internal/models"
	"github.com/souq-next/internal/queue"
	"github.com/souq-next/internal/repository"
	"github.com/souq-next/internal/service"

	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	UserRepo         repository.UserRepository
	ProductRepo      repository.ProductRepository
	OrderRepo        repository.OrderRepository
	ReconcileRunRepo repository.ReconcileRunRepository

	// Services
	AuthzService           *authz.Service
	TokenService           *service.TokenService
	ScopeResolver          *service.ScopeResolver
	WarehouseService       *service.WarehouseService
	ProfitReconcileService *service.ProfitReconcileService
	FinanceService         *service.FinanceService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := NewContainerWithDB(cfg, models.DB)
	c.QueueClient = queueClient
	return c
}

// NewContainerWithDB 基于指定连接初始化仓库与服务
func NewContainerWithDB(cfg *config.Config, db *gorm.DB) *Container {
	c := &Container{Config: cfg}

	// 1. 初始化 Repositories
	c.initRepositories(db)

	// 2. 初始化 Services
	c.initServices(db)

	return c
}

func (c *Container) initRepositories(db *gorm.DB) {
	c.UserRepo = repository.NewUserRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.ReconcileRunRepo = repository.NewReconcileRunRepository(db)
}

func (c *Container) initServices(db *gorm.DB) {
	authzService, err := authz.NewService(db)
	if err != nil {
		logger.Errorw("provider_init_authz_service_failed", "error", err)
		panic(err)
	}
	if err := authzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_authz_roles_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService

	finance := c.Config.Finance
	c.TokenService = service.NewTokenService(c.Config.JWT)
	c.ScopeResolver = service.NewScopeResolver(c.UserRepo)
	c.WarehouseService = service.NewWarehouseService(c.ProductRepo, c.OrderRepo, c.Config.Inventory.DefaultCurrency)
	c.ProfitReconcileService = service.NewProfitReconcileService(
		c.OrderRepo,
		c.ProductRepo,
		c.ReconcileRunRepo,
		cache.NewRedisLock(),
		service.ProfitReconcileOptions{
			Epsilon: finance.Epsilon(),
			LockTTL: finance.ReconcileLockTTL(),
		},
	)
	c.FinanceService = service.NewFinanceService(c.OrderRepo, c.ReconcileRunRepo, c.ProfitReconcileService, finance.ReconcileOnRead)
}
