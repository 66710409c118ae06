package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/souq-next/internal/config"
	"github.com/souq-next/internal/constants"
	"github.com/souq-next/internal/logger"
	"github.com/souq-next/internal/queue"

	"github.com/hibiken/asynq"
)

// Service 异步队列服务
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer
	interval time.Duration
}

// NewService 创建异步队列服务
func NewService(cfg *config.Config, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Queue.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(&cfg.Queue)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:     "worker",
		server:   server,
		mux:      mux,
		consumer: consumer,
		interval: cfg.Finance.ReconcileInterval(),
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.interval > 0 && s.consumer != nil {
		go runProfitReconcileLoop(ctx, s.consumer, s.interval)
	}
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(_ context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	s.server.Shutdown()
	return nil
}

// Scheduler 未启用队列时的进程内周期对账
type Scheduler struct {
	consumer *Consumer
	interval time.Duration
	stop     chan struct{}
	once     sync.Once
}

// NewScheduler 创建周期对账调度器，间隔为 0 时返回 nil
func NewScheduler(cfg *config.Config, consumer *Consumer) *Scheduler {
	if cfg == nil || consumer == nil {
		return nil
	}
	interval := cfg.Finance.ReconcileInterval()
	if interval <= 0 {
		return nil
	}
	return &Scheduler{consumer: consumer, interval: interval, stop: make(chan struct{})}
}

// Name 服务名称
func (s *Scheduler) Name() string {
	return "reconcile-scheduler"
}

// Start 启动调度，阻塞直到 ctx 结束或 Stop
func (s *Scheduler) Start(ctx context.Context) error {
	if s == nil || s.consumer == nil {
		return errors.New("scheduler not initialized")
	}
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-s.stop:
			cancel()
		case <-runCtx.Done():
		}
	}()
	runProfitReconcileLoop(runCtx, s.consumer, s.interval)
	return nil
}

// Stop 停止调度
func (s *Scheduler) Stop(_ context.Context) error {
	if s == nil {
		return nil
	}
	s.once.Do(func() { close(s.stop) })
	return nil
}

func runProfitReconcileLoop(ctx context.Context, consumer *Consumer, interval time.Duration) {
	if consumer == nil || consumer.Container == nil || consumer.ProfitReconcileService == nil || interval <= 0 {
		return
	}
	runOnce := func() {
		if err := consumer.runProfitReconcile(ctx, constants.ReconcileTriggerSchedule, 0); err != nil {
			logger.Warnw("worker_profit_reconcile_schedule_failed", "error", err)
		}
	}
	runOnce()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
