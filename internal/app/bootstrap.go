package app

import (
	"errors"
	"fmt"

	"github.com/souq-next/internal/config"
	"github.com/souq-next/internal/logger"
	"github.com/souq-next/internal/provider"
	"github.com/souq-next/internal/router"
	"github.com/souq-next/internal/worker"
)

// BuildRunner 构建服务运行器
func BuildRunner(cfg *config.Config, mode string) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if !IsValidMode(mode) {
		return nil, fmt.Errorf("unknown mode %q", mode)
	}

	container := provider.NewContainer(cfg)
	return buildRunnerWithContainer(cfg, mode, container)
}

func buildRunnerWithContainer(cfg *config.Config, mode string, container *provider.Container) (*Runner, error) {
	var services []Service

	// 初始化 HTTP 服务
	if mode == ModeAll || mode == ModeAPI {
		engine := router.SetupRouter(cfg, container)
		addr := cfg.Server.Host + ":" + cfg.Server.Port
		services = append(services, NewHTTPService(addr, engine))
	}

	consumer := worker.NewConsumer(container)

	// 初始化 Worker 服务；未启用队列时由进程内调度器承担周期对账
	switch {
	case mode == ModeWorker || (mode == ModeAll && cfg.Queue.Enabled):
		workerService, err := worker.NewService(cfg, consumer)
		if err != nil {
			return nil, err
		}
		services = append(services, workerService)
	case mode == ModeAll || mode == ModeAPI:
		if !cfg.Queue.Enabled {
			if scheduler := worker.NewScheduler(cfg, consumer); scheduler != nil {
				logger.Infow("app_reconcile_scheduler_enabled", "interval", cfg.Finance.ReconcileInterval().String())
				services = append(services, scheduler)
			}
		}
	}

	if len(services) == 0 {
		return nil, errors.New("no services initialized (check mode and config)")
	}

	return NewRunner(services...), nil
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, err := BuildRunner(opts.Config, opts.Mode)
	if err != nil {
		return err
	}

	addr := opts.Config.Server.Host + ":" + opts.Config.Server.Port
	opts.Logger.Infow("app_start", "addr", addr, "mode", opts.Mode)
	return RunWithOptions(runner, opts)
}
